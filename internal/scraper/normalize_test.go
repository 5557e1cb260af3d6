package scraper

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseNumber(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"thousands dot with decimal comma", "1.234,56", "1234.56"},
		{"decimal comma only", "3,5", "3.5"},
		{"area with unit", "120 m²", "120"},
		{"area with ascii unit", "78 m2", "78"},
		{"price with currency", "285.000,00 €", "285000.00"},
		{"lone dot kept", "285.000", "285.000"},
		{"eur word", "1500 EUR", "1500"},
		{"non-breaking space", "1 500,50", "1500.50"},
		{"text around number", "Velikost: 65,5 m2", "65.5"},
		{"no digits", "ni podatka", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseNumber(tt.input))
		})
	}
}

func TestExtractYearBuilt(t *testing.T) {
	assert.Equal(t, "2005", ExtractYearBuilt("Lepa hiša, zgr. l. 2005, blizu centra"))
	assert.Equal(t, "1999", ExtractYearBuilt("zgrajena l. 1999"))
	assert.Equal(t, "2010", ExtractYearBuilt("Zgrajeno l. 2010, vseljivo takoj"))
	assert.Equal(t, "1985", ExtractYearBuilt("Objekt zgrajen l. 1985"))
	assert.Equal(t, "", ExtractYearBuilt("brez letnice"))
	assert.Equal(t, "", ExtractYearBuilt(""))
}

func TestExtractRenovationYear(t *testing.T) {
	assert.Equal(t, "2018", ExtractRenovationYear("adaptirano l. 2018"))
	assert.Equal(t, "2021", ExtractRenovationYear("Prenovljena l. 2021"))
	assert.Equal(t, "2015", ExtractRenovationYear("zgr. l. 1978, adaptiran l. 2015"))
	assert.Equal(t, "", ExtractRenovationYear("zgr. l. 1978"))
}

func TestExtractIsNewBuilding(t *testing.T) {
	assert.Equal(t, "1", ExtractIsNewBuilding("Novogradnja v centru"))
	assert.Equal(t, "1", ExtractIsNewBuilding("cena novogradnje"))
	assert.Equal(t, "", ExtractIsNewBuilding("starejša hiša"))
	assert.Equal(t, "", ExtractIsNewBuilding(""))
}

func TestIsListingImage(t *testing.T) {
	assert.True(t, IsListingImage("https://img.nepremicnine.net/slonep_oglasi/123.jpg"))
	assert.True(t, IsListingImage("https://img.nepremicnine.net/slonep_oglasi/123.JPG"))
	assert.True(t, IsListingImage("https://img.nepremicnine.net/slonep_oglasi/a/b.webp"))

	assert.False(t, IsListingImage("https://example.com/slonep_oglasi/123.jpg"))
	assert.False(t, IsListingImage("https://img.nepremicnine.net/other/123.jpg"))
	assert.False(t, IsListingImage("https://img.nepremicnine.net/slonep_oglasi/icon.svg"))
	assert.False(t, IsListingImage("https://img.nepremicnine.net/slonep_oglasi/123.jpg?w=100"))
	assert.False(t, IsListingImage(""))
}

func TestNormalizeURL(t *testing.T) {
	base := "https://www.nepremicnine.net/"

	assert.Equal(t,
		"https://www.nepremicnine.net/oglasi-prodaja/stan-1/",
		NormalizeURL(base, "/oglasi-prodaja/stan-1/"))

	// fragments never survive
	assert.Equal(t,
		"https://www.nepremicnine.net/oglasi-prodaja/stan-1/",
		NormalizeURL(base, "/oglasi-prodaja/stan-1/#galerija"))

	// absolute hrefs pass through
	assert.Equal(t,
		"https://other.example/x",
		NormalizeURL(base, "https://other.example/x#frag"))
}

func TestNormalizeURLIdempotent(t *testing.T) {
	base := "https://www.nepremicnine.net/"
	once := NormalizeURL(base, "/oglasi-prodaja/stan-1/#b")
	twice := NormalizeURL(base, once)
	assert.Equal(t, once, twice)
}

func TestNormalizeFloor(t *testing.T) {
	assert.Equal(t, "3/5", NormalizeFloor("3/5"))
	assert.Equal(t, "2. nadstropje", NormalizeFloor("  2. nadstropje "))
	assert.Equal(t, "", NormalizeFloor("120 m2"))
	assert.Equal(t, "", NormalizeFloor("120 M2"))
	assert.Equal(t, "", NormalizeFloor(""))
}

func TestTitleCase(t *testing.T) {
	assert.Equal(t, "Stanovanje", TitleCase("stanovanje"))
	assert.Equal(t, "Počitniški Objekt", TitleCase("počitniški objekt"))
}
