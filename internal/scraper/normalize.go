package scraper

import (
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	numberRe    = regexp.MustCompile(`\d[\d.,]*`)
	imageExtRe  = regexp.MustCompile(`(?i)\.(jpg|jpeg|png|webp)$`)
	floorUnitRe = regexp.MustCompile(`(?i)\bm2\b`)

	// inflected Slovenian "built in year X" forms, tried in order
	yearBuiltPatterns = []*regexp.Regexp{
		regexp.MustCompile(`zgr\.\s*l\.\s*(\d{4})`),
		regexp.MustCompile(`zgrajen[ao]?\s*l\.\s*(\d{4})`),
	}

	// inflected "renovated in year X" forms
	renovationPatterns = []*regexp.Regexp{
		regexp.MustCompile(`adaptiran[ao]?\s*l\.\s*(\d{4})`),
		regexp.MustCompile(`prenovljen[ao]?\s*l\.\s*(\d{4})`),
	}

	unitStripper = strings.NewReplacer(
		" ", " ",
		"€", "",
		"EUR", "",
		"m²", "",
		"m2", "",
	)
)

// ParseNumber extracts the first number from free text and normalizes its
// punctuation to "." as the decimal separator. Currency symbols, non-breaking
// spaces and area units are stripped first. When both "," and "." appear,
// "." is a thousands separator and "," the decimal one; a lone "," is a
// decimal separator; a lone "." is kept as-is. Returns "" when the text
// holds no digits.
func ParseNumber(text string) string {
	if text == "" {
		return ""
	}
	cleaned := strings.TrimSpace(unitStripper.Replace(text))

	value := numberRe.FindString(cleaned)
	if value == "" {
		return ""
	}

	hasComma := strings.Contains(value, ",")
	hasDot := strings.Contains(value, ".")
	switch {
	case hasComma && hasDot:
		value = strings.ReplaceAll(value, ".", "")
		value = strings.ReplaceAll(value, ",", ".")
	case hasComma:
		value = strings.ReplaceAll(value, ",", ".")
	}
	return value
}

// ExtractYearBuilt finds a four-digit construction year in free text
func ExtractYearBuilt(text string) string {
	return firstYearMatch(text, yearBuiltPatterns)
}

// ExtractRenovationYear finds a four-digit renovation year in free text
func ExtractRenovationYear(text string) string {
	return firstYearMatch(text, renovationPatterns)
}

func firstYearMatch(text string, patterns []*regexp.Regexp) string {
	if text == "" {
		return ""
	}
	lowered := strings.ToLower(text)
	for _, re := range patterns {
		if m := re.FindStringSubmatch(lowered); m != nil {
			return m[1]
		}
	}
	return ""
}

// ExtractIsNewBuilding returns "1" when the text mentions new construction
func ExtractIsNewBuilding(text string) string {
	if text == "" {
		return ""
	}
	lowered := strings.ToLower(text)
	if strings.Contains(lowered, "novogradnja") || strings.Contains(lowered, "novogradnje") {
		return "1"
	}
	return ""
}

// IsListingImage reports whether url points at a genuine listing photo:
// the site's image host, the ad asset path, and an image extension.
func IsListingImage(url string) bool {
	if url == "" {
		return false
	}
	if !strings.Contains(url, "img.nepremicnine.net") {
		return false
	}
	if !strings.Contains(url, "/slonep_oglasi") {
		return false
	}
	return imageExtRe.MatchString(url)
}

// NormalizeURL resolves href against base and strips the fragment.
// The result is the listing's identity key, so the function must be
// idempotent. Returns "" when either input cannot be parsed.
func NormalizeURL(base, href string) string {
	b, err := url.Parse(base)
	if err != nil {
		return ""
	}
	h, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return ""
	}
	abs := b.ResolveReference(h)
	abs.Fragment = ""
	return abs.String()
}

// NormalizeFloor trims a floor value and discards it entirely when it
// carries an area unit, which means the selector picked up the wrong cell.
// TODO: revisit once the card markup settles; this guards against the icon
// list occasionally serving size text under the floor icon.
func NormalizeFloor(value string) string {
	candidate := strings.TrimSpace(value)
	if candidate == "" {
		return ""
	}
	if floorUnitRe.MatchString(candidate) {
		return ""
	}
	return candidate
}

// TitleCase capitalizes each word using Slovenian casing rules
func TitleCase(s string) string {
	return cases.Title(language.Slovenian).String(s)
}
