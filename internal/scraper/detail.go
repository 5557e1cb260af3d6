package scraper

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"nepremwatch/helpers"
)

var (
	regionRe       = regexp.MustCompile(`Regija:\s*([^|]+)`)
	adminUnitRe    = regexp.MustCompile(`Upravna enota:\s*([^|]+)`)
	municipalityRe = regexp.MustCompile(`Občina:\s*([^|]+)`)
	settlementRe   = regexp.MustCompile(`(?i)naselje:\s*([^|]+)`)
)

// ExtractDetail pulls the full field set out of one listing's detail page
func ExtractDetail(doc *goquery.Document) Fields {
	var f Fields

	doc.Find("#atributi li").Each(func(_ int, li *goquery.Selection) {
		text := helpers.NormalizeSpace(li.Text())
		switch {
		case strings.HasPrefix(text, "Velikost"):
			f.AreaM2 = ParseNumber(text)
		case strings.HasPrefix(text, "Nadstropje"):
			f.Floor = afterLabel(text)
		case strings.HasPrefix(text, "Leto"):
			f.YearBuilt = ParseNumber(text)
		}
		if strings.Contains(text, "Št. spalnic") {
			f.BedroomsCount = ParseNumber(text)
		} else if strings.Contains(text, "Št. kopalnic") {
			f.BathroomsCount = ParseNumber(text)
		}
	})

	metaText, _ := doc.Find("meta[name=Description]").First().Attr("content")
	if f.YearBuilt == "" {
		f.YearBuilt = ExtractYearBuilt(metaText)
	}
	f.RenovationYear = ExtractRenovationYear(metaText)
	f.IsNewBuilding = ExtractIsNewBuilding(metaText)

	f.Location = extractDetailLocation(doc)
	f.Images = extractGalleryImages(doc)
	f.ListingType, f.RoomType = extractDetailTypes(doc)

	return f
}

// afterLabel returns the text after the first colon, or the whole text
// when there is none
func afterLabel(text string) string {
	if idx := strings.Index(text, ":"); idx >= 0 {
		return strings.TrimSpace(text[idx+1:])
	}
	return strings.TrimSpace(text)
}

// extractDetailLocation reads the location info block, preferring the most
// specific place name: settlement, then municipality, then administrative
// unit, then region.
func extractDetailLocation(doc *goquery.Document) string {
	block := doc.Find(".more_info").First()
	if block.Length() == 0 {
		return ""
	}
	text := helpers.NormalizeSpace(block.Text())

	for _, re := range []*regexp.Regexp{settlementRe, municipalityRe, adminUnitRe, regionRe} {
		if m := re.FindStringSubmatch(text); m != nil {
			if v := strings.TrimSpace(m[1]); v != "" {
				return v
			}
		}
	}
	return ""
}

func extractGalleryImages(doc *goquery.Document) []string {
	var images []string
	doc.Find("a[data-fancybox^='gallery_']").Each(func(_ int, a *goquery.Selection) {
		src, ok := a.Attr("data-src")
		if !ok || src == "" {
			src, _ = a.Attr("href")
		}
		if src != "" && IsListingImage(src) {
			images = append(images, src)
		}
	})
	return uniqueStrings(images)
}

// extractDetailTypes splits the heading subtitle, which has the shape
// "<name> - <transaction>, <type>, <rooms>"
func extractDetailTypes(doc *goquery.Document) (listingType, roomType string) {
	heading := doc.Find("h1[itemprop=name]").First()
	if heading.Length() == 0 {
		return "", ""
	}
	text := helpers.NormalizeSpace(heading.Text())

	idx := strings.Index(text, " - ")
	if idx < 0 {
		return "", ""
	}
	suffix := text[idx+len(" - "):]

	parts := make([]string, 0, 3)
	for _, part := range strings.SplitN(suffix, ",", 3) {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	if len(parts) >= 2 {
		listingType = TitleCase(parts[1])
	}
	if len(parts) >= 3 {
		roomType = parts[2]
	}
	return listingType, roomType
}
