package scraper

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"nepremwatch/helpers"
)

// ExtractTotalPages reads the result page count from the pagination
// marker, defaulting to 1 when it is absent or unreadable
func ExtractTotalPages(doc *goquery.Document) int {
	pages, ok := doc.Find("#pagination ul[data-pages]").First().Attr("data-pages")
	if !ok || pages == "" {
		return 1
	}
	n, err := strconv.Atoi(strings.TrimSpace(pages))
	if err != nil {
		return 1
	}
	return n
}

// PageURL builds the URL for a result page. Page 1 is the base itself.
func PageURL(base string, page int) string {
	if page <= 1 {
		return base
	}
	if strings.HasSuffix(base, "/") {
		return fmt.Sprintf("%s%d/", base, page)
	}
	return fmt.Sprintf("%s/%d/", base, page)
}

// ExtractCards parses one index page into candidate records. Cards with
// no resolvable URL are dropped since they cannot be identified.
func ExtractCards(doc *goquery.Document, baseURL string, selectors Selectors) []Card {
	cards := findAll(doc.Selection, selectors.Card)
	if cards == nil {
		return nil
	}

	var out []Card
	cards.Each(func(_ int, sel *goquery.Selection) {
		if card, ok := extractCard(sel, baseURL, selectors); ok {
			out = append(out, card)
		}
	})
	return out
}

func extractCard(card *goquery.Selection, baseURL string, selectors Selectors) (Card, bool) {
	url := cardURL(card, baseURL, selectors)
	if url == "" {
		return Card{}, false
	}

	c := Card{URL: url}

	if title := findFirst(card, selectors.Title); title != nil {
		c.Title = strings.TrimSpace(title.Text())
	}
	if c.Title == "" {
		c.Title = url
	}

	c.PriceAmount = ParseNumber(cardPriceText(card, selectors))
	if currency, ok := card.Find("meta[itemprop=priceCurrency]").First().Attr("content"); ok {
		c.Currency = strings.TrimSpace(currency)
	}

	if location := findFirst(card, selectors.Location); location != nil {
		c.Summary.Location = strings.TrimSpace(location.Text())
	}

	c.Description = strings.TrimSpace(card.Find("[itemprop=description]").First().Text())
	c.Labels = cardLabels(card)
	c.Summary.ListingType, c.Summary.RoomType = cardTypes(card)

	fillIconAttributes(card, &c.Summary)
	if c.Summary.YearBuilt == "" {
		c.Summary.YearBuilt = ExtractYearBuilt(c.Description)
	}
	c.Summary.RenovationYear = ExtractRenovationYear(c.Description)
	c.Summary.IsNewBuilding = ExtractIsNewBuilding(c.Description)

	c.AgencyName, c.AgencyURL, c.AgencyPhone = cardAgency(card)
	c.Summary.Images = cardImages(card)

	return c, true
}

// cardURL resolves the card's link, falling back to the canonical URL meta
func cardURL(card *goquery.Selection, baseURL string, selectors Selectors) string {
	if link := findFirst(card, selectors.Link); link != nil {
		if href, ok := link.Attr("href"); ok && href != "" {
			return NormalizeURL(baseURL, href)
		}
	}
	if content, ok := card.Find("meta[itemprop=mainEntityOfPage]").First().Attr("content"); ok && content != "" {
		return NormalizeURL(baseURL, content)
	}
	return ""
}

// cardPriceText reads the price from a content attribute when the match is
// a meta element, else from its visible text
func cardPriceText(card *goquery.Selection, selectors Selectors) string {
	price := findFirst(card, selectors.Price)
	if price == nil {
		return ""
	}
	if goquery.NodeName(price) == "meta" {
		content, _ := price.Attr("content")
		return strings.TrimSpace(content)
	}
	return strings.TrimSpace(price.Text())
}

func cardLabels(card *goquery.Selection) []string {
	var labels []string
	card.Find(".labels-left span.label").Each(func(_ int, label *goquery.Selection) {
		if text := strings.TrimSpace(label.Text()); text != "" {
			labels = append(labels, text)
		}
	})
	return uniqueStrings(labels)
}

// cardTypes splits the card's type line, e.g. "Prodaja: Stanovanje, 3-sobno"
func cardTypes(card *goquery.Selection) (listingType, roomType string) {
	typeSel := card.Find(".font-roboto").First()
	if typeSel.Length() == 0 {
		return "", ""
	}
	text := helpers.NormalizeSpace(typeSel.Text())

	if idx := strings.Index(text, ":"); idx >= 0 {
		text = strings.TrimSpace(text[idx+1:])
	}
	if idx := strings.Index(text, ","); idx >= 0 {
		return strings.TrimSpace(text[:idx]), strings.TrimSpace(text[idx+1:])
	}
	return strings.TrimSpace(text), ""
}

// fillIconAttributes reads the icon+text attribute strip. The icon alt
// text says which field the value belongs to; filled fields are kept.
func fillIconAttributes(card *goquery.Selection, f *Fields) {
	card.Find("[itemprop=disambiguatingDescription] li").Each(func(_ int, li *goquery.Selection) {
		alt, _ := li.Find("img").First().Attr("alt")
		alt = strings.TrimSpace(alt)
		text := helpers.NormalizeSpace(li.Text())

		switch {
		case strings.Contains(alt, "Velikost") && f.AreaM2 == "":
			f.AreaM2 = ParseNumber(text)
		case strings.Contains(alt, "Leto") && f.YearBuilt == "":
			f.YearBuilt = ParseNumber(text)
		case strings.Contains(alt, "Nad") && f.Floor == "":
			f.Floor = NormalizeFloor(text)
		}
	})
}

func cardAgency(card *goquery.Selection) (name, url, phone string) {
	if nameSel := card.Find("[itemprop=seller] [itemprop=name]").First(); nameSel.Length() > 0 {
		if content, ok := nameSel.Attr("content"); ok && strings.TrimSpace(content) != "" {
			name = strings.TrimSpace(content)
		} else {
			name = strings.TrimSpace(nameSel.Text())
		}
	}
	if href, ok := card.Find("[itemprop=seller] link[itemprop=url]").First().Attr("href"); ok {
		url = strings.TrimSpace(href)
	}
	if phoneSel := card.Find("[itemprop=seller] a[href^='tel:']").First(); phoneSel.Length() > 0 {
		phone = strings.TrimSpace(phoneSel.Text())
	}
	return name, url, phone
}

func cardImages(card *goquery.Selection) []string {
	var images []string
	card.Find("img[data-src], img[src]").Each(func(_ int, img *goquery.Selection) {
		src, ok := img.Attr("data-src")
		if !ok || src == "" {
			src, _ = img.Attr("src")
		}
		if src != "" && IsListingImage(src) {
			images = append(images, src)
		}
	})
	return uniqueStrings(images)
}
