package scraper

import (
	"os"

	"github.com/PuerkitoBio/goquery"
	"gopkg.in/yaml.v2"

	"nepremwatch/pkg/errors"
)

// Chain is an ordered list of CSS selectors tried until one matches.
// Each entry may itself be a selector group.
type Chain []string

// Selectors bundles the fallback chains the summary extractor needs.
// Keeping them injectable lets operators follow site markup drift
// without a code change.
type Selectors struct {
	Card     Chain `yaml:"card"`
	Link     Chain `yaml:"link"`
	Title    Chain `yaml:"title"`
	Price    Chain `yaml:"price"`
	Location Chain `yaml:"location"`
}

// DefaultSelectors returns the chains matching the site's current markup.
// The second card entry catches the schema.org variant of the result list.
func DefaultSelectors() Selectors {
	return Selectors{
		Card: Chain{
			".property-box, .oglas_container, article",
			".property-box[itemprop='item'], .property-box",
		},
		Link:     Chain{"a.url-title-d, a.url-title-m, a[href]"},
		Title:    Chain{"a.url-title-d h2, a.url-title-m h2, h2, h3, .title"},
		Price:    Chain{"meta[itemprop=price], .price, h6"},
		Location: Chain{".location, .lokacija, .property-location, .property-details .location"},
	}
}

// LoadSelectorsFile reads selector chains from a YAML file. Chains absent
// from the file keep their defaults.
func LoadSelectorsFile(path string) (Selectors, error) {
	selectors := DefaultSelectors()

	data, err := os.ReadFile(path)
	if err != nil {
		return selectors, errors.NewConfiguration("selectors", "failed to read selectors file", err)
	}

	var loaded Selectors
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return selectors, errors.NewConfiguration("selectors", "failed to parse selectors file", err)
	}

	if len(loaded.Card) > 0 {
		selectors.Card = loaded.Card
	}
	if len(loaded.Link) > 0 {
		selectors.Link = loaded.Link
	}
	if len(loaded.Title) > 0 {
		selectors.Title = loaded.Title
	}
	if len(loaded.Price) > 0 {
		selectors.Price = loaded.Price
	}
	if len(loaded.Location) > 0 {
		selectors.Location = loaded.Location
	}
	return selectors, nil
}

// Override replaces whole chains with single-selector entries. Empty
// values leave the existing chain in place.
func (s *Selectors) Override(card, link, title, price, location string) {
	if card != "" {
		s.Card = Chain{card}
	}
	if link != "" {
		s.Link = Chain{link}
	}
	if title != "" {
		s.Title = Chain{title}
	}
	if price != "" {
		s.Price = Chain{price}
	}
	if location != "" {
		s.Location = Chain{location}
	}
}

// findFirst returns the first element matched by the first chain entry
// that matches anything under root, or nil when no entry matches.
func findFirst(root *goquery.Selection, chain Chain) *goquery.Selection {
	for _, selector := range chain {
		if m := root.Find(selector); m.Length() > 0 {
			return m.First()
		}
	}
	return nil
}

// findAll returns every element matched by the first chain entry that
// matches anything under root.
func findAll(root *goquery.Selection, chain Chain) *goquery.Selection {
	for _, selector := range chain {
		if m := root.Find(selector); m.Length() > 0 {
			return m
		}
	}
	return nil
}
