package scraper

import (
	"context"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"

	"nepremwatch/logger"
	"nepremwatch/pkg/errors"
)

// DefaultDetailWorkers bounds concurrent detail-page fetches
const DefaultDetailWorkers = 4

// Fetcher retrieves a page's HTML decoded to UTF-8
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Options configures a Pipeline
type Options struct {
	BaseURL       string
	Selectors     Selectors
	AllPages      bool
	DetailWorkers int
}

// Pipeline walks the paginated result pages, enriches every card from its
// detail page and returns the deduplicated record list.
type Pipeline struct {
	fetcher   Fetcher
	baseURL   string
	selectors Selectors
	allPages  bool
	workers   int
}

// NewPipeline creates a pipeline using the given fetcher
func NewPipeline(fetcher Fetcher, opts Options) *Pipeline {
	workers := opts.DetailWorkers
	if workers <= 0 {
		workers = DefaultDetailWorkers
	}
	selectors := opts.Selectors
	if len(selectors.Card) == 0 {
		selectors = DefaultSelectors()
	}
	return &Pipeline{
		fetcher:   fetcher,
		baseURL:   opts.BaseURL,
		selectors: selectors,
		allPages:  opts.AllPages,
		workers:   workers,
	}
}

// Scrape runs one full extraction pass and returns listings in stable
// first-seen order. A challenge interstitial on the first page aborts the
// whole run; failures on detail pages only degrade their own card.
func (p *Pipeline) Scrape(ctx context.Context) ([]Listing, error) {
	html, err := p.fetcher.Fetch(ctx, p.baseURL)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, errors.NewParsing(p.baseURL, "failed to parse index page", err)
	}
	if IsChallengePage(doc) {
		return nil, errors.NewChallenge(p.baseURL)
	}

	totalPages := 1
	if p.allPages {
		totalPages = ExtractTotalPages(doc)
	}
	logger.Debug("scraping %s across %d page(s)", p.baseURL, totalPages)

	var listings []Listing
	for page := 1; page <= totalPages; page++ {
		pageDoc := doc
		if page > 1 {
			pageDoc, err = p.fetchPage(ctx, PageURL(p.baseURL, page))
			if err != nil {
				return nil, err
			}
		}

		cards := ExtractCards(pageDoc, p.baseURL, p.selectors)
		logger.Debug("page %d/%d yielded %d card(s)", page, totalPages, len(cards))
		listings = append(listings, p.enrich(ctx, cards)...)
	}

	return Dedupe(listings), nil
}

func (p *Pipeline) fetchPage(ctx context.Context, url string) (*goquery.Document, error) {
	html, err := p.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, errors.NewParsing(url, "failed to parse result page", err)
	}
	return doc, nil
}

// enrich fetches every card's detail page on a bounded worker pool.
// Results land in per-index slots so output order stays extraction order,
// and one failed enrichment cannot abort the others: that card degrades
// to its summary fields with empty room counts.
func (p *Pipeline) enrich(ctx context.Context, cards []Card) []Listing {
	listings := make([]Listing, len(cards))
	sem := make(chan struct{}, p.workers)
	var wg sync.WaitGroup

	for i, card := range cards {
		wg.Add(1)
		go func(i int, card Card) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			detail, err := p.fetchDetail(ctx, card.URL)
			if err != nil {
				logger.Warn("detail fetch for %s failed, keeping summary fields: %v", card.URL, err)
				detail = Fields{}
			}
			listings[i] = Merge(card, detail)
		}(i, card)
	}
	wg.Wait()

	return listings
}

func (p *Pipeline) fetchDetail(ctx context.Context, url string) (Fields, error) {
	html, err := p.fetcher.Fetch(ctx, url)
	if err != nil {
		return Fields{}, err
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return Fields{}, errors.NewParsing(url, "failed to parse detail page", err)
	}
	return ExtractDetail(doc), nil
}

// IsChallengePage reports whether doc is an anti-bot interstitial rather
// than real content
func IsChallengePage(doc *goquery.Document) bool {
	title := strings.TrimSpace(doc.Find("title").First().Text())
	return strings.Contains(strings.ToLower(title), "just a moment")
}

// Dedupe keeps the first occurrence per URL, preserving relative order of
// the kept listings
func Dedupe(listings []Listing) []Listing {
	seen := make(map[string]struct{}, len(listings))
	out := make([]Listing, 0, len(listings))
	for _, l := range listings {
		if _, ok := seen[l.URL]; ok {
			continue
		}
		seen[l.URL] = struct{}{}
		out = append(out, l)
	}
	return out
}
