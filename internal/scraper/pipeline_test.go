package scraper

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nepremwatch/pkg/errors"
)

// stubFetcher serves canned HTML keyed by URL
type stubFetcher struct {
	mu    sync.Mutex
	pages map[string]string
	fail  map[string]bool
	calls map[string]int
}

func newStubFetcher() *stubFetcher {
	return &stubFetcher{
		pages: make(map[string]string),
		fail:  make(map[string]bool),
		calls: make(map[string]int),
	}
}

func (s *stubFetcher) Fetch(_ context.Context, url string) (string, error) {
	s.mu.Lock()
	s.calls[url]++
	s.mu.Unlock()

	if s.fail[url] {
		return "", errors.NewFetch(url, "stubbed failure", nil)
	}
	html, ok := s.pages[url]
	if !ok {
		return "", errors.NewFetch(url, "no such page", nil)
	}
	return html, nil
}

func (s *stubFetcher) callCount(url string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[url]
}

func cardHTML(path, title string) string {
	return fmt.Sprintf(`<div class="property-box">
<a class="url-title-d" href="%s"><h2>%s</h2></a>
<meta itemprop="price" content="100.000,00">
<meta itemprop="priceCurrency" content="EUR">
<span class="location">Ljubljana</span>
<div class="labels-left"><span class="label">Novo</span></div>
</div>`, path, title)
}

func detailHTML(area string) string {
	return fmt.Sprintf(`<html><head><title>Oglas</title></head><body>
<ul id="atributi">
<li>Velikost: %s m2</li>
<li>Št. spalnic: 2</li>
<li>Št. kopalnic: 1</li>
</ul>
<a data-fancybox="gallery_1" data-src="https://img.nepremicnine.net/slonep_oglasi/d.jpg">x</a>
</body></html>`, area)
}

const pipelineBase = "https://www.nepremicnine.net/stanovanja/"

func TestPipelineScrape(t *testing.T) {
	fetcher := newStubFetcher()
	fetcher.pages[pipelineBase] = `<html><head><title>Oglasi</title></head><body>` +
		cardHTML("/oglas-1/", "Prvi oglas") +
		cardHTML("/oglas-2/", "Drugi oglas") +
		`</body></html>`
	fetcher.pages["https://www.nepremicnine.net/oglas-1/"] = detailHTML("70,5")
	fetcher.pages["https://www.nepremicnine.net/oglas-2/"] = detailHTML("120")

	p := NewPipeline(fetcher, Options{BaseURL: pipelineBase})
	listings, err := p.Scrape(context.Background())
	require.NoError(t, err)
	require.Len(t, listings, 2)

	assert.Equal(t, "Prvi oglas", listings[0].Title)
	assert.Equal(t, "https://www.nepremicnine.net/oglas-1/", listings[0].URL)
	assert.Equal(t, "100000.00", listings[0].PriceAmount)
	assert.Equal(t, "EUR", listings[0].Currency)
	assert.Equal(t, "Ljubljana", listings[0].Location)
	assert.Equal(t, "70.5", listings[0].AreaM2, "area comes from the detail page")
	assert.Equal(t, "2", listings[0].BedroomsCount)
	assert.Equal(t, "1", listings[0].BathroomsCount)
	assert.Equal(t, "Novo", listings[0].Labels)
	assert.Equal(t, "https://img.nepremicnine.net/slonep_oglasi/d.jpg", listings[0].Images)

	assert.Equal(t, "Drugi oglas", listings[1].Title)
	assert.Equal(t, "120", listings[1].AreaM2)
}

func TestPipelineChallengeAborts(t *testing.T) {
	fetcher := newStubFetcher()
	fetcher.pages[pipelineBase] = `<html><head><title>Just a moment...</title></head><body></body></html>`

	p := NewPipeline(fetcher, Options{BaseURL: pipelineBase})
	_, err := p.Scrape(context.Background())

	require.Error(t, err)
	assert.True(t, errors.IsChallenge(err))
	assert.Contains(t, err.Error(), "FETCH_STRATEGY=chrome")
}

func TestPipelineDetailFailureDegrades(t *testing.T) {
	fetcher := newStubFetcher()
	fetcher.pages[pipelineBase] = `<html><head><title>Oglasi</title></head><body>` +
		cardHTML("/oglas-1/", "Prvi oglas") +
		cardHTML("/oglas-2/", "Drugi oglas") +
		`</body></html>`
	fetcher.pages["https://www.nepremicnine.net/oglas-1/"] = detailHTML("70")
	fetcher.fail["https://www.nepremicnine.net/oglas-2/"] = true

	p := NewPipeline(fetcher, Options{BaseURL: pipelineBase})
	listings, err := p.Scrape(context.Background())
	require.NoError(t, err, "a detail failure must not abort the run")
	require.Len(t, listings, 2)

	assert.Equal(t, "70", listings[0].AreaM2)
	assert.Equal(t, "2", listings[0].BedroomsCount)

	assert.Equal(t, "Drugi oglas", listings[1].Title, "order is preserved")
	assert.Equal(t, "Ljubljana", listings[1].Location, "summary fields survive")
	assert.Equal(t, "", listings[1].AreaM2)
	assert.Equal(t, "", listings[1].BedroomsCount)
	assert.Equal(t, "", listings[1].BathroomsCount)
}

func TestPipelineSummaryFailureAborts(t *testing.T) {
	fetcher := newStubFetcher()
	fetcher.fail[pipelineBase] = true

	p := NewPipeline(fetcher, Options{BaseURL: pipelineBase})
	_, err := p.Scrape(context.Background())

	require.Error(t, err)
	assert.True(t, errors.IsFetch(err))
}

func TestPipelineAllPages(t *testing.T) {
	fetcher := newStubFetcher()
	fetcher.pages[pipelineBase] = `<html><head><title>Oglasi</title></head><body>` +
		`<div id="pagination"><ul data-pages="2"></ul></div>` +
		cardHTML("/oglas-1/", "Prvi oglas") +
		`</body></html>`
	fetcher.pages[pipelineBase+"2/"] = `<html><head><title>Oglasi 2</title></head><body>` +
		cardHTML("/oglas-2/", "Drugi oglas") +
		cardHTML("/oglas-1/", "Prvi oglas ponovno") +
		`</body></html>`
	fetcher.pages["https://www.nepremicnine.net/oglas-1/"] = detailHTML("70")
	fetcher.pages["https://www.nepremicnine.net/oglas-2/"] = detailHTML("80")

	p := NewPipeline(fetcher, Options{BaseURL: pipelineBase, AllPages: true})
	listings, err := p.Scrape(context.Background())
	require.NoError(t, err)

	require.Len(t, listings, 2, "repeated URL across pages is deduplicated")
	assert.Equal(t, "Prvi oglas", listings[0].Title, "first occurrence wins")
	assert.Equal(t, "Drugi oglas", listings[1].Title)

	assert.Equal(t, 1, fetcher.callCount(pipelineBase), "page 1 markup is reused, not re-fetched")
	assert.Equal(t, 1, fetcher.callCount(pipelineBase+"2/"))
}

func TestPipelineSinglePageByDefault(t *testing.T) {
	fetcher := newStubFetcher()
	fetcher.pages[pipelineBase] = `<html><head><title>Oglasi</title></head><body>` +
		`<div id="pagination"><ul data-pages="5"></ul></div>` +
		cardHTML("/oglas-1/", "Prvi oglas") +
		`</body></html>`
	fetcher.pages["https://www.nepremicnine.net/oglas-1/"] = detailHTML("70")

	p := NewPipeline(fetcher, Options{BaseURL: pipelineBase})
	listings, err := p.Scrape(context.Background())
	require.NoError(t, err)

	assert.Len(t, listings, 1)
	assert.Equal(t, 0, fetcher.callCount(pipelineBase+"2/"))
}
