package fetch

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"nepremwatch/helpers"
	"nepremwatch/logger"
	"nepremwatch/pkg/errors"
	"nepremwatch/services/cache"
)

const (
	// StrategyPlain fetches with a plain HTTP client
	StrategyPlain = "plain"
	// StrategyChrome fetches through a headless Chrome instance
	StrategyChrome = "chrome"

	// PlainTimeout bounds a single plain HTTP fetch
	PlainTimeout = 20 * time.Second
	// ChromeTimeout bounds a single rendered fetch, challenge solving included
	ChromeTimeout = 60 * time.Second

	// RateLimitBlock is how long fetches fail fast after the site answered
	// with a rate-limit status
	RateLimitBlock = 5 * time.Minute

	rateLimitKey = "nepremwatch:rate_limited"
)

// Fetcher retrieves a page and returns its HTML decoded to UTF-8
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
	Close() error
}

// New creates a Fetcher for the given strategy. delay is the minimum
// spacing between requests against the site; cooldown may be nil to
// disable rate-limit blocking.
func New(strategy string, delay time.Duration, cooldown cache.Cache) (Fetcher, error) {
	switch strategy {
	case StrategyPlain, "":
		return NewPlainFetcher(delay, cooldown), nil
	case StrategyChrome:
		return NewChromeFetcher(delay)
	default:
		return nil, errors.NewConfiguration("fetch",
			fmt.Sprintf("unknown fetch strategy %q (want %s or %s)", strategy, StrategyPlain, StrategyChrome), nil)
	}
}

// PlainFetcher fetches pages with net/http and browser-like headers
type PlainFetcher struct {
	client   *http.Client
	limiter  *rate.Limiter
	cooldown cache.Cache
}

// NewPlainFetcher creates a PlainFetcher spacing requests by delay
func NewPlainFetcher(delay time.Duration, cooldown cache.Cache) *PlainFetcher {
	return &PlainFetcher{
		client:   &http.Client{},
		limiter:  newLimiter(delay),
		cooldown: cooldown,
	}
}

// Fetch retrieves url and returns the decoded body. While a rate-limit
// block is live every call fails fast without touching the site.
func (f *PlainFetcher) Fetch(ctx context.Context, url string) (string, error) {
	if f.cooldown != nil {
		if _, err := f.cooldown.Get(rateLimitKey); err == nil {
			return "", errors.NewFetch(url, "rate limited, holding off further requests", nil)
		}
	}

	if err := f.limiter.Wait(ctx); err != nil {
		return "", errors.NewFetch(url, "interrupted while waiting for request slot", err)
	}

	ctx, cancel := context.WithTimeout(ctx, PlainTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", errors.NewFetch(url, "failed to build request", err)
	}
	helpers.ApplyBrowserHeaders(req)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", errors.NewFetch(url, "request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode == 430 {
		f.markRateLimited()
		msg := "rate limited"
		if retryAfter := resp.Header.Get("Retry-After"); retryAfter != "" {
			msg = fmt.Sprintf("rate limited, retry after %s", retryAfter)
		}
		return "", errors.NewFetch(url, msg, nil)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", errors.NewFetch(url, fmt.Sprintf("unexpected status %d", resp.StatusCode), nil)
	}

	body, err := helpers.ReadBody(resp)
	if err != nil {
		return "", errors.NewFetch(url, "failed to read body", err)
	}
	return string(body), nil
}

func (f *PlainFetcher) markRateLimited() {
	if f.cooldown == nil {
		return
	}
	if err := f.cooldown.Set(rateLimitKey, []byte("1"), int32(RateLimitBlock.Seconds())); err != nil {
		logger.Warn("failed to record rate-limit block: %v", err)
	}
}

// Close releases idle connections
func (f *PlainFetcher) Close() error {
	f.client.CloseIdleConnections()
	return nil
}

func newLimiter(delay time.Duration) *rate.Limiter {
	if delay <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(delay), 1)
}
