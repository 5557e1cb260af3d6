package fetch

import (
	"context"
	"os"
	"os/exec"
	"time"

	"github.com/chromedp/chromedp"
	"golang.org/x/time/rate"

	"nepremwatch/helpers"
	"nepremwatch/pkg/errors"
)

// ChromeFetcher renders pages in headless Chrome. The extra round trips let
// JavaScript bot challenges resolve before the HTML is captured.
type ChromeFetcher struct {
	allocCtx context.Context
	cancel   context.CancelFunc
	limiter  *rate.Limiter
}

// NewChromeFetcher starts a headless Chrome allocator shared by all fetches
func NewChromeFetcher(delay time.Duration) (*ChromeFetcher, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("lang", "sl-SI"),
		chromedp.UserAgent(helpers.RandomUserAgent()),
	)
	if bin := findChromeBinary(); bin != "" {
		opts = append(opts, chromedp.ExecPath(bin))
	}

	allocCtx, cancel := chromedp.NewExecAllocator(context.Background(), opts...)

	return &ChromeFetcher{
		allocCtx: allocCtx,
		cancel:   cancel,
		limiter:  newLimiter(delay),
	}, nil
}

// Fetch navigates to url in a fresh tab and returns the rendered HTML
func (f *ChromeFetcher) Fetch(ctx context.Context, url string) (string, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return "", errors.NewFetch(url, "interrupted while waiting for request slot", err)
	}

	tabCtx, cancelTab := chromedp.NewContext(f.allocCtx)
	defer cancelTab()

	tabCtx, cancelTimeout := context.WithTimeout(tabCtx, ChromeTimeout)
	defer cancelTimeout()

	var html string
	err := chromedp.Run(tabCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		// give a challenge interstitial time to redirect to the real page
		chromedp.Sleep(2*time.Second),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		return "", errors.NewFetch(url, "rendered fetch failed", err)
	}
	return html, nil
}

// Close shuts down the Chrome allocator
func (f *ChromeFetcher) Close() error {
	f.cancel()
	return nil
}

// findChromeBinary looks for a usable Chrome or Chromium executable.
// CHROME_BIN wins, then PATH, then a couple of well-known locations.
func findChromeBinary() string {
	if bin := os.Getenv("CHROME_BIN"); bin != "" {
		return bin
	}
	for _, name := range []string{"google-chrome", "google-chrome-stable", "chromium", "chromium-browser"} {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}
	for _, path := range []string{
		"/usr/bin/google-chrome",
		"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
	} {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
