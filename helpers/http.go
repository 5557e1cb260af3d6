package helpers

import (
	"io"
	"math/rand"
	"net/http"

	"golang.org/x/net/html/charset"
)

// userAgents is rotated per request so traffic looks like ordinary browsers
var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:125.0) Gecko/20100101 Firefox/125.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10.15; rv:124.0) Gecko/20100101 Firefox/124.0",
}

// RandomUserAgent returns a random browser user agent string
func RandomUserAgent() string {
	return userAgents[rand.Intn(len(userAgents))]
}

// ApplyBrowserHeaders sets the request headers a Slovenian desktop browser would send
func ApplyBrowserHeaders(req *http.Request) {
	req.Header.Set("User-Agent", RandomUserAgent())
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", "sl-SI,sl;q=0.9,en-US;q=0.8,en;q=0.7")
}

// ReadBody reads the response body decoded to UTF-8 using the declared charset
func ReadBody(resp *http.Response) ([]byte, error) {
	reader, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, err
	}
	return io.ReadAll(reader)
}
