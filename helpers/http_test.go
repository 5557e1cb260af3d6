package helpers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRandomUserAgent(t *testing.T) {
	ua := RandomUserAgent()
	assert.Contains(t, userAgents, ua)
}

func TestApplyBrowserHeaders(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "https://www.nepremicnine.net/", nil)
	ApplyBrowserHeaders(req)

	assert.NotEmpty(t, req.Header.Get("User-Agent"))
	assert.Contains(t, req.Header.Get("Accept-Language"), "sl-SI")
	assert.Contains(t, req.Header.Get("Accept"), "text/html")
}

func TestReadBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte("<html><body>Stanovanje, Ljubljana</body></html>"))
	}))
	defer server.Close()

	resp, err := http.Get(server.URL)
	assert.NoError(t, err)
	defer resp.Body.Close()

	body, err := ReadBody(resp)
	assert.NoError(t, err)
	assert.Contains(t, string(body), "Stanovanje, Ljubljana")
}

func TestReadBodyWindows1250(t *testing.T) {
	// "četrtek" byte 0xE8 is č in windows-1250
	raw := []byte{'<', 'p', '>', 0xE8, 'e', 't', 'r', 't', 'e', 'k', '<', '/', 'p', '>'}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=windows-1250")
		w.Write(raw)
	}))
	defer server.Close()

	resp, err := http.Get(server.URL)
	assert.NoError(t, err)
	defer resp.Body.Close()

	body, err := ReadBody(resp)
	assert.NoError(t, err)
	assert.Contains(t, string(body), "četrtek")
}
