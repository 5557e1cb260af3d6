package storage

import (
	"encoding/json"
	"io"

	"nepremwatch/internal/scraper"
)

// EncodeJSON writes the listings as a pretty-printed JSON array with
// non-ASCII characters and HTML-sensitive characters kept literal.
// An empty batch encodes as [], never null.
func EncodeJSON(w io.Writer, listings []scraper.Listing) error {
	if listings == nil {
		listings = []scraper.Listing{}
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(listings)
}
