package storage

import (
	"context"

	"nepremwatch/internal/scraper"
)

// Writer persists one scraped batch to a destination
type Writer interface {
	Write(ctx context.Context, listings []scraper.Listing) error
	Close() error
}
