package notifier

import (
	"context"

	"nepremwatch/internal/scraper"
)

// Notification sink modes
const (
	ModeStdout = "stdout"
	ModeSMTP   = "smtp"
	ModeRedis  = "redis"
)

// Notifier delivers a batch of new listings to one sink. Callers invoke
// Notify only with a non-empty batch; a returned error means the batch
// was not delivered and must not be marked as seen.
type Notifier interface {
	Notify(ctx context.Context, listings []scraper.Listing) error
}
