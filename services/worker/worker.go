package worker

import (
	"context"
	"time"

	"github.com/google/uuid"

	"nepremwatch/internal/scraper"
	"nepremwatch/logger"
	"nepremwatch/pkg/errors"
	"nepremwatch/services/cache"
	"nepremwatch/services/notifier"
	"nepremwatch/services/seenstore"
)

const (
	// MinInterval is the floor for the polling interval
	MinInterval = 30 * time.Second

	// CooldownTTL is how long runs are skipped after a bot challenge, so
	// a misconfigured strategy does not hammer the site every interval
	CooldownTTL = 10 * time.Minute

	cooldownKey = "nepremwatch:challenge_cooldown"
)

// Scraper produces the current listing set
type Scraper interface {
	Scrape(ctx context.Context) ([]scraper.Listing, error)
}

// Worker runs the scrape, diff, notify, commit cycle
type Worker struct {
	scraper  Scraper
	store    seenstore.Store
	notifier notifier.Notifier
	cooldown cache.Cache
	interval time.Duration
}

// New creates a worker. Intervals below MinInterval are raised to it.
// cooldown may be nil to disable challenge cooldown tracking.
func New(s Scraper, store seenstore.Store, n notifier.Notifier, cooldown cache.Cache, interval time.Duration) *Worker {
	if interval < MinInterval {
		interval = MinInterval
	}
	return &Worker{
		scraper:  s,
		store:    store,
		notifier: n,
		cooldown: cooldown,
		interval: interval,
	}
}

// Diff returns the listings whose URL is absent from seen, preserving
// the input order
func Diff(listings []scraper.Listing, seen seenstore.SeenSet) []scraper.Listing {
	fresh := make([]scraper.Listing, 0, len(listings))
	for _, l := range listings {
		if !seen.Contains(l.URL) {
			fresh = append(fresh, l)
		}
	}
	return fresh
}

// RunOnce performs one cycle and returns the listings that were newly
// notified. The seen-set advances only after the notifier succeeded, so
// an undelivered batch is retried on the next run.
func (w *Worker) RunOnce(ctx context.Context) ([]scraper.Listing, error) {
	runID := uuid.NewString()
	log := logger.With("worker")

	if w.cooldown != nil {
		if _, err := w.cooldown.Get(cooldownKey); err == nil {
			return nil, errors.New(errors.KindChallenge, "worker",
				"skipping run, cooling down after a recent bot challenge", nil)
		}
	}

	listings, err := w.scraper.Scrape(ctx)
	if err != nil {
		if errors.IsChallenge(err) {
			w.markCooldown()
		}
		return nil, err
	}

	seen := w.store.Load()
	fresh := Diff(listings, seen)
	log.Info().
		Str("run_id", runID).
		Int("listings", len(listings)).
		Int("new", len(fresh)).
		Msg("scrape finished")

	if len(fresh) == 0 {
		return nil, nil
	}

	if err := w.notifier.Notify(ctx, fresh); err != nil {
		return nil, err
	}

	for _, l := range fresh {
		seen.Add(l.URL)
	}
	if err := w.store.Commit(seen); err != nil {
		return nil, err
	}

	log.Info().Str("run_id", runID).Int("notified", len(fresh)).Msg("batch notified")
	return fresh, nil
}

func (w *Worker) markCooldown() {
	if w.cooldown == nil {
		return
	}
	if err := w.cooldown.Set(cooldownKey, []byte("1"), int32(CooldownTTL.Seconds())); err != nil {
		logger.Warn("failed to record challenge cooldown: %v", err)
	}
}

// Start runs one cycle immediately and then on every interval tick until
// the context is cancelled. Cycle errors are logged, not fatal; the next
// tick retries.
func (w *Worker) Start(ctx context.Context) error {
	logger.Info("worker polling every %s", w.interval)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		if _, err := w.RunOnce(ctx); err != nil {
			logger.Error(err, "run failed")
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
