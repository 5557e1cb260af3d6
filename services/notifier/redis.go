package notifier

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"nepremwatch/internal/scraper"
	"nepremwatch/pkg/errors"
)

// Redis stream defaults
const (
	DefaultStream       = "nepremwatch:listings"
	DefaultStreamMaxLen = 1000
)

// RedisConfig holds the stream sink settings
type RedisConfig struct {
	Addr   string
	DB     int
	Stream string
	MaxLen int64
}

// RedisNotifier appends each new listing to a capped Redis stream so
// downstream consumers can fan out independently of this process.
type RedisNotifier struct {
	client *redis.Client
	stream string
	maxLen int64
}

// NewRedis creates a stream notifier
func NewRedis(cfg RedisConfig) *RedisNotifier {
	if cfg.Stream == "" {
		cfg.Stream = DefaultStream
	}
	if cfg.MaxLen <= 0 {
		cfg.MaxLen = DefaultStreamMaxLen
	}
	client := redis.NewClient(&redis.Options{
		Addr: cfg.Addr,
		DB:   cfg.DB,
	})
	return &RedisNotifier{
		client: client,
		stream: cfg.Stream,
		maxLen: cfg.MaxLen,
	}
}

// Notify publishes every listing as a JSON entry on the stream
func (n *RedisNotifier) Notify(ctx context.Context, listings []scraper.Listing) error {
	for _, l := range listings {
		payload, err := json.Marshal(l)
		if err != nil {
			return errors.NewNotify("redis", "failed to encode listing", err)
		}
		err = n.client.XAdd(ctx, &redis.XAddArgs{
			Stream: n.stream,
			MaxLen: n.maxLen,
			Approx: true,
			Values: map[string]interface{}{"listing": payload},
		}).Err()
		if err != nil {
			return errors.NewNotify("redis", "failed to publish listing", err)
		}
	}
	return nil
}

// Ping checks the connection
func (n *RedisNotifier) Ping(ctx context.Context) error {
	return n.client.Ping(ctx).Err()
}

// Close releases the client
func (n *RedisNotifier) Close() error {
	return n.client.Close()
}
