package main

import (
	"context"
	"flag"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"nepremwatch/config"
	"nepremwatch/internal/api"
	"nepremwatch/internal/fetch"
	"nepremwatch/internal/scraper"
	"nepremwatch/logger"
	"nepremwatch/pkg/errors"
	"nepremwatch/services/cache"
	"nepremwatch/services/notifier"
	"nepremwatch/services/seenstore"
	"nepremwatch/services/worker"
	"nepremwatch/storage"
)

func main() {
	os.Exit(run())
}

func run() int {
	// .env is optional; real environment variables win either way
	_ = godotenv.Load()

	var (
		list     = flag.Bool("list", false, "print the current listings as JSON and exit")
		csvPath  = flag.String("csv", "", "write the current listings to this CSV file and exit")
		store    = flag.Bool("store", false, "write the current listings to Postgres and exit")
		loop     = flag.Bool("loop", false, "keep polling instead of watching once")
		serve    = flag.Bool("serve", false, "expose the HTTP API")
		allPages = flag.Bool("all-pages", false, "follow pagination past the first page")
		baseURL  = flag.String("url", "", "search results URL to watch (overrides BASE_URL)")
		dataPath = flag.String("data-path", "", "seen-set JSON file (overrides DATA_PATH)")
		interval = flag.Int("interval", 0, "polling interval in seconds (overrides POLL_INTERVAL_SECONDS)")
	)
	flag.Parse()

	cfg := config.Load()
	if *baseURL != "" {
		cfg.BaseURL = *baseURL
	}
	if *dataPath != "" {
		cfg.DataPath = *dataPath
	}
	if *interval > 0 {
		cfg.PollInterval = time.Duration(*interval) * time.Second
	}
	if *allPages {
		cfg.AllPages = true
	}

	logger.Init(cfg.Debug)
	if err := cfg.Validate(); err != nil {
		logger.Error(err, "invalid configuration")
		return 1
	}

	cooldown := buildCooldown(cfg)

	fetcher, err := fetch.New(cfg.FetchStrategy, cfg.FetchDelay, cooldown)
	if err != nil {
		logger.Error(err, "failed to start fetcher")
		return 1
	}
	defer fetcher.Close()

	pipe := scraper.NewPipeline(fetcher, scraper.Options{
		BaseURL:       cfg.BaseURL,
		Selectors:     loadSelectors(cfg),
		AllPages:      cfg.AllPages,
		DetailWorkers: cfg.DetailWorkers,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch {
	case *list:
		return runList(ctx, pipe)
	case *csvPath != "":
		return runExport(ctx, pipe, storage.NewCSVWriter(*csvPath))
	case *store:
		if cfg.PostgresDSN == "" {
			logger.Error(errors.NewConfiguration("postgres", "DATABASE_URL must be set for -store", nil),
				"invalid configuration")
			return 1
		}
		pg, err := storage.NewPostgresWriter(cfg.PostgresDSN)
		if err != nil {
			logger.Error(err, "failed to open postgres")
			return 1
		}
		defer pg.Close()
		return runExport(ctx, pipe, pg)
	}

	seen := seenstore.NewFileStore(cfg.DataPath)
	notif := buildNotifier(cfg)
	if c, ok := notif.(io.Closer); ok {
		defer c.Close()
	}

	w := worker.New(pipe, seen, notif, cooldown, cfg.PollInterval)

	if *serve {
		if *loop {
			go func() {
				if err := w.Start(ctx); err != nil && ctx.Err() == nil {
					logger.Error(err, "worker stopped")
				}
			}()
		}
		srv := api.NewServer(pipe, seen, w)
		if err := srv.ListenAndServe(ctx, cfg.HTTPAddr); err != nil {
			logger.Error(err, "http server failed")
			return 1
		}
		return 0
	}

	if *loop {
		if err := w.Start(ctx); err != nil && ctx.Err() == nil {
			logger.Error(err, "worker stopped")
			return 1
		}
		return 0
	}

	fresh, err := w.RunOnce(ctx)
	if err != nil {
		logger.Error(err, "run failed")
		return 1
	}
	if len(fresh) == 0 {
		logger.Info("no new listings")
		return 1
	}
	return 0
}

// loadSelectors layers the optional YAML file over the defaults and then
// single-selector environment overrides over that
func loadSelectors(cfg config.Config) scraper.Selectors {
	sel := scraper.DefaultSelectors()
	if cfg.SelectorsFile != "" {
		loaded, err := scraper.LoadSelectorsFile(cfg.SelectorsFile)
		if err != nil {
			logger.Warn("ignoring selectors file %s: %v", cfg.SelectorsFile, err)
		}
		sel = loaded
	}
	sel.Override(cfg.CardSelector, cfg.LinkSelector, cfg.TitleSelector,
		cfg.PriceSelector, cfg.LocationSelector)
	return sel
}

func buildNotifier(cfg config.Config) notifier.Notifier {
	switch cfg.NotifyMode {
	case notifier.ModeSMTP:
		return notifier.NewSMTP(notifier.SMTPConfig{
			Host: cfg.SMTPHost,
			Port: cfg.SMTPPort,
			User: cfg.SMTPUser,
			Pass: cfg.SMTPPass,
			From: cfg.SMTPFrom,
			To:   cfg.SMTPTo,
		})
	case notifier.ModeRedis:
		return notifier.NewRedis(notifier.RedisConfig{
			Addr:   cfg.RedisAddr,
			DB:     cfg.RedisDB,
			Stream: cfg.RedisStream,
			MaxLen: cfg.RedisMaxLen,
		})
	default:
		return notifier.NewStdout(nil)
	}
}

func buildCooldown(cfg config.Config) cache.Cache {
	if cfg.MemcacheAddr != "" {
		return cache.NewMemcacheCache(cfg.MemcacheAddr)
	}
	return cache.NewMemoryCache()
}

func runList(ctx context.Context, pipe *scraper.Pipeline) int {
	listings, err := pipe.Scrape(ctx)
	if err != nil {
		logger.Error(err, "scrape failed")
		return 1
	}
	if err := storage.EncodeJSON(os.Stdout, listings); err != nil {
		logger.Error(err, "failed to encode listings")
		return 1
	}
	return 0
}

func runExport(ctx context.Context, pipe *scraper.Pipeline, w storage.Writer) int {
	listings, err := pipe.Scrape(ctx)
	if err != nil {
		logger.Error(err, "scrape failed")
		return 1
	}
	if err := w.Write(ctx, listings); err != nil {
		logger.Error(err, "failed to store listings")
		return 1
	}
	logger.Info("stored %d listing(s)", len(listings))
	return 0
}
