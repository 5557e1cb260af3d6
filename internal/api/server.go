package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"nepremwatch/internal/scraper"
	"nepremwatch/logger"
	"nepremwatch/pkg/errors"
	"nepremwatch/services/seenstore"
)

// Scraper produces the current listing set
type Scraper interface {
	Scrape(ctx context.Context) ([]scraper.Listing, error)
}

// Runner performs one scrape, diff, notify, commit cycle
type Runner interface {
	RunOnce(ctx context.Context) ([]scraper.Listing, error)
}

// Server exposes the watcher over HTTP for ad-hoc queries and manual runs
type Server struct {
	scraper Scraper
	store   seenstore.Store
	runner  Runner
	router  *mux.Router
}

// NewServer wires the routes
func NewServer(s Scraper, store seenstore.Store, runner Runner) *Server {
	srv := &Server{scraper: s, store: store, runner: runner}

	r := mux.NewRouter()
	r.HandleFunc("/healthz", srv.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/api/listings", srv.handleListings).Methods(http.MethodGet)
	r.HandleFunc("/api/seen", srv.handleSeen).Methods(http.MethodGet)
	r.HandleFunc("/api/run", srv.handleRun).Methods(http.MethodPost)
	srv.router = r

	return srv
}

// Router returns the HTTP handler, mainly for tests
func (s *Server) Router() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is cancelled
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:        addr,
		Handler:     s.router,
		ReadTimeout: 15 * time.Second,
		// a manual run walks the site, so writes can take a while
		WriteTimeout: 2 * time.Minute,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	logger.Info("http api listening on %s", addr)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListings(w http.ResponseWriter, r *http.Request) {
	listings, err := s.scraper.Scrape(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if listings == nil {
		listings = []scraper.Listing{}
	}
	writeJSON(w, http.StatusOK, listings)
}

func (s *Server) handleSeen(w http.ResponseWriter, _ *http.Request) {
	seen := s.store.Load()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"count": seen.Len(),
		"urls":  seen.Sorted(),
	})
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	fresh, err := s.runner.RunOnce(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	urls := make([]string, 0, len(fresh))
	for _, l := range fresh {
		urls = append(urls, l.URL)
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"new":  len(fresh),
		"urls": urls,
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		logger.Error(err, "failed to encode response")
	}
}

// writeError maps upstream trouble to 502 and everything else to 500
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if errors.IsFetch(err) || errors.IsChallenge(err) {
		status = http.StatusBadGateway
	}
	logger.Error(err, "request failed")
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
