package storage

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"

	"nepremwatch/internal/scraper"
	"nepremwatch/pkg/errors"
)

// CSVWriter writes listings to a CSV file, header row first, one row per
// listing in the canonical column order.
type CSVWriter struct {
	path string
}

// NewCSVWriter creates a writer targeting path
func NewCSVWriter(path string) *CSVWriter {
	return &CSVWriter{path: path}
}

// Write replaces the file with the given batch. The header is written
// even when the batch is empty. Parent directories are created.
func (w *CSVWriter) Write(_ context.Context, listings []scraper.Listing) error {
	if dir := filepath.Dir(w.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.NewState(w.path, "failed to create output directory", err)
		}
	}

	f, err := os.Create(w.path)
	if err != nil {
		return errors.NewState(w.path, "failed to create csv file", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.Write(scraper.ExportFields()); err != nil {
		return errors.NewState(w.path, "failed to write csv header", err)
	}
	for _, l := range listings {
		if err := cw.Write(l.ExportRow()); err != nil {
			return errors.NewState(w.path, "failed to write csv row", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return errors.NewState(w.path, "failed to flush csv", err)
	}
	return nil
}

// Close is a no-op; every Write opens and closes the file itself
func (w *CSVWriter) Close() error {
	return nil
}
