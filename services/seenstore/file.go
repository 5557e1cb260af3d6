package seenstore

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"

	"nepremwatch/logger"
	"nepremwatch/pkg/errors"
)

// FileStore persists the seen-set as a sorted JSON array of URL strings.
// Writes go to a temp file first and are renamed into place, so a crash
// mid-write cannot corrupt the previous state.
type FileStore struct {
	path string
}

// NewFileStore creates a store writing to path
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads the persisted set. A missing, empty or malformed file loads
// as an empty set.
func (s *FileStore) Load() SeenSet {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return New()
	}

	var urls []string
	if err := json.Unmarshal(data, &urls); err != nil {
		logger.Warn("seen state at %s is unreadable, starting empty: %v", s.path, err)
		return New()
	}
	return New(urls...)
}

// Commit writes the full set atomically, creating parent directories
func (s *FileStore) Commit(set SeenSet) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.NewState(s.path, "failed to create state directory", err)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(set.Sorted()); err != nil {
		return errors.NewState(s.path, "failed to encode seen state", err)
	}

	tmp, err := os.CreateTemp(dir, ".seen-*.json")
	if err != nil {
		return errors.NewState(s.path, "failed to create temp state file", err)
	}
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return errors.NewState(s.path, "failed to write state", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return errors.NewState(s.path, "failed to close state file", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		os.Remove(tmp.Name())
		return errors.NewState(s.path, "failed to set state file mode", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return errors.NewState(s.path, "failed to replace state file", err)
	}
	return nil
}
