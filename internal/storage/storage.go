// Package storage is the flat-file persistence collaborator: whole
// JSON documents read and written under one data directory. Reads
// degrade to the caller's zero value on failure; only writes surface
// errors.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/kwonjungwook/short0812/internal/logger"
)

// Document names owned by the service.
const (
	CollectedAssetsDoc = "collected-assets.json"
	SearchCacheDoc     = "search-cache.json"
)

// Store reads and writes JSON documents in a single directory.
type Store struct {
	dir string
	log logger.Logger

	mu sync.Mutex
}

// Open ensures the data directory exists and returns a store over it.
func Open(dir string, log logger.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}
	return &Store{dir: dir, log: log}, nil
}

// Dir returns the backing directory path.
func (s *Store) Dir() string { return s.dir }

// Load unmarshals the named document into v. A missing or unreadable
// document leaves v untouched and returns nil, so callers start from
// their own empty default.
func (s *Store) Load(name string, v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Warn("reading document failed, using empty default",
				logger.String("doc", name), logger.Error(err))
		}
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		s.log.Warn("parsing document failed, using empty default",
			logger.String("doc", name), logger.Error(err))
		return nil
	}
	return nil
}

// Save marshals v and replaces the named document atomically.
func (s *Store) Save(name string, v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", name, err)
	}

	path := filepath.Join(s.dir, name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replacing %s: %w", name, err)
	}
	return nil
}
