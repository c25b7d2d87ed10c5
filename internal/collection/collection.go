// Package collection persists the user's collected items in the
// flat-file document store and reports aggregate statistics over them.
package collection

import (
	"errors"
	"sync"
	"time"

	"github.com/kwonjungwook/short0812/internal/content"
	"github.com/kwonjungwook/short0812/internal/logger"
	"github.com/kwonjungwook/short0812/internal/storage"
)

// StatusCollected is the initial status of a freshly collected item.
const StatusCollected = "collected"

var (
	// ErrMissingID is returned when the submitted item has no id.
	ErrMissingID = errors.New("item id is required")
	// ErrAlreadyCollected is returned on a duplicate collect.
	ErrAlreadyCollected = errors.New("item already collected")
	// ErrNotFound is returned when no collected item has the given id.
	ErrNotFound = errors.New("collected item not found")
)

// DocumentStore is the persistence collaborator. Implemented by
// storage.Store.
type DocumentStore interface {
	Load(name string, v any) error
	Save(name string, v any) error
}

// Asset is a collected item plus its collection bookkeeping.
type Asset struct {
	content.Item
	CollectedAt time.Time `json:"collectedAt"`
	Status      string    `json:"status"`
	Notes       string    `json:"notes"`
	UpdatedAt   time.Time `json:"updatedAt,omitzero"`
}

// Stats aggregates the collection along its main dimensions.
type Stats struct {
	Total      int            `json:"total"`
	Categories map[string]int `json:"categories"`
	Statuses   map[string]int `json:"statuses"`
	Platforms  map[string]int `json:"platforms"`
	Countries  map[string]int `json:"countries"`
}

// Store manages the collected-asset document.
type Store struct {
	docs DocumentStore
	log  logger.Logger
	now  func() time.Time

	mu sync.Mutex
}

// New creates a collection store over the given document store.
func New(docs DocumentStore, log logger.Logger) *Store {
	return &Store{docs: docs, log: log, now: time.Now}
}

// WithNow overrides the clock. Test hook.
func (s *Store) WithNow(now func() time.Time) *Store {
	s.now = now
	return s
}

// Add collects an item. Returns the stored asset and the new total, or
// ErrMissingID / ErrAlreadyCollected.
func (s *Store) Add(item content.Item) (Asset, int, error) {
	if item.ID == "" {
		return Asset{}, 0, ErrMissingID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	assets := s.load()
	for _, a := range assets {
		if a.ID == item.ID {
			return Asset{}, 0, ErrAlreadyCollected
		}
	}

	item.Collected = true
	asset := Asset{
		Item:        item,
		CollectedAt: s.now(),
		Status:      StatusCollected,
		Notes:       "",
	}
	assets = append(assets, asset)

	if err := s.docs.Save(storage.CollectedAssetsDoc, assets); err != nil {
		return Asset{}, 0, err
	}
	return asset, len(assets), nil
}

// List returns every collected asset plus aggregate statistics.
func (s *Store) List() ([]Asset, Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	assets := s.load()
	stats := Stats{
		Total:      len(assets),
		Categories: map[string]int{},
		Statuses:   map[string]int{},
		Platforms:  map[string]int{},
		Countries:  map[string]int{},
	}
	for _, a := range assets {
		if a.Category != "" {
			stats.Categories[a.Category]++
		}
		stats.Statuses[a.Status]++
		stats.Platforms[string(a.Platform)]++
		stats.Countries[string(a.Country)]++
	}
	return assets, stats, nil
}

// Remove deletes the asset with the given id and returns it.
func (s *Store) Remove(id string) (Asset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	assets := s.load()
	for i, a := range assets {
		if a.ID == id {
			assets = append(assets[:i], assets[i+1:]...)
			if err := s.docs.Save(storage.CollectedAssetsDoc, assets); err != nil {
				return Asset{}, err
			}
			return a, nil
		}
	}
	return Asset{}, ErrNotFound
}

// UpdateStatus sets a new status and notes on the asset with the given
// id and returns the updated asset.
func (s *Store) UpdateStatus(id, status, notes string) (Asset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	assets := s.load()
	for i := range assets {
		if assets[i].ID == id {
			assets[i].Status = status
			assets[i].Notes = notes
			assets[i].UpdatedAt = s.now()
			if err := s.docs.Save(storage.CollectedAssetsDoc, assets); err != nil {
				return Asset{}, err
			}
			return assets[i], nil
		}
	}
	return Asset{}, ErrNotFound
}

func (s *Store) load() []Asset {
	var assets []Asset
	if err := s.docs.Load(storage.CollectedAssetsDoc, &assets); err != nil {
		s.log.Warn("loading collection failed, starting empty", logger.Error(err))
	}
	return assets
}
