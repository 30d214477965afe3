// file: internal/history/history.go
// version: 1.0.0
// guid: 0f6b4d28-9a3e-41c7-b5f0-7d2a8c4e6b19

// Package history persists executed searches in a small PebbleDB store.
package history

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/cockroachdb/pebble/v2"
	"github.com/oklog/ulid/v2"

	"github.com/sfalken/quickbar/internal/models"
)

// Key schema:
// - search:<ulid> -> HistoryEntry JSON
//
// ULIDs sort by creation time, so newest-first reads are a reverse scan of
// the search: prefix. No counters are needed.

const (
	keyPrefix    = "search:"
	keyPrefixEnd = "search;" // ':' + 1
)

// Store records executed searches.
type Store struct {
	db *pebble.DB
}

// Open opens (creating if necessary) the history store at path.
func Open(path string) (*Store, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("failed to open history store: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the store.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record persists one executed search and returns the stored entry.
func (s *Store) Record(query string, results int, took time.Duration) (*models.HistoryEntry, error) {
	entry := &models.HistoryEntry{
		ID:         ulid.Make().String(),
		Query:      query,
		Results:    results,
		TookMicros: took.Microseconds(),
		When:       time.Now().UTC(),
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal history entry: %w", err)
	}
	key := []byte(keyPrefix + entry.ID)
	if err := s.db.Set(key, data, pebble.Sync); err != nil {
		return nil, fmt.Errorf("failed to store history entry: %w", err)
	}
	return entry, nil
}

// Recent returns up to limit entries, newest first.
func (s *Store) Recent(limit int) ([]models.HistoryEntry, error) {
	if limit <= 0 {
		limit = 50
	}

	iter, err := s.db.NewIter(&pebble.IterOptions{
		LowerBound: []byte(keyPrefix),
		UpperBound: []byte(keyPrefixEnd),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to iterate history: %w", err)
	}
	defer iter.Close()

	entries := make([]models.HistoryEntry, 0, limit)
	for ok := iter.Last(); ok && len(entries) < limit; ok = iter.Prev() {
		var entry models.HistoryEntry
		if err := json.Unmarshal(iter.Value(), &entry); err != nil {
			// Skip corrupt rows rather than failing the whole read.
			continue
		}
		entries = append(entries, entry)
	}
	if err := iter.Error(); err != nil {
		return nil, fmt.Errorf("history iteration failed: %w", err)
	}
	return entries, nil
}
