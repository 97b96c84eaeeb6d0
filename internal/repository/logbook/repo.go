// Package logbook reads activity-log entries from the key-value store,
// using the same one-hash-per-path layout as the document repository.
package logbook

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/rsanta/DSaaS/internal/domain"
)

// store is the consumer interface for logbook reads (ISP).
type store interface {
	HGetAll(ctx context.Context, key string) (map[string]string, error)
}

// Repo implements the record store collaborator for the activity log.
type Repo struct {
	store  store
	prefix string
}

// New creates a logbook repository.
func New(s store, keyPrefix string) *Repo {
	return &Repo{store: s, prefix: keyPrefix}
}

// FetchLogbook returns every log entry stored under path, ordered by id.
// A path with no data yields an empty slice, not an error.
func (r *Repo) FetchLogbook(ctx context.Context, path string) ([]domain.LogEntry, error) {
	fields, err := r.store.HGetAll(ctx, r.prefix+path)
	if err != nil {
		return nil, fmt.Errorf("fetch logbook %s: %w: %w", path, domain.ErrStoreUnavailable, err)
	}
	if len(fields) == 0 {
		return []domain.LogEntry{}, nil
	}

	ids := make([]string, 0, len(fields))
	for id := range fields {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	entries := make([]domain.LogEntry, 0, len(ids))
	for _, id := range ids {
		var entry domain.LogEntry
		if err := json.Unmarshal([]byte(fields[id]), &entry); err != nil {
			entry = domain.LogEntry{}
		}
		entry.ID = id
		entries = append(entries, entry)
	}
	return entries, nil
}
