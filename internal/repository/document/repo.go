// Package document reads document records from the key-value store. A
// collection path maps to one hash: field name is the record id, field value
// is the JSON record, mirroring a snapshot object keyed by id.
package document

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/rsanta/DSaaS/internal/db"
	"github.com/rsanta/DSaaS/internal/domain"
)

// store is the consumer interface for document reads (ISP).
type store interface {
	HGet(ctx context.Context, key, field string) ([]byte, error)
	HGetAll(ctx context.Context, key string) (map[string]string, error)
}

// Repo implements the record store collaborator for documents.
type Repo struct {
	store  store
	prefix string
}

// New creates a document repository. keyPrefix namespaces all hash keys.
func New(s store, keyPrefix string) *Repo {
	return &Repo{store: s, prefix: keyPrefix}
}

// FetchDocuments returns every record stored under path, ordered by id.
// A path with no data yields an empty slice, not an error.
func (r *Repo) FetchDocuments(ctx context.Context, path string) ([]domain.Document, error) {
	fields, err := r.store.HGetAll(ctx, r.prefix+path)
	if err != nil {
		return nil, fmt.Errorf("fetch documents %s: %w: %w", path, domain.ErrStoreUnavailable, err)
	}
	if len(fields) == 0 {
		return []domain.Document{}, nil
	}

	ids := make([]string, 0, len(fields))
	for id := range fields {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	docs := make([]domain.Document, 0, len(ids))
	for _, id := range ids {
		docs = append(docs, parseDocument(id, fields[id]))
	}
	return docs, nil
}

// FetchDocumentByID returns a single record, or domain.ErrDocumentNotFound.
func (r *Repo) FetchDocumentByID(ctx context.Context, id, path string) (domain.Document, error) {
	raw, err := r.store.HGet(ctx, r.prefix+path, id)
	if err != nil {
		if errors.Is(err, db.ErrFieldNotFound) {
			return domain.Document{}, domain.ErrDocumentNotFound
		}
		return domain.Document{}, fmt.Errorf("fetch document %s/%s: %w: %w",
			path, id, domain.ErrStoreUnavailable, err)
	}
	return parseDocument(id, string(raw)), nil
}

// parseDocument decodes a stored record. The hash field name is the
// authoritative id; a record that fails to decode still surfaces with its id
// so it stays visible downstream.
func parseDocument(id, raw string) domain.Document {
	var doc domain.Document
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return domain.Document{ID: id}
	}
	doc.ID = id
	return doc
}
