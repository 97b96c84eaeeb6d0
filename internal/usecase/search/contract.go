package search

import (
	"context"

	"github.com/rsanta/DSaaS/internal/domain"
)

// DocumentReader fetches the document snapshot for one search run.
type DocumentReader interface {
	FetchDocuments(ctx context.Context, path string) ([]domain.Document, error)
}

// LogbookReader fetches the activity-log snapshot for one search run.
type LogbookReader interface {
	FetchLogbook(ctx context.Context, path string) ([]domain.LogEntry, error)
}

// Completer is the pluggable completion provider: prompts in, raw text out.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}
