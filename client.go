// Package dsaas is the embedded client: it wires the search pipeline
// directly over the record store and completion provider, without going
// through the HTTP server. Programs that already run next to the store can
// use it as a library.
package dsaas

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rsanta/DSaaS/internal/db"
	dbRedis "github.com/rsanta/DSaaS/internal/db/redis"
	"github.com/rsanta/DSaaS/internal/domain"
	documentrepo "github.com/rsanta/DSaaS/internal/repository/document"
	logbookrepo "github.com/rsanta/DSaaS/internal/repository/logbook"
	openaiCompletion "github.com/rsanta/DSaaS/internal/transport/openai"
	healthuc "github.com/rsanta/DSaaS/internal/usecase/health"
	searchuc "github.com/rsanta/DSaaS/internal/usecase/search"
)

const defaultReadinessTimeout = 10 * time.Second

// Internal interfaces so tests can substitute the wired services.
type searchRunner interface {
	Search(ctx context.Context, query string, criteria domain.SearchCriteria) (searchuc.Outcome, error)
}

type documentFetcher interface {
	FetchDocumentByID(ctx context.Context, id, path string) (domain.Document, error)
}

type logbookFetcher interface {
	FetchLogbook(ctx context.Context, path string) ([]domain.LogEntry, error)
}

// Outcome re-exports the search outcome for SDK callers.
type Outcome = searchuc.Outcome

// Client is the DSaaS SDK entry point.
type Client struct {
	store         db.Store
	search        searchRunner
	documents     documentFetcher
	logbook       logbookFetcher
	health        *healthuc.Service
	documentsPath string
	logbookPath   string
}

// New creates a Client and connects to the record store.
func New(opts ...Option) (*Client, error) {
	cfg := defaultClientConfig()
	for _, o := range opts {
		o(cfg)
	}

	if len(cfg.addrs) == 0 {
		return nil, errors.New("dsaas: record store address required (use WithRedis)")
	}

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.addrs,
		Username: cfg.username,
		Password: cfg.password,
	})
	if err != nil {
		return nil, fmt.Errorf("dsaas: create store: %w", err)
	}

	ctx := context.Background()
	if err := store.WaitForReady(ctx, cfg.readinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("dsaas: store not ready: %w", err)
	}

	return wireClient(store, cfg), nil
}

func wireClient(store db.Store, cfg *clientConfig) *Client {
	completer := openaiCompletion.NewCompleter(&openaiCompletion.Config{
		APIKey:      cfg.completionAPIKey,
		BaseURL:     cfg.completionBaseURL,
		Model:       cfg.completionModel,
		Temperature: cfg.completionTemperature,
		MaxTokens:   cfg.completionMaxTokens,
		Logger:      cfg.logger,
	})

	docRepo := documentrepo.New(store, cfg.keyPrefix)
	logRepo := logbookrepo.New(store, cfg.keyPrefix)

	searchSvc := searchuc.New(docRepo, logRepo, completer, cfg.logger).
		WithPaths(cfg.documentsPath, cfg.logbookPath).
		WithMaxCandidates(cfg.maxCandidates)

	return &Client{
		store:         store,
		search:        searchSvc,
		documents:     docRepo,
		logbook:       logRepo,
		health:        healthuc.New(store, completer),
		documentsPath: cfg.documentsPath,
		logbookPath:   cfg.logbookPath,
	}
}

// DeepSearch runs a natural-language search over the stored documents.
func (c *Client) DeepSearch(ctx context.Context, query string) (Outcome, error) {
	return c.search.Search(ctx, query, domain.SearchCriteria{})
}

// DeepSearchWithCriteria runs a search with structured filters applied
// before the completion provider is involved.
func (c *Client) DeepSearchWithCriteria(
	ctx context.Context, query string, criteria domain.SearchCriteria,
) (Outcome, error) {
	return c.search.Search(ctx, query, criteria)
}

// Document fetches a single record by id.
func (c *Client) Document(ctx context.Context, id string) (domain.Document, error) {
	return c.documents.FetchDocumentByID(ctx, id, c.documentsPath)
}

// Logbook fetches the activity log.
func (c *Client) Logbook(ctx context.Context) ([]domain.LogEntry, error) {
	return c.logbook.FetchLogbook(ctx, c.logbookPath)
}

// Health reports store and completion provider availability.
func (c *Client) Health(ctx context.Context) healthuc.Report {
	return c.health.Check(ctx)
}

// Close releases the store connection.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}
