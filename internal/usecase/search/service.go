// Package search implements the deep-search orchestration pipeline: date
// pre-filtering, bounded prompt construction, completion invocation, and
// reconciliation of the model's answer against the known record set.
package search

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/rsanta/DSaaS/internal/domain"
	"github.com/rsanta/DSaaS/internal/metrics"
)

// Service runs the search pipeline. All state is per-invocation; a Service
// is safe for concurrent use.
type Service struct {
	docs          DocumentReader
	logs          LogbookReader
	completer     Completer
	documentsPath string
	logbookPath   string
	maxCandidates int
	logger        *zap.Logger
}

// New creates a search service with default store paths and candidate cap.
func New(docs DocumentReader, logs LogbookReader, completer Completer, logger *zap.Logger) *Service {
	return &Service{
		docs:          docs,
		logs:          logs,
		completer:     completer,
		documentsPath: "documents",
		logbookPath:   "logbook",
		maxCandidates: 50,
		logger:        logger,
	}
}

// WithPaths overrides the store paths for documents and the logbook.
func (s *Service) WithPaths(documents, logbook string) *Service {
	if documents != "" {
		s.documentsPath = documents
	}
	if logbook != "" {
		s.logbookPath = logbook
	}
	return s
}

// WithMaxCandidates overrides the prompt candidate cap.
func (s *Service) WithMaxCandidates(n int) *Service {
	if n > 0 {
		s.maxCandidates = n
	}
	return s
}

// Outcome is the reconciled result of one search run plus its metadata.
// DocumentsAnalyzed counts the candidates actually rendered into the prompt,
// so the candidate cap is visible to callers rather than hidden.
type Outcome struct {
	Result            domain.SearchResult
	DocumentsAnalyzed int
	DocumentsFound    int
	LogsAnalyzed      int
}

// Search executes the pipeline for one query. Document and logbook snapshots
// are fetched concurrently; the completion call awaits both. Date criteria
// are applied deterministically before the completion service is involved,
// and an empty candidate set short-circuits without any completion call.
func (s *Service) Search(
	ctx context.Context, query string, criteria domain.SearchCriteria,
) (Outcome, error) {
	if strings.TrimSpace(query) == "" {
		return Outcome{}, domain.ErrInvalidQuery
	}

	docs, logs, err := s.fetchSnapshots(ctx)
	if err != nil {
		return Outcome{}, err
	}

	if len(docs) == 0 {
		return Outcome{
			Result:       emptyStoreResult(),
			LogsAnalyzed: len(logs),
		}, nil
	}

	candidates := preFilter(docs, criteria)

	s.logger.Debug("pre-filter applied",
		zap.Int("total", len(docs)),
		zap.Int("candidates", len(candidates)),
	)

	if len(candidates) == 0 {
		return Outcome{
			Result:       noCandidatesResult(),
			LogsAnalyzed: len(logs),
		}, nil
	}

	rendered := candidates
	if len(rendered) > s.maxCandidates {
		rendered = rendered[:s.maxCandidates]
	}
	metrics.SearchDocumentsAnalyzed.Observe(float64(len(rendered)))

	system, user := buildPrompt(query, rendered, criteria, len(candidates))

	raw, err := s.completer.Complete(ctx, system, user)
	if err != nil {
		return Outcome{}, err
	}

	result, err := reconcile(raw, rendered, s.logger)
	if err != nil {
		return Outcome{}, err
	}

	return Outcome{
		Result:            result,
		DocumentsAnalyzed: len(rendered),
		DocumentsFound:    result.TotalMatches,
		LogsAnalyzed:      len(logs),
	}, nil
}

// fetchSnapshots reads documents and the logbook concurrently. Both reads
// must succeed; the prompt and envelope metadata depend on both.
func (s *Service) fetchSnapshots(ctx context.Context) ([]domain.Document, []domain.LogEntry, error) {
	var (
		wg      sync.WaitGroup
		docs    []domain.Document
		logs    []domain.LogEntry
		docsErr error
		logsErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		docs, docsErr = s.docs.FetchDocuments(ctx, s.documentsPath)
	}()
	go func() {
		defer wg.Done()
		logs, logsErr = s.logs.FetchLogbook(ctx, s.logbookPath)
	}()
	wg.Wait()

	if docsErr != nil {
		return nil, nil, docsErr
	}
	if logsErr != nil {
		return nil, nil, logsErr
	}
	return docs, logs, nil
}

// emptyStoreResult is returned when the store holds no documents at all.
func emptyStoreResult() domain.SearchResult {
	return domain.SearchResult{
		Summary:     "No se encontraron documentos en la base de datos para analizar.",
		Results:     []domain.Document{},
		Suggestions: []string{},
		Confidence:  domain.ConfidenceAlta,
	}
}

// noCandidatesResult is returned when the deterministic pre-filter leaves
// nothing to analyze, avoiding the completion-service cost entirely.
func noCandidatesResult() domain.SearchResult {
	return domain.SearchResult{
		Summary: "No se encontraron documentos que coincidan con los criterios especificados.",
		Results: []domain.Document{},
		Suggestions: []string{
			"Verifica que el mes, año o día sean correctos",
			"Intenta ampliar los criterios de búsqueda",
		},
		Confidence: domain.ConfidenceAlta,
	}
}
