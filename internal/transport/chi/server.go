// Package chi is the HTTP boundary of the service. It stays thin: handlers
// decode the request, invoke a use case, and map domain sentinels onto HTTP
// statuses through the error handler table.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/rsanta/DSaaS/internal/domain"
	healthuc "github.com/rsanta/DSaaS/internal/usecase/health"
	searchuc "github.com/rsanta/DSaaS/internal/usecase/search"
	"github.com/rsanta/DSaaS/internal/version"
)

// Error codes of the JSON failure envelope.
const (
	codeBadRequest            = "bad_request"
	codeInvalidQuery          = "invalid_query"
	codeDocumentNotFound      = "document_not_found"
	codeStoreUnavailable      = "store_unavailable"
	codeCompletionUnavailable = "completion_unavailable"
	codeCompletionFailed      = "completion_failed"
	codeMalformedCompletion   = "malformed_completion"
	codeRouteNotFound         = "route_not_found"
	codeInternalError         = "internal_error"
)

// errorResponse is the uniform JSON failure envelope.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// DocumentFetcher reads a single record for the document lookup route.
type DocumentFetcher interface {
	FetchDocumentByID(ctx context.Context, id, path string) (domain.Document, error)
}

// Server exposes the search pipeline over HTTP.
type Server struct {
	search        *searchuc.Service
	health        *healthuc.Service
	documents     DocumentFetcher
	documentsPath string
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	search *searchuc.Service,
	health *healthuc.Service,
	documents DocumentFetcher,
	documentsPath string,
	logger *zap.Logger,
) *Server {
	s := &Server{
		search:        search,
		health:        health,
		documents:     documents,
		documentsPath: documentsPath,
		logger:        logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidQuery, http.StatusBadRequest, codeInvalidQuery),
		sentinelHandler(domain.ErrDocumentNotFound, http.StatusNotFound, codeDocumentNotFound),
		sentinelHandler(domain.ErrStoreUnavailable, http.StatusServiceUnavailable, codeStoreUnavailable),
		sentinelHandler(domain.ErrCompletionUnavailable, http.StatusServiceUnavailable, codeCompletionUnavailable),
		sentinelHandler(domain.ErrCompletionFailed, http.StatusBadGateway, codeCompletionFailed),
		sentinelHandler(domain.ErrMalformedCompletion, http.StatusBadGateway, codeMalformedCompletion),
	}
	return s
}

// Routes mounts all handlers on r.
func (s *Server) Routes(r chi.Router) {
	r.Get("/", s.ServiceCard)
	r.Get("/health", s.HealthCheck)
	r.Get("/deepsearch", s.DeepSearchGet)
	r.Post("/deepsearch", s.DeepSearchPost)
	r.Get("/documents/{id}", s.GetDocument)
	r.Get("/metrics", s.Metrics)
	r.NotFound(s.RouteNotFound)
}

// searchRequest is the POST /deepsearch body.
type searchRequest struct {
	Query   string                `json:"query"`
	Filters domain.SearchCriteria `json:"filters"`
}

// searchEnvelope is the success envelope of both search routes.
type searchEnvelope struct {
	Query             string                 `json:"query"`
	Response          domain.SearchResult    `json:"response"`
	DocumentsAnalyzed int                    `json:"documentsAnalyzed"`
	DocumentsFound    int                    `json:"documentsFound"`
	LogsAnalyzed      int                    `json:"logsAnalyzed"`
	FiltersApplied    *domain.SearchCriteria `json:"filtersApplied,omitempty"`
	Timestamp         time.Time              `json:"timestamp"`
}

// ServiceCard handles GET /.
func (s *Server) ServiceCard(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"service": "DSaaS",
		"version": version.Version,
		"status":  "ok",
		"endpoints": map[string]string{
			"GET /health":         "Component health checks",
			"GET /deepsearch":     "Natural-language search, ?query=",
			"POST /deepsearch":    "Natural-language search with structured filters",
			"GET /documents/{id}": "Single document lookup",
			"GET /metrics":        "Prometheus metrics",
		},
	})
}

// DeepSearchGet handles GET /deepsearch?query=.
func (s *Server) DeepSearchGet(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	if query == "" {
		writeError(w, http.StatusBadRequest, codeInvalidQuery, "query parameter is required")
		return
	}

	out, err := s.search.Search(r.Context(), query, domain.SearchCriteria{})
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, envelope(query, out, nil))
}

// DeepSearchPost handles POST /deepsearch.
func (s *Server) DeepSearchPost(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	out, err := s.search.Search(r.Context(), req.Query, req.Filters)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	var applied *domain.SearchCriteria
	if !req.Filters.IsZero() {
		applied = &req.Filters
	}

	writeJSON(w, http.StatusOK, envelope(req.Query, out, applied))
}

// GetDocument handles GET /documents/{id}.
func (s *Server) GetDocument(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	doc, err := s.documents.FetchDocumentByID(r.Context(), id, s.documentsPath)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, doc)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, map[string]any{
		"status":    report.Status,
		"checks":    report.Checks,
		"timestamp": time.Now().UTC(),
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// RouteNotFound answers unknown routes with the available ones.
func (s *Server) RouteNotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, map[string]any{
		"code":    codeRouteNotFound,
		"message": "Ruta no encontrada: " + r.Method + " " + r.URL.Path,
		"availableRoutes": []string{
			"GET /",
			"GET /health",
			"GET /deepsearch?query=...",
			"POST /deepsearch",
			"GET /documents/{id}",
			"GET /metrics",
		},
	})
}

func envelope(query string, out searchuc.Outcome, applied *domain.SearchCriteria) searchEnvelope {
	return searchEnvelope{
		Query:             query,
		Response:          out.Result,
		DocumentsAnalyzed: out.DocumentsAnalyzed,
		DocumentsFound:    out.DocumentsFound,
		LogsAnalyzed:      out.LogsAnalyzed,
		FiltersApplied:    applied,
		Timestamp:         time.Now().UTC(),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrInvalidQuery,
		domain.ErrDocumentNotFound,
		domain.ErrStoreUnavailable,
		domain.ErrCompletionUnavailable,
		domain.ErrCompletionFailed,
		domain.ErrMalformedCompletion,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
