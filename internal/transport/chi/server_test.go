package chi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	chiv5 "github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/rsanta/DSaaS/internal/domain"
	healthuc "github.com/rsanta/DSaaS/internal/usecase/health"
	searchuc "github.com/rsanta/DSaaS/internal/usecase/search"
)

// --- Mocks ---

type mockDocs struct {
	docs  []domain.Document
	byID  map[string]domain.Document
	err   error
	calls int
}

func (m *mockDocs) FetchDocuments(_ context.Context, _ string) ([]domain.Document, error) {
	m.calls++
	return m.docs, m.err
}

func (m *mockDocs) FetchDocumentByID(_ context.Context, id, _ string) (domain.Document, error) {
	if m.err != nil {
		return domain.Document{}, m.err
	}
	doc, ok := m.byID[id]
	if !ok {
		return domain.Document{}, domain.ErrDocumentNotFound
	}
	return doc, nil
}

type mockLogs struct {
	entries []domain.LogEntry
}

func (m *mockLogs) FetchLogbook(_ context.Context, _ string) ([]domain.LogEntry, error) {
	return m.entries, nil
}

type mockCompleter struct {
	response string
	err      error
	calls    int
}

func (m *mockCompleter) Complete(_ context.Context, _, _ string) (string, error) {
	m.calls++
	return m.response, m.err
}

type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(_ context.Context) error { return m.err }

func testDocs() []domain.Document {
	return []domain.Document{
		{ID: "doc-1", StudentName: "Daniel Gonzalez", RequestDate: domain.FlexDateFromString("05/10/2024"), Status: "aprobado"},
		{ID: "doc-2", StudentName: "Luisa Marin", RequestDate: domain.FlexDateFromString("2024-11-12"), Status: "pendiente"},
	}
}

func newTestRouter(docs *mockDocs, comp *mockCompleter, pinger *mockPinger) http.Handler {
	logger := zap.NewNop()
	searchSvc := searchuc.New(docs, &mockLogs{entries: []domain.LogEntry{{ID: "l1"}}}, comp, logger)
	healthSvc := healthuc.New(pinger, nil)
	server := NewServer(searchSvc, healthSvc, docs, "documents", logger)

	r := chiv5.NewRouter()
	server.Routes(r)
	return r
}

func doRequest(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// --- Tests ---

func TestServiceCard(t *testing.T) {
	h := newTestRouter(&mockDocs{}, &mockCompleter{}, &mockPinger{})
	rec := doRequest(t, h, http.MethodGet, "/", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if body["service"] != "DSaaS" || body["status"] != "ok" {
		t.Errorf("unexpected card: %v", body)
	}
}

func TestDeepSearchGet_MissingQuery(t *testing.T) {
	h := newTestRouter(&mockDocs{docs: testDocs()}, &mockCompleter{}, &mockPinger{})
	rec := doRequest(t, h, http.MethodGet, "/deepsearch", "")

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var resp errorResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Code != codeInvalidQuery {
		t.Errorf("code = %q", resp.Code)
	}
}

func TestDeepSearchGet_Envelope(t *testing.T) {
	comp := &mockCompleter{response: `{"summary":"una coincidencia","matchedDocumentIds":["doc-1"],"confidence":"alta"}`}
	h := newTestRouter(&mockDocs{docs: testDocs()}, comp, &mockPinger{})
	rec := doRequest(t, h, http.MethodGet, "/deepsearch?query=daniel", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var env searchEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("invalid envelope: %v", err)
	}
	if env.Query != "daniel" {
		t.Errorf("query = %q", env.Query)
	}
	if env.DocumentsAnalyzed != 2 || env.DocumentsFound != 1 || env.LogsAnalyzed != 1 {
		t.Errorf("counts = %d/%d/%d", env.DocumentsAnalyzed, env.DocumentsFound, env.LogsAnalyzed)
	}
	if env.Response.Results[0].ID != "doc-1" {
		t.Errorf("results = %+v", env.Response.Results)
	}
	if env.FiltersApplied != nil {
		t.Error("GET route must not report filtersApplied")
	}
	if env.Timestamp.IsZero() {
		t.Error("timestamp missing")
	}
}

func TestDeepSearchPost_FiltersApplied(t *testing.T) {
	comp := &mockCompleter{response: `{"matchedDocumentIds":["doc-2"]}`}
	h := newTestRouter(&mockDocs{docs: testDocs()}, comp, &mockPinger{})
	rec := doRequest(t, h, http.MethodPost, "/deepsearch",
		`{"query":"pendientes de noviembre","filters":{"mesDocumento":"noviembre","estado":"pendiente"}}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var env searchEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("invalid envelope: %v", err)
	}
	if env.FiltersApplied == nil || env.FiltersApplied.MesDocumento != "noviembre" {
		t.Errorf("filtersApplied = %+v", env.FiltersApplied)
	}
	if env.DocumentsAnalyzed != 1 {
		t.Errorf("DocumentsAnalyzed = %d, want 1 after pre-filter", env.DocumentsAnalyzed)
	}
}

func TestDeepSearchPost_InvalidBody(t *testing.T) {
	h := newTestRouter(&mockDocs{docs: testDocs()}, &mockCompleter{}, &mockPinger{})
	rec := doRequest(t, h, http.MethodPost, "/deepsearch", `{not json`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestDeepSearchPost_EmptyQuery(t *testing.T) {
	h := newTestRouter(&mockDocs{docs: testDocs()}, &mockCompleter{}, &mockPinger{})
	rec := doRequest(t, h, http.MethodPost, "/deepsearch", `{"query":"  "}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var resp errorResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Code != codeInvalidQuery {
		t.Errorf("code = %q", resp.Code)
	}
}

func TestDeepSearch_StatusMapping(t *testing.T) {
	cases := []struct {
		name       string
		docsErr    error
		completion *mockCompleter
		wantStatus int
		wantCode   string
	}{
		{
			name:       "store unavailable",
			docsErr:    domain.ErrStoreUnavailable,
			completion: &mockCompleter{},
			wantStatus: http.StatusServiceUnavailable,
			wantCode:   codeStoreUnavailable,
		},
		{
			name:       "completion unavailable",
			completion: &mockCompleter{err: domain.ErrCompletionUnavailable},
			wantStatus: http.StatusServiceUnavailable,
			wantCode:   codeCompletionUnavailable,
		},
		{
			name:       "completion failed",
			completion: &mockCompleter{err: domain.ErrCompletionFailed},
			wantStatus: http.StatusBadGateway,
			wantCode:   codeCompletionFailed,
		},
		{
			name:       "malformed completion",
			completion: &mockCompleter{response: "no json aqui"},
			wantStatus: http.StatusBadGateway,
			wantCode:   codeMalformedCompletion,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			docs := &mockDocs{docs: testDocs(), err: tc.docsErr}
			h := newTestRouter(docs, tc.completion, &mockPinger{})
			rec := doRequest(t, h, http.MethodGet, "/deepsearch?query=q", "")

			if rec.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tc.wantStatus)
			}
			var resp errorResponse
			_ = json.Unmarshal(rec.Body.Bytes(), &resp)
			if resp.Code != tc.wantCode {
				t.Errorf("code = %q, want %q", resp.Code, tc.wantCode)
			}
		})
	}
}

func TestGetDocument(t *testing.T) {
	docs := &mockDocs{byID: map[string]domain.Document{
		"doc-1": {ID: "doc-1", StudentName: "Daniel Gonzalez"},
	}}
	h := newTestRouter(docs, &mockCompleter{}, &mockPinger{})

	rec := doRequest(t, h, http.MethodGet, "/documents/doc-1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var doc domain.Document
	if err := json.Unmarshal(rec.Body.Bytes(), &doc); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if doc.StudentName != "Daniel Gonzalez" {
		t.Errorf("doc = %+v", doc)
	}

	rec = doRequest(t, h, http.MethodGet, "/documents/doc-404", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	var resp errorResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Code != codeDocumentNotFound {
		t.Errorf("code = %q", resp.Code)
	}
}

func TestHealth(t *testing.T) {
	h := newTestRouter(&mockDocs{}, &mockCompleter{}, &mockPinger{})
	rec := doRequest(t, h, http.MethodGet, "/health", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	if body["status"] != "ok" {
		t.Errorf("status = %v", body["status"])
	}
}

func TestHealth_Degraded(t *testing.T) {
	h := newTestRouter(&mockDocs{}, &mockCompleter{}, &mockPinger{err: domain.ErrStoreUnavailable})
	rec := doRequest(t, h, http.MethodGet, "/health", "")

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
}

func TestRouteNotFound(t *testing.T) {
	h := newTestRouter(&mockDocs{}, &mockCompleter{}, &mockPinger{})
	rec := doRequest(t, h, http.MethodGet, "/nope", "")

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("404 body must be JSON: %v", err)
	}
	if body["code"] != codeRouteNotFound {
		t.Errorf("code = %v", body["code"])
	}
	if _, ok := body["availableRoutes"]; !ok {
		t.Error("expected route list in 404 body")
	}
}
