package search

import (
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/rsanta/DSaaS/internal/domain"
)

// completionPayload is the JSON contract the model is instructed to follow.
type completionPayload struct {
	Summary            string   `json:"summary"`
	MatchedDocumentIDs []string `json:"matchedDocumentIds"`
	TotalMatches       *int     `json:"totalMatches"`
	Confidence         string   `json:"confidence"`
	Suggestions        []string `json:"suggestions"`
}

// reconcile validates the raw completion text against the candidate set that
// was rendered into the prompt. Identifiers the model invented are dropped
// silently; everything else about the payload is defaulted rather than
// trusted. The raw text is never forwarded to callers.
func reconcile(
	raw string, candidates []domain.Document, logger *zap.Logger,
) (domain.SearchResult, error) {
	payload, err := parseCompletion(raw)
	if err != nil {
		logger.Debug("unparseable completion", zap.String("raw", raw))
		return domain.SearchResult{}, err
	}

	byID := make(map[string]domain.Document, len(candidates))
	for _, d := range candidates {
		byID[d.ID] = d
	}

	matched := make([]domain.Document, 0, len(payload.MatchedDocumentIDs))
	seen := make(map[string]bool, len(payload.MatchedDocumentIDs))
	for _, id := range payload.MatchedDocumentIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		doc, ok := byID[id]
		if !ok {
			logger.Debug("dropping unknown document id", zap.String("id", id))
			continue
		}
		matched = append(matched, doc)
	}

	if payload.TotalMatches != nil && *payload.TotalMatches != len(matched) {
		logger.Debug("model match count disagrees with reconciled count",
			zap.Int("declared", *payload.TotalMatches),
			zap.Int("computed", len(matched)),
		)
	}

	summary := payload.Summary
	if summary == "" {
		summary = "Búsqueda completada"
	}

	confidence, ok := domain.ParseConfidence(payload.Confidence)
	if !ok {
		confidence = domain.ConfidenceMedia
	}

	suggestions := payload.Suggestions
	if suggestions == nil {
		suggestions = []string{}
	}

	return domain.SearchResult{
		Summary:      summary,
		Results:      matched,
		Suggestions:  suggestions,
		Confidence:   confidence,
		TotalMatches: len(matched),
	}, nil
}

// parseCompletion extracts and decodes the JSON object from the raw
// completion. Providers occasionally wrap the object in markdown fences or
// prose even in JSON mode, so everything outside the outermost braces is
// discarded before the strict decode.
func parseCompletion(raw string) (completionPayload, error) {
	text := stripToJSONObject(raw)
	if text == "" {
		return completionPayload{}, fmt.Errorf(
			"no JSON object in completion: %w", domain.ErrMalformedCompletion)
	}

	var payload completionPayload
	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		return completionPayload{}, fmt.Errorf(
			"parse completion response: %w: %w", domain.ErrMalformedCompletion, err)
	}
	return payload, nil
}

// stripToJSONObject returns the substring between the first '{' and the last
// '}', or "" when no object is present.
func stripToJSONObject(raw string) string {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end < start {
		return ""
	}
	return raw[start : end+1]
}
