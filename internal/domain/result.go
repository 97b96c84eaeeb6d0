package domain

// Confidence is the self-reported reliability label of a search answer.
type Confidence string

const (
	// ConfidenceAlta indicates a high-confidence answer.
	ConfidenceAlta Confidence = "alta"
	// ConfidenceMedia indicates a medium-confidence answer.
	ConfidenceMedia Confidence = "media"
	// ConfidenceBaja indicates a low-confidence answer.
	ConfidenceBaja Confidence = "baja"
)

// ParseConfidence validates a confidence label. Unknown labels report false.
func ParseConfidence(s string) (Confidence, bool) {
	switch Confidence(s) {
	case ConfidenceAlta, ConfidenceMedia, ConfidenceBaja:
		return Confidence(s), true
	}
	return "", false
}

// SearchResult is the reconciled outcome of one search run. Results carry
// the full document projection, never bare identifiers, and every entry is
// guaranteed to come from the candidate set that was rendered into the
// prompt.
type SearchResult struct {
	Summary      string     `json:"summary"`
	Results      []Document `json:"results"`
	Suggestions  []string   `json:"suggestions"`
	Confidence   Confidence `json:"confidence"`
	TotalMatches int        `json:"totalMatches"`
}
