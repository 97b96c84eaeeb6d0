package search

import (
	"strconv"
	"strings"

	"github.com/rsanta/DSaaS/internal/domain"
	"github.com/rsanta/DSaaS/internal/domain/dates"
)

// preFilter narrows the candidate set by the structured criteria that can be
// decided locally: request-date month, year, day, and status. Filters compose
// as a logical AND in the fixed order month, year, day, status; each is
// skipped when its target is absent or unnormalizable. A record whose date
// component is unknown never matches a date filter.
//
// The function is pure and idempotent: re-running it on its own output with
// the same criteria yields the same set.
func preFilter(docs []domain.Document, c domain.SearchCriteria) []domain.Document {
	filtered := docs

	if target, ok := dates.NormalizeMonth(c.MesDocumento); ok {
		filtered = keep(filtered, func(d domain.Document) bool {
			p := dates.Extract(d.RequestDate)
			return p.HasMonth && p.Month == target
		})
	}

	if target, ok := atoiTarget(c.AnoDocumento); ok {
		filtered = keep(filtered, func(d domain.Document) bool {
			p := dates.Extract(d.RequestDate)
			return p.HasYear && p.Year == target
		})
	}

	if target, ok := atoiTarget(c.DiaDocumento); ok {
		filtered = keep(filtered, func(d domain.Document) bool {
			p := dates.Extract(d.RequestDate)
			return p.HasDay && p.Day == target
		})
	}

	if c.Estado != "" {
		target := strings.ToLower(strings.TrimSpace(c.Estado))
		filtered = keep(filtered, func(d domain.Document) bool {
			return strings.ToLower(d.Status) == target
		})
	}

	return filtered
}

func keep(docs []domain.Document, pred func(domain.Document) bool) []domain.Document {
	out := make([]domain.Document, 0, len(docs))
	for _, d := range docs {
		if pred(d) {
			out = append(out, d)
		}
	}
	return out
}

func atoiTarget(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}
