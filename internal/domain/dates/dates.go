// Package dates normalizes the heterogeneous date encodings found in stored
// documents: epoch milliseconds, "DD/MM/YYYY" strings, and ISO strings.
// Parsing is permissive — an unreadable value yields absent components, never
// an error, so malformed dates simply fail to match date filters.
//
// Epoch and ISO values are interpreted in UTC so component extraction does
// not depend on the server timezone.
package dates

import (
	"strconv"
	"strings"
	"time"

	"github.com/rsanta/DSaaS/internal/domain"
)

// Parts is a calendar date with per-component presence flags. A component
// whose flag is false was not recoverable from the input.
type Parts struct {
	Day      int
	Month    int
	Year     int
	HasDay   bool
	HasMonth bool
	HasYear  bool
}

// monthNames maps Spanish and English month tokens, full and abbreviated,
// to month numbers. Digit tokens are handled separately.
var monthNames = map[string]int{
	"enero": 1, "ene": 1, "jan": 1, "january": 1,
	"febrero": 2, "feb": 2, "february": 2,
	"marzo": 3, "mar": 3, "march": 3,
	"abril": 4, "abr": 4, "apr": 4, "april": 4,
	"mayo": 5, "may": 5,
	"junio": 6, "jun": 6, "june": 6,
	"julio": 7, "jul": 7, "july": 7,
	"agosto": 8, "ago": 8, "aug": 8, "august": 8,
	"septiembre": 9, "sep": 9, "sept": 9, "september": 9,
	"octubre": 10, "oct": 10, "october": 10,
	"noviembre": 11, "nov": 11, "november": 11,
	"diciembre": 12, "dic": 12, "dec": 12, "december": 12,
}

// NormalizeMonth converts a month token to its number 1..12. Accepted forms:
// "1".."12" with or without a leading zero, and full or abbreviated month
// names in Spanish or English, case-insensitive.
func NormalizeMonth(token string) (int, bool) {
	t := strings.ToLower(strings.TrimSpace(token))
	if t == "" {
		return 0, false
	}
	if m, ok := monthNames[t]; ok {
		return m, true
	}
	n, err := strconv.Atoi(t)
	if err != nil || n < 1 || n > 12 {
		return 0, false
	}
	return n, true
}

// isoLayouts are tried in order for string dates that are not "DD/MM/YYYY".
var isoLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Extract pulls day, month, and year out of a stored date value.
// "DD/MM/YYYY" strings are read positionally rather than through a layout
// parser, since that format is ambiguous to generic parsing.
func Extract(v domain.FlexDate) Parts {
	if ms, ok := v.Millis(); ok {
		t := time.UnixMilli(ms).UTC()
		return Parts{
			Day: t.Day(), Month: int(t.Month()), Year: t.Year(),
			HasDay: true, HasMonth: true, HasYear: true,
		}
	}

	s, ok := v.Text()
	if !ok {
		return Parts{}
	}
	s = strings.TrimSpace(s)

	if strings.Contains(s, "/") {
		return extractSlashed(s)
	}

	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return Parts{
				Day: t.Day(), Month: int(t.Month()), Year: t.Year(),
				HasDay: true, HasMonth: true, HasYear: true,
			}
		}
	}

	return Parts{}
}

// extractSlashed reads "DD/MM/YYYY" by position. Each component is parsed
// independently; a bad component stays absent without discarding the others.
func extractSlashed(s string) Parts {
	parts := strings.Split(s, "/")
	if len(parts) != 3 {
		return Parts{}
	}

	var p Parts
	if d, err := strconv.Atoi(strings.TrimSpace(parts[0])); err == nil {
		p.Day, p.HasDay = d, true
	}
	if m, err := strconv.Atoi(strings.TrimSpace(parts[1])); err == nil {
		p.Month, p.HasMonth = m, true
	}
	if y, err := strconv.Atoi(strings.TrimSpace(parts[2])); err == nil {
		p.Year, p.HasYear = y, true
	}
	return p
}

// notSpecified is the display fallback rendered into prompts.
const notSpecified = "No especificado"

// Format renders a stored date as "DD/MM/YYYY" for display. Absent values
// render as "No especificado"; unparseable strings are returned verbatim.
func Format(v domain.FlexDate) string {
	if v.IsZero() {
		return notSpecified
	}

	if ms, ok := v.Millis(); ok {
		return time.UnixMilli(ms).UTC().Format("02/01/2006")
	}

	s, ok := v.Text()
	if !ok {
		return notSpecified
	}
	if strings.Contains(s, "/") {
		return s
	}
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC().Format("02/01/2006")
		}
	}
	return s
}
