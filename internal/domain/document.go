package domain

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// FlexDate carries a date value in whichever encoding the store holds for it:
// epoch milliseconds, a "DD/MM/YYYY" string, or an ISO date string. The raw
// JSON value is preserved so documents round-trip unchanged.
type FlexDate struct {
	raw json.RawMessage
}

// FlexDateFromString builds a FlexDate holding a string value.
func FlexDateFromString(s string) FlexDate {
	b, _ := json.Marshal(s)
	return FlexDate{raw: b}
}

// FlexDateFromMillis builds a FlexDate holding an epoch-milliseconds value.
func FlexDateFromMillis(ms int64) FlexDate {
	return FlexDate{raw: []byte(strconv.FormatInt(ms, 10))}
}

// IsZero reports whether the value is absent or JSON null.
func (d FlexDate) IsZero() bool {
	return len(d.raw) == 0 || bytes.Equal(d.raw, []byte("null"))
}

// Millis returns the value as epoch milliseconds if it is a JSON number.
func (d FlexDate) Millis() (int64, bool) {
	var f float64
	if d.IsZero() || json.Unmarshal(d.raw, &f) != nil {
		return 0, false
	}
	return int64(f), true
}

// Text returns the value as a string if it is a JSON string.
func (d FlexDate) Text() (string, bool) {
	var s string
	if d.IsZero() || json.Unmarshal(d.raw, &s) != nil {
		return "", false
	}
	return s, true
}

// UnmarshalJSON keeps the raw value regardless of its JSON type.
func (d *FlexDate) UnmarshalJSON(b []byte) error {
	d.raw = append(d.raw[:0], b...)
	return nil
}

// MarshalJSON writes back the original raw value.
func (d FlexDate) MarshalJSON() ([]byte, error) {
	if len(d.raw) == 0 {
		return []byte("null"), nil
	}
	return d.raw, nil
}

// Document is one academic document record. ID is the sole join key between
// the pre-filter, prompt, and reconciliation stages and is stable across
// fetches.
type Document struct {
	ID           string   `json:"id"`
	StudentName  string   `json:"studentName,omitempty"`
	StudentID    string   `json:"studentId,omitempty"`
	StudentUID   string   `json:"studentUid,omitempty"`
	DocumentType string   `json:"documentType,omitempty"`
	Status       string   `json:"status,omitempty"`
	RequestDate  FlexDate `json:"requestDate,omitempty"`
	LastUpdate   FlexDate `json:"lastUpdate,omitempty"`
	Details      string   `json:"details,omitempty"`
	FileURL      string   `json:"fileUrl,omitempty"`
}

// LogEntry is one activity-log record. Entries are read-only context for a
// search run; the pipeline never filters or mutates them.
type LogEntry struct {
	ID         string   `json:"id"`
	Timestamp  FlexDate `json:"timestamp,omitempty"`
	User       string   `json:"user,omitempty"`
	Role       string   `json:"role,omitempty"`
	Action     string   `json:"action,omitempty"`
	DocumentID string   `json:"documentId,omitempty"`
	Details    string   `json:"details,omitempty"`
}
