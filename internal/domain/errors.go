package domain

import "errors"

var (
	// ErrInvalidQuery signals an empty or missing search query.
	ErrInvalidQuery = errors.New("query is required")
	// ErrStoreUnavailable signals that the record store could not be reached.
	ErrStoreUnavailable = errors.New("record store unavailable")
	// ErrDocumentNotFound signals a missing document.
	ErrDocumentNotFound = errors.New("document not found")
	// ErrCompletionUnavailable signals a missing completion provider credential.
	ErrCompletionUnavailable = errors.New("completion provider not configured")
	// ErrCompletionFailed signals a completion provider transport or API failure.
	ErrCompletionFailed = errors.New("completion provider error")
	// ErrMalformedCompletion signals a completion response that violates the JSON contract.
	ErrMalformedCompletion = errors.New("malformed completion response")
)
