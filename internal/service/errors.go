// Package service implements the orchestration façade between the HTTP
// boundary and the ledger store.
package service

import "errors"

// Domain error taxonomy. The HTTP boundary maps these to status codes:
// ErrInvalid → 400, ErrForbidden → 403, ErrNotFound → 404; anything else is
// a 500. Wrap with fmt.Errorf("...: %w", Err...) to add context.
var (
	ErrInvalid   = errors.New("invalid input")
	ErrForbidden = errors.New("permission denied")
	ErrNotFound  = errors.New("not found")
)
