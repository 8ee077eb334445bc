// Package apperr holds the sentinel errors shared across layers.
// Callers match them with errors.Is.
package apperr

import "errors"

var (
	ErrUnauthenticated   = errors.New("unauthenticated")
	ErrInvalidToken      = errors.New("invalid token")
	ErrDuplicateIdentity = errors.New("duplicate identity")
	ErrUnknownIdentity   = errors.New("unknown identity")
	ErrInvalidCredential = errors.New("invalid credential")
	ErrNotFound          = errors.New("not found")
	ErrNoOpUpdate        = errors.New("no fields to update")
	ErrStoreUnavailable  = errors.New("store unavailable")
)
