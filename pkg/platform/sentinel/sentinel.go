package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores return these (optionally
// wrapped) so the movie service can translate them into domain errors.
//
//   - ErrNotFound: no record with the requested id
//   - ErrUnavailable: the backing store could not be reached
//
// For input problems (missing fields, bad formats), use pkg/domain-errors.
var (
	ErrNotFound    = errors.New("not found")
	ErrUnavailable = errors.New("unavailable")
)
