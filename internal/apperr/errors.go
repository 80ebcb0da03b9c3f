// Package apperr defines the error kinds shared by the store and its callers.
package apperr

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrIntegrity          = errors.New("integrity violation")
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrLockContention     = errors.New("store busy")
)

// Kind codes returned by Kind.
const (
	KindNotFound           = "not_found"
	KindIntegrity          = "integrity_violation"
	KindStorageUnavailable = "storage_unavailable"
	KindLockContention     = "lock_contention"
	KindInternal           = "internal"
)

// Kind returns a stable code for err so callers outside Go can branch on it.
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrIntegrity):
		return KindIntegrity
	case errors.Is(err, ErrLockContention):
		return KindLockContention
	case errors.Is(err, ErrStorageUnavailable):
		return KindStorageUnavailable
	default:
		return KindInternal
	}
}
