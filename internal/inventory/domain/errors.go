package domain

import "errors"

// Error kinds returned by the ledger and the picking engine. Callers wrap them
// with fmt.Errorf("%w: ...") and test with errors.Is.
var (
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidOperation  = errors.New("invalid operation")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrNotFound          = errors.New("not found")
	// ErrContention is retryable: a lock could not be acquired in time.
	ErrContention = errors.New("contention")
	ErrValidation = errors.New("validation error")
)

// IsRetryable reports whether err may succeed when the same call is repeated.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrContention)
}
