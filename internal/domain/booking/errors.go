package booking

import (
	"errors"
	"fmt"
)

var (
	// ErrNetwork marks a backend that could not be reached or answered with a server error.
	// Callers may retry.
	ErrNetwork = errors.New("reservation service unavailable")
	// ErrRejected marks a business rejection of a submission. Retrying will not help.
	ErrRejected = errors.New("reservation rejected")
)

// NetworkError wraps err so that errors.Is(err, ErrNetwork) holds.
func NetworkError(op string, err error) error {
	return fmt.Errorf("%s: %w: %v", op, ErrNetwork, err)
}

func IsRetryable(err error) bool { return errors.Is(err, ErrNetwork) }
