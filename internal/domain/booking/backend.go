package booking

import (
	"context"
	"time"
)

// Backend is the capability the booking store talks to. The mock implementation answers
// synchronously; network-backed ones may block and report ErrNetwork.
type Backend interface {
	Name() string
	ResolveAvailability(ctx context.Context, date time.Time) ([]string, error)
	// SubmitBooking reports whether the reservation was accepted. A false result with a nil
	// error is a business rejection; the record is assumed to be validated already.
	SubmitBooking(ctx context.Context, rec Record) (bool, error)
}
