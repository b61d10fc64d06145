// Package mock is the in-process stand-in for a reservation backend: availability comes
// straight from the resolver and every submission is accepted.
package mock

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/example/tablebook/internal/domain/booking"
)

type Backend struct {
	// Logger receives one diagnostic line per submission. Nil means log.Default().
	Logger *log.Logger
}

func New() *Backend { return &Backend{} }

func (b *Backend) Name() string { return "mock" }

func (b *Backend) ResolveAvailability(ctx context.Context, date time.Time) ([]string, error) {
	return booking.Resolve(date), nil
}

func (b *Backend) SubmitBooking(ctx context.Context, rec booking.Record) (bool, error) {
	l := b.Logger
	if l == nil {
		l = log.Default()
	}
	payload, err := json.Marshal(rec)
	if err != nil {
		l.Printf("booking submitted: %s", rec)
	} else {
		l.Printf("booking submitted: %s", payload)
	}
	return true, nil
}
