// Package notify publishes an event for every booking a backend accepts.
package notify

import (
	"context"
	"log"
	"time"

	"github.com/example/tablebook/internal/domain/booking"
	"github.com/example/tablebook/internal/queue"
)

type Publisher interface {
	Publish(ctx context.Context, ev queue.BookingSubmittedEvent) error
}

type Backend struct {
	next booking.Backend
	pub  Publisher
	now  func() time.Time
}

// New wraps next. A nil publisher returns next unchanged.
func New(next booking.Backend, pub Publisher) booking.Backend {
	if pub == nil {
		return next
	}
	return &Backend{next: next, pub: pub, now: time.Now}
}

func (b *Backend) Name() string { return b.next.Name() }

func (b *Backend) ResolveAvailability(ctx context.Context, date time.Time) ([]string, error) {
	return b.next.ResolveAvailability(ctx, date)
}

// SubmitBooking publishes only after an acceptance. Publish failures are logged; the
// submission result is never changed by them.
func (b *Backend) SubmitBooking(ctx context.Context, rec booking.Record) (bool, error) {
	ok, err := b.next.SubmitBooking(ctx, rec)
	if err != nil || !ok {
		return ok, err
	}
	ev := queue.NewBookingSubmitted(b.next.Name(), rec, b.now())
	if perr := b.pub.Publish(ctx, ev); perr != nil {
		log.Printf("notify: publish %s: %v", ev.EventID, perr)
	}
	return true, nil
}
