// Package queue carries booking events over RabbitMQ.
package queue

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/example/tablebook/internal/domain/booking"
)

const DefaultQueue = "booking.submitted"

// BookingSubmittedEvent is published after a backend accepts a reservation.
type BookingSubmittedEvent struct {
	EventID     string         `json:"event_id"`
	Backend     string         `json:"backend"`
	Booking     booking.Record `json:"booking"`
	SubmittedAt string         `json:"submitted_at"`
}

func NewBookingSubmitted(backend string, rec booking.Record, at time.Time) BookingSubmittedEvent {
	return BookingSubmittedEvent{
		EventID:     uuid.NewString(),
		Backend:     backend,
		Booking:     rec,
		SubmittedAt: at.UTC().Format(time.RFC3339),
	}
}

// Line renders ev as the single-line entry the consumer logs.
func (ev BookingSubmittedEvent) Line() string {
	b := ev.Booking
	occasion := string(b.Occasion)
	if occasion == "" {
		occasion = "-"
	}
	return fmt.Sprintf("[%s] Booking submitted | event_id=%s | backend=%s | name=%q | date=%s | time=%s | guests=%d | occasion=%s",
		ev.SubmittedAt, ev.EventID, ev.Backend, b.Name, b.Date, b.Time, b.Guests, occasion)
}
