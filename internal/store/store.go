package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/example/tablebook/internal/domain/booking"
)

// ErrSuperseded is returned by UpdateTimes when a newer date was requested before this
// lookup finished. The newer request owns the state.
var ErrSuperseded = errors.New("availability lookup superseded")

// Store holds one session's selected date, offered times and accepted bookings.
type Store struct {
	backend booking.Backend

	mu    sync.Mutex
	state State
	seq   uint64
}

func New(b booking.Backend) *Store {
	return &Store{backend: b}
}

// Open creates a store and resolves the times for today.
func Open(ctx context.Context, b booking.Backend, today time.Time) (*Store, error) {
	s := New(b)
	if err := s.UpdateTimes(ctx, today); err != nil {
		return nil, err
	}
	return s, nil
}

// UpdateTimes resolves the times for date and replaces the availability wholesale.
func (s *Store) UpdateTimes(ctx context.Context, date time.Time) error {
	s.mu.Lock()
	s.seq++
	seq := s.seq
	s.mu.Unlock()

	times, err := s.backend.ResolveAvailability(ctx, date)

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.seq {
		return ErrSuperseded
	}
	if err != nil {
		return fmt.Errorf("resolve availability for %s: %w", date.Format(booking.DateLayout), err)
	}
	s.state = Apply(s.state, SetDate{Date: date})
	s.state = Apply(s.state, UpdateTimes{Times: times})
	return nil
}

// SubmitBooking forwards rec to the backend and records it when accepted. A rejection
// (including a wrapped booking.ErrRejected) reports false with a nil error.
func (s *Store) SubmitBooking(ctx context.Context, rec booking.Record) (bool, error) {
	ok, err := s.backend.SubmitBooking(ctx, rec)
	if errors.Is(err, booking.ErrRejected) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}
	s.mu.Lock()
	s.state = Apply(s.state, AddBooking{Record: rec})
	s.mu.Unlock()
	return true, nil
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}
