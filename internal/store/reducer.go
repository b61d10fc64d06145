package store

import (
	"time"

	"github.com/example/tablebook/internal/domain/booking"
)

type Availability struct {
	SelectedDate   time.Time
	AvailableTimes []string
}

type State struct {
	Availability Availability
	Bookings     []booking.Record
}

// Action is one state transition understood by Apply.
type Action interface{ action() }

type SetDate struct{ Date time.Time }

type UpdateTimes struct{ Times []string }

type AddBooking struct{ Record booking.Record }

func (SetDate) action()     {}
func (UpdateTimes) action() {}
func (AddBooking) action()  {}

// Apply returns the state that follows s after a. s is not modified; unknown actions
// return s unchanged.
func Apply(s State, a Action) State {
	switch a := a.(type) {
	case SetDate:
		s.Availability.SelectedDate = a.Date
	case UpdateTimes:
		s.Availability.AvailableTimes = append([]string(nil), a.Times...)
	case AddBooking:
		next := make([]booking.Record, len(s.Bookings), len(s.Bookings)+1)
		copy(next, s.Bookings)
		s.Bookings = append(next, a.Record)
	}
	return s
}

func (s State) clone() State {
	out := s
	out.Availability.AvailableTimes = append([]string(nil), s.Availability.AvailableTimes...)
	out.Bookings = append([]booking.Record(nil), s.Bookings...)
	return out
}
