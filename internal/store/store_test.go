package store

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/example/tablebook/internal/domain/booking"
)

type fakeBackend struct {
	accept  bool
	err     error
	submits int
	// block, when set, holds ResolveAvailability for the given date until released.
	block   map[string]chan struct{}
	started chan string
	// fail makes ResolveAvailability return the error for the given date.
	fail map[string]error
}

func (f *fakeBackend) Name() string { return "fake" }

func (f *fakeBackend) ResolveAvailability(ctx context.Context, date time.Time) ([]string, error) {
	key := date.Format(booking.DateLayout)
	if f.started != nil {
		f.started <- key
	}
	if ch, ok := f.block[key]; ok {
		select {
		case <-ch:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err, ok := f.fail[key]; ok {
		return nil, err
	}
	return booking.Resolve(date), nil
}

func (f *fakeBackend) SubmitBooking(ctx context.Context, rec booking.Record) (bool, error) {
	f.submits++
	return f.accept, f.err
}

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := booking.ParseDate(s, time.UTC)
	if err != nil {
		t.Fatalf("parse %s: %v", s, err)
	}
	return d
}

func sampleRecord() booking.Record {
	return booking.Record{
		Name: "Ada", Email: "ada@example.com", Phone: "3125550100",
		Date: "2025-06-14", Time: "19:00", Guests: 2,
	}
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	s0 := State{Bookings: []booking.Record{sampleRecord()}}
	s1 := Apply(s0, AddBooking{Record: sampleRecord()})
	if len(s0.Bookings) != 1 {
		t.Fatalf("expected original to keep 1 booking, got %d", len(s0.Bookings))
	}
	if len(s1.Bookings) != 2 {
		t.Fatalf("expected 2 bookings, got %d", len(s1.Bookings))
	}

	times := []string{"17:00"}
	s2 := Apply(s1, UpdateTimes{Times: times})
	times[0] = "changed"
	if s2.Availability.AvailableTimes[0] != "17:00" {
		t.Fatalf("expected copied times, got %v", s2.Availability.AvailableTimes)
	}
}

func TestOpen_ResolvesToday(t *testing.T) {
	today := day(t, "2025-06-10") // Tuesday
	s, err := Open(context.Background(), &fakeBackend{accept: true}, today)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	snap := s.Snapshot()
	if !snap.Availability.SelectedDate.Equal(today) {
		t.Fatalf("expected selected date %v, got %v", today, snap.Availability.SelectedDate)
	}
	if !reflect.DeepEqual(snap.Availability.AvailableTimes, booking.SlotUniverse) {
		t.Fatalf("expected full universe, got %v", snap.Availability.AvailableTimes)
	}
	if len(snap.Bookings) != 0 {
		t.Fatalf("expected no bookings, got %d", len(snap.Bookings))
	}
}

func TestUpdateTimes_ReplacesWholesale(t *testing.T) {
	s := New(&fakeBackend{})
	if err := s.UpdateTimes(context.Background(), day(t, "2025-06-10")); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := s.UpdateTimes(context.Background(), day(t, "2025-06-13")); err != nil {
		t.Fatalf("update: %v", err)
	}
	got := s.Snapshot().Availability.AvailableTimes
	want := []string{"17:00", "19:00", "21:00"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestUpdateTimes_LastRequestWins(t *testing.T) {
	release := make(chan struct{})
	fb := &fakeBackend{
		block:   map[string]chan struct{}{"2025-06-13": release},
		started: make(chan string, 2),
	}
	s := New(fb)

	slow := make(chan error, 1)
	go func() { slow <- s.UpdateTimes(context.Background(), day(t, "2025-06-13")) }()
	<-fb.started

	if err := s.UpdateTimes(context.Background(), day(t, "2025-06-10")); err != nil {
		t.Fatalf("fast update: %v", err)
	}
	<-fb.started
	close(release)

	if err := <-slow; !errors.Is(err, ErrSuperseded) {
		t.Fatalf("expected ErrSuperseded, got %v", err)
	}
	snap := s.Snapshot()
	if snap.Availability.SelectedDate.Format(booking.DateLayout) != "2025-06-10" {
		t.Fatalf("expected newest date to stick, got %s", snap.Availability.SelectedDate.Format(booking.DateLayout))
	}
	if len(snap.Availability.AvailableTimes) != len(booking.SlotUniverse) {
		t.Fatalf("expected full universe, got %v", snap.Availability.AvailableTimes)
	}
}

func TestUpdateTimes_SupersededFailureIsNotReported(t *testing.T) {
	release := make(chan struct{})
	fb := &fakeBackend{
		block:   map[string]chan struct{}{"2025-06-13": release},
		started: make(chan string, 2),
		fail:    map[string]error{"2025-06-13": booking.NetworkError("availability", errors.New("timeout"))},
	}
	s := New(fb)

	slow := make(chan error, 1)
	go func() { slow <- s.UpdateTimes(context.Background(), day(t, "2025-06-13")) }()
	<-fb.started

	if err := s.UpdateTimes(context.Background(), day(t, "2025-06-16")); err != nil {
		t.Fatalf("fast update: %v", err)
	}
	<-fb.started
	close(release)

	err := <-slow
	if !errors.Is(err, ErrSuperseded) || booking.IsRetryable(err) {
		t.Fatalf("expected ErrSuperseded only, got %v", err)
	}
	if got := s.Snapshot().Availability.SelectedDate.Format(booking.DateLayout); got != "2025-06-16" {
		t.Fatalf("expected 2025-06-16, got %s", got)
	}
}

func TestUpdateTimes_CurrentFailureIsReported(t *testing.T) {
	fb := &fakeBackend{fail: map[string]error{"2025-06-13": booking.NetworkError("availability", errors.New("timeout"))}}
	s := New(fb)
	if err := s.UpdateTimes(context.Background(), day(t, "2025-06-13")); !booking.IsRetryable(err) {
		t.Fatalf("expected network error, got %v", err)
	}
}

func TestSubmitBooking_AppendsInOrderWithoutDedup(t *testing.T) {
	fb := &fakeBackend{accept: true}
	s := New(fb)
	rec := sampleRecord()
	for i := 0; i < 2; i++ {
		ok, err := s.SubmitBooking(context.Background(), rec)
		if err != nil || !ok {
			t.Fatalf("expected accepted, got ok=%v err=%v", ok, err)
		}
	}
	other := rec
	other.Name = "Grace"
	if _, err := s.SubmitBooking(context.Background(), other); err != nil {
		t.Fatalf("submit: %v", err)
	}
	got := s.Snapshot().Bookings
	if len(got) != 3 || got[0] != rec || got[1] != rec || got[2] != other {
		t.Fatalf("unexpected bookings %+v", got)
	}
}

func TestSubmitBooking_Rejected(t *testing.T) {
	cases := []struct {
		name string
		fb   *fakeBackend
	}{
		{"false", &fakeBackend{accept: false}},
		{"wrapped rejection", &fakeBackend{err: fmt.Errorf("remote: %w", booking.ErrRejected)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := New(tc.fb)
			ok, err := s.SubmitBooking(context.Background(), sampleRecord())
			if err != nil || ok {
				t.Fatalf("expected rejection, got ok=%v err=%v", ok, err)
			}
			if n := len(s.Snapshot().Bookings); n != 0 {
				t.Fatalf("expected no bookings, got %d", n)
			}
		})
	}
}

func TestSubmitBooking_NetworkError(t *testing.T) {
	s := New(&fakeBackend{accept: true, err: booking.NetworkError("submit", errors.New("dial tcp: refused"))})
	ok, err := s.SubmitBooking(context.Background(), sampleRecord())
	if ok || !booking.IsRetryable(err) {
		t.Fatalf("expected retryable error, got ok=%v err=%v", ok, err)
	}
	if n := len(s.Snapshot().Bookings); n != 0 {
		t.Fatalf("expected no bookings, got %d", n)
	}
}

func TestSnapshot_IsACopy(t *testing.T) {
	s := New(&fakeBackend{accept: true})
	_ = s.UpdateTimes(context.Background(), day(t, "2025-06-10"))
	_, _ = s.SubmitBooking(context.Background(), sampleRecord())

	snap := s.Snapshot()
	snap.Availability.AvailableTimes[0] = "x"
	snap.Bookings[0].Name = "x"

	again := s.Snapshot()
	if again.Availability.AvailableTimes[0] != "17:00" || again.Bookings[0].Name != "Ada" {
		t.Fatalf("expected store state untouched, got %+v", again)
	}
}
