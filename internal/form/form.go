package form

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/example/tablebook/internal/domain/booking"
	"github.com/example/tablebook/internal/store"
)

type State int

const (
	Editing State = iota
	Submitting
	Failed
	Succeeded
)

func (s State) String() string {
	switch s {
	case Editing:
		return "editing"
	case Submitting:
		return "submitting"
	case Failed:
		return "failed"
	case Succeeded:
		return "succeeded"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

const (
	NoticeRejected = "There was an error submitting your reservation. Please try again."
	NoticeNetwork  = "We could not reach the reservation service. Please try again."
)

var (
	ErrSubmitting   = errors.New("a submission is already in progress")
	ErrUnknownField = errors.New("unknown form field")
	ErrCompleted    = errors.New("form already submitted")
)

// Booker is the part of the booking store the form drives.
type Booker interface {
	UpdateTimes(ctx context.Context, date time.Time) error
	SubmitBooking(ctx context.Context, rec booking.Record) (bool, error)
}

// Result describes how a submit attempt ended.
type Result struct {
	State  State
	Errors Errors
	// Record is set when State is Succeeded.
	Record booking.Record
	Notice string
	// Retryable is set for failures caused by an unreachable backend.
	Retryable bool
}

// Form is the booking form for one guest session.
type Form struct {
	booker Booker
	loc    *time.Location

	mu     sync.Mutex
	values Values
	errors Errors
	state  State
	notice string
	// dateSeq counts date edits in the order they were written to values.
	dateSeq uint64
}

func New(b Booker, loc *time.Location, initial Values) *Form {
	if loc == nil {
		loc = time.UTC
	}
	return &Form{booker: b, loc: loc, values: initial, errors: Errors{}}
}

func (f *Form) Values() Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values
}

func (f *Form) Errors() Errors {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.errors.clone()
}

func (f *Form) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Notice is the whole-form message left by the last failed submission.
func (f *Form) Notice() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.notice
}

// ApplyFieldEdit writes one field, clears its error and, for the date field, refreshes the
// offered times. A date that does not parse leaves the times as they are.
func (f *Form) ApplyFieldEdit(ctx context.Context, field Field, value string) error {
	if !field.Known() {
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}

	f.mu.Lock()
	switch f.state {
	case Submitting:
		f.mu.Unlock()
		return ErrSubmitting
	case Succeeded:
		f.mu.Unlock()
		return ErrCompleted
	}
	f.values.Set(field, value)
	delete(f.errors, field)
	f.notice = ""
	f.state = Editing
	if field != FieldDate {
		f.mu.Unlock()
		return nil
	}
	f.dateSeq++
	seq := f.dateSeq
	f.mu.Unlock()

	return f.refreshTimes(ctx, seq, value)
}

// refreshTimes resolves the times for the date written by edit seq. A newer date edit may
// reach the store first and be overwritten by this one, so after a successful lookup the
// latest date is re-resolved until no newer edit is pending.
func (f *Form) refreshTimes(ctx context.Context, seq uint64, value string) error {
	for {
		d, err := booking.ParseDate(value, f.loc)
		if err != nil {
			return nil
		}
		err = f.booker.UpdateTimes(ctx, d)
		if errors.Is(err, store.ErrSuperseded) {
			return nil
		}
		if err != nil {
			return err
		}

		f.mu.Lock()
		latest, latestValue := f.dateSeq, f.values.Date
		f.mu.Unlock()
		if latest == seq {
			return nil
		}
		seq, value = latest, latestValue
	}
}

// Submit validates every field and, when they all pass, hands the record to the store.
func (f *Form) Submit(ctx context.Context) (Result, error) {
	f.mu.Lock()
	switch f.state {
	case Submitting:
		f.mu.Unlock()
		return Result{State: Submitting}, ErrSubmitting
	case Succeeded:
		f.mu.Unlock()
		return Result{State: Succeeded}, ErrCompleted
	}

	errs := Validate(f.values)
	if len(errs) > 0 {
		f.errors = errs
		f.notice = ""
		f.state = Editing
		f.mu.Unlock()
		return Result{State: Editing, Errors: errs.clone()}, nil
	}
	f.errors = Errors{}
	f.notice = ""
	f.state = Submitting
	rec := f.values.Record()
	f.mu.Unlock()

	ok, err := f.booker.SubmitBooking(ctx, rec)

	f.mu.Lock()
	defer f.mu.Unlock()
	switch {
	case err == nil && ok:
		f.state = Succeeded
		return Result{State: Succeeded, Record: rec}, nil
	case err == nil:
		f.notice = NoticeRejected
		f.state = Editing
		return Result{State: Failed, Notice: NoticeRejected}, nil
	case booking.IsRetryable(err):
		f.notice = NoticeNetwork
		f.state = Editing
		return Result{State: Failed, Notice: NoticeNetwork, Retryable: true}, nil
	default:
		f.notice = NoticeRejected
		f.state = Editing
		return Result{State: Failed, Notice: NoticeRejected}, err
	}
}
