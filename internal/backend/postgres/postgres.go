// Package postgres records accepted bookings in the bookings table. Availability still follows
// the weekday rule; the table is a ledger, not a capacity model.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/example/tablebook/internal/db"
	"github.com/example/tablebook/internal/domain/booking"
)

type StoredBooking struct {
	ID        uuid.UUID
	Record    booking.Record
	CreatedAt time.Time
}

type Backend struct{ db *db.DB }

func New(d *db.DB) *Backend { return &Backend{db: d} }

func (b *Backend) Name() string { return "postgres" }

func (b *Backend) ResolveAvailability(ctx context.Context, date time.Time) ([]string, error) {
	return booking.Resolve(date), nil
}

func (b *Backend) SubmitBooking(ctx context.Context, rec booking.Record) (bool, error) {
	if _, err := b.Create(ctx, rec); err != nil {
		return false, err
	}
	return true, nil
}

func (b *Backend) Create(ctx context.Context, rec booking.Record) (uuid.UUID, error) {
	d, err := time.Parse(booking.DateLayout, rec.Date)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %v", booking.ErrRejected, err)
	}
	id := uuid.New()
	err = b.db.Exec(ctx, `
INSERT INTO bookings(id,name,email,phone,reservation_date,reservation_time,guests,occasion,special_requests)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		id, rec.Name, rec.Email, rec.Phone, d, rec.Time, rec.Guests, string(rec.Occasion), rec.SpecialRequests,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("insert booking: %w", err)
	}
	return id, nil
}

// List returns stored bookings in submission order, optionally limited to one date.
func (b *Backend) List(ctx context.Context, date string, limit int) ([]StoredBooking, error) {
	if limit <= 0 {
		limit = 100
	}
	var (
		rows db.Rows
		err  error
	)
	const cols = `id,name,email,phone,reservation_date,reservation_time,guests,occasion,special_requests,created_at`
	if date == "" {
		rows, err = b.db.Query(ctx, `SELECT `+cols+` FROM bookings ORDER BY created_at ASC LIMIT $1`, limit)
	} else {
		rows, err = b.db.Query(ctx, `SELECT `+cols+` FROM bookings WHERE reservation_date=$1 ORDER BY created_at ASC LIMIT $2`, date, limit)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []StoredBooking
	for rows.Next() {
		var (
			sb       StoredBooking
			resDate  time.Time
			occasion string
		)
		if err := rows.Scan(&sb.ID, &sb.Record.Name, &sb.Record.Email, &sb.Record.Phone, &resDate,
			&sb.Record.Time, &sb.Record.Guests, &occasion, &sb.Record.SpecialRequests, &sb.CreatedAt); err != nil {
			return nil, err
		}
		sb.Record.Date = resDate.Format(booking.DateLayout)
		sb.Record.Occasion = booking.Occasion(occasion)
		out = append(out, sb)
	}
	return out, rows.Err()
}

// Get loads one stored booking.
func (b *Backend) Get(ctx context.Context, id uuid.UUID) (StoredBooking, error) {
	var (
		sb       StoredBooking
		resDate  time.Time
		occasion string
	)
	err := b.db.QueryRow(ctx, `
SELECT id,name,email,phone,reservation_date,reservation_time,guests,occasion,special_requests,created_at
FROM bookings WHERE id=$1`, id).
		Scan(&sb.ID, &sb.Record.Name, &sb.Record.Email, &sb.Record.Phone, &resDate,
			&sb.Record.Time, &sb.Record.Guests, &occasion, &sb.Record.SpecialRequests, &sb.CreatedAt)
	if err != nil {
		return StoredBooking{}, db.WrapNotFound(err)
	}
	sb.Record.Date = resDate.Format(booking.DateLayout)
	sb.Record.Occasion = booking.Occasion(occasion)
	return sb, nil
}
