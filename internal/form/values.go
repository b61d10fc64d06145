package form

import (
	"strconv"
	"strings"
	"time"

	"github.com/example/tablebook/internal/domain/booking"
)

type Field string

const (
	FieldName            Field = "name"
	FieldEmail           Field = "email"
	FieldPhone           Field = "phone"
	FieldDate            Field = "date"
	FieldTime            Field = "time"
	FieldGuests          Field = "guests"
	FieldOccasion        Field = "occasion"
	FieldSpecialRequests Field = "specialRequests"
)

// Fields lists every form field in display order.
var Fields = []Field{FieldName, FieldEmail, FieldPhone, FieldDate, FieldTime, FieldGuests, FieldOccasion, FieldSpecialRequests}

func (f Field) Known() bool {
	for _, k := range Fields {
		if k == f {
			return true
		}
	}
	return false
}

// Values holds the raw field contents as the guest typed them.
type Values struct {
	Name            string
	Email           string
	Phone           string
	Date            string
	Time            string
	Guests          string
	Occasion        string
	SpecialRequests string
}

// DefaultValues is a blank form dated today with the default party size.
func DefaultValues(today time.Time) Values {
	return Values{
		Date:   today.Format(booking.DateLayout),
		Guests: strconv.Itoa(booking.DefaultGuests),
	}
}

func (v *Values) ptr(f Field) *string {
	switch f {
	case FieldName:
		return &v.Name
	case FieldEmail:
		return &v.Email
	case FieldPhone:
		return &v.Phone
	case FieldDate:
		return &v.Date
	case FieldTime:
		return &v.Time
	case FieldGuests:
		return &v.Guests
	case FieldOccasion:
		return &v.Occasion
	case FieldSpecialRequests:
		return &v.SpecialRequests
	}
	return nil
}

func (v Values) Get(f Field) string {
	if p := v.ptr(f); p != nil {
		return *p
	}
	return ""
}

func (v *Values) Set(f Field, value string) bool {
	p := v.ptr(f)
	if p == nil {
		return false
	}
	*p = value
	return true
}

// Record converts the values into the record handed to the store. An unparsable party size
// falls back to the default.
func (v Values) Record() booking.Record {
	guests, err := strconv.Atoi(strings.TrimSpace(v.Guests))
	if err != nil {
		guests = booking.DefaultGuests
	}
	return booking.Record{
		Name:            v.Name,
		Email:           v.Email,
		Phone:           v.Phone,
		Date:            v.Date,
		Time:            v.Time,
		Guests:          guests,
		Occasion:        booking.Occasion(v.Occasion),
		SpecialRequests: v.SpecialRequests,
	}
}

// ValuesFromRecord is the inverse of Values.Record.
func ValuesFromRecord(r booking.Record) Values {
	return Values{
		Name:            r.Name,
		Email:           r.Email,
		Phone:           r.Phone,
		Date:            r.Date,
		Time:            r.Time,
		Guests:          strconv.Itoa(r.Guests),
		Occasion:        string(r.Occasion),
		SpecialRequests: r.SpecialRequests,
	}
}
