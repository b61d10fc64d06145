package booking

import (
	"fmt"
	"strconv"
	"time"
)

// DateLayout is the civil date format used by the form, the API and storage.
const DateLayout = "2006-01-02"

// DefaultGuests is the party size preselected on a fresh form.
const DefaultGuests = 2

// GuestOptions is the enumerated party-size set offered by the form.
var GuestOptions = []int{1, 2, 3, 4, 5, 6, 7, 8, 10, 12}

type Occasion string

const (
	OccasionNone        Occasion = ""
	OccasionBirthday    Occasion = "birthday"
	OccasionAnniversary Occasion = "anniversary"
	OccasionDateNight   Occasion = "date"
	OccasionBusiness    Occasion = "business"
	OccasionOther       Occasion = "other"
)

// Occasions lists the selectable occasions in display order.
var Occasions = []Occasion{OccasionBirthday, OccasionAnniversary, OccasionDateNight, OccasionBusiness, OccasionOther}

func (o Occasion) Label() string {
	switch o {
	case OccasionBirthday:
		return "Birthday"
	case OccasionAnniversary:
		return "Anniversary"
	case OccasionDateNight:
		return "Date Night"
	case OccasionBusiness:
		return "Business Meal"
	case OccasionOther:
		return "Other"
	}
	return "Select occasion"
}

func (o Occasion) Known() bool {
	if o == OccasionNone {
		return true
	}
	for _, k := range Occasions {
		if k == o {
			return true
		}
	}
	return false
}

// Record is one reservation request. It is never mutated after a backend accepts it.
type Record struct {
	Name            string   `json:"name"`
	Email           string   `json:"email"`
	Phone           string   `json:"phone"`
	Date            string   `json:"date"`
	Time            string   `json:"time"`
	Guests          int      `json:"guests"`
	Occasion        Occasion `json:"occasion,omitempty"`
	SpecialRequests string   `json:"specialRequests,omitempty"`
}

func (r Record) String() string {
	return fmt.Sprintf("%s <%s> %s %s guests=%d", r.Name, r.Email, r.Date, r.Time, r.Guests)
}

// IsGuestOption reports whether n is one of GuestOptions.
func IsGuestOption(n int) bool {
	for _, g := range GuestOptions {
		if g == n {
			return true
		}
	}
	return false
}

// GuestLabel renders a party size the way the guests select shows it.
func GuestLabel(n int) string {
	if n == 1 {
		return "1 person"
	}
	return strconv.Itoa(n) + " people"
}

// ParseDate interprets s as a calendar day in loc. The returned time is midnight local time,
// so Weekday reports the day the guest picked regardless of the server zone.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	d, err := time.ParseInLocation(DateLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD)", s)
	}
	return d, nil
}

// Today returns the current civil date in loc.
func Today(now time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	n := now.In(loc)
	return time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, loc)
}
