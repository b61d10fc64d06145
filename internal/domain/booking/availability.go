package booking

import "time"

// SlotUniverse is every seating time the restaurant could offer, in display order.
var SlotUniverse = []string{"17:00", "18:00", "19:00", "20:00", "21:00", "22:00"}

// Resolve returns the seating times offered on date. Fridays and Saturdays keep only the
// even-indexed slots of SlotUniverse; every other day offers all of them.
func Resolve(date time.Time) []string {
	out := make([]string, 0, len(SlotUniverse))
	weekend := IsWeekend(date)
	for i, t := range SlotUniverse {
		if weekend && i%2 != 0 {
			continue
		}
		out = append(out, t)
	}
	return out
}

// IsWeekend reports whether date falls on a reduced-service day.
func IsWeekend(date time.Time) bool {
	wd := date.Weekday()
	return wd == time.Friday || wd == time.Saturday
}

// IsSlot reports whether t belongs to SlotUniverse.
func IsSlot(t string) bool {
	for _, s := range SlotUniverse {
		if s == t {
			return true
		}
	}
	return false
}
