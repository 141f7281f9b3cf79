package holiday

import "time"

// Type enum
type Type string

const (
	TypeRegular Type = "regular"
	TypeSpecial Type = "special"
)

// Holiday matches a calendar date either exactly, or by (month, day) in any
// year when IsRecurring is set. The pay multiplier is derived from the type
// and weekday, never stored.
type Holiday struct {
	ID          string
	Name        string
	Date        time.Time
	Type        Type
	IsRecurring bool
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Matches reports whether the holiday applies to the given date.
func (h Holiday) Matches(date time.Time) bool {
	if h.Date.Month() == date.Month() && h.Date.Day() == date.Day() {
		if h.IsRecurring {
			return true
		}
		return h.Date.Year() == date.Year()
	}
	return false
}

// ExactMatch reports a same-year, same-date match.
func (h Holiday) ExactMatch(date time.Time) bool {
	return h.Date.Year() == date.Year() && h.Date.Month() == date.Month() && h.Date.Day() == date.Day()
}
