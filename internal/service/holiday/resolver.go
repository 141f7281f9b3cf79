package holiday

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jkgulay/payroll-system-sub001/internal/config"
	"github.com/jkgulay/payroll-system-sub001/internal/domain/holiday"
)

var (
	multiplierRegular        = decimal.NewFromFloat(2.0)
	multiplierRegularRestDay = decimal.NewFromFloat(2.6)
	multiplierSpecial        = decimal.NewFromFloat(1.3)
)

// Resolver answers "is this date a holiday, and what does it pay".
type Resolver struct {
	repo holiday.HolidayRepository
	cfg  config.PayrollConfig
}

func NewResolver(repo holiday.HolidayRepository, cfg config.PayrollConfig) *Resolver {
	return &Resolver{repo: repo, cfg: cfg}
}

// CalendarFor loads every holiday that can match a date inside the window
// and returns a lookup keyed by date. One round trip per payroll run.
func (r *Resolver) CalendarFor(ctx context.Context, start, end time.Time) (Calendar, error) {
	holidays, err := r.repo.ListActiveBetween(ctx, start, end)
	if err != nil {
		return Calendar{}, fmt.Errorf("failed to load holidays: %w", err)
	}
	return NewCalendar(holidays, r.cfg.RestDay), nil
}

// Calendar resolves dates against a pre-loaded holiday set.
type Calendar struct {
	holidays []holiday.Holiday
	restDay  time.Weekday
}

func NewCalendar(holidays []holiday.Holiday, restDay time.Weekday) Calendar {
	return Calendar{holidays: holidays, restDay: restDay}
}

// Resolve returns the holiday matching the date, or nil. When both an
// exact-dated and a recurring holiday match, the exact date wins.
func (c Calendar) Resolve(date time.Time) *holiday.Holiday {
	var recurring *holiday.Holiday
	for i := range c.holidays {
		h := c.holidays[i]
		if !h.IsActive || !h.Matches(date) {
			continue
		}
		if h.ExactMatch(date) && !h.IsRecurring {
			return &c.holidays[i]
		}
		if recurring == nil {
			recurring = &c.holidays[i]
		}
	}
	return recurring
}

// PayMultiplier derives the statutory multiplier for a holiday worked on the
// given date: regular pays double (2.6 when it lands on the rest day),
// special pays 1.3 regardless of weekday.
func (c Calendar) PayMultiplier(h holiday.Holiday, date time.Time) decimal.Decimal {
	if h.Type == holiday.TypeRegular {
		if date.Weekday() == c.restDay {
			return multiplierRegularRestDay
		}
		return multiplierRegular
	}
	return multiplierSpecial
}

// IsRestDay reports whether the date falls on the designated rest day.
func (c Calendar) IsRestDay(date time.Time) bool {
	return date.Weekday() == c.restDay
}
