package attendance

import (
	"math"
	"time"

	"github.com/jkgulay/payroll-system-sub001/internal/config"
	"github.com/jkgulay/payroll-system-sub001/internal/domain/attendance"
)

// UndertimeGroup is the undertime policy resolved once per employee from its
// department. Strict groups dock minutes past the grace period and force a
// half day past the threshold; everyone else is docked by the shortfall
// against the standard day.
type UndertimeGroup struct {
	Strict           bool
	TimeIn           config.TimeOfDay
	GraceMinutes     int
	HalfDayThreshold config.TimeOfDay
}

// ResolveUndertimeGroup maps a department to its undertime policy.
func ResolveUndertimeGroup(department string, cfg config.PayrollConfig) UndertimeGroup {
	for _, schedule := range cfg.StrictGroups {
		for _, dept := range schedule.Departments {
			if dept == department {
				return UndertimeGroup{
					Strict:           true,
					TimeIn:           schedule.TimeIn,
					GraceMinutes:     schedule.GraceMinutes,
					HalfDayThreshold: schedule.HalfDayThreshold,
				}
			}
		}
	}
	return UndertimeGroup{
		TimeIn:       cfg.StandardTimeIn,
		GraceMinutes: cfg.GracePeriodMinutes,
	}
}

// HourTotals is the derived output of one day's punches.
type HourTotals struct {
	RegularHours   float64
	OvertimeHours  float64
	NightDiffHours float64
	LateHours      float64
	UndertimeHours float64
	Status         attendance.Status
}

// Calculator derives hour totals from raw punches. It performs no I/O and is
// idempotent: the same punches always produce the same totals.
type Calculator struct {
	cfg config.PayrollConfig
}

func NewCalculator(cfg config.PayrollConfig) *Calculator {
	return &Calculator{cfg: cfg}
}

// Calculate derives the hour totals for one record. Returns ok=false without
// touching anything when time-in or time-out is missing; the caller decides
// what to do with incomplete records.
func (c *Calculator) Calculate(att attendance.Attendance, group UndertimeGroup) (HourTotals, bool) {
	if att.TimeIn == nil || att.TimeOut == nil {
		return HourTotals{}, false
	}

	timeIn := *att.TimeIn
	timeOut := overnightAdjust(timeIn, *att.TimeOut)

	breakMinutes := 0.0
	if att.BreakStart != nil && att.BreakEnd != nil {
		breakStart := *att.BreakStart
		breakEnd := overnightAdjust(breakStart, *att.BreakEnd)
		breakMinutes = breakEnd.Sub(breakStart).Minutes()
	}

	workedHours := (timeOut.Sub(timeIn).Minutes() - breakMinutes) / 60.0
	if workedHours < 0 {
		workedHours = 0
	}

	totals := HourTotals{Status: att.Status}
	if totals.Status == "" {
		totals.Status = attendance.StatusPresent
	}

	standard := c.cfg.StandardHoursPerDay
	if workedHours <= standard {
		totals.RegularHours = round2(workedHours)
	} else {
		totals.RegularHours = round2(standard)
		totals.OvertimeHours = round2(workedHours - standard)
	}

	// Explicit overtime sessions are on top of anything past the standard day.
	totals.OvertimeHours = round2(totals.OvertimeHours + sessionHours(att.OTTimeIn, att.OTTimeOut) + sessionHours(att.OTTimeIn2, att.OTTimeOut2))

	totals.NightDiffHours = round2(c.nightOverlapHours(att.Date, timeIn, timeOut))

	scheduledIn := group.TimeIn.On(att.Date)
	graceLimit := scheduledIn.Add(time.Duration(group.GraceMinutes) * time.Minute)
	if timeIn.After(graceLimit) {
		totals.LateHours = round2(timeIn.Sub(graceLimit).Hours())
	}

	if group.Strict {
		if !timeIn.Before(group.HalfDayThreshold.On(att.Date)) {
			totals.Status = attendance.StatusHalfDay
			totals.UndertimeHours = round2(standard / 2)
		} else if timeIn.After(graceLimit) {
			totals.UndertimeHours = round4(timeIn.Sub(graceLimit).Minutes() / 60.0)
		}
	} else if totals.Status == attendance.StatusPresent && workedHours < standard {
		totals.UndertimeHours = round2(standard - workedHours)
	}

	if totals.LateHours > 0 && totals.Status == attendance.StatusPresent {
		totals.Status = attendance.StatusLate
	}

	return totals, true
}

// Apply writes derived totals back onto the record.
func Apply(att *attendance.Attendance, totals HourTotals) {
	att.RegularHours = totals.RegularHours
	att.OvertimeHours = totals.OvertimeHours
	att.NightDiffHours = totals.NightDiffHours
	att.LateHours = totals.LateHours
	att.UndertimeHours = totals.UndertimeHours
	att.Status = totals.Status
}

// nightOverlapHours measures how much of [in, out] falls inside the night
// window. The window crosses midnight, so the shift is checked against the
// window anchored on the previous, same, and next calendar day.
func (c *Calculator) nightOverlapHours(date, in, out time.Time) float64 {
	total := 0.0
	for dayOffset := -1; dayOffset <= 1; dayOffset++ {
		anchor := date.AddDate(0, 0, dayOffset)
		windowStart := c.cfg.NightShiftStart.On(anchor)
		windowEnd := c.cfg.NightShiftEnd.On(anchor)
		if !windowEnd.After(windowStart) {
			windowEnd = windowEnd.AddDate(0, 0, 1)
		}
		total += overlapHours(in, out, windowStart, windowEnd)
	}
	return total
}

func overlapHours(aStart, aEnd, bStart, bEnd time.Time) float64 {
	start := aStart
	if bStart.After(start) {
		start = bStart
	}
	end := aEnd
	if bEnd.Before(end) {
		end = bEnd
	}
	if !end.After(start) {
		return 0
	}
	return end.Sub(start).Hours()
}

// overnightAdjust rolls the end punch to the next day when it precedes the
// start punch.
func overnightAdjust(start, end time.Time) time.Time {
	if end.Before(start) {
		return end.AddDate(0, 0, 1)
	}
	return end
}

func sessionHours(start, end *time.Time) float64 {
	if start == nil || end == nil {
		return 0
	}
	adjusted := overnightAdjust(*start, *end)
	return adjusted.Sub(*start).Hours()
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
