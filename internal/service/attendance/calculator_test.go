package attendance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jkgulay/payroll-system-sub001/internal/config"
	"github.com/jkgulay/payroll-system-sub001/internal/domain/attendance"
)

func testPayrollConfig() config.PayrollConfig {
	return config.PayrollConfig{
		StandardHoursPerDay:     8,
		WorkingDaysPerMonth:     26,
		WorkingDaysPerSemiMonth: 13,
		StandardTimeIn:          config.TimeOfDay{Hour: 8},
		GracePeriodMinutes:      15,
		NightShiftStart:         config.TimeOfDay{Hour: 22},
		NightShiftEnd:           config.TimeOfDay{Hour: 6},
		RestDay:                 time.Sunday,
		StrictGroups: map[string]config.StrictSchedule{
			"8am": {
				TimeIn:           config.TimeOfDay{Hour: 8},
				GraceMinutes:     15,
				HalfDayThreshold: config.TimeOfDay{Hour: 10},
				Departments:      []string{"Engineering Office"},
			},
			"730am": {
				TimeIn:           config.TimeOfDay{Hour: 7, Minute: 30},
				GraceMinutes:     15,
				HalfDayThreshold: config.TimeOfDay{Hour: 9, Minute: 30},
				Departments:      []string{"Site Crew"},
			},
		},
		MealProrationFloorDays: 16,
		WeeklyAllowanceFactor:  2.17,
	}
}

func punch(date time.Time, hour, minute int) *time.Time {
	t := time.Date(date.Year(), date.Month(), date.Day(), hour, minute, 0, 0, time.UTC)
	return &t
}

// Monday, not a holiday.
var testDate = time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

func defaultGroup(cfg config.PayrollConfig) UndertimeGroup {
	return ResolveUndertimeGroup("Warehouse", cfg)
}

func TestCalculateStandardDay(t *testing.T) {
	cfg := testPayrollConfig()
	calc := NewCalculator(cfg)

	att := attendance.Attendance{
		Date:       testDate,
		TimeIn:     punch(testDate, 8, 0),
		TimeOut:    punch(testDate, 17, 0),
		BreakStart: punch(testDate, 12, 0),
		BreakEnd:   punch(testDate, 13, 0),
		Status:     attendance.StatusPresent,
	}

	totals, ok := calc.Calculate(att, defaultGroup(cfg))
	require.True(t, ok)
	assert.Equal(t, 8.0, totals.RegularHours)
	assert.Equal(t, 0.0, totals.OvertimeHours)
	assert.Equal(t, 0.0, totals.LateHours)
	assert.Equal(t, 0.0, totals.UndertimeHours)
	assert.Equal(t, attendance.StatusPresent, totals.Status)
}

func TestCalculateIsIdempotent(t *testing.T) {
	cfg := testPayrollConfig()
	calc := NewCalculator(cfg)

	att := attendance.Attendance{
		Date:       testDate,
		TimeIn:     punch(testDate, 8, 20),
		TimeOut:    punch(testDate, 17, 0),
		BreakStart: punch(testDate, 12, 0),
		BreakEnd:   punch(testDate, 13, 0),
		Status:     attendance.StatusPresent,
	}

	first, ok := calc.Calculate(att, defaultGroup(cfg))
	require.True(t, ok)

	// Re-deriving from the stored result must not drift.
	Apply(&att, first)
	second, ok := calc.Calculate(att, defaultGroup(cfg))
	require.True(t, ok)
	assert.Equal(t, first.RegularHours, second.RegularHours)
	assert.Equal(t, first.OvertimeHours, second.OvertimeHours)
	assert.Equal(t, first.UndertimeHours, second.UndertimeHours)
	assert.Equal(t, first.LateHours, second.LateHours)
}

func TestCalculateOvertimePastStandardDay(t *testing.T) {
	cfg := testPayrollConfig()
	calc := NewCalculator(cfg)

	att := attendance.Attendance{
		Date:       testDate,
		TimeIn:     punch(testDate, 8, 0),
		TimeOut:    punch(testDate, 19, 0),
		BreakStart: punch(testDate, 12, 0),
		BreakEnd:   punch(testDate, 13, 0),
		Status:     attendance.StatusPresent,
	}

	totals, ok := calc.Calculate(att, defaultGroup(cfg))
	require.True(t, ok)
	assert.Equal(t, 8.0, totals.RegularHours)
	assert.Equal(t, 2.0, totals.OvertimeHours)
}

func TestCalculateExplicitOvertimeSessions(t *testing.T) {
	cfg := testPayrollConfig()
	calc := NewCalculator(cfg)

	att := attendance.Attendance{
		Date:       testDate,
		TimeIn:     punch(testDate, 8, 0),
		TimeOut:    punch(testDate, 17, 0),
		BreakStart: punch(testDate, 12, 0),
		BreakEnd:   punch(testDate, 13, 0),
		OTTimeIn:   punch(testDate, 18, 0),
		OTTimeOut:  punch(testDate, 20, 0),
		OTTimeIn2:  punch(testDate, 20, 30),
		OTTimeOut2: punch(testDate, 21, 30),
		Status:     attendance.StatusPresent,
	}

	totals, ok := calc.Calculate(att, defaultGroup(cfg))
	require.True(t, ok)
	assert.Equal(t, 8.0, totals.RegularHours)
	assert.Equal(t, 3.0, totals.OvertimeHours)
}

func TestCalculateOvernightShift(t *testing.T) {
	cfg := testPayrollConfig()
	calc := NewCalculator(cfg)

	// Out before in means the shift crossed midnight.
	att := attendance.Attendance{
		Date:    testDate,
		TimeIn:  punch(testDate, 20, 0),
		TimeOut: punch(testDate, 5, 0),
		Status:  attendance.StatusPresent,
	}

	totals, ok := calc.Calculate(att, defaultGroup(cfg))
	require.True(t, ok)
	assert.Equal(t, 8.0, totals.RegularHours)
	assert.Equal(t, 1.0, totals.OvertimeHours)
	// 22:00 through 05:00 falls inside the night window.
	assert.Equal(t, 7.0, totals.NightDiffHours)
}

func TestCalculateNightDifferentialPartialOverlap(t *testing.T) {
	cfg := testPayrollConfig()
	calc := NewCalculator(cfg)

	att := attendance.Attendance{
		Date:    testDate,
		TimeIn:  punch(testDate, 14, 0),
		TimeOut: punch(testDate, 23, 0),
		Status:  attendance.StatusPresent,
	}

	totals, ok := calc.Calculate(att, defaultGroup(cfg))
	require.True(t, ok)
	assert.Equal(t, 1.0, totals.NightDiffHours)
}

func TestCalculateLateWithStandardUndertime(t *testing.T) {
	cfg := testPayrollConfig()
	calc := NewCalculator(cfg)

	att := attendance.Attendance{
		Date:       testDate,
		TimeIn:     punch(testDate, 8, 20),
		TimeOut:    punch(testDate, 17, 0),
		BreakStart: punch(testDate, 12, 0),
		BreakEnd:   punch(testDate, 13, 0),
		Status:     attendance.StatusPresent,
	}

	totals, ok := calc.Calculate(att, defaultGroup(cfg))
	require.True(t, ok)
	// 5 minutes past the 08:15 grace limit.
	assert.Equal(t, 0.08, totals.LateHours)
	// Worked 7.67, docked the shortfall against the 8-hour day.
	assert.Equal(t, 7.67, totals.RegularHours)
	assert.Equal(t, 0.33, totals.UndertimeHours)
	assert.Equal(t, attendance.StatusLate, totals.Status)
}

func TestCalculateWithinGraceIsNotLate(t *testing.T) {
	cfg := testPayrollConfig()
	calc := NewCalculator(cfg)

	att := attendance.Attendance{
		Date:    testDate,
		TimeIn:  punch(testDate, 8, 14),
		TimeOut: punch(testDate, 17, 0),
		Status:  attendance.StatusPresent,
	}

	totals, ok := calc.Calculate(att, defaultGroup(cfg))
	require.True(t, ok)
	assert.Equal(t, 0.0, totals.LateHours)
	assert.Equal(t, attendance.StatusPresent, totals.Status)
}

func TestCalculateStrictGroupMinutesPastGrace(t *testing.T) {
	cfg := testPayrollConfig()
	calc := NewCalculator(cfg)
	group := ResolveUndertimeGroup("Engineering Office", cfg)
	require.True(t, group.Strict)

	att := attendance.Attendance{
		Date:       testDate,
		TimeIn:     punch(testDate, 8, 30),
		TimeOut:    punch(testDate, 17, 0),
		BreakStart: punch(testDate, 12, 0),
		BreakEnd:   punch(testDate, 13, 0),
		Status:     attendance.StatusPresent,
	}

	totals, ok := calc.Calculate(att, group)
	require.True(t, ok)
	// Strict groups dock exactly the minutes past grace, at 4 decimals.
	assert.Equal(t, 0.25, totals.UndertimeHours)
	assert.Equal(t, attendance.StatusLate, totals.Status)
}

func TestCalculateStrictGroupForcesHalfDay(t *testing.T) {
	cfg := testPayrollConfig()
	calc := NewCalculator(cfg)
	group := ResolveUndertimeGroup("Site Crew", cfg)
	require.True(t, group.Strict)

	att := attendance.Attendance{
		Date:    testDate,
		TimeIn:  punch(testDate, 9, 30),
		TimeOut: punch(testDate, 17, 0),
		Status:  attendance.StatusPresent,
	}

	totals, ok := calc.Calculate(att, group)
	require.True(t, ok)
	assert.Equal(t, attendance.StatusHalfDay, totals.Status)
	assert.Equal(t, 4.0, totals.UndertimeHours)
}

func TestCalculateMissingPunchesIsNoOp(t *testing.T) {
	cfg := testPayrollConfig()
	calc := NewCalculator(cfg)

	att := attendance.Attendance{
		Date:   testDate,
		TimeIn: punch(testDate, 8, 0),
		Status: attendance.StatusPresent,
	}

	_, ok := calc.Calculate(att, defaultGroup(cfg))
	assert.False(t, ok)
}

func TestResolveUndertimeGroupFallsBackToStandard(t *testing.T) {
	cfg := testPayrollConfig()

	group := ResolveUndertimeGroup("Warehouse", cfg)
	assert.False(t, group.Strict)
	assert.Equal(t, cfg.StandardTimeIn, group.TimeIn)
	assert.Equal(t, cfg.GracePeriodMinutes, group.GraceMinutes)
}
