package attendance

import "time"

// Status enum
type Status string

const (
	StatusPresent Status = "present"
	StatusAbsent  Status = "absent"
	StatusHalfDay Status = "half_day"
	StatusLate    Status = "late"
	StatusHoliday Status = "holiday"
	StatusLeave   Status = "leave"
)

// ApprovalStatus enum
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

// Attendance is one employee's punches and derived hour totals for one
// calendar date. The derived fields are always recomputed from the raw
// punches, never edited independently.
type Attendance struct {
	ID         string
	EmployeeID string
	Date       time.Time

	TimeIn     *time.Time
	TimeOut    *time.Time
	BreakStart *time.Time
	BreakEnd   *time.Time
	OTTimeIn   *time.Time
	OTTimeOut  *time.Time
	OTTimeIn2  *time.Time
	OTTimeOut2 *time.Time

	RegularHours   float64
	OvertimeHours  float64
	NightDiffHours float64
	LateHours      float64
	UndertimeHours float64

	Status         Status
	IsHoliday      bool
	HolidayType    *string
	ApprovalStatus ApprovalStatus

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Payable reports whether the day's status contributes hours to a payroll.
func (a Attendance) Payable() bool {
	switch a.Status {
	case StatusPresent, StatusLate, StatusHalfDay, StatusHoliday:
		return true
	}
	return false
}

// Incomplete reports whether the record has an open punch pair: a payable
// status with a missing time-in/out, or a break or OT session that was
// opened and never closed.
func (a Attendance) Incomplete() bool {
	if !a.Payable() {
		return false
	}
	if a.TimeIn == nil || a.TimeOut == nil {
		return true
	}
	if (a.BreakStart == nil) != (a.BreakEnd == nil) {
		return true
	}
	if (a.OTTimeIn == nil) != (a.OTTimeOut == nil) {
		return true
	}
	if (a.OTTimeIn2 == nil) != (a.OTTimeOut2 == nil) {
		return true
	}
	return false
}

// IncompleteReason names the first open punch pair found, for validation
// reports.
func (a Attendance) IncompleteReason() string {
	switch {
	case a.TimeIn == nil:
		return "missing time in"
	case a.TimeOut == nil:
		return "missing time out"
	case (a.BreakStart == nil) != (a.BreakEnd == nil):
		return "unmatched break punch"
	case (a.OTTimeIn == nil) != (a.OTTimeOut == nil):
		return "unmatched overtime punch"
	case (a.OTTimeIn2 == nil) != (a.OTTimeOut2 == nil):
		return "unmatched second overtime punch"
	default:
		return "complete"
	}
}
