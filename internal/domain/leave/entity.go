package leave

import "time"

// Status enum
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Leave is an approved leave request. Only unpaid leave types reach the
// payroll engine; paid leaves do not move money.
type Leave struct {
	ID         string
	EmployeeID string
	LeaveType  string
	IsPaid     bool
	StartDate  time.Time
	EndDate    time.Time
	Status     Status
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// OverlapDays counts the days the leave shares with [start, end], inclusive.
func (l Leave) OverlapDays(start, end time.Time) int {
	from := l.StartDate
	if start.After(from) {
		from = start
	}
	to := l.EndDate
	if end.Before(to) {
		to = end
	}
	if to.Before(from) {
		return 0
	}
	return int(to.Sub(from).Hours()/24) + 1
}
