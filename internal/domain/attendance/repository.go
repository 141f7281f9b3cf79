package attendance

import (
	"context"
	"time"
)

type AttendanceRepository interface {
	Create(ctx context.Context, att Attendance) (Attendance, error)
	GetByID(ctx context.Context, id string) (Attendance, error)
	GetByEmployeeDate(ctx context.Context, employeeID string, date time.Time) (Attendance, error)
	Update(ctx context.Context, att Attendance) error
	Delete(ctx context.Context, id string) error

	// ListApprovedBetween returns approved rows for one employee inside the
	// window, ordered by date.
	ListApprovedBetween(ctx context.Context, employeeID string, start, end time.Time) ([]Attendance, error)
	// ListIncompleteBetween returns every payable row inside the window with
	// an open punch pair, across all employees.
	ListIncompleteBetween(ctx context.Context, start, end time.Time) ([]Attendance, error)
	List(ctx context.Context, filter Filter) ([]Attendance, int64, error)

	// ReferencedByFinalizedPayroll reports whether the record's employee and
	// date fall inside a finalized or paid payroll period.
	ReferencedByFinalizedPayroll(ctx context.Context, att Attendance) (bool, error)
}

type Filter struct {
	EmployeeID string
	Start      *time.Time
	End        *time.Time
	Status     string
	Approval   string
	Page       int
	Limit      int
}
