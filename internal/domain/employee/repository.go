package employee

import (
	"context"
	"time"
)

type EmployeeRepository interface {
	GetByID(ctx context.Context, id string) (Employee, error)
	GetByEmployeeCode(ctx context.Context, code string) (Employee, error)
	ListPayable(ctx context.Context) ([]Employee, error)
	// ListWithAttendanceBetween returns employees that have at least one
	// approved attendance row inside the window, regardless of status.
	ListWithAttendanceBetween(ctx context.Context, start, end time.Time) ([]Employee, error)
}
