package leave

import (
	"context"
	"time"
)

type LeaveRepository interface {
	// ListApprovedUnpaidBetween returns approved unpaid leaves overlapping
	// the window for one employee.
	ListApprovedUnpaidBetween(ctx context.Context, employeeID string, start, end time.Time) ([]Leave, error)
}
