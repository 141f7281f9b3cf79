package adjustment

import (
	"context"
	"time"
)

type AdjustmentRepository interface {
	Create(ctx context.Context, adj SalaryAdjustment) (SalaryAdjustment, error)
	GetByID(ctx context.Context, id string) (SalaryAdjustment, error)
	Update(ctx context.Context, adj SalaryAdjustment) error
	// ListApprovedBetween returns approved, not-yet-applied adjustments whose
	// effective date falls inside the window.
	ListApprovedBetween(ctx context.Context, employeeID string, start, end time.Time) ([]SalaryAdjustment, error)
	ListAppliedByPayroll(ctx context.Context, payrollID string) ([]SalaryAdjustment, error)
}
