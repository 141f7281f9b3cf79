package adjustment

import "errors"

var (
	ErrAdjustmentNotFound = errors.New("salary adjustment not found")
	ErrAlreadyApplied     = errors.New("salary adjustment already applied by a payroll")
	ErrInvalidKind        = errors.New("adjustment kind must be 'earning' or 'deduction'")
)
