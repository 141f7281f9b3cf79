package loan

import "errors"

var (
	ErrLoanNotFound        = errors.New("loan not found")
	ErrDeductionNotFound   = errors.New("deduction not found")
	ErrLoanNotApprovable   = errors.New("loan is not in an approvable state")
	ErrNegativeBalance     = errors.New("loan balance would go negative")
	ErrLoanAlreadySettled  = errors.New("loan is already fully paid")
	ErrInvalidAmortization = errors.New("amortization amount must be positive")
)
