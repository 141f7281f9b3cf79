package adjustment

import (
	"time"

	"github.com/shopspring/decimal"
)

// Kind enum
type Kind string

const (
	KindEarning   Kind = "earning"   // bonus, salary increase backpay
	KindDeduction Kind = "deduction" // salary correction, charge-back
)

// Status enum
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusApplied  Status = "applied"
	StatusRejected Status = "rejected"
)

// SalaryAdjustment is a one-time approved adjustment picked up by the next
// payroll run covering its effective date. Applying it records the payroll
// that consumed it; reversal returns it to approved.
type SalaryAdjustment struct {
	ID               string
	EmployeeID       string
	Kind             Kind
	Reason           string
	Amount           decimal.Decimal
	EffectiveDate    time.Time
	Status           Status
	AppliedPayrollID *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
