package contribution

import (
	"time"

	"github.com/shopspring/decimal"
)

// Type enum for the mandatory Philippine contribution schemes.
type Type string

const (
	TypeSSS        Type = "sss"
	TypePhilHealth Type = "philhealth"
	TypePagIbig    Type = "pagibig"
)

// Types lists every scheme in the order contributions appear on a payslip.
var Types = []Type{TypeSSS, TypePhilHealth, TypePagIbig}

// GovernmentRate is one bracket of a contribution schedule. A bracket covers
// a salary range and either percentage rates or fixed peso amounts; a stored
// TotalContribution overrides the derived total.
type GovernmentRate struct {
	ID                string
	Type              Type
	MinSalary         decimal.Decimal
	MaxSalary         *decimal.Decimal // nil = open-ended
	EmployeeRate      decimal.Decimal  // percent
	EmployerRate      decimal.Decimal  // percent
	EmployeeFixed     *decimal.Decimal
	EmployerFixed     *decimal.Decimal
	TotalContribution *decimal.Decimal
	EffectiveDate     time.Time
	EndDate           *time.Time
	IsActive          bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Covers reports whether the bracket applies to the salary as of the date.
func (r GovernmentRate) Covers(monthlySalary decimal.Decimal, asOf time.Time) bool {
	if !r.IsActive {
		return false
	}
	if r.EffectiveDate.After(asOf) {
		return false
	}
	if r.EndDate != nil && r.EndDate.Before(asOf) {
		return false
	}
	if monthlySalary.LessThan(r.MinSalary) {
		return false
	}
	if r.MaxSalary != nil && monthlySalary.GreaterThan(*r.MaxSalary) {
		return false
	}
	return true
}

// Shares is the employee/employer split resolved from a bracket.
type Shares struct {
	Employee decimal.Decimal
	Employer decimal.Decimal
	Total    decimal.Decimal
}

// ZeroShares is returned when no bracket matches; contributions never block
// a payroll run.
func ZeroShares() Shares {
	return Shares{Employee: decimal.Zero, Employer: decimal.Zero, Total: decimal.Zero}
}
