package allowance

import (
	"time"

	"github.com/shopspring/decimal"
)

// Frequency enum
type Frequency string

const (
	FrequencyDaily       Frequency = "daily"
	FrequencyWeekly      Frequency = "weekly"
	FrequencySemiMonthly Frequency = "semi_monthly"
	FrequencyMonthly     Frequency = "monthly"
)

// EmployeeAllowance is a recurring allowance grant (COLA, transport, and the
// like) with an effective window.
type EmployeeAllowance struct {
	ID            string
	EmployeeID    string
	Name          string
	Amount        decimal.Decimal
	Frequency     Frequency
	IsTaxable     bool
	EffectiveDate time.Time
	EndDate       *time.Time
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// CoversPeriod reports whether the grant's effective window overlaps the
// payroll window.
func (a EmployeeAllowance) CoversPeriod(start, end time.Time) bool {
	if !a.IsActive {
		return false
	}
	if a.EffectiveDate.After(end) {
		return false
	}
	if a.EndDate != nil && a.EndDate.Before(start) {
		return false
	}
	return true
}

// MealAllowanceStatus enum
type MealAllowanceStatus string

const (
	MealAllowancePending  MealAllowanceStatus = "pending"
	MealAllowanceApproved MealAllowanceStatus = "approved"
	MealAllowanceRejected MealAllowanceStatus = "rejected"
)

// MealAllowance is an approved batch covering a date window. Amount is the
// total for the whole window.
type MealAllowance struct {
	ID         string
	EmployeeID string
	Amount     decimal.Decimal
	StartDate  time.Time
	EndDate    time.Time
	Status     MealAllowanceStatus
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// WindowDays is the inclusive day count of the batch window.
func (m MealAllowance) WindowDays() int {
	return int(m.EndDate.Sub(m.StartDate).Hours()/24) + 1
}
