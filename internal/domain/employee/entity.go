package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

// RateType enum
type RateType string

const (
	RateTypeDaily   RateType = "daily"
	RateTypeMonthly RateType = "monthly"
	RateTypeHourly  RateType = "hourly"
)

// Status enum
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
	StatusOnLeave  Status = "on_leave"
)

type Employee struct {
	ID           string
	EmployeeCode string
	FirstName    string
	LastName     string
	Department   string
	Position     string
	Status       Status
	RateType     RateType
	DailyRate    decimal.Decimal
	MonthlyRate  decimal.Decimal
	HourlyRate   decimal.Decimal
	HireDate     time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (e Employee) FullName() string {
	return e.FirstName + " " + e.LastName
}

// Payable reports whether the employee belongs in a payroll run population.
func (e Employee) Payable() bool {
	return e.Status == StatusActive || e.Status == StatusOnLeave
}
