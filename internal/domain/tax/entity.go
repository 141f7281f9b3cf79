package tax

import (
	"time"

	"github.com/shopspring/decimal"
)

// PeriodType enum
type PeriodType string

const (
	PeriodMonthly     PeriodType = "monthly"
	PeriodSemiMonthly PeriodType = "semi_monthly"
	PeriodAnnual      PeriodType = "annual"
)

// Bracket is one row of a progressive withholding table:
// tax = base_tax + (income - excess_over) * rate%.
type Bracket struct {
	ID         string
	PeriodType PeriodType
	MinIncome  decimal.Decimal
	MaxIncome  *decimal.Decimal // nil = open-ended
	BaseTax    decimal.Decimal
	Rate       decimal.Decimal // percent
	ExcessOver decimal.Decimal
	IsActive   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Contains reports whether the income falls inside the bracket's range.
func (b Bracket) Contains(income decimal.Decimal) bool {
	if income.LessThan(b.MinIncome) {
		return false
	}
	if b.MaxIncome != nil && income.GreaterThan(*b.MaxIncome) {
		return false
	}
	return true
}
