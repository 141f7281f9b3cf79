package tax

import (
	"github.com/shopspring/decimal"

	"github.com/jkgulay/payroll-system-sub001/internal/pkg/validator"
)

type UpsertBracketRequest struct {
	PeriodType string           `json:"period_type"`
	MinIncome  decimal.Decimal  `json:"min_income"`
	MaxIncome  *decimal.Decimal `json:"max_income,omitempty"`
	BaseTax    decimal.Decimal  `json:"base_tax"`
	Rate       decimal.Decimal  `json:"rate"`
	ExcessOver decimal.Decimal  `json:"excess_over"`
	IsActive   *bool            `json:"is_active,omitempty"`
}

func (r *UpsertBracketRequest) Validate() error {
	var errs validator.ValidationErrors

	switch PeriodType(r.PeriodType) {
	case PeriodMonthly, PeriodSemiMonthly, PeriodAnnual:
	default:
		errs = append(errs, validator.ValidationError{Field: "period_type", Message: "must be 'monthly', 'semi_monthly' or 'annual'"})
	}
	if r.MinIncome.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "min_income", Message: "must not be negative"})
	}
	if r.MaxIncome != nil && r.MaxIncome.LessThan(r.MinIncome) {
		errs = append(errs, validator.ValidationError{Field: "max_income", Message: "must not be below min_income"})
	}
	if r.Rate.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "rate", Message: "must not be negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type BracketResponse struct {
	ID         string           `json:"id"`
	PeriodType string           `json:"period_type"`
	MinIncome  decimal.Decimal  `json:"min_income"`
	MaxIncome  *decimal.Decimal `json:"max_income,omitempty"`
	BaseTax    decimal.Decimal  `json:"base_tax"`
	Rate       decimal.Decimal  `json:"rate"`
	ExcessOver decimal.Decimal  `json:"excess_over"`
	IsActive   bool             `json:"is_active"`
}

func MapToResponse(b Bracket) BracketResponse {
	return BracketResponse{
		ID:         b.ID,
		PeriodType: string(b.PeriodType),
		MinIncome:  b.MinIncome,
		MaxIncome:  b.MaxIncome,
		BaseTax:    b.BaseTax,
		Rate:       b.Rate,
		ExcessOver: b.ExcessOver,
		IsActive:   b.IsActive,
	}
}
