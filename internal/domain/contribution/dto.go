package contribution

import (
	"github.com/shopspring/decimal"

	"github.com/jkgulay/payroll-system-sub001/internal/pkg/validator"
)

type UpsertRateRequest struct {
	Type              string           `json:"type"`
	MinSalary         decimal.Decimal  `json:"min_salary"`
	MaxSalary         *decimal.Decimal `json:"max_salary,omitempty"`
	EmployeeRate      decimal.Decimal  `json:"employee_rate"`
	EmployerRate      decimal.Decimal  `json:"employer_rate"`
	EmployeeFixed     *decimal.Decimal `json:"employee_fixed,omitempty"`
	EmployerFixed     *decimal.Decimal `json:"employer_fixed,omitempty"`
	TotalContribution *decimal.Decimal `json:"total_contribution,omitempty"`
	EffectiveDate     string           `json:"effective_date"`
	EndDate           *string          `json:"end_date,omitempty"`
	IsActive          *bool            `json:"is_active,omitempty"`
}

func (r *UpsertRateRequest) Validate() error {
	var errs validator.ValidationErrors

	switch Type(r.Type) {
	case TypeSSS, TypePhilHealth, TypePagIbig:
	default:
		errs = append(errs, validator.ValidationError{Field: "type", Message: "must be 'sss', 'philhealth' or 'pagibig'"})
	}
	if r.MinSalary.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "min_salary", Message: "must not be negative"})
	}
	if r.MaxSalary != nil && r.MaxSalary.LessThan(r.MinSalary) {
		errs = append(errs, validator.ValidationError{Field: "max_salary", Message: "must not be below min_salary"})
	}
	if _, ok := validator.IsValidDate(r.EffectiveDate); !ok {
		errs = append(errs, validator.ValidationError{Field: "effective_date", Message: "must be YYYY-MM-DD"})
	}
	if r.EndDate != nil {
		if _, ok := validator.IsValidDate(*r.EndDate); !ok {
			errs = append(errs, validator.ValidationError{Field: "end_date", Message: "must be YYYY-MM-DD"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type RateResponse struct {
	ID                string           `json:"id"`
	Type              string           `json:"type"`
	MinSalary         decimal.Decimal  `json:"min_salary"`
	MaxSalary         *decimal.Decimal `json:"max_salary,omitempty"`
	EmployeeRate      decimal.Decimal  `json:"employee_rate"`
	EmployerRate      decimal.Decimal  `json:"employer_rate"`
	EmployeeFixed     *decimal.Decimal `json:"employee_fixed,omitempty"`
	EmployerFixed     *decimal.Decimal `json:"employer_fixed,omitempty"`
	TotalContribution *decimal.Decimal `json:"total_contribution,omitempty"`
	EffectiveDate     string           `json:"effective_date"`
	EndDate           *string          `json:"end_date,omitempty"`
	IsActive          bool             `json:"is_active"`
}

func MapToResponse(rate GovernmentRate) RateResponse {
	var endDate *string
	if rate.EndDate != nil {
		s := rate.EndDate.Format("2006-01-02")
		endDate = &s
	}
	return RateResponse{
		ID:                rate.ID,
		Type:              string(rate.Type),
		MinSalary:         rate.MinSalary,
		MaxSalary:         rate.MaxSalary,
		EmployeeRate:      rate.EmployeeRate,
		EmployerRate:      rate.EmployerRate,
		EmployeeFixed:     rate.EmployeeFixed,
		EmployerFixed:     rate.EmployerFixed,
		TotalContribution: rate.TotalContribution,
		EffectiveDate:     rate.EffectiveDate.Format("2006-01-02"),
		EndDate:           endDate,
		IsActive:          rate.IsActive,
	}
}
