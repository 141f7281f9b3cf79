package allowance

import (
	"github.com/shopspring/decimal"

	"github.com/jkgulay/payroll-system-sub001/internal/pkg/validator"
)

type CreateAllowanceRequest struct {
	EmployeeID    string          `json:"employee_id"`
	Name          string          `json:"name"`
	Amount        decimal.Decimal `json:"amount"`
	Frequency     string          `json:"frequency"`
	IsTaxable     bool            `json:"is_taxable"`
	EffectiveDate string          `json:"effective_date"`
	EndDate       *string         `json:"end_date,omitempty"`
}

func (r *CreateAllowanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "is required"})
	}
	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "is required"})
	}
	if !r.Amount.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "amount", Message: "must be positive"})
	}
	switch Frequency(r.Frequency) {
	case FrequencyDaily, FrequencyWeekly, FrequencySemiMonthly, FrequencyMonthly:
	default:
		errs = append(errs, validator.ValidationError{Field: "frequency", Message: "must be 'daily', 'weekly', 'semi_monthly' or 'monthly'"})
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

type CreateMealAllowanceRequest struct {
	EmployeeID string          `json:"employee_id"`
	Amount     decimal.Decimal `json:"amount"`
	StartDate  string          `json:"start_date"`
	EndDate    string          `json:"end_date"`
}

func (r *CreateMealAllowanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "is required"})
	}
	if !r.Amount.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "amount", Message: "must be positive"})
	}
	start, okStart := validator.IsValidDate(r.StartDate)
	if !okStart {
		errs = append(errs, validator.ValidationError{Field: "start_date", Message: "must be YYYY-MM-DD"})
	}
	end, okEnd := validator.IsValidDate(r.EndDate)
	if !okEnd {
		errs = append(errs, validator.ValidationError{Field: "end_date", Message: "must be YYYY-MM-DD"})
	}
	if okStart && okEnd && end.Before(start) {
		errs = append(errs, validator.ValidationError{Field: "end_date", Message: "must not precede start_date"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type AllowanceResponse struct {
	ID            string          `json:"id"`
	EmployeeID    string          `json:"employee_id"`
	Name          string          `json:"name"`
	Amount        decimal.Decimal `json:"amount"`
	Frequency     string          `json:"frequency"`
	IsTaxable     bool            `json:"is_taxable"`
	EffectiveDate string          `json:"effective_date"`
	EndDate       *string         `json:"end_date,omitempty"`
	IsActive      bool            `json:"is_active"`
}

func MapAllowanceToResponse(a EmployeeAllowance) AllowanceResponse {
	var endDate *string
	if a.EndDate != nil {
		s := a.EndDate.Format("2006-01-02")
		endDate = &s
	}
	return AllowanceResponse{
		ID:            a.ID,
		EmployeeID:    a.EmployeeID,
		Name:          a.Name,
		Amount:        a.Amount,
		Frequency:     string(a.Frequency),
		IsTaxable:     a.IsTaxable,
		EffectiveDate: a.EffectiveDate.Format("2006-01-02"),
		EndDate:       endDate,
		IsActive:      a.IsActive,
	}
}

type MealAllowanceResponse struct {
	ID         string          `json:"id"`
	EmployeeID string          `json:"employee_id"`
	Amount     decimal.Decimal `json:"amount"`
	StartDate  string          `json:"start_date"`
	EndDate    string          `json:"end_date"`
	Status     string          `json:"status"`
}

func MapMealAllowanceToResponse(m MealAllowance) MealAllowanceResponse {
	return MealAllowanceResponse{
		ID:         m.ID,
		EmployeeID: m.EmployeeID,
		Amount:     m.Amount,
		StartDate:  m.StartDate.Format("2006-01-02"),
		EndDate:    m.EndDate.Format("2006-01-02"),
		Status:     string(m.Status),
	}
}
