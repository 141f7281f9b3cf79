package adjustment

import (
	"github.com/shopspring/decimal"

	"github.com/jkgulay/payroll-system-sub001/internal/pkg/validator"
)

type CreateAdjustmentRequest struct {
	EmployeeID    string          `json:"employee_id"`
	Kind          string          `json:"kind"`
	Reason        string          `json:"reason"`
	Amount        decimal.Decimal `json:"amount"`
	EffectiveDate string          `json:"effective_date"`
}

func (r *CreateAdjustmentRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "is required"})
	}
	switch Kind(r.Kind) {
	case KindEarning, KindDeduction:
	default:
		errs = append(errs, validator.ValidationError{Field: "kind", Message: "must be 'earning' or 'deduction'"})
	}
	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{Field: "reason", Message: "is required"})
	}
	if !r.Amount.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "amount", Message: "must be positive"})
	}
	if _, ok := validator.IsValidDate(r.EffectiveDate); !ok {
		errs = append(errs, validator.ValidationError{Field: "effective_date", Message: "must be YYYY-MM-DD"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type AdjustmentResponse struct {
	ID               string          `json:"id"`
	EmployeeID       string          `json:"employee_id"`
	Kind             string          `json:"kind"`
	Reason           string          `json:"reason"`
	Amount           decimal.Decimal `json:"amount"`
	EffectiveDate    string          `json:"effective_date"`
	Status           string          `json:"status"`
	AppliedPayrollID *string         `json:"applied_payroll_id,omitempty"`
}

func MapToResponse(adj SalaryAdjustment) AdjustmentResponse {
	return AdjustmentResponse{
		ID:               adj.ID,
		EmployeeID:       adj.EmployeeID,
		Kind:             string(adj.Kind),
		Reason:           adj.Reason,
		Amount:           adj.Amount,
		EffectiveDate:    adj.EffectiveDate.Format("2006-01-02"),
		Status:           string(adj.Status),
		AppliedPayrollID: adj.AppliedPayrollID,
	}
}
