package loan

import (
	"github.com/shopspring/decimal"

	"github.com/jkgulay/payroll-system-sub001/internal/pkg/validator"
)

type CreateLoanRequest struct {
	EmployeeID              string          `json:"employee_id"`
	LoanType                string          `json:"loan_type"`
	Principal               decimal.Decimal `json:"principal"`
	TotalAmount             decimal.Decimal `json:"total_amount"`
	MonthlyAmortization     decimal.Decimal `json:"monthly_amortization"`
	SemiMonthlyAmortization decimal.Decimal `json:"semi_monthly_amortization"`
	PaymentFrequency        string          `json:"payment_frequency"`
	StartDate               string          `json:"start_date"`
}

func (r *CreateLoanRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "is required"})
	}
	if validator.IsEmpty(r.LoanType) {
		errs = append(errs, validator.ValidationError{Field: "loan_type", Message: "is required"})
	}
	if !r.TotalAmount.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "total_amount", Message: "must be positive"})
	}
	if !r.MonthlyAmortization.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "monthly_amortization", Message: "must be positive"})
	}
	switch PaymentFrequency(r.PaymentFrequency) {
	case FrequencyMonthly, FrequencySemiMonthly:
	default:
		errs = append(errs, validator.ValidationError{Field: "payment_frequency", Message: "must be 'monthly' or 'semi_monthly'"})
	}
	if _, ok := validator.IsValidDate(r.StartDate); !ok {
		errs = append(errs, validator.ValidationError{Field: "start_date", Message: "must be YYYY-MM-DD"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type CreateDeductionRequest struct {
	EmployeeID      string          `json:"employee_id"`
	Name            string          `json:"name"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	AmountPerCutoff decimal.Decimal `json:"amount_per_cutoff"`
	Installments    int             `json:"installments"`
}

func (r *CreateDeductionRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "is required"})
	}
	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "is required"})
	}
	if !r.TotalAmount.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "total_amount", Message: "must be positive"})
	}
	if r.Installments <= 0 && !r.AmountPerCutoff.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "installments", Message: "either installments or amount_per_cutoff is required"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type LoanResponse struct {
	ID                      string          `json:"id"`
	EmployeeID              string          `json:"employee_id"`
	LoanType                string          `json:"loan_type"`
	Principal               decimal.Decimal `json:"principal"`
	TotalAmount             decimal.Decimal `json:"total_amount"`
	MonthlyAmortization     decimal.Decimal `json:"monthly_amortization"`
	SemiMonthlyAmortization decimal.Decimal `json:"semi_monthly_amortization"`
	PaymentFrequency        string          `json:"payment_frequency"`
	Balance                 decimal.Decimal `json:"balance"`
	AmountPaid              decimal.Decimal `json:"amount_paid"`
	Status                  string          `json:"status"`
	StartDate               string          `json:"start_date"`
}

func MapLoanToResponse(l Loan) LoanResponse {
	return LoanResponse{
		ID:                      l.ID,
		EmployeeID:              l.EmployeeID,
		LoanType:                l.LoanType,
		Principal:               l.Principal,
		TotalAmount:             l.TotalAmount,
		MonthlyAmortization:     l.MonthlyAmortization,
		SemiMonthlyAmortization: l.SemiMonthlyAmortization,
		PaymentFrequency:        string(l.PaymentFrequency),
		Balance:                 l.Balance,
		AmountPaid:              l.AmountPaid,
		Status:                  string(l.Status),
		StartDate:               l.StartDate.Format("2006-01-02"),
	}
}

type DeductionResponse struct {
	ID               string          `json:"id"`
	EmployeeID       string          `json:"employee_id"`
	Name             string          `json:"name"`
	TotalAmount      decimal.Decimal `json:"total_amount"`
	AmountPerCutoff  decimal.Decimal `json:"amount_per_cutoff"`
	Balance          decimal.Decimal `json:"balance"`
	Installments     int             `json:"installments"`
	InstallmentsPaid int             `json:"installments_paid"`
	Status           string          `json:"status"`
}

func MapDeductionToResponse(d Deduction) DeductionResponse {
	return DeductionResponse{
		ID:               d.ID,
		EmployeeID:       d.EmployeeID,
		Name:             d.Name,
		TotalAmount:      d.TotalAmount,
		AmountPerCutoff:  d.AmountPerCutoff,
		Balance:          d.Balance,
		Installments:     d.Installments,
		InstallmentsPaid: d.InstallmentsPaid,
		Status:           string(d.Status),
	}
}
