package payroll

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jkgulay/payroll-system-sub001/internal/domain/tax"
	"github.com/jkgulay/payroll-system-sub001/internal/pkg/validator"
)

type CreatePayrollRequest struct {
	PeriodStart string `json:"period_start"`
	PeriodEnd   string `json:"period_end"`
	PaymentDate string `json:"payment_date"`
	PeriodType  string `json:"period_type"`
	ForceCreate bool   `json:"force_create"`
}

func (r *CreatePayrollRequest) Validate() error {
	var errs validator.ValidationErrors

	start, okStart := validator.IsValidDate(r.PeriodStart)
	if !okStart {
		errs = append(errs, validator.ValidationError{Field: "period_start", Message: "must be YYYY-MM-DD"})
	}
	end, okEnd := validator.IsValidDate(r.PeriodEnd)
	if !okEnd {
		errs = append(errs, validator.ValidationError{Field: "period_end", Message: "must be YYYY-MM-DD"})
	}
	if _, ok := validator.IsValidDate(r.PaymentDate); !ok {
		errs = append(errs, validator.ValidationError{Field: "payment_date", Message: "must be YYYY-MM-DD"})
	}
	if okStart && okEnd && end.Before(start) {
		errs = append(errs, validator.ValidationError{Field: "period_end", Message: "must not precede period_start"})
	}
	switch tax.PeriodType(r.PeriodType) {
	case tax.PeriodSemiMonthly, tax.PeriodMonthly:
	default:
		errs = append(errs, validator.ValidationError{Field: "period_type", Message: "must be 'semi_monthly' or 'monthly'"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type CancelPayrollRequest struct {
	Reason string `json:"reason"`
}

func (r *CancelPayrollRequest) Validate() error {
	if validator.IsEmpty(r.Reason) {
		return validator.ValidationErrors{{Field: "reason", Message: "is required"}}
	}
	return nil
}

type PayrollResponse struct {
	ID              string          `json:"id"`
	PeriodStart     string          `json:"period_start"`
	PeriodEnd       string          `json:"period_end"`
	PaymentDate     string          `json:"payment_date"`
	PeriodType      string          `json:"period_type"`
	Status          string          `json:"status"`
	TotalGross      decimal.Decimal `json:"total_gross"`
	TotalDeductions decimal.Decimal `json:"total_deductions"`
	TotalNet        decimal.Decimal `json:"total_net"`
	EmployeeCount   int             `json:"employee_count"`
	CancelReason    *string         `json:"cancel_reason,omitempty"`
	FinalizedAt     *string         `json:"finalized_at,omitempty"`
	PaidAt          *string         `json:"paid_at,omitempty"`
}

type ItemResponse struct {
	ID         string `json:"id"`
	PayrollID  string `json:"payroll_id"`
	EmployeeID string `json:"employee_id"`

	EmployeeName string `json:"employee_name,omitempty"`
	EmployeeCode string `json:"employee_code,omitempty"`

	DaysWorked     float64 `json:"days_worked"`
	RegularHours   float64 `json:"regular_hours"`
	OvertimeHours  float64 `json:"overtime_hours"`
	NightDiffHours float64 `json:"night_diff_hours"`

	BasicPay           decimal.Decimal `json:"basic_pay"`
	OvertimePay        decimal.Decimal `json:"overtime_pay"`
	HolidayPay         decimal.Decimal `json:"holiday_pay"`
	RestDayPay         decimal.Decimal `json:"rest_day_pay"`
	NightDiffPay       decimal.Decimal `json:"night_diff_pay"`
	Allowances         decimal.Decimal `json:"allowances"`
	MealAllowance      decimal.Decimal `json:"meal_allowance"`
	AdjustmentEarnings decimal.Decimal `json:"adjustment_earnings"`
	GrossPay           decimal.Decimal `json:"gross_pay"`

	SSSEmployee        decimal.Decimal `json:"sss_employee"`
	PhilHealthEmployee decimal.Decimal `json:"philhealth_employee"`
	PagIbigEmployee    decimal.Decimal `json:"pagibig_employee"`
	WithholdingTax     decimal.Decimal `json:"withholding_tax"`

	LoanDeductions       decimal.Decimal `json:"loan_deductions"`
	OtherDeductions      decimal.Decimal `json:"other_deductions"`
	UnpaidLeaveDeduction decimal.Decimal `json:"unpaid_leave_deduction"`
	AdjustmentDeductions decimal.Decimal `json:"adjustment_deductions"`
	TotalDeductions      decimal.Decimal `json:"total_deductions"`
	NetPay               decimal.Decimal `json:"net_pay"`
}

type ListPayrollResponse struct {
	Data       []PayrollResponse `json:"data"`
	TotalCount int64             `json:"total_count"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
}

func timeString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}

func MapToResponse(p Payroll) PayrollResponse {
	return PayrollResponse{
		ID:              p.ID,
		PeriodStart:     p.PeriodStart.Format("2006-01-02"),
		PeriodEnd:       p.PeriodEnd.Format("2006-01-02"),
		PaymentDate:     p.PaymentDate.Format("2006-01-02"),
		PeriodType:      string(p.PeriodType),
		Status:          string(p.Status),
		TotalGross:      p.TotalGross,
		TotalDeductions: p.TotalDeductions,
		TotalNet:        p.TotalNet,
		EmployeeCount:   p.EmployeeCount,
		CancelReason:    p.CancelReason,
		FinalizedAt:     timeString(p.FinalizedAt),
		PaidAt:          timeString(p.PaidAt),
	}
}

func MapItemToResponse(i Item) ItemResponse {
	name := ""
	code := ""
	if i.EmployeeName != nil {
		name = *i.EmployeeName
	}
	if i.EmployeeCode != nil {
		code = *i.EmployeeCode
	}
	return ItemResponse{
		ID:                   i.ID,
		PayrollID:            i.PayrollID,
		EmployeeID:           i.EmployeeID,
		EmployeeName:         name,
		EmployeeCode:         code,
		DaysWorked:           i.DaysWorked,
		RegularHours:         i.RegularHours,
		OvertimeHours:        i.OvertimeHours,
		NightDiffHours:       i.NightDiffHours,
		BasicPay:             i.BasicPay,
		OvertimePay:          i.OvertimePay,
		HolidayPay:           i.HolidayPay,
		RestDayPay:           i.RestDayPay,
		NightDiffPay:         i.NightDiffPay,
		Allowances:           i.Allowances,
		MealAllowance:        i.MealAllowance,
		AdjustmentEarnings:   i.AdjustmentEarnings,
		GrossPay:             i.GrossPay,
		SSSEmployee:          i.SSSEmployee,
		PhilHealthEmployee:   i.PhilHealthEmployee,
		PagIbigEmployee:      i.PagIbigEmployee,
		WithholdingTax:       i.WithholdingTax,
		LoanDeductions:       i.LoanDeductions,
		OtherDeductions:      i.OtherDeductions,
		UnpaidLeaveDeduction: i.UnpaidLeaveDeduction,
		AdjustmentDeductions: i.AdjustmentDeductions,
		TotalDeductions:      i.TotalDeductions,
		NetPay:               i.NetPay,
	}
}
