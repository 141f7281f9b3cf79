package payroll

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jkgulay/payroll-system-sub001/internal/domain/tax"
)

// Status enum. Items may be created or deleted only while draft; finalized
// freezes the totals; paid payrolls can never be reversed.
type Status string

const (
	StatusDraft      Status = "draft"
	StatusProcessing Status = "processing"
	StatusFinalized  Status = "finalized"
	StatusPaid       Status = "paid"
	StatusCancelled  Status = "cancelled"
)

// Payroll is one pay period run.
type Payroll struct {
	ID              string
	PeriodStart     time.Time
	PeriodEnd       time.Time
	PaymentDate     time.Time
	PeriodType      tax.PeriodType
	Status          Status
	TotalGross      decimal.Decimal
	TotalDeductions decimal.Decimal
	TotalNet        decimal.Decimal
	EmployeeCount   int
	CancelReason    *string
	CreatedBy       string
	FinalizedBy     *string
	FinalizedAt     *time.Time
	PaidBy          *string
	PaidAt          *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Mutable reports whether items may still be generated or removed.
func (p Payroll) Mutable() bool {
	return p.Status == StatusDraft || p.Status == StatusProcessing
}

// Reversible reports whether ledger side effects may still be undone.
func (p Payroll) Reversible() bool {
	return p.Status != StatusPaid
}

// Item is one employee's full earnings and deduction breakdown within one
// payroll. Created once per (payroll, employee).
type Item struct {
	ID         string
	PayrollID  string
	EmployeeID string

	DaysWorked     float64
	RegularHours   float64
	OvertimeHours  float64
	NightDiffHours float64

	BasicPay           decimal.Decimal
	OvertimePay        decimal.Decimal
	HolidayPay         decimal.Decimal
	RestDayPay         decimal.Decimal
	NightDiffPay       decimal.Decimal
	Allowances         decimal.Decimal
	MealAllowance      decimal.Decimal
	AdjustmentEarnings decimal.Decimal
	GrossPay           decimal.Decimal

	SSSEmployee        decimal.Decimal
	SSSEmployer        decimal.Decimal
	PhilHealthEmployee decimal.Decimal
	PhilHealthEmployer decimal.Decimal
	PagIbigEmployee    decimal.Decimal
	PagIbigEmployer    decimal.Decimal
	WithholdingTax     decimal.Decimal

	LoanDeductions       decimal.Decimal
	OtherDeductions      decimal.Decimal
	UnpaidLeaveDeduction decimal.Decimal
	AdjustmentDeductions decimal.Decimal
	TotalDeductions      decimal.Decimal
	NetPay               decimal.Decimal

	CreatedAt time.Time
	UpdatedAt time.Time

	// Joined fields
	EmployeeName *string
	EmployeeCode *string
}

// EmployeeContributions sums the employee-side government shares.
func (i Item) EmployeeContributions() decimal.Decimal {
	return i.SSSEmployee.Add(i.PhilHealthEmployee).Add(i.PagIbigEmployee)
}
