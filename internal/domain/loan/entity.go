package loan

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status enum
type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusActive    Status = "active"
	StatusPaid      Status = "paid"
	StatusCancelled Status = "cancelled"
)

// PaymentFrequency enum
type PaymentFrequency string

const (
	FrequencyMonthly     PaymentFrequency = "monthly"
	FrequencySemiMonthly PaymentFrequency = "semi_monthly"
)

// Loan is an employee loan amortized across payroll periods. Balance never
// goes negative; once it reaches zero the loan flips to paid and AmountPaid
// is clamped to TotalAmount exactly.
type Loan struct {
	ID                      string
	EmployeeID              string
	LoanType                string
	Principal               decimal.Decimal
	TotalAmount             decimal.Decimal
	MonthlyAmortization     decimal.Decimal
	SemiMonthlyAmortization decimal.Decimal
	PaymentFrequency        PaymentFrequency
	Balance                 decimal.Decimal
	AmountPaid              decimal.Decimal
	Status                  Status
	StartDate               time.Time
	CreatedAt               time.Time
	UpdatedAt               time.Time
}

// Chargeable reports whether the ledger should consider the loan at all.
func (l Loan) Chargeable() bool {
	return l.Status == StatusActive && l.Balance.IsPositive()
}

// DeductionStatus enum
type DeductionStatus string

const (
	DeductionActive    DeductionStatus = "active"
	DeductionCompleted DeductionStatus = "completed"
	DeductionCancelled DeductionStatus = "cancelled"
)

// Deduction is a scheduled non-loan deduction paid down in installments.
type Deduction struct {
	ID               string
	EmployeeID       string
	Name             string
	TotalAmount      decimal.Decimal
	AmountPerCutoff  decimal.Decimal // zero = derive from TotalAmount / Installments
	Balance          decimal.Decimal
	Installments     int
	InstallmentsPaid int
	Status           DeductionStatus
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (d Deduction) Chargeable() bool {
	return d.Status == DeductionActive && d.Balance.IsPositive()
}

// AmountPaid derives from the running balance.
func (d Deduction) AmountPaid() decimal.Decimal {
	return d.TotalAmount.Sub(d.Balance)
}

// LoanPayment is the append-only ledger row that makes reversal exact. One
// row per loan per payroll item, numbered monotonically per loan.
type LoanPayment struct {
	ID                  string
	LoanID              string
	PayrollID           string
	PayrollItemID       string
	PaymentNumber       int
	Amount              decimal.Decimal
	BalanceAfterPayment decimal.Decimal
	CompletedLoan       bool
	CreatedAt           time.Time
}

// DeductionPayment mirrors LoanPayment for scheduled deductions.
type DeductionPayment struct {
	ID                  string
	DeductionID         string
	PayrollID           string
	PayrollItemID       string
	PaymentNumber       int
	Amount              decimal.Decimal
	BalanceAfterPayment decimal.Decimal
	CompletedDeduction  bool
	CreatedAt           time.Time
}
