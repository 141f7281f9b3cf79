package loan

import "context"

type LoanRepository interface {
	CreateLoan(ctx context.Context, l Loan) (Loan, error)
	GetLoanByID(ctx context.Context, id string) (Loan, error)
	UpdateLoan(ctx context.Context, l Loan) error
	ListChargeableLoans(ctx context.Context, employeeID string) ([]Loan, error)
	// ListLoansForReversal returns active and paid loans; a reversal may need
	// to reopen a loan that was completed by the payroll being reversed.
	ListLoansForReversal(ctx context.Context, employeeID string) ([]Loan, error)

	CreateDeduction(ctx context.Context, d Deduction) (Deduction, error)
	GetDeductionByID(ctx context.Context, id string) (Deduction, error)
	UpdateDeduction(ctx context.Context, d Deduction) error
	ListChargeableDeductions(ctx context.Context, employeeID string) ([]Deduction, error)
	ListDeductionsForReversal(ctx context.Context, employeeID string) ([]Deduction, error)

	// Ledger rows. Payments are append-only outside of reversal.
	CreateLoanPayment(ctx context.Context, p LoanPayment) (LoanPayment, error)
	ListLoanPaymentsByPayroll(ctx context.Context, payrollID string) ([]LoanPayment, error)
	DeleteLoanPaymentsByPayroll(ctx context.Context, payrollID string) error
	NextPaymentNumber(ctx context.Context, loanID string) (int, error)

	CreateDeductionPayment(ctx context.Context, p DeductionPayment) (DeductionPayment, error)
	ListDeductionPaymentsByPayroll(ctx context.Context, payrollID string) ([]DeductionPayment, error)
	DeleteDeductionPaymentsByPayroll(ctx context.Context, payrollID string) error
	NextDeductionPaymentNumber(ctx context.Context, deductionID string) (int, error)
}
