package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jkgulay/payroll-system-sub001/internal/domain/loan"
	"github.com/jkgulay/payroll-system-sub001/internal/pkg/database"
)

type loanRepository struct {
	db *database.DB
}

func NewLoanRepository(db *database.DB) loan.LoanRepository {
	return &loanRepository{db: db}
}

const loanColumns = `
	id, employee_id, loan_type, principal, total_amount,
	monthly_amortization, semi_monthly_amortization, payment_frequency,
	balance, amount_paid, status, start_date, created_at, updated_at`

func scanLoan(row pgx.Row) (loan.Loan, error) {
	var l loan.Loan
	err := row.Scan(
		&l.ID, &l.EmployeeID, &l.LoanType, &l.Principal, &l.TotalAmount,
		&l.MonthlyAmortization, &l.SemiMonthlyAmortization, &l.PaymentFrequency,
		&l.Balance, &l.AmountPaid, &l.Status, &l.StartDate, &l.CreatedAt, &l.UpdatedAt,
	)
	return l, err
}

// CreateLoan implements loan.LoanRepository.
func (r *loanRepository) CreateLoan(ctx context.Context, l loan.Loan) (loan.Loan, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO loans (
			employee_id, loan_type, principal, total_amount,
			monthly_amortization, semi_monthly_amortization, payment_frequency,
			balance, amount_paid, status, start_date
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		l.EmployeeID, l.LoanType, l.Principal, l.TotalAmount,
		l.MonthlyAmortization, l.SemiMonthlyAmortization, l.PaymentFrequency,
		l.Balance, l.AmountPaid, l.Status, l.StartDate,
	).Scan(&l.ID, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return loan.Loan{}, fmt.Errorf("failed to create loan: %w", err)
	}
	return l, nil
}

// GetLoanByID implements loan.LoanRepository.
func (r *loanRepository) GetLoanByID(ctx context.Context, id string) (loan.Loan, error) {
	q := GetQuerier(ctx, r.db)

	l, err := scanLoan(q.QueryRow(ctx, `SELECT `+loanColumns+` FROM loans WHERE id = $1`, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return loan.Loan{}, loan.ErrLoanNotFound
		}
		return loan.Loan{}, fmt.Errorf("failed to get loan: %w", err)
	}
	return l, nil
}

// UpdateLoan implements loan.LoanRepository.
func (r *loanRepository) UpdateLoan(ctx context.Context, l loan.Loan) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE loans SET
			balance = $1, amount_paid = $2, status = $3,
			monthly_amortization = $4, semi_monthly_amortization = $5,
			payment_frequency = $6, updated_at = NOW()
		WHERE id = $7
	`

	tag, err := q.Exec(ctx, query,
		l.Balance, l.AmountPaid, l.Status,
		l.MonthlyAmortization, l.SemiMonthlyAmortization,
		l.PaymentFrequency, l.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update loan: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return loan.ErrLoanNotFound
	}
	return nil
}

// ListChargeableLoans implements loan.LoanRepository.
func (r *loanRepository) ListChargeableLoans(ctx context.Context, employeeID string) ([]loan.Loan, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + loanColumns + `
		FROM loans
		WHERE employee_id = $1 AND status = 'active' AND balance > 0
		ORDER BY start_date`

	rows, err := q.Query(ctx, query, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list chargeable loans: %w", err)
	}
	defer rows.Close()

	return collectLoans(rows)
}

// ListLoansForReversal implements loan.LoanRepository.
func (r *loanRepository) ListLoansForReversal(ctx context.Context, employeeID string) ([]loan.Loan, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + loanColumns + `
		FROM loans
		WHERE employee_id = $1 AND status IN ('active', 'paid')
		ORDER BY start_date`

	rows, err := q.Query(ctx, query, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list loans for reversal: %w", err)
	}
	defer rows.Close()

	return collectLoans(rows)
}

func collectLoans(rows pgx.Rows) ([]loan.Loan, error) {
	var loans []loan.Loan
	for rows.Next() {
		l, err := scanLoan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan loan: %w", err)
		}
		loans = append(loans, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate loans: %w", err)
	}
	return loans, nil
}

const deductionColumns = `
	id, employee_id, name, total_amount, amount_per_cutoff,
	balance, installments, installments_paid, status, created_at, updated_at`

func scanDeduction(row pgx.Row) (loan.Deduction, error) {
	var d loan.Deduction
	err := row.Scan(
		&d.ID, &d.EmployeeID, &d.Name, &d.TotalAmount, &d.AmountPerCutoff,
		&d.Balance, &d.Installments, &d.InstallmentsPaid, &d.Status, &d.CreatedAt, &d.UpdatedAt,
	)
	return d, err
}

// CreateDeduction implements loan.LoanRepository.
func (r *loanRepository) CreateDeduction(ctx context.Context, d loan.Deduction) (loan.Deduction, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO deductions (
			employee_id, name, total_amount, amount_per_cutoff,
			balance, installments, installments_paid, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		d.EmployeeID, d.Name, d.TotalAmount, d.AmountPerCutoff,
		d.Balance, d.Installments, d.InstallmentsPaid, d.Status,
	).Scan(&d.ID, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return loan.Deduction{}, fmt.Errorf("failed to create deduction: %w", err)
	}
	return d, nil
}

// GetDeductionByID implements loan.LoanRepository.
func (r *loanRepository) GetDeductionByID(ctx context.Context, id string) (loan.Deduction, error) {
	q := GetQuerier(ctx, r.db)

	d, err := scanDeduction(q.QueryRow(ctx, `SELECT `+deductionColumns+` FROM deductions WHERE id = $1`, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return loan.Deduction{}, loan.ErrDeductionNotFound
		}
		return loan.Deduction{}, fmt.Errorf("failed to get deduction: %w", err)
	}
	return d, nil
}

// UpdateDeduction implements loan.LoanRepository.
func (r *loanRepository) UpdateDeduction(ctx context.Context, d loan.Deduction) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE deductions SET
			balance = $1, installments_paid = $2, status = $3,
			amount_per_cutoff = $4, updated_at = NOW()
		WHERE id = $5
	`

	tag, err := q.Exec(ctx, query, d.Balance, d.InstallmentsPaid, d.Status, d.AmountPerCutoff, d.ID)
	if err != nil {
		return fmt.Errorf("failed to update deduction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return loan.ErrDeductionNotFound
	}
	return nil
}

// ListChargeableDeductions implements loan.LoanRepository.
func (r *loanRepository) ListChargeableDeductions(ctx context.Context, employeeID string) ([]loan.Deduction, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + deductionColumns + `
		FROM deductions
		WHERE employee_id = $1 AND status = 'active' AND balance > 0
		ORDER BY created_at`

	rows, err := q.Query(ctx, query, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list chargeable deductions: %w", err)
	}
	defer rows.Close()

	return collectDeductions(rows)
}

// ListDeductionsForReversal implements loan.LoanRepository.
func (r *loanRepository) ListDeductionsForReversal(ctx context.Context, employeeID string) ([]loan.Deduction, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + deductionColumns + `
		FROM deductions
		WHERE employee_id = $1 AND status IN ('active', 'completed')
		ORDER BY created_at`

	rows, err := q.Query(ctx, query, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list deductions for reversal: %w", err)
	}
	defer rows.Close()

	return collectDeductions(rows)
}

func collectDeductions(rows pgx.Rows) ([]loan.Deduction, error) {
	var deductions []loan.Deduction
	for rows.Next() {
		d, err := scanDeduction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan deduction: %w", err)
		}
		deductions = append(deductions, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate deductions: %w", err)
	}
	return deductions, nil
}

// CreateLoanPayment implements loan.LoanRepository.
func (r *loanRepository) CreateLoanPayment(ctx context.Context, p loan.LoanPayment) (loan.LoanPayment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO loan_payments (
			loan_id, payroll_id, payroll_item_id, payment_number,
			amount, balance_after_payment, completed_loan
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`

	err := q.QueryRow(ctx, query,
		p.LoanID, p.PayrollID, p.PayrollItemID, p.PaymentNumber,
		p.Amount, p.BalanceAfterPayment, p.CompletedLoan,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return loan.LoanPayment{}, fmt.Errorf("failed to create loan payment: %w", err)
	}
	return p, nil
}

// ListLoanPaymentsByPayroll implements loan.LoanRepository.
func (r *loanRepository) ListLoanPaymentsByPayroll(ctx context.Context, payrollID string) ([]loan.LoanPayment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, loan_id, payroll_id, payroll_item_id, payment_number,
			   amount, balance_after_payment, completed_loan, created_at
		FROM loan_payments
		WHERE payroll_id = $1
		ORDER BY loan_id, payment_number`

	rows, err := q.Query(ctx, query, payrollID)
	if err != nil {
		return nil, fmt.Errorf("failed to list loan payments: %w", err)
	}
	defer rows.Close()

	var payments []loan.LoanPayment
	for rows.Next() {
		var p loan.LoanPayment
		if err := rows.Scan(
			&p.ID, &p.LoanID, &p.PayrollID, &p.PayrollItemID, &p.PaymentNumber,
			&p.Amount, &p.BalanceAfterPayment, &p.CompletedLoan, &p.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan loan payment: %w", err)
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate loan payments: %w", err)
	}
	return payments, nil
}

// DeleteLoanPaymentsByPayroll implements loan.LoanRepository.
func (r *loanRepository) DeleteLoanPaymentsByPayroll(ctx context.Context, payrollID string) error {
	q := GetQuerier(ctx, r.db)

	if _, err := q.Exec(ctx, `DELETE FROM loan_payments WHERE payroll_id = $1`, payrollID); err != nil {
		return fmt.Errorf("failed to delete loan payments: %w", err)
	}
	return nil
}

// NextPaymentNumber implements loan.LoanRepository.
func (r *loanRepository) NextPaymentNumber(ctx context.Context, loanID string) (int, error) {
	q := GetQuerier(ctx, r.db)

	var next int
	err := q.QueryRow(ctx,
		`SELECT COALESCE(MAX(payment_number), 0) + 1 FROM loan_payments WHERE loan_id = $1`,
		loanID,
	).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("failed to get next payment number: %w", err)
	}
	return next, nil
}

// CreateDeductionPayment implements loan.LoanRepository.
func (r *loanRepository) CreateDeductionPayment(ctx context.Context, p loan.DeductionPayment) (loan.DeductionPayment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO deduction_payments (
			deduction_id, payroll_id, payroll_item_id, payment_number,
			amount, balance_after_payment, completed_deduction
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`

	err := q.QueryRow(ctx, query,
		p.DeductionID, p.PayrollID, p.PayrollItemID, p.PaymentNumber,
		p.Amount, p.BalanceAfterPayment, p.CompletedDeduction,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return loan.DeductionPayment{}, fmt.Errorf("failed to create deduction payment: %w", err)
	}
	return p, nil
}

// ListDeductionPaymentsByPayroll implements loan.LoanRepository.
func (r *loanRepository) ListDeductionPaymentsByPayroll(ctx context.Context, payrollID string) ([]loan.DeductionPayment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, deduction_id, payroll_id, payroll_item_id, payment_number,
			   amount, balance_after_payment, completed_deduction, created_at
		FROM deduction_payments
		WHERE payroll_id = $1
		ORDER BY deduction_id, payment_number`

	rows, err := q.Query(ctx, query, payrollID)
	if err != nil {
		return nil, fmt.Errorf("failed to list deduction payments: %w", err)
	}
	defer rows.Close()

	var payments []loan.DeductionPayment
	for rows.Next() {
		var p loan.DeductionPayment
		if err := rows.Scan(
			&p.ID, &p.DeductionID, &p.PayrollID, &p.PayrollItemID, &p.PaymentNumber,
			&p.Amount, &p.BalanceAfterPayment, &p.CompletedDeduction, &p.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan deduction payment: %w", err)
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate deduction payments: %w", err)
	}
	return payments, nil
}

// DeleteDeductionPaymentsByPayroll implements loan.LoanRepository.
func (r *loanRepository) DeleteDeductionPaymentsByPayroll(ctx context.Context, payrollID string) error {
	q := GetQuerier(ctx, r.db)

	if _, err := q.Exec(ctx, `DELETE FROM deduction_payments WHERE payroll_id = $1`, payrollID); err != nil {
		return fmt.Errorf("failed to delete deduction payments: %w", err)
	}
	return nil
}

// NextDeductionPaymentNumber implements loan.LoanRepository.
func (r *loanRepository) NextDeductionPaymentNumber(ctx context.Context, deductionID string) (int, error) {
	q := GetQuerier(ctx, r.db)

	var next int
	err := q.QueryRow(ctx,
		`SELECT COALESCE(MAX(payment_number), 0) + 1 FROM deduction_payments WHERE deduction_id = $1`,
		deductionID,
	).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("failed to get next deduction payment number: %w", err)
	}
	return next, nil
}
