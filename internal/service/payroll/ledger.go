package payroll

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jkgulay/payroll-system-sub001/internal/domain/loan"
	"github.com/jkgulay/payroll-system-sub001/internal/domain/payroll"
	domainTax "github.com/jkgulay/payroll-system-sub001/internal/domain/tax"
	"github.com/jkgulay/payroll-system-sub001/internal/pkg/audit"
)

// completionEpsilon absorbs rounding residue: a balance at or below this
// after a payment completes the obligation with exact zero balance.
var completionEpsilon = decimal.NewFromFloat(0.01)

// Ledger charges loan amortizations and scheduled deductions against a
// payroll item and records an append-only payment row per charge, so that
// deleting a draft payroll can restore balances exactly.
type Ledger struct {
	repo  loan.LoanRepository
	audit *audit.Emitter
}

func NewLedger(repo loan.LoanRepository, emitter *audit.Emitter) *Ledger {
	return &Ledger{repo: repo, audit: emitter}
}

// Charge applies every chargeable loan and deduction of the employee to the
// item, mutating loan balances and appending ledger rows. Returns the loan
// total and the scheduled-deduction total.
func (l *Ledger) Charge(ctx context.Context, p payroll.Payroll, item payroll.Item) (loanTotal, deductionTotal decimal.Decimal, err error) {
	loanTotal, deductionTotal = decimal.Zero, decimal.Zero

	loans, err := l.repo.ListChargeableLoans(ctx, item.EmployeeID)
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("failed to list chargeable loans: %w", err)
	}
	for _, ln := range loans {
		amount := amortizationFor(ln, p.PeriodType)
		if !amount.IsPositive() {
			continue
		}
		if amount.GreaterThan(ln.Balance) {
			amount = ln.Balance
		}
		newBalance := ln.Balance.Sub(amount)
		if newBalance.LessThanOrEqual(completionEpsilon) {
			// Absorb the residue into this payment and close exactly.
			amount = ln.Balance
			newBalance = decimal.Zero
		}
		completed := newBalance.IsZero()

		number, err := l.repo.NextPaymentNumber(ctx, ln.ID)
		if err != nil {
			return decimal.Zero, decimal.Zero, fmt.Errorf("failed to number loan payment: %w", err)
		}
		if _, err := l.repo.CreateLoanPayment(ctx, loan.LoanPayment{
			LoanID:              ln.ID,
			PayrollID:           p.ID,
			PayrollItemID:       item.ID,
			PaymentNumber:       number,
			Amount:              amount,
			BalanceAfterPayment: newBalance,
			CompletedLoan:       completed,
		}); err != nil {
			return decimal.Zero, decimal.Zero, fmt.Errorf("failed to record loan payment: %w", err)
		}

		ln.Balance = newBalance
		ln.AmountPaid = ln.AmountPaid.Add(amount)
		if completed {
			ln.AmountPaid = ln.TotalAmount
			ln.Status = loan.StatusPaid
		}
		if err := l.repo.UpdateLoan(ctx, ln); err != nil {
			return decimal.Zero, decimal.Zero, fmt.Errorf("failed to update loan %s: %w", ln.ID, err)
		}
		loanTotal = loanTotal.Add(amount)
	}

	deductions, err := l.repo.ListChargeableDeductions(ctx, item.EmployeeID)
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("failed to list chargeable deductions: %w", err)
	}
	for _, ded := range deductions {
		amount := installmentFor(ded)
		if !amount.IsPositive() {
			continue
		}
		if amount.GreaterThan(ded.Balance) {
			amount = ded.Balance
		}
		newBalance := ded.Balance.Sub(amount)
		lastInstallment := ded.Installments > 0 && ded.InstallmentsPaid+1 >= ded.Installments
		if newBalance.LessThanOrEqual(completionEpsilon) || lastInstallment {
			amount = ded.Balance
			newBalance = decimal.Zero
		}
		completed := newBalance.IsZero()

		number, err := l.repo.NextDeductionPaymentNumber(ctx, ded.ID)
		if err != nil {
			return decimal.Zero, decimal.Zero, fmt.Errorf("failed to number deduction payment: %w", err)
		}
		if _, err := l.repo.CreateDeductionPayment(ctx, loan.DeductionPayment{
			DeductionID:         ded.ID,
			PayrollID:           p.ID,
			PayrollItemID:       item.ID,
			PaymentNumber:       number,
			Amount:              amount,
			BalanceAfterPayment: newBalance,
			CompletedDeduction:  completed,
		}); err != nil {
			return decimal.Zero, decimal.Zero, fmt.Errorf("failed to record deduction payment: %w", err)
		}

		ded.Balance = newBalance
		ded.InstallmentsPaid++
		if completed {
			ded.InstallmentsPaid = ded.Installments
			ded.Status = loan.DeductionCompleted
		}
		if err := l.repo.UpdateDeduction(ctx, ded); err != nil {
			return decimal.Zero, decimal.Zero, fmt.Errorf("failed to update deduction %s: %w", ded.ID, err)
		}
		deductionTotal = deductionTotal.Add(amount)
	}

	return loanTotal, deductionTotal, nil
}

// Reverse undoes every ledger row written for the payroll, restoring loan
// and deduction balances exactly, then deletes the rows. When a payroll
// predates the ledger and has no rows, balances are rebuilt by recomputing
// the amortization, which is approximate and logged as such.
func (l *Ledger) Reverse(ctx context.Context, p payroll.Payroll, items []payroll.Item) error {
	loanPayments, err := l.repo.ListLoanPaymentsByPayroll(ctx, p.ID)
	if err != nil {
		return fmt.Errorf("failed to list loan payments: %w", err)
	}
	deductionPayments, err := l.repo.ListDeductionPaymentsByPayroll(ctx, p.ID)
	if err != nil {
		return fmt.Errorf("failed to list deduction payments: %w", err)
	}

	if len(loanPayments) == 0 && len(deductionPayments) == 0 {
		return l.reverseApproximate(ctx, p, items)
	}

	for _, payment := range loanPayments {
		ln, err := l.repo.GetLoanByID(ctx, payment.LoanID)
		if err != nil {
			return fmt.Errorf("failed to load loan %s: %w", payment.LoanID, err)
		}
		ln.Balance = ln.Balance.Add(payment.Amount)
		ln.AmountPaid = ln.TotalAmount.Sub(ln.Balance)
		if payment.CompletedLoan {
			ln.Status = loan.StatusActive
		}
		if err := l.repo.UpdateLoan(ctx, ln); err != nil {
			return fmt.Errorf("failed to restore loan %s: %w", ln.ID, err)
		}
		l.audit.Emit(ctx, audit.Fact{
			Action:   "loan_payment.reversed",
			Entity:   "loan",
			EntityID: ln.ID,
			Detail: map[string]any{
				"payroll_id":       p.ID,
				"amount":           payment.Amount.String(),
				"restored_balance": ln.Balance.String(),
			},
		})
	}
	for _, payment := range deductionPayments {
		ded, err := l.repo.GetDeductionByID(ctx, payment.DeductionID)
		if err != nil {
			return fmt.Errorf("failed to load deduction %s: %w", payment.DeductionID, err)
		}
		ded.Balance = ded.Balance.Add(payment.Amount)
		if ded.InstallmentsPaid > 0 {
			ded.InstallmentsPaid--
		}
		if payment.CompletedDeduction {
			ded.Status = loan.DeductionActive
		}
		if err := l.repo.UpdateDeduction(ctx, ded); err != nil {
			return fmt.Errorf("failed to restore deduction %s: %w", ded.ID, err)
		}
		l.audit.Emit(ctx, audit.Fact{
			Action:   "deduction_payment.reversed",
			Entity:   "deduction",
			EntityID: ded.ID,
			Detail: map[string]any{
				"payroll_id":       p.ID,
				"amount":           payment.Amount.String(),
				"restored_balance": ded.Balance.String(),
			},
		})
	}

	if err := l.repo.DeleteLoanPaymentsByPayroll(ctx, p.ID); err != nil {
		return fmt.Errorf("failed to delete loan payments: %w", err)
	}
	if err := l.repo.DeleteDeductionPaymentsByPayroll(ctx, p.ID); err != nil {
		return fmt.Errorf("failed to delete deduction payments: %w", err)
	}
	return nil
}

// reverseApproximate rebuilds balances for payrolls with no ledger rows by
// re-deriving what each run would have charged. Rounding drift cannot be
// recovered here.
func (l *Ledger) reverseApproximate(ctx context.Context, p payroll.Payroll, items []payroll.Item) error {
	for _, item := range items {
		if !item.LoanDeductions.IsPositive() && !item.OtherDeductions.IsPositive() {
			continue
		}
		l.audit.Warn(ctx, "reversing payroll without ledger rows, balances restored approximately", map[string]any{
			"payroll_id":  p.ID,
			"employee_id": item.EmployeeID,
		})

		if item.LoanDeductions.IsPositive() {
			loans, err := l.repo.ListLoansForReversal(ctx, item.EmployeeID)
			if err != nil {
				return fmt.Errorf("failed to list loans for reversal: %w", err)
			}
			for _, ln := range loans {
				amount := amortizationFor(ln, p.PeriodType)
				if !amount.IsPositive() {
					continue
				}
				ln.Balance = decimal.Min(ln.Balance.Add(amount), ln.TotalAmount)
				ln.AmountPaid = ln.TotalAmount.Sub(ln.Balance)
				if ln.Status == loan.StatusPaid && ln.Balance.IsPositive() {
					ln.Status = loan.StatusActive
				}
				if err := l.repo.UpdateLoan(ctx, ln); err != nil {
					return fmt.Errorf("failed to restore loan %s: %w", ln.ID, err)
				}
			}
		}
		if item.OtherDeductions.IsPositive() {
			deductions, err := l.repo.ListDeductionsForReversal(ctx, item.EmployeeID)
			if err != nil {
				return fmt.Errorf("failed to list deductions for reversal: %w", err)
			}
			for _, ded := range deductions {
				amount := installmentFor(ded)
				if !amount.IsPositive() {
					continue
				}
				ded.Balance = decimal.Min(ded.Balance.Add(amount), ded.TotalAmount)
				if ded.InstallmentsPaid > 0 {
					ded.InstallmentsPaid--
				}
				if ded.Status == loan.DeductionCompleted && ded.Balance.IsPositive() {
					ded.Status = loan.DeductionActive
				}
				if err := l.repo.UpdateDeduction(ctx, ded); err != nil {
					return fmt.Errorf("failed to restore deduction %s: %w", ded.ID, err)
				}
			}
		}
	}
	return nil
}

// amortizationFor picks the charge for the run's period type. Monthly loans
// are skipped entirely on semi-monthly runs; semi-monthly loans charge the
// full monthly amortization on monthly runs.
func amortizationFor(ln loan.Loan, period domainTax.PeriodType) decimal.Decimal {
	if period == domainTax.PeriodSemiMonthly {
		if ln.PaymentFrequency == loan.FrequencyMonthly {
			return decimal.Zero
		}
		return ln.SemiMonthlyAmortization
	}
	return ln.MonthlyAmortization
}

// installmentFor derives the per-cutoff charge when the deduction does not
// carry an explicit one.
func installmentFor(ded loan.Deduction) decimal.Decimal {
	if ded.AmountPerCutoff.IsPositive() {
		return ded.AmountPerCutoff
	}
	if ded.Installments <= 0 {
		return ded.Balance
	}
	return ded.TotalAmount.Div(decimal.NewFromInt(int64(ded.Installments))).Round(2)
}
