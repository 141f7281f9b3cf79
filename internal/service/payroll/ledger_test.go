package payroll

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jkgulay/payroll-system-sub001/internal/domain/loan"
	"github.com/jkgulay/payroll-system-sub001/internal/domain/payroll"
	domainTax "github.com/jkgulay/payroll-system-sub001/internal/domain/tax"
	"github.com/jkgulay/payroll-system-sub001/internal/pkg/audit"
)

type fakeLoanRepo struct {
	loans             map[string]loan.Loan
	deductions        map[string]loan.Deduction
	loanPayments      []loan.LoanPayment
	deductionPayments []loan.DeductionPayment
	seq               int
}

func newFakeLoanRepo() *fakeLoanRepo {
	return &fakeLoanRepo{
		loans:      make(map[string]loan.Loan),
		deductions: make(map[string]loan.Deduction),
	}
}

func (f *fakeLoanRepo) nextID() string {
	f.seq++
	return fmt.Sprintf("id-%d", f.seq)
}

func (f *fakeLoanRepo) CreateLoan(_ context.Context, l loan.Loan) (loan.Loan, error) {
	if l.ID == "" {
		l.ID = f.nextID()
	}
	f.loans[l.ID] = l
	return l, nil
}

func (f *fakeLoanRepo) GetLoanByID(_ context.Context, id string) (loan.Loan, error) {
	l, ok := f.loans[id]
	if !ok {
		return loan.Loan{}, loan.ErrLoanNotFound
	}
	return l, nil
}

func (f *fakeLoanRepo) UpdateLoan(_ context.Context, l loan.Loan) error {
	f.loans[l.ID] = l
	return nil
}

func (f *fakeLoanRepo) ListChargeableLoans(_ context.Context, employeeID string) ([]loan.Loan, error) {
	var result []loan.Loan
	for _, l := range f.loans {
		if l.EmployeeID == employeeID && l.Chargeable() {
			result = append(result, l)
		}
	}
	return result, nil
}

func (f *fakeLoanRepo) ListLoansForReversal(_ context.Context, employeeID string) ([]loan.Loan, error) {
	var result []loan.Loan
	for _, l := range f.loans {
		if l.EmployeeID == employeeID && (l.Status == loan.StatusActive || l.Status == loan.StatusPaid) {
			result = append(result, l)
		}
	}
	return result, nil
}

func (f *fakeLoanRepo) CreateDeduction(_ context.Context, d loan.Deduction) (loan.Deduction, error) {
	if d.ID == "" {
		d.ID = f.nextID()
	}
	f.deductions[d.ID] = d
	return d, nil
}

func (f *fakeLoanRepo) GetDeductionByID(_ context.Context, id string) (loan.Deduction, error) {
	d, ok := f.deductions[id]
	if !ok {
		return loan.Deduction{}, loan.ErrDeductionNotFound
	}
	return d, nil
}

func (f *fakeLoanRepo) UpdateDeduction(_ context.Context, d loan.Deduction) error {
	f.deductions[d.ID] = d
	return nil
}

func (f *fakeLoanRepo) ListChargeableDeductions(_ context.Context, employeeID string) ([]loan.Deduction, error) {
	var result []loan.Deduction
	for _, d := range f.deductions {
		if d.EmployeeID == employeeID && d.Chargeable() {
			result = append(result, d)
		}
	}
	return result, nil
}

func (f *fakeLoanRepo) ListDeductionsForReversal(_ context.Context, employeeID string) ([]loan.Deduction, error) {
	var result []loan.Deduction
	for _, d := range f.deductions {
		if d.EmployeeID == employeeID && d.Status != loan.DeductionCancelled {
			result = append(result, d)
		}
	}
	return result, nil
}

func (f *fakeLoanRepo) CreateLoanPayment(_ context.Context, p loan.LoanPayment) (loan.LoanPayment, error) {
	if p.ID == "" {
		p.ID = f.nextID()
	}
	f.loanPayments = append(f.loanPayments, p)
	return p, nil
}

func (f *fakeLoanRepo) ListLoanPaymentsByPayroll(_ context.Context, payrollID string) ([]loan.LoanPayment, error) {
	var result []loan.LoanPayment
	for _, p := range f.loanPayments {
		if p.PayrollID == payrollID {
			result = append(result, p)
		}
	}
	return result, nil
}

func (f *fakeLoanRepo) DeleteLoanPaymentsByPayroll(_ context.Context, payrollID string) error {
	kept := f.loanPayments[:0]
	for _, p := range f.loanPayments {
		if p.PayrollID != payrollID {
			kept = append(kept, p)
		}
	}
	f.loanPayments = kept
	return nil
}

func (f *fakeLoanRepo) NextPaymentNumber(_ context.Context, loanID string) (int, error) {
	max := 0
	for _, p := range f.loanPayments {
		if p.LoanID == loanID && p.PaymentNumber > max {
			max = p.PaymentNumber
		}
	}
	return max + 1, nil
}

func (f *fakeLoanRepo) CreateDeductionPayment(_ context.Context, p loan.DeductionPayment) (loan.DeductionPayment, error) {
	if p.ID == "" {
		p.ID = f.nextID()
	}
	f.deductionPayments = append(f.deductionPayments, p)
	return p, nil
}

func (f *fakeLoanRepo) ListDeductionPaymentsByPayroll(_ context.Context, payrollID string) ([]loan.DeductionPayment, error) {
	var result []loan.DeductionPayment
	for _, p := range f.deductionPayments {
		if p.PayrollID == payrollID {
			result = append(result, p)
		}
	}
	return result, nil
}

func (f *fakeLoanRepo) DeleteDeductionPaymentsByPayroll(_ context.Context, payrollID string) error {
	kept := f.deductionPayments[:0]
	for _, p := range f.deductionPayments {
		if p.PayrollID != payrollID {
			kept = append(kept, p)
		}
	}
	f.deductionPayments = kept
	return nil
}

func (f *fakeLoanRepo) NextDeductionPaymentNumber(_ context.Context, deductionID string) (int, error) {
	max := 0
	for _, p := range f.deductionPayments {
		if p.DeductionID == deductionID && p.PaymentNumber > max {
			max = p.PaymentNumber
		}
	}
	return max + 1, nil
}

func testEmitter() *audit.Emitter {
	return audit.NewEmitter(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func semiMonthlyPayroll(id string) payroll.Payroll {
	return payroll.Payroll{
		ID:          id,
		PeriodType:  domainTax.PeriodSemiMonthly,
		PeriodStart: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		PeriodEnd:   time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
		Status:      payroll.StatusDraft,
	}
}

func monthlyPayroll(id string) payroll.Payroll {
	p := semiMonthlyPayroll(id)
	p.PeriodType = domainTax.PeriodMonthly
	p.PeriodEnd = time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)
	return p
}

func activeLoan(id, employeeID string, balance, monthly, semi string, freq loan.PaymentFrequency) loan.Loan {
	b := dec(balance)
	return loan.Loan{
		ID:                      id,
		EmployeeID:              employeeID,
		LoanType:                "sss_salary",
		Principal:               b,
		TotalAmount:             b,
		MonthlyAmortization:     dec(monthly),
		SemiMonthlyAmortization: dec(semi),
		PaymentFrequency:        freq,
		Balance:                 b,
		AmountPaid:              decimal.Zero,
		Status:                  loan.StatusActive,
	}
}

func TestChargeMonthlyLoanSkippedOnSemiMonthlyRun(t *testing.T) {
	ctx := context.Background()
	repo := newFakeLoanRepo()
	repo.loans["l1"] = activeLoan("l1", "emp-1", "1000", "600", "300", loan.FrequencyMonthly)
	ledger := NewLedger(repo, testEmitter())

	loanTotal, _, err := ledger.Charge(ctx, semiMonthlyPayroll("p1"), payroll.Item{ID: "i1", EmployeeID: "emp-1"})
	require.NoError(t, err)

	assert.True(t, loanTotal.IsZero(), "got %s", loanTotal)
	assert.Empty(t, repo.loanPayments)
	assert.True(t, dec("1000").Equal(repo.loans["l1"].Balance))
}

func TestChargeSemiMonthlyLoan(t *testing.T) {
	ctx := context.Background()
	repo := newFakeLoanRepo()
	repo.loans["l1"] = activeLoan("l1", "emp-1", "5000", "1000", "500", loan.FrequencySemiMonthly)
	ledger := NewLedger(repo, testEmitter())

	loanTotal, _, err := ledger.Charge(ctx, semiMonthlyPayroll("p1"), payroll.Item{ID: "i1", EmployeeID: "emp-1"})
	require.NoError(t, err)

	assert.True(t, dec("500").Equal(loanTotal), "got %s", loanTotal)
	updated := repo.loans["l1"]
	assert.True(t, dec("4500").Equal(updated.Balance))
	assert.True(t, dec("500").Equal(updated.AmountPaid))
	require.Len(t, repo.loanPayments, 1)
	assert.Equal(t, 1, repo.loanPayments[0].PaymentNumber)
	assert.True(t, dec("4500").Equal(repo.loanPayments[0].BalanceAfterPayment))
}

func TestChargeSemiMonthlyLoanOnMonthlyRunUsesMonthlyAmortization(t *testing.T) {
	ctx := context.Background()
	repo := newFakeLoanRepo()
	repo.loans["l1"] = activeLoan("l1", "emp-1", "5000", "1000", "500", loan.FrequencySemiMonthly)
	ledger := NewLedger(repo, testEmitter())

	loanTotal, _, err := ledger.Charge(ctx, monthlyPayroll("p1"), payroll.Item{ID: "i1", EmployeeID: "emp-1"})
	require.NoError(t, err)

	assert.True(t, dec("1000").Equal(loanTotal), "got %s", loanTotal)
}

func TestChargeClampsToBalance(t *testing.T) {
	ctx := context.Background()
	repo := newFakeLoanRepo()
	repo.loans["l1"] = activeLoan("l1", "emp-1", "400", "600", "300", loan.FrequencyMonthly)
	ledger := NewLedger(repo, testEmitter())

	loanTotal, _, err := ledger.Charge(ctx, monthlyPayroll("p1"), payroll.Item{ID: "i1", EmployeeID: "emp-1"})
	require.NoError(t, err)

	assert.True(t, dec("400").Equal(loanTotal), "got %s", loanTotal)
	updated := repo.loans["l1"]
	assert.True(t, updated.Balance.IsZero())
	assert.Equal(t, loan.StatusPaid, updated.Status)
	assert.True(t, updated.AmountPaid.Equal(updated.TotalAmount))
}

func TestChargeCompletionAbsorbsResidue(t *testing.T) {
	ctx := context.Background()
	repo := newFakeLoanRepo()
	l := activeLoan("l1", "emp-1", "600.01", "600", "300", loan.FrequencyMonthly)
	repo.loans["l1"] = l
	ledger := NewLedger(repo, testEmitter())

	loanTotal, _, err := ledger.Charge(ctx, monthlyPayroll("p1"), payroll.Item{ID: "i1", EmployeeID: "emp-1"})
	require.NoError(t, err)

	// The 0.01 residue would linger forever; the payment takes it.
	assert.True(t, dec("600.01").Equal(loanTotal), "got %s", loanTotal)
	updated := repo.loans["l1"]
	assert.True(t, updated.Balance.IsZero())
	assert.Equal(t, loan.StatusPaid, updated.Status)
	assert.True(t, updated.AmountPaid.Equal(updated.TotalAmount))
	require.Len(t, repo.loanPayments, 1)
	assert.True(t, repo.loanPayments[0].CompletedLoan)
}

func TestChargeScheduledDeductionDerivesInstallment(t *testing.T) {
	ctx := context.Background()
	repo := newFakeLoanRepo()
	repo.deductions["d1"] = loan.Deduction{
		ID: "d1", EmployeeID: "emp-1", Name: "Safety gear",
		TotalAmount: dec("3000"), Balance: dec("3000"),
		Installments: 6, Status: loan.DeductionActive,
	}
	ledger := NewLedger(repo, testEmitter())

	_, deductionTotal, err := ledger.Charge(ctx, semiMonthlyPayroll("p1"), payroll.Item{ID: "i1", EmployeeID: "emp-1"})
	require.NoError(t, err)

	assert.True(t, dec("500").Equal(deductionTotal), "got %s", deductionTotal)
	updated := repo.deductions["d1"]
	assert.True(t, dec("2500").Equal(updated.Balance))
	assert.Equal(t, 1, updated.InstallmentsPaid)
}

func TestPaymentNumbersAreMonotonic(t *testing.T) {
	ctx := context.Background()
	repo := newFakeLoanRepo()
	repo.loans["l1"] = activeLoan("l1", "emp-1", "5000", "1000", "500", loan.FrequencySemiMonthly)
	ledger := NewLedger(repo, testEmitter())

	_, _, err := ledger.Charge(ctx, semiMonthlyPayroll("p1"), payroll.Item{ID: "i1", EmployeeID: "emp-1"})
	require.NoError(t, err)
	_, _, err = ledger.Charge(ctx, semiMonthlyPayroll("p2"), payroll.Item{ID: "i2", EmployeeID: "emp-1"})
	require.NoError(t, err)

	require.Len(t, repo.loanPayments, 2)
	assert.Equal(t, 1, repo.loanPayments[0].PaymentNumber)
	assert.Equal(t, 2, repo.loanPayments[1].PaymentNumber)
}

func TestReverseRestoresBalancesExactly(t *testing.T) {
	ctx := context.Background()
	repo := newFakeLoanRepo()
	repo.loans["l1"] = activeLoan("l1", "emp-1", "600.01", "600", "300", loan.FrequencyMonthly)
	ledger := NewLedger(repo, testEmitter())

	p := monthlyPayroll("p1")
	item := payroll.Item{ID: "i1", EmployeeID: "emp-1"}
	loanTotal, _, err := ledger.Charge(ctx, p, item)
	require.NoError(t, err)
	require.Equal(t, loan.StatusPaid, repo.loans["l1"].Status)

	item.LoanDeductions = loanTotal
	require.NoError(t, ledger.Reverse(ctx, p, []payroll.Item{item}))

	restored := repo.loans["l1"]
	assert.True(t, dec("600.01").Equal(restored.Balance), "got %s", restored.Balance)
	assert.True(t, restored.AmountPaid.IsZero(), "got %s", restored.AmountPaid)
	assert.Equal(t, loan.StatusActive, restored.Status)
	assert.Empty(t, repo.loanPayments)
}

func TestReverseWithoutLedgerRowsRecomputesApproximately(t *testing.T) {
	ctx := context.Background()
	repo := newFakeLoanRepo()
	l := activeLoan("l1", "emp-1", "5000", "1000", "500", loan.FrequencySemiMonthly)
	// Simulate a pre-ledger payroll: the balance moved but no rows exist.
	l.Balance = dec("4500")
	l.AmountPaid = dec("500")
	repo.loans["l1"] = l
	ledger := NewLedger(repo, testEmitter())

	item := payroll.Item{ID: "i1", EmployeeID: "emp-1", LoanDeductions: dec("500")}
	require.NoError(t, ledger.Reverse(ctx, semiMonthlyPayroll("p1"), []payroll.Item{item}))

	restored := repo.loans["l1"]
	assert.True(t, dec("5000").Equal(restored.Balance), "got %s", restored.Balance)
	assert.True(t, restored.AmountPaid.IsZero(), "got %s", restored.AmountPaid)
}
