package payroll

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jkgulay/payroll-system-sub001/internal/domain/adjustment"
	"github.com/jkgulay/payroll-system-sub001/internal/domain/allowance"
	"github.com/jkgulay/payroll-system-sub001/internal/domain/attendance"
	"github.com/jkgulay/payroll-system-sub001/internal/domain/contribution"
	"github.com/jkgulay/payroll-system-sub001/internal/domain/employee"
	"github.com/jkgulay/payroll-system-sub001/internal/domain/holiday"
	"github.com/jkgulay/payroll-system-sub001/internal/domain/leave"
	"github.com/jkgulay/payroll-system-sub001/internal/domain/loan"
	"github.com/jkgulay/payroll-system-sub001/internal/domain/payroll"
	domainTax "github.com/jkgulay/payroll-system-sub001/internal/domain/tax"
	holidayService "github.com/jkgulay/payroll-system-sub001/internal/service/holiday"
)

// passthroughTx satisfies TxRunner without a database; the fakes commit
// immediately, which is fine for exercising the orchestrator's policy
// decisions.
type passthroughTx struct{}

func (passthroughTx) WithinTransaction(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

type fakePayrollRepo struct {
	payrolls map[string]payroll.Payroll
	items    map[string][]payroll.Item
}

func newFakePayrollRepo() *fakePayrollRepo {
	return &fakePayrollRepo{
		payrolls: make(map[string]payroll.Payroll),
		items:    make(map[string][]payroll.Item),
	}
}

func (f *fakePayrollRepo) Create(_ context.Context, p payroll.Payroll) (payroll.Payroll, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	f.payrolls[p.ID] = p
	return p, nil
}

func (f *fakePayrollRepo) GetByID(_ context.Context, id string) (payroll.Payroll, error) {
	p, ok := f.payrolls[id]
	if !ok {
		return payroll.Payroll{}, payroll.ErrPayrollNotFound
	}
	return p, nil
}

func (f *fakePayrollRepo) GetForUpdate(ctx context.Context, id string) (payroll.Payroll, error) {
	return f.GetByID(ctx, id)
}

func (f *fakePayrollRepo) Update(_ context.Context, p payroll.Payroll) error {
	f.payrolls[p.ID] = p
	return nil
}

func (f *fakePayrollRepo) Delete(_ context.Context, id string) error {
	delete(f.payrolls, id)
	return nil
}

func (f *fakePayrollRepo) List(_ context.Context, _ payroll.Filter) ([]payroll.Payroll, int64, error) {
	var result []payroll.Payroll
	for _, p := range f.payrolls {
		result = append(result, p)
	}
	return result, int64(len(result)), nil
}

func (f *fakePayrollRepo) HasOverlapping(_ context.Context, start, end time.Time, excludeID string) (bool, error) {
	for _, p := range f.payrolls {
		if p.ID == excludeID || p.Status == payroll.StatusCancelled {
			continue
		}
		if !p.PeriodEnd.Before(start) && !p.PeriodStart.After(end) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakePayrollRepo) CreateItem(_ context.Context, item payroll.Item) (payroll.Item, error) {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	f.items[item.PayrollID] = append(f.items[item.PayrollID], item)
	return item, nil
}

func (f *fakePayrollRepo) CountItems(_ context.Context, payrollID string) (int, error) {
	return len(f.items[payrollID]), nil
}

func (f *fakePayrollRepo) ItemExists(_ context.Context, payrollID, employeeID string) (bool, error) {
	for _, item := range f.items[payrollID] {
		if item.EmployeeID == employeeID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakePayrollRepo) ListItems(_ context.Context, payrollID string) ([]payroll.Item, error) {
	return f.items[payrollID], nil
}

func (f *fakePayrollRepo) DeleteItems(_ context.Context, payrollID string) error {
	delete(f.items, payrollID)
	return nil
}

type fakeEmployeeRepo struct {
	employees []employee.Employee
}

func (f *fakeEmployeeRepo) GetByID(_ context.Context, id string) (employee.Employee, error) {
	for _, e := range f.employees {
		if e.ID == id {
			return e, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (f *fakeEmployeeRepo) GetByEmployeeCode(_ context.Context, code string) (employee.Employee, error) {
	for _, e := range f.employees {
		if e.EmployeeCode == code {
			return e, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (f *fakeEmployeeRepo) ListPayable(_ context.Context) ([]employee.Employee, error) {
	var result []employee.Employee
	for _, e := range f.employees {
		if e.Payable() {
			result = append(result, e)
		}
	}
	return result, nil
}

func (f *fakeEmployeeRepo) ListWithAttendanceBetween(_ context.Context, _, _ time.Time) ([]employee.Employee, error) {
	return nil, nil
}

type fakeAttendanceRepo struct {
	rows []attendance.Attendance
}

func (f *fakeAttendanceRepo) Create(_ context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	f.rows = append(f.rows, att)
	return att, nil
}

func (f *fakeAttendanceRepo) GetByID(_ context.Context, id string) (attendance.Attendance, error) {
	for _, att := range f.rows {
		if att.ID == id {
			return att, nil
		}
	}
	return attendance.Attendance{}, attendance.ErrAttendanceNotFound
}

func (f *fakeAttendanceRepo) GetByEmployeeDate(_ context.Context, employeeID string, date time.Time) (attendance.Attendance, error) {
	for _, att := range f.rows {
		if att.EmployeeID == employeeID && att.Date.Equal(date) {
			return att, nil
		}
	}
	return attendance.Attendance{}, attendance.ErrAttendanceNotFound
}

func (f *fakeAttendanceRepo) Update(_ context.Context, _ attendance.Attendance) error { return nil }
func (f *fakeAttendanceRepo) Delete(_ context.Context, _ string) error                { return nil }

func (f *fakeAttendanceRepo) ListApprovedBetween(_ context.Context, employeeID string, start, end time.Time) ([]attendance.Attendance, error) {
	var result []attendance.Attendance
	for _, att := range f.rows {
		if att.EmployeeID == employeeID && att.ApprovalStatus == attendance.ApprovalApproved &&
			!att.Date.Before(start) && !att.Date.After(end) {
			result = append(result, att)
		}
	}
	return result, nil
}

func (f *fakeAttendanceRepo) ListIncompleteBetween(_ context.Context, start, end time.Time) ([]attendance.Attendance, error) {
	var result []attendance.Attendance
	for _, att := range f.rows {
		if att.Incomplete() && !att.Date.Before(start) && !att.Date.After(end) {
			result = append(result, att)
		}
	}
	return result, nil
}

func (f *fakeAttendanceRepo) List(_ context.Context, _ attendance.Filter) ([]attendance.Attendance, int64, error) {
	return f.rows, int64(len(f.rows)), nil
}

func (f *fakeAttendanceRepo) ReferencedByFinalizedPayroll(_ context.Context, _ attendance.Attendance) (bool, error) {
	return false, nil
}

type fakeHolidayRepo struct {
	holidays []holiday.Holiday
}

func (f *fakeHolidayRepo) Create(_ context.Context, h holiday.Holiday) (holiday.Holiday, error) {
	f.holidays = append(f.holidays, h)
	return h, nil
}

func (f *fakeHolidayRepo) GetByID(_ context.Context, id string) (holiday.Holiday, error) {
	for _, h := range f.holidays {
		if h.ID == id {
			return h, nil
		}
	}
	return holiday.Holiday{}, holiday.ErrHolidayNotFound
}

func (f *fakeHolidayRepo) Update(_ context.Context, _ holiday.Holiday) error { return nil }
func (f *fakeHolidayRepo) Delete(_ context.Context, _ string) error          { return nil }

func (f *fakeHolidayRepo) ListActiveBetween(_ context.Context, _, _ time.Time) ([]holiday.Holiday, error) {
	return f.holidays, nil
}

func (f *fakeHolidayRepo) List(_ context.Context, _ int) ([]holiday.Holiday, error) {
	return f.holidays, nil
}

type fakeRateRepo struct {
	rates []contribution.GovernmentRate
}

func (f *fakeRateRepo) Create(_ context.Context, r contribution.GovernmentRate) (contribution.GovernmentRate, error) {
	f.rates = append(f.rates, r)
	return r, nil
}

func (f *fakeRateRepo) GetByID(_ context.Context, _ string) (contribution.GovernmentRate, error) {
	return contribution.GovernmentRate{}, contribution.ErrRateNotFound
}

func (f *fakeRateRepo) Update(_ context.Context, _ contribution.GovernmentRate) error { return nil }
func (f *fakeRateRepo) Delete(_ context.Context, _ string) error                      { return nil }

func (f *fakeRateRepo) ListActiveByType(_ context.Context, t contribution.Type) ([]contribution.GovernmentRate, error) {
	var result []contribution.GovernmentRate
	for _, r := range f.rates {
		if r.Type == t && r.IsActive {
			result = append(result, r)
		}
	}
	return result, nil
}

func (f *fakeRateRepo) List(_ context.Context) ([]contribution.GovernmentRate, error) {
	return f.rates, nil
}

type fakeBracketRepo struct {
	brackets []domainTax.Bracket
}

func (f *fakeBracketRepo) Create(_ context.Context, b domainTax.Bracket) (domainTax.Bracket, error) {
	f.brackets = append(f.brackets, b)
	return b, nil
}

func (f *fakeBracketRepo) GetByID(_ context.Context, _ string) (domainTax.Bracket, error) {
	return domainTax.Bracket{}, domainTax.ErrBracketNotFound
}

func (f *fakeBracketRepo) Update(_ context.Context, _ domainTax.Bracket) error { return nil }
func (f *fakeBracketRepo) Delete(_ context.Context, _ string) error            { return nil }

func (f *fakeBracketRepo) ListActiveByPeriod(_ context.Context, period domainTax.PeriodType) ([]domainTax.Bracket, error) {
	var result []domainTax.Bracket
	for _, b := range f.brackets {
		if b.PeriodType == period && b.IsActive {
			result = append(result, b)
		}
	}
	return result, nil
}

func (f *fakeBracketRepo) List(_ context.Context) ([]domainTax.Bracket, error) {
	return f.brackets, nil
}

type fakeAllowanceRepo struct{}

func (fakeAllowanceRepo) CreateAllowance(_ context.Context, a allowance.EmployeeAllowance) (allowance.EmployeeAllowance, error) {
	return a, nil
}
func (fakeAllowanceRepo) UpdateAllowance(_ context.Context, _ allowance.EmployeeAllowance) error {
	return nil
}
func (fakeAllowanceRepo) DeleteAllowance(_ context.Context, _ string) error { return nil }
func (fakeAllowanceRepo) ListActiveForEmployee(_ context.Context, _ string, _, _ time.Time) ([]allowance.EmployeeAllowance, error) {
	return nil, nil
}
func (fakeAllowanceRepo) CreateMealAllowance(_ context.Context, m allowance.MealAllowance) (allowance.MealAllowance, error) {
	return m, nil
}
func (fakeAllowanceRepo) GetMealAllowanceByID(_ context.Context, _ string) (allowance.MealAllowance, error) {
	return allowance.MealAllowance{}, allowance.ErrMealAllowanceNotFound
}
func (fakeAllowanceRepo) UpdateMealAllowance(_ context.Context, _ allowance.MealAllowance) error {
	return nil
}
func (fakeAllowanceRepo) ListApprovedMealAllowances(_ context.Context, _ string, _, _ time.Time) ([]allowance.MealAllowance, error) {
	return nil, nil
}

type fakeLeaveRepo struct{}

func (fakeLeaveRepo) ListApprovedUnpaidBetween(_ context.Context, _ string, _, _ time.Time) ([]leave.Leave, error) {
	return nil, nil
}

type fakeAdjustmentRepo struct {
	adjustments map[string]adjustment.SalaryAdjustment
}

func newFakeAdjustmentRepo() *fakeAdjustmentRepo {
	return &fakeAdjustmentRepo{adjustments: make(map[string]adjustment.SalaryAdjustment)}
}

func (f *fakeAdjustmentRepo) Create(_ context.Context, adj adjustment.SalaryAdjustment) (adjustment.SalaryAdjustment, error) {
	if adj.ID == "" {
		adj.ID = uuid.NewString()
	}
	f.adjustments[adj.ID] = adj
	return adj, nil
}

func (f *fakeAdjustmentRepo) GetByID(_ context.Context, id string) (adjustment.SalaryAdjustment, error) {
	adj, ok := f.adjustments[id]
	if !ok {
		return adjustment.SalaryAdjustment{}, adjustment.ErrAdjustmentNotFound
	}
	return adj, nil
}

func (f *fakeAdjustmentRepo) Update(_ context.Context, adj adjustment.SalaryAdjustment) error {
	f.adjustments[adj.ID] = adj
	return nil
}

func (f *fakeAdjustmentRepo) ListApprovedBetween(_ context.Context, employeeID string, start, end time.Time) ([]adjustment.SalaryAdjustment, error) {
	var result []adjustment.SalaryAdjustment
	for _, adj := range f.adjustments {
		if adj.EmployeeID == employeeID && adj.Status == adjustment.StatusApproved &&
			!adj.EffectiveDate.Before(start) && !adj.EffectiveDate.After(end) {
			result = append(result, adj)
		}
	}
	return result, nil
}

func (f *fakeAdjustmentRepo) ListAppliedByPayroll(_ context.Context, payrollID string) ([]adjustment.SalaryAdjustment, error) {
	var result []adjustment.SalaryAdjustment
	for _, adj := range f.adjustments {
		if adj.AppliedPayrollID != nil && *adj.AppliedPayrollID == payrollID {
			result = append(result, adj)
		}
	}
	return result, nil
}

type serviceFixture struct {
	service     *Service
	payrolls    *fakePayrollRepo
	employees   *fakeEmployeeRepo
	attendances *fakeAttendanceRepo
	loans       *fakeLoanRepo
	adjustments *fakeAdjustmentRepo
}

func newServiceFixture() *serviceFixture {
	cfg := testConfig()
	payrolls := newFakePayrollRepo()
	employees := &fakeEmployeeRepo{}
	attendances := &fakeAttendanceRepo{}
	loans := newFakeLoanRepo()
	adjustments := newFakeAdjustmentRepo()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	svc := NewService(Deps{
		Config:      cfg,
		Tx:          passthroughTx{},
		Payrolls:    payrolls,
		Employees:   employees,
		Attendances: attendances,
		Holidays:    holidayService.NewResolver(&fakeHolidayRepo{}, cfg),
		Rates:       &fakeRateRepo{},
		Brackets:    &fakeBracketRepo{},
		Allowances:  fakeAllowanceRepo{},
		Leaves:      fakeLeaveRepo{},
		Adjustments: adjustments,
		Loans:       loans,
		Audit:       testEmitter(),
		Logger:      logger,
	})

	return &serviceFixture{
		service:     svc,
		payrolls:    payrolls,
		employees:   employees,
		attendances: attendances,
		loans:       loans,
		adjustments: adjustments,
	}
}

func (fx *serviceFixture) addWorkedEmployee(id, code string) {
	fx.employees.employees = append(fx.employees.employees, employee.Employee{
		ID:           id,
		EmployeeCode: code,
		RateType:     employee.RateTypeDaily,
		DailyRate:    dec("500"),
		Status:       employee.StatusActive,
	})
	for _, day := range []int{2, 3, 4, 5, 6} {
		fx.attendances.rows = append(fx.attendances.rows, attendance.Attendance{
			ID:             uuid.NewString(),
			EmployeeID:     id,
			Date:           time.Date(2025, 6, day, 0, 0, 0, 0, time.UTC),
			RegularHours:   8,
			Status:         attendance.StatusPresent,
			ApprovalStatus: attendance.ApprovalApproved,
			TimeIn:         punchAt(2025, 6, day, 8, 0),
			TimeOut:        punchAt(2025, 6, day, 17, 0),
		})
	}
}

func punchAt(y, m, d, hh, mm int) *time.Time {
	t := time.Date(y, time.Month(m), d, hh, mm, 0, 0, time.UTC)
	return &t
}

func createRequest() payroll.CreatePayrollRequest {
	return payroll.CreatePayrollRequest{
		PeriodStart: "2025-06-01",
		PeriodEnd:   "2025-06-15",
		PaymentDate: "2025-06-20",
		PeriodType:  "semi_monthly",
	}
}

func TestCreateComputesItemsAndTotals(t *testing.T) {
	fx := newServiceFixture()
	fx.addWorkedEmployee("emp-1", "EMP-001")
	fx.addWorkedEmployee("emp-2", "EMP-002")

	p, err := fx.service.Create(context.Background(), createRequest())
	require.NoError(t, err)

	assert.Equal(t, payroll.StatusDraft, p.Status)
	assert.Equal(t, 2, p.EmployeeCount)
	// 5 days at 500 each.
	assert.True(t, dec("5000").Equal(p.TotalGross), "gross: %s", p.TotalGross)
	assert.True(t, p.TotalNet.Equal(p.TotalGross.Sub(p.TotalDeductions)))

	items, _ := fx.payrolls.ListItems(context.Background(), p.ID)
	assert.Len(t, items, 2)
}

func TestCreateRejectsOverlappingPeriod(t *testing.T) {
	fx := newServiceFixture()
	fx.addWorkedEmployee("emp-1", "EMP-001")

	_, err := fx.service.Create(context.Background(), createRequest())
	require.NoError(t, err)

	req := createRequest()
	req.PeriodStart = "2025-06-10"
	req.PeriodEnd = "2025-06-25"
	_, err = fx.service.Create(context.Background(), req)
	assert.ErrorIs(t, err, payroll.ErrPeriodOverlap)
}

func TestCreateBlocksOnIncompleteAttendance(t *testing.T) {
	fx := newServiceFixture()
	fx.addWorkedEmployee("emp-1", "EMP-001")
	fx.attendances.rows = append(fx.attendances.rows, attendance.Attendance{
		ID:             "open-punch",
		EmployeeID:     "emp-1",
		Date:           time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC),
		Status:         attendance.StatusPresent,
		ApprovalStatus: attendance.ApprovalApproved,
		TimeIn:         punchAt(2025, 6, 9, 8, 0),
	})

	_, err := fx.service.Create(context.Background(), createRequest())
	require.Error(t, err)
	var incomplete *payroll.IncompleteAttendanceError
	require.ErrorAs(t, err, &incomplete)
	require.Len(t, incomplete.Records, 1)
	assert.Equal(t, "open-punch", incomplete.Records[0].AttendanceID)
	assert.Equal(t, "missing time out", incomplete.Records[0].Problem)

	// force_create bypasses the guard.
	req := createRequest()
	req.ForceCreate = true
	_, err = fx.service.Create(context.Background(), req)
	assert.NoError(t, err)
}

func TestGenerateItemsRefusesWhenItemsExist(t *testing.T) {
	fx := newServiceFixture()
	fx.addWorkedEmployee("emp-1", "EMP-001")
	fx.loans.loans["l1"] = activeLoan("l1", "emp-1", "5000", "1000", "500", loan.FrequencySemiMonthly)

	p, err := fx.service.Create(context.Background(), createRequest())
	require.NoError(t, err)
	before, _ := fx.payrolls.ListItems(context.Background(), p.ID)
	require.Len(t, before, 1)
	require.True(t, dec("4500").Equal(fx.loans.loans["l1"].Balance))

	// A second generation pass over a computed payroll must refuse rather
	// than double the items or charge the ledger again.
	err = fx.service.generateItems(context.Background(), &p)
	assert.ErrorIs(t, err, payroll.ErrItemsAlreadyExist)

	after, _ := fx.payrolls.ListItems(context.Background(), p.ID)
	assert.Equal(t, before, after)
	assert.True(t, dec("4500").Equal(fx.loans.loans["l1"].Balance))
	assert.Len(t, fx.loans.loanPayments, 1)
}

func TestCreateComputationFailureAbortsWholeBatch(t *testing.T) {
	fx := newServiceFixture()
	fx.addWorkedEmployee("emp-1", "EMP-001")
	// Daily-rate employee with no attendance at all: fatal for the batch.
	fx.employees.employees = append(fx.employees.employees, employee.Employee{
		ID:           "emp-2",
		EmployeeCode: "EMP-002",
		RateType:     employee.RateTypeDaily,
		DailyRate:    dec("500"),
		Status:       employee.StatusActive,
	})

	_, err := fx.service.Create(context.Background(), createRequest())
	require.Error(t, err)
	var compErr *payroll.ComputationError
	assert.ErrorAs(t, err, &compErr)
}

func TestChargeAppliesLoanToNetPay(t *testing.T) {
	fx := newServiceFixture()
	fx.addWorkedEmployee("emp-1", "EMP-001")
	fx.loans.loans["l1"] = activeLoan("l1", "emp-1", "5000", "1000", "500", loan.FrequencySemiMonthly)

	p, err := fx.service.Create(context.Background(), createRequest())
	require.NoError(t, err)

	items, _ := fx.payrolls.ListItems(context.Background(), p.ID)
	require.Len(t, items, 1)
	assert.True(t, dec("500").Equal(items[0].LoanDeductions))
	assert.True(t, items[0].NetPay.Equal(items[0].GrossPay.Sub(items[0].TotalDeductions)))
	assert.True(t, dec("4500").Equal(fx.loans.loans["l1"].Balance))
}

func TestDeleteDraftRestoresLoanBalances(t *testing.T) {
	fx := newServiceFixture()
	fx.addWorkedEmployee("emp-1", "EMP-001")
	fx.loans.loans["l1"] = activeLoan("l1", "emp-1", "5000", "1000", "500", loan.FrequencySemiMonthly)

	p, err := fx.service.Create(context.Background(), createRequest())
	require.NoError(t, err)
	require.True(t, dec("4500").Equal(fx.loans.loans["l1"].Balance))

	require.NoError(t, fx.service.Delete(context.Background(), p.ID))

	restored := fx.loans.loans["l1"]
	assert.True(t, dec("5000").Equal(restored.Balance), "balance: %s", restored.Balance)
	assert.True(t, restored.AmountPaid.IsZero())
	assert.Empty(t, fx.loans.loanPayments)
	_, err = fx.payrolls.GetByID(context.Background(), p.ID)
	assert.ErrorIs(t, err, payroll.ErrPayrollNotFound)
}

func TestReprocessReversesThenRecomputes(t *testing.T) {
	fx := newServiceFixture()
	fx.addWorkedEmployee("emp-1", "EMP-001")
	fx.loans.loans["l1"] = activeLoan("l1", "emp-1", "5000", "1000", "500", loan.FrequencySemiMonthly)

	p, err := fx.service.Create(context.Background(), createRequest())
	require.NoError(t, err)

	// Without reversal a second pass would double-charge the loan.
	p, err = fx.service.Reprocess(context.Background(), p.ID)
	require.NoError(t, err)

	assert.True(t, dec("4500").Equal(fx.loans.loans["l1"].Balance), "balance: %s", fx.loans.loans["l1"].Balance)
	require.Len(t, fx.loans.loanPayments, 1)
	assert.Equal(t, 1, fx.loans.loanPayments[0].PaymentNumber)
}

func TestFinalizeFreezesDraft(t *testing.T) {
	fx := newServiceFixture()
	fx.addWorkedEmployee("emp-1", "EMP-001")

	p, err := fx.service.Create(context.Background(), createRequest())
	require.NoError(t, err)

	p, err = fx.service.Finalize(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, payroll.StatusFinalized, p.Status)
	require.NotNil(t, p.FinalizedAt)

	// Finalized payrolls can no longer be reprocessed or deleted.
	_, err = fx.service.Reprocess(context.Background(), p.ID)
	assert.ErrorIs(t, err, payroll.ErrPayrollNotDraft)
	assert.ErrorIs(t, fx.service.Delete(context.Background(), p.ID), payroll.ErrPayrollNotDraft)
}

func TestMarkPaidRequiresFinalized(t *testing.T) {
	fx := newServiceFixture()
	fx.addWorkedEmployee("emp-1", "EMP-001")

	p, err := fx.service.Create(context.Background(), createRequest())
	require.NoError(t, err)

	_, err = fx.service.MarkPaid(context.Background(), p.ID)
	assert.ErrorIs(t, err, payroll.ErrPayrollNotFinalized)

	_, err = fx.service.Finalize(context.Background(), p.ID)
	require.NoError(t, err)
	p, err = fx.service.MarkPaid(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, payroll.StatusPaid, p.Status)
}

func TestPaidPayrollCanNeverBeCancelled(t *testing.T) {
	fx := newServiceFixture()
	fx.addWorkedEmployee("emp-1", "EMP-001")

	p, err := fx.service.Create(context.Background(), createRequest())
	require.NoError(t, err)
	_, err = fx.service.Finalize(context.Background(), p.ID)
	require.NoError(t, err)
	_, err = fx.service.MarkPaid(context.Background(), p.ID)
	require.NoError(t, err)

	_, err = fx.service.Cancel(context.Background(), p.ID, payroll.CancelPayrollRequest{Reason: "wrong period"})
	assert.ErrorIs(t, err, payroll.ErrPayrollPaid)
}

func TestCancelRequiresReasonAndReverses(t *testing.T) {
	fx := newServiceFixture()
	fx.addWorkedEmployee("emp-1", "EMP-001")
	fx.loans.loans["l1"] = activeLoan("l1", "emp-1", "5000", "1000", "500", loan.FrequencySemiMonthly)

	p, err := fx.service.Create(context.Background(), createRequest())
	require.NoError(t, err)

	_, err = fx.service.Cancel(context.Background(), p.ID, payroll.CancelPayrollRequest{})
	require.Error(t, err)

	p, err = fx.service.Cancel(context.Background(), p.ID, payroll.CancelPayrollRequest{Reason: "duplicate run"})
	require.NoError(t, err)
	assert.Equal(t, payroll.StatusCancelled, p.Status)
	require.NotNil(t, p.CancelReason)
	assert.Equal(t, "duplicate run", *p.CancelReason)
	assert.True(t, dec("5000").Equal(fx.loans.loans["l1"].Balance))
	assert.Empty(t, fx.payrolls.items[p.ID])
}

func TestAdjustmentsAppliedAndRevertedOnDelete(t *testing.T) {
	fx := newServiceFixture()
	fx.addWorkedEmployee("emp-1", "EMP-001")
	adj, err := fx.adjustments.Create(context.Background(), adjustment.SalaryAdjustment{
		EmployeeID:    "emp-1",
		Kind:          adjustment.KindEarning,
		Reason:        "site completion bonus",
		Amount:        decimal.RequireFromString("1500"),
		EffectiveDate: time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC),
		Status:        adjustment.StatusApproved,
	})
	require.NoError(t, err)

	p, err := fx.service.Create(context.Background(), createRequest())
	require.NoError(t, err)

	applied, _ := fx.adjustments.GetByID(context.Background(), adj.ID)
	assert.Equal(t, adjustment.StatusApplied, applied.Status)
	require.NotNil(t, applied.AppliedPayrollID)
	assert.Equal(t, p.ID, *applied.AppliedPayrollID)

	items, _ := fx.payrolls.ListItems(context.Background(), p.ID)
	require.Len(t, items, 1)
	assert.True(t, dec("1500").Equal(items[0].AdjustmentEarnings))

	require.NoError(t, fx.service.Delete(context.Background(), p.ID))
	reverted, _ := fx.adjustments.GetByID(context.Background(), adj.ID)
	assert.Equal(t, adjustment.StatusApproved, reverted.Status)
	assert.Nil(t, reverted.AppliedPayrollID)
}
