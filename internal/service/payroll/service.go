package payroll

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jkgulay/payroll-system-sub001/internal/config"
	"github.com/jkgulay/payroll-system-sub001/internal/domain/adjustment"
	"github.com/jkgulay/payroll-system-sub001/internal/domain/allowance"
	"github.com/jkgulay/payroll-system-sub001/internal/domain/attendance"
	"github.com/jkgulay/payroll-system-sub001/internal/domain/contribution"
	"github.com/jkgulay/payroll-system-sub001/internal/domain/employee"
	"github.com/jkgulay/payroll-system-sub001/internal/domain/leave"
	"github.com/jkgulay/payroll-system-sub001/internal/domain/loan"
	"github.com/jkgulay/payroll-system-sub001/internal/domain/payroll"
	domainTax "github.com/jkgulay/payroll-system-sub001/internal/domain/tax"
	"github.com/jkgulay/payroll-system-sub001/internal/pkg/audit"
	"github.com/jkgulay/payroll-system-sub001/internal/pkg/jwt"
	contributionService "github.com/jkgulay/payroll-system-sub001/internal/service/contribution"
	holidayService "github.com/jkgulay/payroll-system-sub001/internal/service/holiday"
	taxService "github.com/jkgulay/payroll-system-sub001/internal/service/tax"
)

// TxRunner executes fn inside a database transaction carried on the context
// passed to fn. Any error rolls the transaction back.
type TxRunner interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Deps wires the orchestrator. Every field is required.
type Deps struct {
	Config      config.PayrollConfig
	Tx          TxRunner
	Payrolls    payroll.PayrollRepository
	Employees   employee.EmployeeRepository
	Attendances attendance.AttendanceRepository
	Holidays    *holidayService.Resolver
	Rates       contribution.RateRepository
	Brackets    domainTax.BracketRepository
	Allowances  allowance.AllowanceRepository
	Leaves      leave.LeaveRepository
	Adjustments adjustment.AdjustmentRepository
	Loans       loan.LoanRepository
	Audit       *audit.Emitter
	Logger      *slog.Logger
}

// Service runs the payroll lifecycle: create and compute a draft, reprocess
// or delete it while draft, finalize, mark paid, cancel. Every state change
// runs inside one transaction with the payroll row locked.
type Service struct {
	cfg        config.PayrollConfig
	tx         TxRunner
	payrolls   payroll.PayrollRepository
	employees  employee.EmployeeRepository
	attendance attendance.AttendanceRepository
	holidays   *holidayService.Resolver
	contrib    *contributionService.Resolver
	taxes      *taxService.Calculator
	allowances allowance.AllowanceRepository
	leaves     leave.LeaveRepository
	adjust     adjustment.AdjustmentRepository
	aggregator *Aggregator
	ledger     *Ledger
	audit      *audit.Emitter
	logger     *slog.Logger
}

func NewService(d Deps) *Service {
	return &Service{
		cfg:        d.Config,
		tx:         d.Tx,
		payrolls:   d.Payrolls,
		employees:  d.Employees,
		attendance: d.Attendances,
		holidays:   d.Holidays,
		contrib:    contributionService.NewResolver(d.Rates),
		taxes:      taxService.NewCalculator(d.Brackets),
		allowances: d.Allowances,
		leaves:     d.Leaves,
		adjust:     d.Adjustments,
		aggregator: NewAggregator(d.Config),
		ledger:     NewLedger(d.Loans, d.Audit),
		audit:      d.Audit,
		logger:     d.Logger,
	}
}

// Create opens a payroll run for the period and computes every employee's
// item in one transaction. Incomplete attendance inside the window blocks
// creation unless req.ForceCreate is set; a computation failure for any
// employee aborts the whole run.
func (s *Service) Create(ctx context.Context, req payroll.CreatePayrollRequest) (payroll.Payroll, error) {
	if err := req.Validate(); err != nil {
		return payroll.Payroll{}, err
	}
	start, _ := time.Parse("2006-01-02", req.PeriodStart)
	end, _ := time.Parse("2006-01-02", req.PeriodEnd)
	paymentDate, _ := time.Parse("2006-01-02", req.PaymentDate)

	overlap, err := s.payrolls.HasOverlapping(ctx, start, end, "")
	if err != nil {
		return payroll.Payroll{}, fmt.Errorf("failed to check period overlap: %w", err)
	}
	if overlap {
		return payroll.Payroll{}, payroll.ErrPeriodOverlap
	}

	if !req.ForceCreate {
		if err := s.checkIncompleteAttendance(ctx, start, end); err != nil {
			return payroll.Payroll{}, err
		}
	}

	p := payroll.Payroll{
		PeriodStart: start,
		PeriodEnd:   end,
		PaymentDate: paymentDate,
		PeriodType:  domainTax.PeriodType(req.PeriodType),
		Status:      payroll.StatusDraft,
		CreatedBy:   jwt.ActorFromContext(ctx),
	}

	var created payroll.Payroll
	err = s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		created, err = s.payrolls.Create(txCtx, p)
		if err != nil {
			return fmt.Errorf("failed to create payroll: %w", err)
		}
		return s.generateItems(txCtx, &created)
	})
	if err != nil {
		return payroll.Payroll{}, err
	}

	s.audit.Emit(ctx, audit.Fact{
		Action:   "payroll.created",
		Entity:   "payroll",
		EntityID: created.ID,
		After:    string(created.Status),
		Detail: map[string]any{
			"period_start":   req.PeriodStart,
			"period_end":     req.PeriodEnd,
			"employee_count": created.EmployeeCount,
		},
	})
	return created, nil
}

// Reprocess throws away a draft payroll's items, restores every loan and
// deduction balance, returns applied adjustments to the approved pool and
// recomputes from current data.
func (s *Service) Reprocess(ctx context.Context, id string) (payroll.Payroll, error) {
	var p payroll.Payroll
	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		var err error
		p, err = s.payrolls.GetForUpdate(txCtx, id)
		if err != nil {
			return err
		}
		if !p.Mutable() {
			return payroll.ErrPayrollNotDraft
		}
		if err := s.reverseSideEffects(txCtx, p); err != nil {
			return err
		}
		if err := s.payrolls.DeleteItems(txCtx, p.ID); err != nil {
			return fmt.Errorf("failed to delete payroll items: %w", err)
		}
		return s.generateItems(txCtx, &p)
	})
	if err != nil {
		return payroll.Payroll{}, err
	}

	s.audit.Emit(ctx, audit.Fact{
		Action:   "payroll.reprocessed",
		Entity:   "payroll",
		EntityID: p.ID,
		Detail:   map[string]any{"employee_count": p.EmployeeCount},
	})
	return p, nil
}

// Delete removes a draft payroll entirely, restoring all ledger balances.
func (s *Service) Delete(ctx context.Context, id string) error {
	var p payroll.Payroll
	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		var err error
		p, err = s.payrolls.GetForUpdate(txCtx, id)
		if err != nil {
			return err
		}
		if !p.Mutable() {
			return payroll.ErrPayrollNotDraft
		}
		if err := s.reverseSideEffects(txCtx, p); err != nil {
			return err
		}
		if err := s.payrolls.DeleteItems(txCtx, p.ID); err != nil {
			return fmt.Errorf("failed to delete payroll items: %w", err)
		}
		return s.payrolls.Delete(txCtx, p.ID)
	})
	if err != nil {
		return err
	}

	s.audit.Emit(ctx, audit.Fact{
		Action:   "payroll.deleted",
		Entity:   "payroll",
		EntityID: id,
		Before:   string(p.Status),
	})
	return nil
}

// Finalize freezes a draft payroll's items and totals.
func (s *Service) Finalize(ctx context.Context, id string) (payroll.Payroll, error) {
	var p payroll.Payroll
	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		var err error
		p, err = s.payrolls.GetForUpdate(txCtx, id)
		if err != nil {
			return err
		}
		if p.Status != payroll.StatusDraft {
			return payroll.ErrPayrollNotDraft
		}
		count, err := s.payrolls.CountItems(txCtx, p.ID)
		if err != nil {
			return fmt.Errorf("failed to count payroll items: %w", err)
		}
		if count == 0 {
			return &payroll.ComputationError{Reason: "payroll has no items to finalize"}
		}
		now := time.Now()
		actor := jwt.ActorFromContext(txCtx)
		p.Status = payroll.StatusFinalized
		p.FinalizedBy = &actor
		p.FinalizedAt = &now
		return s.payrolls.Update(txCtx, p)
	})
	if err != nil {
		return payroll.Payroll{}, err
	}

	s.audit.Emit(ctx, audit.Fact{
		Action:   "payroll.finalized",
		Entity:   "payroll",
		EntityID: p.ID,
		Before:   string(payroll.StatusDraft),
		After:    string(payroll.StatusFinalized),
	})
	return p, nil
}

// MarkPaid records disbursement. Paid is terminal; nothing reverses it.
func (s *Service) MarkPaid(ctx context.Context, id string) (payroll.Payroll, error) {
	var p payroll.Payroll
	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		var err error
		p, err = s.payrolls.GetForUpdate(txCtx, id)
		if err != nil {
			return err
		}
		if p.Status != payroll.StatusFinalized {
			return payroll.ErrPayrollNotFinalized
		}
		now := time.Now()
		actor := jwt.ActorFromContext(txCtx)
		p.Status = payroll.StatusPaid
		p.PaidBy = &actor
		p.PaidAt = &now
		return s.payrolls.Update(txCtx, p)
	})
	if err != nil {
		return payroll.Payroll{}, err
	}

	s.audit.Emit(ctx, audit.Fact{
		Action:   "payroll.paid",
		Entity:   "payroll",
		EntityID: p.ID,
		Before:   string(payroll.StatusFinalized),
		After:    string(payroll.StatusPaid),
	})
	return p, nil
}

// Cancel voids a draft or finalized payroll, restoring ledger balances,
// returning adjustments to the approved pool and deleting the computed
// items. A paid payroll can never be cancelled.
func (s *Service) Cancel(ctx context.Context, id string, req payroll.CancelPayrollRequest) (payroll.Payroll, error) {
	if err := req.Validate(); err != nil {
		return payroll.Payroll{}, err
	}

	var p payroll.Payroll
	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		var err error
		p, err = s.payrolls.GetForUpdate(txCtx, id)
		if err != nil {
			return err
		}
		if !p.Reversible() {
			return payroll.ErrPayrollPaid
		}
		if p.Status == payroll.StatusCancelled {
			return payroll.ErrPayrollCancelled
		}
		if err := s.reverseSideEffects(txCtx, p); err != nil {
			return err
		}
		if err := s.payrolls.DeleteItems(txCtx, p.ID); err != nil {
			return err
		}
		p.Status = payroll.StatusCancelled
		p.CancelReason = &req.Reason
		return s.payrolls.Update(txCtx, p)
	})
	if err != nil {
		return payroll.Payroll{}, err
	}

	s.audit.Emit(ctx, audit.Fact{
		Action:   "payroll.cancelled",
		Entity:   "payroll",
		EntityID: p.ID,
		After:    string(payroll.StatusCancelled),
		Detail:   map[string]any{"reason": req.Reason},
	})
	return p, nil
}

func (s *Service) Get(ctx context.Context, id string) (payroll.Payroll, []payroll.Item, error) {
	p, err := s.payrolls.GetByID(ctx, id)
	if err != nil {
		return payroll.Payroll{}, nil, err
	}
	items, err := s.payrolls.ListItems(ctx, id)
	if err != nil {
		return payroll.Payroll{}, nil, fmt.Errorf("failed to list payroll items: %w", err)
	}
	return p, items, nil
}

func (s *Service) List(ctx context.Context, filter payroll.Filter) ([]payroll.Payroll, int64, error) {
	return s.payrolls.List(ctx, filter)
}

// generateItems computes one item per eligible employee and rolls the totals
// up into the payroll row. Eligible means payable by status, plus anyone
// with approved attendance in the window.
func (s *Service) generateItems(ctx context.Context, p *payroll.Payroll) error {
	count, err := s.payrolls.CountItems(ctx, p.ID)
	if err != nil {
		return fmt.Errorf("failed to count payroll items: %w", err)
	}
	if count > 0 {
		return payroll.ErrItemsAlreadyExist
	}

	employees, err := s.eligibleEmployees(ctx, p.PeriodStart, p.PeriodEnd)
	if err != nil {
		return err
	}

	calendar, err := s.holidays.CalendarFor(ctx, p.PeriodStart, p.PeriodEnd)
	if err != nil {
		return err
	}
	rates, err := s.contrib.TableFor(ctx)
	if err != nil {
		return err
	}
	brackets, err := s.taxes.BracketsFor(ctx, p.PeriodType)
	if err != nil {
		return err
	}

	totalGross, totalDeductions, totalNet := decimal.Zero, decimal.Zero, decimal.Zero
	for _, emp := range employees {
		item, err := s.computeItem(ctx, *p, emp, calendar, rates, brackets)
		if err != nil {
			return err
		}
		totalGross = totalGross.Add(item.GrossPay)
		totalDeductions = totalDeductions.Add(item.TotalDeductions)
		totalNet = totalNet.Add(item.NetPay)
	}

	p.TotalGross = totalGross
	p.TotalDeductions = totalDeductions
	p.TotalNet = totalNet
	p.EmployeeCount = len(employees)
	if err := s.payrolls.Update(ctx, *p); err != nil {
		return fmt.Errorf("failed to update payroll totals: %w", err)
	}
	return nil
}

func (s *Service) computeItem(
	ctx context.Context,
	p payroll.Payroll,
	emp employee.Employee,
	calendar holidayService.Calendar,
	rates map[contribution.Type][]contribution.GovernmentRate,
	brackets []domainTax.Bracket,
) (payroll.Item, error) {
	exists, err := s.payrolls.ItemExists(ctx, p.ID, emp.ID)
	if err != nil {
		return payroll.Item{}, fmt.Errorf("failed to check item existence: %w", err)
	}
	if exists {
		return payroll.Item{}, payroll.ErrItemExists
	}

	in, err := s.loadEarningsInput(ctx, p, emp, calendar, rates, brackets)
	if err != nil {
		return payroll.Item{}, err
	}

	item, err := s.aggregator.Compute(in)
	if err != nil {
		return payroll.Item{}, err
	}
	item.ID = uuid.NewString()
	item.PayrollID = p.ID

	loanTotal, deductionTotal, err := s.ledger.Charge(ctx, p, item)
	if err != nil {
		return payroll.Item{}, err
	}
	item.LoanDeductions = loanTotal
	item.OtherDeductions = deductionTotal
	FinalizeTotals(&item)

	if err := validateItem(emp, item); err != nil {
		return payroll.Item{}, err
	}

	for _, adj := range in.Adjustments {
		adj.Status = adjustment.StatusApplied
		adj.AppliedPayrollID = &p.ID
		if err := s.adjust.Update(ctx, adj); err != nil {
			return payroll.Item{}, fmt.Errorf("failed to apply adjustment %s: %w", adj.ID, err)
		}
	}

	created, err := s.payrolls.CreateItem(ctx, item)
	if err != nil {
		return payroll.Item{}, fmt.Errorf("failed to create payroll item: %w", err)
	}

	s.logger.InfoContext(ctx, "payroll item computed",
		slog.String("payroll_id", p.ID),
		slog.String("employee_code", emp.EmployeeCode),
		slog.String("gross", item.GrossPay.String()),
		slog.String("net", item.NetPay.String()),
	)
	return created, nil
}

func (s *Service) loadEarningsInput(
	ctx context.Context,
	p payroll.Payroll,
	emp employee.Employee,
	calendar holidayService.Calendar,
	rates map[contribution.Type][]contribution.GovernmentRate,
	brackets []domainTax.Bracket,
) (EarningsInput, error) {
	rows, err := s.attendance.ListApprovedBetween(ctx, emp.ID, p.PeriodStart, p.PeriodEnd)
	if err != nil {
		return EarningsInput{}, fmt.Errorf("failed to load attendance for %s: %w", emp.EmployeeCode, err)
	}
	grants, err := s.allowances.ListActiveForEmployee(ctx, emp.ID, p.PeriodStart, p.PeriodEnd)
	if err != nil {
		return EarningsInput{}, fmt.Errorf("failed to load allowances for %s: %w", emp.EmployeeCode, err)
	}
	meals, err := s.allowances.ListApprovedMealAllowances(ctx, emp.ID, p.PeriodStart, p.PeriodEnd)
	if err != nil {
		return EarningsInput{}, fmt.Errorf("failed to load meal allowances for %s: %w", emp.EmployeeCode, err)
	}
	unpaidLeaves, err := s.leaves.ListApprovedUnpaidBetween(ctx, emp.ID, p.PeriodStart, p.PeriodEnd)
	if err != nil {
		return EarningsInput{}, fmt.Errorf("failed to load leaves for %s: %w", emp.EmployeeCode, err)
	}
	adjustments, err := s.adjust.ListApprovedBetween(ctx, emp.ID, p.PeriodStart, p.PeriodEnd)
	if err != nil {
		return EarningsInput{}, fmt.Errorf("failed to load adjustments for %s: %w", emp.EmployeeCode, err)
	}

	return EarningsInput{
		Employee:       emp,
		PeriodStart:    p.PeriodStart,
		PeriodEnd:      p.PeriodEnd,
		PeriodType:     p.PeriodType,
		Attendance:     rows,
		Calendar:       calendar,
		Allowances:     grants,
		MealAllowances: meals,
		UnpaidLeaves:   unpaidLeaves,
		Rates:          rates,
		TaxBrackets:    brackets,
		Adjustments:    adjustments,
	}, nil
}

func (s *Service) eligibleEmployees(ctx context.Context, start, end time.Time) ([]employee.Employee, error) {
	payable, err := s.employees.ListPayable(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list payable employees: %w", err)
	}
	withAttendance, err := s.employees.ListWithAttendanceBetween(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees with attendance: %w", err)
	}

	seen := make(map[string]bool, len(payable))
	result := make([]employee.Employee, 0, len(payable))
	for _, emp := range payable {
		seen[emp.ID] = true
		result = append(result, emp)
	}
	for _, emp := range withAttendance {
		if !seen[emp.ID] {
			seen[emp.ID] = true
			result = append(result, emp)
		}
	}
	return result, nil
}

// reverseSideEffects undoes everything a compute pass wrote outside the
// payroll's own rows: ledger balances and applied adjustments.
func (s *Service) reverseSideEffects(ctx context.Context, p payroll.Payroll) error {
	items, err := s.payrolls.ListItems(ctx, p.ID)
	if err != nil {
		return fmt.Errorf("failed to list payroll items: %w", err)
	}
	if err := s.ledger.Reverse(ctx, p, items); err != nil {
		return err
	}

	applied, err := s.adjust.ListAppliedByPayroll(ctx, p.ID)
	if err != nil {
		return fmt.Errorf("failed to list applied adjustments: %w", err)
	}
	for _, adj := range applied {
		adj.Status = adjustment.StatusApproved
		adj.AppliedPayrollID = nil
		if err := s.adjust.Update(ctx, adj); err != nil {
			return fmt.Errorf("failed to revert adjustment %s: %w", adj.ID, err)
		}
	}
	return nil
}

func (s *Service) checkIncompleteAttendance(ctx context.Context, start, end time.Time) error {
	rows, err := s.attendance.ListIncompleteBetween(ctx, start, end)
	if err != nil {
		return fmt.Errorf("failed to scan attendance: %w", err)
	}
	if len(rows) == 0 {
		return nil
	}
	records := make([]payroll.IncompleteRecord, 0, len(rows))
	for _, att := range rows {
		records = append(records, payroll.IncompleteRecord{
			AttendanceID: att.ID,
			EmployeeID:   att.EmployeeID,
			Date:         att.Date.Format("2006-01-02"),
			Problem:      att.IncompleteReason(),
		})
	}
	return &payroll.IncompleteAttendanceError{Records: records}
}

// validateItem is the last gate before an item is persisted: money columns
// must reconcile and never drift from gross minus deductions.
func validateItem(emp employee.Employee, item payroll.Item) error {
	if !item.NetPay.Equal(item.GrossPay.Sub(item.TotalDeductions)) {
		return &payroll.ComputationError{
			EmployeeID:   emp.ID,
			EmployeeCode: emp.EmployeeCode,
			Reason:       "net pay does not equal gross minus deductions",
		}
	}
	if item.GrossPay.IsNegative() {
		return &payroll.ComputationError{
			EmployeeID:   emp.ID,
			EmployeeCode: emp.EmployeeCode,
			Reason:       "gross pay is negative",
		}
	}
	return nil
}
