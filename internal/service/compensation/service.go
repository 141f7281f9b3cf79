package compensation

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jkgulay/payroll-system-sub001/internal/domain/adjustment"
	"github.com/jkgulay/payroll-system-sub001/internal/domain/allowance"
	"github.com/jkgulay/payroll-system-sub001/internal/domain/attendance"
	"github.com/jkgulay/payroll-system-sub001/internal/domain/employee"
	"github.com/jkgulay/payroll-system-sub001/internal/domain/loan"
	"github.com/jkgulay/payroll-system-sub001/internal/pkg/audit"
)

// Service administers the per-employee money instruments the engine charges
// against a payroll run: loans, scheduled deductions, salary adjustments and
// allowance grants.
type Service struct {
	loans       loan.LoanRepository
	adjustments adjustment.AdjustmentRepository
	allowances  allowance.AllowanceRepository
	employees   employee.EmployeeRepository
	audit       *audit.Emitter
}

func NewService(
	loans loan.LoanRepository,
	adjustments adjustment.AdjustmentRepository,
	allowances allowance.AllowanceRepository,
	employees employee.EmployeeRepository,
	auditEmitter *audit.Emitter,
) *Service {
	return &Service{
		loans:       loans,
		adjustments: adjustments,
		allowances:  allowances,
		employees:   employees,
		audit:       auditEmitter,
	}
}

func (s *Service) CreateLoan(ctx context.Context, req loan.CreateLoanRequest) (loan.Loan, error) {
	if err := req.Validate(); err != nil {
		return loan.Loan{}, err
	}
	if _, err := s.employees.GetByID(ctx, req.EmployeeID); err != nil {
		return loan.Loan{}, err
	}

	startDate, _ := time.Parse("2006-01-02", req.StartDate)
	semi := req.SemiMonthlyAmortization
	if semi.IsZero() {
		semi = req.MonthlyAmortization.Div(decimal.NewFromInt(2)).Round(2)
	}

	l := loan.Loan{
		EmployeeID:              req.EmployeeID,
		LoanType:                req.LoanType,
		Principal:               req.Principal,
		TotalAmount:             req.TotalAmount,
		MonthlyAmortization:     req.MonthlyAmortization,
		SemiMonthlyAmortization: semi,
		PaymentFrequency:        loan.PaymentFrequency(req.PaymentFrequency),
		Balance:                 req.TotalAmount,
		AmountPaid:              decimal.Zero,
		Status:                  loan.StatusActive,
		StartDate:               startDate,
	}

	created, err := s.loans.CreateLoan(ctx, l)
	if err != nil {
		return loan.Loan{}, fmt.Errorf("failed to create loan: %w", err)
	}

	s.audit.Emit(ctx, audit.Fact{
		Action: "loan.create", Entity: "loan", EntityID: created.ID,
		Detail: map[string]any{"employee_id": created.EmployeeID, "total_amount": created.TotalAmount.String()},
	})
	return created, nil
}

func (s *Service) GetLoan(ctx context.Context, id string) (loan.Loan, error) {
	return s.loans.GetLoanByID(ctx, id)
}

func (s *Service) ListLoans(ctx context.Context, employeeID string) ([]loan.Loan, error) {
	return s.loans.ListLoansForReversal(ctx, employeeID)
}

func (s *Service) CreateDeduction(ctx context.Context, req loan.CreateDeductionRequest) (loan.Deduction, error) {
	if err := req.Validate(); err != nil {
		return loan.Deduction{}, err
	}
	if _, err := s.employees.GetByID(ctx, req.EmployeeID); err != nil {
		return loan.Deduction{}, err
	}

	d := loan.Deduction{
		EmployeeID:      req.EmployeeID,
		Name:            req.Name,
		TotalAmount:     req.TotalAmount,
		AmountPerCutoff: req.AmountPerCutoff,
		Balance:         req.TotalAmount,
		Installments:    req.Installments,
		Status:          loan.DeductionActive,
	}

	created, err := s.loans.CreateDeduction(ctx, d)
	if err != nil {
		return loan.Deduction{}, fmt.Errorf("failed to create deduction: %w", err)
	}

	s.audit.Emit(ctx, audit.Fact{
		Action: "deduction.create", Entity: "deduction", EntityID: created.ID,
		Detail: map[string]any{"employee_id": created.EmployeeID, "total_amount": created.TotalAmount.String()},
	})
	return created, nil
}

func (s *Service) GetDeduction(ctx context.Context, id string) (loan.Deduction, error) {
	return s.loans.GetDeductionByID(ctx, id)
}

func (s *Service) CreateAdjustment(ctx context.Context, req adjustment.CreateAdjustmentRequest) (adjustment.SalaryAdjustment, error) {
	if err := req.Validate(); err != nil {
		return adjustment.SalaryAdjustment{}, err
	}
	if _, err := s.employees.GetByID(ctx, req.EmployeeID); err != nil {
		return adjustment.SalaryAdjustment{}, err
	}

	effective, _ := time.Parse("2006-01-02", req.EffectiveDate)
	adj := adjustment.SalaryAdjustment{
		EmployeeID:    req.EmployeeID,
		Kind:          adjustment.Kind(req.Kind),
		Reason:        req.Reason,
		Amount:        req.Amount,
		EffectiveDate: effective,
		Status:        adjustment.StatusPending,
	}

	created, err := s.adjustments.Create(ctx, adj)
	if err != nil {
		return adjustment.SalaryAdjustment{}, fmt.Errorf("failed to create salary adjustment: %w", err)
	}

	s.audit.Emit(ctx, audit.Fact{
		Action: "adjustment.create", Entity: "salary_adjustment", EntityID: created.ID,
		Detail: map[string]any{"employee_id": created.EmployeeID, "kind": string(created.Kind)},
	})
	return created, nil
}

// DecideAdjustment approves or rejects a pending adjustment. Applied
// adjustments belong to a payroll and can no longer be decided.
func (s *Service) DecideAdjustment(ctx context.Context, id, decision string) (adjustment.SalaryAdjustment, error) {
	adj, err := s.adjustments.GetByID(ctx, id)
	if err != nil {
		return adjustment.SalaryAdjustment{}, err
	}
	if adj.Status == adjustment.StatusApplied {
		return adjustment.SalaryAdjustment{}, adjustment.ErrAlreadyApplied
	}
	if adj.Status != adjustment.StatusPending {
		return adjustment.SalaryAdjustment{}, fmt.Errorf("salary adjustment is already %s", adj.Status)
	}

	switch decision {
	case "approve":
		adj.Status = adjustment.StatusApproved
	case "reject":
		adj.Status = adjustment.StatusRejected
	default:
		return adjustment.SalaryAdjustment{}, attendance.ErrInvalidApprovalDecision
	}

	if err := s.adjustments.Update(ctx, adj); err != nil {
		return adjustment.SalaryAdjustment{}, fmt.Errorf("failed to update salary adjustment: %w", err)
	}

	s.audit.Emit(ctx, audit.Fact{
		Action: "adjustment." + decision, Entity: "salary_adjustment", EntityID: adj.ID,
	})
	return adj, nil
}

func (s *Service) CreateAllowance(ctx context.Context, req allowance.CreateAllowanceRequest) (allowance.EmployeeAllowance, error) {
	if err := req.Validate(); err != nil {
		return allowance.EmployeeAllowance{}, err
	}
	if _, err := s.employees.GetByID(ctx, req.EmployeeID); err != nil {
		return allowance.EmployeeAllowance{}, err
	}

	effective, _ := time.Parse("2006-01-02", req.EffectiveDate)
	var endDate *time.Time
	if req.EndDate != nil {
		d, _ := time.Parse("2006-01-02", *req.EndDate)
		endDate = &d
	}

	a := allowance.EmployeeAllowance{
		EmployeeID:    req.EmployeeID,
		Name:          req.Name,
		Amount:        req.Amount,
		Frequency:     allowance.Frequency(req.Frequency),
		IsTaxable:     req.IsTaxable,
		EffectiveDate: effective,
		EndDate:       endDate,
		IsActive:      true,
	}

	created, err := s.allowances.CreateAllowance(ctx, a)
	if err != nil {
		return allowance.EmployeeAllowance{}, fmt.Errorf("failed to create allowance: %w", err)
	}

	s.audit.Emit(ctx, audit.Fact{
		Action: "allowance.create", Entity: "employee_allowance", EntityID: created.ID,
		Detail: map[string]any{"employee_id": created.EmployeeID, "name": created.Name},
	})
	return created, nil
}

func (s *Service) DeleteAllowance(ctx context.Context, id string) error {
	if err := s.allowances.DeleteAllowance(ctx, id); err != nil {
		return err
	}
	s.audit.Emit(ctx, audit.Fact{Action: "allowance.delete", Entity: "employee_allowance", EntityID: id})
	return nil
}

func (s *Service) CreateMealAllowance(ctx context.Context, req allowance.CreateMealAllowanceRequest) (allowance.MealAllowance, error) {
	if err := req.Validate(); err != nil {
		return allowance.MealAllowance{}, err
	}
	if _, err := s.employees.GetByID(ctx, req.EmployeeID); err != nil {
		return allowance.MealAllowance{}, err
	}

	start, _ := time.Parse("2006-01-02", req.StartDate)
	end, _ := time.Parse("2006-01-02", req.EndDate)

	m := allowance.MealAllowance{
		EmployeeID: req.EmployeeID,
		Amount:     req.Amount,
		StartDate:  start,
		EndDate:    end,
		Status:     allowance.MealAllowancePending,
	}

	created, err := s.allowances.CreateMealAllowance(ctx, m)
	if err != nil {
		return allowance.MealAllowance{}, fmt.Errorf("failed to create meal allowance: %w", err)
	}

	s.audit.Emit(ctx, audit.Fact{
		Action: "meal_allowance.create", Entity: "meal_allowance", EntityID: created.ID,
		Detail: map[string]any{"employee_id": created.EmployeeID},
	})
	return created, nil
}

// DecideMealAllowance approves or rejects a pending meal allowance batch.
// Only approved batches reach the earnings aggregator.
func (s *Service) DecideMealAllowance(ctx context.Context, id, decision string) (allowance.MealAllowance, error) {
	m, err := s.allowances.GetMealAllowanceByID(ctx, id)
	if err != nil {
		return allowance.MealAllowance{}, err
	}
	if m.Status != allowance.MealAllowancePending {
		return allowance.MealAllowance{}, fmt.Errorf("meal allowance is already %s", m.Status)
	}

	switch decision {
	case "approve":
		m.Status = allowance.MealAllowanceApproved
	case "reject":
		m.Status = allowance.MealAllowanceRejected
	default:
		return allowance.MealAllowance{}, attendance.ErrInvalidApprovalDecision
	}

	if err := s.allowances.UpdateMealAllowance(ctx, m); err != nil {
		return allowance.MealAllowance{}, err
	}

	s.audit.Emit(ctx, audit.Fact{Action: "meal_allowance." + decision, Entity: "meal_allowance", EntityID: id})
	return m, nil
}
