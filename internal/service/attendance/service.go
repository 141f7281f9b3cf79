package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jkgulay/payroll-system-sub001/internal/config"
	"github.com/jkgulay/payroll-system-sub001/internal/domain/attendance"
	"github.com/jkgulay/payroll-system-sub001/internal/domain/employee"
	"github.com/jkgulay/payroll-system-sub001/internal/pkg/audit"
	holidayService "github.com/jkgulay/payroll-system-sub001/internal/service/holiday"
)

// Service manages daily attendance records: upsert with hour derivation,
// approval, listing and deletion. Hour math lives in Calculator; this layer
// adds persistence, holiday flagging and guards.
type Service struct {
	cfg        config.PayrollConfig
	repo       attendance.AttendanceRepository
	employees  employee.EmployeeRepository
	holidays   *holidayService.Resolver
	calculator *Calculator
	audit      *audit.Emitter
	logger     *slog.Logger
}

func NewService(
	cfg config.PayrollConfig,
	repo attendance.AttendanceRepository,
	employees employee.EmployeeRepository,
	holidays *holidayService.Resolver,
	emitter *audit.Emitter,
	logger *slog.Logger,
) *Service {
	return &Service{
		cfg:        cfg,
		repo:       repo,
		employees:  employees,
		holidays:   holidays,
		calculator: NewCalculator(cfg),
		audit:      emitter,
		logger:     logger,
	}
}

// Upsert creates or updates the employee's record for the date, rederiving
// every hour total from the punches. Recomputation is idempotent, so
// re-submitting the same punches never changes stored hours.
func (s *Service) Upsert(ctx context.Context, req attendance.UpsertAttendanceRequest) (attendance.Attendance, error) {
	if err := req.Validate(); err != nil {
		return attendance.Attendance{}, err
	}

	emp, err := s.employees.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return attendance.Attendance{}, err
	}
	date, _ := time.Parse("2006-01-02", req.Date)

	att, err := s.repo.GetByEmployeeDate(ctx, emp.ID, date)
	isNew := false
	if err != nil {
		if !errors.Is(err, attendance.ErrAttendanceNotFound) {
			return attendance.Attendance{}, fmt.Errorf("failed to load attendance: %w", err)
		}
		isNew = true
		att = attendance.Attendance{
			EmployeeID:     emp.ID,
			Date:           date,
			ApprovalStatus: attendance.ApprovalPending,
		}
	}

	prev := att
	att.TimeIn = clockOn(date, req.TimeIn)
	att.TimeOut = clockOn(date, req.TimeOut)
	att.BreakStart = clockOn(date, req.BreakStart)
	att.BreakEnd = clockOn(date, req.BreakEnd)
	att.OTTimeIn = clockOn(date, req.OTTimeIn)
	att.OTTimeOut = clockOn(date, req.OTTimeOut)
	att.OTTimeIn2 = clockOn(date, req.OTTimeIn2)
	att.OTTimeOut2 = clockOn(date, req.OTTimeOut2)
	if req.Status != nil {
		att.Status = attendance.Status(*req.Status)
	} else if att.Status == "" {
		att.Status = attendance.StatusPresent
	}

	// An edit to a decided record reopens it; only records approved against
	// the current punches may feed payroll.
	reopened := false
	if !isNew && att.ApprovalStatus != attendance.ApprovalPending && punchesChanged(prev, att) {
		reopened = true
		att.ApprovalStatus = attendance.ApprovalPending
	}

	if err := s.flagHoliday(ctx, &att); err != nil {
		return attendance.Attendance{}, err
	}

	group := ResolveUndertimeGroup(emp.Department, s.cfg)
	if totals, ok := s.calculator.Calculate(att, group); ok {
		Apply(&att, totals)
	}

	if isNew {
		att, err = s.repo.Create(ctx, att)
	} else {
		err = s.repo.Update(ctx, att)
	}
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to save attendance: %w", err)
	}

	if reopened {
		s.audit.Emit(ctx, audit.Fact{
			Action:   "attendance.reopened",
			Entity:   "attendance",
			EntityID: att.ID,
			Before:   string(prev.ApprovalStatus),
			After:    string(attendance.ApprovalPending),
			Detail:   map[string]any{"employee_id": emp.ID, "date": req.Date},
		})
	}

	s.logger.DebugContext(ctx, "attendance upserted",
		slog.String("employee_id", emp.ID),
		slog.String("date", req.Date),
		slog.Float64("regular_hours", att.RegularHours),
	)
	return att, nil
}

// Decide moves a pending record to approved or rejected. Only approved
// records feed payroll.
func (s *Service) Decide(ctx context.Context, id string, decision string) (attendance.Attendance, error) {
	var target attendance.ApprovalStatus
	switch decision {
	case "approve":
		target = attendance.ApprovalApproved
	case "reject":
		target = attendance.ApprovalRejected
	default:
		return attendance.Attendance{}, attendance.ErrInvalidApprovalDecision
	}

	att, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return attendance.Attendance{}, err
	}
	if att.ApprovalStatus != attendance.ApprovalPending {
		return attendance.Attendance{}, attendance.ErrAttendanceAlreadyFinal
	}

	before := att.ApprovalStatus
	att.ApprovalStatus = target
	if err := s.repo.Update(ctx, att); err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to update approval: %w", err)
	}

	s.audit.Emit(ctx, audit.Fact{
		Action:   "attendance." + decision + "d",
		Entity:   "attendance",
		EntityID: att.ID,
		Before:   string(before),
		After:    string(target),
	})
	return att, nil
}

// Delete removes a record unless a finalized or paid payroll already counted
// it.
func (s *Service) Delete(ctx context.Context, id string) error {
	att, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	locked, err := s.repo.ReferencedByFinalizedPayroll(ctx, att)
	if err != nil {
		return fmt.Errorf("failed to check payroll references: %w", err)
	}
	if locked {
		return attendance.ErrAttendanceLocked
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete attendance: %w", err)
	}

	s.audit.Emit(ctx, audit.Fact{
		Action:   "attendance.deleted",
		Entity:   "attendance",
		EntityID: id,
		Detail:   map[string]any{"employee_id": att.EmployeeID, "date": att.Date.Format("2006-01-02")},
	})
	return nil
}

func (s *Service) Get(ctx context.Context, id string) (attendance.Attendance, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, filter attendance.Filter) ([]attendance.Attendance, int64, error) {
	return s.repo.List(ctx, filter)
}

// ListIncomplete reports every record in the window with an open punch pair,
// the same scan payroll creation runs before computing.
func (s *Service) ListIncomplete(ctx context.Context, start, end time.Time) ([]attendance.Attendance, error) {
	return s.repo.ListIncompleteBetween(ctx, start, end)
}

func (s *Service) flagHoliday(ctx context.Context, att *attendance.Attendance) error {
	calendar, err := s.holidays.CalendarFor(ctx, att.Date, att.Date)
	if err != nil {
		return err
	}
	if h := calendar.Resolve(att.Date); h != nil {
		t := string(h.Type)
		att.IsHoliday = true
		att.HolidayType = &t
	} else {
		att.IsHoliday = false
		att.HolidayType = nil
	}
	return nil
}

// punchesChanged reports whether an edit moved any punch or the day status.
func punchesChanged(prev, next attendance.Attendance) bool {
	pairs := [][2]*time.Time{
		{prev.TimeIn, next.TimeIn},
		{prev.TimeOut, next.TimeOut},
		{prev.BreakStart, next.BreakStart},
		{prev.BreakEnd, next.BreakEnd},
		{prev.OTTimeIn, next.OTTimeIn},
		{prev.OTTimeOut, next.OTTimeOut},
		{prev.OTTimeIn2, next.OTTimeIn2},
		{prev.OTTimeOut2, next.OTTimeOut2},
	}
	for _, p := range pairs {
		if !sameClock(p[0], p[1]) {
			return true
		}
	}
	return prev.Status != next.Status
}

func sameClock(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

// clockOn anchors a wall-clock string onto the record's date. Overnight
// spill is the calculator's concern, not the parser's.
func clockOn(date time.Time, value *string) *time.Time {
	if value == nil {
		return nil
	}
	clock, err := time.Parse("15:04:05", *value)
	if err != nil {
		clock, err = time.Parse("15:04", *value)
		if err != nil {
			return nil
		}
	}
	t := time.Date(date.Year(), date.Month(), date.Day(), clock.Hour(), clock.Minute(), clock.Second(), 0, date.Location())
	return &t
}
