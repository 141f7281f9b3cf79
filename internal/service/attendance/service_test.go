package attendance

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jkgulay/payroll-system-sub001/internal/domain/attendance"
	"github.com/jkgulay/payroll-system-sub001/internal/domain/employee"
	"github.com/jkgulay/payroll-system-sub001/internal/domain/holiday"
	"github.com/jkgulay/payroll-system-sub001/internal/pkg/audit"
	holidayService "github.com/jkgulay/payroll-system-sub001/internal/service/holiday"
)

type memAttendanceRepo struct {
	rows map[string]attendance.Attendance
}

func newMemAttendanceRepo() *memAttendanceRepo {
	return &memAttendanceRepo{rows: make(map[string]attendance.Attendance)}
}

func (f *memAttendanceRepo) Create(_ context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	if att.ID == "" {
		att.ID = uuid.NewString()
	}
	f.rows[att.ID] = att
	return att, nil
}

func (f *memAttendanceRepo) GetByID(_ context.Context, id string) (attendance.Attendance, error) {
	att, ok := f.rows[id]
	if !ok {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	return att, nil
}

func (f *memAttendanceRepo) GetByEmployeeDate(_ context.Context, employeeID string, date time.Time) (attendance.Attendance, error) {
	for _, att := range f.rows {
		if att.EmployeeID == employeeID && att.Date.Equal(date) {
			return att, nil
		}
	}
	return attendance.Attendance{}, attendance.ErrAttendanceNotFound
}

func (f *memAttendanceRepo) Update(_ context.Context, att attendance.Attendance) error {
	f.rows[att.ID] = att
	return nil
}

func (f *memAttendanceRepo) Delete(_ context.Context, id string) error {
	delete(f.rows, id)
	return nil
}

func (f *memAttendanceRepo) ListApprovedBetween(_ context.Context, _ string, _, _ time.Time) ([]attendance.Attendance, error) {
	return nil, nil
}

func (f *memAttendanceRepo) ListIncompleteBetween(_ context.Context, _, _ time.Time) ([]attendance.Attendance, error) {
	return nil, nil
}

func (f *memAttendanceRepo) List(_ context.Context, _ attendance.Filter) ([]attendance.Attendance, int64, error) {
	return nil, 0, nil
}

func (f *memAttendanceRepo) ReferencedByFinalizedPayroll(_ context.Context, _ attendance.Attendance) (bool, error) {
	return false, nil
}

type memEmployeeRepo struct {
	employees map[string]employee.Employee
}

func (f *memEmployeeRepo) GetByID(_ context.Context, id string) (employee.Employee, error) {
	emp, ok := f.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return emp, nil
}

func (f *memEmployeeRepo) GetByEmployeeCode(_ context.Context, _ string) (employee.Employee, error) {
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (f *memEmployeeRepo) ListPayable(_ context.Context) ([]employee.Employee, error) {
	return nil, nil
}

func (f *memEmployeeRepo) ListWithAttendanceBetween(_ context.Context, _, _ time.Time) ([]employee.Employee, error) {
	return nil, nil
}

type emptyHolidayRepo struct{}

func (emptyHolidayRepo) Create(_ context.Context, h holiday.Holiday) (holiday.Holiday, error) {
	return h, nil
}
func (emptyHolidayRepo) GetByID(_ context.Context, _ string) (holiday.Holiday, error) {
	return holiday.Holiday{}, holiday.ErrHolidayNotFound
}
func (emptyHolidayRepo) Update(_ context.Context, _ holiday.Holiday) error { return nil }
func (emptyHolidayRepo) Delete(_ context.Context, _ string) error          { return nil }
func (emptyHolidayRepo) ListActiveBetween(_ context.Context, _, _ time.Time) ([]holiday.Holiday, error) {
	return nil, nil
}
func (emptyHolidayRepo) List(_ context.Context, _ int) ([]holiday.Holiday, error) {
	return nil, nil
}

func newTestService(repo *memAttendanceRepo) *Service {
	cfg := testPayrollConfig()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	employees := &memEmployeeRepo{employees: map[string]employee.Employee{
		"emp-1": {ID: "emp-1", EmployeeCode: "EMP-001", Department: "Warehouse", Status: employee.StatusActive},
	}}
	return NewService(cfg, repo, employees, holidayService.NewResolver(emptyHolidayRepo{}, cfg), audit.NewEmitter(logger), logger)
}

func str(s string) *string { return &s }

func TestUpsertDerivesHoursAndStartsPending(t *testing.T) {
	repo := newMemAttendanceRepo()
	svc := newTestService(repo)

	att, err := svc.Upsert(context.Background(), attendance.UpsertAttendanceRequest{
		EmployeeID: "emp-1",
		Date:       "2025-06-02",
		TimeIn:     str("08:00"),
		TimeOut:    str("17:00"),
		BreakStart: str("12:00"),
		BreakEnd:   str("13:00"),
	})
	require.NoError(t, err)

	assert.Equal(t, attendance.ApprovalPending, att.ApprovalStatus)
	assert.InDelta(t, 8.0, att.RegularHours, 0.001)
}

func TestUpsertEditReopensApprovedRecord(t *testing.T) {
	repo := newMemAttendanceRepo()
	svc := newTestService(repo)

	req := attendance.UpsertAttendanceRequest{
		EmployeeID: "emp-1",
		Date:       "2025-06-02",
		TimeIn:     str("08:00"),
		TimeOut:    str("17:00"),
		BreakStart: str("12:00"),
		BreakEnd:   str("13:00"),
	}
	att, err := svc.Upsert(context.Background(), req)
	require.NoError(t, err)

	att, err = svc.Decide(context.Background(), att.ID, "approve")
	require.NoError(t, err)
	require.Equal(t, attendance.ApprovalApproved, att.ApprovalStatus)

	// Changing a punch after approval must send the record back through
	// approval before payroll can count it.
	req.TimeOut = str("23:00")
	edited, err := svc.Upsert(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, attendance.ApprovalPending, edited.ApprovalStatus)
	assert.Greater(t, edited.OvertimeHours, 0.0)

	stored, err := repo.GetByID(context.Background(), att.ID)
	require.NoError(t, err)
	assert.Equal(t, attendance.ApprovalPending, stored.ApprovalStatus)
}

func TestUpsertSamePunchesKeepsApproval(t *testing.T) {
	repo := newMemAttendanceRepo()
	svc := newTestService(repo)

	req := attendance.UpsertAttendanceRequest{
		EmployeeID: "emp-1",
		Date:       "2025-06-02",
		TimeIn:     str("08:00"),
		TimeOut:    str("17:00"),
	}
	att, err := svc.Upsert(context.Background(), req)
	require.NoError(t, err)
	_, err = svc.Decide(context.Background(), att.ID, "approve")
	require.NoError(t, err)

	// Resubmitting identical punches is a no-op for the lifecycle.
	same, err := svc.Upsert(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, attendance.ApprovalApproved, same.ApprovalStatus)
}
