package postgresql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jkgulay/payroll-system-sub001/internal/domain/attendance"
	"github.com/jkgulay/payroll-system-sub001/internal/pkg/database"
)

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

const attendanceColumns = `
	id, employee_id, date,
	time_in, time_out, break_start, break_end,
	ot_time_in, ot_time_out, ot_time_in_2, ot_time_out_2,
	regular_hours, overtime_hours, night_diff_hours, late_hours, undertime_hours,
	status, is_holiday, holiday_type, approval_status,
	created_at, updated_at`

func scanAttendance(row pgx.Row) (attendance.Attendance, error) {
	var a attendance.Attendance
	err := row.Scan(
		&a.ID, &a.EmployeeID, &a.Date,
		&a.TimeIn, &a.TimeOut, &a.BreakStart, &a.BreakEnd,
		&a.OTTimeIn, &a.OTTimeOut, &a.OTTimeIn2, &a.OTTimeOut2,
		&a.RegularHours, &a.OvertimeHours, &a.NightDiffHours, &a.LateHours, &a.UndertimeHours,
		&a.Status, &a.IsHoliday, &a.HolidayType, &a.ApprovalStatus,
		&a.CreatedAt, &a.UpdatedAt,
	)
	return a, err
}

// Create implements attendance.AttendanceRepository.
func (r *attendanceRepository) Create(ctx context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendances (
			employee_id, date,
			time_in, time_out, break_start, break_end,
			ot_time_in, ot_time_out, ot_time_in_2, ot_time_out_2,
			regular_hours, overtime_hours, night_diff_hours, late_hours, undertime_hours,
			status, is_holiday, holiday_type, approval_status
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			$11, $12, $13, $14, $15, $16, $17, $18, $19
		) RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		att.EmployeeID, att.Date,
		att.TimeIn, att.TimeOut, att.BreakStart, att.BreakEnd,
		att.OTTimeIn, att.OTTimeOut, att.OTTimeIn2, att.OTTimeOut2,
		att.RegularHours, att.OvertimeHours, att.NightDiffHours, att.LateHours, att.UndertimeHours,
		att.Status, att.IsHoliday, att.HolidayType, att.ApprovalStatus,
	).Scan(&att.ID, &att.CreatedAt, &att.UpdatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return attendance.Attendance{}, attendance.ErrAttendanceExists
		}
		return attendance.Attendance{}, fmt.Errorf("failed to create attendance: %w", err)
	}
	return att, nil
}

// GetByID implements attendance.AttendanceRepository.
func (r *attendanceRepository) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + attendanceColumns + ` FROM attendances WHERE id = $1`

	att, err := scanAttendance(q.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance: %w", err)
	}
	return att, nil
}

// GetByEmployeeDate implements attendance.AttendanceRepository.
func (r *attendanceRepository) GetByEmployeeDate(ctx context.Context, employeeID string, date time.Time) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + attendanceColumns + ` FROM attendances WHERE employee_id = $1 AND date = $2`

	att, err := scanAttendance(q.QueryRow(ctx, query, employeeID, date))
	if err != nil {
		if err == pgx.ErrNoRows {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance by date: %w", err)
	}
	return att, nil
}

// Update implements attendance.AttendanceRepository.
func (r *attendanceRepository) Update(ctx context.Context, att attendance.Attendance) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendances SET
			time_in = $1, time_out = $2, break_start = $3, break_end = $4,
			ot_time_in = $5, ot_time_out = $6, ot_time_in_2 = $7, ot_time_out_2 = $8,
			regular_hours = $9, overtime_hours = $10, night_diff_hours = $11,
			late_hours = $12, undertime_hours = $13,
			status = $14, is_holiday = $15, holiday_type = $16, approval_status = $17,
			updated_at = NOW()
		WHERE id = $18
	`

	tag, err := q.Exec(ctx, query,
		att.TimeIn, att.TimeOut, att.BreakStart, att.BreakEnd,
		att.OTTimeIn, att.OTTimeOut, att.OTTimeIn2, att.OTTimeOut2,
		att.RegularHours, att.OvertimeHours, att.NightDiffHours,
		att.LateHours, att.UndertimeHours,
		att.Status, att.IsHoliday, att.HolidayType, att.ApprovalStatus,
		att.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update attendance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrAttendanceNotFound
	}
	return nil
}

// Delete implements attendance.AttendanceRepository.
func (r *attendanceRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM attendances WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete attendance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrAttendanceNotFound
	}
	return nil
}

// ListApprovedBetween implements attendance.AttendanceRepository.
func (r *attendanceRepository) ListApprovedBetween(ctx context.Context, employeeID string, start, end time.Time) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + attendanceColumns + `
		FROM attendances
		WHERE employee_id = $1
		  AND date BETWEEN $2 AND $3
		  AND approval_status = 'approved'
		ORDER BY date`

	rows, err := q.Query(ctx, query, employeeID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list approved attendance: %w", err)
	}
	defer rows.Close()

	return collectAttendance(rows)
}

// ListIncompleteBetween implements attendance.AttendanceRepository.
func (r *attendanceRepository) ListIncompleteBetween(ctx context.Context, start, end time.Time) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + attendanceColumns + `
		FROM attendances
		WHERE date BETWEEN $1 AND $2
		  AND status IN ('present', 'late', 'half_day', 'holiday')
		  AND (
			time_in IS NULL OR time_out IS NULL
			OR (break_start IS NULL) <> (break_end IS NULL)
			OR (ot_time_in IS NULL) <> (ot_time_out IS NULL)
			OR (ot_time_in_2 IS NULL) <> (ot_time_out_2 IS NULL)
		  )
		ORDER BY employee_id, date`

	rows, err := q.Query(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list incomplete attendance: %w", err)
	}
	defer rows.Close()

	return collectAttendance(rows)
}

// List implements attendance.AttendanceRepository.
func (r *attendanceRepository) List(ctx context.Context, filter attendance.Filter) ([]attendance.Attendance, int64, error) {
	q := GetQuerier(ctx, r.db)

	var conditions []string
	var args []interface{}
	argNum := 1

	if filter.EmployeeID != "" {
		conditions = append(conditions, fmt.Sprintf("employee_id = $%d", argNum))
		args = append(args, filter.EmployeeID)
		argNum++
	}
	if filter.Start != nil {
		conditions = append(conditions, fmt.Sprintf("date >= $%d", argNum))
		args = append(args, *filter.Start)
		argNum++
	}
	if filter.End != nil {
		conditions = append(conditions, fmt.Sprintf("date <= $%d", argNum))
		args = append(args, *filter.End)
		argNum++
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argNum))
		args = append(args, filter.Status)
		argNum++
	}
	if filter.Approval != "" {
		conditions = append(conditions, fmt.Sprintf("approval_status = $%d", argNum))
		args = append(args, filter.Approval)
		argNum++
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM attendances"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendance: %w", err)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	page := filter.Page
	if page <= 0 {
		page = 1
	}
	query := `SELECT ` + attendanceColumns + ` FROM attendances` + where +
		fmt.Sprintf(" ORDER BY date DESC, employee_id LIMIT $%d OFFSET $%d", argNum, argNum+1)
	args = append(args, limit, (page-1)*limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list attendance: %w", err)
	}
	defer rows.Close()

	attendances, err := collectAttendance(rows)
	if err != nil {
		return nil, 0, err
	}
	return attendances, total, nil
}

// ReferencedByFinalizedPayroll implements attendance.AttendanceRepository.
func (r *attendanceRepository) ReferencedByFinalizedPayroll(ctx context.Context, att attendance.Attendance) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS (
			SELECT 1
			FROM payrolls p
			JOIN payroll_items pi ON pi.payroll_id = p.id
			WHERE pi.employee_id = $1
			  AND $2 BETWEEN p.period_start AND p.period_end
			  AND p.status IN ('finalized', 'paid')
		)
	`

	var exists bool
	if err := q.QueryRow(ctx, query, att.EmployeeID, att.Date).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check payroll references: %w", err)
	}
	return exists, nil
}

func collectAttendance(rows pgx.Rows) ([]attendance.Attendance, error) {
	var attendances []attendance.Attendance
	for rows.Next() {
		att, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		attendances = append(attendances, att)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attendance: %w", err)
	}
	return attendances, nil
}
