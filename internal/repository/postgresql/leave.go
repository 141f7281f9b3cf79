package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/jkgulay/payroll-system-sub001/internal/domain/leave"
	"github.com/jkgulay/payroll-system-sub001/internal/pkg/database"
)

type leaveRepository struct {
	db *database.DB
}

func NewLeaveRepository(db *database.DB) leave.LeaveRepository {
	return &leaveRepository{db: db}
}

// ListApprovedUnpaidBetween implements leave.LeaveRepository.
func (r *leaveRepository) ListApprovedUnpaidBetween(ctx context.Context, employeeID string, start, end time.Time) ([]leave.Leave, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, leave_type, is_paid, start_date, end_date,
			   status, created_at, updated_at
		FROM leaves
		WHERE employee_id = $1
		  AND status = 'approved'
		  AND is_paid = FALSE
		  AND start_date <= $3
		  AND end_date >= $2
		ORDER BY start_date`

	rows, err := q.Query(ctx, query, employeeID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list unpaid leaves: %w", err)
	}
	defer rows.Close()

	var leaves []leave.Leave
	for rows.Next() {
		var l leave.Leave
		if err := rows.Scan(
			&l.ID, &l.EmployeeID, &l.LeaveType, &l.IsPaid, &l.StartDate, &l.EndDate,
			&l.Status, &l.CreatedAt, &l.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan leave: %w", err)
		}
		leaves = append(leaves, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate leaves: %w", err)
	}
	return leaves, nil
}
