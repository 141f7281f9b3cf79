package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jkgulay/payroll-system-sub001/internal/domain/adjustment"
	"github.com/jkgulay/payroll-system-sub001/internal/pkg/database"
)

type adjustmentRepository struct {
	db *database.DB
}

func NewAdjustmentRepository(db *database.DB) adjustment.AdjustmentRepository {
	return &adjustmentRepository{db: db}
}

const adjustmentColumns = `
	id, employee_id, kind, reason, amount, effective_date,
	status, applied_payroll_id, created_at, updated_at`

func scanAdjustment(row pgx.Row) (adjustment.SalaryAdjustment, error) {
	var adj adjustment.SalaryAdjustment
	err := row.Scan(
		&adj.ID, &adj.EmployeeID, &adj.Kind, &adj.Reason, &adj.Amount, &adj.EffectiveDate,
		&adj.Status, &adj.AppliedPayrollID, &adj.CreatedAt, &adj.UpdatedAt,
	)
	return adj, err
}

// Create implements adjustment.AdjustmentRepository.
func (r *adjustmentRepository) Create(ctx context.Context, adj adjustment.SalaryAdjustment) (adjustment.SalaryAdjustment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO salary_adjustments (
			employee_id, kind, reason, amount, effective_date, status
		) VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		adj.EmployeeID, adj.Kind, adj.Reason, adj.Amount, adj.EffectiveDate, adj.Status,
	).Scan(&adj.ID, &adj.CreatedAt, &adj.UpdatedAt)
	if err != nil {
		return adjustment.SalaryAdjustment{}, fmt.Errorf("failed to create salary adjustment: %w", err)
	}
	return adj, nil
}

// GetByID implements adjustment.AdjustmentRepository.
func (r *adjustmentRepository) GetByID(ctx context.Context, id string) (adjustment.SalaryAdjustment, error) {
	q := GetQuerier(ctx, r.db)

	adj, err := scanAdjustment(q.QueryRow(ctx,
		`SELECT `+adjustmentColumns+` FROM salary_adjustments WHERE id = $1`, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return adjustment.SalaryAdjustment{}, adjustment.ErrAdjustmentNotFound
		}
		return adjustment.SalaryAdjustment{}, fmt.Errorf("failed to get salary adjustment: %w", err)
	}
	return adj, nil
}

// Update implements adjustment.AdjustmentRepository.
func (r *adjustmentRepository) Update(ctx context.Context, adj adjustment.SalaryAdjustment) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE salary_adjustments SET
			kind = $1, reason = $2, amount = $3, effective_date = $4,
			status = $5, applied_payroll_id = $6, updated_at = NOW()
		WHERE id = $7
	`

	tag, err := q.Exec(ctx, query,
		adj.Kind, adj.Reason, adj.Amount, adj.EffectiveDate,
		adj.Status, adj.AppliedPayrollID, adj.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update salary adjustment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return adjustment.ErrAdjustmentNotFound
	}
	return nil
}

// ListApprovedBetween implements adjustment.AdjustmentRepository.
func (r *adjustmentRepository) ListApprovedBetween(ctx context.Context, employeeID string, start, end time.Time) ([]adjustment.SalaryAdjustment, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + adjustmentColumns + `
		FROM salary_adjustments
		WHERE employee_id = $1
		  AND status = 'approved'
		  AND applied_payroll_id IS NULL
		  AND effective_date BETWEEN $2 AND $3
		ORDER BY effective_date`

	rows, err := q.Query(ctx, query, employeeID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list approved adjustments: %w", err)
	}
	defer rows.Close()

	return collectAdjustments(rows)
}

// ListAppliedByPayroll implements adjustment.AdjustmentRepository.
func (r *adjustmentRepository) ListAppliedByPayroll(ctx context.Context, payrollID string) ([]adjustment.SalaryAdjustment, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + adjustmentColumns + `
		FROM salary_adjustments
		WHERE applied_payroll_id = $1
		ORDER BY effective_date`

	rows, err := q.Query(ctx, query, payrollID)
	if err != nil {
		return nil, fmt.Errorf("failed to list applied adjustments: %w", err)
	}
	defer rows.Close()

	return collectAdjustments(rows)
}

func collectAdjustments(rows pgx.Rows) ([]adjustment.SalaryAdjustment, error) {
	var adjustments []adjustment.SalaryAdjustment
	for rows.Next() {
		adj, err := scanAdjustment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan salary adjustment: %w", err)
		}
		adjustments = append(adjustments, adj)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate salary adjustments: %w", err)
	}
	return adjustments, nil
}
