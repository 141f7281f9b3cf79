package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jkgulay/payroll-system-sub001/internal/domain/allowance"
	"github.com/jkgulay/payroll-system-sub001/internal/pkg/database"
)

type allowanceRepository struct {
	db *database.DB
}

func NewAllowanceRepository(db *database.DB) allowance.AllowanceRepository {
	return &allowanceRepository{db: db}
}

const allowanceColumns = `
	id, employee_id, name, amount, frequency, is_taxable,
	effective_date, end_date, is_active, created_at, updated_at`

func scanAllowance(row pgx.Row) (allowance.EmployeeAllowance, error) {
	var a allowance.EmployeeAllowance
	err := row.Scan(
		&a.ID, &a.EmployeeID, &a.Name, &a.Amount, &a.Frequency, &a.IsTaxable,
		&a.EffectiveDate, &a.EndDate, &a.IsActive, &a.CreatedAt, &a.UpdatedAt,
	)
	return a, err
}

// CreateAllowance implements allowance.AllowanceRepository.
func (r *allowanceRepository) CreateAllowance(ctx context.Context, a allowance.EmployeeAllowance) (allowance.EmployeeAllowance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO employee_allowances (
			employee_id, name, amount, frequency, is_taxable,
			effective_date, end_date, is_active
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		a.EmployeeID, a.Name, a.Amount, a.Frequency, a.IsTaxable,
		a.EffectiveDate, a.EndDate, a.IsActive,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return allowance.EmployeeAllowance{}, fmt.Errorf("failed to create allowance: %w", err)
	}
	return a, nil
}

// UpdateAllowance implements allowance.AllowanceRepository.
func (r *allowanceRepository) UpdateAllowance(ctx context.Context, a allowance.EmployeeAllowance) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE employee_allowances SET
			name = $1, amount = $2, frequency = $3, is_taxable = $4,
			effective_date = $5, end_date = $6, is_active = $7,
			updated_at = NOW()
		WHERE id = $8
	`

	tag, err := q.Exec(ctx, query,
		a.Name, a.Amount, a.Frequency, a.IsTaxable,
		a.EffectiveDate, a.EndDate, a.IsActive, a.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update allowance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return allowance.ErrAllowanceNotFound
	}
	return nil
}

// DeleteAllowance implements allowance.AllowanceRepository.
func (r *allowanceRepository) DeleteAllowance(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM employee_allowances WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete allowance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return allowance.ErrAllowanceNotFound
	}
	return nil
}

// ListActiveForEmployee implements allowance.AllowanceRepository.
func (r *allowanceRepository) ListActiveForEmployee(ctx context.Context, employeeID string, start, end time.Time) ([]allowance.EmployeeAllowance, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + allowanceColumns + `
		FROM employee_allowances
		WHERE employee_id = $1
		  AND is_active = TRUE
		  AND effective_date <= $3
		  AND (end_date IS NULL OR end_date >= $2)
		ORDER BY name`

	rows, err := q.Query(ctx, query, employeeID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list allowances: %w", err)
	}
	defer rows.Close()

	var allowances []allowance.EmployeeAllowance
	for rows.Next() {
		a, err := scanAllowance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan allowance: %w", err)
		}
		allowances = append(allowances, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate allowances: %w", err)
	}
	return allowances, nil
}

// CreateMealAllowance implements allowance.AllowanceRepository.
func (r *allowanceRepository) CreateMealAllowance(ctx context.Context, m allowance.MealAllowance) (allowance.MealAllowance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO meal_allowances (employee_id, amount, start_date, end_date, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query, m.EmployeeID, m.Amount, m.StartDate, m.EndDate, m.Status).
		Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return allowance.MealAllowance{}, fmt.Errorf("failed to create meal allowance: %w", err)
	}
	return m, nil
}

// GetMealAllowanceByID implements allowance.AllowanceRepository.
func (r *allowanceRepository) GetMealAllowanceByID(ctx context.Context, id string) (allowance.MealAllowance, error) {
	q := GetQuerier(ctx, r.db)

	var m allowance.MealAllowance
	err := q.QueryRow(ctx,
		`SELECT id, employee_id, amount, start_date, end_date, status, created_at, updated_at
		 FROM meal_allowances WHERE id = $1`, id,
	).Scan(&m.ID, &m.EmployeeID, &m.Amount, &m.StartDate, &m.EndDate, &m.Status, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return allowance.MealAllowance{}, allowance.ErrMealAllowanceNotFound
		}
		return allowance.MealAllowance{}, fmt.Errorf("failed to get meal allowance: %w", err)
	}
	return m, nil
}

// UpdateMealAllowance implements allowance.AllowanceRepository.
func (r *allowanceRepository) UpdateMealAllowance(ctx context.Context, m allowance.MealAllowance) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE meal_allowances SET
			amount = $1, start_date = $2, end_date = $3, status = $4,
			updated_at = NOW()
		WHERE id = $5
	`

	tag, err := q.Exec(ctx, query, m.Amount, m.StartDate, m.EndDate, m.Status, m.ID)
	if err != nil {
		return fmt.Errorf("failed to update meal allowance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return allowance.ErrMealAllowanceNotFound
	}
	return nil
}

// ListApprovedMealAllowances implements allowance.AllowanceRepository.
func (r *allowanceRepository) ListApprovedMealAllowances(ctx context.Context, employeeID string, start, end time.Time) ([]allowance.MealAllowance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, amount, start_date, end_date, status, created_at, updated_at
		FROM meal_allowances
		WHERE employee_id = $1
		  AND status = 'approved'
		  AND start_date <= $3
		  AND end_date >= $2
		ORDER BY start_date`

	rows, err := q.Query(ctx, query, employeeID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list meal allowances: %w", err)
	}
	defer rows.Close()

	var meals []allowance.MealAllowance
	for rows.Next() {
		var m allowance.MealAllowance
		if err := rows.Scan(&m.ID, &m.EmployeeID, &m.Amount, &m.StartDate, &m.EndDate, &m.Status, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan meal allowance: %w", err)
		}
		meals = append(meals, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate meal allowances: %w", err)
	}
	return meals, nil
}
