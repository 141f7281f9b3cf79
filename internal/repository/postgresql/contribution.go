package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jkgulay/payroll-system-sub001/internal/domain/contribution"
	"github.com/jkgulay/payroll-system-sub001/internal/pkg/database"
)

type contributionRepository struct {
	db *database.DB
}

func NewContributionRepository(db *database.DB) contribution.RateRepository {
	return &contributionRepository{db: db}
}

const rateColumns = `
	id, type, min_salary, max_salary, employee_rate, employer_rate,
	employee_fixed, employer_fixed, total_contribution,
	effective_date, end_date, is_active, created_at, updated_at`

func scanRate(row pgx.Row) (contribution.GovernmentRate, error) {
	var rate contribution.GovernmentRate
	err := row.Scan(
		&rate.ID, &rate.Type, &rate.MinSalary, &rate.MaxSalary, &rate.EmployeeRate, &rate.EmployerRate,
		&rate.EmployeeFixed, &rate.EmployerFixed, &rate.TotalContribution,
		&rate.EffectiveDate, &rate.EndDate, &rate.IsActive, &rate.CreatedAt, &rate.UpdatedAt,
	)
	return rate, err
}

// Create implements contribution.RateRepository.
func (r *contributionRepository) Create(ctx context.Context, rate contribution.GovernmentRate) (contribution.GovernmentRate, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO government_rates (
			type, min_salary, max_salary, employee_rate, employer_rate,
			employee_fixed, employer_fixed, total_contribution,
			effective_date, end_date, is_active
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		rate.Type, rate.MinSalary, rate.MaxSalary, rate.EmployeeRate, rate.EmployerRate,
		rate.EmployeeFixed, rate.EmployerFixed, rate.TotalContribution,
		rate.EffectiveDate, rate.EndDate, rate.IsActive,
	).Scan(&rate.ID, &rate.CreatedAt, &rate.UpdatedAt)
	if err != nil {
		return contribution.GovernmentRate{}, fmt.Errorf("failed to create government rate: %w", err)
	}
	return rate, nil
}

// GetByID implements contribution.RateRepository.
func (r *contributionRepository) GetByID(ctx context.Context, id string) (contribution.GovernmentRate, error) {
	q := GetQuerier(ctx, r.db)

	rate, err := scanRate(q.QueryRow(ctx, `SELECT `+rateColumns+` FROM government_rates WHERE id = $1`, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return contribution.GovernmentRate{}, contribution.ErrRateNotFound
		}
		return contribution.GovernmentRate{}, fmt.Errorf("failed to get government rate: %w", err)
	}
	return rate, nil
}

// Update implements contribution.RateRepository.
func (r *contributionRepository) Update(ctx context.Context, rate contribution.GovernmentRate) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE government_rates SET
			type = $1, min_salary = $2, max_salary = $3,
			employee_rate = $4, employer_rate = $5,
			employee_fixed = $6, employer_fixed = $7, total_contribution = $8,
			effective_date = $9, end_date = $10, is_active = $11,
			updated_at = NOW()
		WHERE id = $12
	`

	tag, err := q.Exec(ctx, query,
		rate.Type, rate.MinSalary, rate.MaxSalary,
		rate.EmployeeRate, rate.EmployerRate,
		rate.EmployeeFixed, rate.EmployerFixed, rate.TotalContribution,
		rate.EffectiveDate, rate.EndDate, rate.IsActive,
		rate.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update government rate: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return contribution.ErrRateNotFound
	}
	return nil
}

// Delete implements contribution.RateRepository.
func (r *contributionRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM government_rates WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete government rate: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return contribution.ErrRateNotFound
	}
	return nil
}

// ListActiveByType implements contribution.RateRepository.
func (r *contributionRepository) ListActiveByType(ctx context.Context, t contribution.Type) ([]contribution.GovernmentRate, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + rateColumns + `
		FROM government_rates
		WHERE type = $1 AND is_active = TRUE
		ORDER BY min_salary, effective_date`

	rows, err := q.Query(ctx, query, t)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s rates: %w", t, err)
	}
	defer rows.Close()

	return collectRates(rows)
}

// List implements contribution.RateRepository.
func (r *contributionRepository) List(ctx context.Context) ([]contribution.GovernmentRate, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT `+rateColumns+` FROM government_rates ORDER BY type, min_salary`)
	if err != nil {
		return nil, fmt.Errorf("failed to list government rates: %w", err)
	}
	defer rows.Close()

	return collectRates(rows)
}

func collectRates(rows pgx.Rows) ([]contribution.GovernmentRate, error) {
	var rates []contribution.GovernmentRate
	for rows.Next() {
		rate, err := scanRate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan government rate: %w", err)
		}
		rates = append(rates, rate)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate government rates: %w", err)
	}
	return rates, nil
}
