package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jkgulay/payroll-system-sub001/internal/domain/tax"
	"github.com/jkgulay/payroll-system-sub001/internal/pkg/database"
)

type taxRepository struct {
	db *database.DB
}

func NewTaxRepository(db *database.DB) tax.BracketRepository {
	return &taxRepository{db: db}
}

const bracketColumns = `
	id, period_type, min_income, max_income, base_tax, rate, excess_over,
	is_active, created_at, updated_at`

func scanBracket(row pgx.Row) (tax.Bracket, error) {
	var b tax.Bracket
	err := row.Scan(
		&b.ID, &b.PeriodType, &b.MinIncome, &b.MaxIncome, &b.BaseTax, &b.Rate, &b.ExcessOver,
		&b.IsActive, &b.CreatedAt, &b.UpdatedAt,
	)
	return b, err
}

// Create implements tax.BracketRepository.
func (r *taxRepository) Create(ctx context.Context, b tax.Bracket) (tax.Bracket, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO tax_brackets (period_type, min_income, max_income, base_tax, rate, excess_over, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		b.PeriodType, b.MinIncome, b.MaxIncome, b.BaseTax, b.Rate, b.ExcessOver, b.IsActive,
	).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return tax.Bracket{}, fmt.Errorf("failed to create tax bracket: %w", err)
	}
	return b, nil
}

// GetByID implements tax.BracketRepository.
func (r *taxRepository) GetByID(ctx context.Context, id string) (tax.Bracket, error) {
	q := GetQuerier(ctx, r.db)

	b, err := scanBracket(q.QueryRow(ctx, `SELECT `+bracketColumns+` FROM tax_brackets WHERE id = $1`, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return tax.Bracket{}, tax.ErrBracketNotFound
		}
		return tax.Bracket{}, fmt.Errorf("failed to get tax bracket: %w", err)
	}
	return b, nil
}

// Update implements tax.BracketRepository.
func (r *taxRepository) Update(ctx context.Context, b tax.Bracket) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE tax_brackets SET
			period_type = $1, min_income = $2, max_income = $3,
			base_tax = $4, rate = $5, excess_over = $6, is_active = $7,
			updated_at = NOW()
		WHERE id = $8
	`

	tag, err := q.Exec(ctx, query,
		b.PeriodType, b.MinIncome, b.MaxIncome, b.BaseTax, b.Rate, b.ExcessOver, b.IsActive, b.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update tax bracket: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return tax.ErrBracketNotFound
	}
	return nil
}

// Delete implements tax.BracketRepository.
func (r *taxRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM tax_brackets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete tax bracket: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return tax.ErrBracketNotFound
	}
	return nil
}

// ListActiveByPeriod implements tax.BracketRepository.
func (r *taxRepository) ListActiveByPeriod(ctx context.Context, period tax.PeriodType) ([]tax.Bracket, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + bracketColumns + `
		FROM tax_brackets
		WHERE period_type = $1 AND is_active = TRUE
		ORDER BY min_income`

	rows, err := q.Query(ctx, query, period)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s tax brackets: %w", period, err)
	}
	defer rows.Close()

	return collectBrackets(rows)
}

// List implements tax.BracketRepository.
func (r *taxRepository) List(ctx context.Context) ([]tax.Bracket, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT `+bracketColumns+` FROM tax_brackets ORDER BY period_type, min_income`)
	if err != nil {
		return nil, fmt.Errorf("failed to list tax brackets: %w", err)
	}
	defer rows.Close()

	return collectBrackets(rows)
}

func collectBrackets(rows pgx.Rows) ([]tax.Bracket, error) {
	var brackets []tax.Bracket
	for rows.Next() {
		b, err := scanBracket(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tax bracket: %w", err)
		}
		brackets = append(brackets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tax brackets: %w", err)
	}
	return brackets, nil
}
