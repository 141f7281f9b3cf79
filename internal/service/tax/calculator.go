package tax

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jkgulay/payroll-system-sub001/internal/domain/tax"
)

// Calculator applies the progressive withholding table for a pay period
// type.
type Calculator struct {
	repo tax.BracketRepository
}

func NewCalculator(repo tax.BracketRepository) *Calculator {
	return &Calculator{repo: repo}
}

// BracketsFor pre-loads the table for a payroll run.
func (c *Calculator) BracketsFor(ctx context.Context, period tax.PeriodType) ([]tax.Bracket, error) {
	brackets, err := c.repo.ListActiveByPeriod(ctx, period)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s tax brackets: %w", period, err)
	}
	return brackets, nil
}

// Withhold finds the bracket containing the income and applies
// base_tax + (income - excess_over) * rate%. Negative taxable income is
// clamped to zero before lookup; no matching bracket means no tax.
func Withhold(income decimal.Decimal, brackets []tax.Bracket) decimal.Decimal {
	if income.IsNegative() {
		income = decimal.Zero
	}
	for _, b := range brackets {
		if !b.IsActive || !b.Contains(income) {
			continue
		}
		excess := income.Sub(b.ExcessOver)
		if excess.IsNegative() {
			excess = decimal.Zero
		}
		tax := b.BaseTax.Add(excess.Mul(b.Rate).Div(decimal.NewFromInt(100)))
		return tax.Round(2)
	}
	return decimal.Zero
}
