package tax

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jkgulay/payroll-system-sub001/internal/domain/tax"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

// Semi-monthly withholding table.
func semiMonthlyBrackets() []tax.Bracket {
	return []tax.Bracket{
		{PeriodType: tax.PeriodSemiMonthly, MinIncome: dec("0"), MaxIncome: decPtr("10417"), BaseTax: dec("0"), Rate: dec("0"), ExcessOver: dec("0"), IsActive: true},
		{PeriodType: tax.PeriodSemiMonthly, MinIncome: dec("10417.01"), MaxIncome: decPtr("16666"), BaseTax: dec("0"), Rate: dec("15"), ExcessOver: dec("10417"), IsActive: true},
		{PeriodType: tax.PeriodSemiMonthly, MinIncome: dec("16666.01"), MaxIncome: decPtr("33332"), BaseTax: dec("937.50"), Rate: dec("20"), ExcessOver: dec("16667"), IsActive: true},
		{PeriodType: tax.PeriodSemiMonthly, MinIncome: dec("33332.01"), MaxIncome: decPtr("83332"), BaseTax: dec("4270.70"), Rate: dec("25"), ExcessOver: dec("33333"), IsActive: true},
		{PeriodType: tax.PeriodSemiMonthly, MinIncome: dec("83332.01"), MaxIncome: nil, BaseTax: dec("16770.70"), Rate: dec("30"), ExcessOver: dec("83333"), IsActive: true},
	}
}

func TestWithholdBelowThresholdIsZero(t *testing.T) {
	got := Withhold(dec("9500"), semiMonthlyBrackets())
	assert.True(t, got.IsZero(), "got %s", got)
}

func TestWithholdSecondBracket(t *testing.T) {
	// 15% of the excess over 10417.
	got := Withhold(dec("12000"), semiMonthlyBrackets())
	assert.True(t, dec("237.45").Equal(got), "got %s", got)
}

func TestWithholdBaseTaxPlusExcess(t *testing.T) {
	// 937.50 + 20% of (20000 - 16667).
	got := Withhold(dec("20000"), semiMonthlyBrackets())
	assert.True(t, dec("1604.10").Equal(got), "got %s", got)
}

func TestWithholdOpenEndedTopBracket(t *testing.T) {
	// 16770.70 + 30% of (100000 - 83333).
	got := Withhold(dec("100000"), semiMonthlyBrackets())
	assert.True(t, dec("21770.80").Equal(got), "got %s", got)
}

func TestWithholdNegativeIncomeClampedToZero(t *testing.T) {
	got := Withhold(dec("-500"), semiMonthlyBrackets())
	assert.True(t, got.IsZero(), "got %s", got)
}

func TestWithholdNoBracketsMeansNoTax(t *testing.T) {
	got := Withhold(dec("50000"), nil)
	assert.True(t, got.IsZero(), "got %s", got)
}

func TestWithholdSkipsInactiveBrackets(t *testing.T) {
	brackets := semiMonthlyBrackets()
	for i := range brackets {
		brackets[i].IsActive = false
	}
	got := Withhold(dec("20000"), brackets)
	assert.True(t, got.IsZero(), "got %s", got)
}

type stubBracketRepo struct {
	brackets []tax.Bracket
}

func (f *stubBracketRepo) Create(_ context.Context, b tax.Bracket) (tax.Bracket, error) {
	return b, nil
}

func (f *stubBracketRepo) GetByID(_ context.Context, _ string) (tax.Bracket, error) {
	return tax.Bracket{}, tax.ErrBracketNotFound
}

func (f *stubBracketRepo) Update(_ context.Context, _ tax.Bracket) error { return nil }
func (f *stubBracketRepo) Delete(_ context.Context, _ string) error      { return nil }

func (f *stubBracketRepo) ListActiveByPeriod(_ context.Context, period tax.PeriodType) ([]tax.Bracket, error) {
	var result []tax.Bracket
	for _, b := range f.brackets {
		if b.PeriodType == period && b.IsActive {
			result = append(result, b)
		}
	}
	return result, nil
}

func (f *stubBracketRepo) List(_ context.Context) ([]tax.Bracket, error) {
	return f.brackets, nil
}

func TestBracketsForFiltersByPeriod(t *testing.T) {
	rows := semiMonthlyBrackets()
	rows = append(rows, tax.Bracket{PeriodType: tax.PeriodMonthly, MinIncome: dec("0"), BaseTax: dec("0"), Rate: dec("0"), ExcessOver: dec("0"), IsActive: true})

	calc := NewCalculator(&stubBracketRepo{brackets: rows})
	got, err := calc.BracketsFor(context.Background(), tax.PeriodSemiMonthly)
	require.NoError(t, err)
	assert.Len(t, got, 5)
}
