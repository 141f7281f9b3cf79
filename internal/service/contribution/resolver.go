package contribution

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jkgulay/payroll-system-sub001/internal/domain/contribution"
)

// Resolver looks up the employee/employer shares for a contribution scheme
// given a monthly salary. A missing bracket resolves to zero; contribution
// lookup must never block a payroll run.
type Resolver struct {
	repo contribution.RateRepository
}

func NewResolver(repo contribution.RateRepository) *Resolver {
	return &Resolver{repo: repo}
}

// TableFor pre-loads every scheme's active brackets for a payroll run.
func (r *Resolver) TableFor(ctx context.Context) (map[contribution.Type][]contribution.GovernmentRate, error) {
	table := make(map[contribution.Type][]contribution.GovernmentRate, len(contribution.Types))
	for _, t := range contribution.Types {
		rates, err := r.repo.ListActiveByType(ctx, t)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s rates: %w", t, err)
		}
		table[t] = rates
	}
	return table, nil
}

// ResolveShares picks the bracket covering the salary as of the date, most
// recent effective date winning, and computes the split. No matching bracket
// yields an all-zero result, never an error.
func ResolveShares(rates []contribution.GovernmentRate, monthlySalary decimal.Decimal, asOf time.Time) contribution.Shares {
	var matched *contribution.GovernmentRate
	for i := range rates {
		rate := rates[i]
		if !rate.Covers(monthlySalary, asOf) {
			continue
		}
		if matched == nil || rate.EffectiveDate.After(matched.EffectiveDate) {
			matched = &rates[i]
		}
	}
	if matched == nil {
		return contribution.ZeroShares()
	}
	return sharesFromBracket(*matched, monthlySalary)
}

func sharesFromBracket(rate contribution.GovernmentRate, monthlySalary decimal.Decimal) contribution.Shares {
	// Fixed-bracket override: the stored total is authoritative, not the sum
	// derived from rates.
	if rate.TotalContribution != nil {
		shares := contribution.Shares{Total: rate.TotalContribution.Round(2)}
		if rate.EmployeeFixed != nil {
			shares.Employee = rate.EmployeeFixed.Round(2)
		}
		if rate.EmployerFixed != nil {
			shares.Employer = rate.EmployerFixed.Round(2)
		}
		return shares
	}

	hundred := decimal.NewFromInt(100)
	employee := monthlySalary.Mul(rate.EmployeeRate).Div(hundred)
	if rate.EmployeeFixed != nil {
		employee = *rate.EmployeeFixed
	}
	employer := monthlySalary.Mul(rate.EmployerRate).Div(hundred)
	if rate.EmployerFixed != nil {
		employer = *rate.EmployerFixed
	}

	employee = employee.Round(2)
	employer = employer.Round(2)
	return contribution.Shares{
		Employee: employee,
		Employer: employer,
		Total:    employee.Add(employer),
	}
}
