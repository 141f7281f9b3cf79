package masterdata

import (
	"context"
	"fmt"
	"time"

	"github.com/jkgulay/payroll-system-sub001/internal/domain/contribution"
	"github.com/jkgulay/payroll-system-sub001/internal/domain/holiday"
	"github.com/jkgulay/payroll-system-sub001/internal/domain/tax"
	"github.com/jkgulay/payroll-system-sub001/internal/pkg/audit"
)

// Service administers the reference tables the payroll engine computes
// against: the holiday calendar, government contribution schedules and
// withholding tax brackets.
type Service struct {
	holidays holiday.HolidayRepository
	rates    contribution.RateRepository
	brackets tax.BracketRepository
	audit    *audit.Emitter
}

func NewService(
	holidays holiday.HolidayRepository,
	rates contribution.RateRepository,
	brackets tax.BracketRepository,
	auditEmitter *audit.Emitter,
) *Service {
	return &Service{
		holidays: holidays,
		rates:    rates,
		brackets: brackets,
		audit:    auditEmitter,
	}
}

func (s *Service) CreateHoliday(ctx context.Context, req holiday.UpsertHolidayRequest) (holiday.Holiday, error) {
	if err := req.Validate(); err != nil {
		return holiday.Holiday{}, err
	}

	h := holidayFromRequest(req)
	created, err := s.holidays.Create(ctx, h)
	if err != nil {
		return holiday.Holiday{}, fmt.Errorf("failed to create holiday: %w", err)
	}

	s.audit.Emit(ctx, audit.Fact{Action: "holiday.create", Entity: "holiday", EntityID: created.ID, After: created.Name})
	return created, nil
}

func (s *Service) UpdateHoliday(ctx context.Context, id string, req holiday.UpsertHolidayRequest) (holiday.Holiday, error) {
	if err := req.Validate(); err != nil {
		return holiday.Holiday{}, err
	}

	existing, err := s.holidays.GetByID(ctx, id)
	if err != nil {
		return holiday.Holiday{}, err
	}

	h := holidayFromRequest(req)
	h.ID = existing.ID
	if err := s.holidays.Update(ctx, h); err != nil {
		return holiday.Holiday{}, fmt.Errorf("failed to update holiday: %w", err)
	}

	s.audit.Emit(ctx, audit.Fact{Action: "holiday.update", Entity: "holiday", EntityID: id, Before: existing.Name, After: h.Name})
	return h, nil
}

func (s *Service) DeleteHoliday(ctx context.Context, id string) error {
	if err := s.holidays.Delete(ctx, id); err != nil {
		return err
	}
	s.audit.Emit(ctx, audit.Fact{Action: "holiday.delete", Entity: "holiday", EntityID: id})
	return nil
}

func (s *Service) ListHolidays(ctx context.Context, year int) ([]holiday.Holiday, error) {
	return s.holidays.List(ctx, year)
}

func holidayFromRequest(req holiday.UpsertHolidayRequest) holiday.Holiday {
	date, _ := time.Parse("2006-01-02", req.Date)
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	return holiday.Holiday{
		Name:        req.Name,
		Date:        date,
		Type:        holiday.Type(req.Type),
		IsRecurring: req.IsRecurring,
		IsActive:    active,
	}
}

func (s *Service) CreateRate(ctx context.Context, req contribution.UpsertRateRequest) (contribution.GovernmentRate, error) {
	if err := req.Validate(); err != nil {
		return contribution.GovernmentRate{}, err
	}

	rate := rateFromRequest(req)
	created, err := s.rates.Create(ctx, rate)
	if err != nil {
		return contribution.GovernmentRate{}, fmt.Errorf("failed to create government rate: %w", err)
	}

	s.audit.Emit(ctx, audit.Fact{Action: "rate.create", Entity: "government_rate", EntityID: created.ID, After: string(created.Type)})
	return created, nil
}

func (s *Service) UpdateRate(ctx context.Context, id string, req contribution.UpsertRateRequest) (contribution.GovernmentRate, error) {
	if err := req.Validate(); err != nil {
		return contribution.GovernmentRate{}, err
	}

	existing, err := s.rates.GetByID(ctx, id)
	if err != nil {
		return contribution.GovernmentRate{}, err
	}

	rate := rateFromRequest(req)
	rate.ID = existing.ID
	if err := s.rates.Update(ctx, rate); err != nil {
		return contribution.GovernmentRate{}, fmt.Errorf("failed to update government rate: %w", err)
	}

	s.audit.Emit(ctx, audit.Fact{Action: "rate.update", Entity: "government_rate", EntityID: id})
	return rate, nil
}

func (s *Service) DeleteRate(ctx context.Context, id string) error {
	if err := s.rates.Delete(ctx, id); err != nil {
		return err
	}
	s.audit.Emit(ctx, audit.Fact{Action: "rate.delete", Entity: "government_rate", EntityID: id})
	return nil
}

func (s *Service) ListRates(ctx context.Context) ([]contribution.GovernmentRate, error) {
	return s.rates.List(ctx)
}

func rateFromRequest(req contribution.UpsertRateRequest) contribution.GovernmentRate {
	effective, _ := time.Parse("2006-01-02", req.EffectiveDate)
	var endDate *time.Time
	if req.EndDate != nil {
		d, _ := time.Parse("2006-01-02", *req.EndDate)
		endDate = &d
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	return contribution.GovernmentRate{
		Type:              contribution.Type(req.Type),
		MinSalary:         req.MinSalary,
		MaxSalary:         req.MaxSalary,
		EmployeeRate:      req.EmployeeRate,
		EmployerRate:      req.EmployerRate,
		EmployeeFixed:     req.EmployeeFixed,
		EmployerFixed:     req.EmployerFixed,
		TotalContribution: req.TotalContribution,
		EffectiveDate:     effective,
		EndDate:           endDate,
		IsActive:          active,
	}
}

func (s *Service) CreateBracket(ctx context.Context, req tax.UpsertBracketRequest) (tax.Bracket, error) {
	if err := req.Validate(); err != nil {
		return tax.Bracket{}, err
	}

	b := bracketFromRequest(req)
	created, err := s.brackets.Create(ctx, b)
	if err != nil {
		return tax.Bracket{}, fmt.Errorf("failed to create tax bracket: %w", err)
	}

	s.audit.Emit(ctx, audit.Fact{Action: "bracket.create", Entity: "tax_bracket", EntityID: created.ID, After: string(created.PeriodType)})
	return created, nil
}

func (s *Service) UpdateBracket(ctx context.Context, id string, req tax.UpsertBracketRequest) (tax.Bracket, error) {
	if err := req.Validate(); err != nil {
		return tax.Bracket{}, err
	}

	existing, err := s.brackets.GetByID(ctx, id)
	if err != nil {
		return tax.Bracket{}, err
	}

	b := bracketFromRequest(req)
	b.ID = existing.ID
	if err := s.brackets.Update(ctx, b); err != nil {
		return tax.Bracket{}, fmt.Errorf("failed to update tax bracket: %w", err)
	}

	s.audit.Emit(ctx, audit.Fact{Action: "bracket.update", Entity: "tax_bracket", EntityID: id})
	return b, nil
}

func (s *Service) DeleteBracket(ctx context.Context, id string) error {
	if err := s.brackets.Delete(ctx, id); err != nil {
		return err
	}
	s.audit.Emit(ctx, audit.Fact{Action: "bracket.delete", Entity: "tax_bracket", EntityID: id})
	return nil
}

func (s *Service) ListBrackets(ctx context.Context) ([]tax.Bracket, error) {
	return s.brackets.List(ctx)
}

func bracketFromRequest(req tax.UpsertBracketRequest) tax.Bracket {
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	return tax.Bracket{
		PeriodType: tax.PeriodType(req.PeriodType),
		MinIncome:  req.MinIncome,
		MaxIncome:  req.MaxIncome,
		BaseTax:    req.BaseTax,
		Rate:       req.Rate,
		ExcessOver: req.ExcessOver,
		IsActive:   active,
	}
}
