package payroll

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jkgulay/payroll-system-sub001/internal/config"
	"github.com/jkgulay/payroll-system-sub001/internal/domain/adjustment"
	"github.com/jkgulay/payroll-system-sub001/internal/domain/allowance"
	"github.com/jkgulay/payroll-system-sub001/internal/domain/attendance"
	"github.com/jkgulay/payroll-system-sub001/internal/domain/contribution"
	"github.com/jkgulay/payroll-system-sub001/internal/domain/employee"
	"github.com/jkgulay/payroll-system-sub001/internal/domain/holiday"
	"github.com/jkgulay/payroll-system-sub001/internal/domain/leave"
	"github.com/jkgulay/payroll-system-sub001/internal/domain/payroll"
	domainTax "github.com/jkgulay/payroll-system-sub001/internal/domain/tax"
	contributionService "github.com/jkgulay/payroll-system-sub001/internal/service/contribution"
	holidayService "github.com/jkgulay/payroll-system-sub001/internal/service/holiday"
	taxService "github.com/jkgulay/payroll-system-sub001/internal/service/tax"
)

// Overtime multipliers, resolved per day. Tie-break order: holiday with OT
// beats rest day with OT beats plain rest day beats plain holiday beats a
// regular working day.
var (
	otMultiplierDefault        = decimal.NewFromFloat(1.25)
	otMultiplierRestOrSpecial  = decimal.NewFromFloat(1.69)
	otMultiplierRegularHoliday = decimal.NewFromFloat(2.6)
	restDayPremiumRate         = decimal.NewFromFloat(0.30)
	nightDiffRate              = decimal.NewFromFloat(0.10)
)

// EarningsInput is everything the aggregator needs for one employee over one
// period, pre-fetched by the orchestrator.
type EarningsInput struct {
	Employee       employee.Employee
	PeriodStart    time.Time
	PeriodEnd      time.Time
	PeriodType     domainTax.PeriodType
	Attendance     []attendance.Attendance // approved rows only
	Calendar       holidayService.Calendar
	Allowances     []allowance.EmployeeAllowance
	MealAllowances []allowance.MealAllowance
	UnpaidLeaves   []leave.Leave
	Rates          map[contribution.Type][]contribution.GovernmentRate
	TaxBrackets    []domainTax.Bracket
	Adjustments    []adjustment.SalaryAdjustment
}

// Aggregator combines attendance totals, holiday multipliers and allowance
// rules into one employee's gross pay and statutory deductions. It performs
// no I/O; persistence and the loan ledger belong to the orchestrator.
type Aggregator struct {
	cfg config.PayrollConfig
}

func NewAggregator(cfg config.PayrollConfig) *Aggregator {
	return &Aggregator{cfg: cfg}
}

// Compute builds an item draft. Loan and scheduled-deduction columns stay
// zero here; FinalizeTotals closes the item once the ledger has run.
func (a *Aggregator) Compute(in EarningsInput) (payroll.Item, error) {
	item := payroll.Item{EmployeeID: in.Employee.ID}
	emp := in.Employee

	qualifying := qualifyingAttendance(in.Attendance)
	if err := a.validateHours(emp, qualifying); err != nil {
		return payroll.Item{}, err
	}

	if emp.RateType == employee.RateTypeDaily && len(qualifying) == 0 {
		return payroll.Item{}, &payroll.ComputationError{
			EmployeeID:   emp.ID,
			EmployeeCode: emp.EmployeeCode,
			Reason:       "daily-rate employee has no qualifying attendance in the period",
		}
	}

	hourly := a.hourlyRate(emp)
	assumedFull := len(qualifying) == 0 // monthly/hourly without attendance

	basic := decimal.Zero
	overtimePay := decimal.Zero
	holidayPay := decimal.Zero
	restDayPay := decimal.Zero
	nightDiffPay := decimal.Zero

	if assumedFull {
		days := a.workingDays(in.PeriodType)
		item.DaysWorked = float64(days)
		item.RegularHours = a.cfg.StandardHoursPerDay * float64(days)
		basic = hourly.Mul(decimal.NewFromFloat(item.RegularHours))
	}

	for _, att := range qualifying {
		regHours := decimal.NewFromFloat(att.RegularHours)
		item.RegularHours += att.RegularHours
		item.OvertimeHours += att.OvertimeHours
		item.NightDiffHours += att.NightDiffHours
		if att.Status == attendance.StatusHalfDay {
			item.DaysWorked += 0.5
		} else {
			item.DaysWorked++
		}

		if emp.RateType == employee.RateTypeDaily {
			basic = basic.Add(emp.DailyRate.Mul(regHours).Div(decimal.NewFromFloat(a.cfg.StandardHoursPerDay)))
		} else {
			basic = basic.Add(hourly.Mul(regHours))
		}

		hol := in.Calendar.Resolve(att.Date)
		restDay := in.Calendar.IsRestDay(att.Date)

		if att.OvertimeHours > 0 {
			mult := overtimeMultiplier(hol, restDay)
			overtimePay = overtimePay.Add(hourly.Mul(decimal.NewFromFloat(att.OvertimeHours)).Mul(mult))
		}

		// Premium-only add-ons: the base hours are already in basic pay.
		if hol != nil {
			mult := in.Calendar.PayMultiplier(*hol, att.Date)
			holidayPay = holidayPay.Add(hourly.Mul(regHours).Mul(mult.Sub(decimal.NewFromInt(1))))
		} else if restDay {
			restDayPay = restDayPay.Add(hourly.Mul(regHours).Mul(restDayPremiumRate))
		}

		if att.NightDiffHours > 0 {
			nightDiffPay = nightDiffPay.Add(hourly.Mul(decimal.NewFromFloat(att.NightDiffHours)).Mul(nightDiffRate))
		}
	}

	item.RegularHours = round2f(item.RegularHours)
	item.OvertimeHours = round2f(item.OvertimeHours)
	item.NightDiffHours = round2f(item.NightDiffHours)

	item.BasicPay = basic.Round(2)
	item.OvertimePay = overtimePay.Round(2)
	item.HolidayPay = holidayPay.Round(2)
	item.RestDayPay = restDayPay.Round(2)
	item.NightDiffPay = nightDiffPay.Round(2)

	taxableAllowances, nonTaxableAllowances := a.allowanceTotals(in, qualifying)
	item.Allowances = taxableAllowances.Add(nonTaxableAllowances).Round(2)
	item.MealAllowance = a.mealAllowanceTotal(in).Round(2)

	for _, adj := range in.Adjustments {
		if adj.Kind == adjustment.KindEarning {
			item.AdjustmentEarnings = item.AdjustmentEarnings.Add(adj.Amount)
		} else {
			item.AdjustmentDeductions = item.AdjustmentDeductions.Add(adj.Amount)
		}
	}
	item.AdjustmentEarnings = item.AdjustmentEarnings.Round(2)
	item.AdjustmentDeductions = item.AdjustmentDeductions.Round(2)

	item.GrossPay = item.BasicPay.
		Add(item.OvertimePay).
		Add(item.HolidayPay).
		Add(item.RestDayPay).
		Add(item.NightDiffPay).
		Add(item.Allowances).
		Add(item.MealAllowance).
		Add(item.AdjustmentEarnings).
		Round(2)

	// Contributions are computed on the full monthly-equivalent rate so that
	// they stay constant regardless of days actually worked, then halved for
	// semi-monthly periods.
	monthly := a.monthlyEquivalent(emp)
	sss := contributionService.ResolveShares(in.Rates[contribution.TypeSSS], monthly, in.PeriodEnd)
	philhealth := contributionService.ResolveShares(in.Rates[contribution.TypePhilHealth], monthly, in.PeriodEnd)
	pagibig := contributionService.ResolveShares(in.Rates[contribution.TypePagIbig], monthly, in.PeriodEnd)
	if in.PeriodType == domainTax.PeriodSemiMonthly {
		sss = halveShares(sss)
		philhealth = halveShares(philhealth)
		pagibig = halveShares(pagibig)
	}
	item.SSSEmployee, item.SSSEmployer = sss.Employee, sss.Employer
	item.PhilHealthEmployee, item.PhilHealthEmployer = philhealth.Employee, philhealth.Employer
	item.PagIbigEmployee, item.PagIbigEmployer = pagibig.Employee, pagibig.Employer

	taxable := item.GrossPay.
		Sub(nonTaxableAllowances).
		Sub(item.MealAllowance).
		Sub(item.EmployeeContributions())
	if taxable.IsNegative() {
		taxable = decimal.Zero
	}
	item.WithholdingTax = taxService.Withhold(taxable, in.TaxBrackets)

	item.UnpaidLeaveDeduction = a.unpaidLeaveDeduction(emp, in).Round(2)

	FinalizeTotals(&item)
	return item, nil
}

// FinalizeTotals recomputes the dependent totals after any deduction column
// changes. Net pay is gross minus total deductions by construction.
func FinalizeTotals(item *payroll.Item) {
	item.TotalDeductions = item.EmployeeContributions().
		Add(item.WithholdingTax).
		Add(item.LoanDeductions).
		Add(item.OtherDeductions).
		Add(item.UnpaidLeaveDeduction).
		Add(item.AdjustmentDeductions).
		Round(2)
	item.NetPay = item.GrossPay.Sub(item.TotalDeductions)
}

func qualifyingAttendance(rows []attendance.Attendance) []attendance.Attendance {
	var result []attendance.Attendance
	for _, att := range rows {
		if att.ApprovalStatus == attendance.ApprovalApproved && att.Payable() {
			result = append(result, att)
		}
	}
	return result
}

func (a *Aggregator) validateHours(emp employee.Employee, rows []attendance.Attendance) error {
	for _, att := range rows {
		for _, v := range []float64{att.RegularHours, att.OvertimeHours, att.NightDiffHours, att.LateHours, att.UndertimeHours} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return &payroll.ComputationError{
					EmployeeID:   emp.ID,
					EmployeeCode: emp.EmployeeCode,
					Reason:       "attendance on " + att.Date.Format("2006-01-02") + " carries a non-finite hour total",
				}
			}
		}
	}
	return nil
}

func overtimeMultiplier(hol *holiday.Holiday, restDay bool) decimal.Decimal {
	switch {
	case hol != nil && hol.Type == holiday.TypeRegular:
		return otMultiplierRegularHoliday
	case hol != nil || restDay:
		return otMultiplierRestOrSpecial
	default:
		return otMultiplierDefault
	}
}

func (a *Aggregator) workingDays(period domainTax.PeriodType) int {
	if period == domainTax.PeriodMonthly {
		return a.cfg.WorkingDaysPerMonth
	}
	return a.cfg.WorkingDaysPerSemiMonth
}

// hourlyRate derives the rate used for overtime, premiums and night
// differential from the employee's rate type.
func (a *Aggregator) hourlyRate(emp employee.Employee) decimal.Decimal {
	standardHours := decimal.NewFromFloat(a.cfg.StandardHoursPerDay)
	switch emp.RateType {
	case employee.RateTypeHourly:
		return emp.HourlyRate
	case employee.RateTypeDaily:
		return emp.DailyRate.Div(standardHours)
	default:
		days := decimal.NewFromInt(int64(a.cfg.WorkingDaysPerMonth))
		return emp.MonthlyRate.Div(days.Mul(standardHours))
	}
}

func (a *Aggregator) dailyRate(emp employee.Employee) decimal.Decimal {
	switch emp.RateType {
	case employee.RateTypeDaily:
		return emp.DailyRate
	case employee.RateTypeMonthly:
		return emp.MonthlyRate.Div(decimal.NewFromInt(int64(a.cfg.WorkingDaysPerMonth)))
	default:
		return emp.HourlyRate.Mul(decimal.NewFromFloat(a.cfg.StandardHoursPerDay))
	}
}

func (a *Aggregator) monthlyEquivalent(emp employee.Employee) decimal.Decimal {
	switch emp.RateType {
	case employee.RateTypeMonthly:
		return emp.MonthlyRate
	case employee.RateTypeDaily:
		return emp.DailyRate.Mul(decimal.NewFromInt(int64(a.cfg.WorkingDaysPerMonth)))
	default:
		return emp.HourlyRate.
			Mul(decimal.NewFromFloat(a.cfg.StandardHoursPerDay)).
			Mul(decimal.NewFromInt(int64(a.cfg.WorkingDaysPerMonth)))
	}
}

// allowanceTotals scales each grant by its frequency for the period length
// and splits taxable from non-taxable.
func (a *Aggregator) allowanceTotals(in EarningsInput, qualifying []attendance.Attendance) (taxable, nonTaxable decimal.Decimal) {
	taxable, nonTaxable = decimal.Zero, decimal.Zero

	workedDays := a.allowanceDays(in, qualifying)
	monthlyPeriod := in.PeriodType == domainTax.PeriodMonthly

	for _, grant := range in.Allowances {
		if !grant.CoversPeriod(in.PeriodStart, in.PeriodEnd) {
			continue
		}
		amount := decimal.Zero
		switch grant.Frequency {
		case allowance.FrequencyDaily:
			amount = grant.Amount.Mul(decimal.NewFromInt(int64(workedDays)))
		case allowance.FrequencyWeekly:
			factor := decimal.NewFromFloat(a.cfg.WeeklyAllowanceFactor)
			if monthlyPeriod {
				factor = factor.Mul(decimal.NewFromInt(2))
			}
			amount = grant.Amount.Mul(factor)
		case allowance.FrequencySemiMonthly:
			amount = grant.Amount
			if monthlyPeriod {
				amount = amount.Mul(decimal.NewFromInt(2))
			}
		case allowance.FrequencyMonthly:
			amount = grant.Amount
			if !monthlyPeriod {
				amount = amount.Div(decimal.NewFromInt(2))
			}
		}
		amount = amount.Round(2)
		if grant.IsTaxable {
			taxable = taxable.Add(amount)
		} else {
			nonTaxable = nonTaxable.Add(amount)
		}
	}
	return taxable, nonTaxable
}

// allowanceDays counts the days a daily allowance is granted for: actual
// worked days excluding Sundays, or the configured working days when the
// employee is assumed fully worked.
func (a *Aggregator) allowanceDays(in EarningsInput, qualifying []attendance.Attendance) int {
	if len(qualifying) == 0 {
		return a.workingDays(in.PeriodType)
	}
	days := 0
	for _, att := range qualifying {
		if att.Date.Weekday() != time.Sunday {
			days++
		}
	}
	return days
}

// mealAllowanceTotal grants each approved batch in full, pro-rated by
// day-overlap with the payroll window only when the batch window is strictly
// longer than the proration floor.
func (a *Aggregator) mealAllowanceTotal(in EarningsInput) decimal.Decimal {
	total := decimal.Zero
	for _, meal := range in.MealAllowances {
		if meal.Status != allowance.MealAllowanceApproved {
			continue
		}
		overlap := overlapDays(meal.StartDate, meal.EndDate, in.PeriodStart, in.PeriodEnd)
		if overlap == 0 {
			continue
		}
		windowDays := meal.WindowDays()
		if windowDays > a.cfg.MealProrationFloorDays {
			total = total.Add(meal.Amount.
				Mul(decimal.NewFromInt(int64(overlap))).
				Div(decimal.NewFromInt(int64(windowDays))))
		} else {
			total = total.Add(meal.Amount)
		}
	}
	return total
}

func (a *Aggregator) unpaidLeaveDeduction(emp employee.Employee, in EarningsInput) decimal.Decimal {
	total := decimal.Zero
	daily := a.dailyRate(emp)
	for _, l := range in.UnpaidLeaves {
		if l.Status != leave.StatusApproved || l.IsPaid {
			continue
		}
		days := l.OverlapDays(in.PeriodStart, in.PeriodEnd)
		if days > 0 {
			total = total.Add(daily.Mul(decimal.NewFromInt(int64(days))))
		}
	}
	return total
}

func halveShares(s contribution.Shares) contribution.Shares {
	two := decimal.NewFromInt(2)
	return contribution.Shares{
		Employee: s.Employee.Div(two).Round(2),
		Employer: s.Employer.Div(two).Round(2),
		Total:    s.Total.Div(two).Round(2),
	}
}

func overlapDays(aStart, aEnd, bStart, bEnd time.Time) int {
	start := aStart
	if bStart.After(start) {
		start = bStart
	}
	end := aEnd
	if bEnd.Before(end) {
		end = bEnd
	}
	if end.Before(start) {
		return 0
	}
	return int(end.Sub(start).Hours()/24) + 1
}

func round2f(v float64) float64 {
	return math.Round(v*100) / 100
}
