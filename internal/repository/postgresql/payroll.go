package postgresql

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jkgulay/payroll-system-sub001/internal/domain/payroll"
	"github.com/jkgulay/payroll-system-sub001/internal/pkg/database"
)

type payrollRepository struct {
	db *database.DB
}

func NewPayrollRepository(db *database.DB) payroll.PayrollRepository {
	return &payrollRepository{db: db}
}

const payrollColumns = `
	id, period_start, period_end, payment_date, period_type, status,
	total_gross, total_deductions, total_net, employee_count, cancel_reason,
	created_by, finalized_by, finalized_at, paid_by, paid_at,
	created_at, updated_at`

func scanPayroll(row pgx.Row) (payroll.Payroll, error) {
	var p payroll.Payroll
	err := row.Scan(
		&p.ID, &p.PeriodStart, &p.PeriodEnd, &p.PaymentDate, &p.PeriodType, &p.Status,
		&p.TotalGross, &p.TotalDeductions, &p.TotalNet, &p.EmployeeCount, &p.CancelReason,
		&p.CreatedBy, &p.FinalizedBy, &p.FinalizedAt, &p.PaidBy, &p.PaidAt,
		&p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}

// Create implements payroll.PayrollRepository.
func (r *payrollRepository) Create(ctx context.Context, p payroll.Payroll) (payroll.Payroll, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payrolls (
			period_start, period_end, payment_date, period_type, status,
			total_gross, total_deductions, total_net, employee_count, created_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		p.PeriodStart, p.PeriodEnd, p.PaymentDate, p.PeriodType, p.Status,
		p.TotalGross, p.TotalDeductions, p.TotalNet, p.EmployeeCount, p.CreatedBy,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return payroll.Payroll{}, fmt.Errorf("failed to create payroll: %w", err)
	}
	return p, nil
}

// GetByID implements payroll.PayrollRepository.
func (r *payrollRepository) GetByID(ctx context.Context, id string) (payroll.Payroll, error) {
	q := GetQuerier(ctx, r.db)

	p, err := scanPayroll(q.QueryRow(ctx, `SELECT `+payrollColumns+` FROM payrolls WHERE id = $1`, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.Payroll{}, payroll.ErrPayrollNotFound
		}
		return payroll.Payroll{}, fmt.Errorf("failed to get payroll: %w", err)
	}
	return p, nil
}

// GetForUpdate implements payroll.PayrollRepository.
func (r *payrollRepository) GetForUpdate(ctx context.Context, id string) (payroll.Payroll, error) {
	q := GetQuerier(ctx, r.db)

	p, err := scanPayroll(q.QueryRow(ctx, `SELECT `+payrollColumns+` FROM payrolls WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.Payroll{}, payroll.ErrPayrollNotFound
		}
		return payroll.Payroll{}, fmt.Errorf("failed to lock payroll: %w", err)
	}
	return p, nil
}

// Update implements payroll.PayrollRepository.
func (r *payrollRepository) Update(ctx context.Context, p payroll.Payroll) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE payrolls SET
			status = $1, total_gross = $2, total_deductions = $3, total_net = $4,
			employee_count = $5, cancel_reason = $6, finalized_by = $7,
			finalized_at = $8, paid_by = $9, paid_at = $10, updated_at = NOW()
		WHERE id = $11
	`

	tag, err := q.Exec(ctx, query,
		p.Status, p.TotalGross, p.TotalDeductions, p.TotalNet,
		p.EmployeeCount, p.CancelReason, p.FinalizedBy,
		p.FinalizedAt, p.PaidBy, p.PaidAt, p.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update payroll: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return payroll.ErrPayrollNotFound
	}
	return nil
}

// Delete implements payroll.PayrollRepository.
func (r *payrollRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM payrolls WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete payroll: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return payroll.ErrPayrollNotFound
	}
	return nil
}

// List implements payroll.PayrollRepository.
func (r *payrollRepository) List(ctx context.Context, filter payroll.Filter) ([]payroll.Payroll, int64, error) {
	q := GetQuerier(ctx, r.db)

	where := " WHERE 1=1"
	args := []any{}
	argNum := 1

	if filter.Status != "" {
		where += " AND status = $" + strconv.Itoa(argNum)
		args = append(args, filter.Status)
		argNum++
	}
	if filter.Year != 0 {
		where += " AND EXTRACT(YEAR FROM period_start) = $" + strconv.Itoa(argNum)
		args = append(args, filter.Year)
		argNum++
	}

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM payrolls"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count payrolls: %w", err)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	page := filter.Page
	if page <= 0 {
		page = 1
	}
	offset := (page - 1) * limit

	query := `SELECT ` + payrollColumns + ` FROM payrolls` + where +
		" ORDER BY period_start DESC LIMIT $" + strconv.Itoa(argNum) +
		" OFFSET $" + strconv.Itoa(argNum+1)
	args = append(args, limit, offset)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list payrolls: %w", err)
	}
	defer rows.Close()

	var payrolls []payroll.Payroll
	for rows.Next() {
		p, err := scanPayroll(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan payroll: %w", err)
		}
		payrolls = append(payrolls, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate payrolls: %w", err)
	}
	return payrolls, total, nil
}

// HasOverlapping implements payroll.PayrollRepository. Cancelled payrolls do
// not block a new run over the same period.
func (r *payrollRepository) HasOverlapping(ctx context.Context, start, end time.Time, excludeID string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS (
			SELECT 1 FROM payrolls
			WHERE status <> 'cancelled'
			  AND period_start <= $2
			  AND period_end >= $1
			  AND ($3 = '' OR id::text <> $3)
		)
	`

	var exists bool
	if err := q.QueryRow(ctx, query, start, end, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check overlapping payroll: %w", err)
	}
	return exists, nil
}

const itemColumns = `
	pi.id, pi.payroll_id, pi.employee_id,
	pi.days_worked, pi.regular_hours, pi.overtime_hours, pi.night_diff_hours,
	pi.basic_pay, pi.overtime_pay, pi.holiday_pay, pi.rest_day_pay, pi.night_diff_pay,
	pi.allowances, pi.meal_allowance, pi.adjustment_earnings, pi.gross_pay,
	pi.sss_employee, pi.sss_employer, pi.philhealth_employee, pi.philhealth_employer,
	pi.pagibig_employee, pi.pagibig_employer, pi.withholding_tax,
	pi.loan_deductions, pi.other_deductions, pi.unpaid_leave_deduction,
	pi.adjustment_deductions, pi.total_deductions, pi.net_pay,
	pi.created_at, pi.updated_at`

// CreateItem implements payroll.PayrollRepository. The caller assigns the ID
// up front so ledger payment rows can reference the item within the same
// transaction.
func (r *payrollRepository) CreateItem(ctx context.Context, item payroll.Item) (payroll.Item, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payroll_items (
			id, payroll_id, employee_id,
			days_worked, regular_hours, overtime_hours, night_diff_hours,
			basic_pay, overtime_pay, holiday_pay, rest_day_pay, night_diff_pay,
			allowances, meal_allowance, adjustment_earnings, gross_pay,
			sss_employee, sss_employer, philhealth_employee, philhealth_employer,
			pagibig_employee, pagibig_employer, withholding_tax,
			loan_deductions, other_deductions, unpaid_leave_deduction,
			adjustment_deductions, total_deductions, net_pay
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
			$16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28, $29
		)
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		item.ID, item.PayrollID, item.EmployeeID,
		item.DaysWorked, item.RegularHours, item.OvertimeHours, item.NightDiffHours,
		item.BasicPay, item.OvertimePay, item.HolidayPay, item.RestDayPay, item.NightDiffPay,
		item.Allowances, item.MealAllowance, item.AdjustmentEarnings, item.GrossPay,
		item.SSSEmployee, item.SSSEmployer, item.PhilHealthEmployee, item.PhilHealthEmployer,
		item.PagIbigEmployee, item.PagIbigEmployer, item.WithholdingTax,
		item.LoanDeductions, item.OtherDeductions, item.UnpaidLeaveDeduction,
		item.AdjustmentDeductions, item.TotalDeductions, item.NetPay,
	).Scan(&item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return payroll.Item{}, payroll.ErrItemExists
		}
		return payroll.Item{}, fmt.Errorf("failed to create payroll item: %w", err)
	}
	return item, nil
}

// CountItems implements payroll.PayrollRepository.
func (r *payrollRepository) CountItems(ctx context.Context, payrollID string) (int, error) {
	q := GetQuerier(ctx, r.db)

	var count int
	err := q.QueryRow(ctx, `SELECT COUNT(*) FROM payroll_items WHERE payroll_id = $1`, payrollID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count payroll items: %w", err)
	}
	return count, nil
}

// ItemExists implements payroll.PayrollRepository.
func (r *payrollRepository) ItemExists(ctx context.Context, payrollID, employeeID string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var exists bool
	err := q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM payroll_items WHERE payroll_id = $1 AND employee_id = $2)`,
		payrollID, employeeID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check payroll item: %w", err)
	}
	return exists, nil
}

// ListItems implements payroll.PayrollRepository.
func (r *payrollRepository) ListItems(ctx context.Context, payrollID string) ([]payroll.Item, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + itemColumns + `, e.first_name || ' ' || e.last_name AS employee_name, e.employee_code
		FROM payroll_items pi
		JOIN employees e ON e.id = pi.employee_id
		WHERE pi.payroll_id = $1
		ORDER BY e.employee_code`

	rows, err := q.Query(ctx, query, payrollID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll items: %w", err)
	}
	defer rows.Close()

	var items []payroll.Item
	for rows.Next() {
		var item payroll.Item
		if err := rows.Scan(
			&item.ID, &item.PayrollID, &item.EmployeeID,
			&item.DaysWorked, &item.RegularHours, &item.OvertimeHours, &item.NightDiffHours,
			&item.BasicPay, &item.OvertimePay, &item.HolidayPay, &item.RestDayPay, &item.NightDiffPay,
			&item.Allowances, &item.MealAllowance, &item.AdjustmentEarnings, &item.GrossPay,
			&item.SSSEmployee, &item.SSSEmployer, &item.PhilHealthEmployee, &item.PhilHealthEmployer,
			&item.PagIbigEmployee, &item.PagIbigEmployer, &item.WithholdingTax,
			&item.LoanDeductions, &item.OtherDeductions, &item.UnpaidLeaveDeduction,
			&item.AdjustmentDeductions, &item.TotalDeductions, &item.NetPay,
			&item.CreatedAt, &item.UpdatedAt,
			&item.EmployeeName, &item.EmployeeCode,
		); err != nil {
			return nil, fmt.Errorf("failed to scan payroll item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payroll items: %w", err)
	}
	return items, nil
}

// DeleteItems implements payroll.PayrollRepository.
func (r *payrollRepository) DeleteItems(ctx context.Context, payrollID string) error {
	q := GetQuerier(ctx, r.db)

	if _, err := q.Exec(ctx, `DELETE FROM payroll_items WHERE payroll_id = $1`, payrollID); err != nil {
		return fmt.Errorf("failed to delete payroll items: %w", err)
	}
	return nil
}
