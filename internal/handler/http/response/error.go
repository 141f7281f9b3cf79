package response

import (
	"errors"
	"net/http"

	"github.com/jkgulay/payroll-system-sub001/internal/domain/adjustment"
	"github.com/jkgulay/payroll-system-sub001/internal/domain/allowance"
	"github.com/jkgulay/payroll-system-sub001/internal/domain/attendance"
	"github.com/jkgulay/payroll-system-sub001/internal/domain/contribution"
	"github.com/jkgulay/payroll-system-sub001/internal/domain/employee"
	"github.com/jkgulay/payroll-system-sub001/internal/domain/holiday"
	"github.com/jkgulay/payroll-system-sub001/internal/domain/loan"
	"github.com/jkgulay/payroll-system-sub001/internal/domain/payroll"
	"github.com/jkgulay/payroll-system-sub001/internal/domain/tax"
	"github.com/jkgulay/payroll-system-sub001/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	var incomplete *payroll.IncompleteAttendanceError
	if errors.As(err, &incomplete) {
		UnprocessableWithRecords(w, "INCOMPLETE_ATTENDANCE", incomplete.Error(), incomplete.Records)
		return
	}

	var computation *payroll.ComputationError
	if errors.As(err, &computation) {
		UnprocessableWithRecords(w, "COMPUTATION_FAILED", computation.Error(), nil)
		return
	}

	switch {
	// Payroll lifecycle
	case errors.Is(err, payroll.ErrPayrollNotFound):
		NotFound(w, "Payroll not found")
	case errors.Is(err, payroll.ErrPeriodOverlap):
		Conflict(w, "A payroll already covers part of this period")
	case errors.Is(err, payroll.ErrItemsAlreadyExist):
		Conflict(w, "Payroll already has items, use reprocess instead")
	case errors.Is(err, payroll.ErrItemExists):
		Conflict(w, "Payroll item already exists for this employee")
	case errors.Is(err, payroll.ErrPayrollNotDraft):
		Conflict(w, "Payroll is not in draft state")
	case errors.Is(err, payroll.ErrPayrollNotFinalized):
		Conflict(w, "Payroll must be finalized first")
	case errors.Is(err, payroll.ErrPayrollFinalized):
		Conflict(w, "Payroll is finalized, items can no longer change")
	case errors.Is(err, payroll.ErrPayrollPaid):
		Conflict(w, "Payroll is paid and can never be reversed")
	case errors.Is(err, payroll.ErrPayrollCancelled):
		Conflict(w, "Payroll is cancelled")
	case errors.Is(err, payroll.ErrCancelReasonRequired):
		BadRequest(w, "Cancel reason is required", nil)
	case errors.Is(err, payroll.ErrInvalidPeriod):
		BadRequest(w, "Invalid payroll period", nil)

	// Attendance
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, attendance.ErrAttendanceExists):
		Conflict(w, "Attendance record already exists for this date")
	case errors.Is(err, attendance.ErrAttendanceLocked):
		Conflict(w, "Attendance is referenced by a finalized payroll")
	case errors.Is(err, attendance.ErrAttendanceAlreadyFinal):
		Conflict(w, "Attendance approval already decided")
	case errors.Is(err, attendance.ErrInvalidApprovalDecision):
		BadRequest(w, "Decision must be 'approve' or 'reject'", nil)

	// Employees
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrNoRateConfigured):
		Conflict(w, "Employee has no rate configured")

	// Reference tables
	case errors.Is(err, holiday.ErrHolidayNotFound):
		NotFound(w, "Holiday not found")
	case errors.Is(err, contribution.ErrRateNotFound):
		NotFound(w, "Government rate not found")
	case errors.Is(err, tax.ErrBracketNotFound):
		NotFound(w, "Tax bracket not found")

	// Money instruments
	case errors.Is(err, loan.ErrLoanNotFound):
		NotFound(w, "Loan not found")
	case errors.Is(err, loan.ErrDeductionNotFound):
		NotFound(w, "Deduction not found")
	case errors.Is(err, adjustment.ErrAdjustmentNotFound):
		NotFound(w, "Salary adjustment not found")
	case errors.Is(err, adjustment.ErrAlreadyApplied):
		Conflict(w, "Salary adjustment already applied by a payroll")
	case errors.Is(err, allowance.ErrAllowanceNotFound):
		NotFound(w, "Allowance not found")
	case errors.Is(err, allowance.ErrMealAllowanceNotFound):
		NotFound(w, "Meal allowance not found")

	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
