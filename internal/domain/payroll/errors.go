package payroll

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrPayrollNotFound      = errors.New("payroll not found")
	ErrPayrollNotDraft      = errors.New("payroll is not in draft state")
	ErrPayrollFinalized     = errors.New("payroll is finalized, items can no longer change")
	ErrPayrollNotFinalized  = errors.New("payroll must be finalized first")
	ErrPayrollPaid          = errors.New("payroll is paid and can never be reversed")
	ErrItemsAlreadyExist    = errors.New("payroll already has items, use reprocess instead")
	ErrItemExists           = errors.New("payroll item already exists for this employee")
	ErrInvalidPeriod        = errors.New("invalid payroll period")
	ErrPeriodOverlap        = errors.New("a payroll already covers part of this period")
	ErrPayrollCancelled     = errors.New("payroll is cancelled")
	ErrCancelReasonRequired = errors.New("cancel reason is required")
)

// ComputationError marks a per-employee failure that aborts the whole batch.
type ComputationError struct {
	EmployeeID   string
	EmployeeCode string
	Reason       string
}

func (e *ComputationError) Error() string {
	return fmt.Sprintf("payroll computation failed for employee %s (%s): %s", e.EmployeeCode, e.EmployeeID, e.Reason)
}

// IncompleteRecord identifies one attendance row blocking payroll creation.
type IncompleteRecord struct {
	AttendanceID string `json:"attendance_id"`
	EmployeeID   string `json:"employee_id"`
	Date         string `json:"date"`
	Problem      string `json:"problem"`
}

// IncompleteAttendanceError carries the structured list of offending records
// surfaced to the caller when create runs without force.
type IncompleteAttendanceError struct {
	Records []IncompleteRecord
}

func (e *IncompleteAttendanceError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d attendance record(s) are incomplete", len(e.Records))
	for i, r := range e.Records {
		if i == 3 {
			b.WriteString(", ...")
			break
		}
		fmt.Fprintf(&b, "; employee %s on %s: %s", r.EmployeeID, r.Date, r.Problem)
	}
	return b.String()
}
