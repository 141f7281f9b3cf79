package attendance

import "errors"

var (
	ErrAttendanceNotFound      = errors.New("attendance record not found")
	ErrAttendanceExists        = errors.New("attendance record already exists for this date")
	ErrAttendanceLocked        = errors.New("attendance is referenced by a finalized payroll and cannot be deleted")
	ErrAttendanceNotApproved   = errors.New("attendance record is not approved")
	ErrMissingPunches          = errors.New("attendance record is missing time-in or time-out")
	ErrAttendanceAlreadyFinal  = errors.New("attendance approval already decided")
	ErrInvalidApprovalDecision = errors.New("invalid approval decision")
)
