package attendance

import (
	"time"

	"github.com/jkgulay/payroll-system-sub001/internal/pkg/validator"
)

type UpsertAttendanceRequest struct {
	EmployeeID string  `json:"employee_id"`
	Date       string  `json:"date"`
	TimeIn     *string `json:"time_in,omitempty"`
	TimeOut    *string `json:"time_out,omitempty"`
	BreakStart *string `json:"break_start,omitempty"`
	BreakEnd   *string `json:"break_end,omitempty"`
	OTTimeIn   *string `json:"ot_time_in,omitempty"`
	OTTimeOut  *string `json:"ot_time_out,omitempty"`
	OTTimeIn2  *string `json:"ot_time_in_2,omitempty"`
	OTTimeOut2 *string `json:"ot_time_out_2,omitempty"`
	Status     *string `json:"status,omitempty"`
}

func (r *UpsertAttendanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "is required"})
	}
	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{Field: "date", Message: "must be YYYY-MM-DD"})
	}
	for field, value := range map[string]*string{
		"time_in": r.TimeIn, "time_out": r.TimeOut,
		"break_start": r.BreakStart, "break_end": r.BreakEnd,
		"ot_time_in": r.OTTimeIn, "ot_time_out": r.OTTimeOut,
		"ot_time_in_2": r.OTTimeIn2, "ot_time_out_2": r.OTTimeOut2,
	} {
		if value != nil {
			if _, ok := validator.IsValidClockTime(*value); !ok {
				errs = append(errs, validator.ValidationError{Field: field, Message: "must be HH:MM or HH:MM:SS"})
			}
		}
	}
	if r.Status != nil {
		switch Status(*r.Status) {
		case StatusPresent, StatusAbsent, StatusHalfDay, StatusLate, StatusHoliday, StatusLeave:
		default:
			errs = append(errs, validator.ValidationError{Field: "status", Message: "is not a valid attendance status"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type AttendanceResponse struct {
	ID             string   `json:"id"`
	EmployeeID     string   `json:"employee_id"`
	Date           string   `json:"date"`
	TimeIn         *string  `json:"time_in,omitempty"`
	TimeOut        *string  `json:"time_out,omitempty"`
	BreakStart     *string  `json:"break_start,omitempty"`
	BreakEnd       *string  `json:"break_end,omitempty"`
	OTTimeIn       *string  `json:"ot_time_in,omitempty"`
	OTTimeOut      *string  `json:"ot_time_out,omitempty"`
	OTTimeIn2      *string  `json:"ot_time_in_2,omitempty"`
	OTTimeOut2     *string  `json:"ot_time_out_2,omitempty"`
	RegularHours   float64  `json:"regular_hours"`
	OvertimeHours  float64  `json:"overtime_hours"`
	NightDiffHours float64  `json:"night_diff_hours"`
	LateHours      float64  `json:"late_hours"`
	UndertimeHours float64  `json:"undertime_hours"`
	Status         string   `json:"status"`
	IsHoliday      bool     `json:"is_holiday"`
	HolidayType    *string  `json:"holiday_type,omitempty"`
	ApprovalStatus string   `json:"approval_status"`
}

type ListAttendanceResponse struct {
	TotalCount  int64                `json:"total_count"`
	Page        int                  `json:"page"`
	Limit       int                  `json:"limit"`
	Attendances []AttendanceResponse `json:"attendances"`
}

func clockString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format("15:04")
	return &s
}

func MapToResponse(att Attendance) AttendanceResponse {
	return AttendanceResponse{
		ID:             att.ID,
		EmployeeID:     att.EmployeeID,
		Date:           att.Date.Format("2006-01-02"),
		TimeIn:         clockString(att.TimeIn),
		TimeOut:        clockString(att.TimeOut),
		BreakStart:     clockString(att.BreakStart),
		BreakEnd:       clockString(att.BreakEnd),
		OTTimeIn:       clockString(att.OTTimeIn),
		OTTimeOut:      clockString(att.OTTimeOut),
		OTTimeIn2:      clockString(att.OTTimeIn2),
		OTTimeOut2:     clockString(att.OTTimeOut2),
		RegularHours:   att.RegularHours,
		OvertimeHours:  att.OvertimeHours,
		NightDiffHours: att.NightDiffHours,
		LateHours:      att.LateHours,
		UndertimeHours: att.UndertimeHours,
		Status:         string(att.Status),
		IsHoliday:      att.IsHoliday,
		HolidayType:    att.HolidayType,
		ApprovalStatus: string(att.ApprovalStatus),
	}
}
