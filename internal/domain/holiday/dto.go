package holiday

import (
	"github.com/jkgulay/payroll-system-sub001/internal/pkg/validator"
)

type UpsertHolidayRequest struct {
	Name        string `json:"name"`
	Date        string `json:"date"`
	Type        string `json:"type"`
	IsRecurring bool   `json:"is_recurring"`
	IsActive    *bool  `json:"is_active,omitempty"`
}

func (r *UpsertHolidayRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "is required"})
	}
	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{Field: "date", Message: "must be YYYY-MM-DD"})
	}
	switch Type(r.Type) {
	case TypeRegular, TypeSpecial:
	default:
		errs = append(errs, validator.ValidationError{Field: "type", Message: "must be 'regular' or 'special'"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type HolidayResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Date        string `json:"date"`
	Type        string `json:"type"`
	IsRecurring bool   `json:"is_recurring"`
	IsActive    bool   `json:"is_active"`
}

func MapToResponse(h Holiday) HolidayResponse {
	return HolidayResponse{
		ID:          h.ID,
		Name:        h.Name,
		Date:        h.Date.Format("2006-01-02"),
		Type:        string(h.Type),
		IsRecurring: h.IsRecurring,
		IsActive:    h.IsActive,
	}
}
