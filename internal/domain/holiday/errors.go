package holiday

import "errors"

var (
	ErrHolidayNotFound = errors.New("holiday not found")
	ErrInvalidType     = errors.New("holiday type must be 'regular' or 'special'")
)
