package contribution

import "errors"

var (
	ErrRateNotFound       = errors.New("government rate not found")
	ErrInvalidType        = errors.New("contribution type must be sss, philhealth or pagibig")
	ErrInvalidSalaryRange = errors.New("min_salary must not exceed max_salary")
)
