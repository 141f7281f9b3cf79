package allowance

import "errors"

var (
	ErrAllowanceNotFound     = errors.New("allowance not found")
	ErrMealAllowanceNotFound = errors.New("meal allowance not found")
)
