package tax

import "errors"

var (
	ErrBracketNotFound   = errors.New("tax bracket not found")
	ErrInvalidPeriodType = errors.New("period type must be monthly, semi_monthly or annual")
)
