package schedule

import "errors"

var (
	ErrHolidayExists          = errors.New("holiday already exists for this date")
	ErrWeeklyOffConfigInvalid = errors.New("weekly off config is invalid")
)
