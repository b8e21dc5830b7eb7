package calendar

import "errors"

var (
	ErrInvalidRange    = errors.New("end date is before start date")
	ErrHolidayNotFound = errors.New("holiday not found")
)
