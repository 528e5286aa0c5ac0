package schedule

import "errors"

// Domain errors for schedule construction.
var (
	ErrInvalidDayOfWeek  = errors.New("day of week must be between 0 (Sunday) and 6 (Saturday)")
	ErrInvalidTimeFormat = errors.New("time must use the HH:MM 24h format")
	ErrEndBeforeStart    = errors.New("end time must be after start time")
)
