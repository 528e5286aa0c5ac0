// Package schedule provides domain logic for provider availability windows.
package schedule

import (
	"regexp"
	"time"

	"github.com/google/uuid"
)

// DayOfWeek is the weekday of a schedule row, Sunday first.
type DayOfWeek int

// Days of the week.
const (
	Sunday DayOfWeek = iota
	Monday
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
)

// IsValid reports whether d lies in [Sunday, Saturday].
func (d DayOfWeek) IsValid() bool {
	return d >= Sunday && d <= Saturday
}

// String returns the English weekday name.
func (d DayOfWeek) String() string {
	if !d.IsValid() {
		return "Invalid"
	}
	return time.Weekday(d).String()
}

// timeOfDay matches a zero-padded 24h "HH:MM" clock value. With this format
// plain string comparison orders values chronologically.
var timeOfDay = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

// IsTimeOfDay reports whether s is a zero-padded 24h "HH:MM" value.
func IsTimeOfDay(s string) bool {
	return timeOfDay.MatchString(s)
}

// Schedule is an availability window of a provider on one weekday.
type Schedule struct {
	id          uuid.UUID
	providerID  uuid.UUID
	dayOfWeek   DayOfWeek
	startTime   string
	endTime     string
	isAvailable bool
	createdAt   time.Time
}

// NewSchedule creates an available schedule row.
func NewSchedule(providerID uuid.UUID, day DayOfWeek, startTime, endTime string) (*Schedule, error) {
	if !day.IsValid() {
		return nil, ErrInvalidDayOfWeek
	}
	if !IsTimeOfDay(startTime) || !IsTimeOfDay(endTime) {
		return nil, ErrInvalidTimeFormat
	}
	if endTime <= startTime {
		return nil, ErrEndBeforeStart
	}

	return &Schedule{
		id:          uuid.New(),
		providerID:  providerID,
		dayOfWeek:   day,
		startTime:   startTime,
		endTime:     endTime,
		isAvailable: true,
		createdAt:   time.Now().UTC(),
	}, nil
}

// ReconstructSchedule reconstructs a Schedule from persistence data.
func ReconstructSchedule(
	id, providerID uuid.UUID,
	day DayOfWeek,
	startTime, endTime string,
	isAvailable bool,
	createdAt time.Time,
) *Schedule {
	return &Schedule{
		id:          id,
		providerID:  providerID,
		dayOfWeek:   day,
		startTime:   startTime,
		endTime:     endTime,
		isAvailable: isAvailable,
		createdAt:   createdAt,
	}
}

// ID returns the schedule ID.
func (s *Schedule) ID() uuid.UUID { return s.id }

// ProviderID returns the owning provider.
func (s *Schedule) ProviderID() uuid.UUID { return s.providerID }

// DayOfWeek returns the weekday.
func (s *Schedule) DayOfWeek() DayOfWeek { return s.dayOfWeek }

// StartTime returns the "HH:MM" start.
func (s *Schedule) StartTime() string { return s.startTime }

// EndTime returns the "HH:MM" end.
func (s *Schedule) EndTime() string { return s.endTime }

// IsAvailable returns whether the window is bookable.
func (s *Schedule) IsAvailable() bool { return s.isAvailable }

// CreatedAt returns the creation timestamp.
func (s *Schedule) CreatedAt() time.Time { return s.createdAt }
