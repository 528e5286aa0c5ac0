package schedule_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mutugading/marketplace-backend/internal/domain/schedule"
)

func TestNewSchedule(t *testing.T) {
	providerID := uuid.New()

	t.Run("success - defaults to available", func(t *testing.T) {
		s, err := schedule.NewSchedule(providerID, schedule.Monday, "10:00", "11:00")

		require.NoError(t, err)
		assert.Equal(t, providerID, s.ProviderID())
		assert.Equal(t, schedule.Monday, s.DayOfWeek())
		assert.Equal(t, "10:00", s.StartTime())
		assert.Equal(t, "11:00", s.EndTime())
		assert.True(t, s.IsAvailable())
	})

	tests := []struct {
		name    string
		day     schedule.DayOfWeek
		start   string
		end     string
		wantErr error
	}{
		{"end before start", schedule.Monday, "10:00", "09:00", schedule.ErrEndBeforeStart},
		{"end equals start", schedule.Monday, "10:00", "10:00", schedule.ErrEndBeforeStart},
		{"day below range", schedule.DayOfWeek(-1), "10:00", "11:00", schedule.ErrInvalidDayOfWeek},
		{"day above range", schedule.DayOfWeek(7), "10:00", "11:00", schedule.ErrInvalidDayOfWeek},
		{"unpadded time", schedule.Friday, "9:5", "10:00", schedule.ErrInvalidTimeFormat},
		{"hour out of range", schedule.Friday, "09:00", "24:00", schedule.ErrInvalidTimeFormat},
	}

	for _, tt := range tests {
		t.Run("error - "+tt.name, func(t *testing.T) {
			_, err := schedule.NewSchedule(providerID, tt.day, tt.start, tt.end)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestDayOfWeek(t *testing.T) {
	assert.Equal(t, "Sunday", schedule.Sunday.String())
	assert.Equal(t, "Saturday", schedule.Saturday.String())
	assert.Equal(t, "Invalid", schedule.DayOfWeek(9).String())
	assert.True(t, schedule.Wednesday.IsValid())
}

func TestIsTimeOfDay(t *testing.T) {
	assert.True(t, schedule.IsTimeOfDay("00:00"))
	assert.True(t, schedule.IsTimeOfDay("23:59"))
	assert.False(t, schedule.IsTimeOfDay("9:05"))
	assert.False(t, schedule.IsTimeOfDay("12:60"))
	assert.False(t, schedule.IsTimeOfDay("noon"))
}
