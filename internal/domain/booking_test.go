package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonService/pkg/types"
)

func TestBooking_CanTransitionTo(t *testing.T) {
	tests := []struct {
		name string
		from BookingStatus
		to   BookingStatus
		want bool
	}{
		{"pending в confirmed", StatusPending, StatusConfirmed, true},
		{"confirmed в completed", StatusConfirmed, StatusCompleted, true},
		{"pending в completed запрещен", StatusPending, StatusCompleted, false},
		{"pending в cancelled", StatusPending, StatusCancelled, true},
		{"confirmed в cancelled", StatusConfirmed, StatusCancelled, true},
		{"completed терминален", StatusCompleted, StatusCancelled, false},
		{"cancelled терминален", StatusCancelled, StatusConfirmed, false},
		{"confirmed в pending запрещен", StatusConfirmed, StatusPending, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &Booking{Status: tt.from}
			assert.Equal(t, tt.want, b.CanTransitionTo(tt.to))
		})
	}
}

func TestBooking_EffectiveDuration(t *testing.T) {
	b := &Booking{
		Lines: []ServiceLine{
			{DurationMinutes: 30},
			{DurationMinutes: 45},
		},
	}
	assert.Equal(t, 75, b.EffectiveDuration())

	b.DurationMinutes = 90
	assert.Equal(t, 90, b.EffectiveDuration())
}

func TestBooking_Interval(t *testing.T) {
	b := &Booking{
		BookingDate:     time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC),
		StartTime:       types.TimeString("10:30"),
		DurationMinutes: 60,
	}

	got, err := b.Interval()
	require.NoError(t, err)
	assert.Equal(t, iv(10, 30, 11, 30), got)
}

func TestBooking_IsActive(t *testing.T) {
	assert.True(t, (&Booking{Status: StatusPending}).IsActive())
	assert.True(t, (&Booking{Status: StatusConfirmed}).IsActive())
	assert.False(t, (&Booking{Status: StatusCompleted}).IsActive())
	assert.False(t, (&Booking{Status: StatusCancelled}).IsActive())
}
