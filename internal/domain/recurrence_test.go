package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRecurrencePattern(t *testing.T) {
	t.Run("пустой payload означает отсутствие повторения", func(t *testing.T) {
		p, err := ParseRecurrencePattern(nil)
		require.NoError(t, err)
		assert.Equal(t, RecurrenceNone, p.Kind)
		assert.False(t, p.IsRecurring())
	})

	t.Run("еженедельное правило", func(t *testing.T) {
		p, err := ParseRecurrencePattern([]byte(`{"kind":"weekly","weekdays":[1,5]}`))
		require.NoError(t, err)
		assert.Equal(t, RecurrenceWeekly, p.Kind)
		assert.Equal(t, []time.Weekday{time.Monday, time.Friday}, p.Weekdays)
	})

	t.Run("ежемесячное правило", func(t *testing.T) {
		p, err := ParseRecurrencePattern([]byte(`{"kind":"monthly","dayOfMonth":15}`))
		require.NoError(t, err)
		assert.Equal(t, RecurrenceMonthly, p.Kind)
		assert.Equal(t, 15, p.DayOfMonth)
	})

	t.Run("неизвестный вид правила", func(t *testing.T) {
		_, err := ParseRecurrencePattern([]byte(`{"kind":"yearly"}`))
		assert.ErrorIs(t, err, ErrUnknownRecurrence)
	})

	t.Run("некорректный JSON", func(t *testing.T) {
		_, err := ParseRecurrencePattern([]byte(`{kind:`))
		assert.ErrorIs(t, err, ErrMalformedRecurrence)
	})

	t.Run("weekly без дней недели", func(t *testing.T) {
		_, err := ParseRecurrencePattern([]byte(`{"kind":"weekly"}`))
		assert.ErrorIs(t, err, ErrMalformedRecurrence)
	})

	t.Run("день недели вне диапазона", func(t *testing.T) {
		_, err := ParseRecurrencePattern([]byte(`{"kind":"weekly","weekdays":[7]}`))
		assert.ErrorIs(t, err, ErrMalformedRecurrence)
	})

	t.Run("dayOfMonth вне диапазона", func(t *testing.T) {
		_, err := ParseRecurrencePattern([]byte(`{"kind":"monthly","dayOfMonth":0}`))
		assert.ErrorIs(t, err, ErrMalformedRecurrence)
	})
}

func TestRecurrencePattern_Matches(t *testing.T) {
	monday := time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC)
	tuesday := monday.AddDate(0, 0, 1)

	weekly := RecurrencePattern{Kind: RecurrenceWeekly, Weekdays: []time.Weekday{time.Monday}}
	assert.True(t, weekly.Matches(monday))
	assert.False(t, weekly.Matches(tuesday))

	monthly := RecurrencePattern{Kind: RecurrenceMonthly, DayOfMonth: 16}
	assert.True(t, monthly.Matches(monday))
	assert.False(t, monthly.Matches(tuesday))

	none := RecurrencePattern{Kind: RecurrenceNone}
	assert.False(t, none.Matches(monday))
}
