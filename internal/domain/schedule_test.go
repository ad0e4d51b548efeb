package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeekdayOf_MondayIsZero(t *testing.T) {
	monday := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	sunday := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, Monday, WeekdayOf(monday))
	assert.Equal(t, Sunday, WeekdayOf(sunday))
	assert.Equal(t, Sunday, PreviousWeekday(Monday))
}

func TestDayWindows_PlainEntries(t *testing.T) {
	today := []ScheduleEntry{
		{ID: 1, Weekday: Monday, StartTime: "14:00", EndTime: "18:00"},
		{ID: 2, Weekday: Monday, StartTime: "09:00", EndTime: "12:00"},
	}

	windows, err := DayWindows(today, nil)
	require.NoError(t, err)
	assert.Equal(t, []Window{
		{StartMinute: 540, EndMinute: 720},
		{StartMinute: 840, EndMinute: 1080},
	}, windows)
}

func TestDayWindows_OverlappingEntriesAreUnion(t *testing.T) {
	today := []ScheduleEntry{
		{ID: 1, StartTime: "09:00", EndTime: "12:00"},
		{ID: 2, StartTime: "11:00", EndTime: "14:00"},
		{ID: 3, StartTime: "14:00", EndTime: "15:00"},
	}

	windows, err := DayWindows(today, nil)
	require.NoError(t, err)
	require.Len(t, windows, 1)
	assert.True(t, ContainsRange(windows, 600, 840))
}

func TestDayWindows_MidnightCrossing(t *testing.T) {
	night := []ScheduleEntry{{ID: 1, StartTime: "22:00", EndTime: "02:00"}}

	sameDay, err := DayWindows(night, nil)
	require.NoError(t, err)
	assert.Equal(t, []Window{{StartMinute: 1320, EndMinute: 1560}}, sameDay)
	assert.True(t, ContainsRange(sameDay, 1380, 1500), "23:00-01:00 fits the night shift")

	nextDay, err := DayWindows(nil, night)
	require.NoError(t, err)
	assert.Equal(t, []Window{{StartMinute: -120, EndMinute: 120}}, nextDay)
	assert.True(t, ContainsRange(nextDay, 0, 30))
	assert.True(t, ContainsRange(nextDay, 90, 120))
	assert.False(t, ContainsRange(nextDay, 120, 150))
}

func TestDayWindows_PreviousDayPlainEntriesIgnored(t *testing.T) {
	previous := []ScheduleEntry{{ID: 1, StartTime: "09:00", EndTime: "17:00"}}

	windows, err := DayWindows(nil, previous)
	require.NoError(t, err)
	assert.Empty(t, windows)
}

func TestDayWindows_InvalidTime(t *testing.T) {
	_, err := DayWindows([]ScheduleEntry{{ID: 9, StartTime: "9am", EndTime: "17:00"}}, nil)
	assert.Error(t, err)
}

func TestScheduleEntry_Validate(t *testing.T) {
	assert.NoError(t, (&ScheduleEntry{Weekday: Sunday, StartTime: "22:00", EndTime: "02:00"}).Validate())
	assert.Error(t, (&ScheduleEntry{Weekday: 7, StartTime: "09:00", EndTime: "10:00"}).Validate())
	assert.Error(t, (&ScheduleEntry{Weekday: 1, StartTime: "09:00", EndTime: "09:00"}).Validate())
	assert.Error(t, (&ScheduleEntry{Weekday: 1, StartTime: "09:00", EndTime: "25:00"}).Validate())
}
