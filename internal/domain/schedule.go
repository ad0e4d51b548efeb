package domain

import (
	"fmt"
	"sort"
	"time"

	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// Weekdays are numbered Monday=0 ... Sunday=6
const (
	Monday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

// WeekdayOf converts a date to the Monday-based weekday number
func WeekdayOf(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// PreviousWeekday returns the weekday before w
func PreviousWeekday(w int) int {
	return (w + 6) % 7
}

// ScheduleEntry is a recurring weekly open window of a resource
type ScheduleEntry struct {
	ID         int64
	ResourceID int64
	Weekday    int
	StartTime  types.TimeString
	EndTime    types.TimeString
}

// CrossesMidnight returns true if the entry ends on the next calendar day (e.g. 22:00-02:00)
func (e *ScheduleEntry) CrossesMidnight() bool {
	return e.EndTime.IsBefore(e.StartTime)
}

// Validate checks weekday range and time format
func (e *ScheduleEntry) Validate() error {
	if e.Weekday < Monday || e.Weekday > Sunday {
		return fmt.Errorf("weekday must be between 0 and 6, got %d", e.Weekday)
	}
	if err := e.StartTime.Validate(); err != nil {
		return fmt.Errorf("start time: %w", err)
	}
	if err := e.EndTime.Validate(); err != nil {
		return fmt.Errorf("end time: %w", err)
	}
	if e.StartTime == e.EndTime {
		return fmt.Errorf("start and end time must differ")
	}
	return nil
}

// Window is an open interval of a day expressed in minutes relative to that day's midnight.
// StartMinute may be negative (spill-over from the previous day) and EndMinute may exceed 1440.
type Window struct {
	StartMinute int
	EndMinute   int
}

// Contains reports whether [start, end) lies entirely within the window
func (w Window) Contains(start, end int) bool {
	return w.StartMinute <= start && end <= w.EndMinute
}

// DayWindows builds the open windows of a calendar day.
// today are the entries of the day's weekday; previous are the entries of the weekday before,
// whose midnight-crossing part spills into the morning of this day.
// Overlapping or touching windows are merged into their union.
func DayWindows(today, previous []ScheduleEntry) ([]Window, error) {
	windows := make([]Window, 0, len(today)+len(previous))

	for i := range today {
		start, end, err := entryMinutes(&today[i])
		if err != nil {
			return nil, err
		}
		if today[i].CrossesMidnight() {
			end += types.MinutesPerDay
		}
		windows = append(windows, Window{StartMinute: start, EndMinute: end})
	}

	for i := range previous {
		if !previous[i].CrossesMidnight() {
			continue
		}
		start, end, err := entryMinutes(&previous[i])
		if err != nil {
			return nil, err
		}
		windows = append(windows, Window{StartMinute: start - types.MinutesPerDay, EndMinute: end})
	}

	return mergeWindows(windows), nil
}

// ContainsRange reports whether any window fully contains [start, end)
func ContainsRange(windows []Window, start, end int) bool {
	for _, w := range windows {
		if w.Contains(start, end) {
			return true
		}
	}
	return false
}

func entryMinutes(e *ScheduleEntry) (int, int, error) {
	start, err := e.StartTime.Minutes()
	if err != nil {
		return 0, 0, fmt.Errorf("schedule entry id=%d: %w", e.ID, err)
	}
	end, err := e.EndTime.Minutes()
	if err != nil {
		return 0, 0, fmt.Errorf("schedule entry id=%d: %w", e.ID, err)
	}
	return start, end, nil
}

func mergeWindows(windows []Window) []Window {
	if len(windows) < 2 {
		return windows
	}

	sort.Slice(windows, func(i, j int) bool {
		return windows[i].StartMinute < windows[j].StartMinute
	})

	merged := []Window{windows[0]}
	for _, w := range windows[1:] {
		last := &merged[len(merged)-1]
		if w.StartMinute <= last.EndMinute {
			if w.EndMinute > last.EndMinute {
				last.EndMinute = w.EndMinute
			}
			continue
		}
		merged = append(merged, w)
	}
	return merged
}
