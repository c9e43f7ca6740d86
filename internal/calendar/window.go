// Package calendar derives class-day windows from (year, month, week)
// triples. A window is always six consecutive days, Monday through
// Saturday. All functions are pure and safe for concurrent use.
package calendar

import (
	"errors"
	"time"
)

// WeekCount is the fixed number of report weeks per month. Monthly
// reports always cover weeks 1–4 (24 class days), regardless of how
// many Mondays the calendar month actually contains.
const WeekCount = 4

// WindowDays is the number of class days per window (Monday–Saturday).
const WindowDays = 6

// ErrInvalidPeriod is returned when year, month, or week is out of range.
var ErrInvalidPeriod = errors.New("calendar: invalid year, month, or week")

// WeekWindow returns the six class days (Monday..Saturday) of the given
// week inside the given month. Week 1 starts at the first Monday of the
// month; week k starts 7·(k−1) days later, so successive weeks tile the
// month without gaps. Late weeks may spill into the following month.
// Dates are normalized to UTC midnight.
func WeekWindow(year, month, week int) ([]time.Time, error) {
	if year < 1 || month < 1 || month > 12 || week < 1 || week > WeekCount {
		return nil, ErrInvalidPeriod
	}

	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)

	// Days from the 1st to the month's first Monday (0 when the 1st is
	// itself a Monday).
	offset := (8 - int(first.Weekday())) % 7

	start := first.AddDate(0, 0, offset+7*(week-1))

	days := make([]time.Time, WindowDays)
	for i := range days {
		days[i] = start.AddDate(0, 0, i)
	}
	return days, nil
}

// MonthWindows returns the four fixed weekly windows of the given month,
// in week order.
func MonthWindows(year, month int) ([][]time.Time, error) {
	windows := make([][]time.Time, 0, WeekCount)
	for week := 1; week <= WeekCount; week++ {
		days, err := WeekWindow(year, month, week)
		if err != nil {
			return nil, err
		}
		windows = append(windows, days)
	}
	return windows, nil
}

// Day normalizes a timestamp to its UTC calendar day. Reconciliation
// maps are keyed on normalized days so rows loaded from the store and
// window dates compare equal.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
