package calendar

import (
	"testing"
	"time"
)

func TestWeekWindowShape(t *testing.T) {
	for year := 2023; year <= 2025; year++ {
		for month := 1; month <= 12; month++ {
			for week := 1; week <= WeekCount; week++ {
				days, err := WeekWindow(year, month, week)
				if err != nil {
					t.Fatalf("WeekWindow(%d, %d, %d): %v", year, month, week, err)
				}
				if len(days) != WindowDays {
					t.Fatalf("WeekWindow(%d, %d, %d): got %d days, want %d", year, month, week, len(days), WindowDays)
				}
				if days[0].Weekday() != time.Monday {
					t.Errorf("WeekWindow(%d, %d, %d): starts on %s, want Monday", year, month, week, days[0].Weekday())
				}
				if days[5].Weekday() != time.Saturday {
					t.Errorf("WeekWindow(%d, %d, %d): ends on %s, want Saturday", year, month, week, days[5].Weekday())
				}
				for i, d := range days {
					if d.Weekday() == time.Sunday {
						t.Errorf("WeekWindow(%d, %d, %d): day %d is a Sunday", year, month, week, i)
					}
					if i > 0 && !d.Equal(days[i-1].AddDate(0, 0, 1)) {
						t.Errorf("WeekWindow(%d, %d, %d): day %d is not consecutive", year, month, week, i)
					}
				}
			}
		}
	}
}

func TestWeekWindowAnchor(t *testing.T) {
	// May 2024: the 1st is a Wednesday, so week 1 starts Monday May 6.
	days, err := WeekWindow(2024, 5, 1)
	if err != nil {
		t.Fatal(err)
	}
	want := time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC)
	if !days[0].Equal(want) {
		t.Errorf("week 1 starts %s, want %s", days[0], want)
	}
	if got := days[5]; !got.Equal(time.Date(2024, 5, 11, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("week 1 ends %s, want 2024-05-11", got)
	}

	// July 2024: the 1st is itself a Monday.
	days, err = WeekWindow(2024, 7, 1)
	if err != nil {
		t.Fatal(err)
	}
	if !days[0].Equal(time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("week 1 of 2024-07 starts %s, want 2024-07-01", days[0])
	}
}

func TestWeekWindowTiling(t *testing.T) {
	// Successive weeks start exactly 7 days apart.
	for week := 2; week <= WeekCount; week++ {
		prev, err := WeekWindow(2024, 9, week-1)
		if err != nil {
			t.Fatal(err)
		}
		cur, err := WeekWindow(2024, 9, week)
		if err != nil {
			t.Fatal(err)
		}
		if !cur[0].Equal(prev[0].AddDate(0, 0, 7)) {
			t.Errorf("week %d starts %s, want %s", week, cur[0], prev[0].AddDate(0, 0, 7))
		}
	}
}

func TestWeekWindowInvalid(t *testing.T) {
	cases := []struct {
		name              string
		year, month, week int
	}{
		{"zero year", 0, 5, 1},
		{"zero month", 2024, 0, 1},
		{"month too large", 2024, 13, 1},
		{"zero week", 2024, 5, 0},
		{"week five", 2024, 5, 5},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := WeekWindow(tc.year, tc.month, tc.week); err != ErrInvalidPeriod {
				t.Errorf("WeekWindow(%d, %d, %d): err = %v, want ErrInvalidPeriod", tc.year, tc.month, tc.week, err)
			}
		})
	}
}

func TestMonthWindows(t *testing.T) {
	windows, err := MonthWindows(2024, 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(windows) != WeekCount {
		t.Fatalf("got %d windows, want %d", len(windows), WeekCount)
	}
	// 24 distinct, strictly increasing days in total.
	var all []time.Time
	for _, w := range windows {
		all = append(all, w...)
	}
	if len(all) != WeekCount*WindowDays {
		t.Fatalf("got %d days, want %d", len(all), WeekCount*WindowDays)
	}
	for i := 1; i < len(all); i++ {
		if !all[i].After(all[i-1]) {
			t.Errorf("day %d (%s) not after day %d (%s)", i, all[i], i-1, all[i-1])
		}
	}

	if _, err := MonthWindows(2024, 13); err != ErrInvalidPeriod {
		t.Errorf("MonthWindows(2024, 13): err = %v, want ErrInvalidPeriod", err)
	}
}

func TestDay(t *testing.T) {
	loc := time.FixedZone("WIB", 7*3600)
	in := time.Date(2024, 5, 6, 23, 45, 0, 0, loc)
	got := Day(in)
	want := time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("Day(%s) = %s, want %s", in, got, want)
	}
}
