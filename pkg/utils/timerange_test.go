package utils

import (
	"testing"
	"time"
)

func TestDayBounds(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		t.Fatalf("LoadLocation: %v", err)
	}
	at := time.Date(2024, 3, 15, 22, 45, 12, 0, loc)

	start, end := DayBounds(at)

	if want := time.Date(2024, 3, 15, 0, 0, 0, 0, loc); !start.Equal(want) {
		t.Errorf("start = %v, want %v", start, want)
	}
	if want := time.Date(2024, 3, 16, 0, 0, 0, 0, loc); !end.Equal(want) {
		t.Errorf("end = %v, want %v", end, want)
	}
	if !at.After(start) || !at.Before(end) {
		t.Errorf("window [%v, %v) does not contain %v", start, end, at)
	}
}

func TestPeriodDays(t *testing.T) {
	cases := map[string]int{
		"week":    7,
		"month":   30,
		"quarter": 90,
		"":        30,
		"decade":  30,
	}
	for period, want := range cases {
		if got := PeriodDays(period); got != want {
			t.Errorf("PeriodDays(%q) = %d, want %d", period, got, want)
		}
	}
}
