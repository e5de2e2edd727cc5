package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDeriveDayCoversEveryWeekday(t *testing.T) {
	allowed := map[string]bool{"Day 1": true, "Day 2": true, "Day 3": true, "Day 4": true, "Day 5": true}
	// 2024-03-04 is a Monday.
	monday := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	want := []string{"Day 1", "Day 2", "Day 3", "Day 4", "Day 5", "Day 1", "Day 1"}

	for offset := 0; offset < 7; offset++ {
		date := monday.AddDate(0, 0, offset)
		day := DeriveDay(date)
		assert.True(t, allowed[day], date.Weekday().String())
		assert.Equal(t, want[offset], day, date.Weekday().String())
	}
}

func TestWeekendMatchesMonday(t *testing.T) {
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 365; i++ {
		date := start.AddDate(0, 0, i)
		if date.Weekday() == time.Saturday || date.Weekday() == time.Sunday {
			assert.Equal(t, DeriveDay(time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)), DeriveDay(date))
		}
	}
}

func TestDayForInput(t *testing.T) {
	day, date, ok := DayForInput("2024-03-07")
	assert.True(t, ok)
	assert.Equal(t, "Day 4", day)
	assert.Equal(t, time.Thursday, date.Weekday())

	for _, raw := range []string{"", "   ", "07/03/2024", "2024-02-30"} {
		_, _, ok := DayForInput(raw)
		assert.False(t, ok, raw)
	}
}
