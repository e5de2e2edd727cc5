package service

import (
	"strings"
	"time"

	"github.com/noah-isme/sma-substitution-console/internal/models"
)

// Rotation day per weekday, indexed by time.Weekday. Weekends fall back to "Day 1".
var weekdayRotation = [7]string{
	time.Sunday:    "Day 1",
	time.Monday:    "Day 1",
	time.Tuesday:   "Day 2",
	time.Wednesday: "Day 3",
	time.Thursday:  "Day 4",
	time.Friday:    "Day 5",
	time.Saturday:  "Day 1",
}

// DeriveDay maps a calendar date to its rotation day.
func DeriveDay(date time.Time) string {
	return weekdayRotation[date.Weekday()]
}

// DayForInput parses a date control value. ok is false for empty or malformed input, in
// which case the day control must be left as it is.
func DayForInput(raw string) (day string, date time.Time, ok bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", time.Time{}, false
	}
	parsed, err := time.Parse(models.DateLayout, raw)
	if err != nil {
		return "", time.Time{}, false
	}
	return DeriveDay(parsed), parsed, true
}
