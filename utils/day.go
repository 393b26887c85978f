package utils

import (
	"fmt"
	"time"
)

const dayLayout = "2006-01-02"

// ParseDay validates a YYYY-MM-DD day string and returns it normalized.
func ParseDay(s string) (string, error) {
	t, err := time.Parse(dayLayout, s)
	if err != nil {
		return "", fmt.Errorf("invalid day %q: %w", s, err)
	}
	return t.Format(dayLayout), nil
}

// Today returns the current local day as YYYY-MM-DD.
func Today() string {
	return time.Now().Format(dayLayout)
}

// AddDays shifts a day string by n days. The input must already be a
// valid day; a malformed one comes back unchanged.
func AddDays(day string, n int) string {
	t, err := time.Parse(dayLayout, day)
	if err != nil {
		return day
	}
	return t.AddDate(0, 0, n).Format(dayLayout)
}

// WeekRange returns the seven days ending at endDay, oldest first.
func WeekRange(endDay string) []string {
	days := make([]string, 7)
	for i := 0; i < 7; i++ {
		days[i] = AddDays(endDay, i-6)
	}
	return days
}
