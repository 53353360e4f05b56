package clock

import (
	"fmt"
	"time"
)

func Now() string {
	return time.Now().UTC().Format("2006-01-02T15:04:05Z")
}

// DayRange parses a YYYY-MM-DD pair into an inclusive [from, to] range,
// with to extended to the end of its day. Used by the admin date filter.
func DayRange(from, to string) (time.Time, time.Time, error) {
	fromTime, err := time.Parse("2006-01-02", from)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("from is not a valid date: %s", from)
	}
	toTime, err := time.Parse("2006-01-02", to)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("to is not a valid date: %s", to)
	}
	toTime = toTime.Add(24*time.Hour - time.Nanosecond)
	if toTime.Before(fromTime) {
		return time.Time{}, time.Time{}, fmt.Errorf("range ends before it starts")
	}
	return fromTime, toTime, nil
}

// IsDay reports whether s is a valid YYYY-MM-DD date.
func IsDay(s string) bool {
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}
