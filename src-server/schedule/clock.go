package schedule

import (
	"fmt"
	"time"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// CombineDateTime turns a local date + clock-time pair into the single unix
// timestamp the events table stores. The pair is interpreted in loc, never
// UTC, so the calendar day the user picked survives the trip.
func CombineDateTime(date string, clock string, loc *time.Location) (int64, error) {
	t, err := time.ParseInLocation(DateLayout+" "+TimeLayout, date+" "+clock, loc)
	if err != nil {
		return 0, fmt.Errorf("CombineDateTime: %w", err)
	}
	return t.Unix(), nil
}

// SplitTimestamp is the inverse of CombineDateTime: one stored timestamp back
// into the local date and clock-time strings shown in forms. HH:MM is
// zero-padded so the strings lexically sort in chronological order.
func SplitTimestamp(unix int64, loc *time.Location) (date string, clock string) {
	t := time.Unix(unix, 0).In(loc)
	return t.Format(DateLayout), t.Format(TimeLayout)
}
