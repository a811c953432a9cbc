package domain

import (
	"fmt"
	"time"
)

const stampLayout = "20060102150405"

// combineStamp joins an ADIF date (YYYYMMDD) and time (HHMMSS or HHMM) into
// a UTC instant. An empty time means midnight.
func combineStamp(date, clock string) (time.Time, error) {
	if len(date) != 8 {
		return time.Time{}, fmt.Errorf("date %q: want YYYYMMDD", date)
	}
	switch len(clock) {
	case 0:
		clock = "000000"
	case 4:
		clock += "00"
	case 6:
	default:
		return time.Time{}, fmt.Errorf("time %q: want HHMMSS or HHMM", clock)
	}
	t, err := time.ParseInLocation(stampLayout, date+clock, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q time %q: %w", date, clock, err)
	}
	return t, nil
}
