// Package timerange turns calendar-style inputs (a date plus two "HH:MM"
// times-of-day) into comparable instants on a common midnight base.
package timerange

import (
	"fmt"
	"time"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// Range is the half-open interval [Start, End).
type Range struct {
	Start time.Time
	End   time.Time
}

// Build anchors both times at midnight of date and adds the hour/minute
// components. Inputs must already be format-validated; a malformed date or
// time is returned as an error, out-of-day overflow is not handled.
func Build(date, startTime, endTime string) (Range, error) {
	day, err := time.Parse(DateLayout, date)
	if err != nil {
		return Range{}, fmt.Errorf("parse date %q: %w", date, err)
	}
	start, err := atTime(day, startTime)
	if err != nil {
		return Range{}, err
	}
	end, err := atTime(day, endTime)
	if err != nil {
		return Range{}, err
	}
	return Range{Start: start, End: end}, nil
}

func atTime(day time.Time, hhmm string) (time.Time, error) {
	t, err := time.Parse(TimeLayout, hhmm)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse time %q: %w", hhmm, err)
	}
	return day.Add(time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute), nil
}

// Overlaps reports whether [aStart,aEnd) and [bStart,bEnd) share any
// instant. Touching endpoints do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// Weekday returns the lowercase English weekday name for an ISO date,
// e.g. "monday". Used to match doctors' offDays and working-hour blocks.
func Weekday(date string) (string, error) {
	day, err := time.Parse(DateLayout, date)
	if err != nil {
		return "", fmt.Errorf("parse date %q: %w", date, err)
	}
	switch day.Weekday() {
	case time.Sunday:
		return "sunday", nil
	case time.Monday:
		return "monday", nil
	case time.Tuesday:
		return "tuesday", nil
	case time.Wednesday:
		return "wednesday", nil
	case time.Thursday:
		return "thursday", nil
	case time.Friday:
		return "friday", nil
	default:
		return "saturday", nil
	}
}
