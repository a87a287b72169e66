// Package availability computes the free start-times for a doctor on a
// given date from their working-hour blocks, off-days, slot granularity
// and the day's existing bookings.
package availability

import (
	"fmt"
	"strings"

	"hospital-workflow-api/internal/model"
	"hospital-workflow-api/internal/timerange"
)

const defaultSlotMinutes = 15

// Slots returns the bookable "HH:MM" start times on date, in block order.
// booked must hold only non-cancelled appointments for that doctor/date.
// Slots from overlapping working-hour blocks are not de-duplicated.
func Slots(doc *model.Doctor, date string, booked []model.Appointment) ([]string, error) {
	day, err := timerange.Weekday(date)
	if err != nil {
		return nil, err
	}

	for _, off := range doc.OffDays {
		if strings.EqualFold(off, day) {
			return []string{}, nil
		}
	}

	var blocks []model.WorkingBlock
	for _, b := range doc.WorkingHours {
		if strings.EqualFold(b.Day, day) {
			blocks = append(blocks, b)
		}
	}
	if len(blocks) == 0 {
		return []string{}, nil
	}

	step := defaultSlotMinutes
	if doc.SlotsPerHour > 0 {
		step = int(float64(60)/float64(doc.SlotsPerHour) + 0.5)
	}

	taken := make([]timerange.Range, 0, len(booked))
	for _, appt := range booked {
		r, err := timerange.Build(appt.Date, appt.StartTime, appt.EndTime)
		if err != nil {
			return nil, fmt.Errorf("appointment %s: %w", appt.ID, err)
		}
		taken = append(taken, r)
	}

	slots := []string{}
	for _, b := range blocks {
		start, err := toMinutes(b.StartTime)
		if err != nil {
			return nil, fmt.Errorf("block %s: %w", b.Day, err)
		}
		end, err := toMinutes(b.EndTime)
		if err != nil {
			return nil, fmt.Errorf("block %s: %w", b.Day, err)
		}

		for cursor := start; cursor+step <= end; cursor += step {
			slotStart := toHHMM(cursor)
			slotEnd := toHHMM(cursor + step)
			r, err := timerange.Build(date, slotStart, slotEnd)
			if err != nil {
				return nil, err
			}
			if !conflicts(r, taken) {
				slots = append(slots, slotStart)
			}
		}
	}
	return slots, nil
}

func conflicts(r timerange.Range, taken []timerange.Range) bool {
	for _, t := range taken {
		if timerange.Overlaps(r.Start, r.End, t.Start, t.End) {
			return true
		}
	}
	return false
}

func toMinutes(hhmm string) (int, error) {
	if !isHHMM(hhmm) {
		return 0, fmt.Errorf("invalid time %q", hhmm)
	}
	h := int(hhmm[0]-'0')*10 + int(hhmm[1]-'0')
	m := int(hhmm[3]-'0')*10 + int(hhmm[4]-'0')
	return h*60 + m, nil
}

func isHHMM(s string) bool {
	if len(s) != 5 || s[2] != ':' {
		return false
	}
	for _, i := range []int{0, 1, 3, 4} {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	h := int(s[0]-'0')*10 + int(s[1]-'0')
	m := int(s[3]-'0')*10 + int(s[4]-'0')
	return h <= 23 && m <= 59
}

func toHHMM(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
