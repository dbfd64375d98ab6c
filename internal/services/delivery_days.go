package services

import (
	"bouquet-tour-service/internal/domain"
	"fmt"
	"slices"
	"strings"
	"time"
)

// DeliveryCalendar restricts deliveries to a fixed set of weekdays and
// schedules at most HorizonWeeks ahead.
type DeliveryCalendar struct {
	Weekdays     []time.Weekday
	HorizonWeeks int
}

func DefaultDeliveryCalendar() DeliveryCalendar {
	return DeliveryCalendar{
		Weekdays:     []time.Weekday{time.Tuesday, time.Friday},
		HorizonWeeks: 4,
	}
}

// Slots returns the chronologically ordered delivery dates after today,
// one per configured weekday per week of the horizon.
func (c DeliveryCalendar) Slots(today time.Time) []time.Time {
	if c.HorizonWeeks <= 0 || len(c.Weekdays) == 0 {
		return []time.Time{}
	}

	day := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, today.Location())

	seen := make(map[time.Weekday]struct{}, len(c.Weekdays))
	slots := make([]time.Time, 0, len(c.Weekdays)*c.HorizonWeeks)
	for _, wd := range c.Weekdays {
		if _, ok := seen[wd]; ok {
			continue
		}
		seen[wd] = struct{}{}

		// Next occurrence strictly after today.
		ahead := (int(wd) - int(day.Weekday()) + 7) % 7
		if ahead == 0 {
			ahead = 7
		}
		first := day.AddDate(0, 0, ahead)

		for w := 0; w < c.HorizonWeeks; w++ {
			slots = append(slots, first.AddDate(0, 0, 7*w))
		}
	}

	slices.SortFunc(slots, func(a, b time.Time) int { return a.Compare(b) })
	return slots
}

// AssignDeliveryDays gives the i-th tour the i-th slot of the calendar.
// Tours beyond the horizon keep the unscheduled sentinel label.
func AssignDeliveryDays(tours []*domain.Tour, today time.Time, cal DeliveryCalendar) {
	slots := cal.Slots(today)
	for i, t := range tours {
		if i >= len(slots) {
			t.Schedule(domain.UnscheduledDayLabel, nil)
			continue
		}
		d := slots[i]
		t.Schedule(FormatDayLabel(d), &d)
	}
}

// FormatDayLabel renders a delivery date as e.g. "Tuesday 03/11/2026".
func FormatDayLabel(d time.Time) string {
	return d.Format("Monday 02/01/2006")
}

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
	"dimanche":  time.Sunday,
	"lundi":     time.Monday,
	"mardi":     time.Tuesday,
	"mercredi":  time.Wednesday,
	"jeudi":     time.Thursday,
	"vendredi":  time.Friday,
	"samedi":    time.Saturday,
}

// ParseWeekday accepts English or French weekday names, case-insensitively.
func ParseWeekday(s string) (time.Weekday, error) {
	wd, ok := weekdayNames[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return 0, fmt.Errorf("parse weekday: unknown weekday %q", s)
	}
	return wd, nil
}
