// Package calendar provides the week arithmetic the rotation engine is
// keyed on: ISO week identifiers, Monday week starts and display ranges.
package calendar

import (
	"fmt"
	"time"
)

var monthNames = []string{
	"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

// WeekID returns the storage key for the week containing t, e.g.
// "week-2025-23". Both parts follow the ISO-8601 week rule (Monday start,
// week 1 contains the year's first Thursday), so the key is stable for any
// instant within the week, including weeks straddling January 1st.
func WeekID(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("week-%d-%d", year, week)
}

// WeekNumber returns the ISO week number for t. The rotation parity rule
// keys off this value.
func WeekNumber(t time.Time) int {
	_, week := t.ISOWeek()
	return week
}

// StartOfWeek returns the Monday at local midnight of the week containing t
func StartOfWeek(t time.Time) time.Time {
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	offset := int(d.Weekday()) - int(time.Monday)
	if offset < 0 {
		offset += 7 // Sunday belongs to the week that started the previous Monday
	}
	return d.AddDate(0, 0, -offset)
}

// WeekDateRange returns a human-readable label for the week containing t,
// e.g. "2 - 8 junio 2025". When the week spans two months both month names
// appear; the year is only printed on the end date.
func WeekDateRange(t time.Time) string {
	start := StartOfWeek(t)
	end := start.AddDate(0, 0, 6)

	if start.Month() == end.Month() {
		return fmt.Sprintf("%d - %d %s %d", start.Day(), end.Day(), monthNames[end.Month()-1], end.Year())
	}
	return fmt.Sprintf("%d %s - %d %s %d",
		start.Day(), monthNames[start.Month()-1],
		end.Day(), monthNames[end.Month()-1], end.Year())
}
