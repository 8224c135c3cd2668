// Package engine implements the attendance projection core: calendar
// day-validity resolution and percentage projection. Everything here is a
// pure function of its inputs, with no I/O or shared state, so callers may
// invoke it repeatedly or concurrently without coordination.
package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/Harrypotter-hub/SmartBunk/internal/model"
)

// ErrInvalidDate is returned when a date string is not a YYYY-MM-DD calendar
// date.
var ErrInvalidDate = errors.New("invalid date")

const dateLayout = "2006-01-02"

// HolidaySet is a membership table of YYYY-MM-DD holiday dates. A date in the
// set is never a class day, regardless of the weekly schedule.
type HolidaySet map[string]struct{}

// NewHolidaySet builds a set from date strings. Malformed entries are dropped.
func NewHolidaySet(dates []string) HolidaySet {
	set := make(HolidaySet, len(dates))
	for _, d := range dates {
		if _, err := ParseDate(d); err != nil {
			continue
		}
		set[d] = struct{}{}
	}
	return set
}

// Contains reports whether date (YYYY-MM-DD) is a holiday.
func (h HolidaySet) Contains(date string) bool {
	_, ok := h[date]
	return ok
}

// FormatLocalDate renders t as YYYY-MM-DD using its local calendar fields.
// All date strings in the engine go through here: formatting via UTC shifts
// the day for users west of UTC near local midnight.
func FormatLocalDate(t time.Time) string {
	return t.Local().Format(dateLayout)
}

// ParseDate parses a strict YYYY-MM-DD string as a local-calendar date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(dateLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t, nil
}

// Validity is the outcome of a day-validity check.
type Validity struct {
	OK     bool
	Reason string
}

func invalid(reason string) Validity {
	return Validity{Reason: reason}
}

// IsEventDay reports whether date is a day on which the subject's class is
// scheduled: within the term, on a scheduled weekday, and not a holiday.
// Subjects with malformed term bounds never have event days.
func IsEventDay(date time.Time, sub model.Subject, holidays HolidaySet) Validity {
	start, err := ParseDate(sub.StartDate)
	if err != nil {
		return invalid("invalid term start date")
	}
	end, err := ParseDate(sub.EndDate)
	if err != nil {
		return invalid("invalid term end date")
	}

	day := FormatLocalDate(date)
	if day < FormatLocalDate(start) || day > FormatLocalDate(end) {
		return invalid("outside term")
	}
	if !sub.MeetsOn(date.Local().Weekday()) {
		return invalid("no class scheduled on " + date.Local().Weekday().String())
	}
	if holidays.Contains(day) {
		return invalid("holiday")
	}
	return Validity{OK: true}
}

// SubjectsOnDate filters subjects to those with a class on date, preserving
// input order.
func SubjectsOnDate(date time.Time, subjects []model.Subject, holidays HolidaySet) []model.Subject {
	var out []model.Subject
	for _, s := range subjects {
		if IsEventDay(date, s, holidays).OK {
			out = append(out, s)
		}
	}
	return out
}

// CountClassDays counts the subject's valid class days in [from, to]
// inclusive. An empty range (from after to) counts zero.
func CountClassDays(sub model.Subject, from, to time.Time, holidays HolidaySet) int {
	from = from.Local()
	to = to.Local()

	count := 0
	for day := from; FormatLocalDate(day) <= FormatLocalDate(to); day = day.AddDate(0, 0, 1) {
		if IsEventDay(day, sub, holidays).OK {
			count++
		}
	}
	return count
}

// ClassDays lists the subject's valid class days in [from, to] inclusive as
// YYYY-MM-DD strings, in chronological order.
func ClassDays(sub model.Subject, from, to time.Time, holidays HolidaySet) []string {
	var days []string
	for day := from.Local(); FormatLocalDate(day) <= FormatLocalDate(to.Local()); day = day.AddDate(0, 0, 1) {
		if IsEventDay(day, sub, holidays).OK {
			days = append(days, FormatLocalDate(day))
		}
	}
	return days
}
