// Package model defines domain types for smartbunk subjects and attendance.
package model

import (
	"time"

	"github.com/google/uuid"
)

// AttendanceStatus is the recorded outcome for one class day.
type AttendanceStatus string

const (
	StatusPresent AttendanceStatus = "present"
	StatusAbsent  AttendanceStatus = "absent"
)

// AttendanceRecord is one marked class day. Records are unique per
// (subject, date); re-marking a date replaces the earlier record.
type AttendanceRecord struct {
	ID       string
	Date     string // YYYY-MM-DD, local calendar
	Status   AttendanceStatus
	MarkedAt time.Time
}

// Subject is a tracked course with its weekly schedule and term bounds.
type Subject struct {
	ID        string
	Name      string
	Schedule  []time.Weekday // weekdays on which the class meets
	StartDate string         // YYYY-MM-DD, inclusive
	EndDate   string         // YYYY-MM-DD, inclusive
	StartTime string         // optional "HH:mm", used only for reminders

	// Counts accumulated before tracking began, entered at creation.
	InitialAttended int
	InitialTotal    int

	// Running counts: initial offsets plus history.
	Attended int
	Total    int

	History []AttendanceRecord

	CreatedAt time.Time
}

// NewSubject creates a subject with a fresh ID and counts seeded from the
// manual offsets.
func NewSubject(name string, schedule []time.Weekday, startDate, endDate string) Subject {
	return Subject{
		ID:        uuid.NewString(),
		Name:      name,
		Schedule:  schedule,
		StartDate: startDate,
		EndDate:   endDate,
		CreatedAt: time.Now(),
	}
}

// MeetsOn reports whether the subject's weekly schedule includes wd.
func (s Subject) MeetsOn(wd time.Weekday) bool {
	for _, d := range s.Schedule {
		if d == wd {
			return true
		}
	}
	return false
}

// RecordFor returns the attendance record for the given date, if any.
func (s Subject) RecordFor(date string) (AttendanceRecord, bool) {
	for _, r := range s.History {
		if r.Date == date {
			return r, true
		}
	}
	return AttendanceRecord{}, false
}

// Mark records attendance for date, replacing any earlier record for the
// same date, and recomputes the running counts. Returns the stored record.
func (s *Subject) Mark(date string, status AttendanceStatus) AttendanceRecord {
	rec := AttendanceRecord{
		ID:       uuid.NewString(),
		Date:     date,
		Status:   status,
		MarkedAt: time.Now(),
	}

	replaced := false
	for i, r := range s.History {
		if r.Date == date {
			rec.ID = r.ID // stable ID across re-marks
			s.History[i] = rec
			replaced = true
			break
		}
	}
	if !replaced {
		s.History = append(s.History, rec)
	}

	s.RecomputeCounts()
	return rec
}

// Unmark removes the record for date, if present, and recomputes counts.
func (s *Subject) Unmark(date string) bool {
	for i, r := range s.History {
		if r.Date == date {
			s.History = append(s.History[:i], s.History[i+1:]...)
			s.RecomputeCounts()
			return true
		}
	}
	return false
}

// RecomputeCounts rebuilds Attended/Total from the manual offsets plus
// history. Attended never exceeds Total.
func (s *Subject) RecomputeCounts() {
	attended := s.InitialAttended
	total := s.InitialTotal
	for _, r := range s.History {
		total++
		if r.Status == StatusPresent {
			attended++
		}
	}
	if attended > total {
		attended = total
	}
	s.Attended = attended
	s.Total = total
}
