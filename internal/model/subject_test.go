package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkAccumulatesCounts(t *testing.T) {
	s := NewSubject("Algorithms", []time.Weekday{time.Monday}, "2026-01-01", "2026-05-31")

	s.Mark("2026-01-05", StatusPresent)
	s.Mark("2026-01-12", StatusAbsent)
	s.Mark("2026-01-19", StatusPresent)

	assert.Equal(t, 2, s.Attended)
	assert.Equal(t, 3, s.Total)
	assert.Len(t, s.History, 3)
}

func TestMarkReplacesSameDate(t *testing.T) {
	s := NewSubject("Physics", []time.Weekday{time.Tuesday}, "2026-01-01", "2026-05-31")

	first := s.Mark("2026-01-06", StatusAbsent)
	require.Equal(t, 0, s.Attended)
	require.Equal(t, 1, s.Total)

	second := s.Mark("2026-01-06", StatusPresent)

	assert.Len(t, s.History, 1, "re-marking a date must not duplicate the record")
	assert.Equal(t, first.ID, second.ID, "record ID is stable across re-marks")
	assert.Equal(t, 1, s.Attended)
	assert.Equal(t, 1, s.Total)
}

func TestUnmarkRemovesRecord(t *testing.T) {
	s := NewSubject("Chemistry", []time.Weekday{time.Friday}, "2026-01-01", "2026-05-31")
	s.Mark("2026-01-09", StatusPresent)

	require.True(t, s.Unmark("2026-01-09"))
	assert.Empty(t, s.History)
	assert.Equal(t, 0, s.Attended)
	assert.Equal(t, 0, s.Total)

	assert.False(t, s.Unmark("2026-01-09"), "unmarking twice is a no-op")
}

func TestInitialOffsetsSeedCounts(t *testing.T) {
	s := NewSubject("Maths", []time.Weekday{time.Monday, time.Wednesday}, "2026-01-01", "2026-05-31")
	s.InitialAttended = 7
	s.InitialTotal = 10
	s.RecomputeCounts()

	assert.Equal(t, 7, s.Attended)
	assert.Equal(t, 10, s.Total)

	s.Mark("2026-01-05", StatusPresent)
	assert.Equal(t, 8, s.Attended)
	assert.Equal(t, 11, s.Total)
}

func TestAttendedNeverExceedsTotal(t *testing.T) {
	s := NewSubject("Lab", []time.Weekday{time.Thursday}, "2026-01-01", "2026-05-31")
	s.InitialAttended = 5
	s.InitialTotal = 3 // bad manual entry
	s.RecomputeCounts()

	assert.LessOrEqual(t, s.Attended, s.Total)
}

func TestStatusSeverityOrdering(t *testing.T) {
	assert.Less(t, StatusImpossible.Severity(), StatusDanger.Severity())
	assert.Less(t, StatusDanger.Severity(), StatusSafe.Severity())
}
