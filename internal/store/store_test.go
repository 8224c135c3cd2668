package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Harrypotter-hub/SmartBunk/internal/engine"
	"github.com/Harrypotter-hub/SmartBunk/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func testSubject() model.Subject {
	sub := model.NewSubject("Operating Systems",
		[]time.Weekday{time.Monday, time.Wednesday, time.Friday},
		"2026-01-01", "2026-05-31")
	sub.StartTime = "09:15"
	sub.InitialAttended = 3
	sub.InitialTotal = 4
	return sub
}

func TestSubjectRoundTrip(t *testing.T) {
	s := openTestStore(t)
	sub := testSubject()

	require.NoError(t, s.SaveSubject(sub))

	got, err := s.ListSubjects()
	require.NoError(t, err)
	require.Len(t, got, 1)

	assert.Equal(t, sub.ID, got[0].ID)
	assert.Equal(t, sub.Name, got[0].Name)
	assert.Equal(t, sub.Schedule, got[0].Schedule)
	assert.Equal(t, "09:15", got[0].StartTime)
	assert.Equal(t, 3, got[0].Attended, "counts seeded from manual offsets")
	assert.Equal(t, 4, got[0].Total)
}

func TestMarkAttendanceUpserts(t *testing.T) {
	s := openTestStore(t)
	sub := testSubject()
	require.NoError(t, s.SaveSubject(sub))

	require.NoError(t, s.MarkAttendance(sub.ID, "2026-01-05", model.StatusAbsent))
	require.NoError(t, s.MarkAttendance(sub.ID, "2026-01-07", model.StatusPresent))
	// Correct the first mark: must replace, not duplicate.
	require.NoError(t, s.MarkAttendance(sub.ID, "2026-01-05", model.StatusPresent))

	got, err := s.FindSubject(sub.ID)
	require.NoError(t, err)
	assert.Len(t, got.History, 2)
	assert.Equal(t, 3+2, got.Attended)
	assert.Equal(t, 4+2, got.Total)

	rec, ok := got.RecordFor("2026-01-05")
	require.True(t, ok)
	assert.Equal(t, model.StatusPresent, rec.Status)
}

func TestMarkAttendanceRejectsMalformedDate(t *testing.T) {
	s := openTestStore(t)
	sub := testSubject()
	require.NoError(t, s.SaveSubject(sub))

	err := s.MarkAttendance(sub.ID, "Jan 5", model.StatusPresent)
	assert.ErrorIs(t, err, engine.ErrInvalidDate)
}

func TestUnmarkAttendance(t *testing.T) {
	s := openTestStore(t)
	sub := testSubject()
	require.NoError(t, s.SaveSubject(sub))
	require.NoError(t, s.MarkAttendance(sub.ID, "2026-01-05", model.StatusPresent))

	require.NoError(t, s.UnmarkAttendance(sub.ID, "2026-01-05"))

	got, err := s.FindSubject(sub.ID)
	require.NoError(t, err)
	assert.Empty(t, got.History)
}

func TestFindSubjectByNamePrefix(t *testing.T) {
	s := openTestStore(t)
	os := testSubject()
	require.NoError(t, s.SaveSubject(os))
	db := model.NewSubject("Databases", []time.Weekday{time.Tuesday}, "2026-01-01", "2026-05-31")
	require.NoError(t, s.SaveSubject(db))

	got, err := s.FindSubject("data")
	require.NoError(t, err)
	assert.Equal(t, "Databases", got.Name)

	_, err = s.FindSubject("algorithms")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFindSubjectAmbiguousPrefix(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.SaveSubject(model.NewSubject("Maths I", []time.Weekday{time.Monday}, "2026-01-01", "2026-05-31")))
	require.NoError(t, s.SaveSubject(model.NewSubject("Maths II", []time.Weekday{time.Tuesday}, "2026-01-01", "2026-05-31")))

	_, err := s.FindSubject("maths")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestDeleteSubjectCascades(t *testing.T) {
	s := openTestStore(t)
	sub := testSubject()
	require.NoError(t, s.SaveSubject(sub))
	require.NoError(t, s.MarkAttendance(sub.ID, "2026-01-05", model.StatusPresent))

	require.NoError(t, s.DeleteSubject(sub.ID))

	count, err := s.SubjectCount()
	require.NoError(t, err)
	assert.Zero(t, count)

	var recs int
	require.NoError(t, s.db.QueryRow("SELECT COUNT(*) FROM attendance").Scan(&recs))
	assert.Zero(t, recs, "attendance rows cascade with the subject")

	assert.ErrorIs(t, s.DeleteSubject(sub.ID), ErrNotFound)
}

func TestSettingsRoundTrip(t *testing.T) {
	s := openTestStore(t)

	defaults, err := s.LoadSettings()
	require.NoError(t, err)
	assert.InDelta(t, 0.75, defaults.TargetPercentage, 1e-9)

	defaults.TargetPercentage = 0.85
	defaults.NotificationsEnabled = false
	require.NoError(t, s.SaveSettings(defaults))

	got, err := s.LoadSettings()
	require.NoError(t, err)
	assert.InDelta(t, 0.85, got.TargetPercentage, 1e-9)
	assert.False(t, got.NotificationsEnabled)
}

func TestScheduleEncoding(t *testing.T) {
	days := []time.Weekday{time.Sunday, time.Wednesday, time.Saturday}
	assert.Equal(t, "0,3,6", encodeSchedule(days))
	assert.Equal(t, days, decodeSchedule("0,3,6"))
	assert.Nil(t, decodeSchedule(""))
	assert.Equal(t, []time.Weekday{time.Monday}, decodeSchedule("1,9,junk"))
}
