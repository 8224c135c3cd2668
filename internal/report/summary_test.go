package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Harrypotter-hub/SmartBunk/internal/engine"
	"github.com/Harrypotter-hub/SmartBunk/internal/model"
)

func subjectWith(name string, attended, total int) model.Subject {
	return model.Subject{
		ID:        name,
		Name:      name,
		Schedule:  []time.Weekday{time.Monday, time.Wednesday, time.Friday},
		StartDate: "2026-01-01",
		EndDate:   "2026-01-31",
		Attended:  attended,
		Total:     total,
	}
}

func TestBuildCountsStatuses(t *testing.T) {
	today, err := engine.ParseDate("2026-01-15")
	require.NoError(t, err)

	subjects := []model.Subject{
		subjectWith("safe", 10, 12),
		subjectWith("danger", 8, 12),
		subjectWith("lost", 6, 12),
	}

	s := Build(subjects, engine.DefaultOptions(), today, nil)

	assert.Equal(t, "2026-01-15", s.Date)
	assert.Equal(t, 1, s.SafeCount)
	assert.Equal(t, 1, s.DangerCount)
	assert.Equal(t, 1, s.ImpossibleCount)
	require.Len(t, s.Subjects, 3)
	assert.Equal(t, "safe", s.Subjects[0].Subject.Name, "input order preserved")

	// Mean of 10/12, 8/12, 6/12 = 2/3.
	assert.InDelta(t, 2.0/3.0, s.AveragePercentage, 1e-9)
}

func TestBuildClassesToday(t *testing.T) {
	monday, err := engine.ParseDate("2026-01-05")
	require.NoError(t, err)

	tue := subjectWith("tuesday-only", 0, 0)
	tue.Schedule = []time.Weekday{time.Tuesday}

	s := Build([]model.Subject{subjectWith("mwf", 1, 1), tue}, engine.DefaultOptions(), monday, nil)
	assert.Equal(t, 1, s.ClassesToday)
}

func TestBuildSkipsUnheldSubjectsInAverage(t *testing.T) {
	today, err := engine.ParseDate("2026-01-15")
	require.NoError(t, err)

	s := Build([]model.Subject{
		subjectWith("fresh", 0, 0),
		subjectWith("half", 6, 12),
	}, engine.DefaultOptions(), today, nil)

	assert.InDelta(t, 0.5, s.AveragePercentage, 1e-9)
}

func TestAtRisk(t *testing.T) {
	today, err := engine.ParseDate("2026-01-15")
	require.NoError(t, err)

	s := Build([]model.Subject{
		subjectWith("safe", 10, 12),
		subjectWith("danger", 8, 12),
	}, engine.DefaultOptions(), today, nil)

	atRisk := s.AtRisk()
	require.Len(t, atRisk, 1)
	assert.Equal(t, "danger", atRisk[0].Subject.Name)
}
