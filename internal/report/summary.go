// Package report aggregates per-subject projections into the summaries the
// status command and dashboard display.
package report

import (
	"time"

	"github.com/Harrypotter-hub/SmartBunk/internal/engine"
	"github.com/Harrypotter-hub/SmartBunk/internal/model"
)

// SubjectReport pairs a subject with its projection as of one date.
type SubjectReport struct {
	Subject model.Subject
	Result  model.CalculationResult
}

// Summary holds the aggregate outlook across all subjects.
type Summary struct {
	Date     string
	Subjects []SubjectReport

	SafeCount       int
	DangerCount     int
	ImpossibleCount int

	// AveragePercentage is the mean attendance fraction across subjects
	// with at least one class held.
	AveragePercentage float64

	// ClassesToday is the number of subjects with a class on the date.
	ClassesToday int
}

// Build computes projections for every subject and the aggregate counts.
// Subject order is preserved from the input.
func Build(subjects []model.Subject, opts engine.Options, today time.Time, holidays engine.HolidaySet) Summary {
	summary := Summary{Date: engine.FormatLocalDate(today)}

	var pctSum float64
	var pctCount int

	for _, sub := range subjects {
		res := engine.Calculate(sub, opts, today, holidays)
		summary.Subjects = append(summary.Subjects, SubjectReport{Subject: sub, Result: res})

		switch res.Status {
		case model.StatusSafe:
			summary.SafeCount++
		case model.StatusDanger:
			summary.DangerCount++
		case model.StatusImpossible:
			summary.ImpossibleCount++
		}

		if sub.Total > 0 {
			pctSum += res.Percentage
			pctCount++
		}

		if engine.IsEventDay(today, sub, holidays).OK {
			summary.ClassesToday++
		}
	}

	if pctCount > 0 {
		summary.AveragePercentage = pctSum / float64(pctCount)
	}
	return summary
}

// AtRisk filters the summary down to subjects below target, preserving order.
func (s Summary) AtRisk() []SubjectReport {
	var out []SubjectReport
	for _, r := range s.Subjects {
		if r.Result.Status != model.StatusSafe {
			out = append(out, r)
		}
	}
	return out
}
