package engine

import (
	"math"
	"time"

	"github.com/Harrypotter-hub/SmartBunk/internal/model"
)

// Defaults for the projection knobs. Both are overridable per invocation.
const (
	// DefaultTarget is the fallback attendance target (75%).
	DefaultTarget = 0.75
	// DefaultChaosFactor is the empirical fraction of scheduled classes that
	// actually get held. Cancellations eat the rest.
	DefaultChaosFactor = 0.95
)

// Options are the projection knobs for one calculation.
type Options struct {
	// TargetPercentage is the attendance target as a fraction in (0, 1].
	// Values outside that range produce degenerate but defined results.
	TargetPercentage float64
	// ChaosFactor scales the count of remaining scheduled days down to the
	// number expected to actually be held.
	ChaosFactor float64
}

// DefaultOptions returns Options with the package defaults.
func DefaultOptions() Options {
	return Options{TargetPercentage: DefaultTarget, ChaosFactor: DefaultChaosFactor}
}

// Calculate projects the subject's attendance outlook as of today.
//
// It never mutates the subject and never faults: zero denominators resolve to
// zero, and both advice counts are clamped to the remaining class days.
func Calculate(sub model.Subject, opts Options, today time.Time, holidays HolidaySet) model.CalculationResult {
	attended := float64(sub.Attended)
	total := float64(sub.Total)
	target := opts.TargetPercentage

	held := sub.Total

	// Valid scheduled days strictly after today through the term end,
	// scaled by the realism factor. Partial classes are not meaningful.
	left := 0
	if end, err := ParseDate(sub.EndDate); err == nil {
		raw := CountClassDays(sub, today.AddDate(0, 0, 1), end, holidays)
		left = int(math.Floor(float64(raw) * opts.ChaosFactor))
	}

	res := model.CalculationResult{
		ClassesHeldSoFar:     held,
		ClassesLeft:          left,
		TotalSemesterClasses: held + left,
	}

	if sub.Total > 0 {
		res.Percentage = attended / total
	}
	if res.TotalSemesterClasses > 0 {
		res.MaxPossiblePercentage = (attended + float64(left)) / float64(res.TotalSemesterClasses)
	}

	// A subject with no classes held yet is classified purely from the best
	// achievable outcome.
	switch {
	case res.MaxPossiblePercentage < target:
		res.Status = model.StatusImpossible
	case sub.Total > 0 && res.Percentage < target:
		res.Status = model.StatusDanger
	default:
		res.Status = model.StatusSafe
	}

	if res.Status == model.StatusSafe {
		res.BunksAvailable = bunksAvailable(attended, total, target, left)
	} else {
		res.ClassesToRecover = classesToRecover(attended, total, target, left)
	}

	return res
}

// bunksAvailable is the largest k >= 0 with attended/(total+k) >= target,
// capped at the classes remaining. Solved from the algebraic bound
// k <= attended/target - total.
func bunksAvailable(attended, total, target float64, left int) int {
	if target <= 0 {
		return left // any attendance satisfies a zero target
	}
	k := int(math.Floor(attended/target - total))
	if k < 0 {
		k = 0
	}
	if k > left {
		k = left
	}
	return k
}

// classesToRecover is the smallest n >= 0 with
// (attended+n)/(total+n) >= target, capped at the classes remaining. Solved
// from n >= (target*total - attended)/(1 - target); reaching the target
// exactly counts as recovered.
func classesToRecover(attended, total, target float64, left int) int {
	if target >= 1 {
		// Consecutive attendance can only reach 100% if nothing was missed.
		if total > 0 && attended < total {
			return left
		}
		return 0
	}

	n := int(math.Ceil((target*total - attended) / (1 - target)))
	if n < 0 {
		n = 0
	}
	if n > left {
		n = left
	}
	return n
}
