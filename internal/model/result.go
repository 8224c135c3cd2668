package model

// Status classifies a subject's attendance outlook against the target.
type Status string

const (
	// StatusImpossible means the target is out of reach even with perfect
	// future attendance.
	StatusImpossible Status = "impossible"
	// StatusDanger means the subject is below target but can still recover.
	StatusDanger Status = "danger"
	// StatusSafe means the subject is at or above target.
	StatusSafe Status = "safe"
)

// Severity orders statuses from worst (0) to best (2).
func (s Status) Severity() int {
	switch s {
	case StatusImpossible:
		return 0
	case StatusDanger:
		return 1
	case StatusSafe:
		return 2
	}
	return -1
}

// CalculationResult is the projection outcome for one subject. It is
// ephemeral: recomputed on every read, never persisted.
type CalculationResult struct {
	Status Status

	// Percentage and MaxPossiblePercentage are fractions in [0, 1].
	Percentage            float64
	MaxPossiblePercentage float64

	ClassesHeldSoFar     int
	ClassesLeft          int // remaining scheduled days, realism-scaled
	TotalSemesterClasses int

	// BunksAvailable is meaningful only when at/above target; zero otherwise.
	BunksAvailable int
	// ClassesToRecover is meaningful only when below target; zero otherwise.
	ClassesToRecover int
}
