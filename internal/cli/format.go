// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Harrypotter-hub/SmartBunk/internal/model"
)

// FormatPercent formats a 0-1 fraction as a percentage string.
// e.g., 0.8333 -> "83.3%"
func FormatPercent(f float64) string {
	return fmt.Sprintf("%.1f%%", f*100)
}

// FormatFraction renders attended/total counts, e.g. "10/12".
func FormatFraction(attended, total int) string {
	return strconv.Itoa(attended) + "/" + strconv.Itoa(total)
}

// FormatDayOfWeek returns a 3-letter day abbreviation from a weekday number.
func FormatDayOfWeek(weekday int) string {
	days := []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}
	if weekday >= 0 && weekday < 7 {
		return days[weekday]
	}
	return "???"
}

// FormatSchedule renders a weekly schedule as "Mon/Wed/Fri", in week order
// regardless of input order.
func FormatSchedule(schedule []time.Weekday) string {
	if len(schedule) == 0 {
		return "-"
	}
	seen := [7]bool{}
	for _, d := range schedule {
		if d >= 0 && d <= 6 {
			seen[d] = true
		}
	}
	var parts []string
	for d := 0; d < 7; d++ {
		if seen[d] {
			parts = append(parts, FormatDayOfWeek(d))
		}
	}
	return strings.Join(parts, "/")
}

// FormatDate renders a YYYY-MM-DD string as "Mon, 05 Jan". Malformed input
// is returned unchanged.
func FormatDate(date string) string {
	t, err := time.ParseInLocation("2006-01-02", date, time.Local)
	if err != nil {
		return date
	}
	return t.Format("Mon, 02 Jan")
}

// StatusLabel returns the display label for a projection status.
func StatusLabel(s model.Status) string {
	switch s {
	case model.StatusSafe:
		return "SAFE"
	case model.StatusDanger:
		return "DANGER"
	case model.StatusImpossible:
		return "IMPOSSIBLE"
	}
	return strings.ToUpper(string(s))
}

// FormatAdvice renders the actionable half of a result: how many classes can
// be skipped, or how many must be attended back to back.
func FormatAdvice(res model.CalculationResult) string {
	switch res.Status {
	case model.StatusSafe:
		switch res.BunksAvailable {
		case 0:
			return "on target, no classes to spare"
		case 1:
			return "can skip 1 class"
		default:
			return fmt.Sprintf("can skip %d classes", res.BunksAvailable)
		}
	case model.StatusDanger:
		if res.ClassesToRecover == 1 {
			return "attend the next class"
		}
		return fmt.Sprintf("attend the next %d classes", res.ClassesToRecover)
	case model.StatusImpossible:
		if res.ClassesLeft == 0 {
			return "semester over, target missed"
		}
		return fmt.Sprintf("target out of reach; best case %s", FormatPercent(res.MaxPossiblePercentage))
	}
	return ""
}
