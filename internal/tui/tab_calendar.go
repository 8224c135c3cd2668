package tui

import (
	"fmt"
	"strings"

	"github.com/Harrypotter-hub/SmartBunk/internal/cli"
	"github.com/Harrypotter-hub/SmartBunk/internal/engine"
	"github.com/Harrypotter-hub/SmartBunk/internal/tui/components"
	"github.com/Harrypotter-hub/SmartBunk/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// calendarDays is how far ahead the calendar tab looks.
const calendarDays = 14

func (a App) renderCalendarTab(cw, contentH int) string {
	t := theme.Active

	if len(a.subjects) == 0 {
		return "\n  No subjects yet. Add one with `smartbunk subject add`."
	}

	dayStyle := lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	todayStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Bold(true)
	subjectStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)
	timeStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	holidayStyle := lipgloss.NewStyle().Foreground(t.Warn)
	markedStyle := lipgloss.NewStyle().Foreground(t.TextDim)

	var b strings.Builder
	for i := 0; i < calendarDays; i++ {
		d := a.asOf.AddDate(0, 0, i)
		dateStr := engine.FormatLocalDate(d)

		var lines []string
		for _, sub := range a.subjects {
			v := engine.IsEventDay(d, sub, a.holidays)
			if !v.OK {
				continue
			}
			line := "  " + subjectStyle.Render(sub.Name)
			if sub.StartTime != "" {
				line += timeStyle.Render("  " + sub.StartTime)
			}
			if rec, ok := sub.RecordFor(dateStr); ok {
				line += markedStyle.Render("  marked " + string(rec.Status))
			}
			lines = append(lines, line)
		}

		holiday := a.holidays.Contains(dateStr)
		if len(lines) == 0 && !holiday {
			continue
		}

		header := dayStyle
		label := cli.FormatDate(dateStr)
		if i == 0 {
			header = todayStyle
			label += "  (today)"
		}
		b.WriteString(header.Render(label))
		if holiday {
			b.WriteString(holidayStyle.Render("  · holiday"))
		}
		b.WriteString("\n")
		if len(lines) == 0 {
			b.WriteString(markedStyle.Render("  no classes"))
			b.WriteString("\n")
		} else {
			b.WriteString(strings.Join(lines, "\n"))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if b.Len() == 0 {
		b.WriteString("  No class days in the next two weeks.")
	}

	return components.ContentCard(
		fmt.Sprintf("Next %d Days", calendarDays),
		strings.TrimRight(b.String(), "\n"),
		cw,
	)
}
