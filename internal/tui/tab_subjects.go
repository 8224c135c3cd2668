package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Harrypotter-hub/SmartBunk/internal/cli"
	"github.com/Harrypotter-hub/SmartBunk/internal/model"
	"github.com/Harrypotter-hub/SmartBunk/internal/tui/components"
	"github.com/Harrypotter-hub/SmartBunk/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderSubjectsTab(cw, contentH int) string {
	t := theme.Active
	sum := a.summary

	if len(sum.Subjects) == 0 {
		return "\n  No subjects yet. Add one with `smartbunk subject add`."
	}

	// Split view: list on the left, detail on the right
	halves := components.LayoutRow(cw, 2)

	var list strings.Builder
	listInnerW := components.CardInnerWidth(halves[0])
	for i, sr := range sum.Subjects {
		rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)
		marker := "  "
		if i == a.cursor {
			rowStyle = rowStyle.Background(t.SurfaceHover).Bold(true)
			marker = "▸ "
		}
		statusStyle := lipgloss.NewStyle().Foreground(components.ColorForStatus(sr.Result.Status))
		if i == a.cursor {
			statusStyle = statusStyle.Background(t.SurfaceHover)
		}

		nameW := listInnerW - 10
		if nameW < 8 {
			nameW = 8
		}
		list.WriteString(rowStyle.Render(fmt.Sprintf("%s%-*s", marker, nameW, truncStr(sr.Subject.Name, nameW))))
		list.WriteString(statusStyle.Render(fmt.Sprintf("%6s", cli.FormatPercent(sr.Result.Percentage))))
		list.WriteString("\n")
	}

	// Detail pane for the selected subject
	sr := sum.Subjects[a.cursor]
	res := sr.Result
	sub := sr.Subject

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)
	statusStyle := lipgloss.NewStyle().Foreground(components.ColorForStatus(res.Status)).Bold(true)

	var detail strings.Builder
	row := func(label, value string) {
		detail.WriteString(labelStyle.Render(fmt.Sprintf("%-12s", label)))
		detail.WriteString(valueStyle.Render(value))
		detail.WriteString("\n")
	}

	detail.WriteString(statusStyle.Render(cli.StatusLabel(res.Status)))
	detail.WriteString(labelStyle.Render("  " + cli.FormatAdvice(res)))
	detail.WriteString("\n\n")

	row("Schedule", cli.FormatSchedule(sub.Schedule))
	row("Term", fmt.Sprintf("%s – %s", cli.FormatDate(sub.StartDate), cli.FormatDate(sub.EndDate)))
	if sub.StartTime != "" {
		row("Starts", sub.StartTime)
	}
	row("Attended", cli.FormatFraction(sub.Attended, sub.Total))
	row("Current", cli.FormatPercent(res.Percentage))
	row("Best case", cli.FormatPercent(res.MaxPossiblePercentage))
	row("Remaining", fmt.Sprintf("%d classes", res.ClassesLeft))
	if res.BunksAvailable > 0 {
		row("Can skip", fmt.Sprintf("%d classes", res.BunksAvailable))
	}
	if res.ClassesToRecover > 0 {
		row("Must attend", fmt.Sprintf("next %d", res.ClassesToRecover))
	}

	// Recent history, newest first
	if len(sub.History) > 0 {
		detail.WriteString("\n")
		detail.WriteString(labelStyle.Render("Recent"))
		detail.WriteString("\n")

		var recent []string
		records := sub.History
		sorted := make([]int, len(records))
		for i := range sorted {
			sorted[i] = i
		}
		sort.Slice(sorted, func(i, j int) bool {
			return records[sorted[i]].Date > records[sorted[j]].Date
		})
		limit := 5
		if len(sorted) < limit {
			limit = len(sorted)
		}
		for _, idx := range sorted[:limit] {
			rec := records[idx]
			marker := lipgloss.NewStyle().Foreground(t.Safe).Render("✓")
			if rec.Status != model.StatusPresent {
				marker = lipgloss.NewStyle().Foreground(t.Danger).Render("✗")
			}
			recent = append(recent, fmt.Sprintf("  %s %s", marker, cli.FormatDate(rec.Date)))
		}
		detail.WriteString(strings.Join(recent, "\n"))
		detail.WriteString("\n")
	}

	if a.writeErr != nil {
		detail.WriteString("\n")
		detail.WriteString(lipgloss.NewStyle().Foreground(t.Danger).Render(fmt.Sprintf("write failed: %v", a.writeErr)))
		detail.WriteString("\n")
	}

	detail.WriteString("\n")
	detail.WriteString(lipgloss.NewStyle().Foreground(t.TextDim).Render("[p]resent  [a]bsent  [u]nmark"))

	listCard := components.ContentCard(fmt.Sprintf("Subjects (%d)", len(sum.Subjects)), list.String(), halves[0])
	detailCard := components.ContentCard(sub.Name, detail.String(), halves[1])

	return components.CardRow([]string{listCard, detailCard})
}
