package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/Harrypotter-hub/SmartBunk/internal/cli"
	"github.com/Harrypotter-hub/SmartBunk/internal/engine"
	"github.com/Harrypotter-hub/SmartBunk/internal/model"
	"github.com/Harrypotter-hub/SmartBunk/internal/report"
	"github.com/Harrypotter-hub/SmartBunk/internal/tui/components"
	"github.com/Harrypotter-hub/SmartBunk/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderOverviewTab(cw int) string {
	t := theme.Active
	sum := a.summary
	var b strings.Builder

	if len(sum.Subjects) == 0 {
		return "\n  No subjects yet. Add one with `smartbunk subject add`."
	}

	// Row 1: Metric cards
	riskColor := t.Safe
	if sum.ImpossibleCount > 0 {
		riskColor = t.Danger
	} else if sum.DangerCount > 0 {
		riskColor = t.Warn
	}

	metrics := []components.Metric{
		{Label: "Subjects", Value: fmt.Sprintf("%d", len(sum.Subjects))},
		{Label: "Average", Value: cli.FormatPercent(sum.AveragePercentage),
			Note: fmt.Sprintf("target %s", cli.FormatPercent(a.opts.TargetPercentage))},
		{Label: "At Risk", Value: fmt.Sprintf("%d", sum.DangerCount+sum.ImpossibleCount),
			Note: fmt.Sprintf("%d safe", sum.SafeCount), Color: riskColor},
		{Label: "Classes Today", Value: fmt.Sprintf("%d", sum.ClassesToday)},
	}
	b.WriteString(components.MetricCardRow(metrics, cw))
	b.WriteString("\n")

	// Row 2: per-subject attendance bars against the target
	innerW := components.CardInnerWidth(cw)
	labelW := 0
	for _, sr := range sum.Subjects {
		if n := len([]rune(sr.Subject.Name)); n > labelW {
			labelW = n
		}
	}
	if labelW > 20 {
		labelW = 20
	}
	barW := innerW - labelW - 9
	if barW < 10 {
		barW = 10
	}

	var bars strings.Builder
	for _, sr := range sum.Subjects {
		bars.WriteString(components.AttendanceBar(
			truncStr(sr.Subject.Name, labelW), sr.Result, a.opts.TargetPercentage, labelW, barW))
		bars.WriteString("\n")
	}
	b.WriteString(components.ContentCard("Attendance", bars.String(), cw))
	b.WriteString("\n")

	// Row 3: advice for everything not safe, plus a weekly trend sparkline
	halves := components.LayoutRow(cw, 2)
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted)

	var advice strings.Builder
	for _, sr := range sum.AtRisk() {
		nameStyle := lipgloss.NewStyle().Foreground(components.ColorForStatus(sr.Result.Status))
		advice.WriteString(fmt.Sprintf("%s  %s\n",
			nameStyle.Render(truncStr(sr.Subject.Name, 18)),
			mutedStyle.Render(cli.FormatAdvice(sr.Result))))
	}
	if advice.Len() == 0 {
		advice.WriteString(lipgloss.NewStyle().Foreground(t.Safe).Render("All subjects on track."))
		advice.WriteString("\n")
	}

	var trend strings.Builder
	for _, sr := range sum.Subjects {
		rates := weeklyRates(sr, a.asOf, 8)
		trend.WriteString(fmt.Sprintf("%s %s\n",
			mutedStyle.Render(fmt.Sprintf("%-*s", labelW, truncStr(sr.Subject.Name, labelW))),
			components.Sparkline(rates, t.Info)))
	}

	adviceCard := components.ContentCard("Next Steps", advice.String(), halves[0])
	trendCard := components.ContentCard("Weekly Trend", trend.String(), halves[1])
	b.WriteString(components.CardRow([]string{adviceCard, trendCard}))

	return b.String()
}

// weeklyRates computes the attendance fraction of each of the last n weeks
// ending at the given date. Weeks with no records render as zero.
func weeklyRates(sr report.SubjectReport, asOf time.Time, n int) []float64 {
	rates := make([]float64, n)
	end := asOf
	for i := n - 1; i >= 0; i-- {
		weekStart := end.AddDate(0, 0, -6)
		from := engine.FormatLocalDate(weekStart)
		to := engine.FormatLocalDate(end)

		attended, total := 0, 0
		for _, rec := range sr.Subject.History {
			if rec.Date < from || rec.Date > to {
				continue
			}
			total++
			if rec.Status == model.StatusPresent {
				attended++
			}
		}
		if total > 0 {
			rates[i] = float64(attended) / float64(total)
		}
		end = weekStart.AddDate(0, 0, -1)
	}
	return rates
}
