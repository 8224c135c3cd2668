package components

import (
	"fmt"
	"strings"

	"github.com/Harrypotter-hub/SmartBunk/internal/model"
	"github.com/Harrypotter-hub/SmartBunk/internal/tui/theme"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

// ColorForStatus maps an attendance outlook to its theme color.
func ColorForStatus(s model.Status) lipgloss.Color {
	t := theme.Active
	switch s {
	case model.StatusSafe:
		return t.Safe
	case model.StatusDanger:
		return t.Warn
	default:
		return t.Danger
	}
}

// AttendanceBar renders a labeled attendance bar colored by outlook, with a
// tick mark at the target percentage.
func AttendanceBar(label string, res model.CalculationResult, target float64, labelW, barWidth int) string {
	t := theme.Active
	color := ColorForStatus(res.Status)

	pct := res.Percentage
	if pct < 0 {
		pct = 0
	}
	if pct > 1 {
		pct = 1
	}

	bar := progress.New(
		progress.WithSolidFill(string(color)),
		progress.WithWidth(barWidth),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.TextDim)

	rendered := markTarget(bar.ViewAs(pct), target, barWidth)

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	pctStyle := lipgloss.NewStyle().Foreground(color).Bold(true)

	return labelStyle.Render(fmt.Sprintf("%-*s", labelW, label)) + " " +
		rendered + " " +
		pctStyle.Render(fmt.Sprintf("%5.1f%%", pct*100))
}

// markTarget overlays a "│" tick at the target position of a rendered bar.
// The bar string contains ANSI sequences, so the overlay walks visible runes.
func markTarget(bar string, target float64, width int) string {
	if target <= 0 || target >= 1 {
		return bar
	}
	pos := int(target * float64(width))
	if pos <= 0 || pos >= width-1 {
		return bar
	}

	t := theme.Active
	tickStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)

	var b strings.Builder
	visible := 0
	inEscape := false
	for _, r := range bar {
		switch {
		case inEscape:
			b.WriteRune(r)
			if r == 'm' {
				inEscape = false
			}
		case r == '\x1b':
			b.WriteRune(r)
			inEscape = true
		default:
			if visible == pos {
				b.WriteString(tickStyle.Render("│"))
			} else {
				b.WriteRune(r)
			}
			visible++
		}
	}
	return b.String()
}

// Sparkline renders a unicode sparkline from values in [0,1].
func Sparkline(values []float64, color lipgloss.Color) string {
	if len(values) == 0 {
		return ""
	}

	blocks := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}
	style := lipgloss.NewStyle().Foreground(color)

	var buf strings.Builder
	buf.Grow(len(values) * 4) // UTF-8 block chars are up to 3 bytes
	for _, v := range values {
		if v < 0 {
			v = 0
		}
		if v > 1 {
			v = 1
		}
		idx := int(v * float64(len(blocks)-1))
		buf.WriteRune(blocks[idx])
	}

	return style.Render(buf.String())
}
