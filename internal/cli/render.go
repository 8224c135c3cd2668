package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Harrypotter-hub/SmartBunk/internal/model"
)

// Theme colors (Flexoki Dark)
var (
	ColorBorder   = lipgloss.Color("#282726")
	ColorTextDim  = lipgloss.Color("#575653")
	ColorTextMuted = lipgloss.Color("#6F6E69")
	ColorText     = lipgloss.Color("#FFFCF0")
	ColorAccent   = lipgloss.Color("#3AA99F")
	ColorGreen    = lipgloss.Color("#879A39")
	ColorOrange   = lipgloss.Color("#DA702C")
	ColorRed      = lipgloss.Color("#D14D41")
	ColorYellow   = lipgloss.Color("#D0A215")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorText).
			Align(lipgloss.Center)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorAccent)

	mutedStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	dimStyle = lipgloss.NewStyle().
			Foreground(ColorTextDim)
)

// StatusStyle returns the style for rendering a projection status.
func StatusStyle(s model.Status) lipgloss.Style {
	switch s {
	case model.StatusSafe:
		return lipgloss.NewStyle().Foreground(ColorGreen)
	case model.StatusDanger:
		return lipgloss.NewStyle().Foreground(ColorOrange)
	default:
		return lipgloss.NewStyle().Foreground(ColorRed)
	}
}

// RenderStatus renders a colored status label.
func RenderStatus(s model.Status) string {
	return StatusStyle(s).Render(StatusLabel(s))
}

// Table represents a bordered text table for CLI output.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
}

// RenderTitle renders a centered title bar in a bordered box.
func RenderTitle(title string) string {
	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder).
		Width(55).
		Align(lipgloss.Center).
		Padding(0, 1)

	return border.Render(titleStyle.Render(title))
}

// RenderTable renders a table with a header underline. Cell text may carry
// its own styling; widths are computed on the visible width.
func RenderTable(t Table) string {
	if len(t.Rows) == 0 && len(t.Headers) == 0 {
		return ""
	}

	numCols := len(t.Headers)
	for _, row := range t.Rows {
		if len(row) > numCols {
			numCols = len(row)
		}
	}

	widths := make([]int, numCols)
	for i, h := range t.Headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range t.Rows {
		for i, cell := range row {
			if w := lipgloss.Width(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	var b strings.Builder

	if t.Title != "" {
		b.WriteString("  ")
		b.WriteString(headerStyle.Render(t.Title))
		b.WriteString("\n")
	}

	if len(t.Headers) > 0 {
		b.WriteString("  ")
		for i, h := range t.Headers {
			b.WriteString(mutedStyle.Render(pad(h, widths[i])))
			if i < numCols-1 {
				b.WriteString("  ")
			}
		}
		b.WriteString("\n  ")
		for i := range widths {
			b.WriteString(dimStyle.Render(strings.Repeat("─", widths[i])))
			if i < numCols-1 {
				b.WriteString("  ")
			}
		}
		b.WriteString("\n")
	}

	for _, row := range t.Rows {
		b.WriteString("  ")
		for i, cell := range row {
			b.WriteString(pad(cell, widths[i]))
			if i < numCols-1 {
				b.WriteString("  ")
			}
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	return b.String()
}

// pad right-pads s with spaces to the given visible width.
func pad(s string, width int) string {
	gap := width - lipgloss.Width(s)
	if gap <= 0 {
		return s
	}
	return s + strings.Repeat(" ", gap)
}
