package components

import (
	"strings"

	"github.com/Harrypotter-hub/SmartBunk/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// Tab is a single entry in the tab bar.
type Tab struct {
	Name string
	Key  rune // shortcut, highlighted at its first occurrence in Name
}

// Tabs defines all available tabs.
var Tabs = []Tab{
	{Name: "Overview", Key: 'o'},
	{Name: "Subjects", Key: 's'},
	{Name: "Calendar", Key: 'c'},
}

// RenderTabBar renders the tab bar with the given active index.
func RenderTabBar(activeIdx int) string {
	t := theme.Active

	activeStyle := lipgloss.NewStyle().
		Foreground(t.Accent).
		Bold(true)

	inactiveStyle := lipgloss.NewStyle().
		Foreground(t.TextMuted)

	keyStyle := lipgloss.NewStyle().
		Foreground(t.Accent).
		Bold(true)

	dimStyle := lipgloss.NewStyle().
		Foreground(t.TextDim)

	var parts []string
	for i, tab := range Tabs {
		if i == activeIdx {
			parts = append(parts, activeStyle.Render(tab.Name))
			continue
		}
		pos := strings.IndexRune(strings.ToLower(tab.Name), tab.Key)
		if pos < 0 {
			parts = append(parts, inactiveStyle.Render(tab.Name)+
				dimStyle.Render("[")+keyStyle.Render(string(tab.Key))+dimStyle.Render("]"))
			continue
		}
		parts = append(parts, inactiveStyle.Render(tab.Name[:pos])+
			dimStyle.Render("[")+keyStyle.Render(string(tab.Name[pos]))+dimStyle.Render("]")+
			inactiveStyle.Render(tab.Name[pos+1:]))
	}

	return " " + strings.Join(parts, "  ")
}

// TabIdxByKey returns the tab index for a given key press, or -1.
func TabIdxByKey(key rune) int {
	for i, tab := range Tabs {
		if tab.Key == key {
			return i
		}
	}
	return -1
}
