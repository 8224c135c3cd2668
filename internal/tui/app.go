// Package tui provides the interactive Bubble Tea dashboard for smartbunk.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/Harrypotter-hub/SmartBunk/internal/config"
	"github.com/Harrypotter-hub/SmartBunk/internal/engine"
	"github.com/Harrypotter-hub/SmartBunk/internal/model"
	"github.com/Harrypotter-hub/SmartBunk/internal/report"
	"github.com/Harrypotter-hub/SmartBunk/internal/store"
	"github.com/Harrypotter-hub/SmartBunk/internal/tui/components"
	"github.com/Harrypotter-hub/SmartBunk/internal/tui/theme"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// DataLoadedMsg is sent when the subject list finishes loading.
type DataLoadedMsg struct {
	Subjects []model.Subject
	Err      error
	LoadTime time.Duration
}

// MarkDoneMsg is sent when an attendance write completes. The refreshed
// subject list rides along so the view updates in one message.
type MarkDoneMsg struct {
	Subjects []model.Subject
	Err      error
}

// App is the root Bubble Tea model.
type App struct {
	// Wiring
	dbPath   string
	cfg      config.Config
	opts     engine.Options
	asOf     time.Time
	holidays engine.HolidaySet

	// Data
	subjects []model.Subject
	summary  report.Summary
	loaded   bool
	loadErr  error
	loadTime time.Duration
	writeErr error

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool
	cursor    int // subjects tab selection

	spinner spinner.Model
}

const (
	minTerminalWidth = 70
	maxContentWidth  = 140
	minContentHeight = 5
)

// NewApp creates a new TUI app model.
func NewApp(dbPath string, cfg config.Config, opts engine.Options, asOf time.Time) App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent)

	return App{
		dbPath:   dbPath,
		cfg:      cfg,
		opts:     opts,
		asOf:     asOf,
		holidays: cfg.HolidaySet(),
		spinner:  sp,
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		loadSubjectsCmd(a.dbPath),
		a.spinner.Tick,
	)
}

func (a *App) recompute() {
	a.summary = report.Build(a.subjects, a.opts, a.asOf, a.holidays)

	// Clamp the subjects cursor to the new list bounds
	if a.cursor >= len(a.subjects) {
		a.cursor = len(a.subjects) - 1
	}
	if a.cursor < 0 {
		a.cursor = 0
	}
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case tea.KeyMsg:
		key := msg.String()

		if key == "ctrl+c" || key == "q" {
			return a, tea.Quit
		}

		if !a.loaded {
			return a, nil
		}

		if key == "?" {
			a.showHelp = !a.showHelp
			return a, nil
		}
		if a.showHelp {
			a.showHelp = false
			return a, nil
		}

		// Subjects tab keybindings
		if a.activeTab == 1 && len(a.subjects) > 0 {
			switch key {
			case "j", "down":
				if a.cursor < len(a.subjects)-1 {
					a.cursor++
				}
				return a, nil
			case "k", "up":
				if a.cursor > 0 {
					a.cursor--
				}
				return a, nil
			case "g":
				a.cursor = 0
				return a, nil
			case "G":
				a.cursor = len(a.subjects) - 1
				return a, nil
			case "p":
				return a, markCmd(a.dbPath, a.subjects[a.cursor].ID, a.asOf, model.StatusPresent)
			case "a":
				return a, markCmd(a.dbPath, a.subjects[a.cursor].ID, a.asOf, model.StatusAbsent)
			case "u":
				return a, unmarkCmd(a.dbPath, a.subjects[a.cursor].ID, a.asOf)
			}
		}

		// Manual reload
		if key == "r" {
			return a, loadSubjectsCmd(a.dbPath)
		}

		// Tab navigation
		switch key {
		case "left", "h":
			a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
		case "right", "l", "tab":
			a.activeTab = (a.activeTab + 1) % len(components.Tabs)
		default:
			if len(key) == 1 {
				if idx := components.TabIdxByKey(rune(key[0])); idx >= 0 {
					a.activeTab = idx
				}
			}
		}
		return a, nil

	case DataLoadedMsg:
		a.loaded = true
		a.loadErr = msg.Err
		a.loadTime = msg.LoadTime
		if msg.Err == nil {
			a.subjects = msg.Subjects
			a.recompute()
		}
		return a, nil

	case MarkDoneMsg:
		a.writeErr = msg.Err
		if msg.Err == nil && msg.Subjects != nil {
			a.subjects = msg.Subjects
			a.recompute()
		}
		return a, nil

	case spinner.TickMsg:
		if !a.loaded {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil
	}

	return a, nil
}

func (a App) contentWidth() int {
	cw := a.width
	if cw > maxContentWidth {
		cw = maxContentWidth
	}
	return cw
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}

	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}

	if !a.loaded {
		return a.viewLoading()
	}

	if a.showHelp {
		return a.viewHelp()
	}

	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := a.height
	if h < 5 {
		h = 5
	}

	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  smartbunk needs at least %d columns.\n",
		a.width,
		minTerminalWidth,
	)

	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewLoading() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderFocus).
		Padding(2, 4)

	logoStyle := lipgloss.NewStyle().
		Foreground(t.AccentBright).
		Bold(true)

	subtitleStyle := lipgloss.NewStyle().
		Foreground(t.TextMuted)

	var b strings.Builder
	b.WriteString(logoStyle.Render("◈ smartbunk"))
	b.WriteString(subtitleStyle.Render(" · Attendance Outlook"))
	b.WriteString("\n\n")
	b.WriteString(a.spinner.View())
	b.WriteString(subtitleStyle.Render(" Loading subjects..."))

	card := cardStyle.Render(b.String())

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card)
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderFocus).
		Padding(1, 3)

	titleStyle := lipgloss.NewStyle().
		Foreground(t.AccentBright).
		Bold(true)

	sectionStyle := lipgloss.NewStyle().
		Foreground(t.Accent).
		Bold(true)

	keyStyle := lipgloss.NewStyle().
		Foreground(t.Info).
		Bold(true)

	descStyle := lipgloss.NewStyle().
		Foreground(t.TextMuted)

	dimStyle := lipgloss.NewStyle().
		Foreground(t.TextDim)

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n\n")

	b.WriteString(sectionStyle.Render("Navigation"))
	b.WriteString("\n")
	navBindings := []struct{ key, desc string }{
		{"o s c", "Jump to tab"},
		{"← →", "Previous / Next tab"},
		{"j k", "Navigate subjects"},
		{"g G", "First / Last subject"},
	}
	for _, bind := range navBindings {
		fmt.Fprintf(&b, "  %s  %s\n",
			keyStyle.Render(fmt.Sprintf("%-8s", bind.key)),
			descStyle.Render(bind.desc))
	}

	b.WriteString("\n")
	b.WriteString(sectionStyle.Render("Actions"))
	b.WriteString("\n")
	actionBindings := []struct{ key, desc string }{
		{"p", "Mark present today"},
		{"a", "Mark absent today"},
		{"u", "Unmark today"},
		{"r", "Reload data"},
		{"?", "Toggle help"},
		{"q", "Quit"},
	}
	for _, bind := range actionBindings {
		fmt.Fprintf(&b, "  %s  %s\n",
			keyStyle.Render(fmt.Sprintf("%-8s", bind.key)),
			descStyle.Render(bind.desc))
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	card := cardStyle.Render(b.String())

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card)
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height

	header := components.RenderTabBar(a.activeTab)

	statusBar := components.RenderStatusBar(w, a.summary.Date, len(a.subjects))

	headerH := lipgloss.Height(header)
	statusH := lipgloss.Height(statusBar)
	contentH := h - headerH - statusH
	if contentH < minContentHeight {
		contentH = minContentHeight
	}

	var content string
	switch {
	case a.loadErr != nil:
		errStyle := lipgloss.NewStyle().Foreground(t.Danger)
		content = "\n  " + errStyle.Render(fmt.Sprintf("Could not load data: %v", a.loadErr))
	case a.activeTab == 0:
		content = a.renderOverviewTab(cw)
	case a.activeTab == 1:
		content = a.renderSubjectsTab(cw, contentH)
	default:
		content = a.renderCalendarTab(cw, contentH)
	}

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
}

// loadSubjectsCmd loads the subject list in a background command.
func loadSubjectsCmd(dbPath string) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		s, err := store.Open(dbPath)
		if err != nil {
			return DataLoadedMsg{Err: err, LoadTime: time.Since(start)}
		}
		defer func() { _ = s.Close() }()

		subjects, err := s.ListSubjects()
		return DataLoadedMsg{
			Subjects: subjects,
			Err:      err,
			LoadTime: time.Since(start),
		}
	}
}

// markCmd writes one attendance record and returns the refreshed list.
func markCmd(dbPath, subjectID string, day time.Time, status model.AttendanceStatus) tea.Cmd {
	return func() tea.Msg {
		s, err := store.Open(dbPath)
		if err != nil {
			return MarkDoneMsg{Err: err}
		}
		defer func() { _ = s.Close() }()

		if err := s.MarkAttendance(subjectID, engine.FormatLocalDate(day), status); err != nil {
			return MarkDoneMsg{Err: err}
		}
		subjects, err := s.ListSubjects()
		return MarkDoneMsg{Subjects: subjects, Err: err}
	}
}

func unmarkCmd(dbPath, subjectID string, day time.Time) tea.Cmd {
	return func() tea.Msg {
		s, err := store.Open(dbPath)
		if err != nil {
			return MarkDoneMsg{Err: err}
		}
		defer func() { _ = s.Close() }()

		if err := s.UnmarkAttendance(subjectID, engine.FormatLocalDate(day)); err != nil {
			return MarkDoneMsg{Err: err}
		}
		subjects, err := s.ListSubjects()
		return MarkDoneMsg{Subjects: subjects, Err: err}
	}
}

func truncStr(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	padding := strings.Repeat("\n", h-len(lines))
	return s + padding
}
