// Package theme defines color themes for the smartbunk TUI dashboard.
package theme

import "github.com/charmbracelet/lipgloss"

// Theme defines the color roles used throughout the TUI. The Safe, Warn and
// Danger roles map directly to the three attendance outlooks.
type Theme struct {
	Name string

	Background   lipgloss.Color // main app background
	Surface      lipgloss.Color // card and panel backgrounds
	SurfaceHover lipgloss.Color // selected row background
	Border       lipgloss.Color // subtle borders
	BorderFocus  lipgloss.Color // accent-colored borders for focus states

	TextDim     lipgloss.Color // hints, disabled
	TextMuted   lipgloss.Color // labels, metadata
	TextPrimary lipgloss.Color // primary content

	Accent       lipgloss.Color // active states, highlights
	AccentBright lipgloss.Color

	Safe   lipgloss.Color // on track for the target
	Warn   lipgloss.Color // recoverable, needs attendance
	Danger lipgloss.Color // target out of reach

	Info lipgloss.Color // neutral data accents (calendar, sparklines)
}

// Active is the currently selected theme.
var Active = FlexokiDark

// FlexokiDark is the default theme - warm, paper-inspired dark theme.
var FlexokiDark = Theme{
	Name:         "flexoki-dark",
	Background:   lipgloss.Color("#100F0F"),
	Surface:      lipgloss.Color("#1C1B1A"),
	SurfaceHover: lipgloss.Color("#282726"),
	Border:       lipgloss.Color("#403E3C"),
	BorderFocus:  lipgloss.Color("#3AA99F"),
	TextDim:      lipgloss.Color("#575653"),
	TextMuted:    lipgloss.Color("#878580"),
	TextPrimary:  lipgloss.Color("#FFFCF0"),
	Accent:       lipgloss.Color("#3AA99F"),
	AccentBright: lipgloss.Color("#5BC8BE"),
	Safe:         lipgloss.Color("#879A39"),
	Warn:         lipgloss.Color("#D0A215"),
	Danger:       lipgloss.Color("#D14D41"),
	Info:         lipgloss.Color("#4385BE"),
}

// CatppuccinMocha is a warm pastel theme with soft, soothing colors.
var CatppuccinMocha = Theme{
	Name:         "catppuccin-mocha",
	Background:   lipgloss.Color("#1E1E2E"),
	Surface:      lipgloss.Color("#313244"),
	SurfaceHover: lipgloss.Color("#45475A"),
	Border:       lipgloss.Color("#585B70"),
	BorderFocus:  lipgloss.Color("#89B4FA"),
	TextDim:      lipgloss.Color("#6C7086"),
	TextMuted:    lipgloss.Color("#A6ADC8"),
	TextPrimary:  lipgloss.Color("#CDD6F4"),
	Accent:       lipgloss.Color("#89B4FA"),
	AccentBright: lipgloss.Color("#B4D0FB"),
	Safe:         lipgloss.Color("#A6E3A1"),
	Warn:         lipgloss.Color("#F9E2AF"),
	Danger:       lipgloss.Color("#F38BA8"),
	Info:         lipgloss.Color("#94E2D5"),
}

// TokyoNight is a cool blue/purple theme inspired by Tokyo city lights.
var TokyoNight = Theme{
	Name:         "tokyo-night",
	Background:   lipgloss.Color("#1A1B26"),
	Surface:      lipgloss.Color("#24283B"),
	SurfaceHover: lipgloss.Color("#343A52"),
	Border:       lipgloss.Color("#565F89"),
	BorderFocus:  lipgloss.Color("#7AA2F7"),
	TextDim:      lipgloss.Color("#565F89"),
	TextMuted:    lipgloss.Color("#A9B1D6"),
	TextPrimary:  lipgloss.Color("#C0CAF5"),
	Accent:       lipgloss.Color("#7AA2F7"),
	AccentBright: lipgloss.Color("#A9C1FF"),
	Safe:         lipgloss.Color("#9ECE6A"),
	Warn:         lipgloss.Color("#E0AF68"),
	Danger:       lipgloss.Color("#F7768E"),
	Info:         lipgloss.Color("#7DCFFF"),
}

// Terminal uses ANSI 16 colors only - maximum compatibility.
var Terminal = Theme{
	Name:         "terminal",
	Background:   lipgloss.Color("0"),
	Surface:      lipgloss.Color("0"),
	SurfaceHover: lipgloss.Color("8"),
	Border:       lipgloss.Color("8"),
	BorderFocus:  lipgloss.Color("6"),
	TextDim:      lipgloss.Color("8"),
	TextMuted:    lipgloss.Color("7"),
	TextPrimary:  lipgloss.Color("15"),
	Accent:       lipgloss.Color("6"),
	AccentBright: lipgloss.Color("14"),
	Safe:         lipgloss.Color("2"),
	Warn:         lipgloss.Color("3"),
	Danger:       lipgloss.Color("1"),
	Info:         lipgloss.Color("4"),
}

// All available themes.
var All = []Theme{FlexokiDark, CatppuccinMocha, TokyoNight, Terminal}

// ByName returns a theme by its name, defaulting to FlexokiDark.
func ByName(name string) Theme {
	for _, t := range All {
		if t.Name == name {
			return t
		}
	}
	return FlexokiDark
}

// SetActive sets the active theme by name.
func SetActive(name string) {
	Active = ByName(name)
}
