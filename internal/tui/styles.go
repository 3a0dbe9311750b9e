package tui

import "github.com/charmbracelet/lipgloss"

// Theme modes, cycled with the theme key.
const (
	themeSystem = "system"
	themeLight  = "light"
	themeDark   = "dark"
)

var themeModes = []string{themeSystem, themeLight, themeDark}

func nextTheme(mode string) string {
	for i, m := range themeModes {
		if m == mode {
			return themeModes[(i+1)%len(themeModes)]
		}
	}
	return themeSystem
}

// isDark resolves a theme mode. "system" asks the terminal.
func isDark(mode string, systemDark func() bool) bool {
	switch mode {
	case themeDark:
		return true
	case themeLight:
		return false
	}
	if systemDark == nil {
		return true
	}
	return systemDark()
}

type palette struct {
	primary   lipgloss.Color
	work      lipgloss.Color
	rest      lipgloss.Color
	longRest  lipgloss.Color
	muted     lipgloss.Color
	success   lipgloss.Color
	warning   lipgloss.Color
	err       lipgloss.Color
	fg        lipgloss.Color
	subtle    lipgloss.Color
	highlight lipgloss.Color
}

var darkPalette = palette{
	primary:   lipgloss.Color("#6C63FF"),
	work:      lipgloss.Color("#FF6B6B"),
	rest:      lipgloss.Color("#2EC4B6"),
	longRest:  lipgloss.Color("#7AA2F7"),
	muted:     lipgloss.Color("#666666"),
	success:   lipgloss.Color("#2ECC71"),
	warning:   lipgloss.Color("#F39C12"),
	err:       lipgloss.Color("#E74C3C"),
	fg:        lipgloss.Color("#C0CAF5"),
	subtle:    lipgloss.Color("#414868"),
	highlight: lipgloss.Color("#7AA2F7"),
}

var lightPalette = palette{
	primary:   lipgloss.Color("#4B3FD9"),
	work:      lipgloss.Color("#C0392B"),
	rest:      lipgloss.Color("#12806F"),
	longRest:  lipgloss.Color("#2A5DB0"),
	muted:     lipgloss.Color("#8A8A8A"),
	success:   lipgloss.Color("#1E8449"),
	warning:   lipgloss.Color("#B9770E"),
	err:       lipgloss.Color("#B03A2E"),
	fg:        lipgloss.Color("#1A1B26"),
	subtle:    lipgloss.Color("#C8CCE0"),
	highlight: lipgloss.Color("#2A5DB0"),
}

// Color palette
var (
	colorPrimary   lipgloss.Color
	colorWork      lipgloss.Color
	colorBreak     lipgloss.Color
	colorLongBreak lipgloss.Color
	colorMuted     lipgloss.Color
	colorSuccess   lipgloss.Color
	colorWarning   lipgloss.Color
	colorError     lipgloss.Color
	colorFg        lipgloss.Color
	colorSubtle    lipgloss.Color
	colorHighlight lipgloss.Color
)

// Styles
var (
	activeTabStyle    lipgloss.Style
	inactiveTabStyle  lipgloss.Style
	panelStyle        lipgloss.Style
	activePanelStyle  lipgloss.Style
	titleStyle        lipgloss.Style
	successStyle      lipgloss.Style
	warningStyle      lipgloss.Style
	errorStyle        lipgloss.Style
	mutedStyle        lipgloss.Style
	highlightStyle    lipgloss.Style
	headerStyle       lipgloss.Style
	footerStyle       lipgloss.Style
	selectedItemStyle lipgloss.Style
	normalItemStyle   lipgloss.Style
)

func init() {
	setPalette(darkPalette)
}

func setPalette(p palette) {
	colorPrimary = p.primary
	colorWork = p.work
	colorBreak = p.rest
	colorLongBreak = p.longRest
	colorMuted = p.muted
	colorSuccess = p.success
	colorWarning = p.warning
	colorError = p.err
	colorFg = p.fg
	colorSubtle = p.subtle
	colorHighlight = p.highlight

	// Tabs
	activeTabStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(colorPrimary).
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(colorPrimary).
		Padding(0, 2)

	inactiveTabStyle = lipgloss.NewStyle().
		Foreground(colorMuted).
		Padding(0, 2)

	// Panels
	panelStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorSubtle).
		Padding(1, 2)

	activePanelStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorPrimary).
		Padding(1, 2)

	// Text
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(colorFg)
	successStyle = lipgloss.NewStyle().Foreground(colorSuccess)
	warningStyle = lipgloss.NewStyle().Foreground(colorWarning)
	errorStyle = lipgloss.NewStyle().Foreground(colorError)
	mutedStyle = lipgloss.NewStyle().Foreground(colorMuted)
	highlightStyle = lipgloss.NewStyle().Foreground(colorHighlight)

	// Header/footer
	headerStyle = lipgloss.NewStyle().Padding(0, 1)
	footerStyle = lipgloss.NewStyle().Foreground(colorMuted).Padding(0, 1)

	// List items
	selectedItemStyle = lipgloss.NewStyle().Foreground(colorPrimary).Bold(true)
	normalItemStyle = lipgloss.NewStyle().Foreground(colorFg)
}

// phaseColor is the accent used for the countdown of the active phase.
func phaseColor(work, longBreak bool) lipgloss.Color {
	switch {
	case work:
		return colorWork
	case longBreak:
		return colorLongBreak
	default:
		return colorBreak
	}
}
