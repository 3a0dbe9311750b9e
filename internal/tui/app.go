package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/tomato/internal/cue"
	"github.com/sadopc/tomato/internal/engine"
	"github.com/sadopc/tomato/internal/export"
	"github.com/sadopc/tomato/internal/history"
	"github.com/sadopc/tomato/internal/preset"
	"github.com/sadopc/tomato/internal/store"
)

var exportFormats = []export.Format{export.FormatJSON, export.FormatYAML, export.FormatCSV}

// Options configures the parts of App that touch the outside world.
type Options struct {
	Bell       io.Writer        // receives the completion bell; nil is silent
	Now        func() time.Time // defaults to time.Now
	SystemDark func() bool      // resolves the "system" theme
	ExportDir  string           // defaults to the home directory
}

// App is the root Bubble Tea model.
type App struct {
	store    *store.Store
	engine   *engine.Engine
	notifier *cue.Notifier
	opts     Options
	theme    string

	width  int
	height int

	activeView    viewState
	showHelp      bool
	exportPicking bool
	exportCursor  int

	pomodoro pomodoroModel
	today    dashboardModel
	reports  reportsModel
	settings settingsModel

	help      help.Model
	status    string
	statusErr bool
}

// NewEngine builds an engine from a persisted bundle.
func NewEngine(b store.Bundle) *engine.Engine {
	presets := preset.NewTable()
	if b.CustomPreset != nil {
		presets.SetCustom(b.CustomPreset.WorkMin, b.CustomPreset.BreakMin)
	}

	log := history.NewLog(history.DefaultLimit)
	log.Load(b.History)

	return engine.New(presets, log, engine.Config{
		PresetID:          b.PresetID,
		LongBreakInterval: b.LongBreak.Interval,
		LongBreakMinutes:  b.LongBreak.DurationMin,
		Stats: engine.Stats{
			WorkCompleted:           b.WorkCompleted,
			BreakCompleted:          b.BreakCompleted,
			ConsecutiveWorkSessions: b.ConsecutiveWorkSessions,
		},
	})
}

func NewApp(s *store.Store, b store.Bundle, opts Options) App {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.SystemDark == nil {
		opts.SystemDark = lipgloss.HasDarkBackground
	}

	eng := NewEngine(b)
	sound := b.Sound.Type
	if !cue.ValidSound(sound) {
		sound = cue.SoundBeep
	}
	n := cue.NewNotifier(opts.Bell, sound, preset.Clamp(b.Sound.Volume, 0, 100))

	h := help.New()
	h.ShowAll = false

	a := App{
		store:      s,
		engine:     eng,
		notifier:   n,
		opts:       opts,
		theme:      b.Theme,
		activeView: viewTimer,
		pomodoro:   newPomodoroModel(eng, s, opts.Now),
		today:      newDashboardModel(eng, opts.Now),
		reports:    newReportsModel(eng, opts.Now),
		settings:   newSettingsModel(eng, s, n),
		help:       h,
	}
	a.applyTheme()
	a.reports.refresh()
	return a
}

func (a *App) applyTheme() {
	if isDark(a.theme, a.opts.SystemDark) {
		setPalette(darkPalette)
	} else {
		setPalette(lightPalette)
	}
}

func (a App) Init() tea.Cmd {
	return tickCmd()
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.pomodoro.setSize(a.width, contentHeight)
		a.today.setSize(a.width, contentHeight)
		a.reports.setSize(a.width, contentHeight)
		a.settings.setSize(a.width, contentHeight)
		return a, nil

	case tea.KeyMsg:
		if a.exportPicking {
			return a.updateExportPicker(msg)
		}

		// If a child view is capturing input (e.g. form), delegate first.
		if a.isFormActive() {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Export):
			a.exportPicking = true
			a.exportCursor = 0
			return a, nil
		case key.Matches(msg, keys.Quit):
			a.engine.Pause()
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Theme):
			a.theme = nextTheme(a.theme)
			a.applyTheme()
			a.reports.buildChart()
			return a, tea.Batch(
				statusCmd("Theme: "+a.theme, false),
				saveSetting(a.store, store.KeyTheme, a.theme),
			)
		case key.Matches(msg, keys.Tab1):
			a.activeView = viewTimer
			return a, nil
		case key.Matches(msg, keys.Tab2):
			a.activeView = viewReports
			a.reports.refresh()
			return a, nil
		case key.Matches(msg, keys.Tab3):
			a.activeView = viewSettings
			return a, nil
		case key.Matches(msg, keys.Tab):
			a.activeView = (a.activeView + 1) % viewState(len(viewNames))
			if a.activeView == viewReports {
				a.reports.refresh()
			}
			return a, nil
		case key.Matches(msg, keys.Toggle), key.Matches(msg, keys.Reset),
			key.Matches(msg, keys.Switch), key.Matches(msg, keys.Preset):
			// Timer controls work from every view.
			var cmd tea.Cmd
			a.pomodoro, cmd = a.pomodoro.update(msg)
			return a, cmd
		}

	case tickMsg:
		var cmd tea.Cmd
		a, cmd = a.handleTick(time.Time(msg))
		return a, tea.Batch(tickCmd(), cmd)

	case statusMsg:
		a.status = msg.text
		a.statusErr = msg.isError
		return a, nil

	case exportDoneMsg:
		a.status = "Exported to " + msg.path
		a.statusErr = false
		a.exportPicking = false
		return a, nil
	}

	return a.updateActiveView(msg)
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewTimer:
		a.pomodoro, cmd = a.pomodoro.update(msg)
	case viewReports:
		a.reports, cmd = a.reports.update(msg)
	case viewSettings:
		a.settings, cmd = a.settings.update(msg)
	}
	return a, cmd
}

func (a App) isFormActive() bool {
	return a.activeView == viewSettings && a.settings.formActive
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewTimer:
		content = lipgloss.JoinVertical(lipgloss.Left, a.pomodoro.view(), a.today.view())
	case viewReports:
		content = a.reports.view()
	case viewSettings:
		content = a.settings.view()
	}

	contentHeight := max(a.height-lipgloss.Height(header)-lipgloss.Height(footer), 1)

	if a.exportPicking {
		content = a.renderExportPicker()
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("tomato")
	spacer := lipgloss.NewStyle().Width(max(a.width-lipgloss.Width(title)-lipgloss.Width(tabRow)-4, 1)).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		style := mutedStyle
		if a.statusErr {
			style = errorStyle
		}
		status = style.Render(" " + a.status)
	}

	// Countdown indicator in footer
	timerInfo := ""
	st := a.engine.State()
	switch {
	case st.Running:
		timerInfo = successStyle.Render(" ● " + formatClock(st.RemainingSeconds))
	case st.SessionStart != nil:
		timerInfo = warningStyle.Render(" ⏸ " + formatClock(st.RemainingSeconds))
	}

	left := footerStyle.Render(helpView)
	right := timerInfo + status

	spacer := lipgloss.NewStyle().Width(max(a.width-lipgloss.Width(left)-lipgloss.Width(right)-2, 1)).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}

func (a App) renderExportPicker() string {
	rows := []string{titleStyle.Render("Export Format"), ""}
	for i, f := range exportFormats {
		cursor := "  "
		style := normalItemStyle
		if i == a.exportCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+string(f)))
	}
	rows = append(rows, "", mutedStyle.Render("  enter: export  esc: cancel"))

	return activePanelStyle.Width(a.width - 4).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.exportCursor > 0 {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.exportCursor < len(exportFormats)-1 {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		return a, a.doExport(exportFormats[a.exportCursor])
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}

// Snapshot returns the current state as a bundle.
func (a App) Snapshot() store.Bundle {
	st := a.engine.State()
	var custom *store.CustomPreset
	if a.engine.Presets().CustomSet() {
		work, brk := a.engine.Presets().Custom()
		custom = &store.CustomPreset{WorkMin: work, BreakMin: brk}
	}
	return store.Bundle{
		PresetID:                st.PresetID,
		WorkCompleted:           st.WorkCompleted,
		BreakCompleted:          st.BreakCompleted,
		ConsecutiveWorkSessions: st.ConsecutiveWorkSessions,
		Theme:                   a.theme,
		CustomPreset:            custom,
		Sound:                   store.Sound{Type: a.notifier.Sound, Volume: a.notifier.Volume},
		LongBreak: store.LongBreak{
			Interval:    st.LongBreakInterval,
			DurationMin: st.LongBreakDurationSeconds / 60,
		},
		History: a.engine.History().Records(),
	}
}

func (a App) doExport(f export.Format) tea.Cmd {
	b := a.Snapshot()
	now := a.opts.Now()
	dir := a.opts.ExportDir
	return func() tea.Msg {
		if dir == "" {
			dir, _ = os.UserHomeDir()
		}
		path := filepath.Join(dir, export.FileName(now, f))
		if err := export.ToFile(b, f, path); err != nil {
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}
		return exportDoneMsg{path: path}
	}
}
