package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/tomato/internal/engine"
	"github.com/sadopc/tomato/internal/history"
)

const recentLimit = 5

// dashboardModel is the today panel shown under the countdown.
type dashboardModel struct {
	engine *engine.Engine
	agg    history.Aggregator
	now    func() time.Time
	width  int
	height int
}

func newDashboardModel(e *engine.Engine, now func() time.Time) dashboardModel {
	return dashboardModel{
		engine: e,
		agg:    history.Aggregator{Location: time.Local},
		now:    now,
	}
}

func (d *dashboardModel) setSize(w, h int) {
	d.width = w
	d.height = h
}

func (d dashboardModel) today() history.Summary {
	return d.agg.Today(d.engine.History().Records(), d.now())
}

func (d dashboardModel) view() string {
	w := d.width - 4
	sum := d.today()

	stats := lipgloss.JoinHorizontal(lipgloss.Top,
		statBlock("Focus", formatMinutes(sum.FocusMinutes)),
		"    ",
		statBlock("Work", fmt.Sprintf("%d", sum.WorkCount)),
		"    ",
		statBlock("Breaks", fmt.Sprintf("%d", sum.BreakCount)),
	)

	rows := []string{titleStyle.Render("Today"), "", stats, "", titleStyle.Render("Recent sessions")}
	rows = append(rows, d.renderRecent(w)...)

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func statBlock(label, value string) string {
	return lipgloss.JoinVertical(lipgloss.Left,
		mutedStyle.Render(label),
		highlightStyle.Bold(true).Render(value),
	)
}

func (d dashboardModel) renderRecent(w int) []string {
	recent := d.engine.History().Recent(recentLimit)
	if len(recent) == 0 {
		return []string{mutedStyle.Render("  No sessions yet")}
	}

	rows := []string{
		mutedStyle.Render(fmt.Sprintf("  %-11s %-12s %-6s %8s", "Phase", "Date", "Start", "Length")),
		mutedStyle.Render("  " + strings.Repeat("─", min(max(w-6, 10), 42))),
	}
	for _, r := range recent {
		label := engine.Phase(r.Phase).Label(r.IsLongBreak)
		dot := lipgloss.NewStyle().
			Foreground(phaseColor(r.Phase == history.PhaseWork, r.IsLongBreak)).
			Render("●")
		start := r.StartTime.In(time.Local)
		rows = append(rows, fmt.Sprintf("  %s %-9s %-12s %-6s %8s",
			dot, label, start.Format("Jan 02"), start.Format("15:04"), formatSeconds(r.DurationSeconds),
		))
	}
	return rows
}
