package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/tomato/internal/engine"
	"github.com/sadopc/tomato/internal/history"
)

type reportsModel struct {
	engine *engine.Engine
	agg    history.Aggregator
	now    func() time.Time
	width  int
	height int

	summaries []history.Summary
	offset    int // 7-day blocks back from today (0 = current)

	chart barchart.Model
}

func newReportsModel(e *engine.Engine, now func() time.Time) reportsModel {
	return reportsModel{
		engine: e,
		agg:    history.Aggregator{Location: time.Local},
		now:    now,
		chart:  barchart.New(60, 12),
	}
}

func (r *reportsModel) setSize(w, h int) {
	r.width = w
	r.height = h
	r.buildChart()
}

// refresh recomputes the weekly summaries from the session log.
func (r *reportsModel) refresh() {
	r.summaries = r.agg.Weekly(r.engine.History().Records(), r.refDate())
	r.buildChart()
}

func (r reportsModel) refDate() time.Time {
	return r.now().AddDate(0, 0, -7*r.offset)
}

func (r reportsModel) update(msg tea.Msg) (reportsModel, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return r, nil
	}
	switch {
	case key.Matches(km, keys.Left):
		r.offset++
		r.refresh()
	case key.Matches(km, keys.Right):
		if r.offset > 0 {
			r.offset--
		}
		r.refresh()
	}
	return r, nil
}

func (r *reportsModel) buildChart() {
	chartWidth := max(r.width-8, 20)
	chartHeight := 12
	if r.height > 30 {
		chartHeight = 16
	}

	r.chart = barchart.New(chartWidth, chartHeight)

	var bars []barchart.BarData
	for _, s := range r.summaries {
		label := s.Date
		if d, err := time.Parse("2006-01-02", s.Date); err == nil {
			label = d.Format("Mon 02")
		}
		style := lipgloss.NewStyle().Foreground(colorWork)
		if s.FocusMinutes == 0 {
			style = lipgloss.NewStyle().Foreground(colorSubtle)
		}
		bars = append(bars, barchart.BarData{
			Label: label,
			Values: []barchart.BarValue{{
				Name:  "Focus",
				Value: float64(s.FocusMinutes),
				Style: style,
			}},
		})
	}

	r.chart.PushAll(bars)
	r.chart.Draw()
}

func (r reportsModel) view() string {
	w := r.width - 4

	var dateLabel string
	if n := len(r.summaries); n > 0 {
		dateLabel = mutedStyle.Render(fmt.Sprintf("%s – %s", r.summaries[0].Date, r.summaries[n-1].Date))
	}
	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Focus minutes, last 7 days"), "  ", dateLabel,
	)

	nav := mutedStyle.Render("  ←/→: navigate")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "", r.chart.View(), "", r.renderSummaryTable(w), "", nav,
		),
	)
}

func (r reportsModel) renderSummaryTable(w int) string {
	var total history.Summary
	for _, s := range r.summaries {
		total.WorkCount += s.WorkCount
		total.BreakCount += s.BreakCount
		total.FocusMinutes += s.FocusMinutes
	}
	if total.WorkCount == 0 && total.BreakCount == 0 {
		return mutedStyle.Render("  No sessions in this period")
	}

	var rows []string
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-12s %6s %7s %10s", "Date", "Work", "Breaks", "Focus")))
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", min(max(w-6, 10), 40))))
	for _, s := range r.summaries {
		rows = append(rows, fmt.Sprintf("  %-12s %6d %7d %10s",
			s.Date, s.WorkCount, s.BreakCount, formatMinutes(s.FocusMinutes),
		))
	}
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", min(max(w-6, 10), 40))))
	rows = append(rows, highlightStyle.Render(fmt.Sprintf("  %-12s %6d %7d %10s",
		"Total", total.WorkCount, total.BreakCount, formatMinutes(total.FocusMinutes),
	)))
	return strings.Join(rows, "\n")
}
