package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/liftlog/internal/store"
)

type historyModel struct {
	store  *store.Store
	width  int
	height int

	volumes  []store.DailyVolume
	workouts []store.Workout
	offset   int // 7-day blocks back from today (0 = current)

	chart barchart.Model
}

func newHistoryModel(s *store.Store) historyModel {
	return historyModel{
		store: s,
		chart: barchart.New(60, 12),
	}
}

func (m *historyModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

type historyDataMsg struct {
	volumes  []store.DailyVolume
	workouts []store.Workout
}

func (m historyModel) refresh() tea.Cmd {
	return func() tea.Msg {
		from, to := m.dateRange()
		volumes, _ := m.store.GetDailyVolume(from, to)
		workouts, _ := m.store.ListWorkouts(store.WorkoutFilter{From: &from, To: &to})
		return historyDataMsg{volumes: volumes, workouts: workouts}
	}
}

func (m historyModel) dateRange() (time.Time, time.Time) {
	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	end := today.AddDate(0, 0, 1-7*m.offset)
	start := end.AddDate(0, 0, -7)
	return start, end
}

func (m historyModel) update(msg tea.Msg) (historyModel, tea.Cmd) {
	switch msg := msg.(type) {
	case historyDataMsg:
		m.volumes = msg.volumes
		m.workouts = msg.workouts
		m.buildChart()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left):
			m.offset++
			return m, m.refresh()
		case key.Matches(msg, keys.Right):
			if m.offset > 0 {
				m.offset--
			}
			return m, m.refresh()
		}
	}
	return m, nil
}

func (m *historyModel) buildChart() {
	chartWidth := m.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := 10
	if m.height > 30 {
		chartHeight = 14
	}

	m.chart = barchart.New(chartWidth, chartHeight)

	from, to := m.dateRange()

	// One bar per day in range: completed-set volume.
	var bars []barchart.BarData
	for d := from; d.Before(to); d = d.AddDate(0, 0, 1) {
		dateStr := d.Format("2006-01-02")
		label := d.Format("Mon 02")

		value := barchart.BarValue{
			Name:  "",
			Value: 0,
			Style: lipgloss.NewStyle().Foreground(colorSubtle),
		}
		for _, v := range m.volumes {
			if v.Date == dateStr {
				value = barchart.BarValue{
					Name:  dateStr,
					Value: v.TotalVolume,
					Style: lipgloss.NewStyle().Foreground(colorPrimary),
				}
			}
		}

		bars = append(bars, barchart.BarData{
			Label:  label,
			Values: []barchart.BarValue{value},
		})
	}

	m.chart.PushAll(bars)
	m.chart.Draw()
}

func (m historyModel) view() string {
	w := m.width - 4

	from, to := m.dateRange()
	dateLabel := mutedStyle.Render(fmt.Sprintf("%s — %s",
		from.Format("Jan 02"), to.Add(-24*time.Hour).Format("Jan 02, 2006")))

	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("History"), "  ", dateLabel,
	)

	chartView := m.chart.View()
	tableView := m.renderWorkoutTable(w)
	nav := mutedStyle.Render("  ←/→: navigate weeks  e: export")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "", chartView, "", tableView, "", nav,
		),
	)
}

func (m historyModel) renderWorkoutTable(w int) string {
	if len(m.workouts) == 0 {
		return mutedStyle.Render("  No workouts this week")
	}

	var rows []string
	headerRow := mutedStyle.Render(fmt.Sprintf("  %-12s %8s %6s  %s", "Date", "Planned", "Sets", "Notes"))
	rows = append(rows, headerRow)
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", min(w-6, 54))))

	for _, workout := range m.workouts {
		sets, _ := m.store.ListWorkoutSets(workout.ID)
		done := 0
		for _, set := range sets {
			if set.Completed {
				done++
			}
		}
		rows = append(rows, fmt.Sprintf("  %-12s %6dm %3d/%-3d %s",
			workout.Date, workout.Duration, done, len(sets), truncate(workout.Notes, 28),
		))
	}

	return strings.Join(rows, "\n")
}
