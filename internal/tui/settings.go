package tui

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/liftlog/internal/store"
)

type settingsModel struct {
	store  *store.Store
	width  int
	height int

	settings   []store.Setting
	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	restDuration    *string
	soundEnabled    *string
	notifyEnabled   *string
	weightUnit      *string
	sessionDuration *string
}

func newSettingsModel(s *store.Store) settingsModel {
	rd, se, ne, wu, sd := "", "", "", "", ""
	return settingsModel{
		store:           s,
		restDuration:    &rd,
		soundEnabled:    &se,
		notifyEnabled:   &ne,
		weightUnit:      &wu,
		sessionDuration: &sd,
	}
}

func (m *settingsModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

type settingsDataMsg struct {
	settings []store.Setting
}

func (m settingsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		settings, _ := m.store.GetAllSettings()
		return settingsDataMsg{settings: settings}
	}
}

func (m settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if m.formActive && m.form != nil {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case settingsDataMsg:
		m.settings = msg.settings
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Enter), key.Matches(msg, keys.New):
			return m.showForm()
		}
	}
	return m, nil
}

func (m settingsModel) showForm() (settingsModel, tea.Cmd) {
	// Load current values
	*m.restDuration = m.getVal("rest_duration", "90")
	*m.soundEnabled = m.getVal("sound_enabled", "on")
	*m.notifyEnabled = m.getVal("notify_enabled", "on")
	*m.weightUnit = m.getVal("weight_unit", "kg")
	*m.sessionDuration = m.getVal("session_duration", "60")

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Default rest (seconds)").
				Value(m.restDuration).
				Validate(func(v string) error {
					n, err := strconv.Atoi(v)
					if err != nil {
						return fmt.Errorf("enter a number of seconds")
					}
					if n < minCustomRest || n > maxCustomRest {
						return fmt.Errorf("must be between %d and %d seconds", minCustomRest, maxCustomRest)
					}
					return nil
				}),
			huh.NewSelect[string]().Title("Completion sound").
				Options(
					huh.NewOption("On", "on"),
					huh.NewOption("Off", "off"),
				).Value(m.soundEnabled),
			huh.NewSelect[string]().Title("Desktop notification").
				Options(
					huh.NewOption("On", "on"),
					huh.NewOption("Off", "off"),
				).Value(m.notifyEnabled),
		).Title("Rest Timer"),
		huh.NewGroup(
			huh.NewSelect[string]().Title("Weight unit").
				Options(
					huh.NewOption("Kilograms", "kg"),
					huh.NewOption("Pounds", "lb"),
				).Value(m.weightUnit),
			huh.NewInput().Title("Planned session length (min)").Value(m.sessionDuration),
		).Title("Session"),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			m.formActive = false
			m.form = nil
			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.formActive = false
		m.saveSettings()
		rest, _ := strconv.Atoi(*m.restDuration)
		return m, tea.Batch(
			m.refresh(),
			func() tea.Msg { return settingsSavedMsg{restDuration: rest} },
		)
	}

	return m, cmd
}

func (m settingsModel) saveSettings() {
	m.store.SetSetting("rest_duration", *m.restDuration)
	m.store.SetSetting("sound_enabled", *m.soundEnabled)
	m.store.SetSetting("notify_enabled", *m.notifyEnabled)
	m.store.SetSetting("weight_unit", *m.weightUnit)
	m.store.SetSetting("session_duration", *m.sessionDuration)
}

func (m settingsModel) getVal(k, fallback string) string {
	v, err := m.store.GetSetting(k)
	if err != nil {
		return fallback
	}
	return v
}

func (m settingsModel) view() string {
	w := m.width - 4

	if m.formActive && m.form != nil {
		title := titleStyle.Render("Settings")
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", m.form.View())
		return panelStyle.Width(w).Render(content)
	}

	title := titleStyle.Render("Settings")
	hint := mutedStyle.Render("Press enter to edit settings")

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	for _, setting := range m.settings {
		label := lipgloss.NewStyle().Width(24).Render(setting.Key)
		value := highlightStyle.Render(formatSettingValue(setting.Key, setting.Value))
		rows = append(rows, fmt.Sprintf("  %s %s", label, value))
	}

	rows = append(rows, "")
	rows = append(rows, hint)

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func formatSettingValue(k, v string) string {
	switch k {
	case "rest_duration":
		if secs, err := strconv.Atoi(v); err == nil {
			return formatClock(secs)
		}
	case "session_duration":
		return v + " min"
	}
	return v
}
