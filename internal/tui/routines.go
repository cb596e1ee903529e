package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/liftlog/internal/store"
)

type routinesModel struct {
	store  *store.Store
	width  int
	height int

	routines         []store.Routine
	exercises        []store.RoutineExercise
	cursor           int
	exerciseCursor   int
	viewingExercises bool

	formActive bool
	form       *huh.Form
	formType   string // "routine", "edit_routine", "exercise"

	// Form field pointers (survive value copies)
	formName  *string
	formNotes *string
	formSets  *string
	formReps  *string
	formWt    *string
	formRest  *string

	editingID int64
}

func newRoutinesModel(s *store.Store) routinesModel {
	name, notes, sets, reps, wt, rest := "", "", "", "", "", ""
	return routinesModel{
		store:     s,
		formName:  &name,
		formNotes: &notes,
		formSets:  &sets,
		formReps:  &reps,
		formWt:    &wt,
		formRest:  &rest,
	}
}

func (m *routinesModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

type routinesDataMsg struct {
	routines []store.Routine
}

type exercisesDataMsg struct {
	exercises []store.RoutineExercise
}

func (m routinesModel) refresh() tea.Cmd {
	return func() tea.Msg {
		routines, _ := m.store.ListRoutines(false)
		return routinesDataMsg{routines: routines}
	}
}

func (m routinesModel) refreshExercises() tea.Cmd {
	if m.cursor >= len(m.routines) {
		return nil
	}
	id := m.routines[m.cursor].ID
	return func() tea.Msg {
		exercises, _ := m.store.ListRoutineExercises(id)
		return exercisesDataMsg{exercises: exercises}
	}
}

func (m routinesModel) update(msg tea.Msg) (routinesModel, tea.Cmd) {
	if m.formActive && m.form != nil {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case routinesDataMsg:
		m.routines = msg.routines
		if m.cursor >= len(m.routines) {
			m.cursor = max(0, len(m.routines)-1)
		}
		return m, nil

	case exercisesDataMsg:
		m.exercises = msg.exercises
		if m.exerciseCursor >= len(m.exercises) {
			m.exerciseCursor = max(0, len(m.exercises)-1)
		}
		return m, nil

	case tea.KeyMsg:
		if m.viewingExercises {
			return m.updateExerciseView(msg)
		}
		return m.updateRoutineList(msg)
	}
	return m, nil
}

func (m routinesModel) updateRoutineList(msg tea.KeyMsg) (routinesModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, keys.Down):
		if m.cursor < len(m.routines)-1 {
			m.cursor++
		}
	case key.Matches(msg, keys.Enter):
		if len(m.routines) > 0 {
			m.viewingExercises = true
			m.exerciseCursor = 0
			return m, m.refreshExercises()
		}
	case key.Matches(msg, keys.New):
		return m.showNewRoutineForm()
	case key.Matches(msg, keys.Delete):
		if len(m.routines) > 0 {
			r := m.routines[m.cursor]
			m.store.ArchiveRoutine(r.ID)
			return m, m.refresh()
		}
	case key.Matches(msg, keys.Export):
		if len(m.routines) > 0 {
			return m.showEditRoutineForm()
		}
	}
	return m, nil
}

func (m routinesModel) updateExerciseView(msg tea.KeyMsg) (routinesModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Back):
		m.viewingExercises = false
		return m, nil
	case key.Matches(msg, keys.Up):
		if m.exerciseCursor > 0 {
			m.exerciseCursor--
		}
	case key.Matches(msg, keys.Down):
		if m.exerciseCursor < len(m.exercises)-1 {
			m.exerciseCursor++
		}
	case key.Matches(msg, keys.New):
		return m.showNewExerciseForm()
	case key.Matches(msg, keys.Delete):
		if len(m.exercises) > 0 {
			e := m.exercises[m.exerciseCursor]
			m.store.DeleteRoutineExercise(e.ID)
			return m, m.refreshExercises()
		}
	}
	return m, nil
}

func (m routinesModel) showNewRoutineForm() (routinesModel, tea.Cmd) {
	*m.formName = ""
	*m.formNotes = ""
	m.formType = "routine"

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Routine Name").Value(m.formName),
			huh.NewInput().Title("Notes").Value(m.formNotes),
		),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m routinesModel) showEditRoutineForm() (routinesModel, tea.Cmd) {
	r := m.routines[m.cursor]
	*m.formName = r.Name
	*m.formNotes = r.Notes
	m.formType = "edit_routine"
	m.editingID = r.ID

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Routine Name").Value(m.formName),
			huh.NewInput().Title("Notes").Value(m.formNotes),
		),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m routinesModel) showNewExerciseForm() (routinesModel, tea.Cmd) {
	*m.formName = ""
	*m.formSets = "3"
	*m.formReps = "10"
	*m.formWt = "0"
	*m.formRest = "90"
	m.formType = "exercise"

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Exercise Name").Value(m.formName),
			huh.NewInput().Title("Target Sets").Value(m.formSets),
			huh.NewInput().Title("Target Reps").Value(m.formReps),
			huh.NewInput().Title("Weight").Value(m.formWt),
			huh.NewInput().Title("Rest (s)").Value(m.formRest),
		),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m routinesModel) updateForm(msg tea.Msg) (routinesModel, tea.Cmd) {
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
		switch m.formType {
		case "routine":
			if *m.formName != "" {
				m.store.CreateRoutine(*m.formName, *m.formNotes)
			}
			return m, m.refresh()
		case "edit_routine":
			if *m.formName != "" {
				m.store.UpdateRoutine(m.editingID, *m.formName, *m.formNotes)
			}
			return m, m.refresh()
		case "exercise":
			if *m.formName != "" && m.cursor < len(m.routines) {
				sets, _ := strconv.Atoi(*m.formSets)
				reps, _ := strconv.Atoi(*m.formReps)
				wt, _ := strconv.ParseFloat(*m.formWt, 64)
				rest, _ := strconv.Atoi(*m.formRest)
				m.store.AddRoutineExercise(m.routines[m.cursor].ID, *m.formName, sets, reps, wt, rest)
			}
			return m, m.refreshExercises()
		}
	}

	return m, cmd
}

func (m routinesModel) view() string {
	if m.formActive && m.form != nil {
		title := titleStyle.Render("New Routine")
		switch m.formType {
		case "edit_routine":
			title = titleStyle.Render("Edit Routine")
		case "exercise":
			title = titleStyle.Render("New Exercise")
		}
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", m.form.View())
		return panelStyle.Width(m.width - 4).Render(content)
	}

	if m.viewingExercises {
		return m.renderExerciseView()
	}
	return m.renderRoutineList()
}

func (m routinesModel) renderRoutineList() string {
	w := m.width - 4
	title := titleStyle.Render("Routines")

	if len(m.routines) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No routines yet. Press n to create one."),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	for i, r := range m.routines {
		cursor := "  "
		style := normalItemStyle
		if i == m.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		notes := ""
		if r.Notes != "" {
			notes = mutedStyle.Render("  " + truncate(r.Notes, 40))
		}
		rows = append(rows, style.Render(fmt.Sprintf("%s%-28s", cursor, r.Name))+notes)
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: new  e: edit  d: archive  enter: exercises  esc: back"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (m routinesModel) renderExerciseView() string {
	w := m.width - 4
	r := m.routines[m.cursor]
	title := titleStyle.Render(r.Name + " — Exercises")

	if len(m.exercises) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No exercises. Press n to add one."),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	for i, e := range m.exercises {
		cursor := "  "
		style := normalItemStyle
		if i == m.exerciseCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		row := fmt.Sprintf("%s%-24s %d×%d @ %s  rest %s",
			cursor, e.Name, e.TargetSets, e.TargetReps,
			formatWeight(e.Weight, "kg"), formatClock(e.RestTime),
		)
		rows = append(rows, style.Render(row))
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: new exercise  d: delete  esc: back"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
