package tui

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/sadopc/liftlog/internal/resttimer"
	"github.com/sadopc/liftlog/internal/store"
)

// restPresets are the quick-select rest durations, in seconds.
var restPresets = []int{60, 90, 120, 180}

// Custom rest durations are accepted between these bounds.
const (
	minCustomRest = 10
	maxCustomRest = 3600
)

type sessionModel struct {
	store  *store.Store
	engine *resttimer.Engine
	width  int
	height int

	// Routine picker shown before a session is active.
	picking      bool
	routines     []store.Routine
	pickerCursor int

	// Draft state. The in-memory fields are the source of truth for
	// this process; the draft store is best-effort recovery.
	sessionKey  string
	routineID   *int64
	routineName string
	date        string
	duration    int // planned minutes
	notes       string
	sets        []store.DraftSet
	cursor      int

	// Serialization of the last successful draft write. Saves are
	// debounced by content equality against this, not by time.
	lastSaved string

	sessionDefault int // planned minutes default from settings
	weightUnit     string

	formActive bool
	form       *huh.Form
	formType   string // "set", "notes", "rest"

	// Form field pointers (survive value copies)
	formExercise *string
	formReps     *string
	formWeight   *string
	formRest     *string
	formNotes    *string
}

func newSessionModel(s *store.Store, engine *resttimer.Engine) sessionModel {
	ex, reps, weight, rest, notes := "", "", "", "", ""
	m := sessionModel{
		store:          s,
		engine:         engine,
		picking:        true,
		sessionDefault: 60,
		weightUnit:     "kg",
		formExercise:   &ex,
		formReps:       &reps,
		formWeight:     &weight,
		formRest:       &rest,
		formNotes:      &notes,
	}
	if v, err := s.GetSetting("session_duration"); err == nil {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			m.sessionDefault = n
		}
	}
	if v, err := s.GetSetting("weight_unit"); err == nil && v != "" {
		m.weightUnit = v
	}
	return m
}

func (m sessionModel) Init() tea.Cmd {
	return m.refreshRoutines()
}

func (m *sessionModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

type sessionRoutinesMsg struct {
	routines []store.Routine
}

func (m sessionModel) refreshRoutines() tea.Cmd {
	return func() tea.Msg {
		routines, _ := m.store.ListRoutines(false)
		return sessionRoutinesMsg{routines: routines}
	}
}

func (m sessionModel) update(msg tea.Msg) (sessionModel, tea.Cmd) {
	if m.formActive && m.form != nil {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case sessionRoutinesMsg:
		m.routines = msg.routines
		return m, nil

	case tea.KeyMsg:
		if m.picking {
			return m.updatePicker(msg)
		}
		return m.updateSession(msg)
	}
	return m, nil
}

func (m sessionModel) updatePicker(msg tea.KeyMsg) (sessionModel, tea.Cmd) {
	// Entry 0 is the ad-hoc session; routines follow.
	last := len(m.routines)
	switch {
	case key.Matches(msg, keys.Up):
		if m.pickerCursor > 0 {
			m.pickerCursor--
		}
	case key.Matches(msg, keys.Down):
		if m.pickerCursor < last {
			m.pickerCursor++
		}
	case key.Matches(msg, keys.Enter):
		if m.pickerCursor == 0 {
			return m.beginSession(nil, "")
		}
		r := m.routines[m.pickerCursor-1]
		return m.beginSession(&r.ID, r.Name)
	}
	return m, nil
}

// beginSession activates a session for the chosen routine (or ad-hoc),
// recovering a stored draft when one exists for the session key.
func (m sessionModel) beginSession(routineID *int64, routineName string) (sessionModel, tea.Cmd) {
	m.picking = false
	m.routineID = routineID
	m.routineName = routineName
	m.sessionKey = store.SessionKey(routineID)
	m.cursor = 0

	draft, _ := m.store.LoadDraft(m.sessionKey)
	if draft != nil {
		m.date = draft.Date
		m.duration = draft.Duration
		m.notes = draft.Notes
		m.sets = draft.Sets
		if payload, err := json.Marshal(m.draft()); err == nil {
			m.lastSaved = string(payload)
		}
		savedAt := draft.SavedAt
		return m, func() tea.Msg { return draftRecoveredMsg{savedAt: savedAt} }
	}

	m.date = todayDate()
	m.duration = m.sessionDefault
	m.notes = ""
	m.sets = nil
	m.lastSaved = ""
	return m, nil
}

func (m sessionModel) updateSession(msg tea.KeyMsg) (sessionModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, keys.Down):
		if m.cursor < len(m.sets)-1 {
			m.cursor++
		}

	case key.Matches(msg, keys.New):
		return m.showSetForm()

	case key.Matches(msg, keys.Complete), key.Matches(msg, keys.Enter):
		if len(m.sets) == 0 {
			return m, nil
		}
		set := &m.sets[m.cursor]
		set.Completed = !set.Completed
		m.autosave()
		if set.Completed {
			m.startRest(set.RestTime)
		}
		return m, nil

	case key.Matches(msg, keys.Delete):
		if len(m.sets) == 0 {
			return m, nil
		}
		m.sets = append(m.sets[:m.cursor], m.sets[m.cursor+1:]...)
		if m.cursor >= len(m.sets) {
			m.cursor = max(0, len(m.sets)-1)
		}
		m.autosave()
		return m, nil

	case key.Matches(msg, keys.Notes):
		return m.showNotesForm()

	case key.Matches(msg, keys.Finish):
		return m.submitWorkout()

	case key.Matches(msg, keys.Discard):
		return m.discardSession()

	case key.Matches(msg, keys.Start):
		if m.engine.Running() {
			m.engine.Pause()
		} else {
			m.engine.Start()
		}
		return m, nil

	case key.Matches(msg, keys.Reset):
		m.engine.Reset()
		return m, nil

	case key.Matches(msg, keys.Left):
		m.cyclePreset(-1)
		return m, nil

	case key.Matches(msg, keys.Right):
		m.cyclePreset(1)
		return m, nil

	case key.Matches(msg, keys.Custom):
		return m.showRestForm()

	case key.Matches(msg, keys.Back):
		// Leave the session view; draft and timer state stay put.
		m.picking = true
		return m, m.refreshRoutines()
	}
	return m, nil
}

// startRest points the countdown at the completed set's rest interval
// and starts it, replacing any countdown already in flight.
func (m *sessionModel) startRest(restSecs int) {
	if restSecs <= 0 {
		restSecs = m.engine.Duration()
	}
	if m.engine.Running() {
		m.engine.Reset()
	}
	_ = m.engine.SetDuration(restSecs)
	m.engine.Start()
}

func (m *sessionModel) cyclePreset(dir int) {
	if m.engine.Running() {
		return
	}
	cur := m.engine.Duration()
	idx := 0
	for i, p := range restPresets {
		if p == cur {
			idx = i + dir
			break
		}
	}
	if idx < 0 {
		idx = len(restPresets) - 1
	}
	if idx >= len(restPresets) {
		idx = 0
	}
	_ = m.engine.SetDuration(restPresets[idx])
}

// autosave persists the draft if — and only if — its serialization
// differs from the last write and the session has real content. Write
// failures are swallowed: the feature degrades to no recovery.
func (m *sessionModel) autosave() {
	if m.picking || !m.hasContent() {
		return
	}
	draft := m.draft()
	payload, err := json.Marshal(draft)
	if err != nil {
		return
	}
	if string(payload) == m.lastSaved {
		return
	}
	if err := m.store.SaveDraft(m.sessionKey, draft); err == nil {
		m.lastSaved = string(payload)
	}
}

// hasContent reports whether the session has anything worth saving:
// at least one set, or a non-default date/duration/notes.
func (m sessionModel) hasContent() bool {
	return len(m.sets) > 0 ||
		m.notes != "" ||
		m.date != todayDate() ||
		m.duration != m.sessionDefault
}

func (m sessionModel) draft() *store.WorkoutDraft {
	return &store.WorkoutDraft{
		SessionKey: m.sessionKey,
		Date:       m.date,
		Duration:   m.duration,
		Notes:      m.notes,
		Sets:       m.sets,
	}
}

func (m sessionModel) submitWorkout() (sessionModel, tea.Cmd) {
	if len(m.sets) == 0 {
		return m, func() tea.Msg {
			return statusMsg{text: "Nothing to finish — add a set first", isError: true}
		}
	}

	workout, err := m.store.SubmitWorkout(m.routineID, m.date, m.duration, m.notes, m.sets)
	if err != nil {
		return m, func() tea.Msg {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
	}

	// Submission is the one coupling to the draft store's clear.
	_ = m.store.ClearDraft(m.sessionKey)
	m.engine.Reset()
	m.resetSession()

	return m, tea.Batch(
		m.refreshRoutines(),
		func() tea.Msg { return workoutSubmittedMsg{workout: workout} },
	)
}

func (m sessionModel) discardSession() (sessionModel, tea.Cmd) {
	_ = m.store.ClearDraft(m.sessionKey)
	m.resetSession()
	return m, tea.Batch(
		m.refreshRoutines(),
		func() tea.Msg { return sessionDiscardedMsg{} },
	)
}

func (m *sessionModel) resetSession() {
	m.picking = true
	m.pickerCursor = 0
	m.cursor = 0
	m.sets = nil
	m.notes = ""
	m.lastSaved = ""
}

// --- Forms ---

func (m sessionModel) showSetForm() (sessionModel, tea.Cmd) {
	*m.formExercise = ""
	*m.formReps = "10"
	*m.formWeight = "0"
	*m.formRest = strconv.Itoa(m.engine.Duration())
	if len(m.sets) > 0 {
		last := m.sets[len(m.sets)-1]
		*m.formExercise = last.ExerciseName
		*m.formReps = strconv.Itoa(last.Reps)
		*m.formWeight = strconv.FormatFloat(last.Weight, 'f', -1, 64)
		*m.formRest = strconv.Itoa(last.RestTime)
	}
	m.formType = "set"

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Exercise").Value(m.formExercise),
			huh.NewInput().Title("Reps").Value(m.formReps),
			huh.NewInput().Title(fmt.Sprintf("Weight (%s)", m.weightUnit)).Value(m.formWeight),
			huh.NewInput().Title("Rest after set (s)").Value(m.formRest),
		),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m sessionModel) showNotesForm() (sessionModel, tea.Cmd) {
	*m.formNotes = m.notes
	m.formType = "notes"

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewText().Title("Session notes").Value(m.formNotes),
		),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m sessionModel) showRestForm() (sessionModel, tea.Cmd) {
	if m.engine.Running() {
		return m, func() tea.Msg {
			return statusMsg{text: "Pause the rest timer before changing its duration", isError: true}
		}
	}
	*m.formRest = strconv.Itoa(m.engine.Duration())
	m.formType = "rest"

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Rest duration (seconds)").
				Value(m.formRest).
				Validate(func(v string) error {
					n, err := strconv.Atoi(strings.TrimSpace(v))
					if err != nil {
						return fmt.Errorf("enter a number of seconds")
					}
					if n < minCustomRest || n > maxCustomRest {
						return fmt.Errorf("must be between %d and %d seconds", minCustomRest, maxCustomRest)
					}
					return nil
				}),
		),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m sessionModel) updateForm(msg tea.Msg) (sessionModel, tea.Cmd) {
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
		case "set":
			m.applySetForm()
		case "notes":
			m.notes = *m.formNotes
			m.autosave()
		case "rest":
			if n, err := strconv.Atoi(strings.TrimSpace(*m.formRest)); err == nil {
				_ = m.engine.SetDuration(n)
			}
		}
		return m, nil
	}

	return m, cmd
}

func (m *sessionModel) applySetForm() {
	name := strings.TrimSpace(*m.formExercise)
	if name == "" {
		return
	}
	reps, _ := strconv.Atoi(strings.TrimSpace(*m.formReps))
	weight, _ := strconv.ParseFloat(strings.TrimSpace(*m.formWeight), 64)
	rest, _ := strconv.Atoi(strings.TrimSpace(*m.formRest))

	m.sets = append(m.sets, store.DraftSet{
		TempID:       uuid.NewString(),
		ExerciseName: name,
		Reps:         reps,
		Weight:       weight,
		RestTime:     rest,
		Completed:    false,
	})
	m.cursor = len(m.sets) - 1
	m.autosave()
}

// --- View ---

func (m sessionModel) view() string {
	if m.formActive && m.form != nil {
		title := titleStyle.Render("Add Set")
		switch m.formType {
		case "notes":
			title = titleStyle.Render("Session Notes")
		case "rest":
			title = titleStyle.Render("Custom Rest Duration")
		}
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", m.form.View())
		return panelStyle.Width(m.width - 4).Render(content)
	}

	if m.picking {
		return m.renderPicker()
	}

	w := m.width - 4
	timerPanel := m.renderRestPanel(w)
	setsPanel := m.renderSetsPanel(w)
	infoPanel := m.renderInfoPanel(w)

	return lipgloss.JoinVertical(lipgloss.Left, timerPanel, setsPanel, infoPanel)
}

func (m sessionModel) renderPicker() string {
	w := m.width - 4
	title := titleStyle.Render("Start a Session")

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	entries := make([]string, 0, len(m.routines)+1)
	entries = append(entries, "Ad-hoc workout")
	for _, r := range m.routines {
		entries = append(entries, r.Name)
	}

	for i, name := range entries {
		cursor := "  "
		style := normalItemStyle
		if i == m.pickerCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+name))
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: start  2: manage routines"))

	return activePanelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (m sessionModel) renderRestPanel(w int) string {
	var timeDisplay, indicator string

	timeStr := formatClock(m.engine.TimeLeft())
	switch {
	case m.engine.Running():
		timeDisplay = countdownRunningStyle.Width(w - 6).Render(timeStr)
		indicator = successStyle.Render("●  RESTING")
	case m.engine.Finished():
		timeDisplay = countdownDoneStyle.Width(w - 6).Render(timeStr)
		indicator = errorStyle.Render("✓  REST COMPLETE")
	case m.engine.TimeLeft() != m.engine.Duration():
		timeDisplay = countdownPausedStyle.Width(w - 6).Render(timeStr)
		indicator = warningStyle.Render("⏸  PAUSED")
	default:
		timeDisplay = countdownStyle.Width(w - 6).Render(timeStr)
		indicator = mutedStyle.Render("■  READY")
	}

	presets := make([]string, len(restPresets))
	for i, p := range restPresets {
		s := formatClock(p)
		if p == m.engine.Duration() {
			presets[i] = highlightStyle.Render("[" + s + "]")
		} else {
			presets[i] = mutedStyle.Render(" " + s + " ")
		}
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		timeDisplay,
		indicator,
		strings.Join(presets, " "),
	)
	if m.engine.Running() {
		return activePanelStyle.Width(w).Render(content)
	}
	return panelStyle.Width(w).Render(content)
}

func (m sessionModel) renderSetsPanel(w int) string {
	name := m.routineName
	if name == "" {
		name = "Ad-hoc workout"
	}
	title := titleStyle.Render(name) + mutedStyle.Render("  "+m.date)

	if len(m.sets) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No sets yet. Press n to add one."),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	for i, set := range m.sets {
		cursor := "  "
		style := normalItemStyle
		if i == m.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		check := "○"
		if set.Completed {
			check = successStyle.Render("●")
		}
		row := fmt.Sprintf("%s%s %-24s %3d × %-8s rest %s",
			cursor, check, set.ExerciseName, set.Reps,
			formatWeight(set.Weight, m.weightUnit), formatClock(set.RestTime),
		)
		rows = append(rows, style.Render(row))
	}

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (m sessionModel) renderInfoPanel(w int) string {
	done := 0
	for _, set := range m.sets {
		if set.Completed {
			done++
		}
	}

	info := fmt.Sprintf("  %d/%d sets done   planned %d min", done, len(m.sets), m.duration)
	if m.notes != "" {
		info += mutedStyle.Render("   ✎ " + truncate(m.notes, 32))
	}

	hints := mutedStyle.Render("  n: add  c: complete  s: rest  f: finish  D: discard  o: notes")
	return panelStyle.Width(w).Render(info + "\n" + hints)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}
