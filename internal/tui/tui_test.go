package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sadopc/liftlog/internal/resttimer"
	"github.com/sadopc/liftlog/internal/store"
)

func newTestSession(t *testing.T) (sessionModel, *store.Store, *resttimer.Engine) {
	t.Helper()
	s, err := store.NewMemory()
	if err != nil {
		t.Fatalf("NewMemory: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	engine := resttimer.New(s, nil, 90)
	return newSessionModel(s, engine), s, engine
}

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestBeginSessionFresh(t *testing.T) {
	m, _, _ := newTestSession(t)

	m, cmd := m.beginSession(nil, "")
	if cmd != nil {
		t.Error("fresh session should not emit a recovery message")
	}
	if m.picking {
		t.Error("still picking after beginSession")
	}
	if m.sessionKey != store.AdhocSessionKey {
		t.Errorf("sessionKey = %q, want %q", m.sessionKey, store.AdhocSessionKey)
	}
	if m.date != todayDate() {
		t.Errorf("date = %q, want today", m.date)
	}
	if len(m.sets) != 0 || m.notes != "" {
		t.Errorf("fresh session not empty: sets=%v notes=%q", m.sets, m.notes)
	}
}

func TestBeginSessionRecoversDraft(t *testing.T) {
	m, s, _ := newTestSession(t)

	saved := &store.WorkoutDraft{
		Date:     "2026-08-29",
		Duration: 45,
		Notes:    "interrupted",
		Sets: []store.DraftSet{
			{TempID: "t1", ExerciseName: "Bench", Reps: 8, Weight: 80, RestTime: 120, Completed: true},
		},
	}
	if err := s.SaveDraft(store.AdhocSessionKey, saved); err != nil {
		t.Fatalf("SaveDraft: %v", err)
	}

	m, cmd := m.beginSession(nil, "")
	if cmd == nil {
		t.Fatal("expected a recovery command")
	}
	if _, ok := cmd().(draftRecoveredMsg); !ok {
		t.Errorf("cmd produced %T, want draftRecoveredMsg", cmd())
	}
	if m.date != "2026-08-29" || m.notes != "interrupted" || m.duration != 45 {
		t.Errorf("recovered session = date %q, notes %q, duration %d", m.date, m.notes, m.duration)
	}
	if len(m.sets) != 1 || m.sets[0].ExerciseName != "Bench" || !m.sets[0].Completed {
		t.Errorf("recovered sets = %+v", m.sets)
	}
	if m.lastSaved == "" {
		t.Error("lastSaved not primed from recovered draft")
	}
}

func TestDraftsKeyedByRoutine(t *testing.T) {
	m, s, _ := newTestSession(t)

	id := int64(4)
	if err := s.SaveDraft(store.SessionKey(&id), &store.WorkoutDraft{Date: "2026-08-29", Notes: "leg day"}); err != nil {
		t.Fatalf("SaveDraft: %v", err)
	}

	// An ad-hoc session must not see the routine's draft.
	adhoc, cmd := m.beginSession(nil, "")
	if cmd != nil {
		t.Error("adhoc session recovered a routine draft")
	}
	if adhoc.notes != "" {
		t.Errorf("adhoc notes = %q, want empty", adhoc.notes)
	}

	routine, cmd := m.beginSession(&id, "Legs")
	if cmd == nil {
		t.Fatal("routine session did not recover its draft")
	}
	if routine.notes != "leg day" {
		t.Errorf("routine notes = %q, want %q", routine.notes, "leg day")
	}
}

func TestAutosaveSkipsEmptySession(t *testing.T) {
	m, s, _ := newTestSession(t)

	m, _ = m.beginSession(nil, "")
	m.autosave()

	draft, err := s.LoadDraft(store.AdhocSessionKey)
	if err != nil {
		t.Fatalf("LoadDraft: %v", err)
	}
	if draft != nil {
		t.Errorf("empty session was persisted: %+v", draft)
	}
}

func TestAutosaveDebouncesByContent(t *testing.T) {
	m, s, _ := newTestSession(t)

	m, _ = m.beginSession(nil, "")
	m.sets = append(m.sets, store.DraftSet{TempID: "t1", ExerciseName: "Squat", Reps: 5, Weight: 100, RestTime: 180})
	m.autosave()

	// Plant a sentinel payload under the key. If the second autosave
	// writes despite unchanged content, the sentinel is overwritten.
	if err := s.SaveDraft(m.sessionKey, &store.WorkoutDraft{Date: "sentinel"}); err != nil {
		t.Fatalf("SaveDraft sentinel: %v", err)
	}

	m.autosave()
	draft, err := s.LoadDraft(m.sessionKey)
	if err != nil {
		t.Fatalf("LoadDraft: %v", err)
	}
	if draft == nil || draft.Date != "sentinel" {
		t.Error("autosave wrote again with unchanged content")
	}

	// Changing the content must write.
	m.sets[0].Completed = true
	m.autosave()
	draft, err = s.LoadDraft(m.sessionKey)
	if err != nil {
		t.Fatalf("LoadDraft: %v", err)
	}
	if draft == nil || draft.Date == "sentinel" {
		t.Error("autosave skipped after content changed")
	}
	if len(draft.Sets) != 1 || !draft.Sets[0].Completed {
		t.Errorf("persisted sets = %+v", draft.Sets)
	}
}

func TestCompleteSetStartsRest(t *testing.T) {
	m, _, engine := newTestSession(t)

	m, _ = m.beginSession(nil, "")
	m.sets = append(m.sets, store.DraftSet{TempID: "t1", ExerciseName: "Bench", Reps: 8, Weight: 80, RestTime: 120})

	m, _ = m.updateSession(keyRune('c'))
	if !m.sets[0].Completed {
		t.Error("set not marked completed")
	}
	if !engine.Running() {
		t.Error("completing a set did not start the rest timer")
	}
	if engine.Duration() != 120 {
		t.Errorf("rest duration = %d, want the set's 120", engine.Duration())
	}

	// Un-completing does not stop an in-flight countdown.
	m, _ = m.updateSession(keyRune('c'))
	if m.sets[0].Completed {
		t.Error("set still completed after toggle")
	}
	if !engine.Running() {
		t.Error("countdown stopped by un-completing a set")
	}
}

func TestCompleteSetReplacesRunningRest(t *testing.T) {
	m, _, engine := newTestSession(t)

	m, _ = m.beginSession(nil, "")
	m.startRest(60)
	if !engine.Running() || engine.Duration() != 60 {
		t.Fatalf("setup: running=%v duration=%d", engine.Running(), engine.Duration())
	}

	m.startRest(180)
	if !engine.Running() || engine.Duration() != 180 {
		t.Errorf("replacement rest: running=%v duration=%d, want 180", engine.Running(), engine.Duration())
	}
}

func TestStartRestZeroFallsBackToDefault(t *testing.T) {
	m, _, engine := newTestSession(t)

	m, _ = m.beginSession(nil, "")
	m.startRest(0)
	if engine.Duration() != 90 {
		t.Errorf("duration = %d, want engine default 90", engine.Duration())
	}
	if !engine.Running() {
		t.Error("timer not started")
	}
}

func TestSubmitWorkoutClearsDraftAndTimer(t *testing.T) {
	m, s, engine := newTestSession(t)

	m, _ = m.beginSession(nil, "")
	m.sets = append(m.sets, store.DraftSet{TempID: "t1", ExerciseName: "Row", Reps: 10, Weight: 50, RestTime: 90, Completed: true})
	m.autosave()
	m.startRest(90)

	m, cmd := m.submitWorkout()
	if cmd == nil {
		t.Fatal("submit returned no command")
	}
	if !m.picking {
		t.Error("session not reset after submit")
	}
	if engine.Running() {
		t.Error("rest timer still running after submit")
	}

	draft, err := s.LoadDraft(store.AdhocSessionKey)
	if err != nil {
		t.Fatalf("LoadDraft: %v", err)
	}
	if draft != nil {
		t.Errorf("draft survived submission: %+v", draft)
	}

	workouts, err := s.ListWorkouts(store.WorkoutFilter{})
	if err != nil {
		t.Fatalf("ListWorkouts: %v", err)
	}
	if len(workouts) != 1 {
		t.Fatalf("got %d workouts, want 1", len(workouts))
	}
	sets, err := s.ListWorkoutSets(workouts[0].ID)
	if err != nil {
		t.Fatalf("ListWorkoutSets: %v", err)
	}
	if len(sets) != 1 || sets[0].Exercise != "Row" {
		t.Errorf("stored sets = %+v", sets)
	}
}

func TestSubmitWithoutSetsRejected(t *testing.T) {
	m, s, _ := newTestSession(t)

	m, _ = m.beginSession(nil, "")
	m, cmd := m.submitWorkout()
	if cmd == nil {
		t.Fatal("expected an error status command")
	}
	msg, ok := cmd().(statusMsg)
	if !ok || !msg.isError {
		t.Errorf("cmd produced %#v, want error status", cmd())
	}
	if m.picking {
		t.Error("session reset despite rejected submit")
	}

	workouts, err := s.ListWorkouts(store.WorkoutFilter{})
	if err != nil {
		t.Fatalf("ListWorkouts: %v", err)
	}
	if len(workouts) != 0 {
		t.Errorf("empty submit stored a workout: %+v", workouts)
	}
}

func TestDiscardClearsDraft(t *testing.T) {
	m, s, _ := newTestSession(t)

	m, _ = m.beginSession(nil, "")
	m.sets = append(m.sets, store.DraftSet{TempID: "t1", ExerciseName: "Curl", Reps: 12, Weight: 15, RestTime: 60})
	m.autosave()

	m, _ = m.discardSession()
	if !m.picking {
		t.Error("session not reset after discard")
	}

	draft, err := s.LoadDraft(store.AdhocSessionKey)
	if err != nil {
		t.Fatalf("LoadDraft: %v", err)
	}
	if draft != nil {
		t.Errorf("draft survived discard: %+v", draft)
	}
}

func TestHasContent(t *testing.T) {
	m, _, _ := newTestSession(t)

	m, _ = m.beginSession(nil, "")
	if m.hasContent() {
		t.Error("fresh session reports content")
	}

	m.notes = "warmup done"
	if !m.hasContent() {
		t.Error("notes not treated as content")
	}
	m.notes = ""

	m.sets = append(m.sets, store.DraftSet{TempID: "t1", ExerciseName: "Dip"})
	if !m.hasContent() {
		t.Error("sets not treated as content")
	}
	m.sets = nil

	m.duration = m.sessionDefault + 15
	if !m.hasContent() {
		t.Error("non-default duration not treated as content")
	}
}

func TestCyclePreset(t *testing.T) {
	m, _, engine := newTestSession(t)
	m, _ = m.beginSession(nil, "")

	// 90 → 120 → 180 → wraps to 60
	m.cyclePreset(1)
	if engine.Duration() != 120 {
		t.Errorf("duration = %d, want 120", engine.Duration())
	}
	m.cyclePreset(1)
	m.cyclePreset(1)
	if engine.Duration() != 60 {
		t.Errorf("duration = %d, want wrap to 60", engine.Duration())
	}
	m.cyclePreset(-1)
	if engine.Duration() != 180 {
		t.Errorf("duration = %d, want wrap back to 180", engine.Duration())
	}

	// Locked while a countdown is running.
	engine.Start()
	m.cyclePreset(1)
	if engine.Duration() != 180 {
		t.Errorf("preset changed while running: %d", engine.Duration())
	}
}

func TestFormatClock(t *testing.T) {
	cases := []struct {
		secs int
		want string
	}{
		{0, "00:00"},
		{5, "00:05"},
		{60, "01:00"},
		{90, "01:30"},
		{3600, "60:00"},
		{-3, "00:00"},
	}
	for _, c := range cases {
		if got := formatClock(c.secs); got != c.want {
			t.Errorf("formatClock(%d) = %q, want %q", c.secs, got, c.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate short = %q", got)
	}
	if got := truncate("a very long note about the session", 10); len([]rune(got)) != 10 {
		t.Errorf("truncate long = %q (%d runes)", got, len([]rune(got)))
	}
}
