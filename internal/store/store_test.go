package store

import (
	"testing"
	"time"

	"github.com/sadopc/liftlog/internal/resttimer"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewMemory()
	if err != nil {
		t.Fatalf("NewMemory: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestMigrateSetsVersion(t *testing.T) {
	s := newTestStore(t)

	var version int
	if err := s.db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		t.Fatalf("read user_version: %v", err)
	}
	if version != currentVersion {
		t.Errorf("user_version = %d, want %d", version, currentVersion)
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	if err := s.migrate(); err != nil {
		t.Fatalf("second migrate: %v", err)
	}
}

func TestDefaultSettingsSeeded(t *testing.T) {
	s := newTestStore(t)

	v, err := s.GetSetting("rest_duration")
	if err != nil {
		t.Fatalf("GetSetting: %v", err)
	}
	if v != "90" {
		t.Errorf("rest_duration = %q, want %q", v, "90")
	}

	settings, err := s.GetAllSettings()
	if err != nil {
		t.Fatalf("GetAllSettings: %v", err)
	}
	if len(settings) != 5 {
		t.Errorf("got %d settings, want 5", len(settings))
	}
}

func TestSetSettingOverwrites(t *testing.T) {
	s := newTestStore(t)

	if err := s.SetSetting("weight_unit", "lb"); err != nil {
		t.Fatalf("SetSetting: %v", err)
	}
	v, err := s.GetSetting("weight_unit")
	if err != nil {
		t.Fatalf("GetSetting: %v", err)
	}
	if v != "lb" {
		t.Errorf("weight_unit = %q, want %q", v, "lb")
	}
}

func TestSessionKey(t *testing.T) {
	if got := SessionKey(nil); got != AdhocSessionKey {
		t.Errorf("SessionKey(nil) = %q, want %q", got, AdhocSessionKey)
	}
	id := int64(7)
	if got := SessionKey(&id); got != "routine:7" {
		t.Errorf("SessionKey(&7) = %q, want %q", got, "routine:7")
	}
}

func TestDraftRoundTrip(t *testing.T) {
	s := newTestStore(t)

	draft := &WorkoutDraft{
		Date:     "2026-08-30",
		Duration: 60,
		Notes:    "felt strong",
		Sets: []DraftSet{
			{TempID: "a1", ExerciseName: "Squat", Reps: 5, Weight: 100, RestTime: 180, Completed: true},
			{TempID: "a2", ExerciseName: "Squat", Reps: 5, Weight: 100, RestTime: 180},
		},
	}
	if err := s.SaveDraft(AdhocSessionKey, draft); err != nil {
		t.Fatalf("SaveDraft: %v", err)
	}
	if draft.SavedAt.IsZero() {
		t.Error("SaveDraft did not stamp SavedAt")
	}

	got, err := s.LoadDraft(AdhocSessionKey)
	if err != nil {
		t.Fatalf("LoadDraft: %v", err)
	}
	if got == nil {
		t.Fatal("LoadDraft returned nil for saved draft")
	}
	if got.Date != draft.Date || got.Notes != draft.Notes || got.Duration != draft.Duration {
		t.Errorf("loaded draft = %+v, want %+v", got, draft)
	}
	if len(got.Sets) != 2 {
		t.Fatalf("got %d sets, want 2", len(got.Sets))
	}
	if got.Sets[0].TempID != "a1" || !got.Sets[0].Completed || got.Sets[1].Completed {
		t.Errorf("sets did not survive round trip: %+v", got.Sets)
	}
}

func TestDraftsIsolatedBySessionKey(t *testing.T) {
	s := newTestStore(t)

	id := int64(3)
	if err := s.SaveDraft(SessionKey(&id), &WorkoutDraft{Date: "2026-08-30", Notes: "routine draft"}); err != nil {
		t.Fatalf("SaveDraft routine: %v", err)
	}
	if err := s.SaveDraft(AdhocSessionKey, &WorkoutDraft{Date: "2026-08-30", Notes: "adhoc draft"}); err != nil {
		t.Fatalf("SaveDraft adhoc: %v", err)
	}

	got, err := s.LoadDraft(SessionKey(&id))
	if err != nil {
		t.Fatalf("LoadDraft: %v", err)
	}
	if got == nil || got.Notes != "routine draft" {
		t.Errorf("routine draft = %+v, want notes %q", got, "routine draft")
	}
}

func TestSaveDraftOverwrites(t *testing.T) {
	s := newTestStore(t)

	if err := s.SaveDraft(AdhocSessionKey, &WorkoutDraft{Date: "2026-08-30", Notes: "first"}); err != nil {
		t.Fatalf("SaveDraft: %v", err)
	}
	if err := s.SaveDraft(AdhocSessionKey, &WorkoutDraft{Date: "2026-08-30", Notes: "second"}); err != nil {
		t.Fatalf("SaveDraft overwrite: %v", err)
	}

	got, err := s.LoadDraft(AdhocSessionKey)
	if err != nil {
		t.Fatalf("LoadDraft: %v", err)
	}
	if got.Notes != "second" {
		t.Errorf("notes = %q, want %q", got.Notes, "second")
	}
}

func TestLoadDraftMissing(t *testing.T) {
	s := newTestStore(t)

	got, err := s.LoadDraft(AdhocSessionKey)
	if err != nil {
		t.Fatalf("LoadDraft: %v", err)
	}
	if got != nil {
		t.Errorf("LoadDraft on empty store = %+v, want nil", got)
	}
}

func TestLoadDraftExpired(t *testing.T) {
	s := newTestStore(t)

	// Insert a row stamped 25 hours ago, past the 24h TTL.
	stale := time.Now().UTC().Add(-25 * time.Hour).Format(time.RFC3339)
	_, err := s.db.Exec(
		`INSERT INTO workout_drafts (session_key, payload, saved_at) VALUES (?, ?, ?)`,
		AdhocSessionKey, `{"date":"2026-08-29","sets":[]}`, stale,
	)
	if err != nil {
		t.Fatalf("insert stale draft: %v", err)
	}

	got, err := s.LoadDraft(AdhocSessionKey)
	if err != nil {
		t.Fatalf("LoadDraft: %v", err)
	}
	if got != nil {
		t.Errorf("expired draft returned: %+v", got)
	}

	// Expired draft must be gone, not just skipped.
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM workout_drafts`).Scan(&count); err != nil {
		t.Fatalf("count drafts: %v", err)
	}
	if count != 0 {
		t.Errorf("expired draft still in table, count = %d", count)
	}
}

func TestLoadDraftCorruptPayload(t *testing.T) {
	s := newTestStore(t)

	_, err := s.db.Exec(
		`INSERT INTO workout_drafts (session_key, payload, saved_at) VALUES (?, ?, ?)`,
		AdhocSessionKey, `{not json`, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		t.Fatalf("insert corrupt draft: %v", err)
	}

	got, err := s.LoadDraft(AdhocSessionKey)
	if err != nil {
		t.Fatalf("LoadDraft: %v", err)
	}
	if got != nil {
		t.Errorf("corrupt draft returned: %+v", got)
	}
}

func TestClearDraft(t *testing.T) {
	s := newTestStore(t)

	if err := s.SaveDraft(AdhocSessionKey, &WorkoutDraft{Date: "2026-08-30"}); err != nil {
		t.Fatalf("SaveDraft: %v", err)
	}
	if err := s.ClearDraft(AdhocSessionKey); err != nil {
		t.Fatalf("ClearDraft: %v", err)
	}
	got, err := s.LoadDraft(AdhocSessionKey)
	if err != nil {
		t.Fatalf("LoadDraft: %v", err)
	}
	if got != nil {
		t.Errorf("draft survived ClearDraft: %+v", got)
	}

	// Clearing an absent draft is not an error.
	if err := s.ClearDraft("routine:99"); err != nil {
		t.Errorf("ClearDraft on missing key: %v", err)
	}
}

func TestRoutineCRUD(t *testing.T) {
	s := newTestStore(t)

	r, err := s.CreateRoutine("Push Day", "chest and triceps")
	if err != nil {
		t.Fatalf("CreateRoutine: %v", err)
	}
	if r.Name != "Push Day" || r.Archived {
		t.Errorf("created routine = %+v", r)
	}

	if err := s.UpdateRoutine(r.ID, "Push Day A", "heavy"); err != nil {
		t.Fatalf("UpdateRoutine: %v", err)
	}
	got, err := s.GetRoutine(r.ID)
	if err != nil {
		t.Fatalf("GetRoutine: %v", err)
	}
	if got.Name != "Push Day A" || got.Notes != "heavy" {
		t.Errorf("updated routine = %+v", got)
	}

	if err := s.ArchiveRoutine(r.ID); err != nil {
		t.Fatalf("ArchiveRoutine: %v", err)
	}
	active, err := s.ListRoutines(false)
	if err != nil {
		t.Fatalf("ListRoutines: %v", err)
	}
	if len(active) != 0 {
		t.Errorf("archived routine still listed: %+v", active)
	}
	all, err := s.ListRoutines(true)
	if err != nil {
		t.Fatalf("ListRoutines(true): %v", err)
	}
	if len(all) != 1 || !all[0].Archived {
		t.Errorf("ListRoutines(true) = %+v", all)
	}
}

func TestRoutineExercisePositions(t *testing.T) {
	s := newTestStore(t)

	r, err := s.CreateRoutine("Legs", "")
	if err != nil {
		t.Fatalf("CreateRoutine: %v", err)
	}

	e1, err := s.AddRoutineExercise(r.ID, "Squat", 5, 5, 100, 180)
	if err != nil {
		t.Fatalf("AddRoutineExercise: %v", err)
	}
	e2, err := s.AddRoutineExercise(r.ID, "Leg Press", 3, 10, 160, 120)
	if err != nil {
		t.Fatalf("AddRoutineExercise: %v", err)
	}
	if e2.Position <= e1.Position {
		t.Errorf("positions not increasing: %d then %d", e1.Position, e2.Position)
	}

	list, err := s.ListRoutineExercises(r.ID)
	if err != nil {
		t.Fatalf("ListRoutineExercises: %v", err)
	}
	if len(list) != 2 || list[0].Name != "Squat" || list[1].Name != "Leg Press" {
		t.Errorf("exercises out of order: %+v", list)
	}

	if err := s.DeleteRoutineExercise(e1.ID); err != nil {
		t.Fatalf("DeleteRoutineExercise: %v", err)
	}
	list, err = s.ListRoutineExercises(r.ID)
	if err != nil {
		t.Fatalf("ListRoutineExercises: %v", err)
	}
	if len(list) != 1 || list[0].Name != "Leg Press" {
		t.Errorf("after delete: %+v", list)
	}
}

func TestSubmitWorkout(t *testing.T) {
	s := newTestStore(t)

	r, err := s.CreateRoutine("Pull Day", "")
	if err != nil {
		t.Fatalf("CreateRoutine: %v", err)
	}

	sets := []DraftSet{
		{TempID: "x1", ExerciseName: "Deadlift", Reps: 5, Weight: 140, RestTime: 180, Completed: true},
		{TempID: "x2", ExerciseName: "Row", Reps: 8, Weight: 60, RestTime: 90, Completed: false},
	}
	w, err := s.SubmitWorkout(&r.ID, "2026-08-30", 60, "good session", sets)
	if err != nil {
		t.Fatalf("SubmitWorkout: %v", err)
	}
	if w.RoutineID == nil || *w.RoutineID != r.ID {
		t.Errorf("workout routine id = %v, want %d", w.RoutineID, r.ID)
	}
	if w.Date != "2026-08-30" || w.Notes != "good session" {
		t.Errorf("workout = %+v", w)
	}

	stored, err := s.ListWorkoutSets(w.ID)
	if err != nil {
		t.Fatalf("ListWorkoutSets: %v", err)
	}
	if len(stored) != 2 {
		t.Fatalf("got %d sets, want 2", len(stored))
	}
	if stored[0].Exercise != "Deadlift" || !stored[0].Completed {
		t.Errorf("set[0] = %+v", stored[0])
	}
	if stored[1].Exercise != "Row" || stored[1].Completed {
		t.Errorf("set[1] = %+v", stored[1])
	}
}

func TestSubmitWorkoutAdhoc(t *testing.T) {
	s := newTestStore(t)

	w, err := s.SubmitWorkout(nil, "2026-08-30", 45, "", nil)
	if err != nil {
		t.Fatalf("SubmitWorkout: %v", err)
	}
	if w.RoutineID != nil {
		t.Errorf("adhoc workout has routine id %d", *w.RoutineID)
	}
}

func TestListWorkoutsFilter(t *testing.T) {
	s := newTestStore(t)

	r, err := s.CreateRoutine("A", "")
	if err != nil {
		t.Fatalf("CreateRoutine: %v", err)
	}
	if _, err := s.SubmitWorkout(&r.ID, "2026-08-28", 60, "", nil); err != nil {
		t.Fatalf("SubmitWorkout: %v", err)
	}
	if _, err := s.SubmitWorkout(nil, "2026-08-29", 60, "", nil); err != nil {
		t.Fatalf("SubmitWorkout: %v", err)
	}
	if _, err := s.SubmitWorkout(nil, "2026-08-30", 60, "", nil); err != nil {
		t.Fatalf("SubmitWorkout: %v", err)
	}

	all, err := s.ListWorkouts(WorkoutFilter{})
	if err != nil {
		t.Fatalf("ListWorkouts: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("got %d workouts, want 3", len(all))
	}
	if all[0].Date != "2026-08-30" {
		t.Errorf("newest first expected, got %q", all[0].Date)
	}

	byRoutine, err := s.ListWorkouts(WorkoutFilter{RoutineID: &r.ID})
	if err != nil {
		t.Fatalf("ListWorkouts by routine: %v", err)
	}
	if len(byRoutine) != 1 || byRoutine[0].Date != "2026-08-28" {
		t.Errorf("by routine = %+v", byRoutine)
	}

	from := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	ranged, err := s.ListWorkouts(WorkoutFilter{From: &from, To: &to})
	if err != nil {
		t.Fatalf("ListWorkouts ranged: %v", err)
	}
	if len(ranged) != 1 || ranged[0].Date != "2026-08-29" {
		t.Errorf("ranged = %+v", ranged)
	}

	limited, err := s.ListWorkouts(WorkoutFilter{Limit: 2})
	if err != nil {
		t.Fatalf("ListWorkouts limited: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("got %d workouts, want 2", len(limited))
	}
}

func TestGetDailyVolume(t *testing.T) {
	s := newTestStore(t)

	sets := []DraftSet{
		{ExerciseName: "Bench", Reps: 10, Weight: 80, Completed: true},
		{ExerciseName: "Bench", Reps: 10, Weight: 80, Completed: true},
		{ExerciseName: "Bench", Reps: 10, Weight: 80, Completed: false}, // skipped set, excluded
	}
	if _, err := s.SubmitWorkout(nil, "2026-08-29", 60, "", sets); err != nil {
		t.Fatalf("SubmitWorkout: %v", err)
	}

	from := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	volumes, err := s.GetDailyVolume(from, to)
	if err != nil {
		t.Fatalf("GetDailyVolume: %v", err)
	}
	if len(volumes) != 1 {
		t.Fatalf("got %d days, want 1", len(volumes))
	}
	if volumes[0].Date != "2026-08-29" || volumes[0].TotalVolume != 1600 || volumes[0].SetCount != 2 {
		t.Errorf("volume = %+v, want 1600 over 2 sets", volumes[0])
	}
}

func timerState(duration, timeLeft int, running, finished bool, start *int64) resttimer.State {
	return resttimer.State{
		Duration:  duration,
		TimeLeft:  timeLeft,
		Running:   running,
		Finished:  finished,
		StartTime: start,
	}
}

func TestRestTimerRoundTrip(t *testing.T) {
	s := newTestStore(t)

	got, err := s.LoadRestTimer()
	if err != nil {
		t.Fatalf("LoadRestTimer: %v", err)
	}
	if got != nil {
		t.Errorf("fresh store returned timer state: %+v", got)
	}

	start := time.Now().UnixMilli()
	if err := s.SaveRestTimer(timerState(120, 95, true, false, &start)); err != nil {
		t.Fatalf("SaveRestTimer: %v", err)
	}

	got, err = s.LoadRestTimer()
	if err != nil {
		t.Fatalf("LoadRestTimer: %v", err)
	}
	if got == nil {
		t.Fatal("LoadRestTimer returned nil after save")
	}
	if got.Duration != 120 || got.TimeLeft != 95 || !got.Running || got.Finished {
		t.Errorf("state = %+v", got)
	}
	if got.StartTime == nil || *got.StartTime != start {
		t.Errorf("start = %v, want %d", got.StartTime, start)
	}

	// Paused state clears the start timestamp.
	if err := s.SaveRestTimer(timerState(120, 40, false, false, nil)); err != nil {
		t.Fatalf("SaveRestTimer paused: %v", err)
	}
	got, err = s.LoadRestTimer()
	if err != nil {
		t.Fatalf("LoadRestTimer: %v", err)
	}
	if got.Running || got.StartTime != nil || got.TimeLeft != 40 {
		t.Errorf("paused state = %+v", got)
	}
}
