package store

import (
	"fmt"
	"time"
)

func (s *Store) CreateRoutine(name, notes string) (*Routine, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.Exec(
		`INSERT INTO routines (name, notes, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		name, notes, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert routine: %w", err)
	}
	id, _ := res.LastInsertId()
	return s.GetRoutine(id)
}

func (s *Store) GetRoutine(id int64) (*Routine, error) {
	r := &Routine{}
	var createdAt, updatedAt string
	var archived int
	err := s.db.QueryRow(
		`SELECT id, name, notes, archived, created_at, updated_at FROM routines WHERE id = ?`, id,
	).Scan(&r.ID, &r.Name, &r.Notes, &archived, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("get routine %d: %w", id, err)
	}
	r.Archived = archived == 1
	r.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	r.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return r, nil
}

func (s *Store) ListRoutines(includeArchived bool) ([]Routine, error) {
	query := `SELECT id, name, notes, archived, created_at, updated_at FROM routines`
	if !includeArchived {
		query += ` WHERE archived = 0`
	}
	query += ` ORDER BY name`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("list routines: %w", err)
	}
	defer rows.Close()

	var routines []Routine
	for rows.Next() {
		var r Routine
		var createdAt, updatedAt string
		var archived int
		if err := rows.Scan(&r.ID, &r.Name, &r.Notes, &archived, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		r.Archived = archived == 1
		r.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		r.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
		routines = append(routines, r)
	}
	return routines, rows.Err()
}

func (s *Store) UpdateRoutine(id int64, name, notes string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(
		`UPDATE routines SET name = ?, notes = ?, updated_at = ? WHERE id = ?`,
		name, notes, now, id,
	)
	return err
}

func (s *Store) ArchiveRoutine(id int64) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(
		`UPDATE routines SET archived = 1, updated_at = ? WHERE id = ?`, now, id,
	)
	return err
}

func (s *Store) AddRoutineExercise(routineID int64, name string, targetSets, targetReps int, weight float64, restTime int) (*RoutineExercise, error) {
	var pos int
	_ = s.db.QueryRow(
		`SELECT COALESCE(MAX(position), 0) + 1 FROM routine_exercises WHERE routine_id = ?`, routineID,
	).Scan(&pos)

	res, err := s.db.Exec(
		`INSERT INTO routine_exercises (routine_id, name, target_sets, target_reps, weight, rest_time, position)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		routineID, name, targetSets, targetReps, weight, restTime, pos,
	)
	if err != nil {
		return nil, fmt.Errorf("insert routine exercise: %w", err)
	}
	id, _ := res.LastInsertId()

	e := &RoutineExercise{}
	err = s.db.QueryRow(
		`SELECT id, routine_id, name, target_sets, target_reps, weight, rest_time, position
		 FROM routine_exercises WHERE id = ?`, id,
	).Scan(&e.ID, &e.RoutineID, &e.Name, &e.TargetSets, &e.TargetReps, &e.Weight, &e.RestTime, &e.Position)
	if err != nil {
		return nil, fmt.Errorf("get routine exercise %d: %w", id, err)
	}
	return e, nil
}

func (s *Store) ListRoutineExercises(routineID int64) ([]RoutineExercise, error) {
	rows, err := s.db.Query(
		`SELECT id, routine_id, name, target_sets, target_reps, weight, rest_time, position
		 FROM routine_exercises WHERE routine_id = ? ORDER BY position`, routineID,
	)
	if err != nil {
		return nil, fmt.Errorf("list routine exercises: %w", err)
	}
	defer rows.Close()

	var exercises []RoutineExercise
	for rows.Next() {
		var e RoutineExercise
		if err := rows.Scan(&e.ID, &e.RoutineID, &e.Name, &e.TargetSets, &e.TargetReps, &e.Weight, &e.RestTime, &e.Position); err != nil {
			return nil, err
		}
		exercises = append(exercises, e)
	}
	return exercises, rows.Err()
}

func (s *Store) DeleteRoutineExercise(id int64) error {
	_, err := s.db.Exec(`DELETE FROM routine_exercises WHERE id = ?`, id)
	return err
}
