package store

import (
	"database/sql"
	"fmt"
	"time"
)

// SubmitWorkout inserts a completed workout with its sets in one
// transaction and returns the stored workout.
func (s *Store) SubmitWorkout(routineID *int64, date string, duration int, notes string, sets []DraftSet) (*Workout, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin submit: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC().Format(time.RFC3339)
	res, err := tx.Exec(
		`INSERT INTO workouts (routine_id, date, duration, notes, created_at) VALUES (?, ?, ?, ?, ?)`,
		routineID, date, duration, notes, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert workout: %w", err)
	}
	workoutID, _ := res.LastInsertId()

	for i, set := range sets {
		_, err := tx.Exec(
			`INSERT INTO workout_sets (workout_id, exercise, reps, weight, rest_time, completed, position)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			workoutID, set.ExerciseName, set.Reps, set.Weight, set.RestTime, boolToInt(set.Completed), i,
		)
		if err != nil {
			return nil, fmt.Errorf("insert workout set: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit submit: %w", err)
	}
	return s.GetWorkout(workoutID)
}

func (s *Store) GetWorkout(id int64) (*Workout, error) {
	w := &Workout{}
	var createdAt string
	var routineID sql.NullInt64
	err := s.db.QueryRow(
		`SELECT id, routine_id, date, duration, notes, created_at FROM workouts WHERE id = ?`, id,
	).Scan(&w.ID, &routineID, &w.Date, &w.Duration, &w.Notes, &createdAt)
	if err != nil {
		return nil, fmt.Errorf("get workout %d: %w", id, err)
	}
	if routineID.Valid {
		w.RoutineID = &routineID.Int64
	}
	w.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return w, nil
}

func (s *Store) ListWorkouts(f WorkoutFilter) ([]Workout, error) {
	query := `SELECT id, routine_id, date, duration, notes, created_at FROM workouts WHERE 1=1`
	var args []any

	if f.RoutineID != nil {
		query += ` AND routine_id = ?`
		args = append(args, *f.RoutineID)
	}
	if f.From != nil {
		query += ` AND date >= ?`
		args = append(args, f.From.Format("2006-01-02"))
	}
	if f.To != nil {
		query += ` AND date < ?`
		args = append(args, f.To.Format("2006-01-02"))
	}
	query += ` ORDER BY date DESC, id DESC`
	if f.Limit > 0 {
		query += fmt.Sprintf(` LIMIT %d`, f.Limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list workouts: %w", err)
	}
	defer rows.Close()

	var workouts []Workout
	for rows.Next() {
		var w Workout
		var createdAt string
		var routineID sql.NullInt64
		if err := rows.Scan(&w.ID, &routineID, &w.Date, &w.Duration, &w.Notes, &createdAt); err != nil {
			return nil, err
		}
		if routineID.Valid {
			w.RoutineID = &routineID.Int64
		}
		w.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		workouts = append(workouts, w)
	}
	return workouts, rows.Err()
}

func (s *Store) ListWorkoutSets(workoutID int64) ([]WorkoutSet, error) {
	rows, err := s.db.Query(
		`SELECT id, workout_id, exercise, reps, weight, rest_time, completed, position
		 FROM workout_sets WHERE workout_id = ? ORDER BY position`, workoutID,
	)
	if err != nil {
		return nil, fmt.Errorf("list workout sets: %w", err)
	}
	defer rows.Close()

	var sets []WorkoutSet
	for rows.Next() {
		var ws WorkoutSet
		var completed int
		if err := rows.Scan(&ws.ID, &ws.WorkoutID, &ws.Exercise, &ws.Reps, &ws.Weight, &ws.RestTime, &completed, &ws.Position); err != nil {
			return nil, err
		}
		ws.Completed = completed == 1
		sets = append(sets, ws)
	}
	return sets, rows.Err()
}

// GetDailyVolume aggregates completed-set training volume per day over
// [from, to).
func (s *Store) GetDailyVolume(from, to time.Time) ([]DailyVolume, error) {
	rows, err := s.db.Query(`
		SELECT w.date, COALESCE(SUM(s.reps * s.weight), 0), COUNT(s.id)
		FROM workouts w
		JOIN workout_sets s ON s.workout_id = w.id
		WHERE s.completed = 1
		  AND w.date >= ? AND w.date < ?
		GROUP BY w.date
		ORDER BY w.date`,
		from.Format("2006-01-02"), to.Format("2006-01-02"),
	)
	if err != nil {
		return nil, fmt.Errorf("daily volume: %w", err)
	}
	defer rows.Close()

	var volumes []DailyVolume
	for rows.Next() {
		var dv DailyVolume
		if err := rows.Scan(&dv.Date, &dv.TotalVolume, &dv.SetCount); err != nil {
			return nil, err
		}
		volumes = append(volumes, dv)
	}
	return volumes, rows.Err()
}

// GetWeekSetCount returns the number of completed sets in the last 7
// days, shown on the session tab.
func (s *Store) GetWeekSetCount() (int, error) {
	weekAgo := time.Now().UTC().AddDate(0, 0, -7).Format("2006-01-02")
	var count sql.NullInt64
	err := s.db.QueryRow(`
		SELECT COUNT(s.id)
		FROM workouts w
		JOIN workout_sets s ON s.workout_id = w.id
		WHERE s.completed = 1 AND w.date >= ?`, weekAgo,
	).Scan(&count)
	if err != nil {
		return 0, err
	}
	return int(count.Int64), nil
}
