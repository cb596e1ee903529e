package store

import (
	"database/sql"
	"fmt"

	"github.com/sadopc/liftlog/internal/resttimer"
)

// SaveRestTimer writes the full rest timer state to its single fixed
// row. Called by the engine on every state transition.
func (s *Store) SaveRestTimer(st resttimer.State) error {
	var startMS any
	if st.StartTime != nil {
		startMS = *st.StartTime
	}
	_, err := s.db.Exec(
		`INSERT INTO rest_timer (id, duration, time_left, running, finished, start_ms)
		 VALUES (1, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			duration = excluded.duration,
			time_left = excluded.time_left,
			running = excluded.running,
			finished = excluded.finished,
			start_ms = excluded.start_ms`,
		st.Duration, st.TimeLeft, boolToInt(st.Running), boolToInt(st.Finished), startMS,
	)
	if err != nil {
		return fmt.Errorf("save rest timer: %w", err)
	}
	return nil
}

// LoadRestTimer returns the persisted rest timer state, or nil if the
// timer has never been used.
func (s *Store) LoadRestTimer() (*resttimer.State, error) {
	st := &resttimer.State{}
	var running, finished int
	var startMS sql.NullInt64
	err := s.db.QueryRow(
		`SELECT duration, time_left, running, finished, start_ms FROM rest_timer WHERE id = 1`,
	).Scan(&st.Duration, &st.TimeLeft, &running, &finished, &startMS)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load rest timer: %w", err)
	}
	st.Running = running == 1
	st.Finished = finished == 1
	if startMS.Valid {
		st.StartTime = &startMS.Int64
	}
	return st, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
