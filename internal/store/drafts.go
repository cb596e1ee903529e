package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// AdhocSessionKey identifies a draft that is not tied to any routine.
const AdhocSessionKey = "adhoc"

// draftTTL is how long a draft survives without a fresh save. Anything
// older is treated as absent and removed on access.
const draftTTL = 24 * time.Hour

// SessionKey derives the draft key for a routine, or the ad-hoc
// sentinel when routineID is nil. One draft exists per key.
func SessionKey(routineID *int64) string {
	if routineID == nil {
		return AdhocSessionKey
	}
	return fmt.Sprintf("routine:%d", *routineID)
}

// SaveDraft serializes and writes the draft under sessionKey, stamping
// SavedAt with the current time. Any prior draft for the key is
// overwritten.
func (s *Store) SaveDraft(sessionKey string, draft *WorkoutDraft) error {
	draft.SessionKey = sessionKey
	payload, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("marshal draft: %w", err)
	}
	now := time.Now().UTC()
	_, err = s.db.Exec(
		`INSERT INTO workout_drafts (session_key, payload, saved_at) VALUES (?, ?, ?)
		 ON CONFLICT(session_key) DO UPDATE SET payload = excluded.payload, saved_at = excluded.saved_at`,
		sessionKey, string(payload), now.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("save draft %q: %w", sessionKey, err)
	}
	draft.SavedAt = now
	return nil
}

// LoadDraft returns the draft stored under sessionKey, or nil if there
// is none. A draft older than 24 hours is deleted and reported as
// absent rather than returned.
func (s *Store) LoadDraft(sessionKey string) (*WorkoutDraft, error) {
	var payload, savedAt string
	err := s.db.QueryRow(
		`SELECT payload, saved_at FROM workout_drafts WHERE session_key = ?`, sessionKey,
	).Scan(&payload, &savedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load draft %q: %w", sessionKey, err)
	}

	saved, err := time.Parse(time.RFC3339, savedAt)
	if err != nil || time.Since(saved) > draftTTL {
		// Stale or unreadable: drop it and report absent.
		_ = s.ClearDraft(sessionKey)
		return nil, nil
	}

	draft := &WorkoutDraft{}
	if err := json.Unmarshal([]byte(payload), draft); err != nil {
		_ = s.ClearDraft(sessionKey)
		return nil, nil
	}
	draft.SavedAt = saved
	return draft, nil
}

// ClearDraft removes the draft for sessionKey unconditionally. Called
// after a successful workout submission or an explicit discard.
func (s *Store) ClearDraft(sessionKey string) error {
	_, err := s.db.Exec(`DELETE FROM workout_drafts WHERE session_key = ?`, sessionKey)
	return err
}
