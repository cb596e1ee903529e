package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const currentVersion = 1

type Store struct {
	db *sql.DB
}

// New opens (or creates) the SQLite database at dbPath and runs migrations.
func New(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(1)

	// Configure pragmas.
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// NewMemory creates an in-memory store for testing.
func NewMemory() (*Store, error) {
	return New(":memory:")
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	var version int
	err := s.db.QueryRow("PRAGMA user_version").Scan(&version)
	if err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}

	if version >= currentVersion {
		return nil
	}

	if version < 1 {
		if err := s.migrateV1(); err != nil {
			return err
		}
	}

	_, err = s.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentVersion))
	return err
}

func (s *Store) migrateV1() error {
	const ddl = `
	CREATE TABLE IF NOT EXISTS routines (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		name        TEXT NOT NULL UNIQUE,
		notes       TEXT NOT NULL DEFAULT '',
		archived    INTEGER NOT NULL DEFAULT 0,
		created_at  TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now')),
		updated_at  TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now'))
	);

	CREATE TABLE IF NOT EXISTS routine_exercises (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		routine_id  INTEGER NOT NULL REFERENCES routines(id),
		name        TEXT NOT NULL,
		target_sets INTEGER NOT NULL DEFAULT 3,
		target_reps INTEGER NOT NULL DEFAULT 10,
		weight      REAL NOT NULL DEFAULT 0,
		rest_time   INTEGER NOT NULL DEFAULT 90,
		position    INTEGER NOT NULL DEFAULT 0,
		UNIQUE(routine_id, name)
	);

	CREATE TABLE IF NOT EXISTS workouts (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		routine_id  INTEGER REFERENCES routines(id),
		date        TEXT NOT NULL,
		duration    INTEGER NOT NULL DEFAULT 0,
		notes       TEXT NOT NULL DEFAULT '',
		created_at  TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now'))
	);

	CREATE TABLE IF NOT EXISTS workout_sets (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		workout_id  INTEGER NOT NULL REFERENCES workouts(id),
		exercise    TEXT NOT NULL,
		reps        INTEGER NOT NULL DEFAULT 0,
		weight      REAL NOT NULL DEFAULT 0,
		rest_time   INTEGER NOT NULL DEFAULT 0,
		completed   INTEGER NOT NULL DEFAULT 0,
		position    INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_workouts_date ON workouts(date);
	CREATE INDEX IF NOT EXISTS idx_sets_workout  ON workout_sets(workout_id);

	CREATE TABLE IF NOT EXISTS workout_drafts (
		session_key TEXT PRIMARY KEY,
		payload     TEXT NOT NULL,
		saved_at    TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS rest_timer (
		id         INTEGER PRIMARY KEY CHECK (id = 1),
		duration   INTEGER NOT NULL DEFAULT 90,
		time_left  INTEGER NOT NULL DEFAULT 90,
		running    INTEGER NOT NULL DEFAULT 0,
		finished   INTEGER NOT NULL DEFAULT 0,
		start_ms   INTEGER
	);

	CREATE TABLE IF NOT EXISTS settings (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	INSERT OR IGNORE INTO settings (key, value) VALUES
		('rest_duration',    '90'),
		('sound_enabled',    'on'),
		('notify_enabled',   'on'),
		('weight_unit',      'kg'),
		('session_duration', '60');
	`
	_, err := s.db.Exec(ddl)
	return err
}

// DefaultDBPath returns ~/.config/liftlog/liftlog.db
func DefaultDBPath() (string, error) {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg, "liftlog", "liftlog.db"), nil
}
