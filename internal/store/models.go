package store

import "time"

type Routine struct {
	ID        int64
	Name      string
	Notes     string
	Archived  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

type RoutineExercise struct {
	ID         int64
	RoutineID  int64
	Name       string
	TargetSets int
	TargetReps int
	Weight     float64
	RestTime   int // seconds between sets
	Position   int
}

type Workout struct {
	ID        int64
	RoutineID *int64
	Date      string // ISO calendar date
	Duration  int    // planned minutes
	Notes     string
	CreatedAt time.Time
}

type WorkoutSet struct {
	ID        int64
	WorkoutID int64
	Exercise  string
	Reps      int
	Weight    float64
	RestTime  int
	Completed bool
	Position  int
}

// DraftSet is one staged set inside a workout draft. TempID is
// client-generated and only meaningful within the draft.
type DraftSet struct {
	TempID       string  `json:"temp_id"`
	ExerciseID   int64   `json:"exercise_id"`
	ExerciseName string  `json:"exercise_name"`
	Reps         int     `json:"reps"`
	Weight       float64 `json:"weight"`
	RestTime     int     `json:"rest_time"`
	Completed    bool    `json:"completed"`
}

// WorkoutDraft is an in-progress, unsubmitted workout staged under a
// session key so a crash or restart does not lose entered sets.
type WorkoutDraft struct {
	SessionKey string     `json:"session_key"`
	Date       string     `json:"date"`
	Duration   int        `json:"duration"`
	Notes      string     `json:"notes,omitempty"`
	Sets       []DraftSet `json:"sets"`
	SavedAt    time.Time  `json:"-"`
}

type Setting struct {
	Key   string
	Value string
}

// WorkoutFilter is used to filter workout history queries.
type WorkoutFilter struct {
	RoutineID *int64
	From      *time.Time
	To        *time.Time
	Limit     int
}

// DailyVolume represents aggregated training volume per day.
type DailyVolume struct {
	Date        string
	TotalVolume float64 // sum of reps*weight over completed sets
	SetCount    int
}
