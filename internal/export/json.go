package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/liftlog/internal/store"
)

type jsonExport struct {
	ExportedAt string        `json:"exported_at"`
	Count      int           `json:"count"`
	Workouts   []jsonWorkout `json:"workouts"`
}

type jsonWorkout struct {
	ID       int64     `json:"id"`
	Date     string    `json:"date"`
	Duration int       `json:"duration_minutes"`
	Notes    string    `json:"notes,omitempty"`
	Sets     []jsonSet `json:"sets"`
}

type jsonSet struct {
	Exercise  string  `json:"exercise"`
	Reps      int     `json:"reps"`
	Weight    float64 `json:"weight"`
	RestTime  int     `json:"rest_seconds"`
	Completed bool    `json:"completed"`
}

func ToJSON(workouts []store.Workout, sets map[int64][]store.WorkoutSet, path string) error {
	out := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Count:      len(workouts),
	}

	for _, workout := range workouts {
		jw := jsonWorkout{
			ID:       workout.ID,
			Date:     workout.Date,
			Duration: workout.Duration,
			Notes:    workout.Notes,
		}
		for _, set := range sets[workout.ID] {
			jw.Sets = append(jw.Sets, jsonSet{
				Exercise:  set.Exercise,
				Reps:      set.Reps,
				Weight:    set.Weight,
				RestTime:  set.RestTime,
				Completed: set.Completed,
			})
		}
		out.Workouts = append(out.Workouts, jw)
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
