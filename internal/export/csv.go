package export

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/sadopc/liftlog/internal/store"
)

func ToCSV(workouts []store.Workout, sets map[int64][]store.WorkoutSet, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	// One row per set, workout fields repeated.
	if err := w.Write([]string{"Workout ID", "Date", "Planned (min)", "Exercise", "Reps", "Weight", "Rest (s)", "Completed", "Notes"}); err != nil {
		return err
	}

	for _, workout := range workouts {
		for _, set := range sets[workout.ID] {
			completed := "no"
			if set.Completed {
				completed = "yes"
			}
			row := []string{
				fmt.Sprintf("%d", workout.ID),
				workout.Date,
				fmt.Sprintf("%d", workout.Duration),
				set.Exercise,
				fmt.Sprintf("%d", set.Reps),
				fmt.Sprintf("%g", set.Weight),
				fmt.Sprintf("%d", set.RestTime),
				completed,
				workout.Notes,
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}

	return w.Error()
}
