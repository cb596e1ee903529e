package tui

import (
	"fmt"
	"time"

	"github.com/sadopc/liftlog/internal/store"
)

// viewState represents the currently active view.
type viewState int

const (
	viewSession viewState = iota
	viewRoutines
	viewHistory
	viewSettings
)

var viewNames = []string{"Session", "Routines", "History", "Settings"}

// --- Messages ---

type statusMsg struct {
	text    string
	isError bool
}

type tickMsg time.Time

type workoutSubmittedMsg struct {
	workout *store.Workout
}

type draftRecoveredMsg struct {
	savedAt time.Time
}

type sessionDiscardedMsg struct{}

type settingsSavedMsg struct {
	restDuration int
}

type exportDoneMsg struct {
	path string
}

// --- Helpers ---

// formatClock renders seconds as mm:ss for countdown displays.
func formatClock(secs int) string {
	if secs < 0 {
		secs = 0
	}
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}

func formatWeight(w float64, unit string) string {
	if w == float64(int64(w)) {
		return fmt.Sprintf("%d%s", int64(w), unit)
	}
	return fmt.Sprintf("%.1f%s", w, unit)
}

func todayDate() string {
	return time.Now().Format("2006-01-02")
}
