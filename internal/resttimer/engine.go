// Package resttimer implements the rest countdown used between sets.
//
// The countdown is wall-clock derived: while running, the only ground
// truth is the start timestamp, and the remaining time is recomputed
// from it on every read. Ticks that never arrive (the terminal was
// suspended, the machine slept) therefore cost nothing — the next tick
// or an explicit Sync lands on the correct value, and a countdown that
// expired in the meantime completes exactly once.
package resttimer

import (
	"errors"
	"time"
)

// DefaultDuration is used when no duration has ever been configured.
const DefaultDuration = 90

var ErrInvalidDuration = errors.New("rest duration must be a positive number of seconds")
var ErrTimerRunning = errors.New("cannot change duration while the timer is running")

// State is the full persisted record of the timer. StartTime is ms
// since epoch and non-nil exactly while Running; TimeLeft is only
// authoritative while not running.
type State struct {
	Duration  int
	TimeLeft  int
	Running   bool
	Finished  bool
	StartTime *int64
}

// Persister stores the timer record under its single fixed key.
type Persister interface {
	SaveRestTimer(State) error
	LoadRestTimer() (*State, error)
}

// Notifier receives the timer's environment side effects. All calls
// are best-effort: implementations swallow their own failures and the
// engine never inspects an outcome.
type Notifier interface {
	PlayTone()
	SetBadge(count int)
	ClearBadge()
	Push(title, body, tag string)
}

// Engine is the single rest timer instance shared by the whole app.
// It is driven from the event loop only, so no locking is needed.
type Engine struct {
	persist Persister
	notify  Notifier
	now     func() time.Time

	state     State
	lastBadge int
}

// New hydrates the engine from persisted state, falling back to an
// idle timer at defaultDuration. A record that was running when the
// process died is recomputed immediately, so a countdown that elapsed
// while the app was closed comes back as Finished (side effects fire
// then, once).
func New(persist Persister, notify Notifier, defaultDuration int) *Engine {
	if defaultDuration <= 0 {
		defaultDuration = DefaultDuration
	}
	e := &Engine{
		persist: persist,
		notify:  notify,
		now:     time.Now,
	}

	var loaded *State
	if persist != nil {
		loaded, _ = persist.LoadRestTimer()
	}
	if loaded == nil {
		e.state = State{Duration: defaultDuration, TimeLeft: defaultDuration}
		return e
	}

	e.state = *loaded
	if e.state.Duration <= 0 {
		e.state = State{Duration: defaultDuration, TimeLeft: defaultDuration}
		return e
	}
	if e.state.Running && e.state.StartTime == nil {
		// Corrupt record; drop back to idle.
		e.state.Running = false
		e.state.TimeLeft = e.state.Duration
		e.persistState()
		return e
	}
	if e.state.Running {
		e.Sync()
	}
	return e
}

func (e *Engine) State() State   { return e.state }
func (e *Engine) Duration() int  { return e.state.Duration }
func (e *Engine) TimeLeft() int  { return e.state.TimeLeft }
func (e *Engine) Running() bool  { return e.state.Running }
func (e *Engine) Finished() bool { return e.state.Finished }

// Start enters Running. From Finished (or an exhausted pause) the
// countdown restarts at the full duration; from Paused the remaining
// time is preserved by back-dating the start timestamp.
func (e *Engine) Start() {
	if e.state.Running {
		return
	}
	if e.state.TimeLeft <= 0 {
		e.state.TimeLeft = e.state.Duration
	}
	startMS := e.now().UnixMilli() - int64(e.state.Duration-e.state.TimeLeft)*1000
	e.state.StartTime = &startMS
	e.state.Running = true
	e.state.Finished = false
	e.persistState()
	e.setBadge(badgeMinutes(e.state.TimeLeft))
}

// Pause freezes the remaining time and leaves Running.
func (e *Engine) Pause() {
	if !e.state.Running {
		return
	}
	e.state.TimeLeft = e.remaining()
	e.state.Running = false
	e.state.StartTime = nil
	e.persistState()
	e.clearBadge()
}

// Reset returns to Idle at the configured duration from any state.
func (e *Engine) Reset() {
	e.state.Running = false
	e.state.Finished = false
	e.state.StartTime = nil
	e.state.TimeLeft = e.state.Duration
	e.persistState()
	e.clearBadge()
}

// SetDuration updates duration and remaining time together. Rejected
// while running and for non-positive values; the prior duration is
// retained on rejection.
func (e *Engine) SetDuration(seconds int) error {
	if e.state.Running {
		return ErrTimerRunning
	}
	if seconds <= 0 {
		return ErrInvalidDuration
	}
	e.state.Duration = seconds
	e.state.TimeLeft = seconds
	e.state.Finished = false
	e.persistState()
	return nil
}

// Tick recomputes the remaining time from the start timestamp. It
// reports whether the countdown completed on this call. Ticks while
// not running (including after completion) are no-ops, which is what
// makes completion fire exactly once: the Running→Finished transition
// itself is the guard.
func (e *Engine) Tick() bool {
	if !e.state.Running {
		return false
	}
	e.state.TimeLeft = e.remaining()
	if e.state.TimeLeft == 0 {
		e.complete()
		return true
	}
	e.persistState()
	if m := badgeMinutes(e.state.TimeLeft); m != e.lastBadge {
		e.setBadge(m)
	}
	return false
}

// Sync is the foreground-regain hook: recompute immediately instead of
// waiting for the next periodic tick, completing the countdown if it
// expired while no ticks were delivered.
func (e *Engine) Sync() bool {
	return e.Tick()
}

func (e *Engine) remaining() int {
	if e.state.StartTime == nil {
		return e.state.TimeLeft
	}
	elapsed := e.now().UnixMilli() - *e.state.StartTime
	left := e.state.Duration - int(elapsed/1000)
	if left < 0 {
		return 0
	}
	return left
}

func (e *Engine) complete() {
	e.state.Running = false
	e.state.Finished = true
	e.state.StartTime = nil
	e.state.TimeLeft = 0

	// Best-effort, in order: tone, badge, notification. Canonical
	// state is already committed above; none of these can roll it back.
	if e.notify != nil {
		e.notify.PlayTone()
	}
	e.clearBadge()
	if e.notify != nil {
		e.notify.Push("Rest complete", "Time for your next set", "rest-timer")
	}
	e.persistState()
}

// Storage failures degrade the timer to non-persistent; the in-memory
// state stays correct for this process.
func (e *Engine) persistState() {
	if e.persist == nil {
		return
	}
	_ = e.persist.SaveRestTimer(e.state)
}

func (e *Engine) setBadge(count int) {
	if e.notify != nil {
		e.notify.SetBadge(count)
	}
	e.lastBadge = count
}

func (e *Engine) clearBadge() {
	if e.notify != nil {
		e.notify.ClearBadge()
	}
	e.lastBadge = 0
}

// badgeMinutes is the rounded-up number of minutes remaining.
func badgeMinutes(seconds int) int {
	return (seconds + 59) / 60
}
