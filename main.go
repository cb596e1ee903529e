package main

import (
	"fmt"
	"os"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sadopc/liftlog/internal/notify"
	"github.com/sadopc/liftlog/internal/resttimer"
	"github.com/sadopc/liftlog/internal/store"
	"github.com/sadopc/liftlog/internal/tui"
)

func main() {
	dbPath, err := store.DefaultDBPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	s, err := store.New(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error opening database: %v\n", err)
		os.Exit(1)
	}
	defer s.Close()

	engine := resttimer.New(s, buildNotifier(s), defaultRest(s))

	app := tui.NewApp(s, engine)
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithReportFocus())

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// buildNotifier wires the completion capabilities the user has left
// enabled. Disabled or unavailable capabilities stay nil and the
// notifier skips them.
func buildNotifier(s *store.Store) *notify.Notifier {
	n := &notify.Notifier{
		Badge: notify.TerminalBadge{Out: os.Stderr, Name: "liftlog"},
	}
	if v, err := s.GetSetting("sound_enabled"); err != nil || v != "off" {
		n.Sound = notify.Beep{}
	}
	if v, err := s.GetSetting("notify_enabled"); err != nil || v != "off" {
		n.Alerter = notify.Desktop{}
	}
	return n
}

func defaultRest(s *store.Store) int {
	v, err := s.GetSetting("rest_duration")
	if err != nil {
		return resttimer.DefaultDuration
	}
	secs, err := strconv.Atoi(v)
	if err != nil {
		return resttimer.DefaultDuration
	}
	return secs
}
