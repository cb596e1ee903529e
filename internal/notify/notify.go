// Package notify provides the environment capabilities the rest timer
// fires on completion: a short tone, a terminal badge, and a desktop
// notification. Every capability is optional and best-effort; a
// missing or failing backend is a silent no-op.
package notify

import (
	"fmt"
	"io"

	"github.com/gen2brain/beeep"
)

type Sound interface {
	Play() error
}

type Badge interface {
	Set(count int) error
	Clear() error
}

type Alerter interface {
	Push(title, body, tag string) error
}

// Beep plays a short tone through the system beeper.
type Beep struct{}

func (Beep) Play() error {
	return beeep.Beep(beeep.DefaultFreq, beeep.DefaultDuration)
}

// Desktop shows OS desktop notifications. The dedup tag is kept in the
// interface for backends that support replacement; beeep does not, so
// it is ignored here.
type Desktop struct {
	Icon string
}

func (d Desktop) Push(title, body, _ string) error {
	return beeep.Notify(title, body, d.Icon)
}

// TerminalBadge surfaces the remaining minutes in the terminal title
// via an OSC escape, the closest thing a terminal has to an app badge.
type TerminalBadge struct {
	Out  io.Writer
	Name string // base window title
}

func (b TerminalBadge) Set(count int) error {
	if b.Out == nil {
		return nil
	}
	_, err := fmt.Fprintf(b.Out, "\x1b]0;(%d) %s\x07", count, b.Name)
	return err
}

func (b TerminalBadge) Clear() error {
	if b.Out == nil {
		return nil
	}
	_, err := fmt.Fprintf(b.Out, "\x1b]0;%s\x07", b.Name)
	return err
}

// Notifier bundles the capabilities behind the rest timer's side
// effect hook. Nil fields are skipped; errors are swallowed, since the
// timer's canonical state must never depend on the environment.
type Notifier struct {
	Sound   Sound
	Badge   Badge
	Alerter Alerter
}

func (n *Notifier) PlayTone() {
	if n.Sound != nil {
		_ = n.Sound.Play()
	}
}

func (n *Notifier) SetBadge(count int) {
	if n.Badge != nil {
		_ = n.Badge.Set(count)
	}
}

func (n *Notifier) ClearBadge() {
	if n.Badge != nil {
		_ = n.Badge.Clear()
	}
}

func (n *Notifier) Push(title, body, tag string) {
	if n.Alerter != nil {
		_ = n.Alerter.Push(title, body, tag)
	}
}
