// Package notify fans transport events out to sinks: the log, or a channel
// read by the terminal UI.
package notify

import (
	"errors"

	"soundscope/internal/playback"
)

// ErrClosed is returned by Send after Close.
var ErrClosed = errors.New("sink closed")

// Kind tells which field of an Event is set.
type Kind int

const (
	KindTick Kind = iota
	KindState
)

// Event is either a position tick or a state change.
type Event struct {
	Kind     Kind
	Progress playback.Progress
	State    playback.State
}

// Sink receives transport events. Send must not block the caller for long;
// it runs on the transport's notification path.
type Sink interface {
	Send(ev Event) error
	Close() error
}

// Attach subscribes sink to t. The returned func detaches it again; it does
// not close the sink.
func Attach(t *playback.Transport, sink Sink) (detach func()) {
	offTick := t.OnTick(func(p playback.Progress) {
		_ = sink.Send(Event{Kind: KindTick, Progress: p})
	})
	offState := t.OnStateChange(func(s playback.State) {
		_ = sink.Send(Event{Kind: KindState, State: s})
	})
	return func() {
		offTick()
		offState()
	}
}
