package notify

import (
	"soundscope/internal/log"
)

// LoggingSink writes every event to the debug log.
type LoggingSink struct{}

var _ Sink = (*LoggingSink)(nil)

func NewLoggingSink() *LoggingSink {
	log.Debugf("notify: using LoggingSink")
	return &LoggingSink{}
}

func (LoggingSink) Send(ev Event) error {
	switch ev.Kind {
	case KindTick:
		log.WithFields(log.Fields{
			"cursor":  ev.Progress.Cursor,
			"elapsed": ev.Progress.Elapsed,
			"percent": ev.Progress.Percent,
		}).Debug("tick")
	case KindState:
		log.WithFields(log.Fields{
			"status":   ev.State.Status.String(),
			"cursor":   ev.State.Cursor,
			"volume":   ev.State.Volume,
			"dragging": ev.State.Dragging,
		}).Debug("state")
	}
	return nil
}

func (LoggingSink) Close() error { return nil }
