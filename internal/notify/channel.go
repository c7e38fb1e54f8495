package notify

import (
	"sync"
	"sync/atomic"
)

// ChannelSink buffers events in a channel. Send never blocks: when the
// buffer is full the event is dropped and counted.
type ChannelSink struct {
	mu      sync.RWMutex
	ch      chan Event
	closed  bool
	dropped atomic.Uint64
}

var _ Sink = (*ChannelSink)(nil)

// NewChannelSink creates a sink with room for size events.
func NewChannelSink(size int) *ChannelSink {
	if size < 1 {
		size = 1
	}
	return &ChannelSink{ch: make(chan Event, size)}
}

// C is the receive side. It is closed by Close.
func (s *ChannelSink) C() <-chan Event { return s.ch }

func (s *ChannelSink) Send(ev Event) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrClosed
	}
	select {
	case s.ch <- ev:
	default:
		s.dropped.Add(1)
	}
	return nil
}

// Dropped reports how many events did not fit in the buffer.
func (s *ChannelSink) Dropped() uint64 { return s.dropped.Load() }

func (s *ChannelSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.ch)
	}
	return nil
}
