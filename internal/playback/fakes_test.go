package playback

import (
	"errors"
	"sync"
	"time"

	"soundscope/internal/buffer"
)

// manualScheduler queues tasks until a test fires them.
type manualScheduler struct {
	mu    sync.Mutex
	tasks []*manualTimer
}

type manualTimer struct {
	mu      sync.Mutex
	delay   time.Duration
	fn      func()
	stopped bool
	fired   bool
}

func (m *manualTimer) Stop() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	wasPending := !m.stopped && !m.fired
	m.stopped = true
	return wasPending
}

func (s *manualScheduler) AfterFunc(d time.Duration, f func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &manualTimer{delay: d, fn: f}
	s.tasks = append(s.tasks, t)
	return t
}

// Fire runs the oldest pending task and reports whether there was one.
func (s *manualScheduler) Fire() bool {
	s.mu.Lock()
	var next *manualTimer
	for _, t := range s.tasks {
		t.mu.Lock()
		pending := !t.stopped && !t.fired
		if pending {
			t.fired = true
		}
		t.mu.Unlock()
		if pending {
			next = t
			break
		}
	}
	s.mu.Unlock()

	if next == nil {
		return false
	}
	next.fn()
	return true
}

// FireLatestAnyway runs the most recently scheduled task even if it was
// stopped or already fired, the way a timer that raced its Stop would.
func (s *manualScheduler) FireLatestAnyway() {
	s.mu.Lock()
	if len(s.tasks) == 0 {
		s.mu.Unlock()
		return
	}
	t := s.tasks[len(s.tasks)-1]
	s.mu.Unlock()
	t.fn()
}

func (s *manualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.tasks {
		t.mu.Lock()
		if !t.stopped && !t.fired {
			n++
		}
		t.mu.Unlock()
	}
	return n
}

func (s *manualScheduler) Last() *manualTimer {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.tasks) == 0 {
		return nil
	}
	return s.tasks[len(s.tasks)-1]
}

type startCall struct {
	from   int
	volume float64
}

// recordingOutput remembers what the transport asked of the device.
type recordingOutput struct {
	mu       sync.Mutex
	starts   []startCall
	stops    int
	closed   bool
	playing  bool
	failNext bool
}

var errDeviceBusy = errors.New("device busy")

func (o *recordingOutput) Start(buf *buffer.SampleBuffer, from int, volume float64) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.failNext {
		o.failNext = false
		return errDeviceBusy
	}
	o.starts = append(o.starts, startCall{from: from, volume: volume})
	o.playing = true
	return nil
}

func (o *recordingOutput) Stop() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.stops++
	o.playing = false
	return nil
}

func (o *recordingOutput) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.closed = true
	return nil
}

func (o *recordingOutput) Starts() []startCall {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]startCall(nil), o.starts...)
}

func (o *recordingOutput) Playing() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.playing
}

func (o *recordingOutput) FailNext() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.failNext = true
}

func (o *recordingOutput) Closed() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.closed
}

// slowOutput blocks every device call for delay, like a stream that drains
// its buffers before stopping.
type slowOutput struct {
	recordingOutput
	delay time.Duration
}

func (o *slowOutput) Start(buf *buffer.SampleBuffer, from int, volume float64) error {
	time.Sleep(o.delay)
	return o.recordingOutput.Start(buf, from, volume)
}

func (o *slowOutput) Stop() error {
	time.Sleep(o.delay)
	return o.recordingOutput.Stop()
}
