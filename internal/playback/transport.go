// SPDX-License-Identifier: MIT

// Package playback implements the transport state machine and the position
// clock that keeps a UI cursor in step with the output device.
package playback

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"soundscope/internal/buffer"
	"soundscope/internal/log"
)

// ErrNoAudioLoaded is returned by transport operations before a buffer has
// been loaded. It is informational; the operation is ignored.
var ErrNoAudioLoaded = errors.New("no audio loaded")

// Option configures a Transport.
type Option func(*Transport)

// WithScheduler replaces the system scheduler, mainly for tests.
func WithScheduler(s Scheduler) Option {
	return func(t *Transport) { t.clock.sched = s }
}

// WithTickInterval sets the position clock period. Non-positive values keep
// the default.
func WithTickInterval(d time.Duration) Option {
	return func(t *Transport) {
		if d > 0 {
			t.clock.interval = d
		}
	}
}

// WithDirectOutput calls the Output from the transitions themselves instead
// of from a device worker. Start errors are then returned by the transition.
// Use it only with outputs that never block.
func WithDirectOutput() Option {
	return func(t *Transport) { t.direct = true }
}

// WithVolume sets the initial volume, clamped to [0,1].
func WithVolume(v float64) Option {
	return func(t *Transport) { t.volume = clampUnit(v) }
}

type event struct {
	state    *State
	progress *Progress
}

type subscription[T any] struct {
	id int
	fn func(T)
}

// Transport owns the playback state of one buffer. All transitions and
// ticks are serialized by mu. Subscriber callbacks run after mu is released
// and in the order the transitions happened; a callback may call back into
// the transport.
type Transport struct {
	mu     sync.Mutex
	out    Output
	worker *deviceWorker
	direct bool
	clock  positionClock

	buf             *buffer.SampleBuffer
	cursor          int
	status          Status
	volume          float64
	dragging        bool
	resumeAfterDrag bool

	nextID      int
	tickSubs    []subscription[Progress]
	stateSubs   []subscription[State]
	pending     []event
	dispatching bool
}

// NewTransport creates a stopped transport writing to out. Unless
// WithDirectOutput is given, device start and stop run on a worker goroutine
// and a failed start is reported by pausing the transport. Close releases the
// worker and out.
func NewTransport(out Output, opts ...Option) *Transport {
	if out == nil {
		out = NullOutput{}
	}
	t := &Transport{
		out:    out,
		volume: 1,
		clock: positionClock{
			sched:    SystemScheduler{},
			interval: DefaultTickInterval,
		},
	}
	for _, opt := range opts {
		opt(t)
	}
	if !t.direct {
		t.worker = newDeviceWorker(out, t.outputFailed)
		t.out = t.worker
	}
	return t
}

// Close stops playback, unloads the buffer and closes the output.
func (t *Transport) Close() error {
	t.Unload()
	return t.out.Close()
}

// Load installs buf: output stops, pending ticks are invalidated, and the
// transport returns to Stopped at frame 0. A nil buf unloads.
func (t *Transport) Load(buf *buffer.SampleBuffer) {
	t.mu.Lock()
	t.haltLocked()
	t.buf = buf
	t.cursor = 0
	t.dragging = false
	t.resumeAfterDrag = false
	t.setStatusLocked(Stopped, "load")
	t.emitProgressLocked()
	t.unlockAndNotify()
}

// Unload drops the buffer and silences the output.
func (t *Transport) Unload() {
	t.Load(nil)
}

// Play starts from the cursor (Stopped or Paused) or does nothing when
// already Playing. A Stopped transport whose cursor sits at the end starts
// over from frame 0. During a drag the request is remembered and honored by
// EndSeek.
func (t *Transport) Play() error {
	t.mu.Lock()
	defer t.unlockAndNotify()

	if t.buf == nil {
		log.Warnf("transport: play ignored: %v", ErrNoAudioLoaded)
		return ErrNoAudioLoaded
	}
	if t.dragging {
		t.resumeAfterDrag = true
		return nil
	}

	switch t.status {
	case Playing:
		return nil
	case Stopped:
		if t.cursor >= t.buf.Frames() {
			t.cursor = 0
		}
	}
	return t.startLocked("play")
}

// Pause stops output and keeps the cursor. Only valid while Playing.
func (t *Transport) Pause() error {
	t.mu.Lock()
	defer t.unlockAndNotify()

	if t.buf == nil {
		return ErrNoAudioLoaded
	}
	if t.dragging {
		// An explicit pause during a drag cancels the pending resume.
		t.resumeAfterDrag = false
		return nil
	}
	if t.status != Playing {
		return nil
	}
	t.haltLocked()
	t.setStatusLocked(Paused, "pause")
	return nil
}

// TogglePause pauses when Playing and plays otherwise.
func (t *Transport) TogglePause() error {
	if t.State().Status == Playing {
		return t.Pause()
	}
	return t.Play()
}

// Stop returns to Stopped at frame 0 from any state.
func (t *Transport) Stop() error {
	t.mu.Lock()
	defer t.unlockAndNotify()

	if t.buf == nil {
		return ErrNoAudioLoaded
	}
	t.haltLocked()
	t.resumeAfterDrag = false
	t.cursor = 0
	t.setStatusLocked(Stopped, "stop")
	t.emitProgressLocked()
	return nil
}

// BeginSeek takes the drag lock. If Playing, output is paused until EndSeek
// and the clock stops advancing the cursor.
func (t *Transport) BeginSeek() error {
	t.mu.Lock()
	defer t.unlockAndNotify()

	if t.buf == nil {
		return ErrNoAudioLoaded
	}
	if t.dragging {
		return nil
	}
	t.dragging = true
	t.resumeAfterDrag = t.status == Playing
	if t.status == Playing {
		t.haltLocked()
		t.setStatusLocked(Paused, "begin seek")
		return nil
	}
	t.emitStateLocked()
	return nil
}

// Seek moves the cursor to round(fraction × totalFrames), fraction clamped
// to [0,1]. Outside a drag it acts as BeginSeek, Seek, EndSeek in one step.
func (t *Transport) Seek(fraction float64) error {
	t.mu.Lock()
	defer t.unlockAndNotify()

	if t.buf == nil {
		return ErrNoAudioLoaded
	}
	target := int(math.Round(clampUnit(fraction) * float64(t.buf.Frames())))

	if t.dragging {
		t.cursor = target
		t.emitStateLocked()
		t.emitProgressLocked()
		return nil
	}

	wasPlaying := t.status == Playing
	if wasPlaying {
		t.haltLocked()
	}
	t.cursor = target
	t.emitProgressLocked()
	if !wasPlaying {
		t.emitStateLocked()
		return nil
	}
	return t.resumeLocked("seek")
}

// EndSeek releases the drag lock. Playback resumes only if it was active when
// the drag began (or Play was requested during it).
func (t *Transport) EndSeek() error {
	t.mu.Lock()
	defer t.unlockAndNotify()

	if t.buf == nil {
		return ErrNoAudioLoaded
	}
	if !t.dragging {
		return nil
	}
	t.dragging = false
	resume := t.resumeAfterDrag
	t.resumeAfterDrag = false

	if !resume {
		t.emitStateLocked()
		return nil
	}
	return t.resumeLocked("end seek")
}

// SetVolume clamps v to [0,1]. While Playing the output is restarted from the
// cursor at the new level; status, cursor and the tick chain are untouched.
func (t *Transport) SetVolume(v float64) error {
	t.mu.Lock()
	defer t.unlockAndNotify()

	t.volume = clampUnit(v)
	defer t.emitStateLocked()

	if t.status != Playing || t.buf == nil {
		return nil
	}
	if err := t.out.Stop(); err != nil {
		log.Warnf("transport: stopping output for volume change: %v", err)
	}
	if err := t.out.Start(t.buf, t.cursor, t.volume); err != nil {
		log.Errorf("transport: restarting output at volume %.2f: %v", t.volume, err)
		t.clock.invalidate()
		t.setStatusLocked(Paused, "volume")
		return fmt.Errorf("restart output: %w", err)
	}
	return nil
}

// State returns a snapshot of the transport.
func (t *Transport) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stateLocked()
}

// Progress returns the current position.
func (t *Transport) Progress() Progress {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.progressLocked()
}

// OnTick subscribes fn to position updates. The returned func unsubscribes.
func (t *Transport) OnTick(fn func(Progress)) (unsubscribe func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.nextID++
	id := t.nextID
	t.tickSubs = append(t.tickSubs, subscription[Progress]{id: id, fn: fn})
	return func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		t.tickSubs = removeSub(t.tickSubs, id)
	}
}

// OnStateChange subscribes fn to transitions. The returned func unsubscribes.
func (t *Transport) OnStateChange(fn func(State)) (unsubscribe func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.nextID++
	id := t.nextID
	t.stateSubs = append(t.stateSubs, subscription[State]{id: id, fn: fn})
	return func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		t.stateSubs = removeSub(t.stateSubs, id)
	}
}

// tick is the position clock callback.
func (t *Transport) tick(gen uint64) {
	t.mu.Lock()
	defer t.unlockAndNotify()

	if !t.clock.valid(gen) || t.status != Playing || t.buf == nil {
		return
	}
	t.clock.timer = nil

	total := t.buf.Frames()
	t.cursor += t.clock.framesPerTick(t.buf.SampleRate())
	if t.cursor < total {
		t.emitProgressLocked()
		t.clock.arm(t.tick)
		return
	}

	// End of stream: report the final position, then rewind.
	t.cursor = total
	t.emitProgressLocked()
	t.haltLocked()
	t.cursor = 0
	t.setStatusLocked(Stopped, "end of stream")
	t.emitProgressLocked()
}

// outputFailed is called by the device worker when a start request failed.
// Only the newest request counts; anything older was already superseded.
func (t *Transport) outputFailed(seq uint64, err error) {
	t.mu.Lock()
	defer t.unlockAndNotify()

	if t.worker == nil || t.worker.latest() != seq || t.status != Playing {
		return
	}
	log.Errorf("transport: output failed, pausing at frame %d: %v", t.cursor, err)
	t.clock.invalidate()
	t.setStatusLocked(Paused, "output failed")
}

// startLocked hands the remaining samples to the output and arms a fresh
// tick chain.
func (t *Transport) startLocked(reason string) error {
	if err := t.out.Start(t.buf, t.cursor, t.volume); err != nil {
		log.Errorf("transport: %s: starting output: %v", reason, err)
		return fmt.Errorf("start output: %w", err)
	}
	t.clock.invalidate()
	t.clock.arm(t.tick)
	t.setStatusLocked(Playing, reason)
	return nil
}

// resumeLocked restarts playback after a seek. A cursor parked at the end is
// treated as end of stream.
func (t *Transport) resumeLocked(reason string) error {
	if t.cursor >= t.buf.Frames() {
		t.cursor = 0
		t.setStatusLocked(Stopped, reason)
		t.emitProgressLocked()
		return nil
	}
	if err := t.startLocked(reason); err != nil {
		t.setStatusLocked(Paused, reason)
		return err
	}
	return nil
}

// haltLocked stops output and invalidates any pending tick.
func (t *Transport) haltLocked() {
	t.clock.invalidate()
	if err := t.out.Stop(); err != nil {
		log.Warnf("transport: stopping output: %v", err)
	}
}

func (t *Transport) setStatusLocked(s Status, reason string) {
	if s != t.status {
		log.WithFields(log.Fields{
			"from":   t.status.String(),
			"to":     s.String(),
			"cursor": t.cursor,
			"reason": reason,
		}).Debug("transport transition")
	}
	t.status = s
	t.emitStateLocked()
}

func (t *Transport) stateLocked() State {
	st := State{
		Status:   t.status,
		Cursor:   t.cursor,
		Volume:   t.volume,
		Dragging: t.dragging,
		Loaded:   t.buf != nil,
	}
	if t.buf != nil {
		st.TotalFrames = t.buf.Frames()
	}
	return st
}

func (t *Transport) progressLocked() Progress {
	p := Progress{Cursor: t.cursor}
	if t.buf == nil {
		return p
	}
	total := t.buf.Frames()
	rate := float64(t.buf.SampleRate())
	p.TotalFrames = total
	p.Elapsed = float64(t.cursor) / rate
	p.Remaining = float64(total-t.cursor) / rate
	p.Percent = float64(t.cursor) / float64(total) * 100
	return p
}

func (t *Transport) emitStateLocked() {
	st := t.stateLocked()
	t.pending = append(t.pending, event{state: &st})
}

func (t *Transport) emitProgressLocked() {
	p := t.progressLocked()
	t.pending = append(t.pending, event{progress: &p})
}

// unlockAndNotify delivers queued events outside the lock, then releases it.
// Only one goroutine dispatches at a time; events queued by a callback (or
// by another goroutine meanwhile) are picked up by the active dispatcher,
// which keeps delivery in transition order.
func (t *Transport) unlockAndNotify() {
	if t.dispatching {
		t.mu.Unlock()
		return
	}
	t.dispatching = true
	for len(t.pending) > 0 {
		events := t.pending
		t.pending = nil
		tickSubs := append([]subscription[Progress](nil), t.tickSubs...)
		stateSubs := append([]subscription[State](nil), t.stateSubs...)
		t.mu.Unlock()

		for _, ev := range events {
			if ev.state != nil {
				for _, s := range stateSubs {
					s.fn(*ev.state)
				}
			}
			if ev.progress != nil {
				for _, s := range tickSubs {
					s.fn(*ev.progress)
				}
			}
		}

		t.mu.Lock()
	}
	t.dispatching = false
	t.mu.Unlock()
}

func removeSub[T any](subs []subscription[T], id int) []subscription[T] {
	out := subs[:0]
	for _, s := range subs {
		if s.id != id {
			out = append(out, s)
		}
	}
	return out
}

func clampUnit(v float64) float64 {
	switch {
	case math.IsNaN(v) || v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
