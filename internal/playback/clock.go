package playback

import (
	"math"
	"time"
)

// DefaultTickInterval is the period of the position clock.
const DefaultTickInterval = 100 * time.Millisecond

// Timer is a cancelable scheduled task.
type Timer interface {
	// Stop prevents the task from running and reports whether it was still
	// pending.
	Stop() bool
}

// Scheduler runs f once after d on its own goroutine.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// SystemScheduler schedules with time.AfterFunc.
type SystemScheduler struct{}

func (SystemScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// positionClock is the tick source of a Transport. It has no lock of its own;
// every method is called with the transport mutex held.
//
// Each armed tick carries the generation current at arming time. Any
// transition calls invalidate, which bumps the generation and stops the
// pending timer, so a tick that already left the timer finds a stale
// generation and does nothing.
type positionClock struct {
	sched      Scheduler
	interval   time.Duration
	generation uint64
	timer      Timer
}

func (c *positionClock) invalidate() {
	c.generation++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

// arm schedules one tick for the current generation.
func (c *positionClock) arm(tick func(gen uint64)) {
	gen := c.generation
	c.timer = c.sched.AfterFunc(c.interval, func() { tick(gen) })
}

func (c *positionClock) valid(gen uint64) bool {
	return gen == c.generation
}

// framesPerTick is round(interval × sampleRate), at least one frame.
func (c *positionClock) framesPerTick(sampleRate int) int {
	n := int(math.Round(c.interval.Seconds() * float64(sampleRate)))
	if n < 1 {
		n = 1
	}
	return n
}
