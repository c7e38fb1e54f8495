package playback

import (
	"errors"
	"sync"

	"soundscope/internal/buffer"
	"soundscope/internal/log"
)

var errWorkerClosed = errors.New("output worker closed")

type deviceRequest struct {
	seq    uint64
	start  bool
	buf    *buffer.SampleBuffer
	from   int
	volume float64
}

// deviceWorker runs Output.Start and Output.Stop on its own goroutine so
// transitions only enqueue. Requests are not queued: the most recent one
// replaces any request the worker has not picked up yet.
type deviceWorker struct {
	out    Output
	failed func(seq uint64, err error)

	mu      sync.Mutex
	pending *deviceRequest
	seq     uint64
	closed  bool

	wake chan struct{}
	done chan struct{}
}

var _ Output = (*deviceWorker)(nil)

func newDeviceWorker(out Output, failed func(seq uint64, err error)) *deviceWorker {
	w := &deviceWorker{
		out:    out,
		failed: failed,
		wake:   make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
	go w.run()
	return w
}

func (w *deviceWorker) Start(buf *buffer.SampleBuffer, fromFrame int, volume float64) error {
	return w.submit(deviceRequest{start: true, buf: buf, from: fromFrame, volume: volume})
}

func (w *deviceWorker) Stop() error {
	return w.submit(deviceRequest{})
}

// Close applies a final Stop, waits for the worker to drain and closes the
// device.
func (w *deviceWorker) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.seq++
	w.pending = &deviceRequest{seq: w.seq}
	w.closed = true
	w.signalLocked()
	close(w.wake)
	w.mu.Unlock()

	<-w.done
	return w.out.Close()
}

// latest is the sequence number of the newest request.
func (w *deviceWorker) latest() uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.seq
}

func (w *deviceWorker) submit(req deviceRequest) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return errWorkerClosed
	}
	w.seq++
	req.seq = w.seq
	w.pending = &req
	w.signalLocked()
	return nil
}

func (w *deviceWorker) signalLocked() {
	select {
	case w.wake <- struct{}{}:
	default:
	}
}

func (w *deviceWorker) run() {
	defer close(w.done)
	for range w.wake {
		for {
			w.mu.Lock()
			req := w.pending
			w.pending = nil
			w.mu.Unlock()
			if req == nil {
				break
			}
			w.apply(*req)
		}
	}
}

func (w *deviceWorker) apply(req deviceRequest) {
	if !req.start {
		if err := w.out.Stop(); err != nil {
			log.Warnf("output worker: stop: %v", err)
		}
		return
	}
	if err := w.out.Start(req.buf, req.from, req.volume); err != nil {
		log.Errorf("output worker: start at frame %d: %v", req.from, err)
		if w.failed != nil {
			w.failed(req.seq, err)
		}
	}
}
