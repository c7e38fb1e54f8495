package output

import (
	"encoding/binary"
	"io"
	"math"
	"sync/atomic"

	"soundscope/internal/buffer"
)

// renderer walks a SampleBuffer from a start frame, producing interleaved
// device samples with volume applied. The frame index is atomic because the
// device callback and the controlling goroutine both read it.
type renderer struct {
	buf      *buffer.SampleBuffer
	src      [][]float64
	channels int
	volume   float64
	frame    atomic.Int64
}

func newRenderer(buf *buffer.SampleBuffer, fromFrame int, volume float64, channels int) *renderer {
	r := &renderer{
		buf:      buf,
		src:      make([][]float64, buf.ChannelCount()),
		channels: max(channels, 1),
		volume:   math.Max(0, math.Min(1, volume)),
	}
	for i := range r.src {
		r.src[i], _ = buf.Channel(i)
	}
	r.frame.Store(int64(min(max(fromFrame, 0), buf.Frames())))
	return r
}

// sample returns output channel oc of frame f. Extra output channels repeat
// the source channels, so a mono buffer fills both sides of a stereo device.
func (r *renderer) sample(oc, f int) float64 {
	v := r.src[oc%len(r.src)][f] * r.volume
	return math.Max(-1, math.Min(1, v))
}

// Frame is the next frame to be rendered.
func (r *renderer) Frame() int { return int(r.frame.Load()) }

func (r *renderer) done() bool { return r.Frame() >= r.buf.Frames() }

// renderFloat32 fills out with interleaved frames and silence past the end.
// It returns the number of audio frames written.
func (r *renderer) renderFloat32(out []float32) int {
	start := r.Frame()
	n := min(len(out)/r.channels, r.buf.Frames()-start)
	n = max(n, 0)

	i := 0
	for f := start; f < start+n; f++ {
		for oc := 0; oc < r.channels; oc++ {
			out[i] = float32(r.sample(oc, f))
			i++
		}
	}
	clear(out[i:])
	r.frame.Add(int64(n))
	return n
}

// Read renders signed 16-bit little-endian PCM, making the renderer an
// io.Reader suitable for an oto player.
func (r *renderer) Read(p []byte) (int, error) {
	frameBytes := 2 * r.channels
	if r.done() {
		return 0, io.EOF
	}
	if len(p) < frameBytes {
		return 0, io.ErrShortBuffer
	}

	start := r.Frame()
	n := min(len(p)/frameBytes, r.buf.Frames()-start)
	i := 0
	for f := start; f < start+n; f++ {
		for oc := 0; oc < r.channels; oc++ {
			binary.LittleEndian.PutUint16(p[i:], uint16(toInt16(r.sample(oc, f))))
			i += 2
		}
	}
	r.frame.Add(int64(n))
	return i, nil
}

func toInt16(v float64) int16 {
	if v >= 0 {
		return int16(math.Round(v * math.MaxInt16))
	}
	return int16(math.Round(v * -math.MinInt16))
}
