package analysis

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// OnsetOptions tunes DetectOnsets.
type OnsetOptions struct {
	FrameSize int     // samples per energy frame
	Gate      float64 // RMS at or below which a frame counts as silence
	MinRatio  float64 // RMS rise over the previous frame that marks an onset
	MinGap    float64 // seconds; onsets closer than this to the last one are dropped
}

func DefaultOnsetOptions() OnsetOptions {
	return OnsetOptions{FrameSize: 1024, Gate: 0.05, MinRatio: 1.5, MinGap: 0.1}
}

// Onset is a sudden rise in energy, such as a kick drum hit.
type Onset struct {
	Time float64 // start of the frame, seconds
	RMS  float64
}

// DetectOnsets walks channel in non-overlapping frames and reports every
// frame whose RMS clears the gate and jumps by MinRatio over the previous
// frame. A frame following digital silence always counts.
func DetectOnsets(channel []float64, sampleRate int, opts OnsetOptions) ([]Onset, error) {
	if len(channel) == 0 {
		return nil, ErrEmptySignal
	}
	if opts.FrameSize < 1 {
		return nil, fmt.Errorf("%w: onset frame size %d", ErrInvalidWindow, opts.FrameSize)
	}

	var (
		onsets []Onset
		last   float64
		lastAt = math.Inf(-1)
	)
	for start := 0; start < len(channel); start += opts.FrameSize {
		frame := channel[start:min(start+opts.FrameSize, len(channel))]
		rms := math.Sqrt(floats.Dot(frame, frame) / float64(len(frame)))
		at := float64(start) / float64(sampleRate)

		rising := last == 0 || rms/last > opts.MinRatio
		if rms > opts.Gate && rising && at-lastAt >= opts.MinGap {
			onsets = append(onsets, Onset{Time: at, RMS: rms})
			lastAt = at
		}
		last = rms
	}
	return onsets, nil
}
