// SPDX-License-Identifier: MIT
package analysis

import "errors"

var (
	// ErrEmptySignal is returned by every transform for a zero-length channel.
	ErrEmptySignal = errors.New("empty signal")
	// ErrInvalidWindow is returned for a window size below 1 or an overlap
	// outside [0, windowSize).
	ErrInvalidWindow = errors.New("invalid analysis window")
)

// FrameProcessor turns one frame of samples into a per-bin power estimate.
// The STFT driver is written against this interface so the frame transform
// can be swapped in tests.
type FrameProcessor interface {
	Process(frame []float64) []float64
	Size() int
	Bins() int
	FrequencyForBin(k int) float64
}

// stft slides proc over signal with the given hop and returns a copy of each
// frame's output plus the centre time of each frame in seconds. A signal
// shorter than the frame yields one zero-padded frame.
func stft(proc FrameProcessor, signal []float64, hop int, sampleRate int) ([][]float64, []float64) {
	size := proc.Size()
	starts := []int{0}
	if len(signal) >= size {
		count := (len(signal)-size)/hop + 1
		starts = make([]int, count)
		for i := range starts {
			starts[i] = i * hop
		}
	}

	frames := make([][]float64, len(starts))
	times := make([]float64, len(starts))
	for i, start := range starts {
		end := start + size
		if end > len(signal) {
			end = len(signal)
		}
		power := proc.Process(signal[start:end])
		row := make([]float64, len(power))
		copy(row, power)
		frames[i] = row
		times[i] = (float64(start) + float64(size)/2) / float64(sampleRate)
	}
	return frames, times
}
