// SPDX-License-Identifier: MIT
package analysis

import (
	"fmt"

	"gonum.org/v1/gonum/dsp/fourier"
)

// Pre-allocated buffers for one frame.
type fftWorkspace struct {
	input  []float64    // windowed, detrended frame
	coeffs []complex128 // size/2+1 FFT coefficients
	power  []float64    // one-sided PSD per bin
}

// FFTProcessor turns fixed-size frames into one-sided power spectral density
// estimates. A processor reuses its workspace between frames and is not safe
// for concurrent use; each transform call owns its own processor.
type FFTProcessor struct {
	fft        *fourier.FFT
	size       int
	sampleRate float64
	window     []float64
	scale      float64 // 1 / (fs * sum(w^2))
	detrend    bool
	workspace  fftWorkspace
}

var _ FrameProcessor = (*FFTProcessor)(nil)

// ProcessorOption tweaks an FFTProcessor at construction.
type ProcessorOption func(*processorOptions)

type processorOptions struct {
	periodic bool
	detrend  bool
}

// WithPeriodicWindow uses the periodic (DFT-even) form of the window.
func WithPeriodicWindow() ProcessorOption {
	return func(o *processorOptions) { o.periodic = true }
}

// WithDetrend subtracts each frame's mean before windowing.
func WithDetrend() ProcessorOption {
	return func(o *processorOptions) { o.detrend = true }
}

// NewFFTProcessor creates a processor for frames of size samples. Any
// positive size is accepted.
func NewFFTProcessor(size int, sampleRate int, wf WindowFunc, opts ...ProcessorOption) (*FFTProcessor, error) {
	if size < 1 {
		return nil, fmt.Errorf("%w: frame size %d", ErrInvalidWindow, size)
	}
	if sampleRate <= 0 {
		return nil, fmt.Errorf("sample rate must be positive, got %d", sampleRate)
	}

	var o processorOptions
	for _, opt := range opts {
		opt(&o)
	}

	coeffs := windowCoefficients(size, wf, o.periodic)
	var sumSq float64
	for _, c := range coeffs {
		sumSq += c * c
	}

	bins := size/2 + 1
	return &FFTProcessor{
		fft:        fourier.NewFFT(size),
		size:       size,
		sampleRate: float64(sampleRate),
		window:     coeffs,
		scale:      1 / (float64(sampleRate) * sumSq),
		detrend:    o.detrend,
		workspace: fftWorkspace{
			input:  make([]float64, size),
			coeffs: make([]complex128, bins),
			power:  make([]float64, bins),
		},
	}, nil
}

// Process computes the PSD of frame, zero-padding or truncating it to the
// processor size. The returned slice is reused by the next call.
func (p *FFTProcessor) Process(frame []float64) []float64 {
	in := p.workspace.input
	n := copy(in, frame)
	for i := n; i < p.size; i++ {
		in[i] = 0
	}

	if p.detrend && n > 0 {
		var mean float64
		for _, v := range in[:n] {
			mean += v
		}
		mean /= float64(n)
		for i := range in[:n] {
			in[i] -= mean
		}
	}

	for i, w := range p.window {
		in[i] *= w
	}

	p.fft.Coefficients(p.workspace.coeffs, in)

	// One-sided density: every bin except DC and (for even sizes) Nyquist
	// carries the energy of its negative-frequency twin.
	last := len(p.workspace.power) - 1
	for k, c := range p.workspace.coeffs {
		pw := (real(c)*real(c) + imag(c)*imag(c)) * p.scale
		if k != 0 && !(k == last && p.size%2 == 0) {
			pw *= 2
		}
		p.workspace.power[k] = pw
	}
	return p.workspace.power
}

// Size returns the frame length.
func (p *FFTProcessor) Size() int { return p.size }

// Bins returns the number of one-sided bins, size/2+1.
func (p *FFTProcessor) Bins() int { return len(p.workspace.power) }

// FrequencyForBin returns the centre frequency (Hz) of bin k, or 0 when k is
// out of range.
func (p *FFTProcessor) FrequencyForBin(k int) float64 {
	if k < 0 || k >= len(p.workspace.power) {
		return 0
	}
	return float64(k) * p.sampleRate / float64(p.size)
}

// Frequencies returns the frequency axis of the processor.
func (p *FFTProcessor) Frequencies() []float64 {
	out := make([]float64, p.Bins())
	for k := range out {
		out[k] = p.FrequencyForBin(k)
	}
	return out
}
