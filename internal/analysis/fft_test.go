// SPDX-License-Identifier: MIT
package analysis

import (
	"errors"
	"math"
	"testing"

	"soundscope/pkg/utils"
)

func TestNewFFTProcessor(t *testing.T) {
	tests := []struct {
		name       string
		size       int
		sampleRate int
		wantErr    bool
	}{
		{"Power Of Two", 1024, 44100, false},
		{"Odd Size", 441, 44100, false},
		{"Single Sample", 1, 8000, false},
		{"Zero Size", 0, 44100, true},
		{"Bad Rate", 512, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewFFTProcessor(tt.size, tt.sampleRate, Hann)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewFFTProcessor() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if p.Size() != tt.size || p.Bins() != tt.size/2+1 {
				t.Errorf("Size/Bins = %d/%d", p.Size(), p.Bins())
			}
		})
	}

	_, err := NewFFTProcessor(0, 44100, Hann)
	if !errors.Is(err, ErrInvalidWindow) {
		t.Errorf("zero size error = %v, want ErrInvalidWindow", err)
	}
}

func TestFFTProcessorDensityScaling(t *testing.T) {
	// A rectangular DC frame of ones: X0 = N, so P0 = N^2 / (fs * N) = N/fs.
	p, err := NewFFTProcessor(8, 8, Rectangular)
	if err != nil {
		t.Fatal(err)
	}
	frame := []float64{1, 1, 1, 1, 1, 1, 1, 1}
	power := p.Process(frame)

	if math.Abs(power[0]-1) > 1e-12 {
		t.Errorf("P0 = %v, want 1", power[0])
	}
	for k := 1; k < len(power); k++ {
		if math.Abs(power[k]) > 1e-12 {
			t.Errorf("P%d = %v, want 0", k, power[k])
		}
	}
}

func TestFFTProcessorDetrend(t *testing.T) {
	p, err := NewFFTProcessor(16, 16, Tukey, WithPeriodicWindow(), WithDetrend())
	if err != nil {
		t.Fatal(err)
	}
	frame := make([]float64, 16)
	for i := range frame {
		frame[i] = 0.75
	}
	for k, v := range p.Process(frame) {
		if math.Abs(v) > 1e-20 {
			t.Errorf("detrended DC frame bin %d = %v, want 0", k, v)
		}
	}
}

func TestFFTProcessorSinePeak(t *testing.T) {
	const sampleRate = 48000
	p, err := NewFFTProcessor(4096, sampleRate, Blackman)
	if err != nil {
		t.Fatal(err)
	}
	power := p.Process(utils.SineWave(4096, sampleRate, 3000, 1))
	peak := utils.FindPeakBin(power, 0, len(power)-1)
	if got := p.FrequencyForBin(peak); math.Abs(got-3000) > float64(sampleRate)/4096 {
		t.Errorf("peak at %.1f Hz, want 3000", got)
	}
	if p.FrequencyForBin(-1) != 0 || p.FrequencyForBin(p.Bins()) != 0 {
		t.Errorf("out of range bins should map to 0 Hz")
	}
}

// countingProcessor records the frames it is handed.
type countingProcessor struct {
	size   int
	frames [][]float64
}

func (c *countingProcessor) Process(frame []float64) []float64 {
	cp := make([]float64, len(frame))
	copy(cp, frame)
	c.frames = append(c.frames, cp)
	return []float64{float64(len(frame))}
}

func (c *countingProcessor) Size() int                   { return c.size }
func (c *countingProcessor) Bins() int                   { return 1 }
func (c *countingProcessor) FrequencyForBin(int) float64 { return 0 }

func TestSTFTFraming(t *testing.T) {
	signal := make([]float64, 10)
	for i := range signal {
		signal[i] = float64(i)
	}

	proc := &countingProcessor{size: 4}
	rows, times := stft(proc, signal, 3, 2)

	// Starts at 0, 3, 6; a frame at 9 would not fit.
	if len(rows) != 3 || len(proc.frames) != 3 {
		t.Fatalf("got %d frames, want 3", len(rows))
	}
	for i, frame := range proc.frames {
		if frame[0] != float64(3*i) || len(frame) != 4 {
			t.Errorf("frame %d = %v", i, frame)
		}
	}
	wantTimes := []float64{1, 2.5, 4}
	for i, want := range wantTimes {
		if times[i] != want {
			t.Errorf("times[%d] = %v, want %v", i, times[i], want)
		}
	}

	short := &countingProcessor{size: 16}
	rows, _ = stft(short, signal, 8, 2)
	if len(rows) != 1 || len(short.frames[0]) != 10 {
		t.Errorf("short signal should produce one partial frame, got %d frames", len(rows))
	}
}
