// SPDX-License-Identifier: MIT
package output

import (
	"fmt"
	"sync"
	"time"

	"github.com/gordonklaus/portaudio"

	"soundscope/internal/buffer"
	"soundscope/internal/log"
	"soundscope/internal/playback"
	"soundscope/pkg/bitint"
)

// PortAudio plays buffers through an output-only PortAudio stream. Each Start
// opens a fresh stream at the buffer's sample rate; the stream callback pulls
// frames from a renderer and never blocks.
type PortAudio struct {
	mu sync.Mutex

	device          *portaudio.DeviceInfo
	latency         time.Duration
	framesPerBuffer int

	stream *portaudio.Stream
	active *renderer
	closed bool
}

var _ playback.Output = (*PortAudio)(nil)

// NewPortAudio initializes PortAudio and resolves the output device.
// The returned output owns the PortAudio session until Close.
func NewPortAudio(cfg PortAudioConfig) (*PortAudio, error) {
	if err := Initialize(); err != nil {
		return nil, err
	}

	device, err := OutputDevice(cfg.DeviceID)
	if err != nil {
		Terminate()
		return nil, err
	}

	p := &PortAudio{
		device:          device,
		latency:         device.DefaultHighOutputLatency,
		framesPerBuffer: bitint.NextPowerOfTwo(max(cfg.FramesPerBuffer, 1)),
	}
	if cfg.LowLatency {
		p.latency = device.DefaultLowOutputLatency
	}

	log.Debugf("portaudio: device %q, latency %v, %d frames per buffer",
		device.Name, p.latency, p.framesPerBuffer)
	return p, nil
}

// PortAudioConfig selects the device and stream shape.
type PortAudioConfig struct {
	DeviceID        int
	FramesPerBuffer int
	LowLatency      bool
}

func (p *PortAudio) Start(buf *buffer.SampleBuffer, fromFrame int, volume float64) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrClosed
	}
	if err := p.stopLocked(); err != nil {
		return err
	}

	channels := min(buf.ChannelCount(), p.device.MaxOutputChannels)
	r := newRenderer(buf, fromFrame, volume, channels)

	params := portaudio.StreamParameters{
		Output: portaudio.StreamDeviceParameters{
			Device:   p.device,
			Channels: channels,
			Latency:  p.latency,
		},
		SampleRate:      float64(buf.SampleRate()),
		FramesPerBuffer: p.framesPerBuffer,
	}

	stream, err := portaudio.OpenStream(params, func(out []float32) {
		r.renderFloat32(out)
	})
	if err != nil {
		return fmt.Errorf("portaudio: open stream: %w", err)
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		return fmt.Errorf("portaudio: start stream: %w", err)
	}

	p.stream = stream
	p.active = r
	return nil
}

func (p *PortAudio) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stopLocked()
}

func (p *PortAudio) stopLocked() error {
	if p.stream == nil {
		return nil
	}
	stream := p.stream
	p.stream = nil
	p.active = nil

	if err := stream.Stop(); err != nil {
		stream.Close()
		return fmt.Errorf("portaudio: stop stream: %w", err)
	}
	if err := stream.Close(); err != nil {
		return fmt.Errorf("portaudio: close stream: %w", err)
	}
	return nil
}

// Close stops playback and terminates PortAudio.
func (p *PortAudio) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true
	err := p.stopLocked()
	if terr := Terminate(); err == nil {
		err = terr
	}
	return err
}
