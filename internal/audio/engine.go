// SPDX-License-Identifier: MIT
/*
Package audio is the controller the presentation layer talks to. An Engine
owns:
  - the currently loaded SampleBuffer, swapped atomically on a good load
  - the playback transport and the output device behind it
  - the spectral views computed on demand from the loaded buffer

Thread Safety:
  - the buffer pointer is atomic; readers never see a half-loaded file
  - loads are serialized so the transport always holds the newest buffer
  - analysis is pure and may run concurrently per channel
*/
package audio

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"soundscope/internal/analysis"
	"soundscope/internal/buffer"
	"soundscope/internal/config"
	"soundscope/internal/decode"
	"soundscope/internal/log"
	"soundscope/internal/playback"
)

// ErrNoAudioLoaded is returned by every query made before a successful load.
var ErrNoAudioLoaded = playback.ErrNoAudioLoaded

type Engine struct {
	config    *config.Config
	transport *playback.Transport

	loadMu  sync.Mutex
	current atomic.Pointer[buffer.SampleBuffer]
}

// NewEngine builds an engine playing through out. opts are passed to the
// transport after the configured tick interval and volume.
func NewEngine(cfg *config.Config, out playback.Output, opts ...playback.Option) *Engine {
	if cfg == nil {
		cfg = config.Default()
	}
	if out == nil {
		out = playback.NullOutput{}
	}

	topts := []playback.Option{
		playback.WithTickInterval(cfg.Playback.TickInterval),
		playback.WithVolume(cfg.Playback.Volume),
	}
	topts = append(topts, opts...)

	return &Engine{
		config:    cfg,
		transport: playback.NewTransport(out, topts...),
	}
}

// LoadFile decodes path and loads the result.
func (e *Engine) LoadFile(path string) error {
	decoded, err := decode.Decode(path)
	if err != nil {
		return err
	}
	return e.LoadBuffer(decoded)
}

// LoadBuffer validates and normalizes decoded audio. Only on success does it
// replace the current buffer and reset the transport; a failed load leaves
// both untouched.
func (e *Engine) LoadBuffer(decoded decode.Decoded) error {
	buf, err := buffer.Load(decoded.Channels, decoded.SampleRate)
	if err != nil {
		return err
	}
	info := buffer.Info{Format: "PCM", BitDepth: decoded.BitDepth}
	if decoded.Format != decode.FormatUnknown {
		info.Format = decoded.Format.String()
	}
	if info.BitDepth == "" {
		info.BitDepth = decode.BitDepthNA
	}
	buf = buf.WithInfo(info)

	e.loadMu.Lock()
	defer e.loadMu.Unlock()
	e.current.Store(buf)
	e.transport.Load(buf)

	log.WithFields(log.Fields{
		"format":   info.Format,
		"rate":     buf.SampleRate(),
		"channels": buf.ChannelCount(),
		"frames":   buf.Frames(),
	}).Info("audio loaded")
	return nil
}

// Buffer returns the loaded buffer or ErrNoAudioLoaded.
func (e *Engine) Buffer() (*buffer.SampleBuffer, error) {
	buf := e.current.Load()
	if buf == nil {
		return nil, ErrNoAudioLoaded
	}
	return buf, nil
}

func (e *Engine) channel(ch int) (*buffer.SampleBuffer, []float64, error) {
	buf, err := e.Buffer()
	if err != nil {
		return nil, nil, err
	}
	samples, err := buf.Channel(ch)
	if err != nil {
		return nil, nil, err
	}
	return buf, samples, nil
}

func (e *Engine) ComputeSpectrum(ch int) (analysis.Spectrum, error) {
	buf, samples, err := e.channel(ch)
	if err != nil {
		return analysis.Spectrum{}, err
	}
	return analysis.ComputeSpectrum(samples, buf.SampleRate())
}

// ComputeSpectrogram uses the analysis section of the configuration.
func (e *Engine) ComputeSpectrogram(ch int) (analysis.Spectrogram, error) {
	buf, samples, err := e.channel(ch)
	if err != nil {
		return analysis.Spectrogram{}, err
	}
	opts, err := e.spectrogramOptions()
	if err != nil {
		return analysis.Spectrogram{}, err
	}
	return analysis.ComputeSpectrogram(samples, buf.SampleRate(), opts)
}

func (e *Engine) spectrogramOptions() (analysis.SpectrogramOptions, error) {
	opts := analysis.DefaultSpectrogramOptions()
	a := e.config.Analysis
	// Validate bounds the pair; zero overlap is a valid setting.
	if a.WindowSize > 0 {
		opts.WindowSize = a.WindowSize
		opts.Overlap = a.Overlap
	}
	if a.WindowFunc != "" {
		wf, err := analysis.ParseWindowFunc(a.WindowFunc)
		if err != nil {
			return opts, err
		}
		opts.Window = wf
	}
	return opts, nil
}

func (e *Engine) ComputeSurface3D(ch int) (analysis.Surface3D, error) {
	buf, samples, err := e.channel(ch)
	if err != nil {
		return analysis.Surface3D{}, err
	}
	return analysis.ComputeSurface3D(samples, buf.SampleRate())
}

// ComputeWaveform reduces channel ch to points min/max pairs. points <= 0
// uses the configured default.
func (e *Engine) ComputeWaveform(ch, points int) (analysis.Waveform, error) {
	buf, samples, err := e.channel(ch)
	if err != nil {
		return analysis.Waveform{}, err
	}
	if points <= 0 {
		points = e.config.Analysis.WaveformPoints
	}
	return analysis.ComputeWaveform(samples, buf.SampleRate(), points)
}

// Stats summarizes every channel of the loaded buffer.
func (e *Engine) Stats() ([]buffer.ChannelStats, error) {
	buf, err := e.Buffer()
	if err != nil {
		return nil, err
	}
	return buf.Stats(), nil
}

// BandEnergies splits the spectrum of channel ch into the default bands.
func (e *Engine) BandEnergies(ch int) ([]analysis.BandEnergy, error) {
	s, err := e.ComputeSpectrum(ch)
	if err != nil {
		return nil, err
	}
	return analysis.BandEnergies(s, analysis.DefaultBands), nil
}

// DetectOnsets finds energy onsets in channel ch with the default options.
func (e *Engine) DetectOnsets(ch int) ([]analysis.Onset, error) {
	buf, samples, err := e.channel(ch)
	if err != nil {
		return nil, err
	}
	return analysis.DetectOnsets(samples, buf.SampleRate(), analysis.DefaultOnsetOptions())
}

// Kind selects the representation AnalyzeAll computes.
type Kind int

const (
	KindSpectrum Kind = iota
	KindSpectrogram
	KindSurface3D
	KindWaveform
)

func (k Kind) String() string {
	switch k {
	case KindSpectrum:
		return "spectrum"
	case KindSpectrogram:
		return "spectrogram"
	case KindSurface3D:
		return "surface3d"
	case KindWaveform:
		return "waveform"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Analysis holds one channel's result; only the field for the requested
// Kind is set.
type Analysis struct {
	Channel     int
	Spectrum    *analysis.Spectrum
	Spectrogram *analysis.Spectrogram
	Surface     *analysis.Surface3D
	Waveform    *analysis.Waveform
}

var errUnknownKind = errors.New("unknown analysis kind")

// AnalyzeAll computes kind for every channel concurrently. The first error
// or a cancelled ctx aborts the remaining channels.
func (e *Engine) AnalyzeAll(ctx context.Context, kind Kind) ([]Analysis, error) {
	buf, err := e.Buffer()
	if err != nil {
		return nil, err
	}
	if kind < KindSpectrum || kind > KindWaveform {
		return nil, fmt.Errorf("%w: %v", errUnknownKind, kind)
	}

	results := make([]Analysis, buf.ChannelCount())
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for ch := range results {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			r, err := e.analyze(buf, ch, kind)
			if err != nil {
				return fmt.Errorf("%v channel %d: %w", kind, ch, err)
			}
			results[ch] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// analyze works on buf rather than the current buffer so a concurrent load
// cannot mix two files into one result.
func (e *Engine) analyze(buf *buffer.SampleBuffer, ch int, kind Kind) (Analysis, error) {
	samples, err := buf.Channel(ch)
	if err != nil {
		return Analysis{}, err
	}
	r := Analysis{Channel: ch}
	rate := buf.SampleRate()

	switch kind {
	case KindSpectrum:
		s, err := analysis.ComputeSpectrum(samples, rate)
		if err != nil {
			return r, err
		}
		r.Spectrum = &s
	case KindSpectrogram:
		opts, err := e.spectrogramOptions()
		if err != nil {
			return r, err
		}
		s, err := analysis.ComputeSpectrogram(samples, rate, opts)
		if err != nil {
			return r, err
		}
		r.Spectrogram = &s
	case KindSurface3D:
		s, err := analysis.ComputeSurface3D(samples, rate)
		if err != nil {
			return r, err
		}
		r.Surface = &s
	case KindWaveform:
		w, err := analysis.ComputeWaveform(samples, rate, e.config.Analysis.WaveformPoints)
		if err != nil {
			return r, err
		}
		r.Waveform = &w
	}
	return r, nil
}

// Transport exposes the underlying transport, e.g. for notify.Attach.
func (e *Engine) Transport() *playback.Transport { return e.transport }

func (e *Engine) Play() error          { return e.transport.Play() }
func (e *Engine) Pause() error         { return e.transport.Pause() }
func (e *Engine) TogglePause() error   { return e.transport.TogglePause() }
func (e *Engine) Stop() error          { return e.transport.Stop() }
func (e *Engine) BeginSeek() error     { return e.transport.BeginSeek() }
func (e *Engine) Seek(f float64) error { return e.transport.Seek(f) }
func (e *Engine) EndSeek() error       { return e.transport.EndSeek() }
func (e *Engine) SetVolume(v float64) error {
	return e.transport.SetVolume(v)
}
func (e *Engine) State() playback.State       { return e.transport.State() }
func (e *Engine) Progress() playback.Progress { return e.transport.Progress() }

// OnTick registers callback for position ticks, reported as elapsed and
// remaining seconds and percent played.
func (e *Engine) OnTick(callback func(elapsed, remaining, percent float64)) (unsubscribe func()) {
	return e.transport.OnTick(func(p playback.Progress) {
		callback(p.Elapsed, p.Remaining, p.Percent)
	})
}

// OnStateChange registers fn for transport state transitions.
func (e *Engine) OnStateChange(fn func(playback.State)) (unsubscribe func()) {
	return e.transport.OnStateChange(fn)
}

// Close stops playback and releases the output device.
func (e *Engine) Close() error {
	return e.transport.Close()
}
