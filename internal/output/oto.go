package output

import (
	"errors"
	"fmt"
	"sync"

	"github.com/ebitengine/oto/v3"

	"soundscope/internal/buffer"
	"soundscope/internal/log"
	"soundscope/internal/playback"
)

// ErrLayoutMismatch is returned when a buffer does not match the layout the
// process-wide oto context was created with.
var ErrLayoutMismatch = errors.New("oto: sample layout differs from the open context")

// oto allows a single context per process.
var shared otoShared

type otoShared struct {
	mu       sync.Mutex
	ctx      *oto.Context
	rate     int
	channels int
	err      error
	created  bool
}

// newOtoContext is swapped out in tests.
var newOtoContext = func(op *oto.NewContextOptions) (*oto.Context, error) {
	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, err
	}
	<-ready
	return ctx, nil
}

func (s *otoShared) context(rate, channels int) (*oto.Context, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.created {
		s.created = true
		s.rate, s.channels = rate, channels
		s.ctx, s.err = newOtoContext(&oto.NewContextOptions{
			SampleRate:   rate,
			ChannelCount: channels,
			Format:       oto.FormatSignedInt16LE,
		})
		if s.err != nil {
			s.err = fmt.Errorf("oto: create context: %w", s.err)
		} else {
			log.Infof("oto: context opened at %d Hz, %d channel(s)", rate, channels)
		}
	}
	if s.err != nil {
		return nil, s.err
	}
	if rate != s.rate || channels != s.channels {
		return nil, fmt.Errorf("%w: have %d Hz/%d ch, got %d Hz/%d ch",
			ErrLayoutMismatch, s.rate, s.channels, rate, channels)
	}
	return s.ctx, nil
}

// player is the part of *oto.Player the output drives.
type player interface {
	Play()
	Pause()
	Close() error
}

// Oto plays buffers through the ebitengine/oto context. Only mono and stereo
// are rendered; wider buffers play their first two channels.
type Oto struct {
	mu     sync.Mutex
	player player
	closed bool

	newPlayer func(ctx *oto.Context, r *renderer) player
}

var _ playback.Output = (*Oto)(nil)

func NewOto() *Oto {
	return &Oto{
		newPlayer: func(ctx *oto.Context, r *renderer) player {
			return ctx.NewPlayer(r)
		},
	}
}

func (o *Oto) Start(buf *buffer.SampleBuffer, fromFrame int, volume float64) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed {
		return ErrClosed
	}
	channels := min(buf.ChannelCount(), 2)
	ctx, err := shared.context(buf.SampleRate(), channels)
	if err != nil {
		return err
	}
	if err := o.stopLocked(); err != nil {
		return err
	}

	p := o.newPlayer(ctx, newRenderer(buf, fromFrame, volume, channels))
	p.Play()
	o.player = p
	return nil
}

func (o *Oto) Stop() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.stopLocked()
}

func (o *Oto) stopLocked() error {
	if o.player == nil {
		return nil
	}
	p := o.player
	o.player = nil
	p.Pause()
	if err := p.Close(); err != nil {
		return fmt.Errorf("oto: close player: %w", err)
	}
	return nil
}

// Close stops playback. The shared context stays open for the process.
func (o *Oto) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.closed = true
	return o.stopLocked()
}
