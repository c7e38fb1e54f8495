package output

import (
	"errors"
	"testing"

	"github.com/ebitengine/oto/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePlayer struct {
	playing bool
	closed  bool
	r       *renderer
}

func (p *fakePlayer) Play()        { p.playing = true }
func (p *fakePlayer) Pause()       { p.playing = false }
func (p *fakePlayer) Close() error { p.closed = true; return nil }

// fakeOto replaces context creation and resets the shared context.
func fakeOto(t *testing.T, createErr error) *int {
	t.Helper()
	resetShared := func() {
		shared.mu.Lock()
		defer shared.mu.Unlock()
		shared.ctx, shared.err, shared.created = nil, nil, false
		shared.rate, shared.channels = 0, 0
	}
	resetShared()

	created := 0
	orig := newOtoContext
	newOtoContext = func(op *oto.NewContextOptions) (*oto.Context, error) {
		created++
		assert.Equal(t, oto.FormatSignedInt16LE, op.Format)
		return nil, createErr
	}
	t.Cleanup(func() {
		newOtoContext = orig
		resetShared()
	})
	return &created
}

func newFakeOto() (*Oto, *[]*fakePlayer) {
	var players []*fakePlayer
	o := NewOto()
	o.newPlayer = func(_ *oto.Context, r *renderer) player {
		p := &fakePlayer{r: r}
		players = append(players, p)
		return p
	}
	return o, &players
}

func TestOtoStartReplacesPlayer(t *testing.T) {
	created := fakeOto(t, nil)
	o, players := newFakeOto()

	buf := testBuffer(t, []float64{0.1, 0.2, 0.3, 0.4}, []float64{0, 0, 0, 1})
	require.NoError(t, o.Start(buf, 1, 0.5))
	require.NoError(t, o.Start(buf, 3, 0.5))

	require.Len(t, *players, 2)
	first, second := (*players)[0], (*players)[1]
	assert.True(t, first.closed)
	assert.False(t, first.playing)
	assert.True(t, second.playing)
	assert.Equal(t, 3, second.r.Frame())
	assert.Equal(t, 2, second.r.channels)
	assert.Equal(t, 1, *created)

	require.NoError(t, o.Stop())
	assert.True(t, second.closed)
	require.NoError(t, o.Stop())

	require.NoError(t, o.Close())
	assert.ErrorIs(t, o.Start(buf, 0, 1), ErrClosed)
}

func TestOtoRefusesDifferentLayout(t *testing.T) {
	fakeOto(t, nil)
	o, players := newFakeOto()

	stereo := testBuffer(t, []float64{0.5}, []float64{0.5})
	require.NoError(t, o.Start(stereo, 0, 1))

	mono := testBuffer(t, []float64{0.5})
	err := o.Start(mono, 0, 1)
	assert.ErrorIs(t, err, ErrLayoutMismatch)

	// The refused start leaves the current player running.
	require.Len(t, *players, 1)
	assert.True(t, (*players)[0].playing)
}

func TestOtoContextErrorIsSticky(t *testing.T) {
	boom := errors.New("no audio device")
	created := fakeOto(t, boom)
	o, players := newFakeOto()

	buf := testBuffer(t, []float64{0.5})
	assert.ErrorIs(t, o.Start(buf, 0, 1), boom)
	assert.ErrorIs(t, o.Start(buf, 0, 1), boom)
	assert.Equal(t, 1, *created)
	assert.Empty(t, *players)
}
