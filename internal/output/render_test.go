package output

import (
	"encoding/binary"
	"io"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"soundscope/internal/buffer"
)

func testBuffer(t *testing.T, channels ...[]float64) *buffer.SampleBuffer {
	t.Helper()
	buf, err := buffer.Load(channels, 8000)
	require.NoError(t, err)
	return buf
}

func TestRenderFloat32Interleaves(t *testing.T) {
	buf := testBuffer(t, []float64{1, 0.5, 0}, []float64{-1, -0.5, 0.25})
	r := newRenderer(buf, 0, 1, 2)

	out := make([]float32, 8)
	n := r.renderFloat32(out)

	assert.Equal(t, 3, n)
	assert.Equal(t, []float32{1, -1, 0.5, -0.5, 0, 0.25, 0, 0}, out)
	assert.Equal(t, 3, r.Frame())
	assert.True(t, r.done())

	// Past the end only silence comes out.
	for i := range out {
		out[i] = 9
	}
	assert.Zero(t, r.renderFloat32(out))
	assert.Equal(t, make([]float32, 8), out)
}

func TestRenderMonoToStereo(t *testing.T) {
	buf := testBuffer(t, []float64{1, -1})
	r := newRenderer(buf, 0, 0.5, 2)

	out := make([]float32, 4)
	r.renderFloat32(out)
	assert.Equal(t, []float32{0.5, 0.5, -0.5, -0.5}, out)
}

func TestRenderStartsAtFrame(t *testing.T) {
	buf := testBuffer(t, []float64{0.1, 0.2, 0.3, 1})
	r := newRenderer(buf, 2, 1, 1)

	out := make([]float32, 4)
	assert.Equal(t, 2, r.renderFloat32(out))
	assert.InDeltaSlice(t, []float32{0.3, 1, 0, 0}, out, 1e-6)

	assert.Equal(t, 4, newRenderer(buf, 99, 1, 1).Frame())
	assert.Equal(t, 0, newRenderer(buf, -3, 1, 1).Frame())
}

func TestRenderVolumeClamped(t *testing.T) {
	buf := testBuffer(t, []float64{1})

	out := make([]float32, 1)
	newRenderer(buf, 0, 4, 1).renderFloat32(out)
	assert.Equal(t, float32(1), out[0])

	newRenderer(buf, 0, -1, 1).renderFloat32(out)
	assert.Equal(t, float32(0), out[0])
}

func TestReadSigned16(t *testing.T) {
	buf := testBuffer(t, []float64{1, -1, 0.5}, []float64{0, 0.25, -0.5})
	r := newRenderer(buf, 0, 1, 2)

	p := make([]byte, 64)
	n, err := r.Read(p)
	require.NoError(t, err)
	require.Equal(t, 12, n)

	got := make([]int16, n/2)
	for i := range got {
		got[i] = int16(binary.LittleEndian.Uint16(p[2*i:]))
	}
	assert.Equal(t, []int16{math.MaxInt16, 0, math.MinInt16, 8192, 16384, -16384}, got)

	n, err = r.Read(p)
	assert.Zero(t, n)
	assert.ErrorIs(t, err, io.EOF)
}

func TestReadPartialFrames(t *testing.T) {
	buf := testBuffer(t, []float64{0.1, 0.2, 0.3}, []float64{0.1, 0.2, 0.3})
	r := newRenderer(buf, 0, 1, 2)

	_, err := r.Read(make([]byte, 3))
	assert.ErrorIs(t, err, io.ErrShortBuffer)

	// 7 bytes hold one whole stereo frame.
	n, err := r.Read(make([]byte, 7))
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, 1, r.Frame())

	all, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Len(t, all, 8)
}
