package output

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"soundscope/internal/config"
	"soundscope/internal/playback"
)

func TestNewBackends(t *testing.T) {
	cfg := config.Default().Playback

	cfg.Backend = config.BackendNone
	out, err := New(cfg)
	require.NoError(t, err)
	assert.Equal(t, playback.NullOutput{}, out)

	cfg.Backend = config.BackendOto
	out, err = New(cfg)
	require.NoError(t, err)
	assert.IsType(t, &Oto{}, out)

	cfg.Backend = "alsa"
	_, err = New(cfg)
	assert.ErrorContains(t, err, `unknown output backend "alsa"`)
}
