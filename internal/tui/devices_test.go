package tui

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"soundscope/internal/output"
)

var testDevices = []output.Device{
	{ID: 0, Name: "Mic", MaxInputChannels: 1, DefaultSampleRate: 48000},
	{ID: 1, Name: "Speakers", MaxOutputChannels: 2, DefaultSampleRate: 44100, HostAPI: "ALSA"},
	{ID: 2, Name: "Interface", MaxInputChannels: 2, MaxOutputChannels: 2, DefaultSampleRate: 96000},
}

func readyModel(t *testing.T) DeviceListModel {
	t.Helper()
	m := NewDeviceListModel()
	m.fetch = func() ([]output.Device, error) { return testDevices, nil }

	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 30})
	msg := next.(DeviceListModel).Init()()
	next, _ = next.Update(msg)
	return next.(DeviceListModel)
}

func update(m DeviceListModel, msg tea.Msg) DeviceListModel {
	next, _ := m.Update(msg)
	return next.(DeviceListModel)
}

func TestDeviceListNavigation(t *testing.T) {
	m := readyModel(t)
	require.Len(t, m.devices, 3)
	assert.Contains(t, m.View(), "[1] Speakers (Output)")

	m = update(m, tea.KeyMsg{Type: tea.KeyUp})
	sel, ok := m.Selected()
	require.True(t, ok)
	assert.Equal(t, 0, sel.ID)

	m = update(m, tea.KeyMsg{Type: tea.KeyDown})
	m = update(m, tea.KeyMsg{Type: tea.KeyDown})
	m = update(m, tea.KeyMsg{Type: tea.KeyDown})
	sel, _ = m.Selected()
	assert.Equal(t, 2, sel.ID)

	m = update(m, tea.KeyMsg{Type: tea.KeyUp})
	m = update(m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, DetailScreen, m.activeScreen)
	assert.Contains(t, m.View(), "--device 1")
	assert.Contains(t, m.View(), "ALSA")

	m = update(m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, ListScreen, m.activeScreen)
}

func TestDeviceListOutputOnly(t *testing.T) {
	m := readyModel(t)

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("o")})
	require.NotNil(t, cmd)
	m = update(next.(DeviceListModel), m.Init()())

	require.Len(t, m.devices, 2)
	for _, d := range m.devices {
		assert.True(t, d.IsOutput())
	}
	assert.NotContains(t, m.View(), "Mic")
}

func TestDeviceListError(t *testing.T) {
	m := NewDeviceListModel()
	m.fetch = func() ([]output.Device, error) { return nil, errors.New("no portaudio") }

	m = update(m, tea.WindowSizeMsg{Width: 80, Height: 30})
	m = update(m, m.Init()())
	assert.Contains(t, m.View(), "Error: no portaudio")
}

func TestDeviceListEmpty(t *testing.T) {
	m := NewDeviceListModel()
	assert.Equal(t, "Initializing...", m.View())

	m.fetch = func() ([]output.Device, error) { return nil, nil }
	m = update(m, tea.WindowSizeMsg{Width: 80, Height: 30})
	m = update(m, m.Init()())
	assert.Contains(t, m.View(), "No audio devices found.")

	_, ok := m.Selected()
	assert.False(t, ok)
}
