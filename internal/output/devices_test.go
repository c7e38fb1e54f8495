package output

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/gordonklaus/portaudio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeDevices(t *testing.T) []*portaudio.DeviceInfo {
	t.Helper()
	host := &portaudio.HostApiInfo{Name: "ALSA"}
	devices := []*portaudio.DeviceInfo{
		{Index: 0, Name: "Built-in Microphone", MaxInputChannels: 2, DefaultSampleRate: 48000, HostApi: host},
		{Index: 1, Name: "Built-in Output", MaxOutputChannels: 2, DefaultSampleRate: 44100,
			DefaultLowOutputLatency: 5 * time.Millisecond, DefaultHighOutputLatency: 20 * time.Millisecond, HostApi: host},
		{Index: 2, Name: "USB Interface", MaxInputChannels: 4, MaxOutputChannels: 4, DefaultSampleRate: 96000},
	}

	origDevices, origDefault := paDevicesFunc, paDefaultOutputFunc
	t.Cleanup(func() {
		paDevicesFunc, paDefaultOutputFunc = origDevices, origDefault
	})
	paDevicesFunc = func() ([]*portaudio.DeviceInfo, error) { return devices, nil }
	paDefaultOutputFunc = func() (*portaudio.DeviceInfo, error) { return devices[1], nil }
	return devices
}

func TestHostDevices(t *testing.T) {
	fakeDevices(t)

	devices, err := HostDevices()
	require.NoError(t, err)
	require.Len(t, devices, 3)

	for i, d := range devices {
		assert.Equal(t, i, d.ID)
	}
	assert.Equal(t, "Input", devices[0].Kind())
	assert.Equal(t, "Output", devices[1].Kind())
	assert.Equal(t, "Input/Output", devices[2].Kind())
	assert.False(t, devices[0].IsOutput())
	assert.Equal(t, "ALSA", devices[1].HostAPI)
	assert.Empty(t, devices[2].HostAPI)
	assert.Equal(t, 5*time.Millisecond, devices[1].LowLatency)
}

func TestHostDevicesError(t *testing.T) {
	orig := paDevicesFunc
	defer func() { paDevicesFunc = orig }()
	paDevicesFunc = func() ([]*portaudio.DeviceInfo, error) {
		return nil, errors.New("mock error")
	}

	_, err := HostDevices()
	assert.EqualError(t, err, "mock error")
	assert.Error(t, ListDevices(&bytes.Buffer{}))
}

func TestOutputDevice(t *testing.T) {
	devices := fakeDevices(t)

	dev, err := OutputDevice(-1)
	require.NoError(t, err)
	assert.Same(t, devices[1], dev)

	dev, err = OutputDevice(2)
	require.NoError(t, err)
	assert.Equal(t, "USB Interface", dev.Name)

	tests := []struct {
		name string
		id   int
		want error
	}{
		{"Negative ID", -2, ErrInvalidDevice},
		{"Too high ID", len(devices) + 10, ErrInvalidDevice},
		{"Input only", 0, ErrNotOutput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := OutputDevice(tt.id)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestOutputDeviceDefaultError(t *testing.T) {
	fakeDevices(t)
	paDefaultOutputFunc = func() (*portaudio.DeviceInfo, error) {
		return nil, errors.New("no default")
	}

	_, err := OutputDevice(-1)
	assert.ErrorContains(t, err, "no default")
}

func TestListDevices(t *testing.T) {
	fakeDevices(t)

	var out bytes.Buffer
	require.NoError(t, ListDevices(&out))

	text := out.String()
	assert.Contains(t, text, "Available Audio Devices")
	assert.Contains(t, text, "[1] Built-in Output (Output)")
	assert.Contains(t, text, "Latency: Low=5.00ms, High=20.00ms")
	assert.Contains(t, text, "[2] USB Interface (Input/Output)")
}
