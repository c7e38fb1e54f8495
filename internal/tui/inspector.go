// Package tui holds the bubbletea front ends: the file inspector and the
// output device browser.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"soundscope/internal/audio"
	"soundscope/internal/buffer"
	"soundscope/internal/notify"
	"soundscope/internal/playback"
)

const (
	seekStep   = 0.05
	volumeStep = 0.1
	peakCount  = 3
	sinkSize   = 64
)

type eventMsg notify.Event

// peaksMsg carries a spectrum summary computed off the event loop.
type peaksMsg struct {
	seq  int
	text string
	err  error
}

// InspectorModel shows one loaded file and drives its playback.
type InspectorModel struct {
	engine *audio.Engine
	sink   *notify.ChannelSink
	detach func()

	path     string
	info     buffer.Info
	rate     int
	layout   string
	duration float64
	stats    []buffer.ChannelStats

	progress progress.Model
	state    playback.State
	pos      playback.Progress
	peaks    string
	peaksSeq int
	err      error
	quitting bool
}

// NewInspector subscribes to the engine's transport. The engine must already
// hold a buffer; Close releases the subscription.
func NewInspector(e *audio.Engine, path string) (*InspectorModel, error) {
	buf, err := e.Buffer()
	if err != nil {
		return nil, err
	}
	stats, err := e.Stats()
	if err != nil {
		return nil, err
	}

	sink := notify.NewChannelSink(sinkSize)
	m := &InspectorModel{
		engine:   e,
		sink:     sink,
		detach:   notify.Attach(e.Transport(), sink),
		path:     path,
		info:     buf.Info(),
		rate:     buf.SampleRate(),
		layout:   buf.Layout(),
		duration: buf.Seconds(),
		stats:    stats,
		progress: progress.New(
			progress.WithScaledGradient("#25A065", "#FFFDF5"),
			progress.WithoutPercentage(),
		),
		state: e.State(),
		pos:   e.Progress(),
	}
	return m, nil
}

// Close detaches from the transport and closes the event channel.
func (m *InspectorModel) Close() {
	m.detach()
	m.sink.Close()
}

func (m *InspectorModel) Init() tea.Cmd {
	return m.waitForEvent()
}

func (m *InspectorModel) waitForEvent() tea.Cmd {
	ch := m.sink.C()
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return eventMsg(ev)
	}
}

func (m *InspectorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		switch msg.Kind {
		case notify.KindTick:
			m.pos = msg.Progress
		case notify.KindState:
			m.state = msg.State
		}
		return m, m.waitForEvent()

	case peaksMsg:
		if msg.seq != m.peaksSeq {
			return m, nil
		}
		m.peaks, m.err = msg.text, msg.err
		return m, nil

	case tea.WindowSizeMsg:
		m.progress.Width = min(max(msg.Width-20, 20), 80)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *InspectorModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var err error
	switch {
	case key.Matches(msg, keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, keys.Toggle):
		err = m.engine.TogglePause()
	case key.Matches(msg, keys.Stop):
		err = m.engine.Stop()
	case key.Matches(msg, keys.Back):
		err = m.engine.Seek(m.fraction() - seekStep)
	case key.Matches(msg, keys.Forward):
		err = m.engine.Seek(m.fraction() + seekStep)
	case key.Matches(msg, keys.DragBack):
		err = m.drag(-seekStep)
	case key.Matches(msg, keys.DragAhead):
		err = m.drag(seekStep)
	case key.Matches(msg, keys.Release):
		err = m.engine.EndSeek()
	case key.Matches(msg, keys.Louder):
		err = m.engine.SetVolume(m.engine.State().Volume + volumeStep)
	case key.Matches(msg, keys.Quieter):
		err = m.engine.SetVolume(m.engine.State().Volume - volumeStep)
	case key.Matches(msg, keys.Channel):
		ch := int(msg.Runes[0] - '1')
		m.peaksSeq++
		m.peaks = fmt.Sprintf("ch %d: computing spectrum...", ch+1)
		m.err = nil
		return m, m.computePeaks(ch)
	default:
		return m, nil
	}

	m.err = err
	m.state = m.engine.State()
	m.pos = m.engine.Progress()
	return m, nil
}

// drag takes the drag lock if needed and moves the cursor by delta.
func (m *InspectorModel) drag(delta float64) error {
	if !m.engine.State().Dragging {
		if err := m.engine.BeginSeek(); err != nil {
			return err
		}
	}
	return m.engine.Seek(m.fraction() + delta)
}

func (m *InspectorModel) fraction() float64 {
	p := m.engine.Progress()
	if p.TotalFrames == 0 {
		return 0
	}
	return float64(p.Cursor) / float64(p.TotalFrames)
}

// computePeaks runs the full-channel FFT in a command so long files do not
// stall key handling and ticks. Only the newest request is shown.
func (m *InspectorModel) computePeaks(ch int) tea.Cmd {
	e, seq := m.engine, m.peaksSeq
	return func() tea.Msg {
		text, err := channelPeaks(e, ch)
		return peaksMsg{seq: seq, text: text, err: err}
	}
}

func channelPeaks(e *audio.Engine, ch int) (string, error) {
	s, err := e.ComputeSpectrum(ch)
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "ch %d peaks:", ch+1)
	for _, b := range s.Top(peakCount) {
		fmt.Fprintf(&sb, "  %.1f Hz (%.3g)", b.Frequency, b.Magnitude)
	}
	return sb.String(), nil
}

func (m *InspectorModel) View() string {
	if m.quitting {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(titleStyle.Render("soundscope") + "  " + infoStyle.Render(m.path) + "\n\n")
	fmt.Fprintf(&sb, "%s • %d Hz • %s • %s • %s\n\n",
		m.info.Format, m.rate, m.info.BitDepth, m.layout, clock(m.duration))

	for _, s := range m.stats {
		sb.WriteString(dimStyle.Render(fmt.Sprintf(
			"ch %d  min %+.3f  max %+.3f  mean %+.4f  rms %.4f", s.Channel+1, s.Min, s.Max, s.Mean, s.RMS)) + "\n")
	}
	sb.WriteString("\n")

	status := m.state.Status.String()
	if m.state.Dragging {
		status += " (dragging)"
	}
	sb.WriteString(m.progress.ViewAs(m.pos.Percent/100) + "\n")
	fmt.Fprintf(&sb, "%s / %s  %s  vol %.0f%%\n",
		clock(m.pos.Elapsed), clock(m.duration), highlightStyle.Render(status), m.state.Volume*100)

	if m.peaks != "" {
		sb.WriteString("\n" + m.peaks + "\n")
	}
	if m.err != nil {
		sb.WriteString("\n" + errorStyle.Render("error: "+m.err.Error()) + "\n")
	}
	sb.WriteString("\n" + dimStyle.Render(keys.help()) + "\n")
	return sb.String()
}

// RunInspector opens the inspector for the engine's loaded file and blocks
// until the user quits.
func RunInspector(e *audio.Engine, path string) error {
	m, err := NewInspector(e, path)
	if err != nil {
		return err
	}
	defer m.Close()

	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
