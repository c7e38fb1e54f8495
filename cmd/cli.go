// Package cmd builds the soundscope command tree.
package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"soundscope/internal/analysis"
	"soundscope/internal/audio"
	"soundscope/internal/build"
	"soundscope/internal/config"
	"soundscope/internal/log"
	"soundscope/internal/notify"
	"soundscope/internal/output"
	"soundscope/internal/playback"
	"soundscope/internal/tui"
)

const debugLogFile = "soundscope-debug.log"

// options holds the persistent flags. Only flags the user set override the
// loaded configuration.
type options struct {
	configPath string
	backend    string
	device     int
	volume     float64
	tick       time.Duration
	verbose    bool

	cfg *config.Config
}

// NewRootCommand returns the soundscope command tree.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&options{})
}

func newRootCommand(opts *options) *cobra.Command {
	buildInfo := build.Get()

	rootCmd := &cobra.Command{
		Use:           buildInfo.Name + " [file]",
		Short:         "Inspect and play audio files",
		Long:          "soundscope decodes an audio file, shows its statistics and spectra, and plays it back.",
		Version:       buildInfo.Version,
		Args:          cobra.MaximumNArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd:   true,
			DisableDescriptions: true,
			DisableNoDescFlag:   true,
			HiddenDefaultCmd:    true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return runInspector(opts.cfg, args[0])
		},
	}
	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "",
		"Path to a YAML config file (default: ./config.yaml if present)")
	flags.StringVarP(&opts.backend, "output", "o", config.DefaultBackend,
		"Output backend: portaudio, oto or none")
	flags.IntVarP(&opts.device, "device", "d", config.DefaultDeviceID,
		"PortAudio output device ID. Use 'list' command to see available devices.")
	flags.Float64Var(&opts.volume, "volume", config.DefaultVolume,
		"Initial volume in [0,1]")
	flags.DurationVar(&opts.tick, "tick", config.DefaultTickInterval,
		"Position update interval")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false,
		"Show verbose output")

	rootCmd.AddCommand(
		newInfoCommand(opts),
		newSpectrumCommand(opts),
		newExportCommand(opts),
		newListCommand(),
	)
	return rootCmd
}

// Execute runs the command tree against os.Args.
func Execute() error {
	root := NewRootCommand()
	root.SetArgs(os.Args[1:])
	return root.Execute()
}

func (o *options) load(cmd *cobra.Command) error {
	cfg, err := config.LoadConfig(o.configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("output") {
		cfg.Playback.Backend = o.backend
	}
	if flags.Changed("device") {
		cfg.Playback.Device = o.device
	}
	if flags.Changed("volume") {
		cfg.Playback.Volume = o.volume
	}
	if flags.Changed("tick") {
		cfg.Playback.TickInterval = o.tick
	}
	if o.verbose {
		cfg.Debug = true
		cfg.LogLevel = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}

	level, _ := log.ParseLevel(cfg.LogLevel)
	log.SetLevel(level)
	o.cfg = cfg
	return nil
}

// loadEngine decodes path into an engine that plays nowhere.
func loadEngine(cfg *config.Config, path string) (*audio.Engine, error) {
	e := audio.NewEngine(cfg, playback.NullOutput{}, playback.WithDirectOutput())
	if err := e.LoadFile(path); err != nil {
		return nil, err
	}
	return e, nil
}

func runInspector(cfg *config.Config, path string) error {
	out, err := output.New(cfg.Playback)
	if err != nil {
		return err
	}
	e := audio.NewEngine(cfg, out)
	defer func() {
		if err := e.Close(); err != nil {
			log.Errorf("closing engine: %v", err)
		}
	}()

	if err := e.LoadFile(path); err != nil {
		return err
	}

	// The alternate screen owns the terminal; keep log lines off it.
	restore, err := redirectLog(cfg.Debug)
	if err != nil {
		return err
	}
	defer restore()

	if cfg.Debug {
		detach := notify.Attach(e.Transport(), notify.NewLoggingSink())
		defer detach()
	}
	return tui.RunInspector(e, path)
}

func redirectLog(debug bool) (restore func(), err error) {
	if !debug {
		log.SetOutput(io.Discard)
		return func() { log.SetOutput(os.Stderr) }, nil
	}
	f, err := os.OpenFile(debugLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open debug log: %w", err)
	}
	log.SetOutput(f)
	return func() {
		log.SetOutput(os.Stderr)
		f.Close()
	}, nil
}

func newInfoCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "info <file>",
		Short: "Print format, statistics and band energies of a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEngine(opts.cfg, args[0])
			if err != nil {
				return err
			}
			return printInfo(cmd.OutOrStdout(), e, args[0])
		},
	}
}

func printInfo(w io.Writer, e *audio.Engine, path string) error {
	buf, err := e.Buffer()
	if err != nil {
		return err
	}
	info := buf.Info()
	fmt.Fprintf(w, "File:        %s\n", path)
	fmt.Fprintf(w, "Format:      %s\n", info.Format)
	fmt.Fprintf(w, "Sample rate: %d Hz\n", buf.SampleRate())
	fmt.Fprintf(w, "Bit depth:   %s\n", info.BitDepth)
	fmt.Fprintf(w, "Duration:    %.3f s (%d frames)\n", buf.Seconds(), buf.Frames())
	fmt.Fprintf(w, "Channels:    %d (%s)\n\n", buf.ChannelCount(), buf.Layout())

	stats, err := e.Stats()
	if err != nil {
		return err
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Channel", "Min", "Max", "Mean", "RMS")
	for _, s := range stats {
		t.Row(fmt.Sprint(s.Channel+1),
			fmt.Sprintf("%+.4f", s.Min), fmt.Sprintf("%+.4f", s.Max),
			fmt.Sprintf("%+.5f", s.Mean), fmt.Sprintf("%.4f", s.RMS))
	}
	fmt.Fprintln(w, t.String())

	headers := []string{"Channel"}
	for _, b := range analysis.DefaultBands {
		headers = append(headers, b.Name)
	}
	bands := table.New().Border(lipgloss.NormalBorder()).Headers(headers...)
	for ch := range buf.ChannelCount() {
		energies, err := e.BandEnergies(ch)
		if err != nil {
			return err
		}
		row := []string{fmt.Sprint(ch + 1)}
		for _, be := range energies {
			row = append(row, fmt.Sprintf("%.1f%%", be.Level*100))
		}
		bands.Row(row...)
	}
	fmt.Fprintln(w, bands.String())

	for ch := range buf.ChannelCount() {
		onsets, err := e.DetectOnsets(ch)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "Channel %d onsets: %d", ch+1, len(onsets))
		if len(onsets) > 0 {
			fmt.Fprintf(w, " (first at %.3f s)", onsets[0].Time)
		}
		fmt.Fprintln(w)
	}
	return nil
}

func newSpectrumCommand(opts *options) *cobra.Command {
	var channel, top int

	cmd := &cobra.Command{
		Use:   "spectrum <file>",
		Short: "Print the strongest frequency bins of one channel",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEngine(opts.cfg, args[0])
			if err != nil {
				return err
			}
			s, err := e.ComputeSpectrum(channel)
			if err != nil {
				return err
			}
			return printSpectrum(cmd.OutOrStdout(), s, channel, top)
		},
	}
	cmd.Flags().IntVar(&channel, "channel", 0, "Channel index (0-based)")
	cmd.Flags().IntVarP(&top, "top", "k", 10, "Number of bins to print")
	return cmd
}

func printSpectrum(w io.Writer, s analysis.Spectrum, channel, top int) error {
	if top < 1 {
		return fmt.Errorf("--top must be positive, got %d", top)
	}
	fmt.Fprintf(w, "Channel %d: %d-point spectrum, %.3f Hz per bin\n", channel, s.Size, s.Resolution())

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("#", "Frequency (Hz)", "Magnitude")
	for i, b := range s.Top(top) {
		t.Row(fmt.Sprint(i+1), fmt.Sprintf("%.2f", b.Frequency), fmt.Sprintf("%.6g", b.Magnitude))
	}
	fmt.Fprintln(w, t.String())
	return nil
}

func newExportCommand(opts *options) *cobra.Command {
	var bits int

	cmd := &cobra.Command{
		Use:   "export <file> <out.wav>",
		Short: "Write the normalized audio of a file as PCM WAV",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEngine(opts.cfg, args[0])
			if err != nil {
				return err
			}
			if err := e.ExportWAV(args[1], bits); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d-bit)\n", args[1], bits)
			return nil
		},
	}
	cmd.Flags().IntVarP(&bits, "bits", "b", 16, "Bit depth: 16, 24 or 32")
	return cmd
}

func newListCommand() *cobra.Command {
	var useTUI bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List available audio devices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if useTUI {
				return tui.StartDeviceListUI()
			}
			if err := output.Initialize(); err != nil {
				return err
			}
			defer output.Terminate()
			return output.ListDevices(cmd.OutOrStdout())
		},
	}
	cmd.Flags().BoolVarP(&useTUI, "tui", "t", false, "Browse devices interactively")
	return cmd
}
