package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"go-drum/audio"
	"go-drum/config"
	"go-drum/debug"
	"go-drum/display"
	"go-drum/hardware"
	"go-drum/machine"
	"go-drum/midi"
	"go-drum/sequencer"
	"go-drum/theme"
	"go-drum/tui"
)

// Surfaces the machine can run on
const (
	surfaceGPIO      = "gpio"
	surfaceLaunchpad = "launchpad"
	surfaceTUI       = "tui"
)

// tapLength is how long a terminal key press holds its button down
const tapLength = 120 * time.Millisecond

var (
	configPath string
	surface    string
	debugPath  string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "go-drum",
	Short: "Eight-voice drum machine and step sequencer",
	Long: `go-drum runs a 16/32-step, 8-instrument drum sequencer with swing,
tap tempo and eight pattern slots.

Surfaces:
  gpio       Raspberry Pi panel (button matrix, pots, MAX7219, status LEDs)
  launchpad  Launchpad X bottom rows as buttons, terminal for the rest
  tui        everything in the terminal

Examples:
  go-drum --surface tui
  go-drum --config ./drum.json --debug
  go-drum ports`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return errors.Wrap(err, "loading config")
		}
		if !cmd.Flags().Changed("surface") && cfg.MIDI.Launchpad {
			surface = surfaceLaunchpad
		}

		if cmd.Flags().Changed("debug") {
			if err := debug.Enable(debugPath); err != nil {
				return errors.Wrap(err, "enabling debug log")
			}
			defer debug.Disable()
		}

		return run(cfg, surface)
	},
}

var portsCmd = &cobra.Command{
	Use:   "ports",
	Short: "List MIDI ports",
	RunE: func(cmd *cobra.Command, args []string) error {
		ports, err := midi.ListPorts()
		if err != nil {
			return err
		}
		fmt.Println("=== MIDI Input Ports ===")
		for i, p := range ports.Ins {
			fmt.Printf("  %d: %s\n", i, p.String())
		}
		fmt.Println("\n=== MIDI Output Ports ===")
		for i, p := range ports.Outs {
			fmt.Printf("  %d: %s\n", i, p.String())
		}
		return nil
	},
}

var kitsCmd = &cobra.Command{
	Use:   "kits",
	Short: "List MIDI drum kits",
	Run: func(cmd *cobra.Command, args []string) {
		for _, name := range midi.KitNames() {
			kit := midi.GetKit(name)
			fmt.Printf("  %-6s %v\n", kit.Name, kit.Notes)
		}
	},
}

func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "config file (default ~/.config/go-drum/config.json)")
	rootCmd.Flags().StringVarP(&surface, "surface", "s", surfaceGPIO, "control surface: gpio, launchpad or tui")
	rootCmd.Flags().StringVar(&debugPath, "debug", "", "write a debug log (default ~/.config/go-drum/debug.log)")
	rootCmd.Flags().Lookup("debug").NoOptDefVal = debug.DefaultPath()

	rootCmd.AddCommand(portsCmd)
	rootCmd.AddCommand(kitsCmd)
}

// engine is everything that makes sound, shared by all surfaces
type engine struct {
	seq     *sequencer.Sequencer
	players sequencer.Players
	audio   *audio.Player
	midi    *midi.Output
}

func openEngine(cfg *config.Config) *engine {
	e := &engine{}

	if p, err := audio.Open(cfg.Sequencer.SamplesDir); err != nil {
		debug.Error("main", err, "audio disabled")
		fmt.Fprintf(os.Stderr, "audio disabled: %v\n", err)
	} else {
		e.audio = p
		e.players = append(e.players, p)
	}

	if cfg.MIDI.Output != "" {
		out, err := midi.Open(cfg.MIDI.Output, cfg.MIDI.Channel, midi.GetKit(cfg.Sequencer.Kit))
		if err != nil {
			debug.Error("main", err, "midi output disabled")
			fmt.Fprintf(os.Stderr, "midi output disabled: %v\n", err)
		} else {
			e.midi = out
			e.players = append(e.players, out)
		}
	}

	e.seq = sequencer.New(cfg.Sequencer.Steps, e.players, sequencer.NewFileStore(cfg.Sequencer.PatternsDir))
	e.seq.SetBPM(cfg.Sequencer.DefaultBPM)
	return e
}

// options fills in the engine side of the machine's collaborators
func (e *engine) options() machine.Options {
	opts := machine.Options{Player: e.players}
	if e.audio != nil {
		opts.Mixer = e.audio
	}
	if e.midi != nil {
		opts.Transport = e.midi
	}
	return opts
}

func (e *engine) Close() {
	e.seq.Close()
	if e.midi != nil {
		e.midi.Close()
	}
	if e.audio != nil {
		e.audio.Close()
	}
}

func run(cfg *config.Config, surface string) error {
	e := openEngine(cfg)
	defer e.Close()

	switch surface {
	case surfaceGPIO:
		return runGPIO(cfg, e)
	case surfaceLaunchpad:
		return runLaunchpad(cfg, e)
	case surfaceTUI:
		return runTerminal(cfg, e, nil)
	}
	return errors.Errorf("unknown surface %q", surface)
}

func runGPIO(cfg *config.Config, e *engine) error {
	bus, err := hardware.Open()
	if err != nil {
		return err
	}
	defer bus.Close()

	hw := cfg.Hardware
	buttons, err := hardware.NewButtonMatrix(bus, hw.ButtonRows, hw.ButtonCols, config.Ms(cfg.Input.DebounceMs))
	if err != nil {
		return err
	}
	defer buttons.Close()

	matrix, err := hardware.NewLEDMatrix(bus, hw.MatrixCS, hw.MatrixModules, hw.MatrixBrightness)
	if err != nil {
		return err
	}
	defer matrix.Close()

	leds := hardware.NewStatusLEDs(bus, hw.LEDs)
	defer leds.Close()

	opts := e.options()
	opts.Scanner = buttons
	opts.Pots = hardware.NewADC(bus, hw.ADCCS)
	opts.Display = matrix
	opts.Indicators = leds

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Println("go-drum running on the panel, ctrl+c to quit")
	return machine.New(cfg, e.seq, opts, time.Now()).Run(ctx)
}

func runLaunchpad(cfg *config.Config, e *engine) error {
	ports, err := midi.ListPorts()
	if err != nil {
		return err
	}
	lp, err := midi.OpenLaunchpad(ports.FindLaunchpad())
	if err != nil {
		return err
	}
	defer lp.Close()

	return runTerminal(cfg, e, lp)
}

// runTerminal runs the machine behind the terminal panel. A non-nil
// Launchpad takes over the buttons.
func runTerminal(cfg *config.Config, e *engine, lp *midi.Launchpad) error {
	th := theme.New(nil)
	if cfg.UI.Palette != "" {
		p, err := theme.LoadGPL(cfg.UI.Palette)
		if err != nil {
			return err
		}
		th = theme.New(p)
	}

	panel := tui.NewPanel(tapLength, e.seq.BPM())
	canvas := display.NewCanvas()

	opts := e.options()
	opts.Scanner = panel
	opts.Pots = panel
	opts.Display = canvas
	opts.Indicators = panel
	if lp != nil {
		opts.Scanner = lp
		opts.Pads = lp
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- machine.New(cfg, e.seq, opts, time.Now()).Run(ctx)
	}()

	_, err := tea.NewProgram(tui.NewModel(panel, canvas, e.seq, th), tea.WithAltScreen()).Run()
	cancel()
	if runErr := <-done; err == nil {
		err = runErr
	}
	return err
}
