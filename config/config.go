package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// SequencerConfig holds pattern and playback defaults
type SequencerConfig struct {
	Steps       int    `json:"steps"` // 16 or 32
	DefaultBPM  int    `json:"defaultBpm"`
	PatternsDir string `json:"patternsDir"`
	SamplesDir  string `json:"samplesDir"`
	Kit         string `json:"kit"`
}

// InputConfig holds button gesture timings
type InputConfig struct {
	DoubleClickMs int `json:"doubleClickMs"`
	HoldMs        int `json:"holdMs"`
	LongHoldMs    int `json:"longHoldMs"`
	LockHoldMs    int `json:"lockHoldMs"`
	DebounceMs    int `json:"debounceMs"`
}

// ViewConfig holds overlay timeouts
type ViewConfig struct {
	TimeoutMs     int `json:"timeoutMs"`
	InactivityMs  int `json:"inactivityMs"`
	AnimationMs   int `json:"animationMs"`
	PatternViewMs int `json:"patternViewMs"`
	SaveViewMs    int `json:"saveViewMs"`
}

// LoopConfig holds main loop rates
type LoopConfig struct {
	FPS        int `json:"fps"`
	PotDivider int `json:"potDivider"` // read pots every N frames
}

// LEDPins are the BCM pins of the status LEDs
type LEDPins struct {
	Red    int `json:"red"`    // pad mode
	Green  int `json:"green"`  // sequencer mode
	Yellow int `json:"yellow"` // playing
	Blue   int `json:"blue"`   // beat
	White  int `json:"white"`  // saved
}

// HardwareConfig holds GPIO and SPI wiring
type HardwareConfig struct {
	ButtonRows       []int   `json:"buttonRows"`
	ButtonCols       []int   `json:"buttonCols"`
	LEDs             LEDPins `json:"leds"`
	MatrixModules    int     `json:"matrixModules"`
	MatrixBrightness int     `json:"matrixBrightness"` // 0-15
	MatrixCS         int     `json:"matrixCs"`
	ADCCS            int     `json:"adcCs"`
}

// MIDIConfig holds MIDI output and controller options
type MIDIConfig struct {
	Output    string `json:"output,omitempty"` // empty disables MIDI out
	Channel   int    `json:"channel"`          // 1-16
	Launchpad bool   `json:"launchpad"`
}

// UIConfig stores terminal UI preferences
type UIConfig struct {
	Palette string `json:"palette,omitempty"` // GIMP .gpl file
}

// Config is the main configuration structure
type Config struct {
	Sequencer SequencerConfig `json:"sequencer"`
	Input     InputConfig     `json:"input"`
	View      ViewConfig      `json:"view"`
	Loop      LoopConfig      `json:"loop"`
	Hardware  HardwareConfig  `json:"hardware"`
	MIDI      MIDIConfig      `json:"midi"`
	UI        UIConfig        `json:"ui,omitempty"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Sequencer: SequencerConfig{
			Steps:       32,
			DefaultBPM:  120,
			PatternsDir: "patterns",
			SamplesDir:  "samples",
			Kit:         "gm",
		},
		Input: InputConfig{
			DoubleClickMs: 300,
			HoldMs:        800,
			LongHoldMs:    3000,
			LockHoldMs:    2000,
			DebounceMs:    20,
		},
		View: ViewConfig{
			TimeoutMs:     2000,
			InactivityMs:  3000,
			AnimationMs:   200,
			PatternViewMs: 2000,
			SaveViewMs:    1500,
		},
		Loop: LoopConfig{
			FPS:        60,
			PotDivider: 5,
		},
		Hardware: HardwareConfig{
			ButtonRows: []int{17, 27, 22, 23},
			ButtonCols: []int{24, 25, 5, 6},
			LEDs: LEDPins{
				Red:    12,
				Green:  16,
				Yellow: 20,
				Blue:   21,
				White:  26,
			},
			MatrixModules:    4,
			MatrixBrightness: 3,
			MatrixCS:         0,
			ADCCS:            1,
		},
		MIDI: MIDIConfig{
			Channel: 10,
		},
	}
}

// Sanitize clamps values into usable ranges, falling back to defaults
func (c *Config) Sanitize() {
	def := DefaultConfig()

	if c.Sequencer.Steps != 16 && c.Sequencer.Steps != 32 {
		c.Sequencer.Steps = def.Sequencer.Steps
	}
	c.Sequencer.DefaultBPM = clamp(c.Sequencer.DefaultBPM, 60, 200)
	if c.Sequencer.PatternsDir == "" {
		c.Sequencer.PatternsDir = def.Sequencer.PatternsDir
	}
	if c.Sequencer.SamplesDir == "" {
		c.Sequencer.SamplesDir = def.Sequencer.SamplesDir
	}
	if c.Sequencer.Kit == "" {
		c.Sequencer.Kit = def.Sequencer.Kit
	}

	positive(&c.Input.DoubleClickMs, def.Input.DoubleClickMs)
	positive(&c.Input.HoldMs, def.Input.HoldMs)
	positive(&c.Input.LongHoldMs, def.Input.LongHoldMs)
	positive(&c.Input.LockHoldMs, def.Input.LockHoldMs)
	if c.Input.DebounceMs < 0 {
		c.Input.DebounceMs = def.Input.DebounceMs
	}

	positive(&c.View.TimeoutMs, def.View.TimeoutMs)
	positive(&c.View.InactivityMs, def.View.InactivityMs)
	positive(&c.View.AnimationMs, def.View.AnimationMs)
	positive(&c.View.PatternViewMs, def.View.PatternViewMs)
	positive(&c.View.SaveViewMs, def.View.SaveViewMs)

	c.Loop.FPS = clamp(c.Loop.FPS, 1, 240)
	positive(&c.Loop.PotDivider, def.Loop.PotDivider)

	if len(c.Hardware.ButtonRows) != 4 || len(c.Hardware.ButtonCols) != 4 {
		c.Hardware.ButtonRows = def.Hardware.ButtonRows
		c.Hardware.ButtonCols = def.Hardware.ButtonCols
	}
	positive(&c.Hardware.MatrixModules, def.Hardware.MatrixModules)
	c.Hardware.MatrixBrightness = clamp(c.Hardware.MatrixBrightness, 0, 15)

	c.MIDI.Channel = clamp(c.MIDI.Channel, 1, 16)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func positive(v *int, fallback int) {
	if *v <= 0 {
		*v = fallback
	}
}

// Ms converts a millisecond setting to a duration
func Ms(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}

// ConfigDir returns the config directory path
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "go-drum"), nil
}

// ConfigPath returns the full path to config.json
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config from path (ConfigPath when empty), or returns
// defaults if not found
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := ConfigPath()
		if err != nil {
			return DefaultConfig(), nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	// Unmarshal over defaults so partial files keep the rest
	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	cfg.Sanitize()

	return cfg, nil
}

// Save writes the config to path (ConfigPath when empty)
func (c *Config) Save(path string) error {
	if path == "" {
		p, err := ConfigPath()
		if err != nil {
			return err
		}
		path = p
	}

	// Create directory if it doesn't exist
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
