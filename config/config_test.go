package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Sequencer.Steps != 32 {
		t.Errorf("Steps = %d, want 32", cfg.Sequencer.Steps)
	}
	if cfg.Input.HoldMs != 800 || cfg.Input.DoubleClickMs != 300 {
		t.Errorf("input timings = %+v", cfg.Input)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.json")

	cfg := DefaultConfig()
	cfg.Sequencer.Steps = 16
	cfg.MIDI.Output = "IAC Driver Bus 1"
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.Sequencer.Steps != 16 {
		t.Errorf("Steps = %d, want 16", got.Sequencer.Steps)
	}
	if got.MIDI.Output != "IAC Driver Bus 1" {
		t.Errorf("MIDI.Output = %q", got.MIDI.Output)
	}
}

func TestPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"loop":{"fps":30}}`), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Loop.FPS != 30 {
		t.Errorf("FPS = %d, want 30", cfg.Loop.FPS)
	}
	if cfg.Loop.PotDivider != 5 {
		t.Errorf("PotDivider = %d, want 5", cfg.Loop.PotDivider)
	}
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(c *Config)
		check func(c *Config) bool
	}{
		{"odd step count", func(c *Config) { c.Sequencer.Steps = 24 }, func(c *Config) bool { return c.Sequencer.Steps == 32 }},
		{"bpm too high", func(c *Config) { c.Sequencer.DefaultBPM = 999 }, func(c *Config) bool { return c.Sequencer.DefaultBPM == 200 }},
		{"zero hold", func(c *Config) { c.Input.HoldMs = 0 }, func(c *Config) bool { return c.Input.HoldMs == 800 }},
		{"midi channel", func(c *Config) { c.MIDI.Channel = 42 }, func(c *Config) bool { return c.MIDI.Channel == 16 }},
		{"short button rows", func(c *Config) { c.Hardware.ButtonRows = []int{1} }, func(c *Config) bool { return len(c.Hardware.ButtonRows) == 4 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.edit(cfg)
			cfg.Sanitize()
			if !tt.check(cfg) {
				t.Errorf("Sanitize() left %+v", cfg)
			}
		})
	}
}
