package audio

import (
	"math"
	"testing"

	"github.com/faiface/beep"
)

func silentBuffer(n int) *beep.Buffer {
	buf := beep.NewBuffer(Format)
	buf.Append(beep.Silence(n))
	return buf
}

func TestPlaySample(t *testing.T) {
	var played []beep.Streamer
	p := NewPlayer(func(s ...beep.Streamer) { played = append(played, s...) })
	p.SetSample(0, silentBuffer(64))

	p.PlaySample(0)
	p.PlaySample(1)  // no sample loaded
	p.PlaySample(-1) // out of range
	p.PlaySample(99)

	if len(played) != 1 {
		t.Fatalf("played %d streamers, want 1", len(played))
	}

	samples := make([][2]float64, 128)
	n, _ := played[0].Stream(samples)
	if n != 64 {
		t.Errorf("streamed %d samples, want 64", n)
	}
}

func TestPlaySampleSilentAtZeroGain(t *testing.T) {
	count := 0
	p := NewPlayer(func(...beep.Streamer) { count++ })
	p.SetSample(2, silentBuffer(8))

	p.SetInstrumentVolume(2, 0)
	p.PlaySample(2)
	p.SetInstrumentVolume(2, 1)
	p.SetMasterVolume(0)
	p.PlaySample(2)

	if count != 0 {
		t.Errorf("played %d times at zero gain", count)
	}
}

func TestGain(t *testing.T) {
	tests := []struct {
		name       string
		master     float64
		instrument float64
		wantExp    float64
		wantSilent bool
	}{
		{"full", 1, 1, 0, false},
		{"half", 0.5, 1, -1, false},
		{"quarter", 0.5, 0.5, -2, false},
		{"muted", 0, 1, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exp, silent := gain(tt.master, tt.instrument)
			if silent != tt.wantSilent || math.Abs(exp-tt.wantExp) > 1e-9 {
				t.Errorf("gain(%v, %v) = %v, %v; want %v, %v", tt.master, tt.instrument, exp, silent, tt.wantExp, tt.wantSilent)
			}
		})
	}
}

func TestVolumesClamp(t *testing.T) {
	p := NewPlayer(nil)
	p.SetMasterVolume(1.7)
	p.SetInstrumentVolume(3, -0.2)

	if p.MasterVolume() != 1 {
		t.Errorf("MasterVolume() = %v", p.MasterVolume())
	}
	if p.InstrumentVolume(3) != 0 {
		t.Errorf("InstrumentVolume(3) = %v", p.InstrumentVolume(3))
	}
	if p.InstrumentVolume(4) != 1 {
		t.Errorf("default instrument volume = %v", p.InstrumentVolume(4))
	}
}

func TestLoadDirMissing(t *testing.T) {
	p := NewPlayer(nil)
	if n := p.LoadDir(t.TempDir()); n != 0 {
		t.Errorf("LoadDir(empty) = %d", n)
	}
}
