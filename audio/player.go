// Package audio plays the drum samples through the system speaker
package audio

import (
	"math"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"
	"github.com/pkg/errors"

	"go-drum/debug"
	"go-drum/sequencer"
)

// Format is the mixer format every sample is converted to
var Format = beep.Format{
	SampleRate:  44100,
	NumChannels: 2,
	Precision:   2,
}

// speakerBuffer keeps trigger latency low
const speakerBuffer = 10 * time.Millisecond

// Player holds one decoded buffer per instrument. PlaySample never blocks:
// it hands a fresh streamer to the output and returns.
type Player struct {
	out func(...beep.Streamer)

	mu      sync.RWMutex
	samples [sequencer.NumInstruments]*beep.Buffer
	master  float64
	volumes [sequencer.NumInstruments]float64
}

// NewPlayer creates a player writing to out with every volume at 100%
func NewPlayer(out func(...beep.Streamer)) *Player {
	p := &Player{out: out, master: 1}
	for i := range p.volumes {
		p.volumes[i] = 1
	}
	return p
}

// Open initialises the speaker and loads <dir>/<instrument>.wav
func Open(dir string) (*Player, error) {
	if err := speaker.Init(Format.SampleRate, Format.SampleRate.N(speakerBuffer)); err != nil {
		return nil, errors.Wrap(err, "initialising speaker")
	}

	p := NewPlayer(speaker.Play)
	loaded := p.LoadDir(dir)
	debug.Log("audio", "loaded %d/%d samples from %s", loaded, sequencer.NumInstruments, dir)
	return p, nil
}

// LoadDir loads every instrument sample it can find and returns the count.
// Missing or broken files leave that instrument silent.
func (p *Player) LoadDir(dir string) int {
	n := 0
	for i, name := range sequencer.Instruments {
		path := filepath.Join(dir, name+".wav")
		buf, err := decodeFile(path)
		if err != nil {
			debug.Error("audio", err, "sample %s", name)
			continue
		}
		p.SetSample(i, buf)
		n++
	}
	return n
}

// decodeFile reads a wav file into a buffer in the mixer format
func decodeFile(path string) (*beep.Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening sample")
	}
	defer f.Close()

	stream, format, err := wav.Decode(f)
	if err != nil {
		return nil, errors.Wrapf(err, "decoding %s", filepath.Base(path))
	}
	defer stream.Close()

	var s beep.Streamer = stream
	if format.SampleRate != Format.SampleRate {
		s = beep.Resample(4, format.SampleRate, Format.SampleRate, s)
	}

	buf := beep.NewBuffer(Format)
	buf.Append(s)
	return buf, nil
}

// SetSample replaces one instrument's buffer
func (p *Player) SetSample(instrument int, buf *beep.Buffer) {
	if instrument < 0 || instrument >= sequencer.NumInstruments {
		return
	}
	p.mu.Lock()
	p.samples[instrument] = buf
	p.mu.Unlock()
}

// PlaySample starts the instrument's sample at the current gain
func (p *Player) PlaySample(instrument int) {
	if instrument < 0 || instrument >= sequencer.NumInstruments {
		return
	}

	p.mu.RLock()
	buf := p.samples[instrument]
	level, silent := gain(p.master, p.volumes[instrument])
	p.mu.RUnlock()

	if buf == nil || silent || p.out == nil {
		return
	}

	p.out(&effects.Volume{
		Streamer: buf.Streamer(0, buf.Len()),
		Base:     2,
		Volume:   level,
	})
}

// gain converts linear master and instrument levels to the base-2
// exponent used by effects.Volume
func gain(master, instrument float64) (exponent float64, silent bool) {
	linear := master * instrument
	if linear <= 0 {
		return 0, true
	}
	return math.Log2(linear), false
}

func clampUnit(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

// SetMasterVolume sets the overall level, 0.0-1.0
func (p *Player) SetMasterVolume(v float64) {
	p.mu.Lock()
	p.master = clampUnit(v)
	p.mu.Unlock()
}

// MasterVolume returns the overall level
func (p *Player) MasterVolume() float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.master
}

// SetInstrumentVolume sets one instrument's level, 0.0-1.0
func (p *Player) SetInstrumentVolume(instrument int, v float64) {
	if instrument < 0 || instrument >= sequencer.NumInstruments {
		return
	}
	p.mu.Lock()
	p.volumes[instrument] = clampUnit(v)
	p.mu.Unlock()
}

// InstrumentVolume returns one instrument's level
func (p *Player) InstrumentVolume(instrument int) float64 {
	if instrument < 0 || instrument >= sequencer.NumInstruments {
		return 0
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.volumes[instrument]
}

// Close stops everything still sounding
func (p *Player) Close() {
	speaker.Clear()
}
