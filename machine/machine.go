// Package machine is the application controller: it turns button gestures
// and pot movements into sequencer, pattern and view changes, and runs the
// fixed-rate main loop.
package machine

import (
	"context"
	"time"

	"go-drum/config"
	"go-drum/debug"
	"go-drum/display"
	"go-drum/input"
	"go-drum/sequencer"
	"go-drum/view"
)

// Button ids on the 4x4 panel; 0-7 are the instruments
const (
	BtnPlay  = 8
	BtnMode  = 9
	BtnPrev  = 10
	BtnNext  = 11
	BtnClear = 12
	BtnSave  = 13
	BtnCopy  = 14
	BtnMute  = 15
)

// Potentiometer channels
const (
	PotScroll = iota
	PotTempo
	PotSwing
	PotMaster
	PotDrums
	PotHats
	PotToms
	PotCymbals
	numPots
)

// Thresholds a pot has to move past before it counts
const (
	tempoThreshold  = 2    // BPM
	swingThreshold  = 2    // percent
	volumeThreshold = 0.05 // linear level
)

// Tap tempo mode ends this long after the fourth tap
const (
	tapSettleTaps = 4
	tapSettle     = 2 * time.Second
)

// Mode is what the instrument buttons do
type Mode int

const (
	ModeSequencer Mode = iota // toggle cells at the selected step
	ModePad                   // play the instrument
)

func (m Mode) String() string {
	if m == ModePad {
		return "pad"
	}
	return "sequencer"
}

// Mixer sets playback levels (0.0-1.0)
type Mixer interface {
	MasterVolume() float64
	SetMasterVolume(v float64)
	SetInstrumentVolume(instrument int, v float64)
}

// Transport mirrors play/stop to external gear
type Transport interface {
	Start()
	Stop()
}

// Indicators drives the status LEDs
type Indicators interface {
	Set(l display.Light, on bool)
	Pulse(l display.Light, d time.Duration, now time.Time)
	Update(now time.Time)
}

// PadFeedback lights the 16 buttons of a grid controller
type PadFeedback interface {
	ShowPads(on [input.NumButtons]bool)
}

// flusher is implemented by displays that buffer draws
type flusher interface {
	Flush() error
}

// Options are the machine's collaborators. Scanner and Display are
// required; everything else may be nil.
type Options struct {
	Scanner    input.Scanner
	Pots       input.PotReader
	Display    view.Drawer
	Player     sequencer.Player // pad-mode hits
	Mixer      Mixer
	Transport  Transport
	Indicators Indicators
	Pads       PadFeedback
}

// Machine owns the controller state. Frame and Run must be called from a
// single goroutine; the sequencer runs its own.
type Machine struct {
	cfg   *config.Config
	seq   *sequencer.Sequencer
	opts  Options
	input *input.Classifier
	views *view.Manager
	tap   *sequencer.TapTempo

	mode     Mode
	locked   bool
	selected int
	copied   *sequencer.Row

	tapActive  bool
	tapStarted time.Time
	tapEnds    time.Time // zero until enough taps

	frame     int
	tempoPot  int
	swingPot  int
	volumes   *input.PotTracker
	lastBeat  int
	shownMode Mode
	shownPlay bool
	lightsSet bool
}

// New builds a machine around a sequencer. now seeds the view clocks.
func New(cfg *config.Config, seq *sequencer.Sequencer, opts Options, now time.Time) *Machine {
	if opts.Player == nil {
		opts.Player = sequencer.Players(nil)
	}

	m := &Machine{
		cfg:  cfg,
		seq:  seq,
		opts: opts,
		input: input.NewClassifier(
			config.Ms(cfg.Input.DoubleClickMs),
			config.Ms(cfg.Input.HoldMs),
		),
		views: view.NewManager(
			config.Ms(cfg.View.TimeoutMs),
			config.Ms(cfg.View.InactivityMs),
			config.Ms(cfg.View.AnimationMs),
			now,
		),
		tap:      sequencer.NewTapTempo(),
		tempoPot: seq.BPM(),
		swingPot: seq.Swing(),
		volumes:  input.NewPotTracker(numPots, volumeThreshold, 1.0),
		lastBeat: -1,
	}
	if opts.Mixer != nil {
		m.volumes.Set(PotMaster, opts.Mixer.MasterVolume())
	}
	return m
}

// Mode returns the instrument button mode
func (m *Machine) Mode() Mode { return m.mode }

// Locked reports whether MODE presses are ignored
func (m *Machine) Locked() bool { return m.locked }

// Selected returns the step chosen with the scroll pot
func (m *Machine) Selected() int { return m.selected }

// TapActive reports whether NEXT is taking tap tempo
func (m *Machine) TapActive() bool { return m.tapActive }

// View returns the view on display
func (m *Machine) View() view.View { return m.views.Current() }

// Frame runs one pass of the main loop: scan, classify, dispatch, pots,
// view timeouts, render, indicators
func (m *Machine) Frame(now time.Time) {
	for _, ev := range m.input.Update(m.opts.Scanner.Scan(), now) {
		m.dispatch(ev, now)
	}

	m.frame++
	if m.opts.Pots != nil && m.frame%max(m.cfg.Loop.PotDivider, 1) == 0 {
		m.readPots(m.opts.Pots.ReadPots(), now)
	}

	m.updateTap(now)
	m.views.Update(now)
	m.render()
	m.updateIndicators(now)
}

// Run calls Frame at the configured rate until ctx is done, then stops
// playback
func (m *Machine) Run(ctx context.Context) error {
	period := time.Second / time.Duration(max(m.cfg.Loop.FPS, 1))
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	debug.Log("machine", "main loop %d fps, pots every %d frames", m.cfg.Loop.FPS, m.cfg.Loop.PotDivider)

	for {
		select {
		case <-ctx.Done():
			m.seq.Stop()
			if m.opts.Transport != nil {
				m.opts.Transport.Stop()
			}
			return nil
		case now := <-ticker.C:
			m.Frame(now)
		}
	}
}

func (m *Machine) live() view.Live {
	st := m.seq.State()
	l := view.Live{
		Grid:     m.seq.Grid(),
		Step:     st.Step,
		Playing:  st.Playing,
		Selected: m.selected,
	}
	for i := range l.Muted {
		l.Muted[i] = m.seq.Muted(i)
	}
	return l
}

func (m *Machine) render() {
	m.views.Render(m.opts.Display, m.live())
	if f, ok := m.opts.Display.(flusher); ok {
		if err := f.Flush(); err != nil {
			debug.LogEvery(100, "machine", "display flush: %v", err)
		}
	}
}

func (m *Machine) updateIndicators(now time.Time) {
	st := m.seq.State()

	if ind := m.opts.Indicators; ind != nil {
		if !m.lightsSet || m.shownMode != m.mode {
			ind.Set(display.Red, m.mode == ModePad)
			ind.Set(display.Green, m.mode == ModeSequencer)
		}
		if !m.lightsSet || m.shownPlay != st.Playing {
			ind.Set(display.Yellow, st.Playing)
		}
		if st.Playing && st.Step%4 == 0 && st.Step != m.lastBeat {
			ind.Pulse(display.Blue, 50*time.Millisecond, now)
		}
		ind.Update(now)
	}
	m.shownMode = m.mode
	m.shownPlay = st.Playing
	m.lightsSet = true
	if st.Playing {
		m.lastBeat = st.Step
	} else {
		m.lastBeat = -1
	}

	if m.opts.Pads != nil {
		m.opts.Pads.ShowPads(m.padLights(st))
	}
}

// padLights mirrors the panel state onto a grid controller
func (m *Machine) padLights(st sequencer.State) [input.NumButtons]bool {
	var on [input.NumButtons]bool

	step := m.selected
	if st.Playing {
		step = st.Step
	}
	row := m.seq.Row(step)
	anyMuted := false
	for i := 0; i < sequencer.NumInstruments; i++ {
		muted := m.seq.Muted(i)
		anyMuted = anyMuted || muted
		if m.mode == ModePad {
			on[i] = !muted
		} else {
			on[i] = row[i]
		}
	}

	on[BtnPlay] = st.Playing
	on[BtnMode] = m.mode == ModePad
	on[BtnNext] = m.tapActive
	on[BtnCopy] = m.copied != nil
	on[BtnMute] = anyMuted
	return on
}
