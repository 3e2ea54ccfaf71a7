package machine

import (
	"math"
	"time"

	"go-drum/config"
	"go-drum/debug"
	"go-drum/display"
	"go-drum/input"
	"go-drum/sequencer"
	"go-drum/view"
)

func (m *Machine) dispatch(ev input.Event, now time.Time) {
	debug.Log("input", "%s", ev)
	m.views.RegisterInteraction(now)

	switch ev.Kind {
	case input.Press:
		m.onPress(ev.Button, now)
	case input.DoubleClick:
		m.onDoubleClick(ev.Button, now)
	case input.Release:
		m.onRelease(ev.Button, ev.Duration, now)
	case input.Combination:
		m.onCombination(ev.Buttons, now)
	}
}

func (m *Machine) onPress(b int, now time.Time) {
	switch {
	case b < sequencer.NumInstruments:
		m.onInstrument(b, now)

	case b == BtnPlay:
		m.seq.Toggle()
		if t := m.opts.Transport; t != nil {
			if m.seq.Playing() {
				t.Start()
			} else {
				t.Stop()
			}
		}

	case b == BtnMode:
		if m.locked {
			debug.Log("machine", "mode locked")
			return
		}
		if m.mode == ModeSequencer {
			m.mode = ModePad
		} else {
			m.mode = ModeSequencer
		}
		debug.Log("machine", "mode %s", m.mode)

	case b == BtnPrev:
		m.changePattern(-1, now)

	case b == BtnNext:
		if m.tapActive {
			m.onTap(now)
			return
		}
		m.changePattern(1, now)

	case b == BtnClear:
		for i := 0; i < sequencer.NumInstruments; i++ {
			m.seq.SetStep(m.selected, i, false)
		}

	case b == BtnSave:
		id := m.seq.PatternID()
		if m.seq.SavePattern(id) {
			m.views.ShowFor(view.Save{Number: id}, config.Ms(m.cfg.View.SaveViewMs), now)
			m.pulse(display.White, 500*time.Millisecond, now)
		}

	case b == BtnCopy:
		row := m.seq.Row(m.selected)
		m.copied = &row
		m.pulse(display.Blue, 200*time.Millisecond, now)

	case b == BtnMute:
		m.views.Show(view.Mute{Muted: m.live().Muted}, now)
	}
}

func (m *Machine) onInstrument(i int, now time.Time) {
	if m.mode == ModePad {
		if m.seq.Muted(i) {
			return
		}
		m.opts.Player.PlaySample(i)
		m.pulse(display.Blue, 100*time.Millisecond, now)
		return
	}
	m.seq.ToggleStep(m.selected, i)
}

func (m *Machine) onDoubleClick(b int, now time.Time) {
	switch b {
	case BtnPlay:
		m.seq.ResetStep()
	case BtnNext:
		m.tap.Reset()
		m.tapActive = true
		m.tapStarted = now
		m.tapEnds = time.Time{}
		m.views.ShowFor(view.Tap{}, 0, now)
		debug.Log("machine", "tap tempo on")
	}
}

// onRelease handles the long holds, measured over the whole press
func (m *Machine) onRelease(b int, held time.Duration, now time.Time) {
	switch {
	case b == BtnMode && held >= config.Ms(m.cfg.Input.LockHoldMs):
		m.locked = !m.locked
		debug.Log("machine", "mode lock %v", m.locked)
		if m.locked {
			m.pulse(display.White, 300*time.Millisecond, now)
		} else {
			m.pulse(display.Blue, 300*time.Millisecond, now)
		}

	case b == BtnClear && held >= config.Ms(m.cfg.Input.LongHoldMs):
		m.seq.ClearPattern()
		m.copied = nil
		debug.Log("machine", "pattern %d cleared", m.seq.PatternID())
	}
}

// onCombination interprets chords by what they contain. Unknown chords are
// ignored.
func (m *Machine) onCombination(buttons []int, now time.Time) {
	var set [input.NumButtons]bool
	for _, b := range buttons {
		set[b] = true
	}
	dir := 0
	if set[BtnPrev] && !set[BtnNext] {
		dir = -1
	} else if set[BtnNext] && !set[BtnPrev] {
		dir = 1
	}

	switch {
	case set[BtnSave] && dir != 0:
		id := adjacent(m.seq.PatternID(), dir)
		if m.seq.SavePattern(id) {
			m.views.ShowFor(view.Save{Number: id}, config.Ms(m.cfg.View.SaveViewMs), now)
			m.pulse(display.White, 500*time.Millisecond, now)
		}

	case set[BtnCopy] && dir != 0:
		if m.copied == nil {
			return
		}
		next := m.selected + dir
		if next < 0 || next >= m.seq.Steps() {
			return
		}
		m.selected = next
		for i, on := range m.copied {
			m.seq.SetStep(next, i, on)
		}
		m.pulse(display.Blue, 200*time.Millisecond, now)

	case set[BtnMute]:
		for i := 0; i < sequencer.NumInstruments; i++ {
			if set[i] {
				m.seq.ToggleMute(i)
			}
		}
		m.views.Show(view.Mute{Muted: m.live().Muted}, now)

	default:
		debug.Log("machine", "ignored combination %v", buttons)
	}
}

// adjacent steps through the pattern slots, wrapping at both ends
func adjacent(id, dir int) int {
	return (id-1+dir+sequencer.MaxPatterns)%sequencer.MaxPatterns + 1
}

// changePattern loads the neighbouring slot, or starts it empty when
// nothing was saved there
func (m *Machine) changePattern(dir int, now time.Time) {
	id := adjacent(m.seq.PatternID(), dir)
	if !m.seq.LoadPattern(id) {
		m.seq.SetPatternID(id)
		m.seq.ClearPattern()
	}
	m.views.ShowFor(view.Pattern{
		Number: id,
		BPM:    m.seq.BPM(),
		Steps:  m.seq.Steps(),
	}, config.Ms(m.cfg.View.PatternViewMs), now)
}

func (m *Machine) onTap(now time.Time) {
	bpm, ok := m.tap.Tap(now)
	if ok {
		m.seq.SetBPM(bpm)
	}
	taps := m.tap.Count(now)
	if taps >= tapSettleTaps && m.tapEnds.IsZero() {
		m.tapEnds = now.Add(tapSettle)
	}
	m.pulse(display.Blue, 50*time.Millisecond, now)
	m.views.ShowFor(view.Tap{
		BPM:        m.tap.LastBPM(),
		Taps:       taps,
		Confidence: m.tap.Confidence(now),
	}, 0, now)
}

// updateTap leaves tap mode once the tempo settled or the taps stopped
func (m *Machine) updateTap(now time.Time) {
	if !m.tapActive {
		return
	}
	settled := !m.tapEnds.IsZero() && !now.Before(m.tapEnds)
	abandoned := now.Sub(m.tapStarted) >= sequencer.TapTimeout && !m.tap.Active(now)
	if !settled && !abandoned {
		return
	}

	m.tapActive = false
	debug.Log("machine", "tap tempo off, bpm %d", m.seq.BPM())
	if bpm := m.tap.LastBPM(); bpm > 0 {
		m.views.Show(view.BPM{BPM: bpm}, now)
	} else {
		m.views.Dismiss(now)
	}
}

func (m *Machine) readPots(values []float64, now time.Time) {
	get := func(ch int) (float64, bool) {
		if ch >= len(values) {
			return 0, false
		}
		return math.Max(0, math.Min(1, values[ch])), true
	}

	if v, ok := get(PotScroll); ok {
		steps := m.seq.Steps()
		step := int(v * float64(steps))
		if step > steps-1 {
			step = steps - 1
		}
		if step != m.selected {
			m.selected = step
			m.views.RegisterInteraction(now)
		}
	}

	if v, ok := get(PotTempo); ok {
		bpm := int(sequencer.MinBPM + v*(sequencer.MaxBPM-sequencer.MinBPM))
		if abs(bpm-m.tempoPot) > tempoThreshold {
			m.tempoPot = bpm
			m.seq.SetBPM(bpm)
			m.views.Show(view.BPM{BPM: m.seq.BPM()}, now)
		}
	}

	if v, ok := get(PotSwing); ok {
		swing := int(v * sequencer.MaxSwing)
		if abs(swing-m.swingPot) > swingThreshold {
			m.swingPot = swing
			m.seq.SetSwing(swing)
			m.views.Show(view.Swing{Swing: m.seq.Swing()}, now)
		}
	}

	mix := m.opts.Mixer
	if mix == nil {
		return
	}

	if v, ok := get(PotMaster); ok && m.volumes.Changed(PotMaster, v) {
		mix.SetMasterVolume(v)
		m.views.Show(view.Volume{Percent: int(math.Round(v * 100))}, now)
	}

	for ch := PotDrums; ch <= PotCymbals; ch++ {
		v, ok := get(ch)
		if !ok || !m.volumes.Changed(ch, v) {
			continue
		}
		g := view.Group(ch - PotDrums)
		for _, i := range g.Instruments() {
			mix.SetInstrumentVolume(i, v)
		}
		m.views.Show(view.GroupVolume{Group: g, Level: v}, now)
	}
}

func (m *Machine) pulse(l display.Light, d time.Duration, now time.Time) {
	if m.opts.Indicators != nil {
		m.opts.Indicators.Pulse(l, d, now)
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
