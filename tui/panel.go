package tui

import (
	"sort"
	"sync"
	"time"

	"go-drum/display"
	"go-drum/input"
	"go-drum/sequencer"
)

// Panel is the emulated front panel: buttons, pots and status lights. The
// bubbletea program writes to it and the machine loop reads from it.
type Panel struct {
	mu sync.Mutex

	tapLength time.Duration
	downUntil [input.NumButtons]time.Time
	latched   [input.NumButtons]bool

	pots     [8]float64
	selected int

	lights     [display.NumLights]bool
	pulseUntil [display.NumLights]time.Time

	now func() time.Time
}

// NewPanel creates a panel whose tapped buttons stay down for tapLength.
// Pots start where a fresh machine expects them: tempo at bpm, volumes full.
func NewPanel(tapLength time.Duration, bpm int) *Panel {
	p := &Panel{tapLength: tapLength, now: time.Now}
	p.pots[1] = float64(bpm-sequencer.MinBPM) / float64(sequencer.MaxBPM-sequencer.MinBPM)
	for ch := 3; ch < len(p.pots); ch++ {
		p.pots[ch] = 1
	}
	return p
}

// Tap presses id; key repeats arriving before release keep it down
func (p *Panel) Tap(id int) {
	if id < 0 || id >= input.NumButtons {
		return
	}
	p.mu.Lock()
	p.downUntil[id] = p.now().Add(p.tapLength)
	p.mu.Unlock()
}

// Latch toggles a button that stays down until latched again
func (p *Panel) Latch(id int) {
	if id < 0 || id >= input.NumButtons {
		return
	}
	p.mu.Lock()
	p.latched[id] = !p.latched[id]
	p.mu.Unlock()
}

// Scan implements input.Scanner
func (p *Panel) Scan() []int {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.now()
	var ids []int
	for id := range p.downUntil {
		if p.latched[id] || now.Before(p.downUntil[id]) {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)
	return ids
}

// Down reports whether id is currently pressed
func (p *Panel) Down(id int) bool {
	if id < 0 || id >= input.NumButtons {
		return false
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.latched[id] || p.now().Before(p.downUntil[id])
}

// Latched reports whether id is latched down
func (p *Panel) Latched(id int) bool {
	if id < 0 || id >= input.NumButtons {
		return false
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.latched[id]
}

// ReadPots implements input.PotReader
func (p *Panel) ReadPots() []float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]float64, len(p.pots))
	copy(out, p.pots[:])
	return out
}

// SelectPot moves the pot cursor by delta, wrapping
func (p *Panel) SelectPot(delta int) {
	p.mu.Lock()
	n := len(p.pots)
	p.selected = ((p.selected+delta)%n + n) % n
	p.mu.Unlock()
}

// Turn moves the selected pot by delta, clamped to 0-1
func (p *Panel) Turn(delta float64) {
	p.mu.Lock()
	v := p.pots[p.selected] + delta
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	p.pots[p.selected] = v
	p.mu.Unlock()
}

// Pots returns the pot values and the selected channel
func (p *Panel) Pots() ([8]float64, int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pots, p.selected
}

// Set switches a light and cancels any pulse on it
func (p *Panel) Set(l display.Light, on bool) {
	if l < 0 || l >= display.NumLights {
		return
	}
	p.mu.Lock()
	p.pulseUntil[l] = time.Time{}
	p.lights[l] = on
	p.mu.Unlock()
}

// Pulse lights l until now+d
func (p *Panel) Pulse(l display.Light, d time.Duration, now time.Time) {
	if l < 0 || l >= display.NumLights {
		return
	}
	p.mu.Lock()
	p.pulseUntil[l] = now.Add(d)
	p.lights[l] = true
	p.mu.Unlock()
}

// Update ends expired pulses
func (p *Panel) Update(now time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i, until := range p.pulseUntil {
		if until.IsZero() || now.Before(until) {
			continue
		}
		p.pulseUntil[i] = time.Time{}
		p.lights[i] = false
	}
}

// Lit reports whether a light is on
func (p *Panel) Lit(l display.Light) bool {
	if l < 0 || l >= display.NumLights {
		return false
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lights[l]
}
