package sequencer

import "sync"

const (
	NumInstruments = 8
	MaxPatterns    = 8

	MinBPM   = 60
	MaxBPM   = 200
	MaxSwing = 75
)

// Instrument names, indexed by instrument id
var Instruments = [NumInstruments]string{
	"kick",
	"snare",
	"chh", // closed hi-hat
	"ohh", // open hi-hat
	"tom1",
	"tom2",
	"crash",
	"ride",
}

// Row is one step: a hit flag per instrument
type Row [NumInstruments]bool

// Grid is a copy of a pattern, indexed [step][instrument]
type Grid []Row

// Pattern is the live step grid. Every access holds the lock for a single
// cell, row or copy, so the play loop and the controller never see a torn
// cell.
type Pattern struct {
	mu    sync.RWMutex
	steps []Row
}

// NewPattern creates an empty pattern with a fixed step count
func NewPattern(steps int) *Pattern {
	if steps <= 0 {
		steps = 16
	}
	return &Pattern{steps: make([]Row, steps)}
}

// Steps returns the step count (constant for the pattern's lifetime)
func (p *Pattern) Steps() int {
	return len(p.steps)
}

func (p *Pattern) inBounds(step, instrument int) bool {
	return step >= 0 && step < len(p.steps) && instrument >= 0 && instrument < NumInstruments
}

// Toggle flips a cell; out-of-range indices are ignored
func (p *Pattern) Toggle(step, instrument int) {
	if !p.inBounds(step, instrument) {
		return
	}
	p.mu.Lock()
	p.steps[step][instrument] = !p.steps[step][instrument]
	p.mu.Unlock()
}

// Set sets a cell; out-of-range indices are ignored
func (p *Pattern) Set(step, instrument int, on bool) {
	if !p.inBounds(step, instrument) {
		return
	}
	p.mu.Lock()
	p.steps[step][instrument] = on
	p.mu.Unlock()
}

// Get reads a cell; out-of-range reads are false
func (p *Pattern) Get(step, instrument int) bool {
	if !p.inBounds(step, instrument) {
		return false
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.steps[step][instrument]
}

// Row returns a copy of one step
func (p *Pattern) Row(step int) Row {
	if step < 0 || step >= len(p.steps) {
		return Row{}
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.steps[step]
}

// SetRow overwrites one step
func (p *Pattern) SetRow(step int, row Row) {
	if step < 0 || step >= len(p.steps) {
		return
	}
	p.mu.Lock()
	p.steps[step] = row
	p.mu.Unlock()
}

// Clear turns every cell off
func (p *Pattern) Clear() {
	p.mu.Lock()
	for i := range p.steps {
		p.steps[i] = Row{}
	}
	p.mu.Unlock()
}

// Empty reports whether no cell is set
func (p *Pattern) Empty() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for _, row := range p.steps {
		if row != (Row{}) {
			return false
		}
	}
	return true
}

// Snapshot returns a consistent copy of the whole grid
func (p *Pattern) Snapshot() Grid {
	p.mu.RLock()
	defer p.mu.RUnlock()
	g := make(Grid, len(p.steps))
	copy(g, p.steps)
	return g
}

// Replace swaps in a new grid wholesale. The step count never changes:
// steps missing from g are cleared and surplus steps are dropped.
func (p *Pattern) Replace(g Grid) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i := range p.steps {
		if i < len(g) {
			p.steps[i] = g[i]
		} else {
			p.steps[i] = Row{}
		}
	}
}
