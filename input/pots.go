package input

import "math"

// PotTracker remembers the last accepted value of each channel and only
// reports a change once a reading moves past the threshold
type PotTracker struct {
	threshold float64
	last      []float64
}

// NewPotTracker creates a tracker whose channels start at initial
func NewPotTracker(channels int, threshold, initial float64) *PotTracker {
	last := make([]float64, channels)
	for i := range last {
		last[i] = initial
	}
	return &PotTracker{threshold: threshold, last: last}
}

// Changed accepts v for channel ch when |v - last| exceeds the threshold
func (p *PotTracker) Changed(ch int, v float64) bool {
	if ch < 0 || ch >= len(p.last) {
		return false
	}
	if math.Abs(v-p.last[ch]) <= p.threshold {
		return false
	}
	p.last[ch] = v
	return true
}

// Value returns the last accepted value for a channel
func (p *PotTracker) Value(ch int) float64 {
	if ch < 0 || ch >= len(p.last) {
		return 0
	}
	return p.last[ch]
}

// Set overrides the accepted value without reporting a change
func (p *PotTracker) Set(ch int, v float64) {
	if ch >= 0 && ch < len(p.last) {
		p.last[ch] = v
	}
}
