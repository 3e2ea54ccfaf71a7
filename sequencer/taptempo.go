package sequencer

import (
	"math"
	"time"
)

// Tap tempo defaults
const (
	TapMinTaps = 2
	TapMaxTaps = 6
	TapTimeout = 3 * time.Second
)

// TapTempo derives a BPM from the mean interval between recent taps
type TapTempo struct {
	minTaps int
	maxTaps int
	timeout time.Duration

	taps    []time.Time
	lastBPM int
}

// NewTapTempo creates a detector with the default tap limits
func NewTapTempo() *TapTempo {
	return &TapTempo{
		minTaps: TapMinTaps,
		maxTaps: TapMaxTaps,
		timeout: TapTimeout,
	}
}

// prune drops taps older than the timeout
func (t *TapTempo) prune(now time.Time) {
	kept := t.taps[:0]
	for _, tap := range t.taps {
		if now.Sub(tap) < t.timeout {
			kept = append(kept, tap)
		}
	}
	t.taps = kept
}

// Tap registers a tap at now. ok is true when enough taps are stored and
// the resulting tempo lies inside [MinBPM, MaxBPM].
func (t *TapTempo) Tap(now time.Time) (bpm int, ok bool) {
	t.prune(now)
	t.taps = append(t.taps, now)
	if len(t.taps) > t.maxTaps {
		t.taps = t.taps[len(t.taps)-t.maxTaps:]
	}

	if len(t.taps) < t.minTaps {
		return 0, false
	}

	span := t.taps[len(t.taps)-1].Sub(t.taps[0])
	mean := span.Seconds() / float64(len(t.taps)-1)
	if mean <= 0 {
		return 0, false
	}

	value := 60.0 / mean
	if value < MinBPM || value > MaxBPM {
		return 0, false
	}

	t.lastBPM = int(math.Round(value))
	return t.lastBPM, true
}

// LastBPM returns the most recent accepted tempo, 0 if none
func (t *TapTempo) LastBPM() int {
	return t.lastBPM
}

// Count returns the number of taps still inside the timeout
func (t *TapTempo) Count(now time.Time) int {
	n := 0
	for _, tap := range t.taps {
		if now.Sub(tap) < t.timeout {
			n++
		}
	}
	return n
}

// Confidence grows with the tap count, reaching 1 at the maximum
func (t *TapTempo) Confidence(now time.Time) float64 {
	n := t.Count(now)
	if n < t.minTaps {
		return 0
	}
	return math.Min(1, float64(n)/float64(t.maxTaps))
}

// Active reports whether the last tap is younger than the timeout
func (t *TapTempo) Active(now time.Time) bool {
	if len(t.taps) == 0 {
		return false
	}
	return now.Sub(t.taps[len(t.taps)-1]) < t.timeout
}

// Reset forgets all taps
func (t *TapTempo) Reset() {
	t.taps = nil
	t.lastBPM = 0
}
