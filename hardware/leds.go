package hardware

import (
	"time"

	"github.com/stianeikeland/go-rpio/v4"

	"go-drum/config"
	"go-drum/display"
)

// StatusLEDs drives the five indicator LEDs. Pulses are timed against the
// caller's clock and cleared by Update, so nothing blocks.
type StatusLEDs struct {
	bus        *Bus
	pins       [display.NumLights]rpio.Pin
	on         [display.NumLights]bool
	pulseUntil [display.NumLights]time.Time
}

// NewStatusLEDs configures the LED pins as outputs, all off
func NewStatusLEDs(bus *Bus, pins config.LEDPins) *StatusLEDs {
	s := &StatusLEDs{bus: bus}
	numbers := [display.NumLights]int{pins.Red, pins.Green, pins.Yellow, pins.Blue, pins.White}

	bus.withPins(func() {
		for i, n := range numbers {
			p := rpio.Pin(n)
			p.Output()
			p.Low()
			s.pins[i] = p
		}
	})
	return s
}

func (s *StatusLEDs) write(l display.Light, on bool) {
	s.bus.withPins(func() {
		if on {
			s.pins[l].High()
		} else {
			s.pins[l].Low()
		}
	})
}

// Set switches a light and cancels any pulse on it
func (s *StatusLEDs) Set(l display.Light, on bool) {
	if l < 0 || l >= display.NumLights {
		return
	}
	s.pulseUntil[l] = time.Time{}
	if s.on[l] == on {
		return
	}
	s.on[l] = on
	s.write(l, on)
}

// Pulse lights l until now+d
func (s *StatusLEDs) Pulse(l display.Light, d time.Duration, now time.Time) {
	if l < 0 || l >= display.NumLights {
		return
	}
	s.pulseUntil[l] = now.Add(d)
	if !s.on[l] {
		s.on[l] = true
		s.write(l, true)
	}
}

// Update ends expired pulses
func (s *StatusLEDs) Update(now time.Time) {
	for i := range s.pulseUntil {
		if s.pulseUntil[i].IsZero() || now.Before(s.pulseUntil[i]) {
			continue
		}
		s.pulseUntil[i] = time.Time{}
		s.on[i] = false
		s.write(display.Light(i), false)
	}
}

// Close turns every light off
func (s *StatusLEDs) Close() {
	for i := range s.pins {
		s.Set(display.Light(i), false)
	}
}
