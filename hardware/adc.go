package hardware

import (
	"go-drum/debug"
)

const (
	adcChannels = 8
	adcMax      = 1023
	adcSpeed    = 1350000
)

// ADC reads the eight potentiometers from an MCP3008, averaging each
// reading with the previous one to damp jitter
type ADC struct {
	bus  *Bus
	cs   uint8
	prev [adcChannels]int
}

// NewADC primes the smoothing state with one reading per channel
func NewADC(bus *Bus, cs int) *ADC {
	a := &ADC{bus: bus, cs: uint8(cs)}
	for ch := 0; ch < adcChannels; ch++ {
		a.prev[ch] = a.readRaw(ch)
	}
	return a
}

// mcp3008Request is the single-ended read command for a channel
func mcp3008Request(ch int) []byte {
	return []byte{0x01, byte(8+ch) << 4, 0x00}
}

// mcp3008Value extracts the 10-bit result from a reply
func mcp3008Value(reply []byte) int {
	return int(reply[1]&0x03)<<8 | int(reply[2])
}

func (a *ADC) readRaw(ch int) int {
	buf := mcp3008Request(ch)
	if err := a.bus.Exchange(a.cs, adcSpeed, buf); err != nil {
		debug.LogEvery(100, "hw", "adc read ch=%d: %v", ch, err)
		return a.prev[ch]
	}
	return mcp3008Value(buf)
}

// smooth averages a raw reading with the previous one
func smooth(raw, prev int) int {
	return (raw + prev) / 2
}

// ReadPots returns all channels normalised to 0.0-1.0
func (a *ADC) ReadPots() []float64 {
	values := make([]float64, adcChannels)
	for ch := range values {
		s := smooth(a.readRaw(ch), a.prev[ch])
		a.prev[ch] = s
		values[ch] = float64(s) / adcMax
	}
	return values
}
