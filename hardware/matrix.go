package hardware

import (
	"github.com/pkg/errors"

	"go-drum/display"
)

// MAX7219 registers
const (
	regNoop        = 0x00
	regDigit0      = 0x01
	regDecodeMode  = 0x09
	regIntensity   = 0x0A
	regScanLimit   = 0x0B
	regShutdown    = 0x0C
	regDisplayTest = 0x0F
)

const matrixSpeed = 1000000

// LEDMatrix is a chain of MAX7219 8x8 modules showing a display.Canvas.
// Draw calls go to the embedded canvas; Flush pushes changes out.
type LEDMatrix struct {
	*display.Canvas

	bus     *Bus
	cs      uint8
	modules int
	sent    uint64
}

// NewLEDMatrix initialises every module in the chain and blanks it
func NewLEDMatrix(bus *Bus, cs, modules, brightness int) (*LEDMatrix, error) {
	m := &LEDMatrix{
		Canvas:  display.NewCanvas(),
		bus:     bus,
		cs:      uint8(cs),
		modules: modules,
	}

	setup := []struct{ reg, val byte }{
		{regScanLimit, 0x07},
		{regDecodeMode, 0x00},
		{regDisplayTest, 0x00},
		{regIntensity, byte(brightness & 0x0F)},
		{regShutdown, 0x01},
	}
	for _, r := range setup {
		if err := m.writeAll(r.reg, r.val); err != nil {
			return nil, errors.Wrap(err, "initialising max7219")
		}
	}

	m.Clear()
	if err := m.push(m.Snapshot()); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *LEDMatrix) writeAll(reg, val byte) error {
	packet := make([]byte, 0, m.modules*2)
	for i := 0; i < m.modules; i++ {
		packet = append(packet, reg, val)
	}
	return m.bus.Transmit(m.cs, matrixSpeed, packet...)
}

// rowPacket writes one digit register on every module. The first pair
// shifted in ends up in the last module of the chain.
func rowPacket(f *display.Frame, row, modules int) []byte {
	bytes := f.RowBytes(row)
	packet := make([]byte, 0, modules*2)
	for d := modules - 1; d >= 0; d-- {
		var val byte
		if d < len(bytes) {
			val = bytes[d]
		}
		packet = append(packet, byte(regDigit0+row), val)
	}
	return packet
}

func (m *LEDMatrix) push(f display.Frame) error {
	for row := 0; row < display.Rows; row++ {
		if err := m.bus.Transmit(m.cs, matrixSpeed, rowPacket(&f, row, m.modules)...); err != nil {
			return errors.Wrapf(err, "writing matrix row %d", row)
		}
	}
	return nil
}

// Flush sends the canvas if it changed since the last flush
func (m *LEDMatrix) Flush() error {
	gen := m.Generation()
	if gen == m.sent {
		return nil
	}
	if err := m.push(m.Snapshot()); err != nil {
		return err
	}
	m.sent = gen
	return nil
}

// Close blanks and shuts down the modules
func (m *LEDMatrix) Close() error {
	m.Clear()
	if err := m.push(m.Snapshot()); err != nil {
		return err
	}
	return m.writeAll(regShutdown, 0x00)
}
