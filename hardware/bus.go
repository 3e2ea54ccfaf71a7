// Package hardware drives the Raspberry Pi front panel: the 4x4 button
// matrix, the MCP3008 potentiometer ADC, the MAX7219 LED matrix and the
// status LEDs.
package hardware

import (
	"sync"

	"github.com/pkg/errors"
	"github.com/stianeikeland/go-rpio/v4"

	"go-drum/debug"
)

// Bus owns the GPIO mapping and the SPI0 controller. Every driver goes
// through it so pin and SPI access is serialised.
type Bus struct {
	mu  sync.Mutex
	spi bool
}

// Open maps GPIO memory and starts SPI0
func Open() (*Bus, error) {
	if err := rpio.Open(); err != nil {
		return nil, errors.Wrap(err, "opening gpio (is this a Raspberry Pi?)")
	}

	b := &Bus{}
	if err := rpio.SpiBegin(rpio.Spi0); err != nil {
		// Buttons and LEDs still work without SPI
		debug.Error("hw", err, "spi0 unavailable")
	} else {
		b.spi = true
	}

	debug.Log("hw", "bus open spi=%v", b.spi)
	return b, nil
}

// SPI reports whether SPI0 is usable
func (b *Bus) SPI() bool {
	return b.spi
}

// Exchange performs a full-duplex transfer on chip select cs; data is
// overwritten with the reply
func (b *Bus) Exchange(cs uint8, speed int, data []byte) error {
	if !b.spi {
		return errors.New("spi not available")
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	rpio.SpiChipSelect(cs)
	rpio.SpiSpeed(speed)
	rpio.SpiExchange(data)
	return nil
}

// Transmit writes data on chip select cs
func (b *Bus) Transmit(cs uint8, speed int, data ...byte) error {
	if !b.spi {
		return errors.New("spi not available")
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	rpio.SpiChipSelect(cs)
	rpio.SpiSpeed(speed)
	rpio.SpiTransmit(data...)
	return nil
}

// withPins runs fn holding the bus lock
func (b *Bus) withPins(fn func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	fn()
}

// Close stops SPI and unmaps GPIO
func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.spi {
		rpio.SpiEnd(rpio.Spi0)
		b.spi = false
	}
	return rpio.Close()
}
