package hardware

import (
	"time"

	"github.com/pkg/errors"
	"github.com/stianeikeland/go-rpio/v4"

	"go-drum/input"
)

// rowSettle is how long a driven row line settles before columns are read
const rowSettle = 50 * time.Microsecond

// debouncer accepts a press only if the previous accepted press is older
// than the window; releases are immediate
type debouncer struct {
	window    time.Duration
	down      [input.NumButtons]bool
	lastPress [input.NumButtons]time.Time
}

func (d *debouncer) update(id int, pressed bool, now time.Time) bool {
	switch {
	case pressed && !d.down[id]:
		if d.lastPress[id].IsZero() || now.Sub(d.lastPress[id]) > d.window {
			d.down[id] = true
			d.lastPress[id] = now
		}
	case !pressed:
		d.down[id] = false
	}
	return d.down[id]
}

// ButtonMatrix scans a 4x4 matrix: rows are driven low one at a time and
// the pulled-up columns read low where a button closes the circuit
type ButtonMatrix struct {
	bus  *Bus
	rows []rpio.Pin
	cols []rpio.Pin
	deb  debouncer
}

// NewButtonMatrix configures row pins as outputs (idle high) and column
// pins as pulled-up inputs
func NewButtonMatrix(bus *Bus, rows, cols []int, debounce time.Duration) (*ButtonMatrix, error) {
	if len(rows)*len(cols) != input.NumButtons {
		return nil, errors.Errorf("button matrix needs %d buttons, got %dx%d", input.NumButtons, len(rows), len(cols))
	}

	m := &ButtonMatrix{bus: bus, deb: debouncer{window: debounce}}
	bus.withPins(func() {
		for _, n := range rows {
			p := rpio.Pin(n)
			p.Output()
			p.High()
			m.rows = append(m.rows, p)
		}
		for _, n := range cols {
			p := rpio.Pin(n)
			p.Input()
			p.PullUp()
			m.cols = append(m.cols, p)
		}
	})
	return m, nil
}

// Scan returns the debounced ids of the buttons held down
func (m *ButtonMatrix) Scan() []int {
	var raw [input.NumButtons]bool

	m.bus.withPins(func() {
		for r, row := range m.rows {
			row.Low()
			time.Sleep(rowSettle)
			for c, col := range m.cols {
				raw[r*len(m.cols)+c] = col.Read() == rpio.Low
			}
			row.High()
		}
	})

	now := time.Now()
	var pressed []int
	for id, down := range raw {
		if m.deb.update(id, down, now) {
			pressed = append(pressed, id)
		}
	}
	return pressed
}

// Close leaves all rows idle
func (m *ButtonMatrix) Close() {
	m.bus.withPins(func() {
		for _, row := range m.rows {
			row.High()
		}
	})
}
