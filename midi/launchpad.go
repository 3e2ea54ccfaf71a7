package midi

import (
	"sort"
	"sync"

	"github.com/pkg/errors"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"

	"go-drum/debug"
	"go-drum/input"
)

// Launchpad X palette entries used for pad feedback
const (
	ColorOff    uint8 = 0
	ColorRed    uint8 = 5
	ColorOrange uint8 = 9
	ColorYellow uint8 = 13
	ColorGreen  uint8 = 21
	ColorBlue   uint8 = 45
	ColorWhite  uint8 = 3
)

// PadColors is the lit colour of each of the 16 buttons: instruments
// green, transport yellow, pattern keys blue, edit keys orange, mute red
var PadColors = [input.NumButtons]uint8{
	ColorGreen, ColorGreen, ColorGreen, ColorGreen,
	ColorGreen, ColorGreen, ColorGreen, ColorGreen,
	ColorYellow, ColorWhite, ColorBlue, ColorBlue,
	ColorOrange, ColorOrange, ColorOrange, ColorRed,
}

// Launchpad uses the bottom two rows of a Launchpad X as the 16-button
// panel. It implements input.Scanner; pad state comes from its MIDI
// callback, so Scan never blocks on the device.
type Launchpad struct {
	send     func(msg gomidi.Message) error
	stopFunc func()

	mu   sync.Mutex
	down [input.NumButtons]bool
	lit  [input.NumButtons]uint8
}

// noteToButton converts a Launchpad note number to a button id (0-15).
// Returns -1 if not a panel pad.
func noteToButton(note uint8) int {
	// Bottom row: notes 11-18 = buttons 0-7
	if note >= 11 && note <= 18 {
		return int(note - 11)
	}
	// Second row: notes 21-28 = buttons 8-15
	if note >= 21 && note <= 28 {
		return int(note - 21 + 8)
	}
	return -1
}

func buttonToNote(id int) uint8 {
	if id < 8 {
		return uint8(11 + id)
	}
	return uint8(21 + id - 8)
}

// newLaunchpad builds a surface around a send function (nil for input only)
func newLaunchpad(send func(msg gomidi.Message) error) *Launchpad {
	return &Launchpad{send: send}
}

// OpenLaunchpad switches the device to Programmer mode and starts
// listening for pads
func OpenLaunchpad(in drivers.In, out drivers.Out) (*Launchpad, error) {
	if in == nil {
		return nil, errors.New("no Launchpad input port")
	}

	lp := newLaunchpad(nil)

	if out != nil {
		send, err := gomidi.SendTo(out)
		if err != nil {
			return nil, errors.Wrap(err, "open output")
		}
		lp.send = send

		// Programmer mode: F0 00 20 29 02 0C 00 7F F7
		lp.send(gomidi.SysEx([]byte{0x00, 0x20, 0x29, 0x02, 0x0C, 0x00, 0x7F}))
		// Brightness max: F0 00 20 29 02 0C 08 <brightness> F7
		lp.send(gomidi.SysEx([]byte{0x00, 0x20, 0x29, 0x02, 0x0C, 0x08, 0x7F}))
	}

	stop, err := gomidi.ListenTo(in, func(msg gomidi.Message, timestampms int32) {
		lp.handle(msg)
	})
	if err != nil {
		return nil, errors.Wrap(err, "open input")
	}
	lp.stopFunc = stop

	debug.Log("lp", "launchpad open in=%s", in.String())
	return lp, nil
}

// handle tracks pad state; NoteOn with velocity 0 counts as NoteOff
func (lp *Launchpad) handle(msg gomidi.Message) {
	var channel, note, velocity uint8

	switch {
	case msg.GetNoteOn(&channel, &note, &velocity):
		lp.setDown(note, velocity > 0)
	case msg.GetNoteOff(&channel, &note, &velocity):
		lp.setDown(note, false)
	}
}

func (lp *Launchpad) setDown(note uint8, down bool) {
	id := noteToButton(note)
	if id < 0 {
		return
	}
	lp.mu.Lock()
	lp.down[id] = down
	lp.mu.Unlock()
}

// Scan returns the pads currently held
func (lp *Launchpad) Scan() []int {
	lp.mu.Lock()
	defer lp.mu.Unlock()

	var ids []int
	for id, d := range lp.down {
		if d {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)
	return ids
}

// ShowPads lights each pad in its PadColors entry or turns it off. Only
// pads that changed are sent.
func (lp *Launchpad) ShowPads(on [input.NumButtons]bool) {
	if lp.send == nil {
		return
	}

	lp.mu.Lock()
	defer lp.mu.Unlock()

	for id, o := range on {
		color := ColorOff
		if o {
			color = PadColors[id]
		}
		if lp.lit[id] == color {
			continue
		}
		if err := lp.send(gomidi.NoteOn(0, buttonToNote(id), color)); err != nil {
			debug.LogEvery(50, "lp", "led send: %v", err)
			return
		}
		lp.lit[id] = color
	}
}

// Close clears the pads and stops listening
func (lp *Launchpad) Close() error {
	lp.ShowPads([input.NumButtons]bool{})
	if lp.stopFunc != nil {
		lp.stopFunc()
	}
	return nil
}
