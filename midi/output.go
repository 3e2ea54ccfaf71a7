package midi

import (
	"sync"
	"time"

	"github.com/pkg/errors"
	gomidi "gitlab.com/gomidi/midi/v2"

	"go-drum/debug"
	"go-drum/sequencer"
)

// NoteLength is how long a triggered note is held before its NoteOff
const NoteLength = 50 * time.Millisecond

// Output sends drum hits and transport messages to an external device.
// It satisfies sequencer.Player.
type Output struct {
	mu      sync.Mutex
	send    func(msg gomidi.Message) error
	channel uint8 // 0-based
	kit     Kit
	noteLen time.Duration
}

// NewOutput wraps a send function; channel is 1-16
func NewOutput(send func(msg gomidi.Message) error, channel int, kit Kit) *Output {
	if channel < 1 || channel > 16 {
		channel = 10
	}
	return &Output{
		send:    send,
		channel: uint8(channel - 1),
		kit:     kit,
		noteLen: NoteLength,
	}
}

// Open connects to the first output port matching name
func Open(name string, channel int, kit Kit) (*Output, error) {
	ports, err := ListPorts()
	if err != nil {
		return nil, err
	}

	port := ports.FindOut(name)
	if port == nil {
		return nil, errors.Errorf("no MIDI output matching %q", name)
	}

	send, err := gomidi.SendTo(port)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", port.String())
	}

	debug.Log("midi", "output %s channel=%d kit=%s", port.String(), channel, kit.Name)
	return NewOutput(send, channel, kit), nil
}

func (o *Output) write(msg gomidi.Message) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.send == nil {
		return
	}
	if err := o.send(msg); err != nil {
		debug.LogEvery(50, "midi", "send %s: %v", msg, err)
	}
}

// SetKit switches the note map
func (o *Output) SetKit(kit Kit) {
	o.mu.Lock()
	o.kit = kit
	o.mu.Unlock()
}

// PlaySample sends NoteOn now and NoteOff after NoteLength
func (o *Output) PlaySample(instrument int) {
	if instrument < 0 || instrument >= sequencer.NumInstruments {
		return
	}

	o.mu.Lock()
	note := o.kit.Notes[instrument]
	ch := o.channel
	o.mu.Unlock()

	o.write(gomidi.NoteOn(ch, note, 127))
	time.AfterFunc(o.noteLen, func() {
		o.write(gomidi.NoteOff(ch, note))
	})
}

// Start sends MIDI real-time Start
func (o *Output) Start() {
	o.write(gomidi.Start())
}

// Stop sends MIDI real-time Stop
func (o *Output) Stop() {
	o.write(gomidi.Stop())
}

// Close stops the device and detaches the port
func (o *Output) Close() {
	o.Stop()
	o.mu.Lock()
	o.send = nil
	o.mu.Unlock()
}
