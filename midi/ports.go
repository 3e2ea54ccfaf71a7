package midi

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // Register MIDI driver
)

// PortTimeout bounds port enumeration (CoreMIDI can hang)
const PortTimeout = 3 * time.Second

// ErrPortsTimeout is returned when the driver does not answer in time.
// Usually fixed by: sudo killall coreaudiod midiserver
var ErrPortsTimeout = errors.New("timed out listing MIDI ports")

// Ports is one snapshot of the system's MIDI ports
type Ports struct {
	Ins  []drivers.In
	Outs []drivers.Out
}

// ListPorts enumerates MIDI ports with PortTimeout
func ListPorts() (Ports, error) {
	ch := make(chan Ports, 1)
	go func() {
		ch <- Ports{Ins: gomidi.GetInPorts(), Outs: gomidi.GetOutPorts()}
	}()

	select {
	case p := <-ch:
		return p, nil
	case <-time.After(PortTimeout):
		return Ports{}, ErrPortsTimeout
	}
}

// FindOut returns the first output whose name contains name (case-insensitive)
func (p Ports) FindOut(name string) drivers.Out {
	name = strings.ToLower(name)
	for _, out := range p.Outs {
		if strings.Contains(strings.ToLower(out.String()), name) {
			return out
		}
	}
	return nil
}

// FindLaunchpad returns the Launchpad's MIDI ports; either may be nil
func (p Ports) FindLaunchpad() (drivers.In, drivers.Out) {
	var in drivers.In
	var out drivers.Out
	for _, port := range p.Ins {
		if isLaunchpad(port.String()) {
			in = port
			break
		}
	}
	for _, port := range p.Outs {
		if isLaunchpad(port.String()) {
			out = port
			break
		}
	}
	return in, out
}

func isLaunchpad(name string) bool {
	name = strings.ToLower(name)
	return strings.Contains(name, "launchpad") && strings.Contains(name, "midi")
}
