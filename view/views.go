package view

import "go-drum/sequencer"

// View is one of the closed set of display states. The unexported method
// keeps the set sealed to this package.
type View interface {
	Name() string
	view()
}

// Group is a pair of instruments sharing a volume pot
type Group int

const (
	Drums   Group = iota // kick + snare
	Hats                 // closed + open hi-hat
	Toms                 // tom1 + tom2
	Cymbals              // crash + ride
)

// Label is the two-letter tag shown on the display
func (g Group) Label() string {
	switch g {
	case Drums:
		return "DR"
	case Hats:
		return "HH"
	case Toms:
		return "TM"
	case Cymbals:
		return "CY"
	}
	return "??"
}

// Instruments returns the two instrument ids controlled by the group
func (g Group) Instruments() [2]int {
	first := int(g) * 2
	return [2]int{first, first + 1}
}

// Sequencer is the default live step grid
type Sequencer struct{}

// BPM shows the tempo
type BPM struct {
	BPM int
}

// Swing shows the swing percentage
type Swing struct {
	Swing int
}

// Volume shows the master volume
type Volume struct {
	Percent int
}

// GroupVolume shows one instrument group's volume
type GroupVolume struct {
	Group Group
	Level float64 // 0.0-1.0
}

// Pattern shows the slot just selected
type Pattern struct {
	Number int
	BPM    int
	Steps  int
}

// Save confirms a pattern save
type Save struct {
	Number int
}

// Tap shows tap tempo progress
type Tap struct {
	BPM        int // 0 until enough taps
	Taps       int
	Confidence float64
}

// Mute shows the muted instruments
type Mute struct {
	Muted [sequencer.NumInstruments]bool
}

func (Sequencer) Name() string   { return "sequencer" }
func (BPM) Name() string         { return "bpm" }
func (Swing) Name() string       { return "swing" }
func (Volume) Name() string      { return "volume" }
func (GroupVolume) Name() string { return "group-volume" }
func (Pattern) Name() string     { return "pattern" }
func (Save) Name() string        { return "save" }
func (Tap) Name() string         { return "tap" }
func (Mute) Name() string        { return "mute" }

func (Sequencer) view()   {}
func (BPM) view()         {}
func (Swing) view()       {}
func (Volume) view()      {}
func (GroupVolume) view() {}
func (Pattern) view()     {}
func (Save) view()        {}
func (Tap) view()         {}
func (Mute) view()        {}

// Drawer is the display driver. Render calls exactly one method per frame.
type Drawer interface {
	DrawSequencer(grid sequencer.Grid, step int, muted [sequencer.NumInstruments]bool, frame int)
	DrawBPM(bpm, frame int)
	DrawSwing(swing, frame int)
	DrawVolume(percent int)
	DrawGroupVolume(label string, level float64)
	DrawPattern(number, bpm, steps int)
	DrawSave(number, frame int)
	DrawTap(bpm, taps int, confidence float64, frame int)
	DrawMute(muted [sequencer.NumInstruments]bool)
}

// Live is the sequencer state the default view draws from
type Live struct {
	Grid     sequencer.Grid
	Step     int
	Playing  bool
	Selected int // step chosen with the scroll pot
	Muted    [sequencer.NumInstruments]bool
}

// Playhead is the running step while playing, the selected step otherwise
func (l Live) Playhead() int {
	if l.Playing {
		return l.Step
	}
	return l.Selected
}
