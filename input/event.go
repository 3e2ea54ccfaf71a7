package input

import (
	"fmt"
	"time"
)

// NumButtons is the size of the 4x4 button matrix; ids are 0-15
const NumButtons = 16

// Kind identifies a classified button gesture
type Kind int

const (
	Press Kind = iota
	DoubleClick
	Hold
	Release
	Combination
)

func (k Kind) String() string {
	switch k {
	case Press:
		return "press"
	case DoubleClick:
		return "double-click"
	case Hold:
		return "hold"
	case Release:
		return "release"
	case Combination:
		return "combination"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Event is one gesture produced by the classifier
type Event struct {
	Kind     Kind
	Button   int           // unused for Combination
	Buttons  []int         // Combination only, ascending
	Duration time.Duration // Hold and Release
}

func (e Event) String() string {
	switch e.Kind {
	case Combination:
		return fmt.Sprintf("%s %v", e.Kind, e.Buttons)
	case Hold, Release:
		return fmt.Sprintf("%s %d (%v)", e.Kind, e.Button, e.Duration.Round(time.Millisecond))
	}
	return fmt.Sprintf("%s %d", e.Kind, e.Button)
}

// Scanner reports the ids of the buttons currently down. Called once per
// frame; implementations debounce.
type Scanner interface {
	Scan() []int
}

// PotReader returns every potentiometer channel normalised to 0.0-1.0
type PotReader interface {
	ReadPots() []float64
}
