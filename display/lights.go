package display

// Light is one of the five status LEDs
type Light int

const (
	Red    Light = iota // pad mode
	Green               // sequencer mode
	Yellow              // playing
	Blue                // beat / tap / copy
	White               // saved / lock
)

// NumLights is the number of status LEDs
const NumLights = 5

func (l Light) String() string {
	switch l {
	case Red:
		return "red"
	case Green:
		return "green"
	case Yellow:
		return "yellow"
	case Blue:
		return "blue"
	case White:
		return "white"
	}
	return "unknown"
}
