package midi

import "go-drum/sequencer"

// Kit maps the eight instruments to MIDI notes
type Kit struct {
	Name  string
	Notes [sequencer.NumInstruments]uint8
}

// Instrument order: kick, snare, closed hh, open hh, tom1, tom2, crash, ride

// Kits contains all available drum kit mappings
var Kits = map[string]Kit{
	"gm": {
		Name: "General MIDI",
		Notes: [sequencer.NumInstruments]uint8{
			36, // Kick
			38, // Snare
			42, // Closed HH
			46, // Open HH
			48, // Hi-mid Tom
			45, // Low Tom
			49, // Crash
			51, // Ride
		},
	},
	"rd8": {
		Name: "Behringer RD-8",
		Notes: [sequencer.NumInstruments]uint8{
			36, // Kick (BD)
			40, // Snare (SD) - RD-8 uses 40, not 38
			42, // Closed HH (CH)
			46, // Open HH (OH)
			48, // Mid Tom (MT)
			45, // Low Tom (LT)
			49, // Crash (CY)
			51, // Ride (RC)
		},
	},
	"tr8s": {
		Name: "Roland TR-8S",
		Notes: [sequencer.NumInstruments]uint8{
			36, // Kick
			38, // Snare
			42, // Closed HH
			46, // Open HH
			47, // Mid Tom
			43, // Low Tom
			49, // Crash
			51, // Ride
		},
	},
	"er1": {
		Name: "Korg ER-1",
		Notes: [sequencer.NumInstruments]uint8{
			36, // Perc Synth 1
			38, // Perc Synth 2
			42, // Closed HH (PCM)
			46, // Open HH (PCM)
			40, // Perc Synth 3
			41, // Perc Synth 4
			49, // Crash (PCM)
			45, // Audio In 2
		},
	},
}

// DefaultKit is the default kit name
const DefaultKit = "gm"

// KitNames returns the list of available kit names
func KitNames() []string {
	return []string{"gm", "rd8", "tr8s", "er1"}
}

// GetKit returns a kit by name, defaulting to GM if not found
func GetKit(name string) Kit {
	if kit, ok := Kits[name]; ok {
		return kit
	}
	return Kits[DefaultKit]
}
