package main

import (
	"fmt"
	"os"
	"time"

	"go-drum/config"
	"go-drum/display"
	"go-drum/hardware"
	"go-drum/midi"
	"go-drum/sequencer"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}

	cfg, err := config.Load(os.Getenv("GO_DRUM_CONFIG"))
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	switch os.Args[1] {
	case "buttons":
		withBus(func(bus *hardware.Bus) { testButtons(cfg, bus) })
	case "pots":
		withBus(func(bus *hardware.Bus) { testPots(cfg, bus) })
	case "matrix":
		withBus(func(bus *hardware.Bus) { testMatrix(cfg, bus) })
	case "leds":
		withBus(func(bus *hardware.Bus) { testLEDs(cfg, bus) })
	case "ports":
		listPorts()
	case "launchpad":
		testLaunchpad()
	default:
		usage()
	}
}

func usage() {
	fmt.Println("Hardware Test Scripts")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  buttons    - Print button presses (ctrl+c to exit)")
	fmt.Println("  pots       - Print potentiometer values")
	fmt.Println("  matrix     - Walk a column across the LED matrix")
	fmt.Println("  leds       - Blink each status LED")
	fmt.Println("  ports      - List all MIDI ports")
	fmt.Println("  launchpad  - Print Launchpad pad presses")
	fmt.Println("")
	fmt.Println("GO_DRUM_CONFIG selects a config file.")
}

func withBus(fn func(bus *hardware.Bus)) {
	bus, err := hardware.Open()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	defer bus.Close()
	fn(bus)
}

func testButtons(cfg *config.Config, bus *hardware.Bus) {
	hw := cfg.Hardware
	m, err := hardware.NewButtonMatrix(bus, hw.ButtonRows, hw.ButtonCols, config.Ms(cfg.Input.DebounceMs))
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer m.Close()

	fmt.Printf("Scanning rows %v cols %v...\n", hw.ButtonRows, hw.ButtonCols)
	last := ""
	for {
		state := fmt.Sprint(m.Scan())
		if state != last {
			fmt.Printf("[%s] pressed %s\n", time.Now().Format("15:04:05.000"), state)
			last = state
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func testPots(cfg *config.Config, bus *hardware.Bus) {
	if !bus.SPI() {
		fmt.Println("SPI unavailable (enable it with raspi-config)")
		return
	}
	adc := hardware.NewADC(bus, cfg.Hardware.ADCCS)

	for {
		fmt.Print("\r")
		for ch, v := range adc.ReadPots() {
			fmt.Printf("%d:%4.2f  ", ch, v)
		}
		time.Sleep(100 * time.Millisecond)
	}
}

func testMatrix(cfg *config.Config, bus *hardware.Bus) {
	hw := cfg.Hardware
	m, err := hardware.NewLEDMatrix(bus, hw.MatrixCS, hw.MatrixModules, hw.MatrixBrightness)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer m.Close()

	fmt.Println("Walking the playhead across all columns...")
	grid := make(sequencer.Grid, display.Cols)
	for i := range grid {
		grid[i][i%sequencer.NumInstruments] = true
	}
	for step := 0; step < display.Cols; step++ {
		m.DrawSequencer(grid, step, [sequencer.NumInstruments]bool{}, 0)
		if err := m.Flush(); err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		time.Sleep(60 * time.Millisecond)
	}

	fmt.Println("Showing 120 BPM, press Enter to clear...")
	m.DrawBPM(120, 0)
	m.Flush()
	fmt.Scanln()
	fmt.Println("Done!")
}

func testLEDs(cfg *config.Config, bus *hardware.Bus) {
	leds := hardware.NewStatusLEDs(bus, cfg.Hardware.LEDs)
	defer leds.Close()

	for l := display.Light(0); l < display.NumLights; l++ {
		fmt.Printf("Lighting %s...\n", l)
		leds.Set(l, true)
		time.Sleep(500 * time.Millisecond)
		leds.Set(l, false)
	}
	fmt.Println("Done!")
}

func listPorts() {
	fmt.Println("=== MIDI Input Ports ===")
	fmt.Printf("(waiting up to %v...)\n", midi.PortTimeout)

	ports, err := midi.ListPorts()
	if err != nil {
		fmt.Println("\nTIMEOUT! CoreMIDI is hung.")
		fmt.Println("Fix: sudo killall coreaudiod midiserver")
		return
	}
	for i, p := range ports.Ins {
		fmt.Printf("  %d: %s\n", i, p.String())
	}
	fmt.Println("\n=== MIDI Output Ports ===")
	for i, p := range ports.Outs {
		fmt.Printf("  %d: %s\n", i, p.String())
	}
}

func testLaunchpad() {
	ports, err := midi.ListPorts()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	lp, err := midi.OpenLaunchpad(ports.FindLaunchpad())
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer lp.Close()

	fmt.Println("Press pads on the bottom two rows. Ctrl+C to exit.")
	last := ""
	for {
		pressed := lp.Scan()
		var on [16]bool
		for _, id := range pressed {
			on[id] = true
		}
		lp.ShowPads(on)

		state := fmt.Sprint(pressed)
		if state != last {
			fmt.Printf("[%s] pressed %s\n", time.Now().Format("15:04:05.000"), state)
			last = state
		}
		time.Sleep(10 * time.Millisecond)
	}
}
