// Package tui is a terminal stand-in for the front panel, for running the
// machine without the Raspberry Pi hardware.
package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"go-drum/display"
	"go-drum/sequencer"
	"go-drum/theme"
	"go-drum/widgets"
)

const refresh = time.Second / 30

// Keys in panel order, four per row. Shifted keys latch.
const (
	tapKeys   = "1234qwerasdfzxcv"
	latchKeys = "!@#$QWERASDFZXCV"
)

var buttonLabels = [16]string{
	"KICK", "SNARE", "CHH", "OHH",
	"TOM1", "TOM2", "CRASH", "RIDE",
	"PLAY", "MODE", "PREV", "NEXT",
	"CLEAR", "SAVE", "COPY", "MUTE",
}

var potLabels = [8]string{
	"scroll", "tempo", "swing", "master",
	"drums", "hats", "toms", "cymbals",
}

var lightLabels = [display.NumLights]string{
	display.Red:    "pad",
	display.Green:  "seq",
	display.Yellow: "play",
	display.Blue:   "beat",
	display.White:  "save",
}

type Model struct {
	Panel    *Panel
	Canvas   *display.Canvas
	Seq      *sequencer.Sequencer
	Theme    *theme.Theme
	quitting bool
}

type tickMsg time.Time

func NewModel(panel *Panel, canvas *display.Canvas, seq *sequencer.Sequencer, th *theme.Theme) Model {
	return Model{
		Panel:  panel,
		Canvas: canvas,
		Seq:    seq,
		Theme:  th,
	}
}

func tick() tea.Cmd {
	return tea.Tick(refresh, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		key := msg.String()
		switch key {
		case "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		case "left":
			m.Panel.SelectPot(-1)
		case "right":
			m.Panel.SelectPot(1)
		case "up":
			m.Panel.Turn(0.02)
		case "down":
			m.Panel.Turn(-0.02)
		case "pgup":
			m.Panel.Turn(0.1)
		case "pgdown":
			m.Panel.Turn(-0.1)
		default:
			if len(key) != 1 {
				break
			}
			if i := strings.Index(tapKeys, key); i >= 0 {
				m.Panel.Tap(i)
			} else if i := strings.Index(latchKeys, key); i >= 0 {
				m.Panel.Latch(i)
			}
		}

	case tickMsg:
		return m, tick()
	}

	return m, nil
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	headerStyle := lipgloss.NewStyle().Foreground(m.Theme.Accent())
	dimStyle := lipgloss.NewStyle().Foreground(m.Theme.Muted())
	off := m.Theme.RGB(theme.RoleSurface)

	st := m.Seq.State()
	playState := "STOP"
	if st.Playing {
		playState = "PLAY"
	}
	header := headerStyle.Render(fmt.Sprintf("go-drum  %s  P%d  %3dbpm  swing %2d%%  step %02d/%02d",
		playState, st.PatternID, st.BPM, st.Swing, st.Step+1, m.Seq.Steps()))

	// LED matrix
	frame := m.Canvas.Snapshot()
	rows := make([][]bool, display.Rows)
	for r := range rows {
		rows[r] = frame[r][:]
	}
	matrix := widgets.RenderDotMatrix(rows, m.Theme.Symbols.Pixel, m.Theme.RGB(theme.RoleWarning), off)

	// Status lights
	var lights []string
	for l := display.Light(0); l < display.NumLights; l++ {
		lights = append(lights, widgets.RenderLight(lightLabels[l], m.Panel.Lit(l), m.Theme.LightRGB(l), off))
	}

	// Buttons
	buttons := make([]widgets.Button, len(buttonLabels))
	for i, label := range buttonLabels {
		buttons[i] = widgets.Button{
			Label: label,
			Key:   string(tapKeys[i]),
			Down:  m.Panel.Down(i),
			Lit:   m.Panel.Latched(i),
		}
	}
	grid := widgets.RenderButtonGrid(buttons, 4,
		m.Theme.RGB(theme.RoleMuted), m.Theme.RGB(theme.RoleSuccess), m.Theme.RGB(theme.RoleActive))

	// Pots
	values, selected := m.Panel.Pots()
	var pots []string
	for ch, v := range values {
		marker := " "
		if ch == selected {
			marker = string(m.Theme.Symbols.Pot)
		}
		pots = append(pots, fmt.Sprintf("%s %-8s %s %3d%%", marker, potLabels[ch],
			widgets.RenderMeter(v, 12, m.Theme.RGB(theme.RoleAccent), off), int(v*100+0.5)))
	}

	help := dimStyle.Render(widgets.RenderKeyHelp([]widgets.KeySection{{
		Keys: []widgets.KeyBinding{
			{Key: "1-4 q-r a-f z-v", Desc: "press button (shift latches)"},
			{Key: "left/right", Desc: "select pot"},
			{Key: "up/down pgup/pgdn", Desc: "turn pot"},
			{Key: "esc", Desc: "quit"},
		},
	}}))

	controls := lipgloss.JoinHorizontal(lipgloss.Top, grid, "  ", strings.Join(pots, "\n"))

	var out strings.Builder
	out.WriteString("\n")
	out.WriteString(header)
	out.WriteString("\n\n")
	out.WriteString(matrix)
	out.WriteString("\n\n")
	out.WriteString(strings.Join(lights, "   "))
	out.WriteString("\n\n")
	out.WriteString(controls)
	out.WriteString("\n\n")
	out.WriteString(help)

	return out.String()
}
