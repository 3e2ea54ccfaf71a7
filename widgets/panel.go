package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// RenderPad renders a single colored pad
func RenderPad(color [3]uint8) string {
	return RenderGlyph('■', color)
}

// RenderGlyph renders one rune in a color
func RenderGlyph(r rune, color [3]uint8) string {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color(rgbToHex(color)))
	return style.Render(string(r))
}

// RenderPadRow renders a row of colored pads with spacing
func RenderPadRow(colors [][3]uint8) string {
	var out strings.Builder
	for i, c := range colors {
		if i > 0 {
			out.WriteString(" ")
		}
		out.WriteString(RenderPad(c))
	}
	return out.String()
}

// RenderDotMatrix renders an LED matrix, one glyph per pixel, top row first
func RenderDotMatrix(rows [][]bool, pixel rune, on, off [3]uint8) string {
	onStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(rgbToHex(on)))
	offStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(rgbToHex(off)))

	lines := make([]string, len(rows))
	for r, row := range rows {
		var line strings.Builder
		for _, lit := range row {
			if lit {
				line.WriteString(onStyle.Render(string(pixel)))
			} else {
				line.WriteString(offStyle.Render(string(pixel)))
			}
		}
		lines[r] = line.String()
	}
	return strings.Join(lines, "\n")
}

// Button is one cell of a button grid
type Button struct {
	Label string
	Key   string
	Down  bool
	Lit   bool
}

// RenderButtonGrid renders buttons in rows of cols, each boxed with its key
func RenderButtonGrid(buttons []Button, cols int, up, down, lit [3]uint8) string {
	base := lipgloss.NewStyle().
		Width(7).
		Align(lipgloss.Center).
		Border(lipgloss.RoundedBorder())

	var rows []string
	for start := 0; start < len(buttons); start += cols {
		end := start + cols
		if end > len(buttons) {
			end = len(buttons)
		}
		var cells []string
		for _, b := range buttons[start:end] {
			color := up
			if b.Lit {
				color = lit
			}
			if b.Down {
				color = down
			}
			style := base.BorderForeground(lipgloss.Color(rgbToHex(color))).
				Foreground(lipgloss.Color(rgbToHex(color)))
			cells = append(cells, style.Render(fmt.Sprintf("%s\n%s", b.Label, b.Key)))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// RenderLight renders a status LED with its label
func RenderLight(label string, on bool, color, off [3]uint8) string {
	if !on {
		color = off
	}
	return RenderGlyph('●', color) + " " + label
}

// RenderMeter renders a 0-1 value as a bar of width cells
func RenderMeter(value float64, width int, full, empty [3]uint8) string {
	if value < 0 {
		value = 0
	}
	if value > 1 {
		value = 1
	}
	n := int(value*float64(width) + 0.5)

	var out strings.Builder
	for i := 0; i < width; i++ {
		if i < n {
			out.WriteString(RenderGlyph('▮', full))
		} else {
			out.WriteString(RenderGlyph('▯', empty))
		}
	}
	return out.String()
}

// RenderKeyHelp formats key bindings in a friendly way
func RenderKeyHelp(sections []KeySection) string {
	var lines []string
	for _, sec := range sections {
		if sec.Title != "" {
			lines = append(lines, sec.Title)
		}
		for _, k := range sec.Keys {
			lines = append(lines, fmt.Sprintf("  %-12s %s", k.Key, k.Desc))
		}
	}
	return strings.Join(lines, "\n")
}

// KeySection groups related key bindings
type KeySection struct {
	Title string
	Keys  []KeyBinding
}

// KeyBinding is a single key and its description
type KeyBinding struct {
	Key  string
	Desc string
}

func rgbToHex(c [3]uint8) string {
	return fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2])
}
