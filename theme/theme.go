package theme

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"go-drum/display"
)

type Theme struct {
	Palette *Palette
	Symbols Symbols
}

type Symbols struct {
	Pixel rune // ■ one LED of the matrix
	Light rune // ● status LED
	Pot   rune // ▸ selected pot marker
}

func New(palette *Palette) *Theme {
	if palette == nil {
		palette = Default()
	}
	return &Theme{
		Palette: palette,
		Symbols: Symbols{
			Pixel: '■',
			Light: '●',
			Pot:   '▸',
		},
	}
}

// Color roles mapped to palette positions (0-1)
const (
	RoleBG      = 0.0 // deep purple
	RoleSurface = 0.1 // dark purple
	RoleMuted   = 0.2 // purple-magenta
	RoleFG      = 0.4 // pink-purple (readable)
	RoleAccent  = 0.5 // vivid magenta
	RoleCursor  = 0.6 // rose pink
	RoleActive  = 0.7 // soft red
	RoleWarning = 0.8 // orange
	RoleSuccess = 1.0 // bright yellow
)

// Status LED colors, fixed so they read like the real parts
var lightRGB = [display.NumLights]RGB{
	display.Red:    {0xe0, 0x30, 0x30},
	display.Green:  {0x30, 0xd0, 0x50},
	display.Yellow: {0xf0, 0xd0, 0x30},
	display.Blue:   {0x40, 0x70, 0xf0},
	display.White:  {0xf0, 0xf0, 0xf0},
}

// Style helpers

func (t *Theme) BG() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleBG))
}

func (t *Theme) FG() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleFG))
}

func (t *Theme) Accent() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleAccent))
}

func (t *Theme) Muted() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleMuted))
}

func (t *Theme) Warning() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleWarning))
}

// RGB returns raw RGB for any normalized value
func (t *Theme) RGB(norm float64) RGB {
	return t.Palette.Lookup(norm)
}

// LightRGB returns the color of a status LED
func (t *Theme) LightRGB(l display.Light) RGB {
	if l < 0 || l >= display.NumLights {
		return t.RGB(RoleSurface)
	}
	return lightRGB[l]
}

func rgbToLipgloss(c RGB) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2]))
}
