package display

import (
	"strconv"
	"sync"

	"go-drum/sequencer"
)

// Matrix size: four cascaded 8x8 modules
const (
	Rows = 8
	Cols = 32
)

// Frame is one full image, indexed [row][col]
type Frame [Rows][Cols]bool

// Canvas is the LED framebuffer. It implements view.Drawer; each Draw
// call replaces the whole image. Safe for concurrent readers.
type Canvas struct {
	mu  sync.RWMutex
	px  Frame
	gen uint64 // bumped on every draw
}

// NewCanvas returns a blank canvas
func NewCanvas() *Canvas {
	return &Canvas{}
}

// Snapshot returns a copy of the image
func (c *Canvas) Snapshot() Frame {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.px
}

// Generation changes whenever the image is redrawn
func (c *Canvas) Generation() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.gen
}

// Get reads one pixel; out of range is off
func (c *Canvas) Get(row, col int) bool {
	if row < 0 || row >= Rows || col < 0 || col >= Cols {
		return false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.px[row][col]
}

// RowBytes packs one row into bytes, one per 8x8 module, MSB leftmost
func (f *Frame) RowBytes(row int) [Cols / 8]byte {
	var out [Cols / 8]byte
	for col := 0; col < Cols; col++ {
		if f[row][col] {
			out[col/8] |= 0x80 >> uint(col%8)
		}
	}
	return out
}

// draw runs fn on a cleared frame and publishes it
func (c *Canvas) draw(fn func(f *Frame)) {
	var f Frame
	fn(&f)
	c.mu.Lock()
	c.px = f
	c.gen++
	c.mu.Unlock()
}

// Clear blanks the canvas
func (c *Canvas) Clear() {
	c.draw(func(*Frame) {})
}

func (f *Frame) set(row, col int) {
	if row >= 0 && row < Rows && col >= 0 && col < Cols {
		f[row][col] = true
	}
}

func (f *Frame) text(s string, row, col int) {
	for _, r := range s {
		g, ok := glyphs[r]
		if !ok {
			g = glyphs['?']
		}
		for y := 0; y < glyphHeight; y++ {
			for x := 0; x < glyphWidth; x++ {
				if g[y]&(4>>uint(x)) != 0 {
					f.set(row+y, col+x)
				}
			}
		}
		col += glyphWidth + glyphGap
	}
}

// bar lights the first n of Cols columns on row
func (f *Frame) bar(row int, level float64) {
	n := int(level*Cols + 0.5)
	for col := 0; col < n && col < Cols; col++ {
		f.set(row, col)
	}
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// DrawSequencer maps instruments to rows and steps to columns; a 16-step
// pattern uses two columns per step. The playhead column is inverted and
// muted rows blink with the animation frame.
func (c *Canvas) DrawSequencer(grid sequencer.Grid, step int, muted [sequencer.NumInstruments]bool, frame int) {
	c.draw(func(f *Frame) {
		steps := len(grid)
		if steps == 0 {
			return
		}
		width := Cols / steps
		if width < 1 {
			width = 1
		}

		for s, row := range grid {
			for x := 0; x < width; x++ {
				col := s*width + x
				if col >= Cols {
					break
				}
				for i, hit := range row {
					on := hit
					if muted[i] && frame%2 == 1 {
						on = false
					}
					if s == step {
						on = !on
					}
					if on {
						f.set(i, col)
					}
				}
			}
		}
	})
}

func (c *Canvas) DrawBPM(bpm, frame int) {
	c.draw(func(f *Frame) {
		f.text("B", 0, 0)
		f.text(strconv.Itoa(bpm), 0, 6)
		// beat marker moves with the animation
		f.set(7, (frame%8)*4)
		f.set(7, (frame%8)*4+1)
	})
}

func (c *Canvas) DrawSwing(swing, frame int) {
	c.draw(func(f *Frame) {
		f.text("S", 0, 0)
		f.text(strconv.Itoa(swing), 0, 6)
		f.bar(7, float64(swing)/float64(sequencer.MaxSwing))
	})
}

func (c *Canvas) DrawVolume(percent int) {
	c.draw(func(f *Frame) {
		f.text("V", 0, 0)
		f.text(strconv.Itoa(percent), 0, 6)
		f.bar(6, clampUnit(float64(percent)/100))
		f.bar(7, clampUnit(float64(percent)/100))
	})
}

func (c *Canvas) DrawGroupVolume(label string, level float64) {
	c.draw(func(f *Frame) {
		f.text(label, 0, 0)
		f.text(strconv.Itoa(int(clampUnit(level)*100+0.5)), 0, TextWidth(label)+2)
		f.bar(7, clampUnit(level))
	})
}

func (c *Canvas) DrawPattern(number, bpm, steps int) {
	c.draw(func(f *Frame) {
		f.text("P"+strconv.Itoa(number), 0, 0)
		f.text(strconv.Itoa(bpm), 0, 12)
		// one dot per four steps
		for i := 0; i < steps/4 && i*2 < Cols; i++ {
			f.set(7, i*2)
		}
	})
}

func (c *Canvas) DrawSave(number, frame int) {
	c.draw(func(f *Frame) {
		if frame%2 == 1 {
			return
		}
		f.text("S"+strconv.Itoa(number), 0, 0)
		f.text("W", 0, 12)
	})
}

func (c *Canvas) DrawTap(bpm, taps int, confidence float64, frame int) {
	c.draw(func(f *Frame) {
		f.text("T", 0, 0)
		if bpm > 0 {
			f.text(strconv.Itoa(bpm), 0, 6)
		} else if frame%2 == 0 {
			f.text("?", 0, 6)
		}
		for i := 0; i < taps && i < 8; i++ {
			f.set(6, i*4)
			f.set(6, i*4+1)
		}
		f.bar(7, clampUnit(confidence))
	})
}

func (c *Canvas) DrawMute(muted [sequencer.NumInstruments]bool) {
	c.draw(func(f *Frame) {
		for i, m := range muted {
			if !m {
				continue
			}
			for col := 0; col < Cols; col++ {
				f.set(i, col)
			}
		}
	})
}
