package widgets

import (
	"strings"
	"testing"
)

func TestRenderMeter(t *testing.T) {
	full, empty := [3]uint8{255, 0, 0}, [3]uint8{0, 0, 0}

	tests := []struct {
		value float64
		want  int
	}{
		{-1, 0},
		{0, 0},
		{0.5, 5},
		{0.96, 10},
		{3, 10},
	}
	for _, tt := range tests {
		out := RenderMeter(tt.value, 10, full, empty)
		if got := strings.Count(out, "▮"); got != tt.want {
			t.Errorf("RenderMeter(%v) has %d full cells, want %d", tt.value, got, tt.want)
		}
		if got := strings.Count(out, "▮") + strings.Count(out, "▯"); got != 10 {
			t.Errorf("RenderMeter(%v) has %d cells, want 10", tt.value, got)
		}
	}
}

func TestRenderDotMatrix(t *testing.T) {
	rows := [][]bool{
		{true, false, true},
		{false, false, false},
	}
	out := RenderDotMatrix(rows, 'o', [3]uint8{255, 255, 255}, [3]uint8{0, 0, 0})

	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	for i, line := range lines {
		if n := strings.Count(line, "o"); n != 3 {
			t.Errorf("line %d has %d pixels, want 3", i, n)
		}
	}
}

func TestRenderButtonGrid(t *testing.T) {
	buttons := []Button{
		{Label: "KICK", Key: "1"},
		{Label: "SNARE", Key: "2", Down: true},
		{Label: "PLAY", Key: "a", Lit: true},
	}
	out := RenderButtonGrid(buttons, 2, [3]uint8{1, 1, 1}, [3]uint8{2, 2, 2}, [3]uint8{3, 3, 3})
	for _, want := range []string{"KICK", "SNARE", "PLAY"} {
		if !strings.Contains(out, want) {
			t.Errorf("grid missing %q", want)
		}
	}
}
