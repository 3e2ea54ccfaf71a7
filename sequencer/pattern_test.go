package sequencer

import (
	"sync"
	"testing"
)

func TestPatternSetGetToggle(t *testing.T) {
	p := NewPattern(32)

	for s := 0; s < p.Steps(); s++ {
		for i := 0; i < NumInstruments; i++ {
			p.Set(s, i, true)
			if !p.Get(s, i) {
				t.Fatalf("Get(%d, %d) = false after Set(true)", s, i)
			}
			p.Toggle(s, i)
			p.Toggle(s, i)
			if !p.Get(s, i) {
				t.Fatalf("Get(%d, %d) changed after double toggle", s, i)
			}
		}
	}
}

func TestPatternOutOfRange(t *testing.T) {
	p := NewPattern(16)

	tests := []struct {
		name       string
		step, inst int
	}{
		{"negative step", -1, 0},
		{"step past end", 16, 0},
		{"negative instrument", 0, -1},
		{"instrument past end", 0, NumInstruments},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p.Set(tt.step, tt.inst, true)
			p.Toggle(tt.step, tt.inst)
			if p.Get(tt.step, tt.inst) {
				t.Errorf("Get(%d, %d) = true, want false", tt.step, tt.inst)
			}
		})
	}

	if !p.Empty() {
		t.Error("out-of-range writes modified the pattern")
	}
}

func TestPatternDefaultSteps(t *testing.T) {
	if got := NewPattern(0).Steps(); got != 16 {
		t.Errorf("NewPattern(0).Steps() = %d, want 16", got)
	}
}

func TestPatternClear(t *testing.T) {
	p := NewPattern(16)
	p.Set(0, 0, true)
	p.Set(15, 7, true)
	p.Clear()

	for s := 0; s < p.Steps(); s++ {
		for i := 0; i < NumInstruments; i++ {
			if p.Get(s, i) {
				t.Fatalf("Get(%d, %d) = true after Clear", s, i)
			}
		}
	}
	if !p.Empty() {
		t.Error("Empty() = false after Clear")
	}
}

func TestPatternReplaceKeepsStepCount(t *testing.T) {
	p := NewPattern(16)
	p.Set(10, 3, true)

	short := make(Grid, 4)
	short[1][2] = true
	p.Replace(short)

	if p.Steps() != 16 {
		t.Fatalf("Steps() = %d after Replace, want 16", p.Steps())
	}
	if !p.Get(1, 2) {
		t.Error("loaded cell missing")
	}
	if p.Get(10, 3) {
		t.Error("cell outside loaded grid not cleared")
	}

	long := make(Grid, 64)
	long[40][0] = true
	long[15][5] = true
	p.Replace(long)
	if !p.Get(15, 5) {
		t.Error("last overlapping step not copied")
	}
}

func TestPatternSnapshotIsCopy(t *testing.T) {
	p := NewPattern(16)
	p.Set(2, 2, true)

	g := p.Snapshot()
	g[2][2] = false
	g[3][3] = true

	if !p.Get(2, 2) || p.Get(3, 3) {
		t.Error("Snapshot shares memory with the pattern")
	}
}

func TestPatternConcurrentAccess(t *testing.T) {
	p := NewPattern(32)
	var wg sync.WaitGroup

	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for n := 0; n < 1024; n++ {
				p.Toggle(n%32, w)
				_ = p.Row(n % 32)
				_ = p.Snapshot()
			}
		}(w)
	}
	wg.Wait()

	// each cell was toggled an even number of times
	if !p.Empty() {
		t.Error("pattern not empty after paired toggles")
	}
}
