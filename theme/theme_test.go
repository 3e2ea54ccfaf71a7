package theme

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadGPL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.gpl")
	data := "GIMP Palette\nName: test\nColumns: 2\n# comment\n0 0 0 black\n255 255 255 white\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	p, err := LoadGPL(path)
	if err != nil {
		t.Fatalf("LoadGPL() error = %v", err)
	}
	if p.Name != "test" || len(p.Colors) != 2 {
		t.Fatalf("palette = %+v", p)
	}

	tests := []struct {
		norm float64
		want RGB
	}{
		{-1, RGB{0, 0, 0}},
		{0, RGB{0, 0, 0}},
		{0.5, RGB{127, 127, 127}},
		{1, RGB{255, 255, 255}},
		{2, RGB{255, 255, 255}},
	}
	for _, tt := range tests {
		if got := p.Lookup(tt.norm); got != tt.want {
			t.Errorf("Lookup(%v) = %v, want %v", tt.norm, got, tt.want)
		}
	}
}

func TestLoadGPLEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.gpl")
	if err := os.WriteFile(path, []byte("GIMP Palette\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadGPL(path); err == nil {
		t.Error("LoadGPL() accepted a palette without colors")
	}
}

func TestSingleColorLookup(t *testing.T) {
	p := &Palette{Colors: []RGB{{1, 2, 3}}}
	if got := p.Lookup(0.5); got != (RGB{1, 2, 3}) {
		t.Errorf("Lookup(0.5) = %v", got)
	}
}

func TestNewDefaultsPalette(t *testing.T) {
	th := New(nil)
	if th.Palette == nil || len(th.Palette.Colors) == 0 {
		t.Fatal("New(nil) has no palette")
	}
}

func TestReadGPLSkipsMalformedEntries(t *testing.T) {
	data := `GIMP Palette
Name:   warm
Columns: 4
#
255 128 0	orange
300 0 0	out of range
1 2	short
x 2 3	not a number
10 20 30
`
	p, err := ReadGPL(strings.NewReader(data))
	if err != nil {
		t.Fatalf("ReadGPL() error = %v", err)
	}
	if p.Name != "warm" {
		t.Errorf("Name = %q, want warm", p.Name)
	}
	want := []RGB{{255, 128, 0}, {10, 20, 30}}
	if len(p.Colors) != len(want) {
		t.Fatalf("Colors = %v, want %v", p.Colors, want)
	}
	for i := range want {
		if p.Colors[i] != want[i] {
			t.Errorf("Colors[%d] = %v, want %v", i, p.Colors[i], want[i])
		}
	}
}
