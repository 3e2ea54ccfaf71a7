package hardware

import (
	"reflect"
	"testing"
	"time"

	"go-drum/display"
)

func TestDebouncer(t *testing.T) {
	d := debouncer{window: 20 * time.Millisecond}
	t0 := time.Unix(100, 0)
	ms := func(n int) time.Time { return t0.Add(time.Duration(n) * time.Millisecond) }

	steps := []struct {
		name    string
		pressed bool
		at      int
		want    bool
	}{
		{"first press", true, 0, true},
		{"held", true, 5, true},
		{"bounce release", false, 8, false},
		{"bounce press inside window", true, 12, false},
		{"release", false, 15, false},
		{"press after window", true, 40, true},
	}

	for _, s := range steps {
		if got := d.update(3, s.pressed, ms(s.at)); got != s.want {
			t.Errorf("%s: update() = %v, want %v", s.name, got, s.want)
		}
	}
}

func TestMCP3008Framing(t *testing.T) {
	tests := []struct {
		ch   int
		want []byte
	}{
		{0, []byte{0x01, 0x80, 0x00}},
		{7, []byte{0x01, 0xF0, 0x00}},
	}
	for _, tt := range tests {
		if got := mcp3008Request(tt.ch); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("mcp3008Request(%d) = %#v, want %#v", tt.ch, got, tt.want)
		}
	}

	if got := mcp3008Value([]byte{0xFF, 0x03, 0xFF}); got != 1023 {
		t.Errorf("mcp3008Value(full scale) = %d", got)
	}
	if got := mcp3008Value([]byte{0x00, 0xFE, 0x10}); got != 0x210 {
		t.Errorf("mcp3008Value masks high bits: got %#x", got)
	}
}

func TestSmooth(t *testing.T) {
	if got := smooth(1000, 0); got != 500 {
		t.Errorf("smooth(1000, 0) = %d", got)
	}
}

func TestRowPacket(t *testing.T) {
	var f display.Frame
	f[0][0] = true  // module 0, MSB
	f[0][31] = true // module 3, LSB

	got := rowPacket(&f, 0, 4)
	want := []byte{
		regDigit0, 0x01, // module 3 first
		regDigit0, 0x00,
		regDigit0, 0x00,
		regDigit0, 0x80, // module 0 last
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("rowPacket() = %#v, want %#v", got, want)
	}

	if got := rowPacket(&f, 7, 4); got[0] != regDigit0+7 {
		t.Errorf("row 7 register = %#x", got[0])
	}
}
