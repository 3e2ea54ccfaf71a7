package input

import (
	"reflect"
	"testing"
	"time"
)

const (
	testDoubleClick = 300 * time.Millisecond
	testHold        = 800 * time.Millisecond
)

var t0 = time.Unix(5000, 0)

func at(ms int) time.Time {
	return t0.Add(time.Duration(ms) * time.Millisecond)
}

func kinds(events []Event) []Kind {
	out := make([]Kind, len(events))
	for i, e := range events {
		out[i] = e.Kind
	}
	return out
}

// frame is one snapshot fed to the classifier
type frame struct {
	ms      int
	pressed []int
}

func run(c *Classifier, frames []frame) []Event {
	var all []Event
	for _, f := range frames {
		all = append(all, c.Update(f.pressed, at(f.ms))...)
	}
	return all
}

func TestClassifierSequences(t *testing.T) {
	tests := []struct {
		name   string
		frames []frame
		want   []Kind
	}{
		{
			name:   "short press",
			frames: []frame{{0, []int{3}}, {100, []int{3}}, {200, nil}},
			want:   []Kind{Press, Release},
		},
		{
			name:   "long press holds once",
			frames: []frame{{0, []int{3}}, {500, []int{3}}, {900, []int{3}}, {1500, []int{3}}, {3000, []int{3}}, {3100, nil}},
			want:   []Kind{Press, Hold, Release},
		},
		{
			name:   "double click",
			frames: []frame{{0, []int{8}}, {50, nil}, {150, []int{8}}, {200, nil}},
			want:   []Kind{Press, Release, DoubleClick, Release},
		},
		{
			name:   "second click outside window",
			frames: []frame{{0, []int{8}}, {50, nil}, {400, []int{8}}, {450, nil}},
			want:   []Kind{Press, Release, Press, Release},
		},
		{
			name:   "third click starts a new pair",
			frames: []frame{{0, []int{8}}, {20, nil}, {100, []int{8}}, {120, nil}, {200, []int{8}}, {220, nil}},
			want:   []Kind{Press, Release, DoubleClick, Release, Press, Release},
		},
		{
			name:   "combination suppresses press",
			frames: []frame{{0, []int{2, 5}}, {100, []int{2, 5}}, {200, nil}},
			want:   []Kind{Combination, Release, Release},
		},
		{
			name:   "combination members still hold",
			frames: []frame{{0, []int{2, 5}}, {900, []int{2, 5}}, {1000, nil}},
			want:   []Kind{Combination, Hold, Hold, Release, Release},
		},
		{
			name:   "overlap with a held button is not a combination",
			frames: []frame{{0, []int{9}}, {900, []int{9}}, {1000, []int{9, 10}}, {1100, nil}},
			want:   []Kind{Press, Hold, Release, Release},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewClassifier(testDoubleClick, testHold)
			got := kinds(run(c, tt.frames))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("events = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClassifierDurations(t *testing.T) {
	c := NewClassifier(testDoubleClick, testHold)
	events := run(c, []frame{{0, []int{12}}, {900, []int{12}}, {3200, []int{12}}, {3500, nil}})

	if len(events) != 3 {
		t.Fatalf("events = %v", events)
	}
	if events[1].Kind != Hold || events[1].Duration != 900*time.Millisecond {
		t.Errorf("hold = %v", events[1])
	}
	if events[2].Kind != Release || events[2].Duration != 3500*time.Millisecond {
		t.Errorf("release = %v", events[2])
	}
}

func TestClassifierCombinationOrder(t *testing.T) {
	c := NewClassifier(testDoubleClick, testHold)
	c.Update([]int{4}, at(0))
	c.Update(nil, at(10))
	c.Update([]int{1}, at(20))
	c.Update(nil, at(30))

	// both buttons come back inside their double-click windows
	events := c.Update([]int{4, 1}, at(100))

	want := []Event{
		{Kind: Combination, Buttons: []int{1, 4}},
		{Kind: DoubleClick, Button: 1},
		{Kind: DoubleClick, Button: 4},
	}
	if !reflect.DeepEqual(events, want) {
		t.Errorf("events = %v, want %v", events, want)
	}
}

func TestClassifierHeldSet(t *testing.T) {
	c := NewClassifier(testDoubleClick, testHold)

	c.Update([]int{13, 10}, at(0))
	if !c.IsHeld(13) || !c.IsHeld(10) {
		t.Errorf("Held() = %v after combination", c.Held())
	}
	if !reflect.DeepEqual(c.Held(), []int{10, 13}) {
		t.Errorf("Held() = %v, want [10 13]", c.Held())
	}

	c.Update([]int{13}, at(50))
	if c.IsHeld(10) || !c.IsHeld(13) {
		t.Errorf("Held() = %v after releasing 10", c.Held())
	}
	if !c.Pressed(13) || c.Pressed(10) {
		t.Error("Pressed() out of sync")
	}

	c.Reset()
	if len(c.Held()) != 0 || c.Pressed(13) {
		t.Error("Reset() kept state")
	}
}

func TestClassifierIgnoresUnknownIDs(t *testing.T) {
	c := NewClassifier(testDoubleClick, testHold)
	events := c.Update([]int{-1, 3, 16, 3, 99}, at(0))

	want := []Event{{Kind: Press, Button: 3}}
	if !reflect.DeepEqual(events, want) {
		t.Errorf("events = %v, want %v", events, want)
	}
}

func TestPotTracker(t *testing.T) {
	p := NewPotTracker(4, 0.05, 1.0)

	tests := []struct {
		name string
		ch   int
		v    float64
		want bool
	}{
		{"noise", 0, 0.97, false},
		{"real move", 0, 0.9, true},
		{"noise around new value", 0, 0.93, false},
		{"other channel untouched", 1, 1.0, false},
		{"unknown channel", 7, 0.0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.Changed(tt.ch, tt.v); got != tt.want {
				t.Errorf("Changed(%d, %v) = %v, want %v", tt.ch, tt.v, got, tt.want)
			}
		})
	}

	if p.Value(0) != 0.9 {
		t.Errorf("Value(0) = %v, want 0.9", p.Value(0))
	}
}
