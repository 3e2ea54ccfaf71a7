package view

import (
	"fmt"
	"testing"
	"time"

	"go-drum/sequencer"
)

const (
	testTimeout    = 2 * time.Second
	testInactivity = 3 * time.Second
	testAnimation  = 200 * time.Millisecond
)

var t0 = time.Unix(9000, 0)

func at(ms int) time.Time {
	return t0.Add(time.Duration(ms) * time.Millisecond)
}

func newTestManager() *Manager {
	return NewManager(testTimeout, testInactivity, testAnimation, t0)
}

func TestStartsOnDefault(t *testing.T) {
	m := newTestManager()
	if !m.IsDefault() {
		t.Errorf("Current() = %s, want sequencer", m.Current().Name())
	}
}

func TestTransientViewExpires(t *testing.T) {
	m := newTestManager()
	m.ShowFor(BPM{BPM: 128}, 2*time.Second, at(0))

	for ms := 100; ms < 2000; ms += 100 {
		m.RegisterInteraction(at(ms))
		m.Update(at(ms))
		if _, ok := m.Current().(BPM); !ok {
			t.Fatalf("at %dms view = %s, want bpm", ms, m.Current().Name())
		}
	}

	if !m.Update(at(2050)) {
		t.Error("Update() did not report expiry")
	}
	if !m.IsDefault() {
		t.Errorf("view = %s after 2.05s, want sequencer", m.Current().Name())
	}
}

func TestShowDefaultDuration(t *testing.T) {
	m := newTestManager()
	m.Show(Swing{Swing: 30}, at(0))

	m.Update(at(1999))
	if m.IsDefault() {
		t.Fatal("expired early")
	}
	m.Update(at(2000))
	if !m.IsDefault() {
		t.Error("still showing after default duration")
	}
}

func TestReshowRestartsTimer(t *testing.T) {
	m := newTestManager()
	m.Show(BPM{BPM: 100}, at(0))
	m.Show(BPM{BPM: 104}, at(1500))

	m.Update(at(2500))
	v, ok := m.Current().(BPM)
	if !ok || v.BPM != 104 {
		t.Fatalf("view = %#v, want BPM 104", m.Current())
	}
	m.Update(at(3500))
	if !m.IsDefault() {
		t.Error("re-shown view never expired")
	}
}

func TestIndefiniteView(t *testing.T) {
	m := newTestManager()
	m.ShowFor(Mute{}, 0, at(0))

	m.Update(at(60000))
	if _, ok := m.Current().(Mute); !ok {
		t.Fatalf("indefinite view replaced by %s", m.Current().Name())
	}
	if m.Remaining(at(60000)) != 0 {
		t.Error("indefinite view reports a deadline")
	}

	m.Dismiss(at(60001))
	if !m.IsDefault() {
		t.Error("Dismiss() did not return to default")
	}
}

func TestAnimationFrames(t *testing.T) {
	m := newTestManager()
	m.Show(Save{Number: 1}, at(0))

	for ms := 50; ms <= 1000; ms += 50 {
		m.Update(at(ms))
	}
	if got := m.Frame(); got != 5 {
		t.Errorf("Frame() = %d after 1s, want 5", got)
	}

	m.Show(Save{Number: 2}, at(1000))
	if m.Frame() != 0 {
		t.Error("Show() did not reset the frame")
	}
}

func TestInactivityHeartbeat(t *testing.T) {
	m := newTestManager()

	m.Update(at(2999))
	if !m.LastInteraction().Equal(t0) {
		t.Fatal("clock reset before inactivity timeout")
	}
	m.Update(at(3000))
	if !m.LastInteraction().Equal(at(3000)) {
		t.Errorf("LastInteraction() = %v, want reset at 3s", m.LastInteraction())
	}
	if !m.IsDefault() {
		t.Error("heartbeat changed the view")
	}
}

func TestNilViewIsDefault(t *testing.T) {
	m := newTestManager()
	m.Show(Volume{Percent: 50}, at(0))
	m.Show(nil, at(10))
	if !m.IsDefault() {
		t.Error("Show(nil) did not select the default view")
	}
}

// recorder logs Drawer calls
type recorder struct {
	calls []string
}

func (r *recorder) DrawSequencer(grid sequencer.Grid, step int, muted [sequencer.NumInstruments]bool, frame int) {
	r.calls = append(r.calls, fmt.Sprintf("sequencer %d %d", len(grid), step))
}
func (r *recorder) DrawBPM(bpm, frame int) { r.calls = append(r.calls, fmt.Sprintf("bpm %d", bpm)) }
func (r *recorder) DrawSwing(swing, frame int) {
	r.calls = append(r.calls, fmt.Sprintf("swing %d", swing))
}
func (r *recorder) DrawVolume(percent int) {
	r.calls = append(r.calls, fmt.Sprintf("volume %d", percent))
}
func (r *recorder) DrawGroupVolume(label string, level float64) {
	r.calls = append(r.calls, fmt.Sprintf("group %s %.1f", label, level))
}
func (r *recorder) DrawPattern(number, bpm, steps int) {
	r.calls = append(r.calls, fmt.Sprintf("pattern %d %d %d", number, bpm, steps))
}
func (r *recorder) DrawSave(number, frame int) {
	r.calls = append(r.calls, fmt.Sprintf("save %d", number))
}
func (r *recorder) DrawTap(bpm, taps int, confidence float64, frame int) {
	r.calls = append(r.calls, fmt.Sprintf("tap %d %d", bpm, taps))
}
func (r *recorder) DrawMute(muted [sequencer.NumInstruments]bool) {
	r.calls = append(r.calls, fmt.Sprintf("mute %v", muted[0]))
}

func TestRenderDispatch(t *testing.T) {
	live := Live{Grid: make(sequencer.Grid, 16), Step: 5, Selected: 9}

	tests := []struct {
		view View
		want string
	}{
		{Sequencer{}, "sequencer 16 9"},
		{BPM{BPM: 140}, "bpm 140"},
		{Swing{Swing: 25}, "swing 25"},
		{Volume{Percent: 80}, "volume 80"},
		{GroupVolume{Group: Hats, Level: 0.5}, "group HH 0.5"},
		{Pattern{Number: 3, BPM: 120, Steps: 32}, "pattern 3 120 32"},
		{Save{Number: 4}, "save 4"},
		{Tap{BPM: 96, Taps: 3}, "tap 96 3"},
		{Mute{Muted: [sequencer.NumInstruments]bool{true}}, "mute true"},
	}

	for _, tt := range tests {
		t.Run(tt.view.Name(), func(t *testing.T) {
			m := newTestManager()
			m.ShowFor(tt.view, 0, at(0))

			r := &recorder{}
			m.Render(r, live)
			if len(r.calls) != 1 || r.calls[0] != tt.want {
				t.Errorf("Render() calls = %v, want [%s]", r.calls, tt.want)
			}
		})
	}
}

func TestRenderPlayhead(t *testing.T) {
	m := newTestManager()
	r := &recorder{}

	m.Render(r, Live{Grid: make(sequencer.Grid, 32), Step: 5, Selected: 9, Playing: true})
	if r.calls[0] != "sequencer 32 5" {
		t.Errorf("playing playhead call = %s", r.calls[0])
	}
}

func TestGroupInstruments(t *testing.T) {
	if got := Cymbals.Instruments(); got != [2]int{6, 7} {
		t.Errorf("Cymbals.Instruments() = %v", got)
	}
}
