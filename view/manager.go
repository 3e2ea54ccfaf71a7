package view

import (
	"time"

	"go-drum/debug"
)

// Manager decides which view is on the display. It holds no drawing logic.
// Owned by the main loop; not safe for concurrent use.
type Manager struct {
	defaultDuration time.Duration
	inactivity      time.Duration
	animation       time.Duration

	current  View
	started  time.Time
	duration time.Duration // 0 = until replaced

	lastInteraction time.Time
	frame           int
	lastAnimation   time.Time
}

// NewManager starts on the default view. defaultDuration applies to Show,
// inactivity is the idle heartbeat in the default view and animation is
// the frame cadence.
func NewManager(defaultDuration, inactivity, animation time.Duration, now time.Time) *Manager {
	return &Manager{
		defaultDuration: defaultDuration,
		inactivity:      inactivity,
		animation:       animation,
		current:         Sequencer{},
		started:         now,
		lastInteraction: now,
		lastAnimation:   now,
	}
}

// Show replaces the current view for the default transient duration
func (m *Manager) Show(v View, now time.Time) {
	m.ShowFor(v, m.defaultDuration, now)
}

// ShowFor replaces the current view; d == 0 keeps it until replaced.
// Showing the same kind again restarts its timer.
func (m *Manager) ShowFor(v View, d time.Duration, now time.Time) {
	if v == nil {
		v = Sequencer{}
	}
	if d < 0 {
		d = 0
	}

	if m.current.Name() != v.Name() {
		debug.Log("view", "%s -> %s (%v)", m.current.Name(), v.Name(), d)
	}

	m.current = v
	m.started = now
	m.duration = d
	m.lastInteraction = now
	m.frame = 0
}

// Dismiss returns to the default view
func (m *Manager) Dismiss(now time.Time) {
	m.ShowFor(Sequencer{}, 0, now)
}

// RegisterInteraction resets the inactivity clock only; a transient view
// keeps its own deadline
func (m *Manager) RegisterInteraction(now time.Time) {
	m.lastInteraction = now
}

// Update advances the animation frame and expires transient views. It
// returns true when a transient view timed out this call.
func (m *Manager) Update(now time.Time) bool {
	if m.animation > 0 && now.Sub(m.lastAnimation) >= m.animation {
		m.frame++
		m.lastAnimation = now
	}

	expired := false
	if !m.IsDefault() && m.duration > 0 && now.Sub(m.started) >= m.duration {
		debug.Log("view", "%s expired", m.current.Name())
		m.current = Sequencer{}
		m.duration = 0
		m.frame = 0
		expired = true
	}

	// Heartbeat only: the default view has nothing to fall back to
	if m.IsDefault() && now.Sub(m.lastInteraction) >= m.inactivity {
		m.lastInteraction = now
	}

	return expired
}

// Current returns the view on display
func (m *Manager) Current() View {
	return m.current
}

// IsDefault reports whether the live grid is showing
func (m *Manager) IsDefault() bool {
	_, ok := m.current.(Sequencer)
	return ok
}

// Frame returns the animation frame counter
func (m *Manager) Frame() int {
	return m.frame
}

// Remaining is the time left on a transient view, 0 for indefinite ones
func (m *Manager) Remaining(now time.Time) time.Duration {
	if m.duration == 0 {
		return 0
	}
	left := m.duration - now.Sub(m.started)
	if left < 0 {
		return 0
	}
	return left
}

// LastInteraction returns the inactivity clock
func (m *Manager) LastInteraction() time.Time {
	return m.lastInteraction
}

// Render draws the current view
func (m *Manager) Render(d Drawer, live Live) {
	switch v := m.current.(type) {
	case Sequencer:
		d.DrawSequencer(live.Grid, live.Playhead(), live.Muted, m.frame)
	case BPM:
		d.DrawBPM(v.BPM, m.frame)
	case Swing:
		d.DrawSwing(v.Swing, m.frame)
	case Volume:
		d.DrawVolume(v.Percent)
	case GroupVolume:
		d.DrawGroupVolume(v.Group.Label(), v.Level)
	case Pattern:
		d.DrawPattern(v.Number, v.BPM, v.Steps)
	case Save:
		d.DrawSave(v.Number, m.frame)
	case Tap:
		d.DrawTap(v.BPM, v.Taps, v.Confidence, m.frame)
	case Mute:
		d.DrawMute(v.Muted)
	}
}
