package input

import (
	"sort"
	"time"
)

// button is the per-id gesture state, created on first observation
type button struct {
	pressed   bool
	pressedAt time.Time
	lastClick time.Time // zero once a click pair is consumed
	holdFired bool
}

// Classifier turns per-frame pressed snapshots into gestures. It is not
// safe for concurrent use; the main loop owns it.
type Classifier struct {
	doubleClick time.Duration
	hold        time.Duration

	buttons [NumButtons]*button
	held    map[int]bool
}

// NewClassifier creates a classifier with the given double-click window
// and hold threshold
func NewClassifier(doubleClick, hold time.Duration) *Classifier {
	return &Classifier{
		doubleClick: doubleClick,
		hold:        hold,
		held:        make(map[int]bool),
	}
}

// Update consumes one snapshot of pressed ids taken at now and returns the
// events it causes: a combination first, then per-button events in
// ascending id order. Ids outside 0-15 are ignored.
func (c *Classifier) Update(pressed []int, now time.Time) []Event {
	var down [NumButtons]bool
	count := 0
	for _, id := range pressed {
		if id < 0 || id >= NumButtons || down[id] {
			continue
		}
		down[id] = true
		count++
	}

	var events []Event

	if count >= 2 && !c.anyHeld(down) {
		ids := make([]int, 0, count)
		for id, d := range down {
			if d {
				ids = append(ids, id)
				c.held[id] = true
			}
		}
		events = append(events, Event{Kind: Combination, Buttons: ids})
	}

	for id := 0; id < NumButtons; id++ {
		b := c.buttons[id]
		if b == nil {
			if !down[id] {
				continue
			}
			b = &button{}
			c.buttons[id] = b
		}

		switch {
		case down[id] && !b.pressed:
			b.pressed = true
			b.pressedAt = now
			b.holdFired = false

			if !b.lastClick.IsZero() && now.Sub(b.lastClick) < c.doubleClick {
				b.lastClick = time.Time{}
				events = append(events, Event{Kind: DoubleClick, Button: id})
			} else {
				b.lastClick = now
				if count == 1 {
					events = append(events, Event{Kind: Press, Button: id})
				}
			}

		case down[id] && b.pressed:
			d := now.Sub(b.pressedAt)
			if d >= c.hold && !b.holdFired {
				b.holdFired = true
				c.held[id] = true
				events = append(events, Event{Kind: Hold, Button: id, Duration: d})
			}

		case !down[id] && b.pressed:
			b.pressed = false
			delete(c.held, id)
			events = append(events, Event{Kind: Release, Button: id, Duration: now.Sub(b.pressedAt)})
		}
	}

	return events
}

func (c *Classifier) anyHeld(down [NumButtons]bool) bool {
	for id, d := range down {
		if d && c.held[id] {
			return true
		}
	}
	return false
}

// IsHeld reports whether id is part of the held set (held past the
// threshold, or a member of an active combination)
func (c *Classifier) IsHeld(id int) bool {
	return c.held[id]
}

// Held returns the held set in ascending order
func (c *Classifier) Held() []int {
	ids := make([]int, 0, len(c.held))
	for id := range c.held {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Pressed reports whether id was down in the last snapshot
func (c *Classifier) Pressed(id int) bool {
	if id < 0 || id >= NumButtons || c.buttons[id] == nil {
		return false
	}
	return c.buttons[id].pressed
}

// Reset forgets all button state
func (c *Classifier) Reset() {
	c.buttons = [NumButtons]*button{}
	c.held = make(map[int]bool)
}
