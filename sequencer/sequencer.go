package sequencer

import (
	"sync"
	"time"

	"go-drum/debug"
)

// StopTimeout bounds how long Stop waits for the play loop to exit
const StopTimeout = time.Second

// Player triggers a sample. Implementations must not block.
type Player interface {
	PlaySample(instrument int)
}

// PlayerFunc adapts a function to Player
type PlayerFunc func(instrument int)

func (f PlayerFunc) PlaySample(instrument int) { f(instrument) }

// Players fans one trigger out to several sinks (audio, MIDI)
type Players []Player

func (ps Players) PlaySample(instrument int) {
	for _, p := range ps {
		if p != nil {
			p.PlaySample(instrument)
		}
	}
}

// StepDuration is the swing-adjusted length of a step at sixteenth-note
// resolution. Odd steps are stretched by swing/100 and even steps shortened
// by swing/200.
func StepDuration(bpm, swing, step int) time.Duration {
	if bpm <= 0 {
		bpm = MinBPM
	}
	seconds := 60.0 / float64(bpm) / 4.0

	if swing > 0 {
		if step%2 == 1 {
			seconds *= 1.0 + float64(swing)/100.0
		} else {
			seconds *= 1.0 - float64(swing)/200.0
		}
	}

	return time.Duration(seconds * float64(time.Second))
}

// run is one playback session. The loop only mutates sequencer state while
// its run is still current, so a stopped loop can never move the pointer.
type run struct {
	stop chan struct{}
	done chan struct{}
}

// stopped reports whether Stop has been called for this run
func (r *run) stopped() bool {
	select {
	case <-r.stop:
		return true
	default:
		return false
	}
}

// State is a consistent snapshot for rendering
type State struct {
	Step      int
	Playing   bool
	BPM       int
	Swing     int
	PatternID int
}

// Sequencer owns the pattern, the playback timing and the tempo settings
type Sequencer struct {
	pattern *Pattern
	player  Player
	store   Store

	mu        sync.Mutex
	run       *run
	step      int
	bpm       int
	swing     int
	patternID int
	muted     [NumInstruments]bool
	onStep    func(step int)
}

// New creates a stopped sequencer with an empty pattern of the given length.
// store may be nil, in which case save/load always fail.
func New(steps int, player Player, store Store) *Sequencer {
	if player == nil {
		player = Players(nil)
	}
	return &Sequencer{
		pattern:   NewPattern(steps),
		player:    player,
		store:     store,
		bpm:       120,
		patternID: 1,
	}
}

// SetOnStep registers a callback run by the play loop after each step's
// triggers. It runs on the loop goroutine and must not block.
func (s *Sequencer) SetOnStep(fn func(step int)) {
	s.mu.Lock()
	s.onStep = fn
	s.mu.Unlock()
}

// Pattern returns the live pattern store
func (s *Sequencer) Pattern() *Pattern {
	return s.pattern
}

// Steps returns the pattern length
func (s *Sequencer) Steps() int {
	return s.pattern.Steps()
}

// Transport

// Start launches the play loop from step 0; no-op if already playing
func (s *Sequencer) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.run != nil {
		return
	}

	r := &run{
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
	s.run = r
	s.step = 0

	go s.loop(r)
	debug.Log("seq", "start bpm=%d swing=%d", s.bpm, s.swing)
}

// Stop signals the play loop, waits up to StopTimeout for it and rewinds
// to step 0. No trigger starts after Stop returns. Safe to call repeatedly;
// from inside a Player callback it returns after StopTimeout, since the loop
// cannot exit while that callback runs.
func (s *Sequencer) Stop() {
	s.mu.Lock()
	r := s.run
	if r == nil {
		s.mu.Unlock()
		return
	}
	s.run = nil
	s.step = 0
	close(r.stop)
	s.mu.Unlock()

	debug.Log("seq", "stop")

	select {
	case <-r.done:
	case <-time.After(StopTimeout):
		debug.Warn("seq", "play loop did not exit within %v", StopTimeout)
	}
}

// Toggle starts or stops playback
func (s *Sequencer) Toggle() {
	if s.Playing() {
		s.Stop()
	} else {
		s.Start()
	}
}

// Close stops playback
func (s *Sequencer) Close() {
	s.Stop()
}

// Playing reports whether the play loop is running
func (s *Sequencer) Playing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.run != nil
}

// CurrentStep returns the step that plays next
func (s *Sequencer) CurrentStep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.step
}

// ResetStep rewinds the pointer to step 0. While playing, the step being
// dispatched finishes and step 0 plays next.
func (s *Sequencer) ResetStep() {
	s.mu.Lock()
	s.step = 0
	s.mu.Unlock()
}

// State returns a consistent snapshot of the transport and tempo
func (s *Sequencer) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{
		Step:      s.step,
		Playing:   s.run != nil,
		BPM:       s.bpm,
		Swing:     s.swing,
		PatternID: s.patternID,
	}
}

func (s *Sequencer) loop(r *run) {
	defer close(r.done)

	for {
		s.mu.Lock()
		if s.run != r {
			s.mu.Unlock()
			return
		}
		step := s.step
		bpm, swing := s.bpm, s.swing
		muted := s.muted
		onStep := s.onStep
		s.mu.Unlock()

		row := s.pattern.Row(step)

		for i, hit := range row {
			if !hit || muted[i] {
				continue
			}
			if r.stopped() {
				return
			}
			s.trigger(i)
		}
		if onStep != nil {
			if r.stopped() {
				return
			}
			s.notify(onStep, step)
		}

		delay := StepDuration(bpm, swing, step)

		s.mu.Lock()
		if s.run != r {
			s.mu.Unlock()
			return
		}
		// ResetStep during dispatch wins over the advance
		if s.step == step {
			s.step = (step + 1) % s.pattern.Steps()
		}
		s.mu.Unlock()

		timer := time.NewTimer(delay)
		select {
		case <-r.stop:
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}

// trigger plays one sample; a panicking player skips only this trigger
func (s *Sequencer) trigger(instrument int) {
	defer func() {
		if err := recover(); err != nil {
			debug.Log("seq", "trigger instrument=%d failed: %v", instrument, err)
		}
	}()
	s.player.PlaySample(instrument)
}

func (s *Sequencer) notify(fn func(int), step int) {
	defer func() {
		if err := recover(); err != nil {
			debug.Log("seq", "step callback step=%d failed: %v", step, err)
		}
	}()
	fn(step)
}

// Pattern editing (safe while playing)

// ToggleStep flips one cell
func (s *Sequencer) ToggleStep(step, instrument int) {
	s.pattern.Toggle(step, instrument)
}

// SetStep sets one cell
func (s *Sequencer) SetStep(step, instrument int, on bool) {
	s.pattern.Set(step, instrument, on)
}

// GetStep reads one cell; false when out of range
func (s *Sequencer) GetStep(step, instrument int) bool {
	return s.pattern.Get(step, instrument)
}

// ClearPattern switches every cell off
func (s *Sequencer) ClearPattern() {
	s.pattern.Clear()
	debug.Log("seq", "pattern cleared")
}

// Grid returns a copy of the pattern
func (s *Sequencer) Grid() Grid {
	return s.pattern.Snapshot()
}

// Row returns a copy of one step
func (s *Sequencer) Row(step int) Row {
	return s.pattern.Row(step)
}

// Tempo and swing

func clampBPM(bpm int) int {
	if bpm < MinBPM {
		return MinBPM
	}
	if bpm > MaxBPM {
		return MaxBPM
	}
	return bpm
}

func clampSwing(swing int) int {
	if swing < 0 {
		return 0
	}
	if swing > MaxSwing {
		return MaxSwing
	}
	return swing
}

// SetBPM sets the tempo, clipped to [MinBPM, MaxBPM]
func (s *Sequencer) SetBPM(bpm int) {
	s.mu.Lock()
	s.bpm = clampBPM(bpm)
	s.mu.Unlock()
}

// BPM returns the tempo
func (s *Sequencer) BPM() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bpm
}

// SetSwing sets the swing percentage, clipped to [0, MaxSwing]
func (s *Sequencer) SetSwing(swing int) {
	s.mu.Lock()
	s.swing = clampSwing(swing)
	s.mu.Unlock()
}

// Swing returns the swing percentage
func (s *Sequencer) Swing() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.swing
}

// Pattern slots

// PatternID returns the current pattern slot (1-MaxPatterns)
func (s *Sequencer) PatternID() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.patternID
}

// SetPatternID selects a slot without loading it; out of range is ignored
func (s *Sequencer) SetPatternID(id int) {
	if id < 1 || id > MaxPatterns {
		return
	}
	s.mu.Lock()
	s.patternID = id
	s.mu.Unlock()
}

// Mutes

// ToggleMute flips an instrument's mute flag
func (s *Sequencer) ToggleMute(instrument int) {
	if instrument < 0 || instrument >= NumInstruments {
		return
	}
	s.mu.Lock()
	s.muted[instrument] = !s.muted[instrument]
	s.mu.Unlock()
}

// SetMuted sets an instrument's mute flag
func (s *Sequencer) SetMuted(instrument int, muted bool) {
	if instrument < 0 || instrument >= NumInstruments {
		return
	}
	s.mu.Lock()
	s.muted[instrument] = muted
	s.mu.Unlock()
}

// Muted reports whether an instrument is muted
func (s *Sequencer) Muted(instrument int) bool {
	if instrument < 0 || instrument >= NumInstruments {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.muted[instrument]
}

// Persistence

// SavePattern stores the grid, bpm and swing under id (0 = current slot).
// Failures are logged and reported as false.
func (s *Sequencer) SavePattern(id int) bool {
	s.mu.Lock()
	if id == 0 {
		id = s.patternID
	}
	bpm, swing := s.bpm, s.swing
	s.mu.Unlock()

	if id < 1 || id > MaxPatterns {
		debug.Warn("seq", "save: invalid pattern id %d", id)
		return false
	}
	if s.store == nil {
		debug.Warn("seq", "save: no store configured")
		return false
	}

	if err := s.store.Save(id, NewRecord(s.pattern.Snapshot(), bpm, swing)); err != nil {
		debug.Error("seq", err, "save pattern %d", id)
		return false
	}

	debug.Log("seq", "saved pattern %d", id)
	return true
}

// LoadPattern replaces grid, bpm and swing from the store and makes id the
// current slot. Returns false with state untouched when nothing is stored.
func (s *Sequencer) LoadPattern(id int) bool {
	if id < 1 || id > MaxPatterns {
		debug.Warn("seq", "load: invalid pattern id %d", id)
		return false
	}
	if s.store == nil {
		return false
	}

	rec, ok, err := s.store.Load(id)
	if err != nil {
		debug.Error("seq", err, "load pattern %d", id)
		return false
	}
	if !ok {
		debug.Log("seq", "pattern %d not stored yet", id)
		return false
	}

	if rec.Pattern != nil {
		s.pattern.Replace(rec.Grid())
	}

	s.mu.Lock()
	if rec.BPM != nil {
		s.bpm = clampBPM(*rec.BPM)
	}
	if rec.Swing != nil {
		s.swing = clampSwing(*rec.Swing)
	}
	s.patternID = id
	s.mu.Unlock()

	debug.Log("seq", "loaded pattern %d", id)
	return true
}
