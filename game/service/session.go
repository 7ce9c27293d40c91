package service

import (
	"slices"
	"sync"
	"time"

	"github.com/wricardo/mcp-training/memorygame/game/clock"
	"github.com/wricardo/mcp-training/memorygame/game/engine"
)

// Session represents an active game session. It owns the session's current
// engine State and the timers that state is waiting on.
type Session struct {
	ID        string
	Engine    *engine.GameEngine
	Config    *engine.GameConfig
	CreatedAt time.Time

	mu           sync.Mutex
	lastAccessed time.Time
	clock        clock.Clock
	state    engine.State
	pending  map[uint64]clock.Timer
	seq      uint64
	history  []FlipRecord
	listener func(GameEvent)
	closed   bool
}

// NewSession creates a session on the difficulty menu.
func NewSession(id string, eng *engine.GameEngine, config *engine.GameConfig, clk clock.Clock) *Session {
	if clk == nil {
		clk = clock.Real()
	}
	now := clk.Now()
	return &Session{
		ID:           id,
		Engine:       eng,
		Config:       config,
		CreatedAt:    now,
		lastAccessed: now,
		clock:        clk,
		state:        eng.Initial(),
		pending:      make(map[uint64]clock.Timer),
	}
}

// Touch records an access at t
func (s *Session) Touch(t time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastAccessed = t
}

// LastAccessed returns the time of the latest access
func (s *Session) LastAccessed() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastAccessed
}

// SetListener registers the callback that receives every accepted
// transition, including timer-driven ones. It is invoked without the session
// lock held.
func (s *Session) SetListener(fn func(GameEvent)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listener = fn
}

// State returns the current state snapshot.
func (s *Session) State() engine.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// View renders the current state.
func (s *Session) View() *engine.GameView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Engine.View(s.state)
}

// History returns a copy of the flips recorded so far, oldest first.
func (s *Session) History() []FlipRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.history)
}

// PendingTimers returns how many timers are scheduled and not yet fired.
func (s *Session) PendingTimers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Apply runs action against the current state and commits the result.
func (s *Session) Apply(action func(engine.State) engine.Transition) *ActionResult {
	s.mu.Lock()
	if s.closed {
		view := s.Engine.View(s.state)
		s.mu.Unlock()
		return &ActionResult{Event: engine.EventIgnored, GameState: view, Message: view.Message}
	}

	tr := action(s.state)
	if tr.Ignored {
		view := s.Engine.View(s.state)
		s.mu.Unlock()
		return &ActionResult{Event: engine.EventIgnored, GameState: view, Message: view.Message}
	}

	event, flip := s.commitLocked(tr)
	listener := s.listener
	s.mu.Unlock()

	if listener != nil {
		listener(event)
	}
	return &ActionResult{
		Accepted:  true,
		Event:     tr.Event,
		GameState: event.GameState,
		Message:   event.GameState.Message,
		Flip:      flip,
	}
}

// Close cancels every pending timer. Later actions are ignored.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	s.cancelPendingLocked()
	s.listener = nil
}

// commitLocked installs tr.State. A change of epoch means the previous deck
// or menu was superseded, so its timers are cancelled before the new ones are
// scheduled.
func (s *Session) commitLocked(tr engine.Transition) (GameEvent, *FlipRecord) {
	prev := s.state
	if tr.State.Epoch != prev.Epoch {
		s.cancelPendingLocked()
	}
	s.state = tr.State

	for _, t := range tr.Timers {
		s.scheduleLocked(t)
	}

	now := s.clock.Now()
	flip := flipRecord(tr, len(s.history)+1, now)
	if flip != nil {
		s.history = append(s.history, *flip)
	}

	view := s.Engine.View(s.state)
	return GameEvent{SessionID: s.ID, Type: tr.Event, GameState: view, Timestamp: now}, flip
}

func (s *Session) scheduleLocked(t engine.Timer) {
	s.seq++
	id := s.seq
	s.pending[id] = s.clock.AfterFunc(t.Delay, func() { s.fire(id, t) })
}

func (s *Session) cancelPendingLocked() {
	for id, timer := range s.pending {
		timer.Stop()
		delete(s.pending, id)
	}
}

// fire applies an elapsed timer. A handle missing from pending was cancelled
// after its callback had already been started, so it is dropped.
func (s *Session) fire(id uint64, t engine.Timer) {
	s.mu.Lock()
	if _, ok := s.pending[id]; !ok || s.closed {
		s.mu.Unlock()
		return
	}
	delete(s.pending, id)

	tr := s.Engine.Fire(s.state, t)
	if tr.Ignored {
		s.mu.Unlock()
		return
	}

	event, _ := s.commitLocked(tr)
	listener := s.listener
	s.mu.Unlock()

	if listener != nil {
		listener(event)
	}
}

// flipRecord describes the card flipped by tr, or nil if tr flipped nothing.
func flipRecord(tr engine.Transition, seq int, now time.Time) *FlipRecord {
	selected := tr.State.Selected
	if !isFlip(tr.Event) || len(selected) == 0 {
		return nil
	}
	index := selected[len(selected)-1]
	return &FlipRecord{
		Seq:        seq,
		Index:      index,
		Icon:       tr.State.Deck[index],
		Event:      tr.Event,
		Clicks:     tr.State.Clicks,
		Difficulty: tr.State.Difficulty,
		DealID:     tr.State.DealID,
		Timestamp:  now,
	}
}

func isFlip(event engine.EventType) bool {
	switch event {
	case engine.EventFlipped, engine.EventMatched, engine.EventMismatched, engine.EventWon:
		return true
	}
	return false
}
