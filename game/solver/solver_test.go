package solver

import (
	"errors"
	"testing"

	"github.com/wricardo/mcp-training/memorygame/game/engine"
)

func newEngine(t *testing.T, seed uint64) *engine.GameEngine {
	t.Helper()
	eng, err := engine.NewSeededEngine(engine.DefaultConfig(), seed)
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}
	return eng
}

func TestPlay_WinsEveryDifficulty(t *testing.T) {
	for _, d := range engine.Difficulties() {
		t.Run(string(d), func(t *testing.T) {
			for seed := uint64(1); seed <= 20; seed++ {
				clicks, err := Play(newEngine(t, seed), d)
				if err != nil {
					t.Fatalf("seed %d: Play() error = %v", seed, err)
				}
				cards := 2 * d.PairCount()
				if clicks < cards || clicks > 2*cards {
					t.Errorf("seed %d: %d clicks outside [%d, %d]", seed, clicks, cards, 2*cards)
				}
				if clicks%2 != 0 {
					t.Errorf("seed %d: expected an even click count, got %d", seed, clicks)
				}
			}
		})
	}
}

func TestPlay_UnknownDifficulty(t *testing.T) {
	if _, err := Play(newEngine(t, 1), engine.Difficulty("expert")); err == nil {
		t.Error("Expected error for unknown difficulty")
	}
}

func TestNext_WaitsWhenNotPlayable(t *testing.T) {
	eng := newEngine(t, 3)
	s := New()

	if _, ok := s.Next(eng.View(eng.Initial())); ok {
		t.Error("Expected no move on the menu")
	}

	tr := eng.SelectDifficulty(eng.Initial(), engine.Easy)
	if _, ok := s.Next(eng.View(tr.State)); ok {
		t.Error("Expected no move while loading")
	}

	state := eng.Fire(tr.State, tr.Timers[0]).State
	a, b := 0, 1
	for state.Deck[a] == state.Deck[b] {
		b++
	}
	state = eng.SelectCard(state, a).State
	state = eng.SelectCard(state, b).State
	if _, ok := s.Next(eng.View(state)); ok {
		t.Error("Expected no move while the board is locked")
	}
	if _, ok := s.Next(nil); ok {
		t.Error("Expected no move for a nil view")
	}
}

func TestNext_CompletesRememberedPair(t *testing.T) {
	eng := newEngine(t, 5)
	tr := eng.SelectDifficulty(eng.Initial(), engine.Easy)
	state := eng.Fire(tr.State, tr.Timers[0]).State

	// Reveal two cards that differ, remember them, then resolve
	a := 0
	twin := engine.FindTwin(state.Deck, a)
	b := 1
	for b == twin {
		b++
	}

	s := New()
	state = eng.SelectCard(state, a).State
	second := eng.SelectCard(state, b)
	s.Observe(eng.View(second.State))
	state = eng.Fire(second.State, second.Timers[0]).State

	if s.Known() != 2 {
		t.Fatalf("Expected 2 remembered cards, got %d", s.Known())
	}

	// Flip the twin of a: the solver must finish the pair with a
	state = eng.SelectCard(state, twin).State
	next, ok := s.Next(eng.View(state))
	if !ok || next != a {
		t.Errorf("Expected solver to pick remembered card %d, got %d (ok=%v)", a, next, ok)
	}
}

func TestObserve_NewDealForgets(t *testing.T) {
	eng := newEngine(t, 9)
	tr := eng.SelectDifficulty(eng.Initial(), engine.Easy)
	state := eng.Fire(tr.State, tr.Timers[0]).State
	state = eng.SelectCard(state, 0).State

	s := New()
	s.Observe(eng.View(state))
	if s.Known() != 1 {
		t.Fatalf("Expected 1 remembered card, got %d", s.Known())
	}

	reset := eng.Reset(state)
	s.Observe(eng.View(reset.State))
	if s.Known() != 0 {
		t.Errorf("Expected memory wiped after a new deal, got %d", s.Known())
	}
}

func TestPlay_StuckEngine(t *testing.T) {
	_, err := Play(stuckEngine{newEngine(t, 1)}, engine.Easy)
	if !errors.Is(err, ErrStuck) {
		t.Errorf("Expected ErrStuck, got %v", err)
	}
}

// stuckEngine ignores every flip
type stuckEngine struct {
	*engine.GameEngine
}

func (e stuckEngine) SelectCard(s engine.State, index int) engine.Transition {
	return engine.Transition{State: s, Event: engine.EventIgnored, Ignored: true}
}
