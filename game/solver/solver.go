// Package solver implements a perfect-memory player. It only looks at what a
// client can see (engine.GameView), so the same strategy drives in-process
// simulations and remote sessions over the REST API.
package solver

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/wricardo/mcp-training/memorygame/game/engine"
)

// ErrStuck is returned when a game cannot make progress
var ErrStuck = errors.New("solver: no progress possible")

// Solver remembers every icon it has seen on the current deal
type Solver struct {
	dealID string
	seen   map[int]string
}

// New creates a solver with an empty memory
func New() *Solver {
	return &Solver{seen: make(map[int]string)}
}

// Observe records the icons revealed in view. A new deal wipes the memory.
func (s *Solver) Observe(view *engine.GameView) {
	if view == nil {
		return
	}
	if view.DealID != s.dealID {
		s.dealID = view.DealID
		s.seen = make(map[int]string)
	}
	for _, card := range view.Cards {
		if card.Revealed && card.Icon != "" {
			s.seen[card.Index] = card.Icon
		}
	}
}

// Known returns how many card positions the solver has memorized.
func (s *Solver) Known() int {
	return len(s.seen)
}

// Next picks the index to flip. ok is false while no flip would be accepted
// (menu, loading, locked board or a finished game).
func (s *Solver) Next(view *engine.GameView) (index int, ok bool) {
	if view == nil || view.Phase != engine.PhasePlaying || view.Locked {
		return -1, false
	}
	s.Observe(view)

	open := make(map[int]bool, len(view.Hidden))
	for _, i := range view.Hidden {
		open[i] = true
	}

	if len(view.Selected) == 1 {
		first := view.Selected[0]
		if icon, known := s.seen[first]; known {
			if twin := s.knownTwin(first, icon, open); twin >= 0 {
				return twin, true
			}
		}
		return s.unseen(view, open)
	}

	if a := s.knownPair(view, open); a >= 0 {
		return a, true
	}
	return s.unseen(view, open)
}

// knownTwin finds a remembered open card showing icon other than index
func (s *Solver) knownTwin(index int, icon string, open map[int]bool) int {
	for _, card := range slices.Sorted(maps.Keys(open)) {
		if card != index && s.seen[card] == icon {
			return card
		}
	}
	return -1
}

// knownPair returns the first card of a remembered open pair, or -1
func (s *Solver) knownPair(view *engine.GameView, open map[int]bool) int {
	byIcon := make(map[string]int)
	for _, card := range view.Cards {
		if !open[card.Index] {
			continue
		}
		icon, known := s.seen[card.Index]
		if !known {
			continue
		}
		if _, dup := byIcon[icon]; dup {
			return byIcon[icon]
		}
		byIcon[icon] = card.Index
	}
	return -1
}

// unseen returns the lowest open card never revealed, falling back to any
// open card
func (s *Solver) unseen(view *engine.GameView, open map[int]bool) (int, bool) {
	fallback := -1
	for _, card := range view.Cards {
		if !open[card.Index] {
			continue
		}
		if _, known := s.seen[card.Index]; !known {
			return card.Index, true
		}
		if fallback < 0 {
			fallback = card.Index
		}
	}
	return fallback, fallback >= 0
}

// Play runs one full game of difficulty d against eng, firing every timer as
// soon as it is requested, and returns the number of clicks it took.
func Play(eng engine.Engine, d engine.Difficulty) (int, error) {
	if !d.Valid() {
		return 0, fmt.Errorf("solver: unknown difficulty %q", d)
	}

	s := New()
	state := eng.Initial()
	tr := eng.SelectDifficulty(state, d)
	state = settle(eng, tr)

	// Every flip either reveals a new card or completes a pair, so a deck of
	// n cards never needs more than 2n flips.
	limit := 4 * d.PairCount()
	for !state.Won() {
		if limit == 0 {
			return state.Clicks, ErrStuck
		}
		limit--

		index, ok := s.Next(eng.View(state))
		if !ok {
			return state.Clicks, ErrStuck
		}
		tr := eng.SelectCard(state, index)
		if tr.Ignored {
			return state.Clicks, fmt.Errorf("%w: flip %d ignored", ErrStuck, index)
		}
		s.Observe(eng.View(tr.State))
		state = settle(eng, tr)
	}
	return state.Clicks, nil
}

// settle applies every timer of tr in order
func settle(eng engine.Engine, tr engine.Transition) engine.State {
	state := tr.State
	for _, t := range tr.Timers {
		state = eng.Fire(state, t).State
	}
	return state
}
