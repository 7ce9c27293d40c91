package engine

import (
	"fmt"
	"math/rand/v2"

	"github.com/google/uuid"
)

// Engine provides the main interface for game operations. Every action takes
// the current State and returns the next one; nothing is mutated in place.
type Engine interface {
	// State transitions
	Initial() State
	SelectDifficulty(s State, d Difficulty) Transition
	SelectCard(s State, index int) Transition
	Reset(s State) Transition
	ReturnToMenu(s State) Transition
	Fire(s State, t Timer) Transition

	// Rendering
	View(s State) *GameView

	// Configuration
	GetConfig() *GameConfig
	SetConfig(config *GameConfig) error
}

// GameEngine implements the Engine interface. It holds the rule set and the
// random source used for dealing; it is not safe for concurrent use.
type GameEngine struct {
	config *GameConfig
	rng    *rand.Rand
	newID  func() string
}

// NewEngine creates a new game engine with the provided configuration
func NewEngine(config *GameConfig) (*GameEngine, error) {
	if err := ValidateGameConfig(config); err != nil {
		return nil, err
	}

	engine := &GameEngine{
		config: config,
		rng:    rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		newID:  uuid.NewString,
	}

	return engine, nil
}

// NewEngineWithDefaults creates a new game engine with the built-in rule set
func NewEngineWithDefaults() *GameEngine {
	engine, err := NewEngine(DefaultConfig())
	if err != nil {
		panic(fmt.Sprintf("engine: default config is invalid: %v", err))
	}
	return engine
}

// NewSeededEngine creates an engine whose deals are reproducible for a given seed.
func NewSeededEngine(config *GameConfig, seed uint64) (*GameEngine, error) {
	engine, err := NewEngine(config)
	if err != nil {
		return nil, err
	}
	engine.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	return engine, nil
}

// Initial returns the difficulty-menu state a new session starts in.
func (e *GameEngine) Initial() State {
	return State{
		Deck:     []string{},
		Selected: []int{},
		Matched:  []int{},
		Loading:  true,
	}
}

// SelectDifficulty deals a fresh deck for d and enters the loading phase.
func (e *GameEngine) SelectDifficulty(s State, d Difficulty) Transition {
	if !d.Valid() {
		return ignored(s)
	}
	next := e.deal(s, d)
	return Transition{
		State:  next,
		Timers: []Timer{{Kind: TimerDeal, Delay: e.config.DealDelay(), Epoch: next.Epoch}},
		Event:  EventDifficultySelected,
	}
}

// SelectCard flips the card at index. Flips on a locked board, while loading,
// outside the deck, or on a selected or matched card are ignored.
func (e *GameEngine) SelectCard(s State, index int) Transition {
	if s.Difficulty == "" || s.Loading || s.Locked {
		return ignored(s)
	}
	if index < 0 || index >= len(s.Deck) || s.IsSelected(index) || s.IsMatched(index) {
		return ignored(s)
	}

	next := s.clone()
	next.Selected = append(next.Selected, index)
	next.Clicks++

	if len(next.Selected) < 2 {
		return Transition{State: next, Event: EventFlipped}
	}

	// The resolve delay applies whether or not the pair matched
	next.Locked = true
	first, second := next.Selected[0], next.Selected[1]
	event := EventMismatched
	if next.Deck[first] == next.Deck[second] {
		next.Matched = append(next.Matched, first, second)
		event = EventMatched
		if next.Won() {
			event = EventWon
		}
	}

	return Transition{
		State:  next,
		Timers: []Timer{{Kind: TimerResolve, Delay: e.config.ResolveDelay(), Epoch: next.Epoch}},
		Event:  event,
	}
}

// Reset deals a new deck for the current difficulty. It is ignored on the menu.
func (e *GameEngine) Reset(s State) Transition {
	if !s.Difficulty.Valid() {
		return ignored(s)
	}
	next := e.deal(s, s.Difficulty)
	return Transition{
		State:  next,
		Timers: []Timer{{Kind: TimerDeal, Delay: e.config.DealDelay(), Epoch: next.Epoch}},
		Event:  EventReset,
	}
}

// ReturnToMenu drops the deck and difficulty.
func (e *GameEngine) ReturnToMenu(s State) Transition {
	next := e.Initial()
	next.Epoch = s.Epoch + 1
	return Transition{State: next, Event: EventMenu}
}

// Fire applies an elapsed timer. Timers from an earlier epoch are ignored.
func (e *GameEngine) Fire(s State, t Timer) Transition {
	if t.Epoch != s.Epoch {
		return ignored(s)
	}

	switch t.Kind {
	case TimerDeal:
		if s.Difficulty == "" || !s.Loading {
			return ignored(s)
		}
		next := s.clone()
		next.Loading = false
		return Transition{State: next, Event: EventDealt}

	case TimerResolve:
		if !s.Locked {
			return ignored(s)
		}
		next := s.clone()
		next.Selected = []int{}
		next.Locked = false
		return Transition{State: next, Event: EventResolved}
	}

	return ignored(s)
}

// GetConfig returns the current game configuration
func (e *GameEngine) GetConfig() *GameConfig {
	return e.config
}

// SetConfig replaces the rule set. Decks already dealt are unaffected.
func (e *GameEngine) SetConfig(config *GameConfig) error {
	if err := ValidateGameConfig(config); err != nil {
		return err
	}

	e.config = config
	return nil
}

// deal builds the loading state of a new deck, bumping the epoch so every
// timer of the previous deck goes stale.
func (e *GameEngine) deal(s State, d Difficulty) State {
	return State{
		Difficulty: d,
		Deck:       Shuffle(e.config.Palette, d.PairCount(), e.rng),
		Selected:   []int{},
		Matched:    []int{},
		Loading:    true,
		Epoch:      s.Epoch + 1,
		DealID:     e.newID(),
	}
}

func ignored(s State) Transition {
	return Transition{State: s, Event: EventIgnored, Ignored: true}
}
