package engine

import (
	"fmt"
	"strings"
	"time"
)

// Difficulty selects how many pairs are dealt
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"

	// Validation constants
	MaxPairCount        = 12
	MinPaletteSize      = MaxPairCount
	MaxPaletteSize      = 64
	MaxDelayMs          = 60000
	WebSocketBufferSize = 256

	DefaultDealDelay    = 1500 * time.Millisecond
	DefaultResolveDelay = 800 * time.Millisecond
)

// DefaultPalette is the icon set used when a rule set does not bring its own.
var DefaultPalette = []string{"🍕", "🎮", "🚀", "🐱", "🌈", "🎵", "⚽", "🐶", "📦", "💡", "🎯", "🧃"}

// Difficulties returns every difficulty in menu order.
func Difficulties() []Difficulty {
	return []Difficulty{Easy, Medium, Hard}
}

// ParseDifficulty maps a case-insensitive name onto a Difficulty.
func ParseDifficulty(name string) (Difficulty, error) {
	d := Difficulty(strings.ToLower(strings.TrimSpace(name)))
	if !d.Valid() {
		return "", fmt.Errorf("unknown difficulty %q", name)
	}
	return d, nil
}

// Valid reports whether d is one of the enumerated difficulties.
func (d Difficulty) Valid() bool {
	return d.PairCount() > 0
}

// PairCount returns the number of distinct icons dealt for d, or 0 for an unknown value.
func (d Difficulty) PairCount() int {
	switch d {
	case Easy:
		return 6
	case Medium:
		return 8
	case Hard:
		return 12
	}
	return 0
}

// Columns is a grid width hint for renderers.
func (d Difficulty) Columns() int {
	switch d {
	case Easy:
		return 3
	case Medium:
		return 4
	case Hard:
		return 6
	}
	return 0
}

// Phase is the coarse screen a renderer should show
type Phase string

const (
	PhaseMenu    Phase = "menu"
	PhaseLoading Phase = "loading"
	PhasePlaying Phase = "playing"
	PhaseWon     Phase = "won"
)

// TimerKind identifies what an elapsed timer does to the state
type TimerKind string

const (
	TimerDeal    TimerKind = "deal"
	TimerResolve TimerKind = "resolve"
)

// Timer is a delayed effect requested by a transition. It only applies to a
// state with the same Epoch.
type Timer struct {
	Kind  TimerKind     `json:"kind"`
	Delay time.Duration `json:"delay"`
	Epoch uint64        `json:"epoch"`
}

// EventType names what a transition did
type EventType string

const (
	EventDifficultySelected EventType = "difficulty_selected"
	EventFlipped            EventType = "flipped"
	EventMatched            EventType = "matched"
	EventMismatched         EventType = "mismatched"
	EventWon                EventType = "won"
	EventReset              EventType = "reset"
	EventMenu               EventType = "menu"
	EventDealt              EventType = "dealt"
	EventResolved           EventType = "resolved"
	EventIgnored            EventType = "ignored"
)

// State is one immutable snapshot of a game session.
type State struct {
	Difficulty Difficulty `json:"difficulty,omitempty"`
	Deck       []string   `json:"deck"`
	Selected   []int      `json:"selected"`
	Matched    []int      `json:"matched"`
	Clicks     int        `json:"clicks"`
	Locked     bool       `json:"locked"`
	Loading    bool       `json:"loading"`
	Epoch      uint64     `json:"epoch"`
	DealID     string     `json:"deal_id,omitempty"`
}

// Transition is the outcome of applying one action to a State.
type Transition struct {
	State   State     `json:"state"`
	Timers  []Timer   `json:"timers,omitempty"`
	Event   EventType `json:"event"`
	Ignored bool      `json:"ignored"`
}

// CardView is a single slot as a renderer sees it. Icon is empty while hidden.
type CardView struct {
	Index    int    `json:"index"`
	Revealed bool   `json:"revealed"`
	Selected bool   `json:"selected,omitempty"`
	Matched  bool   `json:"matched,omitempty"`
	Icon     string `json:"icon,omitempty"`
}

// GameView is the render model derived from a State.
type GameView struct {
	Phase        Phase      `json:"phase"`
	Difficulty   Difficulty `json:"difficulty,omitempty"`
	PairCount    int        `json:"pair_count"`
	Columns      int        `json:"columns,omitempty"`
	Cards        []CardView `json:"cards"`
	Selected     []int      `json:"selected"`
	Matched      []int      `json:"matched"`
	MatchedPairs int        `json:"matched_pairs"`
	Remaining    int        `json:"remaining_pairs"`
	Hidden       []int      `json:"hidden"`
	Clicks       int        `json:"clicks"`
	Locked       bool       `json:"locked"`
	Loading      bool       `json:"loading"`
	Won          bool       `json:"won"`
	Message      string     `json:"message"`
	DealID       string     `json:"deal_id,omitempty"`
	ConfigName   string     `json:"config_name"`
}
