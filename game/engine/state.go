package engine

import (
	"fmt"
	"slices"
)

// Phase derives the screen a renderer should show
func (s State) Phase() Phase {
	switch {
	case s.Difficulty == "":
		return PhaseMenu
	case s.Loading:
		return PhaseLoading
	case s.Won():
		return PhaseWon
	}
	return PhasePlaying
}

// Won reports whether every card of a dealt deck is matched.
func (s State) Won() bool {
	return len(s.Deck) > 0 && len(s.Matched) == len(s.Deck)
}

// MatchedPairs is the number of pairs found so far.
func (s State) MatchedPairs() int {
	return len(s.Matched) / 2
}

// IsSelected reports whether index is flipped but unresolved.
func (s State) IsSelected(index int) bool {
	return slices.Contains(s.Selected, index)
}

// IsMatched reports whether index belongs to a found pair.
func (s State) IsMatched(index int) bool {
	return slices.Contains(s.Matched, index)
}

// IsRevealed reports whether the icon at index is visible.
func (s State) IsRevealed(index int) bool {
	return s.IsSelected(index) || s.IsMatched(index)
}

// clone copies the mutable slices. Deck is shared; no transition writes into it.
func (s State) clone() State {
	next := s
	next.Selected = slices.Clone(s.Selected)
	next.Matched = slices.Clone(s.Matched)
	if next.Selected == nil {
		next.Selected = []int{}
	}
	if next.Matched == nil {
		next.Matched = []int{}
	}
	return next
}

// View builds the render model of s using the engine's messages.
func (e *GameEngine) View(s State) *GameView {
	view := &GameView{
		Phase:        s.Phase(),
		Difficulty:   s.Difficulty,
		PairCount:    s.Difficulty.PairCount(),
		Columns:      s.Difficulty.Columns(),
		Cards:        make([]CardView, len(s.Deck)),
		Selected:     slices.Clone(s.Selected),
		Matched:      slices.Clone(s.Matched),
		MatchedPairs: s.MatchedPairs(),
		Remaining:    RemainingPairs(s),
		Hidden:       HiddenIndices(s),
		Clicks:       s.Clicks,
		Locked:       s.Locked,
		Loading:      s.Loading,
		Won:          s.Won(),
		DealID:       s.DealID,
		ConfigName:   e.config.Name,
	}
	if view.Selected == nil {
		view.Selected = []int{}
	}
	if view.Matched == nil {
		view.Matched = []int{}
	}

	for i, icon := range s.Deck {
		card := CardView{
			Index:    i,
			Selected: s.IsSelected(i),
			Matched:  s.IsMatched(i),
		}
		card.Revealed = card.Selected || card.Matched
		if card.Revealed {
			card.Icon = icon
		}
		view.Cards[i] = card
	}

	msgs := e.config.Messages
	switch view.Phase {
	case PhaseMenu:
		view.Message = msgs.Menu
	case PhaseLoading:
		view.Message = msgs.Loading
	case PhaseWon:
		view.Message = fmt.Sprintf(msgs.Victory, s.Clicks)
	case PhasePlaying:
		if msgs.Playing != "" {
			view.Message = fmt.Sprintf(msgs.Playing, view.MatchedPairs, s.Clicks)
		}
	}

	return view
}
