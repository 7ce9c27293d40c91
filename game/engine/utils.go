package engine

// FindTwin returns the other index holding the same icon as deck[index], or -1.
func FindTwin(deck []string, index int) int {
	if index < 0 || index >= len(deck) {
		return -1
	}
	for i, icon := range deck {
		if i != index && icon == deck[index] {
			return i
		}
	}
	return -1
}

// RemainingPairs is the number of pairs not yet matched in s.
func RemainingPairs(s State) int {
	return len(s.Deck)/2 - s.MatchedPairs()
}

// HiddenIndices lists the slots whose icon is currently not visible.
func HiddenIndices(s State) []int {
	hidden := make([]int, 0, len(s.Deck))
	for i := range s.Deck {
		if !s.IsRevealed(i) {
			hidden = append(hidden, i)
		}
	}
	return hidden
}

// MinimumClicks is the fewest flips that can clear a deck of pairCount pairs.
func MinimumClicks(pairCount int) int {
	return 2 * pairCount
}
