package engine

import (
	"fmt"
	"math/rand/v2"
)

// Shuffle deals a deck: the first pairCount icons of palette, each twice, in
// uniformly random order. It panics if pairCount is negative or larger than
// the palette.
func Shuffle(palette []string, pairCount int, r *rand.Rand) []string {
	if pairCount < 0 || pairCount > len(palette) {
		panic(fmt.Sprintf("engine: cannot deal %d pairs from a palette of %d", pairCount, len(palette)))
	}
	deck := make([]string, 0, 2*pairCount)
	deck = append(deck, palette[:pairCount]...)
	deck = append(deck, palette[:pairCount]...)
	fisherYates(deck, r)
	return deck
}

// fisherYates permutes s in place; every permutation is equally likely.
func fisherYates[T any](s []T, r *rand.Rand) {
	for i := len(s) - 1; i > 0; i-- {
		j := r.IntN(i + 1)
		s[i], s[j] = s[j], s[i]
	}
}
