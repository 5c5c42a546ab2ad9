package pimc

import (
	"math/rand/v2"

	"github.com/hirorogo/singyura/engine"
)

// RolloutAction is the fast playout policy for the seat holding hand: an
// Ace or King first, then a card whose next outward card we also hold,
// then a card of our longest suit. Ties are broken at random. It passes only
// when nothing is playable.
func RolloutAction(table *engine.Table, hand engine.CardSet, rng *rand.Rand) engine.Action {
	playable := table.LegalMoves().Intersect(hand)
	if playable.Empty() {
		return engine.Pass()
	}

	var ends, safe engine.CardSet
	for _, c := range playable.Cards() {
		if c.IsEnd() {
			ends = ends.Add(c)
		}
		if next, ok := outward(c); ok && hand.Has(next) {
			safe = safe.Add(c)
		}
	}
	if !ends.Empty() {
		return engine.Play(pick(ends, rng))
	}
	if !safe.Empty() {
		return engine.Play(pick(safe, rng))
	}

	var best engine.CardSet
	bestCount := -1
	for _, c := range playable.Cards() {
		n := hand.SuitCount(c.Suit())
		switch {
		case n > bestCount:
			bestCount, best = n, engine.NewCardSet(c)
		case n == bestCount:
			best = best.Add(c)
		}
	}
	return engine.Play(pick(best, rng))
}

func pick(s engine.CardSet, rng *rand.Rand) engine.Card {
	cards := s.Cards()
	if len(cards) == 1 {
		return cards[0]
	}
	return cards[rng.IntN(len(cards))]
}

// Rollout plays g to the end with RolloutAction for every seat, or until
// maxDepth turns have been played. It returns the winning seat, or -1 for a
// draw or an unfinished playout.
func Rollout(g *engine.GameState, rng *rand.Rand, maxDepth int) (int8, error) {
	for depth := 0; !g.IsTerminal() && depth < maxDepth; depth++ {
		seat := g.CurrentPlayer
		if err := g.ApplyAction(RolloutAction(&g.Table, g.Hand(seat), rng)); err != nil {
			return -1, err
		}
	}
	if w, ok := g.WinnerSeat(); ok {
		return int8(w), nil
	}
	return -1, nil
}
