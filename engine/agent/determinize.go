package agent

import (
	"math/rand/v2"
	"sort"

	engine "github.com/hirorogo/singyura/engine"
)

// Determinizer samples full deals of the unseen cards that agree with a
// Tracker's possible sets.
type Determinizer struct {
	Retries int // 0 uses DefaultRetries
}

func (d Determinizer) retries() int {
	if d.Retries <= 0 {
		return DefaultRetries
	}
	return d.Retries
}

// Sample deals the unseen cards of v to the other seats, each receiving
// exactly its public hand size. Seats are filled from the most constrained
// to the least; each first takes the cards no later seat could hold, then
// random cards from its possible set. The bool reports whether the deal honours
// every possible set; after Retries failed attempts it falls back to a
// uniform partition of the same cards, which keeps the sizes but ignores
// the constraints. The observer's entry is left empty.
func (d Determinizer) Sample(v *engine.View, t *Tracker, rng *rand.Rand) ([engine.MaxPlayers]engine.CardSet, bool) {
	pool := v.Unseen().Cards()
	poolSet := v.Unseen()

	var sizes []seatSize
	for p := uint8(0); p < v.NumPlayers(); p++ {
		if p == v.Observer || v.Eliminated[p] || v.HandSizes[p] == 0 {
			continue
		}
		sizes = append(sizes, seatSize{seat: p, size: int(v.HandSizes[p])})
	}
	slack := func(s seatSize) int { return t.Possible(s.seat).Intersect(poolSet).Len() - s.size }
	// Most constrained first; seat order breaks ties so samples are
	// reproducible for a given rng.
	needs := append([]seatSize(nil), sizes...)
	sort.SliceStable(needs, func(i, j int) bool { return slack(needs[i]) < slack(needs[j]) })

	var hands [engine.MaxPlayers]engine.CardSet
	for attempt := 0; attempt < d.retries(); attempt++ {
		rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })

		hands = [engine.MaxPlayers]engine.CardSet{}
		remaining := poolSet
		ok := true
		for i, n := range needs {
			allowed := t.Possible(n.seat).Intersect(remaining)
			// Cards no later seat may take have to go here.
			var later engine.CardSet
			for _, m := range needs[i+1:] {
				later = later.Union(t.Possible(m.seat))
			}
			forced := allowed.Minus(later)
			if forced.Len() > n.size || allowed.Len() < n.size {
				ok = false
				break
			}
			hands[n.seat] = forced
			got := forced.Len()
			for _, c := range pool {
				if got == n.size {
					break
				}
				if allowed.Has(c) && !forced.Has(c) {
					hands[n.seat] = hands[n.seat].Add(c)
					got++
				}
			}
			remaining = remaining.Minus(hands[n.seat])
		}
		if ok && remaining.Empty() {
			return hands, true
		}
	}

	return d.partition(pool, sizes, rng), false
}

type seatSize struct {
	seat uint8
	size int
}

// partition deals pool into the given sizes ignoring possible sets.
func (d Determinizer) partition(pool []engine.Card, sizes []seatSize, rng *rand.Rand) [engine.MaxPlayers]engine.CardSet {
	rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	var hands [engine.MaxPlayers]engine.CardSet
	idx := 0
	for _, s := range sizes {
		for k := 0; k < s.size && idx < len(pool); k++ {
			hands[s.seat] = hands[s.seat].Add(pool[idx])
			idx++
		}
	}
	return hands
}
