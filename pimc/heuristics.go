package pimc

import (
	"github.com/hirorogo/singyura/engine"
	"github.com/hirorogo/singyura/engine/agent"
)

// Bonus is the heuristic value of playing Card, split by component.
type Bonus struct {
	Card       engine.Card
	Distance   float64
	Chain      float64
	Suit       float64
	TunnelLock float64
	BurstForce float64
	Endgame    float64
	Total      float64
}

// Evaluator scores the observer's playable cards without search.
type Evaluator struct {
	Weights Weights
}

// Evaluate returns one Bonus per playable card of v, in card order.
func (e Evaluator) Evaluate(v *engine.View, t *agent.Tracker, sc agent.Scales) []Bonus {
	w := e.Weights
	hand := v.Hand
	handLen := hand.Len()
	mins := opponentMinimums(v)

	playable := v.Playable().Cards()
	out := make([]Bonus, 0, len(playable))
	for _, c := range playable {
		b := Bonus{Card: c}
		held := float64(hand.SuitCount(c.Suit()))

		b.Distance = w.Advanced * w.CircularDist * float64(circularDistance(c))

		b.Chain = w.Advanced * e.pathScore(v, c)
		if next, ok := outward(c); ok {
			if v.Table.Has(next) {
				b.Chain += w.NextPlaced
			} else {
				b.Chain -= w.NextPlaced
				if hand.Has(next) {
					b.Chain += w.NextHeld + w.NewMoves
				}
			}
		}

		b.Suit = w.Advanced*w.SuitDom*held + w.SuitCount*held

		b.TunnelLock = sc.TunnelLock * e.tunnelLock(v, c)
		b.BurstForce = sc.BurstForce * e.burstForce(v, t, c)

		if mins.active > 0 && handLen <= mins.hand {
			b.Endgame = w.Advanced * w.WinDash
		}

		b.Total = b.Distance + b.Chain + b.Suit + b.TunnelLock + b.BurstForce + b.Endgame
		if w.EndgameHand > 0 && handLen <= w.EndgameHand {
			b.Total *= 1 + w.EndgameStep*float64(w.EndgameHand+1-handLen)
		}
		out = append(out, b)
	}
	return out
}

// pathScore rewards playing towards our own cards and penalises opening
// runs that only other seats can follow. Both neighbours are checked, the
// Ace and King being neighbours through the tunnel.
func (e Evaluator) pathScore(v *engine.View, c engine.Card) float64 {
	var score float64
	for _, dir := range [2]int{1, -1} {
		nb := neighbor(c, dir)
		if v.Table.Has(nb) {
			continue
		}
		if v.Hand.Has(nb) {
			score += e.Weights.MyPath
			continue
		}
		score += float64(e.chainRisk(v, c, dir)) * e.Weights.OthersRisk
	}
	return score
}

// chainRisk counts consecutive cards beyond c in direction dir that are
// neither placed nor ours.
func (e Evaluator) chainRisk(v *engine.View, c engine.Card, dir int) int {
	risk := 0
	cur := c
	for i := 0; i < e.Weights.ChainRiskSpan; i++ {
		cur = neighbor(cur, dir)
		if v.Table.Has(cur) || v.Hand.Has(cur) {
			break
		}
		risk++
	}
	return risk
}

func (e Evaluator) tunnelLock(v *engine.View, c engine.Card) float64 {
	if !c.IsEnd() {
		return 0
	}
	w := e.Weights
	suit := c.Suit()
	ace := engine.NewCard(suit, engine.RankAce)
	king := engine.NewCard(suit, engine.RankKing)
	far := king
	if c.Rank() == engine.RankKing {
		far = ace
	}

	var score float64
	if v.Table.Has(far) {
		score += w.EndBalance
	} else {
		score -= w.EndBalance
		if !v.Hand.Has(far) {
			score += w.Advanced * w.EndPenalty
		}
	}

	// Playing the tunnel entry hands the far side to whoever holds it.
	state := v.Table.SuitState(suit)
	if (state == engine.SuitLowTunneled && c == king) || (state == engine.SuitHighTunneled && c == ace) {
		side := 0
		for _, h := range v.Hand.Cards() {
			if h.Suit() != suit {
				continue
			}
			if (c == king && h.Rank() > engine.RankSeven) || (c == ace && h.Rank() < engine.RankSeven) {
				side++
			}
		}
		if side >= 3 {
			score += w.LockWeight * w.LockOpen
		} else {
			score += w.LockWeight * w.LockHold
		}
	}
	return score
}

func (e Evaluator) burstForce(v *engine.View, t *agent.Tracker, c engine.Card) float64 {
	w := e.Weights
	limit := v.PassLimit()
	var score float64
	for _, p := range v.Opponents() {
		passes := v.Passes[p]
		if passes == 0 {
			continue
		}
		if passes+1 >= limit {
			for _, s := range t.WeakSuits(p, agent.DefaultWeakSuitLimit) {
				if s == c.Suit() {
					score += w.BurstWeight * w.BurstPerPass * float64(passes) * t.Weight(p)
				}
			}
		}
		// The next pass bursts p and dumps its hand; frontiers next to an
		// open gap may become ours.
		if passes >= limit {
			if !v.Table.Has(neighbor(c, 1)) || !v.Table.Has(neighbor(c, -1)) {
				score += w.Necromancer
			}
		}
	}
	return score
}

type minimums struct {
	active     int
	hand       int // smallest active opponent hand
	passesLeft int // fewest passes an active opponent has before bursting
}

func opponentMinimums(v *engine.View) minimums {
	m := minimums{hand: engine.DeckSize, passesLeft: int(v.PassLimit())}
	for _, p := range v.Opponents() {
		m.active++
		m.hand = min(m.hand, int(v.HandSizes[p]))
		m.passesLeft = min(m.passesLeft, int(v.PassLimit())-int(v.Passes[p]))
	}
	return m
}

// circularDistance is the distance of c from the seven around the suit
// ring; the Ace and King are adjacent through the tunnel.
func circularDistance(c engine.Card) int {
	d := int(c.Rank()) - int(engine.RankSeven)
	if d < 0 {
		d = -d
	}
	return min(d, engine.NumRanks-d)
}

// neighbor returns the card dir steps from c around the suit ring.
func neighbor(c engine.Card, dir int) engine.Card {
	idx := (int(c.Rank()) - 1 + dir + engine.NumRanks) % engine.NumRanks
	return engine.NewCard(c.Suit(), uint8(idx+1))
}

// outward returns the next card away from the seven, if any.
func outward(c engine.Card) (engine.Card, bool) {
	r := c.Rank()
	switch {
	case r < engine.RankSeven && r > engine.RankAce:
		return engine.NewCard(c.Suit(), r-1), true
	case r > engine.RankSeven && r < engine.RankKing:
		return engine.NewCard(c.Suit(), r+1), true
	}
	return engine.EmptyCard, false
}
