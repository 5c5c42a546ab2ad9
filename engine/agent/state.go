// Package agent implements hidden-information inference for Sevens: the
// possible-card tracker, world sampling and opponent style classification.
package agent

import (
	engine "github.com/hirorogo/singyura/engine"
)

// Tracker holds, per seat, the set of cards the seat could still hold. It is
// a flat value type and can be copied with =.
//
// Sets only ever shrink: a play removes the card everywhere, a pass removes
// every card that was placeable at that moment from the passer, a burst
// removes the dumped cards everywhere and empties the burster.
type Tracker struct {
	Observer   uint8
	NumPlayers uint8

	possible   [engine.MaxPlayers]engine.CardSet
	passes     [engine.MaxPlayers]uint8
	eliminated [engine.MaxPlayers]bool

	// board mirrors the table as of the last observed entry.
	board engine.Table
}

// NewTracker builds a tracker from the public knowledge of v alone, without
// history inference.
func NewTracker(v *engine.View) Tracker {
	t := Tracker{
		Observer:   v.Observer,
		NumPlayers: v.NumPlayers(),
		board:      v.Table,
	}
	unseen := v.Unseen()
	for p := uint8(0); p < t.NumPlayers; p++ {
		t.passes[p] = v.Passes[p]
		switch {
		case v.Eliminated[p]:
			t.eliminated[p] = true
		case p == v.Observer:
			t.possible[p] = v.Hand
		default:
			t.possible[p] = unseen
		}
	}
	return t
}

// BuildTracker replays v's history on a board that starts with the four
// sevens, then narrows the result by what v shows now.
func BuildTracker(v *engine.View) Tracker {
	t := Tracker{
		Observer:   v.Observer,
		NumPlayers: v.NumPlayers(),
	}
	var sevens engine.CardSet
	for s := uint8(0); s < engine.NumSuits; s++ {
		seven := engine.NewCard(s, engine.RankSeven)
		t.board.Place(seven)
		sevens = sevens.Add(seven)
	}
	start := engine.FullDeck.Minus(sevens).Minus(v.Hand)
	for p := uint8(0); p < t.NumPlayers; p++ {
		if p != v.Observer {
			t.possible[p] = start
		}
	}

	for _, e := range v.History {
		t.Observe(e)
	}

	unseen := v.Unseen()
	for p := uint8(0); p < t.NumPlayers; p++ {
		t.passes[p] = v.Passes[p]
		switch {
		case v.Eliminated[p]:
			t.MarkEliminated(p)
		case p == v.Observer:
			t.possible[p] = v.Hand
		default:
			t.possible[p] = t.possible[p].Intersect(unseen)
		}
	}
	t.board = v.Table
	return t
}

// Observe folds one history entry into the tracker and advances its board.
// Entries from seats already eliminated are ignored.
func (t *Tracker) Observe(e engine.HistoryEntry) {
	seat := e.Seat
	if seat >= t.NumPlayers || t.eliminated[seat] {
		return
	}

	if e.Action.IsPass() {
		t.passes[seat]++
		if seat != t.Observer {
			t.possible[seat] = t.possible[seat].Minus(t.board.LegalMoves())
		}
		if !e.Burst.Empty() {
			t.removeEverywhere(e.Burst)
			t.board.PlaceAll(e.Burst)
			t.MarkEliminated(seat)
		}
		return
	}

	card := e.Action.Card
	t.removeEverywhere(engine.NewCardSet(card))
	t.board.Place(card)
}

func (t *Tracker) removeEverywhere(s engine.CardSet) {
	for p := uint8(0); p < t.NumPlayers; p++ {
		t.possible[p] = t.possible[p].Minus(s)
	}
}

// MarkEliminated clears seat's possible set.
func (t *Tracker) MarkEliminated(seat uint8) {
	t.eliminated[seat] = true
	t.possible[seat] = 0
}

// Possible returns the cards seat could hold.
func (t *Tracker) Possible(seat uint8) engine.CardSet { return t.possible[seat] }

// PassCount returns the passes observed for seat.
func (t *Tracker) PassCount(seat uint8) uint8 { return t.passes[seat] }

// IsEliminated reports whether seat has been seen to burst.
func (t *Tracker) IsEliminated(seat uint8) bool { return t.eliminated[seat] }

// WeakSuits returns the suits in which seat could hold at most limit cards.
// A limit of 0 uses DefaultWeakSuitLimit.
func (t *Tracker) WeakSuits(seat uint8, limit int) []uint8 {
	if limit <= 0 {
		limit = DefaultWeakSuitLimit
	}
	var out []uint8
	for s := uint8(0); s < engine.NumSuits; s++ {
		if t.possible[seat].SuitCount(s) <= limit {
			out = append(out, s)
		}
	}
	return out
}

// Weight is how far the tracker's inference about seat can be trusted:
// every pass makes it less certain that the pass was forced.
func (t *Tracker) Weight(seat uint8) float64 {
	w := 1 - float64(t.passes[seat])/4*0.5
	if w < 0.5 {
		return 0.5
	}
	return w
}
