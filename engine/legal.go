package engine

// SuitState classifies a suit by which of its ends are on the table.
type SuitState uint8

const (
	SuitClosed       SuitState = iota // seven not placed
	SuitOpen                          // neither end placed
	SuitLowTunneled                   // Ace placed, King not
	SuitHighTunneled                  // King placed, Ace not
	SuitFullyOpen                     // both ends placed
)

func (s SuitState) String() string {
	switch s {
	case SuitClosed:
		return "closed"
	case SuitOpen:
		return "open"
	case SuitLowTunneled:
		return "low-tunneled"
	case SuitHighTunneled:
		return "high-tunneled"
	case SuitFullyOpen:
		return "fully-open"
	}
	return "unknown"
}

// Table is the shared grid of placed cards. Bit r of Table[s] is set once
// rank r of suit s is on the table; bits are never cleared.
type Table [NumSuits]uint16

// Has reports whether c is on the table.
func (t *Table) Has(c Card) bool {
	if !c.Valid() {
		return false
	}
	return t[c.Suit()]&(1<<c.Rank()) != 0
}

// Place puts c on the table. Returns false if it was already there.
func (t *Table) Place(c Card) bool {
	if t.Has(c) {
		return false
	}
	t[c.Suit()] |= 1 << c.Rank()
	return true
}

// PlaceAll places every card of s.
func (t *Table) PlaceAll(s CardSet) {
	for _, c := range s.Cards() {
		t.Place(c)
	}
}

func (t *Table) placed(suit, rank uint8) bool { return t[suit]&(1<<rank) != 0 }

// Placed returns the placed cards as a set.
func (t *Table) Placed() CardSet {
	var s CardSet
	for suit := uint8(0); suit < NumSuits; suit++ {
		for r := RankAce; r <= RankKing; r++ {
			if t.placed(suit, r) {
				s = s.Add(NewCard(suit, r))
			}
		}
	}
	return s
}

// Count returns the number of placed cards.
func (t *Table) Count() int { return t.Placed().Len() }

// SuitState derives the tunnel state of suit from the grid.
func (t *Table) SuitState(suit uint8) SuitState {
	if !t.placed(suit, RankSeven) {
		return SuitClosed
	}
	ace, king := t.placed(suit, RankAce), t.placed(suit, RankKing)
	switch {
	case ace && king:
		return SuitFullyOpen
	case ace:
		return SuitLowTunneled
	case king:
		return SuitHighTunneled
	}
	return SuitOpen
}

// frontier scans from rank `from` towards rank `to` (inclusive) and returns
// the first unplaced rank, or 0 if every rank on the way is placed.
func (t *Table) frontier(suit, from, to uint8) uint8 {
	step := 1
	if to < from {
		step = -1
	}
	for r := int(from); ; r += step {
		if !t.placed(suit, uint8(r)) {
			return uint8(r)
		}
		if r == int(to) {
			return 0
		}
	}
}

// SuitLegal returns the cards of suit that may be played next.
func (t *Table) SuitLegal(suit uint8) CardSet {
	var s CardSet
	add := func(r uint8) {
		if r != 0 {
			s = s.Add(NewCard(suit, r))
		}
	}
	innerLow := func() { add(t.frontier(suit, RankSix, RankAce)) }
	innerHigh := func() { add(t.frontier(suit, RankEight, RankKing)) }

	switch t.SuitState(suit) {
	case SuitClosed:
		add(RankSeven)
	case SuitOpen:
		innerLow()
		innerHigh()
	case SuitLowTunneled:
		innerHigh()
		add(RankKing)
	case SuitHighTunneled:
		innerLow()
		add(RankAce)
	case SuitFullyOpen:
		innerLow()
		innerHigh()
		add(t.frontier(suit, RankTwo, RankSix))
		add(t.frontier(suit, RankQueen, RankEight))
	}
	return s
}

// LegalMoves returns every card that may be placed on the table right now,
// regardless of who holds it.
func (t *Table) LegalMoves() CardSet {
	var s CardSet
	for suit := uint8(0); suit < NumSuits; suit++ {
		s |= t.SuitLegal(suit)
	}
	return s
}

// LegalMoves returns the cards placeable on the current table.
func (g *GameState) LegalMoves() CardSet { return g.Table.LegalMoves() }

// PlayableMoves returns the legal cards seat actually holds.
func (g *GameState) PlayableMoves(seat uint8) CardSet {
	return g.Table.LegalMoves().Intersect(g.Seats[seat].Hand)
}

// LegalActions lists the actions open to the current player: one Play per
// playable card, then Pass. Empty when the game is over.
func (g *GameState) LegalActions() []Action {
	if g.IsGameOver() {
		return nil
	}
	playable := g.PlayableMoves(g.CurrentPlayer)
	out := make([]Action, 0, playable.Len()+1)
	for _, c := range playable.Cards() {
		out = append(out, Play(c))
	}
	return append(out, Pass())
}
