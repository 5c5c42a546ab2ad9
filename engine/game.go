// Package engine implements the rules of Sevens (七並べ) with the tunnel rule.
//
// GameState is a flat value type: hands are bitsets, the table is a fixed
// grid and the history is a fixed array, so copying a GameState with = gives
// a fully independent game. Search code relies on this to clone worlds
// without allocation.
package engine

const (
	MaxPlayers   = 6
	MaxPassLimit = 12
	// MaxHistory bounds the turns of any game: at most 48 plays (the sevens
	// are placed during the deal) plus (MaxPassLimit+1) passes per seat.
	MaxHistory = DeckSize - NumSuits + MaxPlayers*(MaxPassLimit+1)
)

// SeatState holds one seat's hand and pass bookkeeping.
type SeatState struct {
	Hand       CardSet
	Passes     uint8
	Eliminated bool
}

// GameState holds the complete, self-contained state of a Sevens game.
type GameState struct {
	Seats         [MaxPlayers]SeatState
	Table         Table
	CurrentPlayer uint8
	StartPlayer   uint8
	TurnNumber    uint16
	Flags         uint16
	Winner        int8 // seat index, -1 while running or on a draw
	History       [MaxHistory]HistoryEntry
	HistoryLen    uint8
	RNG           uint64
	Rules         HouseRules
}

// ---------------------------------------------------------------------------
// Flags bitfield
// ---------------------------------------------------------------------------

const (
	FlagGameOver    uint16 = 1 << 0
	FlagGameStarted uint16 = 1 << 1
)

func (g *GameState) IsGameOver() bool    { return g.Flags&FlagGameOver != 0 }
func (g *GameState) IsGameStarted() bool { return g.Flags&FlagGameStarted != 0 }

// ---------------------------------------------------------------------------
// xorshift64 RNG, inline with no interface
// ---------------------------------------------------------------------------

func (g *GameState) nextRand() uint64 {
	x := g.RNG
	x ^= x << 13
	x ^= x >> 7
	x ^= x << 17
	g.RNG = x
	return x
}

// randN returns a random number in [0, n).
func (g *GameState) randN(n uint64) uint64 {
	return g.nextRand() % n
}

// ---------------------------------------------------------------------------
// NewGame and Deal
// ---------------------------------------------------------------------------

// NewGame initializes a new GameState with the given seed and rules.
// No cards are dealt yet.
func NewGame(seed uint64, rules HouseRules) GameState {
	var g GameState
	g.RNG = seed
	if g.RNG == 0 {
		g.RNG = 1 // xorshift can't start at 0
	}
	g.Rules = rules
	g.Winner = -1
	return g
}

// Deal shuffles the deck, splits it among the seats and opens the sevens.
func (g *GameState) Deal() {
	deck := AllCards()
	// Fisher-Yates shuffle.
	for i := len(deck) - 1; i > 0; i-- {
		j := int(g.randN(uint64(i + 1)))
		deck[i], deck[j] = deck[j], deck[i]
	}

	n := int(g.Rules.numPlayers())
	var hands [MaxPlayers]CardSet
	// Contiguous split; the first DeckSize%n seats get one extra card.
	base, extra := DeckSize/n, DeckSize%n
	idx := 0
	for p := 0; p < n; p++ {
		size := base
		if p < extra {
			size++
		}
		hands[p] = NewCardSet(deck[idx : idx+size]...)
		idx += size
	}
	g.SetupHands(hands)
}

// SetupHands installs a specific deal, places every held seven and picks the
// holder of the start card as the first player. Used by Deal, by tests and by
// replay tooling that needs a known deal.
func (g *GameState) SetupHands(hands [MaxPlayers]CardSet) {
	n := g.Rules.numPlayers()
	start := g.Rules.startCard()
	g.StartPlayer = 0
	for p := uint8(0); p < n; p++ {
		hand := hands[p]
		for s := uint8(0); s < NumSuits; s++ {
			seven := NewCard(s, RankSeven)
			if hand.Has(seven) {
				hand = hand.Remove(seven)
				g.Table.Place(seven)
			}
		}
		if hands[p].Has(start) {
			g.StartPlayer = p
		}
		g.Seats[p] = SeatState{Hand: hand}
	}
	g.CurrentPlayer = g.StartPlayer
	g.Flags |= FlagGameStarted
	g.checkGameEnd()
}

// ---------------------------------------------------------------------------
// Query methods
// ---------------------------------------------------------------------------

// IsTerminal returns true when the game is over.
func (g *GameState) IsTerminal() bool { return g.Flags&FlagGameOver != 0 }

// ActingPlayer returns the index of the seat that must act next.
func (g *GameState) ActingPlayer() uint8 { return g.CurrentPlayer }

// NumPlayers returns the number of seats in this game.
func (g *GameState) NumPlayers() uint8 { return g.Rules.numPlayers() }

// PassLimit returns the effective pass limit.
func (g *GameState) PassLimit() uint8 { return g.Rules.passLimit() }

// Hand returns the cards held by seat.
func (g *GameState) Hand(seat uint8) CardSet { return g.Seats[seat].Hand }

// HandLen returns the number of cards in the given seat's hand.
func (g *GameState) HandLen(seat uint8) int { return g.Seats[seat].Hand.Len() }

// IsEliminated reports whether seat has burst.
func (g *GameState) IsEliminated(seat uint8) bool { return g.Seats[seat].Eliminated }

// NumActive returns the number of seats that have not been eliminated.
func (g *GameState) NumActive() uint8 {
	var active uint8
	for p := uint8(0); p < g.Rules.numPlayers(); p++ {
		if !g.Seats[p].Eliminated {
			active++
		}
	}
	return active
}

// Opponents returns all seat indices except the given seat.
func (g *GameState) Opponents(seat uint8) []uint8 {
	n := g.Rules.numPlayers()
	opps := make([]uint8, 0, n-1)
	for i := uint8(0); i < n; i++ {
		if i != seat {
			opps = append(opps, i)
		}
	}
	return opps
}

// HistorySlice returns the recorded turns. The slice aliases the state.
func (g *GameState) HistorySlice() []HistoryEntry { return g.History[:g.HistoryLen] }

// ---------------------------------------------------------------------------
// Snapshot Undo (Save / Restore)
// ---------------------------------------------------------------------------

// Snapshot is a complete value-copy of GameState for undo support.
type Snapshot GameState

// Save returns a snapshot of the current game state.
func (g *GameState) Save() Snapshot { return Snapshot(*g) }

// Restore replaces the game state with the given snapshot.
func (g *GameState) Restore(s Snapshot) { *g = GameState(s) }

// Clone returns an independent copy of the game.
func (g *GameState) Clone() GameState { return *g }
