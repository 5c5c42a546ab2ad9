package engine

import "fmt"

// View is what one seat can observe: the table, its own hand, the public
// per-seat counters and the history.
type View struct {
	Rules         HouseRules
	Observer      uint8
	Table         Table
	Hand          CardSet
	HandSizes     [MaxPlayers]uint8
	Passes        [MaxPlayers]uint8
	Eliminated    [MaxPlayers]bool
	CurrentPlayer uint8
	TurnNumber    uint16
	GameOver      bool
	History       []HistoryEntry
}

// ViewFor returns seat's observation of the game. The history is copied.
func (g *GameState) ViewFor(seat uint8) View {
	v := View{
		Rules:         g.Rules,
		Observer:      seat,
		Table:         g.Table,
		Hand:          g.Seats[seat].Hand,
		CurrentPlayer: g.CurrentPlayer,
		TurnNumber:    g.TurnNumber,
		GameOver:      g.IsGameOver(),
		History:       append([]HistoryEntry(nil), g.HistorySlice()...),
	}
	for p := uint8(0); p < g.Rules.numPlayers(); p++ {
		v.HandSizes[p] = uint8(g.Seats[p].Hand.Len())
		v.Passes[p] = g.Seats[p].Passes
		v.Eliminated[p] = g.Seats[p].Eliminated
	}
	return v
}

// NumPlayers returns the number of seats.
func (v *View) NumPlayers() uint8 { return v.Rules.numPlayers() }

// PassLimit returns the effective pass limit.
func (v *View) PassLimit() uint8 { return v.Rules.passLimit() }

// Unseen returns the cards the observer cannot see: neither on the table nor
// in its own hand.
func (v *View) Unseen() CardSet {
	return FullDeck.Minus(v.Table.Placed()).Minus(v.Hand)
}

// Playable returns the legal cards in the observer's hand.
func (v *View) Playable() CardSet { return v.Table.LegalMoves().Intersect(v.Hand) }

// Opponents returns the seats other than the observer that are still in play.
func (v *View) Opponents() []uint8 {
	n := v.Rules.numPlayers()
	out := make([]uint8, 0, n-1)
	for p := uint8(0); p < n; p++ {
		if p != v.Observer && !v.Eliminated[p] {
			out = append(out, p)
		}
	}
	return out
}

// World assembles a full game from the view and a guess of the other seats'
// hands. The observer's slot of hands is ignored.
func (v *View) World(hands [MaxPlayers]CardSet) GameState {
	g := NewGame(1, v.Rules)
	g.Table = v.Table
	g.CurrentPlayer = v.CurrentPlayer
	g.TurnNumber = v.TurnNumber
	g.Flags |= FlagGameStarted
	if v.GameOver {
		g.Flags |= FlagGameOver
	}
	for p := uint8(0); p < v.Rules.numPlayers(); p++ {
		hand := hands[p]
		if p == v.Observer {
			hand = v.Hand
		}
		g.Seats[p] = SeatState{Hand: hand, Passes: v.Passes[p], Eliminated: v.Eliminated[p]}
	}
	g.HistoryLen = uint8(copy(g.History[:], v.History))
	return g
}

// ReplayHistory rebuilds a game from its initial deal and turn history. The
// sevens in hands are placed as in SetupHands; start overrides the first
// seat. Every entry must be legal and its burst set must match.
func ReplayHistory(rules HouseRules, hands [MaxPlayers]CardSet, start uint8, history []HistoryEntry) (GameState, error) {
	g := NewGame(1, rules)
	g.SetupHands(hands)
	g.StartPlayer = start
	g.CurrentPlayer = start
	for i, e := range history {
		if err := g.Apply(e.Seat, e.Action); err != nil {
			return g, fmt.Errorf("replay entry %d (%s by seat %d): %w", i, e.Action, e.Seat, err)
		}
		if got := g.History[g.HistoryLen-1].Burst; got != e.Burst {
			return g, fmt.Errorf("replay entry %d: burst %s, recorded %s", i, got, e.Burst)
		}
	}
	return g, nil
}
