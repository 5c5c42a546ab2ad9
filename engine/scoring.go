package engine

// Outcome is the result of a finished game from one seat's point of view.
type Outcome int8

const (
	OutcomeLoss Outcome = -1
	OutcomeDraw Outcome = 0
	OutcomeWin  Outcome = 1
)

func (o Outcome) String() string {
	switch o {
	case OutcomeWin:
		return "win"
	case OutcomeLoss:
		return "loss"
	}
	return "draw"
}

// OutcomeFor returns seat's outcome. Draw while the game is still running.
func (g *GameState) OutcomeFor(seat uint8) Outcome {
	if !g.IsGameOver() || g.Winner < 0 {
		return OutcomeDraw
	}
	if uint8(g.Winner) == seat {
		return OutcomeWin
	}
	return OutcomeLoss
}

// GetUtility returns +1 for the winner, -1 for the others and 0 for every
// seat on a draw or an unfinished game.
func (g *GameState) GetUtility() [MaxPlayers]float32 {
	var u [MaxPlayers]float32
	for p := uint8(0); p < g.Rules.numPlayers(); p++ {
		u[p] = float32(g.OutcomeFor(p))
	}
	return u
}

// Ranking orders seats for reporting: the winner first, then surviving seats
// by fewest cards left, then eliminated seats.
func (g *GameState) Ranking() []uint8 {
	n := g.Rules.numPlayers()
	order := make([]uint8, 0, n)
	for p := uint8(0); p < n; p++ {
		order = append(order, p)
	}
	key := func(p uint8) int {
		switch {
		case g.Winner >= 0 && uint8(g.Winner) == p:
			return -1
		case g.Seats[p].Eliminated:
			return DeckSize + 1
		}
		return g.Seats[p].Hand.Len()
	}
	// Insertion sort; n is tiny and stability keeps seat order on ties.
	for i := 1; i < len(order); i++ {
		for j := i; j > 0 && key(order[j]) < key(order[j-1]); j-- {
			order[j], order[j-1] = order[j-1], order[j]
		}
	}
	return order
}
