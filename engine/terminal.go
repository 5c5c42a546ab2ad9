package engine

// checkGameEnd checks end conditions and sets the GameOver flag if met.
func (g *GameState) checkGameEnd() {
	if g.IsGameOver() {
		return
	}

	n := g.Rules.numPlayers()

	// 1. A seat still in the game has emptied its hand.
	for p := uint8(0); p < n; p++ {
		if !g.Seats[p].Eliminated && g.Seats[p].Hand.Empty() && g.IsGameStarted() {
			g.Winner = int8(p)
			g.Flags |= FlagGameOver
			return
		}
	}

	// 2. Last survivor, or nobody left.
	switch active := g.NumActive(); active {
	case 0:
		g.Winner = -1
		g.Flags |= FlagGameOver
		return
	case 1:
		for p := uint8(0); p < n; p++ {
			if !g.Seats[p].Eliminated {
				g.Winner = int8(p)
			}
		}
		g.Flags |= FlagGameOver
		return
	}

	// 3. Turn cap reached: draw.
	if g.Rules.MaxTurns > 0 && g.TurnNumber >= g.Rules.MaxTurns {
		g.Winner = -1
		g.Flags |= FlagGameOver
	}
}

// WinnerSeat returns the winning seat and whether there is one. A finished
// game without a winner is a draw.
func (g *GameState) WinnerSeat() (uint8, bool) {
	if !g.IsGameOver() || g.Winner < 0 {
		return 0, false
	}
	return uint8(g.Winner), true
}
