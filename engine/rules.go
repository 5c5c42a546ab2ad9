package engine

import "fmt"

// HouseRules holds configurable game rule settings.
type HouseRules struct {
	NumPlayers uint8  // number of seats (2 to 6); 0 treated as 3
	PassLimit  uint8  // passes allowed before the next one bursts; 0 treated as 3
	StartCard  Card   // holder of this card moves first; zero or EmptyCard means ♢7
	MaxTurns   uint16 // 0 = unlimited; otherwise the game ends as a draw
}

// DefaultHouseRules returns the tournament rules: three seats, three passes,
// the holder of the seven of diamonds starts.
func DefaultHouseRules() HouseRules {
	return HouseRules{
		NumPlayers: 3,
		PassLimit:  3,
		StartCard:  NewCard(SuitDiamonds, RankSeven),
	}
}

// Validate checks the rules can describe a playable game.
func (r HouseRules) Validate() error {
	n := r.numPlayers()
	if n < 2 || n > MaxPlayers {
		return fmt.Errorf("house rules: NumPlayers %d out of range [2, %d]", n, MaxPlayers)
	}
	if r.passLimit() > MaxPassLimit {
		return fmt.Errorf("house rules: PassLimit %d exceeds %d", r.passLimit(), MaxPassLimit)
	}
	if sc := r.startCard(); !sc.Valid() || sc.Rank() != RankSeven {
		return fmt.Errorf("house rules: StartCard %s must be a seven", sc)
	}
	return nil
}

// numPlayers returns the effective number of players, treating 0 as 3.
func (r *HouseRules) numPlayers() uint8 {
	if r.NumPlayers == 0 {
		return 3
	}
	return r.NumPlayers
}

func (r *HouseRules) passLimit() uint8 {
	if r.PassLimit == 0 {
		return 3
	}
	return r.PassLimit
}

func (r *HouseRules) startCard() Card {
	if r.StartCard == EmptyCard || r.StartCard == 0 {
		return NewCard(SuitDiamonds, RankSeven)
	}
	return r.StartCard
}

// Players returns the effective number of seats.
func (r HouseRules) Players() uint8 { return r.numPlayers() }

// Passes returns the effective pass limit.
func (r HouseRules) Passes() uint8 { return r.passLimit() }
