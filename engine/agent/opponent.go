package agent

import engine "github.com/hirorogo/singyura/engine"

// OpponentModel classifies seats by the style of their recent turns. It only
// adjusts evaluation weights and never affects legality.
type OpponentModel struct {
	Window int // entries of history considered; 0 uses DefaultWindow
}

func (m OpponentModel) window() int {
	switch {
	case m.Window == 0:
		return DefaultWindow
	case m.Window < MinWindow:
		return MinWindow
	case m.Window > MaxWindow:
		return MaxWindow
	}
	return m.Window
}

// Classify tallies seat's turns among the last Window history entries.
func (m OpponentModel) Classify(history []engine.HistoryEntry, seat uint8) Mode {
	if w := m.window(); len(history) > w {
		history = history[len(history)-w:]
	}
	var aggressive, blocker int
	for _, e := range history {
		if e.Seat != seat {
			continue
		}
		if e.Action.IsPass() {
			blocker++
			continue
		}
		switch e.Action.Card.Rank() {
		case engine.RankAce, engine.RankKing:
			aggressive += 2
		case engine.RankSix, engine.RankEight, engine.RankJack, engine.RankQueen:
			blocker++
		}
	}
	switch {
	case aggressive >= blocker+2:
		return ModeTunnelAggressive
	case blocker >= aggressive+2:
		return ModeBlocker
	}
	return ModeNeutral
}

// Scales are multipliers for the style-sensitive heuristic components.
type Scales struct {
	TunnelLock float64
	BurstForce float64
}

// NeutralScales leaves every component unscaled.
func NeutralScales() Scales { return Scales{TunnelLock: 1, BurstForce: 1} }

// Scales combines the modes of v's active opponents: an aggressive opponent
// raises the tunnel-lock weight, a blocker raises the burst-force weight.
func (m OpponentModel) Scales(v *engine.View) Scales {
	s := NeutralScales()
	for _, p := range v.Opponents() {
		switch m.Classify(v.History, p) {
		case ModeTunnelAggressive:
			s.TunnelLock = ModeScale
		case ModeBlocker:
			s.BurstForce = ModeScale
		}
	}
	return s
}
