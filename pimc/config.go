// Package pimc chooses moves under hidden information by Perfect Information
// Monte Carlo: sample the unseen hands, play every candidate out in each
// sampled world, and add a heuristic bonus to the win tallies.
package pimc

import (
	"fmt"
	"runtime"
	"strings"
)

// Config tunes a DecisionEngine. Zero fields fall back to DefaultConfig.
type Config struct {
	Simulations     int     // sampled worlds per decision
	MaxRolloutDepth int     // turn cap per rollout
	Retries         int     // constrained sampling attempts per world
	Workers         int     // goroutines running trials
	Seed            uint64  // 0 = seeded from the runtime
	SimulationScale float64 // weight of the normalised tally
	HeuristicWeight float64 // weight of the heuristic bonus
	StrategicPass   bool    // allow withholding a playable card
	Window          int     // opponent model history window
	Weights         Weights
}

// DefaultConfig returns the balanced preset.
func DefaultConfig() Config {
	return Config{
		Simulations:     200,
		MaxRolloutDepth: 200,
		Retries:         30,
		Workers:         runtime.NumCPU(),
		SimulationScale: 300,
		HeuristicWeight: 1,
		StrategicPass:   false,
		Weights:         DefaultWeights(),
	}
}

// Presets names the tuned configurations.
var Presets = []string{"fastest", "balanced", "strongest"}

// Preset returns the named configuration.
func Preset(name string) (Config, error) {
	cfg := DefaultConfig()
	switch strings.ToLower(name) {
	case "fastest":
		cfg.Simulations, cfg.MaxRolloutDepth, cfg.Retries = 20, 100, 10
	case "balanced", "":
	case "strongest":
		cfg.Simulations, cfg.MaxRolloutDepth, cfg.Retries = 500, 300, 50
		cfg.StrategicPass = true
	default:
		return cfg, fmt.Errorf("unknown preset %q (want one of %s)", name, strings.Join(Presets, ", "))
	}
	return cfg, nil
}

// withDefaults fills zero fields from DefaultConfig.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Simulations <= 0 {
		c.Simulations = d.Simulations
	}
	if c.MaxRolloutDepth <= 0 {
		c.MaxRolloutDepth = d.MaxRolloutDepth
	}
	if c.Retries <= 0 {
		c.Retries = d.Retries
	}
	if c.Workers <= 0 {
		c.Workers = d.Workers
	}
	if c.SimulationScale == 0 {
		c.SimulationScale = d.SimulationScale
	}
	if c.HeuristicWeight == 0 {
		c.HeuristicWeight = d.HeuristicWeight
	}
	if c.Weights == (Weights{}) {
		c.Weights = d.Weights
	}
	return c
}

// Weights are the heuristic coefficients. They were tuned by self-play and
// carry no meaning beyond their effect on play strength.
type Weights struct {
	CircularDist float64 // per step away from the seven
	MyPath       float64 // next card outward is ours
	OthersRisk   float64 // per card of someone else's run opened
	SuitDom      float64 // per card held in the suit
	WinDash      float64 // hand no larger than any opponent's
	Necromancer  float64 // frontier a pending burst may open
	Advanced     float64 // scale of the distance, path, suit and dash terms

	EndPenalty   float64 // opening a tunnel with the far end unaccounted for
	NextPlaced   float64 // next outward card already on the table
	NextHeld     float64 // next outward card in hand
	NewMoves     float64 // per card in hand the play unlocks
	SuitCount    float64
	EndBalance   float64 // Ace/King with the far end already placed, or not
	LockOpen     float64 // playing the tunnel end while we dominate the far side
	LockHold     float64 // playing the tunnel end without dominating; favours holding it
	LockWeight   float64
	BurstPerPass float64 // weak-suit bonus per opponent pass
	BurstWeight  float64

	EndgameHand int     // hand size from which the endgame multiplier applies
	EndgameStep float64 // multiplier increment per card below EndgameHand+1

	PassBase      float64 // strategic pass threshold
	PassKillZone  float64 // threshold when an opponent is out of passes
	PassWin       float64 // threshold when we are ahead
	KillZoneNear  float64 // kill zone factor when an opponent has one pass left
	ChainRiskSpan int     // cards scanned when counting opened runs
}

// DefaultWeights returns the tournament tuning.
func DefaultWeights() Weights {
	return Weights{
		CircularDist: 22,
		MyPath:       112,
		OthersRisk:   -127,
		SuitDom:      84,
		WinDash:      41,
		Necromancer:  20,
		Advanced:     0.8,

		EndPenalty:   -50,
		NextPlaced:   5,
		NextHeld:     12,
		NewMoves:     10,
		SuitCount:    2,
		EndBalance:   5,
		LockOpen:     8,
		LockHold:     -10,
		LockWeight:   3,
		BurstPerPass: 5,
		BurstWeight:  3,

		EndgameHand: 3,
		EndgameStep: 0.1,

		PassBase:      200,
		PassKillZone:  300,
		PassWin:       -31,
		KillZoneNear:  0.7,
		ChainRiskSpan: 6,
	}
}
