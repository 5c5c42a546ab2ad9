package pimc

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/hirorogo/singyura/engine"
)

// Strategy chooses an action for the observer of a view.
type Strategy interface {
	Name() string
	Decide(ctx context.Context, v *engine.View) (engine.Action, error)
}

// StrategyFor returns the named strategy for seat. Names are "random",
// "greedy", "pimc" (cfg as given) or a preset name. seed 0 draws a random
// seed.
func StrategyFor(name string, seat uint8, cfg Config, seed uint64, log *logrus.Entry) (Strategy, error) {
	if seed == 0 {
		seed = rand.Uint64()
	}
	switch strings.ToLower(name) {
	case "random":
		return NewRandomStrategy(seed), nil
	case "greedy":
		return NewGreedyStrategy(seed), nil
	case "pimc":
		cfg.Seed = seed
		return NewDecisionEngine(seat, cfg, log), nil
	}
	preset, err := Preset(name)
	if err != nil {
		return nil, fmt.Errorf("strategy for seat %d: %w", seat, err)
	}
	preset.Workers = cfg.Workers
	preset.Seed = seed
	return NewDecisionEngine(seat, preset, log), nil
}

// --- RandomStrategy ---

// RandomStrategy plays a uniformly random playable card and passes only
// when it has to. It is the baseline opponent.
type RandomStrategy struct {
	rng *rand.Rand
}

func NewRandomStrategy(seed uint64) *RandomStrategy {
	return &RandomStrategy{rng: rand.New(rand.NewPCG(seed, seed>>1|1))}
}

func (*RandomStrategy) Name() string { return "random" }

func (s *RandomStrategy) Decide(_ context.Context, v *engine.View) (engine.Action, error) {
	playable := v.Playable()
	if playable.Empty() {
		return engine.Pass(), nil
	}
	return engine.Play(pick(playable, s.rng)), nil
}

// --- GreedyStrategy ---

// GreedyStrategy plays the rollout policy directly, without search.
type GreedyStrategy struct {
	rng *rand.Rand
}

func NewGreedyStrategy(seed uint64) *GreedyStrategy {
	return &GreedyStrategy{rng: rand.New(rand.NewPCG(seed, seed>>1|1))}
}

func (*GreedyStrategy) Name() string { return "greedy" }

func (s *GreedyStrategy) Decide(_ context.Context, v *engine.View) (engine.Action, error) {
	return RolloutAction(&v.Table, v.Hand, s.rng), nil
}
