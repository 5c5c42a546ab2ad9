package pimc

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStrategyFor(t *testing.T) {
	tests := []struct {
		name, want string
	}{
		{"random", "random"},
		{"Greedy", "greedy"},
		{"pimc", "pimc"},
		{"fastest", "pimc"},
		{"strongest", "pimc"},
	}
	for _, tt := range tests {
		s, err := StrategyFor(tt.name, 0, testConfig(), 5, nil)
		require.NoError(t, err, tt.name)
		assert.Equal(t, tt.want, s.Name(), tt.name)
	}

	_, err := StrategyFor("mcts", 1, testConfig(), 5, nil)
	assert.ErrorContains(t, err, "seat 1")
}

func TestStrategyForPresetKeepsWorkers(t *testing.T) {
	cfg := testConfig()
	cfg.Workers = 2
	s, err := StrategyFor("strongest", 0, cfg, 5, nil)
	require.NoError(t, err)
	de, ok := s.(*DecisionEngine)
	require.True(t, ok)
	assert.Equal(t, 2, de.Config().Workers)
	assert.Equal(t, 500, de.Config().Simulations)
	assert.True(t, de.Config().StrategicPass)
}

func TestBaselineStrategiesPlayLegally(t *testing.T) {
	strategies := []Strategy{NewRandomStrategy(11), NewGreedyStrategy(11)}
	for _, s := range strategies {
		t.Run(s.Name(), func(t *testing.T) {
			for seed := uint64(1); seed <= 10; seed++ {
				g := dealtGame(seed)
				for !g.IsTerminal() {
					v := g.ViewFor(g.CurrentPlayer)
					a, err := s.Decide(context.Background(), &v)
					require.NoError(t, err)
					if a.IsPass() {
						require.True(t, v.Playable().Empty(), "%s passed holding a playable card", s.Name())
					} else {
						require.True(t, v.Playable().Has(a.Card))
					}
					require.NoError(t, g.ApplyAction(a))
				}
			}
		})
	}
}
