package pimc

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hirorogo/singyura/engine"
)

func sevens(t *testing.T, extra ...string) *engine.Table {
	t.Helper()
	var tb engine.Table
	for s := uint8(0); s < engine.NumSuits; s++ {
		tb.Place(engine.NewCard(s, engine.RankSeven))
	}
	for _, c := range extra {
		tb.Place(card(t, c))
	}
	return &tb
}

func TestRolloutAction(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	tests := []struct {
		name  string
		table *engine.Table
		hand  engine.CardSet
		want  engine.Action
	}{
		{
			name:  "nothing playable",
			table: sevens(t),
			hand:  set(t, "S10", "H2"),
			want:  engine.Pass(),
		},
		{
			name:  "end first",
			table: sevens(t, "S6", "S5", "S4", "S3", "S2"),
			hand:  set(t, "SA", "H8", "H9"),
			want:  engine.Play(card(t, "SA")),
		},
		{
			name:  "safe before long suit",
			table: sevens(t),
			hand:  set(t, "S8", "S9", "H8", "H2", "H3", "H4"),
			want:  engine.Play(card(t, "S8")),
		},
		{
			name:  "longest suit",
			table: sevens(t),
			hand:  set(t, "S8", "H8", "H2", "H3"),
			want:  engine.Play(card(t, "H8")),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RolloutAction(tt.table, tt.hand, rng))
		})
	}
}

func TestRolloutActionAlwaysLegal(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	for seed := uint64(1); seed <= 20; seed++ {
		g := dealtGame(seed)
		for !g.IsTerminal() {
			seat := g.CurrentPlayer
			a := RolloutAction(&g.Table, g.Hand(seat), rng)
			if !a.IsPass() {
				require.True(t, g.PlayableMoves(seat).Has(a.Card), "seed %d: %s", seed, a)
			}
			require.NoError(t, g.ApplyAction(a))
		}
	}
}

func TestRolloutFinishes(t *testing.T) {
	for seed := uint64(1); seed <= 20; seed++ {
		g := dealtGame(seed)
		rng := rand.New(rand.NewPCG(seed, 7))
		winner, err := Rollout(g, rng, 1000)
		require.NoError(t, err)
		require.True(t, g.IsTerminal(), "seed %d", seed)
		if w, ok := g.WinnerSeat(); ok {
			assert.Equal(t, int8(w), winner)
		} else {
			assert.Equal(t, int8(-1), winner)
		}
	}
}

func TestRolloutDepthCap(t *testing.T) {
	g := dealtGame(2)
	winner, err := Rollout(g, rand.New(rand.NewPCG(1, 1)), 0)
	require.NoError(t, err)
	assert.Equal(t, int8(-1), winner)
	assert.False(t, g.IsTerminal())
}
