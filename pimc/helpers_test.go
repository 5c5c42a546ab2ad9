package pimc

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hirorogo/singyura/engine"
)

func card(t *testing.T, s string) engine.Card {
	t.Helper()
	c, err := engine.ParseCard(s)
	require.NoError(t, err)
	return c
}

func set(t *testing.T, cards ...string) engine.CardSet {
	t.Helper()
	var s engine.CardSet
	for _, c := range cards {
		s = s.Add(card(t, c))
	}
	return s
}

// setupGame installs hands (sevens included) for len(hands) seats.
func setupGame(t *testing.T, hands ...engine.CardSet) *engine.GameState {
	t.Helper()
	g := engine.NewGame(1, engine.HouseRules{NumPlayers: uint8(len(hands))})
	var h [engine.MaxPlayers]engine.CardSet
	copy(h[:], hands)
	g.SetupHands(h)
	return &g
}

func dealtGame(seed uint64) *engine.GameState {
	g := engine.NewGame(seed, engine.DefaultHouseRules())
	g.Deal()
	return &g
}

// testConfig is small enough for unit tests.
func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Simulations = 24
	cfg.Workers = 3
	cfg.Seed = 99
	return cfg
}
