package arena

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	engine "github.com/hirorogo/singyura/engine"
	"github.com/hirorogo/singyura/pimc"
)

// mockBroadcaster captures match events for testing assertions.
type mockBroadcaster struct {
	mu           sync.Mutex
	allEvents    []GameEvent
	playerEvents map[uuid.UUID][]GameEvent
}

func newMockBroadcaster() *mockBroadcaster {
	return &mockBroadcaster{playerEvents: make(map[uuid.UUID][]GameEvent)}
}

func (mb *mockBroadcaster) broadcastFn(ev GameEvent) {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	mb.allEvents = append(mb.allEvents, ev)
}

func (mb *mockBroadcaster) broadcastToPlayerFn(playerID uuid.UUID, ev GameEvent) {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	mb.playerEvents[playerID] = append(mb.playerEvents[playerID], ev)
}

func (mb *mockBroadcaster) getLastEvent() *GameEvent {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	if len(mb.allEvents) == 0 {
		return nil
	}
	return &mb.allEvents[len(mb.allEvents)-1]
}

func (mb *mockBroadcaster) countByType(eventType GameEventType) int {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	n := 0
	for _, ev := range mb.allEvents {
		if ev.Type == eventType {
			n++
		}
	}
	return n
}

var errBoom = errors.New("boom")

type failingStrategy struct{}

func (failingStrategy) Name() string { return "failing" }

func (failingStrategy) Decide(context.Context, *engine.View) (engine.Action, error) {
	return engine.Pass(), errBoom
}

// setupTestMatch creates a three-seat match with one player per strategy.
func setupTestMatch(t *testing.T, strategies ...pimc.Strategy) (*Match, []*Player, *mockBroadcaster) {
	t.Helper()
	m := NewMatch(engine.DefaultHouseRules(), nil)
	mb := newMockBroadcaster()
	m.BroadcastFn = mb.broadcastFn
	m.BroadcastToPlayerFn = mb.broadcastToPlayerFn

	players := make([]*Player, len(strategies))
	for i, s := range strategies {
		players[i] = &Player{ID: uuid.New(), Name: "Player" + string(rune('A'+i)), Strategy: s}
		require.NoError(t, m.AddPlayer(players[i]))
	}
	return m, players, mb
}

func randomPlayers(n int) []pimc.Strategy {
	out := make([]pimc.Strategy, n)
	for i := range out {
		out[i] = pimc.NewRandomStrategy(uint64(i + 1))
	}
	return out
}

func TestAddPlayer(t *testing.T) {
	m, _, _ := setupTestMatch(t, randomPlayers(3)...)

	err := m.AddPlayer(&Player{ID: uuid.New(), Strategy: pimc.NewRandomStrategy(9)})
	assert.ErrorContains(t, err, "table full")

	m2 := NewMatch(engine.DefaultHouseRules(), nil)
	assert.ErrorContains(t, m2.AddPlayer(&Player{ID: uuid.New()}), "no strategy")

	p := &Player{Strategy: pimc.NewRandomStrategy(1)}
	require.NoError(t, m2.AddPlayer(p))
	assert.NotEqual(t, uuid.Nil, p.ID, "missing IDs are generated")

	require.NoError(t, m.Start(1))
	err = m.AddPlayer(&Player{ID: uuid.New(), Strategy: pimc.NewRandomStrategy(9)})
	assert.ErrorIs(t, err, ErrMatchStarted)
}

func TestStartRequiresFullTable(t *testing.T) {
	m, _, _ := setupTestMatch(t, randomPlayers(2)...)
	assert.ErrorIs(t, m.Start(1), ErrMatchNotReady)
	assert.ErrorIs(t, m.Step(context.Background()), ErrMatchNotReady)
}

func TestStartDealsAndAnnounces(t *testing.T) {
	m, players, mb := setupTestMatch(t, randomPlayers(3)...)
	require.NoError(t, m.Start(42))
	require.True(t, m.Started)

	require.NotEmpty(t, mb.allEvents)
	assert.Equal(t, EventGameStart, mb.allEvents[0].Type)
	last := mb.getLastEvent()
	require.Equal(t, EventGamePlayerTurn, last.Type)
	assert.Equal(t, m.Engine.StartPlayer, last.User.Seat)

	for _, p := range players {
		events := mb.playerEvents[p.ID]
		require.Len(t, events, 1, "one private sync per player")
		st := events[0].State
		require.NotNil(t, st)
		for _, ps := range st.Players {
			if ps.PlayerID == p.ID {
				assert.Len(t, ps.RevealedHand, ps.HandSize)
			} else {
				assert.Empty(t, ps.RevealedHand, "opponent cards must stay hidden")
			}
		}
	}
}

func TestPlayToEnd(t *testing.T) {
	for seed := uint64(1); seed <= 5; seed++ {
		m, players, mb := setupTestMatch(t, randomPlayers(3)...)
		var ended []Result
		m.OnGameEnd = func(id uuid.UUID, res Result) {
			assert.Equal(t, m.ID, id)
			ended = append(ended, res)
		}

		res, err := m.Play(context.Background(), seed)
		require.NoError(t, err)
		require.True(t, m.IsOver())
		require.Len(t, ended, 1)
		assert.Equal(t, res, ended[0])
		assert.Equal(t, 1, mb.countByType(EventGameEnd))
		assert.Len(t, res.Ranking, len(players))

		if res.WinnerSeat >= 0 {
			assert.Equal(t, m.EngineToPlayer[res.WinnerSeat], res.Winner)
			assert.Equal(t, res.Winner, res.Ranking[0])
			assert.Equal(t, engine.OutcomeWin, res.Outcomes[res.Winner])
		} else {
			assert.Equal(t, uuid.Nil, res.Winner)
		}

		// Events mirror the engine history.
		var plays, bursts int
		for _, e := range m.Engine.HistorySlice() {
			switch {
			case !e.Action.IsPass():
				plays++
			case !e.Burst.Empty():
				bursts++
			}
		}
		assert.Equal(t, plays, mb.countByType(EventPlayerPlay), "seed %d", seed)
		assert.Equal(t, bursts, mb.countByType(EventPlayerBurst), "seed %d", seed)

		assert.ErrorIs(t, m.Step(context.Background()), engine.ErrGameOver)
	}
}

func TestProcessAction(t *testing.T) {
	m, players, _ := setupTestMatch(t, randomPlayers(3)...)
	require.NoError(t, m.Start(3))

	acting := m.EngineToPlayer[m.Engine.CurrentPlayer]
	var waiting uuid.UUID
	for _, p := range players {
		if p.ID != acting {
			waiting = p.ID
			break
		}
	}

	assert.ErrorIs(t, m.ProcessAction(waiting, engine.Pass()), engine.ErrNotYourTurn)
	assert.ErrorIs(t, m.ProcessAction(uuid.New(), engine.Pass()), ErrUnknownPlayer)

	turn := m.Engine.TurnNumber
	require.NoError(t, m.ProcessAction(acting, engine.Pass()))
	assert.Equal(t, turn+1, m.Engine.TurnNumber)
	seat := m.PlayerToEngine[acting]
	assert.Equal(t, uint8(1), m.Engine.Seats[seat].Passes)
}

func TestStepWrapsStrategyError(t *testing.T) {
	m, _, _ := setupTestMatch(t, failingStrategy{}, failingStrategy{}, failingStrategy{})
	require.NoError(t, m.Start(8))

	err := m.Step(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, errBoom)

	var te *TurnError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, m.Engine.CurrentPlayer, te.Seat)
	assert.Equal(t, te.PlayerID, te.State.CurrentPlayerID)
	for _, ps := range te.State.Players {
		if ps.PlayerID == te.PlayerID {
			assert.NotEmpty(t, ps.RevealedHand)
		} else {
			assert.Empty(t, ps.RevealedHand)
		}
	}
}

func TestSyncStatePlayableOnTurn(t *testing.T) {
	m, _, _ := setupTestMatch(t, randomPlayers(3)...)
	require.NoError(t, m.Start(11))

	acting := m.EngineToPlayer[m.Engine.CurrentPlayer]
	st := m.SyncStateFor(acting)
	assert.Equal(t, acting, st.CurrentPlayerID)
	assert.Equal(t, m.Rules.Passes(), st.PassLimit)
	for _, ps := range st.Players {
		if ps.PlayerID == acting {
			assert.True(t, ps.IsCurrentTurn)
			assert.Len(t, ps.Playable, m.Engine.PlayableMoves(ps.Seat).Len())
		} else {
			assert.False(t, ps.IsCurrentTurn)
			assert.Empty(t, ps.Playable)
		}
	}
	assert.Equal(t, ". . . . . . 7 . . . . . .", st.Table["S"])

	v, err := m.ViewFor(acting)
	require.NoError(t, err)
	assert.Equal(t, m.Engine.CurrentPlayer, v.Observer)
}

func TestRankStrings(t *testing.T) {
	assert.Equal(t, "A", engineRankToString(engine.RankAce))
	assert.Equal(t, "7", engineRankToString(engine.RankSeven))
	assert.Equal(t, "10", engineRankToString(engine.RankTen))
	assert.Equal(t, "K", engineRankToString(engine.RankKing))
	assert.Equal(t, "?", engineRankToString(0))
	assert.Equal(t, "D", engineSuitToString(engine.SuitDiamonds))
}
