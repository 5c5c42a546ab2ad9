// sync_state.go: per-observer state snapshots.
package arena

import (
	"github.com/google/uuid"

	engine "github.com/hirorogo/singyura/engine"
)

// SyncPlayerState is one seat as seen by the observer.
type SyncPlayerState struct {
	PlayerID      uuid.UUID `json:"playerId"`
	Name          string    `json:"name"`
	Seat          uint8     `json:"seat"`
	Strategy      string    `json:"strategy"`
	HandSize      int       `json:"handSize"`
	Passes        uint8     `json:"passes"`
	Eliminated    bool      `json:"eliminated"`
	IsCurrentTurn bool      `json:"isCurrentTurn"`
	// RevealedHand is populated only for the observer.
	RevealedHand []EventCard `json:"revealedHand,omitempty"`
	// Playable is populated only for the observer on its turn.
	Playable []EventCard `json:"playable,omitempty"`
}

// SyncState is the match as seen by one player. It never contains another
// player's cards.
type SyncState struct {
	MatchID         uuid.UUID         `json:"matchId"`
	Started         bool              `json:"started"`
	GameOver        bool              `json:"gameOver"`
	CurrentPlayerID uuid.UUID         `json:"currentPlayerId"`
	Turn            uint16            `json:"turn"`
	PassLimit       uint8             `json:"passLimit"`
	Table           map[string]string `json:"table"`
	Players         []SyncPlayerState `json:"players"`
}

// SyncStateFor builds the state visible to forPlayer.
// Assumes lock is held by caller.
func (m *Match) SyncStateFor(forPlayer uuid.UUID) SyncState {
	st := SyncState{
		MatchID:         m.ID,
		Started:         m.Started,
		GameOver:        m.GameOver || m.Engine.IsTerminal(),
		CurrentPlayerID: m.currentPlayerID(),
		Turn:            m.Engine.TurnNumber,
		PassLimit:       m.Rules.Passes(),
		Table:           tableStrings(&m.Engine.Table),
	}

	st.Players = make([]SyncPlayerState, len(m.Players))
	for i, p := range m.Players {
		ps := SyncPlayerState{
			PlayerID: p.ID,
			Name:     p.Name,
			Strategy: p.Strategy.Name(),
		}
		seat, mapped := m.PlayerToEngine[p.ID]
		if mapped && m.Started {
			ps.Seat = seat
			ps.HandSize = m.Engine.HandLen(seat)
			ps.Passes = m.Engine.Seats[seat].Passes
			ps.Eliminated = m.Engine.IsEliminated(seat)
			ps.IsCurrentTurn = st.CurrentPlayerID == p.ID

			if p.ID == forPlayer {
				ps.RevealedHand = eventCards(m.Engine.Hand(seat))
				if ps.IsCurrentTurn {
					ps.Playable = eventCards(m.Engine.PlayableMoves(seat))
				}
			}
		}
		st.Players[i] = ps
	}
	return st
}

// ViewFor returns the engine view of playerID, for strategies that run
// outside the match.
func (m *Match) ViewFor(playerID uuid.UUID) (engine.View, error) {
	m.Mu.Lock()
	defer m.Mu.Unlock()

	seat, ok := m.PlayerToEngine[playerID]
	if !ok || !m.Started {
		return engine.View{}, ErrUnknownPlayer
	}
	return m.Engine.ViewFor(seat), nil
}
