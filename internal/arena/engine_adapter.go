// engine_adapter.go: bridge between engine.GameState and Match.
package arena

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	engine "github.com/hirorogo/singyura/engine"
)

// engineRankToString converts an engine rank to its display string.
func engineRankToString(rank uint8) string {
	switch rank {
	case engine.RankAce:
		return "A"
	case engine.RankTen:
		return "10"
	case engine.RankJack:
		return "J"
	case engine.RankQueen:
		return "Q"
	case engine.RankKing:
		return "K"
	}
	if rank > engine.RankAce && rank < engine.RankTen {
		return string(rune('0' + rank))
	}
	return "?"
}

// engineSuitToString converts an engine suit to its letter.
func engineSuitToString(suit uint8) string {
	switch suit {
	case engine.SuitSpades:
		return "S"
	case engine.SuitClubs:
		return "C"
	case engine.SuitHearts:
		return "H"
	case engine.SuitDiamonds:
		return "D"
	}
	return "?"
}

func eventCard(c engine.Card) *EventCard {
	return &EventCard{Rank: engineRankToString(c.Rank()), Suit: engineSuitToString(c.Suit())}
}

func eventCards(s engine.CardSet) []EventCard {
	out := make([]EventCard, 0, s.Len())
	for _, c := range s.Cards() {
		out = append(out, *eventCard(c))
	}
	return out
}

// tableStrings renders each suit's row from Ace to King, "." marking an
// empty slot.
func tableStrings(t *engine.Table) map[string]string {
	rows := make(map[string]string, engine.NumSuits)
	for s := uint8(0); s < engine.NumSuits; s++ {
		var b strings.Builder
		for r := engine.RankAce; r <= engine.RankKing; r++ {
			if t.Has(engine.NewCard(s, r)) {
				b.WriteString(engineRankToString(r))
			} else {
				b.WriteByte('.')
			}
			if r < engine.RankKing {
				b.WriteByte(' ')
			}
		}
		rows[engineSuitToString(s)] = b.String()
	}
	return rows
}

// currentPlayerID returns the player to act, or uuid.Nil once the match is
// over.
// Assumes lock is held by caller.
func (m *Match) currentPlayerID() uuid.UUID {
	if !m.Started || m.GameOver {
		return uuid.Nil
	}
	return m.EngineToPlayer[m.Engine.ActingPlayer()]
}

// applyEngineAction applies a on behalf of actorID, emits the matching
// events and ends the match when the engine reports a terminal state.
// Assumes lock is held by caller.
func (m *Match) applyEngineAction(actorID uuid.UUID, a engine.Action) error {
	if m.GameOver {
		return engine.ErrGameOver
	}
	seat, ok := m.PlayerToEngine[actorID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownPlayer, actorID)
	}

	prevLen := m.Engine.HistoryLen
	if err := m.Engine.Apply(seat, a); err != nil {
		m.log.WithFields(logrus.Fields{"seat": seat, "action": a.String()}).WithError(err).Debug("engine rejected action")
		return err
	}
	if m.Engine.HistoryLen > prevLen {
		m.emitEventsForAction(actorID, m.Engine.History[m.Engine.HistoryLen-1])
	}

	if m.Engine.IsTerminal() {
		m.endGame()
		return nil
	}
	m.broadcastPlayerTurn()
	return nil
}

// emitEventsForAction broadcasts a completed history entry.
// Assumes lock is held by caller.
func (m *Match) emitEventsForAction(actorID uuid.UUID, e engine.HistoryEntry) {
	user := &EventUser{ID: actorID, Seat: e.Seat}
	switch {
	case !e.Action.IsPass():
		m.fireEvent(GameEvent{Type: EventPlayerPlay, User: user, Card: eventCard(e.Action.Card)})
		m.logAction(actorID, string(EventPlayerPlay), logrus.Fields{"card": e.Action.Card.String()})

	case !e.Burst.Empty():
		m.fireEvent(GameEvent{
			Type:    EventPlayerBurst,
			User:    user,
			Cards:   eventCards(e.Burst),
			Payload: map[string]interface{}{"table": tableStrings(&m.Engine.Table)},
		})
		m.logAction(actorID, string(EventPlayerBurst), logrus.Fields{"cards": e.Burst.String()})

	default:
		passes := m.Engine.Seats[e.Seat].Passes
		m.fireEvent(GameEvent{
			Type: EventPlayerPass,
			User: user,
			Payload: map[string]interface{}{
				"passes":    passes,
				"remaining": int(m.Engine.PassLimit()) - int(passes),
			},
		})
		m.logAction(actorID, string(EventPlayerPass), logrus.Fields{"passes": passes})
	}
}
