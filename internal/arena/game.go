// Package arena drives complete games between strategies: it owns the
// authoritative engine state, maps seats to players, asks each player's
// strategy for a move and reports what happened through event callbacks.
package arena

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	engine "github.com/hirorogo/singyura/engine"
	"github.com/hirorogo/singyura/pimc"
)

// OnGameEndFunc is called once when a match finishes.
type OnGameEndFunc func(matchID uuid.UUID, result Result)

// GameEventType names an event broadcast during a match.
type GameEventType string

const (
	EventGameStart      GameEventType = "game_start"         // Public: hands dealt, sevens placed.
	EventGamePlayerTurn GameEventType = "game_player_turn"   // Public: the seat to act.
	EventPlayerPlay     GameEventType = "player_play"        // Public: a card was placed.
	EventPlayerPass     GameEventType = "player_pass"        // Public: a seat passed.
	EventPlayerBurst    GameEventType = "player_burst"       // Public: a seat passed over the limit and was eliminated.
	EventPrivateSync    GameEventType = "private_sync_state" // Private: the observer's full state.
	EventGameEnd        GameEventType = "game_end"           // Public: final result.
)

// EventUser identifies a player within an event.
type EventUser struct {
	ID   uuid.UUID `json:"id"`
	Seat uint8     `json:"seat"`
}

// EventCard describes a card within an event.
type EventCard struct {
	Rank string `json:"rank"`
	Suit string `json:"suit"`
}

// GameEvent is the payload handed to BroadcastFn and BroadcastToPlayerFn.
type GameEvent struct {
	Type    GameEventType          `json:"type"`
	User    *EventUser             `json:"user,omitempty"`
	Card    *EventCard             `json:"card,omitempty"`
	Cards   []EventCard            `json:"cards,omitempty"` // placed by a burst
	Payload map[string]interface{} `json:"payload,omitempty"`
	State   *SyncState             `json:"state,omitempty"`
}

// Player is a seat holder: an identity plus the strategy that plays for it.
type Player struct {
	ID       uuid.UUID
	Name     string
	Strategy pimc.Strategy
}

// Result summarises a finished match.
type Result struct {
	MatchID    uuid.UUID
	Winner     uuid.UUID // uuid.Nil on a draw
	WinnerSeat int8      // -1 on a draw
	Ranking    []uuid.UUID
	Outcomes   map[uuid.UUID]engine.Outcome
	Burst      map[uuid.UUID]bool
	Turns      uint16
}

// TurnError reports a failed turn together with the state the player saw.
type TurnError struct {
	MatchID  uuid.UUID
	PlayerID uuid.UUID
	Seat     uint8
	Turn     uint16
	State    SyncState
	Err      error
}

func (e *TurnError) Error() string {
	return fmt.Sprintf("match %s: seat %d turn %d: %v", e.MatchID, e.Seat, e.Turn, e.Err)
}

func (e *TurnError) Unwrap() error { return e.Err }

var (
	ErrMatchStarted  = errors.New("match already started")
	ErrMatchNotReady = errors.New("match not ready")
	ErrUnknownPlayer = errors.New("unknown player")
)

// Match is one game of sevens between len(Players) strategies.
type Match struct {
	ID    uuid.UUID
	Rules engine.HouseRules

	Players []*Player

	// Engine integration; the engine is the authoritative state.
	Engine         engine.GameState
	PlayerToEngine map[uuid.UUID]uint8
	EngineToPlayer [engine.MaxPlayers]uuid.UUID

	// TurnTimeout bounds each strategy decision. Zero means no bound.
	TurnTimeout time.Duration
	actionIndex int

	Started  bool
	GameOver bool
	result   Result

	Mu sync.Mutex // protects the match state

	BroadcastFn         func(ev GameEvent)
	BroadcastToPlayerFn func(playerID uuid.UUID, ev GameEvent)
	OnGameEnd           OnGameEndFunc

	log *logrus.Entry
}

// NewMatch creates an empty match. A nil logger uses the logrus standard
// logger.
func NewMatch(rules engine.HouseRules, log *logrus.Entry) *Match {
	id, _ := uuid.NewRandom()
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Match{
		ID:             id,
		Rules:          rules,
		PlayerToEngine: make(map[uuid.UUID]uint8),
		log:            log.WithField("match", id.String()),
	}
}

// AddPlayer seats p at the next free seat. Players can only join before the
// match starts.
func (m *Match) AddPlayer(p *Player) error {
	m.Mu.Lock()
	defer m.Mu.Unlock()

	if m.Started {
		return fmt.Errorf("add player %s: %w", p.ID, ErrMatchStarted)
	}
	if p.Strategy == nil {
		return fmt.Errorf("add player %s: no strategy", p.ID)
	}
	if len(m.Players) >= int(m.Rules.Players()) {
		return fmt.Errorf("add player %s: table full (%d seats)", p.ID, m.Rules.Players())
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	m.Players = append(m.Players, p)
	m.logAction(p.ID, "player_add", logrus.Fields{"name": p.Name, "strategy": p.Strategy.Name()})
	return nil
}

// Start deals the cards with seed and announces the first turn.
func (m *Match) Start(seed uint64) error {
	m.Mu.Lock()
	defer m.Mu.Unlock()

	if m.Started {
		return ErrMatchStarted
	}
	if err := m.Rules.Validate(); err != nil {
		return fmt.Errorf("start match %s: %w", m.ID, err)
	}
	if len(m.Players) != int(m.Rules.Players()) {
		return fmt.Errorf("start match %s: %w: %d of %d seats filled",
			m.ID, ErrMatchNotReady, len(m.Players), m.Rules.Players())
	}

	for i, p := range m.Players {
		m.PlayerToEngine[p.ID] = uint8(i)
		m.EngineToPlayer[i] = p.ID
	}

	m.Engine = engine.NewGame(seed, m.Rules)
	m.Engine.Deal()
	m.Started = true
	m.logAction(uuid.Nil, "game_start", logrus.Fields{"seed": seed, "start_seat": m.Engine.StartPlayer})

	m.fireEvent(GameEvent{
		Type:    EventGameStart,
		Payload: map[string]interface{}{"table": tableStrings(&m.Engine.Table)},
	})
	for _, p := range m.Players {
		state := m.SyncStateFor(p.ID)
		m.fireEventToPlayer(p.ID, GameEvent{Type: EventPrivateSync, State: &state})
	}

	if m.Engine.IsTerminal() {
		m.endGame()
		return nil
	}
	m.broadcastPlayerTurn()
	return nil
}

// Step lets the seat to act decide and applies its action.
func (m *Match) Step(ctx context.Context) error {
	m.Mu.Lock()
	defer m.Mu.Unlock()

	if !m.Started {
		return ErrMatchNotReady
	}
	if m.GameOver {
		return engine.ErrGameOver
	}

	seat := m.Engine.ActingPlayer()
	playerID := m.EngineToPlayer[seat]
	player := m.getPlayerByID(playerID)

	view := m.Engine.ViewFor(seat)
	if m.TurnTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.TurnTimeout)
		defer cancel()
	}
	action, err := player.Strategy.Decide(ctx, &view)
	if err != nil {
		return m.turnError(playerID, seat, err)
	}
	if err := m.applyEngineAction(playerID, action); err != nil {
		return m.turnError(playerID, seat, err)
	}
	return nil
}

// Play starts the match if needed and steps it to the end.
func (m *Match) Play(ctx context.Context, seed uint64) (Result, error) {
	if !m.Started {
		if err := m.Start(seed); err != nil {
			return Result{}, err
		}
	}
	for !m.IsOver() {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		if err := m.Step(ctx); err != nil {
			return Result{}, err
		}
	}
	return m.Result(), nil
}

// ProcessAction applies an action chosen outside the match, such as a human
// player's move.
func (m *Match) ProcessAction(playerID uuid.UUID, a engine.Action) error {
	m.Mu.Lock()
	defer m.Mu.Unlock()

	if !m.Started {
		return ErrMatchNotReady
	}
	if _, ok := m.PlayerToEngine[playerID]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownPlayer, playerID)
	}
	return m.applyEngineAction(playerID, a)
}

// IsOver reports whether the match has finished.
func (m *Match) IsOver() bool {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	return m.GameOver
}

// Result returns the final result; it is the zero value until the match
// ends.
func (m *Match) Result() Result {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	return m.result
}

// endGame builds the result, broadcasts it and calls OnGameEnd.
// Assumes lock is held by caller.
func (m *Match) endGame() {
	if m.GameOver {
		return
	}
	m.GameOver = true

	res := Result{
		MatchID:    m.ID,
		WinnerSeat: m.Engine.Winner,
		Outcomes:   make(map[uuid.UUID]engine.Outcome, len(m.Players)),
		Burst:      make(map[uuid.UUID]bool, len(m.Players)),
		Turns:      m.Engine.TurnNumber,
	}
	if seat, ok := m.Engine.WinnerSeat(); ok {
		res.Winner = m.EngineToPlayer[seat]
	}
	for _, seat := range m.Engine.Ranking() {
		res.Ranking = append(res.Ranking, m.EngineToPlayer[seat])
	}
	for seat, id := range m.EngineToPlayer[:len(m.Players)] {
		res.Outcomes[id] = m.Engine.OutcomeFor(uint8(seat))
		res.Burst[id] = m.Engine.IsEliminated(uint8(seat))
	}
	m.result = res

	m.fireEvent(GameEvent{
		Type: EventGameEnd,
		Payload: map[string]interface{}{
			"winner":  res.Winner,
			"ranking": res.Ranking,
			"turns":   res.Turns,
		},
	})
	m.logAction(res.Winner, "game_end", logrus.Fields{"winner_seat": res.WinnerSeat, "turns": res.Turns})

	if m.OnGameEnd != nil {
		m.OnGameEnd(m.ID, res)
	}
}

// turnError wraps err with the failing player's view.
// Assumes lock is held by caller.
func (m *Match) turnError(playerID uuid.UUID, seat uint8, err error) error {
	m.log.WithFields(logrus.Fields{"seat": seat, "turn": m.Engine.TurnNumber}).WithError(err).Warn("turn failed")
	return &TurnError{
		MatchID:  m.ID,
		PlayerID: playerID,
		Seat:     seat,
		Turn:     m.Engine.TurnNumber,
		State:    m.SyncStateFor(playerID),
		Err:      err,
	}
}

// broadcastPlayerTurn announces the seat to act.
// Assumes lock is held by caller.
func (m *Match) broadcastPlayerTurn() {
	seat := m.Engine.ActingPlayer()
	m.fireEvent(GameEvent{
		Type: EventGamePlayerTurn,
		User: &EventUser{ID: m.EngineToPlayer[seat], Seat: seat},
		Payload: map[string]interface{}{
			"turn":   m.Engine.TurnNumber,
			"passes": m.Engine.Seats[seat].Passes,
		},
	})
}

// fireEvent broadcasts ev via BroadcastFn, if set.
// Assumes lock is held by caller.
func (m *Match) fireEvent(ev GameEvent) {
	if m.BroadcastFn != nil {
		m.BroadcastFn(ev)
	}
}

// fireEventToPlayer sends ev to one player via BroadcastToPlayerFn, if set.
// Assumes lock is held by caller.
func (m *Match) fireEventToPlayer(playerID uuid.UUID, ev GameEvent) {
	if m.BroadcastToPlayerFn != nil {
		m.BroadcastToPlayerFn(playerID, ev)
	}
}

// getPlayerByID returns the player with playerID, or nil.
// Assumes lock is held by caller.
func (m *Match) getPlayerByID(playerID uuid.UUID) *Player {
	for _, p := range m.Players {
		if p.ID == playerID {
			return p
		}
	}
	return nil
}

// logAction writes one numbered action record at debug level.
// Assumes lock is held by caller.
func (m *Match) logAction(actorID uuid.UUID, actionType string, fields logrus.Fields) {
	m.actionIndex++
	entry := m.log.WithFields(logrus.Fields{
		"action_index": m.actionIndex,
		"action":       actionType,
	})
	if actorID != uuid.Nil {
		entry = entry.WithField("actor", actorID.String())
	}
	entry.WithFields(fields).Debug("match action")
}
