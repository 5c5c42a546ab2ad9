package engine

import (
	"errors"
	"fmt"
)

var (
	ErrGameOver    = errors.New("game is already over")
	ErrNotYourTurn = errors.New("not this seat's turn")
	ErrCardNotHeld = errors.New("card not in hand")
	ErrIllegalMove = errors.New("card is not placeable")
)

// ActionKind tags an Action.
type ActionKind uint8

const (
	ActionPlay ActionKind = iota
	ActionPass
)

// Action is either placing one card or passing.
type Action struct {
	Kind ActionKind
	Card Card // EmptyCard for passes
}

// Play returns the action placing c.
func Play(c Card) Action { return Action{Kind: ActionPlay, Card: c} }

// Pass returns the pass action.
func Pass() Action { return Action{Kind: ActionPass, Card: EmptyCard} }

func (a Action) IsPass() bool { return a.Kind == ActionPass }

func (a Action) String() string {
	if a.Kind == ActionPass {
		return "pass"
	}
	return "play " + a.Card.String()
}

// HistoryEntry records one turn. Burst holds the cards dumped on the table
// when the pass eliminated the seat.
type HistoryEntry struct {
	Seat   uint8
	Action Action
	Burst  CardSet
}

// Apply performs a on behalf of seat.
func (g *GameState) Apply(seat uint8, a Action) error {
	if g.IsGameOver() {
		return ErrGameOver
	}
	if seat != g.CurrentPlayer {
		return fmt.Errorf("seat %d acting on seat %d's turn: %w", seat, g.CurrentPlayer, ErrNotYourTurn)
	}
	return g.ApplyAction(a)
}

// ApplyAction performs a for the current player.
func (g *GameState) ApplyAction(a Action) error {
	if g.IsGameOver() {
		return ErrGameOver
	}
	switch a.Kind {
	case ActionPlay:
		return g.play(a.Card)
	case ActionPass:
		g.pass()
		return nil
	}
	return fmt.Errorf("unknown action kind %d", a.Kind)
}

func (g *GameState) play(c Card) error {
	seat := g.CurrentPlayer
	if !g.Seats[seat].Hand.Has(c) {
		return fmt.Errorf("seat %d plays %s: %w", seat, c, ErrCardNotHeld)
	}
	if !g.Table.LegalMoves().Has(c) {
		return fmt.Errorf("seat %d plays %s: %w", seat, c, ErrIllegalMove)
	}

	g.Seats[seat].Hand = g.Seats[seat].Hand.Remove(c)
	g.Table.Place(c)
	g.record(HistoryEntry{Seat: seat, Action: Play(c)})

	if g.Seats[seat].Hand.Empty() {
		g.Winner = int8(seat)
		g.Flags |= FlagGameOver
		return nil
	}
	g.advanceTurn()
	return nil
}

// pass counts a pass for the current player. One pass beyond the limit
// bursts the seat: its whole hand goes onto the table and it is eliminated.
func (g *GameState) pass() {
	seat := g.CurrentPlayer
	s := &g.Seats[seat]
	s.Passes++

	entry := HistoryEntry{Seat: seat, Action: Pass()}
	if s.Passes > g.Rules.passLimit() {
		entry.Burst = s.Hand
		g.Table.PlaceAll(s.Hand)
		s.Hand = 0
		s.Eliminated = true
	}
	g.record(entry)

	g.checkGameEnd()
	g.advanceTurn()
}

func (g *GameState) record(e HistoryEntry) {
	if int(g.HistoryLen) < MaxHistory {
		g.History[g.HistoryLen] = e
		g.HistoryLen++
	}
}

// advanceTurn hands the turn to the next seat that is still in the game.
func (g *GameState) advanceTurn() {
	if g.IsGameOver() {
		return
	}

	g.TurnNumber++
	n := g.Rules.numPlayers()
	for i := uint8(1); i <= n; i++ {
		next := (g.CurrentPlayer + i) % n
		if !g.Seats[next].Eliminated {
			g.CurrentPlayer = next
			break
		}
	}

	g.checkGameEnd()
}
