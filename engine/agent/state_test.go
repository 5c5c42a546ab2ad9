package agent

import (
	"math/rand/v2"
	"testing"

	engine "github.com/hirorogo/singyura/engine"
)

// newDealtGame creates a new game, deals cards, and returns the game state.
func newDealtGame(seed uint64) engine.GameState {
	g := engine.NewGame(seed, engine.DefaultHouseRules())
	g.Deal()
	return g
}

// stepHonest plays a random playable card, passing only when forced.
func stepHonest(t *testing.T, g *engine.GameState, rng *rand.Rand) {
	t.Helper()
	a := engine.Pass()
	if playable := g.PlayableMoves(g.CurrentPlayer).Cards(); len(playable) > 0 {
		a = engine.Play(playable[rng.IntN(len(playable))])
	}
	if err := g.ApplyAction(a); err != nil {
		t.Fatalf("ApplyAction(%s) failed: %v", a, err)
	}
}

func TestNewTrackerInitialSets(t *testing.T) {
	g := newDealtGame(42)
	v := g.ViewFor(1)
	tr := NewTracker(&v)

	if tr.Possible(1) != g.Hand(1) {
		t.Errorf("observer set = %s, want own hand", tr.Possible(1))
	}
	want := v.Unseen()
	for _, p := range []uint8{0, 2} {
		if tr.Possible(p) != want {
			t.Errorf("seat %d set = %s, want unseen %s", p, tr.Possible(p), want)
		}
	}
}

// TestTrackerInvariants replays honest games and checks, for every observer
// and every turn, that possible sets exclude placed and observer-held cards
// and still contain every card the seat really holds.
func TestTrackerInvariants(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	for seed := uint64(1); seed <= 20; seed++ {
		g := newDealtGame(seed)
		for !g.IsTerminal() {
			for obs := uint8(0); obs < g.NumPlayers(); obs++ {
				v := g.ViewFor(obs)
				tr := BuildTracker(&v)
				placed := g.Table.Placed()
				for p := uint8(0); p < g.NumPlayers(); p++ {
					set := tr.Possible(p)
					if !set.Intersect(placed).Empty() {
						t.Fatalf("seed %d obs %d: seat %d set holds placed cards %s", seed, obs, p, set.Intersect(placed))
					}
					if p != obs && !set.Intersect(v.Hand).Empty() {
						t.Fatalf("seed %d obs %d: seat %d set holds observer cards", seed, obs, p)
					}
					if hand := g.Hand(p); hand.Minus(set) != 0 {
						t.Fatalf("seed %d obs %d: seat %d real cards %s missing from set", seed, obs, p, hand.Minus(set))
					}
				}
			}
			stepHonest(t, &g, rng)
		}
	}
}

// TestPassRemovesLegalCards: after a pass, nothing that was placeable at that
// moment stays in the passer's set.
func TestPassRemovesLegalCards(t *testing.T) {
	rng := rand.New(rand.NewPCG(5, 6))
	checked := 0
	for seed := uint64(1); seed <= 20; seed++ {
		g := newDealtGame(seed)
		for !g.IsTerminal() {
			seat := g.CurrentPlayer
			legalBefore := g.LegalMoves()
			stepHonest(t, &g, rng)

			last := g.HistorySlice()[len(g.HistorySlice())-1]
			if !last.Action.IsPass() || !last.Burst.Empty() || g.IsTerminal() {
				continue
			}
			obs := (seat + 1) % g.NumPlayers()
			v := g.ViewFor(obs)
			tr := BuildTracker(&v)
			if overlap := tr.Possible(seat).Intersect(legalBefore); !overlap.Empty() {
				t.Fatalf("seed %d: seat %d passed but set still has %s", seed, seat, overlap)
			}
			checked++
		}
	}
	if checked == 0 {
		t.Fatal("no passes observed; test exercised nothing")
	}
}

func TestObserveBurst(t *testing.T) {
	g := newDealtGame(7)
	v := g.ViewFor(0)
	tr := NewTracker(&v)

	burster := uint8(1)
	burst := g.Hand(burster)
	tr.Observe(engine.HistoryEntry{Seat: burster, Action: engine.Pass(), Burst: burst})

	if !tr.IsEliminated(burster) || !tr.Possible(burster).Empty() {
		t.Errorf("burster not cleared: eliminated=%v set=%s", tr.IsEliminated(burster), tr.Possible(burster))
	}
	if !tr.Possible(2).Intersect(burst).Empty() {
		t.Error("burst cards still possible for seat 2")
	}

	// Later entries from the eliminated seat are ignored.
	before := tr
	tr.Observe(engine.HistoryEntry{Seat: burster, Action: engine.Pass()})
	if tr != before {
		t.Error("entry from eliminated seat changed the tracker")
	}
}

func TestObservePlay(t *testing.T) {
	g := newDealtGame(8)
	v := g.ViewFor(0)
	tr := NewTracker(&v)
	card := g.Hand(1).First()
	tr.Observe(engine.HistoryEntry{Seat: 1, Action: engine.Play(card)})
	for p := uint8(0); p < 3; p++ {
		if tr.Possible(p).Has(card) {
			t.Errorf("played card %s still possible for seat %d", card, p)
		}
	}
}

func TestTrackerWeight(t *testing.T) {
	tests := []struct {
		passes uint8
		want   float64
	}{
		{0, 1},
		{1, 0.875},
		{2, 0.75},
		{4, 0.5},
		{6, 0.5},
	}
	for _, tt := range tests {
		var tr Tracker
		tr.passes[0] = tt.passes
		if got := tr.Weight(0); got != tt.want {
			t.Errorf("Weight with %d passes = %v, want %v", tt.passes, got, tt.want)
		}
	}
}

func TestWeakSuits(t *testing.T) {
	var tr Tracker
	tr.NumPlayers = 2
	tr.possible[1] = engine.NewCardSet(
		engine.NewCard(engine.SuitSpades, engine.RankTwo),
		engine.NewCard(engine.SuitHearts, engine.RankTwo),
		engine.NewCard(engine.SuitHearts, engine.RankThree),
		engine.NewCard(engine.SuitHearts, engine.RankFour),
		engine.NewCard(engine.SuitHearts, engine.RankFive),
		engine.NewCard(engine.SuitHearts, engine.RankSix),
	)
	tr.possible[1] |= engine.FullDeck & (0x1FFF << (engine.NumRanks * uint(engine.SuitClubs)))

	got := tr.WeakSuits(1, 0)
	want := []uint8{engine.SuitSpades, engine.SuitDiamonds}
	if len(got) != len(want) {
		t.Fatalf("WeakSuits = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("WeakSuits[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}
