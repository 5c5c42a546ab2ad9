package arena

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	engine "github.com/hirorogo/singyura/engine"
	"github.com/hirorogo/singyura/pimc"
)

// TournamentConfig describes a series of games between named strategies.
type TournamentConfig struct {
	Rules       engine.HouseRules
	Strategies  []string // one per seat; rotated every game
	Games       int
	Parallel    int // games in flight; 0 = 1
	Seed        uint64
	Search      pimc.Config // base configuration for search strategies
	TurnTimeout time.Duration
}

// Standing is the record of one strategy entry.
type Standing struct {
	Entry    int // index into TournamentConfig.Strategies
	Strategy string
	Games    int
	Wins     int
	Losses   int
	Draws    int
	Bursts   int
}

// WinRate is wins over games played.
func (s Standing) WinRate() float64 {
	if s.Games == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.Games)
}

// TournamentResult is the outcome of RunTournament.
type TournamentResult struct {
	Games     int
	Draws     int
	Standings []Standing // by wins, best first
	Search    pimc.Stats // aggregated over every search strategy
	Elapsed   time.Duration
}

// RunTournament plays cfg.Games games. In game i seat s is taken by entry
// (s+i) mod n, so every entry plays every seat equally often over n games.
// The first failing game cancels the rest.
func RunTournament(ctx context.Context, cfg TournamentConfig, log *logrus.Entry) (TournamentResult, error) {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	if err := cfg.Rules.Validate(); err != nil {
		return TournamentResult{}, fmt.Errorf("tournament: %w", err)
	}
	n := int(cfg.Rules.Players())
	if len(cfg.Strategies) != n {
		return TournamentResult{}, fmt.Errorf("tournament: %d strategies for %d seats", len(cfg.Strategies), n)
	}
	for i, name := range cfg.Strategies {
		if _, err := pimc.StrategyFor(name, uint8(i), cfg.Search, 1, log); err != nil {
			return TournamentResult{}, fmt.Errorf("tournament: %w", err)
		}
	}
	if cfg.Seed == 0 {
		cfg.Seed = rand.Uint64()
	}

	start := time.Now()
	stats := &pimc.StatsRecorder{}
	standings := make([]Standing, n)
	for i, name := range cfg.Strategies {
		standings[i] = Standing{Entry: i, Strategy: name}
	}
	var (
		mu    sync.Mutex
		draws int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(cfg.Parallel, 1))
	for game := 0; game < cfg.Games; game++ {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			seed := cfg.Seed + uint64(game)
			res, entries, err := playGame(gctx, cfg, game, seed, stats, log)
			if err != nil {
				return fmt.Errorf("game %d (seed %d): %w", game, seed, err)
			}

			mu.Lock()
			defer mu.Unlock()
			if res.WinnerSeat < 0 {
				draws++
			}
			for id, entry := range entries {
				st := &standings[entry]
				st.Games++
				switch res.Outcomes[id] {
				case engine.OutcomeWin:
					st.Wins++
				case engine.OutcomeLoss:
					st.Losses++
				default:
					st.Draws++
				}
				if res.Burst[id] {
					st.Bursts++
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return TournamentResult{}, err
	}
	if err := ctx.Err(); err != nil {
		return TournamentResult{}, err
	}

	sort.SliceStable(standings, func(i, j int) bool { return standings[i].Wins > standings[j].Wins })
	res := TournamentResult{
		Games:     cfg.Games,
		Draws:     draws,
		Standings: standings,
		Search:    stats.Snapshot(),
		Elapsed:   time.Since(start),
	}
	log.WithFields(logrus.Fields{
		"games":   res.Games,
		"draws":   res.Draws,
		"elapsed": res.Elapsed,
	}).Info("tournament finished")
	return res, nil
}

// playGame runs game number game and returns its result along with the
// entry index of every player.
func playGame(ctx context.Context, cfg TournamentConfig, game int, seed uint64, stats *pimc.StatsRecorder, log *logrus.Entry) (Result, map[uuid.UUID]int, error) {
	n := len(cfg.Strategies)
	m := NewMatch(cfg.Rules, log.WithField("game", game))
	m.TurnTimeout = cfg.TurnTimeout

	entries := make(map[uuid.UUID]int, n)
	for seat := 0; seat < n; seat++ {
		entry := (seat + game) % n
		strat, err := pimc.StrategyFor(cfg.Strategies[entry], uint8(seat), cfg.Search, seed*31+uint64(seat)+1, m.log)
		if err != nil {
			return Result{}, nil, err
		}
		if de, ok := strat.(*pimc.DecisionEngine); ok {
			de.WithRecorder(stats)
		}
		p := &Player{ID: uuid.New(), Name: fmt.Sprintf("%s#%d", cfg.Strategies[entry], entry), Strategy: strat}
		if err := m.AddPlayer(p); err != nil {
			return Result{}, nil, err
		}
		entries[p.ID] = entry
	}

	res, err := m.Play(ctx, seed)
	return res, entries, err
}
