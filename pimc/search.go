package pimc

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/hirorogo/singyura/engine"
	"github.com/hirorogo/singyura/engine/agent"
)

// ErrContractViolation reports an input or sampled world that breaks the
// rules the search relies on. It indicates a bug, not bad luck.
var ErrContractViolation = errors.New("pimc: contract violation")

// DecisionEngine picks moves for one seat. Each seat gets its own engine;
// an engine may be reused across turns and games but not called
// concurrently.
type DecisionEngine struct {
	Seat uint8

	cfg      Config
	eval     Evaluator
	det      agent.Determinizer
	model    agent.OpponentModel
	recorder Recorder
	log      *logrus.Entry
	seed     uint64
}

// NewDecisionEngine returns an engine for seat. A nil logger uses the
// logrus standard logger.
func NewDecisionEngine(seat uint8, cfg Config, log *logrus.Entry) *DecisionEngine {
	cfg = cfg.withDefaults()
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	return &DecisionEngine{
		Seat:  seat,
		cfg:   cfg,
		eval:  Evaluator{Weights: cfg.Weights},
		det:   agent.Determinizer{Retries: cfg.Retries},
		model: agent.OpponentModel{Window: cfg.Window},
		log:   log.WithFields(logrus.Fields{"seat": seat, "strategy": "pimc"}),
		seed:  seed,
	}
}

// WithRecorder attaches r; every later decision is reported to it.
func (e *DecisionEngine) WithRecorder(r Recorder) *DecisionEngine {
	e.recorder = r
	return e
}

func (e *DecisionEngine) Name() string { return "pimc" }

// Config returns the effective configuration.
func (e *DecisionEngine) Config() Config { return e.cfg }

// Decide chooses the action for the observer of v, which must be the seat
// to act. Cancelling ctx stops the search between trials and decides on the
// trials finished so far.
func (e *DecisionEngine) Decide(ctx context.Context, v *engine.View) (engine.Action, error) {
	start := time.Now()
	if err := e.checkView(v); err != nil {
		return engine.Pass(), err
	}

	report := DecisionReport{Seat: v.Observer, Turn: v.TurnNumber}
	playable := v.Playable().Cards()
	switch len(playable) {
	case 0:
		report.Chosen, report.Forced = engine.Pass(), true
		return e.finish(report, start), nil
	case 1:
		report.Chosen, report.Forced = engine.Play(playable[0]), true
		return e.finish(report, start), nil
	}

	tracker := agent.BuildTracker(v)
	scales := e.model.Scales(v)
	bonuses := e.eval.Evaluate(v, &tracker, scales)

	res, err := e.search(ctx, v, &tracker, playable)
	if err != nil {
		return engine.Pass(), err
	}
	report.Trials, report.Fallbacks = res.trials, res.fallbacks

	best := 0
	report.Candidates = make([]CandidateStat, len(playable))
	for i, c := range playable {
		st := CandidateStat{
			Card:   c,
			Wins:   res.wins[i],
			Losses: res.losses[i],
			Draws:  res.draws[i],
			Bonus:  bonuses[i],
		}
		st.Score = e.cfg.HeuristicWeight * bonuses[i].Total
		if res.trials > 0 {
			tally := float64(st.Wins - st.Losses)
			st.Score += e.cfg.SimulationScale * tally / float64(res.trials)
		}
		report.Candidates[i] = st
		if st.Score > report.Candidates[best].Score {
			best = i
		}
	}

	chosen := report.Candidates[best]
	report.Chosen = engine.Play(chosen.Card)
	if e.strategicPass(v, chosen.Score, chosen.Bonus.Total) {
		report.Chosen, report.StrategicPass = engine.Pass(), true
	}
	return e.finish(report, start), nil
}

func (e *DecisionEngine) finish(report DecisionReport, start time.Time) engine.Action {
	report.Elapsed = time.Since(start)
	e.log.WithFields(logrus.Fields{
		"turn":      report.Turn,
		"action":    report.Chosen.String(),
		"trials":    report.Trials,
		"fallbacks": report.Fallbacks,
		"forced":    report.Forced,
		"elapsed":   report.Elapsed,
	}).Debug("decision")
	if e.recorder != nil {
		e.recorder.Record(report)
	}
	return report.Chosen
}

func (e *DecisionEngine) checkView(v *engine.View) error {
	switch {
	case v.GameOver:
		return fmt.Errorf("%w: game is over", ErrContractViolation)
	case v.Observer != e.Seat:
		return fmt.Errorf("%w: engine for seat %d got view of seat %d", ErrContractViolation, e.Seat, v.Observer)
	case v.CurrentPlayer != v.Observer:
		return fmt.Errorf("%w: seat %d asked to act on seat %d's turn", ErrContractViolation, v.Observer, v.CurrentPlayer)
	case v.Eliminated[v.Observer]:
		return fmt.Errorf("%w: seat %d is eliminated", ErrContractViolation, v.Observer)
	}
	return nil
}

// strategicPass reports whether to hold back the best card. The threshold
// rises when an opponent is close to bursting, is lifted when we are nearly
// out of passes, and drops when we are ahead.
func (e *DecisionEngine) strategicPass(v *engine.View, bestScore, bestBonus float64) bool {
	if !e.cfg.StrategicPass {
		return false
	}
	limit := int(v.PassLimit())
	own := int(v.Passes[v.Observer])
	if own >= limit {
		return false
	}

	w := e.cfg.Weights
	mins := opponentMinimums(v)
	threshold := w.PassBase
	switch mins.passesLeft {
	case 0:
		threshold = w.PassKillZone
	case 1:
		threshold = w.PassKillZone * w.KillZoneNear
	}
	if limit-own <= 1 {
		threshold = math.Inf(-1)
	}
	if mins.active > 0 && v.Hand.Len() <= mins.hand && bestScore > 0 {
		threshold = w.PassWin
	}
	return bestBonus < threshold
}

type searchResult struct {
	wins, losses, draws []int
	trials, fallbacks   int
}

func newSearchResult(n int) searchResult {
	return searchResult{wins: make([]int, n), losses: make([]int, n), draws: make([]int, n)}
}

func (r *searchResult) merge(o searchResult) {
	for i := range r.wins {
		r.wins[i] += o.wins[i]
		r.losses[i] += o.losses[i]
		r.draws[i] += o.draws[i]
	}
	r.trials += o.trials
	r.fallbacks += o.fallbacks
}

// search runs the trials on cfg.Workers goroutines. Trial i always uses the
// same random stream, so results do not depend on the worker count.
func (e *DecisionEngine) search(ctx context.Context, v *engine.View, t *agent.Tracker, cands []engine.Card) (searchResult, error) {
	sims := e.cfg.Simulations
	workers := min(e.cfg.Workers, sims)
	parts := make([]searchResult, workers)
	stream := uint64(v.TurnNumber)<<40 | uint64(v.Observer)<<32

	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		parts[w] = newSearchResult(len(cands))
		part := &parts[w]
		g.Go(func() error {
			for trial := w; trial < sims; trial += workers {
				if gctx.Err() != nil {
					return nil
				}
				rng := rand.New(rand.NewPCG(e.seed, stream|uint64(trial)))
				if err := e.trial(v, t, cands, rng, part); err != nil {
					return err
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return searchResult{}, err
	}

	res := newSearchResult(len(cands))
	for _, p := range parts {
		res.merge(p)
	}
	if res.trials < sims {
		e.log.WithField("trials", res.trials).Debug("search cut short")
	}
	return res, nil
}

// trial samples one world and plays every candidate out in it.
func (e *DecisionEngine) trial(v *engine.View, t *agent.Tracker, cands []engine.Card, rng *rand.Rand, out *searchResult) error {
	hands, ok := e.det.Sample(v, t, rng)
	if !ok {
		out.fallbacks++
	}
	world := v.World(hands)
	for p := uint8(0); p < v.NumPlayers(); p++ {
		if world.HandLen(p) != int(v.HandSizes[p]) {
			return fmt.Errorf("%w: sampled %d cards for seat %d, view shows %d",
				ErrContractViolation, world.HandLen(p), p, v.HandSizes[p])
		}
	}

	for i, c := range cands {
		sim := world
		if err := sim.ApplyAction(engine.Play(c)); err != nil {
			return fmt.Errorf("%w: candidate %s: %v", ErrContractViolation, c, err)
		}
		winner, err := Rollout(&sim, rng, e.cfg.MaxRolloutDepth)
		if err != nil {
			return fmt.Errorf("%w: rollout after %s: %v", ErrContractViolation, c, err)
		}
		switch {
		case winner < 0:
			out.draws[i]++
		case uint8(winner) == v.Observer:
			out.wins[i]++
		default:
			out.losses[i]++
		}
	}
	out.trials++
	return nil
}
