package pimc

import (
	"sync"
	"time"

	"github.com/hirorogo/singyura/engine"
)

// CandidateStat is the search result for one candidate card.
type CandidateStat struct {
	Card   engine.Card
	Wins   int
	Losses int
	Draws  int
	Bonus  Bonus
	Score  float64
}

// DecisionReport describes one call to DecisionEngine.Decide.
type DecisionReport struct {
	Seat          uint8
	Turn          uint16
	Chosen        engine.Action
	Forced        bool // zero or one playable card; no search ran
	StrategicPass bool
	Trials        int
	Fallbacks     int // worlds sampled without honouring the tracker
	Candidates    []CandidateStat
	Elapsed       time.Duration
}

// Recorder receives a report after every decision. Implementations must be
// safe for concurrent use when shared between engines.
type Recorder interface {
	Record(DecisionReport)
}

// StatsRecorder aggregates reports in memory.
type StatsRecorder struct {
	mu    sync.Mutex
	stats Stats
}

// Stats is a snapshot of a StatsRecorder.
type Stats struct {
	Decisions      int
	Forced         int
	StrategicPass  int
	Trials         int
	Fallbacks      int
	SearchDuration time.Duration
}

// FallbackRate is the share of sampled worlds that ignored the tracker.
func (s Stats) FallbackRate() float64 {
	if s.Trials == 0 {
		return 0
	}
	return float64(s.Fallbacks) / float64(s.Trials)
}

func (r *StatsRecorder) Record(rep DecisionReport) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stats.Decisions++
	if rep.Forced {
		r.stats.Forced++
	}
	if rep.StrategicPass {
		r.stats.StrategicPass++
	}
	r.stats.Trials += rep.Trials
	r.stats.Fallbacks += rep.Fallbacks
	r.stats.SearchDuration += rep.Elapsed
}

// Snapshot returns the current totals.
func (r *StatsRecorder) Snapshot() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stats
}
