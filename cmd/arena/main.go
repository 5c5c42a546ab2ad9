// Command arena plays a series of sevens games between the strategies named
// in the environment and logs the standings.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	engine "github.com/hirorogo/singyura/engine"
	"github.com/hirorogo/singyura/internal/arena"
	"github.com/hirorogo/singyura/internal/config"
	"github.com/hirorogo/singyura/internal/logger"
	"github.com/hirorogo/singyura/pimc"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}
	if err := logger.Init(cfg.LogLevel, cfg.LogFormat); err != nil {
		logrus.WithError(err).Fatal("invalid logger settings")
	}

	search, err := pimc.Preset(cfg.Preset)
	if err != nil {
		logrus.WithError(err).Fatal("invalid search preset")
	}
	if cfg.Workers > 0 {
		search.Workers = cfg.Workers
	}

	rules := engine.DefaultHouseRules()
	rules.NumPlayers = uint8(cfg.Players)
	rules.PassLimit = uint8(cfg.PassLimit)
	rules.MaxTurns = uint16(cfg.MaxTurns)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := logrus.WithField("component", "arena")
	log.WithFields(logrus.Fields{
		"players":    cfg.Players,
		"strategies": cfg.Strategies,
		"games":      cfg.Games,
		"preset":     cfg.Preset,
		"seed":       cfg.Seed,
	}).Info("starting tournament")

	res, err := arena.RunTournament(ctx, arena.TournamentConfig{
		Rules:       rules,
		Strategies:  cfg.Strategies,
		Games:       cfg.Games,
		Parallel:    cfg.Parallel,
		Seed:        cfg.Seed,
		Search:      search,
		TurnTimeout: cfg.TurnTimeout,
	}, log)
	if err != nil {
		log.WithError(err).Fatal("tournament failed")
	}

	for rank, st := range res.Standings {
		log.WithFields(logrus.Fields{
			"rank":     rank + 1,
			"strategy": st.Strategy,
			"entry":    st.Entry,
			"wins":     st.Wins,
			"losses":   st.Losses,
			"draws":    st.Draws,
			"bursts":   st.Bursts,
			"win_rate": st.WinRate(),
		}).Info("standing")
	}
	if res.Search.Decisions > 0 {
		log.WithFields(logrus.Fields{
			"decisions":     res.Search.Decisions,
			"forced":        res.Search.Forced,
			"strategic":     res.Search.StrategicPass,
			"trials":        res.Search.Trials,
			"fallback_rate": res.Search.FallbackRate(),
			"search_time":   res.Search.SearchDuration,
		}).Info("search statistics")
	}
}
