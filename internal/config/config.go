// Package config loads the arena configuration from the environment. An
// optional .env file is read first; variables already set win.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the arena settings.
type Config struct {
	Players     int
	PassLimit   int
	MaxTurns    int
	Games       int
	Parallel    int
	Strategies  []string
	Preset      string
	Workers     int
	Seed        uint64
	TurnTimeout time.Duration
	LogLevel    string
	LogFormat   string
}

// Load reads .env files (missing files are ignored) and then the SEVENS_*
// variables.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}
	return FromEnv()
}

// FromEnv reads the SEVENS_* variables, applying defaults for unset ones.
func FromEnv() (*Config, error) {
	var (
		cfg  Config
		errs []string
	)
	intVar := func(key string, fallback int) int {
		n, err := strconv.Atoi(envOrDefault(key, strconv.Itoa(fallback)))
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: not an integer", key))
		}
		return n
	}

	cfg.Players = intVar("SEVENS_PLAYERS", 3)
	cfg.PassLimit = intVar("SEVENS_PASS_LIMIT", 3)
	cfg.MaxTurns = intVar("SEVENS_MAX_TURNS", 0)
	cfg.Games = intVar("SEVENS_GAMES", 100)
	cfg.Parallel = intVar("SEVENS_PARALLEL", 1)
	cfg.Workers = intVar("SEVENS_WORKERS", 0)
	cfg.Preset = envOrDefault("SEVENS_PRESET", "balanced")
	cfg.LogLevel = envOrDefault("SEVENS_LOG_LEVEL", "info")
	cfg.LogFormat = envOrDefault("SEVENS_LOG_FORMAT", "text")

	seed, err := strconv.ParseUint(envOrDefault("SEVENS_SEED", "0"), 10, 64)
	if err != nil {
		errs = append(errs, "SEVENS_SEED: not an unsigned integer")
	}
	cfg.Seed = seed

	timeout, err := time.ParseDuration(envOrDefault("SEVENS_TURN_TIMEOUT", "0s"))
	if err != nil {
		errs = append(errs, "SEVENS_TURN_TIMEOUT: not a duration")
	}
	cfg.TurnTimeout = timeout

	for _, s := range strings.Split(envOrDefault("SEVENS_STRATEGIES", "pimc,random,random"), ",") {
		if s = strings.TrimSpace(s); s != "" {
			cfg.Strategies = append(cfg.Strategies, s)
		}
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("config: %s", strings.Join(errs, "; "))
	}
	if len(cfg.Strategies) != cfg.Players {
		return nil, fmt.Errorf("config: SEVENS_STRATEGIES names %d strategies for %d players", len(cfg.Strategies), cfg.Players)
	}
	return &cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
