// Package config handles pathfinding configuration loading and management.
package config

import (
	"github.com/Faultbox/tilenav/internal/trace"
	"github.com/Faultbox/tilenav/pkg/movement"
)

// Config holds all navigation settings.
type Config struct {
	Search   SearchConfig       `yaml:"search"`
	Trace    TraceConfig        `yaml:"trace"`
	Cache    CacheConfig        `yaml:"cache"`
	Profiles []movement.Profile `yaml:"profiles"`
	Logging  LoggingConfig      `yaml:"logging"`
	Metrics  MetricsConfig      `yaml:"metrics"`
}

// SearchConfig holds A* tuning.
type SearchConfig struct {
	HeuristicWeight float64 `yaml:"heuristic_weight"`
	MaxExpansions   int     `yaml:"max_expansions"` // 0 means unbounded
	StepsPerTick    int     `yaml:"steps_per_tick"` // 0 runs searches to completion
}

// TraceConfig holds dynamic edge weights.
type TraceConfig struct {
	PounceBoost       float64 `yaml:"pounce_boost"`
	LedgePenalty      float64 `yaml:"ledge_penalty"`
	DropPocketPenalty float64 `yaml:"drop_pocket_penalty"`
}

// Settings converts the section to tracer settings.
func (t TraceConfig) Settings() trace.Settings {
	return trace.Settings{
		PounceBoost:       t.PounceBoost,
		LedgePenalty:      t.LedgePenalty,
		DropPocketPenalty: t.DropPocketPenalty,
	}
}

// CacheConfig holds per-room dynamic graph cache settings.
type CacheConfig struct {
	MaxProfiles int `yaml:"max_profiles"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	Format  string `yaml:"format"`
	LogFile string `yaml:"log_file"`
}

// MetricsConfig toggles prometheus collection.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	s := trace.DefaultSettings()
	return &Config{
		Search: SearchConfig{
			HeuristicWeight: 1,
			MaxExpansions:   0,
			StepsPerTick:    0,
		},
		Trace: TraceConfig{
			PounceBoost:       s.PounceBoost,
			LedgePenalty:      s.LedgePenalty,
			DropPocketPenalty: s.DropPocketPenalty,
		},
		Cache: CacheConfig{
			MaxProfiles: trace.DefaultCacheSize,
		},
		Profiles: []movement.Profile{movement.Default()},
		Logging: LoggingConfig{
			Level:   "info",
			Format:  "console",
			LogFile: "",
		},
		Metrics: MetricsConfig{
			Enabled: false,
		},
	}
}

// Profile returns the named movement profile. An empty name selects the
// first configured profile.
func (c *Config) Profile(name string) (movement.Profile, bool) {
	if name == "" && len(c.Profiles) > 0 {
		return c.Profiles[0], true
	}
	for _, p := range c.Profiles {
		if p.Name == name {
			return p, true
		}
	}
	return movement.Profile{}, false
}
