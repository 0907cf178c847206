package config

import "flag"

var (
	flagConfig     = flag.String("config", "", "Path to config file")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging")
	flagProfile    = flag.String("profile", "", "Movement profile name")
	flagAdrenaline = flag.Float64("adrenaline", -1, "Adrenaline level 0..1 applied to every profile")
	flagSteps      = flag.Int("steps", -1, "Search steps per tick (0 runs to completion)")
	flagMetrics    = flag.Bool("metrics", false, "Collect prometheus metrics")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// ProfileName returns the profile selected via --profile.
func ProfileName() string {
	return *flagProfile
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagAdrenaline >= 0 {
		for i := range cfg.Profiles {
			cfg.Profiles[i] = cfg.Profiles[i].WithAdrenaline(*flagAdrenaline)
		}
	}
	if *flagSteps >= 0 {
		cfg.Search.StepsPerTick = *flagSteps
	}
	if *flagMetrics {
		cfg.Metrics.Enabled = true
	}
}
