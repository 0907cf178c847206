package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Faultbox/tilenav/internal/trace"
	"github.com/Faultbox/tilenav/pkg/movement"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Search.HeuristicWeight != 1 {
		t.Errorf("expected heuristic weight 1, got %v", cfg.Search.HeuristicWeight)
	}
	if cfg.Search.MaxExpansions != 0 {
		t.Errorf("expected unbounded expansions, got %d", cfg.Search.MaxExpansions)
	}
	if cfg.Trace.Settings() != trace.DefaultSettings() {
		t.Errorf("expected default trace settings, got %+v", cfg.Trace.Settings())
	}
	if cfg.Cache.MaxProfiles != trace.DefaultCacheSize {
		t.Errorf("expected cache size %d, got %d", trace.DefaultCacheSize, cfg.Cache.MaxProfiles)
	}
	if len(cfg.Profiles) != 1 || cfg.Profiles[0] != movement.Default() {
		t.Errorf("expected the default profile only, got %+v", cfg.Profiles)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}
	if cfg.Metrics.Enabled {
		t.Error("expected metrics disabled by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
search:
  heuristic_weight: 1.5
  max_expansions: 5000
  steps_per_tick: 64

trace:
  pounce_boost: 4
  ledge_penalty: 2
  drop_pocket_penalty: 0.5

cache:
  max_profiles: 3

profiles:
  - name: runner
    run_speed: 1.5
  - name: heavy
    run_speed: 0.5
    floor_jump: {x: 4, y: 7}

logging:
  level: "debug"
  format: "json"
  log_file: "nav.log"

metrics:
  enabled: true
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Search.HeuristicWeight != 1.5 {
		t.Errorf("expected heuristic weight 1.5, got %v", cfg.Search.HeuristicWeight)
	}
	if cfg.Search.MaxExpansions != 5000 {
		t.Errorf("expected max expansions 5000, got %d", cfg.Search.MaxExpansions)
	}
	if cfg.Search.StepsPerTick != 64 {
		t.Errorf("expected steps per tick 64, got %d", cfg.Search.StepsPerTick)
	}

	want := trace.Settings{PounceBoost: 4, LedgePenalty: 2, DropPocketPenalty: 0.5}
	if cfg.Trace.Settings() != want {
		t.Errorf("expected trace settings %+v, got %+v", want, cfg.Trace.Settings())
	}
	if cfg.Cache.MaxProfiles != 3 {
		t.Errorf("expected max profiles 3, got %d", cfg.Cache.MaxProfiles)
	}

	if len(cfg.Profiles) != 2 {
		t.Fatalf("expected 2 profiles, got %d", len(cfg.Profiles))
	}
	heavy, ok := cfg.Profile("heavy")
	if !ok {
		t.Fatal("profile heavy not found")
	}
	if heavy.RunSpeed != 0.5 || heavy.FloorJump.X != 4 || heavy.FloorJump.Y != 7 {
		t.Errorf("unexpected heavy profile %+v", heavy)
	}
	if heavy.Pounce != movement.Default().Pounce {
		t.Errorf("expected omitted pounce to keep its default, got %+v", heavy.Pounce)
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("expected log format 'json', got %s", cfg.Logging.Format)
	}
	if cfg.Logging.LogFile != "nav.log" {
		t.Errorf("expected log file 'nav.log', got %s", cfg.Logging.LogFile)
	}
	if !cfg.Metrics.Enabled {
		t.Error("expected metrics to be enabled")
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
search:
  max_expansions: not a number
  invalid syntax here
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	err := loadFromFile(cfg, configPath)
	if err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	err := loadFromFile(cfg, "/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestProfileLookup(t *testing.T) {
	cfg := Default()
	cfg.Profiles = append(cfg.Profiles, movement.Profile{Name: "slow", RunSpeed: 0.25})

	p, ok := cfg.Profile("")
	if !ok || p.Name != "default" {
		t.Errorf("empty name should select the first profile, got %q", p.Name)
	}
	p, ok = cfg.Profile("slow")
	if !ok || p.RunSpeed != 0.25 {
		t.Errorf("expected slow profile, got %+v", p)
	}
	if _, ok := cfg.Profile("missing"); ok {
		t.Error("expected missing profile lookup to fail")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"negative heuristic weight", func(c *Config) { c.Search.HeuristicWeight = -1 }},
		{"negative max expansions", func(c *Config) { c.Search.MaxExpansions = -5 }},
		{"empty cache", func(c *Config) { c.Cache.MaxProfiles = 0 }},
		{"no profiles", func(c *Config) { c.Profiles = nil }},
		{"unnamed profile", func(c *Config) { c.Profiles = []movement.Profile{{RunSpeed: 1}} }},
		{"duplicate profile", func(c *Config) { c.Profiles = append(c.Profiles, movement.Default()) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()

	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	tmpDir := t.TempDir()
	os.Chdir(tmpDir)

	// XDG may point at a real user config; pin it to the temp dir
	t.Setenv("XDG_CONFIG_HOME", tmpDir)
	t.Setenv("HOME", tmpDir)

	path := findConfigFile()
	if path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("search:\n  steps_per_tick: 8\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	path = findConfigFile()
	if path == "" {
		t.Error("expected to find config.yaml in current directory")
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*testing.T, *Config)
		teardown func()
	}{
		{
			name: "debug flag",
			setup: func() {
				*flagDebug = true
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
			teardown: func() {
				*flagDebug = false
			},
		},
		{
			name: "adrenaline flag",
			setup: func() {
				*flagAdrenaline = 2
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Profiles[0].Adrenaline != 1 {
					t.Errorf("expected adrenaline clamped to 1, got %v", cfg.Profiles[0].Adrenaline)
				}
			},
			teardown: func() {
				*flagAdrenaline = -1
			},
		},
		{
			name: "steps flag",
			setup: func() {
				*flagSteps = 0
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Search.StepsPerTick != 0 {
					t.Errorf("expected steps per tick 0, got %d", cfg.Search.StepsPerTick)
				}
			},
			teardown: func() {
				*flagSteps = -1
			},
		},
		{
			name: "metrics flag",
			setup: func() {
				*flagMetrics = true
			},
			verify: func(t *testing.T, cfg *Config) {
				if !cfg.Metrics.Enabled {
					t.Error("expected metrics enabled with metrics flag")
				}
			},
			teardown: func() {
				*flagMetrics = false
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			cfg.Search.StepsPerTick = 32
			applyFlags(cfg)

			tt.verify(t, cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
search:
  steps_per_tick: 16
  max_expansions: 900
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	*flagSteps = 4
	defer func() {
		*flagConfig = ""
		*flagSteps = -1
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Steps from flag (4), not file (16)
	if cfg.Search.StepsPerTick != 4 {
		t.Errorf("expected steps per tick 4 from flag, got %d", cfg.Search.StepsPerTick)
	}
	if cfg.Search.MaxExpansions != 900 {
		t.Errorf("expected max expansions 900 from file, got %d", cfg.Search.MaxExpansions)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("cache:\n  max_profiles: 0\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	defer func() { *flagConfig = "" }()

	if _, err := Load(); err == nil {
		t.Error("expected Load to reject max_profiles 0")
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Search.StepsPerTick = 12
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if loaded.Search.StepsPerTick != 12 {
		t.Errorf("expected steps per tick 12, got %d", loaded.Search.StepsPerTick)
	}
	if loaded.Profiles[0] != movement.Default() {
		t.Errorf("profile changed across save: %+v", loaded.Profiles[0])
	}
}

func TestSaveToRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := Default()
	cfg.Profiles = nil
	if err := cfg.SaveTo(path); err == nil {
		t.Fatal("expected SaveTo to reject a config without profiles")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("invalid config was written")
	}
}
