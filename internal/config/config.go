// Package config loads runtime configuration from multiple sources (YAML
// files, environment variables, CLI flags) with precedence: CLI flags >
// YAML config > Environment variables > Defaults. It exposes strongly typed
// settings to the rest of the application.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/piwi3910/LoadPlan/internal/engine"
	"github.com/piwi3910/LoadPlan/internal/model"
)

const (
	defaultSeed       = 1
	defaultResultsDir = "results"
)

// Config aggregates runtime configuration resolved from multiple sources.
// Precedence: CLI flags > YAML config > Environment variables > Preferences > Defaults
type Config struct {
	InitSortings          []engine.InitSorting
	CornerSortings        []engine.CornerSorting
	TypePermutations      bool
	Workers               int
	Seed                  int64
	ResultsDir            string
	RequireSupport        bool
	SkipLargerAfterReject bool
	CaptureCornerTrace    bool
}

// yamlConfig represents the YAML configuration file structure.
type yamlConfig struct {
	InitSortings          []string `yaml:"init_sortings"`
	CornerSortings        []string `yaml:"corner_sortings"`
	TypePermutations      *bool    `yaml:"type_permutations"`
	Workers               *int     `yaml:"workers"`
	Seed                  *int64   `yaml:"seed"`
	ResultsDir            string   `yaml:"results_dir"`
	RequireSupport        *bool    `yaml:"require_support"`
	SkipLargerAfterReject *bool    `yaml:"skip_larger_after_reject"`
	CaptureCornerTrace    *bool    `yaml:"capture_corner_trace"`
}

// CLIOverrides holds command-line flag overrides. Nil pointers mean the
// flag was not given on the command line.
type CLIOverrides struct {
	ConfigFile       string
	InitSortings     []string
	CornerSortings   []string
	TypePermutations *bool
	Workers          *int
	Seed             *int64
	ResultsDir       *string
	RequireSupport   *bool
}

// Load extracts configuration from multiple sources with precedence:
// CLI flags > YAML config > Environment variables > Preferences > Defaults
func Load(prefs model.AppConfig, overrides *CLIOverrides) (Config, error) {
	cfg := defaultConfig()

	applyPreferences(&cfg, prefs)
	applyEnvConfig(&cfg)

	if overrides != nil && overrides.ConfigFile != "" {
		yamlCfg, err := loadFromFile(overrides.ConfigFile)
		if err != nil {
			return Config{}, fmt.Errorf("load YAML config: %w", err)
		}
		if err := applyYAMLConfig(&cfg, yamlCfg); err != nil {
			return Config{}, err
		}
	}

	if overrides != nil {
		if err := applyCLIOverrides(&cfg, overrides); err != nil {
			return Config{}, err
		}
	}

	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// defaultConfig returns a Config with default values. The default
// heuristic sets cover the full cross product.
func defaultConfig() Config {
	return Config{
		InitSortings:          engine.AllInitSortings(),
		CornerSortings:        engine.AllCornerSortings(),
		Workers:               0,
		Seed:                  defaultSeed,
		ResultsDir:            defaultResultsDir,
		SkipLargerAfterReject: true,
	}
}

// applyPreferences seeds the configuration with the user's saved defaults
// from ~/.loadplan/config.json, below every other source.
func applyPreferences(cfg *Config, prefs model.AppConfig) {
	settings := model.DefaultSettings()
	prefs.ApplyToSettings(&settings)
	cfg.Seed = settings.Seed
	cfg.Workers = settings.Workers
	cfg.RequireSupport = settings.RequireSupport
	cfg.SkipLargerAfterReject = settings.SkipLargerAfterReject
	if prefs.ResultsDir != "" {
		cfg.ResultsDir = prefs.ResultsDir
	}
}

// EngineSettings converts the resolved configuration into load settings
// for the placement engine.
func (c Config) EngineSettings() model.LoadSettings {
	settings := model.DefaultSettings()
	settings.Seed = c.Seed
	settings.Workers = c.Workers
	settings.RequireSupport = c.RequireSupport
	settings.SkipLargerAfterReject = c.SkipLargerAfterReject
	settings.CaptureCornerTrace = c.CaptureCornerTrace
	return settings
}

// Combos builds the heuristic combinations to evaluate for a catalog.
// With TypePermutations enabled the initial orderings are replaced by
// every permutation of the catalog's package types.
func (c Config) Combos(catalog []model.PackageType) ([]engine.Combination, error) {
	if c.TypePermutations {
		return engine.TypePermutationCombinations(catalog, c.CornerSortings)
	}
	return engine.Combinations(c.InitSortings, c.CornerSortings), nil
}

// loadFromFile loads configuration from a YAML file.
func loadFromFile(path string) (*yamlConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var yamlCfg yamlConfig
	if err := yaml.Unmarshal(data, &yamlCfg); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}

	return &yamlCfg, nil
}

// applyYAMLConfig applies YAML configuration to the Config struct.
func applyYAMLConfig(cfg *Config, yamlCfg *yamlConfig) error {
	if len(yamlCfg.InitSortings) > 0 {
		sortings, err := parseInitSortings(yamlCfg.InitSortings)
		if err != nil {
			return err
		}
		cfg.InitSortings = sortings
	}

	if len(yamlCfg.CornerSortings) > 0 {
		sortings, err := parseCornerSortings(yamlCfg.CornerSortings)
		if err != nil {
			return err
		}
		cfg.CornerSortings = sortings
	}

	if yamlCfg.TypePermutations != nil {
		cfg.TypePermutations = *yamlCfg.TypePermutations
	}
	if yamlCfg.Workers != nil {
		cfg.Workers = *yamlCfg.Workers
	}
	if yamlCfg.Seed != nil {
		cfg.Seed = *yamlCfg.Seed
	}
	if yamlCfg.ResultsDir != "" {
		cfg.ResultsDir = yamlCfg.ResultsDir
	}
	if yamlCfg.RequireSupport != nil {
		cfg.RequireSupport = *yamlCfg.RequireSupport
	}
	if yamlCfg.SkipLargerAfterReject != nil {
		cfg.SkipLargerAfterReject = *yamlCfg.SkipLargerAfterReject
	}
	if yamlCfg.CaptureCornerTrace != nil {
		cfg.CaptureCornerTrace = *yamlCfg.CaptureCornerTrace
	}
	return nil
}

// applyEnvConfig applies environment variable configuration.
func applyEnvConfig(cfg *Config) {
	if raw := strings.TrimSpace(os.Getenv("LOADPLAN_INIT_SORTINGS")); raw != "" {
		if sortings, err := parseInitSortings(splitList(raw)); err == nil {
			cfg.InitSortings = sortings
		}
	}

	if raw := strings.TrimSpace(os.Getenv("LOADPLAN_CORNER_SORTINGS")); raw != "" {
		if sortings, err := parseCornerSortings(splitList(raw)); err == nil {
			cfg.CornerSortings = sortings
		}
	}

	if raw := strings.TrimSpace(os.Getenv("LOADPLAN_WORKERS")); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value >= 0 {
			cfg.Workers = value
		}
	}

	if raw := strings.TrimSpace(os.Getenv("LOADPLAN_SEED")); raw != "" {
		if value, err := strconv.ParseInt(raw, 10, 64); err == nil {
			cfg.Seed = value
		}
	}

	if dir := strings.TrimSpace(os.Getenv("LOADPLAN_RESULTS_DIR")); dir != "" {
		cfg.ResultsDir = dir
	}
}

// applyCLIOverrides applies command-line flag overrides.
func applyCLIOverrides(cfg *Config, overrides *CLIOverrides) error {
	if len(overrides.InitSortings) > 0 {
		sortings, err := parseInitSortings(overrides.InitSortings)
		if err != nil {
			return err
		}
		cfg.InitSortings = sortings
	}

	if len(overrides.CornerSortings) > 0 {
		sortings, err := parseCornerSortings(overrides.CornerSortings)
		if err != nil {
			return err
		}
		cfg.CornerSortings = sortings
	}

	if overrides.TypePermutations != nil {
		cfg.TypePermutations = *overrides.TypePermutations
	}
	if overrides.Workers != nil && *overrides.Workers >= 0 {
		cfg.Workers = *overrides.Workers
	}
	if overrides.Seed != nil {
		cfg.Seed = *overrides.Seed
	}
	if overrides.ResultsDir != nil && *overrides.ResultsDir != "" {
		cfg.ResultsDir = *overrides.ResultsDir
	}
	if overrides.RequireSupport != nil {
		cfg.RequireSupport = *overrides.RequireSupport
	}

	return nil
}

// validateConfig validates the final configuration.
func validateConfig(cfg Config) error {
	if len(cfg.InitSortings) == 0 && !cfg.TypePermutations {
		return fmt.Errorf("initial sortings cannot be empty")
	}
	if len(cfg.CornerSortings) == 0 {
		return fmt.Errorf("corner sortings cannot be empty")
	}
	if cfg.Workers < 0 {
		return fmt.Errorf("workers must be >= 0")
	}
	if cfg.ResultsDir == "" {
		return fmt.Errorf("results directory cannot be empty")
	}
	return nil
}

func parseInitSortings(names []string) ([]engine.InitSorting, error) {
	sortings := make([]engine.InitSorting, 0, len(names))
	for _, name := range names {
		sorting, err := engine.ParseInitSorting(strings.TrimSpace(name))
		if err != nil {
			return nil, err
		}
		sortings = append(sortings, sorting)
	}
	return sortings, nil
}

func parseCornerSortings(names []string) ([]engine.CornerSorting, error) {
	sortings := make([]engine.CornerSorting, 0, len(names))
	for _, name := range names {
		sorting, err := engine.ParseCornerSorting(strings.TrimSpace(name))
		if err != nil {
			return nil, err
		}
		sortings = append(sortings, sorting)
	}
	return sortings, nil
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
