package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/dayroute/internal/contract"
	"github.com/alexanderramin/dayroute/internal/domain"
	"github.com/alexanderramin/dayroute/internal/travel"
	"gopkg.in/yaml.v3"
)

// Environment variables that override the config file.
const (
	EnvDB     = "DAYROUTE_DB"
	EnvConfig = "DAYROUTE_CONFIG"
	EnvUser   = "DAYROUTE_USER"
	EnvSeed   = "DAYROUTE_SEED"
)

const (
	appDir      = ".dayroute"
	defaultUser = "me"
)

// PlannerConfig holds the day bounds and generation defaults.
type PlannerConfig struct {
	StartTime       domain.Clock `yaml:"start_time"`
	EndTime         domain.Clock `yaml:"end_time"`
	MaxTotalTime    int          `yaml:"max_total_time"`
	Mode            string       `yaml:"mode"`
	AllowRemote     bool         `yaml:"allow_remote"`
	KeepGenerations int          `yaml:"keep_generations"`
}

// TravelConfig overrides parts of the travel estimator table. Ranks are
// merged into the built-in table rather than replacing it.
type TravelConfig struct {
	JitterMin   *int           `yaml:"jitter_min,omitempty"`
	JitterMax   *int           `yaml:"jitter_max,omitempty"`
	RankPenalty *int           `yaml:"rank_penalty,omitempty"`
	Ranks       map[string]int `yaml:"ranks,omitempty"`
}

// Config is the top-level dayroute configuration.
type Config struct {
	DBPath  string        `yaml:"db_path"`
	User    string        `yaml:"user"`
	Seed    *uint64       `yaml:"seed,omitempty"`
	Planner PlannerConfig `yaml:"planner"`
	Travel  TravelConfig  `yaml:"travel"`
}

// DefaultConfig returns the built-in configuration. DBPath is left empty
// and resolved by Load.
func DefaultConfig() *Config {
	c := domain.DefaultConstraints()
	return &Config{
		User: defaultUser,
		Planner: PlannerConfig{
			StartTime:       c.StartTime,
			EndTime:         c.EndTime,
			MaxTotalTime:    c.MaxTotalTime,
			Mode:            string(contract.ModeClassic),
			AllowRemote:     true,
			KeepGenerations: 20,
		},
	}
}

// Path returns the config file location: DAYROUTE_CONFIG, else
// ~/.dayroute/config.yaml.
func Path() (string, error) {
	if p := os.Getenv(EnvConfig); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}
	return filepath.Join(home, appDir, "config.yaml"), nil
}

// Load reads path over DefaultConfig and applies environment overrides.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config file %s: %w", path, err)
			}
		case errors.Is(err, fs.ErrNotExist):
		default:
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if cfg.DBPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("finding home directory: %w", err)
		}
		cfg.DBPath = filepath.Join(home, appDir, "dayroute.db")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvDB); v != "" {
		c.DBPath = v
	}
	if v := os.Getenv(EnvUser); v != "" {
		c.User = v
	}
	if v := os.Getenv(EnvSeed); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvSeed, err)
		}
		c.Seed = &seed
	}
	return nil
}

// Validate checks the planner bounds, mode and travel overrides.
func (c *Config) Validate() error {
	if c.User == "" {
		return fmt.Errorf("config: user must not be empty")
	}
	if err := c.Constraints().Validate(); err != nil {
		return fmt.Errorf("config: planner: %w", err)
	}
	switch contract.GenerateMode(c.Planner.Mode) {
	case contract.ModeClassic, contract.ModeCoverage:
	default:
		return fmt.Errorf("config: planner.mode must be %q or %q, got %q",
			contract.ModeClassic, contract.ModeCoverage, c.Planner.Mode)
	}
	if c.Planner.KeepGenerations < 0 {
		return fmt.Errorf("config: planner.keep_generations must not be negative")
	}
	if _, err := travel.NewComplexityEstimator(c.TravelConfig(), travel.Constant(0)); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// Constraints returns the planner day bounds.
func (c *Config) Constraints() domain.Constraints {
	return domain.Constraints{
		StartTime:    c.Planner.StartTime,
		EndTime:      c.Planner.EndTime,
		MaxTotalTime: c.Planner.MaxTotalTime,
	}
}

// TravelConfig applies the overrides to travel.DefaultConfig.
func (c *Config) TravelConfig() travel.Config {
	tc := travel.DefaultConfig()
	if c.Travel.JitterMin != nil {
		tc.JitterMin = *c.Travel.JitterMin
	}
	if c.Travel.JitterMax != nil {
		tc.JitterMax = *c.Travel.JitterMax
	}
	if c.Travel.RankPenalty != nil {
		tc.RankPenalty = *c.Travel.RankPenalty
	}
	for name, rank := range c.Travel.Ranks {
		tc.Ranks[strings.Join(strings.Fields(strings.ToLower(name)), " ")] = rank
	}
	return tc
}

// RandomSource returns a source seeded from Seed, or from the clock when
// no seed is set.
func (c *Config) RandomSource() *travel.SeededSource {
	if c.Seed != nil {
		return travel.NewSeededSource(*c.Seed)
	}
	return travel.NewSeededSource(uint64(time.Now().UnixNano()))
}
