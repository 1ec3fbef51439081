// Package config defines the squadrank configuration and its loading hooks.
//
// Conventions:
// - New() builds a Config with defaults; Load layers a YAML file and the
//   environment on top of it.
// - Validation failures wrap ErrInvalidConfig, provider failures ErrLoadConfig.
package config

import (
	"fmt"

	"github.com/okian/squadrank/internal/domain/marketvalue"
	"github.com/okian/squadrank/internal/domain/model"
)

// Page is a saved HTML page handed to an offline collector.
type Page struct {
	Path   string `koanf:"path"`
	Club   string `koanf:"club"`
	League string `koanf:"league"`
}

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Input is the player snapshot CSV; Output the ranked table.
	Input  string `koanf:"input"`
	Output string `koanf:"output"`

	// MinNineties is the eligibility floor on "90s Played".
	MinNineties float64 `koanf:"min_90s"`

	// TopUnderrated sizes the console "most underrated" listing.
	TopUnderrated int `koanf:"top_underrated"`

	// MarketValueColumns lists market value column candidates in priority order.
	MarketValueColumns []string `koanf:"market_value_columns"`

	// Enrichment lists CSV files joined onto the input on player identity.
	Enrichment []string `koanf:"enrichment"`

	// FBrefPages and TransfermarktPages are saved squad pages for collect.
	FBrefPages         []Page `koanf:"fbref_pages"`
	TransfermarktPages []Page `koanf:"transfermarkt_pages"`

	// ProfilesDir holds saved FBref player pages, named after the profile link.
	ProfilesDir string `koanf:"profiles_dir"`

	// WorkerCount bounds concurrent page parsing in collect; 0 uses one per CPU.
	WorkerCount int `koanf:"worker_count"`

	// MetricsFile receives the Prometheus textfile after a run.
	MetricsFile string `koanf:"metrics_file"`

	// Addr configures the HTTP listen address of serve, e.g. ":9080".
	Addr string `koanf:"addr"`

	// MaxLeaderboardLimit caps GET /leaderboard?limit.
	MaxLeaderboardLimit int `koanf:"max_leaderboard_limit"`
}

// New creates a Config holding the defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		Input:               "all_squads.csv",
		Output:              "all_squads_ranked.csv",
		MinNineties:         model.DefaultMinNineties,
		TopUnderrated:       10,
		MarketValueColumns:  marketvalue.DefaultCandidates(),
		Addr:                ":9080",
		MaxLeaderboardLimit: 100,
	}
}

// Validate checks the configuration for values no run can work with.
func (c *Config) Validate() error {
	switch {
	case c.Input == "":
		return fmt.Errorf("%w: input must not be empty", ErrInvalidConfig)
	case c.Output == "":
		return fmt.Errorf("%w: output must not be empty", ErrInvalidConfig)
	case c.MinNineties < 0:
		return fmt.Errorf("%w: min_90s must be >= 0, got %v", ErrInvalidConfig, c.MinNineties)
	case c.TopUnderrated < 0:
		return fmt.Errorf("%w: top_underrated must be >= 0, got %d", ErrInvalidConfig, c.TopUnderrated)
	case len(c.MarketValueColumns) == 0:
		return fmt.Errorf("%w: market_value_columns must not be empty", ErrInvalidConfig)
	case c.WorkerCount < 0:
		return fmt.Errorf("%w: worker_count must be >= 0, got %d", ErrInvalidConfig, c.WorkerCount)
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.MaxLeaderboardLimit < 1:
		return fmt.Errorf("%w: max_leaderboard_limit must be >= 1, got %d", ErrInvalidConfig, c.MaxLeaderboardLimit)
	}
	for i, p := range append(append([]Page{}, c.FBrefPages...), c.TransfermarktPages...) {
		if p.Path == "" {
			return fmt.Errorf("%w: page %d has no path", ErrInvalidConfig, i)
		}
	}
	return nil
}
