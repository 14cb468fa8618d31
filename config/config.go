// Package config loads settings from flags, CONNECTFOUR_* environment
// variables and an optional YAML file, in that order of precedence.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/domino14/connectfour/bitboard"
	"github.com/domino14/connectfour/game"
	"github.com/domino14/connectfour/gameanalysis"
	"github.com/domino14/connectfour/grid"
	"github.com/domino14/connectfour/minimax"
	"github.com/domino14/connectfour/strategy"
)

const (
	ConfigDebug             = "debug"
	ConfigRows              = "rows"
	ConfigColumns           = "columns"
	ConfigWinLength         = "win-length"
	ConfigDefaultDifficulty = "default-difficulty"
	ConfigAnalysisDepth     = "analysis-depth"
	ConfigAnalysisThreads   = "analysis-threads"
	ConfigTTableSizePower   = "ttable-size-power"
	ConfigTTableMemFraction = "ttable-mem-fraction"
	ConfigSearchNodeBudget  = "search-node-budget"
	ConfigSearchTimeout     = "search-timeout"
	ConfigConfigFile        = "config-file"
	ConfigCPUProfile        = "cpu-profile"
	ConfigDifficulties      = "difficulties"
	ConfigColorOutput       = "color"
)

type Config struct {
	viper.Viper
	args []string
}

// DefaultConfig is a Config with every setting at its default.
func DefaultConfig() *Config {
	c := &Config{}
	if err := c.Load(nil); err != nil {
		panic(err)
	}
	return c
}

func (c *Config) Load(args []string) error {
	c.Viper = *viper.New()

	fs := pflag.NewFlagSet("connectfour", pflag.ContinueOnError)
	fs.Bool(ConfigDebug, false, "debug logging on")
	fs.Int(ConfigRows, grid.DefaultRows, "rows on the board")
	fs.Int(ConfigColumns, grid.DefaultColumns, "columns on the board")
	fs.Int(ConfigWinLength, grid.DefaultWinLength, "pieces in a row needed to win")
	fs.String(ConfigDefaultDifficulty, strategy.Hard.String(), "difficulty of computer players added without one")
	fs.Int(ConfigAnalysisDepth, game.DefaultAnalysisDepth, "plies searched past each move when analyzing")
	fs.Int(ConfigAnalysisThreads, 0, "turns analyzed in parallel; 0 means one per CPU")
	fs.Int(ConfigTTableSizePower, minimax.DefaultTableSizePowerOf2, "log2 of the transposition table size")
	fs.Float64(ConfigTTableMemFraction, 0, "size the transposition table from this fraction of memory instead")
	fs.Uint64(ConfigSearchNodeBudget, 0, "abort a search after this many nodes; 0 means no limit")
	fs.Duration(ConfigSearchTimeout, 0, "abort a computer move after this long; 0 means no limit")
	fs.String(ConfigConfigFile, "", "YAML config file")
	fs.String(ConfigCPUProfile, "", "write a CPU profile to this file")
	fs.Bool(ConfigColorOutput, true, "color the pieces on the console")
	if err := fs.Parse(args); err != nil {
		return err
	}
	c.args = fs.Args()

	c.SetEnvPrefix("connectfour")
	c.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.AutomaticEnv()
	if err := c.BindPFlags(fs); err != nil {
		return err
	}
	if f := c.GetString(ConfigConfigFile); f != "" {
		c.SetConfigFile(f)
		if err := c.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config file %s: %w", f, err)
		}
	}
	return nil
}

// Args are the command-line arguments left after flags.
func (c *Config) Args() []string {
	return c.args
}

func (c *Config) Dims() bitboard.Dims {
	return bitboard.Dims{
		Rows:      c.GetInt(ConfigRows),
		Columns:   c.GetInt(ConfigColumns),
		WinLength: c.GetInt(ConfigWinLength),
	}
}

// Profiles are the default difficulty profiles with any overrides from the
// difficulties key, e.g.
//
//	difficulties:
//	  hard:
//	    depth: 8
//	    select-probability: 0.9
func (c *Config) Profiles() (strategy.Profiles, error) {
	var overrides map[string]strategy.Profile
	if err := c.UnmarshalKey(ConfigDifficulties, &overrides); err != nil {
		return strategy.Profiles{}, err
	}
	return strategy.DefaultProfiles().WithOverrides(overrides)
}

func (c *Config) DefaultDifficulty() (strategy.Difficulty, error) {
	return strategy.ParseDifficulty(c.GetString(ConfigDefaultDifficulty))
}

func (c *Config) SearchLimits() game.SearchLimits {
	limits := game.SearchLimits{
		NodeBudget:        c.GetUint64(ConfigSearchNodeBudget),
		Timeout:           c.GetDuration(ConfigSearchTimeout),
		TableSizePowerOf2: c.GetInt(ConfigTTableSizePower),
	}
	if f := c.GetFloat64(ConfigTTableMemFraction); f > 0 {
		limits.TableSizePowerOf2 = minimax.SizeForMemory(f)
	}
	return limits
}

// GameRules builds rules from the board and search settings, using dims
// in place of the configured board when given.
func (c *Config) GameRules(dims ...bitboard.Dims) (*game.GameRules, error) {
	d := c.Dims()
	if len(dims) > 0 {
		d = dims[0]
	}
	profiles, err := c.Profiles()
	if err != nil {
		return nil, err
	}
	return game.NewGameRules(d, profiles, c.SearchLimits())
}

func (c *Config) AnalysisConfig() *gameanalysis.AnalysisConfig {
	return &gameanalysis.AnalysisConfig{
		Depth:   c.GetInt(ConfigAnalysisDepth),
		Threads: c.GetInt(ConfigAnalysisThreads),
	}
}

// SanitizedSettings is every setting, for logging.
func (c *Config) SanitizedSettings() map[string]any {
	return c.AllSettings()
}
