package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/soundprediction/burstgraph"
	"github.com/soundprediction/burstgraph/pkg/allen"
	"github.com/soundprediction/burstgraph/pkg/types"
	"github.com/soundprediction/burstgraph/pkg/weight"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	// Log configuration
	Log LogConfig `mapstructure:"log"`

	// Burst extraction configuration
	Burst BurstConfig `mapstructure:"burst"`

	// Relation detection configuration
	Relations RelationsConfig `mapstructure:"relations"`

	// Normalization configuration
	Normalize NormalizeConfig `mapstructure:"normalize"`

	// Direction assignment configuration
	Direction DirectionConfig `mapstructure:"direction"`

	// Concept map configuration
	ConceptMap ConceptMapConfig `mapstructure:"concept_map"`

	// Creator tags every produced record
	Creator string `mapstructure:"creator"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // text (colored) or json
}

// BurstConfig holds the automaton parameters
type BurstConfig struct {
	S                float64 `mapstructure:"s"`
	Gamma            float64 `mapstructure:"gamma"`
	Level            int     `mapstructure:"level"`
	SaveMonolevel    bool    `mapstructure:"save_monolevel"`
	BreakLength      int     `mapstructure:"break_length"`
	BreakOccurrences int     `mapstructure:"break_occurrences"`
}

// RelationsConfig holds the Allen relation parameters
type RelationsConfig struct {
	// Weights overrides the default weight of individual relations
	Weights     map[string]float64 `mapstructure:"weights"`
	MaxGap      int                `mapstructure:"max_gap"`
	Alpha       float64            `mapstructure:"alpha"`
	FindInverse bool               `mapstructure:"find_inverse"`
}

// NormalizeConfig holds the NRW formula
type NormalizeConfig struct {
	Formula string `mapstructure:"formula"` // original, modified, marzo2019_1, marzo2019_2
}

// DirectionConfig holds direction assignment parameters
type DirectionConfig struct {
	PreserveRelations bool `mapstructure:"preserve_relations"`
}

// ConceptMapConfig holds concept map filters
type ConceptMapConfig struct {
	Threshold       float64 `mapstructure:"threshold"`
	StrongThreshold float64 `mapstructure:"strong_threshold"`
	TopN            int     `mapstructure:"top_n"` // 0 keeps every edge
}

// Load loads configuration from file and environment variables
func Load() (*Config, error) {
	// Set defaults
	setDefaults()

	config := &Config{}
	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Override with environment variables if present
	if err := overrideWithEnv(config); err != nil {
		return nil, err
	}

	return config, nil
}

// setDefaults sets default configuration values
func setDefaults() {
	defaults := burstgraph.DefaultOptions()

	// Log defaults
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "text")

	// Burst defaults
	viper.SetDefault("burst.s", defaults.S)
	viper.SetDefault("burst.gamma", defaults.Gamma)
	viper.SetDefault("burst.level", defaults.Level)
	viper.SetDefault("burst.save_monolevel", defaults.SaveMonolevel)
	viper.SetDefault("burst.break_length", defaults.BreakLength)
	viper.SetDefault("burst.break_occurrences", defaults.BreakOccurrences)

	// Relation defaults
	viper.SetDefault("relations.max_gap", defaults.Relations.MaxGap)
	viper.SetDefault("relations.alpha", defaults.Relations.Alpha)
	viper.SetDefault("relations.find_inverse", defaults.Relations.FindInverse)

	viper.SetDefault("normalize.formula", string(defaults.Formula))
	viper.SetDefault("direction.preserve_relations", defaults.PreserveRelations)

	// Concept map defaults
	viper.SetDefault("concept_map.threshold", defaults.Threshold)
	viper.SetDefault("concept_map.strong_threshold", defaults.StrongThreshold)
	viper.SetDefault("concept_map.top_n", defaults.TopN)

	viper.SetDefault("creator", defaults.Creator)
}

// overrideWithEnv overrides config with environment variables
func overrideWithEnv(config *Config) error {
	if level := os.Getenv("BURSTGRAPH_LOG_LEVEL"); level != "" {
		config.Log.Level = level
	}
	if creator := os.Getenv("BURSTGRAPH_CREATOR"); creator != "" {
		config.Creator = creator
	}

	// Automaton parameters
	if s := os.Getenv("BURSTGRAPH_S"); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return types.NewConfigurationError("BURSTGRAPH_S", s, "not a number")
		}
		config.Burst.S = v
	}
	if g := os.Getenv("BURSTGRAPH_GAMMA"); g != "" {
		v, err := strconv.ParseFloat(g, 64)
		if err != nil {
			return types.NewConfigurationError("BURSTGRAPH_GAMMA", g, "not a number")
		}
		config.Burst.Gamma = v
	}
	if l := os.Getenv("BURSTGRAPH_LEVEL"); l != "" {
		v, err := strconv.Atoi(l)
		if err != nil {
			return types.NewConfigurationError("BURSTGRAPH_LEVEL", l, "not an integer")
		}
		config.Burst.Level = v
	}

	if f := os.Getenv("BURSTGRAPH_FORMULA"); f != "" {
		config.Normalize.Formula = f
	}
	return nil
}

// SlogLevel parses the configured log level. Unknown names log at info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.Log.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Options converts the configuration into analysis options. Relation
// weights not named in the configuration keep their default.
func (c *Config) Options() (burstgraph.Options, error) {
	opts := burstgraph.DefaultOptions()

	opts.S = c.Burst.S
	opts.Gamma = c.Burst.Gamma
	opts.Level = c.Burst.Level
	opts.SaveMonolevel = c.Burst.SaveMonolevel
	opts.BreakLength = c.Burst.BreakLength
	opts.BreakOccurrences = c.Burst.BreakOccurrences

	weights, err := types.DefaultRelationWeights().Override(c.Relations.Weights)
	if err != nil {
		return opts, err
	}
	opts.Relations = allen.Options{
		Weights:     weights,
		MaxGap:      c.Relations.MaxGap,
		Alpha:       c.Relations.Alpha,
		FindInverse: c.Relations.FindInverse,
	}

	formula, err := weight.ParseFormula(c.Normalize.Formula)
	if err != nil {
		return opts, err
	}
	opts.Formula = formula
	opts.PreserveRelations = c.Direction.PreserveRelations

	opts.Threshold = c.ConceptMap.Threshold
	opts.StrongThreshold = c.ConceptMap.StrongThreshold
	opts.TopN = c.ConceptMap.TopN
	opts.Creator = c.Creator

	if err := opts.Validate(); err != nil {
		return opts, err
	}
	return opts, nil
}
