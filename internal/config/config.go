// Package config resolves facetfilter's settings. Sources are merged with
// this precedence, highest first:
//  1. command-line flags
//  2. FACETFILTER_* environment variables
//  3. the config file (.facetfilter.yaml)
//  4. built-in defaults
package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Log levels.
const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
)

// Log formats.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// Engine defaults.
const (
	DefaultStateFile        = ".facetfilter-state.yaml"
	DefaultIdentityCategory = "strain"
)

var (
	logLevels  = []string{LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError}
	logFormats = []string{LogFormatText, LogFormatJSON}
)

// Config holds the resolved settings. The mapstructure tags double as
// flag names, environment suffixes and config file keys.
type Config struct {
	LogLevel  string `mapstructure:"log-level" json:"logLevel"`
	LogFormat string `mapstructure:"log-format" json:"logFormat"`
	NoColor   bool   `mapstructure:"no-color" json:"noColor"`
	// Quiet raises the log level to error.
	Quiet bool `mapstructure:"quiet" json:"quiet"`

	// Dataset is the entity file evaluated by read commands.
	Dataset string `mapstructure:"dataset" json:"dataset"`
	// State is where the active filters are kept between runs.
	State string `mapstructure:"state" json:"state"`
	// IdentityCategory names the category matched against entity names.
	// A dataset that declares its own wins.
	IdentityCategory string `mapstructure:"identity-category" json:"identityCategory"`
	// InvalidValues are placeholders never offered as options, on top of
	// the built-in ones.
	InvalidValues []string `mapstructure:"invalid-values" json:"invalidValues"`

	// ConfigFile is the file Load read, if any.
	ConfigFile string `mapstructure:"-" json:"-"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		LogLevel:         LogLevelInfo,
		LogFormat:        LogFormatText,
		State:            DefaultStateFile,
		IdentityCategory: DefaultIdentityCategory,
	}
}

// defaults lists Default() by config key.
func defaults() map[string]any {
	d := Default()

	return map[string]any{
		"log-level":         d.LogLevel,
		"log-format":        d.LogFormat,
		"no-color":          d.NoColor,
		"quiet":             d.Quiet,
		"dataset":           d.Dataset,
		"state":             d.State,
		"identity-category": d.IdentityCategory,
		"invalid-values":    []string{},
	}
}

// Validate reports every invalid setting.
func (c *Config) Validate() error {
	var errs []error

	if err := oneOf("log level", c.LogLevel, logLevels); err != nil {
		errs = append(errs, err)
	}

	if err := oneOf("log format", c.LogFormat, logFormats); err != nil {
		errs = append(errs, err)
	}

	if strings.TrimSpace(c.IdentityCategory) == "" {
		errs = append(errs, errors.New("identity category must not be empty"))
	}

	if strings.TrimSpace(c.State) == "" {
		errs = append(errs, errors.New("state file path must not be empty"))
	}

	return errors.Join(errs...)
}

func oneOf(what, value string, allowed []string) error {
	if slices.Contains(allowed, value) {
		return nil
	}

	return fmt.Errorf("invalid %s %q: must be one of %s", what, value, strings.Join(allowed, ", "))
}

// EffectiveLogLevel is LogLevel, or error when Quiet is set.
func (c *Config) EffectiveLogLevel() string {
	if c.Quiet {
		return LogLevelError
	}

	return c.LogLevel
}
