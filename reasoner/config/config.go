// Package config loads reasoner settings from YAML and turns them into
// engine options.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/wbrown/janus-reasoner/reasoner/annotations"
	"github.com/wbrown/janus-reasoner/reasoner/engine"
	"github.com/wbrown/janus-reasoner/reasoner/propositional"
	"github.com/wbrown/janus-reasoner/reasoner/store"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is wrapped by every Validate failure
var ErrInvalidConfig = errors.New("invalid config")

// Config holds the settings shared by the CLI and the examples
type Config struct {
	// MaxIterations bounds forward chaining; 0 uses each engine's default
	MaxIterations   int       `yaml:"max_iterations"`
	Store           string    `yaml:"store"`            // memory, badger
	SkolemPrefix    string    `yaml:"skolem_prefix"`    // prefix of minted constants
	OnContradiction string    `yaml:"on_contradiction"` // abort, discard
	Log             LogConfig `yaml:"log"`
	Verbose         bool      `yaml:"verbose"`
}

// LogConfig configures the zap logger
type LogConfig struct {
	Level       string `yaml:"level"` // debug, info, warn, error
	Development bool   `yaml:"development"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Store:           string(store.Memory),
		SkolemPrefix:    engine.DefaultSkolemPrefix,
		OnContradiction: propositional.Abort.String(),
		Log:             LogConfig{Level: "info"},
	}
}

// Load reads a YAML file over the defaults. A missing file yields the
// defaults. Environment overrides apply last.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save writes the configuration as YAML, creating the directory if needed
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if s := os.Getenv("REASONER_STORE"); s != "" {
		c.Store = s
	}
	if lvl := os.Getenv("REASONER_LOG_LEVEL"); lvl != "" {
		c.Log.Level = lvl
	}
}

// Validate checks every field
func (c *Config) Validate() error {
	if c.MaxIterations < 0 {
		return fmt.Errorf("%w: max_iterations must not be negative, got %d", ErrInvalidConfig, c.MaxIterations)
	}
	if _, err := store.ParseKind(c.Store); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if strings.HasPrefix(c.SkolemPrefix, "?") {
		return fmt.Errorf("%w: skolem_prefix %q would mint variables", ErrInvalidConfig, c.SkolemPrefix)
	}
	if _, err := propositional.ParseContradictionPolicy(c.OnContradiction); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: log level: %v", ErrInvalidConfig, err)
	}
	return nil
}

// FirstOrderIterations is the bound for the first-order engine
func (c *Config) FirstOrderIterations() int {
	if c.MaxIterations == 0 {
		return engine.DefaultMaxIterations
	}
	return c.MaxIterations
}

// PropositionalIterations is the bound for the propositional engine
func (c *Config) PropositionalIterations() int {
	if c.MaxIterations == 0 {
		return propositional.DefaultMaxIterations
	}
	return c.MaxIterations
}

// EngineOptions builds first-order engine options that report to handler
func (c *Config) EngineOptions(handler annotations.Handler) (engine.Options, error) {
	if err := c.Validate(); err != nil {
		return engine.Options{}, err
	}
	kind, _ := store.ParseKind(c.Store)
	return engine.Options{
		Store:        kind,
		SkolemPrefix: c.SkolemPrefix,
		Handler:      handler,
	}, nil
}

// PropositionalOptions builds propositional engine options that report to handler
func (c *Config) PropositionalOptions(handler annotations.Handler) (propositional.Options, error) {
	if err := c.Validate(); err != nil {
		return propositional.Options{}, err
	}
	policy, _ := propositional.ParseContradictionPolicy(c.OnContradiction)
	return propositional.Options{
		OnContradiction: policy,
		Handler:         handler,
	}, nil
}

// NewLogger builds a zap logger at the configured level
func (c *Config) NewLogger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("%w: log level: %v", ErrInvalidConfig, err)
	}

	zc := zap.NewProductionConfig()
	if c.Log.Development {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}
