// Package config loads the markovx CLI configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all markovx configuration.
type Config struct {
	LogLevel string `yaml:"log_level"`
	// DBPath enables the SQLite result store when set.
	DBPath string `yaml:"db_path"`
	// OutDir receives report files when set.
	OutDir string `yaml:"out_dir"`
	Format string `yaml:"format"`

	Dice       DiceConfig       `yaml:"dice"`
	Board      BoardConfig      `yaml:"board"`
	Simulation SimulationConfig `yaml:"simulation"`
	Correction CorrectionConfig `yaml:"correction"`
}

// DiceConfig configures the win/tie tables.
type DiceConfig struct {
	Faces   int `yaml:"faces"`
	MaxDice int `yaml:"max_dice"`
}

// BoardConfig configures the board computations.
type BoardConfig struct {
	// File is a board layout YAML; empty uses the built-in layout.
	File  string `yaml:"file"`
	Turns int    `yaml:"turns"`
	CSV   string `yaml:"csv"`
}

// SimulationConfig configures chain simulation.
type SimulationConfig struct {
	Chain string `yaml:"chain"`
	// ChainsFile is a YAML list of chains; empty uses the built-in chains.
	ChainsFile string  `yaml:"chains_file"`
	Iterations int     `yaml:"iterations"`
	Seed       uint64  `yaml:"seed"`
	Workers    int     `yaml:"workers"`
	Tolerance  float64 `yaml:"tolerance"`
}

// CorrectionConfig configures the OCR corrector.
type CorrectionConfig struct {
	Order int `yaml:"order"`
	// ConfusionFile is a confusion YAML; empty uses the built-in groups.
	ConfusionFile string `yaml:"confusion_file"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		Format:   "json",
		Dice: DiceConfig{
			Faces:   6,
			MaxDice: 8,
		},
		Board: BoardConfig{
			Turns: 50,
		},
		Simulation: SimulationConfig{
			Chain:      "a",
			Iterations: 10000,
			Seed:       1,
			Tolerance:  1e-12,
		},
		Correction: CorrectionConfig{
			Order: 1,
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults. Environment overrides apply in both cases.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
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

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() error {
	if v := os.Getenv("MARKOVX_SEED"); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("MARKOVX_SEED: %w", err)
		}
		c.Simulation.Seed = seed
	}
	if v := os.Getenv("MARKOVX_ITERATIONS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("MARKOVX_ITERATIONS: %w", err)
		}
		c.Simulation.Iterations = n
	}
	if v := os.Getenv("MARKOVX_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("MARKOVX_DB"); v != "" {
		c.DBPath = v
	}
	return nil
}

// ValidLogLevels lists the accepted log levels.
var ValidLogLevels = []string{"debug", "info", "warn", "error"}

// Validate validates the configuration.
func (c *Config) Validate() error {
	validLevel := false
	for _, l := range ValidLogLevels {
		if c.LogLevel == l {
			validLevel = true
			break
		}
	}
	if !validLevel {
		return fmt.Errorf("invalid log level: %s (valid: %v)", c.LogLevel, ValidLogLevels)
	}
	if c.Format != "json" && c.Format != "yaml" {
		return fmt.Errorf("invalid report format: %s (valid: json, yaml)", c.Format)
	}
	if c.Dice.Faces < 2 {
		return fmt.Errorf("dice faces must be at least 2, got %d", c.Dice.Faces)
	}
	if c.Dice.MaxDice < 1 {
		return fmt.Errorf("dice max_dice must be at least 1, got %d", c.Dice.MaxDice)
	}
	if c.Board.Turns < 0 {
		return fmt.Errorf("board turns must not be negative, got %d", c.Board.Turns)
	}
	if c.Simulation.Iterations < 1 {
		return fmt.Errorf("simulation iterations must be at least 1, got %d", c.Simulation.Iterations)
	}
	if c.Simulation.Workers < 0 {
		return fmt.Errorf("simulation workers must not be negative, got %d", c.Simulation.Workers)
	}
	if c.Simulation.Tolerance <= 0 {
		return fmt.Errorf("simulation tolerance must be positive, got %v", c.Simulation.Tolerance)
	}
	if c.Correction.Order != 1 && c.Correction.Order != 2 {
		return fmt.Errorf("correction order must be 1 or 2, got %d", c.Correction.Order)
	}
	return nil
}
