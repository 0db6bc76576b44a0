package primitives

import (
	"embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults/*.yaml
var defaultsFS embed.FS

// DefaultBoard returns the standard chutes and ladders layout.
func DefaultBoard() BoardConfig {
	var b BoardConfig
	mustDecodeDefault("defaults/board.yaml", &b)
	return b
}

// DefaultConfusion returns the OCR confusion groups of the corrector exercise.
func DefaultConfusion() ConfusionConfig {
	var c ConfusionConfig
	mustDecodeDefault("defaults/confusion.yaml", &c)
	return c
}

// DefaultChains returns the two six-state chains of the simulation exercise,
// keyed by ID ("a" and "c").
func DefaultChains() map[string]ChainConfig {
	var list []ChainConfig
	mustDecodeDefault("defaults/chains.yaml", &list)
	chains := make(map[string]ChainConfig, len(list))
	for _, c := range list {
		chains[c.ID] = c
	}
	return chains
}

func mustDecodeDefault(name string, out any) {
	data, err := defaultsFS.ReadFile(name)
	if err != nil {
		panic(fmt.Sprintf("primitives: missing embedded %s: %v", name, err))
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		panic(fmt.Sprintf("primitives: bad embedded %s: %v", name, err))
	}
}

// Validator is implemented by every config type in this package.
type Validator interface {
	Validate() error
}

// LoadYAML reads a YAML file into out and validates it.
func LoadYAML[T any, PT interface {
	*T
	Validator
}](path string) (T, error) {
	var out T
	data, err := os.ReadFile(path)
	if err != nil {
		return out, fmt.Errorf("read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &out); err != nil {
		return out, fmt.Errorf("yaml unmarshal %s: %w", path, err)
	}
	if err := PT(&out).Validate(); err != nil {
		return out, fmt.Errorf("validate %s: %w", path, err)
	}
	return out, nil
}

// LoadChains reads a YAML list of chain configs keyed by ID.
func LoadChains(path string) (map[string]ChainConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var list []ChainConfig
	if err := yaml.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("yaml unmarshal %s: %w", path, err)
	}
	chains := make(map[string]ChainConfig, len(list))
	for i := range list {
		if err := list[i].Validate(); err != nil {
			return nil, fmt.Errorf("validate %s chain %d: %w", path, i, err)
		}
		if _, dup := chains[list[i].ID]; dup {
			return nil, fmt.Errorf("%s: duplicate chain %q", path, list[i].ID)
		}
		chains[list[i].ID] = list[i]
	}
	return chains, nil
}
