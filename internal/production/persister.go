// Package production provides production integrations: persistence, event publishing, visualization.
package production

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/comalice/markovx"
)

// JSONPersister is a file-based report persister using JSON serialization.
type JSONPersister struct {
	dir string
}

// NewJSONPersister creates a JSONPersister, ensuring the directory exists.
func NewJSONPersister(dir string) (*JSONPersister, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return &JSONPersister{dir: dir}, nil
}

func reportFile(dir, name, ext string) (string, error) {
	if name == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return "", fmt.Errorf("invalid report name %q", name)
	}
	return filepath.Join(dir, name+ext), nil
}

func (p *JSONPersister) Save(ctx context.Context, report markovx.Report) error {
	if err := report.Validate(); err != nil {
		return fmt.Errorf("report %q: %w", report.Name, err)
	}
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}

	fn, err := reportFile(p.dir, report.Name, ".json")
	if err != nil {
		return err
	}
	if err := os.WriteFile(fn, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", fn, err)
	}

	return nil
}

func (p *JSONPersister) Load(ctx context.Context, name string) (markovx.Report, error) {
	fn, err := reportFile(p.dir, name, ".json")
	if err != nil {
		return markovx.Report{}, err
	}
	data, err := os.ReadFile(fn)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return markovx.Report{}, fmt.Errorf("report %q: %w", name, os.ErrNotExist)
		}
		return markovx.Report{}, fmt.Errorf("read %s: %w", fn, err)
	}

	var report markovx.Report
	if err := json.Unmarshal(data, &report); err != nil {
		return markovx.Report{}, fmt.Errorf("json unmarshal: %w", err)
	}
	report.Name = name

	return report, nil
}

// YAMLPersister is a file-based report persister using YAML serialization.
type YAMLPersister struct {
	dir string
}

// NewYAMLPersister creates a YAMLPersister, ensuring the directory exists.
func NewYAMLPersister(dir string) (*YAMLPersister, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return &YAMLPersister{dir: dir}, nil
}

func (p *YAMLPersister) Save(ctx context.Context, report markovx.Report) error {
	if err := report.Validate(); err != nil {
		return fmt.Errorf("report %q: %w", report.Name, err)
	}
	data, err := yaml.Marshal(report)
	if err != nil {
		return fmt.Errorf("yaml marshal: %w", err)
	}

	fn, err := reportFile(p.dir, report.Name, ".yaml")
	if err != nil {
		return err
	}
	if err := os.WriteFile(fn, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", fn, err)
	}

	return nil
}

func (p *YAMLPersister) Load(ctx context.Context, name string) (markovx.Report, error) {
	fn, err := reportFile(p.dir, name, ".yaml")
	if err != nil {
		return markovx.Report{}, err
	}
	data, err := os.ReadFile(fn)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return markovx.Report{}, fmt.Errorf("report %q: %w", name, os.ErrNotExist)
		}
		return markovx.Report{}, fmt.Errorf("read %s: %w", fn, err)
	}

	var report markovx.Report
	if err := yaml.Unmarshal(data, &report); err != nil {
		return markovx.Report{}, fmt.Errorf("yaml unmarshal: %w", err)
	}
	report.Name = name
	if err := report.Validate(); err != nil {
		return markovx.Report{}, fmt.Errorf("report validation after load: %w", err)
	}

	return report, nil
}

var (
	_ markovx.ReportPersister = (*JSONPersister)(nil)
	_ markovx.ReportPersister = (*YAMLPersister)(nil)
)
