// Package config loads the optional wfc-report configuration file.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/chmouel/go-wfc-report/internal/model"
)

// Defaults.
const (
	DefaultReport = "report.json"
	DefaultOutput = "report.html"
	DefaultListen = "localhost:8000"
	DefaultTitle  = "Web Fuzzing Commons Report"
)

// Thresholds colour the faults badge: green at zero, yellow up to Yellow,
// red from Red on and orange in between. A zero Red means Yellow+1.
type Thresholds struct {
	Yellow int `yaml:"yellow" json:"yellow"`
	Red    int `yaml:"red" json:"red"`
}

// Badge holds the badge settings.
type Badge struct {
	Thresholds Thresholds `yaml:"thresholds" json:"thresholds"`
}

// Config is the file format. Command line flags override every field.
type Config struct {
	Report          string               `yaml:"report" json:"report"`
	Output          string               `yaml:"output" json:"output"`
	Listen          string               `yaml:"listen" json:"listen"`
	Title           string               `yaml:"title" json:"title"`
	NoOpen          bool                 `yaml:"noOpen" json:"noOpen"`
	LogLevel        string               `yaml:"logLevel" json:"logLevel"`
	LogFormat       string               `yaml:"logFormat" json:"logFormat"`
	FaultCategories []model.DefinedFault `yaml:"faultCategories" json:"faultCategories"`
	Badge           Badge                `yaml:"badge" json:"badge"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Report:    DefaultReport,
		Output:    DefaultOutput,
		Listen:    DefaultListen,
		Title:     DefaultTitle,
		LogLevel:  "info",
		LogFormat: "text",
		Badge:     Badge{Thresholds: Thresholds{Yellow: 5, Red: 6}},
	}
}

// Load reads a YAML (or .json) file on top of the defaults. Relative report
// and output paths are resolved against the file's directory.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path) //nolint:gosec // user supplied config path
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(b, cfg); err != nil {
			return nil, fmt.Errorf("parse json config: %w", err)
		}
	default:
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, fmt.Errorf("parse yaml config: %w", err)
		}
	}

	baseDir := filepath.Dir(path)
	cfg.Report = resolve(baseDir, cfg.Report)
	cfg.Output = resolve(baseDir, cfg.Output)

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func resolve(baseDir, ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" || ref == "-" || filepath.IsAbs(ref) {
		return ref
	}
	return filepath.Join(baseDir, ref)
}

// Validate checks field values.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	if strings.TrimSpace(cfg.Report) == "" {
		return fmt.Errorf("report is required")
	}
	switch strings.ToLower(strings.TrimSpace(cfg.LogFormat)) {
	case "", "text", "json":
	default:
		return fmt.Errorf("logFormat must be one of text, json")
	}
	switch strings.ToLower(strings.TrimSpace(cfg.LogLevel)) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logLevel must be one of debug, info, warn, error")
	}

	seen := map[int]struct{}{}
	for i, f := range cfg.FaultCategories {
		if f.Code <= 0 {
			return fmt.Errorf("faultCategories[%d].code must be > 0", i)
		}
		if strings.TrimSpace(f.Name) == "" {
			return fmt.Errorf("faultCategories[%d].name is required", i)
		}
		if _, ok := seen[f.Code]; ok {
			return fmt.Errorf("duplicate fault category code %d", f.Code)
		}
		seen[f.Code] = struct{}{}
	}

	t := cfg.Badge.Thresholds
	if t.Yellow < 0 || t.Red < 0 {
		return fmt.Errorf("badge.thresholds must be >= 0")
	}
	if t.Red != 0 && t.Red <= t.Yellow {
		return fmt.Errorf("badge.thresholds.red must be greater than yellow")
	}
	return nil
}

// Catalog returns the fault catalogue with the configured categories applied.
func (c *Config) Catalog() *model.Catalog {
	return model.NewCatalog(c.FaultCategories...)
}
