// Package config loads rumina.yml, the runtime configuration shared by the
// CLI subcommands.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"rumina/interpreter-go/pkg/cas"
)

// FileName is the configuration file looked up next to the program.
const FileName = "rumina.yml"

// Config is the resolved runtime configuration.
type Config struct {
	Path             string
	ExecMode         string
	MaxCallDepth     int
	LogLevel         string
	DecimalPrecision uint32
	RandomSeed       int64
	CAS              cas.Settings
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		ExecMode:         "treewalker",
		MaxCallDepth:     4000,
		LogLevel:         "info",
		DecimalPrecision: 34,
		CAS:              cas.DefaultSettings(),
	}
}

type configDisk struct {
	ExecMode         string   `yaml:"exec_mode"`
	MaxCallDepth     int      `yaml:"max_call_depth"`
	LogLevel         string   `yaml:"log_level"`
	DecimalPrecision uint32   `yaml:"decimal_precision"`
	RandomSeed       int64    `yaml:"random_seed,omitempty"`
	CAS              *casDisk `yaml:"cas"`
}

type casDisk struct {
	DerivativeStep    float64 `yaml:"derivative_step"`
	IntegralTolerance float64 `yaml:"integral_tolerance"`
	IntegralMaxDepth  int     `yaml:"integral_max_depth"`
}

// Load parses the configuration at path. A missing file yields the defaults
// with Path left empty.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config: empty path")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("config: resolve %s: %w", path, err)
	}
	data, err := os.ReadFile(abs)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", abs, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", abs, err)
	}
	cfg.Path = abs
	return cfg, nil
}

// Parse decodes rumina.yml contents over the defaults. Unknown keys are
// rejected.
func Parse(data []byte) (*Config, error) {
	var raw configDisk
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	cfg := raw.toConfig()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (d configDisk) toConfig() *Config {
	cfg := Default()
	if mode := strings.TrimSpace(d.ExecMode); mode != "" {
		cfg.ExecMode = strings.ToLower(mode)
	}
	if d.MaxCallDepth != 0 {
		cfg.MaxCallDepth = d.MaxCallDepth
	}
	if level := strings.TrimSpace(d.LogLevel); level != "" {
		cfg.LogLevel = level
	}
	if d.DecimalPrecision != 0 {
		cfg.DecimalPrecision = d.DecimalPrecision
	}
	cfg.RandomSeed = d.RandomSeed
	if d.CAS != nil {
		if d.CAS.DerivativeStep != 0 {
			cfg.CAS.DerivativeStep = d.CAS.DerivativeStep
		}
		if d.CAS.IntegralTolerance != 0 {
			cfg.CAS.IntegralTolerance = d.CAS.IntegralTolerance
		}
		if d.CAS.IntegralMaxDepth != 0 {
			cfg.CAS.IntegralMaxDepth = d.CAS.IntegralMaxDepth
		}
	}
	return cfg
}

// Validate checks the exec mode name and the numeric ranges.
func (c *Config) Validate() error {
	switch c.ExecMode {
	case "treewalker", "bytecode":
	default:
		return fmt.Errorf("exec_mode must be treewalker or bytecode, got %q", c.ExecMode)
	}
	if c.MaxCallDepth < 0 {
		return fmt.Errorf("max_call_depth must be positive, got %d", c.MaxCallDepth)
	}
	if c.CAS.DerivativeStep < 0 || c.CAS.IntegralTolerance < 0 {
		return fmt.Errorf("cas step and tolerance must be positive")
	}
	if c.CAS.IntegralMaxDepth < 0 {
		return fmt.Errorf("cas.integral_max_depth must be positive, got %d", c.CAS.IntegralMaxDepth)
	}
	return nil
}

// Write serialises c to path.
func Write(c *Config, path string) error {
	if c == nil {
		return fmt.Errorf("config: nil config")
	}
	disk := configDisk{
		ExecMode:         c.ExecMode,
		MaxCallDepth:     c.MaxCallDepth,
		LogLevel:         c.LogLevel,
		DecimalPrecision: c.DecimalPrecision,
		RandomSeed:       c.RandomSeed,
		CAS: &casDisk{
			DerivativeStep:    c.CAS.DerivativeStep,
			IntegralTolerance: c.CAS.IntegralTolerance,
			IntegralMaxDepth:  c.CAS.IntegralMaxDepth,
		},
	}
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(disk); err != nil {
		return fmt.Errorf("config: encode: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return fmt.Errorf("config: encode: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}
