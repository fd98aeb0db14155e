package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfigOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
exec_mode: bytecode
max_call_depth: 128
log_level: debug
random_seed: 42
cas:
  derivative_step: 0.001
  integral_max_depth: 12
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	want := Default()
	want.Path = cfg.Path
	want.ExecMode = "bytecode"
	want.MaxCallDepth = 128
	want.LogLevel = "debug"
	want.RandomSeed = 42
	want.CAS.DerivativeStep = 0.001
	want.CAS.IntegralMaxDepth = 12
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadMissingConfigUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), FileName))
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Fatalf("defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfigRejectsUnknownKeys(t *testing.T) {
	path := writeConfig(t, "exec_mode: bytecode\nturbo: true\n")
	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "turbo") {
		t.Fatalf("expected unknown key error, got %v", err)
	}
}

func TestLoadConfigValidatesExecMode(t *testing.T) {
	path := writeConfig(t, "exec_mode: jit\n")
	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "exec_mode") {
		t.Fatalf("expected exec_mode error, got %v", err)
	}
}

func TestEmptyConfigParses(t *testing.T) {
	cfg, err := Parse(nil)
	if err != nil {
		t.Fatalf("parse empty config: %v", err)
	}
	if cfg.ExecMode != "treewalker" {
		t.Fatalf("exec mode mismatch: got=%q want=%q", cfg.ExecMode, "treewalker")
	}
}

func TestWriteConfigRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.ExecMode = "bytecode"
	cfg.DecimalPrecision = 50
	cfg.RandomSeed = 7
	path := filepath.Join(t.TempDir(), FileName)
	if err := Write(cfg, path); err != nil {
		t.Fatalf("write config: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	cfg.Path = loaded.Path
	if diff := cmp.Diff(cfg, loaded); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}
