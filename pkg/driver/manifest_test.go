package driver

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFixture(t *testing.T, root, name, manifest, program string) string {
	t.Helper()
	dir := filepath.Join(root, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir fixture: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, ManifestName), []byte(manifest), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	if program != "" {
		if err := os.WriteFile(filepath.Join(dir, "program.yml"), []byte(program), 0o644); err != nil {
			t.Fatalf("write program: %v", err)
		}
	}
	return filepath.Join(dir, ManifestName)
}

const sumProgram = `
type: Module
body:
  - type: BinaryExpression
    operator: "+"
    left: {type: IntegerLiteral, value: 1}
    right: {type: IntegerLiteral, value: 2}
`

func TestLoadManifestBasic(t *testing.T) {
	path := writeFixture(t, t.TempDir(), "sum", `
description: adds two ints
skip: [bytecode]
seed: 17
expect:
  result: "3"
  stdout: ["a", "b"]
`, sumProgram)

	manifest, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest returned error: %v", err)
	}
	if manifest.Name != "sum" {
		t.Fatalf("Name = %q, want sum", manifest.Name)
	}
	if manifest.Seed != 17 {
		t.Fatalf("Seed = %d, want 17", manifest.Seed)
	}
	if manifest.Entry != "program.yml" {
		t.Fatalf("Entry = %q, want program.yml", manifest.Entry)
	}
	if manifest.Expect.Result == nil || *manifest.Expect.Result != "3" {
		t.Fatalf("Expect.Result unexpected: %#v", manifest.Expect.Result)
	}
	if len(manifest.Expect.Stdout) != 2 || manifest.Expect.Stdout[1] != "b" {
		t.Fatalf("Expect.Stdout unexpected: %#v", manifest.Expect.Stdout)
	}
	if !manifest.Skips("Bytecode") || manifest.Skips("treewalker") {
		t.Fatalf("Skip unexpected: %#v", manifest.Skip)
	}

	program, err := manifest.Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if len(program.Module.Body) != 1 {
		t.Fatalf("program body length = %d, want 1", len(program.Module.Body))
	}
}

func TestLoadManifestRejectsUnknownFields(t *testing.T) {
	path := writeFixture(t, t.TempDir(), "bad", "entry: program.yml\nexpected: {}\n", "")
	if _, err := LoadManifest(path); err == nil || !strings.Contains(err.Error(), "expected") {
		t.Fatalf("expected unknown field error, got %v", err)
	}
}

func TestLoadManifestRejectsResultAndError(t *testing.T) {
	path := writeFixture(t, t.TempDir(), "both", "expect:\n  result: \"1\"\n  error: TypeError\n", "")
	if _, err := LoadManifest(path); err == nil {
		t.Fatalf("expected conflicting expectation error")
	}
}

func TestDiscoverFixturesSorted(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root, "b_second", "expect:\n  error: NameError\n", sumProgram)
	writeFixture(t, root, "a_first", "expect:\n  result: \"3\"\n", sumProgram)
	if err := os.WriteFile(filepath.Join(root, "notes.txt"), []byte("ignored"), 0o644); err != nil {
		t.Fatalf("write notes: %v", err)
	}

	manifests, err := DiscoverFixtures(root)
	if err != nil {
		t.Fatalf("DiscoverFixtures returned error: %v", err)
	}
	if len(manifests) != 2 {
		t.Fatalf("found %d fixtures, want 2", len(manifests))
	}
	if manifests[0].Name != "a_first" || manifests[1].Name != "b_second" {
		t.Fatalf("fixture order unexpected: %s, %s", manifests[0].Name, manifests[1].Name)
	}
	if manifests[1].Expect.Error != "NameError" {
		t.Fatalf("Expect.Error = %q, want NameError", manifests[1].Expect.Error)
	}
}

func TestLoadProgramReportsDecodeErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	if err := os.WriteFile(path, []byte(`{"type": "Nope"}`), 0o644); err != nil {
		t.Fatalf("write program: %v", err)
	}
	if _, err := LoadProgram(path); err == nil || !strings.Contains(err.Error(), "decode") {
		t.Fatalf("expected decode error, got %v", err)
	}
}
