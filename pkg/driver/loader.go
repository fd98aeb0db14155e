// Package driver loads serialized programs and the fixture suites that pair a
// program with its expected output.
package driver

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"rumina/interpreter-go/pkg/ast"
)

// ManifestName is the file that marks a fixture directory.
const ManifestName = "manifest.yml"

// Program is a decoded program and the file it came from.
type Program struct {
	Path   string
	Module *ast.Module
}

// LoadProgram reads and decodes a program serialized as JSON or YAML.
func LoadProgram(path string) (*Program, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("loader: resolve %s: %w", path, err)
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("loader: read %s: %w", abs, err)
	}
	mod, err := ast.DecodeModuleFile(abs, data)
	if err != nil {
		return nil, fmt.Errorf("loader: decode %s: %w", abs, err)
	}
	return &Program{Path: abs, Module: mod}, nil
}

// Expectation is what running a fixture must produce. Result is the display
// form of the program value; Error is the runtime error kind.
type Expectation struct {
	Result *string  `yaml:"result"`
	Stdout []string `yaml:"stdout"`
	Error  string   `yaml:"error"`
}

// Manifest describes one fixture directory.
type Manifest struct {
	Name        string
	Dir         string
	Entry       string
	Description string
	Skip        []string
	Seed        int64
	Expect      Expectation
}

type manifestDisk struct {
	Entry       string      `yaml:"entry"`
	Description string      `yaml:"description"`
	Skip        []string    `yaml:"skip"`
	Seed        int64       `yaml:"seed"`
	Expect      Expectation `yaml:"expect"`
}

// LoadManifest parses the manifest at path. The fixture name is the
// directory name.
func LoadManifest(path string) (*Manifest, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: resolve %s: %w", path, err)
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("manifest: read %s: %w", abs, err)
	}
	var raw manifestDisk
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("manifest: parse %s: %w", abs, err)
	}
	dir := filepath.Dir(abs)
	manifest := &Manifest{
		Name:        filepath.Base(dir),
		Dir:         dir,
		Entry:       strings.TrimSpace(raw.Entry),
		Description: raw.Description,
		Skip:        raw.Skip,
		Seed:        raw.Seed,
		Expect:      raw.Expect,
	}
	if manifest.Entry == "" {
		manifest.Entry = "program.yml"
	}
	if manifest.Expect.Result != nil && manifest.Expect.Error != "" {
		return nil, fmt.Errorf("manifest: %s expects both a result and an error", abs)
	}
	return manifest, nil
}

// EntryPath is the absolute path of the fixture program.
func (m *Manifest) EntryPath() string {
	if filepath.IsAbs(m.Entry) {
		return m.Entry
	}
	return filepath.Join(m.Dir, m.Entry)
}

// Skips reports whether the fixture opts out of the named exec mode.
func (m *Manifest) Skips(mode string) bool {
	for _, skip := range m.Skip {
		if strings.EqualFold(skip, mode) {
			return true
		}
	}
	return false
}

// Load decodes the fixture's entry program.
func (m *Manifest) Load() (*Program, error) {
	return LoadProgram(m.EntryPath())
}

// DiscoverFixtures returns every manifest below root, sorted by directory.
func DiscoverFixtures(root string) ([]*Manifest, error) {
	var manifests []*Manifest
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || d.Name() != ManifestName {
			return nil
		}
		manifest, err := LoadManifest(path)
		if err != nil {
			return err
		}
		manifests = append(manifests, manifest)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(manifests, func(a, b int) bool { return manifests[a].Dir < manifests[b].Dir })
	return manifests, nil
}
