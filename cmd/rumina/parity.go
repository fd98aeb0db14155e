package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	goruntime "runtime"
	"strings"

	"fortio.org/log"
	"golang.org/x/sync/errgroup"

	"rumina/interpreter-go/pkg/cas"
	"rumina/interpreter-go/pkg/config"
	"rumina/interpreter-go/pkg/driver"
	"rumina/interpreter-go/pkg/interpreter"
	"rumina/interpreter-go/pkg/runtime"
)

const defaultParitySeed = 1

// parityCase is one program to run under both strategies. Manifest is nil
// for a bare program file.
type parityCase struct {
	name     string
	path     string
	manifest *driver.Manifest
}

// outcome is everything observable about one run.
type outcome struct {
	stdout  string
	result  string
	errKind string
	errText string
}

type parityReport struct {
	name     string
	failures []string
}

// runParity runs every case with the tree walker and the VM concurrently and
// reports any difference between them, and between them and the fixture
// expectation when there is one.
func runParity(args []string, cfg *config.Config) int {
	if len(args) == 0 {
		args = []string{"."}
	}
	cases, err := collectParityCases(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if len(cases) == 0 {
		fmt.Fprintln(os.Stdout, "rumina parity: no programs found")
		return 0
	}

	reports := make([]parityReport, len(cases))
	var g errgroup.Group
	g.SetLimit(goruntime.NumCPU())
	for idx, pc := range cases {
		idx, pc := idx, pc
		g.Go(func() error {
			report, err := checkParity(pc, cfg)
			if err != nil {
				return err
			}
			reports[idx] = report
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	failed := 0
	for _, report := range reports {
		if len(report.failures) == 0 {
			fmt.Fprintf(os.Stdout, "ok    %s\n", report.name)
			continue
		}
		failed++
		fmt.Fprintf(os.Stdout, "FAIL  %s\n", report.name)
		for _, failure := range report.failures {
			fmt.Fprintf(os.Stdout, "      %s\n", failure)
		}
	}
	fmt.Fprintf(os.Stdout, "rumina parity: %d passed, %d failed\n", len(reports)-failed, failed)
	if failed > 0 {
		return 1
	}
	return 0
}

// collectParityCases expands directories into their fixtures. A directory
// without manifests contributes its .yml, .yaml and .json programs.
func collectParityCases(args []string) ([]parityCase, error) {
	var cases []parityCase
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("parity: %w", err)
		}
		if !info.IsDir() {
			cases = append(cases, parityCase{name: arg, path: arg})
			continue
		}
		manifests, err := driver.DiscoverFixtures(arg)
		if err != nil {
			return nil, fmt.Errorf("parity: %w", err)
		}
		if len(manifests) > 0 {
			for _, m := range manifests {
				cases = append(cases, parityCase{name: m.Name, path: m.EntryPath(), manifest: m})
			}
			continue
		}
		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, fmt.Errorf("parity: %w", err)
		}
		for _, entry := range entries {
			switch strings.ToLower(filepath.Ext(entry.Name())) {
			case ".yml", ".yaml", ".json":
				if entry.Name() == config.FileName {
					continue
				}
				path := filepath.Join(arg, entry.Name())
				cases = append(cases, parityCase{name: path, path: path})
			}
		}
	}
	return cases, nil
}

func checkParity(pc parityCase, cfg *config.Config) (parityReport, error) {
	report := parityReport{name: pc.name}
	runCfg := *cfg
	runCfg.RandomSeed = paritySeed(pc, cfg)
	outcomes := make(map[interpreter.ExecMode]outcome, 2)
	for _, mode := range []interpreter.ExecMode{interpreter.ExecModeTreewalker, interpreter.ExecModeBytecode} {
		if pc.manifest != nil && pc.manifest.Skips(string(mode)) {
			continue
		}
		out, err := runOutcome(pc.path, &runCfg, mode)
		if err != nil {
			return report, err
		}
		outcomes[mode] = out
	}
	tree, hasTree := outcomes[interpreter.ExecModeTreewalker]
	vm, hasVM := outcomes[interpreter.ExecModeBytecode]
	if hasTree && hasVM {
		report.failures = append(report.failures, outcomeDifferences(tree, vm)...)
	}
	if pc.manifest != nil {
		for _, mode := range []interpreter.ExecMode{interpreter.ExecModeTreewalker, interpreter.ExecModeBytecode} {
			if out, ok := outcomes[mode]; ok {
				for _, failure := range expectationFailures(pc.manifest, out) {
					report.failures = append(report.failures, fmt.Sprintf("%s: %s", mode, failure))
				}
			}
		}
	}
	if len(report.failures) > 0 {
		log.Warnf("parity: %s has %d mismatches", pc.name, len(report.failures))
	}
	return report, nil
}

// paritySeed picks the random seed both engines share: the manifest's, then
// the configured one, then a fixed default.
func paritySeed(pc parityCase, cfg *config.Config) int64 {
	if pc.manifest != nil && pc.manifest.Seed != 0 {
		return pc.manifest.Seed
	}
	if cfg.RandomSeed != 0 {
		return cfg.RandomSeed
	}
	return defaultParitySeed
}

func outcomeDifferences(tree, vm outcome) []string {
	var diffs []string
	if tree.stdout != vm.stdout {
		diffs = append(diffs, fmt.Sprintf("stdout differs: treewalker=%q bytecode=%q", tree.stdout, vm.stdout))
	}
	if tree.errKind != vm.errKind {
		diffs = append(diffs, fmt.Sprintf("error differs: treewalker=%q bytecode=%q", tree.errText, vm.errText))
	}
	if tree.errKind == "" && vm.errKind == "" && tree.result != vm.result {
		diffs = append(diffs, fmt.Sprintf("result differs: treewalker=%s bytecode=%s", tree.result, vm.result))
	}
	return diffs
}

// runOutcome decodes the program afresh so concurrent runs share no AST.
// Every run gets its own CAS registry.
func runOutcome(path string, cfg *config.Config, mode interpreter.ExecMode) (outcome, error) {
	program, err := driver.LoadProgram(path)
	if err != nil {
		return outcome{}, err
	}
	var stdout bytes.Buffer
	interp := newInterpreter(cfg, mode, &stdout, cas.NewRegistry())
	val, _, err := interp.EvaluateModule(program.Module)
	out := outcome{stdout: stdout.String()}
	if err != nil {
		out.errText = err.Error()
		if kind, ok := runtime.KindOf(err); ok {
			out.errKind = string(kind)
		} else {
			out.errKind = "exit"
		}
		return out, nil
	}
	out.result = interp.Display(val)
	return out, nil
}

func expectationFailures(m *driver.Manifest, got outcome) []string {
	var failures []string
	expect := m.Expect
	wantStdout := ""
	if len(expect.Stdout) > 0 {
		wantStdout = strings.Join(expect.Stdout, "\n") + "\n"
	}
	if got.stdout != wantStdout {
		failures = append(failures, fmt.Sprintf("stdout: got=%q want=%q", got.stdout, wantStdout))
	}
	switch {
	case expect.Error != "":
		if got.errKind != expect.Error {
			failures = append(failures, fmt.Sprintf("error: got=%q want=%s", got.errText, expect.Error))
		}
	case got.errKind != "":
		failures = append(failures, fmt.Sprintf("unexpected error: %s", got.errText))
	case expect.Result != nil && got.result != *expect.Result:
		failures = append(failures, fmt.Sprintf("result: got=%s want=%s", got.result, *expect.Result))
	}
	return failures
}
