package interpreter

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"rumina/interpreter-go/pkg/driver"
	"rumina/interpreter-go/pkg/runtime"
)

var execFixtureRoot = filepath.Join("testdata", "exec")

func TestExecFixtures(t *testing.T) {
	manifests, err := driver.DiscoverFixtures(execFixtureRoot)
	if err != nil {
		t.Fatalf("discover fixtures: %v", err)
	}
	if len(manifests) == 0 {
		t.Fatalf("no fixtures found under %s", execFixtureRoot)
	}
	for _, manifest := range manifests {
		t.Run(manifest.Name, func(t *testing.T) {
			for _, mode := range allTestExecModes {
				if manifest.Skips(string(mode)) {
					continue
				}
				t.Run(string(mode), func(t *testing.T) {
					runExecFixture(t, manifest, mode)
				})
			}
		})
	}
}

func runExecFixture(t *testing.T, manifest *driver.Manifest, mode testExecMode) {
	t.Helper()
	program, err := manifest.Load()
	if err != nil {
		t.Fatalf("load %s: %v", manifest.EntryPath(), err)
	}
	var stdout bytes.Buffer
	interp := NewWithOptions(Options{ExecMode: ExecMode(mode), Stdout: &stdout, RandomSeed: manifest.Seed})
	result, _, err := interp.EvaluateModule(program.Module)

	expect := manifest.Expect
	if diff := cmp.Diff(expect.Stdout, stdoutLines(stdout.String()), cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("stdout mismatch (-want +got):\n%s", diff)
	}
	if expect.Error != "" {
		kind, ok := runtime.KindOf(err)
		if !ok {
			t.Fatalf("expected %s error, got %v", expect.Error, err)
		}
		if string(kind) != expect.Error {
			t.Fatalf("error kind mismatch: got=%s want=%s (%v)", kind, expect.Error, err)
		}
		return
	}
	if err != nil {
		if rerr, ok := runtime.AsError(err); ok {
			t.Fatalf("unexpected error: %s", rerr.Describe())
		}
		t.Fatalf("unexpected error: %v", err)
	}
	if expect.Result != nil {
		if got := interp.Display(result); got != *expect.Result {
			t.Fatalf("result mismatch: got=%q want=%q", got, *expect.Result)
		}
	}
	if len(interp.callStack) != 0 {
		t.Fatalf("call stack not unwound: %v", interp.callStack)
	}
}

// stdoutLines splits captured output into lines, nil when nothing was printed.
func stdoutLines(out string) []string {
	out = strings.TrimSuffix(out, "\n")
	if out == "" {
		return nil
	}
	return strings.Split(out, "\n")
}

func TestExecFixturesSameAcrossModes(t *testing.T) {
	manifests, err := driver.DiscoverFixtures(execFixtureRoot)
	if err != nil {
		t.Fatalf("discover fixtures: %v", err)
	}
	for _, manifest := range manifests {
		program, err := manifest.Load()
		if err != nil {
			t.Fatalf("load %s: %v", manifest.Name, err)
		}
		var treeOut, vmOut bytes.Buffer
		seed := max(manifest.Seed, 1)
		tree := NewWithOptions(Options{ExecMode: ExecModeTreewalker, Stdout: &treeOut, RandomSeed: seed})
		vm := NewWithOptions(Options{ExecMode: ExecModeBytecode, Stdout: &vmOut, RandomSeed: seed})
		treeVal, _, treeErr := tree.EvaluateModule(program.Module)
		vmVal, _, vmErr := vm.EvaluateModule(program.Module)
		if treeOut.String() != vmOut.String() {
			t.Fatalf("%s: stdout differs: treewalker=%q bytecode=%q", manifest.Name, treeOut.String(), vmOut.String())
		}
		treeKind, _ := runtime.KindOf(treeErr)
		vmKind, _ := runtime.KindOf(vmErr)
		if treeKind != vmKind {
			t.Fatalf("%s: error kinds differ: treewalker=%v bytecode=%v", manifest.Name, treeErr, vmErr)
		}
		if treeErr == nil && tree.Display(treeVal) != vm.Display(vmVal) {
			t.Fatalf("%s: results differ: treewalker=%s bytecode=%s", manifest.Name, tree.Display(treeVal), vm.Display(vmVal))
		}
	}
}

func BenchmarkExecFixtures(b *testing.B) {
	manifests, err := driver.DiscoverFixtures(execFixtureRoot)
	if err != nil {
		b.Fatalf("discover fixtures: %v", err)
	}
	for _, mode := range []ExecMode{ExecModeTreewalker, ExecModeBytecode} {
		b.Run(string(mode), func(b *testing.B) {
			for n := 0; n < b.N; n++ {
				for _, manifest := range manifests {
					program, err := manifest.Load()
					if err != nil {
						b.Fatalf("load %s: %v", manifest.Name, err)
					}
					var out bytes.Buffer
					interp := NewWithOptions(Options{ExecMode: mode, Stdout: &out})
					_, _, _ = interp.EvaluateModule(program.Module)
				}
			}
		})
	}
}
