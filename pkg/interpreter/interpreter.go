package interpreter

import (
	"bufio"
	"fmt"
	"io"
	"math/rand"
	"os"
	"strings"
	"time"

	"fortio.org/log"

	"rumina/interpreter-go/pkg/ast"
	"rumina/interpreter-go/pkg/cas"
	"rumina/interpreter-go/pkg/runtime"
)

// DefaultMaxCallDepth bounds nested script calls in both execution modes.
const DefaultMaxCallDepth = 4000

// ExecMode selects the execution strategy.
type ExecMode string

const (
	ExecModeTreewalker ExecMode = "treewalker"
	ExecModeBytecode   ExecMode = "bytecode"
)

// ParseExecMode accepts the names used on the command line and in rumina.yml.
func ParseExecMode(raw string) (ExecMode, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "treewalker", "tree", "ast":
		return ExecModeTreewalker, nil
	case "bytecode", "vm":
		return ExecModeBytecode, nil
	default:
		return "", fmt.Errorf("unknown exec mode %q (expected treewalker or bytecode)", raw)
	}
}

// Options configures a new interpreter. Zero values select defaults.
type Options struct {
	ExecMode         ExecMode
	Stdout           io.Writer
	Stdin            io.Reader
	MaxCallDepth     int
	DecimalPrecision uint32
	CAS              cas.Settings
	Registry         *cas.Registry
	// RandomSeed seeds the random module; zero seeds from the clock.
	RandomSeed int64
}

// Interpreter owns one heap, one global scope and one resource manager.
// It is not safe for concurrent use; run separate interpreters instead.
type Interpreter struct {
	global    *runtime.Environment
	heap      *runtime.Heap
	resources *runtime.Resources
	modules   map[string]runtime.ModuleValue

	execMode         ExecMode
	stdout           io.Writer
	stdin            *bufio.Reader
	maxDepth         int
	decimalPrecision uint32
	casSettings      cas.Settings
	registry         *cas.Registry
	rng              *rand.Rand

	callStack []runtime.TraceFrame
}

// New returns a tree-walking interpreter with default options.
func New() *Interpreter {
	return NewWithOptions(Options{})
}

// NewBytecode returns an interpreter that runs modules on the bytecode VM.
func NewBytecode() *Interpreter {
	return NewWithOptions(Options{ExecMode: ExecModeBytecode})
}

func NewWithOptions(opts Options) *Interpreter {
	if opts.ExecMode == "" {
		opts.ExecMode = ExecModeTreewalker
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stdin == nil {
		opts.Stdin = os.Stdin
	}
	if opts.MaxCallDepth <= 0 {
		opts.MaxCallDepth = DefaultMaxCallDepth
	}
	if opts.DecimalPrecision == 0 {
		opts.DecimalPrecision = runtime.DefaultDecimalPrecision
	}
	if opts.CAS == (cas.Settings{}) {
		opts.CAS = cas.DefaultSettings()
	}
	if opts.Registry == nil {
		opts.Registry = cas.DefaultRegistry
	}
	if opts.RandomSeed == 0 {
		opts.RandomSeed = time.Now().UnixNano()
	}
	i := &Interpreter{
		global:           runtime.NewEnvironment(nil),
		heap:             runtime.NewHeap(),
		resources:        runtime.NewResources(),
		modules:          make(map[string]runtime.ModuleValue),
		execMode:         opts.ExecMode,
		stdout:           opts.Stdout,
		stdin:            bufio.NewReader(opts.Stdin),
		maxDepth:         opts.MaxCallDepth,
		decimalPrecision: opts.DecimalPrecision,
		casSettings:      opts.CAS,
		registry:         opts.Registry,
		rng:              newRandSource(opts.RandomSeed),
	}
	i.initBuiltins()
	return i
}

// GlobalEnvironment returns the interpreter's global environment.
func (i *Interpreter) GlobalEnvironment() *runtime.Environment {
	return i.global
}

func (i *Interpreter) Heap() *runtime.Heap { return i.heap }

func (i *Interpreter) Resources() *runtime.Resources { return i.resources }

func (i *Interpreter) ExecMode() ExecMode { return i.execMode }

// SetStdout redirects print output.
func (i *Interpreter) SetStdout(w io.Writer) {
	if w == nil {
		w = io.Discard
	}
	i.stdout = w
}

// EvaluateModule validates the module and runs it with the configured
// strategy in the global environment. The result is the value of a top-level
// return, else the value of the final expression statement, else null.
func (i *Interpreter) EvaluateModule(module *ast.Module) (runtime.Value, *runtime.Environment, error) {
	var (
		result runtime.Value
		err    error
	)
	switch i.execMode {
	case ExecModeBytecode:
		result, err = i.EvaluateBytecode(module)
	default:
		result, err = i.Evaluate(module)
	}
	return result, i.global, err
}

// Evaluate runs module with the tree walker regardless of the configured mode.
func (i *Interpreter) Evaluate(module *ast.Module) (runtime.Value, error) {
	if err := validateModule(module); err != nil {
		return nil, err
	}
	leave := i.enterRootFrame()
	defer leave()
	log.LogVf("treewalker: evaluating %d statements", len(module.Body))
	result, err := i.evaluateStatements(module.Body, i.global)
	if err != nil {
		if ret, ok := err.(returnSignal); ok {
			return ret.value, nil
		}
		return nil, i.attachTrace(err)
	}
	return result, nil
}

// EvaluateBytecode lowers module and runs it on the VM regardless of the
// configured mode.
func (i *Interpreter) EvaluateBytecode(module *ast.Module) (runtime.Value, error) {
	program, err := i.lowerModuleToBytecode(module)
	if err != nil {
		return nil, err
	}
	vm := newBytecodeVM(i, i.global)
	return vm.run(program)
}

// Collect releases heap objects no longer reachable from the global scope or
// the module table. It must not be called while a module is running.
func (i *Interpreter) Collect() int {
	roots := make([]runtime.Value, 0, len(i.modules))
	for _, mod := range i.modules {
		roots = append(roots, mod)
	}
	return i.heap.Collect(roots, i.global)
}

// Print writes one line to the configured output.
func (i *Interpreter) Print(text string) {
	fmt.Fprintln(i.stdout, text)
}

// CallFunction invokes fn with the active strategy. Natives use it to call
// back into script functions.
func (i *Interpreter) CallFunction(fn runtime.Value, args []runtime.Value) (runtime.Value, error) {
	return i.callValue(fn, args, nil)
}

// Display renders v the way print and tostring do.
func (i *Interpreter) Display(v runtime.Value) string {
	return runtime.Display(i.heap, v)
}

func validateModule(module *ast.Module) error {
	if module == nil {
		return runtime.Errorf(runtime.ParseError, "module is nil")
	}
	if err := ast.Validate(module); err != nil {
		return runtime.WrapError(runtime.ParseError, err)
	}
	return nil
}
