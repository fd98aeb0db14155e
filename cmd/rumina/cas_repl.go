package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"fortio.org/log"
	"github.com/peterh/liner"

	"rumina/interpreter-go/pkg/cas"
	"rumina/interpreter-go/pkg/config"
)

const (
	casHistoryFile = ".rumina_cas_history"
	casPrompt      = "cas> "
)

var errQuit = errors.New("quit")

const casHelp = `Enter an expression to simplify it, or one of:
  :d <expr> [, var]          differentiate
  :i <expr> [, var]          integrate
  :solve <lhs = rhs> [, var] solve a linear equation
  :eval <expr> @ x=1, y=2    evaluate numerically
  :nd <expr> @ x=1           numerical derivative
  :def <expr> @ x=0..1       definite integral
  :store <name> <expr>       remember an expression
  :load <name>               recall an expression
  :names                     list stored expressions
  :quit                      exit`

// casSession evaluates REPL lines against one registry.
type casSession struct {
	settings cas.Settings
	registry *cas.Registry
}

func newCASSession(cfg *config.Config, registry *cas.Registry) *casSession {
	return &casSession{settings: cfg.CAS, registry: registry}
}

func runCASRepl(args []string, cfg *config.Config) int {
	if len(args) > 0 {
		fmt.Fprintf(os.Stderr, "rumina cas does not take arguments (received %s)\n", strings.Join(args, " "))
		return 1
	}
	session := newCASSession(cfg, cas.DefaultRegistry)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	var histPath string
	if home, err := os.UserHomeDir(); err == nil {
		histPath = filepath.Join(home, casHistoryFile)
		if f, err := os.Open(histPath); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
	}
	defer func() {
		if histPath == "" {
			return
		}
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	fmt.Fprintln(os.Stdout, "Rumina CAS. Type :help for commands, Ctrl+D to exit.")
	for {
		line, err := ln.Prompt(casPrompt)
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(os.Stdout)
			return 0
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			continue
		}
		if err != nil {
			log.Errf("cas: %v", err)
			return 1
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		ln.AppendHistory(line)
		out, err := session.exec(line)
		if errors.Is(err, errQuit) {
			return 0
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			continue
		}
		fmt.Fprintln(os.Stdout, out)
	}
}

// exec runs one REPL line and returns the text to print.
func (s *casSession) exec(line string) (string, error) {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, ":") {
		n, err := parseEquation(line)
		if err != nil {
			return "", err
		}
		return cas.Simplify(n).String(), nil
	}
	command, rest, _ := strings.Cut(line[1:], " ")
	rest = strings.TrimSpace(rest)
	switch strings.ToLower(command) {
	case "q", "quit", "exit":
		return "", errQuit
	case "h", "help":
		return casHelp, nil
	case "d", "diff":
		n, name, err := s.exprAndVariable(rest)
		if err != nil {
			return "", err
		}
		d, err := cas.Differentiate(n, name)
		if err != nil {
			return "", err
		}
		return d.String(), nil
	case "i", "int":
		n, name, err := s.exprAndVariable(rest)
		if err != nil {
			return "", err
		}
		return cas.Integrate(n, name).String(), nil
	case "solve":
		n, name, err := s.exprAndVariable(rest)
		if err != nil {
			return "", err
		}
		solution, err := cas.SolveLinear(n, name)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s = %s", name, solution), nil
	case "eval":
		n, bindings, err := s.exprAndBindings(rest)
		if err != nil {
			return "", err
		}
		v, err := s.settings.Evaluate(n, bindings)
		if err != nil {
			return "", err
		}
		return formatNumber(v), nil
	case "nd":
		n, bindings, err := s.exprAndBindings(rest)
		if err != nil {
			return "", err
		}
		if len(bindings) != 1 {
			return "", fmt.Errorf(":nd expects exactly one point, e.g. @ x=1")
		}
		name, point := onlyBinding(bindings)
		v, err := s.settings.NumericalDerivative(n, name, point)
		if err != nil {
			return "", err
		}
		return formatNumber(v), nil
	case "def":
		return s.definite(rest)
	case "store":
		name, src, ok := strings.Cut(rest, " ")
		if !ok || strings.TrimSpace(src) == "" {
			return "", fmt.Errorf(":store expects a name and an expression")
		}
		n, err := parseEquation(src)
		if err != nil {
			return "", err
		}
		s.registry.Store(name, n)
		return fmt.Sprintf("%s := %s", name, n), nil
	case "load":
		n, err := s.registry.Load(rest)
		if err != nil {
			return "", err
		}
		return n.String(), nil
	case "names":
		return strings.Join(s.registry.Names(), "\n"), nil
	}
	return "", fmt.Errorf("unknown command :%s (try :help)", command)
}

// parseEquation reads "lhs = rhs" as lhs - rhs.
func parseEquation(src string) (*cas.Node, error) {
	if lhs, rhs, ok := strings.Cut(src, "="); ok {
		l, err := cas.Parse(lhs)
		if err != nil {
			return nil, err
		}
		r, err := cas.Parse(rhs)
		if err != nil {
			return nil, err
		}
		return cas.Sub(l, r), nil
	}
	return cas.Parse(src)
}

// exprAndVariable splits "expr, var". Without a variable the first one in
// the expression is used, or x when there is none.
func (s *casSession) exprAndVariable(rest string) (*cas.Node, string, error) {
	src, name := rest, ""
	if idx := strings.LastIndex(rest, ","); idx >= 0 {
		src, name = rest[:idx], strings.TrimSpace(rest[idx+1:])
	}
	n, err := s.resolve(src)
	if err != nil {
		return nil, "", err
	}
	if name == "" {
		name = "x"
		if vars := n.Variables(); len(vars) > 0 {
			name = vars[0]
		}
	}
	return n, name, nil
}

// exprAndBindings splits "expr @ x=1, y=2".
func (s *casSession) exprAndBindings(rest string) (*cas.Node, cas.Bindings, error) {
	src, assigns, _ := strings.Cut(rest, "@")
	n, err := s.resolve(src)
	if err != nil {
		return nil, nil, err
	}
	bindings := cas.Bindings{}
	for _, assign := range strings.Split(assigns, ",") {
		if strings.TrimSpace(assign) == "" {
			continue
		}
		name, raw, ok := strings.Cut(assign, "=")
		if !ok {
			return nil, nil, fmt.Errorf("binding %q must look like name=value", strings.TrimSpace(assign))
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, nil, fmt.Errorf("binding %q: %w", strings.TrimSpace(assign), err)
		}
		bindings[strings.TrimSpace(name)] = v
	}
	return n, bindings, nil
}

func (s *casSession) definite(rest string) (string, error) {
	n, assigns, err := s.exprAndRange(rest)
	if err != nil {
		return "", err
	}
	v, err := s.settings.DefiniteIntegral(n, assigns.name, assigns.from, assigns.to)
	if err != nil {
		return "", err
	}
	return formatNumber(v), nil
}

type integrationRange struct {
	name     string
	from, to float64
}

// exprAndRange splits "expr @ x=a..b".
func (s *casSession) exprAndRange(rest string) (*cas.Node, integrationRange, error) {
	var r integrationRange
	src, rangeText, ok := strings.Cut(rest, "@")
	if !ok {
		return nil, r, fmt.Errorf(":def expects a range, e.g. @ x=0..1")
	}
	n, err := s.resolve(src)
	if err != nil {
		return nil, r, err
	}
	name, bounds, ok := strings.Cut(rangeText, "=")
	if !ok {
		return nil, r, fmt.Errorf("range %q must look like x=a..b", strings.TrimSpace(rangeText))
	}
	lo, hi, ok := strings.Cut(bounds, "..")
	if !ok {
		return nil, r, fmt.Errorf("range %q must look like x=a..b", strings.TrimSpace(rangeText))
	}
	r.name = strings.TrimSpace(name)
	if r.from, err = strconv.ParseFloat(strings.TrimSpace(lo), 64); err != nil {
		return nil, r, fmt.Errorf("lower bound: %w", err)
	}
	if r.to, err = strconv.ParseFloat(strings.TrimSpace(hi), 64); err != nil {
		return nil, r, fmt.Errorf("upper bound: %w", err)
	}
	return n, r, nil
}

// resolve parses src, expanding $name from the registry.
func (s *casSession) resolve(src string) (*cas.Node, error) {
	src = strings.TrimSpace(src)
	if strings.HasPrefix(src, "$") {
		return s.registry.Load(src[1:])
	}
	return parseEquation(src)
}

func onlyBinding(b cas.Bindings) (string, float64) {
	for name, v := range b {
		return name, v
	}
	return "", 0
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'g', 15, 64)
}
