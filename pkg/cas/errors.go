package cas

import "github.com/pkg/errors"

// Sentinel errors. Failures are wrapped around one of these so callers can
// classify them with errors.Is.
var (
	ErrParse             = errors.New("parse error")
	ErrUndefinedVariable = errors.New("undefined variable")
	ErrUnknownFunction   = errors.New("unknown function")
	ErrDivisionByZero    = errors.New("division by zero")
	ErrDomain            = errors.New("domain error")
	ErrNonLinear         = errors.New("expression is not linear")
	ErrNoUniqueSolution  = errors.New("no unique solution")
	ErrUnsupported       = errors.New("unsupported expression")
	ErrNotFound          = errors.New("not found")
)
