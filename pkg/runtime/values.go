package runtime

import (
	"fmt"
	"math/big"

	"rumina/interpreter-go/pkg/ast"
)

// Kind identifies the runtime value category.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindBigInt
	KindFloat
	KindRational
	KindIrrational
	KindComplex
	KindString
	KindArray
	KindStruct
	KindModule
	KindNativeFunction
	KindFunction
)

// String returns the name scripts observe through typeof.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindBigInt:
		return "bigint"
	case KindFloat:
		return "float"
	case KindRational:
		return "rational"
	case KindIrrational:
		return "irrational"
	case KindComplex:
		return "complex"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindStruct:
		return "struct"
	case KindModule:
		return "module"
	case KindNativeFunction:
		return "native_function"
	case KindFunction:
		return "function"
	default:
		return fmt.Sprintf("unknown_kind_%d", int(k))
	}
}

// Value is the shared behaviour for all runtime values.
type Value interface {
	Kind() Kind
}

//-----------------------------------------------------------------------------
// Scalars
//-----------------------------------------------------------------------------

type NullValue struct{}

func (NullValue) Kind() Kind { return KindNull }

type BoolValue struct {
	Val bool
}

func (v BoolValue) Kind() Kind { return KindBool }

type StringValue struct {
	Val string
}

func (v StringValue) Kind() Kind { return KindString }

// IntValue is the default integer representation. Arithmetic on it is
// overflow-checked; only factorial and exponentiation promote to BigIntValue.
type IntValue struct {
	Val int64
}

func (v IntValue) Kind() Kind { return KindInt }

type BigIntValue struct {
	Val *big.Int
}

func (v BigIntValue) Kind() Kind { return KindBigInt }

type FloatValue struct {
	Val float64
}

func (v FloatValue) Kind() Kind { return KindFloat }

// RationalValue is always stored in lowest terms with a positive denominator.
// Construct it through NewRational or RationalFromRat.
type RationalValue struct {
	Val *big.Rat
}

func (v RationalValue) Kind() Kind { return KindRational }

// ComplexValue holds two real numeric components (Int, BigInt, Rational,
// Irrational or Float).
type ComplexValue struct {
	Re Value
	Im Value
}

func (v ComplexValue) Kind() Kind { return KindComplex }

//-----------------------------------------------------------------------------
// Aggregates and callables (heap handles)
//-----------------------------------------------------------------------------

type ArrayValue struct {
	Handle Handle
}

func (v ArrayValue) Kind() Kind { return KindArray }

type StructValue struct {
	Handle Handle
}

func (v StructValue) Kind() Kind { return KindStruct }

// ModuleValue shares the struct storage layout; it only differs in how
// member calls treat the receiver.
type ModuleValue struct {
	Handle Handle
}

func (v ModuleValue) Kind() Kind { return KindModule }

type NativeFunctionValue struct {
	Handle Handle
}

func (v NativeFunctionValue) Kind() Kind { return KindNativeFunction }

type FunctionValue struct {
	Handle Handle
}

func (v FunctionValue) Kind() Kind { return KindFunction }

// NativeCallContext is handed to every native function. It carries the
// per-interpreter state natives may touch.
type NativeCallContext struct {
	Heap      *Heap
	Resources *Resources
	Caller    Caller
	Name      string
}

// Caller lets natives call back into script functions.
type Caller interface {
	CallFunction(fn Value, args []Value) (Value, error)
	Print(text string)
}

type NativeFunc func(ctx *NativeCallContext, args []Value) (Value, error)

// NativeFunction is a host callable. Method natives receive the struct they
// were read from as args[0].
type NativeFunction struct {
	Name   string
	Method bool
	Fn     NativeFunc
}

// Closure is a user-defined function: parameters, body and captured scope.
// Code holds the lowered body when the function was created by the bytecode VM.
type Closure struct {
	Name     string
	Params   []string
	Body     *ast.BlockStatement
	Env      *Environment
	Code     any
	Memoize  bool
	Memo     map[string]Value
	IsLambda bool
}

//-----------------------------------------------------------------------------
// Helpers
//-----------------------------------------------------------------------------

var Null Value = NullValue{}

func Bool(b bool) Value { return BoolValue{Val: b} }

func Int(n int64) Value { return IntValue{Val: n} }

func Float(f float64) Value { return FloatValue{Val: f} }

func String(s string) Value { return StringValue{Val: s} }

// IsNull reports whether v is the null value (a nil interface counts as null).
func IsNull(v Value) bool {
	if v == nil {
		return true
	}
	_, ok := v.(NullValue)
	return ok
}

// IsCallable reports whether v can be invoked.
func IsCallable(v Value) bool {
	switch v.(type) {
	case FunctionValue, NativeFunctionValue:
		return true
	default:
		return false
	}
}

// TypeName returns the typeof name of v.
func TypeName(v Value) string {
	if v == nil {
		return KindNull.String()
	}
	return v.Kind().String()
}

// Truthy implements the condition rule shared by if/while/&&/||.
func Truthy(v Value) bool {
	switch val := v.(type) {
	case nil, NullValue:
		return false
	case BoolValue:
		return val.Val
	case IntValue:
		return val.Val != 0
	case BigIntValue:
		return val.Val.Sign() != 0
	case FloatValue:
		return val.Val != 0
	case RationalValue:
		return val.Val.Sign() != 0
	case StringValue:
		return val.Val != ""
	default:
		return true
	}
}
