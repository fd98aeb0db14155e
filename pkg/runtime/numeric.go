package runtime

import (
	"math"
	"math/big"
)

// IsNumeric reports whether v participates in the numeric tower.
func IsNumeric(v Value) bool {
	switch v.(type) {
	case IntValue, BigIntValue, FloatValue, RationalValue, IrrationalValue, ComplexValue:
		return true
	default:
		return false
	}
}

// IsReal reports whether v is a numeric value without an imaginary part.
func IsReal(v Value) bool {
	_, isComplex := v.(ComplexValue)
	return IsNumeric(v) && !isComplex
}

// IsExact reports whether v is an Int, BigInt or Rational.
func IsExact(v Value) bool {
	switch v.(type) {
	case IntValue, BigIntValue, RationalValue:
		return true
	default:
		return false
	}
}

// ToFloat widens any real numeric value to float64.
func ToFloat(v Value) (float64, bool) {
	switch val := v.(type) {
	case IntValue:
		return float64(val.Val), true
	case BigIntValue:
		f, _ := new(big.Float).SetInt(val.Val).Float64()
		return f, true
	case FloatValue:
		return val.Val, true
	case RationalValue:
		return ratFloat(val.Val), true
	case IrrationalValue:
		return val.Float(), true
	default:
		return 0, false
	}
}

// IsZero reports whether v is an exact or floating zero.
func IsZero(v Value) bool {
	switch val := v.(type) {
	case IntValue:
		return val.Val == 0
	case BigIntValue:
		return val.Val.Sign() == 0
	case RationalValue:
		return val.Val.Sign() == 0
	case FloatValue:
		return val.Val == 0
	default:
		return false
	}
}

// Arithmetic applies + - * / % ^ to two numeric operands following the
// tower: complex, then float, then irrational, then rational, then bigint,
// then checked int64.
func Arithmetic(op string, left, right Value) (Value, error) {
	if !IsNumeric(left) || !IsNumeric(right) {
		return nil, Errorf(TypeError, "unsupported operand types for %s: %s and %s", op, TypeName(left), TypeName(right))
	}
	_, lc := left.(ComplexValue)
	_, rc := right.(ComplexValue)
	if lc || rc {
		return complexArithmetic(op, toComplex(left), toComplex(right))
	}
	_, lf := left.(FloatValue)
	_, rf := right.(FloatValue)
	if lf || rf {
		a, _ := ToFloat(left)
		b, _ := ToFloat(right)
		return floatArithmetic(op, a, b)
	}
	_, li := left.(IrrationalValue)
	_, ri := right.(IrrationalValue)
	if li || ri {
		if result, ok, err := irrationalArithmetic(op, left, right); ok || err != nil {
			return result, err
		}
		a, _ := ToFloat(left)
		b, _ := ToFloat(right)
		return floatArithmetic(op, a, b)
	}
	_, lr := left.(RationalValue)
	_, rr := right.(RationalValue)
	if lr || rr {
		a, _ := toRat(left)
		b, _ := toRat(right)
		return ratArithmetic(op, a, b)
	}
	_, lb := left.(BigIntValue)
	_, rb := right.(BigIntValue)
	if lb || rb {
		a, _ := toBig(left)
		b, _ := toBig(right)
		return bigArithmetic(op, a, b)
	}
	return intArithmetic(op, left.(IntValue).Val, right.(IntValue).Val)
}

func floatArithmetic(op string, a, b float64) (Value, error) {
	switch op {
	case "+":
		return FloatValue{Val: a + b}, nil
	case "-":
		return FloatValue{Val: a - b}, nil
	case "*":
		return FloatValue{Val: a * b}, nil
	case "/":
		return FloatValue{Val: a / b}, nil
	case "%":
		return FloatValue{Val: math.Mod(a, b)}, nil
	case "^":
		return FloatValue{Val: math.Pow(a, b)}, nil
	}
	return nil, Errorf(TypeError, "unsupported float operator %s", op)
}

func intArithmetic(op string, a, b int64) (Value, error) {
	switch op {
	case "+":
		sum := a + b
		if (a > 0 && b > 0 && sum < 0) || (a < 0 && b < 0 && sum >= 0) {
			return nil, newOverflowError("integer overflow in addition")
		}
		return IntValue{Val: sum}, nil
	case "-":
		diff := a - b
		if (a >= 0 && b < 0 && diff < 0) || (a < 0 && b > 0 && diff >= 0) {
			return nil, newOverflowError("integer overflow in subtraction")
		}
		return IntValue{Val: diff}, nil
	case "*":
		if a == 0 || b == 0 {
			return IntValue{Val: 0}, nil
		}
		prod := a * b
		if prod/b != a || (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) {
			return nil, newOverflowError("integer overflow in multiplication")
		}
		return IntValue{Val: prod}, nil
	case "/":
		if b == 0 {
			return nil, newDivisionByZeroError()
		}
		return NewRational(big.NewInt(a), big.NewInt(b))
	case "%":
		if b == 0 {
			return nil, newDivisionByZeroError()
		}
		r := a % b
		if r < 0 {
			if b > 0 {
				r += b
			} else {
				r -= b
			}
		}
		return IntValue{Val: r}, nil
	case "^":
		return bigArithmetic(op, big.NewInt(a), big.NewInt(b))
	}
	return nil, Errorf(TypeError, "unsupported integer operator %s", op)
}

func bigArithmetic(op string, a, b *big.Int) (Value, error) {
	switch op {
	case "+":
		return normalizeBig(new(big.Int).Add(a, b)), nil
	case "-":
		return normalizeBig(new(big.Int).Sub(a, b)), nil
	case "*":
		return normalizeBig(new(big.Int).Mul(a, b)), nil
	case "/":
		return NewRational(a, b)
	case "%":
		if b.Sign() == 0 {
			return nil, newDivisionByZeroError()
		}
		return normalizeBig(new(big.Int).Mod(a, b)), nil
	case "^":
		if b.Sign() < 0 {
			return ratPow(new(big.Rat).SetInt(a), b)
		}
		if err := checkPowSize(a, b); err != nil {
			return nil, err
		}
		return normalizeBig(new(big.Int).Exp(a, b, nil)), nil
	}
	return nil, Errorf(TypeError, "unsupported integer operator %s", op)
}

// Negate implements unary minus for numeric values.
func Negate(v Value) (Value, error) {
	switch val := v.(type) {
	case IntValue:
		if val.Val == math.MinInt64 {
			return nil, newOverflowError("integer overflow in negation")
		}
		return IntValue{Val: -val.Val}, nil
	case BigIntValue:
		return normalizeBig(new(big.Int).Neg(val.Val)), nil
	case FloatValue:
		return FloatValue{Val: -val.Val}, nil
	case RationalValue:
		return RationalValue{Val: new(big.Rat).Neg(val.Val)}, nil
	case IrrationalValue:
		return val.scale(big.NewRat(-1, 1)), nil
	case ComplexValue:
		re, err := Negate(val.Re)
		if err != nil {
			return nil, err
		}
		im, err := Negate(val.Im)
		if err != nil {
			return nil, err
		}
		return ComplexValue{Re: re, Im: im}, nil
	}
	return nil, Errorf(TypeError, "cannot negate %s", TypeName(v))
}

// Factorial computes n! for a non-negative integer.
func Factorial(v Value) (Value, error) {
	n, ok := toBig(v)
	if !ok {
		if r, isRat := v.(RationalValue); isRat && r.Val.IsInt() {
			n = r.Val.Num()
		} else {
			return nil, Errorf(TypeError, "factorial requires an integer, got %s", TypeName(v))
		}
	}
	if n.Sign() < 0 {
		return nil, Errorf(ArithmeticError, "factorial of negative number")
	}
	if !n.IsInt64() || n.Int64() > 100000 {
		return nil, Errorf(ArithmeticError, "factorial argument too large")
	}
	result := new(big.Int).MulRange(1, n.Int64())
	return normalizeBig(result), nil
}

// CompareNumbers orders two real numeric values; it returns -1, 0 or 1. The
// ok result is false when either side is NaN.
func CompareNumbers(left, right Value) (int, bool, error) {
	if !IsReal(left) || !IsReal(right) {
		return 0, false, Errorf(TypeError, "cannot order %s and %s", TypeName(left), TypeName(right))
	}
	a, aExact := toRat(left)
	b, bExact := toRat(right)
	if aExact && bExact {
		return a.Cmp(b), true, nil
	}
	fa, _ := ToFloat(left)
	fb, _ := ToFloat(right)
	if math.IsNaN(fa) || math.IsNaN(fb) {
		return 0, false, nil
	}
	switch {
	case fa < fb:
		return -1, true, nil
	case fa > fb:
		return 1, true, nil
	default:
		return 0, true, nil
	}
}

// NumbersEqual implements cross-kind numeric equality, including complex.
func NumbersEqual(left, right Value) bool {
	lc, lIsComplex := left.(ComplexValue)
	rc, rIsComplex := right.(ComplexValue)
	if lIsComplex || rIsComplex {
		if !lIsComplex {
			lc = toComplex(left)
		}
		if !rIsComplex {
			rc = toComplex(right)
		}
		return NumbersEqual(lc.Re, rc.Re) && NumbersEqual(lc.Im, rc.Im)
	}
	cmp, ok, err := CompareNumbers(left, right)
	return err == nil && ok && cmp == 0
}
