package runtime

import (
	"math"
	"math/big"
	"strings"
)

var bigOne = big.NewInt(1)

// NewRational reduces num/den, fixes the sign onto the numerator and
// rejects a zero denominator.
func NewRational(num, den *big.Int) (RationalValue, error) {
	if den == nil || den.Sign() == 0 {
		return RationalValue{}, newDivisionByZeroError()
	}
	n := new(big.Int).Set(num)
	d := new(big.Int).Set(den)
	if d.Sign() < 0 {
		n.Neg(n)
		d.Neg(d)
	}
	if n.Sign() != 0 {
		gcd := new(big.Int).GCD(nil, nil, new(big.Int).Abs(n), d)
		if gcd.Cmp(bigOne) != 0 {
			n.Quo(n, gcd)
			d.Quo(d, gcd)
		}
	} else {
		d.SetInt64(1)
	}
	return RationalValue{Val: new(big.Rat).SetFrac(n, d)}, nil
}

// RationalFromRat copies r; big.Rat is already normalized.
func RationalFromRat(r *big.Rat) RationalValue {
	return RationalValue{Val: new(big.Rat).Set(r)}
}

func RationalFromInt(n int64) RationalValue {
	return RationalValue{Val: new(big.Rat).SetInt64(n)}
}

// ParseDecimalLiteral converts decimal source text such as "0.1" or "-2.50"
// into an exact rational.
func ParseDecimalLiteral(text string) (RationalValue, error) {
	trimmed := strings.TrimSpace(text)
	intPart, fracPart, _ := strings.Cut(trimmed, ".")
	if len(fracPart) > MaxDecimalDigits {
		return RationalValue{}, Errorf(ParseError, "decimal literal %q exceeds %d fractional digits", text, MaxDecimalDigits)
	}
	r, ok := new(big.Rat).SetString(trimmed)
	if !ok || intPart == "" && fracPart == "" {
		return RationalValue{}, Errorf(ParseError, "invalid decimal literal %q", text)
	}
	return RationalValue{Val: r}, nil
}

// MaxDecimalDigits is the longest fractional part a decimal literal may carry.
const MaxDecimalDigits = 18

// toRat widens an exact real (Int, BigInt, Rational) to big.Rat.
func toRat(v Value) (*big.Rat, bool) {
	switch val := v.(type) {
	case IntValue:
		return new(big.Rat).SetInt64(val.Val), true
	case BigIntValue:
		return new(big.Rat).SetInt(val.Val), true
	case RationalValue:
		return val.Val, true
	default:
		return nil, false
	}
}

func toBig(v Value) (*big.Int, bool) {
	switch val := v.(type) {
	case IntValue:
		return big.NewInt(val.Val), true
	case BigIntValue:
		return val.Val, true
	default:
		return nil, false
	}
}

// normalizeBig demotes to IntValue when the result fits in int64.
func normalizeBig(n *big.Int) Value {
	if n.IsInt64() {
		return IntValue{Val: n.Int64()}
	}
	return BigIntValue{Val: n}
}

// exactFromRat returns Int when r is integral, otherwise Rational. Used where
// a symbolic value collapses to an exact one, never for rational arithmetic.
func exactFromRat(r *big.Rat) Value {
	if r.IsInt() {
		return normalizeBig(new(big.Int).Set(r.Num()))
	}
	return RationalFromRat(r)
}

func ratArithmetic(op string, a, b *big.Rat) (Value, error) {
	switch op {
	case "+":
		return RationalValue{Val: new(big.Rat).Add(a, b)}, nil
	case "-":
		return RationalValue{Val: new(big.Rat).Sub(a, b)}, nil
	case "*":
		return RationalValue{Val: new(big.Rat).Mul(a, b)}, nil
	case "/":
		if b.Sign() == 0 {
			return nil, newDivisionByZeroError()
		}
		return RationalValue{Val: new(big.Rat).Quo(a, b)}, nil
	case "%":
		if b.Sign() == 0 {
			return nil, newDivisionByZeroError()
		}
		return RationalValue{Val: ratEuclidMod(a, b)}, nil
	case "^":
		if !b.IsInt() {
			return floatArithmetic(op, ratFloat(a), ratFloat(b))
		}
		return ratPow(a, b.Num())
	}
	return nil, Errorf(TypeError, "unsupported rational operator %s", op)
}

// ratEuclidMod returns a - |b|*floor(a/|b|), which is never negative.
func ratEuclidMod(a, b *big.Rat) *big.Rat {
	absB := new(big.Rat).Abs(b)
	q := new(big.Rat).Quo(a, absB)
	floor := new(big.Int).Div(q.Num(), q.Denom())
	prod := new(big.Rat).Mul(absB, new(big.Rat).SetInt(floor))
	return new(big.Rat).Sub(a, prod)
}

func ratPow(base *big.Rat, exp *big.Int) (Value, error) {
	if err := checkPowSize(base.Num(), exp); err != nil {
		return nil, err
	}
	e := new(big.Int).Abs(exp)
	num := new(big.Int).Exp(base.Num(), e, nil)
	den := new(big.Int).Exp(base.Denom(), e, nil)
	if exp.Sign() < 0 {
		num, den = den, num
	}
	return NewRational(num, den)
}

const maxPowBits = 1 << 22

// checkPowSize rejects exponentiations whose result would not fit in memory.
func checkPowSize(base *big.Int, exp *big.Int) error {
	if !exp.IsInt64() {
		return Errorf(ArithmeticError, "exponent %s is too large", exp.String())
	}
	bits := int64(base.BitLen())
	if bits <= 1 {
		return nil
	}
	e := exp.Int64()
	if e < 0 {
		e = -e
	}
	if e > maxPowBits/bits {
		return Errorf(ArithmeticError, "result of exponentiation is too large")
	}
	return nil
}

func ratFloat(r *big.Rat) float64 {
	f, _ := r.Float64()
	return f
}

// FractionFromFloat finds the continued-fraction approximation of f within
// 1e-10, which recovers short decimal literals such as 0.1 exactly.
func FractionFromFloat(f float64) (RationalValue, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return RationalValue{}, Errorf(ArithmeticError, "cannot convert %v to rational", f)
	}
	if f == math.Trunc(f) && math.Abs(f) < 1<<62 {
		return RationalFromInt(int64(f)), nil
	}
	const precision = 1e-10
	sign := int64(1)
	x := f
	if x < 0 {
		sign = -1
		x = -x
	}
	h0, h1 := big.NewInt(0), big.NewInt(1)
	k0, k1 := big.NewInt(1), big.NewInt(0)
	rem := x
	for i := 0; i < 64; i++ {
		a := math.Floor(rem)
		ai := new(big.Int)
		new(big.Float).SetFloat64(a).Int(ai)
		h2 := new(big.Int).Add(new(big.Int).Mul(ai, h1), h0)
		k2 := new(big.Int).Add(new(big.Int).Mul(ai, k1), k0)
		h0, h1 = h1, h2
		k0, k1 = k1, k2
		approx, _ := new(big.Rat).SetFrac(h1, k1).Float64()
		if math.Abs(approx-x) < precision {
			break
		}
		frac := rem - a
		if frac == 0 {
			break
		}
		rem = 1 / frac
		if math.IsInf(rem, 0) {
			break
		}
	}
	return NewRational(new(big.Int).Mul(big.NewInt(sign), h1), k1)
}
