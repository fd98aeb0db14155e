package runtime

import (
	"math"
	"math/big"
)

type IrrationalKind int

const (
	IrrationalSqrt IrrationalKind = iota
	IrrationalPi
	IrrationalE
)

// IrrationalValue is an exact symbolic real: Coef·√Radicand, Coef·π or Coef·e.
// Radicand is square-free and greater than one; Coef is never zero.
type IrrationalValue struct {
	Type     IrrationalKind
	Coef     *big.Rat
	Radicand *big.Int
}

func (v IrrationalValue) Kind() Kind { return KindIrrational }

// Float returns the double-precision value.
func (v IrrationalValue) Float() float64 {
	coef := ratFloat(v.Coef)
	switch v.Type {
	case IrrationalPi:
		return coef * math.Pi
	case IrrationalE:
		return coef * math.E
	default:
		r, _ := new(big.Float).SetInt(v.Radicand).Float64()
		return coef * math.Sqrt(r)
	}
}

func (v IrrationalValue) scale(k *big.Rat) Value {
	if k.Sign() == 0 {
		return IntValue{Val: 0}
	}
	return IrrationalValue{Type: v.Type, Coef: new(big.Rat).Mul(v.Coef, k), Radicand: v.Radicand}
}

func (v IrrationalValue) sameBasis(other IrrationalValue) bool {
	if v.Type != other.Type {
		return false
	}
	if v.Type != IrrationalSqrt {
		return true
	}
	return v.Radicand.Cmp(other.Radicand) == 0
}

// Pi returns the exact constant π.
func Pi() IrrationalValue {
	return IrrationalValue{Type: IrrationalPi, Coef: big.NewRat(1, 1)}
}

// E returns the exact constant e.
func E() IrrationalValue {
	return IrrationalValue{Type: IrrationalE, Coef: big.NewRat(1, 1)}
}

const squareFactorSearchLimit = 1 << 20

// makeSurd builds coef·√n, pulling square factors of n into the coefficient.
// It collapses to an exact Int/Rational when n is a perfect square.
func makeSurd(coef *big.Rat, n *big.Int) Value {
	if coef.Sign() == 0 || n.Sign() == 0 {
		return IntValue{Val: 0}
	}
	outside := big.NewInt(1)
	inside := new(big.Int).Set(n)
	if root := new(big.Int).Sqrt(inside); new(big.Int).Mul(root, root).Cmp(inside) == 0 {
		outside.Set(root)
		inside.SetInt64(1)
	} else {
		i := big.NewInt(2)
		square := new(big.Int)
		rem := new(big.Int)
		quo := new(big.Int)
		for i.Int64() < squareFactorSearchLimit {
			square.Mul(i, i)
			if square.Cmp(inside) > 0 {
				break
			}
			for {
				quo.QuoRem(inside, square, rem)
				if rem.Sign() != 0 {
					break
				}
				inside.Set(quo)
				outside.Mul(outside, i)
			}
			i.Add(i, bigOne)
		}
		if root := new(big.Int).Sqrt(inside); new(big.Int).Mul(root, root).Cmp(inside) == 0 {
			outside.Mul(outside, root)
			inside.SetInt64(1)
		}
	}
	c := new(big.Rat).Mul(coef, new(big.Rat).SetInt(outside))
	if inside.Cmp(bigOne) == 0 {
		return exactFromRat(c)
	}
	return IrrationalValue{Type: IrrationalSqrt, Coef: c, Radicand: inside}
}

// Sqrt implements the square-root rule: exact for perfect squares, a surd for
// other positive exact values, complex for negative reals, float otherwise.
func Sqrt(v Value) (Value, error) {
	switch val := v.(type) {
	case IntValue, BigIntValue, RationalValue:
		r, _ := toRat(val)
		if r.Sign() < 0 {
			root, err := Sqrt(RationalValue{Val: new(big.Rat).Neg(r)})
			if err != nil {
				return nil, err
			}
			return ComplexValue{Re: IntValue{Val: 0}, Im: root}, nil
		}
		// √(p/q) = √(p·q)/q
		radicand := new(big.Int).Mul(r.Num(), r.Denom())
		coef := new(big.Rat).SetFrac(big.NewInt(1), r.Denom())
		result := makeSurd(coef, radicand)
		if _, isRat := val.(RationalValue); isRat {
			if exact, ok := toRat(result); ok {
				return RationalFromRat(exact), nil
			}
		}
		return result, nil
	case FloatValue:
		if val.Val < 0 {
			return ComplexValue{Re: IntValue{Val: 0}, Im: FloatValue{Val: math.Sqrt(-val.Val)}}, nil
		}
		return FloatValue{Val: math.Sqrt(val.Val)}, nil
	case IrrationalValue:
		f := val.Float()
		if f < 0 {
			return ComplexValue{Re: IntValue{Val: 0}, Im: FloatValue{Val: math.Sqrt(-f)}}, nil
		}
		return FloatValue{Val: math.Sqrt(f)}, nil
	case ComplexValue:
		re, _ := ToFloat(val.Re)
		im, _ := ToFloat(val.Im)
		root := complexSqrt(re, im)
		return ComplexValue{Re: FloatValue{Val: real(root)}, Im: FloatValue{Val: imag(root)}}, nil
	}
	return nil, Errorf(TypeError, "sqrt expects a number, got %s", TypeName(v))
}

// irrationalArithmetic handles the closed cases of surd arithmetic. ok is
// false when the result is not exactly representable and the caller should
// widen to float.
func irrationalArithmetic(op string, left, right Value) (Value, bool, error) {
	li, lIsIrr := left.(IrrationalValue)
	ri, rIsIrr := right.(IrrationalValue)
	lr, lExact := toRat(left)
	rr, rExact := toRat(right)

	switch op {
	case "+", "-":
		if lIsIrr && rIsIrr && li.sameBasis(ri) {
			coef := new(big.Rat)
			if op == "+" {
				coef.Add(li.Coef, ri.Coef)
			} else {
				coef.Sub(li.Coef, ri.Coef)
			}
			if coef.Sign() == 0 {
				return IntValue{Val: 0}, true, nil
			}
			return IrrationalValue{Type: li.Type, Coef: coef, Radicand: li.Radicand}, true, nil
		}
	case "*":
		switch {
		case lIsIrr && rExact:
			return li.scale(rr), true, nil
		case lExact && rIsIrr:
			return ri.scale(lr), true, nil
		case lIsIrr && rIsIrr && li.Type == IrrationalSqrt && ri.Type == IrrationalSqrt:
			coef := new(big.Rat).Mul(li.Coef, ri.Coef)
			return makeSurd(coef, new(big.Int).Mul(li.Radicand, ri.Radicand)), true, nil
		}
	case "/":
		switch {
		case lIsIrr && rExact:
			if rr.Sign() == 0 {
				return nil, false, newDivisionByZeroError()
			}
			return li.scale(new(big.Rat).Inv(rr)), true, nil
		case lExact && rIsIrr && ri.Type == IrrationalSqrt:
			// x / (c·√n) = x/(c·n) · √n
			denom := new(big.Rat).Mul(ri.Coef, new(big.Rat).SetInt(ri.Radicand))
			coef := new(big.Rat).Quo(lr, denom)
			return makeSurd(coef, ri.Radicand), true, nil
		case lIsIrr && rIsIrr && li.sameBasis(ri):
			return exactFromRat(new(big.Rat).Quo(li.Coef, ri.Coef)), true, nil
		case lIsIrr && rIsIrr && li.Type == IrrationalSqrt && ri.Type == IrrationalSqrt:
			denom := new(big.Rat).Mul(ri.Coef, new(big.Rat).SetInt(ri.Radicand))
			coef := new(big.Rat).Quo(li.Coef, denom)
			return makeSurd(coef, new(big.Int).Mul(li.Radicand, ri.Radicand)), true, nil
		}
	case "^":
		if lIsIrr && li.Type == IrrationalSqrt {
			exp, isInt := right.(IntValue)
			if !isInt {
				return nil, false, nil
			}
			return surdPow(li, exp.Val)
		}
	}
	return nil, false, nil
}

// surdPow raises c·√r to an integer power exactly.
func surdPow(v IrrationalValue, n int64) (Value, bool, error) {
	if n == 0 {
		return IntValue{Val: 1}, true, nil
	}
	abs := n
	if abs < 0 {
		abs = -abs
	}
	if abs > 4096 {
		return nil, false, nil
	}
	coefPow, err := ratPow(v.Coef, big.NewInt(abs))
	if err != nil {
		return nil, false, err
	}
	coef := coefPow.(RationalValue).Val
	half := new(big.Int).Exp(v.Radicand, big.NewInt(abs/2), nil)
	coef = new(big.Rat).Mul(coef, new(big.Rat).SetInt(half))
	var result Value
	if abs%2 == 0 {
		result = exactFromRat(coef)
	} else {
		result = IrrationalValue{Type: IrrationalSqrt, Coef: coef, Radicand: v.Radicand}
	}
	if n < 0 {
		inverted, err := Arithmetic("/", IntValue{Val: 1}, result)
		if err != nil {
			return nil, false, err
		}
		return inverted, true, nil
	}
	return result, true, nil
}
