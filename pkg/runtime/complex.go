package runtime

import (
	"math"
	"math/cmplx"
)

// NewComplex builds re + im·i, keeping a complex value even when im is zero.
func NewComplex(re, im Value) (ComplexValue, error) {
	if !IsReal(re) || !IsReal(im) {
		return ComplexValue{}, Errorf(TypeError, "complex components must be real numbers, got %s and %s", TypeName(re), TypeName(im))
	}
	return ComplexValue{Re: re, Im: im}, nil
}

// ImaginaryUnit is the value bound to the global `i`.
func ImaginaryUnit() ComplexValue {
	return ComplexValue{Re: IntValue{Val: 0}, Im: IntValue{Val: 1}}
}

func toComplex(v Value) ComplexValue {
	if c, ok := v.(ComplexValue); ok {
		return c
	}
	return ComplexValue{Re: v, Im: IntValue{Val: 0}}
}

// demoteComplex collapses a result with an exact zero imaginary part to its
// real component.
func demoteComplex(c ComplexValue) Value {
	if IsExact(c.Im) && IsZero(c.Im) {
		return c.Re
	}
	return c
}

func (c ComplexValue) floats() (float64, float64) {
	re, _ := ToFloat(c.Re)
	im, _ := ToFloat(c.Im)
	return re, im
}

func complexArithmetic(op string, a, b ComplexValue) (Value, error) {
	switch op {
	case "+", "-":
		re, err := Arithmetic(op, a.Re, b.Re)
		if err != nil {
			return nil, err
		}
		im, err := Arithmetic(op, a.Im, b.Im)
		if err != nil {
			return nil, err
		}
		return demoteComplex(ComplexValue{Re: re, Im: im}), nil
	case "*":
		return complexMul(a, b)
	case "/":
		return complexDiv(a, b)
	case "^":
		if n, ok := b.Re.(IntValue); ok && IsExact(b.Im) && IsZero(b.Im) && n.Val >= -64 && n.Val <= 64 {
			return complexIntPow(a, n.Val)
		}
		ar, ai := a.floats()
		br, bi := b.floats()
		p := cmplx.Pow(complex(ar, ai), complex(br, bi))
		return demoteComplex(ComplexValue{Re: FloatValue{Val: real(p)}, Im: FloatValue{Val: imag(p)}}), nil
	case "%":
		return nil, Errorf(TypeError, "modulo is not defined for complex numbers")
	}
	return nil, Errorf(TypeError, "unsupported complex operator %s", op)
}

func complexMul(a, b ComplexValue) (Value, error) {
	ac, err := Arithmetic("*", a.Re, b.Re)
	if err != nil {
		return nil, err
	}
	bd, err := Arithmetic("*", a.Im, b.Im)
	if err != nil {
		return nil, err
	}
	ad, err := Arithmetic("*", a.Re, b.Im)
	if err != nil {
		return nil, err
	}
	bc, err := Arithmetic("*", a.Im, b.Re)
	if err != nil {
		return nil, err
	}
	re, err := Arithmetic("-", ac, bd)
	if err != nil {
		return nil, err
	}
	im, err := Arithmetic("+", ad, bc)
	if err != nil {
		return nil, err
	}
	return demoteComplex(ComplexValue{Re: re, Im: im}), nil
}

// complexDiv computes (a+bi)/(c+di) = ((ac+bd) + (bc-ad)i) / (c²+d²).
func complexDiv(a, b ComplexValue) (Value, error) {
	if IsExact(b.Re) && IsExact(b.Im) && IsZero(b.Re) && IsZero(b.Im) {
		return nil, newDivisionByZeroError()
	}
	conj, err := Negate(b.Im)
	if err != nil {
		return nil, err
	}
	num, err := complexMul(a, ComplexValue{Re: b.Re, Im: conj})
	if err != nil {
		return nil, err
	}
	cc, err := Arithmetic("*", b.Re, b.Re)
	if err != nil {
		return nil, err
	}
	dd, err := Arithmetic("*", b.Im, b.Im)
	if err != nil {
		return nil, err
	}
	den, err := Arithmetic("+", cc, dd)
	if err != nil {
		return nil, err
	}
	n := toComplex(num)
	re, err := Arithmetic("/", n.Re, den)
	if err != nil {
		return nil, err
	}
	im, err := Arithmetic("/", n.Im, den)
	if err != nil {
		return nil, err
	}
	return demoteComplex(ComplexValue{Re: re, Im: im}), nil
}

func complexIntPow(base ComplexValue, n int64) (Value, error) {
	var result Value = IntValue{Val: 1}
	abs := n
	if abs < 0 {
		abs = -abs
	}
	for k := int64(0); k < abs; k++ {
		next, err := complexMul(toComplex(result), base)
		if err != nil {
			return nil, err
		}
		result = next
	}
	if n < 0 {
		return complexDiv(toComplex(IntValue{Val: 1}), toComplex(result))
	}
	return result, nil
}

func complexSqrt(re, im float64) complex128 {
	return cmplx.Sqrt(complex(re, im))
}

// Conjugate returns re - im·i; real values are returned unchanged.
func Conjugate(v Value) (Value, error) {
	c, ok := v.(ComplexValue)
	if !ok {
		if IsReal(v) {
			return v, nil
		}
		return nil, Errorf(TypeError, "conj expects a number, got %s", TypeName(v))
	}
	im, err := Negate(c.Im)
	if err != nil {
		return nil, err
	}
	return ComplexValue{Re: c.Re, Im: im}, nil
}

// Abs returns |v|: the magnitude for complex values, otherwise the absolute
// value in the same representation.
func Abs(v Value) (Value, error) {
	switch val := v.(type) {
	case ComplexValue:
		re, im := val.floats()
		return FloatValue{Val: math.Hypot(re, im)}, nil
	case IrrationalValue:
		if val.Coef.Sign() < 0 {
			return Negate(val)
		}
		return val, nil
	}
	if !IsReal(v) {
		return nil, Errorf(TypeError, "abs expects a number, got %s", TypeName(v))
	}
	cmp, ok, err := CompareNumbers(v, IntValue{Val: 0})
	if err != nil {
		return nil, err
	}
	if ok && cmp < 0 {
		return Negate(v)
	}
	return v, nil
}

// Arg returns the phase angle of v in radians.
func Arg(v Value) (Value, error) {
	if !IsNumeric(v) {
		return nil, Errorf(TypeError, "arg expects a number, got %s", TypeName(v))
	}
	re, im := toComplex(v).floats()
	return FloatValue{Val: math.Atan2(im, re)}, nil
}
