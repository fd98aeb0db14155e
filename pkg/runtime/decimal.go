package runtime

import (
	"github.com/cockroachdb/apd"
)

// DefaultDecimalPrecision is the number of significant digits used when a
// rational is divided out before rounding.
const DefaultDecimalPrecision = 34

// MaxRoundDigits bounds the fractional digits decimal(x, digits) accepts.
const MaxRoundDigits = 15

// ToDecimal widens a real numeric value to Float. When digits is non-negative
// the result is rounded half away from zero to that many fractional digits.
func ToDecimal(v Value, digits int, precision uint32) (Value, error) {
	if !IsReal(v) {
		return nil, Errorf(TypeError, "decimal expects a real number, got %s", TypeName(v))
	}
	if digits < 0 {
		f, _ := ToFloat(v)
		return FloatValue{Val: f}, nil
	}
	if digits > MaxRoundDigits {
		return nil, Errorf(TypeError, "decimal digits must be between 0 and %d, got %d", MaxRoundDigits, digits)
	}
	if precision == 0 {
		precision = DefaultDecimalPrecision
	}
	ctx := apd.BaseContext.WithPrecision(precision)
	ctx.Rounding = apd.RoundHalfUp

	d := new(apd.Decimal)
	if r, exact := toRat(v); exact {
		num := apd.NewWithBigInt(r.Num(), 0)
		den := apd.NewWithBigInt(r.Denom(), 0)
		if _, err := ctx.Quo(d, num, den); err != nil {
			return nil, WrapError(ArithmeticError, err)
		}
	} else {
		f, _ := ToFloat(v)
		if _, err := d.SetFloat64(f); err != nil {
			return FloatValue{Val: f}, nil
		}
	}

	rounded := new(apd.Decimal)
	if _, err := ctx.Quantize(rounded, d, int32(-digits)); err != nil {
		return nil, WrapError(ArithmeticError, err)
	}
	f, err := rounded.Float64()
	if err != nil {
		return nil, WrapError(ArithmeticError, err)
	}
	return FloatValue{Val: f}, nil
}
