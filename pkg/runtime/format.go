package runtime

import (
	"math"
	"math/big"
	"strconv"
	"strings"
)

// FormatFloat renders a float the way scripts see it (%.15g).
func FormatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	return strconv.FormatFloat(f, 'g', 15, 64)
}

func formatRat(r *big.Rat) string {
	if r.IsInt() {
		return r.Num().String()
	}
	return r.Num().String() + "/" + r.Denom().String()
}

func (v IrrationalValue) String() string {
	var symbol string
	switch v.Type {
	case IrrationalPi:
		symbol = "π"
	case IrrationalE:
		symbol = "e"
	default:
		symbol = "√" + v.Radicand.String()
	}
	switch {
	case v.Coef.IsInt() && v.Coef.Num().IsInt64() && v.Coef.Num().Int64() == 1:
		return symbol
	case v.Coef.IsInt() && v.Coef.Num().IsInt64() && v.Coef.Num().Int64() == -1:
		return "-" + symbol
	case v.Coef.IsInt():
		return v.Coef.Num().String() + symbol
	default:
		return "(" + formatRat(v.Coef) + ")" + symbol
	}
}

func formatComplex(c ComplexValue) string {
	re := FormatScalar(c.Re)
	imNeg := false
	if cmp, ok, err := CompareNumbers(c.Im, IntValue{Val: 0}); err == nil && ok && cmp < 0 {
		imNeg = true
	}
	imAbs := c.Im
	if imNeg {
		if negated, err := Negate(c.Im); err == nil {
			imAbs = negated
		}
	}
	im := FormatScalar(imAbs)
	if NumbersEqual(imAbs, IntValue{Val: 1}) && IsExact(imAbs) {
		im = ""
	} else if _, isIrr := imAbs.(IrrationalValue); isIrr || strings.Contains(im, "/") {
		im = "(" + im + ")"
	}
	if IsExact(c.Re) && IsZero(c.Re) {
		if imNeg {
			return "-" + im + "i"
		}
		return im + "i"
	}
	if imNeg {
		return re + "-" + im + "i"
	}
	return re + "+" + im + "i"
}

// FormatScalar renders values that do not live on the heap.
func FormatScalar(v Value) string {
	switch val := v.(type) {
	case nil, NullValue:
		return "null"
	case BoolValue:
		if val.Val {
			return "true"
		}
		return "false"
	case StringValue:
		return val.Val
	case IntValue:
		return strconv.FormatInt(val.Val, 10)
	case BigIntValue:
		return val.Val.String()
	case FloatValue:
		return FormatFloat(val.Val)
	case RationalValue:
		return formatRat(val.Val)
	case IrrationalValue:
		return val.String()
	case ComplexValue:
		return formatComplex(val)
	}
	return "<" + TypeName(v) + ">"
}

// Display renders any value for print and tostring. Aggregates nested inside
// themselves render as [...] or {...}.
func Display(heap *Heap, v Value) string {
	var b strings.Builder
	writeDisplay(&b, heap, v, make(map[Handle]bool), false)
	return b.String()
}

func writeDisplay(b *strings.Builder, heap *Heap, v Value, active map[Handle]bool, nested bool) {
	switch val := v.(type) {
	case StringValue:
		if nested {
			b.WriteString(strconv.Quote(val.Val))
			return
		}
		b.WriteString(val.Val)
	case ArrayValue:
		if active[val.Handle] {
			b.WriteString("[...]")
			return
		}
		arr, err := heap.Array(val)
		if err != nil {
			b.WriteString("<invalid array>")
			return
		}
		active[val.Handle] = true
		b.WriteByte('[')
		for idx, elem := range arr.Elements {
			if idx > 0 {
				b.WriteString(", ")
			}
			writeDisplay(b, heap, elem, active, true)
		}
		b.WriteByte(']')
		delete(active, val.Handle)
	case StructValue:
		if active[val.Handle] {
			b.WriteString("{...}")
			return
		}
		obj, err := heap.Fields(val)
		if err != nil {
			b.WriteString("<invalid struct>")
			return
		}
		active[val.Handle] = true
		b.WriteByte('{')
		for idx, key := range obj.keys {
			if idx > 0 {
				b.WriteString(", ")
			}
			b.WriteString(key)
			b.WriteString(" = ")
			writeDisplay(b, heap, obj.fields[key], active, true)
		}
		b.WriteByte('}')
		delete(active, val.Handle)
	case ModuleValue:
		b.WriteString("<module>")
	case NativeFunctionValue:
		fn, err := heap.Native(val)
		if err != nil {
			b.WriteString("<native function>")
			return
		}
		b.WriteString("<native function " + fn.Name + ">")
	case FunctionValue:
		fn, err := heap.Closure(val)
		if err != nil {
			b.WriteString("<function>")
			return
		}
		name := fn.Name
		if name == "" {
			name = "lambda"
		}
		b.WriteString("<function " + name + "(" + strings.Join(fn.Params, ", ") + ")>")
	default:
		b.WriteString(FormatScalar(v))
	}
}
