package interpreter

import (
	"fmt"

	"rumina/interpreter-go/pkg/runtime"
)

func unaryNumeric(fn func(runtime.Value) (runtime.Value, error)) runtime.NativeFunc {
	return func(ctx *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
		if err := expectArgs(ctx.Name, args, 1); err != nil {
			return nil, err
		}
		if !runtime.IsNumeric(args[0]) {
			return nil, fmt.Errorf("%s expects a number, got %s", ctx.Name, runtime.TypeName(args[0]))
		}
		return fn(args[0])
	}
}

func trig(name string) runtime.NativeFunc {
	return unaryNumeric(func(v runtime.Value) (runtime.Value, error) {
		return runtime.Trig(name, v)
	})
}

func (i *Interpreter) mathBuiltins() []moduleMember {
	return []moduleMember{
		i.native("sqrt", unaryNumeric(runtime.Sqrt)),
		i.native("pi", func(ctx *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			if err := expectArgs(ctx.Name, args, 0); err != nil {
				return nil, err
			}
			return runtime.Pi(), nil
		}),
		i.native("e", func(ctx *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			if err := expectArgs(ctx.Name, args, 0); err != nil {
				return nil, err
			}
			return runtime.E(), nil
		}),
		i.native("sin", trig("sin")),
		i.native("cos", trig("cos")),
		i.native("tan", trig("tan")),
		i.native("exp", trig("exp")),
		i.native("abs", unaryNumeric(runtime.Abs)),
		i.native("log", unaryNumeric(runtime.Log10)),
		i.native("ln", unaryNumeric(runtime.Ln)),
		i.native("logBASE", func(ctx *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			if err := expectArgs(ctx.Name, args, 2); err != nil {
				return nil, err
			}
			return runtime.LogBase(args[0], args[1])
		}),
		i.native("factorial", unaryNumeric(runtime.Factorial)),
		i.native("arg", unaryNumeric(runtime.Arg)),
		i.native("conj", unaryNumeric(runtime.Conjugate)),
		i.native("re", unaryNumeric(func(v runtime.Value) (runtime.Value, error) {
			if c, ok := v.(runtime.ComplexValue); ok {
				return c.Re, nil
			}
			return v, nil
		})),
		i.native("im", unaryNumeric(func(v runtime.Value) (runtime.Value, error) {
			if c, ok := v.(runtime.ComplexValue); ok {
				return c.Im, nil
			}
			return runtime.Int(0), nil
		})),
	}
}

// physicsConstants are SI values exposed as global floats.
func physicsConstants() []moduleMember {
	constants := []struct {
		name  string
		value float64
	}{
		{"EARTH_GRAVITY", 9.80665},
		{"MOON_GRAVITY", 1.625},
		{"MARS_GRAVITY", 3.72076},
		{"WATER_DENSITY", 1000},
		{"STANDARD_PRESSURE", 101325},
		{"STANDARD_TEMPERATURE", 273.15},
		{"AIR_DENSITY", 1.225},
		{"C", 2.99792458e8},
		{"G", 6.67430e-11},
		{"H", 6.62607015e-34},
		{"KB", 1.380649e-23},
		{"EPSILON_0", 8.8541878128e-12},
		{"MU_0", 1.25663706212e-6},
		{"AVOGADRO", 6.02214076e23},
		{"R", 8.314462618},
		{"FARADAY", 9.648533212e4},
		{"AMU", 1.66053906660e-27},
		{"MOLAR_VOLUME_IDEAL", 0.024465},
		{"ROOM_PRESSURE", 1.0e5},
		{"ROOM_TEMPERATURE", 297.15},
	}
	out := make([]moduleMember, len(constants))
	for idx, c := range constants {
		out[idx] = moduleMember{name: c.name, value: runtime.Float(c.value)}
	}
	return out
}
