package interpreter

import (
	"fmt"
	"time"

	"rumina/interpreter-go/pkg/runtime"
)

const timerIDField = "__timer_id"

// timeBuiltins builds the time module. Timers are structs carrying the id of
// a handle in the resource manager plus method natives.
func (i *Interpreter) timeBuiltins() []moduleMember {
	elapsedMs := func(ctx *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
		id, err := timerID(ctx, args)
		if err != nil {
			return nil, err
		}
		ms, err := ctx.Resources.Elapsed(id)
		if err != nil {
			return nil, err
		}
		return runtime.Float(ms), nil
	}
	methods := []moduleMember{
		i.method("elapsedMs", elapsedMs),
		i.method("elapsed", elapsedMs),
		i.method("elapsedSec", func(ctx *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			id, err := timerID(ctx, args)
			if err != nil {
				return nil, err
			}
			ms, err := ctx.Resources.Elapsed(id)
			if err != nil {
				return nil, err
			}
			return runtime.Float(ms / 1000), nil
		}),
		i.method("stop", func(ctx *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			id, err := timerID(ctx, args)
			if err != nil {
				return nil, err
			}
			ms, err := ctx.Resources.StopTimer(id)
			if err != nil {
				return nil, err
			}
			return runtime.Float(ms), nil
		}),
	}
	startTimer := func(ctx *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
		if err := expectArgs(ctx.Name, args, 0); err != nil {
			return nil, err
		}
		timer := ctx.Resources.StartTimer()
		inst := ctx.Heap.NewStruct()
		fields, err := ctx.Heap.Fields(inst)
		if err != nil {
			return nil, err
		}
		fields.Set(timerIDField, runtime.Int(timer.ID))
		for _, m := range methods {
			fields.Set(m.name, m.value)
		}
		return inst, nil
	}
	return []moduleMember{
		i.native("now", func(ctx *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			if err := expectArgs(ctx.Name, args, 0); err != nil {
				return nil, err
			}
			return runtime.Int(ctx.Resources.Now().UnixMilli()), nil
		}),
		i.native("hrtimeMs", func(ctx *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			if err := expectArgs(ctx.Name, args, 0); err != nil {
				return nil, err
			}
			return runtime.Float(float64(ctx.Resources.Now().UnixNano()) / 1e6), nil
		}),
		i.native("sleep", func(ctx *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			if err := expectArgs(ctx.Name, args, 1); err != nil {
				return nil, err
			}
			ms, err := argFloat(ctx.Name, args[0])
			if err != nil {
				return nil, err
			}
			if ms > 0 {
				time.Sleep(time.Duration(ms * float64(time.Millisecond)))
			}
			return runtime.Null, nil
		}),
		i.native("startTimer", startTimer),
		i.native("timer", startTimer),
	}
}

// timerID reads the handle id from the receiver a timer method was called on.
func timerID(ctx *runtime.NativeCallContext, args []runtime.Value) (int64, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("%s must be called on a timer", ctx.Name)
	}
	fields, err := structArg(ctx, args[0])
	if err != nil {
		return 0, err
	}
	raw, ok := fields.Get(timerIDField)
	if !ok {
		return 0, fmt.Errorf("%s must be called on a timer", ctx.Name)
	}
	id, ok := raw.(runtime.IntValue)
	if !ok {
		return 0, runtime.Errorf(runtime.InvalidHandle, "timer id is %s, not an int", runtime.TypeName(raw))
	}
	return id.Val, nil
}
