package interpreter

import (
	"fmt"
	"math/rand"

	"rumina/interpreter-go/pkg/runtime"
)

// randomBuiltins builds the random module. All members draw from the
// interpreter's source, so a fixed Options.RandomSeed replays the sequence.
func (i *Interpreter) randomBuiltins() []moduleMember {
	unit := func(ctx *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
		if err := expectArgs(ctx.Name, args, 0); err != nil {
			return nil, err
		}
		return runtime.Float(i.rng.Float64()), nil
	}
	return []moduleMember{
		i.native("rand", unit),
		i.native("randint", i.builtinRandint),
		i.native("random", unit),
	}
}

// builtinRandint is randint(start, end) with both bounds inclusive.
func (i *Interpreter) builtinRandint(ctx *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
	if err := expectArgs(ctx.Name, args, 2); err != nil {
		return nil, err
	}
	lo, err := argInt(ctx.Name, args[0])
	if err != nil {
		return nil, err
	}
	hi, err := argInt(ctx.Name, args[1])
	if err != nil {
		return nil, err
	}
	if lo > hi {
		return nil, fmt.Errorf("randint start %d is greater than end %d", lo, hi)
	}
	span := uint64(hi-lo) + 1
	if span == 0 {
		return runtime.Int(int64(i.rng.Uint64())), nil
	}
	if span > 1<<63-1 {
		// the upper half of the range needs a full 64-bit draw
		return runtime.Int(lo + int64(i.rng.Uint64()%span)), nil
	}
	return runtime.Int(lo + i.rng.Int63n(int64(span))), nil
}

func newRandSource(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}
