package interpreter

import (
	"fmt"
	"strings"

	"rumina/interpreter-go/pkg/runtime"
)

// String helpers index by rune. Each is exposed twice: as a member of the
// string module and as a string_* global.

func (i *Interpreter) stringModule() []moduleMember {
	return []moduleMember{
		i.native("cat", stringCat),
		i.native("at", stringAt),
		i.native("find", stringFind),
		i.native("sub", stringSub),
		i.native("length", stringLength),
		i.native("char_at", stringCharAt),
		i.native("replace_by_index", stringReplaceByIndex),
	}
}

func (i *Interpreter) stringGlobals() []moduleMember {
	return []moduleMember{
		i.native("string_concat", stringCat),
		i.native("string_char_at", stringCharAt),
		i.native("string_length", stringLength),
		i.native("string_find", stringFind),
		i.native("string_sub_string", stringSub),
		i.native("string_replace_by_index", stringReplaceByIndex),
	}
}

func stringCat(ctx *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
	var sb strings.Builder
	for _, arg := range args {
		if s, ok := arg.(runtime.StringValue); ok {
			sb.WriteString(s.Val)
			continue
		}
		sb.WriteString(runtime.Display(ctx.Heap, arg))
	}
	return runtime.String(sb.String()), nil
}

func stringLength(ctx *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
	if err := expectArgs(ctx.Name, args, 1); err != nil {
		return nil, err
	}
	s, err := argString(ctx.Name, args[0])
	if err != nil {
		return nil, err
	}
	return runtime.Int(int64(runeCount(s))), nil
}

// runeIndex resolves idx against a string of n runes; negative indices count
// from the end.
func runeIndex(name string, idx int64, n int) (int, error) {
	if idx < 0 {
		idx += int64(n)
	}
	if idx < 0 || idx >= int64(n) {
		return 0, fmt.Errorf("%s index %d out of range for length %d", name, idx, n)
	}
	return int(idx), nil
}

func stringAt(ctx *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
	runes, idx, err := stringAndIndex(ctx, args)
	if err != nil {
		return nil, err
	}
	return runtime.String(string(runes[idx])), nil
}

func stringCharAt(ctx *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
	runes, idx, err := stringAndIndex(ctx, args)
	if err != nil {
		return nil, err
	}
	return runtime.Int(int64(runes[idx])), nil
}

func stringAndIndex(ctx *runtime.NativeCallContext, args []runtime.Value) ([]rune, int, error) {
	if err := expectArgs(ctx.Name, args, 2); err != nil {
		return nil, 0, err
	}
	s, err := argString(ctx.Name, args[0])
	if err != nil {
		return nil, 0, err
	}
	n, err := argInt(ctx.Name, args[1])
	if err != nil {
		return nil, 0, err
	}
	runes := []rune(s)
	idx, err := runeIndex(ctx.Name, n, len(runes))
	if err != nil {
		return nil, 0, err
	}
	return runes, idx, nil
}

// stringFind is find(s, start, needle): the rune index of the first match at
// or after start, or -1.
func stringFind(ctx *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
	if err := expectArgs(ctx.Name, args, 3); err != nil {
		return nil, err
	}
	s, err := argString(ctx.Name, args[0])
	if err != nil {
		return nil, err
	}
	start, err := argInt(ctx.Name, args[1])
	if err != nil {
		return nil, err
	}
	needle, err := argString(ctx.Name, args[2])
	if err != nil {
		return nil, err
	}
	runes := []rune(s)
	if start < 0 {
		start = 0
	}
	if start > int64(len(runes)) {
		return runtime.Int(-1), nil
	}
	pos := strings.Index(string(runes[start:]), needle)
	if pos < 0 {
		return runtime.Int(-1), nil
	}
	return runtime.Int(start + int64(runeCount(string(runes[start:])[:pos]))), nil
}

// stringSub is sub(s, start, length) with both bounds clamped.
func stringSub(ctx *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
	if err := expectArgs(ctx.Name, args, 3); err != nil {
		return nil, err
	}
	s, err := argString(ctx.Name, args[0])
	if err != nil {
		return nil, err
	}
	start, err := argInt(ctx.Name, args[1])
	if err != nil {
		return nil, err
	}
	length, err := argInt(ctx.Name, args[2])
	if err != nil {
		return nil, err
	}
	runes := []rune(s)
	from := clamp(start, 0, int64(len(runes)))
	to := clamp(from+max(length, 0), from, int64(len(runes)))
	return runtime.String(string(runes[from:to])), nil
}

// stringReplaceByIndex overwrites s from start with repl. The result keeps
// the original length; repl is truncated at the end of s.
func stringReplaceByIndex(ctx *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
	if err := expectArgs(ctx.Name, args, 3); err != nil {
		return nil, err
	}
	s, err := argString(ctx.Name, args[0])
	if err != nil {
		return nil, err
	}
	start, err := argInt(ctx.Name, args[1])
	if err != nil {
		return nil, err
	}
	repl, err := argString(ctx.Name, args[2])
	if err != nil {
		return nil, err
	}
	runes := []rune(s)
	pos := clamp(start, 0, int64(len(runes)))
	for _, r := range repl {
		if pos >= int64(len(runes)) {
			break
		}
		runes[pos] = r
		pos++
	}
	return runtime.String(string(runes)), nil
}

func clamp(v, lo, hi int64) int64 {
	return min(max(v, lo), hi)
}
