package interpreter

import (
	"fmt"
	"strings"

	"rumina/interpreter-go/pkg/ast"
	"rumina/interpreter-go/pkg/runtime"
)

// callValue invokes any callable with the interpreter's active strategy.
func (i *Interpreter) callValue(callee runtime.Value, args []runtime.Value, node ast.Node) (runtime.Value, error) {
	switch fn := callee.(type) {
	case runtime.NativeFunctionValue:
		return i.callNative(fn, args)
	case runtime.FunctionValue:
		closure, err := i.heap.Closure(fn)
		if err != nil {
			return nil, err
		}
		if i.execMode == ExecModeBytecode {
			return newBytecodeVM(i, nil).runClosure(closure, args, node)
		}
		return i.invokeClosure(closure, args, node)
	}
	return nil, runtime.Errorf(runtime.TypeError, "%s is not callable", runtime.TypeName(callee))
}

func (i *Interpreter) callNative(fn runtime.NativeFunctionValue, args []runtime.Value) (runtime.Value, error) {
	native, err := i.heap.Native(fn)
	if err != nil {
		return nil, err
	}
	ctx := &runtime.NativeCallContext{
		Heap:      i.heap,
		Resources: i.resources,
		Caller:    i,
		Name:      native.Name,
	}
	result, err := native.Fn(ctx, args)
	if err != nil {
		return nil, classifyNativeError(native.Name, err)
	}
	if result == nil {
		return runtime.Null, nil
	}
	return result, nil
}

// invokeClosure runs a user function with the tree walker.
func (i *Interpreter) invokeClosure(c *runtime.Closure, args []runtime.Value, node ast.Node) (runtime.Value, error) {
	callEnv, err := bindArguments(c, args)
	if err != nil {
		return nil, err
	}
	key, cached, hit := i.memoLookup(c, args)
	if hit {
		return cached, nil
	}
	if err := i.pushFrame(closureName(c), node); err != nil {
		return nil, err
	}
	result, err := i.evaluateStatements(c.Body.Body, callEnv)
	if err != nil {
		ret, ok := err.(returnSignal)
		if !ok {
			err = i.attachTrace(err)
			i.popFrame()
			return nil, err
		}
		result = ret.value
	}
	i.popFrame()
	i.memoStore(c, key, result)
	return result, nil
}

// withReceiver prepends obj when callee is a method native read from a struct.
// Modules never pass themselves and user functions never receive a receiver.
func (i *Interpreter) withReceiver(obj, callee runtime.Value, args []runtime.Value) []runtime.Value {
	if _, ok := obj.(runtime.StructValue); !ok {
		return args
	}
	fn, ok := callee.(runtime.NativeFunctionValue)
	if !ok {
		return args
	}
	native, err := i.heap.Native(fn)
	if err != nil || !native.Method {
		return args
	}
	out := make([]runtime.Value, 0, len(args)+1)
	out = append(out, obj)
	return append(out, args...)
}

// memoLookup returns the cache key for a @memoize function and the cached
// result when present.
func (i *Interpreter) memoLookup(c *runtime.Closure, args []runtime.Value) (string, runtime.Value, bool) {
	if !c.Memoize {
		return "", nil, false
	}
	parts := make([]string, len(args))
	for idx, arg := range args {
		parts[idx] = i.memoKeyPart(arg)
	}
	key := strings.Join(parts, "\x1f")
	if cached, ok := c.Memo[key]; ok {
		return key, cached, true
	}
	return key, nil, false
}

// memoKeyPart identifies one argument. Heap values key by handle, matching
// their identity equality; scalars key by type and display.
func (i *Interpreter) memoKeyPart(arg runtime.Value) string {
	var h runtime.Handle
	switch v := arg.(type) {
	case runtime.ArrayValue:
		h = v.Handle
	case runtime.StructValue:
		h = v.Handle
	case runtime.ModuleValue:
		h = v.Handle
	case runtime.FunctionValue:
		h = v.Handle
	case runtime.NativeFunctionValue:
		h = v.Handle
	default:
		return runtime.TypeName(arg) + ":" + runtime.Display(i.heap, arg)
	}
	return fmt.Sprintf("%s#%d.%d", runtime.TypeName(arg), h.Index, h.Gen)
}

func (i *Interpreter) memoStore(c *runtime.Closure, key string, result runtime.Value) {
	if !c.Memoize {
		return
	}
	if c.Memo == nil {
		c.Memo = make(map[string]runtime.Value)
	}
	c.Memo[key] = result
}
