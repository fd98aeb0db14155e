package interpreter

import (
	"fortio.org/log"

	"rumina/interpreter-go/pkg/ast"
	"rumina/interpreter-go/pkg/runtime"
)

const moduleFrameName = "<module>"

// enterRootFrame makes sure the call stack is rooted at the module frame and
// returns the matching cleanup. Nested entries are no-ops.
func (i *Interpreter) enterRootFrame() func() {
	if len(i.callStack) > 0 {
		return func() {}
	}
	i.callStack = append(i.callStack, runtime.TraceFrame{Name: moduleFrameName})
	return func() { i.callStack = i.callStack[:0] }
}

// pushFrame records a script call. Depth counts every frame above the module.
func (i *Interpreter) pushFrame(name string, node ast.Node) error {
	if depth := len(i.callStack) - 1; i.maxDepth > 0 && depth >= i.maxDepth {
		err := runtime.Errorf(runtime.StackOverflow, "maximum call depth %d exceeded calling '%s'", i.maxDepth, name)
		return i.attachTrace(err)
	}
	i.callStack = append(i.callStack, runtime.TraceFrame{Name: name, Span: spanOf(node)})
	if log.LogVerbose() {
		log.LogVf("call %s depth=%d", name, len(i.callStack)-1)
	}
	return nil
}

func (i *Interpreter) popFrame() {
	if len(i.callStack) > 1 {
		i.callStack = i.callStack[:len(i.callStack)-1]
	}
}

// truncateFrames drops frames above depth, used when an error unwinds.
func (i *Interpreter) truncateFrames(depth int) {
	if depth >= 0 && depth < len(i.callStack) {
		i.callStack = i.callStack[:depth]
	}
}

func (i *Interpreter) snapshotCallStack() []runtime.TraceFrame {
	out := make([]runtime.TraceFrame, len(i.callStack))
	copy(out, i.callStack)
	return out
}

// attachTrace classifies err and attaches the current call stack unless a
// deeper frame already did. Control signals pass through untouched.
func (i *Interpreter) attachTrace(err error) error {
	if err == nil || isControlSignal(err) {
		return err
	}
	rerr, ok := runtime.AsError(err)
	if !ok {
		err = runtime.WrapError(runtime.TypeError, err)
		rerr, _ = runtime.AsError(err)
	}
	if !rerr.HasTrace() {
		rerr.Trace = i.snapshotCallStack()
	}
	return err
}

// classifyNativeError gives native failures without a kind the TypeError kind.
func classifyNativeError(name string, err error) error {
	if err == nil || isControlSignal(err) {
		return err
	}
	if _, ok := runtime.KindOf(err); ok {
		return err
	}
	log.LogVf("native %s failed: %v", name, err)
	return runtime.WrapError(runtime.TypeError, err)
}

func spanOf(node ast.Node) ast.Span {
	if node == nil {
		return ast.Span{}
	}
	return node.Span()
}
