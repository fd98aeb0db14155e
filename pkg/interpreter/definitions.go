package interpreter

import (
	"rumina/interpreter-go/pkg/ast"
	"rumina/interpreter-go/pkg/runtime"
)

// makeFunction allocates a closure for a named definition. program is the
// lowered body when the VM created the function, nil for the tree walker.
func (i *Interpreter) makeFunction(def *ast.FunctionDefinition, env *runtime.Environment, program *bytecodeProgram) runtime.FunctionValue {
	closure := &runtime.Closure{
		Name:    def.ID.Name,
		Params:  identifierNames(def.Params),
		Body:    def.Body,
		Env:     env,
		Memoize: def.HasDecorator("memoize"),
	}
	if program != nil {
		closure.Code = program
	}
	return i.heap.NewClosure(closure)
}

func (i *Interpreter) makeLambda(lambda *ast.LambdaExpression, env *runtime.Environment, program *bytecodeProgram) runtime.FunctionValue {
	closure := &runtime.Closure{
		Params:   identifierNames(lambda.Params),
		Body:     lambda.Body,
		Env:      env,
		IsLambda: true,
	}
	if program != nil {
		closure.Code = program
	}
	return i.heap.NewClosure(closure)
}

func identifierNames(ids []*ast.Identifier) []string {
	names := make([]string, len(ids))
	for idx, id := range ids {
		names[idx] = id.Name
	}
	return names
}

func closureName(c *runtime.Closure) string {
	if c.Name == "" {
		return "lambda"
	}
	return c.Name
}

// bindArguments checks arity and creates the call scope. Parameters are
// mutable bindings.
func bindArguments(c *runtime.Closure, args []runtime.Value) (*runtime.Environment, error) {
	if len(args) != len(c.Params) {
		return nil, runtime.Errorf(runtime.TypeError, "function '%s' expects %d arguments, got %d", closureName(c), len(c.Params), len(args))
	}
	env := runtime.NewEnvironment(c.Env)
	for idx, name := range c.Params {
		env.Define(name, args[idx], true)
	}
	return env, nil
}
