package interpreter

import (
	"rumina/interpreter-go/pkg/ast"
	"rumina/interpreter-go/pkg/runtime"
)

// evaluateStatements runs a statement list in env. The result is the value of
// the last statement when it is an expression, otherwise null.
func (i *Interpreter) evaluateStatements(stmts []ast.Statement, env *runtime.Environment) (runtime.Value, error) {
	var result runtime.Value = runtime.Null
	for idx, stmt := range stmts {
		val, err := i.evaluateStatement(stmt, env)
		if err != nil {
			return nil, err
		}
		if idx == len(stmts)-1 {
			if _, ok := stmt.(ast.Expression); ok {
				result = val
			}
		}
	}
	return result, nil
}

func (i *Interpreter) evaluateBlock(block *ast.BlockStatement, env *runtime.Environment) error {
	if block == nil {
		return nil
	}
	_, err := i.evaluateStatements(block.Body, runtime.NewEnvironment(env))
	return err
}

func (i *Interpreter) evaluateStatement(stmt ast.Statement, env *runtime.Environment) (runtime.Value, error) {
	switch s := stmt.(type) {
	case *ast.VariableDeclaration:
		var value runtime.Value = runtime.Null
		if s.Value != nil {
			v, err := i.evaluateExpression(s.Value, env)
			if err != nil {
				return nil, err
			}
			value = v
		}
		env.Define(s.Name.Name, value, s.Mutable)
		return runtime.Null, nil
	case *ast.FunctionDefinition:
		env.Define(s.ID.Name, i.makeFunction(s, env, nil), true)
		return runtime.Null, nil
	case *ast.ReturnStatement:
		var value runtime.Value = runtime.Null
		if s.Argument != nil {
			v, err := i.evaluateExpression(s.Argument, env)
			if err != nil {
				return nil, err
			}
			value = v
		}
		return nil, returnSignal{value: value}
	case *ast.IfStatement:
		cond, err := i.evaluateExpression(s.Condition, env)
		if err != nil {
			return nil, err
		}
		if runtime.Truthy(cond) {
			return runtime.Null, i.evaluateBlock(s.Consequent, env)
		}
		if s.Alternate != nil {
			if _, err := i.evaluateStatement(s.Alternate, env); err != nil {
				return nil, err
			}
		}
		return runtime.Null, nil
	case *ast.WhileLoop:
		return runtime.Null, i.evaluateWhileLoop(s, env)
	case *ast.ForLoop:
		return runtime.Null, i.evaluateForLoop(s, env)
	case *ast.LoopStatement:
		return runtime.Null, i.evaluateLoop(s, env)
	case *ast.BreakStatement:
		return nil, breakSignal{}
	case *ast.ContinueStatement:
		return nil, continueSignal{}
	case *ast.IncludeStatement:
		return runtime.Null, i.includeModule(s.Path, env)
	case *ast.BlockStatement:
		return runtime.Null, i.evaluateBlock(s, env)
	case ast.Expression:
		return i.evaluateExpression(s, env)
	}
	return nil, runtime.Errorf(runtime.TypeError, "unsupported statement %T", stmt)
}

// runLoopBody evaluates one iteration. It reports whether the loop should
// stop because of break.
func (i *Interpreter) runLoopBody(body *ast.BlockStatement, env *runtime.Environment) (bool, error) {
	err := i.evaluateBlock(body, env)
	switch err.(type) {
	case nil, continueSignal:
		return false, nil
	case breakSignal:
		return true, nil
	default:
		return false, err
	}
}

func (i *Interpreter) evaluateWhileLoop(loop *ast.WhileLoop, env *runtime.Environment) error {
	for {
		cond, err := i.evaluateExpression(loop.Condition, env)
		if err != nil {
			return err
		}
		if !runtime.Truthy(cond) {
			return nil
		}
		stop, err := i.runLoopBody(loop.Body, env)
		if err != nil || stop {
			return err
		}
	}
}

func (i *Interpreter) evaluateForLoop(loop *ast.ForLoop, env *runtime.Environment) error {
	scope := runtime.NewEnvironment(env)
	if loop.Init != nil {
		if _, err := i.evaluateStatement(loop.Init, scope); err != nil {
			return err
		}
	}
	for {
		if loop.Condition != nil {
			cond, err := i.evaluateExpression(loop.Condition, scope)
			if err != nil {
				return err
			}
			if !runtime.Truthy(cond) {
				return nil
			}
		}
		stop, err := i.runLoopBody(loop.Body, scope)
		if err != nil || stop {
			return err
		}
		if loop.Update != nil {
			if _, err := i.evaluateExpression(loop.Update, scope); err != nil {
				return err
			}
		}
	}
}

func (i *Interpreter) evaluateLoop(loop *ast.LoopStatement, env *runtime.Environment) error {
	for {
		stop, err := i.runLoopBody(loop.Body, env)
		if err != nil || stop {
			return err
		}
	}
}
