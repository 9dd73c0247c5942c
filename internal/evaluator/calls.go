package evaluator

import (
	"errors"
	"log/slog"
	"lox/internal/ast"
	"lox/internal/object"
)

// applyFunction dispatches on the kind of callable. Arity is checked before
// anything runs.
func (e *Evaluator) applyFunction(node *ast.CallExpression, callee object.Object, args []object.Object) (object.Object, error) {
	switch fn := callee.(type) {

	case *object.Native:
		if err := checkArity(node, fn, args); err != nil {
			return nil, err
		}
		result, err := fn.Fn(args...)
		if err != nil {
			var rtErr *object.RuntimeError
			if errors.As(err, &rtErr) {
				return nil, rtErr
			}
			return nil, object.NewRuntimeError(object.ErrNativeFailure, node.Pos(),
				"%s: %v", fn.Name(), err)
		}
		if result == nil {
			return object.NIL, nil
		}
		return result, nil

	case *object.Function:
		if err := checkArity(node, fn, args); err != nil {
			return nil, err
		}
		if e.depth >= e.maxDepth {
			return nil, object.NewRuntimeError(object.ErrStackOverflow, node.Pos(),
				"stack overflow: more than %d nested calls", e.maxDepth)
		}
		e.depth++
		defer func() { e.depth-- }()

		slog.Debug("calling function",
			slog.String("name", fn.Name()),
			slog.Int("args", len(args)),
			slog.Int("depth", e.depth))

		env := object.NewEnclosedEnvironment(fn.Env)
		for i, param := range fn.Declaration.Parameters {
			env.Define(param.Value, args[i])
		}

		c, err := e.executeBlock(fn.Declaration.Body.Statements, env)
		if err != nil {
			var rtErr *object.RuntimeError
			if errors.As(err, &rtErr) {
				rtErr.AddFrame(fn.Name(), node.Pos())
			}
			return nil, err
		}
		if c.Kind == Return && c.Value != nil {
			return c.Value, nil
		}
		return object.NIL, nil

	default:
		return nil, object.NewRuntimeError(object.ErrNotCallable, node.Pos(),
			"can only call functions, got %s", object.TypeName(callee))
	}
}

func checkArity(node *ast.CallExpression, fn object.Callable, args []object.Object) error {
	if len(args) != fn.Arity() {
		return object.NewRuntimeError(object.ErrArityMismatch, node.Pos(),
			"%s expected %d arguments but got %d", fn.Name(), fn.Arity(), len(args))
	}
	return nil
}
