package evaluator

import (
	"fmt"
	"io"
	"log/slog"
	"lox/internal/ast"
	"lox/internal/foreign"
	"lox/internal/object"
)

// DefaultMaxDepth bounds nested user function calls.
const DefaultMaxDepth = 10000

type Option func(*Evaluator)

// WithMaxDepth sets how many user function calls may be active at once
// before a stack overflow error is raised.
func WithMaxDepth(depth int) Option {
	return func(e *Evaluator) {
		if depth > 0 {
			e.maxDepth = depth
		}
	}
}

// WithNatives installs extra host functions in the global scope.
func WithNatives(natives map[string]*object.Native) Option {
	return func(e *Evaluator) {
		for name, fn := range natives {
			e.globals.Define(name, fn)
		}
	}
}

type Evaluator struct {
	out      io.Writer
	globals  *object.Environment
	envStack []*object.Environment // top of the stack is the current scope

	depth    int
	maxDepth int
}

// New creates an evaluator whose global scope already holds clock().
// print statements write to out.
func New(out io.Writer, opts ...Option) *Evaluator {
	e := &Evaluator{
		out:      out,
		globals:  object.NewEnvironment(),
		maxDepth: DefaultMaxDepth,
	}
	e.globals.Define("clock", foreign.Clock())
	e.envStack = []*object.Environment{e.globals}

	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Evaluator) Globals() *object.Environment {
	return e.globals
}

func (e *Evaluator) PushEnv(env *object.Environment) {
	e.envStack = append(e.envStack, env)
}

func (e *Evaluator) CurrentEnv() *object.Environment {
	if len(e.envStack) == 0 {
		panic("Environment stack is empty in the current frame")
	}
	return e.envStack[len(e.envStack)-1]
}

func (e *Evaluator) PopEnv() {
	if len(e.envStack) <= 1 {
		panic("Attempted to pop the global environment")
	}
	e.envStack = e.envStack[:len(e.envStack)-1]
}

// Interpret runs the statements of program in order against the global
// scope. The first runtime error stops the run. A top level return ends the
// program early without error.
func (e *Evaluator) Interpret(program *ast.Program) error {
	for _, stmt := range program.Statements {
		c, err := e.Execute(stmt)
		if err != nil {
			return err
		}
		if c.Kind == Return {
			slog.Debug("top level return ends program")
			return nil
		}
	}
	return nil
}

// Execute runs a single statement in the current scope.
func (e *Evaluator) Execute(stmt ast.Statement) (Completion, error) {
	switch node := stmt.(type) {

	case *ast.ExpressionStatement:
		_, err := e.Eval(node.Expression)
		return normal, err

	case *ast.PrintStatement:
		val, err := e.Eval(node.Value)
		if err != nil {
			return normal, err
		}
		if _, err := fmt.Fprintln(e.out, val.Inspect()); err != nil {
			return normal, fmt.Errorf("print: %w", err)
		}
		return normal, nil

	case *ast.VarStatement:
		var val object.Object = object.NIL
		if node.Value != nil {
			v, err := e.Eval(node.Value)
			if err != nil {
				return normal, err
			}
			val = v
		}
		e.CurrentEnv().Define(node.Name.Value, val)
		return normal, nil

	case *ast.BlockStatement:
		return e.executeBlock(node.Statements, object.NewEnclosedEnvironment(e.CurrentEnv()))

	case *ast.IfStatement:
		cond, err := e.evalCondition(node.Condition, "if")
		if err != nil {
			return normal, err
		}
		if cond {
			return e.Execute(node.Consequence)
		}
		if node.Alternative != nil {
			return e.Execute(node.Alternative)
		}
		return normal, nil

	case *ast.WhileStatement:
		for {
			cond, err := e.evalCondition(node.Condition, "while")
			if err != nil {
				return normal, err
			}
			if !cond {
				return normal, nil
			}
			c, err := e.Execute(node.Body)
			if err != nil || c.Kind == Return {
				return c, err
			}
		}

	case *ast.FunctionStatement:
		// the current scope is both the captured scope and the one the name is bound in,
		// so the function can see itself when it recurses
		env := e.CurrentEnv()
		env.Define(node.Name.Value, &object.Function{Declaration: node, Env: env})
		return normal, nil

	case *ast.ReturnStatement:
		var val object.Object = object.NIL
		if node.ReturnValue != nil {
			v, err := e.Eval(node.ReturnValue)
			if err != nil {
				return normal, err
			}
			val = v
		}
		return Completion{Kind: Return, Value: val}, nil

	default:
		return normal, fmt.Errorf("unknown statement type %T", stmt)
	}
}

// executeBlock runs stmts with env as the current scope. The scope is popped
// on every exit path, including errors.
func (e *Evaluator) executeBlock(stmts []ast.Statement, env *object.Environment) (Completion, error) {
	e.PushEnv(env)
	defer e.PopEnv()

	for _, stmt := range stmts {
		c, err := e.Execute(stmt)
		if err != nil || c.Kind == Return {
			return c, err
		}
	}
	return normal, nil
}

func (e *Evaluator) evalCondition(expr ast.Expression, construct string) (bool, error) {
	val, err := e.Eval(expr)
	if err != nil {
		return false, err
	}
	b, ok := val.(*object.Boolean)
	if !ok {
		return false, object.NewRuntimeError(object.ErrTypeMismatch, expr.Pos(),
			"%s condition must be a boolean, got %s", construct, object.TypeName(val))
	}
	return b.Value, nil
}

func nativeBoolToBooleanObject(input bool) *object.Boolean {
	if input {
		return object.TRUE
	}
	return object.FALSE
}
