package object

import (
	"fmt"
	"lox/internal/ast"
	"math"
	"strconv"
)

const (
	NIL_OBJ      = "NIL"
	BOOLEAN_OBJ  = "BOOLEAN"
	NUMBER_OBJ   = "NUMBER"
	STRING_OBJ   = "STRING"
	FUNCTION_OBJ = "FUNCTION"
	NATIVE_OBJ   = "NATIVE"
)

var (
	NIL   = &Nil{}
	TRUE  = &Boolean{Value: true}
	FALSE = &Boolean{Value: false}
)

type ObjectType string

type Object interface {
	Type() ObjectType
	Inspect() string
}

// Callable is implemented by *Native and *Function. The evaluator still
// switches on the concrete type to decide how a call is carried out.
type Callable interface {
	Object
	Name() string
	Arity() int
}

type Number struct {
	Value float64
}

func (n *Number) Type() ObjectType { return NUMBER_OBJ }
func (n *Number) Inspect() string  { return FormatNumber(n.Value) }

// FormatNumber renders the shortest decimal that round-trips, without an
// exponent: 55, 0.5, 1000000.
func FormatNumber(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case math.IsNaN(f):
		return "NaN"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

type Boolean struct {
	Value bool
}

func (b *Boolean) Type() ObjectType { return BOOLEAN_OBJ }
func (b *Boolean) Inspect() string  { return fmt.Sprintf("%t", b.Value) }

type String struct {
	Value string
}

func (s *String) Type() ObjectType { return STRING_OBJ }
func (s *String) Inspect() string  { return strconv.Quote(s.Value) }

type Nil struct{}

func (n *Nil) Type() ObjectType { return NIL_OBJ }
func (n *Nil) Inspect() string  { return "nil" }

type NativeFunction func(args ...Object) (Object, error)

// Native is a callable implemented in Go.
type Native struct {
	FnName     string
	ParamCount int
	Fn         NativeFunction
}

func (n *Native) Type() ObjectType { return NATIVE_OBJ }
func (n *Native) Inspect() string  { return "<native fn " + n.FnName + ">" }
func (n *Native) Name() string     { return n.FnName }
func (n *Native) Arity() int       { return n.ParamCount }

// Function is a user-defined function. Env is the scope the declaration was
// evaluated in; it is shared, not copied, so the function sees later changes.
type Function struct {
	Declaration *ast.FunctionStatement
	Env         *Environment
}

func (f *Function) Type() ObjectType { return FUNCTION_OBJ }
func (f *Function) Inspect() string  { return "<fn " + f.Name() + ">" }
func (f *Function) Name() string     { return f.Declaration.Name.Value }
func (f *Function) Arity() int       { return len(f.Declaration.Parameters) }

// TypeName is the user facing name of a value's type, used in error messages.
func TypeName(obj Object) string {
	switch obj.(type) {
	case *Number:
		return "number"
	case *String:
		return "string"
	case *Boolean:
		return "boolean"
	case *Nil:
		return "nil"
	case *Function, *Native:
		return "function"
	default:
		return string(obj.Type())
	}
}
