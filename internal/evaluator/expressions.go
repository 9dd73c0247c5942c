package evaluator

import (
	"fmt"
	"lox/internal/ast"
	"lox/internal/object"
)

// Eval evaluates an expression in the current scope.
func (e *Evaluator) Eval(node ast.Expression) (object.Object, error) {
	switch node := node.(type) {

	case *ast.NumberLiteral:
		return &object.Number{Value: node.Value}, nil

	case *ast.StringLiteral:
		return &object.String{Value: node.Value}, nil

	case *ast.Boolean:
		return nativeBoolToBooleanObject(node.Value), nil

	case *ast.Nil:
		return object.NIL, nil

	case *ast.GroupedExpression:
		return e.Eval(node.Expression)

	case *ast.Identifier:
		val, ok := e.CurrentEnv().Get(node.Value)
		if !ok {
			return nil, object.NewRuntimeError(object.ErrUndefinedVariable, node.Pos(),
				"undefined variable '%s'", node.Value)
		}
		return val, nil

	case *ast.AssignExpression:
		val, err := e.Eval(node.Value)
		if err != nil {
			return nil, err
		}
		if _, err := e.CurrentEnv().Assign(node.Name.Value, val); err != nil {
			return nil, object.NewRuntimeError(object.ErrUndefinedVariable, node.Name.Pos(),
				"undefined variable '%s'", node.Name.Value)
		}
		return val, nil

	case *ast.PrefixExpression:
		right, err := e.Eval(node.Right)
		if err != nil {
			return nil, err
		}
		return e.evalPrefixExpression(node, right)

	case *ast.InfixExpression:
		left, err := e.Eval(node.Left)
		if err != nil {
			return nil, err
		}
		right, err := e.Eval(node.Right)
		if err != nil {
			return nil, err
		}
		return e.evalInfixExpression(node, left, right)

	case *ast.LogicalExpression:
		// both sides are always evaluated
		left, err := e.Eval(node.Left)
		if err != nil {
			return nil, err
		}
		right, err := e.Eval(node.Right)
		if err != nil {
			return nil, err
		}
		return e.evalLogicalExpression(node, left, right)

	case *ast.CallExpression:
		callee, err := e.Eval(node.Function)
		if err != nil {
			return nil, err
		}
		args := make([]object.Object, 0, len(node.Arguments))
		for _, a := range node.Arguments {
			val, err := e.Eval(a)
			if err != nil {
				return nil, err
			}
			args = append(args, val)
		}
		return e.applyFunction(node, callee, args)

	default:
		return nil, fmt.Errorf("unknown expression type %T", node)
	}
}

func (e *Evaluator) evalPrefixExpression(node *ast.PrefixExpression, right object.Object) (object.Object, error) {
	switch node.Operator {
	case "!":
		b, ok := right.(*object.Boolean)
		if !ok {
			return nil, object.NewRuntimeError(object.ErrTypeMismatch, node.Pos(),
				"operand of '!' must be a boolean, got %s", object.TypeName(right))
		}
		return nativeBoolToBooleanObject(!b.Value), nil
	case "-":
		n, ok := right.(*object.Number)
		if !ok {
			return nil, object.NewRuntimeError(object.ErrTypeMismatch, node.Pos(),
				"operand of '-' must be a number, got %s", object.TypeName(right))
		}
		return &object.Number{Value: -n.Value}, nil
	default:
		return nil, object.NewRuntimeError(object.ErrTypeMismatch, node.Pos(),
			"unknown operator: %s%s", node.Operator, object.TypeName(right))
	}
}

func (e *Evaluator) evalInfixExpression(node *ast.InfixExpression, left, right object.Object) (object.Object, error) {
	switch l := left.(type) {
	case *object.Number:
		if r, ok := right.(*object.Number); ok {
			return e.evalNumberInfixExpression(node, l.Value, r.Value)
		}
	case *object.String:
		if r, ok := right.(*object.String); ok {
			return e.evalStringInfixExpression(node, l.Value, r.Value)
		}
	}

	return nil, typeMismatch(node, left, right)
}

func (e *Evaluator) evalNumberInfixExpression(node *ast.InfixExpression, l, r float64) (object.Object, error) {
	switch node.Operator {
	case "+":
		return &object.Number{Value: l + r}, nil
	case "-":
		return &object.Number{Value: l - r}, nil
	case "*":
		return &object.Number{Value: l * r}, nil
	case "/":
		return &object.Number{Value: l / r}, nil
	case "<":
		return nativeBoolToBooleanObject(l < r), nil
	case "<=":
		return nativeBoolToBooleanObject(l <= r), nil
	case ">":
		return nativeBoolToBooleanObject(l > r), nil
	case ">=":
		return nativeBoolToBooleanObject(l >= r), nil
	case "==":
		return nativeBoolToBooleanObject(l == r), nil
	case "!=":
		return nativeBoolToBooleanObject(l != r), nil
	default:
		return nil, object.NewRuntimeError(object.ErrTypeMismatch, node.Pos(),
			"unknown operator: number %s number", node.Operator)
	}
}

func (e *Evaluator) evalStringInfixExpression(node *ast.InfixExpression, l, r string) (object.Object, error) {
	switch node.Operator {
	case "+":
		return &object.String{Value: l + r}, nil
	default:
		return nil, object.NewRuntimeError(object.ErrTypeMismatch, node.Pos(),
			"operator '%s' not supported for string and string", node.Operator)
	}
}

func (e *Evaluator) evalLogicalExpression(node *ast.LogicalExpression, left, right object.Object) (object.Object, error) {
	l, lok := left.(*object.Boolean)
	r, rok := right.(*object.Boolean)
	if !lok || !rok {
		return nil, object.NewRuntimeError(object.ErrTypeMismatch, node.Pos(),
			"operands of '%s' must be booleans, got %s and %s",
			node.Operator, object.TypeName(left), object.TypeName(right))
	}

	if node.Operator == "and" {
		return nativeBoolToBooleanObject(l.Value && r.Value), nil
	}
	return nativeBoolToBooleanObject(l.Value || r.Value), nil
}

func typeMismatch(node *ast.InfixExpression, left, right object.Object) error {
	return object.NewRuntimeError(object.ErrTypeMismatch, node.Pos(),
		"operator '%s' not supported for %s and %s",
		node.Operator, object.TypeName(left), object.TypeName(right))
}
