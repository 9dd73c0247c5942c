package ast

import "fmt"

// A Visitor's Visit method is invoked for each node encountered by Walk.
// If the result visitor w is not nil, Walk visits each of the children
// of node with the visitor w, followed by a call of w.Visit(nil).
type Visitor interface {
	Visit(node Node) (w Visitor)
}

// Walk traverses an AST in depth-first order.
func Walk(v Visitor, node Node) {
	if v = v.Visit(node); v == nil {
		return
	}

	switch n := node.(type) {
	case *Program:
		for _, s := range n.Statements {
			Walk(v, s)
		}

	case *VarStatement:
		Walk(v, n.Name)
		if n.Value != nil {
			Walk(v, n.Value)
		}

	case *PrintStatement:
		Walk(v, n.Value)

	case *ReturnStatement:
		if n.ReturnValue != nil {
			Walk(v, n.ReturnValue)
		}

	case *ExpressionStatement:
		Walk(v, n.Expression)

	case *BlockStatement:
		for _, s := range n.Statements {
			Walk(v, s)
		}

	case *IfStatement:
		Walk(v, n.Condition)
		Walk(v, n.Consequence)
		if n.Alternative != nil {
			Walk(v, n.Alternative)
		}

	case *WhileStatement:
		Walk(v, n.Condition)
		Walk(v, n.Body)

	case *FunctionStatement:
		Walk(v, n.Name)
		for _, p := range n.Parameters {
			Walk(v, p)
		}
		Walk(v, n.Body)

	case *Identifier, *NumberLiteral, *StringLiteral, *Boolean, *Nil:
		// leaves

	case *PrefixExpression:
		Walk(v, n.Right)

	case *InfixExpression:
		Walk(v, n.Left)
		Walk(v, n.Right)

	case *LogicalExpression:
		Walk(v, n.Left)
		Walk(v, n.Right)

	case *GroupedExpression:
		Walk(v, n.Expression)

	case *AssignExpression:
		Walk(v, n.Name)
		Walk(v, n.Value)

	case *CallExpression:
		Walk(v, n.Function)
		for _, a := range n.Arguments {
			Walk(v, a)
		}

	default:
		panic(fmt.Sprintf("ast.Walk: unexpected node type %T", n))
	}

	v.Visit(nil)
}

type inspector func(Node) bool

func (f inspector) Visit(node Node) Visitor {
	if f(node) {
		return f
	}
	return nil
}

// Inspect traverses an AST in depth-first order, calling f for each node.
// If f returns true, Inspect descends into the node's children.
func Inspect(node Node, f func(Node) bool) {
	Walk(inspector(f), node)
}
