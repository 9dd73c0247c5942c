package parser

import (
	"fmt"
	"lox/internal/ast"
	"reflect"
	"strings"
)

// RenderASTAsText produces a human-centric, indented, source-like representation of the AST.
// Desugared loops are printed in their while form.
func RenderASTAsText(node ast.Node, indent int) string {
	if node == nil || (reflect.ValueOf(node).Kind() == reflect.Ptr && reflect.ValueOf(node).IsNil()) {
		return "nil"
	}

	sp := strings.Repeat("  ", indent)

	switch n := node.(type) {
	case *ast.Program:
		var sb strings.Builder
		for i, s := range n.Statements {
			if i > 0 {
				sb.WriteString("\n")
			}
			sb.WriteString(RenderASTAsText(s, 0))
		}
		return sb.String()

	case *ast.VarStatement:
		if n.Value == nil {
			return fmt.Sprintf("%svar %s", sp, n.Name.Value)
		}
		return fmt.Sprintf("%svar %s = %s", sp, n.Name.Value, RenderASTAsText(n.Value, 0))

	case *ast.PrintStatement:
		return fmt.Sprintf("%sprint %s", sp, RenderASTAsText(n.Value, 0))

	case *ast.ReturnStatement:
		if n.ReturnValue == nil {
			return sp + "return"
		}
		return fmt.Sprintf("%sreturn %s", sp, RenderASTAsText(n.ReturnValue, 0))

	case *ast.ExpressionStatement:
		return sp + RenderASTAsText(n.Expression, 0)

	case *ast.BlockStatement:
		var sb strings.Builder
		sb.WriteString(sp + "{\n")
		for _, s := range n.Statements {
			sb.WriteString(RenderASTAsText(s, indent+1))
			sb.WriteString("\n")
		}
		sb.WriteString(sp + "}")
		return sb.String()

	case *ast.IfStatement:
		res := fmt.Sprintf("%sif %s\n%s", sp, RenderASTAsText(n.Condition, 0), RenderASTAsText(n.Consequence, indent+1))
		if n.Alternative != nil {
			res += fmt.Sprintf("\n%selse\n%s", sp, RenderASTAsText(n.Alternative, indent+1))
		}
		return res

	case *ast.WhileStatement:
		return fmt.Sprintf("%swhile %s\n%s", sp, RenderASTAsText(n.Condition, 0), RenderASTAsText(n.Body, indent+1))

	case *ast.FunctionStatement:
		params := []string{}
		for _, p := range n.Parameters {
			params = append(params, p.Value)
		}
		return fmt.Sprintf("%sfun %s(%s)\n%s", sp, n.Name.Value, strings.Join(params, ", "), RenderASTAsText(n.Body, indent))

	case *ast.CallExpression:
		args := []string{}
		for _, a := range n.Arguments {
			args = append(args, RenderASTAsText(a, 0))
		}
		return fmt.Sprintf("%s(%s)", RenderASTAsText(n.Function, 0), strings.Join(args, ", "))

	case *ast.InfixExpression:
		return fmt.Sprintf("(%s %s %s)", RenderASTAsText(n.Left, 0), n.Operator, RenderASTAsText(n.Right, 0))

	case *ast.LogicalExpression:
		return fmt.Sprintf("(%s %s %s)", RenderASTAsText(n.Left, 0), n.Operator, RenderASTAsText(n.Right, 0))

	case *ast.PrefixExpression:
		return fmt.Sprintf("(%s%s)", n.Operator, RenderASTAsText(n.Right, 0))

	case *ast.GroupedExpression:
		return fmt.Sprintf("(group %s)", RenderASTAsText(n.Expression, 0))

	case *ast.AssignExpression:
		return fmt.Sprintf("(%s = %s)", n.Name.Value, RenderASTAsText(n.Value, 0))

	case *ast.Identifier:
		return n.Value

	case *ast.NumberLiteral, *ast.StringLiteral, *ast.Boolean, *ast.Nil:
		return n.String()

	default:
		return fmt.Sprintf("<unknown:%T>", n)
	}
}
