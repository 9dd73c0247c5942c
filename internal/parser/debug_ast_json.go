package parser

import (
	"bytes"
	"encoding/json"
	"fmt"
	"lox/internal/ast"
	"reflect"
)

// WalkAST recursively traverses an AST and serializes it into a machine-centric map structure.
func WalkAST(node ast.Node) interface{} {
	if node == nil || (reflect.ValueOf(node).Kind() == reflect.Ptr && reflect.ValueOf(node).IsNil()) {
		return nil
	}

	switch n := node.(type) {
	case *ast.Program:
		return map[string]interface{}{
			"type":       "Program",
			"statements": walkStatements(n.Statements),
		}

	case *ast.VarStatement:
		return map[string]interface{}{
			"type":     "VarStatement",
			"position": n.Token.Position,
			"name":     WalkAST(n.Name),
			"value":    WalkAST(n.Value),
		}

	case *ast.PrintStatement:
		return map[string]interface{}{
			"type":     "PrintStatement",
			"position": n.Token.Position,
			"value":    WalkAST(n.Value),
		}

	case *ast.ReturnStatement:
		return map[string]interface{}{
			"type":        "ReturnStatement",
			"position":    n.Token.Position,
			"returnValue": WalkAST(n.ReturnValue),
		}

	case *ast.ExpressionStatement:
		return map[string]interface{}{
			"type":       "ExpressionStatement",
			"position":   n.Token.Position,
			"expression": WalkAST(n.Expression),
		}

	case *ast.BlockStatement:
		return map[string]interface{}{
			"type":       "BlockStatement",
			"position":   n.Token.Position,
			"statements": walkStatements(n.Statements),
		}

	case *ast.IfStatement:
		return map[string]interface{}{
			"type":        "IfStatement",
			"position":    n.Token.Position,
			"condition":   WalkAST(n.Condition),
			"consequence": WalkAST(n.Consequence),
			"alternative": WalkAST(n.Alternative),
		}

	case *ast.WhileStatement:
		return map[string]interface{}{
			"type":      "WhileStatement",
			"position":  n.Token.Position,
			"condition": WalkAST(n.Condition),
			"body":      WalkAST(n.Body),
		}

	case *ast.FunctionStatement:
		params := make([]interface{}, len(n.Parameters))
		for i, p := range n.Parameters {
			params[i] = WalkAST(p)
		}
		return map[string]interface{}{
			"type":       "FunctionStatement",
			"position":   n.Token.Position,
			"name":       WalkAST(n.Name),
			"parameters": params,
			"body":       WalkAST(n.Body),
		}

	case *ast.Identifier:
		return map[string]interface{}{
			"type":     "Identifier",
			"position": n.Token.Position,
			"value":    n.Value,
		}

	case *ast.NumberLiteral:
		return map[string]interface{}{
			"type":     "NumberLiteral",
			"position": n.Token.Position,
			"value":    n.Value,
		}

	case *ast.StringLiteral:
		return map[string]interface{}{
			"type":     "StringLiteral",
			"position": n.Token.Position,
			"value":    n.Value,
		}

	case *ast.Boolean:
		return map[string]interface{}{
			"type":     "Boolean",
			"position": n.Token.Position,
			"value":    n.Value,
		}

	case *ast.Nil:
		return map[string]interface{}{
			"type":     "Nil",
			"position": n.Token.Position,
		}

	case *ast.PrefixExpression:
		return map[string]interface{}{
			"type":     "PrefixExpression",
			"position": n.Token.Position,
			"operator": n.Operator,
			"right":    WalkAST(n.Right),
		}

	case *ast.InfixExpression:
		return map[string]interface{}{
			"type":     "InfixExpression",
			"position": n.Token.Position,
			"left":     WalkAST(n.Left),
			"operator": n.Operator,
			"right":    WalkAST(n.Right),
		}

	case *ast.LogicalExpression:
		return map[string]interface{}{
			"type":     "LogicalExpression",
			"position": n.Token.Position,
			"left":     WalkAST(n.Left),
			"operator": n.Operator,
			"right":    WalkAST(n.Right),
		}

	case *ast.GroupedExpression:
		return map[string]interface{}{
			"type":       "GroupedExpression",
			"position":   n.Token.Position,
			"expression": WalkAST(n.Expression),
		}

	case *ast.AssignExpression:
		return map[string]interface{}{
			"type":     "AssignExpression",
			"position": n.Token.Position,
			"name":     WalkAST(n.Name),
			"value":    WalkAST(n.Value),
		}

	case *ast.CallExpression:
		args := make([]interface{}, len(n.Arguments))
		for i, a := range n.Arguments {
			args[i] = WalkAST(a)
		}
		return map[string]interface{}{
			"type":      "CallExpression",
			"position":  n.Token.Position,
			"function":  WalkAST(n.Function),
			"arguments": args,
		}

	default:
		return map[string]interface{}{
			"type": "Unknown",
			"node": fmt.Sprintf("%T", n),
		}
	}
}

func walkStatements(stmts []ast.Statement) []interface{} {
	result := make([]interface{}, len(stmts))
	for i, s := range stmts {
		result[i] = WalkAST(s)
	}
	return result
}

func RenderASTAsJSON(node ast.Node) (string, error) {
	astMap := WalkAST(node)
	buf := new(bytes.Buffer)
	encoder := json.NewEncoder(buf)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)

	if err := encoder.Encode(astMap); err != nil {
		return "", fmt.Errorf("failed to encode JSON: %v", err)
	}
	return buf.String(), nil
}
