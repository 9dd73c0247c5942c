package foreign

import (
	"fmt"
	"lox/internal/object"
	"math"
)

func unpackString(arg object.Object, argName string) (string, error) {
	value, ok := arg.(*object.String)
	if !ok {
		return "", fmt.Errorf("argument `%s` must be a string, got=%s", argName, object.TypeName(arg))
	}
	return value.Value, nil
}

func unpackHandle(arg object.Object, argName string) (int64, error) {
	value, ok := arg.(*object.Number)
	if !ok {
		return -1, fmt.Errorf("argument `%s` must be a number, got=%s", argName, object.TypeName(arg))
	}
	if value.Value != math.Trunc(value.Value) {
		return -1, fmt.Errorf("argument `%s` must be a whole number, got=%s", argName, value.Inspect())
	}
	return int64(value.Value), nil
}
