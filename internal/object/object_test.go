package object

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInspect(t *testing.T) {
	tests := []struct {
		obj      Object
		expected string
	}{
		{&Number{Value: 55}, "55"},
		{&Number{Value: 0.5}, "0.5"},
		{&Number{Value: -3.25}, "-3.25"},
		{&Number{Value: 1e21}, "1000000000000000000000"},
		{TRUE, "true"},
		{FALSE, "false"},
		{NIL, "nil"},
		{&String{Value: "hi"}, `"hi"`},
		{&Native{FnName: "clock"}, "<native fn clock>"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, tt.obj.Inspect())
	}
}

func TestTypeName(t *testing.T) {
	assert.Equal(t, "number", TypeName(&Number{}))
	assert.Equal(t, "string", TypeName(&String{}))
	assert.Equal(t, "boolean", TypeName(TRUE))
	assert.Equal(t, "nil", TypeName(NIL))
	assert.Equal(t, "function", TypeName(&Native{}))
}

func TestDefineAndGet(t *testing.T) {
	global := NewEnvironment()
	global.Define("a", &Number{Value: 1})

	val, ok := global.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1.0, val.(*Number).Value)

	_, ok = global.Get("missing")
	assert.False(t, ok)
}

func TestShadowingLeavesOuterUntouched(t *testing.T) {
	global := NewEnvironment()
	global.Define("a", &String{Value: "outer"})

	inner := NewEnclosedEnvironment(global)
	inner.Define("a", &String{Value: "inner"})

	val, _ := inner.Get("a")
	assert.Equal(t, "inner", val.(*String).Value)

	val, _ = global.Get("a")
	assert.Equal(t, "outer", val.(*String).Value)
}

func TestAssignWalksToNearestDefiningScope(t *testing.T) {
	global := NewEnvironment()
	global.Define("a", &Number{Value: 1})
	middle := NewEnclosedEnvironment(global)
	inner := NewEnclosedEnvironment(middle)

	_, err := inner.Assign("a", &Number{Value: 2})
	require.NoError(t, err)

	val, _ := global.GetLocal("a")
	assert.Equal(t, 2.0, val.(*Number).Value)

	_, ok := inner.GetLocal("a")
	assert.False(t, ok, "assignment must not create a local binding")
}

func TestAssignUndefinedNeverCreatesBinding(t *testing.T) {
	global := NewEnvironment()
	inner := NewEnclosedEnvironment(global)

	_, err := inner.Assign("ghost", TRUE)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUndefinedVariable))

	_, ok := global.Get("ghost")
	assert.False(t, ok)
}

func TestRuntimeErrorUnwrapsToKind(t *testing.T) {
	err := NewRuntimeError(ErrTypeMismatch, 4, "operands must be %s", "numbers")
	err.AddFrame("f", 10)

	var rtErr *RuntimeError
	require.True(t, errors.As(error(err), &rtErr))
	assert.ErrorIs(t, err, ErrTypeMismatch)
	assert.Equal(t, "operands must be numbers", err.Error())
	assert.Len(t, rtErr.StackTrace, 1)
}

func TestRenderStacktrace(t *testing.T) {
	src := "fun f() {\n  return -\"x\";\n}\nf();"
	err := NewRuntimeError(ErrTypeMismatch, 19, "operand must be a number")
	err.AddFrame("f", 27)

	out := RenderStacktrace(err, src)
	assert.Contains(t, out, "RuntimeError: [2:10] operand must be a number")
	assert.Contains(t, out, "  >    2 |   return -\"x\";")
	assert.Contains(t, out, "^ type mismatch")
	assert.Contains(t, out, "at [  4:  1] f")
}
