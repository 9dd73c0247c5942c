package evaluator

import (
	"bytes"
	"errors"
	"lox/internal/object"
	"lox/internal/parser"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, src string, opts ...Option) (string, *Evaluator, error) {
	t.Helper()
	program, err := parser.ParseSource(src)
	require.NoError(t, err, "parse %q", src)

	var out bytes.Buffer
	e := New(&out, opts...)
	err = e.Interpret(program)
	return out.String(), e, err
}

func testOutput(t *testing.T, src, expected string) {
	t.Helper()
	out, _, err := run(t, src)
	require.NoError(t, err)
	assert.Equal(t, expected, out)
}

func TestPrintValues(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{`print 1;`, "1\n"},
		{`print 2.5;`, "2.5\n"},
		{`print "hi";`, "\"hi\"\n"},
		{`print true;`, "true\n"},
		{`print nil;`, "nil\n"},
		{`print 1 / 0;`, "inf\n"},
		{`print -1 / 0;`, "-inf\n"},
		{`print clock;`, "<native fn clock>\n"},
		{`fun f() {} print f;`, "<fn f>\n"},
	}

	for _, tt := range tests {
		testOutput(t, tt.input, tt.expected)
	}
}

func TestArithmeticAndComparison(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{`print 1 + 2 * 3;`, "7\n"},
		{`print (1 + 2) * 3;`, "9\n"},
		{`print 10 / 4;`, "2.5\n"},
		{`print -(3 - 5);`, "2\n"},
		{`print 2 < 3;`, "true\n"},
		{`print 3 <= 2;`, "false\n"},
		{`print 3 >= 3;`, "true\n"},
		{`print "a" + "b";`, "\"ab\"\n"},
		{`print !true;`, "false\n"},
	}

	for _, tt := range tests {
		testOutput(t, tt.input, tt.expected)
	}
}

func TestNumberEquality(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{`print 1 == 1;`, "true\n"},
		{`print 1 != 2;`, "true\n"},
		{`print 2 == 3;`, "false\n"},
		{`print 0.5 != 0.5;`, "false\n"},
	}

	for _, tt := range tests {
		testOutput(t, tt.input, tt.expected)
	}
}

func TestEqualityOutsideNumbersIsAnError(t *testing.T) {
	tests := []struct {
		input   string
		message string
	}{
		{`print "a" == "a";`, "operator '==' not supported for string and string"},
		{`print "a" != "b";`, "operator '!=' not supported for string and string"},
		{`print true == false;`, "operator '==' not supported for boolean and boolean"},
		{`print nil == nil;`, "operator '==' not supported for nil and nil"},
		{`fun f() {} print f == f;`, "operator '==' not supported for function and function"},
		{`print clock != clock;`, "operator '!=' not supported for function and function"},
		{`print 1 == "1";`, "operator '==' not supported for number and string"},
		{`print nil == false;`, "operator '==' not supported for nil and boolean"},
		{`print 1 != nil;`, "operator '!=' not supported for number and nil"},
	}

	for _, tt := range tests {
		out, _, err := run(t, tt.input)
		require.Error(t, err, tt.input)
		assert.ErrorIs(t, err, object.ErrTypeMismatch, tt.input)
		assert.Equal(t, tt.message, err.Error())
		assert.Empty(t, out)
	}
}

func TestTypeMismatch(t *testing.T) {
	tests := []struct {
		input   string
		message string
	}{
		{`print "a" + 1;`, "operator '+' not supported for string and number"},
		{`print -"a";`, "operand of '-' must be a number, got string"},
		{`print !1;`, "operand of '!' must be a boolean, got number"},
		{`print "a" < "b";`, "operator '<' not supported for string and string"},
		{`print true + true;`, "operator '+' not supported for boolean and boolean"},
	}

	for _, tt := range tests {
		_, _, err := run(t, tt.input)
		require.Error(t, err, tt.input)
		assert.ErrorIs(t, err, object.ErrTypeMismatch)
		assert.Equal(t, tt.message, err.Error())
	}
}

func TestConditionsMustBeBooleans(t *testing.T) {
	for _, src := range []string{`if (1) print 1;`, `while (nil) print 1;`, `for (;"x";) print 1;`} {
		out, _, err := run(t, src)
		assert.ErrorIs(t, err, object.ErrTypeMismatch, src)
		assert.Empty(t, out)
	}
}

func TestLogicalOperatorsEvaluateBothSides(t *testing.T) {
	src := `
var n = 0;
fun bump() { n = n + 1; return true; }
print false and bump();
print true or bump();
print n;
`
	testOutput(t, src, "false\ntrue\n2\n")

	_, _, err := run(t, `print true and 1;`)
	assert.ErrorIs(t, err, object.ErrTypeMismatch)
}

func TestShadowing(t *testing.T) {
	src := `
var a = "outer";
{
  var a = "inner";
  print a;
}
print a;
`
	testOutput(t, src, "\"inner\"\n\"outer\"\n")
}

func TestAssignmentNeverCreatesGlobals(t *testing.T) {
	_, e, err := run(t, `{ x = 1; }`)
	require.Error(t, err)
	assert.ErrorIs(t, err, object.ErrUndefinedVariable)
	assert.Equal(t, "undefined variable 'x'", err.Error())

	_, ok := e.Globals().Get("x")
	assert.False(t, ok)
}

func TestAssignmentUpdatesEnclosingScope(t *testing.T) {
	testOutput(t, `var a = 1; { a = 2; } print a;`, "2\n")
	testOutput(t, `var a; var b; a = b = 3; print a; print b;`, "3\n3\n")
}

func TestUndefinedVariable(t *testing.T) {
	_, _, err := run(t, `print nope;`)
	var rtErr *object.RuntimeError
	require.True(t, errors.As(err, &rtErr))
	assert.ErrorIs(t, err, object.ErrUndefinedVariable)
	assert.Equal(t, 6, rtErr.Position)
}

func TestForLoop(t *testing.T) {
	testOutput(t, `for (var i = 0; i < 3; i = i + 1) print i;`, "0\n1\n2\n")
}

func TestForLoopVariableIsScoped(t *testing.T) {
	_, _, err := run(t, `for (var i = 0; i < 1; i = i + 1) {} print i;`)
	assert.ErrorIs(t, err, object.ErrUndefinedVariable)
}

func TestWhileLoop(t *testing.T) {
	testOutput(t, `var i = 3; while (i > 0) { print i; i = i - 1; }`, "3\n2\n1\n")
}

func TestIfElse(t *testing.T) {
	testOutput(t, `if (1 < 2) print "yes"; else print "no";`, "\"yes\"\n")
	testOutput(t, `if (1 > 2) print "yes"; else print "no";`, "\"no\"\n")
	testOutput(t, `if (false) print "yes";`, "")
}

func TestRecursion(t *testing.T) {
	src := `
fun fib(n) {
  if (n < 2) return n;
  return fib(n - 1) + fib(n - 2);
}
print fib(10);
`
	testOutput(t, src, "55\n")
}

func TestReturnStopsFunctionBody(t *testing.T) {
	src := `
fun f() {
  print 1;
  while (true) {
    return 2;
  }
  print 3;
}
print f();
`
	testOutput(t, src, "1\n2\n")
}

func TestImplicitReturnIsNil(t *testing.T) {
	testOutput(t, `fun f() {} print f();`, "nil\n")
	testOutput(t, `fun f() { return; } print f();`, "nil\n")
}

func TestTopLevelReturnEndsProgram(t *testing.T) {
	testOutput(t, `print 1; return; print 2;`, "1\n")
}

func TestClosures(t *testing.T) {
	src := `
fun makeCounter() {
  var count = 0;
  fun inc() {
    count = count + 1;
    return count;
  }
  return inc;
}
var c = makeCounter();
print c();
print c();
var d = makeCounter();
print d();
`
	testOutput(t, src, "1\n2\n1\n")
}

func TestClosureSeesLaterMutation(t *testing.T) {
	src := `
var a = "before";
fun show() { print a; }
a = "after";
show();
`
	testOutput(t, src, "\"after\"\n")
}

func TestArityMismatchHappensBeforeSideEffects(t *testing.T) {
	src := `
fun f(a, b) { print "ran"; }
f(1);
`
	out, _, err := run(t, src)
	require.Error(t, err)
	assert.ErrorIs(t, err, object.ErrArityMismatch)
	assert.Equal(t, "f expected 2 arguments but got 1", err.Error())
	assert.Empty(t, out)
}

func TestNativeArity(t *testing.T) {
	_, _, err := run(t, `clock(1);`)
	assert.ErrorIs(t, err, object.ErrArityMismatch)
}

func TestNotCallable(t *testing.T) {
	for _, src := range []string{`"x"();`, `var a = 1; a();`, `nil();`} {
		_, _, err := run(t, src)
		assert.ErrorIs(t, err, object.ErrNotCallable, src)
	}
}

func TestClockReturnsNumber(t *testing.T) {
	testOutput(t, `var t = clock(); print t > 0;`, "true\n")
}

func TestStackOverflow(t *testing.T) {
	_, _, err := run(t, `fun f() { f(); } f();`, WithMaxDepth(50))
	require.Error(t, err)
	assert.ErrorIs(t, err, object.ErrStackOverflow)

	var rtErr *object.RuntimeError
	require.True(t, errors.As(err, &rtErr))
	assert.Len(t, rtErr.StackTrace, 50)
}

func TestStackTraceRecordsCallSites(t *testing.T) {
	src := "fun inner() { return 1 + nil; }\nfun outer() { return inner(); }\nouter();"
	_, _, err := run(t, src)

	var rtErr *object.RuntimeError
	require.True(t, errors.As(err, &rtErr))
	require.Len(t, rtErr.StackTrace, 2)
	assert.Equal(t, "inner", rtErr.StackTrace[0].Function)
	assert.Equal(t, "outer", rtErr.StackTrace[1].Function)
}

func TestScopeIsRestoredAfterError(t *testing.T) {
	var out bytes.Buffer
	e := New(&out)

	program, err := parser.ParseSource(`var a = 1; { var a = 2; print a + nil; }`)
	require.NoError(t, err)
	require.Error(t, e.Interpret(program))
	assert.Same(t, e.Globals(), e.CurrentEnv())

	program, err = parser.ParseSource(`print a;`)
	require.NoError(t, err)
	require.NoError(t, e.Interpret(program))
	assert.Equal(t, "1\n", out.String())
}

func TestWithNatives(t *testing.T) {
	twice := &object.Native{
		FnName:     "twice",
		ParamCount: 1,
		Fn: func(args ...object.Object) (object.Object, error) {
			n, ok := args[0].(*object.Number)
			if !ok {
				return nil, errors.New("expected a number")
			}
			return &object.Number{Value: n.Value * 2}, nil
		},
	}
	natives := map[string]*object.Native{"twice": twice}

	out, _, err := run(t, `print twice(21);`, WithNatives(natives))
	require.NoError(t, err)
	assert.Equal(t, "42\n", out)

	_, _, err = run(t, `twice("x");`, WithNatives(natives))
	assert.ErrorIs(t, err, object.ErrNativeFailure)
	assert.Equal(t, "twice: expected a number", err.Error())
}
