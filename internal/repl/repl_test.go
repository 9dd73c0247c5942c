package repl

import (
	"bytes"
	"io"
	"lox/internal/runner"
	"lox/internal/util"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func session(t *testing.T, input string) string {
	t.Helper()
	cfg := util.DefaultConfiguration()
	cfg.Color = false

	var out bytes.Buffer
	r := runner.New(cfg, &out)
	defer r.Close()

	require.NoError(t, Start(r, cfg, strings.NewReader(input), &out))
	return out.String()
}

func TestEachLineIsAProgram(t *testing.T) {
	out := session(t, "var a = 1;\nprint a + 1;\n")
	assert.Equal(t, ">> >> 2\n>> \n", out)
}

func TestErrorsDoNotEndSession(t *testing.T) {
	out := session(t, "print nope;\nprint 1;\n")
	assert.Contains(t, out, "RuntimeError: [1:7] undefined variable 'nope'")
	assert.True(t, strings.HasSuffix(out, ">> 1\n>> \n"), out)
}

func TestSyntaxErrorIsReported(t *testing.T) {
	out := session(t, "print );\nprint 2;\n")
	assert.Contains(t, out, "SyntaxError: [1:7] expected expression, got ')'")
	assert.Contains(t, out, "2\n")
}

func TestBlankLinesAreSkipped(t *testing.T) {
	out := session(t, "\n   \nprint 3;\n")
	assert.Equal(t, ">> >> >> 3\n>> \n", out)
}

func TestOpenBlockContinuesOnNextLine(t *testing.T) {
	out := session(t, "fun add(a, b) {\n  return a + b;\n}\nprint add(1, 2);\n")
	assert.Equal(t, ">> .. .. >> 3\n>> \n", out)
}

func TestUnterminatedInputAtEOFIsReported(t *testing.T) {
	out := session(t, "{ print 1;\n")
	assert.Contains(t, out, "SyntaxError")
	assert.Contains(t, out, "end of input")
}

func TestCustomPrompt(t *testing.T) {
	cfg := util.DefaultConfiguration()
	cfg.Color = false
	cfg.Prompt = "lox> "

	var out bytes.Buffer
	r := runner.New(cfg, &out)
	defer r.Close()

	require.NoError(t, Start(r, cfg, strings.NewReader("print true;\n"), &out))
	assert.Equal(t, "lox> true\nlox> \n", out.String())
}

type failingReader struct{}

func (failingReader) Read(p []byte) (int, error) { return 0, io.ErrUnexpectedEOF }

func TestReadErrorEndsSession(t *testing.T) {
	cfg := util.DefaultConfiguration()
	r := runner.New(cfg, io.Discard)
	defer r.Close()

	err := Start(r, cfg, failingReader{}, io.Discard)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}
