package runner

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"lox/internal/ast"
	"lox/internal/evaluator"
	"lox/internal/foreign"
	"lox/internal/lexer"
	"lox/internal/object"
	"lox/internal/parser"
	"lox/internal/util"
	"os"
)

// Exit statuses from sysexits.h.
const (
	ExitOK       = 0
	ExitUsage    = 64
	ExitDataErr  = 65
	ExitSoftware = 70
	ExitIOErr    = 74
)

// Runner owns one interpreter session. Globals defined by one Run are visible
// to the next, which is what the REPL relies on.
type Runner struct {
	Config util.Configuration

	// DebugOut receives the AST dump for sources that do not come from a
	// file. Defaults to stderr.
	DebugOut io.Writer

	db        *foreign.DB
	evaluator *evaluator.Evaluator
}

func New(config util.Configuration, out io.Writer) *Runner {
	db := foreign.NewDB()
	return &Runner{
		Config:   config,
		DebugOut: os.Stderr,
		db:       db,
		evaluator: evaluator.New(out,
			evaluator.WithMaxDepth(config.MaxCallDepth),
			evaluator.WithNatives(foreign.GetForeignFunctions(db)),
		),
	}
}

// Run lexes, parses and interprets src. Errors come back typed: *lexer.Error
// and *parser.Error before anything runs, *object.RuntimeError after.
func (r *Runner) Run(src string) error {
	program, err := r.parse(src)
	if err != nil {
		return err
	}
	r.dumpAST(program, "")
	return r.evaluator.Interpret(program)
}

// RunFile reads path and runs its contents. The source is returned so the
// caller can render errors against it.
func (r *Runner) RunFile(path string) (string, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("could not read %s: %w", path, err)
	}
	src := string(source)

	program, err := r.parse(src)
	if err != nil {
		return src, err
	}
	r.dumpAST(program, path)

	slog.Info("running file", slog.String("path", path))
	return src, r.evaluator.Interpret(program)
}

// Close releases database handles opened by the program.
func (r *Runner) Close() error {
	return r.db.Close()
}

func (r *Runner) parse(src string) (*ast.Program, error) {
	tokens := lexer.Tokenize(src)
	p := parser.New(parser.NewTokenSliceProvider(tokens))
	program, err := p.ParseProgram()
	if err != nil {
		slog.Debug("parse failed", slog.Any("error", err))
		return nil, err
	}

	nodes := 0
	ast.Inspect(program, func(n ast.Node) bool {
		if n != nil {
			nodes++
		}
		return true
	})
	slog.Debug("parsed program",
		slog.Int("tokens", len(tokens)),
		slog.Int("statements", len(program.Statements)),
		slog.Int("nodes", nodes))

	return program, nil
}

// dumpAST writes the debug rendering of program. Sources read from a file get
// a sibling <path>.ast.txt or <path>.ast.json; everything else goes to DebugOut.
func (r *Runner) dumpAST(program *ast.Program, path string) {
	var (
		text string
		ext  string
	)
	switch r.Config.DebugAST {
	case util.DebugASTText:
		text, ext = parser.RenderASTAsText(program, 0), ".ast.txt"
	case util.DebugASTJSON:
		json, err := parser.RenderASTAsJSON(program)
		if err != nil {
			slog.Error("Failed to render AST as JSON", slog.Any("error", err))
			return
		}
		text, ext = json, ".ast.json"
	default:
		return
	}

	if path == "" {
		fmt.Fprintln(r.DebugOut, text)
		return
	}
	if err := os.WriteFile(path+ext, []byte(text), 0644); err != nil {
		slog.Error("Failed to write AST", slog.String("path", path+ext), slog.Any("error", err))
	}
}

// FormatError renders err with its position in src and a few lines of
// context. Errors without a position are returned as their message.
func FormatError(src string, err error) string {
	var (
		lexErr   *lexer.Error
		parseErr *parser.Error
		rtErr    *object.RuntimeError
	)
	switch {
	case errors.As(err, &rtErr):
		return object.RenderStacktrace(rtErr, src)
	case errors.As(err, &lexErr):
		return syntaxError(src, lexErr.Position, lexErr.Error(), lexErr.Kind.Error())
	case errors.As(err, &parseErr):
		return syntaxError(src, parseErr.Position(), parseErr.Error(), parseErr.Kind.Error())
	default:
		return err.Error()
	}
}

func syntaxError(src string, pos int, message, note string) string {
	l, c := util.GetLineAndColumn(src, pos)
	return fmt.Sprintf("SyntaxError: [%d:%d] %s\n\n%s", l, c, message, util.GetContextLines(src, l, c, note))
}

// ExitCode maps an error from Run or RunFile to a process exit status.
func ExitCode(err error) int {
	var (
		lexErr   *lexer.Error
		parseErr *parser.Error
		rtErr    *object.RuntimeError
	)
	switch {
	case err == nil:
		return ExitOK
	case errors.As(err, &lexErr), errors.As(err, &parseErr):
		return ExitDataErr
	case errors.As(err, &rtErr):
		return ExitSoftware
	case errors.Is(err, os.ErrNotExist), errors.Is(err, os.ErrPermission):
		return ExitIOErr
	default:
		return ExitSoftware
	}
}
