package repl

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"lox/internal/lexer"
	"lox/internal/parser"
	"lox/internal/runner"
	"lox/internal/token"
	"lox/internal/util"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/peterh/liner"
)

const (
	PROMPT      = ">> "
	CONT_PROMPT = ".. "
)

// lineReader is satisfied by *liner.State and by scannerReader.
type lineReader interface {
	Prompt(prompt string) (string, error)
}

type scannerReader struct {
	scanner *bufio.Scanner
	out     io.Writer
}

func (s *scannerReader) Prompt(prompt string) (string, error) {
	fmt.Fprint(s.out, prompt)
	if !s.scanner.Scan() {
		if err := s.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return s.scanner.Text(), nil
}

// Start reads programs from in until EOF and runs each one on r. Errors are
// written to out and do not end the session. When in is a terminal the
// prompt gets line editing and history.
func Start(r *runner.Runner, config util.Configuration, in io.Reader, out io.Writer) error {
	prompt := config.Prompt
	if prompt == "" {
		prompt = PROMPT
	}

	errColor := color.New(color.FgRed)
	if !config.Color {
		errColor.DisableColor()
	}

	if f, ok := in.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		ln := liner.NewLiner()
		defer ln.Close()
		ln.SetCtrlCAborts(true)

		if config.HistoryFile != "" {
			loadHistory(ln, config.HistoryFile)
			defer saveHistory(ln, config.HistoryFile)
		}
		return loop(r, ln, ln, prompt, errColor, out)
	}

	reader := &scannerReader{scanner: bufio.NewScanner(in), out: out}
	return loop(r, reader, nil, prompt, errColor, out)
}

func loop(r *runner.Runner, reader lineReader, ln *liner.State, prompt string, errColor *color.Color, out io.Writer) error {
	for {
		src, err := readProgram(reader, prompt)
		if errors.Is(err, liner.ErrPromptAborted) {
			continue
		}
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(out)
			return nil
		}
		if err != nil {
			return err
		}
		if strings.TrimSpace(src) == "" {
			continue
		}
		if ln != nil {
			ln.AppendHistory(strings.ReplaceAll(src, "\n", " "))
		}

		if err := r.Run(src); err != nil {
			slog.Debug("repl input failed", slog.Any("error", err))
			errColor.Fprintln(out, runner.FormatError(src, err))
		}
	}
}

// readProgram keeps reading lines while the input so far only fails to
// parse because it ends too early, such as an open block or string.
func readProgram(reader lineReader, prompt string) (string, error) {
	var b strings.Builder

	for {
		p := prompt
		if b.Len() > 0 {
			p = CONT_PROMPT
		}
		line, err := reader.Prompt(p)
		if err != nil {
			if b.Len() > 0 && errors.Is(err, io.EOF) {
				return b.String(), nil
			}
			return "", err
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if strings.TrimSpace(src) == "" || !incomplete(src) {
			return src, nil
		}
	}
}

func incomplete(src string) bool {
	_, err := parser.ParseSource(src)
	if err == nil {
		return false
	}
	var parseErr *parser.Error
	if errors.As(err, &parseErr) {
		return parseErr.Token.Type == token.EOF
	}
	return errors.Is(err, lexer.ErrUnterminatedString)
}

func loadHistory(ln *liner.State, path string) {
	f, err := os.Open(path)
	if err != nil {
		return
	}
	defer f.Close()
	if _, err := ln.ReadHistory(f); err != nil {
		slog.Warn("failed to read history", slog.String("path", path), slog.Any("error", err))
	}
}

func saveHistory(ln *liner.State, path string) {
	f, err := os.Create(path)
	if err != nil {
		slog.Warn("failed to write history", slog.String("path", path), slog.Any("error", err))
		return
	}
	defer f.Close()
	_, _ = ln.WriteHistory(f)
}
