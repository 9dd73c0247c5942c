package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
)

// Levels accepted by ParseLevel, in increasing severity. "none" turns
// logging off.
var Levels = []string{"debug", "info", "warn", "error", "none"}

// ParseLevel maps a level name to its slog level. The second result is false
// for "none" and for anything it does not recognise.
func ParseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(s) {
	case "trace", "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelError, false
	}
}

// ValidLevel reports whether s is a level name ParseLevel accepts, or "none".
func ValidLevel(s string) bool {
	_, enabled := ParseLevel(s)
	return enabled || strings.EqualFold(s, "none")
}

// Sink is the file the JSON handler writes to. It can be reopened in place
// so that logrotate style renames pick up a fresh file.
type Sink struct {
	mu   sync.Mutex
	path string
	file *os.File
	sigs chan os.Signal
}

func OpenSink(path string) (*Sink, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory for '%s': %w", path, err)
	}
	s := &Sink{path: path}
	if err := s.Reopen(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Sink) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.file.Write(p)
}

// Reopen closes the current file, if any, and opens path again for append.
func (s *Sink) Reopen() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file '%s': %w", s.path, err)
	}
	if s.file != nil {
		_ = s.file.Close()
	}
	s.file = f
	return nil
}

// ReopenOnHangup reopens the file every time the process gets SIGHUP.
//
//	mv lox.log lox.bak && kill -HUP <pid>
func (s *Sink) ReopenOnHangup() {
	s.sigs = make(chan os.Signal, 1)
	signal.Notify(s.sigs, syscall.SIGHUP)
	go func(sigs chan os.Signal) {
		for range sigs {
			if err := s.Reopen(); err != nil {
				fmt.Fprintln(os.Stderr, err)
			}
		}
	}(s.sigs)
}

func (s *Sink) Close() error {
	if s.sigs != nil {
		signal.Stop(s.sigs)
		close(s.sigs)
		s.sigs = nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	return err
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Configure installs the default slog logger: a JSON handler at the given
// level, writing to file or to stderr when file is empty. The returned closer
// releases the file.
func Configure(level, file string) (io.Closer, error) {
	lvl, enabled := ParseLevel(level)
	if !enabled {
		slog.SetDefault(slog.New(slog.DiscardHandler))
		return nopCloser{}, nil
	}

	var (
		w      io.Writer = os.Stderr
		closer io.Closer = nopCloser{}
	)
	if file != "" {
		sink, err := OpenSink(file)
		if err != nil {
			return nil, err
		}
		sink.ReopenOnHangup()
		w, closer = sink, sink
	}

	loggerOptions := &slog.HandlerOptions{
		AddSource: false,
		Level:     lvl,
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(w, loggerOptions)))
	return closer, nil
}
