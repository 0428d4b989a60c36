// Package logger wraps log/slog with component scoping and caller info on errors.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

type Config struct {
	Level       string // debug, info, warn, error
	Format      string // json, text
	Output      string // stdout, stderr or a file path
	Environment string
}

type Logger struct {
	*slog.Logger
	output io.Writer
}

func DefaultConfig() Config {
	return Config{Level: "info", Format: "text", Output: "stdout", Environment: "development"}
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

func New(cfg Config) *Logger {
	var out io.Writer
	switch cfg.Output {
	case "", "stdout":
		out = os.Stdout
	case "stderr":
		out = os.Stderr
	default:
		f, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			out = os.Stdout
		} else {
			out = f
		}
	}
	return newWithWriter(cfg, out)
}

func newWithWriter(cfg Config, out io.Writer) *Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}
	var h slog.Handler
	if cfg.Format == "json" {
		h = slog.NewJSONHandler(out, opts)
	} else {
		h = slog.NewTextHandler(out, opts)
	}
	l := slog.New(h)
	if cfg.Environment != "" {
		l = l.With("env", cfg.Environment)
	}
	return &Logger{Logger: l, output: out}
}

// Discard drops everything; handy in tests
func Discard() *Logger {
	return newWithWriter(Config{Level: "error"}, io.Discard)
}

func (l *Logger) With(args ...any) *Logger {
	return &Logger{Logger: l.Logger.With(args...), output: l.output}
}

func (l *Logger) WithComponent(component string) *Logger {
	return l.With("component", component)
}

// Error adds the caller's file:line
func (l *Logger) Error(msg string, args ...any) {
	if _, file, line, ok := runtime.Caller(1); ok {
		args = append(args, "caller", fmt.Sprintf("%s:%d", filepath.Base(file), line))
	}
	l.Logger.Error(msg, args...)
}

func (l *Logger) Fatal(msg string, args ...any) {
	l.Error(msg, args...)
	os.Exit(1)
}

func (l *Logger) Close() error {
	if c, ok := l.output.(io.Closer); ok && l.output != os.Stdout && l.output != os.Stderr {
		return c.Close()
	}
	return nil
}
