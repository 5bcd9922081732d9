// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package log is a thin layer over go-ethereum's slog based logger.
// Package level loggers created by WithContext follow the root logger, so
// they pick up a handler installed after package initialization.
package log

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"

	ethlog "github.com/ethereum/go-ethereum/log"
)

// Logger is the go-ethereum logger interface.
type Logger = ethlog.Logger

// Levels.
const (
	LevelTrace = ethlog.LevelTrace
	LevelDebug = ethlog.LevelDebug
	LevelInfo  = ethlog.LevelInfo
	LevelWarn  = ethlog.LevelWarn
	LevelError = ethlog.LevelError
	LevelCrit  = ethlog.LevelCrit
)

var root atomic.Value

func init() {
	root.Store(ethlog.NewLogger(ethlog.DiscardHandler()))
}

// Root returns the root logger.
func Root() Logger {
	return root.Load().(Logger)
}

// SetDefault sets the root logger.
func SetDefault(l Logger) {
	root.Store(l)
	ethlog.SetDefault(l)
}

// NewLogger creates a logger with the given handler.
func NewLogger(h slog.Handler) Logger {
	return ethlog.NewLogger(h)
}

// NewTerminalHandlerWithLevel returns a handler that writes human readable records.
func NewTerminalHandlerWithLevel(w io.Writer, level slog.Level, useColor bool) slog.Handler {
	return ethlog.NewTerminalHandlerWithLevel(w, level, useColor)
}

// NewJSONHandler returns a handler that writes records as JSON lines.
func NewJSONHandler(w io.Writer) slog.Handler {
	return ethlog.JSONHandler(w)
}

// DiscardHandler returns a no-op handler.
func DiscardHandler() slog.Handler {
	return ethlog.DiscardHandler()
}

// LvlFromString parses a level name.
func LvlFromString(s string) (slog.Level, error) {
	return ethlog.LvlFromString(s)
}

// WithContext returns a logger that always carries ctx and writes through the current root.
func WithContext(ctx ...any) Logger {
	return &lazyLogger{ctx: ctx}
}

type lazyLogger struct {
	ctx []any
}

func (l *lazyLogger) inner() Logger {
	return Root().With(l.ctx...)
}

func (l *lazyLogger) With(ctx ...any) Logger {
	return &lazyLogger{ctx: append(append([]any{}, l.ctx...), ctx...)}
}

func (l *lazyLogger) New(ctx ...any) Logger { return l.With(ctx...) }

func (l *lazyLogger) Log(level slog.Level, msg string, ctx ...any) {
	l.inner().Log(level, msg, ctx...)
}

func (l *lazyLogger) Trace(msg string, ctx ...any) { l.inner().Trace(msg, ctx...) }
func (l *lazyLogger) Debug(msg string, ctx ...any) { l.inner().Debug(msg, ctx...) }
func (l *lazyLogger) Info(msg string, ctx ...any)  { l.inner().Info(msg, ctx...) }
func (l *lazyLogger) Warn(msg string, ctx ...any)  { l.inner().Warn(msg, ctx...) }
func (l *lazyLogger) Error(msg string, ctx ...any) { l.inner().Error(msg, ctx...) }
func (l *lazyLogger) Crit(msg string, ctx ...any)  { l.inner().Crit(msg, ctx...) }

func (l *lazyLogger) Write(level slog.Level, msg string, attrs ...any) {
	l.inner().Write(level, msg, attrs...)
}

func (l *lazyLogger) Enabled(ctx context.Context, level slog.Level) bool {
	return Root().Enabled(ctx, level)
}

func (l *lazyLogger) Handler() slog.Handler {
	return l.inner().Handler()
}

// Debug logs at debug level on the root logger.
func Debug(msg string, ctx ...any) { Root().Debug(msg, ctx...) }

// Info logs at info level on the root logger.
func Info(msg string, ctx ...any) { Root().Info(msg, ctx...) }

// Warn logs at warn level on the root logger.
func Warn(msg string, ctx ...any) { Root().Warn(msg, ctx...) }

// Error logs at error level on the root logger.
func Error(msg string, ctx ...any) { Root().Error(msg, ctx...) }
