// Copyright (c) 2025 The Ronin DPoS developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package log provides package scoped loggers on top of go-ethereum's log.
//
// Loggers returned by WithContext resolve the root logger on every call,
// so they may be declared as package variables before SetDefault runs.
package log

import (
	"io"
	"log/slog"

	gethlog "github.com/ethereum/go-ethereum/log"
)

// Levels re-exported for callers that configure handlers.
const (
	LevelTrace = gethlog.LevelTrace
	LevelDebug = gethlog.LevelDebug
	LevelInfo  = gethlog.LevelInfo
	LevelWarn  = gethlog.LevelWarn
	LevelError = gethlog.LevelError
	LevelCrit  = gethlog.LevelCrit
)

// Verbosities accepted by FromVerbosity.
const (
	LegacyLevelCrit = iota
	LegacyLevelError
	LegacyLevelWarn
	LegacyLevelInfo
	LegacyLevelDebug
	LegacyLevelTrace
)

// Logger is the logging surface used across the module.
type Logger interface {
	Trace(msg string, ctx ...any)
	Debug(msg string, ctx ...any)
	Info(msg string, ctx ...any)
	Warn(msg string, ctx ...any)
	Error(msg string, ctx ...any)
	With(ctx ...any) Logger
}

type lazyLogger struct {
	ctx []any
}

func (l *lazyLogger) root() gethlog.Logger {
	return gethlog.Root().With(l.ctx...)
}

func (l *lazyLogger) Trace(msg string, ctx ...any) { l.root().Trace(msg, ctx...) }
func (l *lazyLogger) Debug(msg string, ctx ...any) { l.root().Debug(msg, ctx...) }
func (l *lazyLogger) Info(msg string, ctx ...any)  { l.root().Info(msg, ctx...) }
func (l *lazyLogger) Warn(msg string, ctx ...any)  { l.root().Warn(msg, ctx...) }
func (l *lazyLogger) Error(msg string, ctx ...any) { l.root().Error(msg, ctx...) }

func (l *lazyLogger) With(ctx ...any) Logger {
	merged := make([]any, 0, len(l.ctx)+len(ctx))
	return &lazyLogger{append(append(merged, l.ctx...), ctx...)}
}

// WithContext returns a logger carrying the given key/value pairs.
func WithContext(ctx ...any) Logger {
	return &lazyLogger{ctx}
}

// Root returns the root logger.
func Root() Logger {
	return &lazyLogger{}
}

// SetDefault installs a new root handler.
func SetDefault(h slog.Handler) {
	gethlog.SetDefault(gethlog.NewLogger(h))
}

// NewTerminalHandler returns a human friendly handler, colored when useColor is set.
func NewTerminalHandler(w io.Writer, lvl slog.Level, useColor bool) slog.Handler {
	return gethlog.NewTerminalHandlerWithLevel(w, lvl, useColor)
}

// NewJSONHandler returns a handler emitting one json object per record.
func NewJSONHandler(w io.Writer, lvl slog.Level) slog.Handler {
	return gethlog.JSONHandlerWithLevel(w, lvl)
}

// FromVerbosity converts a 0 (crit) to 5 (trace) verbosity into a level.
func FromVerbosity(v int) slog.Level {
	return gethlog.FromLegacyLevel(v)
}

// Discard returns a handler dropping every record.
func Discard() slog.Handler {
	return slog.DiscardHandler
}
