// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"log/syslog"
	"os"

	console "github.com/phsym/console-slog"
)

// logLevel is shared by every sink so --debug flips them together
var logLevel = new(slog.LevelVar)

// logClosers holds whatever setupLogging opened
var logClosers []io.Closer

// multiHandler fans one record out to every configured sink
type multiHandler struct {
	handlers []slog.Handler
}

func (m multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range m.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (m multiHandler) Handle(ctx context.Context, rec slog.Record) error {
	var first error
	for _, h := range m.handlers {
		if !h.Enabled(ctx, rec.Level) {
			continue
		}
		if err := h.Handle(ctx, rec.Clone()); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (m multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	hs := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		hs[i] = h.WithAttrs(attrs)
	}
	return multiHandler{handlers: hs}
}

func (m multiHandler) WithGroup(name string) slog.Handler {
	hs := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		hs[i] = h.WithGroup(name)
	}
	return multiHandler{handlers: hs}
}

// setupLogging wires the slog sinks the logging flags select: a text
// logfile appended across runs, the console, and syslog. With no sink
// selected log output is discarded.
func setupLogging() error {
	logLevel.Set(slog.LevelInfo)
	if debugLog {
		logLevel.Set(slog.LevelDebug)
	}

	var handlers []slog.Handler
	if logfileName != "" {
		f, err := os.OpenFile(logfileName, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		logClosers = append(logClosers, f)
		handlers = append(handlers, slog.NewTextHandler(f, &slog.HandlerOptions{Level: logLevel}))
	}
	if consoleLog {
		handlers = append(handlers, console.NewHandler(os.Stderr, &console.HandlerOptions{Level: logLevel}))
	}
	if useSyslog {
		w, err := syslog.New(syslog.LOG_INFO|syslog.LOG_DAEMON, "calorimeter")
		if err != nil {
			return fmt.Errorf("connecting syslog: %w", err)
		}
		logClosers = append(logClosers, w)
		handlers = append(handlers, slog.NewTextHandler(w, &slog.HandlerOptions{Level: logLevel}))
	}

	switch len(handlers) {
	case 0:
		slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
	case 1:
		slog.SetDefault(slog.New(handlers[0]))
	default:
		slog.SetDefault(slog.New(multiHandler{handlers: handlers}))
	}
	return nil
}

// closeLogging closes the logfile and the syslog connection
func closeLogging() {
	for _, c := range logClosers {
		c.Close()
	}
	logClosers = nil
}
