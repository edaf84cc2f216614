// Package cli implements the flowlayout command-line interface.
//
// The CLI reads diagram documents (JSON or YAML), runs the layout pipeline
// over them and writes the result back. It is built using cobra and logs
// through charmbracelet/log.
//
// # Commands
//
// The main commands are:
//   - layout: Lay out a whole diagram or one pool or sub-process
//   - subset: Lay out a selection of nodes in place
//   - crossings: Report intersecting connections without changing the file
//   - serve: Run the HTTP layout API
//   - cache: Manage the local solver cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. The root
// command attaches its logger to the command context.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger builds the CLI logger with short wall-clock timestamps.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress logs how long a step took. Not safe for concurrent use.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with the elapsed time, e.g. "Checked 12 connections (3ms)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey struct{}

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// loggerFromContext returns the logger attached by the root command, or
// log.Default() outside a command run.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
