// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Vacago Contributors

// Package logging provides structured logging with OpenTelemetry trace
// context enrichment.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"

	"go.opentelemetry.io/otel/trace"
)

// serviceName tags every log record emitted by this process.
const serviceName = "vacago"

// Options configures Setup.
type Options struct {
	// Version is the build version stamped onto every record.
	Version string

	// Format selects the output encoding: "json" (default) or "text".
	Format string

	// Level is the minimum record level. Defaults to slog.LevelInfo.
	Level slog.Leveler

	// Writer receives the output. Defaults to os.Stderr.
	Writer io.Writer
}

// contextHandler wraps a slog.Handler, stamping service identity and any
// OpenTelemetry trace context found on the record's context.
type contextHandler struct {
	handler slog.Handler
	version string
}

func (h *contextHandler) Handle(ctx context.Context, r slog.Record) error {
	r.AddAttrs(
		slog.String("service", serviceName),
		slog.String("version", h.version),
	)

	spanCtx := trace.SpanContextFromContext(ctx)
	if spanCtx.HasTraceID() {
		r.AddAttrs(slog.String("trace_id", spanCtx.TraceID().String()))
	}
	if spanCtx.HasSpanID() {
		r.AddAttrs(slog.String("span_id", spanCtx.SpanID().String()))
	}

	//nolint:wrapcheck // Handler interface requires unwrapped error passthrough
	return h.handler.Handle(ctx, r)
}

func (h *contextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

func (h *contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &contextHandler{handler: h.handler.WithAttrs(attrs), version: h.version}
}

func (h *contextHandler) WithGroup(name string) slog.Handler {
	return &contextHandler{handler: h.handler.WithGroup(name), version: h.version}
}

// Setup creates a configured slog.Logger.
func Setup(opts Options) *slog.Logger {
	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}
	level := opts.Level
	if level == nil {
		level = slog.LevelInfo
	}

	handlerOpts := &slog.HandlerOptions{Level: level}

	var base slog.Handler
	if opts.Format == "text" {
		base = slog.NewTextHandler(w, handlerOpts)
	} else {
		base = slog.NewJSONHandler(w, handlerOpts)
	}

	return slog.New(&contextHandler{handler: base, version: opts.Version})
}

// SetDefault installs a configured logger as the process default.
func SetDefault(opts Options) {
	slog.SetDefault(Setup(opts))
}
