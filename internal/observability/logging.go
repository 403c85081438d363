// Package observability provides context-scoped structured logging for the
// page engine. Request-scoped identifiers travel on the context so every log
// line emitted while resolving a page carries the same fields.
package observability

import (
	"context"
	"log/slog"
)

// LogContext holds structured logging context information.
type LogContext struct {
	RequestID   string
	Route       string
	Locale      string
	ArtifactKey string
	Stage       string
}

type logContextKeyType string

const logContextKey logContextKeyType = "log-context"

// WithRequestID adds a request ID to the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	lc := extractLogContext(ctx)
	lc.RequestID = requestID
	return context.WithValue(ctx, logContextKey, lc)
}

// WithRoute adds a template route key to the context.
func WithRoute(ctx context.Context, route string) context.Context {
	lc := extractLogContext(ctx)
	lc.Route = route
	return context.WithValue(ctx, logContextKey, lc)
}

// WithLocale adds a locale to the context.
func WithLocale(ctx context.Context, locale string) context.Context {
	lc := extractLogContext(ctx)
	lc.Locale = locale
	return context.WithValue(ctx, logContextKey, lc)
}

// WithArtifactKey adds an encoded artifact key to the context.
func WithArtifactKey(ctx context.Context, key string) context.Context {
	lc := extractLogContext(ctx)
	lc.ArtifactKey = key
	return context.WithValue(ctx, logContextKey, lc)
}

// WithStage adds a resolution stage name to the context.
func WithStage(ctx context.Context, stage string) context.Context {
	lc := extractLogContext(ctx)
	lc.Stage = stage
	return context.WithValue(ctx, logContextKey, lc)
}

// GetContext returns the structured log context from the provided context.
func GetContext(ctx context.Context) LogContext {
	return extractLogContext(ctx)
}

func extractLogContext(ctx context.Context) LogContext {
	if lc, ok := ctx.Value(logContextKey).(LogContext); ok {
		return lc
	}
	return LogContext{}
}

func getLogAttrs(ctx context.Context) []slog.Attr {
	lc := extractLogContext(ctx)
	attrs := []slog.Attr{}

	if lc.RequestID != "" {
		attrs = append(attrs, slog.String("request.id", lc.RequestID))
	}
	if lc.Route != "" {
		attrs = append(attrs, slog.String("route", lc.Route))
	}
	if lc.Locale != "" {
		attrs = append(attrs, slog.String("locale", lc.Locale))
	}
	if lc.ArtifactKey != "" {
		attrs = append(attrs, slog.String("artifact.key", lc.ArtifactKey))
	}
	if lc.Stage != "" {
		attrs = append(attrs, slog.String("stage", lc.Stage))
	}

	return attrs
}

// InfoContext logs an info message with context information.
func InfoContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	allAttrs := append(getLogAttrs(ctx), attrs...)
	slog.LogAttrs(ctx, slog.LevelInfo, msg, allAttrs...)
}

// WarnContext logs a warning message with context information.
func WarnContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	allAttrs := append(getLogAttrs(ctx), attrs...)
	slog.LogAttrs(ctx, slog.LevelWarn, msg, allAttrs...)
}

// ErrorContext logs an error message with context information.
func ErrorContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	allAttrs := append(getLogAttrs(ctx), attrs...)
	slog.LogAttrs(ctx, slog.LevelError, msg, allAttrs...)
}

// DebugContext logs a debug message with context information.
func DebugContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	allAttrs := append(getLogAttrs(ctx), attrs...)
	slog.LogAttrs(ctx, slog.LevelDebug, msg, allAttrs...)
}
