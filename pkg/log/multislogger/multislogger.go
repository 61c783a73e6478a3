// Package multislogger fans a single slog.Logger out to any number of handlers,
// stamping every record with UTC time and the run's identifying context values.
package multislogger

import (
	"context"
	"io"
	"log/slog"

	slogmulti "github.com/samber/slog-multi"
)

type contextKey string

func (c contextKey) String() string {
	return string(c)
}

const (
	// AnalysisIdKey identifies a single batch run across every log line it produces
	AnalysisIdKey contextKey = "analysis_id"
	// ProjectKey carries the key of the project being analysed
	ProjectKey contextKey = "project_key"
)

// contextAttrKeys are copied from the record's context onto the record, in this order.
var contextAttrKeys = []contextKey{
	AnalysisIdKey,
	ProjectKey,
}

// MultiSlogger embeds the current fanout logger. Loggers derived from it with
// With must be derived again after AddHandler.
type MultiSlogger struct {
	*slog.Logger
	handlers []slog.Handler
}

// New builds a MultiSlogger over h. With no handlers everything is discarded.
func New(h ...slog.Handler) *MultiSlogger {
	ms := &MultiSlogger{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	if len(h) > 0 {
		ms.AddHandler(h...)
	}
	return ms
}

// NewNopLogger returns a slogger that discards everything.
func NewNopLogger() *slog.Logger {
	return New().Logger
}

// AddHandler appends handlers and rebuilds the fanout, since a slogmulti fanout
// cannot grow once created.
func (m *MultiSlogger) AddHandler(handler ...slog.Handler) {
	m.handlers = append(m.handlers, handler...)

	m.Logger = slog.New(
		slogmulti.
			Pipe(slogmulti.NewHandleInlineMiddleware(stampRecord)).
			Handler(slogmulti.Fanout(m.handlers...)),
	)
}

// stampRecord normalizes the record time to UTC and attaches any known context values.
func stampRecord(ctx context.Context, record slog.Record, next func(context.Context, slog.Record) error) error {
	record.Time = record.Time.UTC()

	for _, key := range contextAttrKeys {
		if v := ctx.Value(key); v != nil {
			record.AddAttrs(slog.Any(key.String(), v))
		}
	}

	return next(ctx, record)
}
