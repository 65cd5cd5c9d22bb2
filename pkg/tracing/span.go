// Package tracing provides lightweight in-process spans that propagate
// through Go contexts and are emitted as structured slog records. It is not
// a distributed tracer; the trace ID only correlates log lines for one
// logical operation.
package tracing

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

type contextKey struct{}

// Span is one timed step of an operation. Child spans attach to the span
// found in the context they were started from.
type Span struct {
	Name    string
	TraceID string

	mu       sync.Mutex
	start    time.Time
	duration time.Duration
	attrs    []any
	children []*Span
}

// Start begins a root span and returns a context carrying it.
func Start(ctx context.Context, name, traceID string) (context.Context, *Span) {
	s := &Span{Name: name, TraceID: traceID, start: time.Now()}
	return context.WithValue(ctx, contextKey{}, s), s
}

// Child begins a span under the one carried by ctx. Without a parent in ctx
// it behaves like Start with an empty trace ID.
func Child(ctx context.Context, name string) (context.Context, *Span) {
	s := &Span{Name: name, start: time.Now()}
	if parent := FromContext(ctx); parent != nil {
		s.TraceID = parent.TraceID
		parent.mu.Lock()
		parent.children = append(parent.children, s)
		parent.mu.Unlock()
	}
	return context.WithValue(ctx, contextKey{}, s), s
}

// FromContext returns the span carried by ctx, or nil.
func FromContext(ctx context.Context) *Span {
	s, _ := ctx.Value(contextKey{}).(*Span)
	return s
}

// End freezes the span's duration. Safe to call once per span.
func (s *Span) End() {
	s.mu.Lock()
	s.duration = time.Since(s.start)
	s.mu.Unlock()
}

// SetAttr attaches a key-value pair emitted with the span's log record.
func (s *Span) SetAttr(key string, value any) {
	s.mu.Lock()
	s.attrs = append(s.attrs, key, value)
	s.mu.Unlock()
}

// Log emits the span and its children as slog records, children indented by
// depth.
func (s *Span) Log() {
	s.log(0)
}

func (s *Span) log(depth int) {
	s.mu.Lock()
	attrs := []any{
		"trace_id", s.TraceID,
		"span", s.Name,
		"duration_ms", s.duration.Milliseconds(),
		"depth", depth,
	}
	attrs = append(attrs, s.attrs...)
	children := s.children
	s.mu.Unlock()

	slog.Info("span", attrs...)
	for _, child := range children {
		child.log(depth + 1)
	}
}
