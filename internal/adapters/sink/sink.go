// Package sink publishes result documents to files, object storage, Redis,
// or any other ResultSink.
package sink

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/okian/skillboard/pkg/logger"
	"github.com/okian/skillboard/pkg/metrics"
)

// ResultSink stores a named JSON document.
type ResultSink interface {
	// Name identifies the sink in logs and metrics.
	Name() string
	// Write replaces the document called name with v.
	Write(ctx context.Context, name string, v any) error
}

// Encode renders v the way every sink stores it: two-space indent, no HTML
// escaping, trailing newline.
func Encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncode, err)
	}
	return buf.Bytes(), nil
}

type runIDKey struct{}

// WithRunID tags ctx with the collection run that produced the documents.
func WithRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, runIDKey{}, id)
}

// RunID returns the run id set by WithRunID, or "".
func RunID(ctx context.Context) string {
	id, _ := ctx.Value(runIDKey{}).(string)
	return id
}

// Multi writes to every sink in order. A failing sink does not stop the
// others; all failures are joined.
type Multi struct {
	sinks []ResultSink
	log   logger.Logger
}

// NewMulti fans out to sinks.
func NewMulti(sinks ...ResultSink) (*Multi, error) {
	if len(sinks) == 0 {
		return nil, ErrNoSinks
	}
	return &Multi{sinks: sinks, log: logger.Get().Named("sink")}, nil
}

// Name implements ResultSink.
func (m *Multi) Name() string { return "multi" }

// Write implements ResultSink.
func (m *Multi) Write(ctx context.Context, name string, v any) error {
	var errs []error
	for _, s := range m.sinks {
		start := time.Now()
		if err := s.Write(ctx, name, v); err != nil {
			metrics.RecordSinkError(s.Name())
			m.log.Error(ctx, "sink write failed",
				logger.String("sink", s.Name()),
				logger.String("document", name),
				logger.Error(err))
			errs = append(errs, fmt.Errorf("%s: %w", s.Name(), err))
			continue
		}
		ms := float64(time.Since(start).Milliseconds())
		metrics.RecordSinkWrite(s.Name(), ms)
		m.log.Debug(ctx, "document written",
			logger.String("sink", s.Name()),
			logger.String("document", name),
			logger.Float64("latency_ms", ms))
	}
	return errors.Join(errs...)
}
