package observability

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/rhuss/litedemo"

// Span wraps an OpenTelemetry span for one completion call. For streaming
// calls it tracks time to first chunk and the chunk count. End is safe to
// call more than once.
type Span struct {
	span   trace.Span
	start  time.Time
	chunks int
	once   sync.Once
}

// StartSpan opens a span named "litedemo.<method>" for a completion call.
// The tracer is looked up from the global provider on every call.
func StartSpan(ctx context.Context, provider, model, method string) (context.Context, *Span) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "litedemo."+method,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("gen_ai.operation.name", "chat"),
			attribute.String("gen_ai.system", provider),
			attribute.String("gen_ai.request.model", model),
		),
	)
	return ctx, &Span{span: span, start: time.Now()}
}

// OnChunk records the arrival of a stream chunk.
func (s *Span) OnChunk() {
	s.chunks++
	if s.chunks == 1 {
		s.span.SetAttributes(attribute.Float64("litedemo.time_to_first_chunk",
			time.Since(s.start).Seconds()))
	}
}

// OnResponse records response metadata.
func (s *Span) OnResponse(model string, promptTokens, completionTokens int) {
	if model != "" {
		s.span.SetAttributes(attribute.String("gen_ai.response.model", model))
	}
	s.span.SetAttributes(
		attribute.Int("gen_ai.usage.input_tokens", promptTokens),
		attribute.Int("gen_ai.usage.output_tokens", completionTokens),
	)
}

// OnError marks the span as failed.
func (s *Span) OnError(err error) {
	s.span.RecordError(err)
	s.span.SetStatus(codes.Error, err.Error())
}

// End finishes the span.
func (s *Span) End() {
	s.once.Do(func() {
		if s.chunks > 0 {
			s.span.SetAttributes(attribute.Int("litedemo.chunks", s.chunks))
		}
		s.span.End()
	})
}
