package instrument

import (
	"context"
	"time"

	"github.com/vango-dev/loom/pkg/loom"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const defaultTracerName = "loom"

// TracingConfig configures the OpenTelemetry observer.
type TracingConfig struct {
	// TracerName is the name of the tracer (default: "loom").
	TracerName string

	// Tracer overrides the tracer resolved from the global provider.
	Tracer trace.Tracer

	// Attributes are added to every span.
	Attributes []attribute.KeyValue
}

// TracingOption configures the OpenTelemetry observer.
type TracingOption func(*TracingConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) TracingOption {
	return func(c *TracingConfig) {
		c.TracerName = name
	}
}

// WithTracer sets the tracer directly.
func WithTracer(tracer trace.Tracer) TracingOption {
	return func(c *TracingConfig) {
		c.Tracer = tracer
	}
}

// WithAttributes adds attributes to every span.
func WithAttributes(attrs ...attribute.KeyValue) TracingOption {
	return func(c *TracingConfig) {
		c.Attributes = append(c.Attributes, attrs...)
	}
}

// Tracing is a loom.Observer that records one span per commit. The span
// covers the commit itself and carries the effect counts plus the number
// of slices and units the generation took.
//
// The tracer comes from the global OpenTelemetry provider unless WithTracer
// is given; configure it with otel.SetTracerProvider before rendering.
type Tracing struct {
	tracer trace.Tracer
	attrs  []attribute.KeyValue

	gen    uint64
	slices int
	units  int
}

var _ loom.Observer = (*Tracing)(nil)

// NewTracing creates a tracing observer.
func NewTracing(opts ...TracingOption) *Tracing {
	config := TracingConfig{TracerName: defaultTracerName}
	for _, opt := range opts {
		opt(&config)
	}
	tracer := config.Tracer
	if tracer == nil {
		tracer = otel.Tracer(config.TracerName)
	}
	return &Tracing{tracer: tracer, attrs: config.Attributes}
}

// OnSlice implements loom.Observer.
func (t *Tracing) OnSlice(s loom.SliceStats) {
	if s.Generation != t.gen {
		t.gen, t.slices, t.units = s.Generation, 0, 0
	}
	t.slices++
	t.units += s.Units
}

// OnCommit implements loom.Observer.
func (t *Tracing) OnCommit(r *loom.CommitReport, d time.Duration, err error) {
	end := time.Now()
	attrs := append([]attribute.KeyValue{
		attribute.Int64("loom.generation", int64(r.Generation)),
		attribute.Int("loom.placements", r.Placements),
		attribute.Int("loom.updates", r.Updates),
		attribute.Int("loom.deletions", r.Deletions),
		attribute.Int("loom.mutations", r.Mutations),
	}, t.attrs...)
	if t.gen == r.Generation {
		attrs = append(attrs,
			attribute.Int("loom.slices", t.slices),
			attribute.Int("loom.units", t.units),
		)
	}

	_, span := t.tracer.Start(context.Background(), "loom.commit",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
		trace.WithTimestamp(end.Add(-d)),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End(trace.WithTimestamp(end))
}
