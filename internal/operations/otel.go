package operations

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"ingestcli/internal/infrastructure"
)

const (
	TracerName = "ingestcli.operation"
)

// OperationTracer provides OpenTelemetry instrumentation for pipeline runs
type OperationTracer struct {
	tracer  trace.Tracer
	metrics *infrastructure.PipelineMetrics
}

// NewOperationTracer creates a tracer backed by the given providers
func NewOperationTracer(providers *infrastructure.OTelProviders) (*OperationTracer, error) {
	metrics, err := infrastructure.CreatePipelineMetrics(providers.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create pipeline metrics: %w", err)
	}

	tracer := providers.Tracer
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer(TracerName)
	}

	return &OperationTracer{
		tracer:  tracer,
		metrics: metrics,
	}, nil
}

// NewNoopTracer returns a tracer that records nothing
func NewNoopTracer() *OperationTracer {
	return &OperationTracer{tracer: noop.NewTracerProvider().Tracer(TracerName)}
}

// TraceOperationExecution creates a span for the entire run
func (pt *OperationTracer) TraceOperationExecution(ctx context.Context, operationID string) (context.Context, trace.Span) {
	return pt.tracer.Start(ctx, "ingest.run",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("operation.id", operationID),
		),
	)
}

// TraceStepExecution creates a span for one step
func (pt *OperationTracer) TraceStepExecution(ctx context.Context, operationID, stepID string) (context.Context, trace.Span) {
	return pt.tracer.Start(ctx, fmt.Sprintf("ingest.step.%s", stepID),
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("operation.id", operationID),
			attribute.String("step.id", stepID),
		),
	)
}

// RecordStepCompletion ends a step span and records its metrics
func (pt *OperationTracer) RecordStepCompletion(ctx context.Context, span trace.Span, stepID string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	span.SetAttributes(
		attribute.String("step.status", status),
		attribute.Float64("step.duration_seconds", duration.Seconds()),
	)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}

	infrastructure.RecordStepMetrics(ctx, pt.metrics, stepID, duration, err)
	span.End()
}

// RecordOperationCompletion ends the run span and records run metrics
func (pt *OperationTracer) RecordOperationCompletion(ctx context.Context, span trace.Span, duration time.Duration, status OperationStatusValue) {
	span.SetAttributes(
		attribute.String("operation.status", string(status)),
		attribute.Float64("operation.duration_seconds", duration.Seconds()),
	)

	infrastructure.AddSpanEvent(ctx, "operation.completed", map[string]interface{}{
		"status":   string(status),
		"duration": duration.Seconds(),
	})

	if status == OperationStatusCompleted {
		span.SetStatus(codes.Ok, "")
	} else {
		span.SetStatus(codes.Error, fmt.Sprintf("operation %s", status))
	}

	infrastructure.RecordRunMetrics(ctx, pt.metrics, duration, string(status))
	span.End()
}

// RecordRows records how many rows a step produced
func (pt *OperationTracer) RecordRows(ctx context.Context, stepID string, rows int) {
	infrastructure.AddSpanEvent(ctx, "rows", map[string]interface{}{"step": stepID, "rows": rows})
	infrastructure.RecordRows(ctx, pt.metrics, stepID, rows)
}
