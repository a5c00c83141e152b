// Package tracing sets up OpenTelemetry for itinerary-service. Spans opened
// here are named "itinerary.<step>" for service work and
// "itinerary.<collaborator>.<operation>" for calls to external collaborators
// (content generation, pricing), and carry the request id.
package tracing

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	pkgctx "github.com/baechuer/real-time-ressys/services/itinerary-service/internal/pkg/context"
)

const (
	instrumentationName = "github.com/baechuer/real-time-ressys/services/itinerary-service"
	spanPrefix          = "itinerary."

	AttrRequestID    = attribute.Key("itinerary.request_id")
	AttrCollaborator = attribute.Key("itinerary.collaborator")
)

type Config struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	OTLPEndpoint   string // host:port of an OTLP/HTTP collector
	Enabled        bool
}

// Provider owns the SDK tracer provider; it is nil when tracing is off and
// spans go to the global no-op tracer.
type Provider struct {
	sdk *sdktrace.TracerProvider
}

// InitTracing installs the global tracer provider and W3C propagation. It is
// a no-op unless enabled with an endpoint.
func InitTracing(ctx context.Context, cfg Config) (*Provider, error) {
	if !cfg.Enabled || cfg.OTLPEndpoint == "" {
		return &Provider{}, nil
	}

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpoint(cfg.OTLPEndpoint),
		otlptracehttp.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}

	attrs := []attribute.KeyValue{
		semconv.ServiceName(cfg.ServiceName),
		semconv.ServiceVersion(cfg.ServiceVersion),
	}
	if cfg.Environment != "" {
		attrs = append(attrs, semconv.DeploymentEnvironment(cfg.Environment))
	}
	res, err := resource.Merge(resource.Default(), resource.NewWithAttributes(semconv.SchemaURL, attrs...))
	if err != nil {
		return nil, err
	}

	sdk := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter, sdktrace.WithBatchTimeout(5*time.Second)),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.AlwaysSample())),
	)

	otel.SetTracerProvider(sdk)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	return &Provider{sdk: sdk}, nil
}

func (p *Provider) Enabled() bool { return p.sdk != nil }

// Shutdown flushes pending spans.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p.sdk == nil {
		return nil
	}
	return p.sdk.Shutdown(ctx)
}

// StartSpan opens an internal span named "itinerary.<step>".
func StartSpan(ctx context.Context, step string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return start(ctx, spanPrefix+step, trace.SpanKindInternal, attrs)
}

// StartCollaboratorSpan opens a client span around one call to an external
// collaborator, named "itinerary.<collaborator>.<operation>".
func StartCollaboratorSpan(ctx context.Context, collaborator, operation string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append(attrs, AttrCollaborator.String(collaborator))
	return start(ctx, spanPrefix+collaborator+"."+operation, trace.SpanKindClient, attrs)
}

func start(ctx context.Context, name string, kind trace.SpanKind, attrs []attribute.KeyValue) (context.Context, trace.Span) {
	if id := pkgctx.GetRequestID(ctx); id != "" {
		attrs = append(attrs, AttrRequestID.String(id))
	}
	return otel.Tracer(instrumentationName).Start(ctx, name,
		trace.WithSpanKind(kind),
		trace.WithAttributes(attrs...),
	)
}

// End records err on the span, if any, and ends it.
func End(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
