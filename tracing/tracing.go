// Package tracing wires OpenTelemetry spans for the Bears API: one server span
// per HTTP request or MCP tool call, with a child span per Wikipedia API call.
package tracing

import (
	"context"
	"io"
	"os"
	"strconv"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.37.0"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the instrumentation scope of every span this service starts
const TracerName = "bears-api"

// Span attribute keys
const (
	attrToolName       = attribute.Key("mcp.tool.name")
	attrToolCategory   = attribute.Key("mcp.tool.category")
	attrUpstreamAction = attribute.Key("wikipedia.api.action")
	attrUpstreamTitle  = attribute.Key("wikipedia.title")
	attrHTTPMethod     = attribute.Key("http.request.method")
	attrHTTPRoute      = attribute.Key("http.route")
	attrHTTPStatus     = attribute.Key("http.response.status_code")
	attrEnvironment    = attribute.Key("deployment.environment.name")
)

// Config holds tracing configuration
type Config struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	Enabled        bool

	// OTLPEndpoint selects the OTLP/HTTP exporter. Empty means spans are
	// pretty-printed to Output.
	OTLPEndpoint string

	// Output receives printed spans. Nil means stderr, because stdout
	// carries MCP frames in stdio mode.
	Output io.Writer

	// SampleRate is the fraction of new traces recorded. Requests that
	// arrive with a trace parent follow the parent's decision.
	SampleRate float64
}

// DefaultConfig reads the standard OTEL_* environment variables
func DefaultConfig() Config {
	endpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	return Config{
		ServiceName:    TracerName,
		ServiceVersion: "1.0.0",
		Environment:    getEnvOrDefault("OTEL_ENVIRONMENT", "development"),
		Enabled:        os.Getenv("OTEL_ENABLED") == "true" || endpoint != "",
		OTLPEndpoint:   endpoint,
		SampleRate:     sampleRateFromEnv("OTEL_TRACES_SAMPLER_ARG", 1.0),
	}
}

// Setup installs a global tracer provider and propagator. The returned
// function flushes pending spans and must be called before exit.
func Setup(ctx context.Context, cfg Config) (func(context.Context) error, error) {
	if !cfg.Enabled {
		return func(context.Context) error { return nil }, nil
	}

	res, err := newResource(cfg)
	if err != nil {
		return nil, err
	}

	exporter, err := newExporter(ctx, cfg)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(newSampler(cfg.SampleRate)),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return tp.Shutdown, nil
}

// newResource merges the SDK defaults with the service identity. The service
// part is schemaless so it never conflicts with the SDK's own schema URL.
func newResource(cfg Config) (*resource.Resource, error) {
	return resource.Merge(
		resource.Default(),
		resource.NewSchemaless(
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(cfg.ServiceVersion),
			attrEnvironment.String(cfg.Environment),
		),
	)
}

func newExporter(ctx context.Context, cfg Config) (sdktrace.SpanExporter, error) {
	if cfg.OTLPEndpoint != "" {
		return otlptracehttp.New(ctx,
			otlptracehttp.WithEndpoint(cfg.OTLPEndpoint),
			otlptracehttp.WithInsecure(),
		)
	}

	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	return stdouttrace.New(
		stdouttrace.WithWriter(out),
		stdouttrace.WithPrettyPrint(),
	)
}

func newSampler(rate float64) sdktrace.Sampler {
	var root sdktrace.Sampler
	switch {
	case rate >= 1:
		root = sdktrace.AlwaysSample()
	case rate <= 0:
		root = sdktrace.NeverSample()
	default:
		root = sdktrace.TraceIDRatioBased(rate)
	}
	return sdktrace.ParentBased(root)
}

// Tracer returns the service tracer from the global provider
func Tracer() trace.Tracer {
	return otel.Tracer(TracerName)
}

// StartSpan starts a span on the service tracer
func StartSpan(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	return Tracer().Start(ctx, name, opts...)
}

// AddToolAttributes tags a span with the MCP tool being invoked
func AddToolAttributes(span trace.Span, toolName, category string) {
	span.SetAttributes(
		attrToolName.String(toolName),
		attrToolCategory.String(category),
	)
}

// AddUpstreamAttributes tags a span with the Wikipedia API action and, when
// known, the page or file title it targets.
func AddUpstreamAttributes(span trace.Span, action, title string) {
	span.SetAttributes(attrUpstreamAction.String(action))
	if title != "" {
		span.SetAttributes(attrUpstreamTitle.String(title))
	}
}

// AddHTTPAttributes tags a server span with the request method, the matched
// route pattern and the response status.
func AddHTTPAttributes(span trace.Span, method, route string, status int) {
	span.SetAttributes(
		attrHTTPMethod.String(method),
		attrHTTPRoute.String(route),
		attrHTTPStatus.Int(status),
	)
}

// RecordError records err on the span and marks it failed. A nil err is a no-op.
func RecordError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

func getEnvOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

// sampleRateFromEnv parses a ratio in [0, 1], falling back on bad input
func sampleRateFromEnv(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	rate, err := strconv.ParseFloat(v, 64)
	if err != nil || rate < 0 || rate > 1 {
		return fallback
	}
	return rate
}
