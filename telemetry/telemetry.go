// Package telemetry provides OpenTelemetry tracing for release runs. A run
// opens a root span and a child span per pipeline step, so a failed run can
// be reconstructed from its trace alone.
//
// Runs are one-shot, so there is no collector integration. Spans export to
// a JSONL file or to stdout, or nowhere at all.
package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/input-output-hk/catalyst-forge-release/fs"
	fsbilly "github.com/input-output-hk/catalyst-forge-release/fs/billy"
)

// DefaultServiceName identifies this tool in exported spans.
const DefaultServiceName = "forge-release"

// Exporter backends.
const (
	// ExporterNone keeps tracing active for correlation without exporting.
	ExporterNone = "none"

	// ExporterFile appends JSONL span records to FilePath.
	ExporterFile = "file"

	// ExporterStdout pretty-prints spans to standard output.
	ExporterStdout = "stdout"
)

// Config configures the tracing subsystem.
type Config struct {
	// Enabled controls whether tracing is active. When false, a no-op
	// tracer is used.
	Enabled bool

	// Exporter selects the export backend: "none", "file", or "stdout".
	Exporter string

	// FilePath is the output file for the file exporter.
	FilePath string

	// SampleRate controls the fraction of traces to sample. 1.0 samples
	// everything.
	SampleRate float64

	// ServiceName identifies this service in traces.
	ServiceName string
}

// Provider manages the OpenTelemetry tracer provider. It wraps the
// underlying TracerProvider and provides convenient methods for getting
// tracers and shutting down cleanly.
type Provider struct {
	provider *sdktrace.TracerProvider
	tracer   trace.Tracer
	enabled  bool
}

type providerOptions struct {
	fsys fs.WriteFS
}

// ProviderOption configures provider construction.
type ProviderOption func(*providerOptions)

// WithFS sets the filesystem the file exporter writes to. Defaults to the
// host filesystem.
func WithFS(fsys fs.WriteFS) ProviderOption {
	return func(o *providerOptions) {
		if fsys != nil {
			o.fsys = fsys
		}
	}
}

// NewProvider creates and configures the trace provider. If tracing is
// disabled in the config, a no-op provider with zero overhead is returned.
func NewProvider(cfg Config, opts ...ProviderOption) (*Provider, error) {
	if !cfg.Enabled {
		return &Provider{
			tracer:  noop.NewTracerProvider().Tracer("noop"),
			enabled: false,
		}, nil
	}

	options := providerOptions{fsys: fsbilly.NewOSFS("/")}
	for _, opt := range opts {
		opt(&options)
	}

	var exporter sdktrace.SpanExporter
	var err error

	switch cfg.Exporter {
	case ExporterFile:
		if cfg.FilePath == "" {
			return nil, fmt.Errorf("file_path required for file exporter")
		}
		exporter, err = NewFileExporter(options.fsys, cfg.FilePath)
		if err != nil {
			return nil, fmt.Errorf("create file exporter: %w", err)
		}
	case ExporterStdout:
		exporter, err = stdouttrace.New(stdouttrace.WithPrettyPrint())
		if err != nil {
			return nil, fmt.Errorf("create stdout exporter: %w", err)
		}
	case ExporterNone, "":
		// Tracing stays enabled for span correlation, nothing is exported.
		exporter = nil
	default:
		return nil, fmt.Errorf("unsupported exporter type: %s", cfg.Exporter)
	}

	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = DefaultServiceName
	}

	// NewSchemaless avoids schema version conflicts with resource.Default().
	res := resource.NewSchemaless(
		attribute.String("service.name", serviceName),
	)

	sampleRate := cfg.SampleRate
	if sampleRate <= 0 {
		sampleRate = 1.0
	}
	sampler := sdktrace.ParentBased(
		sdktrace.TraceIDRatioBased(sampleRate),
	)

	providerOpts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler),
	}
	if exporter != nil {
		providerOpts = append(providerOpts, sdktrace.WithBatcher(exporter))
	}

	provider := sdktrace.NewTracerProvider(providerOpts...)
	otel.SetTracerProvider(provider)

	return &Provider{
		provider: provider,
		tracer:   provider.Tracer(serviceName),
		enabled:  true,
	}, nil
}

// Tracer returns the configured tracer for creating spans. The returned
// tracer is safe to use even when tracing is disabled.
func (p *Provider) Tracer() trace.Tracer {
	return p.tracer
}

// Enabled returns whether tracing is enabled.
func (p *Provider) Enabled() bool {
	return p.enabled
}

// StartSpan starts a span on the provider's tracer with the given
// attributes.
func (p *Provider) StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return p.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// Shutdown flushes pending spans and shuts down the provider. It should be
// called before exit so all spans are exported.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p.provider != nil {
		return p.provider.Shutdown(ctx)
	}
	return nil
}
