package telemetry

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"

	fsbilly "github.com/input-output-hk/catalyst-forge-release/fs/billy"
)

func TestNewProvider_Disabled(t *testing.T) {
	provider, err := NewProvider(Config{Enabled: false})
	require.NoError(t, err)

	assert.False(t, provider.Enabled())
	require.NotNil(t, provider.Tracer())

	// Spans on the no-op tracer are safe to start and end.
	ctx, span := provider.StartSpan(context.Background(), "release-run")
	require.NotNil(t, ctx)
	span.End()

	require.NoError(t, provider.Shutdown(context.Background()))
}

func TestNewProvider_NoneExporter(t *testing.T) {
	provider, err := NewProvider(Config{Enabled: true, Exporter: ExporterNone})
	require.NoError(t, err)

	assert.True(t, provider.Enabled())
	require.NoError(t, provider.Shutdown(context.Background()))
}

func TestNewProvider_UnsupportedExporter(t *testing.T) {
	_, err := NewProvider(Config{Enabled: true, Exporter: "jaeger"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported exporter type")
}

func TestNewProvider_FileExporterRequiresPath(t *testing.T) {
	_, err := NewProvider(Config{Enabled: true, Exporter: ExporterFile})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "file_path required")
}

func TestNewProvider_FileExporterWritesSpans(t *testing.T) {
	fsys := fsbilly.NewInMemoryFS()

	provider, err := NewProvider(Config{
		Enabled:  true,
		Exporter: ExporterFile,
		FilePath: "traces/run.jsonl",
	}, WithFS(fsys))
	require.NoError(t, err)

	_, span := provider.StartSpan(context.Background(), "release-run",
		attribute.String("release.tag", "v2.3.0"))
	span.End()

	// Shutdown flushes the batch before closing the exporter.
	require.NoError(t, provider.Shutdown(context.Background()))

	content, err := fsys.ReadFile("traces/run.jsonl")
	require.NoError(t, err)

	var record SpanRecord
	require.NoError(t, json.Unmarshal(content, &record))
	assert.Equal(t, "release-run", record.Name)
	assert.Equal(t, "v2.3.0", record.Attributes["release.tag"])
	assert.NotEmpty(t, record.TraceID)
	assert.NotEmpty(t, record.SpanID)
}

func TestNewProvider_StdoutExporter(t *testing.T) {
	provider, err := NewProvider(Config{Enabled: true, Exporter: ExporterStdout})
	require.NoError(t, err)

	assert.True(t, provider.Enabled())
	require.NoError(t, provider.Shutdown(context.Background()))
}
