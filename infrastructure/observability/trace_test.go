package observability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"ai-search-api/pkg/config"
)

func TestHTTPTraceEndpoint(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare host", "http://collector:4318", "http://collector:4318/v1/traces"},
		{"trailing slash", "http://collector:4318/", "http://collector:4318/v1/traces"},
		{"already suffixed", "https://otel.example.com/v1/traces", "https://otel.example.com/v1/traces"},
		{"prefix path", "https://otel.example.com/otlp", "https://otel.example.com/otlp/v1/traces"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := httpTraceEndpoint(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := httpTraceEndpoint("")
	assert.Error(t, err)
	_, err = httpTraceEndpoint("collector:4318")
	assert.Error(t, err)
}

func TestGRPCEndpoint(t *testing.T) {
	tests := []struct {
		in       string
		host     string
		insecure bool
	}{
		{"collector:4317", "collector:4317", true},
		{"http://collector:4317", "collector:4317", true},
		{"grpcs://otel.example.com:443", "otel.example.com:443", false},
	}
	for _, tt := range tests {
		host, insecure, err := grpcEndpoint(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.host, host)
		assert.Equal(t, tt.insecure, insecure)
	}

	_, _, err := grpcEndpoint("ftp://collector:4317")
	assert.Error(t, err)
}

func TestSampler(t *testing.T) {
	assert.Equal(t, sdktrace.AlwaysSample().Description(), Sampler(config.TracingConfig{Sampler: "always_on"}).Description())
	assert.Equal(t, sdktrace.NeverSample().Description(), Sampler(config.TracingConfig{Sampler: "always_off"}).Description())
	assert.Contains(t, Sampler(config.TracingConfig{Sampler: "traceidratio", SamplerArg: 0.25}).Description(), "0.25")
}

func TestNewTracerProvider_ExportsSpans(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp, err := NewTracerProvider(context.Background(), config.TracingConfig{Enabled: true, Sampler: "always_on"}, exporter)
	require.NoError(t, err)

	_, span := tp.Tracer("test").Start(context.Background(), "search.pipeline")
	span.End()

	require.NoError(t, shutdownFunc(tp)(context.Background()))
	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "search.pipeline", spans[0].Name)
}

func TestNewTracerProvider_NilExporter(t *testing.T) {
	_, err := NewTracerProvider(context.Background(), config.TracingConfig{Enabled: true}, nil)
	assert.Error(t, err)
}

func TestInitTracer_Disabled(t *testing.T) {
	previous := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(previous) })

	tp, shutdown, err := InitTracer(context.Background(), config.TracingConfig{})
	require.NoError(t, err)
	assert.Same(t, tp, otel.GetTracerProvider())

	_, span := otel.Tracer("test").Start(context.Background(), "noop")
	assert.False(t, span.IsRecording())
	span.End()

	assert.NoError(t, shutdown(context.Background()))
}

func TestInitTracer_EnabledHTTP(t *testing.T) {
	previous := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(previous) })

	tp, shutdown, err := InitTracer(context.Background(), config.TracingConfig{
		Enabled:  true,
		Endpoint: "http://127.0.0.1:4318",
		Protocol: "http/protobuf",
		Sampler:  "always_on",
	})
	require.NoError(t, err)

	_, span := tp.Tracer("test").Start(context.Background(), "search.pipeline")
	assert.True(t, span.IsRecording())
	span.End()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_ = shutdown(ctx)
}

func TestNewExporter_UnknownProtocol(t *testing.T) {
	_, err := NewExporter(context.Background(), config.TracingConfig{Protocol: "thrift", Endpoint: "http://x"})
	assert.Error(t, err)
}
