// ABOUTME: OpenTelemetry tracer provider setup with OTLP export
// ABOUTME: Installs the global provider and propagator; shutdown flushes pending spans

package observability

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"ai-search-api/pkg/config"
)

const (
	protocolHTTP = "http/protobuf"
	protocolGRPC = "grpc"

	defaultShutdownTimeout = 5 * time.Second
)

// ShutdownFunc flushes and stops the tracer provider
type ShutdownFunc func(context.Context) error

// InitTracer builds a tracer provider from cfg and installs it globally.
// A disabled config installs a provider that never samples.
func InitTracer(ctx context.Context, cfg config.TracingConfig) (*sdktrace.TracerProvider, ShutdownFunc, error) {
	var tp *sdktrace.TracerProvider
	if !cfg.Enabled {
		tp = sdktrace.NewTracerProvider(sdktrace.WithSampler(sdktrace.NeverSample()))
	} else {
		exporter, err := NewExporter(ctx, cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("observability: failed to create OTLP trace exporter: %w", err)
		}
		tp, err = NewTracerProvider(ctx, cfg, exporter)
		if err != nil {
			return nil, nil, err
		}
	}

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return tp, shutdownFunc(tp), nil
}

// NewTracerProvider batches spans from the pipeline into exporter
func NewTracerProvider(ctx context.Context, cfg config.TracingConfig, exporter sdktrace.SpanExporter) (*sdktrace.TracerProvider, error) {
	if exporter == nil {
		return nil, fmt.Errorf("observability: trace exporter cannot be nil when tracing is enabled")
	}

	res, err := resource.New(ctx,
		resource.WithFromEnv(),
		resource.WithProcessRuntimeName(),
		resource.WithProcessRuntimeVersion(),
		resource.WithHost(),
		resource.WithTelemetrySDK(),
		resource.WithAttributes(attribute.String("service.name", serviceName(cfg))),
	)
	// A partial resource still carries the service name.
	if err != nil && !errors.Is(err, resource.ErrPartialResource) {
		return nil, fmt.Errorf("observability: failed to build resource information: %w", err)
	}

	return sdktrace.NewTracerProvider(
		sdktrace.WithSampler(Sampler(cfg)),
		sdktrace.WithResource(res),
		sdktrace.WithBatcher(exporter),
	), nil
}

// NewExporter builds an OTLP exporter for the configured protocol
func NewExporter(ctx context.Context, cfg config.TracingConfig) (sdktrace.SpanExporter, error) {
	switch cfg.Protocol {
	case protocolHTTP, "":
		endpoint, err := httpTraceEndpoint(cfg.Endpoint)
		if err != nil {
			return nil, fmt.Errorf("invalid OTLP HTTP endpoint: %w", err)
		}
		opts := []otlptracehttp.Option{otlptracehttp.WithEndpointURL(endpoint)}
		if strings.HasPrefix(endpoint, "http://") {
			opts = append(opts, otlptracehttp.WithInsecure())
		}
		return otlptracehttp.New(ctx, opts...)
	case protocolGRPC:
		endpoint, insecure, err := grpcEndpoint(cfg.Endpoint)
		if err != nil {
			return nil, fmt.Errorf("invalid OTLP gRPC endpoint: %w", err)
		}
		opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(endpoint)}
		if insecure {
			opts = append(opts, otlptracegrpc.WithInsecure())
		}
		return otlptracegrpc.New(ctx, opts...)
	default:
		return nil, fmt.Errorf("unsupported trace exporter protocol %q", cfg.Protocol)
	}
}

// Sampler maps the OTEL_TRACES_SAMPLER names onto SDK samplers
func Sampler(cfg config.TracingConfig) sdktrace.Sampler {
	switch cfg.Sampler {
	case "always_off":
		return sdktrace.NeverSample()
	case "traceidratio":
		return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SamplerArg))
	case "parentbased_always_on":
		return sdktrace.ParentBased(sdktrace.AlwaysSample())
	default:
		return sdktrace.AlwaysSample()
	}
}

func serviceName(cfg config.TracingConfig) string {
	if name := strings.TrimSpace(cfg.ServiceName); name != "" {
		return name
	}
	return "ai-search-api"
}

// httpTraceEndpoint appends /v1/traces unless the path already ends with it
func httpTraceEndpoint(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("endpoint cannot be empty")
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if parsed.Host == "" {
		return "", fmt.Errorf("endpoint must include a scheme and host")
	}

	const suffix = "/v1/traces"
	path := strings.TrimSuffix(parsed.Path, "/")
	if !strings.HasSuffix(path, suffix) {
		path += suffix
	}
	parsed.Path = path
	return parsed.String(), nil
}

// grpcEndpoint returns host:port and whether the connection is plaintext.
// A bare host:port is treated as plaintext.
func grpcEndpoint(raw string) (string, bool, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false, fmt.Errorf("endpoint cannot be empty")
	}
	if !strings.Contains(raw, "://") {
		return raw, true, nil
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "", false, err
	}
	if parsed.Host == "" {
		return "", false, fmt.Errorf("endpoint must include host")
	}
	switch parsed.Scheme {
	case "http", "grpc":
		return parsed.Host, true, nil
	case "https", "grpcs":
		return parsed.Host, false, nil
	default:
		return "", false, fmt.Errorf("unsupported scheme %q", parsed.Scheme)
	}
}

func shutdownFunc(tp *sdktrace.TracerProvider) ShutdownFunc {
	return func(ctx context.Context) error {
		if _, ok := ctx.Deadline(); !ok {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, defaultShutdownTimeout)
			defer cancel()
		}
		if err := tp.Shutdown(ctx); err != nil {
			return fmt.Errorf("observability: failed to shutdown tracer provider: %w", err)
		}
		return nil
	}
}
