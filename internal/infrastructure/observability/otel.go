// Package observability wires OpenTelemetry logs, traces and metrics for the taskmarket binaries.
package observability

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploghttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/log"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

const (
	// DefaultServiceName is used when OTEL_SERVICE_NAME is not set.
	DefaultServiceName = "taskmarket"

	exportTimeout = 10 * time.Second
)

// Config holds observability configuration.
type Config struct {
	Enabled     bool   // Whether OpenTelemetry export is enabled
	ServiceName string // Instrumentation scope for the slog bridge (defaults to DefaultServiceName)
}

// Telemetry owns the three providers so a binary can flush them on exit.
type Telemetry struct {
	Logger *slog.Logger

	loggerProvider *log.LoggerProvider
	tracerProvider *sdktrace.TracerProvider
	meterProvider  *sdkmetric.MeterProvider
}

// Setup initializes logging, tracing and metrics and installs the logger as the slog default.
// With export disabled the providers are no-ops and logs go to stdout as JSON.
func Setup(ctx context.Context, cfg Config) (*Telemetry, error) {
	if cfg.ServiceName == "" {
		cfg.ServiceName = DefaultServiceName
	}

	lp, logger, err := InitLogger(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to init logger: %w", err)
	}

	tp, err := InitTracerProvider(ctx, cfg)
	if err != nil {
		return nil, errors.Join(fmt.Errorf("failed to init tracer provider: %w", err), lp.Shutdown(ctx))
	}

	mp, err := InitMeterProvider(ctx, cfg)
	if err != nil {
		return nil, errors.Join(fmt.Errorf("failed to init meter provider: %w", err), tp.Shutdown(ctx), lp.Shutdown(ctx))
	}

	slog.SetDefault(logger)

	return &Telemetry{
		Logger:         logger,
		loggerProvider: lp,
		tracerProvider: tp,
		meterProvider:  mp,
	}, nil
}

// Shutdown flushes and stops every provider. Meter and tracer go first so their
// own errors can still be logged.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	return errors.Join(
		t.meterProvider.Shutdown(ctx),
		t.tracerProvider.Shutdown(ctx),
		t.loggerProvider.Shutdown(ctx),
	)
}

// newResource merges the SDK defaults with attributes from OTEL_RESOURCE_ATTRIBUTES and OTEL_SERVICE_NAME.
//
//	export OTEL_RESOURCE_ATTRIBUTES="service.name=taskmarket,service.version=1.0.0,deployment.environment=production"
func newResource(ctx context.Context) (*resource.Resource, error) {
	serviceResource, err := resource.New(ctx,
		resource.WithFromEnv(),
		resource.WithSchemaURL(semconv.SchemaURL),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create service resource: %w", err)
	}

	res, err := resource.Merge(resource.Default(), serviceResource)
	if err != nil {
		// Partial resources and schema conflicts still yield a usable resource.
		if errors.Is(err, resource.ErrPartialResource) || errors.Is(err, resource.ErrSchemaURLConflict) {
			return res, nil
		}
		return nil, fmt.Errorf("failed to merge resources: %w", err)
	}

	return res, nil
}

// InitTracerProvider initializes an OTLP/HTTP tracer provider and installs it globally
// with W3C trace context and baggage propagation.
//
// Endpoint and headers come from OTEL_EXPORTER_OTLP_ENDPOINT and OTEL_EXPORTER_OTLP_HEADERS.
func InitTracerProvider(ctx context.Context, cfg Config) (*sdktrace.TracerProvider, error) {
	if !cfg.Enabled {
		tp := sdktrace.NewTracerProvider()
		otel.SetTracerProvider(tp)
		return tp, nil
	}

	res, err := newResource(ctx)
	if err != nil {
		return nil, err
	}

	// Exporters outlive ctx; a cancelled ctx here would hang shutdown.
	traceExporter, err := otlptracehttp.New(context.Background(),
		otlptracehttp.WithTimeout(exportTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create trace exporter: %w", err)
	}

	tracerProvider := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithResource(res),
		sdktrace.WithBatcher(traceExporter,
			sdktrace.WithBatchTimeout(5*time.Second),
		),
	)

	otel.SetTracerProvider(tracerProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return tracerProvider, nil
}

// InitMeterProvider initializes an OTLP/HTTP meter provider and installs it globally.
func InitMeterProvider(ctx context.Context, cfg Config) (*sdkmetric.MeterProvider, error) {
	if !cfg.Enabled {
		mp := sdkmetric.NewMeterProvider()
		otel.SetMeterProvider(mp)
		return mp, nil
	}

	res, err := newResource(ctx)
	if err != nil {
		return nil, err
	}

	metricExporter, err := otlpmetrichttp.New(context.Background(),
		otlpmetrichttp.WithTimeout(exportTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create metric exporter: %w", err)
	}

	meterProvider := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExporter,
			sdkmetric.WithInterval(15*time.Second),
		)),
	)

	otel.SetMeterProvider(meterProvider)

	return meterProvider, nil
}

// InitLogger initializes an OTLP/HTTP log provider and a slog logger bridged to it.
func InitLogger(ctx context.Context, cfg Config) (*log.LoggerProvider, *slog.Logger, error) {
	if !cfg.Enabled {
		return log.NewLoggerProvider(), slog.New(slog.NewJSONHandler(os.Stdout, nil)), nil
	}

	res, err := newResource(ctx)
	if err != nil {
		return nil, nil, err
	}

	logExporter, err := otlploghttp.New(context.Background(),
		otlploghttp.WithTimeout(exportTimeout),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create log exporter: %w", err)
	}

	loggerProvider := log.NewLoggerProvider(
		log.WithProcessor(log.NewBatchProcessor(logExporter,
			log.WithExportTimeout(5*time.Second),
		)),
		log.WithResource(res),
	)

	logger := otelslog.NewLogger(cfg.ServiceName, otelslog.WithLoggerProvider(loggerProvider))

	return loggerProvider, logger, nil
}
