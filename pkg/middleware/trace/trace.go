package trace

import (
	"context"
	"time"

	"github.com/scienceol/chemstock/pkg/middleware/logger"
	"go.opentelemetry.io/contrib/instrumentation/host"
	"go.opentelemetry.io/contrib/instrumentation/runtime"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

type InitConfig struct {
	ServiceName    string
	Version        string
	TraceEndpoint  string
	MetricEndpoint string
	// Stdout exports to stdout when no endpoint is configured.
	Stdout bool
}

var (
	tracerProvider *sdktrace.TracerProvider
	meterProvider  *sdkmetric.MeterProvider
)

func InitTrace(ctx context.Context, conf *InitConfig) {
	res, err := resource.Merge(resource.Default(), resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(conf.ServiceName),
		semconv.ServiceVersion(conf.Version),
	))
	if err != nil {
		logger.Warnf(ctx, "build otel resource err: %+v", err)
		res = resource.Default()
	}

	spanExporter, err := newSpanExporter(ctx, conf)
	if err != nil {
		logger.Errorf(ctx, "init trace exporter err: %+v", err)
		spanExporter = nil
	}
	tpOpts := []sdktrace.TracerProviderOption{sdktrace.WithResource(res)}
	if spanExporter != nil {
		tpOpts = append(tpOpts, sdktrace.WithBatcher(spanExporter))
	}
	tracerProvider = sdktrace.NewTracerProvider(tpOpts...)
	otel.SetTracerProvider(tracerProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{}, propagation.Baggage{}))

	metricExporter, err := newMetricExporter(ctx, conf)
	if err != nil {
		logger.Errorf(ctx, "init metric exporter err: %+v", err)
		metricExporter = nil
	}
	mpOpts := []sdkmetric.Option{sdkmetric.WithResource(res)}
	if metricExporter != nil {
		mpOpts = append(mpOpts, sdkmetric.WithReader(
			sdkmetric.NewPeriodicReader(metricExporter, sdkmetric.WithInterval(30*time.Second))))
	}
	meterProvider = sdkmetric.NewMeterProvider(mpOpts...)
	otel.SetMeterProvider(meterProvider)

	if metricExporter != nil {
		if err := host.Start(host.WithMeterProvider(meterProvider)); err != nil {
			logger.Warnf(ctx, "start host metrics err: %+v", err)
		}
		if err := runtime.Start(runtime.WithMeterProvider(meterProvider)); err != nil {
			logger.Warnf(ctx, "start runtime metrics err: %+v", err)
		}
	}
}

func newSpanExporter(ctx context.Context, conf *InitConfig) (sdktrace.SpanExporter, error) {
	switch {
	case conf.TraceEndpoint != "":
		return otlptrace.New(ctx, otlptracegrpc.NewClient(
			otlptracegrpc.WithEndpoint(conf.TraceEndpoint),
			otlptracegrpc.WithInsecure(),
		))
	case conf.Stdout:
		return stdouttrace.New(stdouttrace.WithPrettyPrint())
	default:
		return nil, nil
	}
}

func newMetricExporter(ctx context.Context, conf *InitConfig) (sdkmetric.Exporter, error) {
	switch {
	case conf.MetricEndpoint != "":
		return otlpmetricgrpc.New(ctx,
			otlpmetricgrpc.WithEndpoint(conf.MetricEndpoint),
			otlpmetricgrpc.WithInsecure(),
		)
	case conf.Stdout:
		return stdoutmetric.New()
	default:
		return nil, nil
	}
}

func CloseTrace() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if tracerProvider != nil {
		if err := tracerProvider.Shutdown(ctx); err != nil {
			logger.Errorf(ctx, "shutdown tracer provider err: %+v", err)
		}
	}
	if meterProvider != nil {
		if err := meterProvider.Shutdown(ctx); err != nil {
			logger.Errorf(ctx, "shutdown meter provider err: %+v", err)
		}
	}
}
