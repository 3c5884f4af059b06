package tracing

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/cloud-ru/mcp-tvm-go/internal/config"
	"github.com/cloud-ru/mcp-tvm-go/internal/logging"
)

// Version версия сервиса в атрибутах ресурса
const Version = "1.0.0"

// Tracer трейсер сервиса; до InitTracing указывает на глобальный провайдер
var Tracer trace.Tracer = otel.Tracer("mcp-tvm-server")

// InitTracing инициализирует OpenTelemetry трейсинг.
// Возвращает функцию, которая сбрасывает накопленные span'ы при остановке сервиса.
func InitTracing(ctx context.Context, cfg *config.Config) (func(context.Context) error, error) {
	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String(cfg.OTELServiceName),
			semconv.ServiceVersionKey.String(Version),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	exporter, err := newExporter(ctx, cfg.OTELEndpoint)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)

	otel.SetTracerProvider(tp)
	Tracer = otel.Tracer(cfg.OTELServiceName)

	logging.Log.WithField("service", cfg.OTELServiceName).Info("OpenTelemetry инициализирован")
	return tp.Shutdown, nil
}

func newExporter(ctx context.Context, endpoint string) (sdktrace.SpanExporter, error) {
	if endpoint == "" {
		// Для локальной разработки span'ы никуда не отправляются
		logging.Log.Info("OpenTelemetry настроен без экспорта (задайте OTEL_ENDPOINT)")
		return &noopExporter{}, nil
	}
	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpoint(endpoint),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP exporter: %w", err)
	}
	logging.Log.WithField("endpoint", endpoint).Info("OpenTelemetry настроен для OTLP экспорта")
	return exporter, nil
}

// noopExporter - пустой экспортер для локальной разработки
type noopExporter struct{}

func (e *noopExporter) ExportSpans(ctx context.Context, spans []sdktrace.ReadOnlySpan) error {
	return nil
}

func (e *noopExporter) Shutdown(ctx context.Context) error {
	return nil
}
