package tracing_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	"github.com/jhoicas/Almacen-api/pkg/config"
	"github.com/jhoicas/Almacen-api/pkg/tracing"
)

func TestSetup_SinExportadorSoloPropagador(t *testing.T) {
	shutdown, err := tracing.Setup(context.Background(), config.OtelConfig{Exporter: tracing.ExporterNone, ServiceName: "almacen-api"}, "test")
	require.NoError(t, err)
	require.NotNil(t, shutdown)

	fields := otel.GetTextMapPropagator().Fields()
	assert.Contains(t, fields, "traceparent")
	assert.Contains(t, fields, "baggage")
	assert.NoError(t, shutdown(context.Background()))
}

func TestSetup_OTLP(t *testing.T) {
	// El exportador HTTP no conecta hasta exportar: crear el proveedor no requiere colector.
	cfg := config.OtelConfig{Exporter: tracing.ExporterOTLP, Endpoint: "localhost:4318", Insecure: true, ServiceName: "almacen-api", SampleRatio: 1}
	shutdown, err := tracing.Setup(context.Background(), cfg, "test")
	require.NoError(t, err)
	_, span := otel.Tracer("test").Start(context.Background(), "op")
	assert.True(t, span.SpanContext().IsValid())
	assert.True(t, span.SpanContext().IsSampled())
	span.End()
	_ = shutdown(context.Background())
}

func TestSetup_Stdout(t *testing.T) {
	shutdown, err := tracing.Setup(context.Background(), config.OtelConfig{Exporter: tracing.ExporterStdout, ServiceName: "almacen-api", SampleRatio: 1}, "test")
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}

func TestSetup_ConfiguracionInvalida(t *testing.T) {
	_, err := tracing.Setup(context.Background(), config.OtelConfig{Exporter: tracing.ExporterOTLP}, "test")
	assert.Error(t, err, "OTLP requiere endpoint")

	_, err = tracing.Setup(context.Background(), config.OtelConfig{Exporter: "jaeger"}, "test")
	assert.Error(t, err)
}
