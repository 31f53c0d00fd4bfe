package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"

	"github.com/jhoicas/Almacen-api/pkg/logger"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	return out
}

func TestLogger_CamposFijos(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Env: "production", Level: "info", Service: "almacen-api", Output: &buf})

	log.Component("space").Info().Str("zone", "A").Msg("zona")

	line := decodeLine(t, &buf)
	assert.Equal(t, "almacen-api", line["service"])
	assert.Equal(t, "space", line["component"])
	assert.Equal(t, "A", line["zone"])
	assert.Equal(t, "info", line["level"])
}

func TestLogger_NivelFiltra(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Env: "production", Level: "WARN", Output: &buf})

	log.Info().Msg("no")
	assert.Zero(t, buf.Len())

	log.Warn().Msg("sí")
	assert.NotZero(t, buf.Len())
}

func TestLogger_CtxConTraza(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Env: "production", Output: &buf})

	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	}))

	log.Ctx(ctx).Info().Msg("con traza")
	line := decodeLine(t, &buf)
	assert.Equal(t, traceID.String(), line["trace_id"])
	assert.Equal(t, spanID.String(), line["span_id"])

	buf.Reset()
	log.Ctx(context.Background()).Info().Msg("sin traza")
	assert.NotContains(t, decodeLine(t, &buf), "trace_id")
}

func TestNop(t *testing.T) {
	assert.NotPanics(t, func() {
		logger.Nop().Component("x").Ctx(context.Background()).Error().Msg("descartado")
	})
}
