package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"
)

func TestInitLogger_ProductionWritesJSON(t *testing.T) {
	previous := log.Logger
	t.Cleanup(func() {
		log.Logger = previous
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	})

	var buf bytes.Buffer
	initLogger(&buf, "cep-store", "production", "debug")

	ComponentLogger(context.Background(), "locator").Debug().Str("cep", "01001000").Msg("lookup")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "cep-store", entry["service"])
	assert.Equal(t, "locator", entry["component"])
	assert.Equal(t, "01001000", entry["cep"])
	assert.Equal(t, "debug", entry["level"])
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.InfoLevel, parseLevel(""))
	assert.Equal(t, zerolog.InfoLevel, parseLevel("loud"))
	assert.Equal(t, zerolog.WarnLevel, parseLevel(" WARN "))
}

func TestMetricHelpers_NilSafe(t *testing.T) {
	ctx := context.Background()
	assert.NotPanics(t, func() {
		RecordRequestMetric(ctx, nil, "GET", "/health", 200, time.Millisecond)
		RecordCacheHit(ctx, nil)
		RecordCacheMiss(ctx, nil)
		RecordUpstreamMetric(ctx, nil, "viacep", errors.New("x"), time.Millisecond)
		RecordClassification(ctx, nil, "PDV")
	})
}

func TestNewMetrics_NoopMeter(t *testing.T) {
	metrics, err := NewMetrics(noop.NewMeterProvider().Meter("test"))
	require.NoError(t, err)

	ctx := context.Background()
	assert.NotPanics(t, func() {
		RecordRequestMetric(ctx, metrics, "GET", "/api/stores/by-cep", 200, time.Millisecond)
		RecordUpstreamMetric(ctx, metrics, "melhorenvio", nil, time.Millisecond)
		RecordClassification(ctx, metrics, "LOJA")
	})
}
