package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap"
)

func TestNewMeterProvider_Disabled(t *testing.T) {
	mp, err := NewMeterProvider(context.Background(), Config{}, zap.NewNop())
	require.NoError(t, err)

	assert.False(t, mp.IsEnabled())
	assert.NotNil(t, mp.Meter("test"))
	assert.NoError(t, mp.Shutdown(context.Background()))
}

func TestTransferMetrics(t *testing.T) {
	ctx := context.Background()
	reader := sdkmetric.NewManualReader()
	mp, err := NewMeterProvider(ctx, Config{Enabled: true, ServiceName: "whippet"}, zap.NewNop(),
		WithMetricReader(reader), WithoutGlobalMeter())
	require.NoError(t, err)
	defer func() { _ = mp.Shutdown(ctx) }()
	require.True(t, mp.IsEnabled())

	m, err := NewTransferMetrics(mp.Meter(TracerName))
	require.NoError(t, err)
	m.AddRecords(ctx, "Country", OutcomeRead, 3)
	m.AddRecords(ctx, "Country", OutcomeRejected, 0)
	m.ObserveRun(ctx, "Country", "ok", 1500*time.Millisecond)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))
	require.Len(t, rm.ScopeMetrics, 1)

	byName := map[string]metricdata.Metrics{}
	for _, metric := range rm.ScopeMetrics[0].Metrics {
		byName[metric.Name] = metric
	}

	records, ok := byName["whippet.transfer.records"].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, records.DataPoints, 1, "zero counts are not recorded")
	assert.Equal(t, int64(3), records.DataPoints[0].Value)
	entity, _ := records.DataPoints[0].Attributes.Value(AttrEntity)
	assert.Equal(t, "Country", entity.AsString())

	duration, ok := byName["whippet.transfer.duration"].Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, duration.DataPoints, 1)
	assert.Equal(t, 1.5, duration.DataPoints[0].Sum)
}

func TestTransferMetrics_NilIsNoop(t *testing.T) {
	var m *TransferMetrics

	assert.NotPanics(t, func() {
		m.AddRecords(context.Background(), "Country", OutcomeRead, 1)
		m.ObserveRun(context.Background(), "Country", "ok", time.Second)
	})
}
