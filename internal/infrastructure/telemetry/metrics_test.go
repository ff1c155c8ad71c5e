package telemetry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap"
)

func collect(t *testing.T, reader sdkmetric.Reader) map[string]metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := make(map[string]metricdata.Metrics)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func sumOf(t *testing.T, m metricdata.Metrics) int64 {
	t.Helper()
	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok, m.Name)
	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	return total
}

func TestMeterProvider_Disabled(t *testing.T) {
	mp, err := NewMeterProvider(context.Background(), Config{}, zap.NewNop())
	require.NoError(t, err)
	assert.False(t, mp.IsEnabled())
	assert.NotNil(t, mp.Meter("x"))
	assert.NoError(t, mp.Shutdown(context.Background()))
}

func TestBalanceMetrics(t *testing.T) {
	ctx := context.Background()
	reader := sdkmetric.NewManualReader()
	mp, err := NewMeterProviderWithReader(Config{ServiceName: "ledger-test"}, reader, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = mp.Shutdown(ctx) })

	m, err := NewBalanceMetrics(mp.Meter(TracerName))
	require.NoError(t, err)

	m.RecordComputation(ctx, OperationBalanceAt, 3*time.Millisecond, nil)
	m.RecordComputation(ctx, OperationBalanceAt, time.Millisecond, errors.New("x"))
	m.RecordComputation(ctx, OperationBalanceSeries, 9*time.Millisecond, nil)
	m.RecordCacheLookup(ctx, "hit")
	m.RecordCacheLookup(ctx, "miss")
	m.RecordStoreFailure(ctx, "transactions")
	m.RecordSeriesPoints(ctx, 31)

	metrics := collect(t, reader)
	assert.Equal(t, int64(3), sumOf(t, metrics["ledger.balance.computations"]))
	assert.Equal(t, int64(2), sumOf(t, metrics["ledger.balance.cache_lookups"]))
	assert.Equal(t, int64(1), sumOf(t, metrics["ledger.balance.store_failures"]))

	hist, ok := metrics["ledger.balance.series_points"].Data.(metricdata.Histogram[int64])
	require.True(t, ok)
	require.Len(t, hist.DataPoints, 1)
	assert.Equal(t, int64(31), hist.DataPoints[0].Sum)
}

func TestBalanceMetrics_NilIsNoop(t *testing.T) {
	var m *BalanceMetrics
	assert.NotPanics(t, func() {
		m.RecordComputation(context.Background(), OperationBalanceAt, time.Second, nil)
		m.RecordCacheLookup(context.Background(), "hit")
		m.RecordStoreFailure(context.Background(), "q")
		m.RecordSeriesPoints(context.Background(), 1)
	})
}
