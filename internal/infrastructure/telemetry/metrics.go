package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/zap"
)

const defaultExportInterval = 60 * time.Second

// MeterProvider wraps the SDK meter provider with lifecycle management
type MeterProvider struct {
	provider *sdkmetric.MeterProvider
	logger   *zap.Logger
}

// NewMeterProvider exports metrics over OTLP/gRPC every minute when
// cfg.Enabled is set.
func NewMeterProvider(ctx context.Context, cfg Config, logger *zap.Logger) (*MeterProvider, error) {
	if !cfg.Enabled {
		return &MeterProvider{logger: logger}, nil
	}

	exporterOpts := []otlpmetricgrpc.Option{
		otlpmetricgrpc.WithEndpoint(cfg.CollectorEndpoint),
	}
	if cfg.Insecure {
		exporterOpts = append(exporterOpts, otlpmetricgrpc.WithInsecure())
	}
	exporter, err := otlpmetricgrpc.New(ctx, exporterOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP metrics exporter: %w", err)
	}

	return NewMeterProviderWithReader(cfg,
		sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(defaultExportInterval)),
		logger,
	)
}

// NewMeterProviderWithReader installs a provider collected by reader as the
// global meter provider.
func NewMeterProviderWithReader(cfg Config, reader sdkmetric.Reader, logger *zap.Logger) (*MeterProvider, error) {
	res, err := newResource(cfg.ServiceName)
	if err != nil {
		return nil, err
	}

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(reader),
	)
	otel.SetMeterProvider(provider)

	logger.Info("OpenTelemetry MeterProvider initialized", zap.String("service_name", cfg.ServiceName))
	return &MeterProvider{provider: provider, logger: logger}, nil
}

// Meter returns a named meter, from the global provider when disabled
func (mp *MeterProvider) Meter(name string, opts ...metric.MeterOption) metric.Meter {
	if mp.provider == nil {
		return otel.GetMeterProvider().Meter(name, opts...)
	}
	return mp.provider.Meter(name, opts...)
}

func (mp *MeterProvider) IsEnabled() bool {
	return mp.provider != nil
}

// Shutdown flushes pending metrics
func (mp *MeterProvider) Shutdown(ctx context.Context) error {
	if mp.provider == nil {
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := mp.provider.Shutdown(shutdownCtx); err != nil {
		mp.logger.Error("Error shutting down meter provider", zap.Error(err))
		return fmt.Errorf("failed to shutdown meter provider: %w", err)
	}
	return nil
}

// Metric attribute keys
const (
	AttrOperation attribute.Key = "operation"
	AttrOutcome   attribute.Key = "outcome"
	AttrQuery     attribute.Key = "query"
)

// Balance operations
const (
	OperationBalanceAt     = "balance_at"
	OperationBalanceSeries = "balance_series"
)

// BalanceMetrics records how the balance engine performs
type BalanceMetrics struct {
	computations  metric.Int64Counter
	duration      metric.Float64Histogram
	cacheLookups  metric.Int64Counter
	storeFailures metric.Int64Counter
	seriesPoints  metric.Int64Histogram
}

// NewBalanceMetrics creates the balance instruments on meter
func NewBalanceMetrics(meter metric.Meter) (*BalanceMetrics, error) {
	computations, err := meter.Int64Counter("ledger.balance.computations",
		metric.WithDescription("Balance computations by operation and outcome"),
		metric.WithUnit("{computation}"))
	if err != nil {
		return nil, fmt.Errorf("failed to create computations counter: %w", err)
	}

	duration, err := meter.Float64Histogram("ledger.balance.duration",
		metric.WithDescription("Time spent computing balances"),
		metric.WithUnit("ms"),
		metric.WithExplicitBucketBoundaries(1, 5, 10, 25, 50, 100, 250, 500, 1000))
	if err != nil {
		return nil, fmt.Errorf("failed to create duration histogram: %w", err)
	}

	cacheLookups, err := meter.Int64Counter("ledger.balance.cache_lookups",
		metric.WithDescription("Balance cache lookups by outcome (hit, miss, error)"),
		metric.WithUnit("{lookup}"))
	if err != nil {
		return nil, fmt.Errorf("failed to create cache counter: %w", err)
	}

	storeFailures, err := meter.Int64Counter("ledger.balance.store_failures",
		metric.WithDescription("Store queries that failed during a balance computation"),
		metric.WithUnit("{failure}"))
	if err != nil {
		return nil, fmt.Errorf("failed to create store failure counter: %w", err)
	}

	seriesPoints, err := meter.Int64Histogram("ledger.balance.series_points",
		metric.WithDescription("Points returned per balance series"),
		metric.WithUnit("{point}"),
		metric.WithExplicitBucketBoundaries(1, 7, 31, 92, 366, 1000, 3660))
	if err != nil {
		return nil, fmt.Errorf("failed to create series points histogram: %w", err)
	}

	return &BalanceMetrics{
		computations:  computations,
		duration:      duration,
		cacheLookups:  cacheLookups,
		storeFailures: storeFailures,
		seriesPoints:  seriesPoints,
	}, nil
}

// RecordComputation records one finished computation. A nil receiver is a no-op.
func (m *BalanceMetrics) RecordComputation(ctx context.Context, operation string, elapsed time.Duration, err error) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	attrs := metric.WithAttributes(AttrOperation.String(operation), AttrOutcome.String(outcome))
	m.computations.Add(ctx, 1, attrs)
	m.duration.Record(ctx, float64(elapsed.Microseconds())/1000, attrs)
}

// RecordCacheLookup records a cache hit, miss or error
func (m *BalanceMetrics) RecordCacheLookup(ctx context.Context, outcome string) {
	if m == nil {
		return
	}
	m.cacheLookups.Add(ctx, 1, metric.WithAttributes(AttrOutcome.String(outcome)))
}

// RecordStoreFailure records a failed store query
func (m *BalanceMetrics) RecordStoreFailure(ctx context.Context, query string) {
	if m == nil {
		return
	}
	m.storeFailures.Add(ctx, 1, metric.WithAttributes(AttrQuery.String(query)))
}

// RecordSeriesPoints records the length of a returned series
func (m *BalanceMetrics) RecordSeriesPoints(ctx context.Context, points int) {
	if m == nil {
		return
	}
	m.seriesPoints.Record(ctx, int64(points))
}
