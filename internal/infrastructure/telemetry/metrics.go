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

// MeterOption configures NewMeterProvider.
type MeterOption func(*meterOptions)

type meterOptions struct {
	reader sdkmetric.Reader
	global bool
}

// WithMetricReader collects metrics through r instead of a periodic OTLP
// exporter.
func WithMetricReader(r sdkmetric.Reader) MeterOption {
	return func(o *meterOptions) { o.reader = r }
}

// WithoutGlobalMeter leaves the global meter provider untouched.
func WithoutGlobalMeter() MeterOption {
	return func(o *meterOptions) { o.global = false }
}

// MeterProvider wraps the OpenTelemetry MeterProvider with lifecycle management.
type MeterProvider struct {
	provider *sdkmetric.MeterProvider
	logger   *zap.Logger
	config   Config
}

// NewMeterProvider creates and configures a new MeterProvider.
// If telemetry is disabled, it returns a provider that wraps the no-op global meter.
func NewMeterProvider(ctx context.Context, cfg Config, logger *zap.Logger, opts ...MeterOption) (*MeterProvider, error) {
	o := meterOptions{global: true}
	for _, opt := range opts {
		opt(&o)
	}
	mp := &MeterProvider{logger: logger, config: cfg}

	if !cfg.Enabled {
		return mp, nil
	}

	reader := o.reader
	if reader == nil {
		interval := cfg.MetricsInterval
		if interval == 0 {
			interval = 60 * time.Second
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
		reader = sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(interval))
	}

	mp.provider = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(serviceResource(cfg)),
		sdkmetric.WithReader(reader),
	)
	if o.global {
		otel.SetMeterProvider(mp.provider)
	}

	logger.Info("meter provider initialized",
		zap.String("collector_endpoint", cfg.CollectorEndpoint),
		zap.String("service_name", cfg.ServiceName),
	)
	return mp, nil
}

// Shutdown flushes pending metrics and stops the provider.
func (mp *MeterProvider) Shutdown(ctx context.Context) error {
	if mp.provider == nil {
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := mp.provider.Shutdown(shutdownCtx); err != nil {
		mp.logger.Error("error shutting down meter provider", zap.Error(err))
		return fmt.Errorf("failed to shutdown meter provider: %w", err)
	}
	return nil
}

// Meter returns a named meter from the provider.
func (mp *MeterProvider) Meter(name string, opts ...metric.MeterOption) metric.Meter {
	if mp.provider == nil {
		return otel.GetMeterProvider().Meter(name, opts...)
	}
	return mp.provider.Meter(name, opts...)
}

// IsEnabled returns whether metrics are enabled.
func (mp *MeterProvider) IsEnabled() bool {
	return mp.config.Enabled && mp.provider != nil
}

// Record outcomes counted by TransferMetrics.
const (
	OutcomeRead     = "read"
	OutcomeWritten  = "written"
	OutcomeRejected = "rejected"
)

// Attribute keys shared by transfer spans and metrics.
const (
	AttrEntity  = attribute.Key("whippet.entity")
	AttrOutcome = attribute.Key("whippet.outcome")
	AttrStatus  = attribute.Key("whippet.status")
	AttrRunID   = attribute.Key("whippet.run_id")
)

// TransferMetrics counts records moved by transfer runs.
type TransferMetrics struct {
	records  metric.Int64Counter
	duration metric.Float64Histogram
}

// NewTransferMetrics registers the transfer instruments on meter.
func NewTransferMetrics(meter metric.Meter) (*TransferMetrics, error) {
	records, err := meter.Int64Counter("whippet.transfer.records",
		metric.WithDescription("Records processed by transfer runs"),
		metric.WithUnit("{record}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create records counter: %w", err)
	}
	duration, err := meter.Float64Histogram("whippet.transfer.duration",
		metric.WithDescription("Duration of transfer runs"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create duration histogram: %w", err)
	}
	return &TransferMetrics{records: records, duration: duration}, nil
}

// AddRecords counts n records of entity with the given outcome.
func (m *TransferMetrics) AddRecords(ctx context.Context, entity, outcome string, n int64) {
	if m == nil || n == 0 {
		return
	}
	m.records.Add(ctx, n, metric.WithAttributes(AttrEntity.String(entity), AttrOutcome.String(outcome)))
}

// ObserveRun records the duration of one run. status is "ok" or "aborted".
func (m *TransferMetrics) ObserveRun(ctx context.Context, entity, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.duration.Record(ctx, d.Seconds(), metric.WithAttributes(AttrEntity.String(entity), AttrStatus.String(status)))
}
