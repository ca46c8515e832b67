package xmetrics

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	defaultInstrumentationName = "github.com/omeyang/xrlog/xmetrics"

	metricWriteBytes    = "xrlog.write.bytes"
	metricRotationTotal = "xrlog.rotation.total"
	metricWriteErrors   = "xrlog.write.errors"
	metricDroppedLines  = "xrlog.relay.dropped"

	// attrResult 轮转结果属性 key，取值 ok / error
	attrResult = "result"
)

type otelConfig struct {
	instrumentationName string
	meterProvider       metric.MeterProvider
}

// Option 定义 OTel Observer 的配置选项。
type Option func(*otelConfig)

// WithInstrumentationName 设置 OTel instrumentation 名称。
func WithInstrumentationName(name string) Option {
	return func(cfg *otelConfig) {
		if name != "" {
			cfg.instrumentationName = name
		}
	}
}

// WithMeterProvider 设置 MeterProvider。
func WithMeterProvider(provider metric.MeterProvider) Option {
	return func(cfg *otelConfig) {
		if provider != nil {
			cfg.meterProvider = provider
		}
	}
}

// otelObserver 基于 OpenTelemetry 计数器的 Observer 实现。
type otelObserver struct {
	writeBytes  metric.Int64Counter
	rotations   metric.Int64Counter
	writeErrors metric.Int64Counter
	dropped     metric.Int64Counter
}

// NewOTel 创建基于 OpenTelemetry 的 Observer。
//
// 默认使用全局 MeterProvider，可通过 [WithMeterProvider] 注入。
func NewOTel(opts ...Option) (Observer, error) {
	cfg := &otelConfig{
		instrumentationName: defaultInstrumentationName,
		meterProvider:       otel.GetMeterProvider(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}

	meter := cfg.meterProvider.Meter(cfg.instrumentationName)

	writeBytes, err := meter.Int64Counter(
		metricWriteBytes,
		metric.WithDescription("bytes written to the active log file"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, fmt.Errorf("xmetrics: create counter failed: %w", err)
	}

	rotations, err := meter.Int64Counter(
		metricRotationTotal,
		metric.WithDescription("log file rotations, by result"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("xmetrics: create counter failed: %w", err)
	}

	writeErrors, err := meter.Int64Counter(
		metricWriteErrors,
		metric.WithDescription("failed log writes"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("xmetrics: create counter failed: %w", err)
	}

	dropped, err := meter.Int64Counter(
		metricDroppedLines,
		metric.WithDescription("lines dropped by the async relay"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("xmetrics: create counter failed: %w", err)
	}

	return &otelObserver{
		writeBytes:  writeBytes,
		rotations:   rotations,
		writeErrors: writeErrors,
		dropped:     dropped,
	}, nil
}

// WriteBytes 上报写入字节数。
func (o *otelObserver) WriteBytes(n int) {
	o.writeBytes.Add(context.Background(), int64(n))
}

// Rotation 上报一次轮转及其结果。
func (o *otelObserver) Rotation(err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	o.rotations.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String(attrResult, result)))
}

// WriteError 上报一次写入失败。
func (o *otelObserver) WriteError() {
	o.writeErrors.Add(context.Background(), 1)
}

// Dropped 上报一次丢行。
func (o *otelObserver) Dropped() {
	o.dropped.Add(context.Background(), 1)
}
