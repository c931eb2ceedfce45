package otel

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/galaxygarden/nbody-datagen/pkg/core"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploghttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutlog"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

const instrumentationName = "github.com/galaxygarden/nbody-datagen"

// Config holds OTel configuration
type Config struct {
	Enabled     bool
	ServiceName string
	// Writer receives exported logs and metrics
	Writer io.Writer
	// Endpoint is an optional OTLP/HTTP log collector, e.g. "localhost:4318"
	Endpoint string
	Insecure bool
}

// Provider owns the log and meter providers for the lifetime of the process.
type Provider struct {
	logProvider   *sdklog.LoggerProvider
	meterProvider *sdkmetric.MeterProvider
	config        Config
}

// New creates a new OTel provider with the given configuration.
// If OTel is disabled, Meter returns a no-op meter and LoggerProvider nil.
func New(cfg Config) (*Provider, error) {
	p := &Provider{config: cfg}
	if !cfg.Enabled {
		return p, nil
	}
	if cfg.Writer == nil && cfg.Endpoint == "" {
		return nil, fmt.Errorf("OTel enabled but no writer or endpoint configured")
	}

	ctx := context.Background()
	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceName(cfg.ServiceName)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	logOpts := []sdklog.LoggerProviderOption{sdklog.WithResource(res)}
	meterOpts := []sdkmetric.Option{sdkmetric.WithResource(res)}

	if cfg.Writer != nil {
		logExporter, err := stdoutlog.New(stdoutlog.WithWriter(cfg.Writer))
		if err != nil {
			return nil, fmt.Errorf("failed to create log exporter: %w", err)
		}
		// a short-lived CLI cannot wait for batch timers
		logOpts = append(logOpts, sdklog.WithProcessor(sdklog.NewSimpleProcessor(logExporter)))

		metricExporter, err := stdoutmetric.New(
			stdoutmetric.WithWriter(cfg.Writer),
			stdoutmetric.WithPrettyPrint(),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create metric exporter: %w", err)
		}
		meterOpts = append(meterOpts, sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExporter)))
	}

	if cfg.Endpoint != "" {
		otlpOpts := []otlploghttp.Option{otlploghttp.WithEndpoint(cfg.Endpoint)}
		if cfg.Insecure {
			otlpOpts = append(otlpOpts, otlploghttp.WithInsecure())
		}
		otlpExporter, err := otlploghttp.New(ctx, otlpOpts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create OTLP log exporter: %w", err)
		}
		logOpts = append(logOpts, sdklog.WithProcessor(sdklog.NewBatchProcessor(otlpExporter)))
	}

	p.logProvider = sdklog.NewLoggerProvider(logOpts...)
	p.meterProvider = sdkmetric.NewMeterProvider(meterOpts...)
	return p, nil
}

// LoggerProvider returns the log provider for the otelslog bridge.
// Returns nil if OTel is not enabled.
func (p *Provider) LoggerProvider() *sdklog.LoggerProvider {
	return p.logProvider
}

// Meter returns the generator's meter.
func (p *Provider) Meter() metric.Meter {
	if p.meterProvider == nil {
		return noop.Meter{}
	}
	return p.meterProvider.Meter(instrumentationName)
}

// Shutdown flushes pending logs and metrics and stops both providers.
func (p *Provider) Shutdown(ctx context.Context) error {
	var errs []error
	if p.meterProvider != nil {
		if err := p.meterProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("metric shutdown failed: %w", err))
		}
	}
	if p.logProvider != nil {
		if err := p.logProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("log shutdown failed: %w", err))
		}
	}
	return errors.Join(errs...)
}

// Enabled returns whether OTel is enabled
func (p *Provider) Enabled() bool {
	return p.config.Enabled
}

// Instruments are the per-run metrics.
type Instruments struct {
	runs     metric.Int64Counter
	bodies   metric.Int64Counter
	bytes    metric.Int64Counter
	duration metric.Float64Histogram
}

// NewInstruments registers the run instruments on meter.
func NewInstruments(meter metric.Meter) (*Instruments, error) {
	var (
		i   Instruments
		err error
	)
	if i.runs, err = meter.Int64Counter("datagen.runs",
		metric.WithDescription("Completed generation runs")); err != nil {
		return nil, err
	}
	if i.bodies, err = meter.Int64Counter("datagen.bodies",
		metric.WithDescription("Bodies written")); err != nil {
		return nil, err
	}
	if i.bytes, err = meter.Int64Counter("datagen.bytes",
		metric.WithDescription("Uncompressed dataset bytes written"),
		metric.WithUnit("By")); err != nil {
		return nil, err
	}
	if i.duration, err = meter.Float64Histogram("datagen.duration",
		metric.WithDescription("Wall time of a generation run"),
		metric.WithUnit("s")); err != nil {
		return nil, err
	}
	return &i, nil
}

// RecordRun adds one finished run to the instruments.
func (i *Instruments) RecordRun(ctx context.Context, stats core.RunStats) {
	attrs := metric.WithAttributes(attribute.String("scenario", stats.Scenario))
	i.runs.Add(ctx, 1, attrs)
	i.bodies.Add(ctx, stats.Bodies, attrs)
	i.bytes.Add(ctx, stats.Bytes, attrs)
	i.duration.Record(ctx, stats.Duration.Seconds(), attrs)
}
