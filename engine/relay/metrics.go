package relay

import (
	"context"
	"fmt"
	"time"

	monitoringmetrics "github.com/startrelay/startrelay/engine/infra/monitoring/metrics"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	outcomeOKValue    = "ok"
	outcomeErrorValue = "error"

	// Step labels for per-command instruments.
	StepTokenFetch   = "token_fetch"
	StepSessionStart = "session_start"
)

// Metrics provides instrumentation for startserver runs. A Metrics built
// without a meter records nothing, so callers never need to branch.
type Metrics struct {
	meter            metric.Meter
	runsTotal        metric.Int64Counter
	runHistogram     metric.Float64Histogram
	commandHistogram metric.Float64Histogram
}

// NewMetrics initializes relay metrics using the provided meter.
func NewMetrics(_ context.Context, meter metric.Meter) (*Metrics, error) {
	m := &Metrics{meter: meter}
	if err := m.init(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Metrics) init() error {
	if m.meter == nil {
		return nil
	}
	var err error
	m.runsTotal, err = m.meter.Int64Counter(
		monitoringmetrics.MetricNameWithSubsystem("relay", "runs_total"),
		metric.WithDescription("Total startserver runs by outcome"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create relay runs counter: %w", err)
	}
	m.runHistogram, err = m.meter.Float64Histogram(
		monitoringmetrics.MetricNameWithSubsystem("relay", "run_duration_seconds"),
		metric.WithDescription("End-to-end startserver run duration"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(monitoringmetrics.CommandDurationBuckets...),
	)
	if err != nil {
		return fmt.Errorf("failed to create relay run duration histogram: %w", err)
	}
	m.commandHistogram, err = m.meter.Float64Histogram(
		monitoringmetrics.MetricNameWithSubsystem("relay", "command_duration_seconds"),
		metric.WithDescription("Duration of individual relayed commands"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(monitoringmetrics.CommandDurationBuckets...),
	)
	if err != nil {
		return fmt.Errorf("failed to create relay command duration histogram: %w", err)
	}
	return nil
}

// ObserveRun records one completed run partitioned by outcome.
func (m *Metrics) ObserveRun(ctx context.Context, status Status, d time.Duration) {
	outcome := outcomeErrorValue
	if status == StatusOK {
		outcome = outcomeOKValue
	}
	if m.runsTotal != nil {
		m.runsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
	}
	if m.runHistogram != nil {
		m.runHistogram.Record(ctx, d.Seconds(), metric.WithAttributes(attribute.String("outcome", outcome)))
	}
}

// ObserveCommand records the duration of one relayed command step.
func (m *Metrics) ObserveCommand(ctx context.Context, step string, exec *Execution) {
	if m.commandHistogram == nil || exec == nil {
		return
	}
	m.commandHistogram.Record(
		ctx,
		exec.Duration.Seconds(),
		metric.WithAttributes(
			attribute.String("step", step),
			attribute.Bool("success", exec.Succeeded()),
		),
	)
}
