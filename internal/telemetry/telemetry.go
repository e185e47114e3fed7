// Package telemetry installs the process-wide OpenTelemetry meter provider and
// reads its counters back for the HTTP API.
package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// Telemetry owns an SDK meter provider backed by an in-process manual reader.
type Telemetry struct {
	reader   *sdkmetric.ManualReader
	provider *sdkmetric.MeterProvider
}

// New creates a provider without registering it globally.
func New() *Telemetry {
	reader := sdkmetric.NewManualReader()
	return &Telemetry{
		reader:   reader,
		provider: sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)),
	}
}

// Setup creates a provider and registers it as the global one.
func Setup() *Telemetry {
	t := New()
	otel.SetMeterProvider(t.provider)
	return t
}

// MeterProvider returns the provider instruments should be created from.
func (t *Telemetry) MeterProvider() metric.MeterProvider {
	return t.provider
}

// Counter returns the cumulative value of the int64 counter name, keyed by the
// string attribute key. Data points without the attribute are summed under "".
// An instrument that has not recorded anything yields an empty map.
func (t *Telemetry) Counter(ctx context.Context, name, key string) (map[string]int64, error) {
	var rm metricdata.ResourceMetrics
	if err := t.reader.Collect(ctx, &rm); err != nil {
		return nil, fmt.Errorf("collect metrics: %w", err)
	}

	counts := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				return nil, fmt.Errorf("metric %s is %T, not an int64 sum", name, m.Data)
			}
			for _, dp := range sum.DataPoints {
				counts[label(dp.Attributes, key)] += dp.Value
			}
		}
	}
	return counts, nil
}

// Shutdown flushes and stops the provider.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	return t.provider.Shutdown(ctx)
}

func label(set attribute.Set, key string) string {
	v, ok := set.Value(attribute.Key(key))
	if !ok {
		return ""
	}
	return v.Emit()
}
