package processor

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/nguyentantai21042004/atci/internal/logger"
)

const meterName = "github.com/nguyentantai21042004/atci/processor"

const (
	// ItemsMetric counts handled queue entries.
	ItemsMetric = "atci.processor.items"
	// OutcomeKey is the attribute ItemsMetric is split by.
	OutcomeKey = "outcome"
)

type metrics struct {
	items    metric.Int64Counter
	duration metric.Float64Histogram
}

// newMetrics creates the instruments on mp, or on the global provider when mp
// is nil.
func newMetrics(mp metric.MeterProvider, l logger.Logger) *metrics {
	if mp == nil {
		mp = otel.GetMeterProvider()
	}
	meter := mp.Meter(meterName)
	ctx := context.Background()

	items, err := meter.Int64Counter(ItemsMetric,
		metric.WithDescription("Queue entries handled, by outcome"))
	if err != nil {
		l.Warn(ctx, "Failed to create items counter: %v", err)
	}
	duration, err := meter.Float64Histogram("atci.processor.duration",
		metric.WithDescription("Time spent on one queue entry"),
		metric.WithUnit("s"))
	if err != nil {
		l.Warn(ctx, "Failed to create duration histogram: %v", err)
	}

	return &metrics{items: items, duration: duration}
}

func (m *metrics) record(ctx context.Context, outcome string, seconds float64) {
	attrs := metric.WithAttributes(attribute.String(OutcomeKey, outcome))
	if m.items != nil {
		m.items.Add(ctx, 1, attrs)
	}
	if m.duration != nil {
		m.duration.Record(ctx, seconds, attrs)
	}
}
