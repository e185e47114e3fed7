package telemetry

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

func TestCounterGroupsByAttribute(t *testing.T) {
	ctx := context.Background()
	tel := New()
	defer tel.Shutdown(ctx)

	items, err := tel.MeterProvider().Meter("test").Int64Counter("jobs")
	if err != nil {
		t.Fatal(err)
	}
	items.Add(ctx, 2, metric.WithAttributes(attribute.String("outcome", "completed")))
	items.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", "failed")))
	items.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", "completed")))
	items.Add(ctx, 3)

	got, err := tel.Counter(ctx, "jobs", "outcome")
	if err != nil {
		t.Fatalf("Counter() error = %v", err)
	}
	want := map[string]int64{"completed": 3, "failed": 1, "": 3}
	if len(got) != len(want) {
		t.Errorf("Counter() = %v, want %v", got, want)
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("Counter()[%q] = %d, want %d", k, got[k], v)
		}
	}
}

func TestCounterUnknownMetric(t *testing.T) {
	ctx := context.Background()
	tel := New()
	defer tel.Shutdown(ctx)

	got, err := tel.Counter(ctx, "missing", "outcome")
	if err != nil {
		t.Fatalf("Counter() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Counter() = %v, want empty", got)
	}
}

func TestCounterRejectsHistogram(t *testing.T) {
	ctx := context.Background()
	tel := New()
	defer tel.Shutdown(ctx)

	h, err := tel.MeterProvider().Meter("test").Float64Histogram("latency")
	if err != nil {
		t.Fatal(err)
	}
	h.Record(ctx, 1.5)

	if _, err := tel.Counter(ctx, "latency", "outcome"); err == nil {
		t.Error("Counter() on a histogram returned nil error")
	}
}
