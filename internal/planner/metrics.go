package planner

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const instrumentationName = "github.com/starshatter/campaign/internal/planner"

func meter() metric.Meter {
	return otel.Meter(instrumentationName)
}

type instruments struct {
	frames      metric.Int64Counter
	assignments metric.Int64Counter
	events      metric.Int64Counter
	missions    metric.Int64Counter
}

var (
	instOnce sync.Once
	inst     *instruments
)

// metrics returns the shared planner instruments. The global meter
// delegates to whichever provider is installed later, so creating them
// early is safe.
func metrics() *instruments {
	instOnce.Do(func() {
		m := meter()
		fallback := noop.Meter{}
		counter := func(name, desc string) metric.Int64Counter {
			c, err := m.Int64Counter(name, metric.WithDescription(desc))
			if err != nil {
				c, _ = fallback.Int64Counter(name)
			}
			return c
		}
		inst = &instruments{
			frames:      counter("planner.frames", "Planner frames executed"),
			assignments: counter("planner.assignments", "Assignments published"),
			events:      counter("planner.events", "Combat events created"),
			missions:    counter("planner.missions", "Mission requests generated"),
		}
	})
	return inst
}

func recordFrame(ctx context.Context, planner string) {
	metrics().frames.Add(ctx, 1, metric.WithAttributes(attribute.String("planner", planner)))
}

func recordEvents(ctx context.Context, source string, n int) {
	if n > 0 {
		metrics().events.Add(ctx, int64(n), metric.WithAttributes(attribute.String("source", source)))
	}
}
