package metrics

import (
	"context"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
)

// RecordEvent records a custom event with a name and set of key-value pairs
func RecordEvent(ctx context.Context, eventName string, kvPairs map[string]interface{}) {
	if nr := fromContext(ctx); nr != nil {
		nr.RecordCustomEvent(eventName, kvPairs)
	}
}

// RecordCount records a count metric
func RecordCount(ctx context.Context, metricName string, count uint64) {
	if nr := fromContext(ctx); nr != nil {
		nr.RecordCustomMetric(metricName, float64(count))
	}
}

// RecordDuration records a duration metric in milliseconds
func RecordDuration(ctx context.Context, metricName string, duration time.Duration) {
	if nr := fromContext(ctx); nr != nil {
		nr.RecordCustomMetric(metricName, float64(duration)/float64(time.Millisecond))
	}
}

func fromContext(ctx context.Context) *newrelic.Application {
	nr, _ := ctx.Value(NewRelicContextKey).(*newrelic.Application)
	return nr
}
