package metrics

import (
	"context"

	"github.com/newrelic/go-agent/v3/newrelic"
)

type newRelicContextKey struct{}

// NewRelicContextKey is the context key holding the *newrelic.Application
// that metrics and events are reported to.
var NewRelicContextKey = newRelicContextKey{}

// NewContext returns a copy of ctx that reports to app.
func NewContext(ctx context.Context, app *newrelic.Application) context.Context {
	return context.WithValue(ctx, NewRelicContextKey, app)
}

// StartTransaction starts a New Relic transaction for a unit of work if an
// application is available in ctx. The returned end function must always be
// called.
func StartTransaction(ctx context.Context, name string) (context.Context, func(err error)) {
	nr := fromContext(ctx)
	if nr == nil || newrelic.FromContext(ctx) != nil {
		return ctx, func(error) {}
	}

	txn := nr.StartTransaction(name)
	return newrelic.NewContext(ctx, txn), func(err error) {
		if err != nil {
			txn.NoticeError(err)
		}
		txn.End()
	}
}
