package metrics

import (
	"context"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/pkg/errors"
)

// MethodTracer records a method call as a segment of the New Relic
// transaction in the call's context. A nil MethodTracer is valid and
// records nothing, which is what TraceMethodCall returns when the context
// carries no transaction.
type MethodTracer struct {
	txn *newrelic.Transaction
	seg *newrelic.Segment
}

// TraceMethodCall starts a segment named "<structOrPackageName> <methodName>".
func TraceMethodCall(ctx context.Context, structOrPackageName, methodName string) *MethodTracer {
	txn := newrelic.FromContext(ctx)
	if txn == nil {
		return nil
	}

	return &MethodTracer{
		txn: txn,
		seg: txn.StartSegment(structOrPackageName + " " + methodName),
	}
}

func (t *MethodTracer) AddAttribute(key string, value interface{}) {
	if t == nil {
		return
	}

	t.seg.AddAttribute(key, value)
}

func (t *MethodTracer) AddAttributes(attributes map[string]interface{}) {
	if t == nil {
		return
	}

	for key, value := range attributes {
		t.seg.AddAttribute(key, value)
	}
}

// OnError reports err on the transaction, unless it is nil or matches one of
// the expected errors, such as a not found result.
func (t *MethodTracer) OnError(err error, expected ...error) {
	if t == nil || err == nil {
		return
	}

	for _, e := range expected {
		if errors.Is(err, e) {
			return
		}
	}

	t.txn.NoticeError(err)
}

// End completes the segment.
func (t *MethodTracer) End() {
	if t == nil {
		return
	}

	t.seg.End()
}
