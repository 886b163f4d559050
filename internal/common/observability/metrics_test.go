package observability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"careers-api/internal/common/logger"
)

func TestObservability_NilReceiverIsSafe(t *testing.T) {
	var o *Observability
	ctx := context.Background()

	o.RecordSubmission(ctx, "success")
	o.RecordDispatchDuration(ctx, time.Second, "smtp", "send")
	o.Shutdown()

	spanCtx, span := o.StartSpan(ctx, "noop")
	defer span.End()
	assert.NotNil(t, spanCtx)
}

func TestObservability_New(t *testing.T) {
	o := New("careers-api-test", logger.NewTestLogger(t))
	defer o.Shutdown()

	ctx, span := o.StartSpan(context.Background(), "application.submit")
	assert.True(t, span.SpanContext().IsValid())
	span.End()

	o.RecordSubmission(ctx, "success")
	o.RecordDispatchDuration(ctx, 120*time.Millisecond, "smtp", "verify")
}
