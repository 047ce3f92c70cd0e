package telemetry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"

	"github.com/medishare/backend/internal/infrastructure/telemetry"
)

func newRecordingProvider(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	previous := otel.GetTracerProvider()
	recorder := tracetest.NewSpanRecorder()
	tp := telemetry.NewTracerProviderWithProcessor(telemetry.Config{ServiceName: "medishare-test", SamplingRatio: 1},
		recorder, zap.NewNop())
	t.Cleanup(func() {
		_ = tp.Shutdown(context.Background())
		otel.SetTracerProvider(previous)
	})
	return recorder
}

func TestNewTracerProvider_Disabled(t *testing.T) {
	tp, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{Enabled: false}, zap.NewNop())
	require.NoError(t, err)

	assert.False(t, tp.IsEnabled())
	assert.NotNil(t, tp.Tracer("x"))
	assert.NoError(t, tp.ForceFlush(context.Background()))
	assert.NoError(t, tp.Shutdown(context.Background()))
}

func TestStartServiceSpan(t *testing.T) {
	recorder := newRecordingProvider(t)

	ctx, span := telemetry.StartServiceSpan(context.Background(), "transfer", "approve",
		telemetry.SpanAttrTransferID, "t-1",
		telemetry.SpanAttrQuantity, int64(120),
	)
	assert.NotEmpty(t, telemetry.GetTraceID(ctx))
	telemetry.SetAttributes(span, telemetry.SpanAttrTransferStatus, "Approved")
	span.End()

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "transfer.approve", ended[0].Name())

	attrs := map[string]string{}
	for _, kv := range ended[0].Attributes() {
		attrs[string(kv.Key)] = kv.Value.Emit()
	}
	assert.Equal(t, "t-1", attrs["transfer_id"])
	assert.Equal(t, "120", attrs["quantity"])
	assert.Equal(t, "Approved", attrs["transfer_status"])
}

func TestEndSpan(t *testing.T) {
	recorder := newRecordingProvider(t)

	run := func(fail bool) (err error) {
		_, span := telemetry.StartServiceSpan(context.Background(), "transfer", "complete")
		defer telemetry.EndSpan(span, &err)
		if fail {
			return errors.New("inventory short")
		}
		return nil
	}
	require.NoError(t, run(false))
	require.Error(t, run(true))

	ended := recorder.Ended()
	require.Len(t, ended, 2)
	assert.Equal(t, codes.Unset, ended[0].Status().Code)
	assert.Equal(t, codes.Error, ended[1].Status().Code)
	assert.Equal(t, "inventory short", ended[1].Status().Description)
}

func TestGetTraceID_NoSpan(t *testing.T) {
	assert.Empty(t, telemetry.GetTraceID(context.Background()))
}
