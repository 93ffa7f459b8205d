package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// assertBizMetricLine checks that the Prometheus output contains a business metric
// matching the given name, partial label pattern, and value. Uses regex to handle
// extra OTel scope labels injected by the Prometheus exporter.
func assertBizMetricLine(t *testing.T, output, name, labels, value string) {
	t.Helper()
	pattern := name + `\{[^}]*` + labels + `[^}]*\} ` + value
	assert.Regexp(t, pattern, output)
}

func TestNewBusinessMetrics(t *testing.T) {
	t.Run("Success_CreateBusinessMetrics", func(t *testing.T) {
		provider, err := NewProvider("test_app")
		require.NoError(t, err)

		businessMetrics, err := NewBusinessMetrics(provider.MeterProvider(), "test_app")

		require.NoError(t, err)
		assert.NotNil(t, businessMetrics)
	})
}

func TestBusinessMetrics_RecordOperation(t *testing.T) {
	provider, err := NewProvider("test_app")
	require.NoError(t, err)

	bm, err := NewBusinessMetrics(provider.MeterProvider(), "test_app")
	require.NoError(t, err)

	t.Run("Success_RecordSuccessfulOperation", func(t *testing.T) {
		// Should not panic
		bm.RecordOperation(context.Background(), "events", "append", "success")
	})

	t.Run("Success_RecordFailedOperation", func(t *testing.T) {
		// Should not panic
		bm.RecordOperation(context.Background(), "events", "append", "error")
	})

	t.Run("Success_RecordMultipleDomains", func(t *testing.T) {
		bm.RecordOperation(context.Background(), "events", "append", "success")
		bm.RecordOperation(context.Background(), "delivery", "dispatch", "success")
		bm.RecordOperation(context.Background(), "events", "mark_failed", "error")
	})
}

func TestBusinessMetrics_RecordDuration(t *testing.T) {
	provider, err := NewProvider("test_app")
	require.NoError(t, err)

	bm, err := NewBusinessMetrics(provider.MeterProvider(), "test_app")
	require.NoError(t, err)

	t.Run("Success_RecordSuccessfulDuration", func(t *testing.T) {
		// Should not panic
		bm.RecordDuration(context.Background(), "events", "append", 123*time.Millisecond, "success")
	})

	t.Run("Success_RecordFailedDuration", func(t *testing.T) {
		// Should not panic
		bm.RecordDuration(context.Background(), "events", "append", 456*time.Millisecond, "error")
	})

	t.Run("Success_RecordMultipleDomains", func(t *testing.T) {
		bm.RecordDuration(context.Background(), "events", "append", 100*time.Millisecond, "success")
		bm.RecordDuration(context.Background(), "delivery", "dispatch", 200*time.Millisecond, "success")
		bm.RecordDuration(context.Background(), "events", "mark_failed", 300*time.Millisecond, "error")
	})
}

func TestNewNoOpBusinessMetrics(t *testing.T) {
	noOpMetrics := NewNoOpBusinessMetrics()

	assert.NotNil(t, noOpMetrics)
	assert.IsType(t, &NoOpBusinessMetrics{}, noOpMetrics)

	t.Run("NoOp_RecordOperationDoesNotPanic", func(t *testing.T) {
		// Should not panic or do anything
		noOpMetrics.RecordOperation(context.Background(), "events", "append", "success")
		noOpMetrics.RecordOperation(context.Background(), "delivery", "dispatch", "error")
	})

	t.Run("NoOp_RecordDurationDoesNotPanic", func(t *testing.T) {
		// Should not panic or do anything
		noOpMetrics.RecordDuration(
			context.Background(),
			"events",
			"append",
			100*time.Millisecond,
			"success",
		)
		noOpMetrics.RecordDuration(context.Background(), "delivery", "dispatch", 200*time.Millisecond, "error")
	})
}

func TestBusinessMetrics_RecordEvents(t *testing.T) {
	provider, err := NewProvider("events_test")
	require.NoError(t, err)

	bm, err := NewBusinessMetrics(provider.MeterProvider(), "events_test")
	require.NoError(t, err)

	ctx := context.Background()
	bm.RecordEvents(ctx, OutcomeDelivered, 3)
	bm.RecordEvents(ctx, OutcomeDelivered, 2)
	bm.RecordEvents(ctx, OutcomeAbandoned, 1)
	bm.RecordEvents(ctx, OutcomeFailed, 0)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	provider.Handler().ServeHTTP(w, req)

	output := w.Body.String()

	assertBizMetricLine(t, output, `events_test_delivery_events_total`, `outcome="delivered"`, `5`)
	assertBizMetricLine(t, output, `events_test_delivery_events_total`, `outcome="abandoned"`, `1`)
	assert.NotContains(t, output, `outcome="failed"`)

	t.Run("NoOp_RecordEventsDoesNotPanic", func(t *testing.T) {
		NewNoOpBusinessMetrics().RecordEvents(ctx, OutcomeSkipped, 4)
	})
}

func TestBusinessMetrics_Integration(t *testing.T) {
	provider, err := NewProvider("integration_test")
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, provider.Shutdown(context.Background()))
	}()

	bm, err := NewBusinessMetrics(provider.MeterProvider(), "integration_test")
	require.NoError(t, err)

	// Record various operations
	ctx := context.Background()

	// Record operation counts
	bm.RecordOperation(ctx, "events", "append", "success")
	bm.RecordOperation(ctx, "events", "append", "success")
	bm.RecordOperation(ctx, "events", "append", "error")
	bm.RecordOperation(ctx, "delivery", "dispatch", "success")
	bm.RecordOperation(ctx, "delivery", "tick", "success")
	bm.RecordOperation(ctx, "events", "mark_failed", "success")

	// Record operation durations
	bm.RecordDuration(ctx, "events", "append", 50*time.Millisecond, "success")
	bm.RecordDuration(ctx, "events", "append", 60*time.Millisecond, "success")
	bm.RecordDuration(ctx, "events", "append", 100*time.Millisecond, "error")
	bm.RecordDuration(ctx, "delivery", "dispatch", 10*time.Millisecond, "success")
	bm.RecordDuration(ctx, "delivery", "tick", 20*time.Millisecond, "success")
	bm.RecordDuration(ctx, "events", "mark_failed", 150*time.Millisecond, "success")

	// Metrics should be recorded without errors
	// Verify metrics in Prometheus registry
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	provider.Handler().ServeHTTP(w, req)

	output := w.Body.String()

	// Check operation counts
	assertBizMetricLine(
		t,
		output,
		`integration_test_operations_total`,
		`domain="events".*operation="append".*status="success"`,
		`2`,
	)
	assertBizMetricLine(
		t,
		output,
		`integration_test_operations_total`,
		`domain="events".*operation="append".*status="error"`,
		`1`,
	)
	assertBizMetricLine(
		t,
		output,
		`integration_test_operations_total`,
		`domain="delivery".*operation="dispatch".*status="success"`,
		`1`,
	)

	// Check durations (existence)
	assertBizMetricLine(
		t,
		output,
		`integration_test_operation_duration_seconds_count`,
		`domain="events".*operation="append".*status="success"`,
		`2`,
	)
	assertBizMetricLine(
		t,
		output,
		`integration_test_operation_duration_seconds_sum`,
		`domain="events".*operation="append".*status="success"`,
		``,
	)
}
