package metrics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestNewMock_IgnoresRecords(t *testing.T) {
	m := NewMock()
	ctx := context.Background()

	assert.NotPanics(t, func() {
		m.Database.RecordQuery(ctx, "select", "students", time.Millisecond, errors.New("boom"))
		m.Records.RecordArchived(ctx, "student")
		m.Records.RecordRestored(ctx, "student")
		m.Records.RecordReportGenerated(ctx, "students")
		m.Records.RecordLoginFailed(ctx)
	})
}

func TestRecordMetrics_CountsArchiveTransitions(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	meter := provider.Meter("test")

	records, err := NewRecordMetrics(meter)
	require.NoError(t, err)

	ctx := context.Background()
	records.RecordArchived(ctx, "course")
	records.RecordArchived(ctx, "course")
	records.RecordRestored(ctx, "course")

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))

	totals := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, md := range sm.Metrics {
			sum, ok := md.Data.(metricdata.Sum[int64])
			if !ok {
				continue
			}
			for _, dp := range sum.DataPoints {
				totals[md.Name] += dp.Value
			}
		}
	}

	assert.Equal(t, int64(2), totals["edusync.records.archived"])
	assert.Equal(t, int64(1), totals["edusync.records.restored"])
}

func TestMessagingMetrics_CountsPublishes(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	messaging, err := NewMessagingMetrics(provider.Meter("test"))
	require.NoError(t, err)

	ctx := context.Background()
	messaging.RecordPublish(ctx, "nats", "edusync.archive.course.archived", time.Millisecond, nil)
	messaging.RecordPublish(ctx, "nats", "edusync.archive.course.archived", time.Millisecond, errors.New("disconnected"))

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))

	totals := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, md := range sm.Metrics {
			if sum, ok := md.Data.(metricdata.Sum[int64]); ok {
				for _, dp := range sum.DataPoints {
					totals[md.Name] += dp.Value
				}
			}
		}
	}

	assert.Equal(t, int64(2), totals["messaging.messages.published"])
	assert.Equal(t, int64(1), totals["messaging.message.errors"])
}

func TestNew_RegistersRuntimeMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	require.NoError(t, registerRuntimeMetrics(provider.Meter("test")))

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	names := map[string]bool{}
	for _, sm := range rm.ScopeMetrics {
		for _, md := range sm.Metrics {
			names[md.Name] = true
		}
	}
	assert.True(t, names["runtime.go.goroutines"])
	assert.True(t, names["service.uptime"])
}
