package metrics

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type RecordMetrics struct {
	archived         metric.Int64Counter
	restored         metric.Int64Counter
	reportsGenerated metric.Int64Counter
	loginsFailed     metric.Int64Counter
}

func NewRecordMetrics(meter metric.Meter) (*RecordMetrics, error) {
	m := &RecordMetrics{}

	var err error

	m.archived, err = meter.Int64Counter(
		"edusync.records.archived",
		metric.WithDescription("Total number of records moved to the archive"),
		metric.WithUnit("{record}"),
	)
	if err != nil {
		return nil, err
	}

	m.restored, err = meter.Int64Counter(
		"edusync.records.restored",
		metric.WithDescription("Total number of records restored from the archive"),
		metric.WithUnit("{record}"),
	)
	if err != nil {
		return nil, err
	}

	m.reportsGenerated, err = meter.Int64Counter(
		"edusync.reports.generated",
		metric.WithDescription("Total number of report snapshots generated"),
		metric.WithUnit("{report}"),
	)
	if err != nil {
		return nil, err
	}

	m.loginsFailed, err = meter.Int64Counter(
		"edusync.logins.failed",
		metric.WithDescription("Total number of rejected login attempts"),
		metric.WithUnit("{attempt}"),
	)
	if err != nil {
		return nil, err
	}

	return m, nil
}

func (m *RecordMetrics) RecordArchived(ctx context.Context, kind string) {
	if m != nil && m.archived != nil {
		m.archived.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", kind)))
	}
}

func (m *RecordMetrics) RecordRestored(ctx context.Context, kind string) {
	if m != nil && m.restored != nil {
		m.restored.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", kind)))
	}
}

func (m *RecordMetrics) RecordReportGenerated(ctx context.Context, reportType string) {
	if m != nil && m.reportsGenerated != nil {
		m.reportsGenerated.Add(ctx, 1, metric.WithAttributes(attribute.String("report_type", reportType)))
	}
}

func (m *RecordMetrics) RecordLoginFailed(ctx context.Context) {
	if m != nil && m.loginsFailed != nil {
		m.loginsFailed.Add(ctx, 1)
	}
}
