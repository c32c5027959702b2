package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/alexa091904/semi-project/internal/metrics"

	"github.com/nats-io/nats.go"
)

type NATSPublisher struct {
	conn    *nats.Conn
	subject string
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func NewNATSPublisher(url string, subject string, logger *slog.Logger, m *metrics.Metrics) (*NATSPublisher, error) {
	if m == nil {
		m = metrics.NewMock()
	}

	nc, err := nats.Connect(url)
	if err != nil {
		return nil, err
	}

	logger.Info("NATS publisher initialized", "url", url, "subject", subject)

	return &NATSPublisher{
		conn:    nc,
		subject: subject,
		logger:  logger,
		metrics: m,
	}, nil
}

// Publish sends value to "<subject>.<key>" so consumers can subscribe per kind.
func (p *NATSPublisher) Publish(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		p.logger.ErrorContext(ctx, "failed to marshal event", "error", err)
		return err
	}

	subject := p.subject
	if key != "" {
		subject = subject + "." + key
	}

	start := time.Now()
	err = p.conn.Publish(subject, data)
	p.metrics.Messaging.RecordPublish(ctx, "nats", subject, time.Since(start), err)
	if err != nil {
		p.logger.ErrorContext(ctx, "failed to publish event to NATS", "error", err)
		return err
	}

	p.logger.DebugContext(ctx, "event published to NATS", "subject", subject)
	return nil
}

func (p *NATSPublisher) Close() error {
	if err := p.conn.Drain(); err != nil {
		p.conn.Close()
	}
	return nil
}

// HealthCheck verifies NATS connection is healthy
func (p *NATSPublisher) HealthCheck() error {
	if p.conn == nil {
		return nats.ErrConnectionClosed
	}
	if !p.conn.IsConnected() {
		return nats.ErrDisconnected
	}
	return nil
}
