// Package events publishes record lifecycle notifications to a message broker.
package events

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/alexa091904/semi-project/internal/config"
	"github.com/alexa091904/semi-project/internal/metrics"
)

// Publisher delivers a JSON-encoded value under a routing key.
type Publisher interface {
	Publish(ctx context.Context, key string, value interface{}) error
	Close() error
}

// Noop discards every event. It is used when no broker is configured.
type Noop struct{}

func (Noop) Publish(context.Context, string, interface{}) error { return nil }
func (Noop) Close() error                                        { return nil }

// New builds the publisher selected by cfg.Driver.
func New(cfg config.EventsConfig, logger *slog.Logger, m *metrics.Metrics) (Publisher, error) {
	switch cfg.Driver {
	case "":
		logger.Info("event publishing disabled")
		return Noop{}, nil
	case "nats":
		return NewNATSPublisher(cfg.NATS.URL, cfg.NATS.Subject, logger, m)
	case "kafka":
		return NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, logger, m)
	default:
		return nil, fmt.Errorf("unknown events driver %q", cfg.Driver)
	}
}
