// Package archive implements the reversible soft-delete lifecycle shared by
// every academic record type, and the unified listing of archived records.
package archive

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/alexa091904/semi-project/internal/events"
	"github.com/alexa091904/semi-project/internal/metrics"

	"github.com/google/uuid"
)

var (
	ErrNotFound    = errors.New("record not found")
	ErrUnknownKind = errors.New("unknown record kind")
)

type Engine struct {
	sources   map[Kind]Source
	publisher events.Publisher
	metrics   *metrics.Metrics
	logger    *slog.Logger
	now       func() time.Time
}

func NewEngine(publisher events.Publisher, m *metrics.Metrics, logger *slog.Logger, sources ...Source) *Engine {
	if publisher == nil {
		publisher = events.Noop{}
	}
	if m == nil {
		m = metrics.NewMock()
	}
	e := &Engine{
		sources:   make(map[Kind]Source, len(sources)),
		publisher: publisher,
		metrics:   m,
		logger:    logger,
		now:       time.Now,
	}
	for _, s := range sources {
		e.sources[s.Kind()] = s
	}
	return e
}

// List returns archived records of every kind selected by filter.Type,
// most recently archived first. Ties keep the fixed kind order.
func (e *Engine) List(ctx context.Context, filter Filter) ([]Item, error) {
	if filter.Type == "" {
		filter.Type = TypeAll
	}

	items := make([]Item, 0)
	for _, kind := range listOrder {
		if !filter.Type.Includes(kind) {
			continue
		}
		src, ok := e.sources[kind]
		if !ok {
			continue
		}
		found, err := src.ListArchived(ctx, filter)
		if err != nil {
			return nil, fmt.Errorf("list archived %s: %w", kind, err)
		}
		items = append(items, found...)
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].ArchivedAt.After(items[j].ArchivedAt)
	})
	return items, nil
}

// Archive moves a live record into the archive. Archiving an archived record
// succeeds, keeps the original archived_at and is neither counted nor
// published.
func (e *Engine) Archive(ctx context.Context, kind Kind, id uuid.UUID) error {
	src, err := e.source(kind)
	if err != nil {
		return err
	}

	at := e.now().UTC()
	changed, err := src.SetArchived(ctx, id, at)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}

	e.metrics.Records.RecordArchived(ctx, string(kind))
	e.publish(ctx, Event{Action: ActionArchived, SourceType: kind, ID: id, At: at})
	return nil
}

// Restore returns an archived record to the live set. Restoring a live
// record succeeds without a counter or event.
func (e *Engine) Restore(ctx context.Context, kind Kind, id uuid.UUID) error {
	src, err := e.source(kind)
	if err != nil {
		return err
	}

	changed, err := src.ClearArchived(ctx, id)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}

	e.metrics.Records.RecordRestored(ctx, string(kind))
	e.publish(ctx, Event{Action: ActionRestored, SourceType: kind, ID: id, At: e.now().UTC()})
	return nil
}

func (e *Engine) source(kind Kind) (Source, error) {
	src, ok := e.sources[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}
	return src, nil
}

func (e *Engine) publish(ctx context.Context, event Event) {
	key := string(event.SourceType) + "." + event.Action
	if err := e.publisher.Publish(ctx, key, event); err != nil {
		e.logger.WarnContext(ctx, "failed to publish archive event",
			"key", key,
			"id", event.ID,
			"error", err,
		)
	}
}
