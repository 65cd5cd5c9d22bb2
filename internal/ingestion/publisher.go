package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/femitubosun/codygo-task/pkg/kafka"
	"github.com/femitubosun/codygo-task/pkg/resilience"
)

// EventPublisher publishes document-stored events.
type EventPublisher interface {
	Publish(ctx context.Context, event kafka.Event) error
}

// Publisher announces stored documents on the document-stored topic so the
// indexer picks them up.
type Publisher struct {
	producer EventPublisher
	logger   *slog.Logger
}

func NewPublisher(producer EventPublisher) *Publisher {
	return &Publisher{
		producer: producer,
		logger:   slog.Default().With("component", "ingestion-publisher"),
	}
}

// DocumentStored publishes the event for one stored document. The document
// key doubles as the partition key so re-uploads of the same document stay
// ordered. A document that is stored but never announced is invisible to
// the indexer, so transient broker errors are retried before giving up.
func (p *Publisher) DocumentStored(ctx context.Context, key string, size int64) error {
	event := StoredEvent{
		Key:      key,
		Size:     size,
		StoredAt: time.Now().UTC(),
	}
	err := resilience.Retry(ctx, "publish-stored-event", resilience.RetryConfig{
		MaxAttempts:  3,
		InitialDelay: 50 * time.Millisecond,
		MaxDelay:     time.Second,
	}, func() error {
		return p.producer.Publish(ctx, kafka.Event{Key: key, Value: event})
	})
	if err != nil {
		return fmt.Errorf("publishing stored event for %q: %w", key, err)
	}
	p.logger.Info("stored event published", "key", key, "size", size)
	return nil
}
