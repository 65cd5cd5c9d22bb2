package indexer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/femitubosun/codygo-task/internal/ingestion"
	"github.com/femitubosun/codygo-task/pkg/kafka"
	"github.com/femitubosun/codygo-task/pkg/tracing"
	"github.com/google/uuid"
)

// HandleMessage returns a Kafka MessageHandler that runs the Indexer for
// each document-stored event. Each run gets its own deadline; the indexing
// error is returned so the message stays uncommitted and the broker
// redelivers it per its own policy.
func HandleMessage(ix *Indexer, timeout time.Duration) kafka.MessageHandler {
	logger := slog.Default().With("component", "index-consumer")
	return func(ctx context.Context, key []byte, value []byte) error {
		event, err := kafka.DecodeJSON[ingestion.StoredEvent](value)
		if err != nil {
			// A malformed event can never succeed; drop it instead of
			// letting the broker redeliver forever.
			logger.Error("failed to decode stored event",
				"error", err,
				"key", string(key),
			)
			return nil
		}
		if event.Key == "" {
			logger.Error("stored event has no document key")
			return nil
		}

		runCtx := ctx
		if timeout > 0 {
			var cancel context.CancelFunc
			runCtx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}

		runCtx, span := tracing.Start(runCtx, "index-document", uuid.NewString())
		span.SetAttr("doc_key", event.Key)

		count, err := ix.IndexDocument(runCtx, event.Key)
		span.End()
		span.Log()
		if err != nil {
			return fmt.Errorf("indexing document %q: %w", event.Key, err)
		}

		logger.Info("stored event processed",
			"doc_key", event.Key,
			"words_appended", count,
		)
		return nil
	}
}
