// Package indexer reconciles one document's word set against the shared
// word index: existing entries get the document appended, unseen words are
// queued and batch-created.
package indexer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/femitubosun/codygo-task/internal/extractor"
	"github.com/femitubosun/codygo-task/internal/index"
	"github.com/femitubosun/codygo-task/internal/indexer/tokenizer"
	"github.com/femitubosun/codygo-task/internal/storage"
	"github.com/femitubosun/codygo-task/pkg/metrics"
	"github.com/femitubosun/codygo-task/pkg/tracing"
)

// Indexer indexes one document per call. It is stateless across calls;
// concurrent invocations for different documents coordinate only through
// the index store's atomic append.
type Indexer struct {
	store   index.Store
	docs    storage.Store
	extract extractor.Extractor
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// New creates an Indexer. metrics may be nil.
func New(store index.Store, docs storage.Store, extract extractor.Extractor, m *metrics.Metrics) *Indexer {
	return &Indexer{
		store:   store,
		docs:    docs,
		extract: extract,
		metrics: m,
		logger:  slog.Default().With("component", "indexer"),
	}
}

// IndexDocument fetches the document's bytes, extracts its text, and updates
// the index for every unique word. It returns the number of words for which
// an append actually happened: creations of first-seen words and skips of
// already-indexed words are not counted.
//
// Per-word store failures are logged and skipped; only a failure to fetch
// the content or extract its text aborts and propagates, leaving whatever
// was already written valid.
func (ix *Indexer) IndexDocument(ctx context.Context, key string) (int, error) {
	start := time.Now()

	_, fetchSpan := tracing.Child(ctx, "fetch-and-extract")
	body, err := ix.docs.Fetch(ctx, key)
	if err != nil {
		fetchSpan.End()
		return 0, fmt.Errorf("fetching document %q: %w", key, err)
	}
	defer body.Close()

	rawText, err := ix.extract.ExtractText(body)
	fetchSpan.End()
	if err != nil {
		return 0, fmt.Errorf("extracting text from %q: %w", key, err)
	}

	words := tokenizer.UniqueWords(strings.ToLower(rawText))
	ix.logger.Info("indexing document", "key", key, "unique_words", len(words))

	_, indexSpan := tracing.Child(ctx, "update-index")
	defer indexSpan.End()
	indexSpan.SetAttr("unique_words", len(words))

	var pending []index.NewEntry
	appended := 0

	for word := range words {
		if len(word) == 0 {
			continue
		}

		entry, err := ix.store.GetEntry(ctx, word)
		if err != nil {
			ix.logger.Error("lookup failed, skipping word",
				"word", word,
				"key", key,
				"error", err,
			)
			continue
		}

		if entry == nil {
			pending = append(pending, index.NewEntry{Word: word, Document: key})
			continue
		}

		if entry.Contains(key) {
			continue
		}

		if err := ix.store.AppendDocument(ctx, word, key); err != nil {
			ix.logger.Error("append failed, skipping word",
				"word", word,
				"key", key,
				"error", err,
			)
			if ix.metrics != nil {
				ix.metrics.AppendFailuresTotal.Inc()
			}
			continue
		}
		appended++
	}

	if len(pending) > 0 {
		status := "ok"
		if err := ix.store.CreateEntries(ctx, pending); err != nil {
			status = "failed"
			ix.logger.Error("batch create failed",
				"key", key,
				"new_words", len(pending),
				"error", err,
			)
		}
		if ix.metrics != nil {
			ix.metrics.IndexBatchesTotal.WithLabelValues(status).Inc()
		}
	}

	if ix.metrics != nil {
		ix.metrics.DocsIndexedTotal.Inc()
		ix.metrics.WordsIndexedTotal.Add(float64(appended))
		ix.metrics.IndexDuration.Observe(time.Since(start).Seconds())
	}

	ix.logger.Info("document indexed",
		"key", key,
		"appended", appended,
		"created", len(pending),
	)
	return appended, nil
}
