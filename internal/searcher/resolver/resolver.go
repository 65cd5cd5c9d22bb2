// Package resolver answers multi-word queries against the word index.
package resolver

import (
	"context"
	"log/slog"

	"github.com/femitubosun/codygo-task/internal/index"
)

// Resolver resolves query words to the documents that reference them.
type Resolver struct {
	store  index.Store
	logger *slog.Logger
}

func New(store index.Store) *Resolver {
	return &Resolver{
		store:  store,
		logger: slog.Default().With("component", "query-resolver"),
	}
}

// Resolve looks up each word's entry and returns the deduplicated union of
// their document lists, in first-seen order. Words are matched exactly as
// supplied: the index is built from lowercased text but query words are not
// lowercased here, so callers wanting case-insensitive matches must
// lowercase themselves.
//
// An unknown word contributes nothing, and a per-word lookup failure is
// logged and treated the same way; the query as a whole never fails on one
// word.
func (r *Resolver) Resolve(ctx context.Context, words []string) []string {
	seen := make(map[string]struct{})
	docs := make([]string, 0)

	for _, word := range words {
		entry, err := r.store.GetEntry(ctx, word)
		if err != nil {
			r.logger.Error("lookup failed, treating word as unmatched",
				"word", word,
				"error", err,
			)
			continue
		}
		if entry == nil {
			continue
		}
		for _, doc := range entry.Documents {
			if _, dup := seen[doc]; dup {
				continue
			}
			seen[doc] = struct{}{}
			docs = append(docs, doc)
		}
	}
	return docs
}
