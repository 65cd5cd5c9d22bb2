// Package handler serves the search API: it resolves comma-separated query
// words to the union of their documents and returns one download URL per
// matching document.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/femitubosun/codygo-task/internal/searcher/cache"
	"github.com/femitubosun/codygo-task/pkg/logger"
	"github.com/femitubosun/codygo-task/pkg/metrics"
)

// WordResolver answers a multi-word query with matching document ids.
type WordResolver interface {
	Resolve(ctx context.Context, words []string) []string
}

type Handler struct {
	resolver        WordResolver
	cache           *cache.QueryCache
	metrics         *metrics.Metrics
	downloadBaseURL string
	logger          *slog.Logger
}

// New creates a search handler. cache and m may be nil.
func New(resolver WordResolver, queryCache *cache.QueryCache, m *metrics.Metrics, downloadBaseURL string) *Handler {
	return &Handler{
		resolver:        resolver,
		cache:           queryCache,
		metrics:         m,
		downloadBaseURL: downloadBaseURL,
		logger:          slog.Default().With("component", "search-handler"),
	}
}

// Search handles GET /search?words=a,b,c. The response is a JSON array of
// download URLs, one per document containing at least one of the words.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()
	log := logger.FromContext(ctx)

	query := r.URL.Query().Get("words")
	if query == "" {
		http.Error(w, "Missing query parameter: words", http.StatusBadRequest)
		return
	}
	words := strings.Split(query, ",")

	var docs []string
	cacheHit := false
	if h.cache != nil {
		var err error
		docs, cacheHit, err = h.cache.GetOrCompute(ctx, words, func() ([]string, error) {
			return h.resolver.Resolve(ctx, words), nil
		})
		if err != nil {
			log.Error("search failed", "words", query, "error", err)
			h.recordQuery("error", cacheHit, start)
			http.Error(w, "search failed", http.StatusInternalServerError)
			return
		}
	} else {
		docs = h.resolver.Resolve(ctx, words)
	}

	urls := make([]string, 0, len(docs))
	for _, doc := range docs {
		urls = append(urls, h.downloadBaseURL+url.QueryEscape(doc))
	}

	log.Info("search completed",
		"words", query,
		"matches", len(urls),
		"cache_hit", cacheHit,
		"latency_ms", time.Since(start).Milliseconds(),
	)

	resultType := "hit"
	if len(urls) == 0 {
		resultType = "zero_result"
	}
	h.recordQuery(resultType, cacheHit, start)

	h.writeJSON(w, http.StatusOK, urls)
}

// CacheStats handles GET /cache/stats.
func (h *Handler) CacheStats(w http.ResponseWriter, r *http.Request) {
	if h.cache == nil {
		h.writeJSON(w, http.StatusOK, map[string]any{"enabled": false})
		return
	}
	hits, misses := h.cache.Stats()
	h.writeJSON(w, http.StatusOK, map[string]any{
		"enabled": true,
		"hits":    hits,
		"misses":  misses,
	})
}

// CacheInvalidate handles POST /cache/invalidate.
func (h *Handler) CacheInvalidate(w http.ResponseWriter, r *http.Request) {
	if h.cache == nil {
		h.writeJSON(w, http.StatusOK, map[string]any{"enabled": false})
		return
	}
	if err := h.cache.Invalidate(r.Context()); err != nil {
		logger.FromContext(r.Context()).Error("cache invalidation failed", "error", err)
		http.Error(w, "cache invalidation failed", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "invalidated"})
}

func (h *Handler) recordQuery(resultType string, cacheHit bool, start time.Time) {
	if h.metrics == nil {
		return
	}
	h.metrics.SearchQueriesTotal.WithLabelValues(resultType).Inc()
	cacheStatus := "miss"
	if cacheHit {
		cacheStatus = "hit"
		h.metrics.CacheHitsTotal.Inc()
	} else {
		h.metrics.CacheMissesTotal.Inc()
	}
	h.metrics.SearchLatency.WithLabelValues(cacheStatus).Observe(time.Since(start).Seconds())
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to write response", "error", err)
	}
}
