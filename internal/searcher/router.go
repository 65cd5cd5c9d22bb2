// Package searcher wires up the search service's HTTP routes and
// middleware chain.
package searcher

import (
	"net/http"
	"time"

	"github.com/femitubosun/codygo-task/internal/downloader"
	"github.com/femitubosun/codygo-task/internal/searcher/handler"
	"github.com/femitubosun/codygo-task/pkg/health"
	"github.com/femitubosun/codygo-task/pkg/metrics"
	"github.com/femitubosun/codygo-task/pkg/middleware"
)

// NewRouter builds the search service HTTP handler.
//
// Route table:
//
//	GET /search            → word query (x-api-key required)
//	GET /download          → document byte stream (no auth, matching the legacy surface)
//	GET /cache/stats       → query cache hit/miss counters (x-api-key required)
//	POST /cache/invalidate → flush cached query results (x-api-key required)
//	GET /health/live       → liveness
//	GET /health/ready      → readiness (index store, cache)
//
// The timeout middleware wraps /search only; /download streams bodies of
// arbitrary size and relies on server write timeouts instead.
func NewRouter(search *handler.Handler, download *downloader.Handler, checker *health.Checker, m *metrics.Metrics, apiKey string, requestTimeout time.Duration) http.Handler {
	mux := http.NewServeMux()

	var searchRoute http.Handler = http.HandlerFunc(search.Search)
	searchRoute = handler.APIKey(apiKey)(searchRoute)
	searchRoute = middleware.Timeout(requestTimeout)(searchRoute)
	mux.Handle("GET /search", searchRoute)

	mux.HandleFunc("GET /download", download.Download)
	mux.Handle("GET /cache/stats", handler.APIKey(apiKey)(http.HandlerFunc(search.CacheStats)))
	mux.Handle("POST /cache/invalidate", handler.APIKey(apiKey)(http.HandlerFunc(search.CacheInvalidate)))
	mux.HandleFunc("GET /health/live", checker.LiveHandler())
	mux.HandleFunc("GET /health/ready", checker.ReadyHandler())

	var chain http.Handler = mux
	if m != nil {
		chain = middleware.Metrics(m)(chain)
	}
	chain = middleware.RequestID(chain)
	return chain
}
