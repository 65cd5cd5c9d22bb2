// Package downloader streams stored document bytes to clients.
package downloader

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/femitubosun/codygo-task/internal/storage"
	"github.com/femitubosun/codygo-task/pkg/logger"
	"github.com/femitubosun/codygo-task/pkg/metrics"
)

// ContentType is the single content type declared for every streamed
// document; the pipeline stores one document format.
const ContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

type Handler struct {
	docs    storage.Store
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// New creates a download handler. m may be nil.
func New(docs storage.Store, m *metrics.Metrics) *Handler {
	return &Handler{
		docs:    docs,
		metrics: m,
		logger:  slog.Default().With("component", "download-handler"),
	}
}

// Download handles GET /download?fileName=<url-encoded document id>. A
// literal '+' decodes to a space (legacy form-encoding convention). The
// body is streamed straight from storage; a mid-stream failure aborts the
// connection so the client is never left hanging on a half-written body.
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContext(ctx)

	fileName := r.URL.Query().Get("fileName")
	if fileName == "" {
		// The error marker goes onto the stream ahead of the result body,
		// matching what download clients already parse.
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, "ERROR:File name is missing")
		_, _ = io.WriteString(w, "File not found!")
		h.record("missing_param")
		return
	}

	key, err := url.QueryUnescape(fileName)
	if err != nil {
		log.Error("malformed fileName parameter", "fileName", fileName, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		h.record("error")
		return
	}

	log.Info("downloading document", "key", key)

	body, err := h.docs.Fetch(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Error("cannot process document", "key", key)
			http.Error(w, "File not found!", http.StatusNotFound)
			h.record("not_found")
			return
		}
		log.Error("storage fetch failed", "key", key, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		h.record("error")
		return
	}
	defer body.Close()

	w.Header().Set("Content-Type", ContentType)

	if _, err := io.Copy(w, body); err != nil {
		log.Error("stream failed mid-transfer", "key", key, "error", err)
		h.record("aborted")
		// Tear the connection down instead of silently truncating.
		panic(http.ErrAbortHandler)
	}
	h.record("ok")
}

func (h *Handler) record(status string) {
	if h.metrics != nil {
		h.metrics.DownloadsTotal.WithLabelValues(status).Inc()
	}
}
