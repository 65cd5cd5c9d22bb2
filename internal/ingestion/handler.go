package ingestion

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/femitubosun/codygo-task/internal/storage"
	"github.com/femitubosun/codygo-task/pkg/logger"
)

// Handler accepts document uploads, writes them to blob storage, and
// publishes the document-stored event that triggers indexing.
type Handler struct {
	docs      storage.Store
	publisher *Publisher
	logger    *slog.Logger
}

func NewHandler(docs storage.Store, publisher *Publisher) *Handler {
	return &Handler{
		docs:      docs,
		publisher: publisher,
		logger:    slog.Default().With("component", "ingestion-handler"),
	}
}

// Upload handles POST /api/v1/documents?fileName=<key>. The request body is
// the document's raw bytes. A failure to store propagates as 500 so the
// uploader can retry; a stored document whose event fails to publish is
// also an error; the caller must re-upload to trigger indexing.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContext(ctx)

	key := r.URL.Query().Get("fileName")
	if key == "" {
		h.writeError(w, http.StatusBadRequest, "missing query parameter: fileName")
		return
	}

	if err := h.docs.Put(ctx, key, r.Body, r.ContentLength); err != nil {
		log.Error("storing document failed", "key", key, "error", err)
		h.writeError(w, http.StatusInternalServerError, "storing document failed")
		return
	}

	if err := h.publisher.DocumentStored(ctx, key, r.ContentLength); err != nil {
		log.Error("publishing stored event failed", "key", key, "error", err)
		h.writeError(w, http.StatusInternalServerError, "document stored but not queued for indexing")
		return
	}

	log.Info("document accepted", "key", key, "size", r.ContentLength)
	h.writeJSON(w, http.StatusAccepted, map[string]any{
		"key":    key,
		"status": "stored",
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to write response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
