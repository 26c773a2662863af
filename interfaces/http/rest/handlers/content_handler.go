package handlers

import (
	"net/http"
	"net/url"

	"contentbridge/application/ports"
	"contentbridge/pkg/common"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ContentHandler serves the navigation snapshot and stored items
type ContentHandler struct {
	store  ports.StateStore
	logger *zap.Logger
}

// NewContentHandler creates a new content handler
func NewContentHandler(store ports.StateStore, logger *zap.Logger) *ContentHandler {
	return &ContentHandler{
		store:  store,
		logger: logger,
	}
}

// GetNavigation handles GET /navigation
func (h *ContentHandler) GetNavigation(w http.ResponseWriter, r *http.Request) {
	snapshot := h.store.Snapshot()
	if snapshot.Navigation == nil {
		common.RespondError(w, http.StatusNotFound, "NOT_FOUND", "no navigation state; initialize the application first")
		return
	}
	common.RespondJSON(w, http.StatusOK, snapshot.Navigation)
}

// GetItem handles GET /items/{key}
func (h *ContentHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	if decoded, err := url.PathUnescape(key); err == nil {
		key = decoded
	}

	value, ok := h.store.GetItem(key)
	if !ok {
		common.RespondError(w, http.StatusNotFound, "NOT_FOUND", "item not found")
		return
	}
	common.RespondJSON(w, http.StatusOK, value)
}
