package handlers

import (
	"encoding/json"
	"net/http"

	"contentbridge/application/ports"
	"contentbridge/interfaces/bridge"
	"contentbridge/pkg/common"
	"contentbridge/pkg/utils"

	"go.uber.org/zap"
)

// EditHandler exposes the editing tool's notifications as webhook endpoints.
// Each endpoint forwards into the live-edit bridge through the embedded hook
// source; the responses carry the handled flag the editing tool uses to
// decide whether to run its default re-render.
type EditHandler struct {
	hooks  *bridge.EmbeddedHooks
	logger *zap.Logger
}

// NewEditHandler creates a new edit handler
func NewEditHandler(hooks *bridge.EmbeddedHooks, logger *zap.Logger) *EditHandler {
	return &EditHandler{
		hooks:  hooks,
		logger: logger,
	}
}

// PreviewElementRequest identifies the element the editing tool previews
type PreviewElementRequest struct {
	PreviewID string `json:"previewId" validate:"required"`
}

// ContentChangeRequest represents an edited document
type ContentChangeRequest struct {
	PreviewID   string          `json:"previewId"`
	NodePresent bool            `json:"nodePresent"`
	Content     json.RawMessage `json:"content,omitempty"`
}

// NavigationChangeRequest represents a navigation structure change
type NavigationChangeRequest struct {
	NewPagePreviewID string `json:"newPagePreviewId,omitempty"`
}

// HandledResponse reports whether the bridge handled the event
type HandledResponse struct {
	Handled bool `json:"handled"`
}

// PreviewElement handles POST /edit/preview-element
func (h *EditHandler) PreviewElement(w http.ResponseWriter, r *http.Request) {
	var req PreviewElementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", "Invalid request body: "+err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", "Validation error: "+err.Error())
		return
	}

	if err := h.hooks.TriggerRequestPreviewElement(req.PreviewID); err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusAccepted, nil)
}

// ContentChange handles POST /edit/content-change
func (h *EditHandler) ContentChange(w http.ResponseWriter, r *http.Request) {
	var req ContentChangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", "Invalid request body: "+err.Error())
		return
	}

	handled, err := h.hooks.TriggerContentChange(ports.ContentChange{
		NodePresent: req.NodePresent,
		PreviewID:   req.PreviewID,
		Content:     req.Content,
	})
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, HandledResponse{Handled: handled})
}

// RerenderView handles POST /edit/rerender-view
func (h *EditHandler) RerenderView(w http.ResponseWriter, r *http.Request) {
	handled, err := h.hooks.TriggerRerenderView()
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, HandledResponse{Handled: handled})
}

// NavigationChange handles POST /edit/navigation-change
func (h *EditHandler) NavigationChange(w http.ResponseWriter, r *http.Request) {
	var req NavigationChangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", "Invalid request body: "+err.Error())
		return
	}

	if err := h.hooks.TriggerNavigationChange(req.NewPagePreviewID); err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusAccepted, nil)
}
