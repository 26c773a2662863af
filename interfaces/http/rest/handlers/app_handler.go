package handlers

import (
	"encoding/json"
	"net/http"

	"contentbridge/application/coordinator"
	"contentbridge/application/initializer"
	"contentbridge/application/ports"
	"contentbridge/domain/appstate"
	"contentbridge/pkg/common"
	"contentbridge/pkg/utils"

	"go.uber.org/zap"
)

// AppHandler handles application state and route change HTTP requests
type AppHandler struct {
	store       ports.StateStore
	initializer *initializer.Initializer
	coordinator *coordinator.Coordinator
	opts        coordinator.Options
	tracker     *ports.RouteTracker
	logger      *zap.Logger
}

// NewAppHandler creates a new app handler
func NewAppHandler(
	store ports.StateStore,
	appInitializer *initializer.Initializer,
	routeCoordinator *coordinator.Coordinator,
	opts coordinator.Options,
	tracker *ports.RouteTracker,
	logger *zap.Logger,
) *AppHandler {
	return &AppHandler{
		store:       store,
		initializer: appInitializer,
		coordinator: routeCoordinator,
		opts:        opts,
		tracker:     tracker,
		logger:      logger,
	}
}

// InitializeRequest represents the request body for initializing the app
type InitializeRequest struct {
	Locale      string `json:"locale" validate:"required"`
	InitialPath string `json:"initialPath,omitempty"`
}

// RouteChangeRequest represents the request body for a route change
type RouteChangeRequest struct {
	Locale string `json:"locale,omitempty"`
	PageID string `json:"pageId,omitempty"`
	Route  string `json:"route,omitempty"`
}

// RouteChangeResponse represents the resolved route
type RouteChangeResponse struct {
	Route string `json:"route"`
}

// AppStateResponse is the serialized application state
type AppStateResponse struct {
	Status   appstate.Status    `json:"status"`
	Locale   string             `json:"locale,omitempty"`
	Settings appstate.Settings  `json:"settings,omitempty"`
	Error    *appstate.AppError `json:"error,omitempty"`
}

// GetState handles GET /app
func (h *AppHandler) GetState(w http.ResponseWriter, r *http.Request) {
	snapshot := h.store.Snapshot()
	common.RespondJSON(w, http.StatusOK, AppStateResponse{
		Status:   snapshot.Status,
		Locale:   snapshot.Locale,
		Settings: snapshot.Settings,
		Error:    snapshot.Error,
	})
}

// Initialize handles POST /app/initialize
func (h *AppHandler) Initialize(w http.ResponseWriter, r *http.Request) {
	var req InitializeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", "Invalid request body: "+err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", "Validation error: "+err.Error())
		return
	}

	h.initializer.Initialize(r.Context(), initializer.Params{
		Locale:                 req.Locale,
		InitialPath:            req.InitialPath,
		UseExactDatasetRouting: h.opts.UseExactDatasetRouting,
		RemoteProjectID:        h.opts.RemoteProjectID,
		PageRefMapping:         h.opts.PageRefMapping,
		ValidLanguages:         h.opts.ValidLanguages,
	})

	snapshot := h.store.Snapshot()
	common.RespondJSON(w, http.StatusOK, AppStateResponse{
		Status:   snapshot.Status,
		Locale:   snapshot.Locale,
		Settings: snapshot.Settings,
		Error:    snapshot.Error,
	})
}

// RouteChange handles POST /app/route-change
func (h *AppHandler) RouteChange(w http.ResponseWriter, r *http.Request) {
	var req RouteChangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", "Invalid request body: "+err.Error())
		return
	}
	if req.PageID == "" && req.Route == "" {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", "either pageId or route is required")
		return
	}

	route, err := h.coordinator.RequestRouteChange(r.Context(), coordinator.Request{
		Locale: req.Locale,
		PageID: req.PageID,
		Route:  req.Route,
	}, h.options())
	if err != nil {
		h.logger.Error("Route change failed",
			zap.String("pageId", req.PageID),
			zap.String("route", req.Route),
			zap.Error(err),
		)
		common.RespondAppError(w, err)
		return
	}

	if route != "" {
		h.tracker.HandleRouteChange(r.Context(), route)
	}
	common.RespondJSON(w, http.StatusOK, RouteChangeResponse{Route: route})
}

// options snapshots the resolution context with the live current path.
func (h *AppHandler) options() coordinator.Options {
	opts := h.opts
	opts.CurrentPath = h.tracker.CurrentPath()
	return opts
}
