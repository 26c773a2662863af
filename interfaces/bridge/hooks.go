package bridge

import (
	"context"
	"sync"

	"contentbridge/application/ports"
	"contentbridge/pkg/errors"
)

// EmbeddedHooks is an in-process implementation of ports.EditHooks. The
// editing tool reaches the server over HTTP, so the REST layer drives the
// hooks through the Trigger methods; the bridge installs its handlers the
// same way it would against any other hook source.
type EmbeddedHooks struct {
	mu sync.RWMutex

	initHandler             func(success bool)
	previewElementHandler   func(previewID string)
	contentChangeHandler    func(change ports.ContentChange) bool
	rerenderViewHandler     func() bool
	navigationChangeHandler func(newPagePreviewID string)

	currentPreviewElement string
}

var _ ports.EditHooks = (*EmbeddedHooks)(nil)

// NewEmbeddedHooks creates an edit-hook source driven by the REST layer.
func NewEmbeddedHooks() *EmbeddedHooks {
	return &EmbeddedHooks{}
}

// OnInit stores the init handler and fires it immediately: an in-process
// hook source is connected by construction.
func (h *EmbeddedHooks) OnInit(handler func(success bool)) {
	h.mu.Lock()
	h.initHandler = handler
	h.mu.Unlock()

	handler(true)
}

// OnRequestPreviewElement stores the preview-element handler.
func (h *EmbeddedHooks) OnRequestPreviewElement(handler func(previewID string)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.previewElementHandler = handler
}

// OnContentChange stores the content-change handler.
func (h *EmbeddedHooks) OnContentChange(handler func(change ports.ContentChange) bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.contentChangeHandler = handler
}

// OnRerenderView stores the re-render handler.
func (h *EmbeddedHooks) OnRerenderView(handler func() bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.rerenderViewHandler = handler
}

// OnNavigationChange stores the navigation-change handler.
func (h *EmbeddedHooks) OnNavigationChange(handler func(newPagePreviewID string)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.navigationChangeHandler = handler
}

// GetPreviewElement returns the preview id last reported by the editing
// tool.
func (h *EmbeddedHooks) GetPreviewElement(_ context.Context) (string, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.currentPreviewElement, nil
}

// SetPreviewElement records which element the editing tool is previewing.
func (h *EmbeddedHooks) SetPreviewElement(previewID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.currentPreviewElement = previewID
}

// TriggerRequestPreviewElement forwards a preview-element request to the
// registered handler.
func (h *EmbeddedHooks) TriggerRequestPreviewElement(previewID string) error {
	h.mu.RLock()
	handler := h.previewElementHandler
	h.mu.RUnlock()

	if handler == nil {
		return errors.NewConfigurationError("no preview element handler registered")
	}
	h.SetPreviewElement(previewID)
	handler(previewID)
	return nil
}

// TriggerContentChange forwards a content change; the returned flag tells
// the editing tool whether the change was handled.
func (h *EmbeddedHooks) TriggerContentChange(change ports.ContentChange) (bool, error) {
	h.mu.RLock()
	handler := h.contentChangeHandler
	h.mu.RUnlock()

	if handler == nil {
		return false, errors.NewConfigurationError("no content change handler registered")
	}
	return handler(change), nil
}

// TriggerRerenderView forwards a re-render request.
func (h *EmbeddedHooks) TriggerRerenderView() (bool, error) {
	h.mu.RLock()
	handler := h.rerenderViewHandler
	h.mu.RUnlock()

	if handler == nil {
		return false, errors.NewConfigurationError("no re-render handler registered")
	}
	return handler(), nil
}

// TriggerNavigationChange forwards a navigation change.
func (h *EmbeddedHooks) TriggerNavigationChange(newPagePreviewID string) error {
	h.mu.RLock()
	handler := h.navigationChangeHandler
	h.mu.RUnlock()

	if handler == nil {
		return errors.NewConfigurationError("no navigation change handler registered")
	}
	handler(newPagePreviewID)
	return nil
}
