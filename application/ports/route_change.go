package ports

import (
	"context"
	"sync"
)

// RouteChangeHandler is the capability the host application supplies to be
// told when the current URL should change. It is threaded explicitly through
// constructors; the composition root installs NopRouteChangeHandler when the
// host does not care.
type RouteChangeHandler interface {
	HandleRouteChange(ctx context.Context, route string)
}

// NopRouteChangeHandler ignores route changes.
type NopRouteChangeHandler struct{}

// HandleRouteChange implements RouteChangeHandler.
func (NopRouteChangeHandler) HandleRouteChange(ctx context.Context, route string) {}

// RouteTracker records the last routed path so the composition root can tell
// forced re-initializations where the host currently is. It optionally chains
// to another handler.
type RouteTracker struct {
	mu   sync.RWMutex
	path string
	next RouteChangeHandler
}

// NewRouteTracker creates a tracker that forwards to next when next is not
// nil.
func NewRouteTracker(next RouteChangeHandler) *RouteTracker {
	return &RouteTracker{next: next}
}

// HandleRouteChange records the route and forwards it.
func (t *RouteTracker) HandleRouteChange(ctx context.Context, route string) {
	t.mu.Lock()
	t.path = route
	t.mu.Unlock()

	if t.next != nil {
		t.next.HandleRouteChange(ctx, route)
	}
}

// CurrentPath returns the last routed path, or "" before any route change.
func (t *RouteTracker) CurrentPath() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.path
}
