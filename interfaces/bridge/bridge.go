package bridge

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"contentbridge/application/coordinator"
	"contentbridge/application/initializer"
	"contentbridge/application/ports"
	"contentbridge/pkg/errors"

	"go.uber.org/zap"
)

// Confirmation wait bounds. Page creation takes longer than other backend
// writes, so navigation changes wait with their own, independently tunable
// timeout.
const (
	DefaultEventTimeout    = 5000 * time.Millisecond
	NavigationEventTimeout = 4500 * time.Millisecond
)

// ContentUpdate is the cancelable notification emitted after a confirmed
// content change.
type ContentUpdate struct {
	PreviewID string
	Content   json.RawMessage
}

// ContentUpdateListener handles a content update; returning true cancels the
// editing tool's default re-render.
type ContentUpdateListener func(update ContentUpdate) (cancel bool)

// Config tunes the bridge's confirmation waits. Zero values fall back to the
// defaults above.
type Config struct {
	EventTimeout           time.Duration
	NavigationEventTimeout time.Duration
}

// Bridge subscribes to the external editing tool's notifications, correlates
// them with confirmation events from the content backend, and triggers
// coordinator/initializer operations. It is not a polling loop: Register
// installs five named handlers once; repeated registration is a logged
// no-op. Backend failures during a handler are not caught here.
type Bridge struct {
	hooks        ports.EditHooks
	changeEvents ports.ChangeEvents
	coordinator  *coordinator.Coordinator
	initializer  *initializer.Initializer
	store        ports.StateStore
	opts         coordinator.Options
	currentPath  func() string
	logger       *zap.Logger

	eventTimeout      time.Duration
	navigationTimeout time.Duration

	registered atomic.Bool

	listenerMu sync.Mutex
	listeners  map[int]ContentUpdateListener
	nextID     int
}

// New creates a live-edit event bridge. currentPath supplies the path the
// host is currently displaying; forced re-initializations start from it.
func New(
	hooks ports.EditHooks,
	changeEvents ports.ChangeEvents,
	routeCoordinator *coordinator.Coordinator,
	appInitializer *initializer.Initializer,
	store ports.StateStore,
	opts coordinator.Options,
	currentPath func() string,
	cfg Config,
	logger *zap.Logger,
) *Bridge {
	eventTimeout := cfg.EventTimeout
	if eventTimeout <= 0 {
		eventTimeout = DefaultEventTimeout
	}
	navigationTimeout := cfg.NavigationEventTimeout
	if navigationTimeout <= 0 {
		navigationTimeout = NavigationEventTimeout
	}
	return &Bridge{
		hooks:             hooks,
		changeEvents:      changeEvents,
		coordinator:       routeCoordinator,
		initializer:       appInitializer,
		store:             store,
		opts:              opts,
		currentPath:       currentPath,
		logger:            logger,
		eventTimeout:      eventTimeout,
		navigationTimeout: navigationTimeout,
		listeners:         make(map[int]ContentUpdateListener),
	}
}

// OnContentUpdate registers a listener for confirmed content changes and
// returns its unsubscribe function.
func (b *Bridge) OnContentUpdate(listener ContentUpdateListener) func() {
	b.listenerMu.Lock()
	defer b.listenerMu.Unlock()

	id := b.nextID
	b.nextID++
	b.listeners[id] = listener

	return func() {
		b.listenerMu.Lock()
		delete(b.listeners, id)
		b.listenerMu.Unlock()
	}
}

// Register installs the edit-tool handlers. The handlers are bound inside
// the tool's init callback; a guard flag keeps repeated mount cycles from
// registering twice.
func (b *Bridge) Register(ctx context.Context) error {
	if b.hooks == nil {
		return errors.NewConfigurationError("could not find edit-tool bridge object")
	}

	b.hooks.OnInit(func(success bool) {
		if !success {
			b.logger.Error("Edit-tool bridge failed to initialize")
			return
		}
		if !b.registered.CompareAndSwap(false, true) {
			b.logger.Debug("Hooks already registered, skipping registrations")
			return
		}
		b.registerHooks(ctx)
	})
	return nil
}

func (b *Bridge) registerHooks(ctx context.Context) {
	b.logger.Debug("Registering edit-tool hooks")

	b.hooks.OnRequestPreviewElement(func(previewID string) {
		b.logger.Debug("Preview element requested", zap.String("preview_id", previewID))
		if err := b.coordinator.RouteToPreviewID(ctx, previewID, b.options()); err != nil {
			b.logger.Error("Routing to preview element failed", zap.Error(err))
		}
	})

	b.hooks.OnContentChange(func(change ports.ContentChange) bool {
		b.logger.Debug("Content change received",
			zap.String("preview_id", change.PreviewID),
			zap.Bool("node_present", change.NodePresent),
		)

		if change.IsDeletion() {
			// The document is gone; rebuild state so stale menu entries
			// disappear. The editing tool requests the homepage next.
			b.forceUpdate(ctx)
			return true
		}

		if change.NodePresent {
			b.waitForEventOrTimeout(ctx, change.PreviewID, b.eventTimeout)

			canceled := b.emitContentUpdate(ContentUpdate{
				PreviewID: change.PreviewID,
				Content:   change.Content,
			})
			if canceled {
				// Handled elsewhere; suppress the default re-render.
				return true
			}
		}
		return false
	})

	b.hooks.OnRerenderView(func() bool {
		b.logger.Debug("View re-render requested")
		// Wait so the changes that caused the re-render are visible in the
		// content and navigation backends before refetching.
		b.waitForEventOrTimeout(ctx, "", b.eventTimeout)
		b.forceUpdate(ctx)
		return true
	})

	b.hooks.OnNavigationChange(func(newPagePreviewID string) {
		b.logger.Debug("Navigation change received",
			zap.String("new_page_preview_id", newPagePreviewID),
		)
		b.waitForEventOrTimeout(ctx, newPagePreviewID, b.navigationTimeout)

		b.forceUpdate(ctx)
		if newPagePreviewID != "" {
			// A page was created; route to it once the state is rebuilt.
			if err := b.coordinator.RouteToPreviewID(ctx, newPagePreviewID, b.options()); err != nil {
				b.logger.Error("Routing to new page failed", zap.Error(err))
			}
		}
	})
}

// waitForEventOrTimeout blocks until the backend confirms the change
// correlated by previewID, falling back to the currently previewed element
// when none is given. The wait degrades to the timeout; it never hangs.
func (b *Bridge) waitForEventOrTimeout(ctx context.Context, previewID string, timeout time.Duration) {
	if previewID == "" {
		current, err := b.hooks.GetPreviewElement(ctx)
		if err != nil {
			b.logger.Warn("Could not determine previewed element", zap.Error(err))
		}
		previewID = current
	}
	if confirmed := b.changeEvents.WaitFor(ctx, previewID, timeout); !confirmed {
		b.logger.Debug("Backend confirmation timed out",
			zap.String("preview_id", previewID),
			zap.Duration("timeout", timeout),
		)
	}
}

// forceUpdate re-initializes the application at the current locale and the
// path the host is displaying.
func (b *Bridge) forceUpdate(ctx context.Context) {
	opts := b.options()
	b.initializer.Initialize(ctx, initializer.Params{
		Locale:                 b.store.Snapshot().Locale,
		InitialPath:            opts.CurrentPath,
		UseExactDatasetRouting: opts.UseExactDatasetRouting,
		RemoteProjectID:        opts.RemoteProjectID,
		PageRefMapping:         opts.PageRefMapping,
		ValidLanguages:         opts.ValidLanguages,
	})
}

// options snapshots the resolution context with the live current path.
func (b *Bridge) options() coordinator.Options {
	opts := b.opts
	if b.currentPath != nil {
		opts.CurrentPath = b.currentPath()
	}
	return opts
}

// emitContentUpdate delivers the update to all listeners; any listener
// returning true cancels the default re-render.
func (b *Bridge) emitContentUpdate(update ContentUpdate) bool {
	b.listenerMu.Lock()
	listeners := make([]ContentUpdateListener, 0, len(b.listeners))
	for _, listener := range b.listeners {
		listeners = append(listeners, listener)
	}
	b.listenerMu.Unlock()

	canceled := false
	for _, listener := range listeners {
		if listener(update) {
			canceled = true
		}
	}
	return canceled
}
