package ports

import (
	"contentbridge/domain/appstate"
	"contentbridge/domain/events"
	"contentbridge/domain/navigation"
)

// Action is a state mutation dispatched against the store. All writes to
// application state flow through Dispatch; components other than the
// initializer/coordinator pair only read.
type Action interface {
	ActionName() string
}

// SetStoredItem writes a value into the stored-item cache. A negative TTL
// means the entry never expires.
type SetStoredItem struct {
	Key   string
	Value interface{}
	TTL   int64 // milliseconds
}

func (SetStoredItem) ActionName() string { return "setStoredItem" }

// SetNavigation replaces the navigation snapshot wholesale.
type SetNavigation struct {
	Data *navigation.Data
}

func (SetNavigation) ActionName() string { return "setNavigation" }

// SetAppAsInitializing forces the state machine into the initializing state,
// discarding prior navigation and error state.
type SetAppAsInitializing struct{}

func (SetAppAsInitializing) ActionName() string { return "setAppAsInitializing" }

// SetAppAsInitialized commits a successful initialization.
type SetAppAsInitialized struct {
	Locale     string
	Navigation *navigation.Data
	Settings   appstate.Settings
}

func (SetAppAsInitialized) ActionName() string { return "setAppAsInitialized" }

// SetError commits a failed initialization.
type SetError struct {
	Message     string
	Description string
	Stacktrace  string
}

func (SetError) ActionName() string { return "setError" }

// Listener receives state-change events after a commit. Listeners replace
// the implicit whole-tree re-render of reactive frameworks: rendering
// collaborators subscribe explicitly and decide themselves what to redraw.
type Listener func(event events.DomainEvent)

// StateStore owns the application state and the stored-item cache. Snapshot
// and GetItem never block and never observe partial state; Dispatch is the
// single serialized write path.
type StateStore interface {
	// Snapshot returns the current fully-formed application state.
	Snapshot() appstate.Snapshot

	// GetItem reads a stored item, failing open to absent when the entry is
	// missing or its TTL has lapsed.
	GetItem(key string) (interface{}, bool)

	// Dispatch applies a state mutation and notifies subscribers.
	Dispatch(action Action)

	// Subscribe registers a listener and returns its unsubscribe function.
	Subscribe(listener Listener) (unsubscribe func())
}
