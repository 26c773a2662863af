package store

import (
	"sync"
	"time"

	"contentbridge/application/ports"
	"contentbridge/domain/appstate"
	"contentbridge/domain/events"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
)

// DefaultItemCapacity bounds the stored-item cache. Callers key items by
// route or dataset id, so the bound is a backstop, not a working limit.
const DefaultItemCapacity = 1024

// StoredItem is one entry of the stored-item cache. An entry with a
// negative TTL never expires; an entry whose TTL has lapsed is logically
// absent and treated identically to one that was never fetched.
type StoredItem struct {
	Value     interface{} `json:"value"`
	FetchedAt int64       `json:"fetchedAt"` // unix milliseconds
	TTL       int64       `json:"ttl"`       // milliseconds, negative = never expire
}

// Expired reports whether the entry is logically absent at the given time.
func (it StoredItem) Expired(now time.Time) bool {
	return it.TTL >= 0 && it.FetchedAt+it.TTL < now.UnixMilli()
}

// Store is the in-memory state store: it owns the ApplicationState snapshot
// and the TTL-aware stored-item cache, and publishes a domain event to its
// subscribers after every committed mutation. All writes go through
// Dispatch; reads always see a fully-formed snapshot.
type Store struct {
	mu    sync.RWMutex
	state appstate.Snapshot
	items *lru.Cache[string, StoredItem]

	subMu       sync.Mutex
	subscribers map[int]ports.Listener
	nextSubID   int

	logger *zap.Logger
	now    func() time.Time
}

// New creates a state store with the given stored-item capacity.
func New(capacity int, logger *zap.Logger) (*Store, error) {
	if capacity <= 0 {
		capacity = DefaultItemCapacity
	}
	items, err := lru.New[string, StoredItem](capacity)
	if err != nil {
		return nil, err
	}
	return &Store{
		state:       appstate.Snapshot{Status: appstate.StatusNotInitialized},
		items:       items,
		subscribers: make(map[int]ports.Listener),
		logger:      logger,
		now:         time.Now,
	}, nil
}

// Snapshot returns the current application state.
func (s *Store) Snapshot() appstate.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// GetItem reads a stored item. It fails open to absent when the entry is
// missing or expired; expired entries are shadowed, not purged.
func (s *Store) GetItem(key string) (interface{}, bool) {
	item, ok := s.items.Get(key)
	if !ok || item.Expired(s.now()) {
		return nil, false
	}
	return item.Value, true
}

// Dispatch applies a state mutation and notifies subscribers. Unknown
// actions are logged and ignored.
func (s *Store) Dispatch(action ports.Action) {
	switch a := action.(type) {
	case ports.SetStoredItem:
		s.items.Add(a.Key, StoredItem{
			Value:     a.Value,
			FetchedAt: s.now().UnixMilli(),
			TTL:       a.TTL,
		})
		s.publish(events.NewItemStored(a.Key))

	case ports.SetNavigation:
		s.mu.Lock()
		s.state.Navigation = a.Data
		s.mu.Unlock()
		languageID := ""
		if a.Data != nil {
			languageID = a.Data.Meta.LanguageID
		}
		s.publish(events.NewNavigationReplaced(languageID))

	case ports.SetAppAsInitializing:
		s.mu.Lock()
		previousLocale := s.state.Locale
		s.state = appstate.Snapshot{Status: appstate.StatusInitializing}
		s.mu.Unlock()
		s.publish(events.NewAppInitializing(previousLocale))

	case ports.SetAppAsInitialized:
		s.mu.Lock()
		s.state = appstate.Snapshot{
			Status:     appstate.StatusReady,
			Locale:     a.Locale,
			Navigation: a.Navigation,
			Settings:   a.Settings,
		}
		s.mu.Unlock()
		s.publish(events.NewAppInitialized(a.Locale))

	case ports.SetError:
		s.mu.Lock()
		s.state = appstate.Snapshot{
			Status: appstate.StatusError,
			Error: &appstate.AppError{
				Message:     a.Message,
				Description: a.Description,
				Stacktrace:  a.Stacktrace,
			},
		}
		s.mu.Unlock()
		s.publish(events.NewAppErrored(a.Message))

	default:
		s.logger.Warn("Ignoring unknown store action",
			zap.String("action", action.ActionName()),
		)
	}
}

// Subscribe registers a listener for state-change events and returns its
// unsubscribe function.
func (s *Store) Subscribe(listener ports.Listener) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = listener

	return func() {
		s.subMu.Lock()
		delete(s.subscribers, id)
		s.subMu.Unlock()
	}
}

// publish delivers an event to all subscribers. Listeners run outside the
// state lock so they may read the store.
func (s *Store) publish(event events.DomainEvent) {
	s.subMu.Lock()
	listeners := make([]ports.Listener, 0, len(s.subscribers))
	for _, listener := range s.subscribers {
		listeners = append(listeners, listener)
	}
	s.subMu.Unlock()

	for _, listener := range listeners {
		listener(event)
	}
}
