package events

import (
	"math/rand"
	"time"

	"github.com/oklog/ulid/v2"
)

// DomainEvent is the base interface for all state-change events
// Events represent something that has happened in the past
type DomainEvent interface {
	GetEventID() string
	GetEventType() string
	GetTimestamp() time.Time
}

// BaseEvent provides common event fields
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

func (e BaseEvent) GetEventID() string      { return e.EventID }
func (e BaseEvent) GetEventType() string    { return e.EventType }
func (e BaseEvent) GetTimestamp() time.Time { return e.Timestamp }

// newBaseEvent stamps a fresh event with a sortable ULID and the current time
func newBaseEvent(eventType string) BaseEvent {
	now := time.Now()
	entropy := ulid.Monotonic(rand.New(rand.NewSource(now.UnixNano())), 0)
	return BaseEvent{
		EventID:   ulid.MustNew(ulid.Timestamp(now), entropy).String(),
		EventType: eventType,
		Timestamp: now,
	}
}

// Application lifecycle events

// AppInitializing is published when a (re)initialization starts and prior
// navigation and error state has been discarded
type AppInitializing struct {
	BaseEvent
	Locale string `json:"locale"`
}

// NewAppInitializing creates an AppInitializing event
func NewAppInitializing(locale string) AppInitializing {
	return AppInitializing{
		BaseEvent: newBaseEvent("app.initializing"),
		Locale:    locale,
	}
}

// AppInitialized is published when initialization completed and the state
// holds a fresh navigation snapshot and settings
type AppInitialized struct {
	BaseEvent
	Locale string `json:"locale"`
}

// NewAppInitialized creates an AppInitialized event
func NewAppInitialized(locale string) AppInitialized {
	return AppInitialized{
		BaseEvent: newBaseEvent("app.initialized"),
		Locale:    locale,
	}
}

// AppErrored is published when initialization failed and the error state was
// committed
type AppErrored struct {
	BaseEvent
	Message string `json:"message"`
}

// NewAppErrored creates an AppErrored event
func NewAppErrored(message string) AppErrored {
	return AppErrored{
		BaseEvent: newBaseEvent("app.errored"),
		Message:   message,
	}
}

// Navigation events

// NavigationReplaced is published when the navigation snapshot was swapped
// wholesale
type NavigationReplaced struct {
	BaseEvent
	LanguageID string `json:"language_id"`
}

// NewNavigationReplaced creates a NavigationReplaced event
func NewNavigationReplaced(languageID string) NavigationReplaced {
	return NavigationReplaced{
		BaseEvent:  newBaseEvent("navigation.replaced"),
		LanguageID: languageID,
	}
}

// Stored item events

// ItemStored is published when a value was written to the stored-item cache
type ItemStored struct {
	BaseEvent
	Key string `json:"key"`
}

// NewItemStored creates an ItemStored event
func NewItemStored(key string) ItemStored {
	return ItemStored{
		BaseEvent: newBaseEvent("item.stored"),
		Key:       key,
	}
}
