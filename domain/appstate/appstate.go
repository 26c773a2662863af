package appstate

import "contentbridge/domain/navigation"

// Status represents the lifecycle state of the application
type Status string

const (
	StatusNotInitialized Status = "not_initialized"
	StatusInitializing   Status = "initializing"
	StatusReady          Status = "ready"
	StatusError          Status = "error"
)

// AppError carries a user-displayable failure description. Description and
// Stacktrace are optional.
type AppError struct {
	Message     string `json:"message"`
	Description string `json:"description,omitempty"`
	Stacktrace  string `json:"stacktrace,omitempty"`
}

// Settings holds the project/global settings document fetched for the
// resolved locale.
type Settings map[string]interface{}

// Snapshot is a fully-formed view of the application state. Snapshots are
// committed whole by the initializer's serialized write path; readers never
// observe a partially-built one.
type Snapshot struct {
	Status     Status           `json:"status"`
	Locale     string           `json:"locale,omitempty"`
	Navigation *navigation.Data `json:"navigation,omitempty"`
	Settings   Settings         `json:"settings,omitempty"`
	Error      *AppError        `json:"error,omitempty"`
}
