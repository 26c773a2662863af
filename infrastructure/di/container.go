package di

import (
	"contentbridge/application/coordinator"
	"contentbridge/application/initializer"
	"contentbridge/application/ports"
	"contentbridge/application/resolver"
	"contentbridge/infrastructure/config"
	"contentbridge/infrastructure/messaging"
	"contentbridge/interfaces/bridge"

	"go.uber.org/zap"
)

// Container holds all application dependencies
type Container struct {
	Config       *config.Config
	Logger       *zap.Logger
	Client       ports.ContentClient
	Store        ports.StateStore
	Resolver     *resolver.Resolver
	Initializer  *initializer.Initializer
	Coordinator  *coordinator.Coordinator
	RouteTracker *ports.RouteTracker
	ChangeEvents *messaging.Listener
	Hooks        *bridge.EmbeddedHooks
	Options      coordinator.Options
	Bridge       *bridge.Bridge
}
