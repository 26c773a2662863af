package di

import (
	"contentbridge/application/coordinator"
	"contentbridge/application/initializer"
	"contentbridge/application/ports"
	"contentbridge/application/resolver"
	"contentbridge/infrastructure/caas"
	"contentbridge/infrastructure/config"
	"contentbridge/infrastructure/messaging"
	"contentbridge/infrastructure/store"
	"contentbridge/interfaces/bridge"

	"go.uber.org/zap"
)

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	var logger *zap.Logger
	var err error

	if cfg.IsProduction() {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}

	if err != nil {
		return nil, err
	}

	return logger, nil
}

// ProvideContentClient creates the content backend client
func ProvideContentClient(cfg *config.Config, logger *zap.Logger) ports.ContentClient {
	return caas.NewClient(caas.ClientConfig{
		ContentURL:    cfg.ContentAPIURL,
		NavigationURL: cfg.NavigationServiceURL,
		APIKey:        cfg.ContentAPIKey,
	}, logger)
}

// ProvideStateStore creates the application state store
func ProvideStateStore(cfg *config.Config, logger *zap.Logger) (ports.StateStore, error) {
	stateStore, err := store.New(cfg.StoreCapacity, logger)
	if err != nil {
		return nil, err
	}
	return stateStore, nil
}

// ProvideResolver creates the dataset route resolver
func ProvideResolver(client ports.ContentClient, logger *zap.Logger) *resolver.Resolver {
	return resolver.NewResolver(client, logger)
}

// ProvideInitializer creates the application initializer
func ProvideInitializer(
	client ports.ContentClient,
	stateStore ports.StateStore,
	datasetResolver *resolver.Resolver,
	logger *zap.Logger,
) *initializer.Initializer {
	return initializer.NewInitializer(client, stateStore, datasetResolver, logger)
}

// ProvideRouteTracker creates the route change handler. It records the last
// routed path so forced re-initializations know where the host currently is.
func ProvideRouteTracker() *ports.RouteTracker {
	return ports.NewRouteTracker(nil)
}

// ProvideCoordinator creates the route change coordinator
func ProvideCoordinator(
	client ports.ContentClient,
	stateStore ports.StateStore,
	datasetResolver *resolver.Resolver,
	appInitializer *initializer.Initializer,
	routeTracker *ports.RouteTracker,
	logger *zap.Logger,
) *coordinator.Coordinator {
	return coordinator.NewCoordinator(client, stateStore, datasetResolver, appInitializer, routeTracker, logger)
}

// ProvideChangeEvents creates the backend change-event listener
func ProvideChangeEvents(cfg *config.Config, logger *zap.Logger) *messaging.Listener {
	return messaging.NewListener(cfg.ChangeEventsURL, logger)
}

// ProvideEditHooks creates the in-process edit-hook source driven by the
// REST layer
func ProvideEditHooks() *bridge.EmbeddedHooks {
	return bridge.NewEmbeddedHooks()
}

// ProvideCoordinatorOptions builds the resolution context route changes run
// under
func ProvideCoordinatorOptions(cfg *config.Config) coordinator.Options {
	return coordinator.Options{
		UseExactDatasetRouting: cfg.UseExactDatasetRouting,
		RemoteProjectID:        cfg.RemoteDatasetProjectID,
		PageRefMapping:         cfg.PageRefMapping,
		ValidLanguages:         cfg.ValidLanguages,
	}
}

// ProvideBridge creates the live-edit event bridge
func ProvideBridge(
	cfg *config.Config,
	hooks *bridge.EmbeddedHooks,
	changeEvents *messaging.Listener,
	routeCoordinator *coordinator.Coordinator,
	appInitializer *initializer.Initializer,
	stateStore ports.StateStore,
	opts coordinator.Options,
	routeTracker *ports.RouteTracker,
	logger *zap.Logger,
) *bridge.Bridge {
	return bridge.New(
		hooks,
		changeEvents,
		routeCoordinator,
		appInitializer,
		stateStore,
		opts,
		routeTracker.CurrentPath,
		bridge.Config{
			EventTimeout:           cfg.EventTimeout,
			NavigationEventTimeout: cfg.NavigationEventTimeout,
		},
		logger,
	)
}
