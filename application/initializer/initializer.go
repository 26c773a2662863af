package initializer

import (
	"context"
	"net/url"
	"sync/atomic"

	"contentbridge/application/ports"
	"contentbridge/application/resolver"
	"contentbridge/domain/navigation"
	"contentbridge/pkg/errors"

	"go.uber.org/zap"
)

// Fixed user-facing failure texts for the navigation fetch dead end.
const (
	MsgNavigationUnavailable  = "Could not fetch navigation-data from NavigationService"
	DescNavigationUnavailable = "Please make sure that the Navigation-Service is available and your config is correct. See the documentation for more information."

	msgUnknownError = "Unknown error occurred."
)

// Params carries everything one initialization needs.
type Params struct {
	// Locale is the requested locale. The committed locale may differ when
	// the navigation service normalizes it.
	Locale string

	// InitialPath is the incoming URL path; empty defaults to root.
	InitialPath string

	// UseExactDatasetRouting resolves the path against datasets before the
	// generic navigation lookup.
	UseExactDatasetRouting bool

	// RemoteProjectID, PageRefMapping and ValidLanguages parameterize
	// dataset resolution, see resolver.ResolveParams.
	RemoteProjectID string
	PageRefMapping  map[string]string
	ValidLanguages  []string
}

// Initializer drives the application state machine
// not_initialized -> initializing -> (ready | error). Each Initialize call
// forces the state to initializing first; ready and error re-enter
// initializing only through a fresh call. The only observable effect of a
// call is the committed state; no failure escapes to the caller.
//
// Callers must not run two initializations concurrently against the same
// store. As a backstop, each call captures a generation and a superseded
// call discards its final commit instead of overwriting the newer one.
type Initializer struct {
	client   ports.ContentClient
	store    ports.StateStore
	resolver *resolver.Resolver
	logger   *zap.Logger

	generation atomic.Uint64
}

// NewInitializer creates an application initializer.
func NewInitializer(
	client ports.ContentClient,
	store ports.StateStore,
	datasetResolver *resolver.Resolver,
	logger *zap.Logger,
) *Initializer {
	return &Initializer{
		client:   client,
		store:    store,
		resolver: datasetResolver,
		logger:   logger,
	}
}

// Initialize (re)builds locale, navigation, dataset and settings state.
func (i *Initializer) Initialize(ctx context.Context, params Params) {
	generation := i.generation.Add(1)

	i.logger.Debug("Initializing app",
		zap.String("locale", params.Locale),
		zap.String("initial_path", params.InitialPath),
		zap.Bool("exact_dataset_routing", params.UseExactDatasetRouting),
	)

	route := normalizePath(params.InitialPath)

	i.store.Dispatch(ports.SetAppAsInitializing{})

	if err := i.run(ctx, generation, route, params); err != nil {
		i.commitError(generation, err)
	}
}

// run executes the fetch sequence; any error it returns is converted into
// the error state by the caller's single boundary.
func (i *Initializer) run(ctx context.Context, generation uint64, route string, params Params) error {
	navData, err := i.fetchExactDatasetRouting(ctx, route, params)
	if err != nil {
		return err
	}

	if navData == nil {
		navData, err = i.fetchNavigationFallback(ctx, params.Locale, route)
		if err != nil {
			return err
		}
	}

	if navData == nil {
		i.commit(generation, ports.SetError{
			Message:     MsgNavigationUnavailable,
			Description: DescNavigationUnavailable,
		})
		return nil
	}

	// Settings are scoped to the locale the navigation service resolved,
	// not the one that was requested.
	settings, err := i.client.FetchProjectProperties(ctx, ports.FetchProjectPropertiesParams{
		Locale: navData.Meta.LanguageID,
	})
	if err != nil {
		return err
	}

	i.commit(generation, ports.SetAppAsInitialized{
		Locale:     navData.Meta.LanguageID,
		Navigation: navData,
		Settings:   settings,
	})
	return nil
}

// fetchExactDatasetRouting attempts dataset-based resolution of the path.
// Content-projection URLs are absent from the navigation tree, so this must
// win over the generic lookup. It returns nil navigation when the mode is
// off, no dataset matches, or the dataset's navigation fetch found nothing.
func (i *Initializer) fetchExactDatasetRouting(ctx context.Context, route string, params Params) (*navigation.Data, error) {
	if !params.UseExactDatasetRouting {
		return nil, nil
	}

	ds, err := i.resolver.ResolveRoute(ctx, resolver.ResolveParams{
		Route:           route,
		RemoteProjectID: params.RemoteProjectID,
		PageRefMapping:  params.PageRefMapping,
		ValidLanguages:  params.ValidLanguages,
	})
	if err != nil || ds == nil {
		return nil, err
	}

	i.logger.Debug("Storing dataset for route",
		zap.String("dataset_id", ds.ID),
		zap.String("route", route),
	)
	// Keyed by the original path as the caller supplied it, not the
	// normalized route.
	i.store.Dispatch(ports.SetStoredItem{
		Key:   params.InitialPath,
		Value: ds,
		TTL:   -1,
	})

	// Navigation follows the dataset's own locale, not the requested one.
	return i.fetchNavigationOrNil(ctx, ports.FetchNavigationParams{Locale: ds.Locale})
}

// fetchNavigationFallback fetches navigation for the requested locale and
// path, retrying once with the root path when the path is not in the tree.
func (i *Initializer) fetchNavigationFallback(ctx context.Context, locale, route string) (*navigation.Data, error) {
	navData, err := i.fetchNavigationOrNil(ctx, ports.FetchNavigationParams{
		Locale:      locale,
		InitialPath: route,
	})
	if err != nil || navData != nil {
		return navData, err
	}
	return i.fetchNavigationOrNil(ctx, ports.FetchNavigationParams{
		Locale:      locale,
		InitialPath: "/",
	})
}

// fetchNavigationOrNil swallows the backend's not-found error kind; every
// other failure propagates.
func (i *Initializer) fetchNavigationOrNil(ctx context.Context, params ports.FetchNavigationParams) (*navigation.Data, error) {
	navData, err := i.client.FetchNavigation(ctx, params)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return navData, nil
}

// commitError converts a failure into the error state, capturing message and
// stack trace when the error is structured.
func (i *Initializer) commitError(generation uint64, err error) {
	i.logger.Error("App initialization failed", zap.Error(err))

	action := ports.SetError{Message: msgUnknownError}
	if appErr := errors.GetAppError(err); appErr != nil {
		action.Message = appErr.Message
		action.Stacktrace = appErr.StackTrace
	} else if err != nil && err.Error() != "" {
		action.Message = err.Error()
	}
	i.commit(generation, action)
}

// commit applies a final state transition unless a newer initialization has
// superseded this one, in which case the stale result is discarded.
func (i *Initializer) commit(generation uint64, action ports.Action) {
	if i.generation.Load() != generation {
		i.logger.Debug("Discarding superseded initialization result",
			zap.Uint64("generation", generation),
		)
		return
	}
	i.store.Dispatch(action)
}

// normalizePath URI-decodes the incoming path and defaults to root.
func normalizePath(path string) string {
	if path == "" {
		return "/"
	}
	if decoded, err := url.PathUnescape(path); err == nil {
		return decoded
	}
	return path
}
