package coordinator

import (
	"context"
	"encoding/json"
	"strings"

	"contentbridge/application/initializer"
	"contentbridge/application/ports"
	"contentbridge/application/resolver"
	"contentbridge/domain/dataset"
	"contentbridge/domain/navigation"

	"go.uber.org/zap"
)

// Request names the target of a route change. Exactly one of PageID and
// Route identifies the target; Locale switches the application locale when
// it differs from the current one.
type Request struct {
	Locale string
	PageID string
	Route  string
}

// Options is the resolution context a route change runs under, supplied by
// the composition root from configuration.
type Options struct {
	UseExactDatasetRouting bool
	RemoteProjectID        string
	PageRefMapping         map[string]string
	ValidLanguages         []string

	// CurrentPath is the path the host is currently displaying; used as the
	// initial path when a route change has to re-initialize the app.
	CurrentPath string
}

// Coordinator computes the target route for a navigation request, reusing
// the resolver for dataset routes and the initializer for locale switches.
// It does not catch backend errors; they propagate to the caller.
type Coordinator struct {
	client       ports.ContentClient
	store        ports.StateStore
	resolver     *resolver.Resolver
	initializer  *initializer.Initializer
	routeHandler ports.RouteChangeHandler
	logger       *zap.Logger
}

// NewCoordinator creates a route change coordinator.
func NewCoordinator(
	client ports.ContentClient,
	store ports.StateStore,
	datasetResolver *resolver.Resolver,
	appInitializer *initializer.Initializer,
	routeHandler ports.RouteChangeHandler,
	logger *zap.Logger,
) *Coordinator {
	return &Coordinator{
		client:       client,
		store:        store,
		resolver:     datasetResolver,
		initializer:  appInitializer,
		routeHandler: routeHandler,
		logger:       logger,
	}
}

// RequestRouteChange answers "what should the URL become" for the request,
// or "" when no target exists. An unroutable request is not an error; it is
// logged and resolves to the empty route with no state change.
func (c *Coordinator) RequestRouteChange(ctx context.Context, req Request, opts Options) (string, error) {
	snapshot := c.store.Snapshot()

	c.logger.Debug("Route change requested",
		zap.String("current_locale", snapshot.Locale),
		zap.String("locale", req.Locale),
		zap.String("page_id", req.PageID),
		zap.String("route", req.Route),
	)

	if req.Locale == "" || req.Locale == snapshot.Locale {
		return c.sameLocale(ctx, req, opts, snapshot.Navigation)
	}
	return c.crossLocale(ctx, req, opts, snapshot.Navigation)
}

// sameLocale resolves a target within the current locale. No state beyond
// the stored-item cache changes.
func (c *Coordinator) sameLocale(ctx context.Context, req Request, opts Options, navData *navigation.Data) (string, error) {
	if req.Route != "" {
		if opts.UseExactDatasetRouting {
			ds, err := c.resolver.ResolveRoute(ctx, resolver.ResolveParams{
				Route:           req.Route,
				RemoteProjectID: opts.RemoteProjectID,
				PageRefMapping:  opts.PageRefMapping,
				ValidLanguages:  opts.ValidLanguages,
			})
			if err != nil {
				return "", err
			}
			if ds != nil {
				c.logger.Debug("Storing dataset for route",
					zap.String("dataset_id", ds.ID),
					zap.String("route", req.Route),
				)
				c.store.Dispatch(ports.SetStoredItem{Key: req.Route, Value: ds, TTL: -1})
			}
		}
		// The return value answers "what should the URL become"; the cache
		// write above is a side effect and does not influence it.
		return req.Route, nil
	}

	if req.PageID != "" {
		if node := navData.FindNode(navigation.Lookup{PageID: req.PageID}); node != nil {
			return node.SeoRoute, nil
		}
		c.logger.Debug("No navigation node for page", zap.String("page_id", req.PageID))
	}
	return "", nil
}

// crossLocale switches the application locale and translates the previous
// target into the new locale. The re-initialization replaces all navigation
// and dataset state; reads against the old snapshot become invalid the
// moment it returns.
func (c *Coordinator) crossLocale(ctx context.Context, req Request, opts Options, navData *navigation.Data) (string, error) {
	// Capture everything needed from the old state before discarding it.
	currentPageID := ""
	if node := navData.FindNode(navigation.Lookup{PageID: req.PageID, SeoRoute: req.Route}); node != nil {
		currentPageID = node.ID
	}
	var currentDataset *dataset.Dataset
	if req.Route != "" {
		if value, ok := c.store.GetItem(req.Route); ok {
			currentDataset, _ = value.(*dataset.Dataset)
		}
	}

	c.initializer.Initialize(ctx, initializer.Params{Locale: req.Locale})

	if currentDataset != nil {
		return c.translateDataset(ctx, currentDataset, req)
	}

	if currentPageID != "" {
		// The new navigation snapshot was committed by the initializer.
		newNav := c.store.Snapshot().Navigation
		if node := newNav.FindNode(navigation.Lookup{PageID: currentPageID}); node != nil {
			return node.SeoRoute, nil
		}
	}
	return "", nil
}

// translateDataset fetches the localized counterpart of the previously
// active dataset by its stable identifier and maps the active
// content-projection page reference onto the counterpart's route bindings,
// falling back to its primary route.
func (c *Coordinator) translateDataset(ctx context.Context, current *dataset.Dataset, req Request) (string, error) {
	result, err := c.client.FetchByFilter(ctx, ports.FetchByFilterParams{
		Filters: []ports.Filter{
			{Field: "identifier", Operator: ports.OperatorEquals, Value: current.ID},
		},
		Locale: req.Locale,
	})
	if err != nil {
		return "", err
	}
	if len(result.Items) == 0 {
		return "", nil
	}

	var localized dataset.Dataset
	if err := json.Unmarshal(result.Items[0], &localized); err != nil {
		return "", err
	}

	projectionPageRef, _ := current.PageRefForRoute(req.Route)
	route, ok := localized.RouteForPageRef(projectionPageRef)
	if !ok || route == "" {
		route = localized.Route
	}
	if route != "" {
		c.store.Dispatch(ports.SetStoredItem{Key: route, Value: &localized, TTL: -1})
	}
	return route, nil
}

// RouteToPreviewID routes to the page behind a composite "pageId.locale"
// preview identifier, falling back to a direct backend lookup when the
// current navigation state cannot answer it, and hands the resolved route
// to the host's route change handler.
func (c *Coordinator) RouteToPreviewID(ctx context.Context, previewID string, opts Options) error {
	pageID, locale := SplitPreviewID(previewID)
	if pageID == "" {
		return nil
	}

	currentLocale := c.store.Snapshot().Locale
	if locale == "" {
		locale = currentLocale
	}

	c.logger.Debug("Try to resolve route",
		zap.String("page_id", pageID),
		zap.String("locale", locale),
	)

	newRoute, err := c.RequestRouteChange(ctx, Request{PageID: pageID, Locale: locale}, opts)
	if err != nil {
		return err
	}

	if newRoute == "" {
		newRoute, err = c.lookupRouteByID(ctx, pageID, locale)
		if err != nil {
			return err
		}
		if newRoute != "" {
			// The page exists but was missing from the navigation state;
			// re-synchronize before routing to it.
			c.initializer.Initialize(ctx, initializer.Params{
				Locale:                 currentLocale,
				InitialPath:            opts.CurrentPath,
				UseExactDatasetRouting: opts.UseExactDatasetRouting,
				RemoteProjectID:        opts.RemoteProjectID,
				PageRefMapping:         opts.PageRefMapping,
				ValidLanguages:         opts.ValidLanguages,
			})
		}
	}

	if newRoute == "" {
		c.logger.Warn("Unable to find route for preview element",
			zap.String("page_id", pageID),
			zap.String("locale", locale),
		)
		return nil
	}

	c.routeHandler.HandleRouteChange(ctx, newRoute)
	return nil
}

// lookupRouteByID asks the backend directly for the routes of a document,
// projected down to the route fields.
func (c *Coordinator) lookupRouteByID(ctx context.Context, pageID, locale string) (string, error) {
	result, err := c.client.FetchByFilter(ctx, ports.FetchByFilterParams{
		Filters: []ports.Filter{
			{Field: "identifier", Operator: ports.OperatorEquals, Value: pageID},
		},
		Locale: locale,
		Keys: []ports.KeysProjection{
			{"type": 1, "route": 1, "routes.route": 1},
		},
	})
	if err != nil {
		return "", err
	}
	if len(result.Items) == 0 {
		return "", nil
	}

	var item struct {
		Route  string                 `json:"route"`
		Routes []dataset.RouteBinding `json:"routes"`
	}
	if err := json.Unmarshal(result.Items[0], &item); err != nil {
		return "", err
	}
	if item.Route != "" {
		return item.Route, nil
	}
	if len(item.Routes) > 0 {
		return item.Routes[0].Route, nil
	}
	return "", nil
}

// SplitPreviewID splits a composite "pageId.locale" preview identifier. The
// locale part is optional.
func SplitPreviewID(previewID string) (pageID, locale string) {
	parts := strings.SplitN(previewID, ".", 2)
	pageID = parts[0]
	if len(parts) > 1 {
		locale = parts[1]
	}
	return pageID, locale
}
