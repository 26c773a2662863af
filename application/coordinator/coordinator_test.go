package coordinator

import (
	"context"
	"encoding/json"
	"testing"

	"contentbridge/application/initializer"
	"contentbridge/application/ports"
	"contentbridge/application/resolver"
	"contentbridge/domain/appstate"
	"contentbridge/domain/dataset"
	"contentbridge/domain/navigation"
	"contentbridge/infrastructure/store"
	"contentbridge/tests/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fixture struct {
	coordinator *Coordinator
	client      *mocks.MockContentClient
	store       *store.Store
	routes      *mocks.RecordingRouteHandler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	client := new(mocks.MockContentClient)
	stateStore, err := store.New(0, zap.NewNop())
	require.NoError(t, err)
	datasetResolver := resolver.NewResolver(client, zap.NewNop())
	appInitializer := initializer.NewInitializer(client, stateStore, datasetResolver, zap.NewNop())
	routes := &mocks.RecordingRouteHandler{}
	return &fixture{
		coordinator: NewCoordinator(client, stateStore, datasetResolver, appInitializer, routes, zap.NewNop()),
		client:      client,
		store:       stateStore,
		routes:      routes,
	}
}

func navDataDE() *navigation.Data {
	return &navigation.Data{
		IDMap: map[string]*navigation.Node{
			"page-home": {ID: "page-home", SeoRoute: "/"},
			"page-news": {ID: "page-news", SeoRoute: "/nachrichten/"},
		},
		SeoRouteMap: map[string]string{
			"/":             "page-home",
			"/nachrichten/": "page-news",
		},
		Meta: navigation.Meta{LanguageID: "de_DE"},
	}
}

func navDataEN() *navigation.Data {
	return &navigation.Data{
		IDMap: map[string]*navigation.Node{
			"page-home": {ID: "page-home", SeoRoute: "/en/"},
			"page-news": {ID: "page-news", SeoRoute: "/news/"},
		},
		SeoRouteMap: map[string]string{
			"/en/":   "page-home",
			"/news/": "page-news",
		},
		Meta: navigation.Meta{LanguageID: "en_GB"},
	}
}

func (f *fixture) primeReady(navData *navigation.Data) {
	f.store.Dispatch(ports.SetAppAsInitialized{
		Locale:     navData.Meta.LanguageID,
		Navigation: navData,
		Settings:   appstate.Settings{},
	})
}

func rawDataset(t *testing.T, ds dataset.Dataset) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(ds)
	require.NoError(t, err)
	return raw
}

func TestRequestRouteChange_SameLocale_RouteWithoutExactRouting(t *testing.T) {
	f := newFixture(t)
	f.primeReady(navDataDE())

	route, err := f.coordinator.RequestRouteChange(context.Background(), Request{
		Locale: "de_DE",
		Route:  "/nachrichten/",
	}, Options{})

	require.NoError(t, err)
	assert.Equal(t, "/nachrichten/", route)
	f.client.AssertNotCalled(t, "FetchByFilter")
}

func TestRequestRouteChange_SameLocale_ExactRoutingCachesDataset(t *testing.T) {
	// Arrange
	ctx := context.Background()
	f := newFixture(t)
	f.primeReady(navDataDE())

	ds := dataset.Dataset{ID: "ds-1", FSType: "Dataset", Locale: "de_DE", Route: "/produkte/espresso/"}
	f.client.On("FetchByFilter", ctx, mock.Anything).
		Return(ports.FetchResult{Items: []json.RawMessage{rawDataset(t, ds)}}, nil)

	// Act
	route, err := f.coordinator.RequestRouteChange(ctx, Request{
		Locale: "de_DE",
		Route:  "/produkte/espresso/",
	}, Options{UseExactDatasetRouting: true})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "/produkte/espresso/", route)

	cached, ok := f.store.GetItem("/produkte/espresso/")
	require.True(t, ok)
	assert.Equal(t, "ds-1", cached.(*dataset.Dataset).ID)
}

func TestRequestRouteChange_SameLocale_RouteReturnedEvenWithoutDataset(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.primeReady(navDataDE())

	f.client.On("FetchByFilter", ctx, mock.Anything).Return(ports.FetchResult{}, nil)

	route, err := f.coordinator.RequestRouteChange(ctx, Request{
		Locale: "de_DE",
		Route:  "/unbekannt/",
	}, Options{UseExactDatasetRouting: true})

	require.NoError(t, err)
	assert.Equal(t, "/unbekannt/", route)
	_, ok := f.store.GetItem("/unbekannt/")
	assert.False(t, ok)
}

func TestRequestRouteChange_SameLocale_PageID(t *testing.T) {
	f := newFixture(t)
	f.primeReady(navDataDE())

	route, err := f.coordinator.RequestRouteChange(context.Background(), Request{
		PageID: "page-news",
	}, Options{})

	require.NoError(t, err)
	assert.Equal(t, "/nachrichten/", route)
}

func TestRequestRouteChange_SameLocale_UnknownPageIDResolvesEmpty(t *testing.T) {
	f := newFixture(t)
	f.primeReady(navDataDE())

	route, err := f.coordinator.RequestRouteChange(context.Background(), Request{
		PageID: "page-ghost",
	}, Options{})

	require.NoError(t, err)
	assert.Empty(t, route)
	// No state change happened
	assert.Equal(t, "de_DE", f.store.Snapshot().Locale)
}

func TestRequestRouteChange_EmptyLocaleTreatedAsCurrent(t *testing.T) {
	f := newFixture(t)
	f.primeReady(navDataDE())

	route, err := f.coordinator.RequestRouteChange(context.Background(), Request{
		PageID: "page-home",
	}, Options{})

	require.NoError(t, err)
	assert.Equal(t, "/", route)
	f.client.AssertNotCalled(t, "FetchNavigation")
}

func TestRequestRouteChange_CrossLocale_PageIDTranslatedThroughNewNavigation(t *testing.T) {
	// Arrange
	ctx := context.Background()
	f := newFixture(t)
	f.primeReady(navDataDE())

	f.client.On("FetchNavigation", ctx, mock.Anything).Return(navDataEN(), nil)
	f.client.On("FetchProjectProperties", ctx, mock.Anything).Return(appstate.Settings{}, nil)

	// Act
	route, err := f.coordinator.RequestRouteChange(ctx, Request{
		Locale: "en_GB",
		PageID: "page-news",
	}, Options{})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "/news/", route)
	assert.Equal(t, "en_GB", f.store.Snapshot().Locale)
}

func TestRequestRouteChange_CrossLocale_DatasetTranslatedByIdentifier(t *testing.T) {
	// Arrange
	ctx := context.Background()
	f := newFixture(t)
	f.primeReady(navDataDE())

	current := &dataset.Dataset{
		ID:     "ds-1",
		Locale: "de_DE",
		Route:  "/produkte/espresso/",
		Routes: []dataset.RouteBinding{
			{PageRef: "page-products", Route: "/produkte/espresso/"},
		},
	}
	f.store.Dispatch(ports.SetStoredItem{Key: "/produkte/espresso/", Value: current, TTL: -1})

	f.client.On("FetchNavigation", ctx, mock.Anything).Return(navDataEN(), nil)
	f.client.On("FetchProjectProperties", ctx, mock.Anything).Return(appstate.Settings{}, nil)

	localized := dataset.Dataset{
		ID:     "ds-1",
		Locale: "en_GB",
		Route:  "/products/espresso/",
		Routes: []dataset.RouteBinding{
			{PageRef: "page-products", Route: "/products/espresso/"},
		},
	}
	f.client.On("FetchByFilter", ctx, mock.MatchedBy(func(p ports.FetchByFilterParams) bool {
		return p.Locale == "en_GB" && len(p.Filters) == 1 && p.Filters[0].Field == "identifier"
	})).Return(ports.FetchResult{Items: []json.RawMessage{rawDataset(t, localized)}}, nil)

	// Act
	route, err := f.coordinator.RequestRouteChange(ctx, Request{
		Locale: "en_GB",
		Route:  "/produkte/espresso/",
	}, Options{})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "/products/espresso/", route)

	cached, ok := f.store.GetItem("/products/espresso/")
	require.True(t, ok)
	assert.Equal(t, "en_GB", cached.(*dataset.Dataset).Locale)
}

func TestRequestRouteChange_CrossLocale_FallsBackToPrimaryRoute(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.primeReady(navDataDE())

	current := &dataset.Dataset{ID: "ds-1", Locale: "de_DE", Route: "/produkte/espresso/"}
	f.store.Dispatch(ports.SetStoredItem{Key: "/produkte/espresso/", Value: current, TTL: -1})

	f.client.On("FetchNavigation", ctx, mock.Anything).Return(navDataEN(), nil)
	f.client.On("FetchProjectProperties", ctx, mock.Anything).Return(appstate.Settings{}, nil)

	// No route bindings on the localized counterpart
	localized := dataset.Dataset{ID: "ds-1", Locale: "en_GB", Route: "/products/espresso/"}
	f.client.On("FetchByFilter", ctx, mock.Anything).
		Return(ports.FetchResult{Items: []json.RawMessage{rawDataset(t, localized)}}, nil)

	route, err := f.coordinator.RequestRouteChange(ctx, Request{
		Locale: "en_GB",
		Route:  "/produkte/espresso/",
	}, Options{})

	require.NoError(t, err)
	assert.Equal(t, "/products/espresso/", route)
}

func TestRequestRouteChange_CrossLocale_NoCounterpartResolvesEmpty(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.primeReady(navDataDE())

	current := &dataset.Dataset{ID: "ds-1", Locale: "de_DE", Route: "/produkte/espresso/"}
	f.store.Dispatch(ports.SetStoredItem{Key: "/produkte/espresso/", Value: current, TTL: -1})

	f.client.On("FetchNavigation", ctx, mock.Anything).Return(navDataEN(), nil)
	f.client.On("FetchProjectProperties", ctx, mock.Anything).Return(appstate.Settings{}, nil)
	f.client.On("FetchByFilter", ctx, mock.Anything).Return(ports.FetchResult{}, nil)

	route, err := f.coordinator.RequestRouteChange(ctx, Request{
		Locale: "en_GB",
		Route:  "/produkte/espresso/",
	}, Options{})

	require.NoError(t, err)
	assert.Empty(t, route)
	// The locale switch itself still happened
	assert.Equal(t, "en_GB", f.store.Snapshot().Locale)
}

func TestRouteToPreviewID_RoutesViaNavigation(t *testing.T) {
	f := newFixture(t)
	f.primeReady(navDataDE())

	err := f.coordinator.RouteToPreviewID(context.Background(), "page-news.de_DE", Options{})

	require.NoError(t, err)
	assert.Equal(t, []string{"/nachrichten/"}, f.routes.Routes)
}

func TestRouteToPreviewID_FallbackLookupAndResync(t *testing.T) {
	// Arrange
	ctx := context.Background()
	f := newFixture(t)
	f.primeReady(navDataDE())

	// Unknown to the current navigation; the backend knows the page
	raw, err := json.Marshal(map[string]interface{}{
		"route": "/neu/",
	})
	require.NoError(t, err)
	f.client.On("FetchByFilter", ctx, mock.MatchedBy(func(p ports.FetchByFilterParams) bool {
		return len(p.Keys) == 1
	})).Return(ports.FetchResult{Items: []json.RawMessage{raw}}, nil)

	// Re-synchronization fetches
	f.client.On("FetchNavigation", ctx, mock.Anything).Return(navDataDE(), nil)
	f.client.On("FetchProjectProperties", ctx, mock.Anything).Return(appstate.Settings{}, nil)

	// Act
	err = f.coordinator.RouteToPreviewID(ctx, "page-fresh.de_DE", Options{})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []string{"/neu/"}, f.routes.Routes)
	f.client.AssertCalled(t, "FetchNavigation", ctx, mock.Anything)
}

func TestRouteToPreviewID_UnroutableIsNotAnError(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.primeReady(navDataDE())

	f.client.On("FetchByFilter", ctx, mock.Anything).Return(ports.FetchResult{}, nil)

	err := f.coordinator.RouteToPreviewID(ctx, "page-ghost.de_DE", Options{})

	require.NoError(t, err)
	assert.Empty(t, f.routes.Routes)
}

func TestSplitPreviewID(t *testing.T) {
	pageID, locale := SplitPreviewID("page-1.de_DE")
	assert.Equal(t, "page-1", pageID)
	assert.Equal(t, "de_DE", locale)

	pageID, locale = SplitPreviewID("page-1")
	assert.Equal(t, "page-1", pageID)
	assert.Empty(t, locale)

	pageID, locale = SplitPreviewID("")
	assert.Empty(t, pageID)
	assert.Empty(t, locale)
}
