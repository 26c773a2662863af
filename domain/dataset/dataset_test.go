package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testDataset() *Dataset {
	return &Dataset{
		ID:     "ds-1",
		FSType: "Dataset",
		Locale: "de_DE",
		Route:  "/produkte/espresso/",
		Routes: []RouteBinding{
			{PageRef: "remote-page-a", Route: "/produkte/espresso/"},
			{PageRef: "remote-page-b", Route: "/angebote/espresso/"},
		},
	}
}

func TestApplyPageRefMapping_RewritesMappedRefs(t *testing.T) {
	ds := testDataset()

	ds.ApplyPageRefMapping(map[string]string{"remote-page-a": "local-page-a"})

	assert.Equal(t, "local-page-a", ds.Routes[0].PageRef)
	assert.Equal(t, "remote-page-b", ds.Routes[1].PageRef)
	// Routes themselves are untouched
	assert.Equal(t, "/produkte/espresso/", ds.Routes[0].Route)
}

func TestApplyPageRefMapping_EmptyMappingIsIdentity(t *testing.T) {
	ds := testDataset()

	ds.ApplyPageRefMapping(nil)

	assert.Equal(t, "remote-page-a", ds.Routes[0].PageRef)
	assert.Equal(t, "remote-page-b", ds.Routes[1].PageRef)
}

func TestApplyPageRefMapping_NilReceiver(t *testing.T) {
	var ds *Dataset

	assert.NotPanics(t, func() {
		ds.ApplyPageRefMapping(map[string]string{"a": "b"})
	})
}

func TestApplyPageRefMapping_SecondPassIsIdentity(t *testing.T) {
	mapping := map[string]string{"remote-page-a": "local-page-a"}
	ds := testDataset()

	ds.ApplyPageRefMapping(mapping)
	once := ds.Routes[0].PageRef

	ds.ApplyPageRefMapping(mapping)

	assert.Equal(t, once, ds.Routes[0].PageRef)
	assert.Equal(t, "remote-page-b", ds.Routes[1].PageRef)
}

func TestPageRefForRoute(t *testing.T) {
	ds := testDataset()

	pageRef, ok := ds.PageRefForRoute("/angebote/espresso/")
	assert.True(t, ok)
	assert.Equal(t, "remote-page-b", pageRef)

	_, ok = ds.PageRefForRoute("/unknown/")
	assert.False(t, ok)
}

func TestRouteForPageRef(t *testing.T) {
	ds := testDataset()

	route, ok := ds.RouteForPageRef("remote-page-a")
	assert.True(t, ok)
	assert.Equal(t, "/produkte/espresso/", route)

	_, ok = ds.RouteForPageRef("unknown")
	assert.False(t, ok)
}

func TestRouteBindings_AreInverse(t *testing.T) {
	ds := testDataset()

	for _, binding := range ds.Routes {
		pageRef, ok := ds.PageRefForRoute(binding.Route)
		assert.True(t, ok)

		route, ok := ds.RouteForPageRef(pageRef)
		assert.True(t, ok)
		assert.Equal(t, binding.Route, route)
	}
}
