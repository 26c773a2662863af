package navigation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testData() *Data {
	home := &Node{ID: "page-home", CaasDocumentID: "doc-home", SeoRoute: "/"}
	news := &Node{ID: "page-news", CaasDocumentID: "doc-news", SeoRoute: "/news/"}
	products := &Node{
		ID:             "page-products",
		CaasDocumentID: "doc-products",
		SeoRoute:       "/products/",
		SeoRouteRegex:  "^/products/.+",
	}
	return &Data{
		IDMap: map[string]*Node{
			home.ID:     home,
			news.ID:     news,
			products.ID: products,
		},
		SeoRouteMap: map[string]string{
			home.SeoRoute:     home.ID,
			news.SeoRoute:     news.ID,
			products.SeoRoute: products.ID,
		},
		Meta: Meta{LanguageID: "de_DE"},
	}
}

func TestFindNode_ByPageID(t *testing.T) {
	data := testData()

	node := data.FindNode(Lookup{PageID: "page-news"})

	require.NotNil(t, node)
	assert.Equal(t, "/news/", node.SeoRoute)
}

func TestFindNode_BySeoRoute(t *testing.T) {
	data := testData()

	node := data.FindNode(Lookup{SeoRoute: "/news/"})

	require.NotNil(t, node)
	assert.Equal(t, "page-news", node.ID)
}

func TestFindNode_RouteLookupIsInverseOfIDLookup(t *testing.T) {
	data := testData()

	for id, node := range data.IDMap {
		byRoute := data.FindNode(Lookup{SeoRoute: node.SeoRoute})
		require.NotNil(t, byRoute)
		assert.Equal(t, id, byRoute.ID)
	}
}

func TestFindNode_BothSelectorsYieldNil(t *testing.T) {
	data := testData()

	assert.Nil(t, data.FindNode(Lookup{PageID: "page-news", SeoRoute: "/news/"}))
}

func TestFindNode_NeitherSelectorYieldsNil(t *testing.T) {
	data := testData()

	assert.Nil(t, data.FindNode(Lookup{}))
}

func TestFindNode_UnknownSelectors(t *testing.T) {
	data := testData()

	assert.Nil(t, data.FindNode(Lookup{PageID: "nope"}))
	assert.Nil(t, data.FindNode(Lookup{SeoRoute: "/nope/"}))
}

func TestFindNode_NilData(t *testing.T) {
	var data *Data

	assert.Nil(t, data.FindNode(Lookup{PageID: "page-news"}))
}

func TestNodeForPath_DirectHitWins(t *testing.T) {
	data := testData()

	node := data.NodeForPath("/products/", true, true)

	require.NotNil(t, node)
	assert.Equal(t, "page-products", node.ID)
}

func TestNodeForPath_ProjectionMatchForDatasetURL(t *testing.T) {
	data := testData()

	node := data.NodeForPath("/products/espresso-machine/", true, false)

	require.NotNil(t, node)
	assert.Equal(t, "page-products", node.ID)
	assert.True(t, node.IsContentProjection())
}

func TestNodeForPath_NoProjectionWithoutDatasetRouting(t *testing.T) {
	data := testData()

	assert.Nil(t, data.NodeForPath("/products/espresso-machine/", false, false))
}

func TestNodeForPath_CachedDatasetEnablesProjection(t *testing.T) {
	data := testData()

	node := data.NodeForPath("/products/espresso-machine/", false, true)

	require.NotNil(t, node)
	assert.Equal(t, "page-products", node.ID)
}

func TestIsContentProjection(t *testing.T) {
	assert.True(t, (&Node{SeoRouteRegex: "^/x/.+"}).IsContentProjection())
	assert.False(t, (&Node{}).IsContentProjection())

	var node *Node
	assert.False(t, node.IsContentProjection())
}
