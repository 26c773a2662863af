package navigation

import "regexp"

// Node is a single entry of the navigation tree delivered by the navigation
// service. A node either points at a regular page document or, when
// SeoRouteRegex is set, marks a content-projection slot whose concrete URLs
// are produced by datasets rather than by the tree itself.
type Node struct {
	ID             string `json:"id"`
	Label          string `json:"label,omitempty"`
	ParentID       string `json:"parentId,omitempty"`
	CaasDocumentID string `json:"caasDocumentId"`
	SeoRoute       string `json:"seoRoute"`
	SeoRouteRegex  string `json:"seoRouteRegex,omitempty"`
}

// IsContentProjection reports whether the node renders datasets via a route
// pattern instead of a fixed document.
func (n *Node) IsContentProjection() bool {
	return n != nil && n.SeoRouteRegex != ""
}

// Meta carries the locale metadata of a navigation snapshot. The language
// identifier is the one the navigation service resolved, which may differ
// from the locale that was requested.
type Meta struct {
	LanguageID string `json:"languageId"`
}

// Data is an immutable per-fetch snapshot of the navigation tree. It is
// created wholesale by a navigation fetch and replaced wholesale on locale
// change, explicit re-sync, or an external navigation-changed signal; it is
// never partially mutated. Within one locale every reachable node has exactly
// one canonical seo-route.
type Data struct {
	IDMap       map[string]*Node `json:"idMap"`
	SeoRouteMap map[string]string `json:"seoRouteMap"`
	Meta        Meta              `json:"meta"`
}

// Lookup selects a node either by page id or by seo-route. The two selectors
// are mutually exclusive.
type Lookup struct {
	PageID   string
	SeoRoute string
}

// FindNode returns the node matching the lookup, or nil. Providing both
// selectors, or neither, yields nil. Lookups are O(1) over the two
// precomputed maps; no tree traversal happens at query time.
func (d *Data) FindNode(params Lookup) *Node {
	if d == nil {
		return nil
	}
	if (params.PageID == "" && params.SeoRoute == "") ||
		(params.PageID != "" && params.SeoRoute != "") {
		return nil
	}
	if params.PageID != "" {
		return d.IDMap[params.PageID]
	}
	pageID, ok := d.SeoRouteMap[params.SeoRoute]
	if !ok {
		return nil
	}
	return d.IDMap[pageID]
}

// NodeForPath resolves the render target for an incoming path. A direct
// seo-route hit wins. When exact dataset routing is active and a dataset is
// cached for the path, the matching content-projection node is returned
// instead, since projection URLs are not present in the tree.
func (d *Data) NodeForPath(path string, exactDatasetRouting bool, hasDataset bool) *Node {
	if d == nil {
		return nil
	}
	if node := d.FindNode(Lookup{SeoRoute: path}); node != nil {
		return node
	}
	if !exactDatasetRouting && !hasDataset {
		return nil
	}
	for _, node := range d.IDMap {
		if !node.IsContentProjection() {
			continue
		}
		matched, err := regexp.MatchString(node.SeoRouteRegex, path)
		if err == nil && matched {
			return node
		}
	}
	return nil
}
