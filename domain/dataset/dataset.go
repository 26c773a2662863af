package dataset

// RouteBinding pairs a page-reference id with one URL representation of a
// dataset. The bindings translate between "which page renders this dataset"
// and the URLs that exist for it across locales and remote-project mappings.
type RouteBinding struct {
	PageRef string `json:"pageRef"`
	Route   string `json:"route"`
}

// Dataset is a content-projection record: content rendered directly under a
// URL instead of through a conventional page document. The identifier is
// stable across locales (see DESIGN.md for the recorded assumption).
type Dataset struct {
	ID     string         `json:"id"`
	FSType string         `json:"fsType"`
	Locale string         `json:"locale"`
	Route  string         `json:"route"`
	Routes []RouteBinding `json:"routes"`
}

// ApplyPageRefMapping rewrites every route-binding's page reference through
// the given remapping table, in place. Unmapped references pass through
// unchanged. Remote datasets must be passed through this exactly once before
// they are exposed to any caller.
func (d *Dataset) ApplyPageRefMapping(mapping map[string]string) {
	if d == nil || len(mapping) == 0 {
		return
	}
	for i := range d.Routes {
		if mapped, ok := mapping[d.Routes[i].PageRef]; ok {
			d.Routes[i].PageRef = mapped
		}
	}
}

// PageRefForRoute returns the page reference bound to the given route.
func (d *Dataset) PageRefForRoute(route string) (string, bool) {
	if d == nil {
		return "", false
	}
	for _, binding := range d.Routes {
		if binding.Route == route {
			return binding.PageRef, true
		}
	}
	return "", false
}

// RouteForPageRef returns the route bound to the given page reference.
func (d *Dataset) RouteForPageRef(pageRef string) (string, bool) {
	if d == nil {
		return "", false
	}
	for _, binding := range d.Routes {
		if binding.PageRef == pageRef {
			return binding.Route, true
		}
	}
	return "", false
}
