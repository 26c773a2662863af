package ports

import (
	"context"
	"encoding/json"

	"contentbridge/domain/appstate"
	"contentbridge/domain/navigation"
)

// Comparison operators understood by the content backend's filter language.
const (
	OperatorEquals = "$eq"
	OperatorIn     = "$in"
	OperatorAnd    = "$and"
	OperatorOr     = "$or"
)

// Filter is one node of a backend query. A comparison node sets Field,
// Operator and Value; a logical node sets Operator to OperatorAnd/OperatorOr
// and nests its children in Filters. Backends must support nested boolean
// groups: dataset route resolution relies on an OR sub-group inside an
// implicit top-level AND.
type Filter struct {
	Field    string      `json:"field,omitempty"`
	Operator string      `json:"operator"`
	Value    interface{} `json:"value,omitempty"`
	Filters  []Filter    `json:"filters,omitempty"`
}

// KeysProjection limits the fields a fetch returns, mirroring the backend's
// projection syntax (field name to 1).
type KeysProjection map[string]int

// FetchByFilterParams parameterizes a filtered content fetch.
type FetchByFilterParams struct {
	Filters       []Filter
	Locale        string
	RemoteProject string
	Keys          []KeysProjection
}

// FetchResult is the item envelope returned by a filtered fetch. Items are
// raw documents; callers unmarshal into the shape they expect.
type FetchResult struct {
	Items []json.RawMessage `json:"items"`
}

// FetchNavigationParams parameterizes a navigation fetch.
type FetchNavigationParams struct {
	Locale      string
	InitialPath string
}

// FetchProjectPropertiesParams parameterizes a settings fetch.
type FetchProjectPropertiesParams struct {
	Locale string
}

// ContentClient is the remote content backend consumed by the resolver,
// initializer and coordinator. FetchNavigation fails with a not-found error
// kind (pkg/errors.IsNotFound) when no matching navigation tree is
// configured; callers decide whether to swallow that.
type ContentClient interface {
	FetchByFilter(ctx context.Context, params FetchByFilterParams) (FetchResult, error)
	FetchNavigation(ctx context.Context, params FetchNavigationParams) (*navigation.Data, error)
	FetchProjectProperties(ctx context.Context, params FetchProjectPropertiesParams) (appstate.Settings, error)
}
