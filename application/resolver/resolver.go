package resolver

import (
	"context"
	"encoding/json"

	"contentbridge/application/ports"
	"contentbridge/domain/dataset"
	"contentbridge/pkg/errors"

	"go.uber.org/zap"
)

// Resolver resolves an incoming route to a content-projection dataset,
// preferring the local project and falling back to a remote project when one
// is configured. Backend failures propagate to the caller; resolution has no
// fallback beyond the remote lookup.
type Resolver struct {
	client ports.ContentClient
	logger *zap.Logger
}

// NewResolver creates a dataset route resolver.
func NewResolver(client ports.ContentClient, logger *zap.Logger) *Resolver {
	return &Resolver{
		client: client,
		logger: logger,
	}
}

// ResolveParams carries the resolution context for one route.
type ResolveParams struct {
	// Route is the URL to resolve.
	Route string

	// RemoteProjectID enables the remote fallback lookup when set.
	RemoteProjectID string

	// PageRefMapping translates remote page references into the local
	// project's namespace; unmapped references pass through unchanged.
	PageRefMapping map[string]string

	// ValidLanguages restricts matches to the given locales when non-empty.
	ValidLanguages []string
}

// RouteFilters builds the backend query matching a dataset by route: an OR
// group over the primary route and the route-bindings, combined with the
// dataset type constraint and an optional locale restriction.
func RouteFilters(route string, validLanguages []string) []ports.Filter {
	filters := []ports.Filter{
		{
			Operator: ports.OperatorOr,
			Filters: []ports.Filter{
				{Field: "route", Operator: ports.OperatorEquals, Value: route},
				{Field: "routes.route", Operator: ports.OperatorEquals, Value: route},
			},
		},
		{Field: "fsType", Operator: ports.OperatorEquals, Value: "Dataset"},
	}
	if len(validLanguages) > 0 {
		filters = append(filters, ports.Filter{
			Field:    "locale.identifier",
			Operator: ports.OperatorIn,
			Value:    validLanguages,
		})
	}
	return filters
}

// ResolveRoute resolves a route to a dataset, or to nil when neither the
// local nor the remote project knows it. Remote resolution only runs when no
// local match exists; a remote hit is passed through the page-reference
// mapping exactly once, in place, before it is returned.
func (r *Resolver) ResolveRoute(ctx context.Context, params ResolveParams) (*dataset.Dataset, error) {
	filters := RouteFilters(params.Route, params.ValidLanguages)

	local, err := r.fetchFirst(ctx, ports.FetchByFilterParams{Filters: filters})
	if err != nil {
		return nil, err
	}
	if local != nil {
		return local, nil
	}

	if params.RemoteProjectID == "" {
		return nil, nil
	}

	r.logger.Debug("No local dataset, trying remote project",
		zap.String("route", params.Route),
		zap.String("remote_project", params.RemoteProjectID),
	)

	remote, err := r.fetchFirst(ctx, ports.FetchByFilterParams{
		Filters:       filters,
		RemoteProject: params.RemoteProjectID,
	})
	if err != nil {
		return nil, err
	}
	if remote != nil {
		remote.ApplyPageRefMapping(params.PageRefMapping)
	}
	return remote, nil
}

// fetchFirst runs a filtered fetch and decodes the first item as a dataset.
func (r *Resolver) fetchFirst(ctx context.Context, params ports.FetchByFilterParams) (*dataset.Dataset, error) {
	result, err := r.client.FetchByFilter(ctx, params)
	if err != nil {
		return nil, err
	}
	if len(result.Items) == 0 {
		return nil, nil
	}

	var ds dataset.Dataset
	if err := json.Unmarshal(result.Items[0], &ds); err != nil {
		return nil, errors.NewResolutionError("failed to decode dataset item", err)
	}
	return &ds, nil
}
