package caas

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"contentbridge/application/ports"
	"contentbridge/domain/appstate"
	"contentbridge/domain/navigation"
	"contentbridge/pkg/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ClientConfig configures the content backend client.
type ClientConfig struct {
	// ContentURL is the base URL of the content API (filtered fetches and
	// project properties).
	ContentURL string

	// NavigationURL is the base URL of the navigation service.
	NavigationURL string

	// APIKey is sent as a bearer token when set.
	APIKey string

	// Timeout bounds every request; zero means 10s.
	Timeout time.Duration
}

// Client is the HTTP implementation of ports.ContentClient. It speaks the
// backend's filter language as a JSON body and maps 404 responses onto the
// not-found error kind so callers can swallow them selectively.
type Client struct {
	httpClient    *http.Client
	contentURL    string
	navigationURL string
	apiKey        string
	logger        *zap.Logger
}

var _ ports.ContentClient = (*Client)(nil)

// NewClient creates a content backend client.
func NewClient(cfg ClientConfig, logger *zap.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		httpClient:    &http.Client{Timeout: timeout},
		contentURL:    cfg.ContentURL,
		navigationURL: cfg.NavigationURL,
		apiKey:        cfg.APIKey,
		logger:        logger,
	}
}

// filterRequest is the wire shape of a filtered fetch.
type filterRequest struct {
	Filters       []ports.Filter         `json:"filters"`
	Locale        string                 `json:"locale,omitempty"`
	RemoteProject string                 `json:"remoteProject,omitempty"`
	Keys          []ports.KeysProjection `json:"additionalParams,omitempty"`
}

// FetchByFilter queries the content API with a nested boolean filter tree.
func (c *Client) FetchByFilter(ctx context.Context, params ports.FetchByFilterParams) (ports.FetchResult, error) {
	var result ports.FetchResult
	err := c.postJSON(ctx, c.contentURL+"/filter", filterRequest{
		Filters:       params.Filters,
		Locale:        params.Locale,
		RemoteProject: params.RemoteProject,
		Keys:          params.Keys,
	}, &result)
	if err != nil {
		return ports.FetchResult{}, err
	}
	return result, nil
}

// FetchNavigation fetches the navigation tree for a locale. A 404 from the
// navigation service surfaces as the not-found error kind.
func (c *Client) FetchNavigation(ctx context.Context, params ports.FetchNavigationParams) (*navigation.Data, error) {
	query := url.Values{}
	query.Set("locale", params.Locale)
	if params.InitialPath != "" {
		query.Set("initialPath", params.InitialPath)
	}

	var data navigation.Data
	if err := c.getJSON(ctx, c.navigationURL+"/navigation?"+query.Encode(), &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// FetchProjectProperties fetches the global settings document for a locale
// through the regular filter endpoint.
func (c *Client) FetchProjectProperties(ctx context.Context, params ports.FetchProjectPropertiesParams) (appstate.Settings, error) {
	result, err := c.FetchByFilter(ctx, ports.FetchByFilterParams{
		Filters: []ports.Filter{
			{Field: "fsType", Operator: ports.OperatorEquals, Value: "ProjectProperties"},
		},
		Locale: params.Locale,
	})
	if err != nil {
		return nil, err
	}
	if len(result.Items) == 0 {
		return appstate.Settings{}, nil
	}

	var settings appstate.Settings
	if err := json.Unmarshal(result.Items[0], &settings); err != nil {
		return nil, errors.NewResolutionError("failed to decode project properties", err)
	}
	return settings, nil
}

func (c *Client) postJSON(ctx context.Context, endpoint string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return errors.NewInternalError("failed to encode request body").WithCause(err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return errors.NewInternalError("failed to build request").WithCause(err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return errors.NewInternalError("failed to build request").WithCause(err)
	}
	return c.do(req, out)
}

// do executes the request and decodes the response, mapping HTTP failures
// onto the error taxonomy.
func (c *Client) do(req *http.Request, out interface{}) error {
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.NewExternalError("content backend", err)
	}
	defer resp.Body.Close()

	c.logger.Debug("Content backend request",
		zap.String("method", req.Method),
		zap.String("url", req.URL.String()),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
		zap.String("requestID", requestID),
	)

	if resp.StatusCode == http.StatusNotFound {
		return errors.NewNotFoundError(req.URL.Path)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return errors.NewResolutionError(
			fmt.Sprintf("content backend returned status %d: %s", resp.StatusCode, string(excerpt)),
			nil,
		)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.NewResolutionError("failed to decode backend response", err)
	}
	return nil
}
