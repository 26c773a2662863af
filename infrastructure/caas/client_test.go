package caas

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"contentbridge/application/ports"
	"contentbridge/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestFetchByFilter_SendsFilterTreeAndBearerToken(t *testing.T) {
	// Arrange
	var captured filterRequest
	var authHeader string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/filter", r.URL.Path)
		authHeader = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"items":[{"id":"ds-1"}]}`))
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{
		ContentURL:    srv.URL,
		NavigationURL: srv.URL,
		APIKey:        "secret-key",
	}, zap.NewNop())

	// Act
	result, err := client.FetchByFilter(context.Background(), ports.FetchByFilterParams{
		Filters: []ports.Filter{
			{Field: "fsType", Operator: ports.OperatorEquals, Value: "Dataset"},
		},
		Locale:        "de_DE",
		RemoteProject: "remote-media",
	})

	// Assert
	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	assert.Equal(t, "Bearer secret-key", authHeader)
	assert.Equal(t, "de_DE", captured.Locale)
	assert.Equal(t, "remote-media", captured.RemoteProject)
	require.Len(t, captured.Filters, 1)
	assert.Equal(t, "fsType", captured.Filters[0].Field)
}

func TestFetchNavigation_BuildsQueryAndDecodes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/navigation", r.URL.Path)
		require.Equal(t, "de_DE", r.URL.Query().Get("locale"))
		require.Equal(t, "/nachrichten/", r.URL.Query().Get("initialPath"))
		w.Write([]byte(`{
			"idMap": {"page-1": {"id": "page-1", "caasDocumentId": "doc-1", "seoRoute": "/nachrichten/"}},
			"seoRouteMap": {"/nachrichten/": "page-1"},
			"meta": {"languageId": "de_DE"}
		}`))
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{ContentURL: srv.URL, NavigationURL: srv.URL}, zap.NewNop())

	data, err := client.FetchNavigation(context.Background(), ports.FetchNavigationParams{
		Locale:      "de_DE",
		InitialPath: "/nachrichten/",
	})

	require.NoError(t, err)
	require.NotNil(t, data)
	assert.Equal(t, "de_DE", data.Meta.LanguageID)
	require.Contains(t, data.IDMap, "page-1")
	assert.Equal(t, "/nachrichten/", data.IDMap["page-1"].SeoRoute)
}

func TestFetchNavigation_404SurfacesAsNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{ContentURL: srv.URL, NavigationURL: srv.URL}, zap.NewNop())

	data, err := client.FetchNavigation(context.Background(), ports.FetchNavigationParams{Locale: "xx_XX"})

	assert.Nil(t, data)
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestFetchByFilter_ServerErrorSurfacesAsResolution(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("kaboom"))
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{ContentURL: srv.URL, NavigationURL: srv.URL}, zap.NewNop())

	_, err := client.FetchByFilter(context.Background(), ports.FetchByFilterParams{})

	require.Error(t, err)
	assert.True(t, errors.IsResolution(err))
	assert.Contains(t, err.Error(), "kaboom")
}

func TestFetchProjectProperties_DecodesFirstItem(t *testing.T) {
	var captured filterRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.Write([]byte(`{"items":[{"theme":"dark","footerText":"hello"}]}`))
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{ContentURL: srv.URL, NavigationURL: srv.URL}, zap.NewNop())

	settings, err := client.FetchProjectProperties(context.Background(), ports.FetchProjectPropertiesParams{
		Locale: "de_DE",
	})

	require.NoError(t, err)
	assert.Equal(t, "dark", settings["theme"])
	require.Len(t, captured.Filters, 1)
	assert.Equal(t, "ProjectProperties", captured.Filters[0].Value)
	assert.Equal(t, "de_DE", captured.Locale)
}

func TestFetchProjectProperties_EmptyResultYieldsEmptySettings(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"items":[]}`))
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{ContentURL: srv.URL, NavigationURL: srv.URL}, zap.NewNop())

	settings, err := client.FetchProjectProperties(context.Background(), ports.FetchProjectPropertiesParams{})

	require.NoError(t, err)
	assert.Empty(t, settings)
	assert.NotNil(t, settings)
}
