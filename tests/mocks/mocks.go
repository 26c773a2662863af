package mocks

import (
	"context"
	"time"

	"contentbridge/application/ports"
	"contentbridge/domain/appstate"
	"contentbridge/domain/navigation"

	"github.com/stretchr/testify/mock"
)

// MockContentClient is a mock implementation of ports.ContentClient
type MockContentClient struct {
	mock.Mock
}

func (m *MockContentClient) FetchByFilter(ctx context.Context, params ports.FetchByFilterParams) (ports.FetchResult, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(ports.FetchResult), args.Error(1)
}

func (m *MockContentClient) FetchNavigation(ctx context.Context, params ports.FetchNavigationParams) (*navigation.Data, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*navigation.Data), args.Error(1)
}

func (m *MockContentClient) FetchProjectProperties(ctx context.Context, params ports.FetchProjectPropertiesParams) (appstate.Settings, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(appstate.Settings), args.Error(1)
}

// MockChangeEvents is a mock implementation of ports.ChangeEvents
type MockChangeEvents struct {
	mock.Mock
}

func (m *MockChangeEvents) WaitFor(ctx context.Context, previewID string, timeout time.Duration) bool {
	args := m.Called(ctx, previewID, timeout)
	return args.Bool(0)
}

// RecordingRouteHandler captures routed paths for assertions
type RecordingRouteHandler struct {
	Routes []string
}

func (h *RecordingRouteHandler) HandleRouteChange(ctx context.Context, route string) {
	h.Routes = append(h.Routes, route)
}
