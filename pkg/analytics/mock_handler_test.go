package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dashboard "github.com/goliatone/go-store-dashboard/components/dashboard"
)

func TestMockHandlerServesOverview(t *testing.T) {
	mock := NewMockClient(WithMockClock(fixedClock))
	handler := NewMockHandler(mock)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, SeedPath, nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, OverviewPath, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var payload any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.NoError(t, dashboard.NewOverviewValidator().Validate(payload))
}

func TestMockHandlerMapsErrors(t *testing.T) {
	mock := NewMockClient()
	handler := NewMockHandler(mock)

	mock.FailSeed(&dashboard.HTTPStatusError{Op: dashboard.OpSeed, StatusCode: http.StatusServiceUnavailable})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, SeedPath, nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	mock.FailFetch(errors.New("db offline"))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, OverviewPath, nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "db offline")
}

func TestMockHandlerCORSPreflight(t *testing.T) {
	handler := NewMockHandler(NewMockClient())
	req := httptest.NewRequest(http.MethodOptions, SeedPath, nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestHTTPClientAgainstMockHandler(t *testing.T) {
	mock := NewMockClient(WithMockClock(fixedClock))
	srv := httptest.NewServer(NewMockHandler(mock))
	defer srv.Close()

	client, err := NewHTTPClient(HTTPConfig{BaseURL: srv.URL})
	require.NoError(t, err)
	controller := dashboard.NewController(dashboard.ControllerOptions{Client: client, Health: client})

	ctx := context.Background()
	require.NoError(t, controller.SeedDemoData(ctx))
	state := controller.Snapshot()
	require.NotNil(t, state.Analytics)
	assert.Empty(t, state.Error)
	assert.Len(t, state.Analytics.Timeseries, 14)

	expected, err := mock.FetchOverview(ctx)
	require.NoError(t, err)
	assert.Equal(t, expected, *state.Analytics)

	report, err := controller.CheckHealth(ctx)
	require.NoError(t, err)
	assert.True(t, report.Healthy)
}
