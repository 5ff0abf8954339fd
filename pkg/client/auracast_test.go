package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/auracast/dashboard-core/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testClientConfig() ClientConfig {
	return ClientConfig{
		Timeout:        time.Second,
		MaxRetries:     1,
		RetryDelay:     time.Millisecond,
		Multiplier:     2,
		Threshold:      5,
		BreakerTimeout: time.Second,
	}
}

func TestSubmitQuery(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/query", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "jogging in Dublin", body["query"])

		json.NewEncoder(w).Encode(map[string]string{"response": "Air quality is good."})
	}))
	defer server.Close()

	c := NewAuraCastClient(server.URL, testClientConfig(), zap.NewNop())

	resp, err := c.SubmitQuery(context.Background(), "jogging in Dublin")
	require.NoError(t, err)
	assert.Equal(t, "Air quality is good.", resp.Response)
}

func TestGetCurrentAirQuality(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/air-quality/current", r.URL.Path)
		assert.Equal(t, "Dublin", r.URL.Query().Get("location"))

		w.Write([]byte(`{"current":{"location":"Dublin","aqi":61,"source":"station"}}`))
	}))
	defer server.Close()

	c := NewAuraCastClient(server.URL, testClientConfig(), zap.NewNop())

	current, err := c.GetCurrentAirQuality(context.Background(), "Dublin")
	require.NoError(t, err)
	assert.Equal(t, "Dublin", current.Current.Location)
	assert.Equal(t, 61.0, current.Current.AQI)
}

func TestGetAirQualityForecast(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/air-quality/forecast", r.URL.Path)
		assert.Equal(t, "3", r.URL.Query().Get("days"))

		w.Write([]byte(`{"location":"Cork","forecast":[{"time":"08:00","aqi":35,"category":"Good"}]}`))
	}))
	defer server.Close()

	c := NewAuraCastClient(server.URL, testClientConfig(), zap.NewNop())

	fc, err := c.GetAirQualityForecast(context.Background(), "Cork", 3)
	require.NoError(t, err)
	require.Len(t, fc.Forecast, 1)
	assert.Equal(t, 35.0, fc.Forecast[0].AQI)
}

func TestExtractParametersParsesNestedPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/extract", r.URL.Path)

		w.Write([]byte(`{
			"display_text": "Air quality in Dublin is Moderate.",
			"dashboard_details": {"aqi": 55.7, "location": "Dublin"},
			"metadata": {"analysis": {"results": {"aqi": {"value": 55.7, "status": "Moderate"}}}}
		}`))
	}))
	defer server.Close()

	c := NewAuraCastClient(server.URL, testClientConfig(), zap.NewNop())

	result, err := c.ExtractParameters(context.Background(), "air in Dublin")
	require.NoError(t, err)
	require.NotNil(t, result.DashboardDetails)
	assert.Equal(t, 55.7, *result.DashboardDetails.AQI)
	require.NotNil(t, result.Metadata.Analysis)
	assert.Equal(t, "Moderate", result.Metadata.Analysis.Results["aqi"].Status)
}

func TestGetRegionalDataSendsBounds(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "53.2", q.Get("min_lat"))
		assert.Equal(t, "-6.4", q.Get("min_lon"))
		assert.Equal(t, "53.5", q.Get("max_lat"))
		assert.Equal(t, "-6.1", q.Get("max_lon"))

		w.Write([]byte(`[{"id":"st-1","lat":53.35,"lng":-6.26,"aqi":48}]`))
	}))
	defer server.Close()

	c := NewAuraCastClient(server.URL, testClientConfig(), zap.NewNop())

	bounds := &models.GeoBounds{MinLat: 53.2, MinLon: -6.4, MaxLat: 53.5, MaxLon: -6.1}
	stations, err := c.GetRegionalData(context.Background(), bounds)
	require.NoError(t, err)
	require.Len(t, stations, 1)
	assert.Equal(t, "st-1", stations[0].ID)
}

func TestServerErrorRetriesThenFailsTyped(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	c := NewAuraCastClient(server.URL, testClientConfig(), zap.NewNop())

	_, err := c.SubmitQuery(context.Background(), "query")
	require.Error(t, err)

	var ue *UpstreamError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, "submit query", ue.Op)
	assert.Equal(t, http.StatusBadGateway, ue.StatusCode)
	assert.Contains(t, ue.Error(), "502")
	assert.Equal(t, 2, attempts)
}

func TestClientErrorDoesNotRetry(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	c := NewAuraCastClient(server.URL, testClientConfig(), zap.NewNop())

	_, err := c.GetCurrentAirQuality(context.Background(), "Dublin")
	require.Error(t, err)
	assert.Equal(t, 1, attempts)

	var ue *UpstreamError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, http.StatusNotFound, ue.StatusCode)
}

func TestMalformedResponseFailsTyped(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"current": not json`))
	}))
	defer server.Close()

	c := NewAuraCastClient(server.URL, testClientConfig(), zap.NewNop())

	_, err := c.GetCurrentAirQuality(context.Background(), "Dublin")
	require.Error(t, err)

	var ue *UpstreamError
	assert.ErrorAs(t, err, &ue)
}

func TestUpstreamErrorUnwrap(t *testing.T) {
	inner := errors.New("connection refused")
	err := &UpstreamError{Op: "submit query", StatusCode: 502, Err: inner}

	assert.ErrorIs(t, err, inner)
	assert.Contains(t, err.Error(), "submit query")
}
