package airport_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skyrota/skyrota/internal/airport"
)

func TestClient_GetAirport(t *testing.T) {
	// Create test server
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/airports/AMS", r.URL.Path)

		response := map[string]interface{}{
			"iata":             "AMS",
			"name":             "Amsterdam Airport Schiphol",
			"city":             "Amsterdam",
			"country":          "NL",
			"timeZone":         "Europe/Amsterdam",
			"utcOffsetMinutes": 120,
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(response)
	}))
	defer server.Close()

	client := airport.NewClient(airport.ClientConfig{
		BaseURL:    server.URL,
		HTTPClient: http.DefaultClient,
	})

	result, err := client.GetAirport(context.Background(), "ams")
	require.NoError(t, err)

	assert.Equal(t, "AMS", result.IATA)
	assert.Equal(t, "Amsterdam Airport Schiphol", result.Name)
	assert.Equal(t, "Europe/Amsterdam", result.TimeZone)
	assert.Equal(t, 120, result.UTCOffsetMinutes)
}

func TestClient_UTCOffset(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/airports/LHR", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"iata":             "LHR",
			"utcOffsetMinutes": 60,
		})
	}))
	defer server.Close()

	client := airport.NewClient(airport.ClientConfig{
		BaseURL:    server.URL,
		HTTPClient: http.DefaultClient,
	})

	offset, err := client.UTCOffset(context.Background(), "LHR")
	require.NoError(t, err)
	assert.Equal(t, 60, offset)
}

type fakeMetrics struct {
	requests int
	hits     int
	misses   int
}

func (m *fakeMetrics) RecordRequest(string, string, time.Duration, error) { m.requests++ }
func (m *fakeMetrics) RecordCacheHit(string, string)                      { m.hits++ }
func (m *fakeMetrics) RecordCacheMiss(string, string)                     { m.misses++ }

func TestClient_CachesLookups(t *testing.T) {
	var serverCalls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		serverCalls++
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"iata":             "AMS",
			"utcOffsetMinutes": 120,
		})
	}))
	defer server.Close()

	metrics := &fakeMetrics{}
	client := airport.NewClient(airport.ClientConfig{
		BaseURL:    server.URL,
		HTTPClient: http.DefaultClient,
		Metrics:    metrics,
	})

	for i := 0; i < 3; i++ {
		result, err := client.GetAirport(context.Background(), "AMS")
		require.NoError(t, err)
		assert.Equal(t, 120, result.UTCOffsetMinutes)
	}

	assert.Equal(t, 1, serverCalls)
	assert.Equal(t, 1, metrics.misses)
	assert.Equal(t, 2, metrics.hits)
}

func TestClient_CacheKeyIsCaseInsensitive(t *testing.T) {
	var serverCalls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		serverCalls++
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{"iata": "LHR", "utcOffsetMinutes": 60})
	}))
	defer server.Close()

	client := airport.NewClient(airport.ClientConfig{
		BaseURL:    server.URL,
		HTTPClient: http.DefaultClient,
	})

	_, err := client.GetAirport(context.Background(), "lhr")
	require.NoError(t, err)
	_, err = client.GetAirport(context.Background(), "LHR")
	require.NoError(t, err)

	assert.Equal(t, 1, serverCalls)
}

func TestClient_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := airport.NewClient(airport.ClientConfig{
		BaseURL:    server.URL,
		HTTPClient: http.DefaultClient,
	})

	_, err := client.GetAirport(context.Background(), "XXX")
	assert.ErrorIs(t, err, airport.ErrAirportNotFound)
}

func TestClient_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := airport.NewClient(airport.ClientConfig{
		BaseURL:    server.URL,
		HTTPClient: http.DefaultClient,
	})

	_, err := client.GetAirport(context.Background(), "AMS")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}
