package gateway

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPDataClient_Records(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/records", r.URL.Path)
		assert.Equal(t, "2024-01-01T00:00:00Z", r.URL.Query().Get("start_datetime"))
		assert.Equal(t, "", r.URL.Query().Get("end_datetime"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"records":[{"datetime":"2024-01-01T00:00:00Z","energy_usage":10.5}]}`))
	}))
	defer srv.Close()

	client := NewDataClient(srv.URL)
	records, err := client.Records(context.Background(), "2024-01-01T00:00:00Z", "")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "2024-01-01T00:00:00Z", records[0].Datetime)
	assert.Equal(t, 10.5, records[0].EnergyUsage)
}

func TestHTTPDataClient_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"invalid_argument","message":"bad bound","param":"start_datetime"}`))
	}))
	defer srv.Close()

	client := NewDataClient(srv.URL)
	_, err := client.Records(context.Background(), "x", "")
	var uerr *UpstreamError
	require.True(t, errors.As(err, &uerr))
	assert.Equal(t, http.StatusBadRequest, uerr.Status)
	assert.Equal(t, "start_datetime", uerr.Body.Param)
}

func TestHTTPDataClient_Stats(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/stats", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"count":2,"total_kwh":30.5,"mean_kwh":15.25,"std_dev_kwh":6.7,"min_kwh":10.5,"max_kwh":20}`))
	}))
	defer srv.Close()

	client := NewDataClient(srv.URL)
	stats, err := client.Stats(context.Background(), "", "")
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Count)
	assert.Equal(t, 30.5, stats.TotalKWh)
}

func TestHTTPDataClient_Unreachable(t *testing.T) {
	client := NewDataClient("http://127.0.0.1:1")
	_, err := client.Records(context.Background(), "", "")
	require.Error(t, err)
}
