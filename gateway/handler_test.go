package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/enertrack/meterd/api/consumption"
	"github.com/enertrack/meterd/core/query"
	"github.com/enertrack/meterd/infra/logger"
)

type fakeClient struct {
	records []consumption.RecordDTO
	stats   query.UsageStats
	err     error
	calls   int
}

func (c *fakeClient) Records(ctx context.Context, start, end string) ([]consumption.RecordDTO, error) {
	c.calls++
	return c.records, c.err
}

func (c *fakeClient) Stats(ctx context.Context, start, end string) (query.UsageStats, error) {
	c.calls++
	return c.stats, c.err
}

func TestHandleConsumption(t *testing.T) {
	client := &fakeClient{records: []consumption.RecordDTO{
		{Datetime: "2024-01-01T00:00:00Z", EnergyUsage: 10.5},
		{Datetime: "2024-01-01T12:00:00Z", EnergyUsage: 20.0},
	}}
	h := NewHandler(client, logger.NopLogger{})

	req := httptest.NewRequest("GET", "/api/consumption?start_datetime=2024-01-01T00:00:00Z", nil)
	rr := httptest.NewRecorder()
	h.HandleConsumption(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d", rr.Code)
	}
	var out ConsumptionResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.TotalCount != 2 || len(out.Records) != 2 {
		t.Fatalf("unexpected response: %+v", out)
	}
	if out.Records[0].Datetime != "2024-01-01T00:00:00Z" {
		t.Errorf("raw datetime not preserved: %+v", out.Records[0])
	}
}

func TestHandleConsumption_EmptyResult(t *testing.T) {
	h := NewHandler(&fakeClient{}, logger.NopLogger{})

	req := httptest.NewRequest("GET", "/api/consumption", nil)
	rr := httptest.NewRecorder()
	h.HandleConsumption(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d", rr.Code)
	}
	var out ConsumptionResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Records == nil || out.TotalCount != 0 {
		t.Errorf("expected empty records array, got %s", rr.Body.String())
	}
}

func TestHandleConsumption_ValidatesLocally(t *testing.T) {
	client := &fakeClient{}
	h := NewHandler(client, logger.NopLogger{})

	cases := []string{
		"/api/consumption?start_datetime=not-a-date",
		"/api/consumption?end_datetime=also-bad",
		"/api/consumption?start_datetime=2024-01-02T00:00:00Z&end_datetime=2024-01-01T00:00:00Z",
	}
	for _, target := range cases {
		rr := httptest.NewRecorder()
		h.HandleConsumption(rr, httptest.NewRequest("GET", target, nil))
		if rr.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", target, rr.Code)
		}
	}
	if client.calls != 0 {
		t.Errorf("data service should not be consulted on invalid input, got %d calls", client.calls)
	}
}

func TestHandleConsumption_UpstreamErrors(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"bad request passthrough", &UpstreamError{Status: http.StatusBadRequest, Body: consumption.ErrorResponse{Error: "invalid_argument"}}, http.StatusBadRequest},
		{"internal", &UpstreamError{Status: http.StatusInternalServerError}, http.StatusBadGateway},
		{"unreachable", errors.New("connection refused"), http.StatusBadGateway},
	}
	for _, c := range cases {
		h := NewHandler(&fakeClient{err: c.err}, logger.NopLogger{})
		rr := httptest.NewRecorder()
		h.HandleConsumption(rr, httptest.NewRequest("GET", "/api/consumption", nil))
		if rr.Code != c.want {
			t.Errorf("%s: expected %d, got %d", c.name, c.want, rr.Code)
		}
	}
}

func TestHandleStats(t *testing.T) {
	client := &fakeClient{stats: query.UsageStats{Count: 2, TotalKWh: 30.5}}
	h := NewHandler(client, logger.NopLogger{})

	rr := httptest.NewRecorder()
	h.HandleStats(rr, httptest.NewRequest("GET", "/api/consumption/stats", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d", rr.Code)
	}
	var out query.UsageStats
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Count != 2 || out.TotalKWh != 30.5 {
		t.Errorf("unexpected stats: %+v", out)
	}
}

func TestRouterMiddleware(t *testing.T) {
	h := NewHandler(&fakeClient{}, logger.NopLogger{})
	router := NewRouter(h, "", logger.NopLogger{})

	// CORS headers and request ID on a normal request.
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest("GET", "/health", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d", rr.Code)
	}
	if rr.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Errorf("missing CORS header")
	}
	if rr.Header().Get("X-Request-ID") == "" {
		t.Errorf("missing request ID")
	}

	// Preflight.
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest("OPTIONS", "/api/consumption", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("preflight status %d", rr.Code)
	}

	// Caller-supplied request ID is preserved.
	req := httptest.NewRequest("GET", "/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Header().Get("X-Request-ID") != "abc-123" {
		t.Errorf("request ID not preserved: %q", rr.Header().Get("X-Request-ID"))
	}

	// Root endpoint.
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("root status %d", rr.Code)
	}
}
