package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/enertrack/meterd/api/consumption"
	"github.com/enertrack/meterd/core/query"
)

// DataClient is the small subset of the data service the gateway needs, to
// keep tests simple. Implementations must be safe for concurrent use.
type DataClient interface {
	Records(ctx context.Context, start, end string) ([]consumption.RecordDTO, error)
	Stats(ctx context.Context, start, end string) (query.UsageStats, error)
}

// UpstreamError is a non-2xx reply from the data service.
type UpstreamError struct {
	Status int
	Body   consumption.ErrorResponse
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("data service returned %d: %s", e.Status, e.Body.Message)
}

// HTTPDataClient implements DataClient over the data service's JSON API.
type HTTPDataClient struct {
	base   string
	client *http.Client
}

// NewDataClient creates a client for the data service at baseURL.
func NewDataClient(baseURL string) *HTTPDataClient {
	return &HTTPDataClient{
		base:   strings.TrimSuffix(baseURL, "/"),
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// Records fetches the range-filtered records.
func (c *HTTPDataClient) Records(ctx context.Context, start, end string) ([]consumption.RecordDTO, error) {
	var out consumption.RecordsResponse
	if err := c.get(ctx, "/v1/records", start, end, &out); err != nil {
		return nil, err
	}
	return out.Records, nil
}

// Stats fetches the aggregated usage over the range.
func (c *HTTPDataClient) Stats(ctx context.Context, start, end string) (query.UsageStats, error) {
	var out query.UsageStats
	if err := c.get(ctx, "/v1/stats", start, end, &out); err != nil {
		return query.UsageStats{}, err
	}
	return out, nil
}

func (c *HTTPDataClient) get(ctx context.Context, path, start, end string, out any) error {
	params := url.Values{}
	if start != "" {
		params.Set("start_datetime", start)
	}
	if end != "" {
		params.Set("end_datetime", end)
	}
	u := c.base + path
	if enc := params.Encode(); enc != "" {
		u += "?" + enc
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("calling data service: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		uerr := &UpstreamError{Status: resp.StatusCode}
		_ = json.NewDecoder(resp.Body).Decode(&uerr.Body)
		return uerr
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding data service response: %w", err)
	}
	return nil
}
