package monitoring

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const healthProbeTimeout = 3 * time.Second

// Client is a thin wrapper over the Prometheus HTTP API.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient returns a client for the Prometheus instance at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// Healthy probes /-/healthy with a short timeout. Used once at startup.
func (c *Client) Healthy(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, healthProbeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/-/healthy", nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("prometheus health check returned %d", resp.StatusCode)
	}
	return nil
}

// Query runs a PromQL instant query and returns the raw API response,
// re-indented for readability.
func (c *Client) Query(ctx context.Context, query string) (string, error) {
	return c.get(ctx, "/api/v1/query", url.Values{"query": {query}})
}

// QueryRange runs a PromQL range query over [start, end] at the given step.
func (c *Client) QueryRange(ctx context.Context, query string, start, end int64, step string) (string, error) {
	return c.get(ctx, "/api/v1/query_range", url.Values{
		"query": {query},
		"start": {strconv.FormatInt(start, 10)},
		"end":   {strconv.FormatInt(end, 10)},
		"step":  {step},
	})
}

// alertsResponse is the subset of the /api/v1/alerts payload we consume.
type alertsResponse struct {
	Status string `json:"status"`
	Data   struct {
		Alerts []json.RawMessage `json:"alerts"`
	} `json:"data"`
}

// Alerts fetches active alerts. The individual alert objects are returned
// raw; the provider renders them without reinterpretation.
func (c *Client) Alerts(ctx context.Context) ([]json.RawMessage, error) {
	body, err := c.getRaw(ctx, "/api/v1/alerts", nil)
	if err != nil {
		return nil, err
	}

	var parsed alertsResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode alerts response: %w", err)
	}
	if parsed.Status != "success" {
		return nil, fmt.Errorf("alerts query failed: %s", string(body))
	}
	return parsed.Data.Alerts, nil
}

// Targets fetches the scrape target listing as re-indented JSON.
func (c *Client) Targets(ctx context.Context) (string, error) {
	return c.get(ctx, "/api/v1/targets", nil)
}

func (c *Client) get(ctx context.Context, path string, params url.Values) (string, error) {
	body, err := c.getRaw(ctx, path, params)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, body, "", "  "); err != nil {
		// Non-JSON body, pass through untouched.
		return string(body), nil
	}
	return buf.String(), nil
}

func (c *Client) getRaw(ctx context.Context, path string, params url.Values) ([]byte, error) {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("prometheus returned %d: %s", resp.StatusCode, string(body))
	}
	return body, nil
}
