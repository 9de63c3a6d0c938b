package monitoring

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"infrawhisperer/internal/api"
	"infrawhisperer/internal/formatting"
	"infrawhisperer/pkg/logging"
)

const subsystem = "monitoring"

// durationWindows maps the accepted query_range lookback values to seconds.
// Unknown values fall back to 30 minutes.
var durationWindows = map[string]int64{
	"30m": 1800,
	"1h":  3600,
	"6h":  21600,
	"24h": 86400,
}

// Provider exposes the Prometheus tools.
type Provider struct {
	client *Client
	demo   bool
	now    func() time.Time
}

// NewProvider probes Prometheus at baseURL and returns a provider in live or
// demo mode.
func NewProvider(ctx context.Context, baseURL string) *Provider {
	p := &Provider{
		client: NewClient(baseURL),
		now:    time.Now,
	}

	if err := p.client.Healthy(ctx); err != nil {
		p.demo = true
		logging.Warn(subsystem, "Prometheus not reachable (%v) — running in DEMO mode with synthetic metrics", err)
		return p
	}

	logging.Info(subsystem, "Prometheus connection verified at %s", baseURL)
	return p
}

// DemoMode reports whether the provider answers from synthetic data.
func (p *Provider) DemoMode() bool {
	return p.demo
}

// GetTools implements api.ToolProvider.
func (p *Provider) GetTools() []api.ToolMetadata {
	return []api.ToolMetadata{
		{
			Name:        "query_metric",
			Description: "Execute a PromQL instant query against Prometheus.",
			Args: []api.ArgMetadata{
				{Name: "query", Type: "string", Required: true, Description: "A valid PromQL expression (e.g., 'up', 'rate(http_requests_total[5m])')"},
			},
		},
		{
			Name:        "query_range",
			Description: "Execute a PromQL range query against Prometheus to get time series data.",
			Args: []api.ArgMetadata{
				{Name: "query", Type: "string", Required: true, Description: "A valid PromQL expression"},
				{Name: "duration", Type: "string", Required: false, Description: "How far back to query: 30m, 1h, 6h, or 24h", Default: "30m"},
				{Name: "step", Type: "string", Required: false, Description: "Resolution step (e.g., '1m', '5m')", Default: "1m"},
			},
		},
		{
			Name:        "get_alerts",
			Description: "List all currently firing alerts from Prometheus/Alertmanager.",
		},
		{
			Name:        "get_targets",
			Description: "List Prometheus scrape targets and their health status.",
		},
	}
}

// ExecuteTool implements api.ToolProvider.
func (p *Provider) ExecuteTool(ctx context.Context, toolName string, args map[string]interface{}) (*api.CallToolResult, error) {
	switch toolName {
	case "query_metric":
		return p.queryMetric(ctx, api.GetString(args, "query", "")), nil
	case "query_range":
		return p.queryRange(ctx,
			api.GetString(args, "query", ""),
			api.GetString(args, "duration", "30m"),
			api.GetString(args, "step", "1m")), nil
	case "get_alerts":
		return p.getAlerts(ctx), nil
	case "get_targets":
		return p.getTargets(ctx), nil
	default:
		return nil, fmt.Errorf("unknown tool: %s", toolName)
	}
}

func (p *Provider) queryMetric(ctx context.Context, query string) *api.CallToolResult {
	if query == "" {
		return api.ErrorResult("query is required")
	}

	if p.demo {
		return marshalResult(map[string]interface{}{
			"status": "success",
			"query":  query,
			"data":   demoInstantData(query),
		})
	}

	out, err := p.client.Query(ctx, query)
	if err != nil {
		return api.ErrorResult(fmt.Sprintf("Error querying Prometheus: %s", err))
	}
	return api.TextResult(out)
}

func (p *Provider) queryRange(ctx context.Context, query, duration, step string) *api.CallToolResult {
	if query == "" {
		return api.ErrorResult("query is required")
	}

	if p.demo {
		return marshalResult(map[string]interface{}{
			"status":   "success",
			"query":    query,
			"duration": duration,
			"step":     step,
			"data":     demoRangeData(query, p.now()),
		})
	}

	window, ok := durationWindows[duration]
	if !ok {
		window = durationWindows["30m"]
	}
	end := p.now().Unix()
	out, err := p.client.QueryRange(ctx, query, end-window, end, step)
	if err != nil {
		return api.ErrorResult(fmt.Sprintf("Error querying Prometheus: %s", err))
	}
	return api.TextResult(out)
}

func (p *Provider) getAlerts(ctx context.Context) *api.CallToolResult {
	if p.demo {
		var b strings.Builder
		fmt.Fprintf(&b, "🚨 Active Alerts (%d firing)\n\n", len(demoAlerts))

		rows := make([][]interface{}, 0, len(demoAlerts))
		for _, a := range demoAlerts {
			rows = append(rows, []interface{}{a.AlertName, a.Severity, a.Service, a.Started})
		}
		b.WriteString(formatting.RenderTable(
			[]interface{}{"ALERT", "SEVERITY", "SERVICE", "STARTED"}, rows))

		for _, a := range demoAlerts {
			fmt.Fprintf(&b, "\n%s\n  Summary: %s\n  Detail:  %s\n", a.AlertName, a.Summary, a.Description)
		}
		return api.TextResult(b.String())
	}

	alerts, err := p.client.Alerts(ctx)
	if err != nil {
		return api.ErrorResult(fmt.Sprintf("Error fetching alerts: %s", err))
	}
	if len(alerts) == 0 {
		return api.TextResult("✅ No active alerts.")
	}
	out, err := json.MarshalIndent(alerts, "", "  ")
	if err != nil {
		return api.ErrorResult(fmt.Sprintf("Error fetching alerts: %s", err))
	}
	return api.TextResult(string(out))
}

func (p *Provider) getTargets(ctx context.Context) *api.CallToolResult {
	if p.demo {
		rows := make([][]interface{}, 0, len(demoTargets))
		for _, t := range demoTargets {
			rows = append(rows, []interface{}{t.Endpoint, t.State, t.LastScrape, t.ScrapeDuration, t.Error})
		}
		return api.TextResult(formatting.RenderTable(
			[]interface{}{"ENDPOINT", "STATE", "LAST SCRAPE", "DURATION", "ERROR"}, rows))
	}

	out, err := p.client.Targets(ctx)
	if err != nil {
		return api.ErrorResult(fmt.Sprintf("Error fetching targets: %s", err))
	}
	return api.TextResult(out)
}

func marshalResult(payload map[string]interface{}) *api.CallToolResult {
	out, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return api.ErrorResult(fmt.Sprintf("Error rendering result: %s", err))
	}
	return api.TextResult(string(out))
}
