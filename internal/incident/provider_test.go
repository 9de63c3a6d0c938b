package incident

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProvider(t *testing.T) *Provider {
	t.Helper()
	p := NewProvider(t.TempDir(), "")
	p.now = func() time.Time { return time.Date(2026, 2, 14, 1, 30, 0, 0, time.UTC) }
	return p
}

func callTool(t *testing.T, p *Provider, name string, args map[string]interface{}) string {
	t.Helper()
	result, err := p.ExecuteTool(context.Background(), name, args)
	require.NoError(t, err)
	require.False(t, result.IsError, "unexpected error result: %v", result.Content)
	require.Len(t, result.Content, 1)
	return result.Content[0].(string)
}

func TestSearchRunbooksFound(t *testing.T) {
	p := newTestProvider(t)

	out := callTool(t, p, "search_runbooks", map[string]interface{}{"query": "crashloop"})
	assert.Contains(t, out, "📒 RB-001: Pod CrashLoopBackOff (Severity: high)")
	assert.Contains(t, out, "kubectl logs <pod> --previous")
	assert.Contains(t, out, "Remediation:")
}

func TestSearchRunbooksTopThree(t *testing.T) {
	p := newTestProvider(t)

	// A broad query matches all five runbooks; only three are rendered but
	// the total match count is reported.
	out := callTool(t, p, "search_runbooks", map[string]interface{}{"query": "e"})
	assert.Contains(t, out, "Found 5 matching runbook(s)")
	assert.Equal(t, 3, strings.Count(out, "📒"))
}

func TestSearchRunbooksNoMatch(t *testing.T) {
	p := newTestProvider(t)

	out := callTool(t, p, "search_runbooks", map[string]interface{}{"query": "zzzznothing"})
	assert.Contains(t, out, "No runbooks found matching 'zzzznothing'")
	assert.Contains(t, out, "Pod CrashLoopBackOff")
}

func TestLogIncidentRoundTrip(t *testing.T) {
	p := newTestProvider(t)

	out := callTool(t, p, "log_incident", map[string]interface{}{
		"title":             "Payment service outage",
		"severity":          "critical",
		"description":       "payment-service crash-looping on missing vault secret",
		"affected_services": "payment-service, checkout-service",
		"actions_taken":     "restarted deployment",
	})
	assert.Contains(t, out, "✅ Incident logged successfully!")
	assert.Contains(t, out, "Severity:  critical")
	assert.Contains(t, out, "Timestamp: 2026-02-14T01:30:00Z")

	list := callTool(t, p, "list_incidents", nil)
	assert.Contains(t, list, "Payment service outage")
	assert.Contains(t, list, "INC-20260214-")

	// Affected services were split and trimmed.
	incidents, err := p.store.Load()
	require.NoError(t, err)
	require.Len(t, incidents, 1)
	assert.Equal(t, []string{"payment-service", "checkout-service"}, incidents[0].AffectedServices)
	assert.Equal(t, "open", incidents[0].Status)
}

func TestLogIncidentInvalidSeverity(t *testing.T) {
	p := newTestProvider(t)

	result, err := p.ExecuteTool(context.Background(), "log_incident", map[string]interface{}{
		"title":             "Oops",
		"severity":          "catastrophic",
		"description":       "bad",
		"affected_services": "everything",
	})
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, result.Content[0].(string), "invalid severity")
}

func TestLogIncidentMissingFields(t *testing.T) {
	p := newTestProvider(t)

	result, err := p.ExecuteTool(context.Background(), "log_incident", map[string]interface{}{
		"severity": "high",
	})
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestListIncidentsEmpty(t *testing.T) {
	p := newTestProvider(t)

	out := callTool(t, p, "list_incidents", map[string]interface{}{"status": "open"})
	assert.Equal(t, "No incidents found (filter: status=open).", out)
}

func TestListIncidentsStatusFilter(t *testing.T) {
	p := newTestProvider(t)

	callTool(t, p, "log_incident", map[string]interface{}{
		"title":             "First",
		"severity":          "low",
		"description":       "d",
		"affected_services": "svc",
	})

	out := callTool(t, p, "list_incidents", map[string]interface{}{"status": "resolved"})
	assert.Contains(t, out, "No incidents found")

	out = callTool(t, p, "list_incidents", map[string]interface{}{"status": "open"})
	assert.Contains(t, out, "First")
}

func TestGetIncident(t *testing.T) {
	p := newTestProvider(t)

	callTool(t, p, "log_incident", map[string]interface{}{
		"title":             "Lookup me",
		"severity":          "medium",
		"description":       "details here",
		"affected_services": "api-gateway",
	})

	incidents, err := p.store.Load()
	require.NoError(t, err)
	require.Len(t, incidents, 1)

	out := callTool(t, p, "get_incident", map[string]interface{}{"incident_id": incidents[0].ID})
	assert.Contains(t, out, `"title": "Lookup me"`)
	assert.Contains(t, out, `"status": "open"`)

	out = callTool(t, p, "get_incident", map[string]interface{}{"incident_id": "INC-00000000-FFFFFF"})
	assert.Contains(t, out, "not found")
}

func TestExecuteToolUnknown(t *testing.T) {
	p := newTestProvider(t)

	_, err := p.ExecuteTool(context.Background(), "resolve_incident", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown tool")
}
