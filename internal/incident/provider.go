package incident

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

const subsystem = "incident"

// searchResultLimit bounds how many runbooks a single search renders.
const searchResultLimit = 3

var validSeverities = map[string]bool{
	"critical": true,
	"high":     true,
	"medium":   true,
	"low":      true,
}

// Provider exposes the runbook and incident tools.
type Provider struct {
	library *Library
	store   *Store
	now     func() time.Time
}

// NewProvider builds a provider persisting incidents under dataDir and
// loading overlay runbooks from runbookDir (may be empty).
func NewProvider(dataDir, runbookDir string) *Provider {
	return &Provider{
		library: NewLibrary(runbookDir),
		store:   NewStore(dataDir),
		now:     time.Now,
	}
}

// WatchRunbooks hot-reloads the overlay runbook directory until ctx is done.
func (p *Provider) WatchRunbooks(ctx context.Context) error {
	return p.library.Watch(ctx)
}

// GetTools implements api.ToolProvider.
func (p *Provider) GetTools() []api.ToolMetadata {
	return []api.ToolMetadata{
		{
			Name:        "search_runbooks",
			Description: "Search operational runbooks by keyword or symptom. Matches against title, tags, symptoms, and content.",
			Args: []api.ArgMetadata{
				{Name: "query", Type: "string", Required: true, Description: "Search query"},
			},
		},
		{
			Name:        "log_incident",
			Description: "Create a timestamped incident log entry.",
			Args: []api.ArgMetadata{
				{Name: "title", Type: "string", Required: true, Description: "Short incident title (e.g., 'Payment service outage')"},
				{Name: "severity", Type: "string", Required: true, Description: "Incident severity — one of: critical, high, medium, low"},
				{Name: "description", Type: "string", Required: true, Description: "Detailed description of the incident and impact"},
				{Name: "affected_services", Type: "string", Required: true, Description: "Comma-separated list of affected services"},
				{Name: "actions_taken", Type: "string", Required: false, Description: "Description of remediation actions taken (if any)", Default: ""},
			},
		},
		{
			Name:        "list_incidents",
			Description: "List recent incidents, optionally filtered by status.",
			Args: []api.ArgMetadata{
				{Name: "status", Type: "string", Required: false, Description: "Filter by status — 'open', 'resolved', 'all'", Default: "all"},
				{Name: "limit", Type: "number", Required: false, Description: "Maximum number of incidents to return", Default: 10},
			},
		},
		{
			Name:        "get_incident",
			Description: "Get detailed information about a specific incident.",
			Args: []api.ArgMetadata{
				{Name: "incident_id", Type: "string", Required: true, Description: "The incident ID (e.g., 'INC-20260214-A1B2C3')"},
			},
		},
	}
}

// ExecuteTool implements api.ToolProvider.
func (p *Provider) ExecuteTool(ctx context.Context, toolName string, args map[string]interface{}) (*api.CallToolResult, error) {
	switch toolName {
	case "search_runbooks":
		return p.searchRunbooks(api.GetString(args, "query", "")), nil
	case "log_incident":
		return p.logIncident(args), nil
	case "list_incidents":
		return p.listIncidents(api.GetString(args, "status", "all"), api.GetInt(args, "limit", 10)), nil
	case "get_incident":
		return p.getIncident(api.GetString(args, "incident_id", "")), nil
	default:
		return nil, fmt.Errorf("unknown tool: %s", toolName)
	}
}

func (p *Provider) searchRunbooks(query string) *api.CallToolResult {
	if query == "" {
		return api.ErrorResult("query is required")
	}

	matches := p.library.Search(query)
	if len(matches) == 0 {
		titles := make([]string, 0, len(p.library.All()))
		for _, rb := range p.library.All() {
			titles = append(titles, rb.Title)
		}
		return api.TextResult(fmt.Sprintf("No runbooks found matching '%s'. Available topics: %s", query, strings.Join(titles, ", ")))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d matching runbook(s):\n\n", len(matches))

	shown := matches
	if len(shown) > searchResultLimit {
		shown = shown[:searchResultLimit]
	}
	for _, rb := range shown {
		fmt.Fprintf(&b, "📒 %s: %s (Severity: %s)\n", rb.ID, rb.Title, rb.Severity)
		fmt.Fprintf(&b, "   Tags: %s\n\n", strings.Join(rb.Tags, ", "))

		b.WriteString("   Symptoms:\n")
		for _, s := range rb.Symptoms {
			fmt.Fprintf(&b, "   • %s\n", s)
		}
		b.WriteString("\n   Diagnosis:\n")
		for _, step := range rb.Diagnosis {
			fmt.Fprintf(&b, "   %s\n", step)
		}
		b.WriteString("\n   Remediation:\n")
		for _, step := range rb.Remediation {
			fmt.Fprintf(&b, "   • %s\n", step)
		}
		b.WriteString("\n" + strings.Repeat("-", 60) + "\n")
	}

	return api.TextResult(b.String())
}

func (p *Provider) logIncident(args map[string]interface{}) *api.CallToolResult {
	title := api.GetString(args, "title", "")
	severity := strings.ToLower(api.GetString(args, "severity", ""))
	description := api.GetString(args, "description", "")
	affectedServices := api.GetString(args, "affected_services", "")
	actionsTaken := api.GetString(args, "actions_taken", "")

	if title == "" || description == "" || affectedServices == "" {
		return api.ErrorResult("title, severity, description, and affected_services are required")
	}
	if !validSeverities[severity] {
		return api.ErrorResult(fmt.Sprintf("invalid severity '%s' — must be one of: critical, high, medium, low", severity))
	}

	now := p.now().UTC()
	services := strings.Split(affectedServices, ",")
	for i := range services {
		services[i] = strings.TrimSpace(services[i])
	}

	inc := Incident{
		ID:               NewIncidentID(now),
		Title:            title,
		Severity:         severity,
		Description:      description,
		AffectedServices: services,
		ActionsTaken:     actionsTaken,
		Status:           "open",
		CreatedAt:        now.Format(time.RFC3339),
		UpdatedAt:        now.Format(time.RFC3339),
	}

	if err := p.store.Append(inc); err != nil {
		return api.ErrorResult(fmt.Sprintf("Error logging incident: %s", err))
	}

	logging.Info(subsystem, "Incident logged: %s — %s", inc.ID, inc.Title)

	return api.TextResult(fmt.Sprintf(
		"✅ Incident logged successfully!\n\n"+
			"  ID:        %s\n"+
			"  Title:     %s\n"+
			"  Severity:  %s\n"+
			"  Services:  %s\n"+
			"  Timestamp: %s\n"+
			"  Status:    open",
		inc.ID, inc.Title, inc.Severity, affectedServices, inc.CreatedAt))
}

func (p *Provider) listIncidents(status string, limit int) *api.CallToolResult {
	if limit <= 0 {
		limit = 10
	}

	incidents, err := p.store.Recent(status, limit)
	if err != nil {
		return api.ErrorResult(fmt.Sprintf("Error listing incidents: %s", err))
	}
	if len(incidents) == 0 {
		return api.TextResult(fmt.Sprintf("No incidents found (filter: status=%s).", status))
	}

	rows := make([][]interface{}, 0, len(incidents))
	for _, inc := range incidents {
		title := inc.Title
		if len(title) > 33 {
			title = title[:33]
		}
		created := inc.CreatedAt
		if len(created) > 19 {
			created = created[:19]
		}
		rows = append(rows, []interface{}{inc.ID, inc.Severity, inc.Status, title, created})
	}

	header := fmt.Sprintf("📋 Incidents (%d found, filter: %s)\n\n", len(incidents), status)
	return api.TextResult(header + formatting.RenderTable(
		[]interface{}{"ID", "SEVERITY", "STATUS", "TITLE", "CREATED"}, rows))
}

func (p *Provider) getIncident(incidentID string) *api.CallToolResult {
	if incidentID == "" {
		return api.ErrorResult("incident_id is required")
	}

	inc, err := p.store.Find(incidentID)
	if err != nil {
		return api.ErrorResult(fmt.Sprintf("Error reading incidents: %s", err))
	}
	if inc == nil {
		return api.TextResult(fmt.Sprintf("Incident '%s' not found.", incidentID))
	}

	out, err := json.MarshalIndent(inc, "", "  ")
	if err != nil {
		return api.ErrorResult(fmt.Sprintf("Error rendering incident: %s", err))
	}
	return api.TextResult(string(out))
}
