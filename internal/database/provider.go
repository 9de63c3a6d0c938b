package database

import (
	"context"
	"fmt"
	"strings"

	"infrawhisperer/internal/api"
	"infrawhisperer/internal/formatting"
	"infrawhisperer/internal/sqlguard"
	"infrawhisperer/pkg/logging"
)

const subsystem = "database"

const (
	listTablesSQL = `SELECT schemaname || '.' || relname AS table_name,
       n_live_tup AS row_count
FROM pg_stat_user_tables
ORDER BY n_live_tup DESC`

	describeTableSQL = `SELECT column_name, data_type, is_nullable, column_default
FROM information_schema.columns
WHERE table_name = $1
ORDER BY ordinal_position`

	slowQueriesSQL = `SELECT pid, now() - pg_stat_activity.query_start AS duration,
       state, query
FROM pg_stat_activity
WHERE state != 'idle'
  AND now() - pg_stat_activity.query_start > interval '5 seconds'
ORDER BY duration DESC`
)

// Provider exposes the read-only database tools. The live/demo decision is
// made once in NewProvider and never revisited.
type Provider struct {
	exec *Executor
	demo bool
}

// NewProvider probes the database at url and returns a provider in live or
// demo mode. An empty url or a failed probe selects demo mode.
func NewProvider(ctx context.Context, url string) *Provider {
	p := &Provider{}
	if url == "" {
		p.demo = true
		logging.Warn(subsystem, "No database URL configured — running in DEMO mode with synthetic e-commerce data")
		return p
	}

	p.exec = NewExecutor(url)
	if err := p.exec.Probe(ctx); err != nil {
		p.demo = true
		logging.Warn(subsystem, "PostgreSQL not reachable (%v) — running in DEMO mode with synthetic e-commerce data", err)
		return p
	}

	logging.Info(subsystem, "PostgreSQL connection verified")
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
			Name:        "run_query",
			Description: "Execute a read-only SQL query against the database. Only SELECT, WITH (CTE), and EXPLAIN queries are allowed; INSERT, UPDATE, DELETE, DROP, and all other DML/DDL are blocked at the server level. Returns query results as JSON with columns and rows.",
			Args: []api.ArgMetadata{
				{Name: "query", Type: "string", Required: true, Description: "A SQL SELECT query to execute"},
			},
		},
		{
			Name:        "list_tables",
			Description: "List all tables in the database with their row counts.",
		},
		{
			Name:        "describe_table",
			Description: "Show the schema of a specific table including column names, types, and constraints.",
			Args: []api.ArgMetadata{
				{Name: "table_name", Type: "string", Required: true, Description: "Name of the table to describe"},
			},
		},
		{
			Name:        "slow_queries",
			Description: "Show currently running slow/long-running database queries (running > 5 seconds).",
		},
	}
}

// ExecuteTool implements api.ToolProvider.
func (p *Provider) ExecuteTool(ctx context.Context, toolName string, args map[string]interface{}) (*api.CallToolResult, error) {
	switch toolName {
	case "run_query":
		return p.runQuery(ctx, args), nil
	case "list_tables":
		return p.listTables(ctx), nil
	case "describe_table":
		return p.describeTable(ctx, args), nil
	case "slow_queries":
		return p.slowQueries(ctx), nil
	default:
		return nil, fmt.Errorf("unknown tool: %s", toolName)
	}
}

func (p *Provider) runQuery(ctx context.Context, args map[string]interface{}) *api.CallToolResult {
	query := api.GetString(args, "query", "")

	c := sqlguard.Classify(query)
	if !c.Accepted {
		logging.Warn(subsystem, "BLOCKED query (%s): %.100s", c.Reason, query)
		// Rejections are expected outcomes, not faults; the marker in the
		// text is what distinguishes them for the caller.
		return api.TextResult(c.Message())
	}

	if p.demo {
		out, err := demoQuery(c.Statement).MarshalIndent()
		if err != nil {
			return api.ErrorResult(fmt.Sprintf("Error executing query: %s", err))
		}
		return api.TextResult(out)
	}

	rs, err := p.exec.Execute(ctx, c.Statement)
	if err != nil {
		return api.ErrorResult(fmt.Sprintf("Error executing query: %s", err))
	}
	out, err := rs.MarshalIndent()
	if err != nil {
		return api.ErrorResult(fmt.Sprintf("Error executing query: %s", err))
	}
	return api.TextResult(out)
}

func (p *Provider) listTables(ctx context.Context) *api.CallToolResult {
	if p.demo {
		rows := make([][]interface{}, 0, len(demoTables))
		for _, t := range demoTables {
			rows = append(rows, []interface{}{t.Name, t.RowCount, len(t.Columns)})
		}
		return api.TextResult(formatting.RenderTable(
			[]interface{}{"TABLE", "ROWS", "COLUMNS"}, rows))
	}

	rs, err := p.exec.query(ctx, listTablesSQL)
	if err != nil {
		return api.ErrorResult(fmt.Sprintf("Error listing tables: %s", err))
	}
	if rs.RowCount == 0 {
		return api.TextResult("No tables found.")
	}
	return api.TextResult(formatting.RenderTable(
		[]interface{}{"TABLE", "ROWS"}, rs.Rows))
}

func (p *Provider) describeTable(ctx context.Context, args map[string]interface{}) *api.CallToolResult {
	tableName := api.GetString(args, "table_name", "")
	if tableName == "" {
		return api.ErrorResult("table_name is required")
	}

	if p.demo {
		t := findDemoTable(tableName)
		if t == nil {
			return api.TextResult(fmt.Sprintf("Table '%s' not found. Available tables: %s", tableName, demoTableNames()))
		}
		rows := make([][]interface{}, 0, len(t.Columns))
		for _, col := range t.Columns {
			rows = append(rows, []interface{}{col.Name, col.Type, nullableLabel(col.Nullable), col.Default})
		}
		header := fmt.Sprintf("Table: %s (%d rows)\n\n", t.Name, t.RowCount)
		return api.TextResult(header + formatting.RenderTable(
			[]interface{}{"COLUMN", "TYPE", "NULLABLE", "DEFAULT"}, rows))
	}

	rs, err := p.exec.query(ctx, describeTableSQL, tableName)
	if err != nil {
		return api.ErrorResult(fmt.Sprintf("Error describing table: %s", err))
	}
	if rs.RowCount == 0 {
		return api.TextResult(fmt.Sprintf("Table '%s' not found.", tableName))
	}
	header := fmt.Sprintf("Table: %s\n\n", tableName)
	return api.TextResult(header + formatting.RenderTable(
		[]interface{}{"COLUMN", "TYPE", "NULLABLE", "DEFAULT"}, rs.Rows))
}

func (p *Provider) slowQueries(ctx context.Context) *api.CallToolResult {
	if p.demo {
		var b strings.Builder
		b.WriteString("🐌 Slow Queries (running > 5s)\n")
		for _, sq := range demoSlowQueries {
			fmt.Fprintf(&b, "\nPID: %d | Duration: %s | State: %s\n", sq.PID, sq.Duration, sq.State)
			fmt.Fprintf(&b, "  Query: %s\n", truncateQueryText(sq.Query))
		}
		return api.TextResult(b.String())
	}

	rs, err := p.exec.query(ctx, slowQueriesSQL)
	if err != nil {
		return api.ErrorResult(fmt.Sprintf("Error checking slow queries: %s", err))
	}
	if rs.RowCount == 0 {
		return api.TextResult("✅ No slow queries detected (threshold: 5 seconds).")
	}

	var b strings.Builder
	b.WriteString("🐌 Slow Queries (running > 5s)\n")
	for _, row := range rs.Rows {
		fmt.Fprintf(&b, "\nPID: %v | Duration: %v | State: %v\n", row[0], row[1], row[2])
		fmt.Fprintf(&b, "  Query: %s\n", truncateQueryText(fmt.Sprintf("%v", row[3])))
	}
	return api.TextResult(b.String())
}
