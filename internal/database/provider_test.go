package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDemoProvider(t *testing.T) *Provider {
	t.Helper()
	p := NewProvider(context.Background(), "")
	require.True(t, p.DemoMode())
	return p
}

func resultText(t *testing.T, content []interface{}) string {
	t.Helper()
	require.Len(t, content, 1)
	s, ok := content[0].(string)
	require.True(t, ok)
	return s
}

func TestGetToolsCatalog(t *testing.T) {
	p := newDemoProvider(t)
	tools := p.GetTools()
	require.Len(t, tools, 4)

	names := make([]string, len(tools))
	for i, tool := range tools {
		names[i] = tool.Name
	}
	assert.Equal(t, []string{"run_query", "list_tables", "describe_table", "slow_queries"}, names)

	require.Len(t, tools[0].Args, 1)
	assert.Equal(t, "query", tools[0].Args[0].Name)
	assert.True(t, tools[0].Args[0].Required)
}

func TestRunQueryDemoAccepted(t *testing.T) {
	p := newDemoProvider(t)

	result, err := p.ExecuteTool(context.Background(), "run_query", map[string]interface{}{
		"query": "SELECT id FROM orders WHERE status = 'pending'",
	})
	require.NoError(t, err)
	require.False(t, result.IsError)

	out := resultText(t, result.Content)
	assert.Contains(t, out, `"row_count": 5`)
	assert.Contains(t, out, "48921")
	assert.Contains(t, out, "pending")
}

func TestRunQueryRejectedIsNotAnError(t *testing.T) {
	p := newDemoProvider(t)

	result, err := p.ExecuteTool(context.Background(), "run_query", map[string]interface{}{
		"query": "DELETE FROM orders WHERE id = 1",
	})
	require.NoError(t, err)

	// A rejection is a normal tool result carrying the block marker, so the
	// calling agent sees the explanation rather than a transport fault.
	assert.False(t, result.IsError)
	out := resultText(t, result.Content)
	assert.Contains(t, out, "❌ BLOCKED:")
}

func TestRunQueryRejectionNeverReachesDemoBackend(t *testing.T) {
	p := newDemoProvider(t)

	// Keyword sniffing would route this to the orders fixture if
	// classification were bypassed.
	result, err := p.ExecuteTool(context.Background(), "run_query", map[string]interface{}{
		"query": "UPDATE orders SET status = 'shipped'",
	})
	require.NoError(t, err)

	out := resultText(t, result.Content)
	assert.Contains(t, out, "❌ BLOCKED:")
	assert.NotContains(t, out, "row_count")
}

func TestRunQueryMissingArgument(t *testing.T) {
	p := newDemoProvider(t)

	result, err := p.ExecuteTool(context.Background(), "run_query", map[string]interface{}{})
	require.NoError(t, err)

	// The empty statement fails prefix classification.
	assert.Contains(t, resultText(t, result.Content), "❌ BLOCKED:")
}

func TestListTablesDemo(t *testing.T) {
	p := newDemoProvider(t)

	result, err := p.ExecuteTool(context.Background(), "list_tables", nil)
	require.NoError(t, err)
	require.False(t, result.IsError)

	out := resultText(t, result.Content)
	assert.Contains(t, out, "customers")
	assert.Contains(t, out, "order_items")
	assert.Contains(t, out, "127453")
}

func TestDescribeTableDemo(t *testing.T) {
	p := newDemoProvider(t)

	result, err := p.ExecuteTool(context.Background(), "describe_table", map[string]interface{}{
		"table_name": "payments",
	})
	require.NoError(t, err)
	require.False(t, result.IsError)

	out := resultText(t, result.Content)
	assert.Contains(t, out, "Table: payments (48921 rows)")
	assert.Contains(t, out, "error_message")
	assert.Contains(t, out, "'stripe'")
}

func TestDescribeTableDemoUnknown(t *testing.T) {
	p := newDemoProvider(t)

	result, err := p.ExecuteTool(context.Background(), "describe_table", map[string]interface{}{
		"table_name": "users",
	})
	require.NoError(t, err)

	out := resultText(t, result.Content)
	assert.Contains(t, out, "Table 'users' not found")
	assert.Contains(t, out, "customers, orders, products, order_items, payments")
}

func TestDescribeTableMissingArgument(t *testing.T) {
	p := newDemoProvider(t)

	result, err := p.ExecuteTool(context.Background(), "describe_table", map[string]interface{}{})
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestSlowQueriesDemo(t *testing.T) {
	p := newDemoProvider(t)

	result, err := p.ExecuteTool(context.Background(), "slow_queries", nil)
	require.NoError(t, err)

	out := resultText(t, result.Content)
	assert.Contains(t, out, "PID: 1234 | Duration: 45.2s | State: active")
	assert.Contains(t, out, "PID: 1235")
}

func TestExecuteToolUnknown(t *testing.T) {
	p := newDemoProvider(t)

	_, err := p.ExecuteTool(context.Background(), "drop_database", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown tool")
}
