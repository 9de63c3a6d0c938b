package server

import (
	"context"
	"fmt"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"infrawhisperer/internal/api"
)

// stubProvider records calls and returns canned results.
type stubProvider struct {
	tools    []api.ToolMetadata
	lastTool string
	lastArgs map[string]interface{}
	result   *api.CallToolResult
	err      error
}

func (s *stubProvider) GetTools() []api.ToolMetadata {
	return s.tools
}

func (s *stubProvider) ExecuteTool(ctx context.Context, toolName string, args map[string]interface{}) (*api.CallToolResult, error) {
	s.lastTool = toolName
	s.lastArgs = args
	return s.result, s.err
}

func TestBuildServerTools(t *testing.T) {
	p := &stubProvider{
		tools: []api.ToolMetadata{
			{
				Name:        "run_query",
				Description: "Execute a read-only SQL query.",
				Args: []api.ArgMetadata{
					{Name: "query", Type: "string", Required: true, Description: "SQL to run"},
				},
			},
			{Name: "list_tables", Description: "List tables."},
		},
		result: api.TextResult("ok"),
	}

	tools := buildServerTools(p)
	require.Len(t, tools, 2)
	assert.Equal(t, "run_query", tools[0].Tool.Name)
	assert.Equal(t, "object", tools[0].Tool.InputSchema.Type)
	assert.Equal(t, []string{"query"}, tools[0].Tool.InputSchema.Required)
	assert.Empty(t, tools[1].Tool.InputSchema.Required)
}

func TestConvertToMCPSchemaDefaults(t *testing.T) {
	schema := convertToMCPSchema([]api.ArgMetadata{
		{Name: "namespace", Type: "string", Description: "Namespace", Default: "default"},
		{Name: "limit", Type: "number", Required: true, Description: "Max results"},
	})

	ns, ok := schema.Properties["namespace"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "default", ns["default"])
	assert.Equal(t, "string", ns["type"])

	limit, ok := schema.Properties["limit"].(map[string]interface{})
	require.True(t, ok)
	_, hasDefault := limit["default"]
	assert.False(t, hasDefault)

	assert.Equal(t, []string{"limit"}, schema.Required)
}

func TestHandlerPassesArguments(t *testing.T) {
	p := &stubProvider{result: api.TextResult("rows")}
	handler := newToolHandler(p, "run_query")

	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]interface{}{"query": "SELECT 1"}

	result, err := handler(context.Background(), req)
	require.NoError(t, err)
	require.False(t, result.IsError)

	assert.Equal(t, "run_query", p.lastTool)
	assert.Equal(t, "SELECT 1", p.lastArgs["query"])

	require.Len(t, result.Content, 1)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok)
	assert.Equal(t, "rows", text.Text)
}

func TestHandlerNilArguments(t *testing.T) {
	p := &stubProvider{result: api.TextResult("ok")}
	handler := newToolHandler(p, "list_tables")

	result, err := handler(context.Background(), mcp.CallToolRequest{})
	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.NotNil(t, p.lastArgs)
}

func TestHandlerProviderError(t *testing.T) {
	p := &stubProvider{err: fmt.Errorf("unknown tool: nope")}
	handler := newToolHandler(p, "nope")

	result, err := handler(context.Background(), mcp.CallToolRequest{})
	// Provider errors surface as MCP error results, not transport errors.
	require.NoError(t, err)
	require.True(t, result.IsError)

	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok)
	assert.Contains(t, text.Text, "unknown tool: nope")
}

func TestConvertToMCPResultErrorFlag(t *testing.T) {
	result := convertToMCPResult(api.ErrorResult("boom"))
	assert.True(t, result.IsError)

	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok)
	assert.Equal(t, "boom", text.Text)
}

func TestConvertToMCPResultNonString(t *testing.T) {
	result := convertToMCPResult(&api.CallToolResult{
		Content: []interface{}{map[string]int{"count": 3}},
	})

	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok)
	assert.JSONEq(t, `{"count":3}`, text.Text)
}
