package server

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"infrawhisperer/internal/api"
	"infrawhisperer/pkg/logging"
)

// buildServerTools converts a provider's tool catalog into registrable MCP
// server tools.
func buildServerTools(provider api.ToolProvider) []mcpserver.ServerTool {
	var tools []mcpserver.ServerTool
	for _, meta := range provider.GetTools() {
		tools = append(tools, mcpserver.ServerTool{
			Tool: mcp.Tool{
				Name:        meta.Name,
				Description: meta.Description,
				InputSchema: convertToMCPSchema(meta.Args),
			},
			Handler: newToolHandler(provider, meta.Name),
		})
	}
	return tools
}

// newToolHandler wraps a provider call in an MCP-compatible handler.
// Provider errors become MCP error results rather than transport failures.
func newToolHandler(provider api.ToolProvider, toolName string) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := make(map[string]interface{})
		if req.Params.Arguments != nil {
			if argsMap, ok := req.Params.Arguments.(map[string]interface{}); ok {
				args = argsMap
			}
		}

		result, err := provider.ExecuteTool(ctx, toolName, args)
		if err != nil {
			logging.Error(subsystem, err, "Tool execution failed for %s", toolName)
			return mcp.NewToolResultError(fmt.Sprintf("Tool execution failed: %v", err)), nil
		}
		return convertToMCPResult(result), nil
	}
}

// convertToMCPSchema renders arg metadata as the JSON schema MCP clients
// expect.
func convertToMCPSchema(args []api.ArgMetadata) mcp.ToolInputSchema {
	properties := make(map[string]interface{})
	required := []string{}

	for _, arg := range args {
		propSchema := map[string]interface{}{
			"type":        arg.Type,
			"description": arg.Description,
		}
		if arg.Default != nil {
			propSchema["default"] = arg.Default
		}
		properties[arg.Name] = propSchema

		if arg.Required {
			required = append(required, arg.Name)
		}
	}

	return mcp.ToolInputSchema{
		Type:       "object",
		Properties: properties,
		Required:   required,
	}
}

// convertToMCPResult converts the transport-independent result into MCP
// content. Non-string content is marshaled to JSON text.
func convertToMCPResult(result *api.CallToolResult) *mcp.CallToolResult {
	mcpContent := make([]mcp.Content, len(result.Content))
	for i, content := range result.Content {
		if text, ok := content.(string); ok {
			mcpContent[i] = mcp.NewTextContent(text)
		} else {
			jsonBytes, _ := json.Marshal(content)
			mcpContent[i] = mcp.NewTextContent(string(jsonBytes))
		}
	}

	return &mcp.CallToolResult{
		Content: mcpContent,
		IsError: result.IsError,
	}
}
