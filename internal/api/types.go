package api

import "context"

// ArgMetadata describes a single tool argument for schema generation.
type ArgMetadata struct {
	// Name is the argument name as exposed in the tool's input schema.
	Name string `json:"name"`
	// Type is the JSON schema type ("string", "number", "boolean", "object").
	Type string `json:"type"`
	// Required indicates whether the argument must be provided.
	Required bool `json:"required"`
	// Description explains the argument for the calling agent.
	Description string `json:"description"`
	// Default is the value used when the argument is omitted.
	Default interface{} `json:"default,omitempty"`
}

// ToolMetadata describes a tool offered by a ToolProvider.
type ToolMetadata struct {
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Args        []ArgMetadata `json:"args,omitempty"`
}

// CallToolResult is the transport-independent result of a tool execution.
// Content entries are either plain strings or JSON-serializable values.
type CallToolResult struct {
	Content []interface{} `json:"content"`
	IsError bool          `json:"isError"`
}

// ToolProvider is implemented by each tool server backend.
//
// GetTools must be cheap and side-effect free; it is called during server
// startup to register tools. ExecuteTool must be safe for concurrent use:
// providers hold no per-request state beyond the startup-computed mode.
type ToolProvider interface {
	GetTools() []ToolMetadata
	ExecuteTool(ctx context.Context, toolName string, args map[string]interface{}) (*CallToolResult, error)
}
