// Package api defines the shared contracts between the tool servers and the
// MCP transport layer.
//
// Every tool server (database, kubernetes, monitoring, incident) implements
// the ToolProvider interface: it advertises its tools as ToolMetadata and
// executes them on demand, returning a CallToolResult. The internal/server
// package converts these into MCP tools and results without the providers
// depending on the MCP library directly.
package api
