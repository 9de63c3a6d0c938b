// Package server hosts a tool provider behind an MCP server on the
// configured transport (streamable-http, sse, or stdio).
package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/server"

	"infrawhisperer/internal/api"
	"infrawhisperer/pkg/logging"
)

const subsystem = "server"

// Supported MCP transports.
const (
	TransportStreamableHTTP = "streamable-http"
	TransportSSE            = "sse"
	TransportStdio          = "stdio"
)

// Config describes one tool server instance.
type Config struct {
	// Name is the MCP server name advertised to clients.
	Name string
	// Version is the advertised server version.
	Version string
	// Instructions describe the server's purpose to the calling agent.
	Instructions string

	Host      string
	Port      int
	Transport string
}

// Server wires a ToolProvider into an MCP server and manages the transport
// lifecycle.
type Server struct {
	config   Config
	provider api.ToolProvider

	mu        sync.Mutex
	mcpServer *server.MCPServer

	sseServer            *server.SSEServer
	streamableHTTPServer *server.StreamableHTTPServer
	stdioServer          *server.StdioServer

	cancel context.CancelFunc
}

// New creates a server for the given provider. Nothing listens until Start.
func New(config Config, provider api.ToolProvider) *Server {
	return &Server{
		config:   config,
		provider: provider,
	}
}

// Start registers the provider's tools and starts the configured transport.
// The transport runs in a background goroutine; Start returns once listening
// has been initiated.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mcpServer != nil {
		return fmt.Errorf("server already started")
	}

	ctx, s.cancel = context.WithCancel(ctx)

	opts := []server.ServerOption{
		server.WithToolCapabilities(true),
	}
	if s.config.Instructions != "" {
		opts = append(opts, server.WithInstructions(s.config.Instructions))
	}
	s.mcpServer = server.NewMCPServer(s.config.Name, s.config.Version, opts...)

	tools := buildServerTools(s.provider)
	s.mcpServer.AddTools(tools...)
	logging.Info(subsystem, "Registered %d tool(s) for %s", len(tools), s.config.Name)

	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	switch s.config.Transport {
	case TransportSSE:
		logging.Info(subsystem, "Starting %s with SSE transport on %s", s.config.Name, addr)
		s.sseServer = server.NewSSEServer(
			s.mcpServer,
			server.WithBaseURL(fmt.Sprintf("http://%s", addr)),
			server.WithSSEEndpoint("/sse"),
			server.WithMessageEndpoint("/message"),
			server.WithKeepAlive(true),
			server.WithKeepAliveInterval(30*time.Second),
		)
		go func() {
			if err := s.sseServer.Start(addr); err != nil && err != http.ErrServerClosed {
				logging.Error(subsystem, err, "SSE server error")
			}
		}()

	case TransportStdio:
		logging.Info(subsystem, "Starting %s with stdio transport", s.config.Name)
		s.stdioServer = server.NewStdioServer(s.mcpServer)
		go func() {
			if err := s.stdioServer.Listen(ctx, os.Stdin, os.Stdout); err != nil && ctx.Err() == nil {
				logging.Error(subsystem, err, "Stdio server error")
			}
		}()

	case TransportStreamableHTTP, "":
		logging.Info(subsystem, "Starting %s with streamable-http transport on %s", s.config.Name, addr)
		s.streamableHTTPServer = server.NewStreamableHTTPServer(s.mcpServer)
		go func() {
			if err := s.streamableHTTPServer.Start(addr); err != nil && err != http.ErrServerClosed {
				logging.Error(subsystem, err, "Streamable HTTP server error")
			}
		}()

	default:
		return fmt.Errorf("unknown transport: %s", s.config.Transport)
	}

	return nil
}

// Stop shuts the transport down. Safe to call once after a successful Start.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	var err error
	if s.sseServer != nil {
		err = s.sseServer.Shutdown(ctx)
	}
	if s.streamableHTTPServer != nil {
		err = s.streamableHTTPServer.Shutdown(ctx)
	}
	// The stdio server stops via context cancellation.

	logging.Info(subsystem, "%s stopped", s.config.Name)
	return err
}
