// Package assistant exposes the deck engine as MCP tools for chat
// assistants.
package assistant

import (
	"context"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/ramonehamilton/forgebreaker/internal/forge"
	"github.com/ramonehamilton/forgebreaker/internal/version"
)

// Server is an MCP server bound to a forge.Service.
type Server struct {
	svc       *forge.Service
	logger    *zap.Logger
	mcpServer *mcp.Server
}

// NewServer creates the MCP server and registers every tool.
func NewServer(svc *forge.Service, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		svc:    svc,
		logger: logger.Named("mcp"),
		mcpServer: mcp.NewServer(&mcp.Implementation{
			Name:    version.ServiceName,
			Version: version.GetVersion(),
		}, nil),
	}
	s.registerTools()
	return s
}

// MCPServer returns the underlying MCP server.
func (s *Server) MCPServer() *mcp.Server {
	return s.mcpServer
}

// Run serves one session over transport until ctx is done or the peer
// disconnects.
func (s *Server) Run(ctx context.Context, transport mcp.Transport) error {
	return s.mcpServer.Run(ctx, transport)
}

// RunStdio serves over stdin and stdout.
func (s *Server) RunStdio(ctx context.Context) error {
	return s.Run(ctx, &mcp.StdioTransport{})
}

// HTTPHandler serves the tools over the streamable HTTP transport.
func (s *Server) HTTPHandler() http.Handler {
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.mcpServer
	}, nil)
}

// addTool registers a tool whose calls are logged with their duration
// and error.
func addTool[In any](s *Server, tool *mcp.Tool, h mcp.ToolHandlerFor[In, any]) {
	name := tool.Name
	mcp.AddTool(s.mcpServer, tool, func(ctx context.Context, req *mcp.CallToolRequest, in In) (*mcp.CallToolResult, any, error) {
		start := time.Now()
		res, out, err := h(ctx, req, in)

		fields := []zap.Field{zap.String("tool", name), zap.Duration("duration", time.Since(start))}
		if err != nil {
			s.logger.Warn("tool call failed", append(fields, zap.Error(err))...)
		} else {
			s.logger.Info("tool call", fields...)
		}
		return res, out, err
	})
}
