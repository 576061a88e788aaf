// Package mcpserver exposes bizdesk's business logic as MCP tools so AI
// agents can price campaigns and read the books.
package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/mark3labs/bizdesk/internal/api"
	"github.com/mark3labs/bizdesk/internal/logger"
	"github.com/mark3labs/bizdesk/internal/profile"
	"github.com/mark3labs/mcp-go/server"
)

// InvoiceLoader loads every invoice of a tenant.
type InvoiceLoader interface {
	LoadAll(ctx context.Context, rc api.RequestContext) ([]api.Invoice, error)
}

// Deps are the data sources behind the API-backed tools. Nil sources make
// their tools report an error.
type Deps struct {
	Invoices InvoiceLoader
	Profile  profile.Fetcher
	Request  api.RequestContext
	Now      func() time.Time
}

// Server is an MCP server over streamable HTTP bound to 127.0.0.1.
type Server struct {
	deps      Deps
	mcpServer *server.MCPServer
	stdServer *http.Server
	port      int
	mu        sync.Mutex
}

// New returns a server over deps. Nothing listens until Start.
func New(deps Deps) *Server {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	s := &Server{deps: deps}
	s.mcpServer = server.NewMCPServer(
		"bizdesk-tools",
		"1.0.0",
		server.WithToolCapabilities(true),
	)
	s.registerTools()
	return s
}

// Start listens on 127.0.0.1:port, where 0 picks a free port, and returns
// the bound port.
func (s *Server) Start(ctx context.Context, port int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stdServer != nil {
		return 0, fmt.Errorf("server already started")
	}

	var lc net.ListenConfig
	listener, err := lc.Listen(ctx, "tcp", fmt.Sprintf("127.0.0.1:%d", port))
	if err != nil {
		return 0, fmt.Errorf("failed to listen: %w", err)
	}
	s.port = listener.Addr().(*net.TCPAddr).Port

	mux := http.NewServeMux()
	mux.Handle("/mcp", server.NewStreamableHTTPServer(s.mcpServer, server.WithStateLess(true)))
	s.stdServer = &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}

	stdServer := s.stdServer
	go func() {
		if err := stdServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("MCP server error: %v", err)
		}
	}()

	logger.Info("MCP server listening on 127.0.0.1:%d", s.port)
	return s.port, nil
}

// Stop shuts the HTTP server down.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stdServer == nil {
		return nil
	}
	if err := s.stdServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}
	s.stdServer = nil
	logger.Debug("MCP server stopped")
	return nil
}

// URL is the MCP endpoint.
func (s *Server) URL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fmt.Sprintf("http://127.0.0.1:%d/mcp", s.port)
}
