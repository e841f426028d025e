// Package server hosts the tool loader on an MCP server over the configured
// transport.
package server

import (
	"fmt"
	"net/http"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/Azure/azure-mcp/internal/logger"
	"github.com/Azure/azure-mcp/internal/tools"
	"github.com/Azure/azure-mcp/internal/version"
)

const (
	TransportStdio          = "stdio"
	TransportSSE            = "sse"
	TransportStreamableHTTP = "streamable-http"
)

type Options struct {
	Transport string
	Host      string
	Port      int
}

// New builds an MCP server exposing every visible tool of loader.
func New(loader *tools.Loader) *mcpserver.MCPServer {
	s := mcpserver.NewMCPServer(
		version.ServerName,
		version.GetVersion(),
		mcpserver.WithToolCapabilities(false),
		mcpserver.WithRecovery(),
	)
	s.AddTools(loader.ServerTools()...)
	return s
}

// Run serves s until the transport stops.
func Run(s *mcpserver.MCPServer, opts Options) error {
	switch opts.Transport {
	case TransportStdio:
		logger.Info("Listening for requests on STDIO...")
		return mcpserver.ServeStdio(s)

	case TransportSSE:
		addr := fmt.Sprintf("%s:%d", opts.Host, opts.Port)
		baseURL := fmt.Sprintf("http://%s", addr)

		mux := newMux()
		httpServer := newHTTPServer(addr, mux)

		sseServer := mcpserver.NewSSEServer(
			s,
			mcpserver.WithBaseURL(baseURL),
			mcpserver.WithHTTPServer(httpServer),
		)
		mux.Handle("/sse", sseServer.SSEHandler())
		mux.Handle("/message", sseServer.MessageHandler())

		logger.Infof("SSE server listening on %s", addr)
		logger.Infof("SSE endpoint available at: %s/sse", baseURL)
		logger.Infof("Message endpoint available at: %s/message", baseURL)
		logger.Infof("Health check available at: %s/health", baseURL)

		return httpServer.ListenAndServe()

	case TransportStreamableHTTP:
		addr := fmt.Sprintf("%s:%d", opts.Host, opts.Port)

		mux := newMux()
		httpServer := newHTTPServer(addr, mux)

		streamableServer := mcpserver.NewStreamableHTTPServer(
			s,
			mcpserver.WithStreamableHTTPServer(httpServer),
		)
		mux.Handle("/mcp", streamableServer)

		logger.Infof("Streamable HTTP server listening on %s", addr)
		logger.Infof("MCP endpoint available at: http://%s/mcp", addr)
		logger.Infof("Health check available at: http://%s/health", addr)

		return httpServer.ListenAndServe()

	default:
		return fmt.Errorf("invalid transport type: %s (must be '%s', '%s', or '%s')", opts.Transport, TransportStdio, TransportSSE, TransportStreamableHTTP)
	}
}

func newMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthHandler)
	return mux
}

func newHTTPServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(fmt.Sprintf(`{"status":"healthy","version":%q}`, version.GetVersion())))
}
