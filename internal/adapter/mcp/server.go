package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"iblipper/internal/application/port/output"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httplog"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const shutdownTimeout = 10 * time.Second

// Server exposes every tool of a registry over MCP.
type Server struct {
	server   *mcp.Server
	registry output.ToolRegistry
	logger   output.LoggerPort
}

func NewServer(name, version string, registry output.ToolRegistry, logger output.LoggerPort) *Server {
	if logger == nil {
		logger = output.NopLogger{}
	}
	s := &Server{
		server:   mcp.NewServer(&mcp.Implementation{Name: name, Version: version}, nil),
		registry: registry,
		logger:   logger,
	}
	for _, tool := range registry.All() {
		s.server.AddTool(&mcp.Tool{
			Name:        tool.Name().String(),
			Description: tool.Description(),
			InputSchema: tool.Parameters(),
		}, s.toolHandler(tool))
	}
	return s
}

// toolHandler turns tool errors and panics into error results so a failing
// tool never breaks the session.
func (s *Server) toolHandler(tool output.ToolPort) mcp.ToolHandler {
	name := tool.Name().String()
	return func(ctx context.Context, req *mcp.CallToolRequest) (result *mcp.CallToolResult, err error) {
		defer func() {
			if r := recover(); r != nil {
				s.logger.Error("Tool panicked", "tool", name, "panic", r)
				result = errorResult(fmt.Sprintf("tool %s panicked: %v", name, r))
				err = nil
			}
		}()

		args := "{}"
		if req != nil && req.Params != nil && len(req.Params.Arguments) > 0 {
			args = string(json.RawMessage(req.Params.Arguments))
		}

		s.logger.Info("Tool call", "tool", name, "args", args)
		start := time.Now()

		out, execErr := tool.Execute(ctx, args)
		if execErr != nil {
			s.logger.Warn("Tool call failed", "tool", name, "error", execErr, "duration_ms", time.Since(start).Milliseconds())
			return errorResult("Error: " + execErr.Error()), nil
		}

		s.logger.Info("Tool call completed", "tool", name, "duration_ms", time.Since(start).Milliseconds())
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: out}},
		}, nil
	}
}

func errorResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		IsError: true,
	}
}

// MCP returns the underlying SDK server.
func (s *Server) MCP() *mcp.Server {
	return s.server
}

// RunStdio serves a single client over stdin/stdout until ctx ends or the
// client disconnects.
func (s *Server) RunStdio(ctx context.Context) error {
	s.logger.Info("Serving MCP over stdio")
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// Handler mounts the streamable HTTP transport at /mcp next to a /healthz
// probe.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(httplog.RequestLogger(httplog.NewLogger("iblipper", httplog.Options{
		JSON:    true,
		Concise: true,
	})))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status": "ok",
			"tools":  len(s.registry.All()),
		})
	})

	streamable := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.server
	}, nil)
	r.Handle("/mcp", streamable)
	r.Handle("/mcp/*", streamable)

	return r
}

// ListenAndServe runs the HTTP transport until ctx is canceled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Serving MCP over HTTP", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
