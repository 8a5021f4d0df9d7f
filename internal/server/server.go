package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/bananaforge/imagegen-mcp/internal/generate"
)

// Server exposes the image-generation tools over the Model Context
// Protocol.
type Server struct {
	mcp *mcp.Server
	svc *generate.Service
	log *slog.Logger
}

// New builds a server around a generation pipeline.
func New(svc *generate.Service, version string, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	s := &Server{
		svc: svc,
		log: log,
	}
	s.mcp = mcp.NewServer(&mcp.Implementation{
		Name:    "imagegen-mcp",
		Version: version,
		Title:   "Gemini image generation tools",
	}, nil)
	s.registerTools()
	return s
}

// Run serves MCP over stdin/stdout until the client disconnects or ctx is
// cancelled.
func (s *Server) Run(ctx context.Context) error {
	s.log.Info("serving MCP over stdio")
	return s.mcp.Run(ctx, &mcp.StdioTransport{})
}

// toolResult renders a pipeline response as a tool call result: pretty JSON
// in the text content plus the response itself as structured output. The
// invoked tool's name is stamped onto the response.
func toolResult(tool string, resp *generate.Response) (*mcp.CallToolResult, any, error) {
	resp.Tool = tool
	data, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return nil, nil, fmt.Errorf("marshal tool result: %w", err)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(data)},
		},
		IsError: !resp.Success,
	}, resp, nil
}
