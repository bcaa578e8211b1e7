package mcp

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
	ai "github.com/spetersoncode/aiagent"
	"github.com/spetersoncode/aiagent/tool"
)

// ClientName is reported to MCP servers during initialization.
const ClientName = "aiagent-mcp-client"

// RemoteRegistry lists and calls the tools of one MCP server.
// The tool list is cached and can be refreshed with Refresh.
// It is safe for concurrent use.
type RemoteRegistry struct {
	client *client.Client
	mu     sync.RWMutex
	tools  map[string]ai.Tool
}

// NewRemoteRegistry starts command as a stdio MCP server and lists its tools.
func NewRemoteRegistry(ctx context.Context, command string, env []string, args ...string) (*RemoteRegistry, error) {
	c, err := client.NewStdioMCPClient(command, env, args...)
	if err != nil {
		return nil, fmt.Errorf("mcp: create stdio client: %w", err)
	}
	return NewRemoteRegistryFromClient(ctx, c)
}

// NewRemoteRegistrySSE connects to an MCP server over SSE and lists its tools.
func NewRemoteRegistrySSE(ctx context.Context, baseURL string) (*RemoteRegistry, error) {
	c, err := client.NewSSEMCPClient(baseURL)
	if err != nil {
		return nil, fmt.Errorf("mcp: create sse client: %w", err)
	}
	return NewRemoteRegistryFromClient(ctx, c)
}

// NewRemoteRegistryFromClient starts and initializes c, then lists its tools.
// The client is closed if any step fails.
func NewRemoteRegistryFromClient(ctx context.Context, c *client.Client) (*RemoteRegistry, error) {
	if err := c.Start(ctx); err != nil {
		return nil, fmt.Errorf("mcp: start client: %w", err)
	}

	_, err := c.Initialize(ctx, mcp.InitializeRequest{
		Params: mcp.InitializeParams{
			ProtocolVersion: mcp.LATEST_PROTOCOL_VERSION,
			Capabilities:    mcp.ClientCapabilities{},
			ClientInfo:      mcp.Implementation{Name: ClientName, Version: Version},
		},
	})
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("mcp: initialize session: %w", err)
	}

	r := &RemoteRegistry{client: c, tools: make(map[string]ai.Tool)}
	if err := r.Refresh(ctx); err != nil {
		c.Close()
		return nil, err
	}
	return r, nil
}

// Close closes the connection to the MCP server.
func (r *RemoteRegistry) Close() error {
	return r.client.Close()
}

// Refresh replaces the cached tool list with the server's current one.
func (r *RemoteRegistry) Refresh(ctx context.Context) error {
	result, err := r.client.ListTools(ctx, mcp.ListToolsRequest{})
	if err != nil {
		return fmt.Errorf("mcp: list tools: %w", err)
	}

	tools := make(map[string]ai.Tool, len(result.Tools))
	for _, t := range result.Tools {
		tools[t.Name] = FromMCPTool(t)
	}

	r.mu.Lock()
	r.tools = tools
	r.mu.Unlock()
	return nil
}

// Tools returns the cached tool definitions sorted by name.
func (r *RemoteRegistry) Tools() []ai.Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]ai.Tool, 0, len(r.tools))
	for _, t := range r.tools {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// GetTool returns the cached definition of name.
func (r *RemoteRegistry) GetTool(name string) (ai.Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tools[name]
	return t, ok
}

// Len returns the number of cached tools.
func (r *RemoteRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tools)
}

// Execute calls a tool on the server. Transport failures are returned as
// error results.
func (r *RemoteRegistry) Execute(ctx context.Context, call ai.ToolCall) (ai.ToolResult, error) {
	result, err := r.client.CallTool(ctx, ToMCPCallToolRequest(call))
	if err != nil {
		return ai.ToolResult{ToolCallID: call.ID, Name: call.Name, Content: err.Error(), IsError: true}, nil
	}
	return FromMCPCallToolResult(call, result), nil
}

// Handler returns a tool handler that proxies calls to the server.
func (r *RemoteRegistry) Handler() tool.Handler {
	return func(ctx context.Context, call ai.ToolCall) (string, error) {
		res, err := r.Execute(ctx, call)
		if err != nil {
			return "", err
		}
		if res.IsError {
			return "", errors.New(res.Content)
		}
		return res.Content, nil
	}
}

// RegisterInto adds every cached tool to dst with a proxying handler.
// Registration stops at the first failure, such as a name dst already holds.
func (r *RemoteRegistry) RegisterInto(dst *tool.Registry) error {
	h := r.Handler()
	for _, t := range r.Tools() {
		if err := dst.Register(t, h); err != nil {
			return fmt.Errorf("mcp: register %s: %w", t.Name, err)
		}
	}
	return nil
}
