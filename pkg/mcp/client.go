package mcp

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/forgeflow-dev/taskforge/pkg/config"
)

// appName/appVersion identify this client to the MCP server during the
// initialize handshake.
const (
	appName = "taskforge"
	appVersion = "0.1.0"
)

// Client is a single-server MCP client. Unlike a multi-server router, it is
// scoped to exactly one code-map generator tool, which is all pkg/codemap
// needs.
//
// Client satisfies codemap.Generator's CallTool method.
type Client struct {
	mu sync.RWMutex
	session *mcpsdk.ClientSession
	client *mcpsdk.Client
	lastConfig config.MCPServerConfig

	reinitMu sync.Mutex

	logger *slog.Logger
}

// New creates a disconnected Client. Call Connect before the first CallTool.
func New() *Client {
	return &Client{
		logger: slog.Default().With("component", "mcp"),
	}
}

// Connect establishes the session with the configured transport. Safe to
// call once at startup; CallTool recreates the session itself on transport
// failure.
func (c *Client) Connect(ctx context.Context, cfg config.MCPServerConfig) error {
	c.reinitMu.Lock()
	defer c.reinitMu.Unlock()
	return c.connectLocked(ctx, cfg)
}

func (c *Client) connectLocked(ctx context.Context, cfg config.MCPServerConfig) error {
	transport, err := createTransport(cfg.Transport)
	if err != nil {
		return fmt.Errorf("create transport: %w", err)
	}

	initCtx, cancel := context.WithTimeout(ctx, InitTimeout)
	defer cancel()

	client := mcpsdk.NewClient(&mcpsdk.Implementation{
		Name: appName,
		Version: appVersion,
	}, nil)

	session, err := client.Connect(initCtx, transport, nil)
	if err != nil {
		if closer, ok := transport.(io.Closer); ok {
			_ = closer.Close()
		}
		return fmt.Errorf("connect: %w", err)
	}

	c.mu.Lock()
	c.session = session
	c.client = client
	c.lastConfig = cfg
	c.mu.Unlock()

	c.logger.Info("MCP server connected")
	return nil
}

// CallTool invokes toolName on the connected session, satisfying
// codemap.Generator. Retries once with a recreated session on a transport
// failure.
func (c *Client) CallTool(ctx context.Context, toolName string, args map[string]any) (string, error) {
	params := &mcpsdk.CallToolParams{
		Name: toolName,
		Arguments: args,
	}

	result, err := c.callToolOnce(ctx, params)
	if err == nil {
		return extractTextContent(result), checkToolError(result)
	}

	action := ClassifyError(err)
	if action == NoRetry {
		return "", err
	}

	c.logger.Info("MCP call failed, retrying", "tool", toolName, "error", err)

	backoff := RetryBackoffMin + time.Duration(rand.Int64N(int64(RetryBackoffMax-RetryBackoffMin)))
	select {
	case <-time.After(backoff):
	case <-ctx.Done():
		return "", ctx.Err()
	}

	if err := c.recreateSession(ctx); err != nil {
		return "", fmt.Errorf("session recreation failed: %w", err)
	}

	result, err = c.callToolOnce(ctx, params)
	if err != nil {
		return "", fmt.Errorf("retry failed for %s: %w", toolName, err)
	}
	return extractTextContent(result), checkToolError(result)
}

func (c *Client) callToolOnce(ctx context.Context, params *mcpsdk.CallToolParams) (*mcpsdk.CallToolResult, error) {
	c.mu.RLock()
	session := c.session
	c.mu.RUnlock()
	if session == nil {
		return nil, fmt.Errorf("mcp client not connected")
	}

	opCtx, cancel := context.WithTimeout(ctx, OperationTimeout)
	defer cancel()

	return session.CallTool(opCtx, params)
}

// recreateSession tears down and reconnects using the last known config.
func (c *Client) recreateSession(ctx context.Context) error {
	c.reinitMu.Lock()
	defer c.reinitMu.Unlock()

	c.mu.Lock()
	cfg := c.lastConfig
	if c.session != nil {
		_ = c.session.Close()
		c.session = nil
		c.client = nil
	}
	c.mu.Unlock()

	reinitCtx, cancel := context.WithTimeout(ctx, ReinitTimeout)
	defer cancel()

	return c.connectLocked(reinitCtx, cfg)
}

// Close shuts down the session.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return nil
	}
	err := c.session.Close()
	c.session = nil
	c.client = nil
	return err
}

// extractTextContent concatenates all TextContent items in a tool result.
// Non-text content (images, embedded resources) is skipped — the code-map
// generator tool never returns those.
func extractTextContent(result *mcpsdk.CallToolResult) string {
	var parts []string
	for _, item := range result.Content {
		if tc, ok := item.(*mcpsdk.TextContent); ok {
			parts = append(parts, tc.Text)
		}
	}
	return strings.Join(parts, "\n")
}

// checkToolError surfaces a tool-level failure (result.IsError) as a Go
// error so callers don't have to special-case a successful RPC that carries
// a failed tool invocation.
func checkToolError(result *mcpsdk.CallToolResult) error {
	if result.IsError {
		return fmt.Errorf("mcp tool returned an error result: %s", extractTextContent(result))
	}
	return nil
}
