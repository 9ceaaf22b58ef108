package mcp

import (
	"context"
	"encoding/json"
	"testing"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var emptySchema = json.RawMessage(`{"type":"object"}`)

// testMCPServer holds an in-memory MCP server and its transport pair.
type testMCPServer struct {
	server          *mcpsdk.Server
	clientTransport *mcpsdk.InMemoryTransport
}

func startTestServer(t *testing.T, tools map[string]mcpsdk.ToolHandler) *testMCPServer {
	t.Helper()

	server := mcpsdk.NewServer(&mcpsdk.Implementation{Name: "test-server", Version: "test"}, nil)
	for name, handler := range tools {
		server.AddTool(&mcpsdk.Tool{Name: name, Description: "test tool: " + name, InputSchema: emptySchema}, handler)
	}

	clientTransport, serverTransport := mcpsdk.NewInMemoryTransports()
	go func() { _ = server.Run(context.Background(), serverTransport) }()

	return &testMCPServer{server: server, clientTransport: clientTransport}
}

// connectClientDirect wires a Client directly to an in-memory transport,
// bypassing createTransport/Connect for unit testing CallTool itself.
func connectClientDirect(t *testing.T, transport *mcpsdk.InMemoryTransport) *Client {
	t.Helper()
	ctx := context.Background()

	client := New()
	sdkClient := mcpsdk.NewClient(&mcpsdk.Implementation{Name: "taskforge-test", Version: "test"}, nil)

	session, err := sdkClient.Connect(ctx, transport, nil)
	require.NoError(t, err)

	client.mu.Lock()
	client.session = session
	client.client = sdkClient
	client.mu.Unlock()

	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestClientCallToolReturnsConcatenatedText(t *testing.T) {
	ts := startTestServer(t, map[string]mcpsdk.ToolHandler{
		"generate_code_map": func(_ context.Context, _ *mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
			return &mcpsdk.CallToolResult{
				Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: "# repo map"}},
			}, nil
		},
	})

	client := connectClientDirect(t, ts.clientTransport)

	text, err := client.CallTool(context.Background(), "generate_code_map", map[string]any{"path": "."})
	require.NoError(t, err)
	assert.Equal(t, "# repo map", text)
}

func TestClientCallToolSurfacesToolLevelError(t *testing.T) {
	ts := startTestServer(t, map[string]mcpsdk.ToolHandler{
		"bad_tool": func(_ context.Context, _ *mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
			return &mcpsdk.CallToolResult{
				Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: "invalid path"}},
				IsError: true,
			}, nil
		},
	})

	client := connectClientDirect(t, ts.clientTransport)

	_, err := client.CallTool(context.Background(), "bad_tool", nil)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid path")
}

func TestClientCallToolWithoutConnectionFails(t *testing.T) {
	client := New()

	_, err := client.CallTool(context.Background(), "anything", nil)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not connected")
}

func TestClientCloseClearsSession(t *testing.T) {
	ts := startTestServer(t, map[string]mcpsdk.ToolHandler{
		"ping": func(_ context.Context, _ *mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
			return &mcpsdk.CallToolResult{Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: "pong"}}}, nil
		},
	})

	client := connectClientDirect(t, ts.clientTransport)
	require.NoError(t, client.Close())

	_, err := client.CallTool(context.Background(), "ping", nil)
	assert.Error(t, err)
}
