package config

// TransportType selects how the Code-Map Provider's external generator is
// reached.
type TransportType string

const (
	TransportTypeStdio TransportType = "stdio"
	TransportTypeHTTP TransportType = "http"
	TransportTypeSSE TransportType = "sse"
)

func (t TransportType) IsValid() bool {
	switch t {
	case TransportTypeStdio, TransportTypeHTTP, TransportTypeSSE:
		return true
	default:
		return false
	}
}

// TransportConfig configures the MCP transport used to reach the code-map
// generator tool.
type TransportConfig struct {
	Type TransportType `yaml:"type"`

	// For stdio transport.
	Command string `yaml:"command,omitempty"`
	Args []string `yaml:"args,omitempty"`

	// For http/sse transport.
	URL string `yaml:"url,omitempty"`
	BearerToken string `yaml:"bearer_token,omitempty"`
	VerifySSL *bool `yaml:"verify_ssl,omitempty"`
	Timeout int `yaml:"timeout,omitempty"` // seconds
}

// MCPServerConfig is the single MCP server this module talks to: the code
// map generator invoked by pkg/codemap's Generator collaborator.
type MCPServerConfig struct {
	Transport TransportConfig `yaml:"transport"`
	ToolName string `yaml:"tool_name,omitempty"`
}
