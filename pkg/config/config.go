package config

// Config is the umbrella configuration object that encapsulates all
// registries, defaults, and configuration state. This is the primary object
// returned by Initialize() and used throughout the application.
type Config struct {
	configDir string // Configuration directory path (for reference)

	Defaults            *Defaults
	LLMProviderRegistry *LLMProviderRegistry
	IntentPatterns      *IntentPatternConfig
	Decomposition       *DecompositionConfig
	Curation            *CurationConfig
	Queue               *QueueConfig
	Output              *OutputConfig
	MCPServer           *MCPServerConfig
}

// Initialize is defined in loader.go

// ConfigStats contains statistics about loaded configuration
type ConfigStats struct {
	LLMProviders int
	IntentTypes  int
}

// Stats returns configuration statistics for logging/monitoring
func (c *Config) Stats() ConfigStats {
	return ConfigStats{
		LLMProviders: len(c.LLMProviderRegistry.GetAll()),
		IntentTypes:  len(c.IntentPatterns.Patterns),
	}
}

// ConfigDir returns the configuration directory path
func (c *Config) ConfigDir() string {
	return c.configDir
}

// GetLLMProvider retrieves an LLM provider configuration by name.
// This is a convenience method that wraps LLMProviderRegistry.Get().
func (c *Config) GetLLMProvider(name string) (*LLMProviderConfig, error) {
	return c.LLMProviderRegistry.Get(name)
}

// LLMProviderForTask resolves the provider configured for a gateway task
// name, falling back to Defaults.LLMProvider when unmapped.
func (c *Config) LLMProviderForTask(task string) (*LLMProviderConfig, error) {
	return c.LLMProviderRegistry.ForTask(task, c.Defaults.LLMProvider)
}

// LLMProviderNameForTask resolves just the provider name configured for a
// gateway task, falling back to Defaults.LLMProvider when unmapped.
func (c *Config) LLMProviderNameForTask(task string) (string, error) {
	return c.LLMProviderRegistry.NameForTask(task, c.Defaults.LLMProvider)
}
