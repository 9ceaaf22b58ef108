package config

// LLMProviderType defines supported LLM providers for the gateway's model pool.
type LLMProviderType string

const (
	// LLMProviderTypeOpenAI is the OpenAI chat-completions API
	LLMProviderTypeOpenAI LLMProviderType = "openai"
	// LLMProviderTypeAnthropic is the Anthropic messages API
	LLMProviderTypeAnthropic LLMProviderType = "anthropic"
	// LLMProviderTypeAzure is Azure OpenAI
	LLMProviderTypeAzure LLMProviderType = "azure"
	// LLMProviderTypeLocal is any OpenAI-compatible local/self-hosted endpoint
	LLMProviderTypeLocal LLMProviderType = "local"
)

// IsValid checks if the LLM provider type is valid.
func (t LLMProviderType) IsValid() bool {
	switch t {
	case LLMProviderTypeOpenAI, LLMProviderTypeAnthropic, LLMProviderTypeAzure, LLMProviderTypeLocal:
		return true
	default:
		return false
	}
}

// DiscoveryStrategy names one of the curation pipeline's Phase 4 file
// discovery strategies. Operators can disable strategies that are too
// expensive or unavailable in a given deployment (e.g. semantic search with
// no embeddings index built).
type DiscoveryStrategy string

const (
	DiscoveryStrategyKeyword   DiscoveryStrategy = "keyword"
	DiscoveryStrategyImport    DiscoveryStrategy = "import_graph"
	DiscoveryStrategySemantic  DiscoveryStrategy = "semantic"
	DiscoveryStrategyStructure DiscoveryStrategy = "structure"
)

// IsValid checks if the discovery strategy is valid.
func (s DiscoveryStrategy) IsValid() bool {
	switch s {
	case DiscoveryStrategyKeyword, DiscoveryStrategyImport, DiscoveryStrategySemantic, DiscoveryStrategyStructure:
		return true
	default:
		return false
	}
}
