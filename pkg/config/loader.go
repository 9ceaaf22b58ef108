package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"dario.cat/mergo"
	"gopkg.in/yaml.v3"
)

// TaskforgeYAMLConfig represents the complete taskforge.yaml file structure.
type TaskforgeYAMLConfig struct {
	Defaults      *Defaults            `yaml:"defaults"`
	IntentPattern map[string][]string  `yaml:"intent_patterns"`
	Intent        *IntentPatternConfig `yaml:"intent"`
	Decomposition *DecompositionConfig `yaml:"decomposition"`
	Curation      *CurationConfig      `yaml:"curation"`
	Queue         *QueueConfig         `yaml:"queue"`
	Output        *OutputConfig        `yaml:"output"`
	MCPServer     *MCPServerConfig     `yaml:"mcp_server"`
}

// LLMProvidersYAMLConfig represents the complete llm-providers.yaml file structure.
type LLMProvidersYAMLConfig struct {
	LLMProviders map[string]LLMProviderConfig `yaml:"llm_providers"`
	TaskModel    TaskModelMap                 `yaml:"task_model"`
}

// Initialize loads, validates, and returns ready-to-use configuration.
// This is the primary entry point for configuration loading.
//
// Steps performed:
//  1. Load YAML files from configDir
//  2. Expand environment variables
//  3. Parse YAML into structs
//  4. Merge built-in + user-defined configurations
//  5. Build in-memory registries
//  6. Apply default values
//  7. Validate all configuration
//  8. Return Config ready for use
func Initialize(ctx context.Context, configDir string) (*Config, error) {
	log := slog.With("config_dir", configDir)
	log.Info("Initializing configuration")

	cfg, err := load(ctx, configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	stats := cfg.Stats()
	log.Info("Configuration initialized successfully",
		"llm_providers", stats.LLMProviders,
		"intent_types", stats.IntentTypes)

	return cfg, nil
}

// load is the internal loader (not exported)
func load(_ context.Context, configDir string) (*Config, error) {
	loader := &configLoader{configDir: configDir}

	taskforgeConfig, err := loader.loadTaskforgeYAML()
	if err != nil {
		return nil, NewLoadError("taskforge.yaml", err)
	}

	llmConfig, err := loader.loadLLMProvidersYAML()
	if err != nil {
		return nil, NewLoadError("llm-providers.yaml", err)
	}

	builtin := GetBuiltinConfig()

	llmProvidersMerged := mergeLLMProviders(builtin.LLMProviders, llmConfig.LLMProviders)
	taskModelMerged := mergeTaskModelMap(builtin.TaskModel, llmConfig.TaskModel)
	llmProviderRegistry := NewLLMProviderRegistry(llmProvidersMerged, taskModelMerged)

	intentPatterns := mergeIntentPatterns(builtin.IntentPattern, taskforgeConfig.IntentPattern)

	intentCfg := taskforgeConfig.Intent
	if intentCfg == nil {
		intentCfg = &IntentPatternConfig{}
	}
	intentCfg.Patterns = intentPatterns
	if intentCfg.ConfidenceThreshold == 0 {
		intentCfg.ConfidenceThreshold = 0.7
	}
	if intentCfg.FallbackConfidenceThreshold == 0 {
		intentCfg.FallbackConfidenceThreshold = 0.5
	}
	if intentCfg.FallbackCacheSize == 0 {
		intentCfg.FallbackCacheSize = 512
	}

	decompositionCfg := DefaultDecompositionConfig()
	if taskforgeConfig.Decomposition != nil {
		if err := mergo.Merge(decompositionCfg, taskforgeConfig.Decomposition, mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("failed to merge decomposition config: %w", err)
		}
	}

	curationCfg := DefaultCurationConfig()
	if taskforgeConfig.Curation != nil {
		if err := mergo.Merge(curationCfg, taskforgeConfig.Curation, mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("failed to merge curation config: %w", err)
		}
	}

	queueCfg := DefaultQueueConfig()
	if taskforgeConfig.Queue != nil {
		if err := mergo.Merge(queueCfg, taskforgeConfig.Queue, mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("failed to merge queue config: %w", err)
		}
	}

	outputCfg := taskforgeConfig.Output
	if outputCfg == nil {
		outputCfg = &OutputConfig{}
	}
	if outputCfg.Dir == "" {
		outputCfg.Dir = envOr("OUTPUT_DIR", "./output")
	}
	if outputCfg.AllowedProjectRoot == "" {
		outputCfg.AllowedProjectRoot = envOr("ALLOWED_PROJECT_ROOT", ".")
	}

	mcpServerCfg := taskforgeConfig.MCPServer
	if mcpServerCfg == nil {
		builtinMCP := builtin.MCPServer
		mcpServerCfg = &builtinMCP
	}

	defaults := taskforgeConfig.Defaults
	if defaults == nil {
		defaults = &Defaults{}
	}
	if defaults.LLMProvider == "" {
		defaults.LLMProvider = "openai-default"
	}
	if defaults.FallbackIntent == "" {
		defaults.FallbackIntent = "get_help"
	}
	if defaults.DefaultTaskPriority == "" {
		defaults.DefaultTaskPriority = "medium"
	}

	return &Config{
		configDir:           configDir,
		Defaults:            defaults,
		LLMProviderRegistry: llmProviderRegistry,
		IntentPatterns:      intentCfg,
		Decomposition:       decompositionCfg,
		Curation:            curationCfg,
		Queue:               queueCfg,
		Output:              outputCfg,
		MCPServer:           mcpServerCfg,
	}, nil
}

// validate performs comprehensive validation on loaded configuration
func validate(cfg *Config) error {
	validator := NewValidator(cfg)
	return validator.ValidateAll()
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

type configLoader struct {
	configDir string
}

func (l *configLoader) loadYAML(filename string, target any) error {
	path := filepath.Join(l.configDir, filename)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return err
	}

	// Expand ${VAR} and $VAR references from the environment; unset
	// variables expand to the empty string.
	data = ExpandEnv(data)

	if err := yaml.Unmarshal(data, target); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidYAML, err)
	}

	return nil
}

func (l *configLoader) loadTaskforgeYAML() (*TaskforgeYAMLConfig, error) {
	var cfg TaskforgeYAMLConfig
	cfg.IntentPattern = make(map[string][]string)

	if err := l.loadYAML("taskforge.yaml", &cfg); err != nil {
		if IsNotFound(err) {
			return &cfg, nil
		}
		return nil, err
	}

	return &cfg, nil
}

func (l *configLoader) loadLLMProvidersYAML() (*LLMProvidersYAMLConfig, error) {
	var cfg LLMProvidersYAMLConfig
	cfg.LLMProviders = make(map[string]LLMProviderConfig)
	cfg.TaskModel = make(TaskModelMap)

	if err := l.loadYAML("llm-providers.yaml", &cfg); err != nil {
		if IsNotFound(err) {
			return &cfg, nil
		}
		return nil, err
	}

	return &cfg, nil
}
