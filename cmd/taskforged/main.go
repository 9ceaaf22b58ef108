// Command taskforged is the composition root for the context-curation
// engine: it loads configuration, wires every component, and serves the
// HTTP surface described in the external interface contract.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/forgeflow-dev/taskforge/pkg/api"
	"github.com/forgeflow-dev/taskforge/pkg/codemap"
	"github.com/forgeflow-dev/taskforge/pkg/config"
	"github.com/forgeflow-dev/taskforge/pkg/curator"
	"github.com/forgeflow-dev/taskforge/pkg/decompose"
	"github.com/forgeflow-dev/taskforge/pkg/dispatch"
	"github.com/forgeflow-dev/taskforge/pkg/intent"
	"github.com/forgeflow-dev/taskforge/pkg/intentfallback"
	"github.com/forgeflow-dev/taskforge/pkg/llmgateway"
	"github.com/forgeflow-dev/taskforge/pkg/mcp"
)

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	configDir := flag.String("config-dir",
		getEnv("CONFIG_DIR", "./deploy/config"),
		"Path to configuration directory")
	flag.Parse()

	envPath := filepath.Join(*configDir, ".env")
	if err := godotenv.Load(envPath); err != nil {
		log.Printf("could not load %s: %v; continuing with the existing environment", envPath, err)
	} else {
		log.Printf("loaded environment from %s", envPath)
	}

	httpAddr := ":" + getEnv("HTTP_PORT", "8080")
	gin.SetMode(getEnv("GIN_MODE", "release"))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Initialize(ctx, *configDir)
	if err != nil {
		log.Fatalf("failed to initialize configuration: %v", err)
	}
	stats := cfg.Stats()
	log.Printf("configuration loaded: %d LLM providers, %d intent types", stats.LLMProviders, stats.IntentTypes)

	gateway := buildGateway(cfg)

	codemapProvider := buildCodemapProvider(ctx, cfg)

	fallback := intentfallback.New(gateway, cfg.IntentPatterns.FallbackCacheSize, 0)
	patterns, err := intent.FromConfig(cfg.IntentPatterns.Patterns)
	if err != nil {
		log.Fatalf("failed to compile intent patterns: %v", err)
	}
	intentEngine := intent.New(patterns)
	intentEngine.MinConfidence = cfg.IntentPatterns.ConfidenceThreshold

	epicResolver := decompose.StaticEpicResolver{EpicID: "epic-default"}
	decomposeManager := decompose.NewManager(gateway, epicResolver, cfg.Decomposition.MaxConcurrentSplits)

	registry := dispatch.NewRegistry()
	registerHandlers(registry, decomposeManager)
	router := &intentRouter{
		patterns:   intentEngine,
		fallback:   fallback,
		threshold:  cfg.IntentPatterns.ConfidenceThreshold,
		dispatcher: dispatch.New(registry),
	}

	pipeline := curator.NewPipeline(
		gateway,
		codemapProvider,
		curator.OSFileReader{},
		curator.DefaultWriter{},
		cfg.Output.Dir,
		cfg.Output.AllowedProjectRoot,
	)
	jobs := curator.NewJobManager(pipeline)

	server := api.NewServer(cfg, jobs, router)

	log.Printf("HTTP server listening on %s", httpAddr)
	if err := server.Start(ctx, httpAddr); err != nil {
		log.Fatalf("HTTP server stopped: %v", err)
	}
}

// buildGateway wires the LLM Gateway singleton: one RoutingProvider holding
// one HTTPProvider per configured provider, resolved per gateway task via
// configResolver.
func buildGateway(cfg *config.Config) *llmgateway.Gateway {
	routing := buildRoutingProvider(cfg)
	return llmgateway.New(
		configResolver{cfg: cfg},
		routing,
		llmgateway.WithLogger(slog.Default().With("component", "llmgateway")),
	)
}

// buildCodemapProvider connects to the configured MCP server and wraps it
// as the code-map generator collaborator.
func buildCodemapProvider(ctx context.Context, cfg *config.Config) *codemap.Provider {
	client := mcp.New()
	if err := client.Connect(ctx, *cfg.MCPServer); err != nil {
		log.Fatalf("failed to connect to MCP code-map server: %v", err)
	}
	return codemap.New(cfg.Output.Dir, client)
}
