// Package llmgateway is the single outbound choke point for model calls:
// task→model routing, per-call timeout, bounded concurrency, retry with
// exponential back-off, and JSON/format enforcement.
package llmgateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/sync/semaphore"

	"github.com/forgeflow-dev/taskforge/pkg/coreerrors"
)

// Format selects how the gateway parses the provider's response.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// ProviderResolver looks up the model/provider configuration that should
// serve a given gateway task name, falling back to a deployment default.
// Implemented in production by cmd/taskforged's configResolver, which adapts
// config.Config.LLMProviderForTask.
type ProviderResolver interface {
	LLMProviderForTask(task string) (ProviderConfig, error)
}

// ProviderConfig is the subset of a provider's configuration the gateway
// needs to make a call — decoupled from pkg/config so this package has no
// import-cycle dependency on it.
type ProviderConfig struct {
	Name string
	Model string
	Temperature float64
	Timeout time.Duration
	MaxConcurrentCalls int
}

// Request is a single model invocation.
type Request struct {
	UserPrompt string
	SystemPrompt string
	TaskName string
	Format Format
	Schema map[string]any // optional JSON-schema-shaped field/type map
	Temperature *float64 // overrides the provider's default when set
}

// Provider is the external collaborator that performs the literal
// model call.
type Provider interface {
	Invoke(ctx context.Context, cfg ProviderConfig, systemPrompt, userPrompt string, temperature float64, jsonMode bool) (string, error)
}

const (
	// DefaultTimeout is the per-call deadline.
	DefaultTimeout = 30 * time.Second
	// DefaultGlobalConcurrency is the gateway-wide in-flight call cap.
	DefaultGlobalConcurrency = 8
	// DefaultMaxRetries is the number of retry attempts after the initial
	// failure.
	DefaultMaxRetries = 2
	// BackoffInitialInterval and BackoffMaxInterval bound the exponential
	// back-off.
	BackoffInitialInterval = 1 * time.Second
	BackoffMaxInterval = 4 * time.Second
)

// Gateway is the process-wide singleton all components call into for model
// invocations.
type Gateway struct {
	resolver ProviderResolver
	provider Provider

	timeout time.Duration
	maxRetries uint64

	global *semaphore.Weighted

	taskSemMu sync.Mutex
	taskSem map[string]*semaphore.Weighted

	logger *slog.Logger
}

// Option configures a Gateway at construction time.
type Option func(*Gateway)

// WithTimeout overrides DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(g *Gateway) { g.timeout = d }
}

// WithGlobalConcurrency overrides DefaultGlobalConcurrency.
func WithGlobalConcurrency(n int64) Option {
	return func(g *Gateway) { g.global = semaphore.NewWeighted(n) }
}

// WithMaxRetries overrides DefaultMaxRetries.
func WithMaxRetries(n uint64) Option {
	return func(g *Gateway) { g.maxRetries = n }
}

// WithLogger overrides the default slog logger.
func WithLogger(l *slog.Logger) Option {
	return func(g *Gateway) { g.logger = l }
}

// New builds a Gateway. resolver maps task names to provider configuration;
// provider performs the literal outbound call.
func New(resolver ProviderResolver, provider Provider, opts ...Option) *Gateway {
	g := &Gateway{
		resolver: resolver,
		provider: provider,
		timeout: DefaultTimeout,
		maxRetries: DefaultMaxRetries,
		global: semaphore.NewWeighted(DefaultGlobalConcurrency),
		taskSem: make(map[string]*semaphore.Weighted),
		logger: slog.Default().With("component", "llmgateway"),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// taskSemaphore returns (building lazily if necessary) the per-task-name
// semaphore that prevents bulk scoring calls from head-of-line-blocking
// critical tasks.
func (g *Gateway) taskSemaphore(taskName string, maxConcurrent int) *semaphore.Weighted {
	g.taskSemMu.Lock()
	defer g.taskSemMu.Unlock()

	if sem, ok := g.taskSem[taskName]; ok {
		return sem
	}
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultGlobalConcurrency
	}
	sem := semaphore.NewWeighted(int64(maxConcurrent))
	g.taskSem[taskName] = sem
	return sem
}

var jsonFenceRE = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)\\s*```")

// stripJSONFence strips a single leading/trailing markdown code fence.
func stripJSONFence(s string) string {
	s = strings.TrimSpace(s)
	if m := jsonFenceRE.FindStringSubmatch(s); m != nil {
		return strings.TrimSpace(m[1])
	}
	return s
}

// validateSchema checks that every key named in schema is present in the
// parsed object. It is intentionally shallow: presence-checking against the
// supplied schema, not a full JSON-schema
// implementation.
func validateSchema(parsed map[string]any, schema map[string]any) error {
	for key := range schema {
		if _, ok := parsed[key]; !ok {
			return fmt.Errorf("missing required field %q", key)
		}
	}
	return nil
}

// Call performs a single model invocation per its contract.
func (g *Gateway) Call(ctx context.Context, req Request) (string, error) {
	providerCfg, err := g.resolver.LLMProviderForTask(req.TaskName)
	if err != nil {
		return "", coreerrors.Wrap("llmgateway", coreerrors.KindInvalidInput, "no model mapped for task "+req.TaskName, err)
	}

	temperature := providerCfg.Temperature
	if req.Temperature != nil {
		temperature = *req.Temperature
	}

	timeout := g.timeout
	if providerCfg.Timeout > 0 {
		timeout = providerCfg.Timeout
	}

	if err := g.global.Acquire(ctx, 1); err != nil {
		return "", coreerrors.Wrap("llmgateway", coreerrors.KindCancelled, "acquiring global concurrency slot", err)
	}
	defer g.global.Release(1)

	taskSem := g.taskSemaphore(req.TaskName, providerCfg.MaxConcurrentCalls)
	if err := taskSem.Acquire(ctx, 1); err != nil {
		return "", coreerrors.Wrap("llmgateway", coreerrors.KindCancelled, "acquiring task concurrency slot", err)
	}
	defer taskSem.Release(1)

	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	jsonMode := req.Format == FormatJSON

	var raw string
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = BackoffInitialInterval
	bo.MaxInterval = BackoffMaxInterval
	retryable := backoff.WithMaxRetries(bo, g.maxRetries)

	operation := func() error {
		out, callErr := g.provider.Invoke(callCtx, ProviderConfig{
			Name: providerCfg.Name,
			Model: providerCfg.Model,
			Temperature: temperature,
		}, req.SystemPrompt, req.UserPrompt, temperature, jsonMode)
		if callErr != nil {
			if !isRetryable(callErr) {
				return backoff.Permanent(callErr)
			}
			return callErr
		}
		raw = out
		return nil
	}

	if err := backoff.Retry(operation, backoff.WithContext(retryable, callCtx)); err != nil {
		return "", classifyFailure(req.TaskName, err)
	}

	if !jsonMode {
		return raw, nil
	}

	stripped := stripJSONFence(raw)
	var parsed map[string]any
	if jsonErr := json.Unmarshal([]byte(stripped), &parsed); jsonErr != nil {
		return "", coreerrors.Wrap("llmgateway", coreerrors.KindInvalidModelOutput, "model output is not valid JSON", jsonErr)
	}
	if req.Schema != nil {
		if schemaErr := validateSchema(parsed, req.Schema); schemaErr != nil {
			return "", coreerrors.Wrap("llmgateway", coreerrors.KindSchemaViolation, "model output violates schema", schemaErr)
		}
	}
	normalized, err := json.Marshal(parsed)
	if err != nil {
		return "", coreerrors.Wrap("llmgateway", coreerrors.KindInternal, "re-serializing normalized model output", err)
	}
	return string(normalized), nil
}

// isRetryable classifies a transport error the way pkg/mcp/recovery.go's
// ClassifyError does: context errors never retry, connection-level errors
// do.
func isRetryable(err error) bool {
	if err == nil {
		return false
	}
	switch {
	case isContextErr(err):
		return false
	case isConnectionError(err):
		return true
	default:
		return false
	}
}

func isContextErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func isConnectionError(err error) bool {
	msg := strings.ToLower(err.Error())
	for _, needle := range []string{
		"connection refused", "connection reset", "broken pipe",
		"connection closed", "no such host", "eof",
	} {
		if strings.Contains(msg, needle) {
			return true
		}
	}
	return false
}

// classifyFailure maps an exhausted-retry error to a failure kind:
// provider_unavailable (all retries exhausted) or timeout.
func classifyFailure(taskName string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return coreerrors.Wrap("llmgateway", coreerrors.KindTimeout, "task "+taskName+" timed out", err)
	}
	return coreerrors.Wrap("llmgateway", coreerrors.KindProviderUnavailable, "all retries exhausted for task "+taskName, err)
}
