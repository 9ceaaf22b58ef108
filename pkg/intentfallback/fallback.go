// Package intentfallback is the LLM-backed intent recognizer invoked when
// the pattern engine's best match falls below minPatternConfidence.
package intentfallback

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/forgeflow-dev/taskforge/pkg/coreerrors"
	"github.com/forgeflow-dev/taskforge/pkg/llmgateway"
	"github.com/forgeflow-dev/taskforge/pkg/model"
)

// MinPatternConfidence is the threshold below which the pattern engine's
// best match triggers this fallback.
const MinPatternConfidence = 0.7

// FallbackConfidenceCap is the ceiling applied to rewritten-to-unknown
// results.
const FallbackConfidenceCap = 0.3

// systemPromptTemplate is the stored template for the fallback's system
// prompt.
const systemPromptTemplate = `You are the intent classifier for a software task management system.
Given a user's natural-language request, respond with a single JSON object:
{"intent": string, "confidence": number, "parameters": object, "context": object, "alternatives": [...], "clarifications_needed": [...]}
"intent" must be one of the supported intents, or "unknown" if none apply.`

// Result is the raw parsed JSON response shape this step describes, before
// rewriting to model.IntentRecognitionResult.
type Result struct {
	Intent model.Intent `json:"intent"`
	Confidence float64 `json:"confidence"`
	Parameters map[string]any `json:"parameters"`
	Context map[string]any `json:"context,omitempty"`
	Alternatives []model.AlternativeIntent `json:"alternatives,omitempty"`
	ClarificationsNeeded []string `json:"clarifications_needed,omitempty"`
	ModelUsed string `json:"-"`
	ProcessingTime time.Duration `json:"-"`
}

// Gateway is the subset of llmgateway.Gateway this package depends on.
type Gateway interface {
	Call(ctx context.Context, req llmgateway.Request) (string, error)
}

// Fallback wraps the LLM Gateway with a caching layer, a fixed system
// prompt, and a rewrite pass over low-confidence results.
type Fallback struct {
	gateway Gateway
	cache *lruCache
}

// New builds a Fallback. cacheSize <= 0 uses DefaultCacheSize; ttl <= 0
// uses DefaultTTL.
func New(gateway Gateway, cacheSize int, ttl time.Duration) *Fallback {
	return &Fallback{gateway: gateway, cache: newLRUCache(cacheSize, ttl)}
}

func normalize(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

// Recognize runs the cache-lookup, prompt, call, parse, rewrite, and
// cache-store sequence described above.
func (f *Fallback) Recognize(ctx context.Context, text string, contextData map[string]any) (*model.IntentRecognitionResult, error) {
	key := normalize(text)
	if cached, ok := f.cache.get(key); ok {
		return toRecognitionResult(text, key, cached), nil
	}

	userPrompt := buildUserPrompt(text, contextData)
	start := time.Now()

	temperature := 0.1
	raw, err := f.gateway.Call(ctx, llmgateway.Request{
		TaskName: "intent_fallback",
		SystemPrompt: systemPromptTemplate,
		UserPrompt: userPrompt,
		Format: llmgateway.FormatJSON,
		Temperature: &temperature,
		Schema: map[string]any{
			"intent": nil,
			"confidence": nil,
		},
	})
	if err != nil {
		return nil, coreerrors.Wrap("intentfallback", coreerrors.KindOf(err), "LLM intent fallback call failed", err)
	}

	var parsed Result
	if jsonErr := json.Unmarshal([]byte(raw), &parsed); jsonErr != nil {
		return nil, coreerrors.Wrap("intentfallback", coreerrors.KindInvalidModelOutput, "fallback model output is not valid JSON", jsonErr)
	}
	parsed.ProcessingTime = time.Since(start)

	rewriteIfUnrecognized(&parsed)

	f.cache.put(key, parsed)
	return toRecognitionResult(text, key, parsed), nil
}

func buildUserPrompt(text string, contextData map[string]any) string {
	var b strings.Builder
	b.WriteString("User input: \"")
	b.WriteString(text)
	b.WriteString("\"\n")
	if len(contextData) > 0 {
		b.WriteString("Context:\n")
		encoded, err := json.Marshal(contextData)
		if err == nil {
			b.Write(encoded)
		}
	}
	return b.String()
}

// unrecognizedIntents are the extra sentinel values this step names
// alongside membership in the closed set.
var unrecognizedIntents = map[model.Intent]bool{
	"unrecognized_intent": true,
	model.IntentClarificationNeeded: true,
}

// rewriteIfUnrecognized implements this step: an intent outside the closed
// set, or explicitly unrecognized/clarification_needed, becomes unknown with
// confidence capped at 0.3.
func rewriteIfUnrecognized(r *Result) {
	if !r.Intent.IsValid() || unrecognizedIntents[r.Intent] {
		r.Intent = model.IntentUnknown
		if r.Confidence > FallbackConfidenceCap {
			r.Confidence = FallbackConfidenceCap
		}
	}
}

func toRecognitionResult(originalText, processedText string, r Result) *model.IntentRecognitionResult {
	result := model.NewIntentRecognitionResult(r.Intent, r.Confidence, originalText, processedText, model.IntentMethodLLM)
	result.Entities = entitiesFromParameters(r.Parameters)
	result.Alternatives = r.Alternatives
	result.Metadata.ModelUsed = r.ModelUsed
	result.Metadata.ProcessingTime = r.ProcessingTime
	return result
}

// entitiesFromParameters flattens the LLM's parameters object into an
// entity list with default entity-confidence 0.8.
func entitiesFromParameters(parameters map[string]any) []model.Entity {
	if len(parameters) == 0 {
		return nil
	}
	entities := make([]model.Entity, 0, len(parameters))
	for name, value := range parameters {
		entities = append(entities, model.Entity{
			Type: name,
			Value: stringifyParameter(value),
			Confidence: 0.8,
		})
	}
	return entities
}

func stringifyParameter(value any) string {
	switch v := value.(type) {
	case string:
		return v
	default:
		encoded, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(encoded)
	}
}
