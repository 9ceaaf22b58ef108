package llmgateway

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeResolver struct {
	cfg ProviderConfig
	err error
}

func (f *fakeResolver) LLMProviderForTask(task string) (ProviderConfig, error) {
	return f.cfg, f.err
}

type fakeProvider struct {
	calls   int32
	invoke  func(callNum int32) (string, error)
}

func (f *fakeProvider) Invoke(ctx context.Context, cfg ProviderConfig, systemPrompt, userPrompt string, temperature float64, jsonMode bool) (string, error) {
	n := atomic.AddInt32(&f.calls, 1)
	out, err := f.invoke(n)
	if err != nil {
		return out, err
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return "", ctxErr
	}
	return out, nil
}

func TestCallTextFormat(t *testing.T) {
	resolver := &fakeResolver{cfg: ProviderConfig{Name: "p", Model: "m"}}
	provider := &fakeProvider{invoke: func(n int32) (string, error) { return "hello", nil }}
	gw := New(resolver, provider)

	out, err := gw.Call(context.Background(), Request{TaskName: "t", Format: FormatText})
	require.NoError(t, err)
	assert.Equal(t, "hello", out)
}

func TestCallJSONFormatStripsFence(t *testing.T) {
	resolver := &fakeResolver{cfg: ProviderConfig{Name: "p", Model: "m"}}
	provider := &fakeProvider{invoke: func(n int32) (string, error) {
		return "```json\n{\"intent\": \"fix_bug\"}\n```", nil
	}}
	gw := New(resolver, provider)

	out, err := gw.Call(context.Background(), Request{TaskName: "t", Format: FormatJSON})
	require.NoError(t, err)
	assert.JSONEq(t, `{"intent":"fix_bug"}`, out)
}

func TestCallJSONFormatInvalidOutput(t *testing.T) {
	resolver := &fakeResolver{cfg: ProviderConfig{Name: "p", Model: "m"}}
	provider := &fakeProvider{invoke: func(n int32) (string, error) { return "not json", nil }}
	gw := New(resolver, provider)

	_, err := gw.Call(context.Background(), Request{TaskName: "t", Format: FormatJSON})
	require.Error(t, err)
}

func TestCallJSONFormatSchemaViolation(t *testing.T) {
	resolver := &fakeResolver{cfg: ProviderConfig{Name: "p", Model: "m"}}
	provider := &fakeProvider{invoke: func(n int32) (string, error) { return `{"foo":"bar"}`, nil }}
	gw := New(resolver, provider)

	_, err := gw.Call(context.Background(), Request{
		TaskName: "t",
		Format:   FormatJSON,
		Schema:   map[string]any{"intent": nil},
	})
	require.Error(t, err)
}

func TestCallRetriesOnConnectionError(t *testing.T) {
	resolver := &fakeResolver{cfg: ProviderConfig{Name: "p", Model: "m"}}
	provider := &fakeProvider{invoke: func(n int32) (string, error) {
		if n < 2 {
			return "", errors.New("connection reset")
		}
		return "recovered", nil
	}}
	gw := New(resolver, provider, WithMaxRetries(3))

	out, err := gw.Call(context.Background(), Request{TaskName: "t", Format: FormatText})
	require.NoError(t, err)
	assert.Equal(t, "recovered", out)
	assert.Equal(t, int32(2), provider.calls)
}

func TestCallProviderUnavailableAfterRetriesExhausted(t *testing.T) {
	resolver := &fakeResolver{cfg: ProviderConfig{Name: "p", Model: "m"}}
	provider := &fakeProvider{invoke: func(n int32) (string, error) {
		return "", errors.New("connection refused")
	}}
	gw := New(resolver, provider, WithMaxRetries(1))

	_, err := gw.Call(context.Background(), Request{TaskName: "t", Format: FormatText})
	require.Error(t, err)
	assert.GreaterOrEqual(t, provider.calls, int32(2))
}

func TestCallDoesNotRetryContextDeadline(t *testing.T) {
	resolver := &fakeResolver{cfg: ProviderConfig{Name: "p", Model: "m"}}
	provider := &fakeProvider{invoke: func(n int32) (string, error) {
		return "", context.DeadlineExceeded
	}}
	gw := New(resolver, provider, WithMaxRetries(5))

	_, err := gw.Call(context.Background(), Request{TaskName: "t", Format: FormatText})
	require.Error(t, err)
	assert.Equal(t, int32(1), provider.calls)
}

func TestStripJSONFence(t *testing.T) {
	assert.Equal(t, `{"a":1}`, stripJSONFence("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripJSONFence(`{"a":1}`))
}

func TestTaskSemaphoreReusesPerTaskName(t *testing.T) {
	gw := New(&fakeResolver{}, &fakeProvider{})
	a := gw.taskSemaphore("decompose_task", 2)
	b := gw.taskSemaphore("decompose_task", 2)
	assert.Same(t, a, b)

	c := gw.taskSemaphore("score_relevance", 2)
	assert.NotSame(t, a, c)
}

func TestCallRespectsTimeout(t *testing.T) {
	resolver := &fakeResolver{cfg: ProviderConfig{Name: "p", Model: "m", Timeout: 10 * time.Millisecond}}
	provider := &fakeProvider{invoke: func(n int32) (string, error) {
		time.Sleep(50 * time.Millisecond)
		return "too slow", nil
	}}
	gw := New(resolver, provider, WithMaxRetries(0))

	_, err := gw.Call(context.Background(), Request{TaskName: "t", Format: FormatText})
	require.Error(t, err)
}
