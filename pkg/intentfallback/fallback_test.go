package intentfallback

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgeflow-dev/taskforge/pkg/llmgateway"
	"github.com/forgeflow-dev/taskforge/pkg/model"
)

type fakeGateway struct {
	calls    int
	response string
	err      error
}

func (f *fakeGateway) Call(ctx context.Context, req llmgateway.Request) (string, error) {
	f.calls++
	return f.response, f.err
}

func TestRecognizeParsesResponse(t *testing.T) {
	gw := &fakeGateway{response: `{"intent":"create_task","confidence":0.8,"parameters":{"title":"fix bug"}}`}
	fb := New(gw, 10, time.Minute)

	result, err := fb.Recognize(context.Background(), "create a task to fix the bug", nil)
	require.NoError(t, err)
	assert.Equal(t, model.IntentCreateTask, result.Intent)
	assert.Equal(t, 0.8, result.Confidence)
	assert.Equal(t, model.IntentMethodLLM, result.Metadata.Method)
	require.Len(t, result.Entities, 1)
	assert.Equal(t, "title", result.Entities[0].Type)
	assert.Equal(t, 0.8, result.Entities[0].Confidence)
}

func TestRecognizeRewritesUnknownIntentOutsideClosedSet(t *testing.T) {
	gw := &fakeGateway{response: `{"intent":"do_something_weird","confidence":0.95}`}
	fb := New(gw, 10, time.Minute)

	result, err := fb.Recognize(context.Background(), "do something weird", nil)
	require.NoError(t, err)
	assert.Equal(t, model.IntentUnknown, result.Intent)
	assert.LessOrEqual(t, result.Confidence, FallbackConfidenceCap)
}

func TestRecognizeRewritesClarificationNeeded(t *testing.T) {
	gw := &fakeGateway{response: `{"intent":"clarification_needed","confidence":0.99}`}
	fb := New(gw, 10, time.Minute)

	result, err := fb.Recognize(context.Background(), "huh", nil)
	require.NoError(t, err)
	assert.Equal(t, model.IntentUnknown, result.Intent)
	assert.LessOrEqual(t, result.Confidence, FallbackConfidenceCap)
}

func TestRecognizeUsesCacheOnSecondCall(t *testing.T) {
	gw := &fakeGateway{response: `{"intent":"get_help","confidence":0.6}`}
	fb := New(gw, 10, time.Minute)

	_, err := fb.Recognize(context.Background(), "help me please", nil)
	require.NoError(t, err)
	_, err = fb.Recognize(context.Background(), "Help Me Please", nil)
	require.NoError(t, err)

	assert.Equal(t, 1, gw.calls)
}

func TestRecognizeInvalidJSONIsError(t *testing.T) {
	gw := &fakeGateway{response: "not json"}
	fb := New(gw, 10, time.Minute)

	_, err := fb.Recognize(context.Background(), "gibberish", nil)
	assert.Error(t, err)
}

func TestLRUCacheEvictsOldest(t *testing.T) {
	c := newLRUCache(2, time.Minute)
	c.put("a", Result{Intent: model.IntentUnknown})
	c.put("b", Result{Intent: model.IntentUnknown})
	c.put("c", Result{Intent: model.IntentUnknown})

	_, aOK := c.get("a")
	_, cOK := c.get("c")
	assert.False(t, aOK)
	assert.True(t, cOK)
}

func TestLRUCacheExpiresByTTL(t *testing.T) {
	c := newLRUCache(10, time.Millisecond)
	c.put("a", Result{Intent: model.IntentUnknown})
	time.Sleep(5 * time.Millisecond)

	_, ok := c.get("a")
	assert.False(t, ok)
}
