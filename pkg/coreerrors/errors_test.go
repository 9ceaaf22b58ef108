package coreerrors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoreErrorUnwrapsToSentinel(t *testing.T) {
	err := New("llmgateway", KindTimeout, "model call exceeded deadline")
	assert.True(t, errors.Is(err, ErrTimeout))
	assert.False(t, errors.Is(err, ErrInternal))
}

func TestCoreErrorWrapPreservesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap("codemap", KindProviderUnavailable, "generator unreachable", cause)

	assert.True(t, errors.Is(err, ErrProviderUnavailable))
	assert.True(t, errors.Is(err, cause))
	assert.Contains(t, err.Error(), "connection refused")
}

func TestCoreErrorAs(t *testing.T) {
	err := New("decompose", KindCancelled, "session cancelled")

	var ce *CoreError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "decompose", ce.Component)
	assert.Equal(t, KindCancelled, ce.Kind)
}

func TestRecoverableClassification(t *testing.T) {
	tests := []struct {
		kind        Kind
		recoverable bool
	}{
		{KindInvalidInput, true},
		{KindResourceNotFound, true},
		{KindTimeout, true},
		{KindInternal, false},
		{KindSchemaViolation, false},
		{KindProviderUnavailable, false},
		{KindInvalidModelOutput, false},
		{KindCancelled, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			err := New("test", tt.kind, "message")
			assert.Equal(t, tt.recoverable, err.Recoverable())
			assert.Equal(t, tt.recoverable, IsRecoverable(err))
		})
	}
}

func TestIsRecoverableOnNonCoreError(t *testing.T) {
	assert.False(t, IsRecoverable(errors.New("plain error")))
}

func TestKindOf(t *testing.T) {
	ce := New("curator", KindSchemaViolation, "bad field")
	assert.Equal(t, KindSchemaViolation, KindOf(ce))

	assert.Equal(t, KindTimeout, KindOf(ErrTimeout))
	assert.Equal(t, KindInternal, KindOf(errors.New("unrelated")))
}

func TestPresent(t *testing.T) {
	assert.Equal(t, "✅ done", Present(MarkerSuccess, "done"))
	assert.Equal(t, "❌ boom", PresentError(errors.New("boom")))
}
