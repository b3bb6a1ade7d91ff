package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorFormatting(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "message only",
			err:  New(CodeNotFound, "agent not found"),
			want: "agent not found",
		},
		{
			name: "with resource",
			err:  New(CodeNotFound, "agent not found").WithResource("IntegrationAgentLink", "agents/123"),
			want: "agent not found [IntegrationAgentLink]",
		},
		{
			name: "with cause",
			err:  Wrap(CodeRemoteUnavailable, "list failed", errors.New("connection refused")),
			want: "list failed: connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestCodeExtraction(t *testing.T) {
	base := New(CodePrerequisiteMissing, "no compute agent").WithSuggestion("agentspacectl engine register")

	assert.Equal(t, CodePrerequisiteMissing, Code(base))
	assert.Equal(t, "agentspacectl engine register", Suggestion(base))

	// Codes survive fmt wrapping.
	wrapped := fmt.Errorf("workflow step 2: %w", base)
	assert.Equal(t, CodePrerequisiteMissing, Code(wrapped))
	assert.Equal(t, "agentspacectl engine register", Suggestion(wrapped))

	assert.Empty(t, Code(errors.New("plain")))
}

func TestIsMatchesByCode(t *testing.T) {
	err := Wrap(CodeTimeout, "operation did not settle", errors.New("deadline"))
	require.True(t, errors.Is(err, New(CodeTimeout, "")))
	require.False(t, errors.Is(err, New(CodeFailed, "")))
}

func TestRetryable(t *testing.T) {
	assert.True(t, Retryable(New(CodeRemoteUnavailable, "")))
	assert.True(t, Retryable(New(CodeTimeout, "")))
	assert.False(t, Retryable(New(CodeFailed, "")))
	assert.False(t, Retryable(New(CodePrerequisiteMissing, "")))
	assert.False(t, Retryable(errors.New("plain")))
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("quota exceeded")
	err := Wrap(CodeRemoteUnavailable, "create corpus", cause)
	assert.ErrorIs(t, err, cause)
}
