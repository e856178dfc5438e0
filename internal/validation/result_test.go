package validation

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationResult_JSON(t *testing.T) {
	tests := []struct {
		name   string
		result *ValidationResult
		want   string
	}{
		{
			name:   "default result omits decision",
			result: DefaultResult(),
			want:   `{"reason":""}`,
		},
		{
			name:   "pass result keeps reason",
			result: NewPassResult("looks fine"),
			want:   `{"reason":"looks fine"}`,
		},
		{
			name:   "approve",
			result: NewApproveResult("TDD Guard is disabled."),
			want:   `{"decision":"approve","reason":"TDD Guard is disabled."}`,
		},
		{
			name:   "block",
			result: NewBlockResult("write a failing test first"),
			want:   `{"decision":"block","reason":"write a failing test first"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := json.Marshal(tt.result)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(got))
		})
	}
}

func TestValidationResult_IsBlocked(t *testing.T) {
	var nilResult *ValidationResult
	assert.False(t, nilResult.IsBlocked())
	assert.False(t, DefaultResult().IsBlocked())
	assert.False(t, NewApproveResult("").IsBlocked())
	assert.True(t, NewBlockResult("no").IsBlocked())
}
