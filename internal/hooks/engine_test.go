package hooks

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/michael-freling/claude-tdd-guard/internal/tool"
	"github.com/michael-freling/claude-tdd-guard/internal/validation"
)

// mockRule is a test implementation of the Rule interface.
type mockRule struct {
	name        string
	description string
	result      *validation.ValidationResult
	err         error
	onEvaluate  func()
}

func (m *mockRule) Name() string {
	return m.name
}

func (m *mockRule) Description() string {
	return m.description
}

func (m *mockRule) Evaluate(ctx context.Context, event *HookEvent) (*validation.ValidationResult, error) {
	if m.onEvaluate != nil {
		m.onEvaluate()
	}
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

func TestNewRuleEngine(t *testing.T) {
	tests := []struct {
		name  string
		rules []Rule
	}{
		{
			name:  "creates engine with no rules",
			rules: []Rule{},
		},
		{
			name: "creates engine with one rule",
			rules: []Rule{
				&mockRule{name: "lint-notification"},
			},
		},
		{
			name: "creates engine with multiple rules",
			rules: []Rule{
				&mockRule{name: "lint-notification"},
				&mockRule{name: "tdd-validation"},
				&mockRule{name: "noop"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewRuleEngine(tt.rules...)
			assert.NotNil(t, got)
			assert.Equal(t, len(tt.rules), len(got.rules))
		})
	}
}

func TestRuleEngine_Evaluate(t *testing.T) {
	tests := []struct {
		name    string
		rules   []Rule
		event   *HookEvent
		want    *validation.ValidationResult
		wantErr bool
	}{
		{
			name:  "no rules returns default",
			rules: []Rule{},
			event: &HookEvent{ToolName: tool.Edit},
			want:  validation.DefaultResult(),
		},
		{
			name: "all rules pass returns default",
			rules: []Rule{
				&mockRule{
					name:   "lint-notification",
					result: validation.DefaultResult(),
				},
				&mockRule{
					name:   "tdd-validation",
					result: validation.DefaultResult(),
				},
			},
			event: &HookEvent{ToolName: tool.Edit},
			want:  validation.DefaultResult(),
		},
		{
			name: "last passing result carries its reason",
			rules: []Rule{
				&mockRule{
					name:   "lint-notification",
					result: validation.DefaultResult(),
				},
				&mockRule{
					name:   "tdd-validation",
					result: validation.NewPassResult("adding a single failing test"),
				},
			},
			event: &HookEvent{ToolName: tool.Edit},
			want:  validation.NewPassResult("adding a single failing test"),
		},
		{
			name: "nil rule result is ignored",
			rules: []Rule{
				&mockRule{
					name:   "lint-notification",
					result: validation.NewPassResult("first"),
				},
				&mockRule{
					name: "tdd-validation",
				},
			},
			event: &HookEvent{ToolName: tool.Edit},
			want:  validation.NewPassResult("first"),
		},
		{
			name: "first rule blocks returns blocked",
			rules: []Rule{
				&mockRule{
					name:   "lint-notification",
					result: validation.NewBlockResult("lint issues outstanding"),
				},
				&mockRule{
					name:   "tdd-validation",
					result: validation.DefaultResult(),
				},
			},
			event: &HookEvent{ToolName: tool.Edit},
			want:  validation.NewBlockResult("lint issues outstanding"),
		},
		{
			name: "second rule blocks returns blocked",
			rules: []Rule{
				&mockRule{
					name:   "lint-notification",
					result: validation.DefaultResult(),
				},
				&mockRule{
					name:   "tdd-validation",
					result: validation.NewBlockResult("implementation without a failing test"),
				},
			},
			event: &HookEvent{ToolName: tool.Edit},
			want:  validation.NewBlockResult("implementation without a failing test"),
		},
		{
			name: "returns first blocked rule when multiple block",
			rules: []Rule{
				&mockRule{
					name:   "lint-notification",
					result: validation.NewBlockResult("lint issues outstanding"),
				},
				&mockRule{
					name:   "tdd-validation",
					result: validation.NewBlockResult("implementation without a failing test"),
				},
			},
			event: &HookEvent{ToolName: tool.Edit},
			want:  validation.NewBlockResult("lint issues outstanding"),
		},
		{
			name: "rule error returns error",
			rules: []Rule{
				&mockRule{
					name: "lint-notification",
					err:  fmt.Errorf("decider unavailable"),
				},
			},
			event:   &HookEvent{ToolName: tool.Edit},
			wantErr: true,
		},
		{
			name: "error in second rule returns error",
			rules: []Rule{
				&mockRule{
					name:   "lint-notification",
					result: validation.DefaultResult(),
				},
				&mockRule{
					name: "tdd-validation",
					err:  fmt.Errorf("decider unavailable"),
				},
			},
			event:   &HookEvent{ToolName: tool.Edit},
			wantErr: true,
		},
		{
			name:    "nil input returns error",
			rules:   []Rule{},
			event:   nil,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := NewRuleEngine(tt.rules...)
			got, err := engine.Evaluate(context.Background(), tt.event)

			if tt.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRuleEngine_Evaluate_ShortCircuit(t *testing.T) {
	evaluationCount := 0

	rule1 := &mockRule{
		name:   "lint-notification",
		result: validation.NewBlockResult("blocked"),
	}

	rule2 := &mockRule{
		name:   "tdd-validation",
		result: validation.DefaultResult(),
		onEvaluate: func() {
			evaluationCount++
		},
	}

	engine := NewRuleEngine(rule1, rule2)
	event := &HookEvent{ToolName: tool.Edit}

	result, err := engine.Evaluate(context.Background(), event)

	require.NoError(t, err)
	assert.True(t, result.IsBlocked())
	assert.Equal(t, 0, evaluationCount, "second rule should not be evaluated when first rule blocks")
}
