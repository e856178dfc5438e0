package hooks

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/michael-freling/claude-tdd-guard/internal/storage"
	"github.com/michael-freling/claude-tdd-guard/internal/tool"
)

func TestEventRecorder_Record(t *testing.T) {
	tests := []struct {
		name              string
		raw               func(t *testing.T) []byte
		wantModifications string
		wantTodo          string
	}{
		{
			name: "edit is recorded as modification",
			raw: func(t *testing.T) []byte {
				return hookPayload(t, HookPreToolUse, tool.Edit, map[string]any{"file_path": "/p/a.py", "old_string": "a", "new_string": "b"})
			},
			wantModifications: `{"tool_name":"Edit","tool_input":{"file_path":"/p/a.py","new_string":"b","old_string":"a"}}`,
		},
		{
			name: "multi edit is recorded as modification",
			raw: func(t *testing.T) []byte {
				return hookPayload(t, HookPreToolUse, tool.MultiEdit, map[string]any{"file_path": "/p/a.js", "edits": []any{map[string]any{"old_string": "a", "new_string": "b"}}})
			},
			wantModifications: `{"tool_name":"MultiEdit","tool_input":{"edits":[{"new_string":"b","old_string":"a"}],"file_path":"/p/a.js"}}`,
		},
		{
			name: "write is recorded as modification",
			raw: func(t *testing.T) []byte {
				return hookPayload(t, HookPreToolUse, tool.Write, map[string]any{"file_path": "/p/a.go", "content": "package a"})
			},
			wantModifications: `{"tool_name":"Write","tool_input":{"content":"package a","file_path":"/p/a.go"}}`,
		},
		{
			name: "todo write is recorded as todo snapshot",
			raw: func(t *testing.T) []byte {
				return hookPayload(t, HookPreToolUse, tool.TodoWrite, map[string]any{"todos": []any{map[string]any{"content": "Add subtraction", "status": "pending", "id": "1"}}})
			},
			wantTodo: `[{"content":"Add subtraction","status":"pending","id":"1"}]`,
		},
		{
			name: "post tool use is not recorded",
			raw: func(t *testing.T) []byte {
				return hookPayload(t, HookPostToolUse, tool.Edit, map[string]any{"file_path": "/p/a.py", "old_string": "a", "new_string": "b"})
			},
		},
		{
			name: "unrecognized tool is not recorded",
			raw: func(t *testing.T) []byte {
				return hookPayload(t, HookPreToolUse, "Bash", map[string]any{"command": "pytest"})
			},
		},
		{
			name: "user prompt is not recorded",
			raw: func(t *testing.T) []byte {
				return promptPayload(t, testSession, "tdd-guard off")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := storage.NewMemoryStorage()
			recorder := NewEventRecorder(store)

			err := recorder.Record(context.Background(), classify(t, tt.raw(t)))
			require.NoError(t, err)

			modifications, err := store.Get(storage.KeyModifications)
			require.NoError(t, err)
			todo, err := store.Get(storage.KeyTodo)
			require.NoError(t, err)

			if tt.wantModifications == "" {
				assert.Empty(t, modifications)
			} else {
				assert.JSONEq(t, tt.wantModifications, modifications)
			}
			if tt.wantTodo == "" {
				assert.Empty(t, todo)
			} else {
				assert.JSONEq(t, tt.wantTodo, todo)
			}
		})
	}
}

func TestEventRecorder_Record_ReplacesPrevious(t *testing.T) {
	store := storage.NewMemoryStorage()
	recorder := NewEventRecorder(store)
	ctx := context.Background()

	require.NoError(t, recorder.Record(ctx, classify(t, hookPayload(t, HookPreToolUse, tool.Edit, editInput("/p/first.py")))))
	require.NoError(t, recorder.Record(ctx, classify(t, hookPayload(t, HookPreToolUse, tool.Edit, editInput("/p/second.py")))))

	got, err := store.Get(storage.KeyModifications)
	require.NoError(t, err)
	assert.Contains(t, got, "/p/second.py")
	assert.NotContains(t, got, "/p/first.py")
}

func TestEventRecorder_Record_WriteFailure(t *testing.T) {
	store := newFailingStorage()
	store.failSave[storage.KeyModifications] = true
	recorder := NewEventRecorder(store)

	err := recorder.Record(context.Background(), classify(t, hookPayload(t, HookPreToolUse, tool.Edit, editInput("/p/a.py"))))
	require.Error(t, err)
	assert.ErrorIs(t, err, errDiskFull)
}
