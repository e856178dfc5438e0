package hooks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/michael-freling/claude-tdd-guard/internal/debuglog"
	"github.com/michael-freling/claude-tdd-guard/internal/storage"
	"github.com/michael-freling/claude-tdd-guard/internal/tool"
)

// EventRecorder turns pre-execution tool calls into evidence.
type EventRecorder struct {
	store storage.Storage
}

// NewEventRecorder creates a recorder writing to store.
func NewEventRecorder(store storage.Storage) *EventRecorder {
	return &EventRecorder{store: store}
}

// Record saves the todo list of TodoWrite calls and the tool call of file edits.
// Other events are accepted without writing anything.
func (r *EventRecorder) Record(ctx context.Context, event *HookEvent) error {
	if event.Kind != KindPreToolUse {
		return nil
	}

	op, err := event.Operation()
	if errors.Is(err, ErrUnrecognizedOperation) {
		return nil
	}
	if err != nil {
		return err
	}

	logger := debuglog.FromContext(ctx)
	switch {
	case op.IsTodoWrite():
		data, err := json.Marshal(op.TodoWrite.Todos)
		if err != nil {
			return fmt.Errorf("failed to marshal todos: %w", err)
		}
		if err := r.store.Save(storage.KeyTodo, string(data)); err != nil {
			return fmt.Errorf("failed to save todos: %w", err)
		}
		logger.Debug("recorded todos", "count", len(op.TodoWrite.Todos))
	case op.IsFileEdit():
		data, err := json.Marshal(tool.Modification{
			ToolName:  event.ToolName,
			ToolInput: event.ToolInput,
		})
		if err != nil {
			return fmt.Errorf("failed to marshal modification: %w", err)
		}
		if err := r.store.Save(storage.KeyModifications, string(data)); err != nil {
			return fmt.Errorf("failed to save modification: %w", err)
		}
		logger.Debug("recorded modification", "tool", event.ToolName, "file", op.FilePath())
	}
	return nil
}
