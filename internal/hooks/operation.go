package hooks

import (
	"encoding/json"
	"fmt"

	"github.com/michael-freling/claude-tdd-guard/internal/tool"
)

// ToolOperation is a recognized tool call. Exactly one of the inputs is set.
type ToolOperation struct {
	ToolName  string
	Edit      *tool.EditInput
	MultiEdit *tool.MultiEditInput
	Write     *tool.WriteInput
	TodoWrite *tool.TodoWriteInput
}

// ParseToolOperation validates input against the schema of toolName.
// Tools other than Edit, MultiEdit, Write and TodoWrite return ErrUnrecognizedOperation.
func ParseToolOperation(toolName string, input json.RawMessage) (*ToolOperation, error) {
	if len(input) == 0 {
		return nil, fmt.Errorf("%w: %s has no tool_input", ErrUnrecognizedOperation, toolName)
	}

	op := &ToolOperation{ToolName: toolName}
	var target any
	switch toolName {
	case tool.Edit:
		op.Edit = &tool.EditInput{}
		target = op.Edit
		if err := validate(editSchema, input, ErrUnrecognizedOperation); err != nil {
			return nil, err
		}
	case tool.MultiEdit:
		op.MultiEdit = &tool.MultiEditInput{}
		target = op.MultiEdit
		if err := validate(multiEditSchema, input, ErrUnrecognizedOperation); err != nil {
			return nil, err
		}
	case tool.Write:
		op.Write = &tool.WriteInput{}
		target = op.Write
		if err := validate(writeSchema, input, ErrUnrecognizedOperation); err != nil {
			return nil, err
		}
	case tool.TodoWrite:
		op.TodoWrite = &tool.TodoWriteInput{}
		target = op.TodoWrite
		if err := validate(todoWriteSchema, input, ErrUnrecognizedOperation); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnrecognizedOperation, toolName)
	}

	if err := json.Unmarshal(input, target); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnrecognizedOperation, err)
	}
	return op, nil
}

// IsTodoWrite reports whether the operation only updates the todo list.
func (o *ToolOperation) IsTodoWrite() bool {
	return o.TodoWrite != nil
}

// IsFileEdit reports whether the operation changes a file.
func (o *ToolOperation) IsFileEdit() bool {
	return o.Edit != nil || o.MultiEdit != nil || o.Write != nil
}

// FilePath returns the edited file, or "" for todo updates.
func (o *ToolOperation) FilePath() string {
	switch {
	case o.Edit != nil:
		return o.Edit.FilePath
	case o.MultiEdit != nil:
		return o.MultiEdit.FilePath
	case o.Write != nil:
		return o.Write.FilePath
	default:
		return ""
	}
}
