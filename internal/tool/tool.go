// Package tool describes the agent tool calls that change files or the todo list.
package tool

import "encoding/json"

// Tool names the guard understands.
const (
	Edit      = "Edit"
	MultiEdit = "MultiEdit"
	Write     = "Write"
	TodoWrite = "TodoWrite"
)

// TodoCompleted is the status of a finished todo.
const TodoCompleted = "completed"

// EditInput is the tool_input of an Edit call.
type EditInput struct {
	FilePath   string `json:"file_path" jsonschema:"minLength=1"`
	OldString  string `json:"old_string"`
	NewString  string `json:"new_string"`
	ReplaceAll bool   `json:"replace_all,omitempty"`
}

// EditOperation is a single replacement inside a MultiEdit call.
type EditOperation struct {
	OldString  string `json:"old_string"`
	NewString  string `json:"new_string"`
	ReplaceAll bool   `json:"replace_all,omitempty"`
}

// MultiEditInput is the tool_input of a MultiEdit call.
type MultiEditInput struct {
	FilePath string          `json:"file_path" jsonschema:"minLength=1"`
	Edits    []EditOperation `json:"edits" jsonschema:"minItems=1"`
}

// WriteInput is the tool_input of a Write call.
type WriteInput struct {
	FilePath string `json:"file_path" jsonschema:"minLength=1"`
	Content  string `json:"content"`
}

// Todo is one entry of the agent's todo list.
type Todo struct {
	Content    string `json:"content"`
	Status     string `json:"status"`
	ID         string `json:"id,omitempty"`
	Priority   string `json:"priority,omitempty"`
	ActiveForm string `json:"activeForm,omitempty"`
}

// TodoWriteInput is the tool_input of a TodoWrite call.
type TodoWriteInput struct {
	Todos []Todo `json:"todos"`
}

// Modification is the last file-changing call as stored in the evidence store.
type Modification struct {
	ToolName  string          `json:"tool_name"`
	ToolInput json.RawMessage `json:"tool_input"`
}
