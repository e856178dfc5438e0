package hooks

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/itchyny/gojq"
)

// EventKind classifies a hook invocation.
type EventKind string

const (
	KindPreToolUse  EventKind = "pre-execution"
	KindPostToolUse EventKind = "post-execution"
	KindUserPrompt  EventKind = "user-prompt"
	KindOther       EventKind = "other"
)

// Hook event names sent by the agent.
const (
	HookPreToolUse       = "PreToolUse"
	HookPostToolUse      = "PostToolUse"
	HookUserPromptSubmit = "UserPromptSubmit"
)

// filePathQuery picks the path a tool call targets across the file tools.
const filePathQuery = `.tool_input | (.file_path // .notebook_path // .path) // empty | strings`

var filePathQueryOnce = sync.OnceValues(func() (*gojq.Code, error) {
	query, err := gojq.Parse(filePathQuery)
	if err != nil {
		return nil, fmt.Errorf("invalid jq query '%s': %w", filePathQuery, err)
	}
	return gojq.Compile(query)
})

// HookEvent is one classified hook payload.
type HookEvent struct {
	Kind           EventKind
	HookEventName  string
	SessionID      string
	TranscriptPath string
	Cwd            string
	ToolName       string
	ToolInput      json.RawMessage
	Prompt         string

	raw     []byte
	decoded map[string]any
}

// Classify validates raw against the hook payload schema and returns the typed event.
// Payloads that do not look like hook data return ErrInvalidHookData.
func Classify(raw []byte) (*HookEvent, error) {
	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidHookData, err)
	}
	if err := validate(hookDataSchema, raw, ErrInvalidHookData); err != nil {
		return nil, err
	}

	var data struct {
		hookData
		ToolInput json.RawMessage `json:"tool_input,omitempty"`
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidHookData, err)
	}

	return &HookEvent{
		Kind:           kindOf(data.HookEventName),
		HookEventName:  data.HookEventName,
		SessionID:      data.SessionID,
		TranscriptPath: data.TranscriptPath,
		Cwd:            data.Cwd,
		ToolName:       data.ToolName,
		ToolInput:      data.ToolInput,
		Prompt:         data.Prompt,
		raw:            raw,
		decoded:        decoded,
	}, nil
}

func kindOf(hookEventName string) EventKind {
	switch hookEventName {
	case HookPreToolUse:
		return KindPreToolUse
	case HookPostToolUse:
		return KindPostToolUse
	case HookUserPromptSubmit:
		return KindUserPrompt
	default:
		return KindOther
	}
}

// Raw returns the payload the event was classified from.
func (e *HookEvent) Raw() []byte {
	return e.raw
}

// FilePath returns the file targeted by the tool call, or "" when there is none.
func (e *HookEvent) FilePath() string {
	code, err := filePathQueryOnce()
	if err != nil {
		return ""
	}

	iter := code.Run(e.decoded)
	v, ok := iter.Next()
	if !ok {
		return ""
	}
	if _, isErr := v.(error); isErr {
		return ""
	}
	path, _ := v.(string)
	return path
}

// Operation parses the tool call into a recognized ToolOperation.
func (e *HookEvent) Operation() (*ToolOperation, error) {
	return ParseToolOperation(e.ToolName, e.ToolInput)
}
