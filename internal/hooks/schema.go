package hooks

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/invopop/jsonschema"
	"github.com/xeipuuv/gojsonschema"

	"github.com/michael-freling/claude-tdd-guard/internal/tool"
)

const jsonSchemaDraft07 = "http://json-schema.org/draft-07/schema#"

var (
	ErrInvalidHookData       = errors.New("invalid hook data")
	ErrUnrecognizedOperation = errors.New("unrecognized tool operation")
)

// hookData is the envelope shared by every hook payload. Only hook_event_name is required.
type hookData struct {
	HookEventName  string         `json:"hook_event_name"`
	SessionID      string         `json:"session_id,omitempty"`
	TranscriptPath string         `json:"transcript_path,omitempty"`
	Cwd            string         `json:"cwd,omitempty"`
	ToolName       string         `json:"tool_name,omitempty"`
	ToolInput      map[string]any `json:"tool_input,omitempty"`
	Prompt         string         `json:"prompt,omitempty"`
}

var (
	hookDataSchema  = lazySchema(&hookData{})
	editSchema      = lazySchema(&tool.EditInput{})
	multiEditSchema = lazySchema(&tool.MultiEditInput{})
	writeSchema     = lazySchema(&tool.WriteInput{})
	todoWriteSchema = lazySchema(&tool.TodoWriteInput{})
)

// lazySchema reflects v into a JSON schema and compiles it on first use.
// Unknown properties are allowed everywhere since the agent adds fields over time.
func lazySchema(v any) func() (*gojsonschema.Schema, error) {
	return sync.OnceValues(func() (*gojsonschema.Schema, error) {
		reflector := jsonschema.Reflector{
			DoNotReference:            true,
			Anonymous:                 true,
			AllowAdditionalProperties: true,
		}
		schema := reflector.Reflect(v)
		schema.Version = jsonSchemaDraft07

		schemaBytes, err := json.Marshal(schema)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal schema: %w", err)
		}

		var schemaMap map[string]any
		if err := json.Unmarshal(schemaBytes, &schemaMap); err != nil {
			return nil, fmt.Errorf("failed to unmarshal schema: %w", err)
		}

		compiled, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(schemaMap))
		if err != nil {
			return nil, fmt.Errorf("failed to compile schema: %w", err)
		}
		return compiled, nil
	})
}

// validate checks data against the schema and wraps every violation into sentinel.
func validate(schemaFn func() (*gojsonschema.Schema, error), data []byte, sentinel error) error {
	schema, err := schemaFn()
	if err != nil {
		return err
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("%w: %v", sentinel, err)
	}

	if !result.Valid() {
		var errMsgs []string
		for _, validationErr := range result.Errors() {
			errMsgs = append(errMsgs, validationErr.String())
		}
		return fmt.Errorf("%w: %s", sentinel, strings.Join(errMsgs, "; "))
	}
	return nil
}
