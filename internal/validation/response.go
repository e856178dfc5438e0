package validation

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/michael-freling/claude-tdd-guard/internal/model"
)

var jsonBlockRegex = regexp.MustCompile("(?s)```(?:json)?\\s*\\n(.*?)```")

// claudeJSONResponse is the envelope printed by `claude --output-format json`.
type claudeJSONResponse struct {
	Type             string          `json:"type"`
	Result           string          `json:"result"`
	StructuredOutput json.RawMessage `json:"structured_output"`
}

type modelResponse struct {
	Decision *string `json:"decision"`
	Reason   string  `json:"reason"`
}

// ParseResponse turns a model reply into a ValidationResult.
// "approve" and null both let the call through with the model's reason. A reply
// with neither a decision nor a reason is rejected.
func ParseResponse(output string) (*ValidationResult, error) {
	jsonStr, err := extractJSON(output)
	if err != nil {
		return nil, err
	}

	var resp modelResponse
	if err := json.Unmarshal([]byte(jsonStr), &resp); err != nil {
		return nil, fmt.Errorf("invalid response JSON: %v: %w", err, model.ErrParseResponse)
	}

	decision := ""
	if resp.Decision != nil {
		decision = strings.ToLower(strings.TrimSpace(*resp.Decision))
	}
	if decision == "" && strings.TrimSpace(resp.Reason) == "" {
		return nil, fmt.Errorf("response has neither decision nor reason: %w", model.ErrParseResponse)
	}

	switch Decision(decision) {
	case DecisionBlock:
		return NewBlockResult(resp.Reason), nil
	case DecisionApprove, DecisionNone:
		return NewPassResult(resp.Reason), nil
	default:
		return nil, fmt.Errorf("unknown decision %q: %w", *resp.Decision, model.ErrParseResponse)
	}
}

// extractJSON finds the JSON object in output. It accepts a bare object, the
// Claude CLI envelope, a fenced code block, or an object embedded in prose.
func extractJSON(output string) (string, error) {
	trimmed := strings.TrimSpace(output)
	if trimmed == "" {
		return "", fmt.Errorf("empty output: %w", model.ErrParseResponse)
	}

	if json.Valid([]byte(trimmed)) {
		var envelope claudeJSONResponse
		if err := json.Unmarshal([]byte(trimmed), &envelope); err == nil && envelope.Type == "result" {
			if len(envelope.StructuredOutput) > 0 && string(envelope.StructuredOutput) != "null" {
				return string(envelope.StructuredOutput), nil
			}
			return extractJSON(envelope.Result)
		}
		return trimmed, nil
	}

	for _, match := range jsonBlockRegex.FindAllStringSubmatch(output, -1) {
		block := strings.TrimSpace(match[1])
		if block != "" && json.Valid([]byte(block)) {
			return block, nil
		}
	}

	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start >= 0 && end > start {
		candidate := trimmed[start : end+1]
		if json.Valid([]byte(candidate)) {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("no JSON found in output:\n%s\n%w", truncateOutput(output, 500), model.ErrParseResponse)
}

func truncateOutput(output string, maxLen int) string {
	if len(output) <= maxLen {
		return output
	}
	return output[:maxLen] + fmt.Sprintf("...\n(truncated, showing first %d chars)", maxLen)
}
