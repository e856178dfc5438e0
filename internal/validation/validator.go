package validation

import (
	"context"
	"fmt"
	"time"

	"github.com/michael-freling/claude-tdd-guard/internal/debuglog"
	"github.com/michael-freling/claude-tdd-guard/internal/model"
)

// Decider judges an evidence bundle. Errors mean no verdict could be reached.
type Decider interface {
	Decide(ctx context.Context, c Context) (*ValidationResult, error)
}

// DeciderFunc adapts a function to the Decider interface.
type DeciderFunc func(ctx context.Context, c Context) (*ValidationResult, error)

func (f DeciderFunc) Decide(ctx context.Context, c Context) (*ValidationResult, error) {
	return f(ctx, c)
}

type modelValidator struct {
	client  model.Client
	prompts PromptGenerator
}

// NewValidator returns a Decider that asks client to review the rendered prompt.
func NewValidator(client model.Client) (Decider, error) {
	prompts, err := NewPromptGenerator()
	if err != nil {
		return nil, err
	}
	return &modelValidator{
		client:  client,
		prompts: prompts,
	}, nil
}

func (v *modelValidator) Decide(ctx context.Context, c Context) (*ValidationResult, error) {
	logger := debuglog.FromContext(ctx)

	prompt, err := v.prompts.Generate(c)
	if err != nil {
		return nil, fmt.Errorf("failed to render prompt: %w", err)
	}

	start := time.Now()
	reply, err := v.client.Ask(ctx, prompt)
	if err != nil {
		logger.Debug("model request failed", "error", err.Error())
		return nil, fmt.Errorf("failed to get validation from model: %w", err)
	}
	logger.Debug("model replied",
		"duration", time.Since(start).String(),
		"prompt_bytes", len(prompt),
		"reply", reply,
	)

	result, err := ParseResponse(reply)
	if err != nil {
		return nil, err
	}
	return result, nil
}
