package main

import (
	"context"

	"github.com/michael-freling/claude-tdd-guard/internal/command"
	"github.com/michael-freling/claude-tdd-guard/internal/config"
	"github.com/michael-freling/claude-tdd-guard/internal/model"
	"github.com/michael-freling/claude-tdd-guard/internal/validation"
)

// newLazyDecider builds the model client on first use so that events that never
// reach the reviewer, such as guard commands, work without model credentials.
func newLazyDecider(cfg *config.Config, runner command.Runner) validation.Decider {
	return validation.DeciderFunc(func(ctx context.Context, c validation.Context) (*validation.ValidationResult, error) {
		client, err := model.NewClient(cfg.Model, cfg.ClaudeWorkDir(), runner)
		if err != nil {
			return nil, err
		}
		validator, err := validation.NewValidator(client)
		if err != nil {
			return nil, err
		}
		return validator.Decide(ctx, c)
	})
}
