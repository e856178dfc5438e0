// Package model sends validation prompts to a language model and returns its
// raw text reply.
package model

//go:generate mockgen -source=client.go -destination=mock_client.go -package=model

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/michael-freling/claude-tdd-guard/internal/command"
	"github.com/michael-freling/claude-tdd-guard/internal/config"
)

var (
	ErrModel          = errors.New("model request failed")
	ErrTimeout        = errors.New("model request timeout")
	ErrClaudeNotFound = errors.New("claude CLI not found in PATH")
	ErrMissingAPIKey  = errors.New("missing API key")
	ErrEmptyResponse  = errors.New("model returned an empty response")
	ErrParseResponse  = errors.New("failed to parse model response")
)

// Default model names used when the configuration leaves the name empty.
const (
	DefaultClaudeCLIModel    = "sonnet"
	DefaultAnthropicAPIModel = "claude-sonnet-4-5"
	DefaultOpenAIAPIModel    = "gpt-4o-mini"
)

// Client asks a model a single question.
type Client interface {
	Ask(ctx context.Context, prompt string) (string, error)
}

// NewClient builds the client selected by cfg.Client. An empty cfg.Name falls
// back to the default model of that client.
func NewClient(cfg config.ModelConfig, workDir string, runner command.Runner) (Client, error) {
	switch cfg.Client {
	case config.ModelClientClaudeCLI, "":
		return NewClaudeCLIClient(runner, ClaudeCLIConfig{
			ClaudePath: cfg.ClaudePath,
			Model:      modelName(cfg.Name, DefaultClaudeCLIModel),
			WorkDir:    workDir,
			Timeout:    cfg.Timeout,
		}), nil
	case config.ModelClientAnthropicAPI:
		if cfg.AnthropicAPIKey == "" {
			return nil, fmt.Errorf("%w: set TDD_GUARD_ANTHROPIC_API_KEY or model.anthropic_api_key", ErrMissingAPIKey)
		}
		return NewAnthropicClient(cfg.AnthropicAPIKey, modelName(cfg.Name, DefaultAnthropicAPIModel), cfg.MaxTokens, cfg.Timeout), nil
	case config.ModelClientOpenAIAPI:
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("%w: set TDD_GUARD_OPENAI_API_KEY or model.openai_api_key", ErrMissingAPIKey)
		}
		return NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, modelName(cfg.Name, DefaultOpenAIAPIModel), cfg.MaxTokens, cfg.Timeout), nil
	default:
		return nil, fmt.Errorf("%w: unknown model client %q", config.ErrInvalidConfig, cfg.Client)
	}
}

func modelName(name, fallback string) string {
	if name == "" {
		return fallback
	}
	return name
}

// withTimeout bounds ctx when timeout is positive.
func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout > 0 {
		return context.WithTimeout(ctx, timeout)
	}
	return ctx, func() {}
}
