package model

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/michael-freling/claude-tdd-guard/internal/command"
)

const defaultClaudePath = "claude"

// ClaudeCLIConfig configures the Claude CLI client.
type ClaudeCLIConfig struct {
	ClaudePath string
	Model      string
	WorkDir    string
	Timeout    time.Duration
}

// claudeCLIClient runs `claude -p` once per question.
type claudeCLIClient struct {
	runner command.Runner
	config ClaudeCLIConfig
}

// NewClaudeCLIClient creates a client that shells out to the Claude CLI.
func NewClaudeCLIClient(runner command.Runner, cfg ClaudeCLIConfig) Client {
	if cfg.ClaudePath == "" {
		cfg.ClaudePath = defaultClaudePath
	}
	return &claudeCLIClient{
		runner: runner,
		config: cfg,
	}
}

// claudeJSONResponse is the envelope printed with --output-format json.
type claudeJSONResponse struct {
	Type    string `json:"type"`
	Subtype string `json:"subtype"`
	Result  string `json:"result"`
	IsError bool   `json:"is_error"`
}

// Ask runs the CLI with the prompt and returns the result text of its JSON envelope.
func (c *claudeCLIClient) Ask(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := withTimeout(ctx, c.config.Timeout)
	defer cancel()

	claudePath, err := c.findClaudePath()
	if err != nil {
		return "", err
	}

	if c.config.WorkDir != "" {
		if err := os.MkdirAll(c.config.WorkDir, 0755); err != nil {
			return "", fmt.Errorf("failed to create claude working directory: %w", err)
		}
	}

	args := []string{
		"-p", prompt,
		"--output-format", "json",
		"--max-turns", "5",
		"--disallowedTools", "TodoWrite",
		"--strict-mcp-config",
	}
	if c.config.Model != "" {
		args = append(args, "--model", c.config.Model)
	}

	start := time.Now()
	stdout, stderr, err := c.runner.RunInDir(ctx, c.config.WorkDir, claudePath, args...)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("claude execution timeout after %s: %w", time.Since(start).Round(time.Millisecond), ErrTimeout)
		}
		return "", fmt.Errorf("claude execution failed: %v (stderr: %s): %w", err, stderr, ErrModel)
	}

	return parseClaudeOutput(stdout)
}

func parseClaudeOutput(stdout string) (string, error) {
	trimmed := strings.TrimSpace(stdout)
	if trimmed == "" {
		return "", ErrEmptyResponse
	}

	var envelope claudeJSONResponse
	if err := json.Unmarshal([]byte(trimmed), &envelope); err != nil || envelope.Type != "result" {
		// Older CLI versions print the bare reply.
		return trimmed, nil
	}

	if envelope.IsError {
		return "", fmt.Errorf("claude reported %s: %s: %w", envelope.Subtype, envelope.Result, ErrModel)
	}
	if strings.TrimSpace(envelope.Result) == "" {
		return "", ErrEmptyResponse
	}
	return envelope.Result, nil
}

// findClaudePath resolves the executable; explicit paths are used as given.
func (c *claudeCLIClient) findClaudePath() (string, error) {
	if c.config.ClaudePath != defaultClaudePath {
		return c.config.ClaudePath, nil
	}

	path, err := c.runner.LookPath(defaultClaudePath)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrClaudeNotFound, err)
	}
	return path, nil
}
