package lint

//go:generate mockgen -source=linter.go -destination=mock_linter.go -package=lint

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/michael-freling/claude-tdd-guard/internal/command"
)

// Linter type names accepted by NewLinter.
const (
	TypeNone         = "none"
	TypeESLint       = "eslint"
	TypeRuff         = "ruff"
	TypeGolangCILint = "golangci-lint"
)

// Linter runs a lint tool over a set of files.
type Linter interface {
	// Name identifies the tool.
	Name() string
	// Supports reports whether the tool can lint filePath.
	Supports(filePath string) bool
	// Lint runs the tool. Findings are returned in the Result, not as an error.
	Lint(ctx context.Context, files []string) (*Result, error)
}

// TimeProvider returns the current time (replaced in tests).
type TimeProvider func() time.Time

// NewLinter returns the linter for linterType, or nil when linting is disabled.
func NewLinter(linterType string, runner command.Runner, dir string) (Linter, error) {
	switch strings.ToLower(strings.TrimSpace(linterType)) {
	case "", TypeNone:
		return nil, nil
	case TypeESLint:
		return NewESLint(runner, dir), nil
	case TypeRuff:
		return NewRuff(runner, dir), nil
	case TypeGolangCILint:
		return NewGolangCILint(runner, dir), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownLinter, linterType)
	}
}

// supportedFiles filters files down to the ones the linter accepts.
func supportedFiles(l Linter, files []string) []string {
	var out []string
	for _, file := range files {
		if l.Supports(file) {
			out = append(out, file)
		}
	}
	return out
}

// runTool runs a linter that exits non-zero when it finds issues. A failing exit
// is only an error when stdout carries no report.
func runTool(ctx context.Context, runner command.Runner, dir, name string, args ...string) (string, error) {
	stdout, stderr, err := runner.RunInDir(ctx, dir, name, args...)
	if err != nil && strings.TrimSpace(stdout) == "" {
		return "", fmt.Errorf("%w: %s: %v (stderr: %s)", ErrLinterFailed, name, err, stderr)
	}
	return stdout, nil
}
