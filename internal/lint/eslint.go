package lint

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/michael-freling/claude-tdd-guard/internal/command"
)

type eslint struct {
	runner command.Runner
	dir    string
	now    TimeProvider
}

// NewESLint creates a linter that runs `npx eslint --format json` in dir.
func NewESLint(runner command.Runner, dir string) Linter {
	return &eslint{
		runner: runner,
		dir:    dir,
		now:    time.Now,
	}
}

type eslintFileResult struct {
	FilePath string          `json:"filePath"`
	Messages []eslintMessage `json:"messages"`
}

type eslintMessage struct {
	RuleID   string `json:"ruleId"`
	Severity int    `json:"severity"`
	Message  string `json:"message"`
	Line     int    `json:"line"`
	Column   int    `json:"column"`
}

func (e *eslint) Name() string {
	return TypeESLint
}

func (e *eslint) Supports(filePath string) bool {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".js", ".jsx", ".mjs", ".cjs", ".ts", ".tsx", ".mts", ".cts":
		return true
	}
	return false
}

func (e *eslint) Lint(ctx context.Context, files []string) (*Result, error) {
	targets := supportedFiles(e, files)
	if len(targets) == 0 {
		return nil, ErrNoFilesToLint
	}

	args := append([]string{"eslint", "--format", "json"}, targets...)
	stdout, err := runTool(ctx, e.runner, e.dir, "npx", args...)
	if err != nil {
		return nil, err
	}

	var reports []eslintFileResult
	if err := json.Unmarshal([]byte(stdout), &reports); err != nil {
		return nil, fmt.Errorf("%w: failed to parse eslint output: %v", ErrLinterFailed, err)
	}

	var issues []Issue
	for _, report := range reports {
		for _, msg := range report.Messages {
			severity := SeverityWarning
			if msg.Severity >= 2 {
				severity = SeverityError
			}
			issues = append(issues, Issue{
				File:     report.FilePath,
				Line:     msg.Line,
				Column:   msg.Column,
				Severity: severity,
				Message:  msg.Message,
				Rule:     msg.RuleID,
			})
		}
	}

	return NewResult(e.now(), targets, issues), nil
}
