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

type ruff struct {
	runner command.Runner
	dir    string
	now    TimeProvider
}

// NewRuff creates a linter that runs `ruff check --output-format json` in dir.
// Ruff has no severities, so every finding counts as an error.
func NewRuff(runner command.Runner, dir string) Linter {
	return &ruff{
		runner: runner,
		dir:    dir,
		now:    time.Now,
	}
}

type ruffDiagnostic struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Filename string `json:"filename"`
	Location struct {
		Row    int `json:"row"`
		Column int `json:"column"`
	} `json:"location"`
}

func (r *ruff) Name() string {
	return TypeRuff
}

func (r *ruff) Supports(filePath string) bool {
	ext := strings.ToLower(filepath.Ext(filePath))
	return ext == ".py" || ext == ".pyi"
}

func (r *ruff) Lint(ctx context.Context, files []string) (*Result, error) {
	targets := supportedFiles(r, files)
	if len(targets) == 0 {
		return nil, ErrNoFilesToLint
	}

	args := append([]string{"check", "--output-format", "json"}, targets...)
	stdout, err := runTool(ctx, r.runner, r.dir, "ruff", args...)
	if err != nil {
		return nil, err
	}

	var diagnostics []ruffDiagnostic
	if err := json.Unmarshal([]byte(stdout), &diagnostics); err != nil {
		return nil, fmt.Errorf("%w: failed to parse ruff output: %v", ErrLinterFailed, err)
	}

	issues := make([]Issue, 0, len(diagnostics))
	for _, d := range diagnostics {
		issues = append(issues, Issue{
			File:     d.Filename,
			Line:     d.Location.Row,
			Column:   d.Location.Column,
			Severity: SeverityError,
			Message:  d.Message,
			Rule:     d.Code,
		})
	}

	return NewResult(r.now(), targets, issues), nil
}
