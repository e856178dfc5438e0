package lint

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/michael-freling/claude-tdd-guard/internal/command"
)

type golangCILint struct {
	runner command.Runner
	dir    string
	now    TimeProvider
}

// NewGolangCILint creates a linter that runs golangci-lint on the packages of the edited files.
func NewGolangCILint(runner command.Runner, dir string) Linter {
	return &golangCILint{
		runner: runner,
		dir:    dir,
		now:    time.Now,
	}
}

type golangCIReport struct {
	Issues []struct {
		FromLinter string `json:"FromLinter"`
		Text       string `json:"Text"`
		Severity   string `json:"Severity"`
		Pos        struct {
			Filename string `json:"Filename"`
			Line     int    `json:"Line"`
			Column   int    `json:"Column"`
		} `json:"Pos"`
	} `json:"Issues"`
}

func (g *golangCILint) Name() string {
	return TypeGolangCILint
}

func (g *golangCILint) Supports(filePath string) bool {
	return strings.ToLower(filepath.Ext(filePath)) == ".go"
}

func (g *golangCILint) Lint(ctx context.Context, files []string) (*Result, error) {
	targets := supportedFiles(g, files)
	if len(targets) == 0 {
		return nil, ErrNoFilesToLint
	}

	seen := map[string]bool{}
	var packages []string
	for _, file := range targets {
		pkg := filepath.Dir(file)
		if !seen[pkg] {
			seen[pkg] = true
			packages = append(packages, pkg)
		}
	}
	sort.Strings(packages)

	args := append([]string{"run", "--output.json.path", "stdout", "--show-stats=false"}, packages...)
	stdout, err := runTool(ctx, g.runner, g.dir, "golangci-lint", args...)
	if err != nil {
		return nil, err
	}

	var report golangCIReport
	if err := json.Unmarshal([]byte(stdout), &report); err != nil {
		return nil, fmt.Errorf("%w: failed to parse golangci-lint output: %v", ErrLinterFailed, err)
	}

	issues := make([]Issue, 0, len(report.Issues))
	for _, i := range report.Issues {
		severity := SeverityError
		if strings.EqualFold(i.Severity, "warning") {
			severity = SeverityWarning
		}
		issues = append(issues, Issue{
			File:     i.Pos.Filename,
			Line:     i.Pos.Line,
			Column:   i.Pos.Column,
			Severity: severity,
			Message:  i.Text,
			Rule:     i.FromLinter,
		})
	}

	return NewResult(g.now(), targets, issues), nil
}
