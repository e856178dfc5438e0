package command

//go:generate mockgen -source=runner.go -destination=mock_runner.go -package=command

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
)

// Runner abstracts process execution so that callers can be tested without spawning real tools.
type Runner interface {
	// Run executes a command and returns its trimmed stdout and stderr.
	Run(ctx context.Context, name string, args ...string) (stdout string, stderr string, err error)
	// RunInDir executes a command in a specific directory.
	RunInDir(ctx context.Context, dir string, name string, args ...string) (stdout string, stderr string, err error)
	// LookPath resolves an executable name against PATH.
	LookPath(name string) (string, error)
}

type runner struct{}

// NewRunner creates a Runner backed by os/exec.
func NewRunner() Runner {
	return &runner{}
}

// Run executes a command and returns stdout, stderr, and error
func (r *runner) Run(ctx context.Context, name string, args ...string) (string, string, error) {
	return r.RunInDir(ctx, "", name, args...)
}

// RunInDir executes a command in a specific directory
func (r *runner) RunInDir(ctx context.Context, dir string, name string, args ...string) (string, string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	if dir != "" {
		cmd.Dir = dir
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return strings.TrimSpace(stdout.String()), strings.TrimSpace(stderr.String()), err
}

// LookPath resolves name using exec.LookPath.
func (r *runner) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}
