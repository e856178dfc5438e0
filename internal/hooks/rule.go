package hooks

import (
	"context"

	"github.com/michael-freling/claude-tdd-guard/internal/validation"
)

// Rule represents a check that runs before a file edit.
type Rule interface {
	// Name returns the unique identifier for this rule.
	Name() string

	// Description returns a human-readable description of what this rule does.
	Description() string

	// Evaluate checks the pending edit. A blocking result stops evaluation.
	Evaluate(ctx context.Context, event *HookEvent) (*validation.ValidationResult, error)
}

type lintNotificationRule struct {
	notifier *LintNotifier
}

// NewLintNotificationRule wraps a LintNotifier as a Rule.
func NewLintNotificationRule(notifier *LintNotifier) Rule {
	return &lintNotificationRule{notifier: notifier}
}

func (r *lintNotificationRule) Name() string {
	return "lint-notification"
}

func (r *lintNotificationRule) Description() string {
	return "Blocks once when tests pass but lint issues are outstanding"
}

func (r *lintNotificationRule) Evaluate(ctx context.Context, event *HookEvent) (*validation.ValidationResult, error) {
	return r.notifier.Check(ctx, event.FilePath())
}
