package hooks

import (
	"context"
	"fmt"
	"time"

	"github.com/michael-freling/claude-tdd-guard/internal/debuglog"
	"github.com/michael-freling/claude-tdd-guard/internal/lint"
	"github.com/michael-freling/claude-tdd-guard/internal/storage"
	"github.com/michael-freling/claude-tdd-guard/internal/testresult"
	"github.com/michael-freling/claude-tdd-guard/internal/validation"
)

// LintNotificationReason is the one-time reminder shown when tests are green but lint is not.
const LintNotificationReason = "Code quality issues detected. You need to fix those first before making any other changes. " +
	"Remember to exercise system thinking and design awareness to ensure continuous architectural improvements. " +
	"Consider: design patterns, SOLID principles, DRY, types and interfaces, and architectural improvements. " +
	"Apply equally to implementation and test code. Use test data factories, helpers, and beforeEach to better organize tests."

// LintReminder names the reminder attempt recorded whenever the lint notification fires.
const LintReminder = "lint"

// LintNotifier blocks once per lint state while tests pass.
type LintNotifier struct {
	store storage.Storage
	now   func() time.Time
}

// NewLintNotifier creates a notifier backed by store.
func NewLintNotifier(store storage.Storage) *LintNotifier {
	return &LintNotifier{
		store: store,
		now:   time.Now,
	}
}

// Check blocks with LintNotificationReason when the tests for the language of
// filePath pass, lint has issues, and the agent was not told yet. The agent was
// told when the stored flag is set or a lint reminder was recorded at or after
// the lint run. The flag is persisted before returning; a failed write is
// returned as an error.
func (n *LintNotifier) Check(ctx context.Context, filePath string) (*validation.ValidationResult, error) {
	logger := debuglog.FromContext(ctx)

	rawTest, err := n.store.Get(storage.KeyTest)
	if err != nil {
		logger.Debug("test evidence unreadable", "error", err.Error())
		return validation.DefaultResult(), nil
	}
	tests, err := testresult.ParserForFile(filePath).Parse(rawTest)
	if err != nil {
		logger.Debug("no usable test evidence for lint notification", "file", filePath, "error", err.Error())
		return validation.DefaultResult(), nil
	}
	if !tests.IsPassing() {
		return validation.DefaultResult(), nil
	}

	rawLint, err := n.store.Get(storage.KeyLint)
	if err != nil || rawLint == "" {
		return validation.DefaultResult(), nil
	}
	lintResult, err := lint.Parse(rawLint)
	if err != nil {
		logger.Debug("lint evidence unparsable", "error", err.Error())
		return validation.DefaultResult(), nil
	}
	if !lintResult.HasIssues() || lintResult.HasNotifiedAboutLintIssues {
		return validation.DefaultResult(), nil
	}
	if n.remindedSince(lintResult.Timestamp) {
		logger.Debug("lint reminder already sent for this lint run", "timestamp", lintResult.Timestamp)
		return validation.DefaultResult(), nil
	}

	lintResult.HasNotifiedAboutLintIssues = true
	updated, err := lintResult.Marshal()
	if err != nil {
		return nil, err
	}
	if err := n.store.Save(storage.KeyLint, updated); err != nil {
		return nil, fmt.Errorf("failed to persist lint notification: %w", err)
	}

	if err := storage.SaveReminderAttempt(n.store, LintReminder, n.now()); err != nil {
		logger.Debug("failed to record lint reminder", "error", err.Error())
	}

	logger.Debug("lint notification sent",
		"errors", lintResult.ErrorCount,
		"warnings", lintResult.WarningCount,
	)
	return validation.NewBlockResult(LintNotificationReason), nil
}

// remindedSince reports whether a lint reminder was recorded at or after runAt.
// Runs without a timestamp are never considered reminded.
func (n *LintNotifier) remindedSince(runAt time.Time) bool {
	if runAt.IsZero() {
		return false
	}
	at, ok, err := storage.GetReminderAttempt(n.store, LintReminder)
	if err != nil || !ok {
		return false
	}
	return !at.Before(runAt)
}
