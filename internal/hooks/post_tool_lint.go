package hooks

import (
	"context"
	"fmt"
	"strings"

	"github.com/michael-freling/claude-tdd-guard/internal/debuglog"
	"github.com/michael-freling/claude-tdd-guard/internal/lint"
	"github.com/michael-freling/claude-tdd-guard/internal/storage"
	"github.com/michael-freling/claude-tdd-guard/internal/validation"
)

// PostToolLintHandler lints a file right after the agent edited it and keeps the
// lint evidence current.
type PostToolLintHandler struct {
	store  storage.Storage
	linter lint.Linter
}

// NewPostToolLintHandler creates a handler. A nil linter disables linting.
func NewPostToolLintHandler(store storage.Storage, linter lint.Linter) *PostToolLintHandler {
	return &PostToolLintHandler{
		store:  store,
		linter: linter,
	}
}

// Handle runs the linter on the edited file and stores the fresh result. The
// notification flag survives only when the issues did not change; in that case
// the agent already saw the reminder and is blocked with the remaining issues.
// A failing linter leaves the previous evidence untouched.
func (h *PostToolLintHandler) Handle(ctx context.Context, event *HookEvent) (*validation.ValidationResult, error) {
	if h.linter == nil {
		return validation.DefaultResult(), nil
	}

	op, err := event.Operation()
	if err != nil || !op.IsFileEdit() {
		return validation.DefaultResult(), nil
	}

	logger := debuglog.FromContext(ctx)
	filePath := op.FilePath()
	if !h.linter.Supports(filePath) {
		logger.Debug("linter does not support file", "linter", h.linter.Name(), "file", filePath)
		return validation.DefaultResult(), nil
	}

	fresh, err := h.linter.Lint(ctx, []string{filePath})
	if err != nil {
		logger.Debug("linter failed, keeping previous lint evidence", "linter", h.linter.Name(), "error", err.Error())
		return validation.DefaultResult(), nil
	}

	var previous *lint.Result
	if raw, err := h.store.Get(storage.KeyLint); err == nil && raw != "" {
		previous, _ = lint.Parse(raw)
	}

	updated := lint.Refresh(previous, fresh)
	data, err := updated.Marshal()
	if err != nil {
		return nil, err
	}
	if err := h.store.Save(storage.KeyLint, data); err != nil {
		return nil, fmt.Errorf("failed to save lint result: %w", err)
	}

	logger.Debug("lint evidence refreshed",
		"linter", h.linter.Name(),
		"errors", updated.ErrorCount,
		"warnings", updated.WarningCount,
		"notified", updated.HasNotifiedAboutLintIssues,
	)

	if !updated.HasIssues() {
		if err := storage.ClearReminderAttempt(h.store, LintReminder); err != nil {
			logger.Debug("failed to clear lint reminder", "error", err.Error())
		}
	}

	if updated.HasNotifiedAboutLintIssues && updated.HasIssues() {
		return validation.NewBlockResult(formatLintIssues(updated)), nil
	}
	return validation.DefaultResult(), nil
}

func formatLintIssues(result *lint.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Lint issues remain (%d errors, %d warnings):\n", result.ErrorCount, result.WarningCount)
	for _, issue := range result.Issues {
		fmt.Fprintf(&b, "- %s:%d:%d %s: %s", issue.File, issue.Line, issue.Column, issue.Severity, issue.Message)
		if issue.Rule != "" {
			fmt.Fprintf(&b, " (%s)", issue.Rule)
		}
		b.WriteString("\n")
	}
	b.WriteString("Fix these issues before making other changes.")
	return b.String()
}
