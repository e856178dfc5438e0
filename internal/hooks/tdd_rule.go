package hooks

import (
	"context"

	"github.com/michael-freling/claude-tdd-guard/internal/debuglog"
	"github.com/michael-freling/claude-tdd-guard/internal/storage"
	"github.com/michael-freling/claude-tdd-guard/internal/validation"
)

type tddValidationRule struct {
	store   storage.Storage
	decider validation.Decider
}

// NewTDDValidationRule asks decider about the edit with the evidence from store.
// A nil decider approves every edit.
func NewTDDValidationRule(store storage.Storage, decider validation.Decider) Rule {
	return &tddValidationRule{
		store:   store,
		decider: decider,
	}
}

func (r *tddValidationRule) Name() string {
	return "tdd-validation"
}

func (r *tddValidationRule) Description() string {
	return "Asks the reviewer whether the edit follows Red-Green-Refactor"
}

func (r *tddValidationRule) Evaluate(ctx context.Context, event *HookEvent) (*validation.ValidationResult, error) {
	if r.decider == nil {
		return validation.DefaultResult(), nil
	}

	bundle, err := validation.BuildContext(ctx, r.store, event.FilePath())
	if err != nil {
		return nil, err
	}

	debuglog.FromContext(ctx).Debug("asking decider",
		"file", bundle.FilePath,
		"language", bundle.FileTypeHint.String(),
		"has_test_evidence", bundle.Test != "",
	)
	return r.decider.Decide(ctx, bundle)
}
