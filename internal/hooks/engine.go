package hooks

import (
	"context"
	"fmt"

	"github.com/michael-freling/claude-tdd-guard/internal/debuglog"
	"github.com/michael-freling/claude-tdd-guard/internal/validation"
)

// ruleEngine implements the rule evaluation engine.
type ruleEngine struct {
	rules []Rule
}

// NewRuleEngine creates a new rule engine with the given rules.
func NewRuleEngine(rules ...Rule) *ruleEngine {
	return &ruleEngine{
		rules: rules,
	}
}

// Evaluate evaluates all rules against the event.
// Returns the first blocking result, or the result of the last rule if no rules block.
func (e *ruleEngine) Evaluate(ctx context.Context, event *HookEvent) (*validation.ValidationResult, error) {
	if event == nil {
		return nil, fmt.Errorf("event cannot be nil")
	}

	result := validation.DefaultResult()
	for _, rule := range e.rules {
		ruleResult, err := rule.Evaluate(ctx, event)
		if err != nil {
			return nil, fmt.Errorf("rule %s failed: %w", rule.Name(), err)
		}
		if ruleResult == nil {
			continue
		}

		if ruleResult.IsBlocked() {
			debuglog.FromContext(ctx).Debug("rule blocked", "rule", rule.Name(), "reason", ruleResult.Reason)
			return ruleResult, nil
		}
		result = ruleResult
	}

	return result, nil
}
