package hooks

import (
	"context"
	"errors"

	"github.com/michael-freling/claude-tdd-guard/internal/debuglog"
	"github.com/michael-freling/claude-tdd-guard/internal/lint"
	"github.com/michael-freling/claude-tdd-guard/internal/storage"
	"github.com/michael-freling/claude-tdd-guard/internal/validation"
)

// Processor runs one hook payload through the guard pipeline.
type Processor struct {
	recorder *EventRecorder
	guard    *SessionGuard
	postLint *PostToolLintHandler
	engine   *ruleEngine
}

// NewProcessor wires the pipeline around store. decider and linter may be nil.
func NewProcessor(store storage.Storage, decider validation.Decider, linter lint.Linter) *Processor {
	return &Processor{
		recorder: NewEventRecorder(store),
		guard:    NewSessionGuard(store),
		postLint: NewPostToolLintHandler(store, linter),
		engine: NewRuleEngine(
			NewLintNotificationRule(NewLintNotifier(store)),
			NewTDDValidationRule(store, decider),
		),
	}
}

// ProcessHookData classifies input and returns the hook response.
// Out-of-scope input yields the neutral result; storage and decider failures are errors.
func (p *Processor) ProcessHookData(ctx context.Context, input []byte) (*validation.ValidationResult, error) {
	logger := debuglog.FromContext(ctx)

	event, err := Classify(input)
	if err != nil {
		if errors.Is(err, ErrInvalidHookData) {
			logger.Debug("ignoring payload", "error", err.Error())
			return validation.DefaultResult(), nil
		}
		return nil, err
	}
	logger = logger.With("hook", event.HookEventName, "session", event.SessionID, "tool", event.ToolName)
	ctx = debuglog.WithLogger(ctx, logger)

	if err := p.recorder.Record(ctx, event); err != nil {
		return nil, err
	}

	switch event.Kind {
	case KindUserPrompt:
		result, err := p.guard.ProcessUserCommand(ctx, event)
		if err != nil {
			return nil, err
		}
		if result != nil {
			return result, nil
		}
		return validation.DefaultResult(), nil
	case KindPreToolUse, KindPostToolUse:
	default:
		return validation.DefaultResult(), nil
	}

	if disabled := p.guard.GetDisabledResult(ctx, event.SessionID); disabled != nil {
		logger.Debug("guard disabled for session")
		return disabled, nil
	}

	if event.Kind == KindPostToolUse {
		return p.postLint.Handle(ctx, event)
	}

	if ShouldSkipValidation(event) {
		logger.Debug("skipping validation", "file", event.FilePath())
		return validation.DefaultResult(), nil
	}

	result, err := p.engine.Evaluate(ctx, event)
	if err != nil {
		return nil, err
	}
	logger.Debug("validation finished", "decision", string(result.Decision), "reason", result.Reason)
	return result, nil
}
