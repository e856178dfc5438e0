// Package validation assembles the evidence for a proposed edit and asks a
// decider whether the edit follows Test-Driven Development.
package validation

// Decision is the verdict reported back to the agent.
type Decision string

const (
	// DecisionNone lets the tool call through without an explicit verdict.
	DecisionNone    Decision = ""
	DecisionApprove Decision = "approve"
	DecisionBlock   Decision = "block"
)

// ValidationResult is written to stdout as the hook response.
// An empty Decision is omitted, which the agent treats as approval.
type ValidationResult struct {
	Decision Decision `json:"decision,omitempty"`
	Reason   string   `json:"reason"`
}

// DefaultResult is the neutral result with no decision and no reason.
func DefaultResult() *ValidationResult {
	return &ValidationResult{}
}

// NewPassResult lets the call through and forwards reason to the agent.
func NewPassResult(reason string) *ValidationResult {
	return &ValidationResult{Reason: reason}
}

// NewApproveResult explicitly approves the tool call.
func NewApproveResult(reason string) *ValidationResult {
	return &ValidationResult{Decision: DecisionApprove, Reason: reason}
}

// NewBlockResult blocks the tool call.
func NewBlockResult(reason string) *ValidationResult {
	return &ValidationResult{Decision: DecisionBlock, Reason: reason}
}

// IsBlocked reports whether the tool call must not run.
func (r *ValidationResult) IsBlocked() bool {
	return r != nil && r.Decision == DecisionBlock
}
