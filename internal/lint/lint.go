// Package lint runs project linters on edited files and stores their findings
// as lint evidence.
package lint

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Severity of a single lint finding.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

var (
	ErrInvalidResult = errors.New("invalid lint result")
	ErrLinterFailed  = errors.New("linter failed")
	ErrUnknownLinter = errors.New("unknown linter")
	ErrNoFilesToLint = errors.New("no files to lint")
)

// Issue is one finding reported by a linter.
type Issue struct {
	File     string   `json:"file"`
	Line     int      `json:"line"`
	Column   int      `json:"column"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	Rule     string   `json:"rule,omitempty"`
}

// Result is the latest lint run. HasNotifiedAboutLintIssues records whether
// the agent was already interrupted about these findings.
type Result struct {
	Timestamp                  time.Time `json:"timestamp"`
	Files                      []string  `json:"files"`
	Issues                     []Issue   `json:"issues"`
	ErrorCount                 int       `json:"errorCount"`
	WarningCount               int       `json:"warningCount"`
	HasNotifiedAboutLintIssues bool      `json:"hasNotifiedAboutLintIssues"`
}

// NewResult builds a Result and derives the counts from issues.
func NewResult(timestamp time.Time, files []string, issues []Issue) *Result {
	result := &Result{
		Timestamp: timestamp,
		Files:     files,
		Issues:    issues,
	}
	if result.Files == nil {
		result.Files = []string{}
	}
	if result.Issues == nil {
		result.Issues = []Issue{}
	}
	for _, issue := range result.Issues {
		if issue.Severity == SeverityWarning {
			result.WarningCount++
		} else {
			result.ErrorCount++
		}
	}
	return result
}

// Parse decodes stored lint evidence.
func Parse(raw string) (*Result, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidResult)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResult, err)
	}
	for _, required := range []string{"errorCount", "warningCount"} {
		if _, ok := fields[required]; !ok {
			return nil, fmt.Errorf("%w: missing %s", ErrInvalidResult, required)
		}
	}

	var result Result
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResult, err)
	}
	if result.ErrorCount < 0 || result.WarningCount < 0 {
		return nil, fmt.Errorf("%w: negative counts", ErrInvalidResult)
	}
	return &result, nil
}

// Marshal encodes the result for storage.
func (r *Result) Marshal() (string, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return "", fmt.Errorf("failed to marshal lint result: %w", err)
	}
	return string(data), nil
}

// HasIssues reports whether any error or warning was found.
func (r *Result) HasIssues() bool {
	return r.ErrorCount+r.WarningCount > 0
}

// SameIssues reports whether r and other describe the same findings, ignoring
// order, timestamps, and the notification flag.
func (r *Result) SameIssues(other *Result) bool {
	if other == nil {
		return false
	}
	if r.ErrorCount != other.ErrorCount || r.WarningCount != other.WarningCount {
		return false
	}
	if len(r.Issues) != len(other.Issues) {
		return false
	}

	a, b := fingerprints(r.Issues), fingerprints(other.Issues)
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func fingerprints(issues []Issue) []string {
	out := make([]string, 0, len(issues))
	for _, issue := range issues {
		out = append(out, fmt.Sprintf("%s:%d:%d:%s:%s:%s", issue.File, issue.Line, issue.Column, issue.Severity, issue.Rule, issue.Message))
	}
	sort.Strings(out)
	return out
}

// Refresh returns fresh with the notification flag carried over from previous
// only when both runs found the same issues. Any change in findings, including
// a clean run, resets the flag so the next occurrence is reported again.
func Refresh(previous, fresh *Result) *Result {
	updated := *fresh
	updated.HasNotifiedAboutLintIssues = previous != nil &&
		previous.HasNotifiedAboutLintIssues &&
		fresh.HasIssues() &&
		fresh.SameIssues(previous)
	return &updated
}
