// Package testresult decodes the test run evidence written by the test
// reporters and decides whether it can be trusted for a given edit.
package testresult

import (
	"path/filepath"
	"strings"

	"github.com/michael-freling/claude-tdd-guard/internal/filetype"
)

// Framework tags the reporter that produced a Result.
type Framework string

const (
	FrameworkUnknown Framework = ""
	FrameworkVitest  Framework = "vitest"
	FrameworkJest    Framework = "jest"
	FrameworkPytest  Framework = "pytest"
	FrameworkGoTest  Framework = "gotest"
)

// Language returns the language family the framework reports for.
func (f Framework) Language() filetype.Language {
	switch Framework(strings.ToLower(string(f))) {
	case FrameworkVitest, FrameworkJest:
		return filetype.JavaScript
	case FrameworkPytest:
		return filetype.Python
	case FrameworkGoTest:
		return filetype.Go
	default:
		return filetype.Unknown
	}
}

// State is the outcome of a single test.
type State string

const (
	StatePassed  State = "passed"
	StateFailed  State = "failed"
	StateSkipped State = "skipped"
	StatePending State = "pending"
)

// Error is a failure message attached to a test or to the run.
type Error struct {
	Message string `json:"message"`
	Stack   string `json:"stack,omitempty"`
}

// Test is one test case.
type Test struct {
	Name     string  `json:"name"`
	FullName string  `json:"fullName"`
	State    State   `json:"state"`
	Errors   []Error `json:"errors,omitempty"`
}

// Module is one test file with its tests.
type Module struct {
	ModuleID string `json:"moduleId"`
	Tests    []Test `json:"tests"`
}

// Result is the latest test run as stored by a reporter.
type Result struct {
	Framework       Framework `json:"framework,omitempty"`
	TestModules     []Module  `json:"testModules"`
	UnhandledErrors []Error   `json:"unhandledErrors,omitempty"`
	Reason          string    `json:"reason,omitempty"`
}

// Language returns the language family of the result. An explicit framework
// tag wins; otherwise the family is inferred from the module file names and is
// Unknown when the modules disagree.
func (r *Result) Language() filetype.Language {
	if lang := r.Framework.Language(); lang != filetype.Unknown {
		return lang
	}

	inferred := filetype.Unknown
	for _, module := range r.TestModules {
		lang := filetype.Detect(module.ModuleID)
		if lang == filetype.Unknown {
			continue
		}
		if inferred != filetype.Unknown && inferred != lang {
			return filetype.Unknown
		}
		inferred = lang
	}
	return inferred
}

// ModuleIDs returns the identities of the modules in the run.
func (r *Result) ModuleIDs() []string {
	ids := make([]string, 0, len(r.TestModules))
	for _, module := range r.TestModules {
		ids = append(ids, module.ModuleID)
	}
	return ids
}

// CoversFile reports whether any module in the run has the same base name stem as filePath,
// e.g. calculator.test.js or test_calculator.py for calculator.{js,py}.
func (r *Result) CoversFile(filePath string) bool {
	stem := fileStem(filePath)
	if stem == "" {
		return false
	}
	for _, id := range r.ModuleIDs() {
		if fileStem(id) == stem {
			return true
		}
	}
	return false
}

func fileStem(path string) string {
	base := strings.ToLower(filepath.Base(path))
	if i := strings.Index(base, "."); i >= 0 {
		base = base[:i]
	}
	base = strings.TrimPrefix(base, "test_")
	base = strings.TrimSuffix(base, "_test")
	return base
}

// IsPassing reports whether the run contains at least one passing test and nothing failed.
func (r *Result) IsPassing() bool {
	if r.Reason == "failed" || len(r.UnhandledErrors) > 0 {
		return false
	}

	passed := 0
	for _, module := range r.TestModules {
		for _, test := range module.Tests {
			switch test.State {
			case StatePassed:
				passed++
			case StateSkipped, StatePending:
			default:
				return false
			}
		}
	}
	return passed > 0
}

// FailedTests returns the tests in the failed state, in run order.
func (r *Result) FailedTests() []Test {
	var failed []Test
	for _, module := range r.TestModules {
		for _, test := range module.Tests {
			if test.State == StateFailed {
				failed = append(failed, test)
			}
		}
	}
	return failed
}
