package validation

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/michael-freling/claude-tdd-guard/internal/filetype"
	"github.com/michael-freling/claude-tdd-guard/internal/lint"
	"github.com/michael-freling/claude-tdd-guard/internal/testresult"
	"github.com/michael-freling/claude-tdd-guard/internal/tool"
)

const (
	noTestOutput    = "No test output available."
	noTodos         = "No todos."
	noLintResults   = "No lint results."
	noLintIssues    = "No lint issues."
	noModifications = "No modifications recorded."
)

// formatModifications renders the recorded tool call. Edits become unified
// line diffs; writes show the full content. Anything unrecognized is shown raw.
func formatModifications(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return noModifications
	}

	var mod tool.Modification
	if err := json.Unmarshal([]byte(raw), &mod); err != nil || mod.ToolName == "" {
		return raw
	}

	var b strings.Builder
	switch mod.ToolName {
	case tool.Edit:
		var input tool.EditInput
		if err := json.Unmarshal(mod.ToolInput, &input); err != nil {
			return raw
		}
		writeHeader(&b, mod.ToolName, input.FilePath)
		writeDiff(&b, input.OldString, input.NewString)
	case tool.MultiEdit:
		var input tool.MultiEditInput
		if err := json.Unmarshal(mod.ToolInput, &input); err != nil {
			return raw
		}
		writeHeader(&b, mod.ToolName, input.FilePath)
		for i, edit := range input.Edits {
			fmt.Fprintf(&b, "Edit %d of %d:\n", i+1, len(input.Edits))
			writeDiff(&b, edit.OldString, edit.NewString)
		}
	case tool.Write:
		var input tool.WriteInput
		if err := json.Unmarshal(mod.ToolInput, &input); err != nil {
			return raw
		}
		writeHeader(&b, mod.ToolName, input.FilePath)
		b.WriteString("New file content:\n```\n")
		b.WriteString(ensureTrailingNewline(input.Content))
		b.WriteString("```\n")
	default:
		return raw
	}
	return strings.TrimRight(b.String(), "\n")
}

func writeHeader(b *strings.Builder, toolName, filePath string) {
	fmt.Fprintf(b, "Tool: %s\n", toolName)
	fmt.Fprintf(b, "File: %s\n", filePath)
	if filetype.IsTestFile(filePath) {
		b.WriteString("File kind: test\n")
	} else {
		b.WriteString("File kind: implementation\n")
	}
	b.WriteString("\n")
}

func writeDiff(b *strings.Builder, oldText, newText string) {
	b.WriteString("```diff\n")
	b.WriteString(unifiedLineDiff(oldText, newText))
	b.WriteString("```\n")
}

// unifiedLineDiff returns a line diff with -, + and space prefixes.
func unifiedLineDiff(oldText, newText string) string {
	dmp := diffmatchpatch.New()
	rOld, rNew, lineArray := dmp.DiffLinesToRunes(
		ensureTrailingNewline(oldText),
		ensureTrailingNewline(newText),
	)
	diffs := dmp.DiffCleanupMerge(dmp.DiffMainRunes(rOld, rNew, false))

	var b strings.Builder
	for _, d := range diffs {
		prefix := " "
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "-"
		case diffmatchpatch.DiffInsert:
			prefix = "+"
		}
		for _, r := range d.Text {
			idx := int(r)
			if idx < 0 || idx >= len(lineArray) {
				continue
			}
			b.WriteString(prefix)
			b.WriteString(lineArray[idx])
		}
	}
	return b.String()
}

func ensureTrailingNewline(s string) string {
	if s == "" || strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}

// formatTestOutput renders each module as a "❯ <moduleId>" line followed by its tests.
// When filePath is set, a closing line says whether any module matches the edited file.
func formatTestOutput(raw, filePath string) string {
	if strings.TrimSpace(raw) == "" {
		return noTestOutput
	}

	result, err := testresult.ParserFor(filetype.Unknown).Parse(raw)
	if err != nil {
		return raw
	}
	if len(result.TestModules) == 0 && len(result.UnhandledErrors) == 0 {
		return noTestOutput
	}

	var b strings.Builder
	if result.Framework != testresult.FrameworkUnknown {
		fmt.Fprintf(&b, "Framework: %s\n\n", result.Framework)
	}
	for _, module := range result.TestModules {
		fmt.Fprintf(&b, "❯ %s\n", module.ModuleID)
		for _, test := range module.Tests {
			fmt.Fprintf(&b, "  %s %s\n", stateSymbol(test.State), testName(test))
			for _, testErr := range test.Errors {
				fmt.Fprintf(&b, "    → %s\n", testErr.Message)
			}
		}
	}

	if len(result.UnhandledErrors) > 0 {
		b.WriteString("\nUnhandled errors:\n")
		for _, unhandled := range result.UnhandledErrors {
			fmt.Fprintf(&b, "  - %s\n", unhandled.Message)
		}
	}

	passed, failed, skipped := countStates(result)
	fmt.Fprintf(&b, "\nTests: %d passed, %d failed, %d skipped\n", passed, failed, skipped)
	if result.Reason != "" {
		fmt.Fprintf(&b, "Run result: %s\n", result.Reason)
	}
	if filePath != "" {
		if result.CoversFile(filePath) {
			fmt.Fprintf(&b, "Edited file %s: a module in this run matches it.\n", filePath)
		} else {
			fmt.Fprintf(&b, "Edited file %s: no module in this run matches it.\n", filePath)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func stateSymbol(state testresult.State) string {
	switch state {
	case testresult.StatePassed:
		return "✓"
	case testresult.StateFailed:
		return "×"
	default:
		return "↓"
	}
}

func testName(test testresult.Test) string {
	if test.FullName != "" {
		return test.FullName
	}
	return test.Name
}

func countStates(result *testresult.Result) (passed, failed, skipped int) {
	for _, module := range result.TestModules {
		for _, test := range module.Tests {
			switch test.State {
			case testresult.StatePassed:
				passed++
			case testresult.StateFailed:
				failed++
			default:
				skipped++
			}
		}
	}
	return passed, failed, skipped
}

func formatTodos(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return noTodos
	}

	var todos []tool.Todo
	if err := json.Unmarshal([]byte(raw), &todos); err != nil {
		return raw
	}
	if len(todos) == 0 {
		return noTodos
	}

	lines := make([]string, 0, len(todos))
	for _, item := range todos {
		line := fmt.Sprintf("- [%s] %s", item.Status, item.Content)
		if item.Priority != "" {
			line += fmt.Sprintf(" (priority: %s)", item.Priority)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func formatLint(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return noLintResults
	}

	result, err := lint.Parse(raw)
	if err != nil {
		return raw
	}
	if !result.HasIssues() {
		return noLintIssues
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Errors: %d, Warnings: %d\n", result.ErrorCount, result.WarningCount)
	for _, issue := range result.Issues {
		fmt.Fprintf(&b, "- %s:%d:%d [%s] %s", issue.File, issue.Line, issue.Column, issue.Severity, issue.Message)
		if issue.Rule != "" {
			fmt.Fprintf(&b, " (%s)", issue.Rule)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
