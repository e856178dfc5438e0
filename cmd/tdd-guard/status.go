package main

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/michael-freling/claude-tdd-guard/internal/filetype"
	"github.com/michael-freling/claude-tdd-guard/internal/hooks"
	"github.com/michael-freling/claude-tdd-guard/internal/lint"
	"github.com/michael-freling/claude-tdd-guard/internal/storage"
	"github.com/michael-freling/claude-tdd-guard/internal/testresult"
	"github.com/michael-freling/claude-tdd-guard/internal/tool"
)

type statusReport struct {
	DataDir      string          `yaml:"data_dir"`
	Sessions     []sessionStatus `yaml:"sessions,omitempty"`
	Test         testStatus      `yaml:"test"`
	Lint         lintStatus      `yaml:"lint"`
	Todo         string          `yaml:"todo"`
	Modification string          `yaml:"modification"`
	LintReminder string          `yaml:"lint_reminder,omitempty"`
}

type sessionStatus struct {
	ID        string `yaml:"id"`
	Enabled   bool   `yaml:"enabled"`
	UpdatedAt string `yaml:"updated_at,omitempty"`
}

type testStatus struct {
	Present   bool     `yaml:"present"`
	Framework string   `yaml:"framework,omitempty"`
	Language  string   `yaml:"language,omitempty"`
	Modules   []string `yaml:"modules,omitempty"`
	Passing   bool     `yaml:"passing"`
	Failing   []string `yaml:"failing,omitempty"`
	Error     string   `yaml:"error,omitempty"`
}

type lintStatus struct {
	Present  bool   `yaml:"present"`
	Errors   int    `yaml:"errors"`
	Warnings int    `yaml:"warnings"`
	Notified bool   `yaml:"notified"`
	Error    string `yaml:"error,omitempty"`
}

func newStatusCmd() *cobra.Command {
	var sessionID string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show guard state and stored evidence",
		Long:  `Prints the guard state of each session and a summary of the stored test, lint, todo, and modification evidence as YAML.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			store := storage.NewFileStorage(cfg.DataDir)
			report, err := buildStatus(cmd.Context(), store, sessionID)
			if err != nil {
				return err
			}
			report.DataDir = store.DataDir()

			out, err := yaml.Marshal(report)
			if err != nil {
				return fmt.Errorf("failed to encode status: %w", err)
			}
			fmt.Fprint(cmd.OutOrStdout(), string(out))
			return nil
		},
	}

	cmd.Flags().StringVar(&sessionID, "session", "", "only show the guard state of this session")

	return cmd
}

func buildStatus(ctx context.Context, store storage.Storage, sessionID string) (*statusReport, error) {
	report := &statusReport{}

	guard := hooks.NewSessionGuard(store)
	sessions, err := guard.Sessions()
	if err != nil {
		return nil, err
	}
	if sessionID != "" {
		state, ok := sessions[sessionID]
		if !ok {
			state = hooks.SessionState{Enabled: guard.IsEnabled(ctx, sessionID)}
		}
		sessions = map[string]hooks.SessionState{sessionID: state}
	}
	ids := make([]string, 0, len(sessions))
	for id := range sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		state := sessions[id]
		session := sessionStatus{ID: id, Enabled: state.Enabled}
		if !state.UpdatedAt.IsZero() {
			session.UpdatedAt = state.UpdatedAt.UTC().Format(time.RFC3339)
		}
		report.Sessions = append(report.Sessions, session)
	}

	rawTest, err := store.Get(storage.KeyTest)
	if err != nil {
		return nil, fmt.Errorf("failed to read test evidence: %w", err)
	}
	if rawTest != "" {
		report.Test.Present = true
		result, err := testresult.ParserFor(filetype.Unknown).Parse(rawTest)
		if err != nil {
			report.Test.Error = err.Error()
		} else {
			report.Test.Framework = string(result.Framework)
			report.Test.Language = result.Language().String()
			report.Test.Modules = result.ModuleIDs()
			report.Test.Passing = result.IsPassing()
			for _, test := range result.FailedTests() {
				name := test.FullName
				if name == "" {
					name = test.Name
				}
				report.Test.Failing = append(report.Test.Failing, name)
			}
		}
	}

	rawLint, err := store.Get(storage.KeyLint)
	if err != nil {
		return nil, fmt.Errorf("failed to read lint evidence: %w", err)
	}
	if rawLint != "" {
		report.Lint.Present = true
		result, err := lint.Parse(rawLint)
		if err != nil {
			report.Lint.Error = err.Error()
		} else {
			report.Lint.Errors = result.ErrorCount
			report.Lint.Warnings = result.WarningCount
			report.Lint.Notified = result.HasNotifiedAboutLintIssues
		}
	}

	if report.Todo, err = summarizeTodo(store); err != nil {
		return nil, err
	}
	if report.Modification, err = summarizeModification(store); err != nil {
		return nil, err
	}

	at, ok, err := storage.GetReminderAttempt(store, hooks.LintReminder)
	if err != nil {
		return nil, fmt.Errorf("failed to read lint reminder: %w", err)
	}
	if ok {
		report.LintReminder = at.UTC().Format(time.RFC3339)
	}
	return report, nil
}

func summarizeTodo(store storage.Storage) (string, error) {
	raw, err := store.Get(storage.KeyTodo)
	if err != nil {
		return "", fmt.Errorf("failed to read todo evidence: %w", err)
	}
	if raw == "" {
		return "none", nil
	}

	var todos []tool.Todo
	if err := json.Unmarshal([]byte(raw), &todos); err != nil {
		return "unreadable", nil
	}
	open := 0
	for _, todo := range todos {
		if todo.Status != tool.TodoCompleted {
			open++
		}
	}
	return fmt.Sprintf("%d items, %d open", len(todos), open), nil
}

func summarizeModification(store storage.Storage) (string, error) {
	raw, err := store.Get(storage.KeyModifications)
	if err != nil {
		return "", fmt.Errorf("failed to read modification evidence: %w", err)
	}
	if raw == "" {
		return "none", nil
	}

	var mod tool.Modification
	if err := json.Unmarshal([]byte(raw), &mod); err != nil || mod.ToolName == "" {
		return "unreadable", nil
	}
	op, err := hooks.ParseToolOperation(mod.ToolName, mod.ToolInput)
	if err != nil || op.FilePath() == "" {
		return mod.ToolName, nil
	}
	return fmt.Sprintf("%s %s", op.ToolName, op.FilePath()), nil
}
