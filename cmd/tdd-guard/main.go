package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/michael-freling/claude-tdd-guard/internal/command"
	"github.com/michael-freling/claude-tdd-guard/internal/config"
	"github.com/michael-freling/claude-tdd-guard/internal/debuglog"
	"github.com/michael-freling/claude-tdd-guard/internal/hooks"
	"github.com/michael-freling/claude-tdd-guard/internal/lint"
	"github.com/michael-freling/claude-tdd-guard/internal/storage"
)

// exitCodeBlock tells the agent that the hook failed and the tool call must not run.
const exitCodeBlock = 2

var (
	configPath string
	dataDir    string
	debug      bool
)

// exitError carries a specific process exit code out of a command.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		var exitErr *exitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.code)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "tdd-guard",
		Short: "Enforce Test-Driven Development for AI coding agents",
		Long: `A Claude Code hook that reviews every file edit against the Red-Green-Refactor cycle,
using the latest test and lint results as evidence, and blocks edits that skip a step.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file (default <project>/.claude/tdd-guard/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "directory holding the stored evidence")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "write a debug log to <data-dir>/debug.log")

	rootCmd.AddCommand(newHookCmd())
	rootCmd.AddCommand(newStatusCmd())
	rootCmd.AddCommand(newResetCmd())

	return rootCmd
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(config.Options{
		ConfigPath: configPath,
		DataDir:    dataDir,
		Debug:      debug,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

func newHookCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hook",
		Short: "Process one hook event",
		Long: `Reads a hook event from stdin as JSON and prints the validation result as JSON.
Exits with code 2 when the result cannot be determined so that the agent stops.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("failed to read hook input: %w", err)
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			logger, closeLog := debuglog.Open(cfg.DebugLogPath(), cfg.Debug)
			defer closeLog()
			ctx := debuglog.WithLogger(cmd.Context(), logger)

			runner := command.NewRunner()
			linter, err := lint.NewLinter(cfg.Linter, runner, cfg.ProjectDir)
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "tdd-guard: linting disabled: %v\n", err)
				linter = nil
			}

			store := storage.NewFileStorage(cfg.DataDir)
			processor := hooks.NewProcessor(store, newLazyDecider(cfg, runner), linter)

			result, err := processor.ProcessHookData(ctx, input)
			if err != nil {
				logger.Debug("hook failed", "error", err.Error())
				return &exitError{code: exitCodeBlock, err: err}
			}

			out, err := json.Marshal(result)
			if err != nil {
				return &exitError{code: exitCodeBlock, err: fmt.Errorf("failed to encode result: %w", err)}
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
}
