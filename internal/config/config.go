// Package config resolves tdd-guard settings from defaults, an optional YAML
// file, and the environment, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Model client names.
const (
	ModelClientClaudeCLI    = "claude-cli"
	ModelClientAnthropicAPI = "anthropic-api"
	ModelClientOpenAIAPI    = "openai-api"
)

const (
	defaultMaxTokens = 1024
	defaultClaude    = "claude"
	guardDirName     = "tdd-guard"
	configFileName   = "config.yaml"
)

var ErrInvalidConfig = errors.New("invalid config")

// Config holds every setting the hook needs.
type Config struct {
	ProjectDir string      `yaml:"project_dir"`
	DataDir    string      `yaml:"data_dir"`
	Linter     string      `yaml:"linter"`
	Debug      bool        `yaml:"debug"`
	Model      ModelConfig `yaml:"model"`
}

// ModelConfig selects and configures the decision model.
type ModelConfig struct {
	Client          string        `yaml:"client"`
	Name            string        `yaml:"name"`
	AnthropicAPIKey string        `yaml:"anthropic_api_key"`
	OpenAIAPIKey    string        `yaml:"openai_api_key"`
	OpenAIBaseURL   string        `yaml:"openai_base_url"`
	MaxTokens       int           `yaml:"max_tokens"`
	Timeout         time.Duration `yaml:"timeout"`
	ClaudePath      string        `yaml:"claude_path"`
}

// Options overrides resolution inputs; empty fields fall back to the environment.
type Options struct {
	ConfigPath string
	DataDir    string
	Debug      bool
	Getenv     func(string) string
	Getwd      func() (string, error)
}

// Default returns the configuration used when nothing else is set.
func Default(projectDir string) *Config {
	return &Config{
		ProjectDir: projectDir,
		DataDir:    DefaultDataDir(projectDir),
		Model: ModelConfig{
			Client:     ModelClientClaudeCLI,
			MaxTokens:  defaultMaxTokens,
			ClaudePath: defaultClaude,
		},
	}
}

// DefaultDataDir returns <projectDir>/.claude/tdd-guard/data.
func DefaultDataDir(projectDir string) string {
	return filepath.Join(projectDir, ".claude", guardDirName, "data")
}

// DefaultConfigPath returns <projectDir>/.claude/tdd-guard/config.yaml.
func DefaultConfigPath(projectDir string) string {
	return filepath.Join(projectDir, ".claude", guardDirName, configFileName)
}

// Load resolves the configuration. A missing config file is not an error.
func Load(opts Options) (*Config, error) {
	getenv := opts.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	getwd := opts.Getwd
	if getwd == nil {
		getwd = os.Getwd
	}

	projectDir := getenv("CLAUDE_PROJECT_DIR")
	if projectDir == "" {
		wd, err := getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve project directory: %w", err)
		}
		projectDir = wd
	}

	cfg := Default(projectDir)

	configPath := opts.ConfigPath
	explicit := configPath != ""
	if !explicit {
		configPath = DefaultConfigPath(projectDir)
	}
	if err := cfg.loadFile(configPath, explicit); err != nil {
		return nil, err
	}

	// A data dir left unset by the file follows a project dir the file may have changed.
	if cfg.DataDir == "" || cfg.DataDir == DefaultDataDir(projectDir) {
		cfg.DataDir = DefaultDataDir(cfg.ProjectDir)
	}

	if err := cfg.applyEnv(getenv); err != nil {
		return nil, err
	}

	if opts.DataDir != "" {
		cfg.DataDir = opts.DataDir
	}
	if opts.Debug {
		cfg.Debug = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string, explicit bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("%w: failed to parse config file %s: %v", ErrInvalidConfig, path, err)
	}
	return nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	setString := func(target *string, keys ...string) {
		for _, key := range keys {
			if v := strings.TrimSpace(getenv(key)); v != "" {
				*target = v
				return
			}
		}
	}

	setString(&c.DataDir, "TDD_GUARD_DATA_DIR")
	setString(&c.Linter, "LINTER_TYPE")
	setString(&c.Model.Client, "TDD_GUARD_MODEL_CLIENT")
	setString(&c.Model.Name, "TDD_GUARD_MODEL")
	setString(&c.Model.AnthropicAPIKey, "TDD_GUARD_ANTHROPIC_API_KEY", "ANTHROPIC_API_KEY")
	setString(&c.Model.OpenAIAPIKey, "TDD_GUARD_OPENAI_API_KEY", "OPENAI_API_KEY")
	setString(&c.Model.OpenAIBaseURL, "TDD_GUARD_OPENAI_BASE_URL")
	setString(&c.Model.ClaudePath, "TDD_GUARD_CLAUDE_PATH")

	if v := strings.TrimSpace(getenv("TDD_GUARD_DEBUG")); v != "" {
		debug, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: TDD_GUARD_DEBUG=%q is not a boolean", ErrInvalidConfig, v)
		}
		c.Debug = debug
	}
	return nil
}

// Validate checks that the configuration can be used.
func (c *Config) Validate() error {
	switch c.Model.Client {
	case ModelClientClaudeCLI, ModelClientAnthropicAPI, ModelClientOpenAIAPI:
	default:
		return fmt.Errorf("%w: unknown model client %q", ErrInvalidConfig, c.Model.Client)
	}

	if c.DataDir == "" {
		return fmt.Errorf("%w: data directory is empty", ErrInvalidConfig)
	}
	if c.Model.MaxTokens <= 0 {
		return fmt.Errorf("%w: model.max_tokens must be positive", ErrInvalidConfig)
	}
	if c.Model.Timeout < 0 {
		return fmt.Errorf("%w: model.timeout must not be negative", ErrInvalidConfig)
	}
	return nil
}

// ClaudeWorkDir is the directory the Claude CLI runs in, kept apart from the
// project so that the validation call does not pick up project settings.
func (c *Config) ClaudeWorkDir() string {
	return filepath.Join(c.DataDir, "claude")
}

// DebugLogPath is where debug logs are written when enabled.
func (c *Config) DebugLogPath() string {
	return filepath.Join(c.DataDir, "debug.log")
}
