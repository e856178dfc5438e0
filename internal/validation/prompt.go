package validation

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/michael-freling/claude-tdd-guard/internal/templates"
)

// PromptGenerator renders the review prompt for an evidence bundle.
type PromptGenerator interface {
	Generate(c Context) (string, error)
}

type promptGenerator struct {
	template       *template.Template
	corePrinciples string
	fileTypeRules  string
	responseFormat string
}

type promptData struct {
	CorePrinciples string
	FileTypeRules  string
	ResponseFormat string
	FileType       string
	Modifications  string
	TestOutput     string
	Todos          string
	Lint           string
}

// NewPromptGenerator loads the embedded prompt template and rule texts.
func NewPromptGenerator() (PromptGenerator, error) {
	content, err := templates.FS.ReadFile("validation/prompt.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to read prompt template: %w", err)
	}
	tmpl, err := template.New("prompt.tmpl").Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse prompt template: %w", err)
	}

	pg := &promptGenerator{template: tmpl}
	rules := []struct {
		name   string
		target *string
	}{
		{"tdd-core-principles.md", &pg.corePrinciples},
		{"file-type-rules.md", &pg.fileTypeRules},
		{"response-format.md", &pg.responseFormat},
	}
	for _, rule := range rules {
		data, err := templates.FS.ReadFile("validation/" + rule.name)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", rule.name, err)
		}
		*rule.target = string(data)
	}
	return pg, nil
}

func (p *promptGenerator) Generate(c Context) (string, error) {
	data := promptData{
		CorePrinciples: p.corePrinciples,
		FileTypeRules:  p.fileTypeRules,
		ResponseFormat: p.responseFormat,
		FileType:       c.FileTypeHint.String(),
		Modifications:  formatModifications(c.Modifications),
		TestOutput:     formatTestOutput(c.Test, c.FilePath),
		Todos:          formatTodos(c.Todo),
		Lint:           formatLint(c.Lint),
	}

	var buf bytes.Buffer
	if err := p.template.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute prompt template: %w", err)
	}
	return buf.String(), nil
}
