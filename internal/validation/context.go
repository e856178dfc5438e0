package validation

import (
	"context"
	"errors"
	"fmt"

	"github.com/michael-freling/claude-tdd-guard/internal/debuglog"
	"github.com/michael-freling/claude-tdd-guard/internal/filetype"
	"github.com/michael-freling/claude-tdd-guard/internal/storage"
	"github.com/michael-freling/claude-tdd-guard/internal/testresult"
)

// Context is the evidence bundle handed to a Decider.
// The evidence strings are the stored values as they were at build time.
type Context struct {
	Modifications string
	Test          string
	Todo          string
	Lint          string
	FilePath      string
	FileTypeHint  filetype.Language
}

// BuildContext reads the evidence for an edit of filePath from store.
// Test evidence recorded for another language family is left out.
func BuildContext(ctx context.Context, store storage.Storage, filePath string) (Context, error) {
	result := Context{
		FilePath:     filePath,
		FileTypeHint: filetype.Detect(filePath),
	}

	fields := []struct {
		key    storage.Key
		target *string
	}{
		{storage.KeyModifications, &result.Modifications},
		{storage.KeyTest, &result.Test},
		{storage.KeyTodo, &result.Todo},
		{storage.KeyLint, &result.Lint},
	}
	for _, field := range fields {
		value, err := store.Get(field.key)
		if err != nil {
			return Context{}, fmt.Errorf("failed to read %s evidence: %w", field.key, err)
		}
		*field.target = value
	}

	if result.Test != "" {
		_, err := testresult.ParserFor(result.FileTypeHint).Parse(result.Test)
		if errors.Is(err, testresult.ErrLanguageMismatch) {
			debuglog.FromContext(ctx).Debug("dropping test evidence for another language",
				"file", filePath,
				"error", err.Error(),
			)
			result.Test = ""
		}
	}

	return result, nil
}
