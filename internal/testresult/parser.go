package testresult

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/michael-freling/claude-tdd-guard/internal/filetype"
)

var (
	ErrNoTestResult     = errors.New("no test result")
	ErrInvalidResult    = errors.New("invalid test result")
	ErrLanguageMismatch = errors.New("test result language does not match edited file")
)

// Parser decodes stored test evidence for one language family.
type Parser interface {
	Language() filetype.Language
	Parse(raw string) (*Result, error)
}

type languageParser struct {
	language filetype.Language
}

// ParserFor returns the parser for the language of the file being edited.
// For Unknown languages the parser accepts results of any family.
func ParserFor(language filetype.Language) Parser {
	return &languageParser{language: language}
}

// ParserForFile selects the parser with filetype.Detect.
func ParserForFile(filePath string) Parser {
	return ParserFor(filetype.Detect(filePath))
}

func (p *languageParser) Language() filetype.Language {
	return p.language
}

// Parse decodes raw and rejects results recorded for a different language family.
func (p *languageParser) Parse(raw string) (*Result, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, ErrNoTestResult
	}

	result, err := decode(raw)
	if err != nil {
		return nil, err
	}

	if p.language == filetype.Unknown {
		return result, nil
	}

	if got := result.Language(); got != filetype.Unknown && got != p.language {
		return nil, fmt.Errorf("%w: result is %s, edit is %s", ErrLanguageMismatch, got, p.language)
	}
	return result, nil
}

func decode(raw string) (*Result, error) {
	var result Result
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResult, err)
	}

	if result.TestModules == nil {
		return nil, fmt.Errorf("%w: missing testModules", ErrInvalidResult)
	}

	for i, module := range result.TestModules {
		if module.ModuleID == "" {
			return nil, fmt.Errorf("%w: module %d has no moduleId", ErrInvalidResult, i)
		}
		for _, test := range module.Tests {
			switch test.State {
			case StatePassed, StateFailed, StateSkipped, StatePending:
			default:
				return nil, fmt.Errorf("%w: test %q has unknown state %q", ErrInvalidResult, test.FullName, test.State)
			}
		}
	}

	return &result, nil
}
