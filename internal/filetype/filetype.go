// Package filetype maps edited files onto the language families that test
// evidence is recorded for.
package filetype

import (
	"path/filepath"
	"strings"
)

// Language is a language family whose test output can be told apart from the others.
type Language string

const (
	Unknown    Language = ""
	JavaScript Language = "javascript"
	Python     Language = "python"
	Go         Language = "go"
)

// TypeScript files share the JavaScript test runners, so they map onto the same family.
var extToLanguage = map[string]Language{
	".js":  JavaScript,
	".mjs": JavaScript,
	".cjs": JavaScript,
	".jsx": JavaScript,
	".ts":  JavaScript,
	".mts": JavaScript,
	".cts": JavaScript,
	".tsx": JavaScript,
	".py":  Python,
	".pyi": Python,
	".go":  Go,
}

// Detect returns the language family of filePath, or Unknown when the extension is not recognized.
func Detect(filePath string) Language {
	ext := strings.ToLower(filepath.Ext(filePath))
	return extToLanguage[ext]
}

// IsTestFile reports whether filePath looks like a test file for its language.
func IsTestFile(filePath string) bool {
	base := strings.ToLower(filepath.Base(filePath))
	slashed := filepath.ToSlash(strings.ToLower(filePath))

	switch Detect(filePath) {
	case Python:
		return strings.HasPrefix(base, "test_") || strings.HasSuffix(base, "_test.py")
	case Go:
		return strings.HasSuffix(base, "_test.go")
	}

	return strings.Contains(base, ".test.") ||
		strings.Contains(base, ".spec.") ||
		strings.Contains(slashed, "/test/") ||
		strings.Contains(slashed, "/tests/") ||
		strings.Contains(slashed, "/__tests__/")
}

// String returns the name used in prompts and status output.
func (l Language) String() string {
	if l == Unknown {
		return "unknown"
	}
	return string(l)
}
