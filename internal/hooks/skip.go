package hooks

import (
	"path/filepath"
	"strings"
)

var nonCodeExtensions = map[string]struct{}{
	".md":   {},
	".txt":  {},
	".log":  {},
	".json": {},
	".yml":  {},
	".yaml": {},
	".xml":  {},
	".html": {},
	".css":  {},
	".rst":  {},
}

// ShouldSkipValidation reports whether a pre-execution event is out of scope:
// todo updates, calls that are not recognized file edits, and edits of non-code files.
func ShouldSkipValidation(event *HookEvent) bool {
	op, err := event.Operation()
	if err != nil {
		return true
	}
	if op.IsTodoWrite() {
		return true
	}
	return IsNonCodeFile(op.FilePath())
}

// IsNonCodeFile reports whether path has a documentation, data, or markup extension.
func IsNonCodeFile(path string) bool {
	_, ok := nonCodeExtensions[strings.ToLower(filepath.Ext(path))]
	return ok
}
