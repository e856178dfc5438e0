package hooks

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/michael-freling/claude-tdd-guard/internal/storage"
)

const (
	testSession = "session-a"

	passingVitest = `{"framework":"vitest","testModules":[{"moduleId":"/project/src/calculator.test.js","tests":[{"name":"adds","fullName":"Calculator > adds","state":"passed"}]}]}`
	failingVitest = `{"framework":"vitest","testModules":[{"moduleId":"/project/src/calculator.test.js","tests":[{"name":"adds","fullName":"Calculator > adds","state":"failed","errors":[{"message":"expected 3 to be 4"}]}]}],"reason":"failed"}`
	passingPytest = `{"framework":"pytest","testModules":[{"moduleId":"/project/tests/test_calculator.py","tests":[{"name":"test_add","fullName":"tests/test_calculator.py::test_add","state":"passed"}]}]}`

	unnotifiedLint = `{"timestamp":"2026-10-16T09:00:00Z","files":["/project/src/calculator.js"],"issues":[{"file":"/project/src/calculator.js","line":1,"column":7,"severity":"error","message":"'x' is assigned a value but never used","rule":"no-unused-vars"}],"errorCount":1,"warningCount":0,"hasNotifiedAboutLintIssues":false}`
	cleanLint      = `{"timestamp":"2026-10-16T09:00:00Z","files":["/project/src/calculator.js"],"issues":[],"errorCount":0,"warningCount":0,"hasNotifiedAboutLintIssues":false}`
)

var errDiskFull = errors.New("disk full")

// hookPayload builds a hook payload. toolInput may be nil.
func hookPayload(t *testing.T, hookEventName, toolName string, toolInput map[string]any) []byte {
	t.Helper()
	data := map[string]any{
		"hook_event_name": hookEventName,
		"session_id":      testSession,
		"transcript_path": "/tmp/transcript.jsonl",
		"cwd":             "/project",
	}
	if toolName != "" {
		data["tool_name"] = toolName
	}
	if toolInput != nil {
		data["tool_input"] = toolInput
	}
	raw, err := json.Marshal(data)
	require.NoError(t, err)
	return raw
}

func promptPayload(t *testing.T, sessionID, prompt string) []byte {
	t.Helper()
	raw, err := json.Marshal(map[string]any{
		"hook_event_name": HookUserPromptSubmit,
		"session_id":      sessionID,
		"prompt":          prompt,
	})
	require.NoError(t, err)
	return raw
}

func editInput(filePath string) map[string]any {
	return map[string]any{
		"file_path":  filePath,
		"old_string": "def add(a, b):\n    pass",
		"new_string": "def add(a, b):\n    return a + b",
	}
}

func classify(t *testing.T, raw []byte) *HookEvent {
	t.Helper()
	event, err := Classify(raw)
	require.NoError(t, err)
	return event
}

// failingStorage fails Save or Get for selected keys.
type failingStorage struct {
	storage.Storage
	failSave map[storage.Key]bool
	failGet  map[storage.Key]bool
}

func newFailingStorage() *failingStorage {
	return &failingStorage{
		Storage:  storage.NewMemoryStorage(),
		failSave: map[storage.Key]bool{},
		failGet:  map[storage.Key]bool{},
	}
}

func (f *failingStorage) Save(key storage.Key, content string) error {
	if f.failSave[key] {
		return errDiskFull
	}
	return f.Storage.Save(key, content)
}

func (f *failingStorage) Get(key storage.Key) (string, error) {
	if f.failGet[key] {
		return "", errDiskFull
	}
	return f.Storage.Get(key)
}
