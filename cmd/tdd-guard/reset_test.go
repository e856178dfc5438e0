package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/michael-freling/claude-tdd-guard/internal/storage"
)

func TestResetCmd_Execute(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		wantConfig string
	}{
		{
			name:       "keeps guard state by default",
			args:       []string{"reset"},
			wantConfig: `{"sessions":{"s1":{"enabled":false}}}`,
		},
		{
			name:       "all clears guard state",
			args:       []string{"reset", "--all"},
			wantConfig: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolateEnv(t)
			dataDir := t.TempDir()
			store := storage.NewFileStorage(dataDir)
			require.NoError(t, store.Save(storage.KeyTest, failingPytest))
			require.NoError(t, store.Save(storage.KeyLint, notifiedLint))
			require.NoError(t, store.Save(storage.KeyConfig, `{"sessions":{"s1":{"enabled":false}}}`))
			require.NoError(t, store.Save(storage.ReminderKey("lint"), "2026-10-16T09:30:00Z"))

			stdout, _, err := execute(t, "", append([]string{"--data-dir", dataDir}, tt.args...)...)

			require.NoError(t, err)
			assert.Contains(t, stdout, dataDir)
			for _, key := range []storage.Key{storage.KeyTest, storage.KeyLint, storage.ReminderKey("lint")} {
				got, err := store.Get(key)
				require.NoError(t, err)
				assert.Empty(t, got, key)
			}
			got, err := store.Get(storage.KeyConfig)
			require.NoError(t, err)
			assert.Equal(t, tt.wantConfig, got)
		})
	}
}
