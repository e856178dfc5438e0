package hooks

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/michael-freling/claude-tdd-guard/internal/storage"
	"github.com/michael-freling/claude-tdd-guard/internal/validation"
)

var guardNow = time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)

func newTestGuard(store storage.Storage) *SessionGuard {
	guard := NewSessionGuard(store)
	guard.now = func() time.Time { return guardNow }
	return guard
}

func TestSessionGuard_ProcessUserCommand(t *testing.T) {
	tests := []struct {
		name        string
		prompt      string
		want        *validation.ValidationResult
		wantEnabled bool
	}{
		{name: "off", prompt: "tdd-guard off", want: validation.NewPassResult("TDD Guard disabled"), wantEnabled: false},
		{name: "on", prompt: "tdd-guard on", want: validation.NewPassResult("TDD Guard enabled"), wantEnabled: true},
		{name: "case and whitespace", prompt: "  TDD-Guard OFF\n", want: validation.NewPassResult("TDD Guard disabled"), wantEnabled: false},
		{name: "not a command", prompt: "please turn tdd-guard off", want: nil, wantEnabled: true},
		{name: "empty prompt", prompt: "", want: nil, wantEnabled: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			guard := newTestGuard(storage.NewMemoryStorage())

			got, err := guard.ProcessUserCommand(ctx, classify(t, promptPayload(t, testSession, tt.prompt)))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantEnabled, guard.IsEnabled(ctx, testSession))
		})
	}
}

func TestSessionGuard_GetDisabledResult(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStorage()
	guard := newTestGuard(store)

	assert.Nil(t, guard.GetDisabledResult(ctx, testSession), "enabled by default")

	require.NoError(t, guard.SetEnabled(ctx, testSession, false))
	got := guard.GetDisabledResult(ctx, testSession)
	require.NotNil(t, got)
	assert.Equal(t, validation.DecisionApprove, got.Decision)
	assert.Contains(t, got.Reason, "TDD Guard is disabled.")

	require.NoError(t, guard.SetEnabled(ctx, testSession, true))
	assert.Nil(t, guard.GetDisabledResult(ctx, testSession))
}

func TestSessionGuard_SessionsAreIsolated(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStorage()
	guard := newTestGuard(store)

	_, err := guard.ProcessUserCommand(ctx, classify(t, promptPayload(t, "session-a", "tdd-guard off")))
	require.NoError(t, err)

	assert.False(t, guard.IsEnabled(ctx, "session-a"))
	assert.True(t, guard.IsEnabled(ctx, "session-b"))

	sessions, err := guard.Sessions()
	require.NoError(t, err)
	assert.Equal(t, map[string]SessionState{
		"session-a": {Enabled: false, UpdatedAt: guardNow},
	}, sessions)
}

func TestSessionGuard_StoredFormat(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStorage()
	require.NoError(t, store.Save(storage.KeyConfig, `{"linter":"eslint"}`))
	guard := newTestGuard(store)

	require.NoError(t, guard.SetEnabled(ctx, "s1", false))

	got, err := store.Get(storage.KeyConfig)
	require.NoError(t, err)
	assert.JSONEq(t, `{"linter":"eslint","sessions":{"s1":{"enabled":false,"updatedAt":"2026-10-16T09:00:00Z"}}}`, got)
}

func TestSessionGuard_EmptySessionID(t *testing.T) {
	ctx := context.Background()
	guard := newTestGuard(storage.NewMemoryStorage())

	require.NoError(t, guard.SetEnabled(ctx, "", false))
	assert.False(t, guard.IsEnabled(ctx, ""))
	assert.True(t, guard.IsEnabled(ctx, "other"))
}

func TestSessionGuard_UnreadableStateCountsAsEnabled(t *testing.T) {
	tests := []struct {
		name  string
		store func() storage.Storage
	}{
		{
			name: "corrupt config",
			store: func() storage.Storage {
				s := storage.NewMemoryStorage()
				_ = s.Save(storage.KeyConfig, "{not json")
				return s
			},
		},
		{
			name: "sessions of the wrong type",
			store: func() storage.Storage {
				s := storage.NewMemoryStorage()
				_ = s.Save(storage.KeyConfig, `{"sessions":[1,2]}`)
				return s
			},
		},
		{
			name: "read failure",
			store: func() storage.Storage {
				s := newFailingStorage()
				s.failGet[storage.KeyConfig] = true
				return s
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			guard := newTestGuard(tt.store())
			assert.True(t, guard.IsEnabled(context.Background(), testSession))
			assert.Nil(t, guard.GetDisabledResult(context.Background(), testSession))
		})
	}
}

func TestSessionGuard_CorruptConfigIsReplaced(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStorage()
	require.NoError(t, store.Save(storage.KeyConfig, "{not json"))
	guard := newTestGuard(store)

	require.NoError(t, guard.SetEnabled(ctx, testSession, false))
	assert.False(t, guard.IsEnabled(ctx, testSession))
}

func TestSessionGuard_SaveFailure(t *testing.T) {
	store := newFailingStorage()
	store.failSave[storage.KeyConfig] = true
	guard := newTestGuard(store)

	_, err := guard.ProcessUserCommand(context.Background(), classify(t, promptPayload(t, testSession, "tdd-guard off")))
	require.Error(t, err)
	assert.ErrorIs(t, err, errDiskFull)
}
