package hooks

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/michael-freling/claude-tdd-guard/internal/debuglog"
	"github.com/michael-freling/claude-tdd-guard/internal/storage"
	"github.com/michael-freling/claude-tdd-guard/internal/validation"
)

// User prompts that toggle the guard.
const (
	CommandOn  = "tdd-guard on"
	CommandOff = "tdd-guard off"
)

const (
	enabledReason  = "TDD Guard enabled"
	disabledReason = "TDD Guard disabled"

	// DisabledResultReason is returned for every tool call while the guard is off.
	DisabledResultReason = "TDD Guard is disabled. Type 'tdd-guard on' to resume test-driven gating."

	sessionsField  = "sessions"
	defaultSession = "default"
)

// SessionState is the guard state of one session.
type SessionState struct {
	Enabled   bool      `json:"enabled"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// SessionGuard enables and disables gating per session. The state lives in the
// config blob next to any other settings stored there.
type SessionGuard struct {
	store storage.Storage
	now   func() time.Time
}

// NewSessionGuard creates a guard backed by store.
func NewSessionGuard(store storage.Storage) *SessionGuard {
	return &SessionGuard{
		store: store,
		now:   time.Now,
	}
}

// ProcessUserCommand applies a "tdd-guard on|off" prompt. It returns nil when the
// prompt is not a guard command.
func (g *SessionGuard) ProcessUserCommand(ctx context.Context, event *HookEvent) (*validation.ValidationResult, error) {
	var enabled bool
	switch strings.ToLower(strings.TrimSpace(event.Prompt)) {
	case CommandOn:
		enabled = true
	case CommandOff:
		enabled = false
	default:
		return nil, nil
	}

	if err := g.SetEnabled(ctx, event.SessionID, enabled); err != nil {
		return nil, err
	}
	if enabled {
		return validation.NewPassResult(enabledReason), nil
	}
	return validation.NewPassResult(disabledReason), nil
}

// GetDisabledResult returns the pass-through approval used while the guard is
// off for sessionID, or nil while it is on.
func (g *SessionGuard) GetDisabledResult(ctx context.Context, sessionID string) *validation.ValidationResult {
	if g.IsEnabled(ctx, sessionID) {
		return nil
	}
	return validation.NewApproveResult(DisabledResultReason)
}

// IsEnabled reports whether gating is on. Unreadable state counts as on.
func (g *SessionGuard) IsEnabled(ctx context.Context, sessionID string) bool {
	sessions, _, err := g.load()
	if err != nil {
		debuglog.FromContext(ctx).Debug("guard state unreadable, treating as enabled", "error", err.Error())
		return true
	}

	state, ok := sessions[sessionKey(sessionID)]
	if !ok {
		return true
	}
	return state.Enabled
}

// SetEnabled persists the guard state of sessionID.
func (g *SessionGuard) SetEnabled(ctx context.Context, sessionID string, enabled bool) error {
	sessions, blob, err := g.load()
	if err != nil {
		debuglog.FromContext(ctx).Debug("replacing unreadable guard state", "error", err.Error())
		sessions = map[string]SessionState{}
		blob = map[string]json.RawMessage{}
	}

	sessions[sessionKey(sessionID)] = SessionState{
		Enabled:   enabled,
		UpdatedAt: g.now().UTC(),
	}

	encoded, err := json.Marshal(sessions)
	if err != nil {
		return fmt.Errorf("failed to marshal guard sessions: %w", err)
	}
	blob[sessionsField] = encoded

	data, err := json.Marshal(blob)
	if err != nil {
		return fmt.Errorf("failed to marshal guard config: %w", err)
	}
	if err := g.store.Save(storage.KeyConfig, string(data)); err != nil {
		return fmt.Errorf("failed to save guard state: %w", err)
	}

	debuglog.FromContext(ctx).Debug("guard state changed", "session", sessionID, "enabled", enabled)
	return nil
}

// Sessions returns the stored state of every session.
func (g *SessionGuard) Sessions() (map[string]SessionState, error) {
	sessions, _, err := g.load()
	return sessions, err
}

// load returns the sessions and the whole config blob so unrelated keys survive a save.
func (g *SessionGuard) load() (map[string]SessionState, map[string]json.RawMessage, error) {
	raw, err := g.store.Get(storage.KeyConfig)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read guard state: %w", err)
	}

	sessions := map[string]SessionState{}
	blob := map[string]json.RawMessage{}
	if strings.TrimSpace(raw) == "" {
		return sessions, blob, nil
	}

	if err := json.Unmarshal([]byte(raw), &blob); err != nil {
		return nil, nil, fmt.Errorf("invalid guard config: %w", err)
	}
	if encoded, ok := blob[sessionsField]; ok {
		if err := json.Unmarshal(encoded, &sessions); err != nil {
			return nil, nil, fmt.Errorf("invalid guard sessions: %w", err)
		}
	}
	if sessions == nil {
		sessions = map[string]SessionState{}
	}
	return sessions, blob, nil
}

func sessionKey(sessionID string) string {
	if sessionID == "" {
		return defaultSession
	}
	return sessionID
}
