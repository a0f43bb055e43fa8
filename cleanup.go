package reflexhook

import (
	"context"
	"log/slog"

	"github.com/flexigpt/reflexhook-go/internal/sessionstore"
	"github.com/flexigpt/reflexhook-go/spec"
)

// SessionCleanup clears a project's injected-so-far state when a Claude Code
// session starts fresh or ends. Compaction and resume keep state so that
// documents are not injected twice within one conversation.
//
// With PerSession set only the current session's file is removed, and
// compaction clears it as well.
type SessionCleanup struct {
	store  *sessionstore.FileStore
	logger *slog.Logger

	PerSession bool

	// Getenv resolves EnvProjectDir. Nil means os.Getenv.
	Getenv func(string) string
}

func NewSessionCleanup(logger *slog.Logger) *SessionCleanup {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionCleanup{store: sessionstore.NewFileStore(), logger: logger}
}

// ShouldClear reports whether in is an event that resets state.
func ShouldClear(in ClaudeHookInput) bool {
	switch in.HookEventName {
	case EventSessionStart:
		return in.Source == "startup" || in.Source == "clear"
	case EventSessionEnd:
		return true
	}
	return false
}

// Handle removes the state directory, or the session's file in PerSession
// mode, when the event calls for it. It reports whether a clear was
// attempted; failures are logged only.
func (c *SessionCleanup) Handle(ctx context.Context, in ClaudeHookInput) bool {
	if !c.shouldClear(in) {
		return false
	}
	dir := projectDir(in, c.Getenv)
	if c.PerSession {
		key := spec.SessionKey{WorkspaceDir: dir, ID: claudeSessionKey(in)}
		if err := c.store.Delete(ctx, key); err != nil {
			c.logger.Warn("session state not deleted", "workspace", dir, "session", key.ID, "err", err)
		}
		return true
	}
	if err := c.store.Clear(ctx, dir); err != nil {
		c.logger.Warn("session state not cleared", "workspace", dir, "err", err)
	}
	return true
}

func (c *SessionCleanup) shouldClear(in ClaudeHookInput) bool {
	if c.PerSession && in.HookEventName == EventSessionStart && in.Source == "compact" {
		return true
	}
	return ShouldClear(in)
}
