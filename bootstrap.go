package reflexhook

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/flexigpt/reflexhook-go/internal/pathutil"
	"github.com/flexigpt/reflexhook-go/internal/transcript"
)

const (
	InjectedFileName = "AGENTS.md"
	InjectedFilePath = "/reflex/injected"

	defaultAgentID = "main"
)

// BootstrapFile is one file the host places in the agent's bootstrap context.
type BootstrapFile struct {
	Name    string `json:"name"`
	Path    string `json:"path"`
	Content string `json:"content"`
	Missing bool   `json:"missing"`
}

// BootstrapContext is the part of an OpenClaw agent bootstrap context the hook
// reads and mutates.
type BootstrapContext struct {
	WorkspaceDir   string          `json:"workspaceDir,omitempty"`
	AgentID        string          `json:"agentId,omitempty"`
	SessionID      string          `json:"sessionId,omitempty"`
	SessionKey     string          `json:"sessionKey,omitempty"`
	BootstrapFiles []BootstrapFile `json:"bootstrapFiles"`
}

// BootstrapEvent is the OpenClaw internal hook event wrapping a bootstrap.
type BootstrapEvent struct {
	Type       string            `json:"type"`
	Action     string            `json:"action"`
	SessionKey string            `json:"sessionKey,omitempty"`
	Context    *BootstrapContext `json:"context"`
}

// BootstrapHook injects context at agent bootstrap. History comes from the
// durable session log and state is kept in files under the workspace.
type BootstrapHook struct {
	pipeline *Pipeline

	// HomeDir locates ~/.openclaw. Nil means os.UserHomeDir.
	HomeDir func() (string, error)
}

func NewBootstrapHook(p *Pipeline) *BootstrapHook {
	return &BootstrapHook{pipeline: p}
}

// HandleEvent ignores everything but agent/bootstrap events.
func (h *BootstrapHook) HandleEvent(ctx context.Context, ev *BootstrapEvent) {
	if ev == nil || ev.Type != "agent" || ev.Action != "bootstrap" || ev.Context == nil {
		return
	}
	if ev.Context.SessionKey == "" {
		ev.Context.SessionKey = ev.SessionKey
	}
	h.Handle(ctx, ev.Context)
}

// Handle appends the injected AGENTS.md to bc.BootstrapFiles when the router
// picks anything.
func (h *BootstrapHook) Handle(ctx context.Context, bc *BootstrapContext) {
	if bc == nil || strings.TrimSpace(bc.WorkspaceDir) == "" {
		return
	}
	agentID := firstNonEmpty(bc.AgentID, defaultAgentID)
	sessionID := firstNonEmpty(bc.SessionID, bc.SessionKey, DefaultSessionID)

	var src TranscriptSource
	if logPath, ok := h.sessionLogPath(agentID, sessionID); ok {
		src = transcript.LogSource{Path: logPath, Lookback: h.pipeline.Lookback()}
	}

	inj := h.pipeline.Run(ctx, Invocation{
		WorkspaceDir: bc.WorkspaceDir,
		SessionID:    sessionID,
		Transcript:   src,
		Source:       SourceBootstrap,
	})
	if inj.Empty() {
		return
	}
	bc.BootstrapFiles = append(bc.BootstrapFiles, BootstrapFile{
		Name:    InjectedFileName,
		Path:    InjectedFilePath,
		Content: inj.Content,
		Missing: false,
	})
}

// sessionLogPath returns ~/.openclaw/agents/<agent>/sessions/<session>.jsonl.
func (h *BootstrapHook) sessionLogPath(agentID, sessionID string) (string, bool) {
	homeDir := h.HomeDir
	if homeDir == nil {
		homeDir = os.UserHomeDir
	}
	home, err := homeDir()
	if err != nil || home == "" {
		return "", false
	}
	return filepath.Join(home, ".openclaw", "agents", pathutil.SafeFileName(agentID),
		"sessions", pathutil.SafeFileName(sessionID)+".jsonl"), true
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
