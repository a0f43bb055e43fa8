package reflexhook

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/flexigpt/reflexhook-go/internal/transcript"
)

// Claude Code hook event names.
const (
	EventUserPromptSubmit = "UserPromptSubmit"
	EventSessionStart     = "SessionStart"
	EventSessionEnd       = "SessionEnd"
)

// EnvProjectDir is consulted when a Claude Code hook input has no cwd.
const EnvProjectDir = "CLAUDE_PROJECT_DIR"

// ClaudeHookInput is the JSON a Claude Code command hook receives on stdin.
type ClaudeHookInput struct {
	HookEventName  string `json:"hook_event_name"`
	SessionID      string `json:"session_id,omitempty"`
	TranscriptPath string `json:"transcript_path,omitempty"`
	Cwd            string `json:"cwd,omitempty"`
	Prompt         string `json:"prompt,omitempty"`

	// Source is set on SessionStart: startup, resume, clear or compact.
	Source string `json:"source,omitempty"`
}

// ClaudeHookOutput is written to stdout to add context to the prompt.
type ClaudeHookOutput struct {
	HookSpecificOutput ClaudeHookSpecificOutput `json:"hookSpecificOutput"`
}

type ClaudeHookSpecificOutput struct {
	HookEventName     string `json:"hookEventName"`
	AdditionalContext string `json:"additionalContext"`
}

// PromptSubmitHook handles Claude Code's UserPromptSubmit. History is read
// from the session transcript; state is file-backed under the project.
type PromptSubmitHook struct {
	pipeline *Pipeline

	// Getenv resolves EnvProjectDir. Nil means os.Getenv.
	Getenv func(string) string
}

func NewPromptSubmitHook(p *Pipeline) *PromptSubmitHook {
	return &PromptSubmitHook{pipeline: p}
}

// Handle returns nil for other events or when nothing is injected.
func (h *PromptSubmitHook) Handle(ctx context.Context, in ClaudeHookInput) *ClaudeHookOutput {
	if in.HookEventName != EventUserPromptSubmit {
		return nil
	}
	inj := h.pipeline.Run(ctx, Invocation{
		WorkspaceDir: projectDir(in, h.Getenv),
		SessionID:    claudeSessionKey(in),
		Transcript: transcript.ClaudeLogSource{
			Path:     in.TranscriptPath,
			Prompt:   in.Prompt,
			Lookback: h.pipeline.Lookback(),
		},
		Source: SourcePromptSubmit,
	})
	if inj.Empty() {
		return nil
	}
	return &ClaudeHookOutput{HookSpecificOutput: ClaudeHookSpecificOutput{
		HookEventName:     EventUserPromptSubmit,
		AdditionalContext: inj.Content,
	}}
}

// claudeSessionKey prefers the transcript file stem, which is stable for the
// whole session, then session_id.
func claudeSessionKey(in ClaudeHookInput) string {
	if p := strings.TrimSpace(in.TranscriptPath); p != "" {
		base := filepath.Base(p)
		if stem := strings.TrimSuffix(base, filepath.Ext(base)); stem != "" {
			return stem
		}
	}
	return firstNonEmpty(in.SessionID, DefaultSessionID)
}

// projectDir is cwd, then $CLAUDE_PROJECT_DIR, then ".".
func projectDir(in ClaudeHookInput, getenv func(string) string) string {
	if getenv == nil {
		getenv = os.Getenv
	}
	return firstNonEmpty(in.Cwd, getenv(EnvProjectDir), ".")
}
