package reflexhook

import (
	"context"
	"slices"
	"strings"

	"github.com/flexigpt/reflexhook-go/internal/sessionstore"
	"github.com/flexigpt/reflexhook-go/internal/transcript"
	"github.com/flexigpt/reflexhook-go/spec"
)

// BeforeTurnContext identifies the agent run an OpenClaw plugin hook fires for.
type BeforeTurnContext struct {
	WorkspaceDir string `json:"workspaceDir,omitempty"`
	SessionKey   string `json:"sessionKey,omitempty"`
	AgentID      string `json:"agentId,omitempty"`
}

// BeforeTurnEvent carries the conversation so far and the prompt about to be
// sent.
type BeforeTurnEvent struct {
	Prompt   string              `json:"prompt,omitempty"`
	Messages []spec.EventMessage `json:"messages,omitempty"`
}

// BeforeTurnResult asks the host to prepend text to the user's prompt.
type BeforeTurnResult struct {
	PrependContext string `json:"prependContext"`
}

// BeforeTurnHook injects context before every agent turn. History is handed
// over in memory and injected-so-far state lives in a MemoryStore owned by the
// hook, so it lasts exactly as long as the hook value.
type BeforeTurnHook struct {
	pipeline *Pipeline
	store    *sessionstore.MemoryStore
}

// NewBeforeTurnHook builds a hook with its own memory-backed state. Options
// apply as for New; a WithSessionStore option is overridden.
func NewBeforeTurnHook(opts ...Option) (*BeforeTurnHook, error) {
	store := sessionstore.NewMemoryStore()
	p, err := New(append(slices.Clone(opts), WithSessionStore(store))...)
	if err != nil {
		return nil, err
	}
	return &BeforeTurnHook{pipeline: p, store: store}, nil
}

// Store exposes the hook's session state, mainly for eviction limits.
func (h *BeforeTurnHook) Store() *sessionstore.MemoryStore { return h.store }

// Handle returns nil when there is nothing to prepend.
func (h *BeforeTurnHook) Handle(ctx context.Context, hc BeforeTurnContext, ev BeforeTurnEvent) *BeforeTurnResult {
	if strings.TrimSpace(hc.WorkspaceDir) == "" {
		return nil
	}
	inj := h.pipeline.Run(ctx, Invocation{
		WorkspaceDir: hc.WorkspaceDir,
		SessionID:    firstNonEmpty(hc.SessionKey, DefaultSessionID),
		Transcript: transcript.EventSource{
			Messages: ev.Messages,
			Prompt:   ev.Prompt,
			Lookback: h.pipeline.Lookback(),
		},
		Source: SourceBeforeTurn,
	})
	if inj.Empty() {
		return nil
	}
	return &BeforeTurnResult{PrependContext: inj.Content}
}
