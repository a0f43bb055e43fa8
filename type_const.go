// Package reflexhook decides, on each agent turn, which workspace documents and
// skills should be surfaced to the agent, and renders them as context.
//
// A Pipeline scans the workspace for candidates, collects recent conversation
// turns, asks an external router which candidates are relevant, records what
// was injected for the session and returns the text to inject. Hooks for the
// supported hosts are thin adapters over one Pipeline.
//
// Every failure is absorbed: a Pipeline never returns an error from Run and an
// empty Injection means "inject nothing".
package reflexhook

import (
	"context"

	"github.com/flexigpt/reflexhook-go/spec"
)

// DefaultSessionID is used when the host supplies no session identity.
const DefaultSessionID = "default"

// Source values recorded in the router request metadata.
const (
	SourceBootstrap    = "openclaw.bootstrap"
	SourceBeforeTurn   = "openclaw.before_agent_start"
	SourcePromptSubmit = "claude-code.user_prompt_submit"
)

// TranscriptSource yields the recent conversation, oldest turn first.
type TranscriptSource interface {
	Turns(ctx context.Context) []spec.Turn
}

// Router returns a routing decision for a request. Implementations report
// failures in the result; they do not panic or block past their own deadline.
type Router interface {
	Route(ctx context.Context, req spec.RouteRequest) spec.RouteResult
}

// Invocation is one turn as seen by the pipeline.
type Invocation struct {
	// WorkspaceDir is scanned for candidates and, with file-backed state,
	// holds the session file. Empty means there is nothing to do.
	WorkspaceDir string

	// SessionID keys the injected-so-far state. Empty means DefaultSessionID.
	SessionID string

	// Transcript may be nil, in which case the router sees no messages.
	Transcript TranscriptSource

	// Source tags the request metadata with the calling host hook.
	Source string
}

// Injection is what the host should add to the agent's context.
type Injection struct {
	// Content is the rendered block. Empty when nothing was decided.
	Content string

	// Docs and Skills are the decided identifiers, de-duplicated, in router
	// order.
	Docs   []string
	Skills []string
}

func (i Injection) Empty() bool { return i.Content == "" }
