// Package spec holds the data model shared by the registry, transcript,
// session store, router client and injection stages, and the JSON shapes
// exchanged with the external router.
package spec

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Role tags one conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Document is a workspace markdown file that declares when it should be read.
type Document struct {
	// Path is workspace-relative and slash separated. It is the identity.
	Path     string   `json:"path"`
	Summary  string   `json:"summary"`
	ReadWhen []string `json:"read_when"`
}

// Skill is a reusable capability discovered from a SKILL.md file.
type Skill struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Turn is one role-tagged utterance. The router protocol calls the role "type".
type Turn struct {
	Type Role   `json:"type"`
	Text string `json:"text"`
}

// Registry is the candidate set sent to the router.
type Registry struct {
	Docs   []Document `json:"docs"`
	Skills []Skill    `json:"skills"`
}

// Empty reports whether there is nothing to route.
func (r Registry) Empty() bool { return len(r.Docs) == 0 && len(r.Skills) == 0 }

// SessionState records what has already been injected in one session.
// Both lists are ordered and free of duplicates; they only grow.
type SessionState struct {
	DocsRead   []string `json:"docs_read"`
	SkillsUsed []string `json:"skills_used"`
}

// NewSessionState returns an empty state whose lists encode as [] rather than null.
func NewSessionState() SessionState {
	return SessionState{DocsRead: []string{}, SkillsUsed: []string{}}
}

// Clone returns a deep copy that never carries nil lists.
func (s SessionState) Clone() SessionState {
	return SessionState{
		DocsRead:   append([]string{}, s.DocsRead...),
		SkillsUsed: append([]string{}, s.SkillsUsed...),
	}
}

// SessionKey addresses one session's state. File-backed stores use the
// workspace to locate the state directory; in-memory stores key on ID only.
type SessionKey struct {
	WorkspaceDir string
	ID           string
}

// RouteRequest is written to the router's stdin.
type RouteRequest struct {
	Messages []Turn         `json:"messages"`
	Registry Registry       `json:"registry"`
	Session  SessionState   `json:"session"`
	Metadata map[string]any `json:"metadata"`
}

// RouteDecision is read from the router's stdout. Identifiers are not checked
// against the registry that was sent.
type RouteDecision struct {
	Docs   []string `json:"docs"`
	Skills []string `json:"skills"`
}

// EmptyDecision encodes as {"docs":[],"skills":[]}.
func EmptyDecision() RouteDecision {
	return RouteDecision{Docs: []string{}, Skills: []string{}}
}

func (d RouteDecision) IsEmpty() bool { return len(d.Docs) == 0 && len(d.Skills) == 0 }

// RouteResult is the outcome of one router call: either a decision or the
// reason there is none.
type RouteResult struct {
	Decision RouteDecision
	Err      error
}

// Decided collapses every failure to the empty decision.
func (r RouteResult) Decided() RouteDecision {
	if r.Err != nil {
		return EmptyDecision()
	}
	d := r.Decision
	if d.Docs == nil {
		d.Docs = []string{}
	}
	if d.Skills == nil {
		d.Skills = []string{}
	}
	return d
}

// ContentBlock is one element of a structured message body.
type ContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// Content is a message body that hosts send either as a plain string or as a
// list of typed blocks.
type Content struct {
	Text   string
	Blocks []ContentBlock

	// IsText is set when the body arrived as a plain string.
	IsText bool
}

// TextContent builds a plain-string body.
func TextContent(s string) Content { return Content{Text: s, IsText: true} }

// BlockContent builds a block-list body.
func BlockContent(blocks ...ContentBlock) Content { return Content{Blocks: blocks} }

func (c *Content) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	*c = Content{}
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}
	switch b[0] {
	case '"':
		c.IsText = true
		return json.Unmarshal(b, &c.Text)
	case '[':
		return json.Unmarshal(b, &c.Blocks)
	default:
		return fmt.Errorf("%w: content must be a string or a list of blocks", ErrInvalidArgument)
	}
}

func (c Content) MarshalJSON() ([]byte, error) {
	if c.IsText {
		return json.Marshal(c.Text)
	}
	if c.Blocks == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(c.Blocks)
}

// EventMessage is one entry of a host-supplied, in-memory conversation.
type EventMessage struct {
	Role    string  `json:"role"`
	Content Content `json:"content"`
}
