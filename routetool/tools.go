// Package routetool exposes the before-turn routing hook as an llmtools-go
// tool, so agents built on an llmtools registry can ask for relevant workspace
// context themselves.
package routetool

import (
	"context"
	"errors"
	"strings"

	"github.com/flexigpt/llmtools-go"
	llmtoolsgoSpec "github.com/flexigpt/llmtools-go/spec"

	reflexhook "github.com/flexigpt/reflexhook-go"
	"github.com/flexigpt/reflexhook-go/spec"
)

const FuncIDContextRoute llmtoolsgoSpec.FuncID = "github.com/flexigpt/reflexhook-go/routetool.Route"

// RouteArgs are the tool arguments.
type RouteArgs struct {
	WorkspaceDir string              `json:"workspace_dir"`
	SessionKey   string              `json:"session_key,omitempty"`
	Prompt       string              `json:"prompt,omitempty"`
	Messages     []spec.EventMessage `json:"messages,omitempty"`
}

// RouteResult is returned as JSON text.
type RouteResult struct {
	Injected bool   `json:"injected"`
	Content  string `json:"content"`
}

// Route runs one before-turn pass for args.
func Route(ctx context.Context, h *reflexhook.BeforeTurnHook, args RouteArgs) (RouteResult, error) {
	if strings.TrimSpace(args.WorkspaceDir) == "" {
		return RouteResult{}, errors.New("workspace_dir is required")
	}
	res := h.Handle(ctx,
		reflexhook.BeforeTurnContext{WorkspaceDir: args.WorkspaceDir, SessionKey: args.SessionKey},
		reflexhook.BeforeTurnEvent{Prompt: args.Prompt, Messages: args.Messages},
	)
	if res == nil {
		return RouteResult{}, nil
	}
	return RouteResult{Injected: true, Content: res.PrependContext}, nil
}

// Register adds the context.route tool to r. Session state is shared with h.
func Register(r *llmtools.Registry, h *reflexhook.BeforeTurnHook) error {
	if r == nil {
		return errors.New("nil registry")
	}
	if h == nil {
		return errors.New("nil hook")
	}
	return llmtools.RegisterTypedAsTextTool[RouteArgs, RouteResult](
		r,
		ContextRouteTool(),
		func(ctx context.Context, args RouteArgs) (RouteResult, error) {
			return Route(ctx, h, args)
		},
	)
}

// NewRegistry creates an llmtools-go Registry holding only the routing tool.
func NewRegistry(h *reflexhook.BeforeTurnHook, opts ...llmtools.RegistryOption) (*llmtools.Registry, error) {
	if h == nil {
		return nil, errors.New("nil hook")
	}
	r, err := llmtools.NewRegistry(opts...)
	if err != nil {
		return nil, err
	}
	if err := Register(r, h); err != nil {
		return nil, err
	}
	return r, nil
}

func Tools() []llmtoolsgoSpec.Tool {
	return []llmtoolsgoSpec.Tool{ContextRouteTool()}
}

func ContextRouteTool() llmtoolsgoSpec.Tool {
	return llmtoolsgoSpec.Tool{
		SchemaVersion: llmtoolsgoSpec.SchemaVersion,
		ID:            "019c52d1-7a0e-7c3b-9f4e-2b8d6a1c5e07",
		Slug:          "context.route",
		Version:       "v1.0.0",
		DisplayName:   "Context Route",
		Description:   "Pick the workspace documents and skills relevant to the conversation and return them as context to read before responding. Each document or skill is returned at most once per session.",
		Tags:          []string{"context", "docs", "skills"},
		ArgSchema: llmtoolsgoSpec.JSONSchema(`{
		  "$schema":"http://json-schema.org/draft-07/schema#",
		  "type":"object",
		  "properties":{
		    "workspace_dir":{"type":"string","description":"Absolute path of the workspace to scan."},
		    "session_key":{"type":"string","description":"Conversation identity. Defaults to 'default'."},
		    "prompt":{"type":"string","description":"The message about to be answered."},
		    "messages":{
		      "type":"array",
		      "items":{
		        "type":"object",
		        "properties":{
		          "role":{"type":"string","enum":["user","assistant"]},
		          "content":{"type":["string","array"]}
		        },
		        "required":["role","content"]
		      }
		    }
		  },
		  "required":["workspace_dir"],
		  "additionalProperties":false
		}`),
		GoImpl:     llmtoolsgoSpec.GoToolImpl{FuncID: FuncIDContextRoute},
		CreatedAt:  llmtoolsgoSpec.SchemaStartTime,
		ModifiedAt: llmtoolsgoSpec.SchemaStartTime,
	}
}
