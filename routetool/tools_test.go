package routetool

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	reflexhook "github.com/flexigpt/reflexhook-go"
	"github.com/flexigpt/reflexhook-go/spec"
)

type staticRouter struct{ d spec.RouteDecision }

func (s staticRouter) Route(context.Context, spec.RouteRequest) spec.RouteResult {
	return spec.RouteResult{Decision: s.d}
}

func newHook(t *testing.T, d spec.RouteDecision) *reflexhook.BeforeTurnHook {
	t.Helper()
	h, err := reflexhook.NewBeforeTurnHook(reflexhook.WithRouter(staticRouter{d: d}))
	if err != nil {
		t.Fatalf("NewBeforeTurnHook: %v", err)
	}
	return h
}

func TestRoute(t *testing.T) {
	t.Parallel()

	ws := t.TempDir()
	doc := filepath.Join(ws, "docs", "db.md")
	if err := os.MkdirAll(filepath.Dir(doc), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(doc, []byte("---\nsummary: DB\nread_when: [schema]\n---\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	h := newHook(t, spec.RouteDecision{Skills: []string{"migrate"}})

	got, err := Route(t.Context(), h, RouteArgs{WorkspaceDir: ws, Prompt: "add a column"})
	if err != nil {
		t.Fatalf("Route: %v", err)
	}
	want := RouteResult{Injected: true, Content: "Use the /migrate skill for this task."}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Route mismatch (-want +got):\n%s", diff)
	}

	if _, err := Route(t.Context(), h, RouteArgs{}); err == nil {
		t.Fatalf("expected error without workspace_dir")
	}

	got, err = Route(t.Context(), h, RouteArgs{WorkspaceDir: t.TempDir()})
	if err != nil || got.Injected {
		t.Fatalf("empty workspace: got=%+v err=%v", got, err)
	}
}

func TestRegistryWiring(t *testing.T) {
	t.Parallel()

	if err := Register(nil, newHook(t, spec.EmptyDecision())); err == nil {
		t.Fatalf("expected error for nil registry")
	}
	if _, err := NewRegistry(nil); err == nil {
		t.Fatalf("expected error for nil hook")
	}

	reg, err := NewRegistry(newHook(t, spec.EmptyDecision()))
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	if reg == nil {
		t.Fatalf("expected non-nil registry")
	}
}

func TestTools(t *testing.T) {
	t.Parallel()

	tools := Tools()
	if len(tools) != 1 {
		t.Fatalf("tools=%d want=1", len(tools))
	}
	tool := tools[0]
	if tool.Slug != "context.route" || tool.GoImpl.FuncID != FuncIDContextRoute {
		t.Fatalf("unexpected tool: slug=%q func=%q", tool.Slug, tool.GoImpl.FuncID)
	}
}
