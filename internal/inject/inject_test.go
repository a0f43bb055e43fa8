package inject

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/flexigpt/reflexhook-go/spec"
)

func TestRender(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   spec.RouteDecision
		want string
	}{
		{
			name: "empty",
			in:   spec.EmptyDecision(),
			want: "",
		},
		{
			name: "docs only",
			in:   spec.RouteDecision{Docs: []string{"docs/api.md", "docs/auth.md"}},
			want: DocsPreamble + "\n- docs/api.md\n- docs/auth.md",
		},
		{
			name: "skills only",
			in:   spec.RouteDecision{Skills: []string{"deploy", "review"}},
			want: "Use the /deploy, /review skill for this task.",
		},
		{
			name: "both, deduplicated",
			in: spec.RouteDecision{
				Docs:   []string{"a.md", "a.md", " "},
				Skills: []string{"lint", "lint"},
			},
			want: DocsPreamble + "\n- a.md\n\nUse the /lint skill for this task.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if diff := cmp.Diff(tt.want, Render(tt.in)); diff != "" {
				t.Fatalf("Render mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDocsPreambleText(t *testing.T) {
	t.Parallel()

	want := "Before responding, read these files. Do not skip this even if you think you already know the content — read them now:"
	if DocsPreamble != want {
		t.Fatalf("got=%q want=%q", DocsPreamble, want)
	}
}

func TestMerge(t *testing.T) {
	t.Parallel()

	state := spec.SessionState{DocsRead: []string{"b.md"}, SkillsUsed: []string{}}
	d := spec.RouteDecision{Docs: []string{"a.md", "b.md", "a.md"}, Skills: []string{"deploy"}}

	got, changed := Merge(state, d)
	if !changed {
		t.Fatalf("expected change")
	}
	want := spec.SessionState{DocsRead: []string{"b.md", "a.md"}, SkillsUsed: []string{"deploy"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Merge mismatch (-want +got):\n%s", diff)
	}
	if len(state.DocsRead) != 1 {
		t.Fatalf("input state mutated: %+v", state)
	}

	again, changed := Merge(got, d)
	if changed {
		t.Fatalf("second merge of the same decision must be a no-op")
	}
	if diff := cmp.Diff(got, again); diff != "" {
		t.Fatalf("Merge not idempotent (-want +got):\n%s", diff)
	}
}

func TestMerge_EmptyDecisionAndNilState(t *testing.T) {
	t.Parallel()

	got, changed := Merge(spec.SessionState{}, spec.EmptyDecision())
	if changed {
		t.Fatalf("empty decision must not change state")
	}
	if got.DocsRead == nil || got.SkillsUsed == nil {
		t.Fatalf("merged state must not carry nil lists: %+v", got)
	}
}
