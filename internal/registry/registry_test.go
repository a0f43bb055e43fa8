package registry

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/flexigpt/reflexhook-go/spec"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", rel, err)
	}
}

const apiDoc = "---\nsummary: API guide\nread_when:\n  - api changes\n---\n# API\n"

func TestFindDocuments_RequiresSummaryAndReadWhen(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, root, "docs/api.md", apiDoc)
	writeFile(t, root, "docs/no-read-when.md", "---\nsummary: only summary\n---\n")
	writeFile(t, root, "docs/no-summary.md", "---\nread_when: [x]\n---\n")
	writeFile(t, root, "docs/empty-list.md", "---\nsummary: s\nread_when:\n---\n")
	writeFile(t, root, "docs/plain.md", "# no frontmatter\n")
	writeFile(t, root, "docs/scalar.md", "---\nsummary: Scalar\nread_when: deploying\n---\n")
	writeFile(t, root, "docs/notes.txt", apiDoc)

	got := FindDocuments(t.Context(), root)
	want := []spec.Document{
		{Path: "docs/api.md", Summary: "API guide", ReadWhen: []string{"api changes"}},
		{Path: "docs/scalar.md", Summary: "Scalar", ReadWhen: []string{"deploying"}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("FindDocuments mismatch (-want +got):\n%s", diff)
	}

	// Adding the missing field turns the file into a document.
	writeFile(t, root, "docs/no-read-when.md", "---\nsummary: only summary\nread_when: [now]\n---\n")
	got = FindDocuments(t.Context(), root)
	if len(got) != 3 {
		t.Fatalf("expected 3 documents after fix, got %d: %+v", len(got), got)
	}
}

func TestFindDocuments_SkipsNoiseAndSkillDirs(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, root, "README.md", apiDoc)
	for name := range SkipDirs {
		writeFile(t, root, name+"/hidden.md", apiDoc)
	}
	writeFile(t, root, "src/vendor/deep.md", apiDoc)
	writeFile(t, root, ".claude/skills/x/SKILL.md", apiDoc)
	writeFile(t, root, ".claude/skills/x/ref.md", apiDoc)
	writeFile(t, root, ".openclaw/skills/y/SKILL.md", apiDoc)
	writeFile(t, root, ".claude/notes.md", apiDoc)

	var paths []string
	for _, d := range FindDocuments(t.Context(), root) {
		paths = append(paths, d.Path)
	}
	want := []string{".claude/notes.md", "README.md"}
	if diff := cmp.Diff(want, paths); diff != "" {
		t.Fatalf("paths mismatch (-want +got):\n%s", diff)
	}
}

func TestFindDocuments_MissingRoot(t *testing.T) {
	t.Parallel()

	got := FindDocuments(t.Context(), filepath.Join(t.TempDir(), "nope"))
	if len(got) != 0 {
		t.Fatalf("expected no documents, got %+v", got)
	}
}

func TestFindDocuments_CanceledContext(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, root, "a.md", apiDoc)

	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	if got := FindDocuments(ctx, root); len(got) != 0 {
		t.Fatalf("expected no documents on canceled context, got %+v", got)
	}
}

func TestFindSkills(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, root, ".openclaw/skills/deploy/SKILL.md", "---\nname: deploy\ndescription: Ship it\n---\n")
	writeFile(t, root, ".claude/skills/review/SKILL.md", "---\nname: review\ndescription: \"Review code\"\n---\n")
	writeFile(t, root, ".claude/skills/nodesc/SKILL.md", "---\nname: nodesc\n---\n")
	writeFile(t, root, ".claude/skills/nofile/README.md", "---\nname: nofile\ndescription: d\n---\n")
	writeFile(t, root, ".claude/skills/nested/deeper/SKILL.md", "---\nname: nested\ndescription: d\n---\n")
	writeFile(t, root, ".claude/skills/loose.md", "---\nname: loose\ndescription: d\n---\n")

	got := FindSkills(t.Context(), root, slog.Default())
	want := []spec.Skill{
		{Name: "deploy", Description: "Ship it"},
		{Name: "review", Description: "Review code"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("FindSkills mismatch (-want +got):\n%s", diff)
	}
}

func TestFindSkills_DuplicateNamesKeptAndFlagged(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, root, ".openclaw/skills/lint/SKILL.md", "---\nname: lint\ndescription: from openclaw\n---\n")
	writeFile(t, root, ".claude/skills/lint/SKILL.md", "---\nname: lint\ndescription: from claude\n---\n")

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	got := FindSkills(t.Context(), root, logger)
	want := []spec.Skill{
		{Name: "lint", Description: "from openclaw"},
		{Name: "lint", Description: "from claude"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("FindSkills mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(buf.String(), "skill=lint") {
		t.Fatalf("expected duplicate warning, log=%q", buf.String())
	}
}

func TestScan_EmptyWorkspace(t *testing.T) {
	t.Parallel()

	reg := Scan(t.Context(), t.TempDir(), nil)
	if !reg.Empty() {
		t.Fatalf("expected empty registry, got %+v", reg)
	}
	if reg.Docs == nil || reg.Skills == nil {
		t.Fatalf("registry lists must encode as [], got %+v", reg)
	}
}

func TestFindDocuments_SymlinkedWorkspace(t *testing.T) {
	t.Parallel()

	target := t.TempDir()
	writeFile(t, target, "docs/api.md", apiDoc)
	writeFile(t, target, ".claude/skills/review/SKILL.md", "---\nname: review\ndescription: d\n---\n")

	link := filepath.Join(t.TempDir(), "ws")
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	want := spec.Registry{
		Docs:   []spec.Document{{Path: "docs/api.md", Summary: "API guide", ReadWhen: []string{"api changes"}}},
		Skills: []spec.Skill{{Name: "review", Description: "d"}},
	}
	for _, root := range []string{target, link} {
		if diff := cmp.Diff(want, Scan(t.Context(), root, nil)); diff != "" {
			t.Fatalf("Scan(%s) mismatch (-want +got):\n%s", root, diff)
		}
	}
}

func TestScan_DocsAndSkillsTogether(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, root, "a.md", apiDoc)
	writeFile(t, root, "z/b.md", "---\nsummary: B\nread_when: [b]\n---\n")
	writeFile(t, root, ".openclaw/skills/deploy/SKILL.md", "---\nname: deploy\ndescription: Ship it\n---\n")
	writeFile(t, root, ".claude/skills/review/SKILL.md", "---\nname: review\ndescription: Review\n---\n")

	// Repeated scans give the same ordered result as the sequential calls.
	want := spec.Registry{
		Docs:   FindDocuments(t.Context(), root),
		Skills: FindSkills(t.Context(), root, nil),
	}
	if len(want.Docs) != 2 || len(want.Skills) != 2 {
		t.Fatalf("unexpected fixture result: %+v", want)
	}
	for range 5 {
		if diff := cmp.Diff(want, Scan(t.Context(), root, nil)); diff != "" {
			t.Fatalf("Scan mismatch (-want +got):\n%s", diff)
		}
	}
}
