package frontmatter

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want map[string]any
	}{
		{
			name: "no frontmatter",
			in:   "# Title\nsummary: x\n",
			want: map[string]any{},
		},
		{
			name: "unterminated block",
			in:   "---\nsummary: x\nread_when: [a]\n",
			want: map[string]any{},
		},
		{
			name: "delimiter must be its own line",
			in:   "---summary: x\n---\n",
			want: map[string]any{},
		},
		{
			name: "opening delimiter must be exact",
			in:   "  ---  \nsummary: x\n---\n",
			want: map[string]any{},
		},
		{
			name: "closing delimiter may be padded",
			in:   "---\nsummary: x\n  ---  \n",
			want: map[string]any{"summary": "x"},
		},
		{
			name: "scalars with quotes",
			in:   "---\nname: \"my-skill\"\ndescription: 'Does things'\nodd: \"half\n---\nbody\n",
			want: map[string]any{
				"name":        "my-skill",
				"description": "Does things",
				"odd":         "\"half",
			},
		},
		{
			name: "inline list",
			in:   "---\nread_when: [api changes, \"auth\", 'db', , ]\n---\n",
			want: map[string]any{
				"read_when": []string{"api changes", "auth", "db"},
			},
		},
		{
			name: "block list",
			in:   "---\nsummary: API guide\nread_when:\n  - api changes\n  - \"new endpoints\"\nother: v\n  - ignored\n---\n",
			want: map[string]any{
				"summary":   "API guide",
				"read_when": []string{"api changes", "new endpoints"},
				"other":     "v",
			},
		},
		{
			name: "empty list stays empty",
			in:   "---\nread_when:\nsummary: s\n---\n",
			want: map[string]any{
				"read_when": []string{},
				"summary":   "s",
			},
		},
		{
			name: "value keeps later colons",
			in:   "---\nsummary: read this: now\n---\n",
			want: map[string]any{"summary": "read this: now"},
		},
		{
			name: "indented and colonless lines ignored",
			in:   "---\n  nested: x\njust text\n\tkey: y\nok: 1\n---\n",
			want: map[string]any{"ok": "1"},
		},
		{
			name: "crlf",
			in:   "---\r\nsummary: s\r\nread_when:\r\n  - a\r\n---\r\nbody\r\n",
			want: map[string]any{
				"summary":   "s",
				"read_when": []string{"a"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Parse(tt.in)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("Parse mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParse_MissingClosingDelimiterAlwaysEmpty(t *testing.T) {
	t.Parallel()

	bodies := []string{
		"---\n",
		"---\nsummary: x",
		"---\nsummary: x\nread_when:\n  - a\n",
		"---\nname: n\ndescription: d\n--\n",
	}
	for _, b := range bodies {
		if got := Parse(b); len(got) != 0 {
			t.Fatalf("Parse(%q) = %v, want empty", b, got)
		}
	}
}

func TestAccessors(t *testing.T) {
	t.Parallel()

	m := map[string]any{
		"scalar": "  x  ",
		"list":   []string{" a ", "", "b"},
		"blank":  "   ",
		"empty":  []string{},
	}

	if got := String(m, "scalar"); got != "x" {
		t.Fatalf("String(scalar)=%q want=%q", got, "x")
	}
	if got := String(m, "list"); got != "" {
		t.Fatalf("String(list)=%q want empty", got)
	}
	if got := String(m, "missing"); got != "" {
		t.Fatalf("String(missing)=%q want empty", got)
	}

	if diff := cmp.Diff([]string{"x"}, StringList(m, "scalar")); diff != "" {
		t.Fatalf("StringList(scalar) (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"a", "b"}, StringList(m, "list")); diff != "" {
		t.Fatalf("StringList(list) (-want +got):\n%s", diff)
	}
	for _, k := range []string{"blank", "empty", "missing"} {
		if got := StringList(m, k); got != nil {
			t.Fatalf("StringList(%s)=%v want nil", k, got)
		}
	}
}

func TestParseFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	p := filepath.Join(dir, "doc.md")
	if err := os.WriteFile(p, []byte("---\nsummary: s\n---\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if got := String(ParseFile(p), "summary"); got != "s" {
		t.Fatalf("summary=%q want=%q", got, "s")
	}

	if got := ParseFile(filepath.Join(dir, "missing.md")); len(got) != 0 {
		t.Fatalf("missing file: got %v, want empty", got)
	}

	big := filepath.Join(dir, "big.md")
	body := "---\nsummary: s\n---\n" + strings.Repeat("x", MaxFileBytes)
	if err := os.WriteFile(big, []byte(body), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if got := ParseFile(big); len(got) != 0 {
		t.Fatalf("oversized file: got %v, want empty", got)
	}
}
