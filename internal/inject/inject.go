// Package inject turns a router decision into the text handed to the agent and
// folds it into the session's injected-so-far record.
package inject

import (
	"strings"

	"github.com/flexigpt/reflexhook-go/spec"
)

// DocsPreamble opens the documents paragraph.
const DocsPreamble = "Before responding, read these files. " +
	"Do not skip this even if you think you already know the content — read them now:"

// Merge appends the decided identifiers that state does not hold yet, keeping
// existing order. It reports whether anything was added. The input state is
// not modified.
func Merge(state spec.SessionState, d spec.RouteDecision) (spec.SessionState, bool) {
	out := state.Clone()
	var docsAdded, skillsAdded bool
	out.DocsRead, docsAdded = union(out.DocsRead, d.Docs)
	out.SkillsUsed, skillsAdded = union(out.SkillsUsed, d.Skills)
	return out, docsAdded || skillsAdded
}

// Render builds the injected block: a documents paragraph, a skills sentence,
// or both separated by a blank line. An empty decision renders as "".
func Render(d spec.RouteDecision) string {
	docs := Dedupe(d.Docs)
	skills := Dedupe(d.Skills)

	var parts []string
	if len(docs) > 0 {
		var sb strings.Builder
		sb.WriteString(DocsPreamble)
		for _, p := range docs {
			sb.WriteString("\n- ")
			sb.WriteString(p)
		}
		parts = append(parts, sb.String())
	}
	if len(skills) > 0 {
		names := make([]string, len(skills))
		for i, s := range skills {
			names[i] = "/" + s
		}
		parts = append(parts, "Use the "+strings.Join(names, ", ")+" skill for this task.")
	}
	return strings.Join(parts, "\n\n")
}

// Dedupe drops repeated and blank identifiers, keeping first occurrences.
func Dedupe(ids []string) []string {
	out, _ := union(nil, ids)
	return out
}

func union(base, add []string) ([]string, bool) {
	seen := make(map[string]struct{}, len(base)+len(add))
	out := make([]string, 0, len(base)+len(add))
	for _, id := range base {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	added := false
	for _, id := range add {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
		added = true
	}
	return out, added
}
