// Package registry discovers the documents and skills a workspace offers for
// injection. Nothing is cached: every call walks the tree again.
package registry

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/flexigpt/reflexhook-go/internal/frontmatter"
	"github.com/flexigpt/reflexhook-go/internal/pathutil"
	"github.com/flexigpt/reflexhook-go/spec"
)

// SkillFileName is the skill definition looked for directly inside each
// skill directory.
const SkillFileName = "SKILL.md"

// SkipDirs are directory names never descended into while looking for documents.
var SkipDirs = map[string]struct{}{
	".git":         {},
	"node_modules": {},
	".next":        {},
	"dist":         {},
	"build":        {},
	"__pycache__":  {},
	".venv":        {},
	"venv":         {},
	".tox":         {},
	"coverage":     {},
	".turbo":       {},
	"vendor":       {},
	"target":       {},
}

// SkillRoots are the workspace-relative directories holding one skill per
// subdirectory. Both are checked so skills written for either tool are found.
var SkillRoots = []string{
	filepath.Join(".openclaw", "skills"),
	filepath.Join(".claude", "skills"),
}

// Scan returns the documents and skills found under root. The two searches
// share no state and run concurrently; each result keeps its own discovery
// order.
func Scan(ctx context.Context, root string, logger *slog.Logger) spec.Registry {
	root = resolveRoot(root)
	var reg spec.Registry
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		reg.Docs = FindDocuments(gctx, root)
		return nil
	})
	g.Go(func() error {
		reg.Skills = FindSkills(gctx, root, logger)
		return nil
	})
	_ = g.Wait()
	return reg
}

// FindDocuments returns every markdown file under root whose frontmatter has
// a non-empty summary and at least one read_when entry. Files below a skill
// root are never documents. Unreadable directories and files are skipped.
func FindDocuments(ctx context.Context, root string) []spec.Document {
	docs := []spec.Document{}
	root = resolveRoot(root)
	excluded := skillRootPaths(root)

	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			if d != nil && d.IsDir() && path != root {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if path == root {
				return nil
			}
			if _, skip := SkipDirs[d.Name()]; skip {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || filepath.Ext(d.Name()) != ".md" {
			return nil
		}
		if pathutil.UnderAny(path, excluded) {
			return nil
		}

		doc, ok := documentFromFile(root, path)
		if ok {
			docs = append(docs, doc)
		}
		return nil
	})
	return docs
}

// FindSkills lists the immediate subdirectories of each skill root and reads
// the SKILL.md inside. Skills need both a name and a description. The same
// name found under two roots yields two entries.
func FindSkills(ctx context.Context, root string, logger *slog.Logger) []spec.Skill {
	if logger == nil {
		logger = slog.Default()
	}
	skills := []spec.Skill{}
	seen := map[string]string{}

	for _, skillsDir := range skillRootPaths(resolveRoot(root)) {
		entries, err := os.ReadDir(skillsDir)
		if err != nil {
			continue
		}
		for _, e := range entries {
			if ctx.Err() != nil {
				return skills
			}
			if !e.IsDir() {
				continue
			}
			loc := filepath.Join(skillsDir, e.Name(), SkillFileName)
			st, err := os.Lstat(loc)
			if err != nil || !st.Mode().IsRegular() {
				continue
			}

			fm := frontmatter.ParseFile(loc)
			name := frontmatter.String(fm, "name")
			desc := frontmatter.String(fm, "description")
			if name == "" || desc == "" {
				continue
			}

			if prev, dup := seen[name]; dup {
				logger.Warn("skill name discovered more than once; keeping both",
					"skill", name, "first", prev, "second", loc)
			} else {
				seen[name] = loc
			}
			skills = append(skills, spec.Skill{Name: name, Description: desc})
		}
	}
	return skills
}

func documentFromFile(root, path string) (spec.Document, bool) {
	fm := frontmatter.ParseFile(path)
	summary := frontmatter.String(fm, "summary")
	readWhen := frontmatter.StringList(fm, "read_when")
	if summary == "" || len(readWhen) == 0 {
		return spec.Document{}, false
	}

	rel, err := filepath.Rel(root, path)
	if err != nil {
		return spec.Document{}, false
	}
	return spec.Document{
		Path:     filepath.ToSlash(rel),
		Summary:  summary,
		ReadWhen: readWhen,
	}, true
}

// resolveRoot follows a symlinked workspace so the walk starts at a directory.
// Unresolvable roots are only cleaned.
func resolveRoot(root string) string {
	root = filepath.Clean(root)
	if r, err := filepath.EvalSymlinks(root); err == nil {
		return r
	}
	return root
}

func skillRootPaths(root string) []string {
	out := make([]string, 0, len(SkillRoots))
	for _, r := range SkillRoots {
		out = append(out, filepath.Join(root, r))
	}
	return out
}
