package pathutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// JoinUnderRoot joins root + rel and ensures rel does not escape root.
func JoinUnderRoot(root, rel string) (string, error) {
	root = strings.TrimSpace(root)
	rel = strings.TrimSpace(rel)
	if root == "" {
		return "", errors.New("invalid root")
	}
	if rel == "" {
		return "", errors.New("invalid path")
	}
	if strings.ContainsRune(rel, '\x00') {
		return "", errors.New("path contains NUL byte")
	}
	if filepath.IsAbs(rel) {
		return "", errors.New("path must be relative")
	}

	cleanRel := filepath.Clean(rel)
	if cleanRel == "." {
		return "", errors.New("path must not be '.'")
	}
	joined := filepath.Join(root, cleanRel)
	if !WithinRoot(root, joined) {
		return "", fmt.Errorf("path escapes root: %q", rel)
	}
	return joined, nil
}

// WithinRoot reports whether p is root itself or lies below it. Both paths are
// compared lexically after cleaning.
func WithinRoot(root, p string) bool {
	rel, err := filepath.Rel(filepath.Clean(root), filepath.Clean(p))
	if err != nil {
		return false
	}
	if rel == "." {
		return true
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(os.PathSeparator))
}

// UnderAny reports whether p lies strictly below any of roots.
func UnderAny(p string, roots []string) bool {
	for _, r := range roots {
		if filepath.Clean(p) != filepath.Clean(r) && WithinRoot(r, p) {
			return true
		}
	}
	return false
}

// SafeFileName maps an arbitrary identifier to a single path element. Path
// separators and NUL bytes become '_'; "", "." and ".." are replaced. Colons
// are kept except on Windows, where they name drive letters and streams.
func SafeFileName(id string) string {
	return safeFileName(id, runtime.GOOS == "windows")
}

func safeFileName(id string, windows bool) string {
	id = strings.TrimSpace(id)
	id = strings.Map(func(r rune) rune {
		switch {
		case r == '/', r == '\\', r == '\x00':
			return '_'
		case r == ':' && windows:
			return '_'
		}
		return r
	}, id)
	switch id {
	case "", ".", "..":
		return "_" + id
	}
	return id
}
