// Package frontmatter reads the flat metadata block at the top of a markdown
// file. It understands a deliberately small subset of YAML: top-level
// "key: value" lines, "[a, b]" inline lists and "  - item" list entries.
// Nested maps, multi-line scalars, comments and escapes are not supported.
package frontmatter

import (
	"fmt"
	"io"
	"os"
	"strings"
)

const (
	delimiter  = "---"
	itemPrefix = "  - "

	// MaxFileBytes caps how much of a file is read looking for metadata.
	MaxFileBytes = 2 << 20 // 2 MiB
)

// Parse returns the metadata block of text as a map whose values are either
// string or []string. It returns an empty map when text does not open with a
// delimiter line or the block is never closed.
func Parse(text string) map[string]any {
	out := map[string]any{}

	lines := strings.Split(text, "\n")
	for i := range lines {
		lines[i] = strings.TrimSuffix(lines[i], "\r")
	}
	if len(lines) == 0 || lines[0] != delimiter {
		return out
	}

	end := -1
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == delimiter {
			end = i
			break
		}
	}
	if end == -1 {
		return out
	}

	// listKey names the list that "  - " lines append to; empty when none is open.
	listKey := ""
	for _, line := range lines[1:end] {
		if listKey != "" && strings.HasPrefix(line, itemPrefix) {
			out[listKey] = append(out[listKey].([]string), unquote(strings.TrimSpace(line[len(itemPrefix):])))
			continue
		}
		if line == "" || line[0] == ' ' || line[0] == '\t' {
			continue
		}
		key, val, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		listKey = ""
		key = strings.TrimSpace(key)
		val = strings.TrimSpace(val)
		if key == "" {
			continue
		}

		switch {
		case len(val) >= 2 && val[0] == '[' && val[len(val)-1] == ']':
			out[key] = inlineList(val[1 : len(val)-1])
		case val == "":
			out[key] = []string{}
			listKey = key
		default:
			out[key] = unquote(val)
		}
	}
	return out
}

// ParseFile parses the metadata block of the file at path. Unreadable or
// oversized files yield an empty map.
func ParseFile(path string) map[string]any {
	b, err := readLimited(path)
	if err != nil {
		return map[string]any{}
	}
	return Parse(string(b))
}

// String returns the trimmed scalar stored under key, or "" when the key is
// missing or holds a list.
func String(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return strings.TrimSpace(s)
}

// StringList returns the non-empty trimmed entries stored under key. A scalar
// value becomes a one-element list.
func StringList(m map[string]any, key string) []string {
	switch v := m[key].(type) {
	case string:
		if s := strings.TrimSpace(v); s != "" {
			return []string{s}
		}
	case []string:
		out := make([]string, 0, len(v))
		for _, s := range v {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return nil
}

func inlineList(inner string) []string {
	out := []string{}
	for part := range strings.SplitSeq(inner, ",") {
		part = unquote(strings.TrimSpace(part))
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// unquote strips one pair of matching outer quotes.
func unquote(s string) string {
	if len(s) >= 2 {
		if q := s[0]; (q == '"' || q == '\'') && s[len(s)-1] == q {
			return s[1 : len(s)-1]
		}
	}
	return s
}

func readLimited(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	b, err := io.ReadAll(io.LimitReader(f, int64(MaxFileBytes)+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(b) > MaxFileBytes {
		return nil, fmt.Errorf("%s too large (max %d bytes)", path, MaxFileBytes)
	}
	return b, nil
}
