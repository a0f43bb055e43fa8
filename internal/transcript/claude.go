package transcript

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/flexigpt/reflexhook-go/spec"
)

// noiseTags open content the host injects on the user's behalf.
var noiseTags = []string{
	"<local-command-caveat>",
	"<command-name>",
	"<local-command-stdout>",
	"<system-reminder>",
	"<injected-project-context>",
	"<user-prompt-submit-hook>",
}

// IsNoise reports whether text is host-injected rather than typed by the user.
func IsNoise(text string) bool {
	s := strings.TrimSpace(text)
	for _, tag := range noiseTags {
		if strings.HasPrefix(s, tag) {
			return true
		}
	}
	if len(s) > MaxTurnRunes {
		for _, tag := range noiseTags {
			if strings.Contains(s, tag) {
				return true
			}
		}
	}
	return false
}

type claudeRecord struct {
	Type    string `json:"type"`
	Message *struct {
		Role    string       `json:"role"`
		Content spec.Content `json:"content"`
	} `json:"message"`
}

// ReadClaudeLog returns up to lookback turns from a Claude Code transcript,
// followed by prompt when it is non-empty and not noise. Each text block is a
// separate turn. User records that carry tool results are skipped.
func ReadClaudeLog(path, prompt string, lookback int) []spec.Turn {
	turns := readClaudeRecords(path, lookback)

	prompt = strings.TrimSpace(prompt)
	if prompt != "" && !IsNoise(prompt) {
		turns = append(turns, spec.Turn{Type: spec.RoleUser, Text: truncateRunes(prompt, MaxTurnRunes)})
	}
	return turns
}

func readClaudeRecords(path string, lookback int) []spec.Turn {
	out := []spec.Turn{}
	if path == "" || lookback <= 0 {
		return out
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return out
	}

	// groups holds each record's turns, newest record first.
	var groups [][]spec.Turn
	count := 0
	lines := strings.Split(string(data), "\n")
	for i := len(lines) - 1; i >= 0 && count < lookback; i-- {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}
		var rec claudeRecord
		if err := json.Unmarshal([]byte(line), &rec); err != nil || rec.Message == nil {
			continue
		}
		g := claudeTurns(rec)
		if len(g) == 0 {
			continue
		}
		groups = append(groups, g)
		count += len(g)
	}

	for i := len(groups) - 1; i >= 0; i-- {
		out = append(out, groups[i]...)
	}
	if len(out) > lookback {
		out = out[len(out)-lookback:]
	}
	return out
}

func claudeTurns(rec claudeRecord) []spec.Turn {
	msg := rec.Message
	c := msg.Content

	switch {
	case rec.Type == "user" && msg.Role == "user" && c.IsText:
		text := strings.TrimSpace(c.Text)
		if text == "" || IsNoise(text) {
			return nil
		}
		return []spec.Turn{{Type: spec.RoleUser, Text: truncateRunes(text, MaxTurnRunes)}}

	case rec.Type == "user" && msg.Role == "user":
		for _, b := range c.Blocks {
			if b.Type == "tool_result" {
				return nil
			}
		}
		return textBlockTurns(spec.RoleUser, c.Blocks, true)

	case rec.Type == "assistant" && msg.Role == "assistant" && !c.IsText:
		return textBlockTurns(spec.RoleAssistant, c.Blocks, false)
	}
	return nil
}

func textBlockTurns(role spec.Role, blocks []spec.ContentBlock, dropNoise bool) []spec.Turn {
	var turns []spec.Turn
	for _, b := range blocks {
		if b.Type != "text" {
			continue
		}
		text := strings.TrimSpace(b.Text)
		if text == "" || (dropNoise && IsNoise(text)) {
			continue
		}
		turns = append(turns, spec.Turn{Type: role, Text: truncateRunes(text, MaxTurnRunes)})
	}
	return turns
}
