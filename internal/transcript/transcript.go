// Package transcript turns host conversation history into the bounded,
// role-tagged turn list sent to the router.
//
// Each source keeps its own selection rule: durable logs are scanned backward
// for the newest qualifying records and truncated per turn, while in-memory
// event lists are tail-sliced and left untruncated.
package transcript

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/flexigpt/reflexhook-go/spec"
)

const (
	// DefaultLookback is how many turns are kept.
	DefaultLookback = 10

	// MaxTurnRunes caps the text of one turn read from a durable log.
	MaxTurnRunes = 2000
)

// LogSource reads turns from an OpenClaw session log.
type LogSource struct {
	Path     string
	Lookback int
}

func (s LogSource) Turns(ctx context.Context) []spec.Turn {
	if ctx.Err() != nil {
		return []spec.Turn{}
	}
	return ReadLog(s.Path, lookbackOrDefault(s.Lookback))
}

// EventSource converts messages handed over in memory by the host.
type EventSource struct {
	Messages []spec.EventMessage
	Prompt   string
	Lookback int
}

func (s EventSource) Turns(ctx context.Context) []spec.Turn {
	if ctx.Err() != nil {
		return []spec.Turn{}
	}
	return FromEvents(s.Messages, s.Prompt, lookbackOrDefault(s.Lookback))
}

// ClaudeLogSource reads turns from a Claude Code transcript and appends the
// prompt being submitted, which the transcript does not contain yet.
type ClaudeLogSource struct {
	Path     string
	Prompt   string
	Lookback int
}

func (s ClaudeLogSource) Turns(ctx context.Context) []spec.Turn {
	if ctx.Err() != nil {
		return []spec.Turn{}
	}
	return ReadClaudeLog(s.Path, s.Prompt, lookbackOrDefault(s.Lookback))
}

func lookbackOrDefault(n int) int {
	if n <= 0 {
		return DefaultLookback
	}
	return n
}

func roleOf(s string) (spec.Role, bool) {
	switch spec.Role(s) {
	case spec.RoleUser:
		return spec.RoleUser, true
	case spec.RoleAssistant:
		return spec.RoleAssistant, true
	}
	return "", false
}

// joinText concatenates the text blocks of c, in order and without separator.
// Plain-string bodies are only accepted when allowString is set.
func joinText(c spec.Content, allowString bool) string {
	if c.IsText {
		if !allowString {
			return ""
		}
		return strings.TrimSpace(c.Text)
	}
	var sb strings.Builder
	for _, b := range c.Blocks {
		if b.Type == "text" {
			sb.WriteString(b.Text)
		}
	}
	return strings.TrimSpace(sb.String())
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

// reverse flips turns collected newest-first into chronological order.
func reverse(turns []spec.Turn) []spec.Turn {
	for i, j := 0, len(turns)-1; i < j; i, j = i+1, j-1 {
		turns[i], turns[j] = turns[j], turns[i]
	}
	return turns
}
