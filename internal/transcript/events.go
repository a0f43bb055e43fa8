package transcript

import (
	"strings"

	"github.com/flexigpt/reflexhook-go/spec"
)

// FromEvents converts the last lookback host messages to turns. Content may be
// a string or text blocks; text is not truncated. A non-empty prompt that does
// not already appear verbatim is appended as a final user turn.
func FromEvents(msgs []spec.EventMessage, prompt string, lookback int) []spec.Turn {
	turns := []spec.Turn{}
	if lookback > 0 && len(msgs) > lookback {
		msgs = msgs[len(msgs)-lookback:]
	}
	for _, m := range msgs {
		role, ok := roleOf(m.Role)
		if !ok {
			continue
		}
		text := joinText(m.Content, true)
		if text == "" {
			continue
		}
		turns = append(turns, spec.Turn{Type: role, Text: text})
	}

	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return turns
	}
	for _, t := range turns {
		if t.Text == prompt {
			return turns
		}
	}
	return append(turns, spec.Turn{Type: spec.RoleUser, Text: prompt})
}
