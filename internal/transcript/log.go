package transcript

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/flexigpt/reflexhook-go/spec"
)

// logRecord is one line of an OpenClaw session log:
//
//	{"type":"message","message":{"role":"user","content":[{"type":"text","text":"..."}]}}
type logRecord struct {
	Type    string `json:"type"`
	Message *struct {
		Role    string       `json:"role"`
		Content spec.Content `json:"content"`
	} `json:"message"`
}

// ReadLog returns the newest lookback qualifying messages of the log at path,
// oldest first. Only "message" records from user or assistant with non-empty
// text qualify. A missing log yields no turns; malformed lines are skipped.
func ReadLog(path string, lookback int) []spec.Turn {
	turns := []spec.Turn{}
	if path == "" || lookback <= 0 {
		return turns
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return turns
	}

	lines := strings.Split(string(data), "\n")
	for i := len(lines) - 1; i >= 0 && len(turns) < lookback; i-- {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}
		var rec logRecord
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			continue
		}
		if rec.Type != "message" || rec.Message == nil {
			continue
		}
		role, ok := roleOf(rec.Message.Role)
		if !ok {
			continue
		}
		text := joinText(rec.Message.Content, false)
		if text == "" {
			continue
		}
		turns = append(turns, spec.Turn{Type: role, Text: truncateRunes(text, MaxTurnRunes)})
	}
	return reverse(turns)
}
