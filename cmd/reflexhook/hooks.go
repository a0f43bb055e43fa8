package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	reflexhook "github.com/flexigpt/reflexhook-go"
)

// maxTurnLine bounds one JSONL request of the turn command.
const maxTurnLine = 16 << 20

func bootstrapCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "bootstrap",
		Short: "OpenClaw agent:bootstrap hook",
		Long: `Reads an agent bootstrap event (or its bare context) on stdin and writes
the context back with an injected AGENTS.md appended to bootstrapFiles when
the router selects anything. Unknown fields are passed through unchanged.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			raw, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("read stdin: %w", err)
			}
			p, err := a.pipeline()
			if err != nil {
				return err
			}
			out, err := runBootstrap(cmd, reflexhook.NewBootstrapHook(p), raw)
			if err != nil {
				a.logger.Warn("bootstrap input ignored", "err", err)
				return nil
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
}

// runBootstrap returns the (possibly extended) context as JSON.
func runBootstrap(cmd *cobra.Command, h *reflexhook.BootstrapHook, raw []byte) ([]byte, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(raw, &top); err != nil {
		return nil, err
	}

	ctxRaw := raw
	var ev reflexhook.BootstrapEvent
	_, isEvent := top["context"]
	if isEvent {
		if err := json.Unmarshal(raw, &ev); err != nil {
			return nil, err
		}
		ctxRaw = top["context"]
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(ctxRaw, &fields); err != nil {
		return nil, err
	}
	var bc reflexhook.BootstrapContext
	if err := json.Unmarshal(ctxRaw, &bc); err != nil {
		return nil, err
	}

	before := len(bc.BootstrapFiles)
	if isEvent {
		ev.Context = &bc
		h.HandleEvent(cmd.Context(), &ev)
	} else {
		h.Handle(cmd.Context(), &bc)
	}
	if len(bc.BootstrapFiles) != before {
		files, err := json.Marshal(bc.BootstrapFiles)
		if err != nil {
			return nil, err
		}
		fields["bootstrapFiles"] = files
	}

	out, err := json.Marshal(fields)
	if err != nil {
		return nil, err
	}
	return append(out, '\n'), nil
}

type turnRequest struct {
	Context reflexhook.BeforeTurnContext `json:"context"`
	Event   reflexhook.BeforeTurnEvent   `json:"event"`
}

func turnCmd(a *app) *cobra.Command {
	var (
		maxSessions int
		sessionTTL  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "turn",
		Short: "OpenClaw before_agent_start plugin loop",
		Long: `Reads one {"context":...,"event":...} JSON object per line and writes one
result per line: {"prependContext":"..."} or {} when nothing is injected.
Injected-so-far state is kept in memory for the life of the process.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			h, err := reflexhook.NewBeforeTurnHook(a.pipelineOptions()...)
			if err != nil {
				return err
			}
			if maxSessions > 0 {
				h.Store().SetMaxSessions(maxSessions)
			}
			if sessionTTL > 0 {
				h.Store().SetTTL(sessionTTL)
			}

			sc := bufio.NewScanner(cmd.InOrStdin())
			sc.Buffer(make([]byte, 0, 64<<10), maxTurnLine)
			w := bufio.NewWriter(cmd.OutOrStdout())
			for sc.Scan() {
				line := bytes.TrimSpace(sc.Bytes())
				if len(line) == 0 {
					continue
				}
				var out any = struct{}{}
				var req turnRequest
				if err := json.Unmarshal(line, &req); err != nil {
					a.logger.Warn("turn request ignored", "err", err)
				} else if res := h.Handle(cmd.Context(), req.Context, req.Event); res != nil {
					out = res
				}
				b, err := json.Marshal(out)
				if err != nil {
					return err
				}
				if _, err := w.Write(append(b, '\n')); err != nil {
					return err
				}
				if err := w.Flush(); err != nil {
					return err
				}
			}
			return sc.Err()
		},
	}

	cmd.Flags().IntVar(&maxSessions, "max-sessions", 0, "evict least recently used sessions beyond this many (0 = unbounded)")
	cmd.Flags().DurationVar(&sessionTTL, "session-ttl", 0, "forget sessions idle for longer than this (0 = never)")
	return cmd
}

func promptSubmitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "prompt-submit",
		Short: "Claude Code UserPromptSubmit hook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var in reflexhook.ClaudeHookInput
			if err := json.NewDecoder(cmd.InOrStdin()).Decode(&in); err != nil {
				a.logger.Debug("hook input ignored", "err", err)
				return nil
			}
			p, err := a.pipeline()
			if err != nil {
				return err
			}
			out := reflexhook.NewPromptSubmitHook(p).Handle(cmd.Context(), in)
			if out == nil {
				return nil
			}
			return json.NewEncoder(cmd.OutOrStdout()).Encode(out)
		},
	}
}

func cleanupCmd(a *app) *cobra.Command {
	var perSession bool

	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Claude Code SessionStart/SessionEnd hook that resets injected state",
		Long: `Removes <project>/.reflex/.state on SessionStart with source startup or
clear, and on SessionEnd. Compaction and resume keep the state.

With --session only the current session's state file is removed, and
SessionStart with source compact removes it as well.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var in reflexhook.ClaudeHookInput
			if err := json.NewDecoder(cmd.InOrStdin()).Decode(&in); err != nil {
				a.logger.Debug("hook input ignored", "err", err)
				return nil
			}
			c := reflexhook.NewSessionCleanup(a.logger)
			c.PerSession = perSession
			if c.Handle(cmd.Context(), in) {
				a.logger.Info("session state cleared",
					"event", in.HookEventName, "source", in.Source, "per_session", perSession)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&perSession, "session", false, "remove only the current session's state file")
	return cmd
}
