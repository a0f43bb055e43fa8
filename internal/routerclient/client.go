// Package routerclient runs the external router as a bounded subprocess:
// one JSON request on stdin, one JSON decision on stdout.
//
// Route never returns an error to the caller directly. Every failure is
// carried in spec.RouteResult and collapses to the empty decision, so a
// missing, slow or broken router never blocks the agent turn.
package routerclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/flexigpt/reflexhook-go/spec"
)

const (
	DefaultTimeout = 15 * time.Second

	// RouteSubcommand is the router's argv[1].
	RouteSubcommand = "route"

	stderrExcerptBytes = 200
	waitDelay          = 2 * time.Second
)

type Client struct {
	bin     string
	timeout time.Duration
	logger  *slog.Logger
}

type Option func(*Client)

// WithBinary pins the router executable and skips resolution.
func WithBinary(bin string) Option {
	return func(c *Client) { c.bin = strings.TrimSpace(bin) }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

func New(opts ...Option) *Client {
	c := &Client{timeout: DefaultTimeout, logger: slog.Default()}
	for _, o := range opts {
		if o != nil {
			o(c)
		}
	}
	if c.bin == "" {
		c.bin = Resolver{}.Resolve()
	}
	return c
}

// Binary is the router executable the client runs.
func (c *Client) Binary() string { return c.bin }

// Route sends req to the router and returns its decision. Missing "docs" or
// "skills" keys in the reply are treated as empty lists; identifiers are not
// validated against the registry.
func (c *Client) Route(ctx context.Context, req spec.RouteRequest) spec.RouteResult {
	start := time.Now()
	d, err := c.route(ctx, req)
	latency := time.Since(start)
	if err != nil {
		c.logger.Warn("router call failed", "bin", c.bin, "err", err, "latency", latency)
		return spec.RouteResult{Decision: spec.EmptyDecision(), Err: err}
	}
	c.logger.Debug("router decided",
		"bin", c.bin,
		"docs", len(d.Docs),
		"skills", len(d.Skills),
		"latency", latency,
	)
	return spec.RouteResult{Decision: d}
}

func (c *Client) route(ctx context.Context, req spec.RouteRequest) (spec.RouteDecision, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return spec.RouteDecision{}, fmt.Errorf("%w: encode request: %w", spec.ErrRouterUnavailable, err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, c.bin, RouteSubcommand)
	cmd.Stdin = bytes.NewReader(payload)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	// Grandchildren holding the pipes open must not outlive the deadline.
	cmd.WaitDelay = waitDelay

	if err := cmd.Start(); err != nil {
		return spec.RouteDecision{}, fmt.Errorf("%w: %s: %w", spec.ErrRouterUnavailable, c.bin, err)
	}
	if err := cmd.Wait(); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return spec.RouteDecision{}, fmt.Errorf("%w after %v", spec.ErrRouterTimeout, c.timeout)
		}
		if errors.Is(ctx.Err(), context.Canceled) {
			return spec.RouteDecision{}, fmt.Errorf("%w: %w", spec.ErrRouterUnavailable, ctx.Err())
		}
		return spec.RouteDecision{}, fmt.Errorf("%w: %w (stderr: %s)",
			spec.ErrRouterExit, err, excerpt(stderr.String(), stderrExcerptBytes))
	}

	return decode(stdout.Bytes())
}

func decode(out []byte) (spec.RouteDecision, error) {
	out = bytes.TrimSpace(out)
	if len(out) == 0 {
		return spec.RouteDecision{}, fmt.Errorf("%w: empty stdout", spec.ErrRouterOutput)
	}
	var d spec.RouteDecision
	if err := json.Unmarshal(out, &d); err != nil {
		return spec.RouteDecision{}, fmt.Errorf("%w: %w (stdout: %s)",
			spec.ErrRouterOutput, err, excerpt(string(out), stderrExcerptBytes))
	}
	return spec.RouteResult{Decision: d}.Decided(), nil
}

// excerpt trims s and cuts it to at most n bytes on a rune boundary.
func excerpt(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	cut := n
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
