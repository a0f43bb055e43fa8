package reflexhook

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/flexigpt/reflexhook-go/internal/inject"
	"github.com/flexigpt/reflexhook-go/internal/registry"
	"github.com/flexigpt/reflexhook-go/internal/routerclient"
	"github.com/flexigpt/reflexhook-go/internal/sessionstore"
	"github.com/flexigpt/reflexhook-go/internal/transcript"
	"github.com/flexigpt/reflexhook-go/spec"
)

// Pipeline runs one routing pass per Invocation. It is safe for concurrent use
// when its store is.
type Pipeline struct {
	logger   *slog.Logger
	store    sessionstore.Store
	router   Router
	lookback int
}

// New builds a Pipeline. Without options it uses file-backed session state and
// the router binary found by the standard search.
func New(opts ...Option) (*Pipeline, error) {
	var o pipelineOptions
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&o); err != nil {
			return nil, err
		}
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	if o.store == nil {
		o.store = sessionstore.NewFileStore()
	}
	if o.router == nil {
		c := routerclient.New(
			routerclient.WithBinary(o.routerBinary),
			routerclient.WithTimeout(o.routerTimeout),
			routerclient.WithLogger(o.logger),
		)
		o.logger.Debug("router binary", "path", c.Binary())
		o.router = c
	}
	if o.lookback == 0 {
		o.lookback = transcript.DefaultLookback
	}
	return &Pipeline{
		logger:   o.logger,
		store:    o.store,
		router:   o.router,
		lookback: o.lookback,
	}, nil
}

// Lookback is the number of turns hosts should collect.
func (p *Pipeline) Lookback() int { return p.lookback }

// Run scans, routes and renders. Session state is only written when the
// decision adds something new.
func (p *Pipeline) Run(ctx context.Context, inv Invocation) Injection {
	ws := strings.TrimSpace(inv.WorkspaceDir)
	if ws == "" {
		p.logger.Debug("no workspace; skipping")
		return Injection{}
	}
	sessionID := strings.TrimSpace(inv.SessionID)
	if sessionID == "" {
		sessionID = DefaultSessionID
	}
	log := p.logger.With("workspace", ws, "session", sessionID)

	reg := registry.Scan(ctx, ws, log)
	if reg.Empty() {
		log.Debug("no documents or skills in workspace")
		return Injection{}
	}

	turns := []spec.Turn{}
	if inv.Transcript != nil {
		if t := inv.Transcript.Turns(ctx); t != nil {
			turns = t
		}
	}

	key := spec.SessionKey{WorkspaceDir: ws, ID: sessionID}
	state, err := p.store.Load(ctx, key)
	if err != nil {
		log.Warn("session state unreadable; starting fresh", "err", err)
	}
	state = state.Clone()

	req := spec.RouteRequest{
		Messages: turns,
		Registry: reg,
		Session:  state,
		Metadata: map[string]any{
			"request_id": uuid.Must(uuid.NewV7()).String(),
			"source":     inv.Source,
		},
	}

	start := time.Now()
	res := p.router.Route(ctx, req)
	d := res.Decided()
	if res.Err != nil {
		log.Debug("routing failed; injecting nothing", "err", res.Err)
	}
	if d.IsEmpty() {
		return Injection{}
	}

	if merged, changed := inject.Merge(state, d); changed {
		if err := p.store.Save(ctx, key, merged); err != nil {
			log.Warn("session state not saved", "err", err)
		}
	}

	out := Injection{
		Content: inject.Render(d),
		Docs:    inject.Dedupe(d.Docs),
		Skills:  inject.Dedupe(d.Skills),
	}
	log.Info("context injected",
		"docs", len(out.Docs),
		"skills", len(out.Skills),
		"latency", time.Since(start),
		"request_id", req.Metadata["request_id"],
	)
	return out
}
