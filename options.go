package reflexhook

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/flexigpt/reflexhook-go/internal/sessionstore"
	"github.com/flexigpt/reflexhook-go/spec"
)

type pipelineOptions struct {
	logger *slog.Logger
	store  sessionstore.Store
	router Router

	routerTimeout time.Duration
	routerBinary  string
	lookback      int
}

type Option func(*pipelineOptions) error

func WithLogger(l *slog.Logger) Option {
	return func(o *pipelineOptions) error {
		o.logger = l
		return nil
	}
}

// WithSessionStore replaces the default file-backed store.
func WithSessionStore(s sessionstore.Store) Option {
	return func(o *pipelineOptions) error {
		if s == nil {
			return fmt.Errorf("%w: nil session store", spec.ErrInvalidArgument)
		}
		o.store = s
		return nil
	}
}

// WithRouter replaces the subprocess router. WithRouterTimeout and
// WithRouterBinary are ignored when it is set.
func WithRouter(r Router) Option {
	return func(o *pipelineOptions) error {
		if r == nil {
			return fmt.Errorf("%w: nil router", spec.ErrInvalidArgument)
		}
		o.router = r
		return nil
	}
}

func WithRouterTimeout(d time.Duration) Option {
	return func(o *pipelineOptions) error {
		if d < 0 {
			return fmt.Errorf("%w: negative router timeout %v", spec.ErrInvalidArgument, d)
		}
		o.routerTimeout = d
		return nil
	}
}

// WithRouterBinary pins the router executable instead of searching for it.
func WithRouterBinary(path string) Option {
	return func(o *pipelineOptions) error {
		o.routerBinary = strings.TrimSpace(path)
		return nil
	}
}

// WithLookback sets how many conversation turns hosts collect. Zero keeps
// the default.
func WithLookback(n int) Option {
	return func(o *pipelineOptions) error {
		if n < 0 {
			return fmt.Errorf("%w: negative lookback %d", spec.ErrInvalidArgument, n)
		}
		o.lookback = n
		return nil
	}
}
