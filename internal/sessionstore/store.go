// Package sessionstore persists the per-session record of which documents and
// skills have already been injected.
//
// Two backings exist: FileStore keeps one JSON file per session under the
// workspace, MemoryStore keeps state for as long as its owner lives. Neither
// treats failures as fatal; Load always returns a usable state.
package sessionstore

import (
	"context"

	"github.com/flexigpt/reflexhook-go/spec"
)

// Store loads and saves session state.
//
// Load returns a fresh empty state when none exists or it cannot be read; the
// error is informational only. Save replaces the stored state.
type Store interface {
	Load(ctx context.Context, key spec.SessionKey) (spec.SessionState, error)
	Save(ctx context.Context, key spec.SessionKey, state spec.SessionState) error
}
