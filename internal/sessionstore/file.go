package sessionstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/flexigpt/reflexhook-go/internal/pathutil"
	"github.com/flexigpt/reflexhook-go/spec"
)

// StateDir is the workspace-relative directory holding session files.
var StateDir = filepath.Join(".reflex", ".state")

// FileStore keeps each session in <workspace>/.reflex/.state/<id>.json.
// Concurrent writers of one session are not coordinated; the last rename wins.
type FileStore struct{}

func NewFileStore() *FileStore { return &FileStore{} }

// Path returns the state file for key.
func (s *FileStore) Path(key spec.SessionKey) (string, error) {
	ws := strings.TrimSpace(key.WorkspaceDir)
	if ws == "" {
		return "", fmt.Errorf("%w: empty workspace", spec.ErrInvalidArgument)
	}
	p, err := pathutil.JoinUnderRoot(filepath.Join(ws, StateDir), pathutil.SafeFileName(key.ID)+".json")
	if err != nil {
		return "", fmt.Errorf("%w: %w", spec.ErrInvalidArgument, err)
	}
	return p, nil
}

func (s *FileStore) Load(ctx context.Context, key spec.SessionKey) (spec.SessionState, error) {
	if err := ctx.Err(); err != nil {
		return spec.NewSessionState(), err
	}
	p, err := s.Path(key)
	if err != nil {
		return spec.NewSessionState(), err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return spec.NewSessionState(), nil
		}
		return spec.NewSessionState(), err
	}
	var st spec.SessionState
	if err := json.Unmarshal(data, &st); err != nil {
		return spec.NewSessionState(), fmt.Errorf("decode %s: %w", p, err)
	}
	return st.Clone(), nil
}

func (s *FileStore) Save(ctx context.Context, key spec.SessionKey, state spec.SessionState) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", spec.ErrPersistFailed, err)
	}
	p, err := s.Path(key)
	if err != nil {
		return fmt.Errorf("%w: %w", spec.ErrPersistFailed, err)
	}
	data, err := json.Marshal(state.Clone())
	if err != nil {
		return fmt.Errorf("%w: %w", spec.ErrPersistFailed, err)
	}

	dir := filepath.Dir(p)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: %s: %w", spec.ErrPersistFailed, key.ID, err)
	}
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: %s: %w", spec.ErrPersistFailed, key.ID, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: %s: %w", spec.ErrPersistFailed, key.ID, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: %s: %w", spec.ErrPersistFailed, key.ID, err)
	}
	if err := os.Rename(tmpName, p); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: %s: %w", spec.ErrPersistFailed, key.ID, err)
	}
	return nil
}

// Delete removes one session's file. A missing file is not an error.
func (s *FileStore) Delete(_ context.Context, key spec.SessionKey) error {
	p, err := s.Path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete %s: %w", key.ID, err)
	}
	return nil
}

// Clear removes the whole state directory of a workspace.
func (s *FileStore) Clear(_ context.Context, workspace string) error {
	workspace = strings.TrimSpace(workspace)
	if workspace == "" {
		return fmt.Errorf("%w: empty workspace", spec.ErrInvalidArgument)
	}
	if err := os.RemoveAll(filepath.Join(workspace, StateDir)); err != nil {
		return fmt.Errorf("clear state: %w", err)
	}
	return nil
}
