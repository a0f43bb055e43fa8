package routerclient

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

const (
	// BinaryName is the router executable looked up on PATH and in the
	// well-known install directories.
	BinaryName = "reflex"

	// EnvBinary overrides every other lookup when set.
	EnvBinary = "REFLEX_BIN"
)

// Resolver locates the router binary. The zero value uses the real
// environment and filesystem.
type Resolver struct {
	Getenv   func(string) string
	LookPath func(string) (string, error)
	HomeDir  func() (string, error)
	Stat     func(string) (os.FileInfo, error)
}

// Resolve returns, in order: $REFLEX_BIN; "reflex" on PATH; the first
// executable among ~/go/bin, ~/.local/bin, /opt/homebrew/bin and
// /usr/local/bin; otherwise the bare name, leaving a spawn failure to report
// the absence.
func (r Resolver) Resolve() string {
	getenv := r.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	lookPath := r.LookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	homeDir := r.HomeDir
	if homeDir == nil {
		homeDir = os.UserHomeDir
	}
	stat := r.Stat
	if stat == nil {
		stat = os.Stat
	}

	if v := strings.TrimSpace(getenv(EnvBinary)); v != "" {
		return v
	}
	if p, err := lookPath(BinaryName); err == nil && p != "" {
		return p
	}

	var candidates []string
	if home, err := homeDir(); err == nil && home != "" {
		candidates = append(candidates,
			filepath.Join(home, "go", "bin", BinaryName),
			filepath.Join(home, ".local", "bin", BinaryName),
		)
	}
	candidates = append(candidates,
		filepath.Join("/opt/homebrew/bin", BinaryName),
		filepath.Join("/usr/local/bin", BinaryName),
	)
	for _, c := range candidates {
		fi, err := stat(c)
		if err != nil || !fi.Mode().IsRegular() || fi.Mode().Perm()&0o111 == 0 {
			continue
		}
		return c
	}
	return BinaryName
}
