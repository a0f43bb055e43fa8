// Package config loads the hook's YAML configuration.
//
// Files are layered: built-in defaults, then ~/.config/reflex/hook.yaml, then
// an explicit file. Later files override only the fields they set. A missing
// or malformed file never fails the load; it is reported and skipped.
package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/flexigpt/reflexhook-go/internal/transcript"
)

const (
	DefaultLogLevel  = "warn"
	DefaultLogFormat = "text"

	// DefaultRouterTimeout matches routerclient.DefaultTimeout.
	DefaultRouterTimeout = 15 * time.Second
)

type RouterConfig struct {
	// Binary pins the router executable. Empty means the documented search.
	Binary  string        `yaml:"binary,omitempty"`
	Timeout time.Duration `yaml:"timeout,omitempty"`
}

type Config struct {
	LogLevel  string       `yaml:"log_level,omitempty"`
	LogFormat string       `yaml:"log_format,omitempty"`
	Router    RouterConfig `yaml:"router,omitempty"`
	Lookback  int          `yaml:"lookback,omitempty"`
}

func Default() *Config {
	return &Config{
		LogLevel:  DefaultLogLevel,
		LogFormat: DefaultLogFormat,
		Router:    RouterConfig{Timeout: DefaultRouterTimeout},
		Lookback:  transcript.DefaultLookback,
	}
}

// GlobalPath returns ~/.config/reflex/hook.yaml, or "" without a home dir.
func GlobalPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ""
	}
	return filepath.Join(home, ".config", "reflex", "hook.yaml")
}

// Load merges the global file and then explicit (if non-empty) over defaults.
// A missing explicit file is reported; a missing global file is not.
func Load(explicit string, logger *slog.Logger) *Config {
	if logger == nil {
		logger = slog.Default()
	}
	explicit = strings.TrimSpace(explicit)
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			logger.Warn("config file not found", "path", explicit, "err", err)
		}
	}
	return LoadFiles(logger, GlobalPath(), explicit)
}

// LoadFiles merges each path in order over the defaults. Missing files are
// skipped silently; malformed ones are logged and skipped.
func LoadFiles(logger *slog.Logger, paths ...string) *Config {
	if logger == nil {
		logger = slog.Default()
	}
	cfg := Default()
	for _, p := range paths {
		if p == "" {
			continue
		}
		if err := merge(cfg, p); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			logger.Warn("ignoring malformed config", "path", p, "err", err)
		}
	}
	return cfg
}

func merge(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var overlay Config
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return err
	}
	if v := strings.TrimSpace(overlay.LogLevel); v != "" {
		cfg.LogLevel = v
	}
	if v := strings.TrimSpace(overlay.LogFormat); v != "" {
		cfg.LogFormat = v
	}
	if v := strings.TrimSpace(overlay.Router.Binary); v != "" {
		cfg.Router.Binary = v
	}
	if overlay.Router.Timeout > 0 {
		cfg.Router.Timeout = overlay.Router.Timeout
	}
	if overlay.Lookback > 0 {
		cfg.Lookback = overlay.Lookback
	}
	return nil
}
