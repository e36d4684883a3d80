package config

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/gigakumar/ekupkaran-go/internal/domain"
	"github.com/gigakumar/ekupkaran-go/internal/pkg/filesystem"
	"github.com/gigakumar/ekupkaran-go/internal/ports"
)

// FileLoader loads YAML configuration from ~/.ekupkaran/config.yaml
// (overridable via EKUPKARAN_CONFIG).
type FileLoader struct {
	overridePath string
}

// NewFileLoader builds a new loader.
func NewFileLoader(path string) *FileLoader {
	return &FileLoader{overridePath: path}
}

// Load implements ports.ConfigProvider.
func (l *FileLoader) Load(context.Context) (domain.Config, error) {
	path := l.resolvePath()
	if err := ensureConfigDir(path); err != nil {
		return domain.Config{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := defaultConfig()
			if err := writeDefault(path, cfg); err != nil {
				return domain.Config{}, err
			}
			return cfg, nil
		}
		return domain.Config{}, err
	}

	var cfg domain.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return domain.Config{}, err
	}

	return hydrateDefaults(cfg), nil
}

// Path reports the config file location currently in effect.
func (l *FileLoader) Path() string {
	return l.resolvePath()
}

func (l *FileLoader) resolvePath() string {
	if l.overridePath != "" {
		return l.overridePath
	}
	if custom := os.Getenv("EKUPKARAN_CONFIG"); custom != "" {
		return expandPath(custom)
	}
	return filepath.Join(filesystem.UserHomeDir(), ".ekupkaran", "config.yaml")
}

func ensureConfigDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, domain.DirectoryPermissions)
}

func writeDefault(path string, cfg domain.Config) error {
	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, domain.SecureFilePermissions)
}

func defaultConfig() domain.Config {
	baseURL := domain.DefaultBaseURL
	if env := os.Getenv(domain.BackendEnvVar); env != "" {
		baseURL = env
	}
	return domain.Config{
		ConfigFormatVersion: "1",
		Daemon: domain.DaemonSettings{
			BaseURL:        baseURL,
			TimeoutSeconds: int(domain.DefaultRequestTimeout.Seconds()),
		},
		History: domain.HistorySettings{
			Enabled: true,
			Limit:   domain.DefaultHistoryLimit,
		},
	}
}

func hydrateDefaults(cfg domain.Config) domain.Config {
	if cfg.Daemon.BaseURL == "" {
		if env := os.Getenv(domain.BackendEnvVar); env != "" {
			cfg.Daemon.BaseURL = env
		} else {
			cfg.Daemon.BaseURL = domain.DefaultBaseURL
		}
	}
	if cfg.Daemon.TimeoutSeconds == 0 {
		cfg.Daemon.TimeoutSeconds = int(domain.DefaultRequestTimeout.Seconds())
	}
	if cfg.History.Limit == 0 {
		cfg.History.Limit = domain.DefaultHistoryLimit
	}
	return cfg
}

func expandPath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if len(path) > 1 && path[:2] == "~/" {
		return filepath.Join(filesystem.UserHomeDir(), path[2:])
	}
	return filepath.Clean(path)
}

var _ ports.ConfigProvider = (*FileLoader)(nil)
