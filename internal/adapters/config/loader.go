// Package config provides the configuration loader for assetcache.
package config

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"os"

	"go.trai.ch/assetcache/internal/core/domain"
	"go.trai.ch/assetcache/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultFilename is the configuration file looked up when no path is given.
	DefaultFilename = "assetcache.yaml"
	// EnvRoot overrides the cache root directory.
	EnvRoot = "ASSETCACHE_ROOT"
)

// FileConfigLoader implements ports.ConfigLoader using a YAML file.
type FileConfigLoader struct {
	Logger ports.Logger
	// LookupEnv defaults to os.LookupEnv.
	LookupEnv func(string) (string, bool)
}

// NewLoader creates a FileConfigLoader.
func NewLoader(log ports.Logger) *FileConfigLoader {
	return &FileConfigLoader{Logger: log, LookupEnv: os.LookupEnv}
}

// Load reads the configuration at path on top of the defaults, applies environment
// overrides and validates the result. A missing file yields the defaults.
func (l *FileConfigLoader) Load(path string) (domain.Config, error) {
	cfg := domain.DefaultConfig()

	if path != "" {
		if err := l.readFile(path, &cfg); err != nil {
			return domain.Config{}, err
		}
	}

	lookup := l.LookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}
	if root, ok := lookup(EnvRoot); ok && root != "" {
		cfg.RootDirectory = root
	}

	if err := cfg.Validate(); err != nil {
		return domain.Config{}, err
	}
	return cfg, nil
}

func (l *FileConfigLoader) readFile(path string, cfg *domain.Config) error {
	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			if l.Logger != nil {
				l.Logger.Debug("config file not found, using defaults", "path", path)
			}
			return nil
		}
		return zerr.With(zerr.Wrap(err, "failed to read config file"), "config_path", path)
	}

	file := Cachefile{Version: SchemaVersion, Cache: *cfg}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return errors.Join(domain.ErrInvalidConfig,
			zerr.With(zerr.Wrap(err, "failed to parse config file"), "config_path", path))
	}

	if file.Version != SchemaVersion {
		return errors.Join(domain.ErrInvalidConfig,
			zerr.With(zerr.New("unsupported config version"), "version", file.Version))
	}

	*cfg = file.Cache
	return nil
}
