// Package config loads plugrel settings from .plugrel.yaml and the environment.
package config

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/indaco/plugrel/internal/core"
)

// FileName is the default configuration file looked up in the working directory.
const FileName = ".plugrel.yaml"

// ConfigFilePerm defines secure file permissions for config files (owner read/write only).
const ConfigFilePerm = core.PermOwnerRW

// Tag-exists policies.
const (
	TagExistsFail = "fail"
	TagExistsSkip = "skip"
)

// Environment variables that override file settings.
const (
	EnvManifest   = "PLUGREL_MANIFEST"
	EnvPluginsDir = "PLUGREL_PLUGINS_DIR"
	EnvRemote     = "PLUGREL_REMOTE"
)

// Config is the main configuration structure for plugrel.
type Config struct {
	Manifest       string   `yaml:"manifest"`
	PluginsDir     string   `yaml:"plugins-dir"`
	Descriptor     string   `yaml:"descriptor"`
	Remote         string   `yaml:"remote"`
	DefaultBranch  string   `yaml:"default-branch"`
	TagPrefix      string   `yaml:"tag-prefix"`
	CommitMessage  string   `yaml:"commit-message"`
	TagMessage     string   `yaml:"tag-message"`
	Annotate       bool     `yaml:"annotate"`
	TagExists      string   `yaml:"tag-exists"`
	MaxIncrements  int      `yaml:"max-increments"`
	StrictVersions bool     `yaml:"strict-versions"`
	StripFields    []string `yaml:"strip-fields,omitempty"`
	Theme          string   `yaml:"theme,omitempty"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Manifest:      "releases/plugins.json",
		PluginsDir:    "plugins",
		Descriptor:    "config.json",
		Remote:        "origin",
		DefaultBranch: "main",
		TagPrefix:     "v",
		CommitMessage: "chore: release {tag}",
		TagMessage:    "Release {version}",
		TagExists:     TagExistsFail,
		MaxIncrements: 1000,
	}
}

// LoadConfigFn is the loader used by the CLI; replaced in tests.
var LoadConfigFn = Load

// Load builds the configuration from defaults, the YAML file at path and the
// environment, in increasing priority. A missing file is not an error.
func Load(ctx context.Context, fsys core.FileSystem, path string) (*Config, error) {
	cfg := Default()

	data, err := fsys.ReadFile(ctx, path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read config %q: %w", path, err)
	case len(bytes.TrimSpace(data)) > 0:
		decoder := yaml.NewDecoder(bytes.NewReader(data), yaml.Strict())
		if err := decoder.Decode(cfg); err != nil {
			return nil, fmt.Errorf("invalid config %q: %w", path, err)
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	for _, p := range []struct {
		env    string
		target *string
	}{
		{EnvManifest, &cfg.Manifest},
		{EnvPluginsDir, &cfg.PluginsDir},
	} {
		v := os.Getenv(p.env)
		if v == "" {
			continue
		}
		clean, err := cleanPath(p.env, v)
		if err != nil {
			return err
		}
		*p.target = clean
	}

	if v := strings.TrimSpace(os.Getenv(EnvRemote)); v != "" {
		cfg.Remote = v
	}
	return nil
}

// cleanPath rejects relative paths with traversal (use absolute paths instead).
func cleanPath(name, value string) (string, error) {
	clean := filepath.Clean(value)
	if strings.Contains(clean, "..") {
		return "", fmt.Errorf("invalid %s: path traversal not allowed, use absolute path instead", name)
	}
	return clean, nil
}

// Save writes cfg as YAML to path.
func Save(ctx context.Context, fsys core.FileSystem, path string, cfg *Config) error {
	data, err := yaml.MarshalWithOptions(cfg, yaml.Indent(2), yaml.IndentSequence(true))
	if err != nil {
		return fmt.Errorf("failed to marshal config to %q: %w", path, err)
	}
	if err := fsys.WriteFile(ctx, path, data, ConfigFilePerm); err != nil {
		return fmt.Errorf("failed to write config to %q: %w", path, err)
	}
	return nil
}
