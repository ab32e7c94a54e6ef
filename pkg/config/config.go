// Package config persists the registry of skill sources and resolves the
// on-disk locations used by the tool.
//
// The sources registry is a small JSON document of the form
// {"sources": {"name": "url"}}. It is read and written whole; a missing or
// unreadable file falls back to the default registry with a logged warning
// rather than failing the command.
package config

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/antigravity-tools/antigravity-skills/pkg/logger"
)

// DefaultSourceName is the source preferred when none is specified.
const DefaultSourceName = "anthropics"

const defaultSourceURL = "https://github.com/anthropics/skills"

// Config is the persisted source registry.
type Config struct {
	Sources map[string]string `json:"sources"`
}

// Default returns a registry containing only the default source.
func Default() *Config {
	return &Config{
		Sources: map[string]string{
			DefaultSourceName: defaultSourceURL,
		},
	}
}

// Load reads the registry from path. A missing file, malformed JSON, or a
// document without a sources mapping all yield the default registry; only
// the latter two warn.
func Load(ctx context.Context, path string) *Config {
	log := logger.G(ctx)

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.WithError(err).Warn("could not read config file, using defaults")
		}
		return Default()
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		log.WithError(err).WithField("path", path).Warn("could not parse config file, using defaults")
		return Default()
	}
	if cfg.Sources == nil {
		log.WithField("path", path).Warn("config file has no sources mapping, using defaults")
		return Default()
	}

	return &cfg
}

// Save writes the registry to path, creating parent directories as needed.
// The file is overwritten whole.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "failed to create config directory")
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to encode config")
	}

	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return errors.Wrap(err, "failed to write config file")
	}
	return nil
}

// SourceNames returns the registered source names in sorted order.
func (c *Config) SourceNames() []string {
	names := make([]string, 0, len(c.Sources))
	for name := range c.Sources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve looks up a source by name.
func (c *Config) Resolve(name string) (string, error) {
	url, ok := c.Sources[name]
	if !ok {
		return "", errors.Errorf("source '%s' not found in config", name)
	}
	return url, nil
}

// DefaultSource picks the source used when none is named: "anthropics" when
// registered, otherwise the first registered source in sorted order.
func (c *Config) DefaultSource() (string, string, error) {
	if url, ok := c.Sources[DefaultSourceName]; ok {
		return DefaultSourceName, url, nil
	}

	names := c.SourceNames()
	if len(names) == 0 {
		return "", "", errors.New("no sources registered")
	}
	return names[0], c.Sources[names[0]], nil
}

// SourceNameFromURL derives a source name from a repository URL: the last
// path segment with any ".git" suffix stripped.
func SourceNameFromURL(url string) string {
	segments := strings.Split(url, "/")
	name := segments[len(segments)-1]
	return strings.TrimSuffix(name, ".git")
}
