// Package config loads project settings from a .codemap.toml file at the
// indexed root. Every field has a working default so the file is optional.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// FileName is the per-project configuration file looked up at the root.
const FileName = ".codemap.toml"

type Config struct {
	// Database is the SQLite index location, relative to the project root.
	Database string `toml:"database"`

	// Languages restricts indexing to the named parsers (lower-cased
	// parser names). Empty means all registered parsers.
	Languages []string `toml:"languages"`

	// HashedIDs makes symbol identities opaque SHA-1 digests instead of
	// readable path/block/category/name tuples.
	HashedIDs bool `toml:"hashed_ids"`

	// Exclude holds glob patterns matched against project-relative paths;
	// matching files are skipped during discovery.
	Exclude []string `toml:"exclude"`

	// Parallel toggles the multi-worker indexing pipeline.
	Parallel *bool `toml:"parallel"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Database: filepath.Join(".codemap", "index.db"),
	}
}

// Load reads root/.codemap.toml, falling back to defaults when the file is
// absent. A present but malformed file is an error.
func Load(root string) (*Config, error) {
	data, err := os.ReadFile(filepath.Join(root, FileName))
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if _, err := toml.Decode(string(data), cfg); err != nil {
		return nil, err
	}
	if cfg.Database == "" {
		cfg.Database = Default().Database
	}
	return cfg, nil
}

// ParallelEnabled resolves the optional parallel flag, defaulting to true.
func (c *Config) ParallelEnabled() bool {
	if c.Parallel == nil {
		return true
	}
	return *c.Parallel
}
