// Package config loads mcl.toml project configuration.
//
// A project file looks like:
//
//	[layout]
//	pitch = 5
//	isolated_column = -5
//
//	[cache]
//	backend = "redis"
//	redis_url = "redis://localhost:6379/0"
//	ttl = "24h"
//
//	[server]
//	addr = ":8080"
//
//	[output]
//	formats = ["json", "svg"]
//
// Every key is optional; missing keys keep the values of [Default]. Unknown
// keys are rejected so typos do not silently fall back to defaults.
package config

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/mcl/pkg/cache"
	"github.com/matzehuels/mcl/pkg/errors"
	"github.com/matzehuels/mcl/pkg/layout"
)

// FileName is the project configuration file name looked up by [Find].
const FileName = "mcl.toml"

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Formats lists the output formats accepted in [output] formats.
var Formats = []string{"json", "dot", "svg", "pdf", "png"}

// Config is the decoded mcl.toml.
type Config struct {
	Layout LayoutConfig `toml:"layout"`
	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`
	Output OutputConfig `toml:"output"`
}

// LayoutConfig mirrors [layout.Options].
type LayoutConfig struct {
	Pitch          int `toml:"pitch"`
	IsolatedColumn int `toml:"isolated_column"`
}

// CacheConfig selects and configures the compile cache.
type CacheConfig struct {
	Backend  string        `toml:"backend"`
	Dir      string        `toml:"dir"`
	RedisURL string        `toml:"redis_url"`
	TTL      time.Duration `toml:"ttl"`
}

// ServerConfig configures mcl serve.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// OutputConfig configures mcl compile.
type OutputConfig struct {
	Formats []string `toml:"formats"`
}

// Default returns the configuration used when no mcl.toml exists.
func Default() *Config {
	opts := layout.DefaultOptions()
	return &Config{
		Layout: LayoutConfig{Pitch: opts.Pitch, IsolatedColumn: opts.IsolatedX},
		Cache:  CacheConfig{Backend: BackendFile, TTL: 24 * time.Hour},
		Server: ServerConfig{Addr: ":8080"},
		Output: OutputConfig{Formats: []string{"json"}},
	}
}

// Load reads path on top of [Default] and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, cfg)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode %s", path)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "%s: unknown key %q", path, undecoded[0].String())
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Find looks for mcl.toml in dir and its parents. It returns the path of the
// nearest file, or false when none exists up to the filesystem root.
func Find(dir string) (string, bool) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", false
	}
	for {
		path := filepath.Join(dir, FileName)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// Validate checks value ranges and cross-field requirements.
func (c *Config) Validate() error {
	if c.Layout.Pitch < 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "layout.pitch must be positive, got %d", c.Layout.Pitch)
	}
	switch c.Cache.Backend {
	case BackendFile:
		if c.Cache.Dir != "" {
			if err := errors.ValidatePath(c.Cache.Dir); err != nil {
				return err
			}
		}
	case BackendRedis:
		if err := errors.ValidateRedisURL(c.Cache.RedisURL); err != nil {
			return err
		}
	case BackendNone:
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "cache.backend must be one of file, redis, none; got %q", c.Cache.Backend)
	}
	if c.Cache.TTL < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.ttl cannot be negative")
	}
	for _, f := range c.Output.Formats {
		if !slices.Contains(Formats, f) {
			return errors.New(errors.ErrCodeInvalidConfig, "output.formats: unknown format %q", f)
		}
	}
	return nil
}

// LayoutOptions converts the [layout] section.
func (c *Config) LayoutOptions() layout.Options {
	return layout.Options{Pitch: c.Layout.Pitch, IsolatedX: c.Layout.IsolatedColumn}
}

// OpenCache opens the configured backend. defaultDir is used by the file
// backend when cache.dir is empty.
func (c *Config) OpenCache(ctx context.Context, defaultDir string) (cache.Cache, error) {
	switch c.Cache.Backend {
	case BackendRedis:
		return cache.NewRedisCache(ctx, c.Cache.RedisURL)
	case BackendNone:
		return cache.NewNullCache(), nil
	}
	dir := c.Cache.Dir
	if dir == "" {
		dir = defaultDir
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "open cache dir %s", dir)
	}
	return fc, nil
}
