package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/mcl/pkg/cache"
	"github.com/matzehuels/mcl/pkg/errors"
	"github.com/matzehuels/mcl/pkg/layout"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
	if got, want := cfg.LayoutOptions(), layout.DefaultOptions(); got != want {
		t.Errorf("LayoutOptions() = %+v, want %+v", got, want)
	}
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
[layout]
pitch = 7

[cache]
backend = "none"
ttl = "90m"

[output]
formats = ["json", "svg"]
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Layout.Pitch != 7 {
		t.Errorf("Layout.Pitch = %d, want 7", cfg.Layout.Pitch)
	}
	if cfg.Layout.IsolatedColumn != -5 {
		t.Errorf("Layout.IsolatedColumn = %d, want default -5", cfg.Layout.IsolatedColumn)
	}
	if cfg.Cache.TTL != 90*time.Minute {
		t.Errorf("Cache.TTL = %v, want 90m", cfg.Cache.TTL)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("Server.Addr = %q, want default", cfg.Server.Addr)
	}
	if len(cfg.Output.Formats) != 2 {
		t.Errorf("Output.Formats = %v, want [json svg]", cfg.Output.Formats)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		code errors.Code
	}{
		{name: "syntax", body: "[layout\npitch = 1", code: errors.ErrCodeInvalidConfig},
		{name: "unknown key", body: "[layout]\nspacing = 3", code: errors.ErrCodeInvalidConfig},
		{name: "zero pitch", body: "[layout]\npitch = 0", code: errors.ErrCodeInvalidConfig},
		{name: "bad backend", body: "[cache]\nbackend = \"memcached\"", code: errors.ErrCodeInvalidConfig},
		{name: "redis without url", body: "[cache]\nbackend = \"redis\"", code: errors.ErrCodeInvalidConfig},
		{name: "redis bad scheme", body: "[cache]\nbackend = \"redis\"\nredis_url = \"http://x\"", code: errors.ErrCodeInvalidConfig},
		{name: "traversal dir", body: "[cache]\ndir = \"../escape\"", code: errors.ErrCodeInvalidPath},
		{name: "unknown format", body: "[output]\nformats = [\"xml\"]", code: errors.ErrCodeInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, t.TempDir(), tt.body))
			if !errors.Is(err, tt.code) {
				t.Errorf("Load() error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), FileName))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Load() error = %v, want %s", err, errors.ErrCodeFileNotFound)
	}
}

func TestFind(t *testing.T) {
	root := t.TempDir()
	want := writeConfig(t, root, "")
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}

	got, ok := Find(nested)
	if !ok {
		t.Fatal("Find() = false, want true")
	}
	if got != want {
		t.Errorf("Find() = %q, want %q", got, want)
	}
}

func TestOpenCache(t *testing.T) {
	ctx := context.Background()

	cfg := Default()
	cfg.Cache.Backend = BackendNone
	c, err := cfg.OpenCache(ctx, t.TempDir())
	if err != nil {
		t.Fatalf("OpenCache(none) error = %v", err)
	}
	if _, ok := c.(cache.NullCache); !ok {
		t.Errorf("OpenCache(none) = %T, want cache.NullCache", c)
	}

	dir := filepath.Join(t.TempDir(), "cache")
	cfg.Cache.Backend = BackendFile
	c, err = cfg.OpenCache(ctx, dir)
	if err != nil {
		t.Fatalf("OpenCache(file) error = %v", err)
	}
	fc, ok := c.(*cache.FileCache)
	if !ok {
		t.Fatalf("OpenCache(file) = %T, want *cache.FileCache", c)
	}
	if fc.Dir() != dir {
		t.Errorf("Dir() = %q, want %q", fc.Dir(), dir)
	}
}
