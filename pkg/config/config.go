// Package config loads graphize settings.
//
// Sources are layered, later ones winning:
//
//  1. built-in defaults
//  2. a TOML file (graphize.toml in the working directory, or --config)
//  3. GRAPHIZE_* environment variables
//  4. command-line flags that were set explicitly
//
// Keys are dotted paths. Environment variables map to them by dropping the
// prefix, lower-casing, and turning the first underscore into a dot:
// GRAPHIZE_CACHE_REDIS_ADDR sets cache.redis_addr.
//
// Flags map to keys through the table passed to [Load]; flags not in the
// table are ignored.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/matzehuels/graphize/pkg/cache"
	errs "github.com/matzehuels/graphize/pkg/errors"
	"github.com/matzehuels/graphize/pkg/pipeline"
	"github.com/matzehuels/graphize/pkg/tree"
)

// DefaultFile is the config file looked up in the working directory.
const DefaultFile = "graphize.toml"

// EnvPrefix prefixes every environment variable read.
const EnvPrefix = "GRAPHIZE_"

// Config holds all settings.
type Config struct {
	Cache  CacheConfig  `koanf:"cache"`
	Render RenderConfig `koanf:"render"`
	Label  LabelConfig  `koanf:"label"`
	Decode DecodeConfig `koanf:"decode"`
	Serve  ServeConfig  `koanf:"serve"`
	Watch  WatchConfig  `koanf:"watch"`

	// File is the config file that was loaded, empty if none.
	File string `koanf:"-"`
}

// CacheConfig selects and configures the cache backend.
type CacheConfig struct {
	Backend    string `koanf:"backend"` // file, memory, redis, mongo, none
	Dir        string `koanf:"dir"`
	MemorySize int    `koanf:"memory_size"`
	RedisAddr  string `koanf:"redis_addr"`
	MongoURI   string `koanf:"mongo_uri"`
}

// RenderConfig holds diagram defaults.
type RenderConfig struct {
	Direction string  `koanf:"direction"`
	Width     float64 `koanf:"width"`
	Height    float64 `koanf:"height"`
	Detailed  bool    `koanf:"detailed"`
}

// LabelConfig holds node label settings.
type LabelConfig struct {
	Max  int    `koanf:"max"`
	Root string `koanf:"root"`
}

// DecodeConfig holds decoder settings.
type DecodeConfig struct {
	Format   string `koanf:"format"`
	MaxDepth int    `koanf:"max_depth"`
}

// ServeConfig holds HTTP server settings.
type ServeConfig struct {
	Addr    string `koanf:"addr"`
	MaxBody int64  `koanf:"max_body"`
}

// WatchConfig holds file watching settings.
type WatchConfig struct {
	Debounce time.Duration `koanf:"debounce"`
	MaxWait  time.Duration `koanf:"max_wait"`
}

// Defaults returns the built-in settings as a flat key map.
func Defaults() map[string]any {
	return map[string]any{
		"cache.backend":     cache.BackendFile,
		"cache.dir":         "",
		"cache.memory_size": cache.DefaultMemorySize,
		"cache.redis_addr":  "",
		"cache.mongo_uri":   "",
		"render.direction":  string(pipeline.DefaultDirection),
		"render.width":      pipeline.DefaultWidth,
		"render.height":     pipeline.DefaultHeight,
		"render.detailed":   false,
		"label.max":         tree.DefaultMaxLabel,
		"label.root":        tree.DefaultRootLabel,
		"decode.format":     "auto",
		"decode.max_depth":  0,
		"serve.addr":        "127.0.0.1:8080",
		"serve.max_body":    int64(errs.MaxDocumentSize),
		"watch.debounce":    "150ms",
		"watch.max_wait":    "1s",
	}
}

// Load reads the layered configuration. path names the config file; empty
// means DefaultFile if it exists. flags and flagKeys may be nil.
func Load(path string, flags *pflag.FlagSet, flagKeys map[string]string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(Defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	loaded, err := loadFile(k, path)
	if err != nil {
		return nil, err
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	if flags != nil && len(flagKeys) > 0 {
		p := posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			key, ok := flagKeys[f.Name]
			if !ok {
				return "", nil
			}
			return key, posflag.FlagVal(flags, f)
		})
		if err := k.Load(p, nil); err != nil {
			return nil, fmt.Errorf("load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "invalid configuration")
	}
	cfg.File = loaded
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func loadFile(k *koanf.Koanf, path string) (string, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	if _, err := os.Stat(path); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", errs.Wrap(errs.ErrCodeFileNotFound, err, "config file %s", path)
	}
	if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
		return "", errs.Wrap(errs.ErrCodeInvalidInput, err, "config file %s", path)
	}
	return path, nil
}

// envKey maps GRAPHIZE_CACHE_REDIS_ADDR to cache.redis_addr.
func envKey(s string) string {
	return strings.Replace(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "_", ".", 1)
}

// Validate checks values that would otherwise only fail deep inside a
// command.
func (c *Config) Validate() error {
	if err := c.cacheBackend(); err != nil {
		return err
	}
	if err := pipeline.ValidateDirection(c.Render.Direction); err != nil {
		return err
	}
	if err := pipeline.ValidateInputFormat(c.Decode.Format); err != nil {
		return err
	}
	if err := errs.ValidateViewport(c.Render.Width, c.Render.Height); err != nil {
		return err
	}
	if c.Decode.MaxDepth < 0 {
		return errs.New(errs.ErrCodeInvalidInput, "decode.max_depth must not be negative")
	}
	if c.Watch.Debounce <= 0 {
		return errs.New(errs.ErrCodeInvalidInput, "watch.debounce must be positive")
	}
	return nil
}

func (c *Config) cacheBackend() error {
	b := strings.ToLower(c.Cache.Backend)
	if b == "" {
		return nil
	}
	for _, known := range cache.Backends {
		if b == known {
			return nil
		}
	}
	return errs.New(errs.ErrCodeInvalidInput, "unknown cache backend %q (want %s)", c.Cache.Backend, strings.Join(cache.Backends, ", "))
}

// CacheOptions returns the options for [cache.Open].
func (c *Config) CacheOptions() cache.Options {
	return cache.Options{
		Backend:    c.Cache.Backend,
		Dir:        c.Cache.Dir,
		MemorySize: c.Cache.MemorySize,
		Redis:      cache.RedisConfig{Addr: c.Cache.RedisAddr},
		Mongo:      cache.MongoConfig{URI: c.Cache.MongoURI},
	}
}

// PipelineOptions returns pipeline options carrying the configured
// defaults. Text and Formats are left for the caller.
func (c *Config) PipelineOptions() pipeline.Options {
	return pipeline.Options{
		Format:    c.Decode.Format,
		MaxDepth:  c.Decode.MaxDepth,
		MaxLabel:  c.Label.Max,
		RootLabel: c.Label.Root,
		Direction: c.Render.Direction,
		Width:     c.Render.Width,
		Height:    c.Render.Height,
		Detailed:  c.Render.Detailed,
	}
}
