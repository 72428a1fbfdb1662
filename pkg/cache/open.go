package cache

import (
	"context"
	"fmt"
	"strings"
)

// Backend names accepted by [Open].
const (
	BackendFile   = "file"
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
	BackendNone   = "none"
)

// Backends lists the backend names in display order.
var Backends = []string{BackendFile, BackendMemory, BackendRedis, BackendMongo, BackendNone}

// Options selects and configures a backend.
type Options struct {
	Backend    string
	Dir        string // file; empty uses DefaultDir
	MemorySize int    // memory
	Redis      RedisConfig
	Mongo      MongoConfig
}

// Open builds the backend named by opts.Backend. An empty name means file.
func Open(ctx context.Context, opts Options) (Cache, error) {
	switch strings.ToLower(opts.Backend) {
	case "", BackendFile:
		dir := opts.Dir
		if dir == "" {
			d, err := DefaultDir()
			if err != nil {
				return nil, fmt.Errorf("cache dir: %w", err)
			}
			dir = d
		}
		return nonNil(NewFileCache(dir))
	case BackendMemory:
		return nonNil(NewMemoryCache(opts.MemorySize))
	case BackendRedis:
		return nonNil(NewRedisCache(ctx, opts.Redis))
	case BackendMongo:
		return nonNil(NewMongoCache(ctx, opts.Mongo))
	case BackendNone:
		return NewNullCache(), nil
	default:
		return nil, fmt.Errorf("%w: %q (want one of %s)", ErrUnknownBackend, opts.Backend, strings.Join(Backends, ", "))
	}
}

// nonNil keeps a failed constructor from returning a typed nil Cache.
func nonNil[C Cache](c C, err error) (Cache, error) {
	if err != nil {
		return nil, err
	}
	return c, nil
}
