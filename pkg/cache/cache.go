// Package cache stores parsed trees and rendered artifacts between runs.
//
// # Overview
//
// The pipeline caches two things: the wire form of a parsed tree, keyed by a
// hash of the document text and the parse options, and every rendered
// artifact (DOT, SVG), keyed by a hash of the tree and the render options.
// A repeated render of an unchanged document therefore skips decoding,
// tree building and Graphviz.
//
// # Backends
//
//   - [FileCache]: one JSON file per entry under the user cache directory (CLI default)
//   - [MemoryCache]: bounded LRU in process memory (server default)
//   - [RedisCache]: shared cache for several server instances
//   - [MongoCache]: shared cache with server-side expiry
//   - [NullCache]: caching disabled
//
// [Open] builds one of them from [Options].
//
// # Keys
//
// A [Keyer] turns content hashes and options into cache keys. The
// [DefaultKeyer] hashes every option that changes the output, so two runs
// that would produce different bytes never share a key. [ScopedKeyer]
// prefixes every key for isolation.
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with per-entry expiry. Implementations must be safe
// for concurrent use.
type Cache interface {
	// Get returns the entry for key. A missing or expired entry is a miss
	// (false, nil), not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero or less never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases connections or handles held by the cache.
	Close() error
}

// Clearer is implemented by caches that can drop every entry at once.
type Clearer interface {
	// Clear removes all entries and returns how many were removed, or -1
	// when the backend cannot count them.
	Clear(ctx context.Context) (int, error)
}

// Entry lifetimes.
const (
	// TTLTree is how long a parsed tree stays cached.
	TTLTree = 7 * 24 * time.Hour

	// TTLArtifact is how long a rendered artifact stays cached.
	TTLArtifact = 7 * 24 * time.Hour
)

// =============================================================================
// Keyer
// =============================================================================

// TreeKeyOpts are the parse options that change the tree built from a
// document.
type TreeKeyOpts struct {
	Format    string `json:"format"`
	MaxDepth  int    `json:"max_depth"`
	MaxLabel  int    `json:"max_label"`
	RootLabel string `json:"root_label"`
}

// ArtifactKeyOpts are the render options that change an artifact.
type ArtifactKeyOpts struct {
	Format    string  `json:"format"`
	Direction string  `json:"direction"`
	Detailed  bool    `json:"detailed"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
}

// Keyer generates cache keys.
type Keyer interface {
	// TreeKey returns the key for the tree parsed from a document whose
	// text hashes to contentHash.
	TreeKey(contentHash string, opts TreeKeyOpts) string

	// ArtifactKey returns the key for one rendered format of the tree
	// whose wire form hashes to treeHash.
	ArtifactKey(treeHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes the content hash together with the options.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// TreeKey implements [Keyer].
func (DefaultKeyer) TreeKey(contentHash string, opts TreeKeyOpts) string {
	return hashKey("tree", contentHash, opts)
}

// ArtifactKey implements [Keyer].
func (DefaultKeyer) ArtifactKey(treeHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", treeHash, opts)
}
