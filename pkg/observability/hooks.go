// Package observability lets graphize report what it is doing without
// depending on a metrics or tracing backend.
//
// The pipeline, the caches and live documents call the registered hooks.
// Nothing is registered by default, so every call is a no-op. The CLI
// installs [LogHooks] under --verbose; a deployment can install its own
// implementation at startup:
//
//	observability.NewLogHooks(logger).Install()
//
// Emitting an event:
//
//	observability.Pipeline().OnParseStart(ctx, "auto", len(text))
//	// ... decode and build ...
//	observability.Pipeline().OnParseComplete(ctx, "auto", nodes, depth, duration, err)
package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from the parse and render pipeline.
type PipelineHooks interface {
	// Parse events
	OnParseStart(ctx context.Context, format string, size int)
	OnParseComplete(ctx context.Context, format string, nodeCount, depth int, duration time.Duration, err error)

	// Render events
	OnRenderStart(ctx context.Context, formats []string)
	OnRenderComplete(ctx context.Context, formats []string, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations. keyType is "tree" or
// "artifact".
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// Live Hooks
// =============================================================================

// LiveHooks receives events about live documents: watched files and the
// document held by the server.
type LiveHooks interface {
	// OnUpdate records one update attempt. accepted is false when the text
	// failed to parse or the result was stale; err is set for failures.
	OnUpdate(ctx context.Context, source string, revision uint64, accepted bool, err error)

	// OnSubscribe records a client joining (delta 1) or leaving (delta -1)
	// an event stream.
	OnSubscribe(ctx context.Context, topic string, delta int)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPipelineHooks ignores pipeline events.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnParseStart(context.Context, string, int)                               {}
func (NoopPipelineHooks) OnParseComplete(context.Context, string, int, int, time.Duration, error) {}
func (NoopPipelineHooks) OnRenderStart(context.Context, []string)                                 {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, []string, time.Duration, error)        {}

// NoopCacheHooks ignores cache events.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopLiveHooks ignores live document events.
type NoopLiveHooks struct{}

func (NoopLiveHooks) OnUpdate(context.Context, string, uint64, bool, error) {}
func (NoopLiveHooks) OnSubscribe(context.Context, string, int)              {}

// =============================================================================
// Registry
// =============================================================================

// hookSet is replaced as a whole on every registration, so readers never
// lock.
type hookSet struct {
	pipeline PipelineHooks
	cache    CacheHooks
	live     LiveHooks
}

var registered atomic.Pointer[hookSet]

func init() { Reset() }

func noopSet() *hookSet {
	return &hookSet{pipeline: NoopPipelineHooks{}, cache: NoopCacheHooks{}, live: NoopLiveHooks{}}
}

// update applies change to a copy of the current set and publishes it.
func update(change func(*hookSet)) {
	for {
		old := registered.Load()
		next := *old
		change(&next)
		if registered.CompareAndSwap(old, &next) {
			return
		}
	}
}

// SetPipelineHooks registers h for pipeline events. A nil h is ignored.
func SetPipelineHooks(h PipelineHooks) {
	if h != nil {
		update(func(s *hookSet) { s.pipeline = h })
	}
}

// SetCacheHooks registers h for cache events. A nil h is ignored.
func SetCacheHooks(h CacheHooks) {
	if h != nil {
		update(func(s *hookSet) { s.cache = h })
	}
}

// SetLiveHooks registers h for live document events. A nil h is ignored.
func SetLiveHooks(h LiveHooks) {
	if h != nil {
		update(func(s *hookSet) { s.live = h })
	}
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks { return registered.Load().pipeline }

// Cache returns the registered cache hooks.
func Cache() CacheHooks { return registered.Load().cache }

// Live returns the registered live document hooks.
func Live() LiveHooks { return registered.Load().live }

// Reset unregisters every hook.
func Reset() { registered.Store(noopSet()) }
