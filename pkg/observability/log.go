package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks writes every event to a logger at debug level. Failures are
// logged at warn level.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks returns hooks that log to logger. A nil logger uses
// log.Default().
func NewLogHooks(logger *log.Logger) *LogHooks {
	if logger == nil {
		logger = log.Default()
	}
	return &LogHooks{logger: logger.WithPrefix("hooks")}
}

// Install registers h for every hook category.
func (h *LogHooks) Install() {
	SetPipelineHooks(h)
	SetCacheHooks(h)
	SetLiveHooks(h)
}

func (h *LogHooks) OnParseStart(_ context.Context, format string, size int) {
	h.logger.Debug("parse start", "format", format, "bytes", size)
}

func (h *LogHooks) OnParseComplete(_ context.Context, format string, nodeCount, depth int, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("parse failed", "format", format, "duration", d, "err", err)
		return
	}
	h.logger.Debug("parse done", "format", format, "nodes", nodeCount, "depth", depth, "duration", d)
}

func (h *LogHooks) OnRenderStart(_ context.Context, formats []string) {
	h.logger.Debug("render start", "formats", formats)
}

func (h *LogHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("render failed", "formats", formats, "duration", d, "err", err)
		return
	}
	h.logger.Debug("render done", "formats", formats, "duration", d)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *LogHooks) OnUpdate(_ context.Context, source string, revision uint64, accepted bool, err error) {
	if err != nil {
		h.logger.Warn("update rejected", "source", source, "revision", revision, "err", err)
		return
	}
	h.logger.Debug("update", "source", source, "revision", revision, "accepted", accepted)
}

func (h *LogHooks) OnSubscribe(_ context.Context, topic string, delta int) {
	h.logger.Debug("subscribers", "topic", topic, "delta", delta)
}

var (
	_ PipelineHooks = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
	_ LiveHooks     = (*LogHooks)(nil)
)
