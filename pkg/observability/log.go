package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks implements every hook interface by writing debug records to a
// logger. The CLI registers it in verbose mode.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks returns hooks writing to logger.
func NewLogHooks(logger *log.Logger) *LogHooks {
	return &LogHooks{logger: logger}
}

// Register installs h as the pipeline, cache and server hooks.
func (h *LogHooks) Register() {
	SetPipelineHooks(h)
	SetCacheHooks(h)
	SetServerHooks(h)
}

func (h *LogHooks) OnAnalyzeStart(_ context.Context, source string) {
	h.logger.Debug("analyze start", "source", source)
}

func (h *LogHooks) OnAnalyzeComplete(_ context.Context, source string, errorCount int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("analyze failed", "source", source, "errors", errorCount, "duration", d, "err", err)
		return
	}
	h.logger.Debug("analyze done", "source", source, "duration", d)
}

func (h *LogHooks) OnLayoutStart(_ context.Context, name string, nodeCount int) {
	h.logger.Debug("layout start", "microcontroller", name, "nodes", nodeCount)
}

func (h *LogHooks) OnLayoutComplete(_ context.Context, name string, islands int, d time.Duration) {
	h.logger.Debug("layout done", "microcontroller", name, "islands", islands, "duration", d)
}

func (h *LogHooks) OnRenderStart(_ context.Context, format string) {
	h.logger.Debug("render start", "format", format)
}

func (h *LogHooks) OnRenderComplete(_ context.Context, format string, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("render failed", "format", format, "err", err)
		return
	}
	h.logger.Debug("render done", "format", format, "duration", d)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "key", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "key", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "key", keyType, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, method, path string) {
	h.logger.Debug("request", "method", method, "path", path)
}

func (h *LogHooks) OnResponse(_ context.Context, method, path string, status int, d time.Duration) {
	h.logger.Debug("response", "method", method, "path", path, "status", status, "duration", d)
}

var (
	_ PipelineHooks = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
	_ ServerHooks   = (*LogHooks)(nil)
)
