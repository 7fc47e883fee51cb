// Package observability lets binaries observe compilation, cache and HTTP
// activity.
//
// Instrumentation is optional: the compiler emits events through small hook
// interfaces whose defaults do nothing. Binaries register implementations at
// startup, for example a logger in verbose CLI mode or a metrics exporter in
// the HTTP service.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetPipelineHooks(&myPipelineHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Pipeline().OnAnalyzeStart(ctx, source)
//	// ... analyze ...
//	observability.Pipeline().OnAnalyzeComplete(ctx, source, errorCount, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// PipelineHooks receives events from the compile pipeline.
type PipelineHooks interface {
	// Analysis events. source names the compiled syntax tree.
	OnAnalyzeStart(ctx context.Context, source string)
	OnAnalyzeComplete(ctx context.Context, source string, errorCount int, duration time.Duration, err error)

	// Layout events, once per microcontroller.
	OnLayoutStart(ctx context.Context, name string, nodeCount int)
	OnLayoutComplete(ctx context.Context, name string, islands int, duration time.Duration)

	// Render events
	OnRenderStart(ctx context.Context, format string)
	OnRenderComplete(ctx context.Context, format string, duration time.Duration, err error)
}

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// ServerHooks receives events from the HTTP service.
type ServerHooks interface {
	// OnRequest records an incoming request.
	OnRequest(ctx context.Context, method, path string)

	// OnResponse records a completed response.
	OnResponse(ctx context.Context, method, path string, statusCode int, duration time.Duration)
}

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnAnalyzeStart(context.Context, string) {}
func (NoopPipelineHooks) OnAnalyzeComplete(context.Context, string, int, time.Duration, error) {
}
func (NoopPipelineHooks) OnLayoutStart(context.Context, string, int)                     {}
func (NoopPipelineHooks) OnLayoutComplete(context.Context, string, int, time.Duration)   {}
func (NoopPipelineHooks) OnRenderStart(context.Context, string)                          {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, string, time.Duration, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopServerHooks is a no-op implementation of ServerHooks.
type NoopServerHooks struct{}

func (NoopServerHooks) OnRequest(context.Context, string, string)                      {}
func (NoopServerHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// registry holds the active hooks. A nil registration is ignored so
// callers never see a nil hook.
type registry struct {
	mu       sync.RWMutex
	pipeline PipelineHooks
	cache    CacheHooks
	server   ServerHooks
}

var hooks = registry{
	pipeline: NoopPipelineHooks{},
	cache:    NoopCacheHooks{},
	server:   NoopServerHooks{},
}

func (r *registry) update(fn func()) {
	r.mu.Lock()
	fn()
	r.mu.Unlock()
}

// SetPipelineHooks registers pipeline hooks. Call it at startup, before the
// first compilation.
func SetPipelineHooks(h PipelineHooks) {
	if h != nil {
		hooks.update(func() { hooks.pipeline = h })
	}
}

// SetCacheHooks registers cache hooks.
func SetCacheHooks(h CacheHooks) {
	if h != nil {
		hooks.update(func() { hooks.cache = h })
	}
}

// SetServerHooks registers HTTP service hooks.
func SetServerHooks(h ServerHooks) {
	if h != nil {
		hooks.update(func() { hooks.server = h })
	}
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks {
	hooks.mu.RLock()
	defer hooks.mu.RUnlock()
	return hooks.pipeline
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooks.mu.RLock()
	defer hooks.mu.RUnlock()
	return hooks.cache
}

// Server returns the registered HTTP service hooks.
func Server() ServerHooks {
	hooks.mu.RLock()
	defer hooks.mu.RUnlock()
	return hooks.server
}

// Reset restores the no-op hooks. Tests call it in cleanup.
func Reset() {
	hooks.update(func() {
		hooks.pipeline = NoopPipelineHooks{}
		hooks.cache = NoopCacheHooks{}
		hooks.server = NoopServerHooks{}
	})
}
